package parallel

import (
	"context"
	"fmt"

	"github.com/gogpu/boxblur/internal/filter"
	"github.com/gogpu/boxblur/pixbuf"
)

// Kernel computes one output pixel from the tile buffer at local (x, y).
// edges carries the target's position relative to the global image borders.
type Kernel func(buf *pixbuf.Buffer, x, y int, edges filter.Edges) pixbuf.Pixel

// Box is the 3x3 mean stencil.
func Box(buf *pixbuf.Buffer, x, y int, edges filter.Edges) pixbuf.Pixel {
	n := filter.Gather(buf, x, y, edges)
	return filter.Mean(&n)
}

// Identity copies the target pixel unchanged. Processing tiles with Identity
// and reassembling them reproduces the source image.
func Identity(buf *pixbuf.Buffer, x, y int, _ filter.Edges) pixbuf.Pixel {
	p, _ := buf.At(x, y)
	return p
}

// BlurTile applies the box stencil to t. See ProcessTile.
func BlurTile(ctx context.Context, t *Tile, pool *pixbuf.Pool) error {
	return ProcessTile(ctx, t, Box, pool)
}

// ProcessTile evaluates k for every pixel of t's region, then replaces
// t.Pixels with the region-sized result and releases the halo-inclusive
// buffer to pool. ctx is checked between rows; on cancellation t is left
// unchanged.
//
// The caller must own t exclusively for the duration of the call.
func ProcessTile(ctx context.Context, t *Tile, k Kernel, pool *pixbuf.Pool) error {
	if pool == nil {
		pool = pixbuf.DefaultPool()
	}
	if t == nil {
		return fmt.Errorf("%w: nil tile", ErrGeometryMismatch)
	}
	if t.Blurred {
		return ErrAlreadyBlurred
	}
	if err := t.Validate(); err != nil {
		return err
	}

	out, err := pool.Get(t.Region.Dx(), t.Region.Dy())
	if err != nil {
		return err
	}

	for gy := t.Region.Min.Y; gy < t.Region.Max.Y; gy++ {
		if err := ctx.Err(); err != nil {
			pool.Put(out)
			return err
		}
		row := out.Row(gy - t.Region.Min.Y)
		for gx := t.Region.Min.X; gx < t.Region.Max.X; gx++ {
			x, y := t.Local(gx, gy)
			edges := filter.EdgesAt(gx, gy, t.GlobalWidth, t.GlobalHeight)
			row[gx-t.Region.Min.X] = k(t.Pixels, x, y, edges)
		}
	}

	pool.Put(t.Pixels)
	t.Pixels = out
	t.Bounds = t.Region
	t.Blurred = true
	return nil
}
