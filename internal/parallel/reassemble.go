package parallel

import (
	"errors"
	"fmt"

	"github.com/gogpu/boxblur/pixbuf"
)

// Reassembly errors.
var (
	// ErrNoTiles is returned when Reassemble receives no tiles.
	ErrNoTiles = errors.New("parallel: no tiles to reassemble")

	// ErrNotBlurred is returned when a tile still holds its halo.
	ErrNotBlurred = errors.New("parallel: tile not processed")

	// ErrOverlap is returned when two tiles claim the same output pixel.
	ErrOverlap = errors.New("parallel: tile regions overlap")

	// ErrIncompleteCoverage is returned when some output pixel has no tile.
	ErrIncompleteCoverage = errors.New("parallel: tile regions leave gaps")
)

// Reassemble pastes every processed tile's region into a new buffer of the
// global image size. The tiles are consumed: their buffers go back to pool
// and their Pixels are cleared, whether or not reassembly succeeds.
//
// Every output pixel must be written by exactly one tile; overlaps and gaps
// are partitioning defects and reported as errors.
func Reassemble(tiles []*Tile, pool *pixbuf.Pool) (*pixbuf.Buffer, error) {
	defer Release(tiles, pool)

	if len(tiles) == 0 {
		return nil, ErrNoTiles
	}
	for i, t := range tiles {
		if t == nil {
			return nil, fmt.Errorf("%w: nil tile at index %d", ErrGeometryMismatch, i)
		}
	}
	width, height := tiles[0].GlobalWidth, tiles[0].GlobalHeight

	out, err := pixbuf.New(width, height)
	if err != nil {
		return nil, err
	}
	covered := make([]bool, width*height)

	for _, t := range tiles {
		if !t.Blurred {
			return nil, fmt.Errorf("%w: %s", ErrNotBlurred, t)
		}
		if t.GlobalWidth != width || t.GlobalHeight != height {
			return nil, fmt.Errorf("%w: %s image %dx%d, want %dx%d",
				ErrGeometryMismatch, t, t.GlobalWidth, t.GlobalHeight, width, height)
		}
		if err := t.Validate(); err != nil {
			return nil, err
		}

		for y := t.Region.Min.Y; y < t.Region.Max.Y; y++ {
			for x := t.Region.Min.X; x < t.Region.Max.X; x++ {
				i := y*width + x
				if covered[i] {
					return nil, fmt.Errorf("%w: pixel (%d, %d) again in %s", ErrOverlap, x, y, t)
				}
				covered[i] = true
			}
		}
		if err := out.Paste(t.Pixels, t.Region.Min.X, t.Region.Min.Y); err != nil {
			return nil, err
		}
	}

	for i, ok := range covered {
		if !ok {
			return nil, fmt.Errorf("%w: pixel (%d, %d)", ErrIncompleteCoverage, i%width, i/width)
		}
	}
	return out, nil
}
