package parallel

import (
	"fmt"
	"image"

	"github.com/gogpu/boxblur/pixbuf"
)

// Partition splits src into one tile per grid cell.
//
// Each tile receives a private copy of its region plus halo; src is only read.
// Tiles are returned in row-major grid order. On error no tile is returned
// and every buffer already taken from pool is released.
func Partition(src *pixbuf.Buffer, g Grid, pool *pixbuf.Pool) ([]*Tile, error) {
	if pool == nil {
		pool = pixbuf.DefaultPool()
	}

	width, height := src.Width(), src.Height()
	regions, err := g.Regions(width, height)
	if err != nil {
		return nil, err
	}

	tiles := make([]*Tile, 0, len(regions))
	for i, region := range regions {
		tile, err := cutTile(src, region, i%g.Cols, i/g.Cols, pool)
		if err != nil {
			Release(tiles, pool)
			return nil, err
		}
		tiles = append(tiles, tile)
	}
	return tiles, nil
}

// cutTile copies region plus halo out of src into a pooled buffer.
func cutTile(src *pixbuf.Buffer, region image.Rectangle, gx, gy int, pool *pixbuf.Pool) (*Tile, error) {
	width, height := src.Width(), src.Height()
	bounds := haloBounds(region, width, height)

	buf, err := pool.Get(bounds.Dx(), bounds.Dy())
	if err != nil {
		return nil, fmt.Errorf("parallel: allocate tile (%d,%d): %w", gx, gy, err)
	}
	if err := src.CropInto(buf, bounds.Min.X, bounds.Min.Y); err != nil {
		pool.Put(buf)
		return nil, fmt.Errorf("parallel: copy tile (%d,%d): %w", gx, gy, err)
	}

	tile := &Tile{
		GridX:        gx,
		GridY:        gy,
		GlobalWidth:  width,
		GlobalHeight: height,
		Bounds:       bounds,
		Region:       region,
		Pixels:       buf,
	}
	if err := tile.Validate(); err != nil {
		pool.Put(buf)
		return nil, err
	}
	return tile, nil
}

// Release returns every tile buffer to pool and clears the tiles' Pixels.
func Release(tiles []*Tile, pool *pixbuf.Pool) {
	if pool == nil {
		pool = pixbuf.DefaultPool()
	}
	for _, t := range tiles {
		if t != nil && t.Pixels != nil {
			pool.Put(t.Pixels)
			t.Pixels = nil
		}
	}
}
