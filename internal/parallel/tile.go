// Package parallel provides the tile-based parallel blur pipeline.
//
// The image is divided into a Rows x Cols grid of tiles. Each tile owns a
// private copy of its assigned region plus a one pixel halo on every side
// that does not touch a global image edge, so the 3x3 stencil can be applied
// to the whole region without reading any other tile's memory. Key stages:
//
//   - Partition: copy tiles out of the source buffer
//   - ProcessTile / BlurTile: run the stencil over one tile's region
//   - Run: fork-join dispatch of one goroutine per tile
//   - Reassemble: paste every tile's region into a fresh output buffer
//
// Thread safety: a Tile is owned by exactly one goroutine at a time. Run is
// the only function that touches several tiles concurrently, and it gives
// each goroutine a distinct tile.
package parallel

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/boxblur/pixbuf"
)

// Tile errors.
var (
	// ErrHaloMissing is returned when a tile's local buffer does not cover the
	// stencil reach of its assigned region.
	ErrHaloMissing = errors.New("parallel: tile halo does not cover stencil reach")

	// ErrGeometryMismatch is returned when tile bounds, region and buffer
	// dimensions disagree with each other or with the global image.
	ErrGeometryMismatch = errors.New("parallel: tile geometry mismatch")

	// ErrAlreadyBlurred is returned when a tile is processed twice.
	ErrAlreadyBlurred = errors.New("parallel: tile already processed")
)

// HaloWidth is the halo thickness required by the 3x3 stencil.
const HaloWidth = 1

// Tile is one cell of the partition grid together with its private pixels.
//
// Before processing, Pixels covers Bounds: the assigned Region grown by the
// halo where the region does not touch a global edge. After processing,
// Pixels covers exactly Region and Bounds equals Region.
type Tile struct {
	// GridX is the tile column index (0-based).
	GridX int

	// GridY is the tile row index (0-based).
	GridY int

	// GlobalWidth is the width of the full image in pixels.
	GlobalWidth int

	// GlobalHeight is the height of the full image in pixels.
	GlobalHeight int

	// Bounds is the global rectangle held in Pixels.
	Bounds image.Rectangle

	// Region is the global rectangle this tile produces output for.
	Region image.Rectangle

	// Pixels is the tile's own buffer; local (0,0) is Bounds.Min.
	Pixels *pixbuf.Buffer

	// Blurred is set once ProcessTile has replaced Pixels with the region.
	Blurred bool
}

// Width returns the width of the tile's local buffer.
func (t *Tile) Width() int {
	return t.Bounds.Dx()
}

// Height returns the height of the tile's local buffer.
func (t *Tile) Height() int {
	return t.Bounds.Dy()
}

// Halo returns the halo thickness on each side of the region.
func (t *Tile) Halo() (left, top, right, bottom int) {
	return t.Region.Min.X - t.Bounds.Min.X,
		t.Region.Min.Y - t.Bounds.Min.Y,
		t.Bounds.Max.X - t.Region.Max.X,
		t.Bounds.Max.Y - t.Region.Max.Y
}

// Local converts global coordinates to coordinates in Pixels.
func (t *Tile) Local(gx, gy int) (x, y int) {
	return gx - t.Bounds.Min.X, gy - t.Bounds.Min.Y
}

// Global converts coordinates in Pixels to global coordinates.
func (t *Tile) Global(x, y int) (gx, gy int) {
	return x + t.Bounds.Min.X, y + t.Bounds.Min.Y
}

// String identifies the tile by grid position.
func (t *Tile) String() string {
	return fmt.Sprintf("tile(%d,%d)", t.GridX, t.GridY)
}

// Validate checks the tile's geometry invariants: the buffer matches Bounds,
// Region lies inside Bounds and the image, and the halo is present on every
// side of an unprocessed tile that does not touch a global edge.
func (t *Tile) Validate() error {
	global := image.Rect(0, 0, t.GlobalWidth, t.GlobalHeight)

	switch {
	case t.Pixels == nil:
		return fmt.Errorf("%w: %s has no pixels", ErrGeometryMismatch, t)
	case t.Region.Empty():
		return fmt.Errorf("%w: %s has empty region", ErrGeometryMismatch, t)
	case t.Pixels.Width() != t.Width() || t.Pixels.Height() != t.Height():
		return fmt.Errorf("%w: %s buffer %dx%d, bounds %v",
			ErrGeometryMismatch, t, t.Pixels.Width(), t.Pixels.Height(), t.Bounds)
	case !t.Bounds.In(global):
		return fmt.Errorf("%w: %s bounds %v outside image %v", ErrGeometryMismatch, t, t.Bounds, global)
	case !t.Region.In(t.Bounds):
		return fmt.Errorf("%w: %s region %v outside bounds %v", ErrGeometryMismatch, t, t.Region, t.Bounds)
	}

	if t.Blurred {
		if t.Bounds != t.Region {
			return fmt.Errorf("%w: processed %s still holds halo", ErrGeometryMismatch, t)
		}
		return nil
	}

	left, top, right, bottom := t.Halo()
	if (t.Region.Min.X > 0 && left < HaloWidth) ||
		(t.Region.Min.Y > 0 && top < HaloWidth) ||
		(t.Region.Max.X < t.GlobalWidth && right < HaloWidth) ||
		(t.Region.Max.Y < t.GlobalHeight && bottom < HaloWidth) {
		return fmt.Errorf("%w: %s region %v bounds %v", ErrHaloMissing, t, t.Region, t.Bounds)
	}
	return nil
}

// haloBounds grows region by the halo and clips it to the image, so the halo
// only appears on sides that do not touch a global edge.
func haloBounds(region image.Rectangle, width, height int) image.Rectangle {
	return region.Inset(-HaloWidth).Intersect(image.Rect(0, 0, width, height))
}
