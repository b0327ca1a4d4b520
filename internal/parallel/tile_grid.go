package parallel

import (
	"errors"
	"fmt"
	"image"
	"math"
)

// Grid errors.
var (
	// ErrInvalidPartitions is returned for partition counts or grid
	// dimensions outside [1, MaxPartitions].
	ErrInvalidPartitions = errors.New("parallel: invalid partition count")

	// ErrImageTooSmall is returned when the image has fewer columns or rows
	// than the grid, which would leave a cell with an empty region.
	ErrImageTooSmall = errors.New("parallel: image too small for partition grid")
)

// MaxPartitions bounds the number of tiles in a grid.
const MaxPartitions = 4096

// Grid is a Rows x Cols partition of an image into tiles.
//
// Cell sizes along each axis are dim/parts, with the remainder dim%parts
// handed out one pixel each to the cells nearest the high-index edge. The
// assigned regions are therefore disjoint and cover the image exactly.
type Grid struct {
	Rows int
	Cols int
}

// NewGrid validates and returns a rows x cols grid.
func NewGrid(rows, cols int) (Grid, error) {
	if rows < 1 || cols < 1 || rows*cols > MaxPartitions {
		return Grid{}, fmt.Errorf("%w: %dx%d", ErrInvalidPartitions, rows, cols)
	}
	return Grid{Rows: rows, Cols: cols}, nil
}

// GridFor factors n into the grid that best fits a width x height image.
//
// Among all factor pairs rows*cols == n whose cells are at least one pixel in
// each direction, the pair whose cells are closest to square wins; ties go to
// the pair with more columns. A square image with n == 4 gets 2x2.
func GridFor(n, width, height int) (Grid, error) {
	if n < 1 || n > MaxPartitions {
		return Grid{}, fmt.Errorf("%w: %d", ErrInvalidPartitions, n)
	}

	best := Grid{}
	bestScore := math.Inf(1)
	for rows := 1; rows <= n; rows++ {
		if n%rows != 0 {
			continue
		}
		g := Grid{Rows: rows, Cols: n / rows}
		if g.Fits(width, height) != nil {
			continue
		}
		cellW := float64(width) / float64(g.Cols)
		cellH := float64(height) / float64(g.Rows)
		score := math.Abs(math.Log(cellW / cellH))
		// rows ascends, so strict < keeps the earlier (wider) grid on ties.
		if score < bestScore {
			best, bestScore = g, score
		}
	}

	if best.Rows == 0 {
		return Grid{}, fmt.Errorf("%w: %d partitions for %dx%d", ErrImageTooSmall, n, width, height)
	}
	return best, nil
}

// Partitions returns Rows*Cols.
func (g Grid) Partitions() int {
	return g.Rows * g.Cols
}

// String formats the grid as "RxC".
func (g Grid) String() string {
	return fmt.Sprintf("%dx%d", g.Rows, g.Cols)
}

// Fits reports whether every cell of g gets at least one pixel of a
// width x height image.
func (g Grid) Fits(width, height int) error {
	if g.Rows < 1 || g.Cols < 1 || g.Partitions() > MaxPartitions {
		return fmt.Errorf("%w: %s", ErrInvalidPartitions, g)
	}
	if width < g.Cols || height < g.Rows {
		return fmt.Errorf("%w: grid %s, image %dx%d", ErrImageTooSmall, g, width, height)
	}
	return nil
}

// Cell returns the assigned region of cell (gx, gy) in a width x height image.
// The caller must have checked Fits.
func (g Grid) Cell(gx, gy, width, height int) image.Rectangle {
	x, w := span(width, g.Cols, gx)
	y, h := span(height, g.Rows, gy)
	return image.Rect(x, y, x+w, y+h)
}

// Regions returns every cell's assigned region in row-major order
// (index = gy*Cols + gx).
func (g Grid) Regions(width, height int) ([]image.Rectangle, error) {
	if err := g.Fits(width, height); err != nil {
		return nil, err
	}
	regions := make([]image.Rectangle, 0, g.Partitions())
	for gy := range g.Rows {
		for gx := range g.Cols {
			regions = append(regions, g.Cell(gx, gy, width, height))
		}
	}
	return regions, nil
}

// span returns the start and length of part i when dim is split into parts.
// The last dim%parts parts are one pixel longer.
func span(dim, parts, i int) (start, size int) {
	base := dim / parts
	firstLong := parts - dim%parts
	if i < firstLong {
		return i * base, base
	}
	return i*base + (i - firstLong), base + 1
}
