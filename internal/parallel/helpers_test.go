package parallel

import (
	"testing"

	"github.com/gogpu/boxblur/pixbuf"
)

// noise fills a w x h buffer with a deterministic pseudo-random pattern.
func noise(t testing.TB, w, h int, seed uint32) *pixbuf.Buffer {
	t.Helper()
	b, err := pixbuf.New(w, h)
	if err != nil {
		t.Fatalf("pixbuf.New(%d, %d) error = %v", w, h, err)
	}
	s := seed | 1
	pix := b.Pixels()
	for i := range pix {
		// xorshift32
		s ^= s << 13
		s ^= s >> 17
		s ^= s << 5
		pix[i] = pixbuf.RGB(uint8(s), uint8(s>>8), uint8(s>>16))
	}
	return b
}

// mustGrid returns a grid or fails the test.
func mustGrid(t testing.TB, rows, cols int) Grid {
	t.Helper()
	g, err := NewGrid(rows, cols)
	if err != nil {
		t.Fatalf("NewGrid(%d, %d) error = %v", rows, cols, err)
	}
	return g
}

// gridSizes lists image sizes and grids exercised by the property tests,
// including odd and uneven dimensions.
var gridSizes = []struct {
	w, h       int
	rows, cols int
}{
	{1, 1, 1, 1},
	{5, 5, 1, 1},
	{5, 5, 2, 2},
	{4, 4, 2, 2},
	{7, 3, 3, 2},
	{9, 7, 2, 2},
	{2, 2, 2, 2},
	{3, 3, 3, 3},
	{16, 9, 3, 4},
	{17, 13, 4, 3},
	{31, 1, 1, 5},
	{1, 31, 5, 1},
	{64, 48, 2, 8},
	{10, 10, 1, 4},
}
