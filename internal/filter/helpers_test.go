package filter

import (
	"testing"

	"github.com/gogpu/boxblur/pixbuf"
)

// Test helper functions shared across filter tests.

// uniform creates a w x h buffer filled with p.
func uniform(t testing.TB, w, h int, p pixbuf.Pixel) *pixbuf.Buffer {
	t.Helper()
	b, err := pixbuf.New(w, h)
	if err != nil {
		t.Fatalf("pixbuf.New(%d, %d) error = %v", w, h, err)
	}
	b.Fill(p)
	return b
}

// noise fills a w x h buffer with a deterministic pseudo-random pattern.
func noise(t testing.TB, w, h int, seed uint32) *pixbuf.Buffer {
	t.Helper()
	b := uniform(t, w, h, pixbuf.Pixel{})
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
