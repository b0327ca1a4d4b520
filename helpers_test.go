package boxblur

import (
	"bytes"
	"testing"

	"github.com/gogpu/boxblur/bmp"
	"github.com/gogpu/boxblur/pixbuf"
)

// gradient returns a w x h buffer whose channels vary with position.
func gradient(t testing.TB, w, h int) *pixbuf.Buffer {
	t.Helper()
	buf, err := pixbuf.New(w, h)
	if err != nil {
		t.Fatal(err)
	}
	for y := range h {
		for x := range w {
			p := pixbuf.RGB(uint8(x*13+y*7), uint8(x*x+y), uint8(255-y*11)) //nolint:gosec // test data
			if err := buf.Set(x, y, p); err != nil {
				t.Fatal(err)
			}
		}
	}
	return buf
}

// encoded returns buf as bitmap file bytes.
func encoded(t testing.TB, buf *pixbuf.Buffer) []byte {
	t.Helper()
	var out bytes.Buffer
	if err := bmp.Encode(&out, bmp.NewImage(buf)); err != nil {
		t.Fatal(err)
	}
	return out.Bytes()
}
