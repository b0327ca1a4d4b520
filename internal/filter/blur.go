package filter

import "github.com/gogpu/boxblur/pixbuf"

// BoxBlur applies the 3x3 mean stencil to every pixel of src on the calling
// goroutine and returns a new buffer. src is not modified.
//
// The tiled pipeline in internal/parallel must produce output identical to
// BoxBlur for every image and grid.
func BoxBlur(src *pixbuf.Buffer) *pixbuf.Buffer {
	w, h := src.Width(), src.Height()
	out, _ := pixbuf.New(w, h)
	dst := out.Pixels()

	for y := range h {
		for x := range w {
			n := Gather(src, x, y, EdgesAt(x, y, w, h))
			dst[y*w+x] = Mean(&n)
		}
	}
	return out
}
