package pixbuf

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"
)

// ToImage converts the buffer to an opaque *image.NRGBA.
func (b *Buffer) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, b.width, b.height))
	for y := range b.height {
		row := img.Pix[y*img.Stride : y*img.Stride+b.width*4]
		for x, p := range b.Row(y) {
			row[x*4+0] = p.R
			row[x*4+1] = p.G
			row[x*4+2] = p.B
			row[x*4+3] = 0xFF
		}
	}
	return img
}

// FromImage creates a buffer from any image.Image. Alpha is discarded after
// the image is composited onto an opaque NRGBA canvas.
func FromImage(img image.Image) (*Buffer, error) {
	bounds := img.Bounds()
	buf, err := New(bounds.Dx(), bounds.Dy())
	if err != nil {
		return nil, err
	}

	canvas, ok := img.(*image.NRGBA)
	if !ok || !canvas.Opaque() {
		canvas = image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		xdraw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.Black), image.Point{}, xdraw.Src)
		xdraw.Copy(canvas, image.Point{}, img, bounds, xdraw.Over, nil)
	}

	cb := canvas.Bounds()
	for y := range buf.height {
		start := canvas.PixOffset(cb.Min.X, cb.Min.Y+y)
		src := canvas.Pix[start : start+buf.width*4]
		row := buf.Row(y)
		for x := range row {
			row[x] = Pixel{R: src[x*4+0], G: src[x*4+1], B: src[x*4+2]}
		}
	}
	return buf, nil
}

// Thumbnail returns the buffer as an *image.NRGBA scaled down so that neither
// side exceeds maxSide, keeping the aspect ratio. Buffers that already fit,
// or a non-positive maxSide, are converted without scaling.
func (b *Buffer) Thumbnail(maxSide int) *image.NRGBA {
	src := b.ToImage()
	if maxSide <= 0 || (b.width <= maxSide && b.height <= maxSide) {
		return src
	}
	w, h := maxSide, maxSide
	if b.width >= b.height {
		h = max(1, b.height*maxSide/b.width)
	} else {
		w = max(1, b.width*maxSide/b.height)
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}
