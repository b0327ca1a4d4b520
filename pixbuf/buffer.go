// Package pixbuf provides the RGB pixel buffer shared by every stage of the
// blur pipeline.
//
// A Buffer stores pixels in a single contiguous slice in row-major order with
// a row stride equal to its width. Buffers are not safe for concurrent
// mutation; the pipeline hands each buffer to exactly one stage at a time.
package pixbuf

import (
	"errors"
	"fmt"
)

// Common errors for buffer operations.
var (
	// ErrInvalidDimensions is returned when width or height is non-positive.
	ErrInvalidDimensions = errors.New("pixbuf: invalid dimensions")

	// ErrDataSize is returned when a pixel slice does not hold width*height pixels.
	ErrDataSize = errors.New("pixbuf: pixel data does not match dimensions")

	// ErrOutOfBounds is returned when coordinates or rectangles fall outside the buffer.
	ErrOutOfBounds = errors.New("pixbuf: coordinates out of bounds")
)

// Pixel is a single 24-bit color value.
type Pixel struct {
	R, G, B uint8
}

// RGB returns a Pixel with the given channel values.
func RGB(r, g, b uint8) Pixel {
	return Pixel{R: r, G: g, B: b}
}

// String formats the pixel as "(r, g, b)".
func (p Pixel) String() string {
	return fmt.Sprintf("(%d, %d, %d)", p.R, p.G, p.B)
}

// Buffer is a width x height grid of pixels.
type Buffer struct {
	width  int
	height int
	pix    []Pixel
}

// New allocates a zeroed buffer.
func New(width, height int) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	return &Buffer{
		width:  width,
		height: height,
		pix:    make([]Pixel, width*height),
	}, nil
}

// FromPixels wraps pix without copying. The caller hands ownership of pix to
// the returned buffer.
func FromPixels(width, height int, pix []Pixel) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	if len(pix) != width*height {
		return nil, fmt.Errorf("%w: have %d pixels, want %dx%d", ErrDataSize, len(pix), width, height)
	}
	return &Buffer{width: width, height: height, pix: pix}, nil
}

// Width returns the width in pixels.
func (b *Buffer) Width() int {
	return b.width
}

// Height returns the height in pixels.
func (b *Buffer) Height() int {
	return b.height
}

// Len returns the number of pixels, always Width()*Height().
func (b *Buffer) Len() int {
	return len(b.pix)
}

// Pixels returns the backing slice. Writes through it modify the buffer.
func (b *Buffer) Pixels() []Pixel {
	return b.pix
}

// Contains reports whether (x, y) lies inside the buffer.
func (b *Buffer) Contains(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

// Offset returns the index of pixel (x, y) in Pixels().
// Returns -1 if the coordinates are out of bounds.
func (b *Buffer) Offset(x, y int) int {
	if !b.Contains(x, y) {
		return -1
	}
	return y*b.width + x
}

// At returns the pixel at (x, y). ok is false when the coordinates are out of
// bounds, in which case the zero Pixel is returned.
func (b *Buffer) At(x, y int) (p Pixel, ok bool) {
	i := b.Offset(x, y)
	if i < 0 {
		return Pixel{}, false
	}
	return b.pix[i], true
}

// Set stores p at (x, y).
func (b *Buffer) Set(x, y int, p Pixel) error {
	i := b.Offset(x, y)
	if i < 0 {
		return fmt.Errorf("%w: (%d, %d) in %dx%d", ErrOutOfBounds, x, y, b.width, b.height)
	}
	b.pix[i] = p
	return nil
}

// Row returns the pixels of row y, or nil if y is out of bounds.
func (b *Buffer) Row(y int) []Pixel {
	if y < 0 || y >= b.height {
		return nil
	}
	start := y * b.width
	return b.pix[start : start+b.width]
}

// Fill sets every pixel to p.
func (b *Buffer) Fill(p Pixel) {
	for i := range b.pix {
		b.pix[i] = p
	}
}

// Clone returns a deep copy.
func (b *Buffer) Clone() *Buffer {
	pix := make([]Pixel, len(b.pix))
	copy(pix, b.pix)
	return &Buffer{width: b.width, height: b.height, pix: pix}
}

// Equal reports whether both buffers have the same geometry and pixels.
func (b *Buffer) Equal(o *Buffer) bool {
	if b == nil || o == nil {
		return b == o
	}
	if b.width != o.width || b.height != o.height {
		return false
	}
	for i, p := range b.pix {
		if o.pix[i] != p {
			return false
		}
	}
	return true
}

// Crop copies the w x h rectangle whose top-left corner is (x, y) into a new
// buffer. The rectangle must lie entirely inside b.
func (b *Buffer) Crop(x, y, w, h int) (*Buffer, error) {
	out, err := New(w, h)
	if err != nil {
		return nil, err
	}
	if err := b.cropInto(out, x, y); err != nil {
		return nil, err
	}
	return out, nil
}

// CropInto copies the rectangle at (x, y) with dst's dimensions into dst.
func (b *Buffer) CropInto(dst *Buffer, x, y int) error {
	return b.cropInto(dst, x, y)
}

func (b *Buffer) cropInto(dst *Buffer, x, y int) error {
	w, h := dst.width, dst.height
	if x < 0 || y < 0 || x+w > b.width || y+h > b.height {
		return fmt.Errorf("%w: crop %dx%d at (%d, %d) from %dx%d", ErrOutOfBounds, w, h, x, y, b.width, b.height)
	}
	for row := range h {
		srcStart := (y+row)*b.width + x
		copy(dst.Row(row), b.pix[srcStart:srcStart+w])
	}
	return nil
}

// Paste copies all of src into b with src's top-left corner at (x, y).
// src must fit entirely inside b.
func (b *Buffer) Paste(src *Buffer, x, y int) error {
	if x < 0 || y < 0 || x+src.width > b.width || y+src.height > b.height {
		return fmt.Errorf("%w: paste %dx%d at (%d, %d) into %dx%d",
			ErrOutOfBounds, src.width, src.height, x, y, b.width, b.height)
	}
	for row := range src.height {
		dstStart := (y+row)*b.width + x
		copy(b.pix[dstStart:dstStart+src.width], src.Row(row))
	}
	return nil
}
