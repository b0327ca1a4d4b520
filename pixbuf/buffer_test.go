package pixbuf

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// gradient builds a w x h buffer where every pixel is unique within 8 bits.
func gradient(t *testing.T, w, h int) *Buffer {
	t.Helper()
	b, err := New(w, h)
	if err != nil {
		t.Fatalf("New(%d, %d) error = %v", w, h, err)
	}
	for y := range h {
		for x := range w {
			_ = b.Set(x, y, RGB(uint8(x), uint8(y), uint8(x+y)))
		}
	}
	return b
}

// =============================================================================
// Construction
// =============================================================================

func TestNew_InvalidDimensions(t *testing.T) {
	tests := []struct {
		name string
		w, h int
	}{
		{"zero width", 0, 4},
		{"zero height", 4, 0},
		{"negative", -1, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.w, tt.h); !errors.Is(err, ErrInvalidDimensions) {
				t.Errorf("New(%d, %d) error = %v, want ErrInvalidDimensions", tt.w, tt.h, err)
			}
		})
	}
}

func TestNew_Invariant(t *testing.T) {
	b, err := New(7, 3)
	if err != nil {
		t.Fatal(err)
	}
	if b.Len() != 21 || len(b.Pixels()) != 21 {
		t.Errorf("Len() = %d, len(Pixels()) = %d, want 21", b.Len(), len(b.Pixels()))
	}
	if b.Width() != 7 || b.Height() != 3 {
		t.Errorf("dimensions = %dx%d, want 7x3", b.Width(), b.Height())
	}
}

func TestFromPixels_SizeMismatch(t *testing.T) {
	_, err := FromPixels(2, 2, make([]Pixel, 3))
	if !errors.Is(err, ErrDataSize) {
		t.Errorf("FromPixels error = %v, want ErrDataSize", err)
	}
}

func TestFromPixels_NoCopy(t *testing.T) {
	pix := make([]Pixel, 4)
	b, err := FromPixels(2, 2, pix)
	if err != nil {
		t.Fatal(err)
	}
	pix[3] = RGB(1, 2, 3)
	if got, _ := b.At(1, 1); got != RGB(1, 2, 3) {
		t.Errorf("At(1, 1) = %v, want (1, 2, 3)", got)
	}
}

// =============================================================================
// Addressing
// =============================================================================

func TestBuffer_Offset(t *testing.T) {
	b, _ := New(4, 3)
	tests := []struct {
		x, y, want int
	}{
		{0, 0, 0},
		{3, 0, 3},
		{0, 1, 4},
		{3, 2, 11},
		{-1, 0, -1},
		{4, 0, -1},
		{0, 3, -1},
	}
	for _, tt := range tests {
		if got := b.Offset(tt.x, tt.y); got != tt.want {
			t.Errorf("Offset(%d, %d) = %d, want %d", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestBuffer_SetAt(t *testing.T) {
	b, _ := New(3, 3)
	if err := b.Set(2, 1, RGB(9, 8, 7)); err != nil {
		t.Fatalf("Set error = %v", err)
	}
	got, ok := b.At(2, 1)
	if !ok || got != RGB(9, 8, 7) {
		t.Errorf("At(2, 1) = %v, %v; want (9, 8, 7), true", got, ok)
	}
	if err := b.Set(3, 0, RGB(1, 1, 1)); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Set out of bounds error = %v, want ErrOutOfBounds", err)
	}
	if _, ok := b.At(-1, 0); ok {
		t.Error("At(-1, 0) ok = true, want false")
	}
}

func TestBuffer_Row(t *testing.T) {
	b := gradient(t, 5, 2)
	row := b.Row(1)
	if len(row) != 5 {
		t.Fatalf("len(Row(1)) = %d, want 5", len(row))
	}
	if row[4] != RGB(4, 1, 5) {
		t.Errorf("Row(1)[4] = %v, want (4, 1, 5)", row[4])
	}
	if b.Row(2) != nil || b.Row(-1) != nil {
		t.Error("Row out of range should be nil")
	}
}

// =============================================================================
// Copying
// =============================================================================

func TestBuffer_CloneIsDeep(t *testing.T) {
	b := gradient(t, 3, 3)
	c := b.Clone()
	if !b.Equal(c) {
		t.Fatal("clone differs from original")
	}
	_ = c.Set(0, 0, RGB(255, 255, 255))
	if b.Equal(c) {
		t.Error("modifying clone changed original")
	}
}

func TestBuffer_Equal(t *testing.T) {
	a := gradient(t, 3, 2)
	b := gradient(t, 2, 3)
	if a.Equal(b) {
		t.Error("buffers of different geometry compared equal")
	}
	var nilBuf *Buffer
	if !nilBuf.Equal(nil) {
		t.Error("nil buffers should compare equal")
	}
	if a.Equal(nil) {
		t.Error("non-nil buffer equal to nil")
	}
}

func TestBuffer_CropPasteRoundTrip(t *testing.T) {
	src := gradient(t, 9, 7)
	dst, _ := New(9, 7)

	// Four uneven quadrants.
	rects := [][4]int{
		{0, 0, 4, 3},
		{4, 0, 5, 3},
		{0, 3, 4, 4},
		{4, 3, 5, 4},
	}
	for _, r := range rects {
		part, err := src.Crop(r[0], r[1], r[2], r[3])
		if err != nil {
			t.Fatalf("Crop%v error = %v", r, err)
		}
		if err := dst.Paste(part, r[0], r[1]); err != nil {
			t.Fatalf("Paste%v error = %v", r, err)
		}
	}
	if diff := cmp.Diff(src.Pixels(), dst.Pixels()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestBuffer_CropOutOfBounds(t *testing.T) {
	b := gradient(t, 4, 4)
	tests := [][4]int{
		{-1, 0, 2, 2},
		{3, 0, 2, 2},
		{0, 3, 2, 2},
	}
	for _, r := range tests {
		if _, err := b.Crop(r[0], r[1], r[2], r[3]); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("Crop%v error = %v, want ErrOutOfBounds", r, err)
		}
	}
	if _, err := b.Crop(0, 0, 0, 2); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("Crop with zero width error = %v, want ErrInvalidDimensions", err)
	}
}

func TestBuffer_PasteOutOfBounds(t *testing.T) {
	dst, _ := New(4, 4)
	src, _ := New(2, 2)
	if err := dst.Paste(src, 3, 3); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Paste error = %v, want ErrOutOfBounds", err)
	}
}

func TestBuffer_Fill(t *testing.T) {
	b, _ := New(3, 2)
	b.Fill(RGB(10, 20, 30))
	for i, p := range b.Pixels() {
		if p != RGB(10, 20, 30) {
			t.Fatalf("pixel %d = %v, want (10, 20, 30)", i, p)
		}
	}
}

// =============================================================================
// Std image interop
// =============================================================================

func TestBuffer_ToImage(t *testing.T) {
	b := gradient(t, 3, 2)
	img := b.ToImage()
	if img.Bounds() != image.Rect(0, 0, 3, 2) {
		t.Fatalf("Bounds() = %v, want 3x2", img.Bounds())
	}
	c := img.NRGBAAt(2, 1)
	if c != (color.NRGBA{R: 2, G: 1, B: 3, A: 255}) {
		t.Errorf("NRGBAAt(2, 1) = %v, want {2 1 3 255}", c)
	}
}

func TestFromImage_RoundTrip(t *testing.T) {
	b := gradient(t, 6, 5)
	got, err := FromImage(b.ToImage())
	if err != nil {
		t.Fatal(err)
	}
	if !b.Equal(got) {
		t.Error("FromImage(ToImage()) differs from original")
	}
}

func TestFromImage_OffsetBoundsAndGray(t *testing.T) {
	gray := image.NewGray(image.Rect(2, 3, 5, 5))
	gray.SetGray(4, 4, color.Gray{Y: 128})

	b, err := FromImage(gray)
	if err != nil {
		t.Fatal(err)
	}
	if b.Width() != 3 || b.Height() != 2 {
		t.Fatalf("dimensions = %dx%d, want 3x2", b.Width(), b.Height())
	}
	if got, _ := b.At(2, 1); got != RGB(128, 128, 128) {
		t.Errorf("At(2, 1) = %v, want (128, 128, 128)", got)
	}
}

func TestFromImage_TransparentBecomesBlack(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(1, 0, color.NRGBA{R: 200, G: 100, B: 50, A: 255})

	b, err := FromImage(img)
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := b.At(0, 0); got != (Pixel{}) {
		t.Errorf("transparent pixel = %v, want black", got)
	}
	if got, _ := b.At(1, 0); got != RGB(200, 100, 50) {
		t.Errorf("opaque pixel = %v, want (200, 100, 50)", got)
	}
}

func TestFromImage_Empty(t *testing.T) {
	if _, err := FromImage(image.NewRGBA(image.Rectangle{})); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("FromImage(empty) error = %v, want ErrInvalidDimensions", err)
	}
}

func TestBuffer_Thumbnail(t *testing.T) {
	tests := []struct {
		name    string
		w, h    int
		maxSide int
		want    image.Rectangle
	}{
		{"fits", 4, 3, 8, image.Rect(0, 0, 4, 3)},
		{"no limit", 40, 30, 0, image.Rect(0, 0, 40, 30)},
		{"landscape", 40, 30, 8, image.Rect(0, 0, 8, 6)},
		{"portrait", 30, 40, 8, image.Rect(0, 0, 6, 8)},
		{"thin", 100, 1, 10, image.Rect(0, 0, 10, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := New(tt.w, tt.h)
			if err != nil {
				t.Fatal(err)
			}
			b.Fill(RGB(90, 60, 30))

			img := b.Thumbnail(tt.maxSide)
			if img.Bounds() != tt.want {
				t.Fatalf("Bounds() = %v, want %v", img.Bounds(), tt.want)
			}
			// Resampling a uniform image may round by one step.
			c := img.NRGBAAt(img.Bounds().Dx()-1, img.Bounds().Dy()-1)
			if near(c.R, 90) && near(c.G, 60) && near(c.B, 30) && c.A == 255 {
				return
			}
			t.Errorf("uniform color changed to %v", c)
		})
	}
}

func near(got, want uint8) bool {
	return got+1 >= want && got <= want+1
}
