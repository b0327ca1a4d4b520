// Package bmp reads and writes uncompressed 24-bit Windows bitmaps.
//
// Pixel rows on disk are stored blue-green-red and padded to a multiple of
// four bytes, bottom-up unless the header height is negative. Decode strips
// the padding, reorders channels to RGB and flips rows so that row 0 of the
// resulting buffer is the top of the image. Encode reverses all of this and
// recomputes every size field from the buffer geometry; the remaining header
// fields are written back exactly as they were read.
//
// Compressed, paletted and non-24-bit bitmaps are rejected with
// ErrUnsupported.
package bmp

import (
	"errors"

	"github.com/gogpu/boxblur/pixbuf"
)

// Codec errors.
var (
	// ErrInvalidSignature is returned when the stream does not start with "BM".
	ErrInvalidSignature = errors.New("bmp: invalid signature")

	// ErrUnsupported is returned for valid bitmaps using features outside
	// uncompressed 24-bit RGB.
	ErrUnsupported = errors.New("bmp: unsupported bitmap")

	// ErrInvalidHeader is returned when header fields contradict each other.
	ErrInvalidHeader = errors.New("bmp: invalid header")

	// ErrInvalidDimensions is returned for zero or negative widths and zero heights.
	ErrInvalidDimensions = errors.New("bmp: invalid dimensions")

	// ErrTooLarge is returned when the image has more than MaxPixels pixels.
	ErrTooLarge = errors.New("bmp: image too large")

	// ErrTruncated is returned when the stream ends early.
	ErrTruncated = errors.New("bmp: truncated data")
)

// Format constants.
const (
	// FileHeaderSize is the size of BITMAPFILEHEADER in bytes.
	FileHeaderSize = 14

	// InfoHeaderSize is the size of BITMAPINFOHEADER in bytes.
	InfoHeaderSize = 40

	// BitsPerPixel is the only supported pixel depth.
	BitsPerPixel = 24

	// CompressionRGB (BI_RGB) marks uncompressed pixel data.
	CompressionRGB = 0

	// DefaultPelsPerMeter is 72 DPI.
	DefaultPelsPerMeter = 2835

	// MaxPixels bounds width*height of a decoded image.
	MaxPixels = 1 << 26

	// maxExtra bounds the bytes kept between the info header and the pixels.
	maxExtra = 1 << 16
)

// Signature is the magic number at the start of every bitmap file.
var Signature = [2]byte{'B', 'M'}

// FileHeader is BITMAPFILEHEADER, stored little-endian.
type FileHeader struct {
	Signature [2]byte // "BM"
	Size      uint32  // Size of the whole file in bytes.
	Reserved1 uint16  // Application specific.
	Reserved2 uint16  // Application specific.
	Offset    uint32  // Offset of the pixel array from the start of the file.
}

// InfoHeader is BITMAPINFOHEADER, stored little-endian.
type InfoHeader struct {
	HeaderSize      uint32 // Size of the DIB header; at least 40.
	Width           int32  // Width in pixels.
	Height          int32  // Height in pixels; negative for top-down rows.
	Planes          uint16 // Must be 1.
	BitCount        uint16 // Bits per pixel.
	Compression     uint32 // BI_RGB for uncompressed data.
	ImageSize       uint32 // Size of the padded pixel array in bytes.
	XPelsPerMeter   int32  // Horizontal resolution.
	YPelsPerMeter   int32  // Vertical resolution.
	ColorsUsed      uint32 // Palette entries in use.
	ColorsImportant uint32 // Palette entries required for display.
}

// Image is a decoded bitmap: its headers plus the pixels in top-down RGB order.
type Image struct {
	File FileHeader
	Info InfoHeader

	// Extra holds the bytes between the 40-byte info header and the pixel
	// array, such as the tail of a V4/V5 header. Written back verbatim.
	Extra []byte

	// TopDown records whether rows were stored top-down (negative height).
	TopDown bool

	Pixels *pixbuf.Buffer
}

// NewImage wraps buf in default headers for a bottom-up 24-bit bitmap.
func NewImage(buf *pixbuf.Buffer) *Image {
	img := &Image{
		File: FileHeader{Signature: Signature},
		Info: InfoHeader{
			HeaderSize:    InfoHeaderSize,
			Planes:        1,
			BitCount:      BitsPerPixel,
			Compression:   CompressionRGB,
			XPelsPerMeter: DefaultPelsPerMeter,
			YPelsPerMeter: DefaultPelsPerMeter,
		},
		Pixels: buf,
	}
	img.SyncHeaders()
	return img
}

// Width returns the pixel width.
func (img *Image) Width() int {
	return img.Pixels.Width()
}

// Height returns the pixel height.
func (img *Image) Height() int {
	return img.Pixels.Height()
}

// WithPixels returns a copy of img that carries buf instead of the original
// pixels, with size fields recomputed for buf.
func (img *Image) WithPixels(buf *pixbuf.Buffer) *Image {
	out := &Image{
		File:    img.File,
		Info:    img.Info,
		Extra:   append([]byte(nil), img.Extra...),
		TopDown: img.TopDown,
		Pixels:  buf,
	}
	out.SyncHeaders()
	return out
}

// SyncHeaders derives every size and dimension field from Pixels and Extra.
func (img *Image) SyncHeaders() {
	w, h := img.Pixels.Width(), img.Pixels.Height()

	img.File.Signature = Signature
	if img.Info.HeaderSize < InfoHeaderSize {
		img.Info.HeaderSize = InfoHeaderSize
	}
	img.Info.Width = int32(w)  //nolint:gosec // bounded by MaxPixels
	img.Info.Height = int32(h) //nolint:gosec // bounded by MaxPixels
	if img.TopDown {
		img.Info.Height = -img.Info.Height
	}
	img.Info.ImageSize = uint32(RowStride(w) * h)                            //nolint:gosec // bounded by MaxPixels
	img.File.Offset = uint32(FileHeaderSize + InfoHeaderSize + len(img.Extra)) //nolint:gosec // bounded by maxExtra
	img.File.Size = img.File.Offset + img.Info.ImageSize
}

// RowStride returns the padded size in bytes of one row of width pixels.
func RowStride(width int) int {
	return (width*3 + 3) &^ 3
}

// RowPadding returns the number of zero bytes after each row of width pixels.
func RowPadding(width int) int {
	return RowStride(width) - width*3
}
