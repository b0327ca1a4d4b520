package bmp

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrNoPixels is returned when encoding an Image without a pixel buffer.
var ErrNoPixels = errors.New("bmp: image has no pixels")

// Encode writes img to w as an uncompressed 24-bit bitmap.
//
// Size, offset and dimension fields are recomputed from img.Pixels and
// img.Extra; img itself is not modified.
func Encode(w io.Writer, img *Image) error {
	if img == nil || img.Pixels == nil {
		return ErrNoPixels
	}
	if len(img.Extra) > maxExtra {
		return fmt.Errorf("%w: %d bytes between header and pixels", ErrUnsupported, len(img.Extra))
	}
	width, height := img.Width(), img.Height()
	if width*height > MaxPixels {
		return fmt.Errorf("%w: %dx%d", ErrTooLarge, width, height)
	}

	hdr := *img
	hdr.SyncHeaders()

	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, &hdr.File); err != nil {
		return fmt.Errorf("bmp: write file header: %w", err)
	}
	if err := binary.Write(bw, binary.LittleEndian, &hdr.Info); err != nil {
		return fmt.Errorf("bmp: write info header: %w", err)
	}
	if _, err := bw.Write(hdr.Extra); err != nil {
		return fmt.Errorf("bmp: write extended header: %w", err)
	}

	row := make([]byte, RowStride(width))
	for i := range height {
		y := height - 1 - i
		if hdr.TopDown {
			y = i
		}
		for x, p := range img.Pixels.Row(y) {
			row[x*3+0] = p.B
			row[x*3+1] = p.G
			row[x*3+2] = p.R
		}
		// Padding bytes stay zero from make.
		if _, err := bw.Write(row); err != nil {
			return fmt.Errorf("bmp: write pixel row %d: %w", i, err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("bmp: flush: %w", err)
	}
	return nil
}

// EncodeFile writes img to a new file at path. A partially written file is
// removed when encoding fails.
func EncodeFile(path string, img *Image) (err error) {
	path = filepath.Clean(path)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("bmp: create file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("bmp: close file: %w", cerr)
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	return Encode(f, img)
}
