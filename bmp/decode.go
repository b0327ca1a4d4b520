package bmp

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/gogpu/boxblur/pixbuf"
)

// Decode reads a 24-bit uncompressed bitmap from r.
func Decode(r io.Reader) (*Image, error) {
	br := bufio.NewReader(r)
	img := &Image{}

	// A short stream that is not a bitmap is invalid, not truncated.
	sig, err := br.Peek(len(Signature))
	if !bytes.HasPrefix(Signature[:], sig) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSignature, sig)
	}
	if err != nil {
		return nil, truncated("file header", err)
	}

	if err := binary.Read(br, binary.LittleEndian, &img.File); err != nil {
		return nil, truncated("file header", err)
	}

	if err := binary.Read(br, binary.LittleEndian, &img.Info); err != nil {
		return nil, truncated("info header", err)
	}
	if err := checkInfo(&img.Info); err != nil {
		return nil, err
	}

	width := int(img.Info.Width)
	height := int(img.Info.Height)
	if height < 0 {
		img.TopDown = true
		height = -height
	}
	if int64(width)*int64(height) > MaxPixels {
		return nil, fmt.Errorf("%w: %dx%d", ErrTooLarge, width, height)
	}

	dataStart := FileHeaderSize + int(img.Info.HeaderSize)
	if int64(img.File.Offset) < int64(dataStart) {
		return nil, fmt.Errorf("%w: pixel offset %d inside %d header bytes",
			ErrInvalidHeader, img.File.Offset, dataStart)
	}
	extra := int(img.File.Offset) - FileHeaderSize - InfoHeaderSize
	if extra > maxExtra {
		return nil, fmt.Errorf("%w: %d bytes between header and pixels", ErrUnsupported, extra)
	}
	if extra > 0 {
		img.Extra = make([]byte, extra)
		if _, err := io.ReadFull(br, img.Extra); err != nil {
			return nil, truncated("extended header", err)
		}
	}

	buf, err := pixbuf.New(width, height)
	if err != nil {
		return nil, err
	}
	if err := readPixels(br, buf, img.TopDown); err != nil {
		return nil, err
	}
	img.Pixels = buf
	return img, nil
}

// DecodeFile reads a bitmap from the file at path.
func DecodeFile(path string) (*Image, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("bmp: open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Decode(f)
}

// checkInfo rejects pixel formats other than uncompressed single-plane 24-bit.
func checkInfo(info *InfoHeader) error {
	switch {
	case info.HeaderSize < InfoHeaderSize:
		return fmt.Errorf("%w: %d-byte DIB header", ErrUnsupported, info.HeaderSize)
	case info.Planes != 1:
		return fmt.Errorf("%w: %d planes", ErrUnsupported, info.Planes)
	case info.BitCount != BitsPerPixel:
		return fmt.Errorf("%w: %d bits per pixel", ErrUnsupported, info.BitCount)
	case info.Compression != CompressionRGB:
		return fmt.Errorf("%w: compression %d", ErrUnsupported, info.Compression)
	case info.Width <= 0 || info.Height == 0 || info.Height == math.MinInt32:
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, info.Width, info.Height)
	}
	return nil
}

// readPixels fills buf from padded BGR rows.
func readPixels(r io.Reader, buf *pixbuf.Buffer, topDown bool) error {
	width, height := buf.Width(), buf.Height()
	row := make([]byte, RowStride(width))

	for i := range height {
		if _, err := io.ReadFull(r, row); err != nil {
			return truncated(fmt.Sprintf("pixel row %d of %d", i, height), err)
		}
		y := height - 1 - i
		if topDown {
			y = i
		}
		dst := buf.Row(y)
		for x := range dst {
			dst[x] = pixbuf.Pixel{B: row[x*3+0], G: row[x*3+1], R: row[x*3+2]}
		}
	}
	return nil
}

// truncated maps an early end of stream to ErrTruncated.
func truncated(what string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %s: %w", ErrTruncated, what, io.ErrUnexpectedEOF)
	}
	return fmt.Errorf("bmp: read %s: %w", what, err)
}
