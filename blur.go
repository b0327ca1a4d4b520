package boxblur

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/gogpu/boxblur/bmp"
	"github.com/gogpu/boxblur/internal/parallel"
	"github.com/gogpu/boxblur/pixbuf"
)

// Pipeline stage errors. Every error returned by this package wraps exactly
// one of them together with the underlying cause, so both can be tested with
// errors.Is.
var (
	// ErrDecode tags failures reading or parsing the input bitmap.
	ErrDecode = errors.New("boxblur: decode")

	// ErrPartition tags failures choosing the grid, splitting the image into
	// tiles or stitching them back together.
	ErrPartition = errors.New("boxblur: partition")

	// ErrWorker tags failures of a tile worker, including cancellation.
	ErrWorker = errors.New("boxblur: worker")

	// ErrEncode tags failures writing the output bitmap.
	ErrEncode = errors.New("boxblur: encode")
)

// errNilBuffer is returned for a nil source buffer.
var errNilBuffer = errors.New("boxblur: nil source buffer")

// Stats describes one completed blur.
type Stats struct {
	Width, Height int
	Rows, Cols    int
	Elapsed       time.Duration
}

// Tiles returns the number of tiles the image was split into.
func (s Stats) Tiles() int {
	return s.Rows * s.Cols
}

// Blur returns a 3x3 mean-blurred copy of src.
//
// The image is split into a grid of tiles that are blurred concurrently, one
// goroutine each, and reassembled once every tile has finished. The result is
// identical for every grid. src is not modified.
//
// If ctx is cancelled, or a tile fails, the remaining tiles stop at their
// next row and Blur returns an error wrapping ErrWorker.
func Blur(ctx context.Context, src *pixbuf.Buffer, opts ...Option) (*pixbuf.Buffer, error) {
	o := buildOptions(opts)
	out, _, err := blur(ctx, src, &o)
	return out, err
}

// BlurImage blurs the pixels of img and returns a new bitmap carrying the
// result and img's header fields. img is not modified. Like Process and
// BlurFile it logs one "image blurred" record on success.
func BlurImage(ctx context.Context, img *bmp.Image, opts ...Option) (*bmp.Image, Stats, error) {
	o := buildOptions(opts)
	if img == nil {
		return nil, Stats{}, fmt.Errorf("%w: %w", ErrPartition, errNilBuffer)
	}
	out, stats, err := blur(ctx, img.Pixels, &o)
	if err != nil {
		return nil, stats, err
	}
	logSummary(o.logger, stats)
	return img.WithPixels(out), stats, nil
}

// Process decodes a bitmap from r, blurs it and encodes the result to w.
// Header fields other than sizes are carried over from the input.
func Process(ctx context.Context, r io.Reader, w io.Writer, opts ...Option) error {
	o := buildOptions(opts)

	img, err := bmp.Decode(r)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	out, stats, err := blur(ctx, img.Pixels, &o)
	if err != nil {
		return err
	}
	if err := bmp.Encode(w, img.WithPixels(out)); err != nil {
		return fmt.Errorf("%w: %w", ErrEncode, err)
	}
	logSummary(o.logger, stats)
	return nil
}

// BlurFile blurs the bitmap at in and writes it to out. The input is read
// completely before out is created, so in and out may name the same file.
// out is removed if encoding fails.
func BlurFile(ctx context.Context, in, out string, opts ...Option) error {
	o := buildOptions(opts)

	img, err := bmp.DecodeFile(filepath.Clean(in))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	blurred, stats, err := blur(ctx, img.Pixels, &o)
	if err != nil {
		return err
	}
	if err := bmp.EncodeFile(out, img.WithPixels(blurred)); err != nil {
		return fmt.Errorf("%w: %w", ErrEncode, err)
	}
	logSummary(o.logger, stats, slog.String("input", in), slog.String("output", out))
	return nil
}

// blur runs partition, concurrent tile processing and reassembly.
func blur(ctx context.Context, src *pixbuf.Buffer, o *options) (*pixbuf.Buffer, Stats, error) {
	if src == nil {
		return nil, Stats{}, fmt.Errorf("%w: %w", ErrPartition, errNilBuffer)
	}
	start := time.Now()
	width, height := src.Width(), src.Height()

	grid, err := o.grid(width, height)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("%w: %w", ErrPartition, err)
	}
	stats := Stats{Width: width, Height: height, Rows: grid.Rows, Cols: grid.Cols}
	o.logger.Debug("grid selected",
		slog.String("grid", grid.String()),
		slog.Int("width", width),
		slog.Int("height", height))

	tiles, err := parallel.Partition(src, grid, o.pool)
	if err != nil {
		return nil, stats, fmt.Errorf("%w: %w", ErrPartition, err)
	}

	// Run returns only after every worker has exited.
	if err := parallel.Run(ctx, tiles, parallel.Box, o.pool, o.logger); err != nil {
		parallel.Release(tiles, o.pool)
		return nil, stats, fmt.Errorf("%w: %w", ErrWorker, err)
	}

	out, err := parallel.Reassemble(tiles, o.pool)
	if err != nil {
		return nil, stats, fmt.Errorf("%w: %w", ErrPartition, err)
	}
	stats.Elapsed = time.Since(start)
	return out, stats, nil
}

// grid resolves the configured grid for a width x height image.
func (o *options) grid(width, height int) (parallel.Grid, error) {
	if o.rows == 0 && o.cols == 0 {
		return parallel.GridFor(o.partitions, width, height)
	}
	g, err := parallel.NewGrid(o.rows, o.cols)
	if err != nil {
		return parallel.Grid{}, err
	}
	if err := g.Fits(width, height); err != nil {
		return parallel.Grid{}, err
	}
	return g, nil
}

func logSummary(l *slog.Logger, s Stats, attrs ...slog.Attr) {
	args := []any{
		slog.Int("width", s.Width),
		slog.Int("height", s.Height),
		slog.Int("tiles", s.Tiles()),
		slog.Duration("elapsed", s.Elapsed),
	}
	for _, a := range attrs {
		args = append(args, a)
	}
	l.Info("image blurred", args...)
}
