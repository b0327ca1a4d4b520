package parallel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gogpu/boxblur/pixbuf"
)

// ErrWorkerPanic is wrapped by the error Run returns when a tile worker panics.
var ErrWorkerPanic = errors.New("parallel: tile worker panicked")

// TileError reports the tile whose worker failed.
type TileError struct {
	GridX, GridY int
	Err          error
}

func (e *TileError) Error() string {
	return fmt.Sprintf("tile(%d,%d): %v", e.GridX, e.GridY, e.Err)
}

func (e *TileError) Unwrap() error {
	return e.Err
}

// Run processes every tile with k, one goroutine per tile, and returns once
// all of them have finished.
//
// The first failing tile cancels the context shared by the others, which stop
// at their next row. Run returns that first failure as a *TileError; a
// panicking worker is reported as ErrWorkerPanic. Tile order is unspecified.
// A nil tile fails the whole call before any worker starts. A nil k means
// Box, a nil pool the default pool and a nil log discards.
func Run(ctx context.Context, tiles []*Tile, k Kernel, pool *pixbuf.Pool, log *slog.Logger) error {
	if k == nil {
		k = Box
	}
	if pool == nil {
		pool = pixbuf.DefaultPool()
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	for i, t := range tiles {
		if t == nil {
			return fmt.Errorf("%w: nil tile at index %d", ErrGeometryMismatch, i)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, t := range tiles {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = &TileError{GridX: t.GridX, GridY: t.GridY, Err: fmt.Errorf("%w: %v", ErrWorkerPanic, r)}
				}
			}()

			start := time.Now()
			if err := ProcessTile(gctx, t, k, pool); err != nil {
				return &TileError{GridX: t.GridX, GridY: t.GridY, Err: err}
			}
			log.Debug("tile processed",
				slog.Int("grid_x", t.GridX),
				slog.Int("grid_y", t.GridY),
				slog.Int("width", t.Region.Dx()),
				slog.Int("height", t.Region.Dy()),
				slog.Duration("elapsed", time.Since(start)))
			return nil
		})
	}
	return g.Wait()
}
