package boxblur

import (
	"log/slog"

	"github.com/gogpu/boxblur/pixbuf"
)

// DefaultPartitions is the number of tiles used when neither WithPartitions
// nor WithGrid is given.
const DefaultPartitions = 4

// Option configures a Blur, Process or BlurFile call.
//
// Example:
//
//	out, err := boxblur.Blur(ctx, src,
//	    boxblur.WithPartitions(8),
//	    boxblur.WithLogger(logger))
type Option func(*options)

// options holds the per-call configuration.
type options struct {
	partitions int
	rows, cols int // explicit grid; zero means derive from partitions
	logger     *slog.Logger
	pool       *pixbuf.Pool
}

// defaultOptions returns the configuration used when no options are given.
func defaultOptions() options {
	return options{
		partitions: DefaultPartitions,
		logger:     nil, // package logger at call time
		pool:       nil, // pixbuf.DefaultPool
	}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = Logger()
	}
	if o.pool == nil {
		o.pool = pixbuf.DefaultPool()
	}
	return o
}

// WithPartitions sets the number of tiles the image is split into. The grid
// shape is chosen so that tiles are as close to square as the image allows.
// The count is fixed configuration and does not follow the number of CPUs.
func WithPartitions(n int) Option {
	return func(o *options) {
		o.partitions = n
		o.rows, o.cols = 0, 0
	}
}

// WithGrid fixes the tile grid to rows x cols, overriding WithPartitions.
func WithGrid(rows, cols int) Option {
	return func(o *options) {
		o.rows, o.cols = rows, cols
	}
}

// WithLogger routes this call's log records to l instead of the package
// logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithPool sets the buffer pool used for tile storage.
func WithPool(p *pixbuf.Pool) Option {
	return func(o *options) {
		o.pool = p
	}
}
