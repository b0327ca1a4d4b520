package pixbuf

import "sync"

// Pool provides reuse of Buffer instances via sync.Pool.
//
// Buffers are bucketed by their dimensions. A buffer returned by Get is
// always zeroed, whether it was reused or freshly allocated.
//
// Thread safety: Pool is safe for concurrent use.
type Pool struct {
	// pools holds one *sync.Pool per buffer size.
	// Key format: (width << 16) | height
	pools sync.Map
}

// NewPool creates an empty pool.
func NewPool() *Pool {
	return &Pool{}
}

// Get returns a zeroed w x h buffer.
func (p *Pool) Get(width, height int) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	// Sizes past the key range skip the pool entirely.
	if width > 0xFFFF || height > 0xFFFF {
		return New(width, height)
	}

	b := p.bucket(width, height).Get().(*Buffer)
	clear(b.pix)
	return b, nil
}

// Put releases b for reuse. b must not be used afterwards.
// If b is nil, this is a no-op.
func (p *Pool) Put(b *Buffer) {
	if b == nil || b.width > 0xFFFF || b.height > 0xFFFF {
		return
	}
	p.bucket(b.width, b.height).Put(b)
}

func (p *Pool) bucket(width, height int) *sync.Pool {
	key := poolKey(width, height)
	if pool, ok := p.pools.Load(key); ok {
		return pool.(*sync.Pool)
	}

	newPool := &sync.Pool{
		New: func() any {
			return &Buffer{
				width:  width,
				height: height,
				pix:    make([]Pixel, width*height),
			}
		},
	}

	// Try to store; if another goroutine beat us, use theirs
	actual, _ := p.pools.LoadOrStore(key, newPool)
	return actual.(*sync.Pool)
}

// poolKey packs the dimensions, which callers have bounded to 16 bits.
func poolKey(width, height int) uint32 {
	return uint32(width)<<16 | uint32(height) //nolint:gosec // bounded by callers
}

// defaultPool is the package-level pool for convenient usage.
var defaultPool = NewPool()

// DefaultPool returns the package-level pool.
func DefaultPool() *Pool {
	return defaultPool
}
