package pixbuf

import (
	"errors"
	"sync"
	"testing"
)

func TestPool_GetDimensions(t *testing.T) {
	p := NewPool()
	b, err := p.Get(5, 3)
	if err != nil {
		t.Fatal(err)
	}
	if b.Width() != 5 || b.Height() != 3 || b.Len() != 15 {
		t.Errorf("Get(5, 3) = %dx%d (len %d)", b.Width(), b.Height(), b.Len())
	}
}

func TestPool_GetInvalid(t *testing.T) {
	if _, err := NewPool().Get(0, 3); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("Get(0, 3) error = %v, want ErrInvalidDimensions", err)
	}
}

func TestPool_ReusedBufferIsZeroed(t *testing.T) {
	p := NewPool()
	b, _ := p.Get(4, 4)
	b.Fill(RGB(1, 2, 3))
	p.Put(b)

	// sync.Pool may or may not hand back the same buffer; either way it
	// must come back zeroed.
	for range 10 {
		got, _ := p.Get(4, 4)
		for i, px := range got.Pixels() {
			if px != (Pixel{}) {
				t.Fatalf("pixel %d = %v, want zero", i, px)
			}
		}
		p.Put(got)
	}
}

func TestPool_PutNil(t *testing.T) {
	NewPool().Put(nil)
}

func TestPool_Concurrent(t *testing.T) {
	p := NewPool()
	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for range 50 {
				b, err := p.Get(w%4+1, 3)
				if err != nil {
					t.Error(err)
					return
				}
				b.Fill(RGB(uint8(w), 0, 0))
				p.Put(b)
			}
		}(i)
	}
	wg.Wait()
}

func TestDefaultPool(t *testing.T) {
	if DefaultPool() == nil {
		t.Fatal("DefaultPool() returned nil")
	}
	if DefaultPool() != DefaultPool() {
		t.Error("DefaultPool() not stable")
	}
}
