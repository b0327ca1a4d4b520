package filter

import "github.com/gogpu/boxblur/pixbuf"

// StencilSize is the number of slots in the 3x3 neighborhood.
const StencilSize = 9

// CenterSlot is the slot index of the target pixel.
//
//	[0][1][2]
//	[3][4][5]
//	[6][7][8]
const CenterSlot = 4

// Slot returns the neighborhood slot for offset (dx, dy), each in [-1, 1].
// Returns -1 for offsets outside the stencil.
func Slot(dx, dy int) int {
	if dx < -1 || dx > 1 || dy < -1 || dy > 1 {
		return -1
	}
	return (dy+1)*3 + (dx + 1)
}

// Edges records which global image borders a target pixel sits on.
type Edges struct {
	Top, Bottom, Left, Right bool
}

// EdgesAt returns the global edge flags for (x, y) in a width x height image.
func EdgesAt(x, y, width, height int) Edges {
	return Edges{
		Top:    y == 0,
		Bottom: y == height-1,
		Left:   x == 0,
		Right:  x == width-1,
	}
}

// excludes reports whether the edge policy removes offset (dx, dy).
func (e Edges) excludes(dx, dy int) bool {
	return (dy < 0 && e.Top) || (dy > 0 && e.Bottom) ||
		(dx < 0 && e.Left) || (dx > 0 && e.Right)
}

// Neighborhood holds the nine optional stencil values around a target pixel.
// The zero value has no slot present.
type Neighborhood struct {
	values  [StencilSize]pixbuf.Pixel
	present uint16
}

// Put marks slot as present with value p. Out-of-range slots are ignored.
func (n *Neighborhood) Put(slot int, p pixbuf.Pixel) {
	if slot < 0 || slot >= StencilSize {
		return
	}
	n.values[slot] = p
	n.present |= 1 << slot
}

// At returns the value at offset (dx, dy) and whether it is present.
func (n *Neighborhood) At(dx, dy int) (pixbuf.Pixel, bool) {
	slot := Slot(dx, dy)
	if slot < 0 || n.present&(1<<slot) == 0 {
		return pixbuf.Pixel{}, false
	}
	return n.values[slot], true
}

// Count returns the number of present slots.
func (n *Neighborhood) Count() int {
	c := 0
	for s := n.present; s != 0; s &= s - 1 {
		c++
	}
	return c
}

// Gather looks up the neighborhood of (x, y) in buf. A neighbor is present
// only when it lies inside buf and the edge policy does not exclude it.
// buf coordinates are local; edges carry the target's global position.
func Gather(buf *pixbuf.Buffer, x, y int, edges Edges) Neighborhood {
	var n Neighborhood
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if edges.excludes(dx, dy) {
				continue
			}
			if p, ok := buf.At(x+dx, y+dy); ok {
				n.Put(Slot(dx, dy), p)
			}
		}
	}
	return n
}

// Mean returns the per-channel integer mean of the present slots, truncating
// toward zero. An empty neighborhood yields the zero Pixel.
func Mean(n *Neighborhood) pixbuf.Pixel {
	var r, g, b, count uint32
	for slot := range StencilSize {
		if n.present&(1<<slot) == 0 {
			continue
		}
		p := n.values[slot]
		r += uint32(p.R)
		g += uint32(p.G)
		b += uint32(p.B)
		count++
	}
	if count == 0 {
		return pixbuf.Pixel{}
	}
	return pixbuf.Pixel{
		R: uint8(r / count),
		G: uint8(g / count),
		B: uint8(b / count),
	}
}
