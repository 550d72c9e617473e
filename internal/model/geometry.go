package model

import "fmt"

// L is the side length of the square placement area. Every rectangle lies
// inside [0, L) x [0, L).
const L = 10000

// Point is an integer target position. A rectangle "contains" a point when
// the unit cell [X, X+1) x [Y, Y+1) lies inside it.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Rect is a half-open axis-aligned box [X1, X2) x [Y1, Y2).
type Rect struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Edge names one of the four boundaries of a Rect.
type Edge uint8

const (
	EdgeX1 Edge = iota // left
	EdgeX2             // right
	EdgeY1             // bottom
	EdgeY2             // top
)

func (e Edge) String() string {
	switch e {
	case EdgeX1:
		return "x1"
	case EdgeX2:
		return "x2"
	case EdgeY1:
		return "y1"
	default:
		return "y2"
	}
}

// UnitRect returns the 1x1 box anchored at p.
func UnitRect(p Point) Rect {
	return Rect{X1: p.X, Y1: p.Y, X2: p.X + 1, Y2: p.Y + 1}
}

func (r Rect) Width() int  { return r.X2 - r.X1 }
func (r Rect) Height() int { return r.Y2 - r.Y1 }
func (r Rect) Area() int   { return r.Width() * r.Height() }

// String formats the rectangle the way the output file expects it.
func (r Rect) String() string {
	return fmt.Sprintf("%d %d %d %d", r.X1, r.Y1, r.X2, r.Y2)
}

// Valid reports whether r is non-empty and inside the placement area.
// X2 and Y2 may equal L: the box is half-open, so its last cell is L-1.
// Grows and slides therefore accept an edge landing on L, one cell more
// than a bound of x2 < L would allow.
func (r Rect) Valid() bool {
	return 0 <= r.X1 && r.X1 < r.X2 && r.X2 <= L &&
		0 <= r.Y1 && r.Y1 < r.Y2 && r.Y2 <= L
}

// Intersects reports whether the open interiors of r and o overlap.
// Touching edges do not count.
func (r Rect) Intersects(o Rect) bool {
	return min(r.X2, o.X2) > max(r.X1, o.X1) && min(r.Y2, o.Y2) > max(r.Y1, o.Y1)
}

// Contains is the half-open containment test for a target point.
func (r Rect) Contains(p Point) bool {
	return r.X1 <= p.X && p.X < r.X2 && r.Y1 <= p.Y && p.Y < r.Y2
}

// Covers reports whether o lies entirely inside r.
func (r Rect) Covers(o Rect) bool {
	return r.X1 <= o.X1 && o.X2 <= r.X2 && r.Y1 <= o.Y1 && o.Y2 <= r.Y2
}

// Score rates how close an area is to the requested size. The result is in
// [0, 1], strictly increasing in min/max ratio, and 1 only when area == size.
func Score(area, size int) float64 {
	lo, hi := area, size
	if lo > hi {
		lo, hi = hi, lo
	}
	if hi <= 0 || lo <= 0 {
		return 0
	}
	s := float64(lo) / float64(hi)
	return s * (2 - s)
}

// Score is shorthand for Score(r.Area(), size).
func (r Rect) Score(size int) float64 {
	return Score(r.Area(), size)
}

// SlideX translates r horizontally by d.
func (r Rect) SlideX(d int) (Rect, bool) {
	if r.X1+d < 0 || r.X2+d > L {
		return Rect{}, false
	}
	r.X1 += d
	r.X2 += d
	return r, true
}

// SlideY translates r vertically by d.
func (r Rect) SlideY(d int) (Rect, bool) {
	if r.Y1+d < 0 || r.Y2+d > L {
		return Rect{}, false
	}
	r.Y1 += d
	r.Y2 += d
	return r, true
}

// GrowX1 moves the left edge by d (negative d grows the box).
func (r Rect) GrowX1(d int) (Rect, bool) {
	if r.X1+d < 0 || r.X1+d >= r.X2 {
		return Rect{}, false
	}
	r.X1 += d
	return r, true
}

// GrowX2 moves the right edge by d (positive d grows the box).
func (r Rect) GrowX2(d int) (Rect, bool) {
	if r.X2+d <= r.X1 || r.X2+d > L {
		return Rect{}, false
	}
	r.X2 += d
	return r, true
}

// GrowY1 moves the bottom edge by d (negative d grows the box).
func (r Rect) GrowY1(d int) (Rect, bool) {
	if r.Y1+d < 0 || r.Y1+d >= r.Y2 {
		return Rect{}, false
	}
	r.Y1 += d
	return r, true
}

// GrowY2 moves the top edge by d (positive d grows the box).
func (r Rect) GrowY2(d int) (Rect, bool) {
	if r.Y2+d <= r.Y1 || r.Y2+d > L {
		return Rect{}, false
	}
	r.Y2 += d
	return r, true
}

// Grow moves the given edge outward by d (inward when d is negative).
func (r Rect) Grow(e Edge, d int) (Rect, bool) {
	switch e {
	case EdgeX1:
		return r.GrowX1(-d)
	case EdgeX2:
		return r.GrowX2(d)
	case EdgeY1:
		return r.GrowY1(-d)
	default:
		return r.GrowY2(d)
	}
}

// AdvancedEdges counts the edges of next that lie outside r.
func (r Rect) AdvancedEdges(next Rect) int {
	n := 0
	if next.X1 < r.X1 {
		n++
	}
	if next.Y1 < r.Y1 {
		n++
	}
	if next.X2 > r.X2 {
		n++
	}
	if next.Y2 > r.Y2 {
		n++
	}
	return n
}

// GrowStrip returns the region next adds to r through its first advancing
// edge (checked x1, y1, x2, y2) and that edge. ok is false when next does not
// extend past r on any side. When exactly one edge advances the strip is the
// whole of next minus r.
func (r Rect) GrowStrip(next Rect) (strip Rect, edge Edge, ok bool) {
	switch {
	case next.X1 < r.X1:
		return Rect{X1: next.X1, Y1: next.Y1, X2: r.X1, Y2: next.Y2}, EdgeX1, true
	case next.Y1 < r.Y1:
		return Rect{X1: next.X1, Y1: next.Y1, X2: next.X2, Y2: r.Y1}, EdgeY1, true
	case next.X2 > r.X2:
		return Rect{X1: r.X2, Y1: next.Y1, X2: next.X2, Y2: next.Y2}, EdgeX2, true
	case next.Y2 > r.Y2:
		return Rect{X1: next.X1, Y1: r.Y2, X2: next.X2, Y2: next.Y2}, EdgeY2, true
	}
	return Rect{}, 0, false
}

// PushBy retracts the edge of r that faces a strip advancing along edge,
// leaving r just outside the strip. The result may be empty or inverted when
// the strip swallows r; callers reject it through the containment test.
func (r Rect) PushBy(strip Rect, edge Edge) Rect {
	switch edge {
	case EdgeX1:
		r.X2 = strip.X1
	case EdgeX2:
		r.X1 = strip.X2
	case EdgeY1:
		r.Y2 = strip.Y1
	default:
		r.Y1 = strip.Y2
	}
	return r
}
