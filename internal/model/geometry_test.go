package model

import (
	"math"
	"testing"
)

func TestScore(t *testing.T) {
	tests := []struct {
		area, size int
		want       float64
	}{
		{100, 100, 1},
		{50, 100, 0.75},
		{200, 100, 0.75},
		{1, 4, 0.4375},
		{0, 100, 0},
	}
	for _, tt := range tests {
		if got := Score(tt.area, tt.size); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Score(%d, %d) = %v, want %v", tt.area, tt.size, got, tt.want)
		}
	}

	prev := 0.0
	for area := 1; area <= 100; area++ {
		s := Score(area, 100)
		if s <= prev {
			t.Fatalf("score not increasing at area %d: %v <= %v", area, s, prev)
		}
		prev = s
	}
}

func TestRectIntersectsHalfOpen(t *testing.T) {
	a := Rect{X1: 0, Y1: 0, X2: 10, Y2: 10}
	tests := []struct {
		name string
		b    Rect
		want bool
	}{
		{"touching right edge", Rect{X1: 10, Y1: 0, X2: 20, Y2: 10}, false},
		{"touching top edge", Rect{X1: 0, Y1: 10, X2: 10, Y2: 20}, false},
		{"touching corner", Rect{X1: 10, Y1: 10, X2: 11, Y2: 11}, false},
		{"one unit overlap", Rect{X1: 9, Y1: 9, X2: 20, Y2: 20}, true},
		{"inside", Rect{X1: 2, Y1: 2, X2: 3, Y2: 3}, true},
	}
	for _, tt := range tests {
		if got := a.Intersects(tt.b); got != tt.want {
			t.Errorf("%s: Intersects = %v, want %v", tt.name, got, tt.want)
		}
		if got := tt.b.Intersects(a); got != tt.want {
			t.Errorf("%s: Intersects is not symmetric", tt.name)
		}
	}
}

func TestRectContainsAndValid(t *testing.T) {
	r := Rect{X1: 5, Y1: 5, X2: 8, Y2: 8}
	if !r.Contains(Point{X: 5, Y: 7}) {
		t.Error("lower-left cell and last row must be contained")
	}
	if r.Contains(Point{X: 8, Y: 5}) {
		t.Error("x2 is exclusive")
	}
	if !UnitRect(Point{X: L - 1, Y: L - 1}).Valid() {
		t.Error("unit box at the far corner is valid")
	}
	for _, bad := range []Rect{
		{X1: 0, Y1: 0, X2: 0, Y2: 1},
		{X1: -1, Y1: 0, X2: 1, Y2: 1},
		{X1: 0, Y1: 0, X2: L + 1, Y2: 1},
		{X1: 3, Y1: 3, X2: 2, Y2: 4},
	} {
		if bad.Valid() {
			t.Errorf("%v should be invalid", bad)
		}
	}
}

func TestSlideAndGrowBounds(t *testing.T) {
	r := Rect{X1: 0, Y1: 0, X2: 10, Y2: 10}

	if _, ok := r.SlideX(-1); ok {
		t.Error("slide past x=0 must fail")
	}
	if got, ok := r.SlideY(L - 10); !ok || got.Y2 != L {
		t.Errorf("slide to the top edge: %v %v", got, ok)
	}
	if _, ok := r.GrowX2(L - 9); ok {
		t.Error("grow past L must fail")
	}
	if got, ok := r.GrowX2(L - 10); !ok || got.X2 != L || !got.Valid() {
		t.Errorf("an edge may land on L: %v %v", got, ok)
	}
	if _, ok := r.GrowX1(10); ok {
		t.Error("collapsing the box must fail")
	}
	if got, ok := r.Grow(EdgeY2, 5); !ok || got.Y2 != 15 {
		t.Errorf("Grow(EdgeY2, 5) = %v %v", got, ok)
	}
	if got, ok := r.Grow(EdgeX1, -3); !ok || got.X1 != 3 {
		t.Errorf("Grow(EdgeX1, -3) = %v %v", got, ok)
	}
}

func TestGrowStripAndPushBy(t *testing.T) {
	cur := Rect{X1: 10, Y1: 10, X2: 20, Y2: 20}

	next := Rect{X1: 10, Y1: 10, X2: 25, Y2: 20}
	strip, edge, ok := cur.GrowStrip(next)
	if !ok || edge != EdgeX2 || strip != (Rect{X1: 20, Y1: 10, X2: 25, Y2: 20}) {
		t.Fatalf("GrowStrip = %v %v %v", strip, edge, ok)
	}
	if n := cur.AdvancedEdges(next); n != 1 {
		t.Errorf("AdvancedEdges = %d, want 1", n)
	}

	neighbour := Rect{X1: 22, Y1: 0, X2: 40, Y2: 40}
	pushed := neighbour.PushBy(strip, edge)
	if pushed.X1 != 25 || pushed.Intersects(next) {
		t.Errorf("pushed neighbour %v still overlaps %v", pushed, next)
	}

	if _, _, ok := cur.GrowStrip(Rect{X1: 12, Y1: 12, X2: 18, Y2: 18}); ok {
		t.Error("a shrunk box advances no edge")
	}
	if n := cur.AdvancedEdges(Rect{X1: 9, Y1: 9, X2: 21, Y2: 21}); n != 4 {
		t.Errorf("AdvancedEdges = %d, want 4", n)
	}
}

func TestRectString(t *testing.T) {
	if got := (Rect{X1: 1, Y1: 2, X2: 3, Y2: 4}).String(); got != "1 2 3 4" {
		t.Errorf("String() = %q", got)
	}
}
