package engine

import (
	"math/rand/v2"
	"testing"

	"github.com/hinohi/ahc001/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpread(t *testing.T) {
	assert.Equal(t, uint32(0), spread(0))
	assert.Equal(t, uint32(0b1000101), spread(0b1011))
	assert.Equal(t, uint32(0x5555), spread(0xff))
	assert.Equal(t, uint32(0x5555), spread(0x1ff), "only the low 8 bits are used")
}

func TestLevelOffset(t *testing.T) {
	assert.Equal(t, []int{0, 1, 5, 21, 85}, []int{
		levelOffset(0), levelOffset(1), levelOffset(2), levelOffset(3), levelOffset(4),
	})
}

func TestNewSpatialIndex_DepthFallback(t *testing.T) {
	assert.Equal(t, DefaultIndexDepth, NewSpatialIndex(nil, 0).Depth())
	assert.Equal(t, DefaultIndexDepth, NewSpatialIndex(nil, 8).Depth())
	idx := NewSpatialIndex(nil, 3)
	assert.Equal(t, 3, idx.Depth())
	assert.Equal(t, 85, idx.Buckets())
}

func TestGroup_Depth2(t *testing.T) {
	idx := NewSpatialIndex(nil, 2) // leaf cells of 2500

	tests := []struct {
		name string
		r    model.Rect
		want int
	}{
		{"whole area", model.Rect{X1: 0, Y1: 0, X2: model.L, Y2: model.L}, 0},
		{"lower-left quadrant", model.Rect{X1: 0, Y1: 0, X2: 5000, Y2: 5000}, 1},
		{"upper-right quadrant", model.Rect{X1: 5000, Y1: 5000, X2: 10000, Y2: 10000}, 4},
		{"first leaf", model.Rect{X1: 0, Y1: 0, X2: 2500, Y2: 2500}, 5},
		{"leaf right of origin", model.Rect{X1: 2500, Y1: 0, X2: 2501, Y2: 1}, 6},
		{"leaf above origin", model.Rect{X1: 0, Y1: 2500, X2: 1, Y2: 2501}, 7},
		{"last leaf", model.Rect{X1: 9999, Y1: 9999, X2: 10000, Y2: 10000}, 20},
		{"crosses the middle", model.Rect{X1: 4999, Y1: 100, X2: 5001, Y2: 200}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, idx.Group(tt.r))
		})
	}
}

func TestGroup_ExclusiveUpperEdge(t *testing.T) {
	// A box that ends exactly on a cell boundary belongs to the lower cell.
	idx := NewSpatialIndex(nil, 2)
	assert.Equal(t, 5, idx.Group(model.Rect{X1: 2000, Y1: 2000, X2: 2500, Y2: 2500}))
}

func randomRect(rng *rand.Rand) model.Rect {
	w := 1 + rng.IntN(1500)
	h := 1 + rng.IntN(1500)
	x := rng.IntN(model.L - w + 1)
	y := rng.IntN(model.L - h + 1)
	return model.Rect{X1: x, Y1: y, X2: x + w, Y2: y + h}
}

func bruteCollides(c model.Rect, self int, rects []model.Rect) bool {
	for j, r := range rects {
		if j != self && c.Intersects(r) {
			return true
		}
	}
	return false
}

func TestCollides_MatchesBruteForce(t *testing.T) {
	for depth := 1; depth <= maxIndexDepth; depth++ {
		rng := rand.New(rand.NewPCG(uint64(depth), 7))
		rects := make([]model.Rect, 60)
		for i := range rects {
			rects[i] = randomRect(rng)
		}
		idx := NewSpatialIndex(rects, depth)

		for q := 0; q < 500; q++ {
			// Move a random member first so the index sees updates too.
			i := rng.IntN(len(rects))
			next := randomRect(rng)
			idx.Update(next, rects[i], i)
			rects[i] = next

			c := randomRect(rng)
			self := rng.IntN(len(rects) + 1) // len(rects) means no self
			require.Equal(t, bruteCollides(c, self, rects), idx.Collides(c, self, rects),
				"depth %d query %d: %v", depth, q, c)
		}
	}
}

func TestUpdate_SameGroupIsNoop(t *testing.T) {
	rects := []model.Rect{{X1: 10, Y1: 10, X2: 20, Y2: 20}}
	idx := NewSpatialIndex(rects, 2)
	g := idx.Group(rects[0])

	idx.Update(model.Rect{X1: 10, Y1: 10, X2: 30, Y2: 30}, rects[0], 0)
	assert.Equal(t, []int{0}, idx.Bucket(g))
}

func TestUpdate_MovesBetweenBuckets(t *testing.T) {
	rects := []model.Rect{
		{X1: 10, Y1: 10, X2: 20, Y2: 20},
		{X1: 30, Y1: 30, X2: 40, Y2: 40},
		{X1: 50, Y1: 50, X2: 60, Y2: 60},
	}
	idx := NewSpatialIndex(rects, 2)
	leaf := idx.Group(rects[0])
	require.Equal(t, []int{0, 1, 2}, idx.Bucket(leaf))

	moved := model.Rect{X1: 10, Y1: 10, X2: 6000, Y2: 20}
	idx.Update(moved, rects[0], 0)
	rects[0] = moved

	assert.ElementsMatch(t, []int{1, 2}, idx.Bucket(leaf))
	assert.Equal(t, []int{0}, idx.Bucket(idx.Group(moved)))
	assert.True(t, idx.Collides(model.Rect{X1: 5000, Y1: 15, X2: 5001, Y2: 16}, 1, rects))
}

func TestPushBy_RetractsNeighbour(t *testing.T) {
	rects := []model.Rect{
		{X1: 0, Y1: 0, X2: 10, Y2: 10},
		{X1: 10, Y1: 0, X2: 20, Y2: 10},
		{X1: 0, Y1: 10, X2: 10, Y2: 20}, // touches the strip edge only
	}
	points := []model.Point{{X: 0, Y: 0}, {X: 15, Y: 5}, {X: 5, Y: 15}}
	idx := NewSpatialIndex(rects, 2)

	next, ok := rects[0].Grow(model.EdgeX2, 3)
	require.True(t, ok)
	strip, edge, ok := rects[0].GrowStrip(next)
	require.True(t, ok)
	require.Equal(t, model.EdgeX2, edge)

	pushed, ok := idx.PushBy(strip, edge, 0, rects, points, nil)
	require.True(t, ok)
	require.Len(t, pushed, 1)
	assert.Equal(t, Push{Index: 1, Rect: model.Rect{X1: 13, Y1: 0, X2: 20, Y2: 10}}, pushed[0])
}

func TestPushBy_FailsWhenTargetWouldBeLost(t *testing.T) {
	rects := []model.Rect{
		{X1: 0, Y1: 0, X2: 10, Y2: 10},
		{X1: 10, Y1: 0, X2: 20, Y2: 10},
	}
	points := []model.Point{{X: 0, Y: 0}, {X: 11, Y: 5}}
	before := append([]model.Rect(nil), rects...)
	idx := NewSpatialIndex(rects, 2)

	next, _ := rects[0].Grow(model.EdgeX2, 3)
	strip, edge, _ := rects[0].GrowStrip(next)

	_, ok := idx.PushBy(strip, edge, 0, rects, points, nil)
	assert.False(t, ok)
	assert.Equal(t, before, rects, "a failed push must not touch the layout")
}

func TestPushBy_EveryEdge(t *testing.T) {
	// A centre box surrounded by four neighbours, each pushed in turn.
	centre := model.Rect{X1: 100, Y1: 100, X2: 200, Y2: 200}
	rects := []model.Rect{
		centre,
		{X1: 0, Y1: 100, X2: 100, Y2: 200},   // left
		{X1: 200, Y1: 100, X2: 300, Y2: 200}, // right
		{X1: 100, Y1: 0, X2: 200, Y2: 100},   // below
		{X1: 100, Y1: 200, X2: 200, Y2: 300}, // above
	}
	points := []model.Point{{X: 150, Y: 150}, {X: 10, Y: 150}, {X: 290, Y: 150}, {X: 150, Y: 10}, {X: 150, Y: 290}}
	idx := NewSpatialIndex(rects, 3)

	tests := []struct {
		edge  model.Edge
		index int
		want  model.Rect
	}{
		{model.EdgeX1, 1, model.Rect{X1: 0, Y1: 100, X2: 95, Y2: 200}},
		{model.EdgeX2, 2, model.Rect{X1: 205, Y1: 100, X2: 300, Y2: 200}},
		{model.EdgeY1, 3, model.Rect{X1: 100, Y1: 0, X2: 200, Y2: 95}},
		{model.EdgeY2, 4, model.Rect{X1: 100, Y1: 205, X2: 200, Y2: 300}},
	}
	for _, tt := range tests {
		t.Run(tt.edge.String(), func(t *testing.T) {
			next, ok := centre.Grow(tt.edge, 5)
			require.True(t, ok)
			strip, edge, ok := centre.GrowStrip(next)
			require.True(t, ok)
			require.Equal(t, tt.edge, edge)

			pushed, ok := idx.PushBy(strip, edge, 0, rects, points, nil)
			require.True(t, ok)
			require.Len(t, pushed, 1)
			assert.Equal(t, tt.index, pushed[0].Index)
			assert.Equal(t, tt.want, pushed[0].Rect)
			assert.False(t, pushed[0].Rect.Intersects(next))
		})
	}
}
