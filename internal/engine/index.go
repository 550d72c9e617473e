package engine

import "github.com/hinohi/ahc001/internal/model"

// DefaultIndexDepth is the leaf level of the bucket hierarchy. Depth 2 gives
// the root, 4 quadrants and 16 leaf cells.
const DefaultIndexDepth = 2

const maxIndexDepth = 7

// SpatialIndex registers every rectangle in the smallest cell of a fixed
// quad hierarchy that fully contains it. Cells are numbered level by level
// (root = 0, then 4 cells, then 16, ...), so parent and child ids follow
// from offset arithmetic and no tree nodes exist.
//
// The index never owns rectangles: queries read the caller's slice, and the
// caller reports every committed change through Update.
type SpatialIndex struct {
	depth    int
	cellSize int
	offsets  []int // offsets[l] = first id at level l; offsets[depth+1] = bucket count
	buckets  [][]int
	visit    []int // scratch list of bucket ids for one query
}

// NewSpatialIndex builds the index for rects. depth outside 1..7 falls back
// to DefaultIndexDepth.
func NewSpatialIndex(rects []model.Rect, depth int) *SpatialIndex {
	if depth < 1 || depth > maxIndexDepth {
		depth = DefaultIndexDepth
	}
	cells := 1 << depth
	idx := &SpatialIndex{
		depth:    depth,
		cellSize: (model.L + cells - 1) / cells,
		offsets:  make([]int, depth+2),
	}
	for l := range idx.offsets {
		idx.offsets[l] = levelOffset(l)
	}
	idx.buckets = make([][]int, idx.offsets[depth+1])
	idx.visit = make([]int, 0, idx.offsets[depth+1])
	for i, r := range rects {
		g := idx.Group(r)
		idx.buckets[g] = append(idx.buckets[g], i)
	}
	return idx
}

// levelOffset is the number of cells above level l: (4^l - 1) / 3.
func levelOffset(l int) int {
	return ((1 << (2 * l)) - 1) / 3
}

// spread moves the low 8 bits of v to the even bit positions.
func spread(v uint32) uint32 {
	v &= 0xff
	v = (v | v<<4) & 0x0f0f
	v = (v | v<<2) & 0x3333
	v = (v | v<<1) & 0x5555
	return v
}

// leafCode interleaves the leaf cell coordinates of (x, y): even bits x, odd bits y.
func (idx *SpatialIndex) leafCode(x, y int) uint32 {
	last := (1 << idx.depth) - 1
	cx := min(max(x/idx.cellSize, 0), last)
	cy := min(max(y/idx.cellSize, 0), last)
	return spread(uint32(cx)) | spread(uint32(cy))<<1
}

// Depth returns the leaf level.
func (idx *SpatialIndex) Depth() int { return idx.depth }

// Buckets returns the number of cells across all levels.
func (idx *SpatialIndex) Buckets() int { return len(idx.buckets) }

// Bucket returns the rectangle indices registered in cell g. The slice is
// owned by the index.
func (idx *SpatialIndex) Bucket(g int) []int { return idx.buckets[g] }

// Group returns the id of the deepest cell that contains both the lower
// corner and the last occupied unit cell of r.
func (idx *SpatialIndex) Group(r model.Rect) int {
	a := idx.leafCode(r.X1, r.Y1)
	b := idx.leafCode(r.X2-1, r.Y2-1)
	level := idx.depth
	for diff := a ^ b; diff != 0; diff >>= 2 {
		level--
	}
	return idx.offsets[level] + int(b>>(2*(idx.depth-level)))
}

func (idx *SpatialIndex) level(g int) int {
	l := 0
	for g >= idx.offsets[l+1] {
		l++
	}
	return l
}

// related fills the scratch list with g, its ancestors up to the root, and
// then every descendant level by level. Any rectangle that can overlap a box
// registered at g lives in one of these cells.
func (idx *SpatialIndex) related(g int) []int {
	ids := idx.visit[:0]
	l := idx.level(g)
	local := g - idx.offsets[l]

	for al, alocal := l, local; ; al-- {
		ids = append(ids, idx.offsets[al]+alocal)
		if al == 0 {
			break
		}
		alocal >>= 2
	}
	for dl, width := l+1, 4; dl <= idx.depth; dl, width = dl+1, width*4 {
		start := idx.offsets[dl] + local*width
		for c := start; c < start+width; c++ {
			ids = append(ids, c)
		}
	}
	idx.visit = ids
	return ids
}

// Collides reports whether c overlaps any rectangle other than self.
func (idx *SpatialIndex) Collides(c model.Rect, self int, rects []model.Rect) bool {
	g := idx.Group(c)
	if g == 0 {
		for j := range rects {
			if j != self && c.Intersects(rects[j]) {
				return true
			}
		}
		return false
	}
	for _, b := range idx.related(g) {
		for _, j := range idx.buckets[b] {
			if j != self && c.Intersects(rects[j]) {
				return true
			}
		}
	}
	return false
}

// Push is the replacement box for a rectangle displaced by a push move.
type Push struct {
	Index int
	Rect  model.Rect
}

// PushBy finds every rectangle other than self that overlaps strip and
// retracts it out of the strip along edge. It returns false as soon as one
// retracted box would lose its target point; in that case the returned slice
// must be ignored. Results are appended to out[:0].
func (idx *SpatialIndex) PushBy(strip model.Rect, edge model.Edge, self int,
	rects []model.Rect, points []model.Point, out []Push) ([]Push, bool) {
	out = out[:0]
	push := func(j int) bool {
		if j == self || !strip.Intersects(rects[j]) {
			return true
		}
		p := rects[j].PushBy(strip, edge)
		if !p.Contains(points[j]) {
			return false
		}
		out = append(out, Push{Index: j, Rect: p})
		return true
	}

	g := idx.Group(strip)
	if g == 0 {
		for j := range rects {
			if !push(j) {
				return out, false
			}
		}
		return out, true
	}
	for _, b := range idx.related(g) {
		for _, j := range idx.buckets[b] {
			if !push(j) {
				return out, false
			}
		}
	}
	return out, true
}

// Update moves rectangle i between buckets after its box changed from prev
// to next. Order inside a bucket is not preserved.
func (idx *SpatialIndex) Update(next, prev model.Rect, i int) {
	from, to := idx.Group(prev), idx.Group(next)
	if from == to {
		return
	}
	bucket := idx.buckets[from]
	for k, j := range bucket {
		if j == i {
			last := len(bucket) - 1
			bucket[k] = bucket[last]
			idx.buckets[from] = bucket[:last]
			break
		}
	}
	idx.buckets[to] = append(idx.buckets[to], i)
}
