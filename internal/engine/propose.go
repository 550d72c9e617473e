package engine

import (
	"math"
	"math/rand/v2"

	"github.com/hinohi/ahc001/internal/model"
)

// maxStep caps a single edit so that early, hot rounds cannot jump across
// the whole area in one move.
const maxStep = 4096

// moveKind selects the family of local edits.
type moveKind uint8

const (
	moveSlide moveKind = iota // translate along one axis
	moveGrow1                 // move one edge
	moveGrow2                 // grow one edge while an adjacent edge shrinks
	movePush                  // grow one edge outward, shrinking whatever is in the way
	numMoveKinds
)

func (k moveKind) String() string {
	switch k {
	case moveSlide:
		return "slide"
	case moveGrow1:
		return "grow1"
	case moveGrow2:
		return "grow2"
	default:
		return "push"
	}
}

// schedule is the state of the annealing schedule at one normalised time t.
// It is recomputed once per round and passed explicitly to the proposer.
type schedule struct {
	t    float64
	beta float64

	slideD, growD1, growD2, pushD float64

	cumWeight [numMoveKinds]float64 // cumulative, normalised; last entry is 1
}

func newSchedule(p model.Params, t float64) schedule {
	s := schedule{
		t:      t,
		beta:   1 / (math.Pow(p.Temp0, 1-t) * math.Pow(p.Temp1, t)),
		slideD: model.Lerp(p.SlideDStart, p.SlideDEnd, t),
		growD1: model.Lerp(p.GrowD1Start, p.GrowD1End, t),
		growD2: model.Lerp(p.GrowD2Start, p.GrowD2End, t),
		pushD:  model.Lerp(p.PushDStart, p.PushDEnd, t),
	}
	w := [numMoveKinds]float64{
		moveSlide: model.Lerp(p.WeightSlideStart, p.WeightSlideEnd, t),
		moveGrow1: model.Lerp(p.WeightD1Start, p.WeightD1End, t),
		moveGrow2: model.Lerp(p.WeightD2Start, p.WeightD2End, t),
		movePush:  model.Lerp(p.WeightPushStart, p.WeightPushEnd, t),
	}
	total := 0.0
	for _, v := range w {
		total += v
	}
	acc, last := 0.0, 0
	for k, v := range w {
		acc += v / total
		s.cumWeight[k] = acc
		if v > 0 {
			last = k
		}
	}
	// Rounding must not leave a sliver for trailing zero-weight kinds.
	for k := last; k < len(w); k++ {
		s.cumWeight[k] = 1
	}
	return s
}

// pick maps a uniform draw in [0, 1) to a move kind. Kinds with zero weight
// are never returned.
func (s *schedule) pick(u float64) moveKind {
	for k := moveSlide; k < numMoveKinds; k++ {
		if u < s.cumWeight[k] {
			return k
		}
	}
	return numMoveKinds - 1
}

// stepSize draws a positive edit length scaled by the rectangle's natural
// side length rt.
func stepSize(rng *rand.Rand, bound, rt float64) int {
	d := math.Ceil(rng.Float64() * bound * rt)
	return int(min(max(d, 1), maxStep))
}

// propose draws one edit of the given kind for r. ok is false when the edit
// leaves the area or collapses the box. For movePush the returned box grows
// exactly one edge outward.
func propose(rng *rand.Rand, s *schedule, kind moveKind, r model.Rect, rt float64) (model.Rect, bool) {
	switch kind {
	case moveSlide:
		d := stepSize(rng, s.slideD, rt)
		switch rng.Uint32() % 4 {
		case 0:
			return r.SlideX(d)
		case 1:
			return r.SlideX(-d)
		case 2:
			return r.SlideY(d)
		default:
			return r.SlideY(-d)
		}

	case moveGrow1:
		d := stepSize(rng, s.growD1, rt)
		switch rng.Uint32() % 8 {
		case 0:
			return r.GrowX1(d)
		case 1:
			return r.GrowX1(-d)
		case 2:
			return r.GrowX2(d)
		case 3:
			return r.GrowX2(-d)
		case 4:
			return r.GrowY1(d)
		case 5:
			return r.GrowY1(-d)
		case 6:
			return r.GrowY2(d)
		default:
			return r.GrowY2(-d)
		}

	case moveGrow2:
		d1 := stepSize(rng, s.growD2, rt)
		d2 := stepSize(rng, s.growD2, rt)
		var (
			next model.Rect
			ok   bool
		)
		// Each variant advances one edge and retracts an adjacent one.
		switch rng.Uint32() % 8 {
		case 0:
			if next, ok = r.GrowX1(d1); ok {
				next, ok = next.GrowY1(-d2)
			}
		case 1:
			if next, ok = r.GrowX1(-d1); ok {
				next, ok = next.GrowY1(d2)
			}
		case 2:
			if next, ok = r.GrowX1(d1); ok {
				next, ok = next.GrowY2(d2)
			}
		case 3:
			if next, ok = r.GrowX1(-d1); ok {
				next, ok = next.GrowY2(-d2)
			}
		case 4:
			if next, ok = r.GrowX2(d1); ok {
				next, ok = next.GrowY1(d2)
			}
		case 5:
			if next, ok = r.GrowX2(-d1); ok {
				next, ok = next.GrowY1(-d2)
			}
		case 6:
			if next, ok = r.GrowX2(d1); ok {
				next, ok = next.GrowY2(-d2)
			}
		default:
			if next, ok = r.GrowX2(-d1); ok {
				next, ok = next.GrowY2(d2)
			}
		}
		return next, ok

	default:
		d := stepSize(rng, s.pushD, rt)
		return r.Grow(model.Edge(rng.Uint32()%4), d)
	}
}
