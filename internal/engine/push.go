package engine

import "github.com/hinohi/ahc001/internal/model"

// stepPush resolves a push move: i grows from cur to next, and every
// rectangle in the new strip is retracted out of it. The move is all or
// nothing. If any displaced rectangle would lose its target point nothing
// changes.
func (a *Annealer) stepPush(s *schedule, i int, cur, next model.Rect) {
	strip, edge, ok := cur.GrowStrip(next)
	if !ok {
		return
	}
	pushed, ok := a.index.PushBy(strip, edge, i, a.rects, a.problem.Points, a.pushBuf)
	a.pushBuf = pushed
	if !ok {
		return
	}

	newScore := next.Score(a.problem.Sizes[i])
	delta := newScore - a.scores[i]
	a.pushScore = a.pushScore[:0]
	for _, p := range pushed {
		sc := p.Rect.Score(a.problem.Sizes[p.Index])
		a.pushScore = append(a.pushScore, sc)
		delta += sc - a.scores[p.Index]
	}
	if !a.accept(delta, s.beta) {
		return
	}

	a.commit(i, next, newScore)
	for k, p := range pushed {
		a.commit(p.Index, p.Rect, a.pushScore[k])
	}
	a.score += delta
	a.accepted++
	a.pushes += int64(len(pushed))
	a.snapshot()
}
