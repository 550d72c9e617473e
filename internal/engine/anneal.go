package engine

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"time"

	"github.com/hinohi/ahc001/internal/model"
)

// ProposalsPerRound is how many edits are drawn between two schedule updates
// and clock checks.
const ProposalsPerRound = 1000

// Options control one annealing run.
type Options struct {
	Seed uint64
	// TimeLimit is the wall-clock budget. It is ignored when Rounds > 0.
	TimeLimit time.Duration
	// Rounds, when positive, replaces the clock: the schedule advances by
	// round count and the run stops after Rounds rounds. Runs with a round
	// budget are reproducible for a fixed seed.
	Rounds     int
	IndexDepth int
	Logger     *slog.Logger
}

// DefaultOptions returns the contest setup: seed 1 and just under five seconds.
func DefaultOptions() Options {
	return Options{
		Seed:       1,
		TimeLimit:  4950 * time.Millisecond,
		IndexDepth: DefaultIndexDepth,
	}
}

// Annealer owns one working layout, its score cache, its spatial index and
// the best snapshot. It is not safe for concurrent use; run independent
// annealers for parallel restarts.
type Annealer struct {
	problem *model.Problem
	params  model.Params
	opts    Options
	log     *slog.Logger
	rng     *rand.Rand

	rects    []model.Rect
	scores   []float64
	sizeRoot []float64
	score    float64
	index    *SpatialIndex

	best      []model.Rect
	bestScore float64

	pushBuf   []Push
	pushScore []float64

	rounds    int
	proposals int64
	accepted  int64
	pushes    int64
}

// New validates the problem and parameters and prepares an annealer. Any
// error here is a fatal configuration or input error.
func New(problem *model.Problem, params model.Params, opts Options) (*Annealer, error) {
	if err := problem.Validate(); err != nil {
		return nil, fmt.Errorf("problem: %w", err)
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if opts.Rounds <= 0 && opts.TimeLimit <= 0 {
		return nil, fmt.Errorf("either a time limit or a round budget is required: %w", model.ErrInvalidParams)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	n := problem.Len()
	a := &Annealer{
		problem:  problem,
		params:   params,
		opts:     opts,
		log:      logger,
		rng:      rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15)),
		rects:    problem.InitialRects(),
		scores:   make([]float64, n),
		sizeRoot: make([]float64, n),
	}
	for i, r := range a.rects {
		a.scores[i] = r.Score(problem.Sizes[i])
		a.score += a.scores[i]
		a.sizeRoot[i] = math.Sqrt(float64(problem.Sizes[i]))
	}
	a.index = NewSpatialIndex(a.rects, opts.IndexDepth)
	a.best = append([]model.Rect(nil), a.rects...)
	a.bestScore = a.score
	return a, nil
}

// Run anneals until the budget is spent and returns the best layout seen.
func (a *Annealer) Run() model.OptimizeResult {
	start := time.Now()
	a.log.Info("anneal start",
		slog.Int("n", len(a.rects)),
		slog.Uint64("seed", a.opts.Seed),
		slog.Int("rounds", a.opts.Rounds),
		slog.Duration("time_limit", a.opts.TimeLimit),
		slog.Float64("score", a.score))

	for {
		t, done := a.progress(time.Since(start))
		if done {
			break
		}
		s := newSchedule(a.params, t)

		// Re-sum from the cache so floating-point drift cannot accumulate.
		a.score = 0
		for _, v := range a.scores {
			a.score += v
		}

		for k := 0; k < ProposalsPerRound; k++ {
			a.step(&s)
		}
		a.rounds++
		if a.rounds%100 == 0 {
			a.log.Debug("anneal progress",
				slog.Int("round", a.rounds),
				slog.Float64("t", t),
				slog.Float64("beta", s.beta),
				slog.Float64("score", a.score),
				slog.Float64("best", a.bestScore))
		}
	}

	// The running total drifts within a round; report the exact sum.
	res := model.OptimizeResult{
		Rects:      append([]model.Rect(nil), a.best...),
		TotalScore: model.TotalScore(a.best, a.problem.Sizes),
		Seed:       a.opts.Seed,
		Rounds:     a.rounds,
		Proposals:  a.proposals,
		Accepted:   a.accepted,
		Pushes:     a.pushes,
		Elapsed:    time.Since(start),
	}
	a.log.Info("anneal done",
		slog.Float64("best", res.TotalScore),
		slog.Int64("points", res.Points()),
		slog.Int("rounds", res.Rounds),
		slog.Int64("accepted", res.Accepted),
		slog.Duration("elapsed", res.Elapsed))
	return res
}

// progress maps the budget to normalised time t in [0, 1).
func (a *Annealer) progress(elapsed time.Duration) (t float64, done bool) {
	if a.opts.Rounds > 0 {
		if a.rounds >= a.opts.Rounds {
			return 1, true
		}
		return float64(a.rounds) / float64(a.opts.Rounds), false
	}
	if elapsed >= a.opts.TimeLimit {
		return 1, true
	}
	return elapsed.Seconds() / a.opts.TimeLimit.Seconds(), false
}

// step draws and evaluates one proposal. Draw order: rectangle, move kind,
// step sizes and variant, then the Metropolis uniform only when the move
// loses score.
func (a *Annealer) step(s *schedule) {
	a.proposals++
	i := a.rng.IntN(len(a.rects))
	kind := s.pick(a.rng.Float64())
	cur := a.rects[i]

	next, ok := propose(a.rng, s, kind, cur, a.sizeRoot[i])
	if !ok || !next.Contains(a.problem.Points[i]) {
		return
	}

	if kind == movePush {
		a.stepPush(s, i, cur, next)
		return
	}

	newScore := next.Score(a.problem.Sizes[i])
	delta := newScore - a.scores[i]
	if !a.accept(delta, s.beta) {
		return
	}
	if a.collides(i, cur, next) {
		return
	}
	a.commit(i, next, newScore)
	a.score += delta
	a.accepted++
	a.snapshot()
}

// collides checks only the region that next adds to cur: the rest was
// already free.
func (a *Annealer) collides(i int, cur, next model.Rect) bool {
	switch cur.AdvancedEdges(next) {
	case 0:
		return false
	case 1:
		strip, _, _ := cur.GrowStrip(next)
		return a.index.Collides(strip, i, a.rects)
	default:
		return a.index.Collides(next, i, a.rects)
	}
}

// accept is the Metropolis criterion.
func (a *Annealer) accept(delta, beta float64) bool {
	if delta >= 0 {
		return true
	}
	return a.rng.Float64() < math.Exp(delta*beta)
}

func (a *Annealer) commit(i int, next model.Rect, score float64) {
	a.index.Update(next, a.rects[i], i)
	a.rects[i] = next
	a.scores[i] = score
}

// snapshot copies the layout when the running total beats the best.
func (a *Annealer) snapshot() {
	if a.score > a.bestScore {
		a.bestScore = a.score
		copy(a.best, a.rects)
	}
}

// Score returns the running total score.
func (a *Annealer) Score() float64 { return a.score }

// Rects returns the working layout. The slice is owned by the annealer.
func (a *Annealer) Rects() []model.Rect { return a.rects }
