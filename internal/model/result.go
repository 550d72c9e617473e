package model

import (
	"errors"
	"math"
	"time"
)

// ErrInfeasibleLayout is returned by VerifyResult for a layout that breaks
// the placement invariants.
var ErrInfeasibleLayout = errors.New("infeasible layout")

// OptimizeResult is the best layout found by one run together with its
// run statistics.
type OptimizeResult struct {
	Rects      []Rect        `json:"rects"`
	TotalScore float64       `json:"total_score"`
	Seed       uint64        `json:"seed"`
	Rounds     int           `json:"rounds"`
	Proposals  int64         `json:"proposals"`
	Accepted   int64         `json:"accepted"`
	Pushes     int64         `json:"pushes"`
	Elapsed    time.Duration `json:"elapsed"`
}

// MeanScore is the total score divided by the number of rectangles.
func (r OptimizeResult) MeanScore() float64 {
	if len(r.Rects) == 0 {
		return 0
	}
	return r.TotalScore / float64(len(r.Rects))
}

// Points converts the mean score to contest points (1e9 for a perfect layout).
func (r OptimizeResult) Points() int64 {
	return int64(math.Round(1e9 * r.MeanScore()))
}

// AcceptanceRate is the share of proposals that were committed.
func (r OptimizeResult) AcceptanceRate() float64 {
	if r.Proposals == 0 {
		return 0
	}
	return float64(r.Accepted) / float64(r.Proposals)
}

// TotalScore sums the per-rectangle scores of a layout.
func TotalScore(rects []Rect, sizes []int) float64 {
	total := 0.0
	for i, r := range rects {
		total += r.Score(sizes[i])
	}
	return total
}

// VerifyResult checks a finished layout against its problem.
func VerifyResult(p *Problem, r OptimizeResult) error {
	return CheckLayout(p, r.Rects, ErrInfeasibleLayout)
}
