package model

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidParams marks a parameter record that would leave the optimizer
// stuck or undefined.
var ErrInvalidParams = errors.New("invalid annealing parameters")

// Params is the tunable annealing record. Step bounds are multiplied by the
// square root of a rectangle's requested size; weights are relative and are
// normalised at each point of the schedule.
type Params struct {
	// Temperature schedule endpoints, temp0 > temp1 > 0.
	Temp0 float64 `json:"temp0"`
	Temp1 float64 `json:"temp1"`

	SlideDStart float64 `json:"slide_d_start"`
	SlideDEnd   float64 `json:"slide_d_end"`
	GrowD1Start float64 `json:"grow_d1_start"`
	GrowD1End   float64 `json:"grow_d1_end"`
	GrowD2Start float64 `json:"grow_d2_start"`
	GrowD2End   float64 `json:"grow_d2_end"`
	PushDStart  float64 `json:"push_d_start"`
	PushDEnd    float64 `json:"push_d_end"`

	WeightSlideStart float64 `json:"weight_slide_start"`
	WeightSlideEnd   float64 `json:"weight_slide_end"`
	WeightD1Start    float64 `json:"weight_d1_start"`
	WeightD1End      float64 `json:"weight_d1_end"`
	WeightD2Start    float64 `json:"weight_d2_start"`
	WeightD2End      float64 `json:"weight_d2_end"`
	WeightPushStart  float64 `json:"weight_push_start"`
	WeightPushEnd    float64 `json:"weight_push_end"`
}

// DefaultParams returns the tuned record used when no parameters are given.
func DefaultParams() Params {
	return Params{
		Temp0: 0.10776805748978419,
		Temp1: 0.00017098824773959434,

		SlideDStart: 0.5,
		SlideDEnd:   0.05,
		GrowD1Start: 4.0413842816848,
		GrowD1End:   0.632905527414328,
		GrowD2Start: 4.2877955712484,
		GrowD2End:   0.087155403694206,
		PushDStart:  2.0,
		PushDEnd:    0.05,

		WeightSlideStart: 0.04,
		WeightSlideEnd:   0.04,
		WeightD1Start:    0.245,
		WeightD1End:      0.1225,
		WeightD2Start:    0.715,
		WeightD2End:      0.3575,
		WeightPushStart:  0,
		WeightPushEnd:    0.48,
	}
}

// Validate rejects records that would divide by zero, draw from an empty
// step range, or never pick a move.
func (p Params) Validate() error {
	if !positive(p.Temp0) || !positive(p.Temp1) {
		return fmt.Errorf("temperatures must be positive (temp0=%g, temp1=%g): %w", p.Temp0, p.Temp1, ErrInvalidParams)
	}
	if p.Temp0 <= p.Temp1 {
		return fmt.Errorf("temp0 %g must exceed temp1 %g: %w", p.Temp0, p.Temp1, ErrInvalidParams)
	}

	bounds := []struct {
		name  string
		value float64
	}{
		{"slide_d_start", p.SlideDStart}, {"slide_d_end", p.SlideDEnd},
		{"grow_d1_start", p.GrowD1Start}, {"grow_d1_end", p.GrowD1End},
		{"grow_d2_start", p.GrowD2Start}, {"grow_d2_end", p.GrowD2End},
		{"push_d_start", p.PushDStart}, {"push_d_end", p.PushDEnd},
	}
	for _, b := range bounds {
		if !positive(b.value) {
			return fmt.Errorf("step bound %s=%g must be positive: %w", b.name, b.value, ErrInvalidParams)
		}
	}

	weights := []struct {
		name  string
		value float64
	}{
		{"weight_slide_start", p.WeightSlideStart}, {"weight_slide_end", p.WeightSlideEnd},
		{"weight_d1_start", p.WeightD1Start}, {"weight_d1_end", p.WeightD1End},
		{"weight_d2_start", p.WeightD2Start}, {"weight_d2_end", p.WeightD2End},
		{"weight_push_start", p.WeightPushStart}, {"weight_push_end", p.WeightPushEnd},
	}
	for _, w := range weights {
		if w.value < 0 || math.IsNaN(w.value) || math.IsInf(w.value, 0) {
			return fmt.Errorf("weight %s=%g must be a finite non-negative number: %w", w.name, w.value, ErrInvalidParams)
		}
	}
	if p.WeightSlideStart+p.WeightD1Start+p.WeightD2Start+p.WeightPushStart <= 0 {
		return fmt.Errorf("start move weights sum to zero: %w", ErrInvalidParams)
	}
	if p.WeightSlideEnd+p.WeightD1End+p.WeightD2End+p.WeightPushEnd <= 0 {
		return fmt.Errorf("end move weights sum to zero: %w", ErrInvalidParams)
	}
	return nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

// Lerp interpolates linearly between start (t=0) and end (t=1).
func Lerp(start, end, t float64) float64 {
	return start*(1-t) + end*t
}
