package model

import (
	"errors"
	"math"
	"testing"
)

func TestDefaultParamsValid(t *testing.T) {
	if err := DefaultParams().Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Params)
	}{
		{"zero temp1", func(p *Params) { p.Temp1 = 0 }},
		{"inverted schedule", func(p *Params) { p.Temp0 = p.Temp1 }},
		{"infinite temp0", func(p *Params) { p.Temp0 = math.Inf(1) }},
		{"zero step bound", func(p *Params) { p.PushDEnd = 0 }},
		{"negative weight", func(p *Params) { p.WeightD1Start = -0.1 }},
		{"NaN weight", func(p *Params) { p.WeightD2End = math.NaN() }},
		{"no start moves", func(p *Params) {
			p.WeightSlideStart, p.WeightD1Start, p.WeightD2Start, p.WeightPushStart = 0, 0, 0, 0
		}},
		{"no end moves", func(p *Params) {
			p.WeightSlideEnd, p.WeightD1End, p.WeightD2End, p.WeightPushEnd = 0, 0, 0, 0
		}},
	}
	for _, tt := range tests {
		p := DefaultParams()
		tt.modify(&p)
		if err := p.Validate(); !errors.Is(err, ErrInvalidParams) {
			t.Errorf("%s: got %v, want ErrInvalidParams", tt.name, err)
		}
	}
}

func TestLerp(t *testing.T) {
	if Lerp(2, 4, 0) != 2 || Lerp(2, 4, 1) != 4 || Lerp(2, 4, 0.5) != 3 {
		t.Error("Lerp endpoints or midpoint wrong")
	}
}
