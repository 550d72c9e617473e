package model

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyProblem    = errors.New("problem has no targets")
	ErrLengthMismatch  = errors.New("points and sizes differ in length")
	ErrPointOutOfRange = errors.New("target point outside the placement area")
	ErrDuplicatePoint  = errors.New("duplicate target point")
	ErrInvalidSize     = errors.New("requested size must be positive")
	ErrInvalidInitial  = errors.New("invalid initial rectangle")
)

// Problem is one instance: a target point and a requested area per rectangle.
// Points and Sizes are parallel and never change after loading.
type Problem struct {
	Points []Point `json:"points"`
	Sizes  []int   `json:"sizes"`

	// Initial optionally seeds the search with a previous layout. When nil
	// every rectangle starts as the unit box on its target.
	Initial []Rect `json:"initial,omitempty"`
}

// NewProblem builds a validated problem.
func NewProblem(points []Point, sizes []int) (*Problem, error) {
	p := &Problem{Points: points, Sizes: sizes}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Len returns the number of rectangles.
func (p *Problem) Len() int { return len(p.Points) }

// Validate checks the instance once at load time so that nothing inside the
// search loop can fail.
func (p *Problem) Validate() error {
	if len(p.Points) == 0 {
		return ErrEmptyProblem
	}
	if len(p.Points) != len(p.Sizes) {
		return fmt.Errorf("%d points, %d sizes: %w", len(p.Points), len(p.Sizes), ErrLengthMismatch)
	}
	seen := make(map[Point]int, len(p.Points))
	for i, pt := range p.Points {
		if pt.X < 0 || pt.X >= L || pt.Y < 0 || pt.Y >= L {
			return fmt.Errorf("target %d (%d, %d): %w", i, pt.X, pt.Y, ErrPointOutOfRange)
		}
		if j, dup := seen[pt]; dup {
			return fmt.Errorf("targets %d and %d at (%d, %d): %w", j, i, pt.X, pt.Y, ErrDuplicatePoint)
		}
		seen[pt] = i
		if p.Sizes[i] <= 0 {
			return fmt.Errorf("target %d size %d: %w", i, p.Sizes[i], ErrInvalidSize)
		}
	}
	if p.Initial != nil {
		if err := p.validateInitial(); err != nil {
			return err
		}
	}
	return nil
}

func (p *Problem) validateInitial() error {
	if len(p.Initial) != len(p.Points) {
		return fmt.Errorf("%d initial rectangles for %d targets: %w", len(p.Initial), len(p.Points), ErrInvalidInitial)
	}
	return CheckLayout(p, p.Initial, ErrInvalidInitial)
}

// InitialRects returns a fresh copy of the starting layout.
func (p *Problem) InitialRects() []Rect {
	rects := make([]Rect, len(p.Points))
	if p.Initial != nil {
		copy(rects, p.Initial)
		return rects
	}
	for i, pt := range p.Points {
		rects[i] = UnitRect(pt)
	}
	return rects
}

// CheckLayout verifies that rects is a feasible placement for p: every box is
// inside the area, contains its own target, and no two boxes overlap. The
// returned error wraps kind.
func CheckLayout(p *Problem, rects []Rect, kind error) error {
	if len(rects) != len(p.Points) {
		return fmt.Errorf("%d rectangles for %d targets: %w", len(rects), len(p.Points), kind)
	}
	for i, r := range rects {
		if !r.Valid() {
			return fmt.Errorf("rectangle %d [%s] outside the area or empty: %w", i, r, kind)
		}
		if !r.Contains(p.Points[i]) {
			return fmt.Errorf("rectangle %d [%s] misses its target (%d, %d): %w",
				i, r, p.Points[i].X, p.Points[i].Y, kind)
		}
	}
	for i := range rects {
		for j := i + 1; j < len(rects); j++ {
			if rects[i].Intersects(rects[j]) {
				return fmt.Errorf("rectangles %d and %d overlap: %w", i, j, kind)
			}
		}
	}
	return nil
}
