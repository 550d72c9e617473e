package engine

import (
	"fmt"

	"github.com/hinohi/ahc001/internal/model"
)

// ComparisonScenario defines a named parameter set to compare.
type ComparisonScenario struct {
	Name   string
	Params model.Params
}

// ComparisonResult holds the per-problem results and aggregate statistics
// for a single scenario.
type ComparisonResult struct {
	Scenario   ComparisonScenario
	Results    []model.OptimizeResult
	MeanScore  float64 // mean of the per-problem mean scores
	MinScore   float64
	MaxScore   float64
	MeanPoints int64
	Err        error
}

// CompareScenarios runs every scenario on every problem with the same
// options and seed and returns the results in scenario order. A scenario
// whose parameters fail validation carries the error and no results.
func CompareScenarios(scenarios []ComparisonScenario, problems []*model.Problem, opts Options) []ComparisonResult {
	out := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		cr := ComparisonResult{Scenario: scenario}
		for _, p := range problems {
			a, err := New(p, scenario.Params, opts)
			if err != nil {
				cr.Err = fmt.Errorf("scenario %q: %w", scenario.Name, err)
				cr.Results = nil
				break
			}
			cr.Results = append(cr.Results, a.Run())
		}
		if cr.Err == nil && len(cr.Results) > 0 {
			sum, pts := 0.0, int64(0)
			cr.MinScore, cr.MaxScore = cr.Results[0].MeanScore(), cr.Results[0].MeanScore()
			for _, r := range cr.Results {
				s := r.MeanScore()
				sum += s
				pts += r.Points()
				cr.MinScore = min(cr.MinScore, s)
				cr.MaxScore = max(cr.MaxScore, s)
			}
			cr.MeanScore = sum / float64(len(cr.Results))
			cr.MeanPoints = pts / int64(len(cr.Results))
		}
		out = append(out, cr)
	}

	return out
}

// BuildDefaultScenarios derives what-if variants from the base parameters:
// no push moves, no slides, and a hotter and a colder schedule.
func BuildDefaultScenarios(base model.Params) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{Name: "Current Parameters", Params: base},
	}

	if base.WeightPushStart > 0 || base.WeightPushEnd > 0 {
		noPush := base
		noPush.WeightPushStart, noPush.WeightPushEnd = 0, 0
		scenarios = append(scenarios, ComparisonScenario{Name: "No Push Moves", Params: noPush})
	}

	if base.WeightSlideStart > 0 || base.WeightSlideEnd > 0 {
		noSlide := base
		noSlide.WeightSlideStart, noSlide.WeightSlideEnd = 0, 0
		scenarios = append(scenarios, ComparisonScenario{Name: "No Slide Moves", Params: noSlide})
	}

	hot := base
	hot.Temp0 = base.Temp0 * 2
	scenarios = append(scenarios, ComparisonScenario{
		Name:   fmt.Sprintf("Start Temperature %.3g (double)", hot.Temp0),
		Params: hot,
	})

	cold := base
	cold.Temp0 = base.Temp0 / 2
	if cold.Temp0 > cold.Temp1 {
		scenarios = append(scenarios, ComparisonScenario{
			Name:   fmt.Sprintf("Start Temperature %.3g (half)", cold.Temp0),
			Params: cold,
		})
	}

	return scenarios
}
