// Package server exposes the optimizer as a JSON job API: an HTTP service
// built on gin with a result cache, and the single-job runner shared with
// the Lambda entry point.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hinohi/ahc001/internal/engine"
	"github.com/hinohi/ahc001/internal/gen"
	"github.com/hinohi/ahc001/internal/importer"
	"github.com/hinohi/ahc001/internal/model"
	"github.com/hinohi/ahc001/internal/project"
)

// ErrBadJob marks a job request that cannot be run as given.
var ErrBadJob = errors.New("bad job request")

// deadlineMargin is kept free before a context deadline so the answer can
// still be returned.
const deadlineMargin = 200 * time.Millisecond

// MaxJobTargets bounds N for generated instances; larger instances must be
// sent as Input.
const MaxJobTargets = gen.MaxN

// JobRequest is one optimisation job. The instance is Input when given,
// otherwise it is generated from (Seed, N) with N at most MaxJobTargets.
// Arg is an optional parameter JSON object.
type JobRequest struct {
	MessageID string `json:"message_id"`
	N         int    `json:"n"`
	Seed      uint64 `json:"seed"`
	Arg       string `json:"arg,omitempty"`
	Input     string `json:"input,omitempty"`
}

// JobResponse reports the mean score of the best layout.
type JobResponse struct {
	MessageID string  `json:"message_id"`
	Seed      uint64  `json:"seed"`
	Score     float64 `json:"score"`
}

// RunJob resolves the instance and parameters of req and runs one anneal
// with the given options. When ctx carries a deadline the wall-clock budget
// is shortened to fit inside it.
func RunJob(ctx context.Context, req JobRequest, opts engine.Options) (JobResponse, model.OptimizeResult, error) {
	var (
		problem *model.Problem
		err     error
	)
	switch {
	case strings.TrimSpace(req.Input) != "":
		problem, err = importer.ParseInstanceString(req.Input)
	case req.N > MaxJobTargets:
		err = fmt.Errorf("n %d above the limit of %d: %w", req.N, MaxJobTargets, ErrBadJob)
	case req.N > 0:
		problem, err = gen.Generate(req.Seed, req.N)
	default:
		err = fmt.Errorf("either input or n is required: %w", ErrBadJob)
	}
	if err != nil {
		return JobResponse{}, model.OptimizeResult{}, err
	}

	params := model.DefaultParams()
	if strings.TrimSpace(req.Arg) != "" {
		if params, err = project.ParseParams(req.Arg, params); err != nil {
			return JobResponse{}, model.OptimizeResult{}, err
		}
	}

	if dl, ok := ctx.Deadline(); ok && opts.Rounds <= 0 {
		left := time.Until(dl) - deadlineMargin
		if left <= 0 {
			return JobResponse{}, model.OptimizeResult{}, fmt.Errorf("no time left before the deadline: %w", context.DeadlineExceeded)
		}
		opts.TimeLimit = min(opts.TimeLimit, left)
	}
	opts.Seed = req.Seed

	a, err := engine.New(problem, params, opts)
	if err != nil {
		return JobResponse{}, model.OptimizeResult{}, err
	}
	res := a.Run()
	if opts.Logger != nil {
		opts.Logger.Info("job done",
			slog.String("message_id", req.MessageID),
			slog.Int("n", problem.Len()),
			slog.Float64("score", res.MeanScore()))
	}
	return JobResponse{MessageID: req.MessageID, Seed: req.Seed, Score: res.MeanScore()}, res, nil
}
