package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/hinohi/ahc001/internal/model"
)

// ArchiveVersion is written into every run archive.
const ArchiveVersion = "1.0.0"

// RunArchive is the saved form of a finished run. Its rectangles can seed
// a later run on the same instance.
type RunArchive struct {
	Version   string       `json:"version"`
	ID        string       `json:"id"`
	CreatedAt string       `json:"created_at"`
	Seed      uint64       `json:"seed"`
	Params    model.Params `json:"params"`
	Score     float64      `json:"score"`
	Rects     []model.Rect `json:"rects"`
}

// NewRunArchive records a result under a fresh id.
func NewRunArchive(result model.OptimizeResult, params model.Params) RunArchive {
	return RunArchive{
		Version:   ArchiveVersion,
		ID:        uuid.New().String(),
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Seed:      result.Seed,
		Params:    params,
		Score:     result.MeanScore(),
		Rects:     append([]model.Rect(nil), result.Rects...),
	}
}

// ExportArchive writes the archive to path as JSON.
func ExportArchive(path string, archive RunArchive) error {
	data, err := json.MarshalIndent(archive, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run archive: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create archive directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write run archive: %w", err)
	}
	return nil
}

// ImportArchive reads a run archive.
func ImportArchive(path string) (RunArchive, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RunArchive{}, fmt.Errorf("failed to read run archive: %w", err)
	}
	var archive RunArchive
	if err := json.Unmarshal(data, &archive); err != nil {
		return RunArchive{}, fmt.Errorf("failed to parse run archive: %w", err)
	}
	if archive.Version == "" {
		return RunArchive{}, fmt.Errorf("invalid run archive: missing version field")
	}
	if _, err := uuid.Parse(archive.ID); err != nil {
		return RunArchive{}, fmt.Errorf("invalid run archive id %q: %w", archive.ID, err)
	}
	return archive, nil
}

// WarmStart returns a copy of p seeded with the archived rectangles. The
// layout must be feasible for p.
func (a RunArchive) WarmStart(p *model.Problem) (*model.Problem, error) {
	if err := model.CheckLayout(p, a.Rects, model.ErrInvalidInitial); err != nil {
		return nil, fmt.Errorf("archive %s: %w", a.ID, err)
	}
	warm := *p
	warm.Initial = append([]model.Rect(nil), a.Rects...)
	return &warm, nil
}
