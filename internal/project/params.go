package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hinohi/ahc001/internal/model"
	"github.com/tidwall/gjson"
)

// paramFields binds every JSON key of a parameter record to its field.
func paramFields(p *model.Params) map[string]*float64 {
	return map[string]*float64{
		"temp0":              &p.Temp0,
		"temp1":              &p.Temp1,
		"slide_d_start":      &p.SlideDStart,
		"slide_d_end":        &p.SlideDEnd,
		"grow_d1_start":      &p.GrowD1Start,
		"grow_d1_end":        &p.GrowD1End,
		"grow_d2_start":      &p.GrowD2Start,
		"grow_d2_end":        &p.GrowD2End,
		"push_d_start":       &p.PushDStart,
		"push_d_end":         &p.PushDEnd,
		"weight_slide_start": &p.WeightSlideStart,
		"weight_slide_end":   &p.WeightSlideEnd,
		"weight_d1_start":    &p.WeightD1Start,
		"weight_d1_end":      &p.WeightD1End,
		"weight_d2_start":    &p.WeightD2Start,
		"weight_d2_end":      &p.WeightD2End,
		"weight_push_start":  &p.WeightPushStart,
		"weight_push_end":    &p.WeightPushEnd,
	}
}

// ParseParams overlays a JSON object onto base. Keys that are absent keep
// their base value; unknown keys and non-numeric values are rejected. The
// result is validated.
func ParseParams(doc string, base model.Params) (model.Params, error) {
	if !gjson.Valid(doc) {
		return model.Params{}, fmt.Errorf("parameters are not valid JSON: %w", model.ErrInvalidParams)
	}
	root := gjson.Parse(doc)
	if !root.IsObject() {
		return model.Params{}, fmt.Errorf("parameters must be a JSON object: %w", model.ErrInvalidParams)
	}

	p := base
	fields := paramFields(&p)
	var err error
	root.ForEach(func(key, value gjson.Result) bool {
		dst, ok := fields[key.String()]
		if !ok {
			err = fmt.Errorf("unknown parameter %q: %w", key.String(), model.ErrInvalidParams)
			return false
		}
		if value.Type != gjson.Number {
			err = fmt.Errorf("parameter %q must be a number, got %s: %w", key.String(), value.Raw, model.ErrInvalidParams)
			return false
		}
		*dst = value.Float()
		return true
	})
	if err != nil {
		return model.Params{}, err
	}
	if err := p.Validate(); err != nil {
		return model.Params{}, err
	}
	return p, nil
}

// LoadParams reads a parameter file and overlays it onto the defaults. An
// empty path returns the defaults.
func LoadParams(path string) (model.Params, error) {
	if path == "" {
		return model.DefaultParams(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Params{}, err
	}
	p, err := ParseParams(string(data), model.DefaultParams())
	if err != nil {
		return model.Params{}, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// SaveParams writes a full parameter record as indented JSON.
func SaveParams(path string, p model.Params) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
