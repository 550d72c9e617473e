package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hinohi/ahc001/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseParams_Overlay(t *testing.T) {
	p, err := ParseParams(`{"temp0": 0.5, "weight_push_end": 0.25}`, model.DefaultParams())
	require.NoError(t, err)

	want := model.DefaultParams()
	want.Temp0 = 0.5
	want.WeightPushEnd = 0.25
	assert.Equal(t, want, p)
}

func TestParseParams_EmptyObjectKeepsBase(t *testing.T) {
	p, err := ParseParams(`{}`, model.DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, model.DefaultParams(), p)
}

func TestParseParams_Rejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `{temp0: 1`},
		{"array", `[1, 2]`},
		{"unknown key", `{"temp2": 1}`},
		{"string value", `{"temp0": "hot"}`},
		{"fails validation", `{"temp1": 1}`},
		{"negative weight", `{"weight_d1_start": -0.1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseParams(tt.doc, model.DefaultParams())
			assert.ErrorIs(t, err, model.ErrInvalidParams)
		})
	}
}

func TestParseParams_CoversEveryField(t *testing.T) {
	// Every JSON tag of the record must be settable through the overlay.
	var p model.Params
	assert.Len(t, paramFields(&p), 18)
}

func TestSaveAndLoadParams(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params", "tuned.json")
	p := model.DefaultParams()
	p.GrowD1Start = 3

	require.NoError(t, SaveParams(path, p))
	loaded, err := LoadParams(path)
	require.NoError(t, err)
	assert.Equal(t, p, loaded)
}

func TestLoadParams_EmptyPathAndErrors(t *testing.T) {
	p, err := LoadParams("")
	require.NoError(t, err)
	assert.Equal(t, model.DefaultParams(), p)

	_, err = LoadParams(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"temp0": 0}`), 0644))
	_, err = LoadParams(bad)
	assert.ErrorIs(t, err, model.ErrInvalidParams)
}
