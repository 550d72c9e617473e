package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hinohi/ahc001/internal/project"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_Table(t *testing.T) {
	xlsx := filepath.Join(t.TempDir(), "compare.xlsx")
	var stdout, stderr bytes.Buffer
	args := []string{"-problems", "2", "-n", "50", "-rounds", "2", "-xlsx", xlsx}
	require.NoError(t, run(args, &stdout, &stderr), stderr.String())

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.GreaterOrEqual(t, len(lines), 4)
	assert.True(t, strings.HasPrefix(lines[0], "SCENARIO"))
	assert.True(t, strings.HasPrefix(lines[1], "Current Parameters"))
	assert.NotContains(t, stdout.String(), "error:")

	_, err := os.Stat(xlsx)
	assert.NoError(t, err)
}

func TestRun_Tune(t *testing.T) {
	dir := t.TempDir()
	tuned := filepath.Join(dir, "tuned.json")
	var stdout, stderr bytes.Buffer
	args := []string{"-problems", "1", "-n", "50", "-rounds", "1", "-tune", tuned, "-generations", "1", "-population", "3"}
	require.NoError(t, run(args, &stdout, &stderr), stderr.String())

	assert.Contains(t, stdout.String(), "Tuned Parameters")
	p, err := project.LoadParams(tuned)
	require.NoError(t, err)
	assert.NoError(t, p.Validate())
}

func TestRun_BadFlags(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Error(t, run([]string{"-problems", "0"}, &stdout, &stderr))
	assert.Error(t, run([]string{"-rounds", "1", "-problems", "1", "-params", "/does/not/exist.json"}, &stdout, &stderr))
}
