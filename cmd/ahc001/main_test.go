package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hinohi/ahc001/internal/importer"
	"github.com/hinohi/ahc001/internal/project"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cliInput = "4\n10 10 100\n500 500 2500\n9000 9000 400\n4000 7000 90000\n"

func baseArgs(dir string) []string {
	return []string{
		"-config", filepath.Join(dir, "missing-config.json"),
		"-env", filepath.Join(dir, "missing.env"),
		"-rounds", "3",
		"-log-level", "error",
	}
}

func TestRun_StdinToStdout(t *testing.T) {
	dir := t.TempDir()
	var stdout, stderr bytes.Buffer

	err := run(baseArgs(dir), strings.NewReader(cliInput), &stdout, &stderr)
	require.NoError(t, err, stderr.String())

	p, err := importer.ParseInstanceString(cliInput)
	require.NoError(t, err)
	rects, err := importer.ParseLayout(&stdout, p.Len())
	require.NoError(t, err)
	assert.Len(t, rects, 4)
}

func TestRun_AllOutputsAndResume(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "in.txt")
	require.NoError(t, os.WriteFile(inPath, []byte(cliInput), 0644))

	files := map[string]string{
		"-out":     filepath.Join(dir, "out.txt"),
		"-pdf":     filepath.Join(dir, "report.pdf"),
		"-xlsx":    filepath.Join(dir, "layout.xlsx"),
		"-dxf":     filepath.Join(dir, "layout.dxf"),
		"-archive": filepath.Join(dir, "run.json"),
	}
	args := append(baseArgs(dir), "-in", inPath, "-restarts", "2", "-workers", "2")
	for flag, path := range files {
		args = append(args, flag, path)
	}
	var stdout, stderr bytes.Buffer
	require.NoError(t, run(args, nil, &stdout, &stderr), stderr.String())
	assert.Empty(t, stdout.String())
	for _, path := range files {
		info, err := os.Stat(path)
		require.NoError(t, err, path)
		assert.Positive(t, info.Size(), path)
	}

	first, err := project.ImportArchive(files["-archive"])
	require.NoError(t, err)

	// Every saved form of the layout can seed another run.
	for _, resume := range []string{files["-archive"], files["-dxf"], files["-out"]} {
		var out bytes.Buffer
		args := append(baseArgs(dir), "-in", inPath, "-resume", resume, "-seed", "9")
		require.NoError(t, run(args, nil, &out, &stderr), resume)

		p, err := importer.ParseInstanceString(cliInput)
		require.NoError(t, err)
		rects, err := importer.ParseLayout(&out, p.Len())
		require.NoError(t, err)
		score := 0.0
		for i, r := range rects {
			score += r.Score(p.Sizes[i])
		}
		assert.GreaterOrEqual(t, score/4, first.Score-1e-9, resume)
	}
}

func TestRun_CSVInput(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "targets.csv")
	require.NoError(t, os.WriteFile(inPath, []byte("x,y,size\n1,1,50\n100,100,50\n"), 0644))

	var stdout, stderr bytes.Buffer
	require.NoError(t, run(append(baseArgs(dir), "-in", inPath), nil, &stdout, &stderr))
	assert.Equal(t, 2, strings.Count(stdout.String(), "\n"))
}

func TestRun_Errors(t *testing.T) {
	dir := t.TempDir()
	var stdout, stderr bytes.Buffer

	assert.Error(t, run(baseArgs(dir), strings.NewReader("2\n1 1 1\n1 1 1\n"), &stdout, &stderr), "duplicate targets")
	assert.Error(t, run(append(baseArgs(dir), "-log-level", "loud"), strings.NewReader(cliInput), &stdout, &stderr))
	assert.Error(t, run(append(baseArgs(dir), "-params", filepath.Join(dir, "none.json")), strings.NewReader(cliInput), &stdout, &stderr))
	assert.Error(t, run(append(baseArgs(dir), "-nope"), strings.NewReader(cliInput), &stdout, &stderr))

	bad := filepath.Join(dir, "bad.txt")
	require.NoError(t, os.WriteFile(bad, []byte("0 0 10000 10000\n0 0 1 1\n0 0 1 1\n0 0 1 1\n"), 0644))
	assert.Error(t, run(append(baseArgs(dir), "-resume", bad), strings.NewReader(cliInput), &stdout, &stderr), "infeasible warm start")
}
