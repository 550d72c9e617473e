package engine

import (
	"testing"

	"github.com/hinohi/ahc001/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRestartSeed_Distinct(t *testing.T) {
	seen := map[uint64]bool{}
	for k := 0; k < 100; k++ {
		s := RestartSeed(1, k)
		assert.False(t, seen[s], "restart %d reuses a seed", k)
		seen[s] = true
	}
	assert.Equal(t, uint64(1), RestartSeed(1, 0))
}

func TestRunRestarts_PicksBest(t *testing.T) {
	p := testProblem(t, 17, 25)
	best, all, err := RunRestarts(p, model.DefaultParams(), roundsOptions(10, 5), 4, 2)
	require.NoError(t, err)
	require.Len(t, all, 4)

	for k, r := range all {
		require.NoError(t, model.VerifyResult(p, r), "restart %d", k)
		assert.Equal(t, RestartSeed(10, k), r.Seed)
		assert.LessOrEqual(t, r.TotalScore, best.TotalScore)
	}
	require.NoError(t, model.VerifyResult(p, best))
}

func TestRunRestarts_IndependentOfWorkerCount(t *testing.T) {
	p := testProblem(t, 17, 25)
	one, _, err := RunRestarts(p, model.DefaultParams(), roundsOptions(10, 5), 3, 1)
	require.NoError(t, err)
	three, _, err := RunRestarts(p, model.DefaultParams(), roundsOptions(10, 5), 3, 3)
	require.NoError(t, err)

	assert.Equal(t, one.Seed, three.Seed)
	assert.Equal(t, one.Rects, three.Rects)
}

func TestRunRestarts_SingleRestartMatchesPlainRun(t *testing.T) {
	p := testProblem(t, 2, 15)
	res, all, err := RunRestarts(p, model.DefaultParams(), roundsOptions(6, 4), 0, 0)
	require.NoError(t, err)
	require.Len(t, all, 1)

	a, err := New(p, model.DefaultParams(), roundsOptions(6, 4))
	require.NoError(t, err)
	assert.Equal(t, a.Run().Rects, res.Rects)
}

func TestRunRestarts_InvalidInput(t *testing.T) {
	_, _, err := RunRestarts(&model.Problem{}, model.DefaultParams(), roundsOptions(1, 1), 2, 2)
	assert.ErrorIs(t, err, model.ErrEmptyProblem)
}
