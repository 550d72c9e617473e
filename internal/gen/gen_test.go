package gen

import (
	"testing"

	"github.com/hinohi/ahc001/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_PartitionsTheArea(t *testing.T) {
	for _, n := range []int{1, 2, 50, 200} {
		p, err := Generate(uint64(n), n)
		require.NoError(t, err)
		require.Equal(t, n, p.Len())

		total := 0
		for _, s := range p.Sizes {
			assert.Positive(t, s)
			total += s
		}
		assert.Equal(t, model.L*model.L, total, "n=%d", n)
		assert.NoError(t, p.Validate())
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	a, err := Generate(99, 120)
	require.NoError(t, err)
	b, err := Generate(99, 120)
	require.NoError(t, err)
	c, err := Generate(100, 120)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a.Points, c.Points)
}

func TestGenerate_RejectsBadCount(t *testing.T) {
	_, err := Generate(1, 0)
	assert.ErrorIs(t, err, model.ErrEmptyProblem)
}

func TestRandomN_Range(t *testing.T) {
	rng := NewRand(5)
	for i := 0; i < 1000; i++ {
		n := RandomN(rng)
		require.GreaterOrEqual(t, n, MinN)
		require.LessOrEqual(t, n, MaxN)
	}
}

func TestGenerateRandom(t *testing.T) {
	p, err := GenerateRandom(7)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, p.Len(), MinN)
	assert.LessOrEqual(t, p.Len(), MaxN)
}
