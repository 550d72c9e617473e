// Package gen produces random instances with the same distribution as the
// contest's official generator.
package gen

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/hinohi/ahc001/internal/model"
)

// MinN and MaxN bound the instance sizes drawn by RandomN.
const (
	MinN = 50
	MaxN = 200
)

// NewRand returns the ChaCha8 stream for seed. The same seed always yields
// the same instance.
func NewRand(seed uint64) *rand.Rand {
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:8], seed)
	return rand.New(rand.NewChaCha8(key))
}

// RandomN draws an instance size of round(50 * 4^u) for uniform u.
func RandomN(rng *rand.Rand) int {
	return int(math.Round(MinN * math.Pow(4, rng.Float64())))
}

// Generate builds an instance of n targets: distinct uniform points and
// sizes that partition the whole area.
func Generate(seed uint64, n int) (*model.Problem, error) {
	if n < 1 || n > model.L*model.L {
		return nil, fmt.Errorf("cannot generate %d targets: %w", n, model.ErrEmptyProblem)
	}
	rng := NewRand(seed)

	points := make([]model.Point, 0, n)
	used := make(map[model.Point]struct{}, n)
	for len(points) < n {
		p := model.Point{X: rng.IntN(model.L), Y: rng.IntN(model.L)}
		if _, dup := used[p]; dup {
			continue
		}
		used[p] = struct{}{}
		points = append(points, p)
	}

	// n-1 distinct cuts in (0, L*L) split the area into n positive sizes.
	const area = model.L * model.L
	cuts := make([]int, 0, n+1)
	seen := make(map[int]struct{}, n)
	cuts = append(cuts, 0)
	for len(seen) < n-1 {
		c := 1 + rng.IntN(area-1)
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		cuts = append(cuts, c)
	}
	cuts = append(cuts, area)
	slices.Sort(cuts)

	sizes := make([]int, n)
	for i := range sizes {
		sizes[i] = cuts[i+1] - cuts[i]
	}
	return model.NewProblem(points, sizes)
}

// GenerateRandom draws n with RandomN from the seed's stream and then
// generates the instance from a seed taken from the same stream.
func GenerateRandom(seed uint64) (*model.Problem, error) {
	rng := NewRand(seed)
	n := RandomN(rng)
	return Generate(rng.Uint64(), n)
}
