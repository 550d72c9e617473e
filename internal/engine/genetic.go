package engine

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"sort"

	"github.com/hinohi/ahc001/internal/model"
)

// GeneticConfig holds parameters for the genetic parameter search.
type GeneticConfig struct {
	PopulationSize int
	Generations    int
	MutationRate   float64 // per-gene probability of a mutation
	MutationScale  float64 // standard deviation of a mutation in log space
	TournamentSize int
	EliteCount     int
	Seed           uint64
}

// DefaultGeneticConfig returns sensible default parameters.
func DefaultGeneticConfig() GeneticConfig {
	return GeneticConfig{
		PopulationSize: 16,
		Generations:    12,
		MutationRate:   0.3,
		MutationScale:  0.3,
		TournamentSize: 3,
		EliteCount:     2,
		Seed:           1,
	}
}

// TuneResult is the outcome of TuneParams.
type TuneResult struct {
	Params      model.Params
	Fitness     float64   // mean score of Params over the problem set
	BaseFitness float64   // mean score of the starting record
	History     []float64 // best fitness after each generation
	Evaluations int
}

// chromosome holds every parameter in log space. Parameters that start at
// zero are switched off and stay off.
type chromosome struct {
	genes   []float64
	fitness float64
}

type geneticTuner struct {
	config   GeneticConfig
	base     model.Params
	active   []bool
	problems []*model.Problem
	opts     Options
	rng      *rand.Rand
	evals    int
}

// paramGenes lists the fields of p in a fixed order.
func paramGenes(p *model.Params) []*float64 {
	return []*float64{
		&p.Temp0, &p.Temp1,
		&p.SlideDStart, &p.SlideDEnd,
		&p.GrowD1Start, &p.GrowD1End,
		&p.GrowD2Start, &p.GrowD2End,
		&p.PushDStart, &p.PushDEnd,
		&p.WeightSlideStart, &p.WeightSlideEnd,
		&p.WeightD1Start, &p.WeightD1End,
		&p.WeightD2Start, &p.WeightD2End,
		&p.WeightPushStart, &p.WeightPushEnd,
	}
}

// TuneParams searches for a parameter record with a higher mean score on
// problems, starting from base. Every evaluation runs with opts, so a
// round budget makes the whole search reproducible. The starting record is
// part of the first generation and the best records survive unchanged, so
// the result never scores below base on the same problems.
func TuneParams(base model.Params, problems []*model.Problem, opts Options, config GeneticConfig) (TuneResult, error) {
	if len(problems) == 0 {
		return TuneResult{}, fmt.Errorf("tuning needs at least one problem: %w", model.ErrEmptyProblem)
	}
	if config.PopulationSize < 2 || config.Generations < 0 || config.TournamentSize < 1 {
		return TuneResult{}, fmt.Errorf("population %d, generations %d, tournament %d: %w",
			config.PopulationSize, config.Generations, config.TournamentSize, model.ErrInvalidParams)
	}
	for _, p := range problems {
		if _, err := New(p, base, opts); err != nil {
			return TuneResult{}, err
		}
	}

	g := &geneticTuner{
		config:   config,
		base:     base,
		problems: problems,
		opts:     opts,
		rng:      rand.New(rand.NewPCG(config.Seed, config.Seed^0x9e3779b97f4a7c15)),
	}
	for _, v := range paramGenes(&base) {
		g.active = append(g.active, *v > 0)
	}
	return g.optimize(), nil
}

func (g *geneticTuner) optimize() TuneResult {
	logger := g.opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	population := g.initPopulation()
	for i := range population {
		population[i].fitness = g.evaluate(population[i])
	}
	baseFitness := population[0].fitness

	history := make([]float64, 0, g.config.Generations)
	for gen := 0; gen < g.config.Generations; gen++ {
		sortByFitness(population)

		newPop := make([]chromosome, 0, g.config.PopulationSize)

		eliteCount := min(max(g.config.EliteCount, 1), len(population))
		for i := 0; i < eliteCount; i++ {
			newPop = append(newPop, g.copyChromosome(population[i]))
		}

		for len(newPop) < g.config.PopulationSize {
			parent1 := g.tournamentSelect(population)
			parent2 := g.tournamentSelect(population)

			child := g.uniformCrossover(parent1, parent2)
			g.mutate(&child)

			child.fitness = g.evaluate(child)
			newPop = append(newPop, child)
		}

		population = newPop
		sortByFitness(population)
		history = append(history, population[0].fitness)
		logger.Debug("tune generation",
			slog.Int("generation", gen),
			slog.Float64("best", population[0].fitness))
	}

	sortByFitness(population)
	best := population[0]
	logger.Info("tune done",
		slog.Int("evaluations", g.evals),
		slog.Float64("base", baseFitness),
		slog.Float64("best", best.fitness))

	return TuneResult{
		Params:      g.decode(best),
		Fitness:     best.fitness,
		BaseFitness: baseFitness,
		History:     history,
		Evaluations: g.evals,
	}
}

// sortByFitness orders descending; the stable sort keeps older individuals
// first among equals.
func sortByFitness(population []chromosome) {
	sort.SliceStable(population, func(i, j int) bool {
		return population[i].fitness > population[j].fitness
	})
}

// initPopulation seeds the first generation with base itself followed by
// mutated copies of it.
func (g *geneticTuner) initPopulation() []chromosome {
	population := make([]chromosome, g.config.PopulationSize)
	population[0] = g.encode(g.base)
	for i := 1; i < len(population); i++ {
		c := g.copyChromosome(population[0])
		for j := range c.genes {
			if g.active[j] {
				c.genes[j] += g.rng.NormFloat64() * g.config.MutationScale
			}
		}
		population[i] = c
	}
	return population
}

func (g *geneticTuner) encode(p model.Params) chromosome {
	fields := paramGenes(&p)
	genes := make([]float64, len(fields))
	for i, v := range fields {
		if g.active[i] {
			genes[i] = math.Log(*v)
		}
	}
	return chromosome{genes: genes}
}

// decode maps genes back to a record. An inverted schedule is repaired by
// swapping the temperatures.
func (g *geneticTuner) decode(c chromosome) model.Params {
	p := g.base
	for i, v := range paramGenes(&p) {
		if g.active[i] {
			*v = math.Exp(c.genes[i])
		}
	}
	if p.Temp0 < p.Temp1 {
		p.Temp0, p.Temp1 = p.Temp1, p.Temp0
	}
	return p
}

// evaluate returns the mean score over the problem set, or -1 for a record
// the annealer rejects.
func (g *geneticTuner) evaluate(c chromosome) float64 {
	p := g.decode(c)
	if p.Validate() != nil {
		return -1
	}
	opts := g.opts
	opts.Logger = nil
	sum := 0.0
	for _, prob := range g.problems {
		a, err := New(prob, p, opts)
		if err != nil {
			return -1
		}
		sum += a.Run().MeanScore()
		g.evals++
	}
	return sum / float64(len(g.problems))
}

// tournamentSelect picks the best individual from a random tournament.
func (g *geneticTuner) tournamentSelect(population []chromosome) chromosome {
	best := population[g.rng.IntN(len(population))]
	for i := 1; i < g.config.TournamentSize; i++ {
		candidate := population[g.rng.IntN(len(population))]
		if candidate.fitness > best.fitness {
			best = candidate
		}
	}
	return g.copyChromosome(best)
}

// uniformCrossover takes each gene from either parent with equal chance.
func (g *geneticTuner) uniformCrossover(parent1, parent2 chromosome) chromosome {
	child := chromosome{genes: make([]float64, len(parent1.genes))}
	for i := range child.genes {
		if g.rng.IntN(2) == 0 {
			child.genes[i] = parent1.genes[i]
		} else {
			child.genes[i] = parent2.genes[i]
		}
	}
	return child
}

// mutate applies Gaussian steps in log space, so a record is scaled up or
// down rather than shifted.
func (g *geneticTuner) mutate(c *chromosome) {
	for i := range c.genes {
		if g.active[i] && g.rng.Float64() < g.config.MutationRate {
			c.genes[i] += g.rng.NormFloat64() * g.config.MutationScale
		}
	}
}

// copyChromosome creates a deep copy of a chromosome.
func (g *geneticTuner) copyChromosome(c chromosome) chromosome {
	genes := make([]float64, len(c.genes))
	copy(genes, c.genes)
	return chromosome{genes: genes, fitness: c.fitness}
}
