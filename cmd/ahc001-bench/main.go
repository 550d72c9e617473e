// ahc001-bench compares parameter variants on a set of generated
// instances. Every variant runs with the same seed and round budget, so the
// table is reproducible. With -tune it first searches for a better
// parameter record, saves it and adds it to the comparison.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/hinohi/ahc001/internal/engine"
	"github.com/hinohi/ahc001/internal/export"
	"github.com/hinohi/ahc001/internal/gen"
	"github.com/hinohi/ahc001/internal/model"
	"github.com/hinohi/ahc001/internal/project"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "ahc001-bench:", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("ahc001-bench", flag.ContinueOnError)
	fs.SetOutput(stderr)
	problems := fs.Int("problems", 10, "number of generated instances")
	firstSeed := fs.Uint64("instance-seed", 0, "seed of the first instance")
	n := fs.Int("n", 0, "targets per instance; 0 draws the size from the seed")
	seed := fs.Uint64("seed", 1, "annealing seed")
	rounds := fs.Int("rounds", 300, "round budget per run")
	depth := fs.Int("index-depth", engine.DefaultIndexDepth, "spatial index depth")
	paramsPath := fs.String("params", "", "base parameter JSON file")
	xlsx := fs.String("xlsx", "", "also write the comparison to an Excel workbook")
	tune := fs.String("tune", "", "run the genetic parameter search and save the best record here")
	generations := fs.Int("generations", engine.DefaultGeneticConfig().Generations, "tuning generations")
	population := fs.Int("population", engine.DefaultGeneticConfig().PopulationSize, "tuning population size")
	logLevel := fs.String("log-level", "warn", "debug, info, warn or error")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *problems < 1 || *rounds < 1 {
		return fmt.Errorf("problems and rounds must be positive")
	}

	logger, err := project.NewLogger(stderr, *logLevel)
	if err != nil {
		return err
	}
	base, err := project.LoadParams(*paramsPath)
	if err != nil {
		return err
	}

	set := make([]*model.Problem, 0, *problems)
	for i := range *problems {
		s := *firstSeed + uint64(i)
		var p *model.Problem
		if *n > 0 {
			p, err = gen.Generate(s, *n)
		} else {
			p, err = gen.GenerateRandom(s)
		}
		if err != nil {
			return fmt.Errorf("instance %d: %w", s, err)
		}
		set = append(set, p)
	}

	opts := engine.Options{Seed: *seed, Rounds: *rounds, IndexDepth: *depth, Logger: logger}
	scenarios := engine.BuildDefaultScenarios(base)
	if *tune != "" {
		cfg := engine.DefaultGeneticConfig()
		cfg.Generations = *generations
		cfg.PopulationSize = *population
		cfg.Seed = *seed
		tuned, err := engine.TuneParams(base, set, opts, cfg)
		if err != nil {
			return err
		}
		if err := project.SaveParams(*tune, tuned.Params); err != nil {
			return err
		}
		logger.Info("saved tuned parameters",
			slog.String("file", *tune),
			slog.Float64("base", tuned.BaseFitness),
			slog.Float64("tuned", tuned.Fitness))
		scenarios = append(scenarios, engine.ComparisonScenario{Name: "Tuned Parameters", Params: tuned.Params})
	}
	results := engine.CompareScenarios(scenarios, set, opts)

	tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SCENARIO\tMEAN SCORE\tMIN\tMAX\tMEAN POINTS")
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(tw, "%s\terror: %v\t\t\t\n", r.Scenario.Name, r.Err)
			continue
		}
		fmt.Fprintf(tw, "%s\t%.6f\t%.6f\t%.6f\t%d\n", r.Scenario.Name, r.MeanScore, r.MinScore, r.MaxScore, r.MeanPoints)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if *xlsx != "" {
		if err := export.ExportComparisonExcel(*xlsx, results); err != nil {
			return err
		}
		logger.Info("wrote comparison", slog.String("file", *xlsx))
	}
	return nil
}
