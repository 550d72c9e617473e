// ahc001 places one rectangle per target point so that each rectangle's
// area is close to the requested size, using simulated annealing.
//
// Usage:
//
//	ahc001 [flags] < input.txt > output.txt
//	ahc001 -in targets.xlsx -out layout.txt -pdf report.pdf -archive run.json
//
// Settings are read from ~/.ahc001/config.json, then .env and AHC001_*
// environment variables, then flags.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/hinohi/ahc001/internal/engine"
	"github.com/hinohi/ahc001/internal/export"
	"github.com/hinohi/ahc001/internal/importer"
	"github.com/hinohi/ahc001/internal/model"
	"github.com/hinohi/ahc001/internal/project"
)

type outputs struct {
	layout  string
	pdf     string
	xlsx    string
	dxf     string
	archive string
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "ahc001:", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("ahc001", flag.ContinueOnError)
	fs.SetOutput(stderr)

	configPath := fs.String("config", project.DefaultConfigPath(), "config file")
	envFile := fs.String("env", ".env", "dotenv file")
	in := fs.String("in", "", "instance file (.txt, .csv, .xlsx); stdin when empty")
	resume := fs.String("resume", "", "warm start from a run archive (.json), layout drawing (.dxf) or answer file")
	var out outputs
	fs.StringVar(&out.layout, "out", "", "answer file; stdout when empty")
	fs.StringVar(&out.pdf, "pdf", "", "write a PDF report")
	fs.StringVar(&out.xlsx, "xlsx", "", "write an Excel workbook")
	fs.StringVar(&out.dxf, "dxf", "", "write a DXF drawing")
	fs.StringVar(&out.archive, "archive", "", "write a run archive")

	defaults := model.DefaultAppConfig()
	seed := fs.Uint64("seed", defaults.Seed, "random seed")
	timeLimit := fs.Int("time-limit-ms", defaults.TimeLimitMs, "wall-clock budget in milliseconds")
	rounds := fs.Int("rounds", defaults.Rounds, "fixed round budget; overrides the time limit and makes runs reproducible")
	restarts := fs.Int("restarts", defaults.Restarts, "independent runs, best one kept")
	workers := fs.Int("workers", defaults.Workers, "parallel restarts; 0 uses all CPUs")
	depth := fs.Int("index-depth", defaults.IndexDepth, "spatial index depth (1-7)")
	paramsPath := fs.String("params", "", "parameter JSON file")
	logLevel := fs.String("log-level", defaults.LogLevel, "debug, info, warn or error")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := project.LoadDotEnv(*envFile); err != nil {
		return err
	}
	cfg, err := project.LoadAppConfig(*configPath)
	if err != nil {
		return err
	}
	if cfg, err = project.ApplyEnv(cfg, os.LookupEnv); err != nil {
		return err
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "seed":
			cfg.Seed = *seed
		case "time-limit-ms":
			cfg.TimeLimitMs = *timeLimit
		case "rounds":
			cfg.Rounds = *rounds
		case "restarts":
			cfg.Restarts = *restarts
		case "workers":
			cfg.Workers = *workers
		case "index-depth":
			cfg.IndexDepth = *depth
		case "params":
			cfg.ParamsPath = *paramsPath
		case "log-level":
			cfg.LogLevel = *logLevel
		}
	})

	logger, err := project.NewLogger(stderr, cfg.LogLevel)
	if err != nil {
		return err
	}

	problem, err := loadProblem(*in, stdin, logger)
	if err != nil {
		return err
	}
	params, err := project.LoadParams(cfg.ParamsPath)
	if err != nil {
		return err
	}
	if *resume != "" {
		if problem, err = warmStart(problem, *resume, logger); err != nil {
			return err
		}
	}

	opts := engine.Options{
		Seed:       cfg.Seed,
		TimeLimit:  cfg.TimeLimit(),
		Rounds:     cfg.Rounds,
		IndexDepth: cfg.IndexDepth,
		Logger:     logger,
	}
	var result model.OptimizeResult
	if cfg.Restarts > 1 {
		result, _, err = engine.RunRestarts(problem, params, opts, cfg.Restarts, cfg.Workers)
		if err != nil {
			return err
		}
	} else {
		a, err := engine.New(problem, params, opts)
		if err != nil {
			return err
		}
		result = a.Run()
	}
	if err := model.VerifyResult(problem, result); err != nil {
		return err
	}

	logger.Info("result",
		slog.Int("n", problem.Len()),
		slog.Float64("score", result.MeanScore()),
		slog.Int64("points", result.Points()),
		slog.Float64("acceptance", result.AcceptanceRate()))

	return writeOutputs(out, problem, params, result, stdout, logger)
}

func loadProblem(path string, stdin io.Reader, logger *slog.Logger) (*model.Problem, error) {
	if path == "" {
		return importer.ParseInstance(stdin)
	}
	p, warnings, err := importer.LoadProblem(path)
	for _, w := range warnings {
		logger.Warn("import", slog.String("file", path), slog.String("warning", w))
	}
	return p, err
}

// warmStart seeds the problem with a previous layout.
func warmStart(p *model.Problem, path string, logger *slog.Logger) (*model.Problem, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		archive, err := project.ImportArchive(path)
		if err != nil {
			return nil, err
		}
		logger.Info("resume", slog.String("archive", archive.ID), slog.Float64("score", archive.Score))
		return archive.WarmStart(p)
	case ".dxf":
		res := importer.ImportDXFLayout(path)
		for _, w := range res.Warnings {
			logger.Warn("resume", slog.String("file", path), slog.String("warning", w))
		}
		if len(res.Errors) > 0 {
			return nil, fmt.Errorf("%s: %s", path, strings.Join(res.Errors, "; "))
		}
		return withInitial(p, res.Rects)
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		rects, err := importer.ParseLayout(f, p.Len())
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return withInitial(p, rects)
	}
}

func withInitial(p *model.Problem, rects []model.Rect) (*model.Problem, error) {
	warm := *p
	warm.Initial = rects
	if err := warm.Validate(); err != nil {
		return nil, err
	}
	return &warm, nil
}

func writeOutputs(out outputs, p *model.Problem, params model.Params, result model.OptimizeResult, stdout io.Writer, logger *slog.Logger) error {
	if out.layout == "" {
		if err := export.WriteLayout(stdout, result.Rects); err != nil {
			return err
		}
	} else if err := export.WriteLayoutFile(out.layout, result.Rects); err != nil {
		return err
	}

	if out.pdf != "" {
		if err := export.ExportPDF(out.pdf, p, result); err != nil {
			return fmt.Errorf("pdf: %w", err)
		}
		logger.Info("wrote report", slog.String("file", out.pdf))
	}
	if out.xlsx != "" {
		if err := export.ExportExcel(out.xlsx, p, result); err != nil {
			return fmt.Errorf("xlsx: %w", err)
		}
		logger.Info("wrote workbook", slog.String("file", out.xlsx))
	}
	if out.dxf != "" {
		if err := export.ExportDXF(out.dxf, p, result.Rects); err != nil {
			return fmt.Errorf("dxf: %w", err)
		}
		logger.Info("wrote drawing", slog.String("file", out.dxf))
	}
	if out.archive != "" {
		archive := project.NewRunArchive(result, params)
		if err := project.ExportArchive(out.archive, archive); err != nil {
			return err
		}
		logger.Info("wrote archive", slog.String("file", out.archive), slog.String("id", archive.ID))
	}
	return nil
}
