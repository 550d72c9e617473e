// ahc001-gen writes random instances, one file per seed.
//
//	ahc001-gen -seed 0 -count 100 -dir in     # in/0000.txt ... in/0099.txt
//	ahc001-gen -seed 42 -n 200 -count 1 -dir ""  # to stdout
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hinohi/ahc001/internal/export"
	"github.com/hinohi/ahc001/internal/gen"
	"github.com/hinohi/ahc001/internal/model"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "ahc001-gen:", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("ahc001-gen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	seed := fs.Uint64("seed", 0, "first seed")
	count := fs.Int("count", 1, "number of instances")
	n := fs.Int("n", 0, fmt.Sprintf("targets per instance; 0 draws from [%d, %d]", gen.MinN, gen.MaxN))
	dir := fs.String("dir", "in", "output directory; stdout when empty")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *count < 1 {
		return fmt.Errorf("count must be positive, got %d", *count)
	}
	if *dir == "" && *count != 1 {
		return fmt.Errorf("writing %d instances needs -dir", *count)
	}
	if *dir != "" {
		if err := os.MkdirAll(*dir, 0755); err != nil {
			return err
		}
	}

	for i := range *count {
		s := *seed + uint64(i)
		var (
			p   *model.Problem
			err error
		)
		if *n > 0 {
			p, err = gen.Generate(s, *n)
		} else {
			p, err = gen.GenerateRandom(s)
		}
		if err != nil {
			return fmt.Errorf("seed %d: %w", s, err)
		}

		if *dir == "" {
			return export.WriteInstance(stdout, p)
		}
		if err := writeFile(filepath.Join(*dir, fmt.Sprintf("%04d.txt", s)), p); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(path string, p *model.Problem) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if err := export.WriteInstance(w, p); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
