package importer

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/hinohi/ahc001/internal/model"
)

// ErrMalformedInput marks text that does not follow the instance or layout
// format: a missing, extra or non-integer token.
var ErrMalformedInput = errors.New("malformed input")

// initialCapacity bounds what a declared count may preallocate; the slices
// grow with the tokens actually read.
const initialCapacity = 1 << 16

// tokens splits the whole input on whitespace.
type tokens struct {
	sc *bufio.Scanner
}

func newTokens(r io.Reader) *tokens {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1<<20)
	sc.Split(bufio.ScanWords)
	return &tokens{sc: sc}
}

func (t *tokens) next(what string) (int, error) {
	if !t.sc.Scan() {
		if err := t.sc.Err(); err != nil {
			return 0, fmt.Errorf("%s: %w: %w", what, ErrMalformedInput, err)
		}
		return 0, fmt.Errorf("missing %s: %w: %w", what, ErrMalformedInput, io.ErrUnexpectedEOF)
	}
	v, err := strconv.Atoi(t.sc.Text())
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q: %w", what, t.sc.Text(), ErrMalformedInput)
	}
	return v, nil
}

// end fails when any token is left.
func (t *tokens) end() error {
	if t.sc.Scan() {
		return fmt.Errorf("unexpected token %q after the last target: %w", t.sc.Text(), ErrMalformedInput)
	}
	if err := t.sc.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedInput, err)
	}
	return nil
}

// ParseInstance reads the contest input format: n, then n lines of
// "x y size", and nothing after. The result is validated.
func ParseInstance(r io.Reader) (*model.Problem, error) {
	tk := newTokens(r)
	n, err := tk.next("target count")
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, fmt.Errorf("target count %d: %w", n, model.ErrEmptyProblem)
	}
	if n > model.L*model.L {
		return nil, fmt.Errorf("target count %d exceeds the number of cells: %w", n, model.ErrDuplicatePoint)
	}

	points := make([]model.Point, 0, min(n, initialCapacity))
	sizes := make([]int, 0, min(n, initialCapacity))
	for i := 0; i < n; i++ {
		var (
			pt   model.Point
			size int
		)
		if pt.X, err = tk.next(fmt.Sprintf("x of target %d", i)); err != nil {
			return nil, err
		}
		if pt.Y, err = tk.next(fmt.Sprintf("y of target %d", i)); err != nil {
			return nil, err
		}
		if size, err = tk.next(fmt.Sprintf("size of target %d", i)); err != nil {
			return nil, err
		}
		points = append(points, pt)
		sizes = append(sizes, size)
	}
	if err := tk.end(); err != nil {
		return nil, err
	}
	return model.NewProblem(points, sizes)
}

// ParseInstanceString is ParseInstance on an in-memory document.
func ParseInstanceString(s string) (*model.Problem, error) {
	return ParseInstance(strings.NewReader(s))
}

// ReadInstanceFile opens and parses an instance file.
func ReadInstanceFile(path string) (*model.Problem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	p, err := ParseInstance(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// ParseLayout reads n lines of "x1 y1 x2 y2", the format written for a
// finished run, so that a previous answer can seed a new search.
func ParseLayout(r io.Reader, n int) ([]model.Rect, error) {
	tk := newTokens(r)
	rects := make([]model.Rect, 0, min(n, initialCapacity))
	for i := 0; i < n; i++ {
		vals := [4]int{}
		for k, name := range []string{"x1", "y1", "x2", "y2"} {
			v, err := tk.next(fmt.Sprintf("%s of rectangle %d", name, i))
			if err != nil {
				return nil, err
			}
			vals[k] = v
		}
		rects = append(rects, model.Rect{X1: vals[0], Y1: vals[1], X2: vals[2], Y2: vals[3]})
	}
	return rects, nil
}
