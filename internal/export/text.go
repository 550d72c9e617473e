package export

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/hinohi/ahc001/internal/model"
)

// WriteLayout writes one "x1 y1 x2 y2" line per rectangle in input order.
func WriteLayout(w io.Writer, rects []model.Rect) error {
	bw := bufio.NewWriter(w)
	for _, r := range rects {
		if _, err := fmt.Fprintln(bw, r.String()); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteLayoutFile writes the layout to path.
func WriteLayoutFile(path string, rects []model.Rect) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteLayout(f, rects); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteInstance writes a problem in the input format: n, then "x y size"
// per target.
func WriteInstance(w io.Writer, p *model.Problem) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, p.Len()); err != nil {
		return err
	}
	for i, pt := range p.Points {
		if _, err := fmt.Fprintf(bw, "%d %d %d\n", pt.X, pt.Y, p.Sizes[i]); err != nil {
			return err
		}
	}
	return bw.Flush()
}
