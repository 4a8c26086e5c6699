package fit

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/san-kum/lessonlab/internal/dynamo"
)

// Data holds measurements with their standard uncertainties. UX and UY are
// all zero when the file has no uncertainty columns.
type Data struct {
	X, Y   []float64
	UX, UY []float64
}

func (d *Data) Len() int { return len(d.X) }

// Weighted reports whether any uncertainty is non-zero.
func (d *Data) Weighted() bool {
	for i := range d.X {
		if d.UX[i] != 0 || d.UY[i] != 0 {
			return true
		}
	}
	return false
}

// ReadData parses whitespace separated columns "X Y [uy]" or "X Y ux uy".
// Blank lines and lines starting with # are ignored, and a non-numeric
// first line is taken as a header.
func ReadData(r io.Reader) (*Data, error) {
	d := &Data{}
	sc := bufio.NewScanner(r)
	line, cols := 0, 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		row := make([]float64, len(fields))
		var parseErr error
		for i, f := range fields {
			if row[i], parseErr = strconv.ParseFloat(strings.ReplaceAll(f, ",", "."), 64); parseErr != nil {
				break
			}
		}
		if parseErr != nil {
			if d.Len() == 0 && cols == 0 {
				cols = -1
				continue
			}
			return nil, fmt.Errorf("%w: line %d: %v", dynamo.ErrDataFormat, line, parseErr)
		}

		switch {
		case cols <= 0:
			if len(row) < 2 || len(row) > 4 {
				return nil, fmt.Errorf("%w: line %d: expected 2 to 4 columns, got %d", dynamo.ErrDataFormat, line, len(row))
			}
			cols = len(row)
		case len(row) != cols:
			return nil, fmt.Errorf("%w: line %d: expected %d columns, got %d", dynamo.ErrDataFormat, line, cols, len(row))
		}

		ux, uy := 0.0, 0.0
		switch cols {
		case 3:
			uy = row[2]
		case 4:
			ux, uy = row[2], row[3]
		}
		d.X = append(d.X, row[0])
		d.Y = append(d.Y, row[1])
		d.UX = append(d.UX, ux)
		d.UY = append(d.UY, uy)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if d.Len() == 0 {
		return nil, fmt.Errorf("%w: no data rows", dynamo.ErrDataFormat)
	}
	return d, nil
}
