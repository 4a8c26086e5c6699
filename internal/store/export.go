package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/san-kum/lessonlab/internal/dynamo"
	"github.com/san-kum/lessonlab/internal/lessons"
)

type SeriesData struct {
	Name   string    `json:"name"`
	Hidden bool      `json:"hidden,omitempty"`
	X      []float64 `json:"x"`
	Y      []float64 `json:"y"`
}

type PanelData struct {
	Title  string       `json:"title,omitempty"`
	XLabel string       `json:"xlabel,omitempty"`
	YLabel string       `json:"ylabel,omitempty"`
	LogY   bool         `json:"log_y,omitempty"`
	Series []SeriesData `json:"series"`
}

type ExportData struct {
	Title  string        `json:"title"`
	Values dynamo.Values `json:"values,omitempty"`
	Panels []PanelData   `json:"panels"`
}

func exportData(fig *lessons.Figure, values dynamo.Values) ExportData {
	data := ExportData{Title: fig.Title, Values: values, Panels: make([]PanelData, len(fig.Panels))}
	for i, p := range fig.Panels {
		pd := PanelData{Title: p.Title, XLabel: p.XLabel, YLabel: p.YLabel, LogY: p.LogY}
		for _, s := range p.Series {
			pd.Series = append(pd.Series, SeriesData{
				Name:   s.Name,
				Hidden: s.Hidden,
				X:      finiteOrZero(s.X),
				Y:      finiteOrZero(s.Y),
			})
		}
		data.Panels[i] = pd
	}
	return data
}

// finiteOrZero replaces values JSON cannot encode.
func finiteOrZero(vs []float64) []float64 {
	out := make([]float64, len(vs))
	for i, v := range vs {
		if finite(v) {
			out[i] = v
		}
	}
	return out
}

// WriteJSON encodes every series of fig, hidden ones included, with the
// values that produced it. NaN and infinite samples are written as 0.
func WriteJSON(w io.Writer, fig *lessons.Figure, values dynamo.Values) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(exportData(fig, values))
}

func ExportJSON(path string, fig *lessons.Figure, values dynamo.Values) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, file.Close())
	}()
	return WriteJSON(file, fig, values)
}

// sheetName trims a panel title to a valid, unique worksheet name.
func sheetName(title string, i int, used map[string]bool) string {
	name := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '_'
		}
		return r
	}, strings.TrimSpace(title))
	if r := []rune(name); len(r) > 28 {
		name = string(r[:28])
	}
	if name == "" || used[name] {
		name = fmt.Sprintf("Panel %d", i+1)
	}
	used[name] = true
	return name
}

// ExportXLSX writes one sheet per panel and two columns (x, y) per series.
func ExportXLSX(path string, fig *lessons.Figure) (err error) {
	f := excelize.NewFile()
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	used := make(map[string]bool)
	for i, p := range fig.Panels {
		sheet := sheetName(p.Title, i, used)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return err
		}

		for j, s := range p.Series {
			col := 2*j + 1
			for k, header := range []string{s.Name + " x", s.Name + " y"} {
				cell, _ := excelize.CoordinatesToCellName(col+k, 1)
				if err := f.SetCellValue(sheet, cell, header); err != nil {
					return err
				}
			}
			for k, values := range [][]float64{s.X, s.Y} {
				cell, _ := excelize.CoordinatesToCellName(col+k, 2)
				column := make([]any, len(values))
				for r, v := range values {
					column[r] = cellValue(v)
				}
				if err := f.SetSheetCol(sheet, cell, &column); err != nil {
					return err
				}
			}
		}
	}
	return f.SaveAs(path)
}

// cellValue leaves non-finite samples as empty cells.
func cellValue(v float64) any {
	if !finite(v) {
		return nil
	}
	return v
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ExportSweepXLSX writes a table with a header row to a single sheet.
func ExportSweepXLSX(path string, header []string, rows [][]float64) (err error) {
	f := excelize.NewFile()
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	sheet := "Sweep"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		values := make([]any, len(row))
		for j, v := range row {
			values[j] = cellValue(v)
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}

// ExportTSV writes the same table as tab separated text.
func ExportTSV(w io.Writer, header []string, rows [][]float64) error {
	if _, err := fmt.Fprintln(w, strings.Join(header, "\t")); err != nil {
		return err
	}
	for _, row := range rows {
		fields := make([]string, len(row))
		for i, v := range row {
			fields[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if _, err := fmt.Fprintln(w, strings.Join(fields, "\t")); err != nil {
			return err
		}
	}
	return nil
}
