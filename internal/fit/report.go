package fit

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/san-kum/lessonlab/internal/dynamo"
	"github.com/san-kum/lessonlab/internal/lessons"
)

func Report(w io.Writer, r *Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "PARAM\tVALUE\tUNCERTAINTY\n")
	for i, name := range r.Names {
		fmt.Fprintf(tw, "%s\t%.6g\t± %.2g\n", name, r.Params[i], r.Uncertainties[i])
	}
	fmt.Fprintf(tw, "\nchi2\t%.5f\n", r.ChiSquare)
	fmt.Fprintf(tw, "chi2 reduced\t%.5f\n", r.ReducedChiSquare)
	fmt.Fprintf(tw, "R²\t%.5f\n", r.RSquared)
	return tw.Flush()
}

// Figure draws the data with error bars and the fitted curve above the
// weighted residuals.
func Figure(m Model, d *Data, r *Result) *lessons.Figure {
	lo, hi := d.X[0], d.X[0]
	for _, x := range d.X {
		lo, hi = min(lo, x), max(hi, x)
	}
	xs := dynamo.Linspace(lo, hi, 200)

	label := "fit:"
	for i, name := range r.Names {
		label += fmt.Sprintf(" %s = %.2f ± %.2f", name, r.Params[i], r.Uncertainties[i])
	}

	top := &lessons.Panel{Title: fmt.Sprintf("%s fit, reduced chi2 = %.5f, R² = %.5f", r.Model, r.ReducedChiSquare, r.RSquared)}
	top.Add(&lessons.Series{
		Name:  "data",
		X:     d.X,
		Y:     d.Y,
		XErr:  d.UX,
		YErr:  d.UY,
		Style: lessons.Markers,
		Color: "blue",
	})
	top.Add(&lessons.Series{
		Name:  label,
		X:     xs,
		Y:     dynamo.Map(xs, func(x float64) float64 { return r.At(m, x) }),
		Color: "orange",
		Width: 2,
	})

	bottom := &lessons.Panel{
		XLabel: "X",
		YLabel: "weighted residual",
		HLines: []lessons.RefLine{{At: 0, Color: "black", Style: lessons.Dashed}},
	}
	bottom.Add(&lessons.Series{Name: "residuals", X: d.X, Y: r.Residuals, Style: lessons.Markers, Color: "blue"})
	return lessons.NewFigure("Fit", top, bottom)
}
