package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/lessonlab/internal/automation"
	"github.com/san-kum/lessonlab/internal/datalog"
	"github.com/san-kum/lessonlab/internal/fit"
	"github.com/san-kum/lessonlab/internal/lessons"
	"github.com/san-kum/lessonlab/internal/optim"
	"github.com/san-kum/lessonlab/internal/render"
	"github.com/san-kum/lessonlab/internal/storage"
	"github.com/san-kum/lessonlab/internal/store"
)

var (
	// sweep and search
	sweepMin   float64
	sweepMax   float64
	steps      int
	observable string
	xlsxFile   string
	workers    int
	grid       []string
	maximize   bool

	// fit
	pngFile string

	// log
	logDuration time.Duration
	logPrefix   string
	logDir      string

	// vdw-data, render-all, export
	vdwOut   string
	format   string
	jsonFile string
)

func toolCommands() []*cobra.Command {
	sweepCmd := &cobra.Command{
		Use:   "sweep [lesson] [param]",
		Short: "evaluate the lesson readouts over a parameter range",
		Args:  cobra.ExactArgs(2),
		RunE:  runSweep,
	}
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0, "first value (default: parameter minimum)")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 0, "last value (default: parameter maximum)")
	sweepCmd.Flags().IntVar(&steps, "steps", 20, "number of points")
	sweepCmd.Flags().StringVar(&observable, "observable", "", "readout to plot")
	sweepCmd.Flags().StringVar(&xlsxFile, "xlsx", "", "write the table to an xlsx file")
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "parallel evaluations (default: number of CPUs)")
	sweepCmd.Flags().StringArrayVar(&sets, "set", nil, "fixed parameter value, name=value (repeatable)")

	searchCmd := &cobra.Command{
		Use:   "search [lesson]",
		Short: "grid search for the parameters extremising a readout",
		Args:  cobra.ExactArgs(1),
		RunE:  runSearch,
	}
	searchCmd.Flags().StringArrayVar(&grid, "grid", nil, "grid axis, name=v1,v2,... (repeatable)")
	searchCmd.Flags().StringVar(&observable, "observable", "", "readout to optimise")
	searchCmd.Flags().BoolVar(&maximize, "max", false, "maximise instead of minimise")
	searchCmd.Flags().StringArrayVar(&sets, "set", nil, "fixed parameter value, name=value (repeatable)")
	_ = searchCmd.MarkFlagRequired("observable")

	fitCmd := &cobra.Command{
		Use:   "fit [data.txt]",
		Short: "weighted linear fit of X Y [ux uy] columns",
		Args:  cobra.ExactArgs(1),
		RunE:  runFit,
	}
	fitCmd.Flags().StringVar(&pngFile, "png", "", "write the fit plot to an image")

	logCmd := &cobra.Command{
		Use:   "log [device|-]",
		Short: "record timestamped readings from a device or stdin",
		Args:  cobra.ExactArgs(1),
		RunE:  runLog,
	}
	logCmd.Flags().DurationVar(&logDuration, "duration", 30*time.Second, "recording time, 0 reads until the source closes")
	logCmd.Flags().StringVar(&logPrefix, "prefix", "", "output file prefix")
	logCmd.Flags().StringVar(&logDir, "dir", ".", "output directory")

	vdwCmd := &cobra.Command{
		Use:   "vdw-data",
		Short: "precompute the van der Waals coexistence curves",
		Args:  cobra.NoArgs,
		RunE:  writeVdWData,
	}
	vdwCmd.Flags().StringVarP(&vdwOut, "out", "o", "vdw_data.json", "output file")

	batchCmd := &cobra.Command{
		Use:   "batch [file.yaml]",
		Short: "render the figures listed in a batch file",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}
	batchCmd.Flags().IntVar(&workers, "workers", 0, "parallel renders (default: number of CPUs)")

	renderAllCmd := &cobra.Command{
		Use:   "render-all [dir]",
		Short: "render every lesson at its defaults",
		Args:  cobra.ExactArgs(1),
		RunE:  renderAll,
	}
	renderAllCmd.Flags().StringVar(&format, "format", "pdf", "output format (png, svg, pdf, jpg, txt)")
	renderAllCmd.Flags().IntVar(&workers, "workers", 0, "parallel renders (default: number of CPUs)")

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list saved runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "plot a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a saved run to xlsx or json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&xlsxFile, "xlsx", "", "xlsx output file")
	exportCmd.Flags().StringVar(&jsonFile, "json", "", "json output file (default: stdout)")

	return []*cobra.Command{sweepCmd, searchCmd, fitCmd, logCmd, vdwCmd, batchCmd, renderAllCmd, runsCmd, showCmd, exportCmd}
}

func runSweep(cmd *cobra.Command, args []string) error {
	l, err := registry().Get(args[0])
	if err != nil {
		return err
	}
	base, err := parseSets(sets)
	if err != nil {
		return err
	}

	sweep := optim.Sweep{
		Lesson:  l,
		Param:   args[1],
		Min:     sweepMin,
		Max:     sweepMax,
		Steps:   steps,
		Base:    base,
		Workers: workers,
		Log:     logger,
	}
	res, err := sweep.Run(cmd.Context())
	if err != nil {
		return err
	}

	if observable != "" {
		xs, ys := res.Column(observable)
		p := &lessons.Panel{XLabel: args[1], YLabel: observable}
		p.Add(&lessons.Series{Name: observable, X: xs, Y: ys, Style: lessons.LineMarkers})
		if err := render.ASCII(os.Stdout, lessons.NewFigure(l.Title(), p), 80, 15); err != nil {
			return err
		}
		fmt.Println()
	}
	if err := store.ExportTSV(os.Stdout, res.Header(), res.Table()); err != nil {
		return err
	}
	if xlsxFile != "" {
		if err := store.ExportSweepXLSX(xlsxFile, res.Header(), res.Table()); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", xlsxFile)
	}
	return nil
}

func parseGrid(axes []string) ([]string, [][]float64, error) {
	var names []string
	var ranges [][]float64
	for _, axis := range axes {
		name, list, ok := strings.Cut(axis, "=")
		if !ok || name == "" {
			return nil, nil, fmt.Errorf("invalid --grid %q, expected name=v1,v2,...", axis)
		}
		var values []float64
		for _, raw := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("invalid --grid %q: %w", axis, err)
			}
			values = append(values, v)
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}
	return names, ranges, nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	l, err := registry().Get(args[0])
	if err != nil {
		return err
	}
	names, ranges, err := parseGrid(grid)
	if err != nil {
		return err
	}
	base, err := parseSets(sets)
	if err != nil {
		return err
	}

	best, value, err := optim.NewGridSearch(names, ranges).Search(cmd.Context(), l, base, optim.Objective{
		Observable: observable,
		Maximize:   maximize,
	})
	if err != nil {
		return err
	}
	fmt.Printf("%s = %.6g\n", observable, value)
	fmt.Printf("at %s\n", formatParams(best))
	return nil
}

func runFit(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	data, err := fit.ReadData(f)
	f.Close()
	if err != nil {
		return err
	}

	res, err := fit.Fit(cmd.Context(), fit.Linear, data, []float64{1, 0})
	switch {
	case errors.Is(err, fit.ErrSingular):
		logger.Warn("uncertainties unavailable", zap.Error(err))
	case err != nil:
		return err
	}

	fmt.Printf("fit of %d points, model %s (%s)\n\n", data.Len(), res.Model, res.Status)
	if err := fit.Report(os.Stdout, res); err != nil {
		return err
	}
	fmt.Println()

	fig := fit.Figure(fit.Linear, data, res)
	if err := render.ASCII(os.Stdout, fig, 80, 12); err != nil {
		return err
	}
	if pngFile != "" {
		if err := render.Image(fig, pngFile, 1000, 800); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", pngFile)
	}
	return nil
}

func runLog(cmd *cobra.Command, args []string) error {
	var source io.Reader = os.Stdin
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open device: %w", err)
		}
		defer f.Close()
		source = f
	}

	rec, err := (&datalog.Logger{Source: source, Duration: logDuration, Log: logger}).Record(cmd.Context())
	if err != nil {
		return err
	}
	timePath, valuePath, err := rec.Save(logDir, logPrefix)
	if err != nil {
		return err
	}
	fmt.Printf("recorded %d points (%d lines skipped)\n", len(rec.Values), rec.Skipped)

	if len(rec.Values) > 0 {
		p := &lessons.Panel{XLabel: "t (s)", YLabel: "reading"}
		p.Add(&lessons.Series{Name: "reading", X: rec.Times, Y: rec.Values})
		if err := render.ASCII(os.Stdout, lessons.NewFigure("measurement", p), 80, 12); err != nil {
			return err
		}
	}
	fmt.Printf("wrote %s\nwrote %s\n", timePath, valuePath)
	return nil
}

func writeVdWData(cmd *cobra.Command, args []string) (err error) {
	f, err := os.Create(vdwOut)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	start := time.Now()
	if err := lessons.WriteVdWData(f); err != nil {
		return err
	}
	logger.Info("coexistence data written", zap.String("path", vdwOut), zap.Duration("elapsed", time.Since(start)))
	fmt.Printf("wrote %s\n", vdwOut)
	return nil
}

func newRunner() *automation.Runner {
	runner := automation.NewRunner(registry(), logger)
	runner.SetWorkers(workers)
	return runner
}

func runBatch(cmd *cobra.Command, args []string) error {
	batch, err := automation.LoadBatch(args[0])
	if err != nil {
		return err
	}
	paths, err := newRunner().RunBatch(cmd.Context(), batch)
	for _, p := range paths {
		fmt.Printf("wrote %s\n", p)
	}
	return err
}

func renderAll(cmd *cobra.Command, args []string) error {
	runner := newRunner()
	paths, err := runner.RenderAll(cmd.Context(), args[0], format)
	if err != nil {
		return err
	}

	index := filepath.Join(args[0], "index.txt")
	if err := os.WriteFile(index, []byte(strings.Join(runner.Index(), "\n")+"\n"), 0644); err != nil {
		return err
	}
	fmt.Printf("rendered %d lessons to %s\n", len(paths), args[0])
	return nil
}

func openStore() (*storage.Store, error) {
	st := storage.New(dataDir, logger)
	if err := st.Init(); err != nil {
		return nil, err
	}
	return st, nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.List(cmd.Context())
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tLESSON\tTIME\tVALUES")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			run.ID,
			run.Lesson,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			formatParams(run.Values),
		)
	}
	return w.Flush()
}

// loadRun rebuilds a single panel figure from a saved run.
func loadRun(runID string) (*storage.RunMetadata, *lessons.Figure, error) {
	st, err := openStore()
	if err != nil {
		return nil, nil, err
	}
	defer st.Close()

	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	curves, err := st.LoadCurves(runID)
	if err != nil {
		return nil, nil, err
	}
	p := &lessons.Panel{Title: meta.Lesson}
	for _, c := range curves {
		p.Add(c)
	}
	return meta, lessons.NewFigure(meta.Lesson, p), nil
}

func showRun(cmd *cobra.Command, args []string) error {
	meta, fig, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("lesson: %s\n", meta.Lesson)
	fmt.Printf("time: %s\n", meta.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Printf("values: %s\n", formatParams(meta.Values))
	if len(meta.Observables) > 0 {
		fmt.Printf("readouts: %s\n", formatParams(meta.Observables))
	}
	fmt.Println()
	return render.ASCII(os.Stdout, fig, 80, 15)
}

func exportRun(cmd *cobra.Command, args []string) error {
	meta, fig, err := loadRun(args[0])
	if err != nil {
		return err
	}

	if xlsxFile != "" {
		if err := store.ExportXLSX(xlsxFile, fig); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", xlsxFile)
	}
	switch {
	case jsonFile != "":
		if err := store.ExportJSON(jsonFile, fig, meta.Values); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", jsonFile)
	case xlsxFile == "":
		return store.WriteJSON(os.Stdout, fig, meta.Values)
	}
	return nil
}
