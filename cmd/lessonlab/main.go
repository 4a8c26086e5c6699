package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/san-kum/lessonlab/internal/config"
	"github.com/san-kum/lessonlab/internal/lessons"
	"github.com/san-kum/lessonlab/internal/render"
	"github.com/san-kum/lessonlab/internal/storage"
	"github.com/san-kum/lessonlab/internal/store"
	"github.com/san-kum/lessonlab/internal/tui"
	"github.com/san-kum/lessonlab/internal/widgets"
)

var (
	logger  *zap.Logger
	verbose bool
	dataDir string
	vdwData string

	// plot and observe
	sets       []string
	preset     string
	configFile string
	logY       bool
	hide       []string
	outFile    string
	backend    string
	width      int
	height     int
	save       bool
	markdown   bool

	// animate
	frames    int
	frameRate int
)

// main registers the commands and opens the lesson picker when no
// subcommand is given. It exits with status 1 if a command fails.
func main() {
	rootCmd := &cobra.Command{
		Use:           "lessonlab",
		Short:         "interactive physics lessons",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg := zap.NewProductionConfig()
			if verbose {
				cfg = zap.NewDevelopmentConfig()
				cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			var err error
			logger, err = cfg.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.RunInteractive(cmd.Context(), registry(), tuiLogger(), "")
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".lessonlab", "data directory for saved runs")
	rootCmd.PersistentFlags().StringVar(&vdwData, "vdw-data", "", "precomputed van der Waals coexistence file")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list lessons",
		Args:  cobra.NoArgs,
		RunE:  listLessons,
	}

	describeCmd := &cobra.Command{
		Use:   "describe [lesson]",
		Short: "show the lesson card",
		Args:  cobra.ExactArgs(1),
		RunE:  describeLesson,
	}
	describeCmd.Flags().BoolVar(&markdown, "markdown", false, "print raw markdown")

	plotCmd := &cobra.Command{
		Use:   "plot [lesson]",
		Short: "plot a lesson in the terminal and optionally to a file",
		Args:  cobra.ExactArgs(1),
		RunE:  plotLesson,
	}
	addValueFlags(plotCmd)
	plotCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (png, svg, pdf, jpg, json, xlsx, txt)")
	plotCmd.Flags().StringVar(&backend, "backend", config.DefaultBackend, "image backend (gonum, chart)")
	plotCmd.Flags().IntVar(&width, "width", config.DefaultWidth, "image width in pixels")
	plotCmd.Flags().IntVar(&height, "height", config.DefaultHeight, "image height in pixels")
	plotCmd.Flags().BoolVar(&save, "save", false, "save the run under the data directory")

	observeCmd := &cobra.Command{
		Use:   "observe [lesson]",
		Short: "print the lesson readouts",
		Args:  cobra.ExactArgs(1),
		RunE:  observeLesson,
	}
	addValueFlags(observeCmd)

	tuiCmd := &cobra.Command{
		Use:   "tui [lesson]",
		Short: "interactive slider UI",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lesson := ""
			if len(args) > 0 {
				lesson = args[0]
			}
			return tui.RunInteractive(cmd.Context(), registry(), tuiLogger(), lesson)
		},
	}

	watchCmd := &cobra.Command{
		Use:   "watch [config.yaml]",
		Short: "redraw the terminal plot on every change to a config file",
		Args:  cobra.ExactArgs(1),
		RunE:  watchConfig,
	}

	animateCmd := &cobra.Command{
		Use:   "animate [lesson]",
		Short: "play an animated lesson in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  animateLesson,
	}
	addValueFlags(animateCmd)
	animateCmd.Flags().IntVar(&frames, "frames", 50, "number of frames, 0 runs until interrupted")
	animateCmd.Flags().IntVar(&frameRate, "fps", 0, "maximum redraw rate, 0 draws every frame")

	presetsCmd := &cobra.Command{
		Use:   "presets [lesson]",
		Short: "list available presets for a lesson",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for lesson: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %-20s %s\n", p, formatParams(config.GetPreset(args[0], p).Params))
			}
			return nil
		},
	}

	rootCmd.AddCommand(listCmd, describeCmd, plotCmd, observeCmd, tuiCmd, watchCmd, animateCmd, presetsCmd)
	rootCmd.AddCommand(toolCommands()...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addValueFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&sets, "set", nil, "parameter value, name=value (repeatable)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset parameters")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().BoolVar(&logY, "log", false, "log y axis")
	cmd.Flags().StringSliceVar(&hide, "hide", nil, "line groups to hide")
}

func registry() *lessons.Registry {
	if vdwData != "" {
		return lessons.Default(lessons.WithVdWData(vdwData))
	}
	return lessons.Default()
}

// tuiLogger keeps log lines off the alternate screen unless asked for.
func tuiLogger() *zap.Logger {
	if verbose {
		return logger
	}
	return zap.NewNop()
}

// resolveConfig layers the preset, then the config file, then any flag the
// user set explicitly.
func resolveConfig(cmd *cobra.Command, lesson string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	cfg.Lesson = lesson
	cfg.Params = make(map[string]float64)

	if preset != "" {
		p := config.GetPreset(lesson, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(lesson))
		}
		for k, v := range p.Params {
			cfg.Params[k] = v
		}
		cfg.Hidden = append(cfg.Hidden, p.Hidden...)
		cfg.LogY = p.LogY
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		if loaded.Lesson != lesson {
			logger.Warn("config file is for another lesson",
				zap.String("config", loaded.Lesson),
				zap.String("lesson", lesson))
		}
		for k, v := range loaded.Params {
			cfg.Params[k] = v
		}
		if len(loaded.Hidden) > 0 {
			cfg.Hidden = loaded.Hidden
		}
		cfg.LogY = cfg.LogY || loaded.LogY
		cfg.Output = loaded.Output
	}

	flags := cmd.Flags()
	if flags.Changed("set") {
		values, err := parseSets(sets)
		if err != nil {
			return nil, err
		}
		for k, v := range values {
			cfg.Params[k] = v
		}
	}
	if flags.Changed("hide") {
		cfg.Hidden = hide
	}
	if flags.Changed("log") {
		cfg.LogY = logY
	}
	if flags.Lookup("backend") != nil && (flags.Changed("backend") || cfg.Output.Backend == "") {
		cfg.Output.Backend = backend
	}
	if flags.Lookup("width") != nil && (flags.Changed("width") || cfg.Output.Width <= 0) {
		cfg.Output.Width = width
	}
	if flags.Lookup("height") != nil && (flags.Changed("height") || cfg.Output.Height <= 0) {
		cfg.Output.Height = height
	}
	return cfg, nil
}

func parseSets(pairs []string) (map[string]float64, error) {
	out := make(map[string]float64, len(pairs))
	for _, pair := range pairs {
		name, raw, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid --set %q, expected name=value", pair)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid --set %q: %w", pair, err)
		}
		out[strings.TrimSpace(name)] = v
	}
	return out, nil
}

func openSession(cmd *cobra.Command, lesson string) (*widgets.Session, *config.Config, error) {
	l, err := registry().Get(lesson)
	if err != nil {
		return nil, nil, err
	}
	cfg, err := resolveConfig(cmd, lesson)
	if err != nil {
		return nil, nil, err
	}
	session, err := widgets.NewSession(l, widgets.WithContext(cmd.Context()), widgets.WithLogger(logger))
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Apply(session); err != nil {
		return nil, nil, err
	}
	return session, cfg, nil
}

func formatParams(params map[string]float64) string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s=%g", name, params[name])
	}
	return strings.Join(parts, " ")
}

func listLessons(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tTITLE\tPARAMETERS")
	for _, l := range registry().All() {
		fmt.Fprintf(w, "%s\t%s\t%s\n", l.Name(), l.Title(), strings.Join(l.Params().Names(), ", "))
	}
	return w.Flush()
}

func describeLesson(cmd *cobra.Command, args []string) error {
	l, err := registry().Get(args[0])
	if err != nil {
		return err
	}
	values := l.Params().Defaults()
	if markdown {
		fmt.Print(render.Markdown(l, values))
		return nil
	}
	return render.Describe(os.Stdout, l, values)
}

func plotLesson(cmd *cobra.Command, args []string) error {
	session, cfg, err := openSession(cmd, args[0])
	if err != nil {
		return err
	}
	fig := session.Figure()
	if err := render.ASCII(os.Stdout, fig, 80, 15); err != nil {
		return err
	}

	if outFile != "" {
		if err := writeFigure(fig, session, outFile, cfg.Output); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", outFile)
	}

	if save {
		st := storage.New(dataDir, logger)
		if err := st.Init(); err != nil {
			return err
		}
		defer st.Close()
		obs, err := session.Observe(cmd.Context())
		if err != nil {
			return err
		}
		runID, err := st.Save(cmd.Context(), args[0], session.Values(), fig, obs)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}
	return nil
}

func writeFigure(fig *lessons.Figure, session *widgets.Session, path string, out config.OutputConfig) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return store.ExportJSON(path, fig, session.Values())
	case ".xlsx":
		return store.ExportXLSX(path, fig)
	case ".txt":
		return os.WriteFile(path, []byte(render.Text(fig, 80, 15)), 0644)
	}
	switch out.Backend {
	case "chart":
		return render.Chart(fig, path, out.Width, out.Height)
	case "gonum", "":
		return render.Image(fig, path, out.Width, out.Height)
	default:
		return fmt.Errorf("unknown backend: %s", out.Backend)
	}
}

func observeLesson(cmd *cobra.Command, args []string) error {
	session, _, err := openSession(cmd, args[0])
	if err != nil {
		return err
	}
	obs, err := session.Observe(cmd.Context())
	if err != nil {
		return err
	}
	if len(obs) == 0 {
		fmt.Printf("no readouts for lesson: %s\n", args[0])
		return nil
	}

	names := make([]string, 0, len(obs))
	for name := range obs {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Printf("%s  %s\n\n", args[0], formatParams(session.Values()))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "OBSERVABLE\tVALUE")
	for _, name := range names {
		fmt.Fprintf(w, "%s\t%.6g\n", name, obs[name])
	}
	return w.Flush()
}

func watchConfig(cmd *cobra.Command, args []string) error {
	path := args[0]
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	l, err := registry().Get(cfg.Lesson)
	if err != nil {
		return err
	}
	session, err := widgets.NewSession(l, widgets.WithContext(cmd.Context()), widgets.WithLogger(logger))
	if err != nil {
		return err
	}
	if err := cfg.Apply(session); err != nil {
		return err
	}

	live := tui.NewLiveRenderer(os.Stdout, session, 0)
	live.Start()
	defer live.Stop()
	live.Attach()

	return config.Watch(cmd.Context(), path, func(next *config.Config) {
		if next.Lesson != cfg.Lesson {
			logger.Warn("ignoring lesson change", zap.String("lesson", next.Lesson))
			return
		}
		if err := next.Apply(session); err != nil {
			logger.Warn("config rejected", zap.Error(err))
		}
	}, logger)
}

func animateLesson(cmd *cobra.Command, args []string) error {
	session, _, err := openSession(cmd, args[0])
	if err != nil {
		return err
	}
	anim, err := widgets.NewAnimator(session)
	if err != nil {
		return err
	}

	live := tui.NewLiveRenderer(os.Stdout, session, frameRate)
	live.Start()
	defer live.Stop()
	live.Attach()

	done := make(chan struct{})
	var once sync.Once
	session.OnRedraw(func(*lessons.Figure) {
		if frames > 0 && session.Frame() >= frames {
			once.Do(func() { close(done) })
		}
	})

	anim.Start(cmd.Context())
	select {
	case <-done:
	case <-cmd.Context().Done():
	}
	anim.Stop()
	logger.Debug("animation stopped", zap.Int("frames", session.Frame()), zap.Int("drawn", live.Frames()))
	return nil
}
