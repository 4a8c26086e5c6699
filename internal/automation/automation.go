package automation

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/lessonlab/internal/config"
	"github.com/san-kum/lessonlab/internal/lessons"
	"github.com/san-kum/lessonlab/internal/render"
	"github.com/san-kum/lessonlab/internal/widgets"
)

var (
	ErrUnknownPreset  = errors.New("automation: unknown preset")
	ErrUnknownBackend = errors.New("automation: unknown backend")
)

// Batch is a list of figures to render into one directory.
type Batch struct {
	Name    string `yaml:"name"`
	Output  string `yaml:"output"`
	Format  string `yaml:"format"`
	Backend string `yaml:"backend"`
	Width   int    `yaml:"width"`
	Height  int    `yaml:"height"`
	Jobs    []Job  `yaml:"jobs"`
}

// Job renders one lesson. Params override the preset, and Output defaults
// to the lesson name plus the preset name.
type Job struct {
	Lesson string             `yaml:"lesson"`
	Preset string             `yaml:"preset"`
	Params map[string]float64 `yaml:"params"`
	Hidden []string           `yaml:"hidden"`
	LogY   bool               `yaml:"log_y"`
	Output string             `yaml:"output"`
}

// LoadBatch loads a batch from a YAML file
func LoadBatch(path string) (*Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var batch Batch
	if err := yaml.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return &batch, nil
}

func (b *Batch) withDefaults() Batch {
	out := *b
	if out.Output == "" {
		out.Output = config.DefaultDir
	}
	if out.Format == "" {
		out.Format = config.DefaultFormat
	}
	out.Format = strings.TrimPrefix(strings.ToLower(out.Format), ".")
	if out.Backend == "" {
		out.Backend = config.DefaultBackend
	}
	if out.Width <= 0 {
		out.Width = config.DefaultWidth
	}
	if out.Height <= 0 {
		out.Height = config.DefaultHeight
	}
	return out
}

type Runner struct {
	registry *lessons.Registry
	logger   *zap.Logger
	workers  int
}

func NewRunner(registry *lessons.Registry, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{registry: registry, logger: logger, workers: runtime.NumCPU()}
}

// SetWorkers bounds the number of figures rendered at once.
func (r *Runner) SetWorkers(n int) {
	if n > 0 {
		r.workers = n
	}
}

// RunBatch renders every job, carrying on past failures. It returns the
// written paths in job order and every job error joined.
func (r *Runner) RunBatch(ctx context.Context, batch *Batch) ([]string, error) {
	b := batch.withDefaults()
	if err := os.MkdirAll(b.Output, 0755); err != nil {
		return nil, err
	}

	paths := make([]string, len(b.Jobs))
	errs := make([]error, len(b.Jobs))
	var eg errgroup.Group
	eg.SetLimit(r.workers)
	for i, job := range b.Jobs {
		i, job := i, job
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			path, err := r.render(ctx, &b, job)
			if err != nil {
				errs[i] = fmt.Errorf("job %d (%s): %w", i+1, job.Lesson, err)
				r.logger.Warn("render failed", zap.String("lesson", job.Lesson), zap.Error(err))
				return nil
			}
			paths[i] = path
			r.logger.Debug("rendered", zap.String("lesson", job.Lesson), zap.String("path", path))
			return nil
		})
	}
	_ = eg.Wait()

	written := make([]string, 0, len(paths))
	for _, p := range paths {
		if p != "" {
			written = append(written, p)
		}
	}
	r.logger.Info("batch done",
		zap.String("name", b.Name),
		zap.Int("jobs", len(b.Jobs)),
		zap.Int("written", len(written)))
	return written, errors.Join(errs...)
}

// RenderAll renders every registered lesson at its default values.
func (r *Runner) RenderAll(ctx context.Context, dir, format string) ([]string, error) {
	batch := &Batch{Name: "all", Output: dir, Format: format}
	for _, name := range r.registry.Names() {
		batch.Jobs = append(batch.Jobs, Job{Lesson: name})
	}
	return r.RunBatch(ctx, batch)
}

// Index lists every lesson as "title (name)".
func (r *Runner) Index() []string {
	all := r.registry.All()
	out := make([]string, len(all))
	for i, l := range all {
		out[i] = fmt.Sprintf("%s (%s)", l.Title(), l.Name())
	}
	return out
}

func (r *Runner) render(ctx context.Context, b *Batch, job Job) (string, error) {
	lesson, err := r.registry.Get(job.Lesson)
	if err != nil {
		return "", err
	}
	cfg, err := jobConfig(job)
	if err != nil {
		return "", err
	}
	session, err := widgets.NewSession(lesson, widgets.WithContext(ctx), widgets.WithLogger(r.logger))
	if err != nil {
		return "", err
	}
	if err := cfg.Apply(session); err != nil {
		return "", err
	}

	path := filepath.Join(b.Output, outputName(job, b.Format))
	fig := session.Figure()
	switch {
	case b.Format == "txt":
		return path, writeText(path, fig)
	case b.Backend == "chart":
		return path, render.Chart(fig, path, b.Width, b.Height)
	case b.Backend == "gonum":
		return path, render.Image(fig, path, b.Width, b.Height)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownBackend, b.Backend)
	}
}

// jobConfig layers the job's own settings over its preset.
func jobConfig(job Job) (*config.Config, error) {
	cfg := &config.Config{Lesson: job.Lesson, Params: make(map[string]float64)}
	if job.Preset != "" {
		preset := config.GetPreset(job.Lesson, job.Preset)
		if preset == nil {
			return nil, fmt.Errorf("%w: %s/%s", ErrUnknownPreset, job.Lesson, job.Preset)
		}
		for k, v := range preset.Params {
			cfg.Params[k] = v
		}
		cfg.Hidden = append(cfg.Hidden, preset.Hidden...)
		cfg.LogY = preset.LogY
	}
	for k, v := range job.Params {
		cfg.Params[k] = v
	}
	cfg.Hidden = append(cfg.Hidden, job.Hidden...)
	cfg.LogY = cfg.LogY || job.LogY
	return cfg, nil
}

func outputName(job Job, format string) string {
	name := job.Output
	if name == "" {
		name = job.Lesson
		if job.Preset != "" {
			name += "_" + job.Preset
		}
	}
	if filepath.Ext(name) == "" {
		name += "." + format
	}
	return name
}

func writeText(path string, fig *lessons.Figure) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	return render.ASCII(f, fig, 80, 15)
}
