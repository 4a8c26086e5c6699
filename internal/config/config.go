package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/lessonlab/internal/lessons"
	"github.com/san-kum/lessonlab/internal/widgets"
)

const (
	DefaultLesson  = "planck_law"
	DefaultDir     = "runs"
	DefaultFormat  = "png"
	DefaultWidth   = 1000
	DefaultHeight  = 700
	DefaultBackend = "gonum"
)

type Config struct {
	Lesson string             `yaml:"lesson"`
	Params map[string]float64 `yaml:"params,omitempty"`
	// Hidden names line groups drawn hidden.
	Hidden []string     `yaml:"hidden,omitempty"`
	LogY   bool         `yaml:"log_y"`
	Output OutputConfig `yaml:"output"`
	Log    LogConfig    `yaml:"log"`
}

type OutputConfig struct {
	Dir     string `yaml:"dir"`
	Format  string `yaml:"format"`
	Width   int    `yaml:"width"`
	Height  int    `yaml:"height"`
	Backend string `yaml:"backend"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

func DefaultConfig() *Config {
	return &Config{
		Lesson: DefaultLesson,
		Output: OutputConfig{
			Dir:     DefaultDir,
			Format:  DefaultFormat,
			Width:   DefaultWidth,
			Height:  DefaultHeight,
			Backend: DefaultBackend,
		},
		Log: LogConfig{Level: "info"},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ParamNames returns the configured parameter names, sorted.
func (c *Config) ParamNames() []string {
	names := make([]string, 0, len(c.Params))
	for name := range c.Params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Apply moves the session to the configured values, line visibility and
// axis mode. Names are checked before anything changes.
func (c *Config) Apply(s *widgets.Session) error {
	if err := widgets.CheckParameters(c.ParamNames(), s.Params().Names()); err != nil {
		return err
	}
	groups := s.Groups()
	known := make(map[string]bool, len(groups))
	for _, g := range groups {
		known[g.Name] = true
	}
	hidden := make(map[string]bool, len(c.Hidden))
	for _, name := range c.Hidden {
		if !known[name] {
			return fmt.Errorf("%w: %s", widgets.ErrUnknownGroup, name)
		}
		hidden[name] = true
	}
	if _, ok := s.Lesson().(lessons.LogScaled); c.LogY && !ok {
		return widgets.ErrNoLogAxis
	}

	if len(c.Params) > 0 {
		if err := s.SetValues(c.Params); err != nil {
			return err
		}
	}
	for _, g := range groups {
		if hidden[g.Name] == g.Visible {
			if err := s.SetGroup(g.Name, !hidden[g.Name]); err != nil {
				return err
			}
		}
	}
	if s.LogY() != c.LogY {
		return s.SetLog(c.LogY)
	}
	return nil
}
