package automation

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/lessonlab/internal/lessons"
)

func newRunner() *Runner {
	r := NewRunner(lessons.Default(), nil)
	r.SetWorkers(2)
	return r
}

func TestLoadBatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.yaml")
	content := `name: course
output: figures
format: svg
jobs:
  - lesson: planck_law
    preset: sun
  - lesson: rlc_frequency_response
    params:
      R: 5
    hidden: [C]
    log_y: true
    output: rlc.pdf
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	b, err := LoadBatch(path)
	require.NoError(t, err)
	assert.Equal(t, "course", b.Name)
	assert.Equal(t, "svg", b.Format)
	require.Len(t, b.Jobs, 2)
	assert.Equal(t, "sun", b.Jobs[0].Preset)
	assert.Equal(t, 5.0, b.Jobs[1].Params["R"])
	assert.Equal(t, []string{"C"}, b.Jobs[1].Hidden)
	assert.True(t, b.Jobs[1].LogY)

	_, err = LoadBatch(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestOutputName(t *testing.T) {
	tests := []struct {
		job  Job
		want string
	}{
		{Job{Lesson: "planck_law"}, "planck_law.png"},
		{Job{Lesson: "planck_law", Preset: "sun"}, "planck_law_sun.png"},
		{Job{Lesson: "planck_law", Output: "fig1"}, "fig1.png"},
		{Job{Lesson: "planck_law", Output: "fig1.svg"}, "fig1.svg"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, outputName(tt.job, "png"))
		})
	}
}

func TestJobConfigLayering(t *testing.T) {
	cfg, err := jobConfig(Job{Lesson: "planck_law", Preset: "cosmic_background", Params: map[string]float64{"T": 3}})
	require.NoError(t, err)
	assert.Equal(t, 3.0, cfg.Params["T"])
	assert.True(t, cfg.LogY)

	_, err = jobConfig(Job{Lesson: "planck_law", Preset: "nope"})
	assert.ErrorIs(t, err, ErrUnknownPreset)
}

func TestRunBatch(t *testing.T) {
	dir := t.TempDir()
	batch := &Batch{
		Name:   "test",
		Output: dir,
		Width:  400,
		Height: 300,
		Jobs: []Job{
			{Lesson: "rlc_frequency_response", Preset: "sharp"},
			{Lesson: "planck_law", Params: map[string]float64{"T": 3000}, Output: "planck.svg"},
		},
	}

	paths, err := newRunner().RunBatch(context.Background(), batch)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "rlc_frequency_response_sharp.png"),
		filepath.Join(dir, "planck.svg"),
	}, paths)
	for _, p := range paths {
		info, err := os.Stat(p)
		require.NoError(t, err)
		assert.NotZero(t, info.Size())
	}
}

func TestRunBatchCollectsErrors(t *testing.T) {
	dir := t.TempDir()
	batch := &Batch{
		Output: dir,
		Format: "txt",
		Jobs: []Job{
			{Lesson: "no_such_lesson"},
			{Lesson: "planck_law", Preset: "nope"},
			{Lesson: "planck_law"},
			{Lesson: "planck_law", Params: map[string]float64{"Z": 1}, Output: "bad"},
		},
	}

	paths, err := newRunner().RunBatch(context.Background(), batch)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownPreset)
	assert.Contains(t, err.Error(), "no_such_lesson")
	assert.Contains(t, err.Error(), "job 4")
	assert.Equal(t, []string{filepath.Join(dir, "planck_law.txt")}, paths)
}

func TestRunBatchUnknownBackend(t *testing.T) {
	batch := &Batch{Output: t.TempDir(), Backend: "matplotlib", Jobs: []Job{{Lesson: "sampling"}}}
	_, err := newRunner().RunBatch(context.Background(), batch)
	assert.ErrorIs(t, err, ErrUnknownBackend)
}

func TestRunBatchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	batch := &Batch{Output: t.TempDir(), Format: "txt", Jobs: []Job{{Lesson: "sampling"}}}
	paths, err := newRunner().RunBatch(ctx, batch)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, paths)
}

func TestRenderAll(t *testing.T) {
	r := newRunner()
	dir := t.TempDir()

	paths, err := r.RenderAll(context.Background(), dir, "txt")
	require.NoError(t, err)
	assert.Len(t, paths, len(lessons.Default().Names()))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		require.NoError(t, err)
		assert.NotEmpty(t, strings.TrimSpace(string(data)), p)
	}
}

func TestIndex(t *testing.T) {
	index := newRunner().Index()
	assert.Len(t, index, len(lessons.Default().Names()))
	assert.Contains(t, index, "Planck's law (planck_law)")
}
