package tui

import (
	"bytes"
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/lessonlab/internal/lessons"
	"github.com/san-kum/lessonlab/internal/widgets"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	space = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
)

func press(m model, msgs ...tea.Msg) (model, tea.Cmd) {
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(model)
	}
	return m, cmd
}

func newApp(t *testing.T, lesson string) model {
	t.Helper()
	app := NewInteractiveApp(context.Background(), lessons.Default(), nil)
	if lesson != "" {
		require.NoError(t, app.Select(lesson))
	}
	return *app
}

func value(t *testing.T, m model, name string) float64 {
	t.Helper()
	v, err := m.session.Params().Get(name)
	require.NoError(t, err)
	return v
}

func TestMenuNavigation(t *testing.T) {
	m := newApp(t, "")
	assert.Contains(t, m.View(), "planck_law")

	m, _ = press(m, runes("j"), runes("j"), runes("k"))
	assert.Equal(t, 1, m.cursor)

	m, _ = press(m, enter)
	require.Equal(t, stateLesson, m.state)
	assert.Equal(t, lessons.Default().Names()[1], m.session.Lesson().Name())

	m, _ = press(m, runes("q"))
	assert.Equal(t, stateMenu, m.state)
	assert.Nil(t, m.session)

	_, cmd := press(m, runes("q"))
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}

func TestSelectUnknown(t *testing.T) {
	app := NewInteractiveApp(context.Background(), lessons.Default(), nil)
	assert.Error(t, app.Select("nope"))
}

func TestNudgeParameter(t *testing.T) {
	m := newApp(t, "sampling")

	m, _ = press(m, runes("l"))
	assert.InDelta(t, 31.55, value(t, m, "fs"), 1e-9)

	m, _ = press(m, runes("H"))
	assert.InDelta(t, 26.05, value(t, m, "fs"), 1e-9)

	for i := 0; i < 10; i++ {
		m, _ = press(m, runes("L"))
	}
	assert.Equal(t, 60.0, value(t, m, "fs"))
	assert.Empty(t, m.status)

	m, _ = press(m, runes("r"))
	assert.Equal(t, 31.0, value(t, m, "fs"))
}

func TestParameterCursor(t *testing.T) {
	m := newApp(t, "rlc_frequency_response")

	m, _ = press(m, runes("j"), runes("l"))
	assert.Equal(t, 1, m.paramCursor)
	assert.Equal(t, 10.0, value(t, m, "R"))
	assert.Greater(t, value(t, m, "L"), 1.0)

	m, _ = press(m, runes("j"), runes("j"), runes("j"))
	assert.Equal(t, 2, m.paramCursor)
}

func TestEditValue(t *testing.T) {
	m := newApp(t, "sampling")

	m, _ = press(m, enter)
	require.True(t, m.editing)
	assert.Equal(t, "31", m.input.Value())

	m.input.SetValue("12")
	m, _ = press(m, enter)
	assert.False(t, m.editing)
	assert.Equal(t, 12.0, value(t, m, "fs"))

	m, _ = press(m, enter)
	m.input.SetValue("abc")
	m, _ = press(m, enter)
	assert.Contains(t, m.status, "not a number")
	assert.Equal(t, 12.0, value(t, m, "fs"))

	m, _ = press(m, enter)
	m.input.SetValue("1000")
	m, _ = press(m, enter)
	assert.NotEmpty(t, m.status)
	assert.Equal(t, 12.0, value(t, m, "fs"))

	m, _ = press(m, enter, tea.KeyMsg{Type: tea.KeyEscape})
	assert.False(t, m.editing)
	assert.Equal(t, stateLesson, m.state)
}

func TestGroupsAndLogAxis(t *testing.T) {
	m := newApp(t, "rlc_frequency_response")

	m, _ = press(m, runes("3"))
	for _, g := range m.session.Groups() {
		assert.False(t, g.Visible, g.Name)
	}
	m, _ = press(m, runes("1"))
	assert.True(t, m.session.Groups()[0].Visible)

	m, _ = press(m, runes("9"))
	assert.Contains(t, m.status, "no line group 9")

	m, _ = press(m, runes("g"))
	assert.True(t, m.session.LogY())
	assert.Contains(t, m.View(), "log")

	m = newApp(t, "sampling")
	m, _ = press(m, runes("g"))
	assert.Equal(t, widgets.ErrNoLogAxis.Error(), m.status)
}

func TestAnimation(t *testing.T) {
	m := newApp(t, "wave_reflection")

	m, cmd := press(m, space)
	require.True(t, m.animating)
	require.NotNil(t, cmd)

	m, cmd = press(m, tickMsg{gen: m.gen})
	assert.Equal(t, 1, m.session.Frame())
	assert.NotNil(t, cmd)

	m, _ = press(m, tickMsg{gen: m.gen - 1})
	assert.Equal(t, 1, m.session.Frame())

	m, _ = press(m, space)
	assert.False(t, m.animating)
	m, cmd = press(m, tickMsg{gen: m.gen})
	assert.Equal(t, 1, m.session.Frame())
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "paused")

	m = newApp(t, "sampling")
	m, _ = press(m, space)
	assert.False(t, m.animating)
	assert.Equal(t, widgets.ErrNotAnimated.Error(), m.status)
}

func TestLessonView(t *testing.T) {
	m := newApp(t, "planck_law")
	m, _ = press(m, tea.WindowSizeMsg{Width: 120, Height: 50})

	view := m.View()
	assert.Contains(t, view, "Planck's law")
	assert.Contains(t, view, "▸")

	m, _ = press(m, runes("?"))
	assert.True(t, m.help.ShowAll)
}

func TestLiveRenderer(t *testing.T) {
	s, err := widgets.NewSession(lessons.NewSampling())
	require.NoError(t, err)

	var buf bytes.Buffer
	live := NewLiveRenderer(&buf, s, 0)
	live.Attach()
	require.NoError(t, s.Set("fs", 20))

	assert.Equal(t, 2, live.Frames())
	out := buf.String()
	assert.Equal(t, 2, strings.Count(out, clearScreen))
	assert.Contains(t, out, "fs=20")
}

func TestLiveRendererThrottles(t *testing.T) {
	s, err := widgets.NewSession(lessons.NewSampling())
	require.NoError(t, err)

	live := NewLiveRenderer(&bytes.Buffer{}, s, 1)
	live.Attach()
	require.NoError(t, s.Set("fs", 20))
	assert.Equal(t, 1, live.Frames())
}

func TestFormatValues(t *testing.T) {
	assert.Equal(t, "a=1.5  b=2", formatValues(map[string]float64{"b": 2, "a": 1.5}))
}
