package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/san-kum/lessonlab/internal/dynamo"
	"github.com/san-kum/lessonlab/internal/lessons"
	"github.com/san-kum/lessonlab/internal/render"
	"github.com/san-kum/lessonlab/internal/widgets"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	green   = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
	red     = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	FastLeft  key.Binding
	FastRight key.Binding
	Enter     key.Binding
	Group     key.Binding
	Log       key.Binding
	Animate   key.Binding
	Reset     key.Binding
	Back      key.Binding
	Quit      key.Binding
	Help      key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Enter, k.Animate, k.Back, k.Help}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.FastLeft, k.FastRight},
		{k.Enter, k.Group, k.Log, k.Animate},
		{k.Reset, k.Back, k.Quit, k.Help},
	}
}

var defaultKeys = keyMap{
	Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "decrease")),
	Right:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "increase")),
	FastLeft:  key.NewBinding(key.WithKeys("H", "shift+left"), key.WithHelp("H", "decrease ×10")),
	FastRight: key.NewBinding(key.WithKeys("L", "shift+right"), key.WithHelp("L", "increase ×10")),
	Enter:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "edit")),
	Group:     key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-9", "toggle lines")),
	Log:       key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "log/linear")),
	Animate:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "animate")),
	Reset:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
	Back:      key.NewBinding(key.WithKeys("q", "esc"), key.WithHelp("q", "back")),
	Quit:      key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
}

type state int

const (
	stateMenu state = iota
	stateLesson
)

// tickMsg carries the generation of the animation that scheduled it, so
// ticks from a stopped animation are dropped.
type tickMsg struct{ gen int }

type model struct {
	ctx     context.Context
	logger  *zap.Logger
	state   state
	lessons []lessons.Lesson
	cursor  int

	session     *widgets.Session
	paramCursor int
	editing     bool
	input       textinput.Model
	animating   bool
	gen         int
	status      string

	keys   keyMap
	help   help.Model
	width  int
	height int
}

func NewInteractiveApp(ctx context.Context, registry *lessons.Registry, logger *zap.Logger) *model {
	if logger == nil {
		logger = zap.NewNop()
	}
	input := textinput.New()
	input.Prompt = ""
	input.CharLimit = 24
	input.Width = 12

	return &model{
		ctx:     ctx,
		logger:  logger,
		state:   stateMenu,
		lessons: registry.All(),
		input:   input,
		keys:    defaultKeys,
		help:    help.New(),
		width:   100,
		height:  40,
	}
}

// Select opens the named lesson as if picked from the menu.
func (m *model) Select(name string) error {
	for i, l := range m.lessons {
		if l.Name() == name {
			m.cursor = i
			return m.open(l)
		}
	}
	return fmt.Errorf("unknown lesson: %s", name)
}

func (m *model) open(l lessons.Lesson) error {
	s, err := widgets.NewSession(l, widgets.WithContext(m.ctx), widgets.WithLogger(m.logger))
	if err != nil {
		return err
	}
	m.session = s
	m.state = stateLesson
	m.paramCursor = 0
	m.editing = false
	m.animating = false
	m.status = ""
	return nil
}

func (m model) Init() tea.Cmd { return nil }

func (m model) tick() tea.Cmd {
	interval := 100 * time.Millisecond
	if a, ok := m.session.Lesson().(lessons.Animated); ok {
		interval = a.Interval()
	}
	gen := m.gen
	return tea.Tick(interval, func(time.Time) tea.Msg { return tickMsg{gen: gen} })
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case tickMsg:
		if msg.gen != m.gen || !m.animating || m.session == nil {
			return m, nil
		}
		if err := m.session.Step(); err != nil {
			m.animating = false
			m.status = err.Error()
			return m, nil
		}
		return m, m.tick()
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch m.state {
	case stateMenu:
		return m.menuKey(msg)
	case stateLesson:
		if m.editing {
			return m.editKey(msg)
		}
		return m.lessonKey(msg)
	}
	return m, nil
}

func (m model) menuKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.lessons)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Enter):
		if err := m.open(m.lessons[m.cursor]); err != nil {
			m.status = err.Error()
			return m, nil
		}
		return m, tea.ClearScreen
	}
	return m, nil
}

func (m model) editKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.editing = false
		m.input.Blur()
		v, err := strconv.ParseFloat(strings.TrimSpace(m.input.Value()), 64)
		if err != nil {
			m.status = fmt.Sprintf("not a number: %q", m.input.Value())
			return m, nil
		}
		m.report(m.session.Set(m.currentParam().Name, v))
		return m, nil
	case "esc":
		m.editing = false
		m.input.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) lessonKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.status = ""
	params := m.session.Params()

	switch {
	case key.Matches(msg, m.keys.Back):
		m.stopAnimation()
		m.session = nil
		m.state = stateMenu
		return m, tea.ClearScreen
	case key.Matches(msg, m.keys.Up):
		if m.paramCursor > 0 {
			m.paramCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.paramCursor < params.Len()-1 {
			m.paramCursor++
		}
	case key.Matches(msg, m.keys.Left):
		m.nudge(-1)
	case key.Matches(msg, m.keys.Right):
		m.nudge(1)
	case key.Matches(msg, m.keys.FastLeft):
		m.nudge(-10)
	case key.Matches(msg, m.keys.FastRight):
		m.nudge(10)
	case key.Matches(msg, m.keys.Enter):
		if params.Len() == 0 {
			return m, nil
		}
		m.editing = true
		m.input.SetValue(strconv.FormatFloat(params.List()[m.paramCursor].Value, 'g', -1, 64))
		m.input.CursorEnd()
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.Group):
		n, _ := strconv.Atoi(msg.String())
		groups := m.session.Groups()
		if n < 1 || n > len(groups) {
			m.status = fmt.Sprintf("no line group %d", n)
			return m, nil
		}
		m.report(m.session.Toggle(groups[n-1].Name))
	case key.Matches(msg, m.keys.Log):
		m.report(m.session.ToggleLog())
	case key.Matches(msg, m.keys.Animate):
		if _, ok := m.session.Lesson().(lessons.Animated); !ok {
			m.status = widgets.ErrNotAnimated.Error()
			return m, nil
		}
		if m.animating {
			m.stopAnimation()
			return m, nil
		}
		m.animating = true
		m.gen++
		return m, m.tick()
	case key.Matches(msg, m.keys.Reset):
		m.report(m.session.Reset())
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m *model) stopAnimation() {
	m.animating = false
	m.gen++
}

func (m *model) nudge(steps float64) {
	if p, ok := m.currentParamOK(); ok {
		m.report(m.session.Nudge(p.Name, steps))
	}
}

func (m *model) report(err error) {
	if err != nil {
		m.status = err.Error()
		m.logger.Debug("session change rejected", zap.Error(err))
	}
}

func (m model) currentParam() dynamo.Param {
	p, _ := m.currentParamOK()
	return p
}

func (m model) currentParamOK() (dynamo.Param, bool) {
	list := m.session.Params().List()
	if m.paramCursor < 0 || m.paramCursor >= len(list) {
		return dynamo.Param{}, false
	}
	return list[m.paramCursor], true
}

func (m model) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateLesson:
		return m.viewLesson()
	}
	return ""
}

func (m model) viewMenu() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("          " + cyan.Render("l e s s o n l a b") + "\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("\n")

	for i, l := range m.lessons {
		if i == m.cursor {
			b.WriteString("      " + cyan.Render("▸ ") + white.Render(fmt.Sprintf("%-24s", l.Name())) + dim.Render(l.Title()) + "\n")
		} else {
			b.WriteString("        " + dim.Render(fmt.Sprintf("%-24s", l.Name())) + dimmer.Render(l.Title()) + "\n")
		}
	}

	if m.status != "" {
		b.WriteString("\n      " + red.Render(m.status) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(dim.Render("      ↑↓ select   enter open   q quit") + "\n")

	return b.String()
}

func (m model) viewLesson() string {
	var b strings.Builder
	fig := m.session.Figure()
	params := m.session.Params().List()

	b.WriteString("\n   " + cyan.Render(m.session.Lesson().Title()) + "  " + dim.Render(m.session.Lesson().Name()))
	switch {
	case m.animating:
		b.WriteString("  " + green.Render("● animating") + dim.Render(fmt.Sprintf(" frame %d", m.session.Frame())))
	case m.session.Frame() > 0:
		b.WriteString("  " + yellow.Render("○ paused"))
	}
	b.WriteString("\n\n")

	w, h := m.plotSize(len(fig.Panels), len(params))
	for _, line := range strings.Split(strings.TrimRight(render.Text(fig, w, h), "\n"), "\n") {
		b.WriteString("   " + line + "\n")
	}
	b.WriteString("\n")

	for i, p := range params {
		b.WriteString(m.paramLine(i, p) + "\n")
	}

	if groups := m.session.Groups(); len(groups) > 0 {
		b.WriteString("\n   ")
		for i, g := range groups {
			if i >= 9 {
				break
			}
			mark := dimmer.Render("○")
			if g.Visible {
				mark = green.Render("●")
			}
			b.WriteString(dim.Render(fmt.Sprintf("%d ", i+1)) + mark + " " + white.Render(g.Name) + "   ")
		}
		b.WriteString("\n")
	}
	if _, ok := m.session.Lesson().(lessons.LogScaled); ok {
		scale := "linear"
		if m.session.LogY() {
			scale = "log"
		}
		b.WriteString("   " + dim.Render("y axis ") + magenta.Render(scale) + "\n")
	}

	if m.status != "" {
		b.WriteString("\n   " + red.Render(m.status) + "\n")
	}
	b.WriteString("\n   " + m.help.View(m.keys) + "\n")

	return b.String()
}

func (m model) plotSize(panels, params int) (int, int) {
	w := m.width - 16
	if w < 40 {
		w = 40
	}
	if panels < 1 {
		panels = 1
	}
	h := (m.height-14-params)/panels - 3
	if h < 5 {
		h = 5
	}
	if h > 20 {
		h = 20
	}
	return w, h
}

func (m model) paramLine(i int, p dynamo.Param) string {
	long, short := p.Label()
	label := short
	if label == "" {
		label = p.Name
	}
	val := fmt.Sprintf("%10s", strconv.FormatFloat(p.Value, 'g', 5, 64))
	if m.editing && i == m.paramCursor {
		val = fmt.Sprintf("%10s", m.input.View())
	}
	bar := slider(p, 20)
	if i == m.paramCursor {
		return "   " + cyan.Render("▸ ") + white.Render(fmt.Sprintf("%-14s", label)) + magenta.Render(val) + " " + bar + " " + dim.Render(long)
	}
	return "     " + dim.Render(fmt.Sprintf("%-14s", label)) + dim.Render(val) + " " + bar
}

// slider draws the position of the value within its range.
func slider(p dynamo.Param, width int) string {
	frac := 0.0
	if p.Max > p.Min {
		frac = (p.Value - p.Min) / (p.Max - p.Min)
	}
	filled := int(frac * float64(width-1))
	if filled < 0 {
		filled = 0
	}
	if filled > width-1 {
		filled = width - 1
	}
	return cyan.Render(strings.Repeat("━", filled)) + white.Render("●") + dimmer.Render(strings.Repeat("─", width-1-filled))
}

// RunInteractive opens the lesson picker, or the named lesson directly.
func RunInteractive(ctx context.Context, registry *lessons.Registry, logger *zap.Logger, lesson string) error {
	app := NewInteractiveApp(ctx, registry, logger)
	if lesson != "" {
		if err := app.Select(lesson); err != nil {
			return err
		}
	}
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
