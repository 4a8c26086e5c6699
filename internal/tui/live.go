package tui

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/san-kum/lessonlab/internal/dynamo"
	"github.com/san-kum/lessonlab/internal/lessons"
	"github.com/san-kum/lessonlab/internal/render"
	"github.com/san-kum/lessonlab/internal/widgets"
)

const (
	width       = 80
	height      = 15
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// LiveRenderer redraws a session's figure in place on every change. A zero
// frame rate draws every figure.
type LiveRenderer struct {
	w         io.Writer
	session   *widgets.Session
	frameRate int

	mu        sync.Mutex
	lastFrame time.Time
	frames    int
}

func NewLiveRenderer(w io.Writer, s *widgets.Session, frameRate int) *LiveRenderer {
	return &LiveRenderer{w: w, session: s, frameRate: frameRate}
}

// Attach draws the current figure and subscribes to later ones.
func (r *LiveRenderer) Attach() {
	r.Draw(r.session.Figure())
	r.session.OnRedraw(r.OnRedraw)
}

func (r *LiveRenderer) OnRedraw(fig *lessons.Figure) {
	r.mu.Lock()
	if r.frameRate > 0 && time.Since(r.lastFrame) < time.Second/time.Duration(r.frameRate) {
		r.mu.Unlock()
		return
	}
	r.mu.Unlock()
	r.Draw(fig)
}

// Draw clears the terminal and prints fig with the current values.
func (r *LiveRenderer) Draw(fig *lessons.Figure) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastFrame = time.Now()
	r.frames++

	var b strings.Builder
	b.WriteString(clearScreen)
	b.WriteString(render.Text(fig, width, height))
	b.WriteString("\n")
	b.WriteString(formatValues(r.session.Values()))
	if frame := r.session.Frame(); frame > 0 {
		fmt.Fprintf(&b, "  frame %d", frame)
	}
	b.WriteString("\n")
	io.WriteString(r.w, b.String())
}

// Frames counts the figures drawn so far.
func (r *LiveRenderer) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

func (r *LiveRenderer) Start() { io.WriteString(r.w, hideCursor) }
func (r *LiveRenderer) Stop()  { io.WriteString(r.w, showCursor) }

func formatValues(v dynamo.Values) string {
	names := make([]string, 0, len(v))
	for name := range v {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + "=" + strconv.FormatFloat(v[name], 'g', 4, 64)
	}
	return strings.Join(parts, "  ")
}
