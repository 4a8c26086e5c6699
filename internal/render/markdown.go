package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/san-kum/lessonlab/internal/dynamo"
	"github.com/san-kum/lessonlab/internal/lessons"
	"github.com/san-kum/lessonlab/internal/widgets"
)

const cardWidth = 80

// Markdown builds the lesson card: title, description and a parameter
// table at the given values (defaults for missing ones).
func Markdown(lesson lessons.Lesson, values dynamo.Values) string {
	params := lesson.Params()
	current := params.Defaults().Merge(values)

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", lesson.Title())
	fmt.Fprintf(&b, "`%s`\n\n", lesson.Name())
	if d := strings.TrimSpace(lesson.Description()); d != "" {
		for _, line := range strings.Split(widgets.Justify(d, cardWidth-8), "\n") {
			b.WriteString(strings.TrimLeft(line, " ") + "\n")
		}
		b.WriteString("\n")
	}

	if params.Len() == 0 {
		return b.String()
	}
	b.WriteString("| parameter | description | label | value | range |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for _, p := range params.List() {
		long, short := p.Label()
		fmt.Fprintf(&b, "| `%s` | %s | %s | %s | %s |\n",
			p.Name, cell(long), cell(short), number(current.Get(p.Name)), span(p))
	}
	return b.String()
}

func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func number(v float64) string {
	return strconv.FormatFloat(v, 'g', 4, 64)
}

func span(p dynamo.Param) string {
	s := fmt.Sprintf("[%s, %s]", number(p.Min), number(p.Max))
	if p.Integer {
		return s + " integer"
	}
	if p.Step > 0 {
		s += " step " + number(p.Step)
	}
	return s
}

// Describe renders the lesson card for a terminal.
func Describe(w io.Writer, lesson lessons.Lesson, values dynamo.Values) error {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(cardWidth),
		glamour.WithPreservedNewLines(),
	)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	out, err := r.Render(Markdown(lesson, values))
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", lesson.Name(), err)
	}
	_, err = io.WriteString(w, out)
	return err
}
