package widgets_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/san-kum/lessonlab/internal/dynamo"
	"github.com/san-kum/lessonlab/internal/widgets"
)

func TestJustify(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  string
	}{
		{"wraps greedily", "hello world foo", 10, " hello\n world foo"},
		{"keeps math together", "a $x + y$ b", 5, " a $x + y$\n b "},
		{"joins paragraphs", "a\n\nb", 40, " a \n\n b "},
		{"joins lines of a paragraph", "one\n  two", 40, " one two "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, widgets.Justify(tt.text, tt.width))
		})
	}
}

func TestSplitLabel(t *testing.T) {
	long, short := widgets.SplitLabel("Wavelength -- $\\lambda$ (nm)")
	assert.Equal(t, "Wavelength", long)
	assert.Equal(t, "$\\lambda$ (nm)", short)

	long, short = widgets.SplitLabel("Sampling rate")
	assert.Equal(t, "Sampling rate", long)
	assert.Empty(t, short)
}

func TestCheckParameters(t *testing.T) {
	assert.NoError(t, widgets.CheckParameters([]string{"a"}, []string{"a", "b"}))
	assert.ErrorIs(t, widgets.CheckParameters([]string{"a", "c"}, []string{"a", "b"}), dynamo.ErrUnknownParameter)
}
