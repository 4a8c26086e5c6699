package widgets

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/san-kum/lessonlab/internal/dynamo"
)

// Justify wraps text greedily to width. Paragraphs are separated by blank
// lines, and a line never breaks inside $...$ math.
func Justify(text string, width int) string {
	paragraphs := []string{""}
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			paragraphs = append(paragraphs, "")
			continue
		}
		paragraphs[len(paragraphs)-1] += strings.TrimSpace(line) + " "
	}

	out := make([]string, len(paragraphs))
	for i, p := range paragraphs {
		out[i] = justifyParagraph(p, width)
	}
	return strings.Join(out, "\n\n")
}

func justifyParagraph(text string, width int) string {
	lines := []string{""}
	inEquation := false
	for _, word := range strings.Split(text, " ") {
		if strings.HasPrefix(word, "$") {
			inEquation = true
		}
		last := len(lines) - 1
		if !inEquation && utf8.RuneCountInString(lines[last])+utf8.RuneCountInString(word)+1 > width {
			lines = append(lines, "")
			last++
		}
		lines[last] += " " + word
		if strings.HasSuffix(word, "$") {
			inEquation = false
		}
	}

	kept := lines[:0]
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			kept = append(kept, l)
		}
	}
	return strings.Join(kept, "\n")
}

// SplitLabel splits a parameter description at the first "--" into its long
// and short labels.
func SplitLabel(description string) (long, short string) {
	return dynamo.Param{Description: description}.Label()
}

// CheckParameters fails on the first name that is not accepted.
func CheckParameters(names, accepted []string) error {
	ok := make(map[string]bool, len(accepted))
	for _, a := range accepted {
		ok[a] = true
	}
	for _, n := range names {
		if !ok[n] {
			return fmt.Errorf("%w: %s (accepted: %s)", dynamo.ErrUnknownParameter, n, strings.Join(accepted, ", "))
		}
	}
	return nil
}
