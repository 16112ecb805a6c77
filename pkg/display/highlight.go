package display

import (
	"regexp"
	"strings"

	"github.com/arthur-debert/buildsetup/pkg/ui"
)

var (
	commentRe    = regexp.MustCompile(`^([^#]*)(#.*)?$`)
	assignmentRe = regexp.MustCompile(`^([^=:?+]*?)(\s*[?:+]?=.*)$`)
	targetRe     = regexp.MustCompile(`^([^=]*?:+)(.*)$`)
)

// Highlighter colors makefile-style configuration text
type Highlighter struct {
	styles *ui.Styles
}

// NewHighlighter creates a Highlighter rendering with styles
func NewHighlighter(styles *ui.Styles) *Highlighter {
	return &Highlighter{styles: styles}
}

// Highlight colors every line of content
func (h *Highlighter) Highlight(content string) string {
	trailing := strings.HasSuffix(content, "\n")
	lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")
	for i, line := range lines {
		lines[i] = h.HighlightLine(line)
	}
	out := strings.Join(lines, "\n")
	if trailing {
		out += "\n"
	}
	return out
}

// HighlightLine colors one line: variable names of assignments, rule
// targets, parenthesised references and trailing comments
func (h *Highlighter) HighlightLine(line string) string {
	return h.render(lineSegments(strings.TrimRight(line, " \t\r")))
}

func (h *Highlighter) render(segments []segment) string {
	var b strings.Builder
	for _, s := range segments {
		if s.style == "" {
			b.WriteString(s.text)
			continue
		}
		b.WriteString(h.styles.Render(s.style, s.text))
	}
	return b.String()
}

// lineSegments classifies a line into styled segments
func lineSegments(line string) []segment {
	m := commentRe.FindStringSubmatch(line)
	if m == nil {
		return []segment{{text: line}}
	}
	text, comment := m[1], m[2]

	var segments []segment
	switch {
	case text == "":
	case assignmentRe.MatchString(text):
		parts := assignmentRe.FindStringSubmatch(text)
		segments = append(segments, segment{style: "Variable", text: parts[1]})
		segments = append(segments, splitParens(parts[2], "Assignment")...)
	case targetRe.MatchString(text):
		parts := targetRe.FindStringSubmatch(text)
		segments = append(segments, segment{style: "Target", text: parts[1]})
		segments = append(segments, splitParens(parts[2], "")...)
	default:
		segments = append(segments, splitParens(text, "")...)
	}

	if comment != "" {
		segments = append(segments, segment{style: "Comment", text: comment})
	}
	return segments
}
