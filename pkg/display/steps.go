package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"

	"github.com/arthur-debert/buildsetup/pkg/ui"
)

var (
	completeSteps = []string{"make install-deps", "make get-sources", "make vanir", "make iso"}
	templateSteps = []string{"make install-deps", "make get-sources", "make vanir-vm", "make template"}
)

// BuildSteps returns the markdown listing the commands to run after
// configuration, for a complete build or a template-only build
func BuildSteps(templateOnly bool) string {
	title, steps := "Complete vanir Build Steps", completeSteps
	if templateOnly {
		title, steps = "Template Only Build Steps", templateSteps
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", title)
	b.WriteString("```sh\n")
	b.WriteString(strings.Join(steps, "\n"))
	b.WriteString("\n```\n")
	return b.String()
}

// RenderMarkdown renders markdown with glamour. Text output uses the notty
// style; rendering errors fall back to the raw markdown.
func RenderMarkdown(markdown string, format ui.Format, width int) string {
	options := []glamour.TermRendererOption{}
	if format == ui.FormatText {
		options = append(options, glamour.WithStandardStyle(styles.NoTTYStyle))
	} else {
		options = append(options, glamour.WithAutoStyle())
	}
	if width > 0 {
		options = append(options, glamour.WithWordWrap(width))
	}

	renderer, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return markdown
	}
	rendered, err := renderer.Render(markdown)
	if err != nil {
		return markdown
	}
	return rendered
}
