// Package display prints the resolved configuration file and the build
// steps that follow a wizard run.
package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/buildsetup/pkg/errors"
	"github.com/arthur-debert/buildsetup/pkg/types"
	"github.com/arthur-debert/buildsetup/pkg/ui"
)

// DefaultWidth is the word-wrap width for markdown output
const DefaultWidth = 80

// Renderer writes highlighted configuration to an output
type Renderer struct {
	out         io.Writer
	format      ui.Format
	styles      *ui.Styles
	highlighter *Highlighter
}

// NewRenderer creates a Renderer. format must already be resolved to
// FormatTerminal or FormatText.
func NewRenderer(out io.Writer, format ui.Format, styles *ui.Styles) *Renderer {
	if styles == nil {
		styles = ui.DefaultStyles()
	}
	styles = styles.ForFormat(format)
	return &Renderer{
		out:         out,
		format:      format,
		styles:      styles,
		highlighter: NewHighlighter(styles),
	}
}

// Configuration prints the file at path with highlighting
func (r *Renderer) Configuration(fs types.FS, path string) error {
	data, err := fs.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", path).
			WithDetail("path", path)
	}

	if _, err := fmt.Fprintln(r.out, r.styles.Render("Title", path+":")); err != nil {
		return err
	}
	_, err = io.WriteString(r.out, r.highlighter.Highlight(string(data)))
	return err
}

// Summary prints where the configuration was written and the build steps
func (r *Renderer) Summary(path string, templateOnly bool) error {
	if _, err := fmt.Fprintf(r.out, "\n%s %s\n",
		r.styles.Render("Success", "New configuration file written to:"),
		r.styles.Render("Path", path)); err != nil {
		return err
	}
	_, err := io.WriteString(r.out, RenderMarkdown(BuildSteps(templateOnly), r.format, DefaultWidth))
	return err
}

// Error prints a fatal diagnostic
func (r *Renderer) Error(err error) {
	msg := err.Error()
	if details := errors.GetErrorDetails(err); details != nil {
		if path, ok := details["path"].(string); ok && path != "" && !strings.Contains(msg, path) {
			msg += " (" + path + ")"
		}
	}
	_, _ = fmt.Fprintln(r.out, r.styles.Render("Error", "Error:")+" "+msg)
}
