package ui

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/arthur-debert/buildsetup/pkg/errors"
	"github.com/arthur-debert/buildsetup/pkg/logging"
	"github.com/arthur-debert/buildsetup/pkg/types"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
)

// errInterrupted is returned by a dialogs implementation on Ctrl-C
var errInterrupted = errors.New(errors.ErrUserAbort, "interrupted")

// dialogs are the terminal primitives a Prompter is built on
type dialogs interface {
	Confirm(text string, def bool) (bool, error)
	Select(text string, options []string, def string) (string, error)
	Multiselect(text string, options []string, defaults []string) ([]string, error)
	Box(title, text string)
}

// Prompter implements types.Prompter on an interactive terminal
type Prompter struct {
	dialogs dialogs
	styles  *Styles
	out     io.Writer
	logger  zerolog.Logger
}

// NewPrompter creates a Prompter drawing on stdout. It fails when stdin is
// not a terminal since every dialog reads single key presses.
func NewPrompter(styles *Styles) (*Prompter, error) {
	if !IsTerminal(os.Stdin) {
		return nil, errors.New(errors.ErrInvalidInput, "builder-setup needs an interactive terminal")
	}
	return newPrompter(ptermDialogs{}, styles, os.Stdout), nil
}

func newPrompter(d dialogs, styles *Styles, out io.Writer) *Prompter {
	if styles == nil {
		styles = DefaultStyles()
	}
	return &Prompter{dialogs: d, styles: styles, out: out, logger: logging.GetLogger("ui")}
}

// YesNo implements types.Prompter
func (p *Prompter) YesNo(req types.YesNoRequest) (bool, error) {
	p.heading(req.Title)
	answer, err := p.dialogs.Confirm(p.question(req.Text), req.Default)
	if err != nil {
		return false, p.abort(req.Title, err)
	}
	p.logger.Debug().Str("title", req.Title).Bool("answer", answer).Msg("yes/no answered")
	return answer, nil
}

// MsgBox implements types.Prompter. Declining to continue aborts.
func (p *Prompter) MsgBox(title, text string) error {
	p.dialogs.Box(title, text)
	ok, err := p.dialogs.Confirm("Continue", true)
	if err != nil {
		return p.abort(title, err)
	}
	if !ok {
		return errors.New(errors.ErrUserAbort, "cancelled").WithDetail("dialog", title)
	}
	return nil
}

// InfoBox implements types.Prompter
func (p *Prompter) InfoBox(title, text string) error {
	p.dialogs.Box(title, text)
	return nil
}

// Checklist implements types.Prompter
func (p *Prompter) Checklist(req types.ListRequest) ([]string, error) {
	p.heading(req.Title)
	p.help(req)

	labels, index := choiceLabels(req.Choices)
	var defaults []string
	for i, c := range req.Choices {
		if c.Selected {
			defaults = append(defaults, labels[i])
		}
	}

	picked, err := p.dialogs.Multiselect(p.question(req.Text), labels, defaults)
	if err != nil {
		return nil, p.abort(req.Title, err)
	}

	tags := make([]string, 0, len(picked))
	for _, label := range picked {
		if tag, ok := index[label]; ok {
			tags = append(tags, tag)
		}
	}
	p.logger.Debug().Str("title", req.Title).Strs("tags", tags).Msg("checklist answered")
	return tags, nil
}

// Radiolist implements types.Prompter
func (p *Prompter) Radiolist(req types.ListRequest) (string, error) {
	p.heading(req.Title)
	p.help(req)

	labels, index := choiceLabels(req.Choices)
	def := ""
	for i, c := range req.Choices {
		if c.Selected {
			def = labels[i]
			break
		}
	}

	picked, err := p.dialogs.Select(p.question(req.Text), labels, def)
	if err != nil {
		return "", p.abort(req.Title, err)
	}
	tag := index[picked]
	p.logger.Debug().Str("title", req.Title).Str("tag", tag).Msg("radiolist answered")
	return tag, nil
}

func (p *Prompter) heading(title string) {
	if title == "" {
		return
	}
	_, _ = fmt.Fprintln(p.out, p.styles.Render("Heading", title))
}

func (p *Prompter) question(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) > 1 {
		_, _ = fmt.Fprintln(p.out, strings.Join(lines[:len(lines)-1], "\n"))
	}
	return lines[len(lines)-1]
}

func (p *Prompter) help(req types.ListRequest) {
	var lines []string
	for _, c := range req.Choices {
		if c.Help != "" {
			lines = append(lines, fmt.Sprintf("  %s  %s", p.styles.Render("Choice", c.Tag), p.styles.Render("Help", c.Help)))
		}
	}
	tags := make([]string, 0, len(req.Help))
	for tag := range req.Help {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	for _, tag := range tags {
		lines = append(lines, fmt.Sprintf("  %s  %s", p.styles.Render("Choice", tag), p.styles.Render("Help", req.Help[tag])))
	}
	if len(lines) > 0 {
		_, _ = fmt.Fprintln(p.out, strings.Join(lines, "\n"))
	}
}

func (p *Prompter) abort(title string, err error) error {
	if errors.IsAbort(err) {
		return errors.New(errors.ErrUserAbort, "cancelled").WithDetail("dialog", title)
	}
	return errors.Wrapf(err, errors.ErrInternal, "dialog %q failed", title)
}

// choiceLabels renders "tag  item" labels and maps them back to tags
func choiceLabels(choices []types.Choice) ([]string, map[string]string) {
	width := 0
	for _, c := range choices {
		if len(c.Tag) > width {
			width = len(c.Tag)
		}
	}

	labels := make([]string, len(choices))
	index := make(map[string]string, len(choices))
	for i, c := range choices {
		label := c.Tag
		if c.Item != "" {
			label = fmt.Sprintf("%-*s  %s", width, c.Tag, c.Item)
		}
		labels[i] = label
		index[label] = c.Tag
	}
	return labels, index
}

// ptermDialogs draws dialogs with pterm's interactive printers
type ptermDialogs struct{}

func (ptermDialogs) Confirm(text string, def bool) (bool, error) {
	interrupted := false
	answer, err := pterm.DefaultInteractiveConfirm.
		WithDefaultValue(def).
		WithOnInterruptFunc(func() { interrupted = true }).
		Show(text)
	if err != nil {
		return false, err
	}
	if interrupted {
		return false, errInterrupted
	}
	return answer, nil
}

func (ptermDialogs) Select(text string, options []string, def string) (string, error) {
	interrupted := false
	printer := pterm.DefaultInteractiveSelect.
		WithOptions(options).
		WithMaxHeight(len(options)).
		WithOnInterruptFunc(func() { interrupted = true })
	if def != "" {
		printer = printer.WithDefaultOption(def)
	}
	answer, err := printer.Show(text)
	if err != nil {
		return "", err
	}
	if interrupted {
		return "", errInterrupted
	}
	return answer, nil
}

func (ptermDialogs) Multiselect(text string, options []string, defaults []string) ([]string, error) {
	interrupted := false
	answer, err := pterm.DefaultInteractiveMultiselect.
		WithOptions(options).
		WithDefaultOptions(defaults).
		WithMaxHeight(len(options)).
		WithFilter(false).
		WithOnInterruptFunc(func() { interrupted = true }).
		Show(text)
	if err != nil {
		return nil, err
	}
	if interrupted {
		return nil, errInterrupted
	}
	return answer, nil
}

func (ptermDialogs) Box(title, text string) {
	pterm.DefaultBox.WithTitle(title).Println(text)
}

var _ types.Prompter = (*Prompter)(nil)
