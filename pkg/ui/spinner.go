package ui

import (
	"os"

	"github.com/pterm/pterm"
)

// Spin runs fn under a spinner showing text. Without a terminal on stderr
// fn simply runs.
func Spin(text string, fn func() error) error {
	if !IsTerminal(os.Stderr) {
		return fn()
	}

	spinner, err := pterm.DefaultSpinner.WithRemoveWhenDone(false).Start(text)
	if err != nil {
		return fn()
	}

	if err := fn(); err != nil {
		spinner.Fail(text)
		return err
	}
	spinner.Success(text)
	return nil
}
