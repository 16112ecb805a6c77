// Package ui implements the interactive side of builder-setup: a pterm-backed
// Prompter for yes/no questions, message boxes, checklists and radiolists,
// and a lipgloss style registry loaded from YAML.
package ui
