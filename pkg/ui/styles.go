package ui

import (
	_ "embed"
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

//go:embed embedded/styles.yaml
var defaultStyles []byte

// ColorDef represents an adaptive color definition in YAML
type ColorDef struct {
	Light string `yaml:"light"`
	Dark  string `yaml:"dark"`
}

// StyleDef represents a style definition in YAML
type StyleDef struct {
	Bold         bool   `yaml:"bold,omitempty"`
	Italic       bool   `yaml:"italic,omitempty"`
	Underline    bool   `yaml:"underline,omitempty"`
	Foreground   string `yaml:"foreground,omitempty"`
	Background   string `yaml:"background,omitempty"`
	MarginLeft   int    `yaml:"marginLeft,omitempty"`
	MarginBottom int    `yaml:"marginBottom,omitempty"`
	MarginTop    int    `yaml:"marginTop,omitempty"`
	PaddingLeft  int    `yaml:"paddingLeft,omitempty"`
	PaddingRight int    `yaml:"paddingRight,omitempty"`
}

// StylesConfig represents the complete styles configuration
type StylesConfig struct {
	Colors map[string]ColorDef `yaml:"colors"`
	Styles map[string]StyleDef `yaml:"styles"`
}

// Styles maps semantic names to lipgloss styles
type Styles struct {
	registry map[string]lipgloss.Style
	plain    bool
}

var (
	defaultOnce sync.Once
	defaultReg  *Styles
)

// DefaultStyles returns the registry built from the embedded styles.yaml
func DefaultStyles() *Styles {
	defaultOnce.Do(func() {
		s, err := ParseStyles(defaultStyles)
		if err != nil {
			panic(fmt.Sprintf("failed to load styles: %v", err))
		}
		defaultReg = s
	})
	return defaultReg
}

// LoadStyles loads a style configuration from a YAML file
func LoadStyles(path string) (*Styles, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read styles file %s: %w", path, err)
	}
	return ParseStyles(data)
}

// ParseStyles builds a registry from YAML content
func ParseStyles(data []byte) (*Styles, error) {
	var config StylesConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse styles: %w", err)
	}

	colors := make(map[string]lipgloss.AdaptiveColor, len(config.Colors))
	for name, def := range config.Colors {
		colors[name] = lipgloss.AdaptiveColor{Light: def.Light, Dark: def.Dark}
	}

	registry := make(map[string]lipgloss.Style, len(config.Styles))
	for name, def := range config.Styles {
		registry[name] = buildStyle(def, colors)
	}
	return &Styles{registry: registry}, nil
}

// Plain returns a copy of the registry that renders text unstyled
func (s *Styles) Plain() *Styles {
	return &Styles{registry: s.registry, plain: true}
}

// ForFormat returns s for terminal output and its plain copy otherwise
func (s *Styles) ForFormat(f Format) *Styles {
	if f == FormatText {
		return s.Plain()
	}
	return s
}

// Has reports whether name is a registered style
func (s *Styles) Has(name string) bool {
	_, ok := s.registry[name]
	return ok
}

// Get safely retrieves a style from the registry
func (s *Styles) Get(name string) lipgloss.Style {
	if style, ok := s.registry[name]; ok && !s.plain {
		return style
	}
	return lipgloss.NewStyle()
}

// Render renders text with the named style
func (s *Styles) Render(name, text string) string {
	if s.plain {
		return text
	}
	return s.Get(name).Render(text)
}

func buildStyle(def StyleDef, colors map[string]lipgloss.AdaptiveColor) lipgloss.Style {
	style := lipgloss.NewStyle()

	if def.Bold {
		style = style.Bold(true)
	}
	if def.Italic {
		style = style.Italic(true)
	}
	if def.Underline {
		style = style.Underline(true)
	}

	if color, ok := colors[def.Foreground]; ok {
		style = style.Foreground(color)
	}
	if color, ok := colors[def.Background]; ok {
		style = style.Background(color)
	}

	if def.MarginLeft > 0 {
		style = style.MarginLeft(def.MarginLeft)
	}
	if def.MarginBottom > 0 {
		style = style.MarginBottom(def.MarginBottom)
	}
	if def.MarginTop > 0 {
		style = style.MarginTop(def.MarginTop)
	}
	if def.PaddingLeft > 0 || def.PaddingRight > 0 {
		style = style.Padding(0, def.PaddingRight, 0, def.PaddingLeft)
	}

	return style
}
