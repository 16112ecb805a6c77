package ui

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultStyles(t *testing.T) {
	s := DefaultStyles()

	for _, name := range []string{
		"Title", "Heading", "Success", "Error", "Warning", "Info", "Muted",
		"Path", "Choice", "Help", "Annotation",
		"Comment", "Variable", "Assignment", "Target", "Value", "Quoted",
		"Paren0", "Paren1", "Paren2", "Paren3",
	} {
		t.Run(name, func(t *testing.T) {
			assert.True(t, s.Has(name))
		})
	}

	assert.Same(t, s, DefaultStyles())
}

func TestStyles_GetUnknown(t *testing.T) {
	s := DefaultStyles()
	assert.False(t, s.Has("NoSuchStyle"))
	assert.Equal(t, "text", s.Render("NoSuchStyle", "text"))
}

func TestStyles_Attributes(t *testing.T) {
	s, err := ParseStyles([]byte(`
colors:
  red: { light: "#FF0000", dark: "#EE0000" }
styles:
  Alert:
    bold: true
    italic: true
    foreground: red
    paddingLeft: 2
  Unknown:
    foreground: nonexistent
`))
	require.NoError(t, err)

	alert := s.Get("Alert")
	assert.True(t, alert.GetBold())
	assert.True(t, alert.GetItalic())
	assert.Equal(t, 2, alert.GetPaddingLeft())

	// unknown color names are ignored
	assert.False(t, s.Get("Unknown").GetBold())
}

func TestStyles_Plain(t *testing.T) {
	s := DefaultStyles()
	plain := s.Plain()

	assert.Equal(t, "builder.conf", plain.Render("Error", "builder.conf"))
	assert.False(t, plain.Get("Error").GetBold())
	assert.True(t, plain.Has("Error"))

	assert.Same(t, s, s.ForFormat(FormatTerminal))
	assert.Equal(t, "x", s.ForFormat(FormatText).Render("Title", "x"))
}

func TestParseStyles_Invalid(t *testing.T) {
	_, err := ParseStyles([]byte("colors: [unterminated"))
	assert.Error(t, err)
}

func TestLoadStyles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "styles.yaml")
	require.NoError(t, os.WriteFile(path, []byte("styles:\n  Loud:\n    bold: true\n"), 0644))

	s, err := LoadStyles(path)
	require.NoError(t, err)
	assert.True(t, s.Get("Loud").GetBold())

	_, err = LoadStyles(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
