package config

import (
	_ "embed"
	"errors"
)

//go:embed embedded/settings.toml
var defaultSettings []byte

//go:embed embedded/variables.toml
var variableDefaults []byte

//go:embed embedded/sections.toml
var sectionDefaults []byte

// rawBytesProvider implements koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("not implemented")
}
