package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/arthur-debert/buildsetup/pkg/paths"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables overriding settings
const EnvPrefix = "BUILDER_SETUP_"

// Settings is the application configuration
type Settings struct {
	KeyServer string       `koanf:"key_server"`
	DataFile  string       `koanf:"data_file"`
	Files     FileSettings `koanf:"files"`
	Tools     ToolSettings `koanf:"tools"`
}

// FileSettings names the files inside the builder directory
type FileSettings struct {
	ConfigDir       string `koanf:"config_dir"`
	Template        string `koanf:"template"`
	BuilderConf     string `koanf:"builder_conf"`
	OverrideConf    string `koanf:"override_conf"`
	OverrideData    string `koanf:"override_data"`
	Keyring         string `koanf:"keyring"`
	DevelopersKeys  string `koanf:"developers_keys"`
	BackupExtension string `koanf:"backup_extension"`
}

// ToolSettings names the external binaries
type ToolSettings struct {
	Make         string `koanf:"make"`
	GPG          string `koanf:"gpg"`
	PackageQuery string `koanf:"package_query"`
}

// Layout converts the file settings into a paths.Layout
func (s *Settings) Layout() paths.Layout {
	return paths.Layout{
		ConfigDir:       s.Files.ConfigDir,
		Template:        s.Files.Template,
		BuilderConf:     s.Files.BuilderConf,
		OverrideConf:    s.Files.OverrideConf,
		OverrideData:    s.Files.OverrideData,
		Keyring:         s.Files.Keyring,
		DevelopersKeys:  s.Files.DevelopersKeys,
		BackupExtension: s.Files.BackupExtension,
	}
}

// LoadSettings loads embedded defaults, then the user config file when it
// exists, then BUILDER_SETUP_* environment variables.
func LoadSettings() (*Settings, error) {
	return loadSettings(paths.UserConfigPath())
}

func loadSettings(userConfigPath string) (*Settings, error) {
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultSettings}, toml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load default settings: %w", err)
	}

	// 2. User config
	if userConfigPath != "" {
		if _, err := os.Stat(userConfigPath); err == nil {
			if err := k.Load(file.Provider(userConfigPath), toml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load settings from %s: %w", userConfigPath, err)
			}
		}
	}

	// 3. Environment
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var settings Settings
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &settings,
			WeaklyTypedInput: true,
		},
	}
	if err := k.UnmarshalWithConf("", &settings, unmarshalConf); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
	}

	return &settings, nil
}
