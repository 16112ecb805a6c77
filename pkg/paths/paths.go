// Package paths provides centralized path handling for the setup wizard.
// Every file the wizard touches lives relative to the builder directory;
// only the log file and the user settings file follow XDG.
package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/buildsetup/pkg/errors"
)

// Environment variable names
const (
	// EnvBuilderDir selects the builder directory when no --dir flag is given
	EnvBuilderDir = "BUILDER_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// AppDirName is the directory name used under XDG base directories
const AppDirName = "builder-setup"

// Layout names the files the wizard works with inside the builder directory
type Layout struct {
	// ConfigDir holds the packaged templates and override candidates
	ConfigDir string

	// Template is the packaged master template, inside ConfigDir
	Template string

	// BuilderConf is the target configuration file
	BuilderConf string

	// OverrideConf is the activated override link
	OverrideConf string

	// OverrideData is the optional override-data merge layer
	OverrideData string

	// Keyring is the GNUPGHOME used for key verification
	Keyring string

	// DevelopersKeys is the maintainer key bundle imported on every run
	DevelopersKeys string

	// BackupExtension is appended to the target file for its backup
	BackupExtension string
}

// DefaultLayout returns the stock file layout
func DefaultLayout() Layout {
	return Layout{
		ConfigDir:       "example-configs",
		Template:        "templates.conf",
		BuilderConf:     "builder.conf",
		OverrideConf:    "override.conf",
		OverrideData:    "override.data",
		Keyring:         filepath.Join("keyrings", "git"),
		DevelopersKeys:  "vanir-developers-keys.asc",
		BackupExtension: ".bak",
	}
}

// Paths resolves the layout against a builder directory
type Paths struct {
	builderDir string
	layout     Layout
}

// New creates a Paths instance for builderDir. When builderDir is empty the
// BUILDER_DIR environment variable is used, then the working directory.
func New(builderDir string, layout Layout) (*Paths, error) {
	if builderDir == "" {
		builderDir = os.Getenv(EnvBuilderDir)
	}
	if builderDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to get current directory")
		}
		builderDir = cwd
	}

	abs, err := filepath.Abs(expandHome(builderDir))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path for builder directory")
	}

	return &Paths{builderDir: abs, layout: layout}, nil
}

// Layout returns the file layout in use
func (p *Paths) Layout() Layout {
	return p.layout
}

// BuilderDir returns the builder directory
func (p *Paths) BuilderDir() string {
	return p.builderDir
}

// ConfigurationsDir returns the directory holding templates and overrides
func (p *Paths) ConfigurationsDir() string {
	return p.Resolve(p.layout.ConfigDir)
}

// TemplatePath returns the packaged master template
func (p *Paths) TemplatePath() string {
	return filepath.Join(p.ConfigurationsDir(), p.layout.Template)
}

// BuilderConfPath returns the target configuration file
func (p *Paths) BuilderConfPath() string {
	return p.Resolve(p.layout.BuilderConf)
}

// BackupPath returns the backup companion of the target configuration file
func (p *Paths) BackupPath() string {
	return p.BuilderConfPath() + p.layout.BackupExtension
}

// OverridePath returns the generic override link location
func (p *Paths) OverridePath() string {
	return p.Resolve(p.layout.OverrideConf)
}

// OverrideDataPath returns the override-data merge layer
func (p *Paths) OverrideDataPath() string {
	return p.Resolve(p.layout.OverrideData)
}

// GnupgHome returns the keyring directory
func (p *Paths) GnupgHome() string {
	return p.Resolve(p.layout.Keyring)
}

// DevelopersKeysPath returns the maintainer key bundle
func (p *Paths) DevelopersKeysPath() string {
	return p.Resolve(p.layout.DevelopersKeys)
}

// Resolve makes a path absolute relative to the builder directory
func (p *Paths) Resolve(name string) string {
	name = expandHome(name)
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(p.builderDir, name)
}

// UserConfigPath returns the optional user settings file
func UserConfigPath() string {
	xdg.Reload()
	return filepath.Join(xdg.ConfigHome, AppDirName, "config.toml")
}

// expandHome expands ~ to the home directory
func expandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.Getenv(EnvHome)
		if homeDir == "" {
			return path
		}
	}

	if len(path) == 1 {
		return homeDir
	}
	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:])
	}

	// ~something (not the user's home)
	return path
}
