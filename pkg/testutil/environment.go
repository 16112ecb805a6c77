package testutil

import (
	"path/filepath"
	"testing"

	"github.com/arthur-debert/buildsetup/pkg/filesystem"
	"github.com/arthur-debert/buildsetup/pkg/paths"
	"github.com/arthur-debert/buildsetup/pkg/types"
	"github.com/spf13/afero"
)

// EnvType defines the type of test environment
type EnvType int

const (
	EnvMemoryOnly EnvType = iota // Pure in-memory, no real filesystem
	EnvIsolated                  // Real filesystem in temp directory
)

// TestEnvironment is a builder directory with its collaborators
type TestEnvironment struct {
	BuilderDir string

	FS    types.FS
	Paths *paths.Paths
	Tool  *FakeBuildTool

	// Mem is the backing filesystem of an EnvMemoryOnly environment
	Mem afero.Fs

	Type EnvType

	t *testing.T
}

// NewTestEnvironment creates a builder directory containing the packaged
// template. The fake build tool reports the values of DefaultBuildVars.
func NewTestEnvironment(t *testing.T, envType EnvType) *TestEnvironment {
	t.Helper()

	env := &TestEnvironment{t: t, Type: envType, Tool: NewFakeBuildTool()}

	switch envType {
	case EnvMemoryOnly:
		env.BuilderDir = "/virtual/builder"
		env.Mem = afero.NewMemMapFs()
		env.FS = filesystem.NewAferoFS(env.Mem)
	case EnvIsolated:
		env.BuilderDir = filepath.Join(t.TempDir(), "builder")
		env.FS = filesystem.NewOS()
	}

	p, err := paths.New(env.BuilderDir, paths.DefaultLayout())
	if err != nil {
		t.Fatalf("Failed to create paths: %v", err)
	}
	env.Paths = p

	if err := env.FS.MkdirAll(p.ConfigurationsDir(), 0755); err != nil {
		t.Fatalf("Failed to create configurations dir: %v", err)
	}
	env.WriteFile(p.TemplatePath(), SampleTemplate)
	return env
}

// Path returns name resolved inside the builder directory
func (env *TestEnvironment) Path(name string) string {
	return env.Paths.Resolve(name)
}

// WriteFile writes content at path, creating parent directories
func (env *TestEnvironment) WriteFile(path, content string) {
	env.t.Helper()
	if err := env.FS.MkdirAll(filepath.Dir(path), 0755); err != nil {
		env.t.Fatalf("Failed to create directory for %s: %v", path, err)
	}
	if err := env.FS.WriteFile(path, []byte(content), 0644); err != nil {
		env.t.Fatalf("Failed to write %s: %v", path, err)
	}
}

// ReadFile returns the content at path
func (env *TestEnvironment) ReadFile(path string) string {
	env.t.Helper()
	data, err := env.FS.ReadFile(path)
	if err != nil {
		env.t.Fatalf("Failed to read %s: %v", path, err)
	}
	return string(data)
}

// Exists reports whether path exists, following links
func (env *TestEnvironment) Exists(path string) bool {
	_, err := env.FS.Stat(path)
	return err == nil
}
