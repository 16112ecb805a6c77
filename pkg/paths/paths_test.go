package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("explicit_dir", func(t *testing.T) {
		dir := t.TempDir()
		p, err := New(dir, DefaultLayout())
		require.NoError(t, err)
		assert.Equal(t, dir, p.BuilderDir())
	})

	t.Run("env_dir", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv(EnvBuilderDir, dir)
		p, err := New("", DefaultLayout())
		require.NoError(t, err)
		assert.Equal(t, dir, p.BuilderDir())
	})

	t.Run("cwd_fallback", func(t *testing.T) {
		t.Setenv(EnvBuilderDir, "")
		cwd, err := os.Getwd()
		require.NoError(t, err)
		p, err := New("", DefaultLayout())
		require.NoError(t, err)
		assert.Equal(t, cwd, p.BuilderDir())
	})
}

func TestLayoutPaths(t *testing.T) {
	dir := t.TempDir()
	p, err := New(dir, DefaultLayout())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "example-configs"), p.ConfigurationsDir())
	assert.Equal(t, filepath.Join(dir, "example-configs", "templates.conf"), p.TemplatePath())
	assert.Equal(t, filepath.Join(dir, "builder.conf"), p.BuilderConfPath())
	assert.Equal(t, filepath.Join(dir, "builder.conf.bak"), p.BackupPath())
	assert.Equal(t, filepath.Join(dir, "override.conf"), p.OverridePath())
	assert.Equal(t, filepath.Join(dir, "override.data"), p.OverrideDataPath())
	assert.Equal(t, filepath.Join(dir, "keyrings", "git"), p.GnupgHome())
	assert.Equal(t, filepath.Join(dir, "vanir-developers-keys.asc"), p.DevelopersKeysPath())
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	p, err := New(dir, DefaultLayout())
	require.NoError(t, err)

	assert.Equal(t, "/etc/setup.data", p.Resolve("/etc/setup.data"))
	assert.Equal(t, filepath.Join(dir, ".setup.data"), p.Resolve(".setup.data"))

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "setup.data"), p.Resolve("~/setup.data"))
}

func TestUserConfigPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	assert.Equal(t, filepath.Join(dir, AppDirName, "config.toml"), UserConfigPath())
}
