package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettings_Defaults(t *testing.T) {
	s, err := loadSettings("")
	require.NoError(t, err)

	assert.Equal(t, "pgp.mit.edu", s.KeyServer)
	assert.Equal(t, ".setup.data", s.DataFile)
	assert.Equal(t, "templates.conf", s.Files.Template)
	assert.Equal(t, "builder.conf", s.Files.BuilderConf)
	assert.Equal(t, ".bak", s.Files.BackupExtension)
	assert.Equal(t, "make", s.Tools.Make)
	assert.Equal(t, "gpg", s.Tools.GPG)

	layout := s.Layout()
	assert.Equal(t, "example-configs", layout.ConfigDir)
	assert.Equal(t, "keyrings/git", layout.Keyring)
}

func TestLoadSettings_UserFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
key_server = "keys.openpgp.org"

[files]
builder_conf = "my-builder.conf"
`), 0644))

	s, err := loadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, "keys.openpgp.org", s.KeyServer)
	assert.Equal(t, "my-builder.conf", s.Files.BuilderConf)
	// untouched keys keep their defaults
	assert.Equal(t, "templates.conf", s.Files.Template)
}

func TestLoadSettings_MissingUserFile(t *testing.T) {
	s, err := loadSettings(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, "pgp.mit.edu", s.KeyServer)
}

func TestLoadSettings_InvalidUserFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("key_server = [unterminated"), 0644))

	_, err := loadSettings(path)
	assert.Error(t, err)
}

func TestLoadSettings_Environment(t *testing.T) {
	t.Setenv("BUILDER_SETUP_KEY_SERVER", "hkps://keyserver.ubuntu.com")
	t.Setenv("BUILDER_SETUP_TOOLS__GPG", "gpg2")

	s, err := loadSettings("")
	require.NoError(t, err)
	assert.Equal(t, "hkps://keyserver.ubuntu.com", s.KeyServer)
	assert.Equal(t, "gpg2", s.Tools.GPG)
}
