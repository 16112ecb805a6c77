package types

import "strings"

// Section types recognised in data files
const (
	SectionGPG      = "gpg"
	SectionRepo     = "repo"
	SectionBuilder  = "builder"
	SectionReleases = "releases"

	// SectionMakefile holds the scalar build variables
	SectionMakefile = "makefile"
)

// KeyRecord is a third-party signing key declared in a "gpg" section
type KeyRecord struct {
	ID          string `mapstructure:"id"`
	Type        string `mapstructure:"type"`
	Key         string `mapstructure:"key"`
	Owner       string `mapstructure:"owner"`
	Fingerprint string `mapstructure:"fingerprint"`
	Verify      string `mapstructure:"verify"`
	URL         string `mapstructure:"url"`
}

// RepoRecord is a source repository prefix declared in a "repo" section
type RepoRecord struct {
	ID          string `mapstructure:"id"`
	Type        string `mapstructure:"type"`
	Description string `mapstructure:"description"`
	Prefix      string `mapstructure:"prefix"`
}

// BuilderPlugin is a selectable unit of build functionality
type BuilderPlugin struct {
	ID          string `mapstructure:"id"`
	Type        string `mapstructure:"type"`
	Description string `mapstructure:"description"`

	// Optional lists distribution substrings this plugin optionally serves
	Optional []string `mapstructure:"optional"`

	// Require lists plugin ids that must be selected alongside this one
	Require []string `mapstructure:"require"`

	// RequireIn lists distribution substrings that make this plugin needed
	RequireIn []string `mapstructure:"require_in"`

	Development bool `mapstructure:"development"`

	// Key, Owner and Verify describe a third-party key the plugin needs
	Key    string `mapstructure:"key"`
	Owner  string `mapstructure:"owner"`
	Verify string `mapstructure:"verify"`
}

// NeedsKey reports whether the plugin declares a key requirement
func (b BuilderPlugin) NeedsKey() bool {
	return strings.TrimSpace(b.Key) != ""
}

// KeyRecord returns the key requirement of the plugin as a KeyRecord whose
// id is the short form "0x" + last eight characters of the key.
func (b BuilderPlugin) KeyRecord() KeyRecord {
	key := strings.TrimSpace(b.Key)
	short := key
	if len(short) > 8 {
		short = short[len(short)-8:]
	}
	return KeyRecord{
		ID:     "0x" + short,
		Type:   SectionGPG,
		Key:    key,
		Owner:  b.Owner,
		Verify: b.Verify,
	}
}

// ReleaseEntry is one selectable release
type ReleaseEntry struct {
	ID          string
	Description string
}

// ReleaseCatalog is the ordered release list plus the designated default
type ReleaseCatalog struct {
	Entries []ReleaseEntry

	defaultID string
	consumed  bool
}

// NewReleaseCatalog builds a catalog. The entry named "default" is not a
// release: its value names the default release.
func NewReleaseCatalog(ids []string, values map[string]string) *ReleaseCatalog {
	c := &ReleaseCatalog{}
	for _, id := range ids {
		if id == "default" {
			c.defaultID = values[id]
			continue
		}
		if id == "type" {
			continue
		}
		c.Entries = append(c.Entries, ReleaseEntry{ID: id, Description: values[id]})
	}
	return c
}

// TakeDefault returns the designated default release once; later calls return "".
func (c *ReleaseCatalog) TakeDefault() string {
	if c == nil || c.consumed {
		return ""
	}
	c.consumed = true
	return c.defaultID
}
