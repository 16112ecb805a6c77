package config

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/buildsetup/pkg/patch"
)

// Anchors delimiting the generated blocks of the target file
const (
	AnchorInfoStart    = `.*[[]=setup info start=[]]`
	AnchorInfoStop     = `.*[[]=setup info stop=[]]`
	AnchorDistsStart   = `.*[[]=setup dists start=[]]`
	AnchorDistsStop    = `.*[[]=setup dists stop=[]]`
	AnchorPluginsStart = `.*[[]=setup plugins start=[]]`
	AnchorPluginsStop  = `.*[[]=setup plugins stop=[]]`
)

const banner = "################################################################################"

// WriteConfiguration materialises the current selection into the target
// file. The previous content is kept next to it as the backup.
func (s *Store) WriteConfiguration() error {
	// Testing packages are only published for the selected release
	if s.RepoTesting() == "1" {
		s.vars[VarRepoVersion].Set(s.Release())
	}

	rules, err := s.configurationRules()
	if err != nil {
		return err
	}

	engine := patch.NewEngine(s.fs, s.paths.BuilderConfPath()).
		WithBackupExtension(s.paths.Layout().BackupExtension).
		Add(rules...)
	if _, err := engine.Apply(); err != nil {
		return err
	}
	return nil
}

func (s *Store) configurationRules() ([]patch.Rule, error) {
	release := s.Release()

	repoVersion := "# USE_VANIR_REPO_VERSION = $(RELEASE)"
	if s.RepoVersion() == release {
		repoVersion = "USE_VANIR_REPO_VERSION = $(RELEASE)"
	}

	includeOverride := "#INCLUDE_OVERRIDE_CONF ?= true"
	if _, err := s.fs.Stat(s.paths.OverridePath()); err == nil {
		includeOverride = "INCLUDE_OVERRIDE_CONF ?= true"
	}

	regions := []struct{ anchor, terminator, payload string }{
		{AnchorInfoStart, AnchorInfoStop, s.infoBlock()},
		{AnchorDistsStart, AnchorDistsStop, s.distsBlock()},
		{AnchorPluginsStart, AnchorPluginsStop, s.pluginsBlock()},
	}
	substitutions := []struct{ pattern, replacement string }{
		{`RELEASE[ ]*[?:]?=[ ]*[\d.]+`, "RELEASE := " + release},
		{`SSH_ACCESS[ ]*[?:]?=[ ]*[\d]`, fmt.Sprintf("SSH_ACCESS := %d", s.vars[VarSSHAccess].Int())},
		{`GIT_BASEURL[ ]*[?:]?=[ ]*.*`, "GIT_BASEURL := " + s.GitBaseURL()},
		{`GIT_PREFIX[ ]*[?:]?=[ ]*.*`, "GIT_PREFIX := " + s.GitPrefix()},
		{`TEMPLATE_ONLY[ ]*[?:]?=[ ]*.*`, fmt.Sprintf("TEMPLATE_ONLY ?= %d", s.vars[VarTemplateOnly].Int())},
		{`^.*USE_VANIR_REPO_TESTING[ ]*[?:]?=[ ]*[\d]`, "USE_VANIR_REPO_TESTING = " + s.RepoTesting()},
		{`^.*USE_VANIR_REPO_VERSION[ ]+[?]?[=].*$`, repoVersion},
		{`^.*INCLUDE_OVERRIDE_CONF[ ]+[?]?[=].*$`, includeOverride},
	}

	rules := make([]patch.Rule, 0, len(regions)+len(substitutions))
	for _, r := range regions {
		rule, err := patch.NewRegion(r.anchor, r.terminator, r.payload)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	for _, sub := range substitutions {
		rule, err := patch.NewSubstitute(sub.pattern, sub.replacement)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func (s *Store) infoBlock() string {
	lines := []string{
		banner,
		"#",
		"# vanir Release: " + s.Release(),
		"# Source Prefix: " + s.GitPrefix() + " (repo)",
		"#",
		"# Master Configuration File(s):",
		"# " + strings.Join(strings.Fields(s.About()), " "),
		"#",
		"# " + s.paths.Layout().BuilderConf + " copied from:",
		"# " + s.paths.TemplatePath(),
		"#",
		banner,
	}
	return strings.Join(lines, "\n")
}

func (s *Store) distsBlock() string {
	lines := []string{
		`ifneq "$(SETUP_MODE)" "1"`,
		"",
		"  # Enabled DISTS_VMs",
		"  DISTS_VM :=",
	}
	for _, dist := range s.DistsSelected() {
		lines = append(lines, "  DISTS_VM += "+dist)
	}
	lines = append(lines, "", "endif")
	return strings.Join(lines, "\n")
}

func (s *Store) pluginsBlock() string {
	lines := []string{
		"",
		"  # Enabled BUILDER_PLUGINS",
		"  BUILDER_PLUGINS :=",
	}
	for _, plugin := range s.BuildersSelected() {
		lines = append(lines, "  BUILDER_PLUGINS += "+plugin)
	}
	return strings.Join(lines, "\n") + "\n"
}
