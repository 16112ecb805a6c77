package wizard

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/arthur-debert/buildsetup/pkg/config"
	"github.com/arthur-debert/buildsetup/pkg/types"
)

// Tags of the prebuilt package repositories
const (
	RepoStable  = "current"
	RepoTesting = "current-testing"
)

func (w *Wizard) setRelease(context.Context) error {
	releases := w.store.Releases()
	def := w.store.Release()
	if def == "" {
		def = releases.TakeDefault()
	}

	var choices []types.Choice
	for _, entry := range releases.Entries {
		choices = append(choices, types.Choice{
			Tag:      entry.ID,
			Item:     entry.Description,
			Selected: entry.ID == def,
		})
	}
	if len(choices) == 0 {
		return nil
	}

	release, err := w.ask.Radiolist(types.ListRequest{
		Title:   "Choose Which vanir Release To Use To Build Packages",
		Choices: choices,
	})
	if err != nil {
		return err
	}
	return w.set(config.VarRelease, release)
}

func (w *Wizard) setRepo(context.Context) error {
	fullPrefix := w.store.GitBaseURL() + "/" + w.store.GitPrefix()

	var choices []types.Choice
	defaultSet := false
	for _, repo := range w.store.Repos() {
		toggle := repo.Prefix != "" && strings.HasSuffix(fullPrefix, repo.Prefix)
		defaultSet = defaultSet || toggle
		choices = append(choices, types.Choice{Tag: repo.Prefix, Item: repo.Description, Selected: toggle})
	}
	choices = append([]types.Choice{{
		Tag:      w.store.GitPrefixDefault(),
		Item:     "Stable - Default Repo",
		Selected: !defaultSet,
	}}, choices...)

	prefix, err := w.ask.Radiolist(types.ListRequest{
		Title:   "Choose Source Repos To Use To Build Packages",
		Choices: choices,
	})
	if err != nil {
		return err
	}
	return w.set(config.VarGitPrefix, prefix)
}

func (w *Wizard) setVanirRepos(context.Context) error {
	release := w.store.Release()
	testing := w.store.RepoTesting() == "1"
	if testing {
		if err := w.set(config.VarRepoVersion, release); err != nil {
			return err
		}
	}
	stable := w.store.RepoVersion() == release

	picked, err := w.ask.Checklist(types.ListRequest{
		Title: "Choose Pre-Built Packages Repositories",
		Choices: []types.Choice{
			{Tag: RepoStable, Item: "Stable repository", Selected: stable},
			{Tag: RepoTesting, Item: "Testing repository", Selected: testing},
		},
	})
	if err != nil {
		return err
	}

	version, testingFlag := "", "0"
	if contains(picked, RepoStable) {
		version = release
	}
	if contains(picked, RepoTesting) {
		testingFlag = "1"
	}
	if err := w.set(config.VarRepoVersion, version); err != nil {
		return err
	}
	return w.set(config.VarRepoTesting, testingFlag)
}

// baseURLRe splits a git base url into scheme or user part, host and an
// optional ":repo" suffix
var baseURLRe = regexp.MustCompile(`^(.*//|.*@)([^:]*)(:.*)?$`)

func (w *Wizard) setSSHAccess(context.Context) error {
	if !w.overrideExists() {
		return nil
	}

	ssh, err := w.ask.YesNo(types.YesNoRequest{
		Title: "Enable SSH Access",
		Text: "Do you have ssh access to the repos?\n\n" +
			"Select 'Yes' to configure urls to match git or 'No' for https",
		Default: w.store.SSHAccess(),
	})
	if err != nil {
		return err
	}

	baseURL, prefix := SSHURLs(w.store.GitBaseURL(), w.store.GitPrefix(), ssh)
	if err := w.set(config.VarGitBaseURL, baseURL); err != nil {
		return err
	}
	if err := w.set(config.VarGitPrefix, prefix); err != nil {
		return err
	}
	return w.set(config.VarSSHAccess, ssh)
}

// SSHURLs rewrites a base url and prefix for ssh or https access.
// With ssh the repository owner moves from the prefix into the url:
// "https://github.com" + "vanir/vanir-" becomes "git@github.com:vanir" +
// "vanir-". Without ssh the owner moves back. A base url that cannot be
// parsed is returned unchanged.
func SSHURLs(baseURL, prefix string, ssh bool) (string, string) {
	m := baseURLRe.FindStringSubmatch(baseURL)
	if m == nil {
		return baseURL, prefix
	}
	host := m[2]
	owner := strings.TrimPrefix(m[3], ":")

	if ssh {
		if before, after, ok := strings.Cut(prefix, "/"); ok {
			owner, prefix = before, after
		}
		return fmt.Sprintf("git@%s:%s", host, owner), prefix
	}

	if owner != "" && !strings.Contains(prefix, "/") {
		prefix = owner + "/" + prefix
	}
	return "https://" + host, prefix
}

func (w *Wizard) setTemplateOnly(context.Context) error {
	templateOnly, err := w.ask.YesNo(types.YesNoRequest{
		Title: "Build Template Only?",
		Text: "Would you like to build only the templates?\n\n" +
			"Select 'Yes' to only build templates or 'No' for complete build",
		Default: w.store.TemplateOnly(),
	})
	if err != nil {
		return err
	}
	return w.set(config.VarTemplateOnly, templateOnly)
}

func (w *Wizard) setDists(context.Context) error {
	choices := DistChoices(w.store.DistsAll(), w.store.DistsSelected(),
		w.store.Aliases(), w.store.AliasesReversed(), w.store.Labels())
	if len(choices) == 0 {
		return nil
	}

	picked, err := w.ask.Checklist(types.ListRequest{
		Title:   "Template Distribution Selection",
		Text:    "Left column contains DIST name\nRight column contains TEMPLATE_LABEL",
		Choices: choices,
	})
	if err != nil {
		return err
	}
	return w.set(config.VarDistsSelected, picked)
}

// DistChoices builds the distribution checklist. Each distribution is
// listed under its short alias when it has one and labeled with its
// template label.
func DistChoices(all, selected []string, aliases, reversed, labels map[string]string) []types.Choice {
	choices := make([]types.Choice, 0, len(all))
	for _, dist := range all {
		alias := aliases[dist]
		tag := dist
		if short := reversed[dist]; short != "" {
			tag = short
		}
		labelKey := dist
		if alias != "" {
			labelKey = alias
		}

		help := ""
		if dist != tag {
			help = "Alias value: " + dist
		}
		choices = append(choices, types.Choice{
			Tag:      tag,
			Item:     labels[labelKey],
			Selected: contains(selected, dist) || contains(selected, tag),
			Help:     help,
		})
	}
	return choices
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
