package wizard

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/arthur-debert/buildsetup/pkg/config"
	"github.com/arthur-debert/buildsetup/pkg/plugins"
	"github.com/arthur-debert/buildsetup/pkg/types"
)

// Build-tool target fetching the sources of the selected plugins
const GetSourcesTarget = "get-sources"

// sourcesEnv blanks the color variables of the build tool
var sourcesEnv = map[string]string{
	"bold": "", "normal": "", "black": "", "red": "",
	"green": "", "blue": "", "white": "",
}

func (w *Wizard) validator() *plugins.Validator {
	return plugins.NewValidator(w.store.Builders(), w.store.Aliases())
}

func (w *Wizard) activeDistributions() []string {
	return plugins.ActiveDistributions(w.store.DistsSelected(), w.store.TemplateOnly())
}

// setBuilders loops on the plugin checklist until the selection has no
// hard conflict and any soft conflict was accepted
func (w *Wizard) setBuilders(ctx context.Context) error {
	for {
		before := w.store.BuildersSelected()
		picked, err := w.ask.Checklist(types.ListRequest{
			Title: "Builder Plugins Selection",
			Text: "Select from the following list any builder plugins to be enabled.\n\n" +
				"Note that some plugins are required to build specific VM's as will\n" +
				"be indicated by the comment next to the plugin choice.",
			Choices: w.builderChoices(),
		})
		if err != nil {
			return err
		}
		if err := w.set(config.VarBuildersSelected, picked); err != nil {
			return err
		}

		if !sameSet(before, picked) {
			if err := w.selectionChanged(ctx, picked); err != nil {
				return err
			}
		}

		result := w.validator().Validate(w.store.BuildersSelected(), w.activeDistributions())
		switch {
		case result.HasHard():
			if err := w.ask.MsgBox("Builder Plugin Conflict", RequiresText(result.Requires)); err != nil {
				return err
			}
		case result.HasSoft():
			proceed, err := w.ask.YesNo(types.YesNoRequest{
				Title: "Builder Plugin Warning",
				Text:  MissingText(result.Missing) + "Continue without enabling them?",
			})
			if err != nil {
				return err
			}
			if proceed {
				w.logger.Warn().Strs("plugins", plugins.SortedIDs(result.Missing)).
					Msg("Continuing with plugins needed by selected distributions disabled")
				return nil
			}
		default:
			return nil
		}
	}
}

// selectionChanged verifies keys of the new selection, rewrites the target
// file and offers to fetch sources
func (w *Wizard) selectionChanged(ctx context.Context, selected []string) error {
	v := w.validator()
	for _, key := range v.KeyRequirements(selected) {
		owner := key.ID
		for _, b := range w.store.Builders() {
			if b.NeedsKey() && b.KeyRecord().ID == key.ID {
				owner = b.ID
				break
			}
		}
		message := fmt.Sprintf("The BUILDER_PLUGIN %s requires a third party key.", owner)
		if err := w.opts.Keys.VerifyAll(ctx, []types.KeyRecord{key}, message, false); err != nil {
			return err
		}
	}

	if err := w.store.WriteConfiguration(); err != nil {
		return err
	}
	if err := w.store.RefreshBuildVars(ctx); err != nil {
		return err
	}
	if err := w.getSources(ctx); err != nil {
		return err
	}
	return w.store.RefreshBuildVars(ctx)
}

func (w *Wizard) getSources(ctx context.Context) error {
	ok, err := w.ask.YesNo(types.YesNoRequest{
		Title: "Get sources",
		Text: "Either a BUILDER_PLUGIN has been added or vanir sources have not\n" +
			"yet been downloaded.\n\n" +
			"Would you like to get vanir source files now? If you choose no you\n" +
			"may need to run setup again after getting sources manually to be able\n" +
			"to select some VMs for building.\n\n" +
			"Select 'Yes' to download and merge sources or 'No' to skip",
		Default: true,
	})
	if err != nil || !ok {
		return err
	}

	if err := w.opts.Tool.Stream(ctx, GetSourcesTarget, sourcesEnv, w.opts.SourcesOutput); err != nil {
		// sources can be fetched by hand later
		w.logger.Warn().Err(err).Msg("get-sources failed")
	}
	return nil
}

// builderChoices lists the plugins with their dependency annotations.
// Development plugins are only listed in development mode.
func (w *Wizard) builderChoices() []types.Choice {
	selected := w.store.BuildersSelected()
	active := w.activeDistributions()
	v := w.validator()
	missing := v.Missing(selected, active)

	var choices []types.Choice
	for _, b := range w.store.Builders() {
		if b.Development && !w.opts.Development {
			continue
		}
		choices = append(choices, types.Choice{
			Tag:      b.ID,
			Item:     annotation(b, selected, v.Depends(b.RequireIn, active), missing[b.ID], v.Depends(b.Optional, active)),
			Selected: contains(selected, b.ID),
			Help:     b.Description,
		})
	}
	return choices
}

// annotation summarises why a plugin matters: its requirements first,
// then the distributions needing it, then those it optionally serves.
// Unsatisfied names are marked with "!".
func annotation(b types.BuilderPlugin, selected, neededBy, missingFor, optional []string) string {
	if len(b.Require) > 0 {
		return "Requires: " + mark(b.Require, func(id string) bool { return !contains(selected, id) })
	}
	if len(neededBy) > 0 {
		return "For: " + mark(neededBy, func(dist string) bool { return contains(missingFor, dist) })
	}
	if len(optional) > 0 {
		return "Optional for: " + strings.Join(optional, " ")
	}
	return ""
}

func mark(items []string, unsatisfied func(string) bool) string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item
		if unsatisfied(item) {
			out[i] += "!"
		}
	}
	return strings.Join(out, " ")
}

// RequiresText explains hard conflicts
func RequiresText(requires map[string][]string) string {
	var b strings.Builder
	for _, id := range plugins.SortedIDs(requires) {
		reqs := strings.Join(requires[id], " ")
		fmt.Fprintf(&b, "%s is selected to be installed but\n", id)
		fmt.Fprintf(&b, "%s is not enabled! Either enable %s or disable %s.\n\n", reqs, reqs, id)
	}
	return b.String()
}

// MissingText explains soft conflicts
func MissingText(missing map[string][]string) string {
	var b strings.Builder
	for _, id := range plugins.SortedIDs(missing) {
		fmt.Fprintf(&b, "%s are selected to be installed but\n", strings.Join(missing[id], " "))
		fmt.Fprintf(&b, "%s is not enabled! Either enable %s or exit to re-pick VMs.\n\n", id, id)
	}
	return b.String()
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	x := append([]string(nil), a...)
	y := append([]string(nil), b...)
	sort.Strings(x)
	sort.Strings(y)
	for i := range x {
		if x[i] != y[i] {
			return false
		}
	}
	return true
}
