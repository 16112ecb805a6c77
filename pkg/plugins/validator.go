// Package plugins checks a builder plugin selection for consistency.
//
// Two kinds of conflict exist. A hard conflict is a selected plugin whose
// required plugin is not selected. A soft conflict is an unselected plugin
// that an active distribution needs.
package plugins

import (
	"sort"
	"strings"

	"github.com/arthur-debert/buildsetup/pkg/types"
)

// Dom0 is the distribution name of the management domain. It is active
// unless only templates are built.
const Dom0 = "dom0"

// Validator evaluates selections against a plugin catalog
type Validator struct {
	builders []types.BuilderPlugin
	aliases  map[string]string
}

// NewValidator creates a Validator. aliases maps distribution names to
// their template alias.
func NewValidator(builders []types.BuilderPlugin, aliases map[string]string) *Validator {
	if aliases == nil {
		aliases = map[string]string{}
	}
	return &Validator{builders: builders, aliases: aliases}
}

// ActiveDistributions returns the selected VM distributions plus dom0 when
// a complete system is built.
func ActiveDistributions(selected []string, templateOnly bool) []string {
	active := append([]string(nil), selected...)
	if !templateOnly {
		active = append(active, Dom0)
	}
	return active
}

// Depends returns the active distributions matched by any of the
// distribution substrings in patterns. A distribution matches when a
// pattern is a substring of its alias, or of its name when it has none.
func (v *Validator) Depends(patterns, active []string) []string {
	var out []string
	for _, pattern := range patterns {
		for _, dist := range active {
			if v.matches(pattern, dist) && !contains(out, dist) {
				out = append(out, dist)
			}
		}
	}
	return out
}

func (v *Validator) matches(pattern, dist string) bool {
	name := dist
	if alias, ok := v.aliases[dist]; ok && alias != "" {
		name = alias
	}
	return strings.Contains(name, pattern)
}

// Missing returns, for every unselected plugin needed by an active
// distribution, the distributions that need it.
func (v *Validator) Missing(selected, active []string) map[string][]string {
	missing := map[string][]string{}
	for _, b := range v.builders {
		if contains(selected, b.ID) {
			continue
		}
		for _, dist := range active {
			for _, pattern := range b.RequireIn {
				if v.matches(pattern, dist) && !contains(missing[b.ID], dist) {
					missing[b.ID] = append(missing[b.ID], dist)
				}
			}
		}
	}
	return missing
}

// Requires returns, for every selected plugin, the required plugin ids
// that are not selected. Ids naming no known plugin are reported too.
func (v *Validator) Requires(selected []string) map[string][]string {
	requires := map[string][]string{}
	for _, id := range selected {
		b, ok := v.builder(id)
		if !ok {
			continue
		}
		for _, req := range b.Require {
			if !contains(selected, req) {
				requires[id] = append(requires[id], req)
			}
		}
	}
	return requires
}

// KeyRequirements returns the key records of the selected plugins that
// declare a third-party key.
func (v *Validator) KeyRequirements(selected []string) []types.KeyRecord {
	var keys []types.KeyRecord
	for _, id := range selected {
		if b, ok := v.builder(id); ok && b.NeedsKey() {
			keys = append(keys, b.KeyRecord())
		}
	}
	return keys
}

// Result is the outcome of one validation
type Result struct {
	Requires map[string][]string
	Missing  map[string][]string
}

// Validate runs both checks
func (v *Validator) Validate(selected, active []string) Result {
	return Result{Requires: v.Requires(selected), Missing: v.Missing(selected, active)}
}

// HasHard reports unmet requirements of selected plugins
func (r Result) HasHard() bool { return len(r.Requires) > 0 }

// HasSoft reports unselected plugins needed by active distributions
func (r Result) HasSoft() bool { return len(r.Missing) > 0 }

// OK reports a selection without any conflict
func (r Result) OK() bool { return !r.HasHard() && !r.HasSoft() }

func (v *Validator) builder(id string) (types.BuilderPlugin, bool) {
	for _, b := range v.builders {
		if b.ID == id {
			return b, true
		}
	}
	return types.BuilderPlugin{}, false
}

// SortedIDs returns the keys of a conflict map in lexical order
func SortedIDs(m map[string][]string) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
