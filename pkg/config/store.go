package config

import (
	"context"

	"github.com/arthur-debert/buildsetup/pkg/buildtool"
	"github.com/arthur-debert/buildsetup/pkg/coerce"
	"github.com/arthur-debert/buildsetup/pkg/errors"
	"github.com/arthur-debert/buildsetup/pkg/logging"
	"github.com/arthur-debert/buildsetup/pkg/paths"
	"github.com/arthur-debert/buildsetup/pkg/types"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/rs/zerolog"
)

// Scalar build variables
const (
	VarAbout            = "about"
	VarRelease          = "release"
	VarSSHAccess        = "ssh_access"
	VarTemplateOnly     = "template_only"
	VarGitBaseURL       = "git_baseurl"
	VarGitPrefix        = "git_prefix"
	VarGitPrefixDefault = "git_prefix_default"
	VarRepoVersion      = "use_vanir_repo_version"
	VarRepoTesting      = "use_vanir_repo_testing"
	VarDistDom0         = "dist_dom0_selected"
	VarDistsAll         = "dists_vm_all"
	VarDistsSelected    = "dists_vm_selected"
	VarBuildersSelected = "builders_selected"
)

// Options configures a Store
type Options struct {
	FS    types.FS
	Paths *paths.Paths
	Tool  buildtool.Querier

	// DataFile is the primary data file, relative to the builder directory
	// unless absolute. Empty disables the primary layer.
	DataFile string
}

// Store owns the merged configuration state of one wizard run
type Store struct {
	fs    types.FS
	paths *paths.Paths
	tool  buildtool.Querier

	dataFile string

	vars  map[string]*coerce.Variable
	order []string

	sectionDefaults map[string]map[string]interface{}

	keys     []types.KeyRecord
	repos    []types.RepoRecord
	builders []types.BuilderPlugin
	releases *types.ReleaseCatalog

	aliases         map[string]string
	aliasesReversed map[string]string
	labels          map[string]string
	labelsReversed  map[string]string

	logger zerolog.Logger
}

// Load creates the target file from the template when it is missing, then
// merges every layer: template defaults, build tool, primary data file and
// override data file.
func Load(ctx context.Context, opts Options) (*Store, error) {
	s, err := newStore(opts)
	if err != nil {
		return nil, err
	}
	if err := s.bootstrap(); err != nil {
		return nil, err
	}
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func newStore(opts Options) (*Store, error) {
	if opts.FS == nil || opts.Paths == nil || opts.Tool == nil {
		return nil, errors.New(errors.ErrInvalidInput, "config store needs a filesystem, paths and a build tool")
	}

	s := &Store{
		fs:     opts.FS,
		paths:  opts.Paths,
		tool:   opts.Tool,
		vars:   make(map[string]*coerce.Variable),
		logger: logging.GetLogger("config"),
	}
	if opts.DataFile != "" {
		s.dataFile = opts.Paths.Resolve(opts.DataFile)
	}

	if err := s.registerVariables(); err != nil {
		return nil, err
	}

	defaults, err := toml.Parser().Unmarshal(sectionDefaults)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "invalid embedded section defaults")
	}
	s.sectionDefaults = make(map[string]map[string]interface{})
	for kind, raw := range defaults {
		if table, ok := raw.(map[string]interface{}); ok {
			s.sectionDefaults[kind] = table
		}
	}
	s.resetDerived()
	return s, nil
}

// registerVariables creates one Variable per entry of the embedded
// [makefile] defaults, in file order.
func (s *Store) registerVariables() error {
	parsed, err := toml.Parser().Unmarshal(variableDefaults)
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "invalid embedded variable defaults")
	}
	table, _ := parsed[types.SectionMakefile].(map[string]interface{})

	order := newTableOrder()
	if err := order.scan(variableDefaults); err != nil {
		return err
	}
	for _, name := range order.Keys(types.SectionMakefile) {
		s.vars[name] = coerce.NewVariable(name, table[name])
		s.order = append(s.order, name)
	}
	return nil
}

func (s *Store) resetDerived() {
	for _, v := range s.vars {
		v.Reset()
	}
	s.keys = nil
	s.repos = nil
	s.builders = nil
	s.releases = types.NewReleaseCatalog(nil, nil)
	s.aliases = map[string]string{}
	s.aliasesReversed = map[string]string{}
	s.labels = map[string]string{}
	s.labelsReversed = map[string]string{}
}

// Reload re-merges every layer from scratch. Loading the same inputs twice
// yields the same state.
func (s *Store) Reload(ctx context.Context) error {
	done := logging.LogOperationStart(s.logger, "reload")
	defer done()

	s.resetDerived()

	build, err := s.fetchBuildVars(ctx)
	if err != nil {
		return err
	}
	merged, order, err := s.merge(build)
	if err != nil {
		return err
	}
	if err := s.apply(merged, order, build); err != nil {
		return err
	}

	s.logger.Debug().
		Str("release", s.Release()).
		Int("builders", len(s.builders)).
		Int("keys", len(s.keys)).
		Int("repos", len(s.repos)).
		Msg("Configuration loaded")
	return nil
}

// RefreshBuildVars re-reads the build-tool layer after the target file has
// been rewritten and applies it over the current values.
func (s *Store) RefreshBuildVars(ctx context.Context) error {
	build, err := s.fetchBuildVars(ctx)
	if err != nil {
		return err
	}
	for name, value := range build.vars {
		s.vars[name].Set(value)
	}
	s.applyPairs(build)
	return nil
}

// Variables returns the scalar variable names in registration order
func (s *Store) Variables() []string {
	return append([]string(nil), s.order...)
}

// Get returns the current value of a scalar variable
func (s *Store) Get(name string) (interface{}, error) {
	v, err := s.variable(name)
	if err != nil {
		return nil, err
	}
	return v.Value(), nil
}

// Set coerces value against the default of name and stores it. Values that
// cannot be coerced leave the default in place.
func (s *Store) Set(name string, value interface{}) error {
	v, err := s.variable(name)
	if err != nil {
		return err
	}
	v.Set(value)
	s.logger.Trace().Str("var", name).Interface("value", v.Value()).Msg("Variable set")
	return nil
}

func (s *Store) variable(name string) (*coerce.Variable, error) {
	v, ok := s.vars[name]
	if !ok {
		return nil, errors.Newf(errors.ErrConfigKey, "unknown configuration variable %q", name).
			WithDetail("name", name)
	}
	return v, nil
}

func (s *Store) str(name string) string    { return s.vars[name].String() }
func (s *Store) list(name string) []string { return s.vars[name].Strings() }
func (s *Store) flag(name string) bool     { return s.vars[name].Bool() }

// Typed accessors for the variables the wizard works with
func (s *Store) About() string              { return s.str(VarAbout) }
func (s *Store) Release() string            { return s.str(VarRelease) }
func (s *Store) SSHAccess() bool            { return s.flag(VarSSHAccess) }
func (s *Store) TemplateOnly() bool         { return s.flag(VarTemplateOnly) }
func (s *Store) GitBaseURL() string         { return s.str(VarGitBaseURL) }
func (s *Store) GitPrefix() string          { return s.str(VarGitPrefix) }
func (s *Store) GitPrefixDefault() string   { return s.str(VarGitPrefixDefault) }
func (s *Store) RepoVersion() string        { return s.str(VarRepoVersion) }
func (s *Store) RepoTesting() string        { return s.str(VarRepoTesting) }
func (s *Store) DistsAll() []string         { return s.list(VarDistsAll) }
func (s *Store) DistsSelected() []string    { return s.list(VarDistsSelected) }
func (s *Store) BuildersSelected() []string { return s.list(VarBuildersSelected) }

// Keys returns the "gpg" sections in file order
func (s *Store) Keys() []types.KeyRecord { return append([]types.KeyRecord(nil), s.keys...) }

// Repos returns the "repo" sections in file order
func (s *Store) Repos() []types.RepoRecord { return append([]types.RepoRecord(nil), s.repos...) }

// Builders returns the "builder" sections in file order
func (s *Store) Builders() []types.BuilderPlugin {
	return append([]types.BuilderPlugin(nil), s.builders...)
}

// Builder looks up a builder plugin by id
func (s *Store) Builder(id string) (types.BuilderPlugin, bool) {
	for _, b := range s.builders {
		if b.ID == id {
			return b, true
		}
	}
	return types.BuilderPlugin{}, false
}

// Releases returns the release catalog
func (s *Store) Releases() *types.ReleaseCatalog { return s.releases }

// Aliases maps distribution names to their template alias
func (s *Store) Aliases() map[string]string { return copyMap(s.aliases) }

// AliasesReversed maps template aliases back to distribution names
func (s *Store) AliasesReversed() map[string]string { return copyMap(s.aliasesReversed) }

// Labels maps distribution names or aliases to display labels
func (s *Store) Labels() map[string]string { return copyMap(s.labels) }

// LabelsReversed maps display labels back to names
func (s *Store) LabelsReversed() map[string]string { return copyMap(s.labelsReversed) }

// Paths returns the path layout of the store
func (s *Store) Paths() *paths.Paths { return s.paths }

// DataFile returns the resolved primary data file, or "" when disabled
func (s *Store) DataFile() string { return s.dataFile }

// Snapshot returns every scalar variable with its current value
func (s *Store) Snapshot() map[string]interface{} {
	out := make(map[string]interface{}, len(s.vars))
	for name, v := range s.vars {
		out[name] = v.Value()
	}
	return out
}

func copyMap(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
