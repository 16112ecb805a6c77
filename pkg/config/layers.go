package config

import (
	"context"
	"os"
	"regexp"
	"strings"

	"github.com/arthur-debert/buildsetup/pkg/buildtool"
	"github.com/arthur-debert/buildsetup/pkg/coerce"
	"github.com/arthur-debert/buildsetup/pkg/errors"
	"github.com/arthur-debert/buildsetup/pkg/patch"
	"github.com/arthur-debert/buildsetup/pkg/types"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/v2"
)

// buildQuery binds a build-tool variable to the scalar it feeds
type buildQuery struct {
	name  string
	query buildtool.Query
}

var buildQueries = []buildQuery{
	{VarRelease, buildtool.Query{Var: "RELEASE"}},
	{VarSSHAccess, buildtool.Query{Var: "SSH_ACCESS"}},
	{VarTemplateOnly, buildtool.Query{Var: "TEMPLATE_ONLY"}},
	{VarBuildersSelected, buildtool.Query{Var: "BUILDER_PLUGINS_ALL"}},
	{VarGitBaseURL, buildtool.Query{Var: "GIT_BASEURL"}},
	{VarGitPrefix, buildtool.Query{Var: "GIT_PREFIX"}},
	{VarRepoVersion, buildtool.Query{Var: "USE_VANIR_REPO_VERSION"}},
	{VarRepoTesting, buildtool.Query{Var: "USE_VANIR_REPO_TESTING"}},
	{VarDistsSelected, buildtool.Query{Var: "DISTS_VM"}},
	{VarDistDom0, buildtool.Query{Var: "DIST_DOM0"}},
	{VarDistsAll, buildtool.Query{Var: "DISTS_VM", AllValues: true}},
}

// buildLayer is one snapshot of the values reported by the build tool
type buildLayer struct {
	vars    map[string]interface{}
	aliases string
	labels  string
}

func (s *Store) fetchBuildVars(ctx context.Context) (*buildLayer, error) {
	layer := &buildLayer{vars: make(map[string]interface{})}

	for _, bq := range buildQueries {
		value, err := s.tool.GetVar(ctx, bq.query)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "cannot read %s from the build tool", bq.query.Var)
		}
		layer.vars[bq.name] = value
	}
	layer.vars[VarGitPrefixDefault] = layer.vars[VarGitPrefix]

	var err error
	if layer.aliases, err = s.tool.GetVar(ctx, buildtool.Query{Var: "TEMPLATE_ALIAS"}); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "cannot read TEMPLATE_ALIAS from the build tool")
	}
	if layer.labels, err = s.tool.GetVar(ctx, buildtool.Query{Var: "TEMPLATE_LABEL"}); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "cannot read TEMPLATE_LABEL from the build tool")
	}

	about, err := s.tool.Output(ctx, "about", nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "cannot read the build tool description")
	}
	layer.vars[VarAbout] = strings.TrimSpace(about)

	s.logger.Debug().Int("vars", len(layer.vars)).Msg("Build tool variables fetched")
	return layer, nil
}

func (s *Store) applyPairs(layer *buildLayer) {
	s.aliases, s.aliasesReversed = buildtool.Pairs(layer.aliases)
	s.labels, s.labelsReversed = buildtool.Pairs(layer.labels)
}

// merge layers template defaults, the build tool, the primary data file and
// the override data file. Each layer only overrides the keys it sets.
func (s *Store) merge(layer *buildLayer) (*koanf.Koanf, *tableOrder, error) {
	k := koanf.New(".")
	order := newTableOrder()

	// 1. Template defaults
	if err := k.Load(&rawBytesProvider{bytes: variableDefaults}, toml.Parser()); err != nil {
		return nil, nil, errors.Wrap(err, errors.ErrInternal, "failed to load variable defaults")
	}

	// 2. Build tool
	flat := make(map[string]interface{}, len(layer.vars))
	for name, value := range layer.vars {
		flat[types.SectionMakefile+"."+name] = value
	}
	if err := k.Load(confmap.Provider(flat, "."), nil); err != nil {
		return nil, nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to merge build tool variables")
	}

	// 3. Primary data file, 4. override data file
	for _, path := range []string{s.dataFile, s.paths.OverrideDataPath()} {
		if path == "" {
			continue
		}
		data, err := s.fs.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				s.logger.Debug().Str("path", path).Msg("Data file not present, skipping")
				continue
			}
			return nil, nil, errors.Wrapf(err, errors.ErrConfigLoad, "cannot read %s", path).
				WithDetail("path", path)
		}
		if err := order.scan(data); err != nil {
			return nil, nil, errors.Wrapf(err, errors.ErrConfigLoad, "cannot parse %s", path).
				WithDetail("path", path)
		}
		if err := k.Load(&rawBytesProvider{bytes: data}, toml.Parser()); err != nil {
			return nil, nil, errors.Wrapf(err, errors.ErrConfigLoad, "cannot load %s", path).
				WithDetail("path", path)
		}
		s.logger.Debug().Str("path", path).Msg("Data file merged")
	}

	return k, order, nil
}

func (s *Store) apply(k *koanf.Koanf, order *tableOrder, layer *buildLayer) error {
	for _, name := range s.order {
		key := types.SectionMakefile + "." + name
		if k.Exists(key) {
			s.vars[name].Set(k.Get(key))
		}
	}
	s.applyPairs(layer)

	raw := k.Raw()
	for _, name := range order.Tables() {
		if name == types.SectionMakefile || strings.Contains(name, ".") {
			continue
		}
		section, ok := raw[name].(map[string]interface{})
		if !ok || len(section) == 0 {
			continue
		}
		if err := s.addSection(name, section, order.Keys(name)); err != nil {
			return err
		}
	}
	return nil
}

// addSection turns one generic section into its typed record. The "type"
// option selects the record kind, falling back to the section name.
func (s *Store) addSection(name string, section map[string]interface{}, keys []string) error {
	kind := coerce.String(section["type"])
	if kind == "" {
		kind = name
	}

	switch kind {
	case types.SectionGPG:
		var rec types.KeyRecord
		if err := s.decodeSection(name, kind, section, &rec); err != nil {
			return err
		}
		rec.ID = name
		s.keys = append(s.keys, rec)
	case types.SectionRepo:
		var rec types.RepoRecord
		if err := s.decodeSection(name, kind, section, &rec); err != nil {
			return err
		}
		s.repos = append(s.repos, rec)
	case types.SectionBuilder:
		var rec types.BuilderPlugin
		if err := s.decodeSection(name, kind, section, &rec); err != nil {
			return err
		}
		s.builders = append(s.builders, rec)
	case types.SectionReleases:
		values := make(map[string]string, len(section))
		for key, value := range section {
			values[key] = coerce.String(value)
		}
		s.releases = types.NewReleaseCatalog(keys, values)
	default:
		s.logger.Debug().Str("section", name).Str("type", kind).Msg("Ignoring section of unknown type")
	}
	return nil
}

// decodeSection overlays section on a copy of the typed defaults for kind,
// coerces each known field and decodes the result into out.
func (s *Store) decodeSection(name, kind string, section map[string]interface{}, out interface{}) error {
	defaults := s.sectionDefaults[kind]
	values := make(map[string]interface{}, len(defaults)+len(section))
	for key, def := range defaults {
		values[key] = deepCopy(def)
	}
	for key, value := range section {
		values[key] = value
	}
	for key, def := range defaults {
		values[key] = coerce.To(def, values[key])
	}
	if coerce.String(values["id"]) == "" {
		values["id"] = name
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to create section decoder")
	}
	if err := decoder.Decode(values); err != nil {
		return errors.Wrapf(err, errors.ErrConfigLoad, "invalid %s section %q", kind, name).
			WithDetail("section", name)
	}
	return nil
}

func deepCopy(v interface{}) interface{} {
	switch t := v.(type) {
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, item := range t {
			out[i] = deepCopy(item)
		}
		return out
	case []string:
		return append([]string(nil), t...)
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, item := range t {
			out[k] = deepCopy(item)
		}
		return out
	}
	return v
}

// bootstrap copies the packaged template to the target file when the target
// does not exist yet and points its about banner at the target.
func (s *Store) bootstrap() error {
	target := s.paths.BuilderConfPath()
	if _, err := s.fs.Stat(target); err == nil {
		return nil
	}

	template := s.paths.TemplatePath()
	info, err := s.fs.Stat(template)
	if err != nil {
		return errors.Wrapf(err, errors.ErrConfigLoad, "cannot read template %s", template).
			WithDetail("path", template)
	}
	data, err := s.fs.ReadFile(template)
	if err != nil {
		return errors.Wrapf(err, errors.ErrConfigLoad, "cannot read template %s", template).
			WithDetail("path", template)
	}
	if err := s.fs.WriteFile(target, data, info.Mode().Perm()); err != nil {
		return errors.Wrapf(err, errors.ErrFileCreate, "cannot create %s", target).
			WithDetail("path", target)
	}

	layout := s.paths.Layout()
	engine := patch.NewEngine(s.fs, target).WithBackupExtension(layout.BackupExtension)
	if err := engine.Substitute(
		regexp.QuoteMeta(`@echo "`+layout.Template+`"`),
		`@echo "`+layout.BuilderConf+`"`,
	); err != nil {
		return err
	}
	if _, err := engine.Apply(); err != nil {
		return err
	}

	s.logger.Info().Str("template", template).Str("target", target).Msg("Created configuration from template")
	return nil
}
