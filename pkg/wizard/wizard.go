// Package wizard runs the interactive configuration of a builder
// directory. Each step reads the current value from the config store,
// asks the prompter and writes the answer back; the final steps patch
// builder.conf and persist the selections.
package wizard

import (
	"context"
	"io"

	"github.com/arthur-debert/buildsetup/pkg/buildtool"
	"github.com/arthur-debert/buildsetup/pkg/config"
	"github.com/arthur-debert/buildsetup/pkg/errors"
	"github.com/arthur-debert/buildsetup/pkg/logging"
	"github.com/arthur-debert/buildsetup/pkg/types"
	"github.com/rs/zerolog"
)

// KeyVerifier makes sure signing keys are present and trusted
type KeyVerifier interface {
	VerifyAll(ctx context.Context, keys []types.KeyRecord, message string, force bool) error
}

// OverrideActivator offers and links a branch specific override file
type OverrideActivator interface {
	Activate(release, branch string) (bool, error)
}

// Display shows the written configuration
type Display interface {
	Configuration(fs types.FS, path string) error
	Summary(path string, templateOnly bool) error
}

// Options configures a Wizard
type Options struct {
	Store     *config.Store
	FS        types.FS
	Tool      buildtool.Querier
	Prompter  types.Prompter
	Keys      KeyVerifier
	Overrides OverrideActivator
	Display   Display

	// Branch is the checked out branch of the builder directory
	Branch string

	// Development shows plugins still in development
	Development bool

	// ForceKeys re-fetches every key even when present
	ForceKeys bool

	// SourcesOutput receives the output of get-sources runs
	SourcesOutput io.Writer
}

// Wizard composes the configuration steps
type Wizard struct {
	opts   Options
	store  *config.Store
	ask    types.Prompter
	logger zerolog.Logger
}

// step is one stage of a wizard run
type step struct {
	name string
	run  func(ctx context.Context) error
}

// New creates a Wizard
func New(opts Options) (*Wizard, error) {
	if opts.Store == nil || opts.FS == nil || opts.Tool == nil || opts.Prompter == nil ||
		opts.Keys == nil || opts.Overrides == nil || opts.Display == nil {
		return nil, errors.New(errors.ErrInvalidInput, "wizard is missing a collaborator")
	}
	if opts.SourcesOutput == nil {
		opts.SourcesOutput = io.Discard
	}
	return &Wizard{
		opts:   opts,
		store:  opts.Store,
		ask:    opts.Prompter,
		logger: logging.GetLogger("wizard"),
	}, nil
}

func (w *Wizard) steps() []step {
	return []step{
		{"override", w.activateOverride},
		{"keys", w.verifyKeys},
		{"release", w.setRelease},
		{"repo", w.setRepo},
		{"vanir-repos", w.setVanirRepos},
		{"ssh-access", w.setSSHAccess},
		{"template-only", w.setTemplateOnly},
		{"dists", w.setDists},
		{"builders", w.setBuilders},
		{"write", w.write},
		{"display", w.display},
		{"save", w.save},
	}
}

// Run executes every step in order and stops at the first error
func (w *Wizard) Run(ctx context.Context) error {
	done := logging.LogOperationStart(w.logger, "wizard")
	defer done()

	for _, s := range w.steps() {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, errors.ErrUserAbort, "wizard cancelled")
		}
		w.logger.Debug().Str("step", s.name).Msg("Running step")
		if err := s.run(ctx); err != nil {
			w.logger.Debug().Str("step", s.name).Err(err).Msg("Step failed")
			return err
		}
	}
	return nil
}

func (w *Wizard) activateOverride(ctx context.Context) error {
	activated, err := w.opts.Overrides.Activate(w.store.Release(), w.opts.Branch)
	if err != nil || !activated {
		return err
	}
	// the override changes what the build tool reports
	return w.store.Reload(ctx)
}

func (w *Wizard) verifyKeys(ctx context.Context) error {
	return w.opts.Keys.VerifyAll(ctx, w.store.Keys(), "", w.opts.ForceKeys)
}

func (w *Wizard) write(context.Context) error {
	return w.store.WriteConfiguration()
}

func (w *Wizard) display(context.Context) error {
	path := w.store.Paths().BuilderConfPath()
	if err := w.opts.Display.Configuration(w.opts.FS, path); err != nil {
		return err
	}
	return w.opts.Display.Summary(path, w.store.TemplateOnly())
}

func (w *Wizard) save(context.Context) error {
	return w.store.SaveState()
}

func (w *Wizard) set(name string, value interface{}) error {
	if err := w.store.Set(name, value); err != nil {
		return err
	}
	w.logger.Debug().Str("var", name).Interface("value", value).Msg("Variable set")
	return nil
}

func (w *Wizard) overrideExists() bool {
	_, err := w.opts.FS.Stat(w.store.Paths().OverridePath())
	return err == nil
}
