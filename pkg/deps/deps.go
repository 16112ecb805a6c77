// Package deps installs the host packages the build tool depends on.
// The package list comes from the build tool's DEPENDENCIES variable;
// packages already provided on the host are skipped.
package deps

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"sort"
	"strings"

	"github.com/arthur-debert/buildsetup/pkg/buildtool"
	"github.com/arthur-debert/buildsetup/pkg/errors"
	"github.com/arthur-debert/buildsetup/pkg/logging"
	"github.com/arthur-debert/buildsetup/pkg/paths"
	"github.com/arthur-debert/buildsetup/pkg/types"
	"github.com/rs/zerolog"
)

// Build-tool names used for installation
const (
	VarDependencies = "DEPENDENCIES"
	InstallTarget   = "install-deps"
)

// PackageQuery tells whether a capability is provided on the host
type PackageQuery interface {
	Provides(ctx context.Context, capability string) bool
}

// RPM queries the rpm database
type RPM struct {
	bin string
}

// NewRPM creates an RPM package query. bin defaults to "rpm".
func NewRPM(bin string) *RPM {
	if bin == "" {
		bin = "rpm"
	}
	return &RPM{bin: bin}
}

// Provides implements PackageQuery
func (r *RPM) Provides(ctx context.Context, capability string) bool {
	args := []string{"-q", "--whatprovides", capability}
	logging.LogCommand(r.bin, args)
	return exec.CommandContext(ctx, r.bin, args...).Run() == nil
}

// Options configures an Installer
type Options struct {
	Tool     buildtool.Querier
	Packages PackageQuery
	Prompter types.Prompter
	FS       types.FS
	Paths    *paths.Paths

	// Spin wraps the installation run, typically with a progress spinner
	Spin func(text string, fn func() error) error
}

// Installer discovers and installs missing dependencies
type Installer struct {
	opts   Options
	logger zerolog.Logger
}

// NewInstaller creates an Installer
func NewInstaller(opts Options) *Installer {
	if opts.Spin == nil {
		opts.Spin = func(_ string, fn func() error) error { return fn() }
	}
	return &Installer{opts: opts, logger: logging.GetLogger("deps")}
}

// Dependencies asks the build tool for its dependency list. The packaged
// template stands in for builder.conf until the wizard has written one.
func (i *Installer) Dependencies(ctx context.Context) ([]string, error) {
	q := buildtool.Query{Var: VarDependencies}
	if _, err := i.opts.FS.Stat(i.opts.Paths.BuilderConfPath()); err != nil {
		q.ConfFile = i.opts.Paths.TemplatePath()
	}

	out, err := i.opts.Tool.GetVar(ctx, q)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrToolExec,
			"an error occurred trying to determine dependencies")
	}
	return strings.Fields(out), nil
}

// Missing returns the sorted packages, from extra and the build tool's
// list, that the host does not provide
func (i *Installer) Missing(ctx context.Context, extra []string) ([]string, error) {
	deps, err := i.Dependencies(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var missing []string
	for _, pkg := range append(append([]string{}, extra...), deps...) {
		if pkg == "" || seen[pkg] {
			continue
		}
		seen[pkg] = true
		if !i.opts.Packages.Provides(ctx, pkg) {
			missing = append(missing, pkg)
		}
	}
	sort.Strings(missing)
	return missing, nil
}

// Install installs every missing package after confirmation and returns
// what was installed. Declining is an abort.
func (i *Installer) Install(ctx context.Context, extra []string) ([]string, error) {
	done := logging.LogOperationStart(i.logger, "install-deps")
	defer done()

	missing, err := i.Missing(ctx, extra)
	if err != nil {
		return nil, err
	}
	if len(missing) == 0 {
		i.logger.Info().Msg("All dependencies are installed")
		return nil, nil
	}

	list := strings.Join(missing, " ")
	ok, err := i.opts.Prompter.YesNo(types.YesNoRequest{
		Title: "Install Dependencies",
		Text:  fmt.Sprintf("The following dependencies have not been met:\n%s\n\nInstall ALL dependencies now?", list),
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.New(errors.ErrUserAbort,
			"you selected not to install the dependencies").WithDetail("packages", missing)
	}

	var output bytes.Buffer
	err = i.opts.Spin(fmt.Sprintf("Waiting for %s to install", list), func() error {
		return i.opts.Tool.Stream(ctx, InstallTarget, map[string]string{VarDependencies: list}, &output)
	})
	if err != nil {
		i.logger.Error().Str("output", output.String()).Msg("Dependency installation failed")
		return nil, errors.Wrap(err, errors.ErrToolExec, "there was an error installing dependencies").
			WithDetail("packages", missing)
	}
	i.logger.Debug().Str("output", output.String()).Msg("Dependencies installed")
	return missing, nil
}
