package buildersetup

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/arthur-debert/buildsetup/pkg/buildtool"
	"github.com/arthur-debert/buildsetup/pkg/config"
	"github.com/arthur-debert/buildsetup/pkg/deps"
	"github.com/arthur-debert/buildsetup/pkg/display"
	"github.com/arthur-debert/buildsetup/pkg/filesystem"
	"github.com/arthur-debert/buildsetup/pkg/keys"
	"github.com/arthur-debert/buildsetup/pkg/logging"
	"github.com/arthur-debert/buildsetup/pkg/override"
	"github.com/arthur-debert/buildsetup/pkg/patch"
	"github.com/arthur-debert/buildsetup/pkg/paths"
	"github.com/arthur-debert/buildsetup/pkg/types"
	"github.com/arthur-debert/buildsetup/pkg/ui"
	"github.com/arthur-debert/buildsetup/pkg/wizard"
	"github.com/rs/zerolog"
)

// app holds the collaborators every command shares
type app struct {
	settings *config.Settings
	paths    *paths.Paths
	fs       types.FS
	tool     *buildtool.Make
	styles   *ui.Styles
	logger   zerolog.Logger
}

// newApp loads the settings and resolves the builder directory
func newApp(dir string) (*app, error) {
	settings, err := config.LoadSettings()
	if err != nil {
		return nil, fmt.Errorf(MsgErrSettings, err)
	}
	p, err := paths.New(dir, settings.Layout())
	if err != nil {
		return nil, fmt.Errorf(MsgErrBuildDir, err)
	}

	a := &app{
		settings: settings,
		paths:    p,
		fs:       filesystem.NewOS(),
		tool:     buildtool.NewMake(settings.Tools.Make, p.BuilderDir()),
		styles:   ui.DefaultStyles(),
		logger:   logging.GetLogger("cmd"),
	}
	a.logger.Debug().Str("builder_dir", p.BuilderDir()).Msg("Builder directory resolved")
	return a, nil
}

// wizardOptions are the flags of the wizard command
type wizardOptions struct {
	dataFile    string
	development bool
	forceKeys   bool
}

// runWizard wires the wizard collaborators and runs it. Once the store has
// been loaded any failure restores builder.conf from its backup.
func (a *app) runWizard(ctx context.Context, o *wizardOptions, out io.Writer) (err error) {
	prompter, err := ui.NewPrompter(a.styles)
	if err != nil {
		return err
	}

	dataFile := o.dataFile
	if dataFile == "" {
		dataFile = a.settings.DataFile
	}
	store, err := config.Load(ctx, config.Options{
		FS:       a.fs,
		Paths:    a.paths,
		Tool:     a.tool,
		DataFile: dataFile,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			a.restoreBackup()
		}
	}()

	branch, branchErr := override.CurrentBranch(a.paths.BuilderDir())
	if branchErr != nil {
		a.logger.Warn().Err(branchErr).Msg(MsgBranchUnavailable)
		branch = ""
	}

	verifier := keys.NewVerifier(keys.Options{
		Tool:           keys.NewGPG(a.settings.Tools.GPG, a.paths.GnupgHome()),
		Prompter:       prompter,
		FS:             a.fs,
		GnupgHome:      a.paths.GnupgHome(),
		KeyServer:      a.settings.KeyServer,
		DevelopersKeys: a.paths.DevelopersKeysPath(),
	})

	w, err := wizard.New(wizard.Options{
		Store:         store,
		FS:            a.fs,
		Tool:          a.tool,
		Prompter:      prompter,
		Keys:          verifier,
		Overrides:     override.NewResolver(a.fs, a.paths, prompter),
		Display:       display.NewRenderer(out, outputFormat(ui.FormatAuto, out), a.styles),
		Branch:        branch,
		Development:   o.development,
		ForceKeys:     o.forceKeys,
		SourcesOutput: out,
	})
	if err != nil {
		return err
	}
	return w.Run(ctx)
}

// info prints the highlighted builder.conf
func (a *app) info(out io.Writer, format ui.Format) error {
	renderer := display.NewRenderer(out, outputFormat(format, out), a.styles)
	return renderer.Configuration(a.fs, a.paths.BuilderConfPath())
}

// installDeps installs the missing build dependencies plus extra
func (a *app) installDeps(ctx context.Context, extra []string, out io.Writer) error {
	prompter, err := ui.NewPrompter(a.styles)
	if err != nil {
		return err
	}

	installer := deps.NewInstaller(deps.Options{
		Tool:     a.tool,
		Packages: deps.NewRPM(a.settings.Tools.PackageQuery),
		Prompter: prompter,
		FS:       a.fs,
		Paths:    a.paths,
		Spin:     ui.Spin,
	})
	installed, err := installer.Install(ctx, extra)
	if err != nil {
		return err
	}

	if len(installed) == 0 {
		_, err = fmt.Fprintln(out, MsgDepsNothing)
		return err
	}
	_, err = fmt.Fprintf(out, MsgDepsInstalled, strings.Join(installed, " "))
	return err
}

func (a *app) restoreBackup() {
	target := a.paths.BuilderConfPath()
	restored, err := patch.RestoreBackup(a.fs, target, a.paths.Layout().BackupExtension)
	if err != nil {
		a.logger.Error().Err(err).Str("path", target).Msg("Backup restore failed")
		return
	}
	if restored {
		fmt.Fprintf(os.Stderr, MsgBackupRestored, target)
	}
}

// outputFormat resolves FormatAuto against out. Anything but a file is
// plain text.
func outputFormat(f ui.Format, out io.Writer) ui.Format {
	if file, ok := out.(*os.File); ok {
		return f.Resolve(file)
	}
	if f == ui.FormatAuto {
		return ui.FormatText
	}
	return f
}
