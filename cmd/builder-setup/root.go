package buildersetup

import (
	"github.com/arthur-debert/buildsetup/internal/version"
	"github.com/arthur-debert/buildsetup/pkg/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// globalOptions are the persistent flags shared by every command
type globalOptions struct {
	verbosity int
	dir       string
}

// NewRootCmd creates and returns the root command. Without a subcommand
// it runs the wizard.
func NewRootCmd() *cobra.Command {
	// Initialize custom template formatting functions
	initTemplateFormatting()

	global := &globalOptions{}
	wizardOpts := &wizardOptions{}

	rootCmd := &cobra.Command{
		Use:     "builder-setup",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		Args:    cobra.NoArgs,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(global.verbosity)
			logger := logging.WithFields(map[string]interface{}{
				"command":  cmd.Name(),
				"log_file": logging.LogFilePath(),
			})
			logger.Debug().Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWizardCmd(cmd, global, wizardOpts)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&global.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVarP(&global.dir, "dir", "d", "", MsgFlagDir)
	addWizardFlags(rootCmd.Flags(), wizardOpts)

	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "COMMANDS:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "misc",
		Title: "MISC:",
	})

	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newWizardCmd(global))
	rootCmd.AddCommand(newInfoCmd(global))
	rootCmd.AddCommand(newInstallDepsCmd(global))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

// addWizardFlags registers the wizard flags on fs. The root command and
// the wizard command both carry them.
func addWizardFlags(fs *pflag.FlagSet, o *wizardOptions) {
	fs.StringVarP(&o.dataFile, "data", "c", "", MsgFlagDataFile)
	fs.BoolVar(&o.development, "development", false, MsgFlagDevelopment)
	fs.BoolVar(&o.development, "dev", false, MsgFlagDevelopment)
	_ = fs.MarkHidden("dev")
	fs.BoolVar(&o.forceKeys, "force-keys", false, MsgFlagForceKeys)
}
