package buildersetup

import (
	"fmt"

	"github.com/arthur-debert/buildsetup/internal/version"
	"github.com/arthur-debert/buildsetup/pkg/ui"
	"github.com/spf13/cobra"
)

func runWizardCmd(cmd *cobra.Command, global *globalOptions, o *wizardOptions) error {
	a, err := newApp(global.dir)
	if err != nil {
		return err
	}
	return a.runWizard(cmd.Context(), o, cmd.OutOrStdout())
}

func newWizardCmd(global *globalOptions) *cobra.Command {
	o := &wizardOptions{}
	cmd := &cobra.Command{
		Use:     "wizard",
		Short:   MsgWizardShort,
		Long:    MsgWizardLong,
		Example: MsgWizardExample,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWizardCmd(cmd, global, o)
		},
	}
	addWizardFlags(cmd.Flags(), o)
	return cmd
}

func newInfoCmd(global *globalOptions) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:     "info",
		Short:   MsgInfoShort,
		Long:    MsgInfoLong,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := ui.ParseFormat(format)
			if err != nil {
				return fmt.Errorf(MsgErrFormat, err)
			}
			a, err := newApp(global.dir)
			if err != nil {
				return err
			}
			return a.info(cmd.OutOrStdout(), f)
		},
	}
	cmd.Flags().StringVar(&format, "format", ui.FormatAuto.String(), MsgFlagFormat)
	return cmd
}

func newInstallDepsCmd(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "install-deps [packages...]",
		Short:   MsgInstallDepsShort,
		Long:    MsgInstallDepsLong,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(global.dir)
			if err != nil {
				return err
			}
			return a.installDeps(cmd.Context(), args, cmd.OutOrStdout())
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), MsgVersionFormat, version.Version, version.Commit, version.Date)
			return err
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		GroupID:               "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}
