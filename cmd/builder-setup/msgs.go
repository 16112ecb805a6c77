package buildersetup

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort        = "Configure a vanir builder directory"
	MsgWizardShort      = "Run the interactive configuration wizard"
	MsgInfoShort        = "Show the resolved builder.conf"
	MsgInstallDepsShort = "Install missing build dependencies"
	MsgVersionShort     = "Print version information"
	MsgCompletionShort  = "Generate shell completion script"

	// Status messages
	MsgVersionFormat     = "builder-setup version %s\n  commit: %s\n  built:  %s\n"
	MsgDepsInstalled     = "Installed: %s\n"
	MsgDepsNothing       = "All dependencies are installed."
	MsgBackupRestored    = "Restored %s from its backup\n"
	MsgBranchUnavailable = "Cannot detect the builder branch, branch specific overrides are skipped"

	// Error messages
	MsgErrSettings = "failed to load settings: %w"
	MsgErrBuildDir = "failed to resolve the builder directory: %w"
	MsgErrFormat   = "invalid --format: %w"

	// Flag descriptions
	MsgFlagVerbose     = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagDir         = "Builder directory (default: current directory)"
	MsgFlagDataFile    = "Setup data file, relative to the builder directory"
	MsgFlagDevelopment = "Show builder plugins still in development"
	MsgFlagForceKeys   = "Re-fetch every signing key even when present"
	MsgFlagFormat      = "Output format (auto, term, text)"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/wizard-long.txt
	msgWizardLongRaw string
	MsgWizardLong    = strings.TrimSpace(msgWizardLongRaw)

	//go:embed msgs/wizard-example.txt
	msgWizardExampleRaw string
	MsgWizardExample    = strings.TrimRight(msgWizardExampleRaw, "\n")

	//go:embed msgs/info-long.txt
	msgInfoLongRaw string
	MsgInfoLong    = strings.TrimSpace(msgInfoLongRaw)

	//go:embed msgs/install-deps-long.txt
	msgInstallDepsLongRaw string
	MsgInstallDepsLong    = strings.TrimSpace(msgInstallDepsLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
