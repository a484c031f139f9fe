// Package cmd provides CLI commands for the reqforge binary.
package cmd

import "github.com/urfave/cli/v2"

// Exit codes.
const (
	exitUsage     = 1
	exitInference = 2
	exitNormalize = 3
	exitExport    = 4
)

// Shared output flags.
var (
	// FormatFlag selects output format: json, table, yaml, text.
	FormatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format: json, table, yaml, text",
	}

	// NoColorFlag disables colored output.
	NoColorFlag = &cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable colored output",
	}

	// TUIFlag enables Bubble Tea interactive mode.
	// Only valid for stage commands and run.
	TUIFlag = &cli.BoolFlag{
		Name:  "tui",
		Usage: "Enable interactive TUI mode (stage commands and run only)",
	}
)

// Session flags shared by commands that read or write the handoff file.
var (
	// ConfigFlag points at a reqforge.yaml file.
	ConfigFlag = &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to config file (default ./reqforge.yaml when present)",
		EnvVars: []string{"REQFORGE_CONFIG"},
	}

	// HandoffFlag points at the handoff state file.
	HandoffFlag = &cli.StringFlag{
		Name:    "handoff",
		Usage:   "Path to the handoff state file (default " + DefaultHandoffPath + ")",
		EnvVars: []string{"REQFORGE_HANDOFF"},
	}

	// DebugFlag enables debug logging.
	DebugFlag = &cli.BoolFlag{
		Name:  "debug",
		Usage: "Log every inference attempt",
	}
)

// Inference and export flags for commands that invoke the model.
var (
	// EndpointFlag overrides inference.endpoint.
	EndpointFlag = &cli.StringFlag{
		Name:    "endpoint",
		Usage:   "Generate endpoint URL",
		EnvVars: []string{"REQFORGE_ENDPOINT"},
	}

	// ModelFlag overrides inference.model.
	ModelFlag = &cli.StringFlag{
		Name:    "model",
		Aliases: []string{"m"},
		Usage:   "Model identifier",
		EnvVars: []string{"REQFORGE_MODEL"},
	}

	// StorageBackendFlag overrides storage.backend.
	StorageBackendFlag = &cli.StringFlag{
		Name:  "storage-backend",
		Usage: "Export backend: fs or s3",
	}

	// StoragePathFlag overrides storage.path.
	StoragePathFlag = &cli.StringFlag{
		Name:  "storage-path",
		Usage: "Export location (fs: directory, s3: bucket/prefix)",
	}

	// NoExportFlag disables artifact export.
	NoExportFlag = &cli.BoolFlag{
		Name:  "no-export",
		Usage: "Do not export the artifact",
	}
)

// ReadOnlyFlags returns the shared output flags.
// Includes --tui so that unsupported commands can provide explicit error messages
// instead of generic "flag not defined" errors.
func ReadOnlyFlags() []cli.Flag {
	return []cli.Flag{
		FormatFlag,
		NoColorFlag,
		TUIFlag,
	}
}

// SessionFlags returns output flags plus config and handoff selection.
func SessionFlags() []cli.Flag {
	return append(ReadOnlyFlags(), ConfigFlag, HandoffFlag, DebugFlag)
}

// StageFlags returns the flags of every command that invokes the model.
func StageFlags(extra ...cli.Flag) []cli.Flag {
	flags := append(SessionFlags(),
		EndpointFlag,
		ModelFlag,
		StorageBackendFlag,
		StoragePathFlag,
		NoExportFlag,
	)
	return append(flags, extra...)
}
