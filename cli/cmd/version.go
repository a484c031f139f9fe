package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/reqforge/cli/render"
	"github.com/pithecene-io/reqforge/types"
)

// VersionResponse is the response for the version command.
type VersionResponse struct {
	Version        string `json:"version"`
	HandoffVersion string `json:"handoff_version"`
	Commit         string `json:"commit"`
}

// VersionCommand returns the version command.
// It must not contact the inference service.
func VersionCommand(commit string) *cli.Command {
	return &cli.Command{
		Name:   "version",
		Usage:  "Show version information",
		Flags:  ReadOnlyFlags(),
		Action: versionAction(commit),
	}
}

func versionAction(commit string) cli.ActionFunc {
	return func(c *cli.Context) error {
		r, err := render.NewRenderer(c)
		if err != nil {
			return err
		}

		// TUI not supported for version command
		if c.Bool("tui") {
			return cli.Exit("--tui is not supported for version command", 1)
		}

		resp := VersionResponse{
			Version:        types.Version,
			HandoffVersion: types.HandoffVersion,
			Commit:         commit,
		}

		return r.Render(resp)
	}
}

// Commands returns every reqforge command.
func Commands(commit string) []*cli.Command {
	return []*cli.Command{
		DiagramCommand(),
		OpenAPICommand(),
		TestsCommand(),
		DatabaseCommand(),
		CodeCommand(),
		RunCommand(),
		StatusCommand(),
		NormalizeCommand(),
		CatalogCommand(),
		VersionCommand(commit),
	}
}
