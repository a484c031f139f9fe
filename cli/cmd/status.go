package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/reqforge/cli/render"
)

// StatusCommand returns the status command.
// Status reads the handoff file only; it never contacts the model.
func StatusCommand() *cli.Command {
	return &cli.Command{
		Name:   "status",
		Usage:  "Show the current session and completed stages",
		Flags:  SessionFlags(),
		Action: statusAction,
	}
}

func statusAction(c *cli.Context) error {
	r, err := render.NewRenderer(c)
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}
	if c.Bool("tui") {
		return cli.Exit("--tui is not supported for status command", exitUsage)
	}
	s, err := loadSession(c, false)
	if err != nil {
		return err
	}
	return r.Render(newStatusResponse(s.handoff))
}
