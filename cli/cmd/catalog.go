package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/reqforge/catalog"
	"github.com/pithecene-io/reqforge/cli/render"
)

// CatalogCommand returns the catalog command with subcommands.
func CatalogCommand() *cli.Command {
	return &cli.Command{
		Name:  "catalog",
		Usage: "List supported languages and databases",
		Subcommands: []*cli.Command{
			{
				Name:   "languages",
				Usage:  "List target languages and their test frameworks",
				Flags:  ReadOnlyFlags(),
				Action: catalogAction(func() any { return catalog.Languages() }),
			},
			{
				Name:   "databases",
				Usage:  "List supported databases",
				Flags:  ReadOnlyFlags(),
				Action: catalogAction(func() any { return catalog.Databases() }),
			},
		},
	}
}

func catalogAction(list func() any) cli.ActionFunc {
	return func(c *cli.Context) error {
		r, err := render.NewRenderer(c)
		if err != nil {
			return cli.Exit(err.Error(), exitUsage)
		}
		if c.Bool("tui") {
			return cli.Exit("--tui is not supported for catalog command", exitUsage)
		}
		return r.Render(list())
	}
}
