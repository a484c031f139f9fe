package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/reqforge/artifact"
	"github.com/pithecene-io/reqforge/cli/render"
)

// NormalizeResponse is the rendered outcome of the normalize command.
type NormalizeResponse struct {
	Kind     artifact.Kind `json:"kind" yaml:"kind"`
	Sections []string      `json:"sections,omitempty" yaml:"sections,omitempty"`
	Content  string        `json:"content" yaml:"content"`
}

// Text returns the repaired content for --format text.
func (r NormalizeResponse) Text() string {
	return r.Content
}

// NormalizeCommand returns the normalize command.
// It validates and repairs a model output offline.
func NormalizeCommand() *cli.Command {
	return &cli.Command{
		Name:      "normalize",
		Usage:     "Validate and repair an artifact (diagram, spec, code)",
		ArgsUsage: "[file|-]",
		Flags: append(ReadOnlyFlags(), &cli.StringFlag{
			Name:     "kind",
			Aliases:  []string{"k"},
			Usage:    "Artifact kind: diagram, spec, code",
			Required: true,
		}),
		Action: normalizeAction,
	}
}

func normalizeAction(c *cli.Context) error {
	kind, err := artifact.ParseKind(c.String("kind"))
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}
	r, err := render.NewRenderer(c)
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}
	if c.Bool("tui") {
		return cli.Exit("--tui is not supported for normalize command", exitUsage)
	}

	file := c.Args().First()
	if file == "" {
		file = "-"
	}
	text, err := readInput(c, file, "")
	if err != nil {
		return err
	}

	a, err := artifact.Normalize(text, kind)
	if err != nil {
		return cli.Exit(fmt.Sprintf("normalize: %v", err), exitNormalize)
	}
	return r.Render(NormalizeResponse{
		Kind:     a.Kind,
		Sections: a.SectionNames(),
		Content:  a.Content,
	})
}
