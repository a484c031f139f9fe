package cmd

import (
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/reqforge/catalog"
	"github.com/pithecene-io/reqforge/cli/render"
	"github.com/pithecene-io/reqforge/cli/tui"
	"github.com/pithecene-io/reqforge/metrics"
	"github.com/pithecene-io/reqforge/storage"
	"github.com/pithecene-io/reqforge/wizard"
)

// RunResponse summarizes a full wizard run.
type RunResponse struct {
	SessionID string           `json:"session_id" yaml:"session_id"`
	Stages    []StageResponse  `json:"stages" yaml:"stages"`
	Metrics   metrics.Snapshot `json:"metrics" yaml:"metrics"`
}

// RunCommand returns the run command, which walks every stage in one session.
func RunCommand() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "Run every stage from requirements to code in a new session",
		ArgsUsage: "[requirements...]",
		Flags: StageFlags(
			&cli.StringFlag{
				Name:  "file",
				Usage: "Read requirements from a file (- for stdin)",
			},
			&cli.StringFlag{
				Name:     "language",
				Aliases:  []string{"l"},
				Usage:    "Target language: python, javascript, java",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "database",
				Aliases:  []string{"d"},
				Usage:    "Database: MongoDB, Oracle, Neo4j",
				Required: true,
			},
		),
		Action: runAction,
	}
}

func runAction(c *cli.Context) error {
	requirements, err := readInput(c, c.String("file"), strings.Join(c.Args().Slice(), " "))
	if err != nil {
		return err
	}
	r, err := render.NewRenderer(c)
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}
	lang, err := catalog.LookupLanguage(c.String("language"))
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}
	if _, err := catalog.LookupDatabase(c.String("database")); err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}

	env, err := newStageEnv(c, true)
	if err != nil {
		return err
	}
	defer env.close()
	ctx, cancel := signalContext(c.Context)
	defer cancel()

	h := env.handoff
	h.Requirements = strings.TrimSpace(requirements)
	h.Language = lang.ID
	resp := RunResponse{SessionID: h.Session.SessionID}

	step := func(res wizard.Result, err error, filename string) error {
		if err != nil {
			return stageExit(err)
		}
		sr, err := env.complete(ctx, res, filename)
		if err != nil {
			return err
		}
		sr.Content = ""
		resp.Stages = append(resp.Stages, sr)
		return nil
	}

	res, err := env.wizard.Diagram(ctx, requirements)
	if err = step(res, err, storage.DiagramFile); err != nil {
		return err
	}
	res, err = env.wizard.APISpec(ctx, h.Diagram)
	if err = step(res, err, storage.SpecFile); err != nil {
		return err
	}
	res, err = env.wizard.Tests(ctx, h.Spec, lang.ID)
	if err = step(res, err, storage.TestsFile(lang.ID)); err != nil {
		return err
	}

	db, err := wizard.SelectDatabase(h, c.String("database"))
	if err != nil {
		return stageExit(err)
	}
	h.Database = db.Name

	res, err = env.wizard.Code(ctx, h.Spec, h.Tests, h.Language, db.Name)
	if err = step(res, err, storage.CodeFile(lang.ID, db.Name)); err != nil {
		return err
	}

	resp.Metrics = env.metrics.Snapshot()
	if c.Bool("tui") {
		return r.RenderTUI(tui.ViewMetrics, resp.Metrics)
	}
	return r.Render(resp)
}
