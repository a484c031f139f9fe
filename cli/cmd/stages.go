package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/reqforge/catalog"
	"github.com/pithecene-io/reqforge/cli/render"
	"github.com/pithecene-io/reqforge/cli/tui"
	"github.com/pithecene-io/reqforge/iox"
	"github.com/pithecene-io/reqforge/storage"
	"github.com/pithecene-io/reqforge/types"
	"github.com/pithecene-io/reqforge/wizard"
)

// maxInputBytes bounds requirement and artifact files read from disk or stdin.
const maxInputBytes = 8 << 20

// DiagramCommand returns the diagram command. It starts a new session.
func DiagramCommand() *cli.Command {
	return &cli.Command{
		Name:      "diagram",
		Usage:     "Generate a sequence diagram from requirements (starts a new session)",
		ArgsUsage: "[requirements...]",
		Flags: StageFlags(&cli.StringFlag{
			Name:  "file",
			Usage: "Read requirements from a file (- for stdin)",
		}),
		Action: diagramAction,
	}
}

func diagramAction(c *cli.Context) error {
	requirements, err := readInput(c, c.String("file"), strings.Join(c.Args().Slice(), " "))
	if err != nil {
		return err
	}
	r, err := render.NewRenderer(c)
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}

	env, err := newStageEnv(c, true)
	if err != nil {
		return err
	}
	defer env.close()
	ctx, cancel := signalContext(c.Context)
	defer cancel()

	env.handoff.Requirements = strings.TrimSpace(requirements)
	res, err := env.wizard.Diagram(ctx, requirements)
	if err != nil {
		return stageExit(err)
	}
	resp, err := env.complete(ctx, res, storage.DiagramFile)
	if err != nil {
		return err
	}
	return renderStage(c, r, resp)
}

// OpenAPICommand returns the openapi command.
func OpenAPICommand() *cli.Command {
	return &cli.Command{
		Name:  "openapi",
		Usage: "Generate an OpenAPI document from the session diagram",
		Flags: StageFlags(&cli.StringFlag{
			Name:  "diagram-file",
			Usage: "Use this diagram instead of the session diagram (- for stdin)",
		}),
		Action: openAPIAction,
	}
}

func openAPIAction(c *cli.Context) error {
	r, err := render.NewRenderer(c)
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}
	env, err := newStageEnv(c, false)
	if err != nil {
		return err
	}
	defer env.close()
	ctx, cancel := signalContext(c.Context)
	defer cancel()

	diagram, err := readInput(c, c.String("diagram-file"), env.handoff.Diagram)
	if err != nil {
		return err
	}
	env.handoff.Diagram = diagram

	res, err := env.wizard.APISpec(ctx, diagram)
	if err != nil {
		return stageExit(err)
	}
	resp, err := env.complete(ctx, res, storage.SpecFile)
	if err != nil {
		return err
	}
	return renderStage(c, r, resp)
}

// TestsCommand returns the tests command.
func TestsCommand() *cli.Command {
	return &cli.Command{
		Name:  "tests",
		Usage: "Generate unit tests for the session API document",
		Flags: StageFlags(
			&cli.StringFlag{
				Name:    "language",
				Aliases: []string{"l"},
				Usage:   "Target language: python, javascript, java (default: session language)",
			},
			&cli.StringFlag{
				Name:  "spec-file",
				Usage: "Use this API document instead of the session one (- for stdin)",
			},
		),
		Action: testsAction,
	}
}

func testsAction(c *cli.Context) error {
	r, err := render.NewRenderer(c)
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}
	env, err := newStageEnv(c, false)
	if err != nil {
		return err
	}
	defer env.close()
	ctx, cancel := signalContext(c.Context)
	defer cancel()

	spec, err := readInput(c, c.String("spec-file"), env.handoff.Spec)
	if err != nil {
		return err
	}
	lang, err := catalog.LookupLanguage(firstNonEmpty(c.String("language"), env.handoff.Language))
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}
	env.handoff.Spec = spec
	env.handoff.Language = lang.ID

	res, err := env.wizard.Tests(ctx, spec, lang.ID)
	if err != nil {
		return stageExit(err)
	}
	resp, err := env.complete(ctx, res, storage.TestsFile(lang.ID))
	if err != nil {
		return err
	}
	return renderStage(c, r, resp)
}

// DatabaseCommand returns the database command.
func DatabaseCommand() *cli.Command {
	return &cli.Command{
		Name:      "database",
		Usage:     "Choose the database for code generation",
		ArgsUsage: "<MongoDB|Oracle|Neo4j>",
		Flags:     SessionFlags(),
		Action:    databaseAction,
	}
}

func databaseAction(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("database name required", exitUsage)
	}
	r, err := render.NewRenderer(c)
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}
	if c.Bool("tui") {
		return cli.Exit("--tui is not supported for database command", exitUsage)
	}

	s, err := loadSession(c, false)
	if err != nil {
		return err
	}
	db, err := wizard.SelectDatabase(s.handoff, c.Args().First())
	if err != nil {
		return stageExit(err)
	}
	s.handoff.Database = db.Name
	s.handoff.Session.Stage = types.StageCode
	if err := s.save(); err != nil {
		return err
	}
	s.logger.WithStage(types.StageDatabase).Info("database selected", map[string]any{"database": db.Name})

	return r.Render(DatabaseResponse{
		SessionID: s.handoff.Session.SessionID,
		ID:        db.ID,
		Name:      db.Name,
		Guidance:  db.Guidance,
		NextStage: types.StageCode,
	})
}

// CodeCommand returns the code command.
func CodeCommand() *cli.Command {
	return &cli.Command{
		Name:  "code",
		Usage: "Generate a sectioned implementation from the session spec and tests",
		Flags: StageFlags(
			&cli.StringFlag{
				Name:    "database",
				Aliases: []string{"d"},
				Usage:   "Database: MongoDB, Oracle, Neo4j (default: session database)",
			},
			&cli.StringFlag{
				Name:    "language",
				Aliases: []string{"l"},
				Usage:   "Target language (default: session language)",
			},
		),
		Action: codeAction,
	}
}

func codeAction(c *cli.Context) error {
	r, err := render.NewRenderer(c)
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}
	env, err := newStageEnv(c, false)
	if err != nil {
		return err
	}
	defer env.close()
	ctx, cancel := signalContext(c.Context)
	defer cancel()

	h := env.handoff
	if lang := c.String("language"); lang != "" {
		l, err := catalog.LookupLanguage(lang)
		if err != nil {
			return cli.Exit(err.Error(), exitUsage)
		}
		h.Language = l.ID
	}
	db, err := wizard.SelectDatabase(h, firstNonEmpty(c.String("database"), h.Database))
	if err != nil {
		return stageExit(err)
	}
	h.Database = db.Name

	res, err := env.wizard.Code(ctx, h.Spec, h.Tests, h.Language, db.Name)
	if err != nil {
		return stageExit(err)
	}
	resp, err := env.complete(ctx, res, storage.CodeFile(h.Language, db.Name))
	if err != nil {
		return err
	}
	return renderStage(c, r, resp)
}

func renderStage(c *cli.Context, r *render.Renderer, resp StageResponse) error {
	if c.Bool("tui") {
		return r.RenderTUI(tui.ViewArtifact, resp.result)
	}
	return r.Render(resp)
}

// readInput returns the contents of file ("-" is stdin), or fallback when
// file is empty.
func readInput(c *cli.Context, file, fallback string) (string, error) {
	if file == "" {
		return fallback, nil
	}
	var src io.Reader
	if file == "-" {
		src = os.Stdin
		if c.App != nil && c.App.Reader != nil {
			src = c.App.Reader
		}
	} else {
		f, err := os.Open(file)
		if err != nil {
			return "", cli.Exit(fmt.Sprintf("cannot read %s: %v", file, err), exitUsage)
		}
		defer iox.DiscardClose(f)
		src = f
	}
	data, err := iox.ReadLimited(src, maxInputBytes)
	if err != nil {
		return "", cli.Exit(fmt.Sprintf("cannot read %s: %v", file, err), exitUsage)
	}
	return string(data), nil
}
