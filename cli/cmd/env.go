package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/reqforge/adapter"
	"github.com/pithecene-io/reqforge/adapter/redis"
	"github.com/pithecene-io/reqforge/adapter/webhook"
	"github.com/pithecene-io/reqforge/artifact"
	"github.com/pithecene-io/reqforge/catalog"
	"github.com/pithecene-io/reqforge/cli/config"
	"github.com/pithecene-io/reqforge/inference"
	"github.com/pithecene-io/reqforge/log"
	"github.com/pithecene-io/reqforge/metrics"
	"github.com/pithecene-io/reqforge/storage"
	"github.com/pithecene-io/reqforge/wizard"
)

// DefaultHandoffPath is the handoff file used when neither --handoff nor the
// config names one.
const DefaultHandoffPath = ".reqforge-handoff"

// DefaultExportDir is the fs export root used when no storage path is set.
const DefaultExportDir = "reqforge-out"

// session is the state loaded from config and handoff for one command.
type session struct {
	cfg         *config.Config
	handoffPath string
	handoff     *wizard.Handoff
	logger      *log.Logger
}

// loadSession reads config and the handoff file. With fresh set the previous
// handoff is ignored and a new session is started.
func loadSession(c *cli.Context, fresh bool) (*session, error) {
	cfg, err := config.LoadOptional(c.String("config"))
	if err != nil {
		return nil, cli.Exit(err.Error(), exitUsage)
	}

	path := c.String("handoff")
	if path == "" {
		path = cfg.Handoff
	}
	if path == "" {
		path = DefaultHandoffPath
	}

	var h *wizard.Handoff
	if fresh {
		h = wizard.NewHandoff()
	} else {
		h, err = wizard.ReadHandoffFile(path)
		if err != nil {
			return nil, cli.Exit(err.Error(), exitUsage)
		}
	}

	return &session{
		cfg:         cfg,
		handoffPath: path,
		handoff:     h,
		logger:      log.NewWriterLogger(&h.Session, errWriter(c), c.Bool("debug") || cfg.Debug),
	}, nil
}

// save persists the handoff.
func (s *session) save() error {
	if err := wizard.WriteHandoffFile(s.handoffPath, s.handoff); err != nil {
		return cli.Exit(fmt.Sprintf("save handoff: %v", err), exitExport)
	}
	return nil
}

// stageEnv wires the collaborators of a model-invoking command.
type stageEnv struct {
	*session
	metrics  *metrics.Collector
	client   *inference.Client
	wizard   *wizard.Wizard
	exporter *storage.Exporter
	notifier adapter.Adapter
}

func newStageEnv(c *cli.Context, fresh bool) (*stageEnv, error) {
	s, err := loadSession(c, fresh)
	if err != nil {
		return nil, err
	}
	cfg := s.cfg

	model := firstNonEmpty(c.String("model"), cfg.Inference.Model, inference.DefaultModel)
	backend := firstNonEmpty(c.String("storage-backend"), cfg.Storage.Backend, storage.BackendFS)
	m := metrics.NewCollector(model, backend, s.handoff.Session.SessionID)

	client, err := inference.New(inference.Config{
		Endpoint:    firstNonEmpty(c.String("endpoint"), cfg.Inference.Endpoint),
		Model:       model,
		Timeout:     cfg.Inference.Timeout.Duration,
		MaxAttempts: cfg.Inference.MaxAttempts,
		BaseDelay:   cfg.Inference.BaseDelay.Duration,
		Headers:     cfg.Inference.Headers,
		Logger:      s.logger,
		Metrics:     m,
	})
	if err != nil {
		return nil, cli.Exit(err.Error(), exitUsage)
	}

	env := &stageEnv{session: s, metrics: m, client: client}
	if err := env.wire(c, model, backend); err != nil {
		env.close()
		return nil, cli.Exit(err.Error(), exitUsage)
	}
	return env, nil
}

// wire builds the collaborators that sit on top of the inference client.
func (e *stageEnv) wire(c *cli.Context, model, backend string) error {
	cfg := e.cfg
	w, err := wizard.New(wizard.Config{
		Invoker: e.client,
		Model:   model,
		Options: cfg.Inference.Options,
		Stop:    cfg.Inference.Stop,
		Logger:  e.logger,
		Metrics: e.metrics,
	})
	if err != nil {
		return err
	}
	e.wizard = w

	if !c.Bool("no-export") {
		e.exporter, err = buildExporter(c.Context, backend, firstNonEmpty(c.String("storage-path"), cfg.Storage.Path), cfg.Storage, e.logger, e.metrics)
		if err != nil {
			return err
		}
	}

	e.notifier, err = buildAdapter(cfg.Adapter)
	return err
}

// buildExporter selects the export backend.
func buildExporter(ctx context.Context, backend, path string, sc config.StorageConfig, logger *log.Logger, m *metrics.Collector) (*storage.Exporter, error) {
	opts := storage.Options{Logger: logger, Metrics: m}
	switch backend {
	case storage.BackendFS:
		return storage.NewFS(firstNonEmpty(path, DefaultExportDir), opts), nil
	case storage.BackendS3:
		bucket, prefix := storage.ParseS3Path(path)
		return storage.NewS3(ctx, storage.S3Config{
			Bucket:       bucket,
			Prefix:       prefix,
			Region:       sc.Region,
			Endpoint:     sc.Endpoint,
			UsePathStyle: sc.S3PathStyle,
		}, opts)
	default:
		return nil, fmt.Errorf("storage backend must be fs or s3, got %q", backend)
	}
}

// buildAdapter creates the configured stage notifier, or nil when none is set.
func buildAdapter(ac config.AdapterConfig) (adapter.Adapter, error) {
	switch ac.Type {
	case "":
		return nil, nil
	case "webhook":
		cfg := webhook.Config{
			URL:     ac.URL,
			Headers: ac.Headers,
			Timeout: ac.Timeout.Duration,
			Retries: webhook.DefaultRetries,
		}
		if ac.Retries != nil {
			cfg.Retries = *ac.Retries
		}
		a, err := webhook.New(cfg)
		if err != nil {
			return nil, err
		}
		return a, nil
	case "redis":
		cfg := redis.Config{
			URL:     ac.URL,
			Channel: ac.Channel,
			Timeout: ac.Timeout.Duration,
			Retries: redis.DefaultRetries,
		}
		if ac.Retries != nil {
			cfg.Retries = *ac.Retries
		}
		a, err := redis.New(cfg)
		if err != nil {
			return nil, err
		}
		return a, nil
	default:
		return nil, fmt.Errorf("unknown adapter type %q", ac.Type)
	}
}

// complete records a stage result, exports it, notifies and saves the handoff.
// An export failure still saves the handoff so the stage need not be rerun.
func (e *stageEnv) complete(ctx context.Context, res wizard.Result, filename string) (StageResponse, error) {
	e.handoff.Record(res)

	var storagePath string
	var exportErr error
	if e.exporter != nil {
		storagePath, exportErr = e.exporter.Export(ctx, e.handoff.Session.SessionID, filename, res.Text())
		if exportErr == nil {
			e.handoff.RecordExport(res.Stage, storagePath)
		}
	}

	if err := e.save(); err != nil {
		return StageResponse{}, err
	}
	if exportErr != nil {
		return StageResponse{}, cli.Exit(fmt.Sprintf("export failed: %v", exportErr), exitExport)
	}

	if e.notifier != nil {
		event := adapter.NewStageCompletedEvent(e.handoff.Session.SessionID, res.Stage, string(res.Artifact.Kind),
			storagePath, res.Attempts, res.Duration, time.Now())
		adapter.Notify(ctx, e.notifier, event, e.logger, e.metrics)
	}

	return newStageResponse(e.handoff, res, storagePath), nil
}

// close releases the inference client and the notifier.
func (e *stageEnv) close() {
	_ = e.client.Close()
	if e.notifier != nil {
		_ = e.notifier.Close()
	}
	_ = e.logger.Sync()
}

// stageExit maps a stage error to a CLI exit.
func stageExit(err error) error {
	var ie *inference.Error
	switch {
	case errors.Is(err, wizard.ErrMissingInput):
		return cli.Exit(err.Error(), exitUsage)
	case errors.Is(err, catalog.ErrUnsupported):
		return cli.Exit(err.Error(), exitUsage)
	case errors.As(err, &ie):
		return cli.Exit(fmt.Sprintf("%v\n%s", err, inference.Remediation(err)), exitInference)
	case errors.Is(err, wizard.ErrNoTestSource):
		return cli.Exit(err.Error(), exitNormalize)
	}
	if _, ok := artifact.IsInvalid(err); ok {
		return cli.Exit(err.Error(), exitNormalize)
	}
	return cli.Exit(err.Error(), exitInference)
}

// signalContext returns a context canceled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()
	return ctx, cancel
}

func errWriter(c *cli.Context) io.Writer {
	if c.App != nil && c.App.ErrWriter != nil {
		return c.App.ErrWriter
	}
	return os.Stderr
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
