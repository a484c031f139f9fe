// Package storage exports accepted artifacts to a Lode store.
//
// Artifacts land at sessions/<session_id>/<filename>. Content is written
// byte-for-byte; re-exporting a file within a session replaces it.
package storage

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/justapithecus/lode/lode"

	"github.com/pithecene-io/reqforge/iox"
	"github.com/pithecene-io/reqforge/log"
	"github.com/pithecene-io/reqforge/metrics"
)

// Backend names.
const (
	BackendFS     = "fs"
	BackendS3     = "s3"
	BackendMemory = "memory"
)

// maxReadBytes bounds a single artifact read.
const maxReadBytes = 64 << 20

// Options configure an Exporter.
type Options struct {
	// Logger receives export logs (default: discard).
	Logger *log.Logger
	// Metrics receives export counters (optional).
	Metrics *metrics.Collector
}

// Exporter writes artifacts to a lazily opened store.
type Exporter struct {
	backend string
	factory lode.StoreFactory
	logger  *log.Logger
	metrics *metrics.Collector

	storeOnce sync.Once
	store     lode.Store
	storeErr  error
}

// New creates an exporter over a store factory.
func New(backend string, factory lode.StoreFactory, opts Options) *Exporter {
	logger := opts.Logger
	if logger == nil {
		logger = log.NewNop()
	}
	return &Exporter{
		backend: backend,
		factory: factory,
		logger:  logger,
		metrics: opts.Metrics,
	}
}

// NewFS creates an exporter writing below a filesystem root.
func NewFS(root string, opts Options) *Exporter {
	return New(BackendFS, lode.NewFSFactory(root), opts)
}

// NewMemory creates an exporter backed by an in-process store.
func NewMemory(opts Options) *Exporter {
	return New(BackendMemory, lode.NewMemoryFactory(), opts)
}

// Backend returns the backend name.
func (e *Exporter) Backend() string {
	return e.backend
}

// SessionPath returns the storage path of filename within a session.
func SessionPath(sessionID, filename string) string {
	return path.Join("sessions", sessionID, filename)
}

// Export writes content under the session and returns its storage path.
func (e *Exporter) Export(ctx context.Context, sessionID, filename, content string) (string, error) {
	if err := validateName("session id", sessionID); err != nil {
		return "", err
	}
	if err := validateName("filename", filename); err != nil {
		return "", err
	}
	p := SessionPath(sessionID, filename)

	err := e.put(ctx, p, content)
	e.metrics.IncExport(err == nil)
	if err != nil {
		e.logger.Error("export failed", map[string]any{"path": p, "backend": e.backend, "error": err.Error()})
		return "", err
	}
	e.logger.Info("artifact exported", map[string]any{"path": p, "backend": e.backend, "bytes": len(content)})
	return p, nil
}

func (e *Exporter) put(ctx context.Context, p, content string) error {
	store, err := e.getOrCreateStore()
	if err != nil {
		return wrap("init", e.backend, err)
	}
	exists, err := store.Exists(ctx, p)
	if err != nil {
		return wrap("write", p, err)
	}
	if exists {
		if err := store.Delete(ctx, p); err != nil {
			return wrap("write", p, err)
		}
	}
	return wrap("write", p, store.Put(ctx, p, strings.NewReader(content)))
}

// Read returns the content of an exported file.
func (e *Exporter) Read(ctx context.Context, sessionID, filename string) (string, error) {
	store, err := e.getOrCreateStore()
	if err != nil {
		return "", wrap("init", e.backend, err)
	}
	p := SessionPath(sessionID, filename)
	rc, err := store.Get(ctx, p)
	if err != nil {
		return "", wrap("read", p, err)
	}
	defer iox.DrainClose(rc)

	data, err := iox.ReadLimited(rc, maxReadBytes)
	if err != nil {
		return "", wrap("read", p, err)
	}
	return string(data), nil
}

// List returns the sorted file names exported for a session.
func (e *Exporter) List(ctx context.Context, sessionID string) ([]string, error) {
	if err := validateName("session id", sessionID); err != nil {
		return nil, err
	}
	store, err := e.getOrCreateStore()
	if err != nil {
		return nil, wrap("init", e.backend, err)
	}
	prefix := SessionPath(sessionID, "") + "/"
	paths, err := store.List(ctx, prefix)
	if err != nil {
		return nil, wrap("list", prefix, err)
	}
	names := make([]string, 0, len(paths))
	for _, p := range paths {
		names = append(names, path.Base(p))
	}
	sort.Strings(names)
	return names, nil
}

// getOrCreateStore lazily initializes the store from the factory.
func (e *Exporter) getOrCreateStore() (lode.Store, error) {
	e.storeOnce.Do(func() {
		e.store, e.storeErr = e.factory()
	})
	return e.store, e.storeErr
}

func validateName(what, name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid %s %q", what, name)
	}
	return nil
}
