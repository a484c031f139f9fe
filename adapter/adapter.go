// Package adapter defines the notification boundary for completed stages.
//
// Adapters publish stage completion events to downstream systems. A failed
// publish never fails the stage that produced the event; see Notify.
package adapter

import (
	"context"
	"time"

	"github.com/pithecene-io/reqforge/log"
	"github.com/pithecene-io/reqforge/metrics"
	"github.com/pithecene-io/reqforge/types"
)

// EventTypeStageCompleted is the event_type of every StageCompletedEvent.
const EventTypeStageCompleted = "stage_completed"

// DefaultBaseDelay is the delay before the first publish retry.
const DefaultBaseDelay = 500 * time.Millisecond

// StageCompletedEvent is the payload published after a stage succeeds.
type StageCompletedEvent struct {
	Version     string `json:"version"`
	EventType   string `json:"event_type"` // always "stage_completed"
	SessionID   string `json:"session_id"`
	Stage       string `json:"stage"`
	Kind        string `json:"kind,omitempty"` // artifact kind; empty for tests
	StoragePath string `json:"storage_path,omitempty"`
	Attempts    int    `json:"attempts"`
	DurationMs  int64  `json:"duration_ms"`
	Timestamp   string `json:"timestamp"` // RFC 3339
}

// NewStageCompletedEvent builds the event for a finished stage.
func NewStageCompletedEvent(sessionID string, stage types.Stage, kind, storagePath string, attempts int, duration time.Duration, at time.Time) *StageCompletedEvent {
	return &StageCompletedEvent{
		Version:     types.Version,
		EventType:   EventTypeStageCompleted,
		SessionID:   sessionID,
		Stage:       string(stage),
		Kind:        kind,
		StoragePath: storagePath,
		Attempts:    attempts,
		DurationMs:  duration.Milliseconds(),
		Timestamp:   at.UTC().Format(time.RFC3339),
	}
}

// Adapter publishes stage completion events to a downstream system.
type Adapter interface {
	// Publish sends an event. Must respect context cancellation and deadlines.
	Publish(ctx context.Context, event *StageCompletedEvent) error

	// Close releases adapter resources.
	Close() error
}

// Notify publishes event through a and records the outcome.
// Failures are logged and counted, never returned. A nil adapter is a no-op.
func Notify(ctx context.Context, a Adapter, event *StageCompletedEvent, logger *log.Logger, m *metrics.Collector) bool {
	if a == nil {
		return false
	}
	if logger == nil {
		logger = log.NewNop()
	}
	err := a.Publish(ctx, event)
	m.IncPublish(err == nil)
	if err != nil {
		logger.Warn("stage event publish failed", map[string]any{
			"stage": event.Stage,
			"error": err.Error(),
		})
		return false
	}
	logger.Debug("stage event published", map[string]any{"stage": event.Stage})
	return true
}

// RetryDelay returns the backoff before retry n (1-based): base, 2*base, 4*base...
func RetryDelay(base time.Duration, n int) time.Duration {
	if n < 1 {
		return 0
	}
	return base << (n - 1)
}

// Wait sleeps for d or until ctx is done.
func Wait(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
