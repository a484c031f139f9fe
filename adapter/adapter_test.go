package adapter

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/pithecene-io/reqforge/log"
	"github.com/pithecene-io/reqforge/metrics"
	"github.com/pithecene-io/reqforge/types"
)

type stubAdapter struct {
	err    error
	events []*StageCompletedEvent
}

func (s *stubAdapter) Publish(_ context.Context, e *StageCompletedEvent) error {
	s.events = append(s.events, e)
	return s.err
}

func (s *stubAdapter) Close() error { return nil }

func TestNewStageCompletedEvent(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 30, 0, 0, time.FixedZone("x", 3600))
	e := NewStageCompletedEvent("sess", types.StageAPISpec, "api_spec_document", "sessions/sess/openapi-spec.yaml", 2, 1500*time.Millisecond, at)

	if e.EventType != EventTypeStageCompleted || e.Stage != "openapi" || e.Version != types.Version {
		t.Errorf("event = %+v", e)
	}
	if e.DurationMs != 1500 || e.Attempts != 2 {
		t.Errorf("duration/attempts = %d/%d", e.DurationMs, e.Attempts)
	}
	if e.Timestamp != "2026-03-01T11:30:00Z" {
		t.Errorf("timestamp = %q", e.Timestamp)
	}
}

func TestNotify_FailureIsNotFatal(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewNop().WithOutput(&buf)
	m := metrics.NewCollector("m", "fs", "s")
	a := &stubAdapter{err: errors.New("down")}

	ok := Notify(t.Context(), a, NewStageCompletedEvent("s", types.StageCode, "", "", 1, 0, time.Now()), logger, m)
	if ok {
		t.Error("Notify should report failure")
	}
	if !strings.Contains(buf.String(), "stage event publish failed") {
		t.Errorf("failure not logged: %s", buf.String())
	}
	if s := m.Snapshot(); s.PublishFailure != 1 {
		t.Errorf("PublishFailure = %d", s.PublishFailure)
	}
}

func TestNotify_Success(t *testing.T) {
	m := metrics.NewCollector("m", "fs", "s")
	a := &stubAdapter{}
	if !Notify(t.Context(), a, &StageCompletedEvent{Stage: "diagram"}, nil, m) {
		t.Error("Notify should succeed")
	}
	if len(a.events) != 1 || m.Snapshot().PublishSuccess != 1 {
		t.Errorf("events = %d, snapshot = %+v", len(a.events), m.Snapshot())
	}
}

func TestNotify_NilAdapter(t *testing.T) {
	if Notify(t.Context(), nil, &StageCompletedEvent{}, nil, nil) {
		t.Error("nil adapter should report false")
	}
}

func TestRetryDelay(t *testing.T) {
	base := 500 * time.Millisecond
	want := []time.Duration{0, 500 * time.Millisecond, time.Second, 2 * time.Second}
	for n, w := range want {
		if got := RetryDelay(base, n); got != w {
			t.Errorf("RetryDelay(%d) = %v, want %v", n, got, w)
		}
	}
}

func TestWait_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	if err := Wait(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v", err)
	}
}
