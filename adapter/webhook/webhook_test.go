package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pithecene-io/reqforge/adapter"
	"github.com/pithecene-io/reqforge/iox"
	"github.com/pithecene-io/reqforge/types"
)

func testEvent() *adapter.StageCompletedEvent {
	at := time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)
	return adapter.NewStageCompletedEvent(
		"2d1f8c52-4c6e-4b8e-9d8e-1f1f6f3c2a10",
		types.StageDiagram,
		"diagram_markup",
		"sessions/2d1f8c52-4c6e-4b8e-9d8e-1f1f6f3c2a10/diagram.puml",
		2, 1500*time.Millisecond, at,
	)
}

func fastConfig(url string, retries int) Config {
	return Config{URL: url, Retries: retries, Timeout: 5 * time.Second, BaseDelay: time.Millisecond}
}

func TestPublish_Success(t *testing.T) {
	var received adapter.StageCompletedEvent
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected application/json, got %s", ct)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &received); err != nil {
			t.Errorf("unmarshal: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	a, err := New(Config{URL: ts.URL})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer iox.DiscardClose(a)

	if err := a.Publish(t.Context(), testEvent()); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if received.EventType != "stage_completed" {
		t.Errorf("expected stage_completed, got %s", received.EventType)
	}
	if received.Stage != "diagram" || received.Kind != "diagram_markup" {
		t.Errorf("stage/kind = %s/%s", received.Stage, received.Kind)
	}
	if received.Attempts != 2 || received.DurationMs != 1500 {
		t.Errorf("attempts/duration = %d/%d", received.Attempts, received.DurationMs)
	}
	if received.Timestamp != "2026-02-07T12:00:00Z" {
		t.Errorf("timestamp = %s", received.Timestamp)
	}
}

func TestPublish_CustomHeaders(t *testing.T) {
	var authHeader atomic.Value
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader.Store(r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	a, err := New(Config{
		URL:     ts.URL,
		Headers: map[string]string{"Authorization": "Bearer test-token"},
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer iox.DiscardClose(a)

	if err := a.Publish(t.Context(), testEvent()); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if got := authHeader.Load(); got != "Bearer test-token" {
		t.Errorf("expected Bearer test-token, got %v", got)
	}
}

func TestPublish_RetriesThen2xx(t *testing.T) {
	var attempts atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if attempts.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer ts.Close()

	a, err := New(fastConfig(ts.URL, 3))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer iox.DiscardClose(a)

	if err := a.Publish(t.Context(), testEvent()); err != nil {
		t.Fatalf("publish should succeed after retries: %v", err)
	}
	if got := attempts.Load(); got != 3 {
		t.Errorf("expected 3 attempts, got %d", got)
	}
}

func TestPublish_StatusHandling(t *testing.T) {
	tests := []struct {
		code         int
		retries      int
		wantAttempts int32
	}{
		{http.StatusBadRequest, 3, 1},
		{http.StatusUnauthorized, 3, 1},
		{http.StatusNotFound, 3, 1},
		{http.StatusInternalServerError, 2, 3},
		{http.StatusServiceUnavailable, 2, 3},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.code), func(t *testing.T) {
			var attempts atomic.Int32
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				attempts.Add(1)
				w.WriteHeader(tt.code)
			}))
			defer ts.Close()

			a, err := New(fastConfig(ts.URL, tt.retries))
			if err != nil {
				t.Fatalf("new: %v", err)
			}
			defer iox.DiscardClose(a)

			err = a.Publish(t.Context(), testEvent())
			var statusErr *StatusError
			if !errors.As(err, &statusErr) || statusErr.Code != tt.code {
				t.Fatalf("err = %v, want StatusError %d", err, tt.code)
			}
			if got := attempts.Load(); got != tt.wantAttempts {
				t.Errorf("attempts = %d, want %d", got, tt.wantAttempts)
			}
		})
	}
}

func TestPublish_ContextCanceled(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()
	defer close(release)

	a, err := New(Config{URL: ts.URL, Timeout: 10 * time.Second})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer iox.DiscardClose(a)

	ctx, cancel := context.WithTimeout(t.Context(), 100*time.Millisecond)
	defer cancel()

	if err := a.Publish(ctx, testEvent()); err == nil {
		t.Fatal("expected error on canceled context")
	}
}

func TestNew_Validation(t *testing.T) {
	cases := []Config{
		{},
		{URL: "not a url"},
		{URL: "http://example.com", Retries: -1},
	}
	for _, cfg := range cases {
		if _, err := New(cfg); err == nil {
			t.Errorf("New(%+v) should fail", cfg)
		}
	}
}

func TestNew_Defaults(t *testing.T) {
	a, err := New(Config{URL: "http://example.com"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if a.config.Timeout != DefaultTimeout {
		t.Errorf("timeout = %v, want %v", a.config.Timeout, DefaultTimeout)
	}
	if a.config.BaseDelay != adapter.DefaultBaseDelay {
		t.Errorf("base delay = %v", a.config.BaseDelay)
	}
}
