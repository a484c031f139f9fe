package inference

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetryPolicy_Decide(t *testing.T) {
	p := DefaultRetryPolicy()
	failure := &Error{Kind: KindTransport, Message: "refused"}

	tests := []struct {
		name    string
		attempt int
		err     error
		want    Action
	}{
		{"success first attempt", 1, nil, Action{Type: ActionSucceed}},
		{"success last attempt", 3, nil, Action{Type: ActionSucceed}},
		{"failure attempt 1", 1, failure, Action{Type: ActionRetry, Delay: 1 * time.Second}},
		{"failure attempt 2", 2, failure, Action{Type: ActionRetry, Delay: 2 * time.Second}},
		{"failure attempt 3", 3, failure, Action{Type: ActionFail}},
		{"failure past budget", 4, failure, Action{Type: ActionFail}},
		{"empty response is transient", 1, &Error{Kind: KindEmptyResponse}, Action{Type: ActionRetry, Delay: time.Second}},
		{"plain error", 2, errors.New("x"), Action{Type: ActionRetry, Delay: 2 * time.Second}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Decide(tt.attempt, tt.err)
			if got != tt.want {
				t.Errorf("Decide(%d) = %+v (%s), want %+v (%s)", tt.attempt, got, got.Type, tt.want, tt.want.Type)
			}
		})
	}
}

func TestRetryPolicy_Backoff(t *testing.T) {
	p := RetryPolicy{MaxAttempts: 5, BaseDelay: time.Second}
	want := map[int]time.Duration{
		0: 0,
		1: 1 * time.Second,
		2: 2 * time.Second,
		3: 4 * time.Second,
		4: 8 * time.Second,
	}
	for attempt, d := range want {
		if got := p.Backoff(attempt); got != d {
			t.Errorf("Backoff(%d) = %v, want %v", attempt, got, d)
		}
	}
}

func TestRetryPolicy_SingleAttempt(t *testing.T) {
	p := RetryPolicy{MaxAttempts: 1, BaseDelay: time.Second}
	if got := p.Decide(1, errors.New("x")); got.Type != ActionFail {
		t.Errorf("Decide = %s, want fail", got.Type)
	}
}

func TestSleepCtx_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	start := time.Now()
	if err := sleepCtx(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if time.Since(start) > time.Second {
		t.Error("sleepCtx did not return promptly on cancel")
	}
}

func TestSleepCtx_Elapses(t *testing.T) {
	if err := sleepCtx(t.Context(), time.Millisecond); err != nil {
		t.Errorf("err = %v", err)
	}
}
