package inference

import (
	"context"
	"time"
)

// DefaultMaxAttempts is the attempt budget of one Invoke call.
const DefaultMaxAttempts = 3

// DefaultBaseDelay is the backoff after the first failed attempt.
const DefaultBaseDelay = time.Second

// ActionType is the decision taken after an attempt.
type ActionType int

const (
	// ActionSucceed returns the attempt's text.
	ActionSucceed ActionType = iota
	// ActionRetry waits Delay and makes another attempt.
	ActionRetry
	// ActionFail returns the attempt's error as terminal.
	ActionFail
)

func (a ActionType) String() string {
	switch a {
	case ActionSucceed:
		return "succeed"
	case ActionRetry:
		return "retry"
	case ActionFail:
		return "fail"
	default:
		return "unknown"
	}
}

// Action is the outcome of RetryPolicy.Decide.
type Action struct {
	Type  ActionType
	Delay time.Duration
}

// RetryPolicy is a bounded exponential backoff policy.
// The wait after failed attempt n is BaseDelay * 2^(n-1).
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// DefaultRetryPolicy returns 3 attempts with 1s, 2s backoff.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: DefaultMaxAttempts, BaseDelay: DefaultBaseDelay}
}

// Decide maps (attempt number starting at 1, attempt error) to the next action.
// Every failure kind is transient; only the attempt budget ends the loop.
func (p RetryPolicy) Decide(attempt int, err error) Action {
	if err == nil {
		return Action{Type: ActionSucceed}
	}
	if attempt >= p.MaxAttempts {
		return Action{Type: ActionFail}
	}
	return Action{Type: ActionRetry, Delay: p.Backoff(attempt)}
}

// Backoff returns the wait after failed attempt n (n >= 1).
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	if attempt < 1 {
		return 0
	}
	return p.BaseDelay * time.Duration(1<<uint(attempt-1))
}

// sleepCtx waits d or until ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
