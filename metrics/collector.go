// Package metrics provides per-session counters for inference calls,
// normalization outcomes, exports and stage notifications.
//
// The Collector is a leaf package with no internal dependencies. Kind and
// stage labels are plain strings so that inference and artifact can record
// into it without importing each other.
package metrics

import "sync"

// Snapshot is an immutable point-in-time view of all counters.
// Returned by Collector.Snapshot(). Safe to read concurrently after creation.
type Snapshot struct {
	// Inference
	InvocationsStarted   int64            `json:"invocations_started"`
	InvocationsSucceeded int64            `json:"invocations_succeeded"`
	InvocationsFailed    int64            `json:"invocations_failed"`
	Attempts             int64            `json:"attempts"`
	Retries              int64            `json:"retries"`
	FailuresByKind       map[string]int64 `json:"failures_by_kind"`

	// Normalization
	ArtifactsValid   int64            `json:"artifacts_valid"`
	ArtifactsInvalid int64            `json:"artifacts_invalid"`
	InvalidByKind    map[string]int64 `json:"invalid_by_kind"`

	// Export / notification
	ExportSuccess  int64 `json:"export_success"`
	ExportFailure  int64 `json:"export_failure"`
	PublishSuccess int64 `json:"publish_success"`
	PublishFailure int64 `json:"publish_failure"`

	// Dimensions (informational, set at construction)
	Model          string `json:"model"`
	StorageBackend string `json:"storage_backend"`
	SessionID      string `json:"session_id"`
}

// Collector accumulates counters during a session.
// Thread-safe via sync.Mutex. All increment methods are nil-receiver safe.
type Collector struct {
	mu sync.Mutex

	invocationsStarted   int64
	invocationsSucceeded int64
	invocationsFailed    int64
	attempts             int64
	retries              int64
	failuresByKind       map[string]int64

	artifactsValid   int64
	artifactsInvalid int64
	invalidByKind    map[string]int64

	exportSuccess  int64
	exportFailure  int64
	publishSuccess int64
	publishFailure int64

	model          string
	storageBackend string
	sessionID      string
}

// NewCollector creates a Collector with dimension labels.
func NewCollector(model, storageBackend, sessionID string) *Collector {
	return &Collector{
		failuresByKind: make(map[string]int64),
		invalidByKind:  make(map[string]int64),
		model:          model,
		storageBackend: storageBackend,
		sessionID:      sessionID,
	}
}

// --- Inference ---

// IncInvocationStarted records the start of one logical Invoke call.
func (c *Collector) IncInvocationStarted() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.invocationsStarted++
	c.mu.Unlock()
}

// IncAttempt records one HTTP attempt. Every attempt after the first of an
// invocation is also counted as a retry.
func (c *Collector) IncAttempt(retry bool) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.attempts++
	if retry {
		c.retries++
	}
	c.mu.Unlock()
}

// IncInvocationSucceeded records an invocation that returned text.
func (c *Collector) IncInvocationSucceeded() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.invocationsSucceeded++
	c.mu.Unlock()
}

// IncInvocationFailed records a terminal invocation failure of the given kind.
func (c *Collector) IncInvocationFailed(kind string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.invocationsFailed++
	c.failuresByKind[kind]++
	c.mu.Unlock()
}

// --- Normalization ---

// IncArtifactValid records a successful normalization.
func (c *Collector) IncArtifactValid() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.artifactsValid++
	c.mu.Unlock()
}

// IncArtifactInvalid records a rejected artifact of the given kind.
func (c *Collector) IncArtifactInvalid(kind string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.artifactsInvalid++
	c.invalidByKind[kind]++
	c.mu.Unlock()
}

// --- Export / notification ---

// IncExport records the outcome of one export write.
func (c *Collector) IncExport(ok bool) {
	if c == nil {
		return
	}
	c.mu.Lock()
	if ok {
		c.exportSuccess++
	} else {
		c.exportFailure++
	}
	c.mu.Unlock()
}

// IncPublish records the outcome of one stage event publish.
func (c *Collector) IncPublish(ok bool) {
	if c == nil {
		return
	}
	c.mu.Lock()
	if ok {
		c.publishSuccess++
	} else {
		c.publishFailure++
	}
	c.mu.Unlock()
}

// --- Snapshot ---

// Snapshot returns an immutable point-in-time view of all counters.
// The returned Snapshot is safe to read concurrently; the Collector can
// continue to be mutated independently.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	return Snapshot{
		InvocationsStarted:   c.invocationsStarted,
		InvocationsSucceeded: c.invocationsSucceeded,
		InvocationsFailed:    c.invocationsFailed,
		Attempts:             c.attempts,
		Retries:              c.retries,
		FailuresByKind:       copyCounts(c.failuresByKind),

		ArtifactsValid:   c.artifactsValid,
		ArtifactsInvalid: c.artifactsInvalid,
		InvalidByKind:    copyCounts(c.invalidByKind),

		ExportSuccess:  c.exportSuccess,
		ExportFailure:  c.exportFailure,
		PublishSuccess: c.publishSuccess,
		PublishFailure: c.publishFailure,

		Model:          c.model,
		StorageBackend: c.storageBackend,
		SessionID:      c.sessionID,
	}
}

func copyCounts(src map[string]int64) map[string]int64 {
	dst := make(map[string]int64, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
