package types

import (
	"errors"

	"github.com/google/uuid"
)

// SessionMeta identifies one walk through the wizard.
// Every log line, export path and stage event carries the session ID.
type SessionMeta struct {
	// SessionID is a globally unique session identifier.
	SessionID string `msgpack:"session_id" json:"session_id"`
	// Stage is the stage currently being executed.
	Stage Stage `msgpack:"stage" json:"stage"`
}

// NewSessionMeta creates session metadata with a fresh random ID.
func NewSessionMeta(stage Stage) *SessionMeta {
	return &SessionMeta{
		SessionID: uuid.NewString(),
		Stage:     stage,
	}
}

// WithStage returns a copy of the metadata positioned at stage.
func (m SessionMeta) WithStage(stage Stage) *SessionMeta {
	m.Stage = stage
	return &m
}

// Validate checks that the session ID is present and well formed.
func (m *SessionMeta) Validate() error {
	if m.SessionID == "" {
		return errors.New("session_id must be non-empty")
	}
	if _, err := uuid.Parse(m.SessionID); err != nil {
		return errors.New("session_id must be a UUID")
	}
	return nil
}
