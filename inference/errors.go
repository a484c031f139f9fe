package inference

import (
	"errors"
	"fmt"
)

// Kind classifies an inference failure.
type Kind string

// Failure kinds.
const (
	// KindTransport: service unreachable, non-2xx status or malformed body.
	KindTransport Kind = "transport"
	// KindServerError: service reachable but reported an error.
	KindServerError Kind = "server_error"
	// KindEmptyResponse: well-formed response without generated text.
	KindEmptyResponse Kind = "empty_response"
	// KindTimeout: the attempt exceeded its deadline.
	KindTimeout Kind = "timeout"
)

// Error is the failure half of an inference result.
// Invoke never returns text together with an *Error.
type Error struct {
	// Kind classifies the failure of the last attempt.
	Kind Kind
	// Message is a human-readable description.
	Message string
	// Attempts is the number of attempts made before giving up.
	Attempts int
	// StatusCode is the HTTP status of the last attempt, 0 if none was received.
	StatusCode int
	// Err is the underlying error, if any.
	Err error
}

func (e *Error) Error() string {
	if e.Attempts > 0 {
		return fmt.Sprintf("inference %s after %d attempt(s): %s", e.Kind, e.Attempts, e.Message)
	}
	return fmt.Sprintf("inference %s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the failure kind of err, or "" if err is not an inference error.
func KindOf(err error) Kind {
	var ie *Error
	if errors.As(err, &ie) {
		return ie.Kind
	}
	return ""
}

// Remediation returns the suggestion shown next to a failure message.
func Remediation(err error) string {
	switch KindOf(err) {
	case KindTransport, KindServerError:
		return "Please make sure the inference service is running (ollama serve) and the model is installed (ollama pull " + DefaultModel + ")."
	case KindTimeout:
		return "The inference service did not answer in time; it may be overloaded. Try again or raise the timeout."
	case KindEmptyResponse:
		return "The model returned no usable text. Try again with different input."
	default:
		return ""
	}
}
