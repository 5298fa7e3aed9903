package canvasapi

import (
	"encoding/json"
	"fmt"
	"strings"
)

// UnknownErrorMessage is the fixed marker for failures that carry neither a
// structured upstream payload nor a transport description.
const UnknownErrorMessage = "unknown error"

// APIError is the single error shape for all gateway failures.
// Exactly one of three cases applies, in order of preference:
// a structured upstream "errors" payload, a transport/decode description,
// or the fixed unknown-error marker.
type APIError struct {
	StatusCode int
	Errors     json.RawMessage // upstream "errors" field, serialized verbatim
	Message    string          // transport failure description
}

func (e *APIError) Error() string {
	switch {
	case len(e.Errors) > 0:
		return fmt.Sprintf("canvas API error (status %d): %s", e.StatusCode, string(e.Errors))
	case e.Message != "":
		return e.Message
	default:
		return UnknownErrorMessage
	}
}

// maxBodySnippet bounds how much of a non-JSON error body ends up in messages.
const maxBodySnippet = 512

// normalizeError converts a non-2xx response into an *APIError,
// special-casing the Canvas {"errors": ...} body shape.
func normalizeError(status int, body []byte) *APIError {
	var payload struct {
		Errors json.RawMessage `json:"errors"`
	}
	if err := json.Unmarshal(body, &payload); err == nil &&
		len(payload.Errors) > 0 && string(payload.Errors) != "null" {
		return &APIError{StatusCode: status, Errors: payload.Errors}
	}

	msg := strings.TrimSpace(string(body))
	if len(msg) > maxBodySnippet {
		msg = msg[:maxBodySnippet]
	}
	if msg != "" {
		return &APIError{
			StatusCode: status,
			Message:    fmt.Sprintf("request failed with status %d: %s", status, msg),
		}
	}
	return &APIError{StatusCode: status}
}
