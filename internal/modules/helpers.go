package modules

import (
	"encoding/json"
	"fmt"

	"github.com/go-faster/errors"
)

// ToJSON marshals any value to a JSON string.
func ToJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal response")
	}
	return string(b), nil
}

// RawJSON pretty-prints a value for tool output.
func RawJSON(v any) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal response")
	}
	return string(b), nil
}

// ToStringSlice converts []interface{} (from MCP params) to []string.
// Non-string elements are silently skipped.
func ToStringSlice(v []interface{}) []string {
	out := make([]string, 0, len(v))
	for _, item := range v {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// StringParam reads an optional string param, returning fallback when absent.
func StringParam(params map[string]any, key, fallback string) string {
	if s, ok := params[key].(string); ok && s != "" {
		return s
	}
	return fallback
}

// BoolParam reads an optional boolean param, returning fallback when absent.
func BoolParam(params map[string]any, key string, fallback bool) bool {
	if b, ok := params[key].(bool); ok {
		return b
	}
	return fallback
}

// IntParam reads an optional numeric param (float64 on the wire), returning
// fallback when absent or non-numeric.
func IntParam(params map[string]any, key string, fallback int) int {
	if f, ok := params[key].(float64); ok {
		return int(f)
	}
	return fallback
}

// RequireString reads a required string param. ValidateParams already
// guarantees presence for declared required fields; this guards handlers
// called outside that path.
func RequireString(params map[string]any, key string) (string, error) {
	s, ok := params[key].(string)
	if !ok || s == "" {
		return "", fmt.Errorf("missing required parameter(s): %s", key)
	}
	return s, nil
}
