// Package observability provides structured logging for the adapter.
// Everything goes to stderr: in stdio mode stdout belongs to the protocol
// and must never carry log output. An optional Loki push mirrors tool-call
// and security events to a central store.
package observability

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init configures the global zerolog logger and the optional Loki client.
// Level comes from LOG_LEVEL (debug/info/warn/error, default info).
func Init() {
	zerolog.SetGlobalLevel(parseLevel(os.Getenv("LOG_LEVEL")))
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	initLoki()
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// LogToolCall records one tool execution.
func LogToolCall(requestID, tool string, durationMs int64, status, errMsg string) {
	evt := log.Info()
	if status != "success" {
		evt = log.Warn()
	}
	evt.Str("event", "tool_call").
		Str("request_id", requestID).
		Str("tool", tool).
		Int64("duration_ms", durationMs).
		Str("status", status)
	if errMsg != "" {
		evt.Str("error", errMsg)
	}
	evt.Send()

	pushLoki("tool_call", map[string]any{
		"request_id":  requestID,
		"tool":        tool,
		"duration_ms": durationMs,
		"status":      status,
		"error":       errMsg,
	})
}

// LogSecurityEvent records auth failures, panics, and similar events.
func LogSecurityEvent(requestID, event string, fields map[string]any) {
	log.Warn().
		Str("event", event).
		Str("request_id", requestID).
		Fields(fields).
		Send()

	payload := map[string]any{"request_id": requestID}
	for k, v := range fields {
		payload[k] = v
	}
	pushLoki(event, payload)
}
