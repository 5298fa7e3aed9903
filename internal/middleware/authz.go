package middleware

import (
	"net/http"
	"strings"

	"canvasmcp/server/internal/auth"
	"canvasmcp/server/internal/modules"
	"canvasmcp/server/internal/observability"
)

// Authorize is HTTP middleware that verifies the bearer API key on the
// transport endpoint. It is a no-op when no signing key is configured, so
// local single-user deployments need no key handling.
func Authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !auth.Enabled() {
			next.ServeHTTP(w, r)
			return
		}

		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if token == "" {
			observability.LogSecurityEvent(modules.RequestIDFromContext(r.Context()), "missing_api_key", map[string]any{
				"remote_addr": r.RemoteAddr,
			})
			http.Error(w, `{"error":"unauthorized","message":"Missing API key"}`, http.StatusUnauthorized)
			return
		}

		if _, err := auth.VerifyAPIKey(token); err != nil {
			observability.LogSecurityEvent(modules.RequestIDFromContext(r.Context()), "invalid_api_key", map[string]any{
				"remote_addr": r.RemoteAddr,
				"error":       err.Error(),
			})
			http.Error(w, `{"error":"unauthorized","message":"Invalid API key"}`, http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}
