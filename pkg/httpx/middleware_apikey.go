package httpx

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/clubhouse/pkg/cryptox"
	"github.com/aussiebroadwan/clubhouse/pkg/slogx"
)

// APIKeyMiddleware guards machine endpoints with a static bearer key. The
// presented key must equal the configured key exactly; the comparison runs
// in constant time. An empty configured key disables the endpoints entirely.
func APIKeyMiddleware(key string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key == "" {
				WriteError(w, http.StatusServiceUnavailable, "API access is not configured")
				return
			}

			authz := r.Header.Get("Authorization")
			if !strings.HasPrefix(authz, "Bearer ") {
				w.Header().Set("WWW-Authenticate", `Bearer realm="clubhouse"`)
				WriteError(w, http.StatusUnauthorized, "Missing API key")
				return
			}

			presented := strings.TrimPrefix(authz, "Bearer ")
			if !cryptox.EqualConstantTime(presented, key) {
				slogx.FromContext(r.Context()).Warn("api key rejected", "remote_addr", r.RemoteAddr)
				w.Header().Set("WWW-Authenticate", `Bearer realm="clubhouse", error="invalid_token"`)
				WriteError(w, http.StatusUnauthorized, "Invalid API key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
