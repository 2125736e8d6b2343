package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/aussiebroadwan/clubhouse/internal/clubhouse/store"
	"github.com/aussiebroadwan/clubhouse/pkg/clubsdk"
	"github.com/aussiebroadwan/clubhouse/pkg/httpx"
	"github.com/aussiebroadwan/clubhouse/pkg/jwtx"
)

// readinessTimeout bounds each dependency check.
const readinessTimeout = 2 * time.Second

// schemaVersioner is implemented by stores that track migrations.
type schemaVersioner interface {
	SchemaVersion() (uint, error)
}

// LivezHandler godoc
//
//	@Summary		Liveness check
//	@Description	Returns uptime and version. Always 200 while the process runs.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	clubsdk.HealthResponse	"status, uptime, version"
//	@Router			/livez [get].
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, clubsdk.HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).Round(time.Second).String(),
			Version: version,
		})
	}
}

// ReadyzHandler godoc
//
//	@Summary		Readiness check
//	@Description	Checks the database, the schema version, the session signing key and, when shared rate limits are on, Redis.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	clubsdk.HealthResponse	"every check ok"
//	@Failure		503	{object}	clubsdk.HealthResponse	"at least one check failed"
//	@Router			/readyz [get].
func ReadyzHandler(
	startTime time.Time,
	version string,
	st store.Store,
	keys *jwtx.KeySet,
	limiterPing func(context.Context) error,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ready := true
		run := func(check func(context.Context) error) string {
			ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
			defer cancel()
			if err := check(ctx); err != nil {
				ready = false
				return "error: " + err.Error()
			}
			return "ok"
		}

		checks := &clubsdk.HealthChecks{
			Database: run(st.Ping),
			Signer: run(func(context.Context) error {
				if !keys.IsReady() {
					return fmt.Errorf("no keys loaded")
				}
				return nil
			}),
		}
		if sv, ok := st.(schemaVersioner); ok {
			if v, err := sv.SchemaVersion(); err != nil {
				ready = false
				checks.Schema = "error: " + err.Error()
			} else {
				checks.Schema = fmt.Sprintf("v%d", v)
			}
		}
		if limiterPing != nil {
			checks.RateLimiter = run(limiterPing)
		}

		status, code := "ok", http.StatusOK
		if !ready {
			status, code = "degraded", http.StatusServiceUnavailable
		}
		httpx.WriteJSON(w, code, clubsdk.HealthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).Round(time.Second).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
