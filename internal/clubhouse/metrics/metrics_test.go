package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCanonicalPath(t *testing.T) {
	tests := map[string]string{
		"/":            "/",
		"/v1/sponsors": "/v1/sponsors",
		"/v1/forum/posts/01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZV/comments":       "/v1/forum/posts/:id/comments",
		"/v1/applications/3q2-7wEjhb8b7KkL0M3X2Q5g-sv9pXaQ/approve": "/v1/applications/:id/approve",
		"/uploads/sponsors/abc.png":                                 "/uploads",
		"/swagger/index.html":                                       "/swagger",
	}
	for in, want := range tests {
		require.Equal(t, want, canonicalPath(in), in)
	}
}

func TestHandlerExposesCollectors(t *testing.T) {
	RecordApplicationTransition("APPROVED")
	RecordSponsorRateLimited()
	RecordEmail("welcome", nil)
	RecordEmail("welcome", errors.New("boom"))
	RecordJob("expire_applications", 0, true)

	h := InstrumentHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/sponsors", nil))

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	for _, want := range []string{
		`clubhouse_applications_transitions_total{status="approved"}`,
		`clubhouse_applications_sponsor_rate_limited_total`,
		`clubhouse_email_sent_total{kind="welcome",result="failed"}`,
		`clubhouse_housekeeping_runs_total{job="expire_applications",success="true"}`,
		`clubhouse_http_requests_total{method="GET",path="/v1/sponsors",status="418"}`,
	} {
		require.True(t, strings.Contains(body, want), "missing %s", want)
	}
}
