package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/clubhouse/pkg/cryptox"
	"github.com/aussiebroadwan/clubhouse/pkg/httpx"
	"github.com/aussiebroadwan/clubhouse/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const testIssuer = "clubhouse-test"

func newSession(t *testing.T, audience string, scopes []string, ttl time.Duration) (string, jwtx.Verifier) {
	t.Helper()

	pemKey, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)
	signer, err := jwtx.NewSignerEdDSA("session", pemKey)
	require.NoError(t, err)

	claims := jwtx.NewSessionClaims("01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZV", "admin", "Admin",
		scopes, []string{"pwd"}, ttl, testIssuer, audience, time.Now().Add(-time.Minute))
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	keys := jwtx.NewKeySet()
	keys.AddSigner(signer)
	return token, jwtx.NewSessionVerifier(keys, testIssuer, audience)
}

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(name string) httpx.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := httpx.Chain(okHandler(), mark("first"), mark("second"), mark("third"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, []string{"first", "second", "third"}, order)
}

func TestSessionMiddleware(t *testing.T) {
	token, verifier := newSession(t, jwtx.AudienceAdmin, []string{"admin"}, time.Hour)

	var subject string
	h := httpx.SessionMiddleware(verifier, "clubhouse_admin")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject, _ = httpx.SubjectFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("valid cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "clubhouse_admin", Value: token})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZV", subject)
	})

	t.Run("missing cookie", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Body.String(), "Authentication required")
	})

	t.Run("tampered cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "clubhouse_admin", Value: token[:len(token)-4] + "AAAA"})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("member cookie is not an admin session", func(t *testing.T) {
		memberToken, _ := newSession(t, jwtx.AudienceMember, nil, time.Hour)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "clubhouse_admin", Value: memberToken})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestOptionalSessionMiddleware(t *testing.T) {
	token, verifier := newSession(t, jwtx.AudienceMember, nil, time.Hour)

	var authed bool
	h := httpx.OptionalSessionMiddleware(verifier, "clubhouse_member")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, authed = httpx.SubjectFromContext(r.Context())
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.False(t, authed)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "clubhouse_member", Value: token})
	h.ServeHTTP(httptest.NewRecorder(), req)
	require.True(t, authed)
}

func TestAnySessionMiddleware(t *testing.T) {
	memberToken, memberVerifier := newSession(t, jwtx.AudienceMember, []string{"member"}, time.Hour)
	adminToken, adminVerifier := newSession(t, jwtx.AudienceAdmin, []string{"admin"}, time.Hour)

	var admin bool
	h := httpx.AnySessionMiddleware(
		httpx.SessionSource{Verifier: memberVerifier, Cookie: "clubhouse_member"},
		httpx.SessionSource{Verifier: adminVerifier, Cookie: "clubhouse_admin"},
	)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, _ := httpx.ClaimsFromContext(r.Context())
		admin = claims.HasScope("admin")
	}))

	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	req.AddCookie(&http.Cookie{Name: "clubhouse_admin", Value: adminToken})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, admin)

	req = httptest.NewRequest(http.MethodDelete, "/", nil)
	req.AddCookie(&http.Cookie{Name: "clubhouse_member", Value: memberToken})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.False(t, admin)

	// A member token presented under the admin cookie fails the audience check.
	req = httptest.NewRequest(http.MethodDelete, "/", nil)
	req.AddCookie(&http.Cookie{Name: "clubhouse_admin", Value: memberToken})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAnyScope(t *testing.T) {
	token, verifier := newSession(t, jwtx.AudienceAdmin, []string{"admin"}, time.Hour)

	for _, tc := range []struct {
		scope string
		code  int
	}{
		{"admin", http.StatusOK},
		{"root", http.StatusForbidden},
	} {
		t.Run(tc.scope, func(t *testing.T) {
			h := httpx.Chain(okHandler(),
				httpx.SessionMiddleware(verifier, "clubhouse_admin"),
				httpx.RequireAnyScope(tc.scope),
			)
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.AddCookie(&http.Cookie{Name: "clubhouse_admin", Value: token})
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			require.Equal(t, tc.code, rec.Code)
		})
	}
}

func TestAPIKeyMiddleware(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		header string
		code   int
		body   string
	}{
		{"valid key", "s3cret", "Bearer s3cret", http.StatusOK, ""},
		{"missing header", "s3cret", "", http.StatusUnauthorized, "Missing API key"},
		{"wrong scheme", "s3cret", "Basic s3cret", http.StatusUnauthorized, "Missing API key"},
		{"wrong key", "s3cret", "Bearer nope", http.StatusUnauthorized, "Invalid API key"},
		{"prefix of key", "s3cret", "Bearer s3c", http.StatusUnauthorized, "Invalid API key"},
		{"not configured", "", "Bearer anything", http.StatusServiceUnavailable, "not configured"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := httpx.APIKeyMiddleware(tc.key)(okHandler())
			req := httptest.NewRequest(http.MethodGet, "/v1/mobile/members", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			require.Equal(t, tc.code, rec.Code)
			if tc.body != "" {
				require.Contains(t, rec.Body.String(), tc.body)
			}
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	var v struct {
		Name string `json:"name"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Ada"}`))
	require.NoError(t, httpx.DecodeJSON(req, &v))
	require.Equal(t, "Ada", v.Name)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Ada"} {}`))
	require.ErrorIs(t, httpx.DecodeJSON(req, &v), httpx.ErrBadJSON)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`not json`))
	require.ErrorIs(t, httpx.DecodeJSON(req, &v), httpx.ErrBadJSON)
}

func TestQueryInt(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?limit=500&offset=-1&page=abc&n=7", nil)
	require.Equal(t, 100, httpx.QueryInt(req, "limit", 20, 100))
	require.Equal(t, 0, httpx.QueryInt(req, "offset", 0, 0))
	require.Equal(t, 1, httpx.QueryInt(req, "page", 1, 0))
	require.Equal(t, 7, httpx.QueryInt(req, "n", 1, 10))
	require.Equal(t, 20, httpx.QueryInt(req, "missing", 20, 100))
}
