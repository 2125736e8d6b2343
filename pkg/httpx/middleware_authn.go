package httpx

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/clubhouse/pkg/jwtx"
	"github.com/aussiebroadwan/clubhouse/pkg/slogx"
)

// SessionMiddleware verifies the signed session cookie named cookie on every
// request. A missing, tampered or expired session answers 401 before the
// handler runs.
func SessionMiddleware(v jwtx.Verifier, cookie string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := verifySession(r, v, cookie)
			if !ok {
				WriteError(w, http.StatusUnauthorized, "Authentication required")
				return
			}

			ctx := ContextWithClaims(r.Context(), claims)
			ctx = slogx.With(ctx, "subject", claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalSessionMiddleware injects claims when a valid session is present
// and otherwise lets the request through anonymously.
func OptionalSessionMiddleware(v jwtx.Verifier, cookie string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if claims, ok := verifySession(r, v, cookie); ok {
				r = r.WithContext(ContextWithClaims(r.Context(), claims))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SessionSource pairs a session cookie with the verifier for its audience.
type SessionSource struct {
	Verifier jwtx.Verifier
	Cookie   string
}

// AnySessionMiddleware accepts the first valid session among sources, in
// order. Routes open to both members and admins use it.
func AnySessionMiddleware(sources ...SessionSource) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, src := range sources {
				claims, ok := verifySession(r, src.Verifier, src.Cookie)
				if !ok {
					continue
				}
				ctx := ContextWithClaims(r.Context(), claims)
				ctx = slogx.With(ctx, "subject", claims.Subject)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
			WriteError(w, http.StatusUnauthorized, "Authentication required")
		})
	}
}

func verifySession(r *http.Request, v jwtx.Verifier, cookie string) (jwtx.Claims, bool) {
	log := slogx.FromContext(r.Context())

	c, err := r.Cookie(cookie)
	if err != nil || strings.TrimSpace(c.Value) == "" {
		return jwtx.Claims{}, false
	}

	claims, err := v.Verify(c.Value)
	if err != nil {
		log.Warn("session verify failed", "cookie", cookie, "err", err)
		return jwtx.Claims{}, false
	}
	return claims, true
}
