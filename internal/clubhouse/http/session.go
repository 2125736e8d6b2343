package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/aussiebroadwan/clubhouse/internal/clubhouse/service"
	"github.com/aussiebroadwan/clubhouse/pkg/httpx"
	"github.com/aussiebroadwan/clubhouse/pkg/slogx"
)

const (
	AdminCookie  = "clubhouse_admin"
	MemberCookie = "clubhouse_member"
)

func setSessionCookie(w http.ResponseWriter, name, token string, expires time.Time, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter, name string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// requireAdmin rejects a signed session whose admin has since been removed.
func requireAdmin(admins *service.AdminService) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject, _ := httpx.SubjectFromContext(r.Context())
			if _, err := admins.Get(r.Context(), subject); err != nil {
				if !errors.Is(err, service.ErrAdminNotFound) {
					slogx.FromContext(r.Context()).Error("failed to load session admin", "err", err)
					httpx.WriteError(w, http.StatusInternalServerError, "Internal server error")
					return
				}
				httpx.WriteError(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requireSessionHolder re-checks whichever session AnySessionMiddleware
// accepted: admins must still exist, members must still be active.
func requireSessionHolder(admins *service.AdminService, members *service.MemberService) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		asAdmin := requireAdmin(admins)(next)
		asMember := requireActiveMember(members)(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, _ := httpx.ClaimsFromContext(r.Context())
			if claims.HasScope(service.ScopeAdmin) {
				asAdmin.ServeHTTP(w, r)
				return
			}
			asMember.ServeHTTP(w, r)
		})
	}
}

// requireActiveMember rejects a signed session whose member was deleted or
// deactivated after sign-in.
func requireActiveMember(members *service.MemberService) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject, _ := httpx.SubjectFromContext(r.Context())
			m, err := members.Get(r.Context(), subject)
			switch {
			case errors.Is(err, service.ErrMemberNotFound):
				httpx.WriteError(w, http.StatusUnauthorized, "Authentication required")
				return
			case err != nil:
				slogx.FromContext(r.Context()).Error("failed to load session member", "err", err)
				httpx.WriteError(w, http.StatusInternalServerError, "Internal server error")
				return
			case !m.Active:
				httpx.WriteError(w, http.StatusForbidden, "Membership is inactive")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
