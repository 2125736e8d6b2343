package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/aussiebroadwan/clubhouse/internal/clubhouse/service"
	"github.com/aussiebroadwan/clubhouse/pkg/clubsdk"
	"github.com/aussiebroadwan/clubhouse/pkg/httpx"
	"github.com/aussiebroadwan/clubhouse/pkg/slogx"
)

// ActivationHandler lets a newly approved member set their password.
type ActivationHandler struct {
	ApplicationService *service.ApplicationService
	Sessions           *service.SessionIssuer
	SiteURL            string
	SecureCookies      bool
}

func (h *ActivationHandler) loginURL() string {
	return strings.TrimRight(h.SiteURL, "/") + "/login"
}

// HandleGet handles GET /v1/activate/{token}
//
//	@Summary		Inspect an activation link
//	@Description	Returns the name and email the link activates. Once activated the link redirects to the login page.
//	@Tags			Activation
//	@Produce		json
//	@Param			token	path		string						true	"Activation token"
//	@Success		200		{object}	clubsdk.ActivationResponse	"pending activation"
//	@Success		303		"already activated, see login"
//	@Failure		404		{object}	clubsdk.ErrorResponse	"unknown token"
//	@Router			/v1/activate/{token} [get].
func (h *ActivationHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	act, err := h.ApplicationService.GetActivation(r.Context(), r.PathValue("token"))
	if errors.Is(err, service.ErrAlreadyActivated) {
		http.Redirect(w, r, h.loginURL(), http.StatusSeeOther)
		return
	}
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, clubsdk.ActivationResponse{
		Success: true,
		Name:    act.Member.Name,
		Email:   act.Member.Email,
	})
}

// HandlePost handles POST /v1/activate/{token}
//
//	@Summary		Activate a membership
//	@Description	Sets the member's password and signs them in with a member session cookie.
//	@Tags			Activation
//	@Accept			json
//	@Produce		json
//	@Param			token	path		string					true	"Activation token"
//	@Param			request	body		clubsdk.PasswordRequest	true	"New password"
//	@Success		200		{object}	clubsdk.SessionResponse	"signed in"
//	@Success		303		"already activated, see login"
//	@Failure		400		{object}	clubsdk.ErrorResponse	"weak password"
//	@Failure		404		{object}	clubsdk.ErrorResponse	"unknown token"
//	@Router			/v1/activate/{token} [post].
func (h *ActivationHandler) HandlePost(w http.ResponseWriter, r *http.Request) {
	log := slogx.FromContext(r.Context())

	var req clubsdk.PasswordRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	member, err := h.ApplicationService.Activate(r.Context(), r.PathValue("token"), req.Password)
	if errors.Is(err, service.ErrAlreadyActivated) {
		http.Redirect(w, r, h.loginURL(), http.StatusSeeOther)
		return
	}
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	token, exp, err := h.Sessions.IssueMember(member)
	if err != nil {
		log.Error("failed to issue member session", "member_id", member.ID, "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	setSessionCookie(w, MemberCookie, token, exp, h.SecureCookies)
	httpx.WriteJSON(w, http.StatusOK, clubsdk.SessionResponse{
		Success:   true,
		Subject:   member.ID,
		Name:      member.Name,
		LoginTime: time.Now().UTC(),
		ExpiresAt: exp,
	})
}
