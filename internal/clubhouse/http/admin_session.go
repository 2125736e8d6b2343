package http

import (
	"net/http"
	"slices"
	"time"

	"github.com/aussiebroadwan/clubhouse/internal/clubhouse/service"
	"github.com/aussiebroadwan/clubhouse/pkg/clubsdk"
	"github.com/aussiebroadwan/clubhouse/pkg/httpx"
	"github.com/aussiebroadwan/clubhouse/pkg/slogx"
)

// AdminSessionHandler handles admin sign-in and TOTP enrolment.
type AdminSessionHandler struct {
	AdminService  *service.AdminService
	Sessions      *service.SessionIssuer
	SecureCookies bool
}

// HandleLogin handles POST /v1/admin/login
//
//	@Summary		Admin sign-in
//	@Description	Checks username and password, and the TOTP code once MFA is enabled. Sets the admin session cookie.
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Param			request	body		clubsdk.AdminLoginRequest	true	"Credentials"
//	@Success		200		{object}	clubsdk.SessionResponse		"signed in"
//	@Failure		401		{object}	clubsdk.ErrorResponse		"invalid credentials or one-time code"
//	@Failure		429		{object}	clubsdk.ErrorResponse		"too many requests"
//	@Router			/v1/admin/login [post].
func (h *AdminSessionHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	log := slogx.FromContext(r.Context())

	var req clubsdk.AdminLoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	admin, amr, err := h.AdminService.Login(r.Context(), req.Username, req.Password, req.OTP)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	token, exp, err := h.Sessions.IssueAdmin(admin, amr)
	if err != nil {
		log.Error("failed to issue admin session", "admin_id", admin.ID, "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	setSessionCookie(w, AdminCookie, token, exp, h.SecureCookies)
	httpx.WriteJSON(w, http.StatusOK, clubsdk.SessionResponse{
		Success:   true,
		Subject:   admin.ID,
		Name:      admin.Username,
		LoginTime: time.Now().UTC(),
		ExpiresAt: exp,
		MFA:       slices.Contains(amr, service.AMROTP),
	})
}

// HandleLogout handles POST /v1/admin/logout
//
//	@Summary	Admin sign-out
//	@Tags		Admin
//	@Produce	json
//	@Success	200	{object}	clubsdk.SuccessResponse
//	@Router		/v1/admin/logout [post].
func (h *AdminSessionHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	clearSessionCookie(w, AdminCookie, h.SecureCookies)
	httpx.WriteJSON(w, http.StatusOK, httpx.OK())
}

// HandleSession handles GET /v1/admin/session
//
//	@Summary	The signed-in admin
//	@Tags		Admin
//	@Produce	json
//	@Security	AdminSession
//	@Success	200	{object}	clubsdk.SessionResponse
//	@Failure	401	{object}	clubsdk.ErrorResponse
//	@Router		/v1/admin/session [get].
func (h *AdminSessionHandler) HandleSession(w http.ResponseWriter, r *http.Request) {
	claims, _ := httpx.ClaimsFromContext(r.Context())

	resp := clubsdk.SessionResponse{
		Success: true,
		Subject: claims.Subject,
		Name:    claims.Username,
		MFA:     claims.HasMethod(service.AMROTP),
	}
	if claims.IssuedAt != nil {
		resp.LoginTime = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		resp.ExpiresAt = claims.ExpiresAt.Time
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleEnroll handles POST /v1/admin/mfa/enroll
//
//	@Summary		Start TOTP enrolment
//	@Description	Generates a TOTP secret for the signed-in admin. It takes effect after a successful verify.
//	@Tags			Admin
//	@Produce		json
//	@Security		AdminSession
//	@Success		200	{object}	clubsdk.MFAEnrollResponse
//	@Failure		401	{object}	clubsdk.ErrorResponse
//	@Failure		409	{object}	clubsdk.ErrorResponse	"already enabled"
//	@Router			/v1/admin/mfa/enroll [post].
func (h *AdminSessionHandler) HandleEnroll(w http.ResponseWriter, r *http.Request) {
	subject, _ := httpx.SubjectFromContext(r.Context())

	enr, err := h.AdminService.EnrollMFA(r.Context(), subject)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, clubsdk.MFAEnrollResponse{
		Success: true,
		Secret:  enr.Secret,
		URL:     enr.URL,
		Issuer:  enr.Issuer,
		Account: enr.Account,
	})
}

// HandleVerify handles POST /v1/admin/mfa/verify
//
//	@Summary		Confirm TOTP enrolment
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Security		AdminSession
//	@Param			request	body		clubsdk.MFAVerifyRequest	true	"Current code"
//	@Success		200		{object}	clubsdk.SuccessResponse
//	@Failure		400		{object}	clubsdk.ErrorResponse	"not enrolled"
//	@Failure		401		{object}	clubsdk.ErrorResponse	"invalid code"
//	@Router			/v1/admin/mfa/verify [post].
func (h *AdminSessionHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	var req clubsdk.MFAVerifyRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	subject, _ := httpx.SubjectFromContext(r.Context())
	if err := h.AdminService.VerifyMFA(r.Context(), subject, req.Code); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, clubsdk.SuccessResponse{Success: true, Message: "MFA enabled"})
}
