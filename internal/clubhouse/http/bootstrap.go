package http

import (
	"net/http"

	"github.com/aussiebroadwan/clubhouse/internal/clubhouse/service"
	"github.com/aussiebroadwan/clubhouse/pkg/clubsdk"
	"github.com/aussiebroadwan/clubhouse/pkg/httpx"
	"github.com/aussiebroadwan/clubhouse/pkg/slogx"
)

type BootstrapHandler struct {
	BootstrapService *service.BootstrapService
}

// ServeHTTP handles the bootstrap endpoint for initial system setup.
//
//	@Summary		Bootstrap the clubhouse
//	@Description	Creates the first admin and the root member. Only available when a bootstrap token is configured, and only once.
//	@Tags			Bootstrap
//	@Accept			json
//	@Produce		json
//	@Param			X-Bootstrap-Token	header		string						true	"Bootstrap token for authorization"
//	@Param			request				body		clubsdk.BootstrapRequest	true	"Admin and root member credentials"
//	@Success		201					{object}	clubsdk.BootstrapResponse	"admin and root member IDs"
//	@Failure		400					{object}	clubsdk.ErrorResponse		"Invalid request body or validation failed"
//	@Failure		401					{object}	clubsdk.ErrorResponse		"Missing or invalid bootstrap token, or system already bootstrapped"
//	@Failure		404					{object}	clubsdk.ErrorResponse		"Bootstrap not enabled (no token configured)"
//	@Failure		500					{object}	clubsdk.ErrorResponse		"Internal server error"
//	@Router			/v1/bootstrap [post].
func (h *BootstrapHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	l := slogx.FromContext(r.Context())
	l.Info("Starting to bootstrap")

	// 1. Check if enabled
	if h.BootstrapService.Token == "" {
		httpx.WriteError(w, http.StatusNotFound, "Bootstrap endpoint is not enabled")
		return
	}

	// 2. Require bootstrap token header
	token := r.Header.Get("X-Bootstrap-Token")
	if token == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "Bootstrap token is required in X-Bootstrap-Token header")
		return
	}

	// 3. Parse request body
	var req clubsdk.BootstrapRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	// 4. Perform bootstrap
	res, err := h.BootstrapService.Bootstrap(r.Context(), token, service.BootstrapInput{
		AdminUsername:  req.AdminUsername,
		AdminPassword:  req.AdminPassword,
		MemberName:     req.MemberName,
		MemberPassword: req.MemberPassword,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	// 5. Respond with created IDs
	httpx.WriteJSON(w, http.StatusCreated, clubsdk.BootstrapResponse{
		Success:      true,
		AdminID:      res.Admin.ID,
		RootMemberID: res.Member.ID,
	})
}
