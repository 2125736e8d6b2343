package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/clubhouse/internal/clubhouse/domain"
	"github.com/aussiebroadwan/clubhouse/internal/clubhouse/service"
	"github.com/aussiebroadwan/clubhouse/pkg/clubsdk"
	"github.com/aussiebroadwan/clubhouse/pkg/httpx"
)

// ApplicationsHandler serves the applicant and sponsor side of the
// application state machine.
type ApplicationsHandler struct {
	ApplicationService     *service.ApplicationService
	ExposeVerificationCode bool
}

// HandleCreate handles POST /v1/applications
//
//	@Summary		Submit a membership application
//	@Description	Creates a PENDING application and emails the sponsor an approval link and code. The code is echoed back only when the server exposes verification codes.
//	@Tags			Applications
//	@Accept			json
//	@Produce		json
//	@Param			request	body		clubsdk.ApplicationRequest			true	"Applicant details and sponsor email"
//	@Success		201		{object}	clubsdk.ApplicationCreatedResponse	"token, expiresAt"
//	@Failure		400		{object}	clubsdk.ErrorResponse				"validation failed or self sponsorship"
//	@Failure		403		{object}	clubsdk.ErrorResponse				"sponsor inactive"
//	@Failure		404		{object}	clubsdk.ErrorResponse				"sponsor is not a member"
//	@Failure		409		{object}	clubsdk.ErrorResponse				"pending application already exists"
//	@Failure		429		{object}	clubsdk.ErrorResponse				"too many requests"
//	@Router			/v1/applications [post].
func (h *ApplicationsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	// 1. Parse request body
	var req clubsdk.ApplicationRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	// 2. Submit
	res, err := h.ApplicationService.Submit(r.Context(), service.ApplicationInput{
		Name:                      req.Name,
		Email:                     req.Email,
		SponsorEmail:              req.SponsorEmail,
		StreetAddress:             req.StreetAddress,
		City:                      req.City,
		State:                     req.State,
		Zip:                       req.Zip,
		ProfessionalQualification: req.ProfessionalQualification,
		Interest:                  req.Interest,
		Contribution:              req.Contribution,
		Employer:                  req.Employer,
		LinkedIn:                  req.LinkedIn,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	// 3. The token is only ever shown here and in the sponsor's email
	resp := clubsdk.ApplicationCreatedResponse{
		Success:   true,
		Token:     res.Token,
		ExpiresAt: res.Application.ExpiresAt,
	}
	if h.ExposeVerificationCode {
		resp.DemoVerificationCode = res.Application.VerificationCode
	}
	httpx.WriteJSON(w, http.StatusCreated, resp)
}

// HandleGet handles GET /v1/applications/{token}
//
//	@Summary		View an application
//	@Description	Returns the public view of an application. An application past its expiry is moved to EXPIRED and answered with 410.
//	@Tags			Applications
//	@Produce		json
//	@Param			token	path		string						true	"Application token"
//	@Success		200		{object}	clubsdk.ApplicationResponse	"application"
//	@Failure		404		{object}	clubsdk.ErrorResponse		"unknown token"
//	@Failure		410		{object}	clubsdk.ApplicationResponse	"status EXPIRED"
//	@Router			/v1/applications/{token} [get].
func (h *ApplicationsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	app, err := h.ApplicationService.Get(r.Context(), r.PathValue("token"))
	if errors.Is(err, service.ErrApplicationExpired) {
		httpx.WriteJSON(w, http.StatusGone, clubsdk.ApplicationResponse{
			Success: false,
			Message: "Application has expired",
			Status:  string(domain.ApplicationExpired),
		})
		return
	}
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	view := toApplication(app)
	httpx.WriteJSON(w, http.StatusOK, clubsdk.ApplicationResponse{
		Success:     true,
		Status:      view.Status,
		Application: &view,
	})
}

// HandleApprove handles POST /v1/applications/{token}/approve
//
//	@Summary		Approve an application
//	@Description	The sponsor approves with the verification code. Creates or refreshes the member and emails an activation link.
//	@Tags			Applications
//	@Accept			json
//	@Produce		json
//	@Param			token	path		string						true	"Application token"
//	@Param			request	body		clubsdk.VerificationRequest	true	"Verification code"
//	@Success		200		{object}	clubsdk.ApprovalResponse	"approved application and member id"
//	@Failure		400		{object}	clubsdk.ErrorResponse		"invalid code or expired"
//	@Failure		404		{object}	clubsdk.ErrorResponse		"unknown token"
//	@Failure		409		{object}	clubsdk.ErrorResponse		"application already decided"
//	@Failure		429		{object}	clubsdk.ErrorResponse		"sponsor approval limit reached"
//	@Router			/v1/applications/{token}/approve [post].
func (h *ApplicationsHandler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	var req clubsdk.VerificationRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	res, err := h.ApplicationService.Approve(r.Context(), r.PathValue("token"), req.Code)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, clubsdk.ApprovalResponse{
		Success:     true,
		Message:     "Application approved",
		Application: toApplication(res.Application),
		MemberID:    res.Member.ID,
	})
}

// HandleReject handles POST /v1/applications/{token}/reject
//
//	@Summary		Reject an application
//	@Description	The sponsor rejects with the verification code.
//	@Tags			Applications
//	@Accept			json
//	@Produce		json
//	@Param			token	path		string						true	"Application token"
//	@Param			request	body		clubsdk.VerificationRequest	true	"Verification code"
//	@Success		200		{object}	clubsdk.ApplicationResponse	"rejected application"
//	@Failure		400		{object}	clubsdk.ErrorResponse		"invalid code or expired"
//	@Failure		404		{object}	clubsdk.ErrorResponse		"unknown token"
//	@Failure		409		{object}	clubsdk.ErrorResponse		"application already decided"
//	@Router			/v1/applications/{token}/reject [post].
func (h *ApplicationsHandler) HandleReject(w http.ResponseWriter, r *http.Request) {
	var req clubsdk.VerificationRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	app, err := h.ApplicationService.Reject(r.Context(), r.PathValue("token"), req.Code)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeApplication(w, app, "Application rejected")
}

func writeApplication(w http.ResponseWriter, app domain.Application, message string) {
	view := toApplication(app)
	httpx.WriteJSON(w, http.StatusOK, clubsdk.ApplicationResponse{
		Success:     true,
		Message:     message,
		Status:      view.Status,
		Application: &view,
	})
}
