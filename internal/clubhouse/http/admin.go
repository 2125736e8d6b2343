package http

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/clubhouse/internal/clubhouse/domain"
	"github.com/aussiebroadwan/clubhouse/internal/clubhouse/service"
	"github.com/aussiebroadwan/clubhouse/pkg/clubsdk"
	"github.com/aussiebroadwan/clubhouse/pkg/httpx"
	"github.com/aussiebroadwan/clubhouse/pkg/slogx"
)

// AdminApplicationsHandler is the admin panel's view of applications.
type AdminApplicationsHandler struct {
	ApplicationService *service.ApplicationService
}

// HandleList handles GET /v1/admin/applications
//
//	@Summary		List applications
//	@Description	Sweeps stale PENDING applications to EXPIRED, then lists newest first.
//	@Tags			Admin
//	@Produce		json
//	@Security		AdminSession
//	@Param			status	query		string	false	"PENDING, APPROVED, REJECTED or EXPIRED"
//	@Param			limit	query		int		false	"Page size (max 200)"
//	@Param			offset	query		int		false	"Offset"
//	@Success		200		{object}	clubsdk.ApplicationListResponse
//	@Failure		400		{object}	clubsdk.ErrorResponse	"unknown status"
//	@Failure		401		{object}	clubsdk.ErrorResponse
//	@Router			/v1/admin/applications [get].
func (h *AdminApplicationsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	status := domain.ApplicationStatus(strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("status"))))

	apps, err := h.ApplicationService.List(r.Context(), status,
		httpx.QueryInt(r, "limit", defaultPageSize, maxPageSize),
		httpx.QueryInt(r, "offset", 0, 0),
	)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]clubsdk.Application, len(apps))
	for i, a := range apps {
		out[i] = toApplication(a)
	}
	httpx.WriteJSON(w, http.StatusOK, clubsdk.ApplicationListResponse{Success: true, Applications: out})
}

// HandleReject handles POST /v1/admin/applications/{id}/reject
//
//	@Summary		Reject an application as admin
//	@Description	Same expiry and PENDING guards as the sponsor path, without a verification code.
//	@Tags			Admin
//	@Produce		json
//	@Security		AdminSession
//	@Param			id	path		string	true	"Application ID (ULID)"
//	@Success		200	{object}	clubsdk.ApplicationResponse
//	@Failure		400	{object}	clubsdk.ErrorResponse	"expired"
//	@Failure		404	{object}	clubsdk.ErrorResponse
//	@Failure		409	{object}	clubsdk.ErrorResponse	"application already decided"
//	@Router			/v1/admin/applications/{id}/reject [post].
func (h *AdminApplicationsHandler) HandleReject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, service.ErrApplicationNotFound)
	if !ok {
		return
	}

	app, err := h.ApplicationService.AdminReject(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeApplication(w, app, "Application rejected")
}

// AdminMembersHandler manages members from the admin panel.
type AdminMembersHandler struct {
	MemberService *service.MemberService
}

// HandleList handles GET /v1/admin/members
//
//	@Summary	List all members
//	@Tags		Admin
//	@Produce	json
//	@Security	AdminSession
//	@Param		q		query		string	false	"Name, email, employer or interest contains"
//	@Param		limit	query		int		false	"Page size (max 200)"
//	@Param		offset	query		int		false	"Offset"
//	@Success	200		{object}	clubsdk.MemberListResponse
//	@Failure	401		{object}	clubsdk.ErrorResponse
//	@Router		/v1/admin/members [get].
func (h *AdminMembersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	members, err := h.MemberService.AdminList(r.Context(),
		r.URL.Query().Get("q"),
		httpx.QueryInt(r, "limit", defaultPageSize, maxPageSize),
		httpx.QueryInt(r, "offset", 0, 0),
	)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, clubsdk.MemberListResponse{Success: true, Members: toMembers(members)})
}

// HandleCreate handles POST /v1/admin/members
//
//	@Summary		Add a member
//	@Description	Adds an active member directly. An existing email is reactivated, keeping its profile.
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Security		AdminSession
//	@Param			request	body		clubsdk.NewMemberRequest	true	"Member"
//	@Success		201		{object}	clubsdk.MemberResponse
//	@Failure		400		{object}	clubsdk.ErrorResponse	"validation failed"
//	@Failure		401		{object}	clubsdk.ErrorResponse
//	@Router			/v1/admin/members [post].
func (h *AdminMembersHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req clubsdk.NewMemberRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	m, err := h.MemberService.AdminCreate(r.Context(), service.NewMemberInput{
		Name:    req.Name,
		Email:   req.Email,
		Profile: profileInput(req.Profile),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, clubsdk.MemberResponse{Success: true, Member: toMember(m)})
}

// HandleUpdate handles PATCH /v1/admin/members/{id}
//
//	@Summary		Edit a member
//	@Description	Partial update, including toggling active.
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Security		AdminSession
//	@Param			id		path		string						true	"Member ID (ULID)"
//	@Param			request	body		clubsdk.MemberUpdateRequest	true	"Fields to change"
//	@Success		200		{object}	clubsdk.MemberResponse
//	@Failure		400		{object}	clubsdk.ErrorResponse	"validation failed"
//	@Failure		404		{object}	clubsdk.ErrorResponse
//	@Router			/v1/admin/members/{id} [patch].
func (h *AdminMembersHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, service.ErrMemberNotFound)
	if !ok {
		return
	}

	var req clubsdk.MemberUpdateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	m, err := h.MemberService.AdminUpdate(r.Context(), id, memberUpdate(req))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, clubsdk.MemberResponse{Success: true, Member: toMember(m)})
}

// HandleDelete handles DELETE /v1/admin/members/{id}
//
//	@Summary		Delete a member
//	@Description	Removes the member with their applications, mentorship requests, forum content and hearts. The root member cannot be deleted.
//	@Tags			Admin
//	@Produce		json
//	@Security		AdminSession
//	@Param			id	path		string	true	"Member ID (ULID)"
//	@Success		200	{object}	clubsdk.SuccessResponse
//	@Failure		403	{object}	clubsdk.ErrorResponse	"root member"
//	@Failure		404	{object}	clubsdk.ErrorResponse
//	@Router			/v1/admin/members/{id} [delete].
func (h *AdminMembersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, service.ErrMemberNotFound)
	if !ok {
		return
	}

	if err := h.MemberService.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}

	subject, _ := httpx.SubjectFromContext(r.Context())
	slogx.FromContext(r.Context()).Info("member deleted", "member_id", id, "admin_id", subject)
	httpx.WriteJSON(w, http.StatusOK, clubsdk.SuccessResponse{Success: true, Message: "Member deleted"})
}
