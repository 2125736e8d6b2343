package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/aussiebroadwan/clubhouse/internal/clubhouse/service"
	"github.com/aussiebroadwan/clubhouse/pkg/clubsdk"
	"github.com/aussiebroadwan/clubhouse/pkg/httpx"
	"github.com/aussiebroadwan/clubhouse/pkg/slogx"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// MembersHandler serves member sign-in, the member's own profile and the
// directory.
type MembersHandler struct {
	MemberService *service.MemberService
	Sessions      *service.SessionIssuer
	SecureCookies bool
}

// HandleLogin handles POST /v1/members/login
//
//	@Summary		Member sign-in
//	@Description	Checks email and password and sets the member session cookie.
//	@Tags			Members
//	@Accept			json
//	@Produce		json
//	@Param			request	body		clubsdk.MemberLoginRequest	true	"Credentials"
//	@Success		200		{object}	clubsdk.SessionResponse		"signed in"
//	@Failure		401		{object}	clubsdk.ErrorResponse		"invalid credentials"
//	@Failure		429		{object}	clubsdk.ErrorResponse		"too many requests"
//	@Router			/v1/members/login [post].
func (h *MembersHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	log := slogx.FromContext(r.Context())

	var req clubsdk.MemberLoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	m, err := h.MemberService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	token, exp, err := h.Sessions.IssueMember(m)
	if err != nil {
		log.Error("failed to issue member session", "member_id", m.ID, "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	setSessionCookie(w, MemberCookie, token, exp, h.SecureCookies)
	httpx.WriteJSON(w, http.StatusOK, clubsdk.SessionResponse{
		Success:   true,
		Subject:   m.ID,
		Name:      m.Name,
		LoginTime: time.Now().UTC(),
		ExpiresAt: exp,
	})
}

// HandleLogout handles POST /v1/members/logout
//
//	@Summary	Member sign-out
//	@Tags		Members
//	@Produce	json
//	@Success	200	{object}	clubsdk.SuccessResponse
//	@Router		/v1/members/logout [post].
func (h *MembersHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	clearSessionCookie(w, MemberCookie, h.SecureCookies)
	httpx.WriteJSON(w, http.StatusOK, httpx.OK())
}

// HandleMe handles GET /v1/members/me
//
//	@Summary	The signed-in member
//	@Tags		Members
//	@Produce	json
//	@Security	MemberSession
//	@Success	200	{object}	clubsdk.MemberResponse
//	@Failure	401	{object}	clubsdk.ErrorResponse
//	@Router		/v1/members/me [get].
func (h *MembersHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	subject, _ := httpx.SubjectFromContext(r.Context())
	m, err := h.MemberService.Get(r.Context(), subject)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, clubsdk.MemberResponse{Success: true, Member: toMember(m)})
}

// HandleUpdateMe handles PATCH /v1/members/me
//
//	@Summary		Edit own profile
//	@Description	Partial update of profile and mentorship fields. Omitted fields are unchanged.
//	@Tags			Members
//	@Accept			json
//	@Produce		json
//	@Security		MemberSession
//	@Param			request	body		clubsdk.MemberUpdateRequest	true	"Fields to change"
//	@Success		200		{object}	clubsdk.MemberResponse
//	@Failure		400		{object}	clubsdk.ErrorResponse	"validation failed"
//	@Failure		401		{object}	clubsdk.ErrorResponse
//	@Router			/v1/members/me [patch].
func (h *MembersHandler) HandleUpdateMe(w http.ResponseWriter, r *http.Request) {
	var req clubsdk.MemberUpdateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	subject, _ := httpx.SubjectFromContext(r.Context())
	m, err := h.MemberService.UpdateSelf(r.Context(), subject, memberUpdate(req))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, clubsdk.MemberResponse{Success: true, Member: toMember(m)})
}

// HandleDirectory handles GET /v1/members
//
//	@Summary		Member directory
//	@Description	Active members matching q. Contact details are never included.
//	@Tags			Members
//	@Produce		json
//	@Security		MemberSession
//	@Param			q		query		string	false	"Name, employer or interest contains"
//	@Param			limit	query		int		false	"Page size (max 200)"
//	@Param			offset	query		int		false	"Offset"
//	@Success		200		{object}	clubsdk.DirectoryResponse
//	@Failure		401		{object}	clubsdk.ErrorResponse
//	@Router			/v1/members [get].
func (h *MembersHandler) HandleDirectory(w http.ResponseWriter, r *http.Request) {
	cards, err := h.MemberService.Directory(r.Context(),
		strings.TrimSpace(r.URL.Query().Get("q")),
		httpx.QueryInt(r, "limit", defaultPageSize, maxPageSize),
		httpx.QueryInt(r, "offset", 0, 0),
	)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, clubsdk.DirectoryResponse{Success: true, Members: toCards(cards)})
}

func memberUpdate(req clubsdk.MemberUpdateRequest) service.MemberUpdate {
	u := service.MemberUpdate{
		Name:              req.Name,
		Active:            req.Active,
		AvailableAsMentor: req.AvailableAsMentor,
		MentorProfile:     req.MentorProfile,
		SeekingMentor:     req.SeekingMentor,
		MenteeProfile:     req.MenteeProfile,
	}
	if req.Profile != nil {
		p := profileInput(*req.Profile)
		u.Profile = &p
	}
	return u
}
