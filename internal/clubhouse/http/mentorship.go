package http

import (
	"net/http"

	"github.com/aussiebroadwan/clubhouse/internal/clubhouse/domain"
	"github.com/aussiebroadwan/clubhouse/internal/clubhouse/service"
	"github.com/aussiebroadwan/clubhouse/pkg/clubsdk"
	"github.com/aussiebroadwan/clubhouse/pkg/httpx"
)

type MentorshipHandler struct {
	MentorshipService *service.MentorshipService
}

// HandleMentors handles GET /v1/mentors
//
//	@Summary	Available mentors
//	@Tags		Mentorship
//	@Produce	json
//	@Security	MemberSession
//	@Param		limit	query		int	false	"Page size (max 200)"
//	@Param		offset	query		int	false	"Offset"
//	@Success	200		{object}	clubsdk.DirectoryResponse
//	@Failure	401		{object}	clubsdk.ErrorResponse
//	@Router		/v1/mentors [get].
func (h *MentorshipHandler) HandleMentors(w http.ResponseWriter, r *http.Request) {
	cards, err := h.MentorshipService.Mentors(r.Context(),
		httpx.QueryInt(r, "limit", defaultPageSize, maxPageSize),
		httpx.QueryInt(r, "offset", 0, 0),
	)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, clubsdk.DirectoryResponse{Success: true, Members: toCards(cards)})
}

// HandleList handles GET /v1/mentorship/requests
//
//	@Summary		Mentorship requests involving the caller
//	@Description	Contact details of the other member are only present once the request is accepted.
//	@Tags			Mentorship
//	@Produce		json
//	@Security		MemberSession
//	@Success		200	{object}	clubsdk.MentorshipListResponse
//	@Failure		401	{object}	clubsdk.ErrorResponse
//	@Router			/v1/mentorship/requests [get].
func (h *MentorshipHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	subject, _ := httpx.SubjectFromContext(r.Context())

	views, err := h.MentorshipService.ListForMember(r.Context(), subject)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]clubsdk.Mentorship, len(views))
	for i, v := range views {
		out[i] = toMentorship(v)
	}
	httpx.WriteJSON(w, http.StatusOK, clubsdk.MentorshipListResponse{Success: true, Requests: out})
}

// HandleRequest handles POST /v1/mentorship/requests
//
//	@Summary		Request a mentorship
//	@Description	role "mentee" asks memberId to mentor the caller; role "mentor" offers to mentor memberId.
//	@Tags			Mentorship
//	@Accept			json
//	@Produce		json
//	@Security		MemberSession
//	@Param			request	body		clubsdk.MentorshipRequestBody	true	"Request"
//	@Success		201		{object}	clubsdk.MentorshipResponse
//	@Failure		400		{object}	clubsdk.ErrorResponse	"self request or target unavailable"
//	@Failure		404		{object}	clubsdk.ErrorResponse	"member not found"
//	@Failure		409		{object}	clubsdk.ErrorResponse	"duplicate request"
//	@Router			/v1/mentorship/requests [post].
func (h *MentorshipHandler) HandleRequest(w http.ResponseWriter, r *http.Request) {
	var req clubsdk.MentorshipRequestBody
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	subject, _ := httpx.SubjectFromContext(r.Context())
	mr, err := h.MentorshipService.Request(r.Context(), subject, service.MentorshipInput{
		MemberID: req.MemberID,
		Role:     req.Role,
		Message:  req.Message,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	// Nothing is shared yet, so the cards carry ids only
	httpx.WriteJSON(w, http.StatusCreated, clubsdk.MentorshipResponse{
		Success: true,
		Mentorship: toMentorship(domain.MentorshipView{
			Request: mr,
			Mentor:  domain.MemberCard{ID: mr.MentorID},
			Mentee:  domain.MemberCard{ID: mr.MenteeID},
		}),
	})
}

// HandleAccept handles POST /v1/mentorship/requests/{id}/accept
//
//	@Summary		Accept a mentorship request
//	@Description	Only the member who did not send the request may answer. Accepting shares contact details both ways.
//	@Tags			Mentorship
//	@Produce		json
//	@Security		MemberSession
//	@Param			id	path		string	true	"Request ID (ULID)"
//	@Success		200	{object}	clubsdk.MentorshipResponse
//	@Failure		403	{object}	clubsdk.ErrorResponse	"caller sent the request"
//	@Failure		404	{object}	clubsdk.ErrorResponse
//	@Failure		409	{object}	clubsdk.ErrorResponse	"already answered"
//	@Router			/v1/mentorship/requests/{id}/accept [post].
func (h *MentorshipHandler) HandleAccept(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, true)
}

// HandleDecline handles POST /v1/mentorship/requests/{id}/decline
//
//	@Summary	Decline a mentorship request
//	@Tags		Mentorship
//	@Produce	json
//	@Security	MemberSession
//	@Param		id	path		string	true	"Request ID (ULID)"
//	@Success	200	{object}	clubsdk.MentorshipResponse
//	@Failure	403	{object}	clubsdk.ErrorResponse	"caller sent the request"
//	@Failure	404	{object}	clubsdk.ErrorResponse
//	@Failure	409	{object}	clubsdk.ErrorResponse	"already answered"
//	@Router		/v1/mentorship/requests/{id}/decline [post].
func (h *MentorshipHandler) HandleDecline(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, false)
}

func (h *MentorshipHandler) respond(w http.ResponseWriter, r *http.Request, accept bool) {
	id, ok := pathID(w, r, service.ErrMentorshipNotFound)
	if !ok {
		return
	}

	subject, _ := httpx.SubjectFromContext(r.Context())

	view, err := h.MentorshipService.Respond(r.Context(), subject, id, accept)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, clubsdk.MentorshipResponse{Success: true, Mentorship: toMentorship(view)})
}
