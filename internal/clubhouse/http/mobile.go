package http

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/clubhouse/internal/clubhouse/service"
	"github.com/aussiebroadwan/clubhouse/pkg/clubsdk"
	"github.com/aussiebroadwan/clubhouse/pkg/httpx"
)

// MobileHandler is the read-only API for the mobile app, authenticated by
// a shared API key instead of a session.
type MobileHandler struct {
	MemberService  *service.MemberService
	ForumService   *service.ForumService
	SponsorService *service.SponsorService
}

// HandleMembers handles GET /v1/mobile/members
//
//	@Summary	Member directory for the mobile app
//	@Tags		Mobile
//	@Produce	json
//	@Security	MobileKey
//	@Param		q		query		string	false	"Name, employer or interest contains"
//	@Param		limit	query		int		false	"Page size (max 200)"
//	@Param		offset	query		int		false	"Offset"
//	@Success	200		{object}	clubsdk.DirectoryResponse
//	@Failure	401		{object}	clubsdk.ErrorResponse
//	@Failure	503		{object}	clubsdk.ErrorResponse	"mobile API not configured"
//	@Router		/v1/mobile/members [get].
func (h *MobileHandler) HandleMembers(w http.ResponseWriter, r *http.Request) {
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

// HandlePosts handles GET /v1/mobile/posts
//
//	@Summary	Forum posts for the mobile app
//	@Tags		Mobile
//	@Produce	json
//	@Security	MobileKey
//	@Param		limit	query		int	false	"Page size (max 200)"
//	@Param		offset	query		int	false	"Offset"
//	@Success	200		{object}	clubsdk.PostListResponse
//	@Failure	401		{object}	clubsdk.ErrorResponse
//	@Router		/v1/mobile/posts [get].
func (h *MobileHandler) HandlePosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.ForumService.ListPosts(r.Context(),
		httpx.QueryInt(r, "limit", defaultPageSize, maxPageSize),
		httpx.QueryInt(r, "offset", 0, 0),
	)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, clubsdk.PostListResponse{Success: true, Posts: toPosts(posts)})
}

// HandleSponsors handles GET /v1/mobile/sponsors
//
//	@Summary	Corporate sponsors for the mobile app
//	@Tags		Mobile
//	@Produce	json
//	@Security	MobileKey
//	@Success	200	{object}	clubsdk.SponsorListResponse
//	@Failure	401	{object}	clubsdk.ErrorResponse
//	@Router		/v1/mobile/sponsors [get].
func (h *MobileHandler) HandleSponsors(w http.ResponseWriter, r *http.Request) {
	sponsors, err := h.SponsorService.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, clubsdk.SponsorListResponse{
		Success:  true,
		Sponsors: toSponsors(sponsors, nil),
	})
}
