package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/clubhouse/internal/clubhouse/domain"
	"github.com/aussiebroadwan/clubhouse/internal/clubhouse/service"
	"github.com/aussiebroadwan/clubhouse/pkg/clubsdk"
	"github.com/aussiebroadwan/clubhouse/pkg/httpx"
)

// multipartSlack covers the multipart framing around the logo bytes.
const multipartSlack = 64 << 10

type SponsorsHandler struct {
	SponsorService *service.SponsorService
}

// HandleList handles GET /v1/sponsors
//
//	@Summary		Corporate sponsors
//	@Description	Spotlight sponsors first, with heart counts. A signed-in member also sees which ones they hearted.
//	@Tags			Sponsors
//	@Produce		json
//	@Success		200	{object}	clubsdk.SponsorListResponse
//	@Router			/v1/sponsors [get].
func (h *SponsorsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	sponsors, err := h.SponsorService.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	hearted := map[string]bool{}
	if subject, ok := httpx.SubjectFromContext(r.Context()); ok {
		ids, err := h.SponsorService.HeartedBy(r.Context(), subject)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		for _, id := range ids {
			hearted[id] = true
		}
	}

	httpx.WriteJSON(w, http.StatusOK, clubsdk.SponsorListResponse{
		Success:  true,
		Sponsors: toSponsors(sponsors, hearted),
	})
}

func toSponsors(sponsors []domain.Sponsor, hearted map[string]bool) []clubsdk.Sponsor {
	out := make([]clubsdk.Sponsor, len(sponsors))
	for i, s := range sponsors {
		out[i] = toSponsor(s, hearted[s.ID])
	}
	return out
}

// HandleHeart handles POST /v1/sponsors/{id}/heart
//
//	@Summary	Heart a sponsor
//	@Tags		Sponsors
//	@Produce	json
//	@Security	MemberSession
//	@Param		id	path		string	true	"Sponsor ID (ULID)"
//	@Success	200	{object}	clubsdk.SuccessResponse
//	@Failure	404	{object}	clubsdk.ErrorResponse
//	@Failure	409	{object}	clubsdk.ErrorResponse	"already hearted"
//	@Router		/v1/sponsors/{id}/heart [post].
func (h *SponsorsHandler) HandleHeart(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, service.ErrSponsorCompanyNotFound)
	if !ok {
		return
	}

	subject, _ := httpx.SubjectFromContext(r.Context())
	if err := h.SponsorService.Heart(r.Context(), subject, id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, httpx.OK())
}

// HandleUnheart handles DELETE /v1/sponsors/{id}/heart
//
//	@Summary	Remove a heart
//	@Tags		Sponsors
//	@Produce	json
//	@Security	MemberSession
//	@Param		id	path		string	true	"Sponsor ID (ULID)"
//	@Success	200	{object}	clubsdk.SuccessResponse
//	@Failure	404	{object}	clubsdk.ErrorResponse	"not hearted"
//	@Router		/v1/sponsors/{id}/heart [delete].
func (h *SponsorsHandler) HandleUnheart(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, service.ErrSponsorCompanyNotFound)
	if !ok {
		return
	}

	subject, _ := httpx.SubjectFromContext(r.Context())
	if err := h.SponsorService.Unheart(r.Context(), subject, id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, httpx.OK())
}

// HandleCreate handles POST /v1/admin/sponsors
//
//	@Summary	Add a sponsor
//	@Tags		Admin
//	@Accept		json
//	@Produce	json
//	@Security	AdminSession
//	@Param		request	body		clubsdk.SponsorRequest	true	"Sponsor"
//	@Success	201		{object}	clubsdk.SponsorResponse
//	@Failure	400		{object}	clubsdk.ErrorResponse	"validation failed"
//	@Router		/v1/admin/sponsors [post].
func (h *SponsorsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req clubsdk.SponsorRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	sp, err := h.SponsorService.Create(r.Context(), sponsorInput(req))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, clubsdk.SponsorResponse{Success: true, Sponsor: toSponsor(sp, false)})
}

// HandleUpdate handles PUT /v1/admin/sponsors/{id}
//
//	@Summary	Replace a sponsor's details
//	@Tags		Admin
//	@Accept		json
//	@Produce	json
//	@Security	AdminSession
//	@Param		id		path		string					true	"Sponsor ID (ULID)"
//	@Param		request	body		clubsdk.SponsorRequest	true	"Sponsor"
//	@Success	200		{object}	clubsdk.SponsorResponse
//	@Failure	400		{object}	clubsdk.ErrorResponse	"validation failed"
//	@Failure	404		{object}	clubsdk.ErrorResponse
//	@Router		/v1/admin/sponsors/{id} [put].
func (h *SponsorsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, service.ErrSponsorCompanyNotFound)
	if !ok {
		return
	}

	var req clubsdk.SponsorRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	sp, err := h.SponsorService.Update(r.Context(), id, sponsorInput(req))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, clubsdk.SponsorResponse{Success: true, Sponsor: toSponsor(sp, false)})
}

// HandleDelete handles DELETE /v1/admin/sponsors/{id}
//
//	@Summary	Remove a sponsor
//	@Tags		Admin
//	@Produce	json
//	@Security	AdminSession
//	@Param		id	path		string	true	"Sponsor ID (ULID)"
//	@Success	200	{object}	clubsdk.SuccessResponse
//	@Failure	404	{object}	clubsdk.ErrorResponse
//	@Router		/v1/admin/sponsors/{id} [delete].
func (h *SponsorsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, service.ErrSponsorCompanyNotFound)
	if !ok {
		return
	}

	if err := h.SponsorService.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, clubsdk.SuccessResponse{Success: true, Message: "Sponsor deleted"})
}

// HandleLogo handles POST /v1/admin/sponsors/{id}/logo
//
//	@Summary		Upload a sponsor logo
//	@Description	Multipart field "logo". JPEG, PNG, WebP or SVG up to 5MB; the type is sniffed from the content.
//	@Tags			Admin
//	@Accept			multipart/form-data
//	@Produce		json
//	@Security		AdminSession
//	@Param			id		path		string	true	"Sponsor ID (ULID)"
//	@Param			logo	formData	file	true	"Logo image"
//	@Success		200		{object}	clubsdk.SponsorResponse
//	@Failure		400		{object}	clubsdk.ErrorResponse	"missing logo field"
//	@Failure		404		{object}	clubsdk.ErrorResponse
//	@Failure		413		{object}	clubsdk.ErrorResponse	"too large"
//	@Failure		415		{object}	clubsdk.ErrorResponse	"unsupported type"
//	@Router			/v1/admin/sponsors/{id}/logo [post].
func (h *SponsorsHandler) HandleLogo(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, service.ErrSponsorCompanyNotFound)
	if !ok {
		return
	}

	// 1. Cap the whole body before parsing the form
	r.Body = http.MaxBytesReader(w, r.Body, service.MaxLogoSize+multipartSlack)

	file, _, err := r.FormFile("logo")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeServiceError(w, r, service.ErrLogoTooLarge)
			return
		}
		httpx.WriteValidation(w, map[string]string{"logo": "is required"})
		return
	}
	defer file.Close()

	// 2. Store and point the sponsor at it
	sp, err := h.SponsorService.UploadLogo(r.Context(), id, file)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, clubsdk.SponsorResponse{Success: true, Sponsor: toSponsor(sp, false)})
}
