package http

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/aussiebroadwan/clubhouse/internal/clubhouse/service"
	"github.com/aussiebroadwan/clubhouse/pkg/httpx"
	"github.com/aussiebroadwan/clubhouse/pkg/idx"
	"github.com/aussiebroadwan/clubhouse/pkg/slogx"
)

type errorMapping struct {
	err     error
	status  int
	message string
}

// errorMappings is checked in order with errors.Is.
var errorMappings = []errorMapping{
	{httpx.ErrBadJSON, http.StatusBadRequest, "Request body must be valid JSON"},
	{service.ErrForbidden, http.StatusForbidden, "Forbidden"},
	{service.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials"},

	// Applications
	{service.ErrSponsorNotFound, http.StatusNotFound, "Sponsor is not a member"},
	{service.ErrSponsorInactive, http.StatusForbidden, "Sponsor is not an active member"},
	{service.ErrSelfSponsor, http.StatusBadRequest, "You cannot sponsor your own application"},
	{service.ErrDuplicateApplication, http.StatusConflict, "A pending application already exists for this sponsor"},
	{service.ErrApplicationNotFound, http.StatusNotFound, "Application not found"},
	{service.ErrApplicationExpired, http.StatusBadRequest, "Application has expired"},
	{service.ErrApplicationNotPending, http.StatusConflict, "Application is no longer pending"},
	{service.ErrInvalidCode, http.StatusBadRequest, "Invalid verification code"},
	{service.ErrSponsorRateLimited, http.StatusTooManyRequests, "Sponsor has reached the approval limit. Please try again later."},
	{service.ErrActivationNotFound, http.StatusNotFound, "Activation link not found"},
	{service.ErrAlreadyActivated, http.StatusConflict, "Account already activated"},
	{service.ErrMemberInactive, http.StatusForbidden, "Membership is inactive"},

	// Members
	{service.ErrMemberNotFound, http.StatusNotFound, "Member not found"},
	{service.ErrProtectedMember, http.StatusForbidden, "The root member cannot be deleted"},

	// Mentorship
	{service.ErrSelfMentorship, http.StatusBadRequest, "You cannot request mentorship with yourself"},
	{service.ErrMentorUnavailable, http.StatusBadRequest, "Member is not available as a mentor"},
	{service.ErrNotSeekingMentor, http.StatusBadRequest, "Member is not seeking a mentor"},
	{service.ErrDuplicateMentorship, http.StatusConflict, "A mentorship request already exists"},
	{service.ErrMentorshipNotFound, http.StatusNotFound, "Mentorship request not found"},
	{service.ErrMentorshipNotPending, http.StatusConflict, "Mentorship request already answered"},

	// Forum
	{service.ErrPostNotFound, http.StatusNotFound, "Post not found"},
	{service.ErrCommentNotFound, http.StatusNotFound, "Comment not found"},
	{service.ErrCommentTooDeep, http.StatusBadRequest, "Replies are nested too deeply"},

	// Corporate sponsors
	{service.ErrSponsorCompanyNotFound, http.StatusNotFound, "Sponsor not found"},
	{service.ErrAlreadyHearted, http.StatusConflict, "Sponsor already hearted"},
	{service.ErrHeartNotFound, http.StatusNotFound, "Sponsor not hearted"},
	{service.ErrLogoTooLarge, http.StatusRequestEntityTooLarge, "Logo must be 5MB or smaller"},
	{service.ErrLogoType, http.StatusUnsupportedMediaType, "Logo must be a JPEG, PNG, WebP or SVG image"},

	// Admins
	{service.ErrMFARequired, http.StatusUnauthorized, "One-time code required"},
	{service.ErrInvalidTOTPCode, http.StatusUnauthorized, "Invalid one-time code"},
	{service.ErrMFANotEnrolled, http.StatusBadRequest, "MFA is not enrolled"},
	{service.ErrMFAAlreadyEnabled, http.StatusConflict, "MFA is already enabled"},
	{service.ErrAdminNotFound, http.StatusNotFound, "Admin not found"},

	// Bootstrap
	{service.ErrBootstrapAlready, http.StatusUnauthorized, "System has already been bootstrapped"},
	{service.ErrBootstrapUnauthorized, http.StatusUnauthorized, "Invalid bootstrap token"},
}

// pathID reads the {id} wildcard. Anything that is not a ULID cannot name a
// row, so it is answered with notFound before the store is asked.
func pathID(w http.ResponseWriter, r *http.Request, notFound error) (string, bool) {
	id, err := idx.Parse(r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, notFound)
		return "", false
	}
	return id.String(), true
}

// writeServiceError maps a service error onto a status and a generic
// message. Anything unrecognised is logged and answered with 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		httpx.WriteValidation(w, verr.Fields)
		return
	}

	var serr *service.StateError
	if errors.As(err, &serr) {
		httpx.WriteError(w, http.StatusConflict, "Application already "+strings.ToLower(string(serr.Status)))
		return
	}

	var limited *service.SponsorLimitError
	if errors.As(err, &limited) && limited.RetryAfter > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(limited.RetryAfter.Seconds()))))
	}

	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			httpx.WriteError(w, m.status, m.message)
			return
		}
	}

	slogx.FromContext(r.Context()).Error("unhandled error",
		"method", r.Method,
		"path", r.URL.Path,
		"err", err,
	)
	httpx.WriteError(w, http.StatusInternalServerError, "Internal server error")
}
