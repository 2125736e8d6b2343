package domain

import "time"

type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "PENDING"
	ApplicationApproved ApplicationStatus = "APPROVED"
	ApplicationRejected ApplicationStatus = "REJECTED"
	ApplicationExpired  ApplicationStatus = "EXPIRED"
)

// ApplicationTTL is how long a sponsor has to act on a new application.
const ApplicationTTL = 7 * 24 * time.Hour

// Terminal reports whether no further transition is allowed.
func (s ApplicationStatus) Terminal() bool {
	return s == ApplicationApproved || s == ApplicationRejected || s == ApplicationExpired
}

// Profile is the free-form content an applicant submits. It is copied onto
// the Member when the application is approved.
type Profile struct {
	StreetAddress             string
	City                      string
	State                     string
	Zip                       string
	ProfessionalQualification string
	Interest                  string
	Contribution              string
	Employer                  string
	LinkedIn                  string
}

type Application struct {
	ID               string
	TokenHash        string // SHA-256 fingerprint; the raw token is never stored
	Status           ApplicationStatus
	VerificationCode string // 6 digits
	ExpiresAt        time.Time

	ApplicantName   string
	ApplicantEmail  string
	SponsorEmail    string
	SponsorMemberID string
	Profile         Profile

	ApprovedAt          *time.Time
	RejectedAt          *time.Time
	ActivationTokenHash string
	ActivatedAt         *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EffectiveStatus is the status as of now: a PENDING application past its
// expiry reads as EXPIRED even before the row is rewritten.
func (a Application) EffectiveStatus(now time.Time) ApplicationStatus {
	if a.Status == ApplicationPending && now.After(a.ExpiresAt) {
		return ApplicationExpired
	}
	return a.Status
}
