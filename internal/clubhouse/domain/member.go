package domain

import "time"

type Member struct {
	ID     string
	Email  string
	UserID string // assigned on activation, empty until then
	Name   string
	Active bool

	// Sponsor approval window, see service.RatePolicy.
	ApprovalsInWindow int
	LastApprovalAt    *time.Time
	WindowStartedAt   *time.Time

	Profile Profile

	AvailableAsMentor bool
	MentorProfile     string
	SeekingMentor     bool
	MenteeProfile     string

	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Activated reports whether the member has set a password.
func (m Member) Activated() bool { return m.PasswordHash != "" }

// MemberPatch carries optional edits; nil fields are left untouched.
type MemberPatch struct {
	Name              *string
	Active            *bool
	Profile           *Profile
	AvailableAsMentor *bool
	MentorProfile     *string
	SeekingMentor     *bool
	MenteeProfile     *string
}

// MemberFilter narrows directory listings.
type MemberFilter struct {
	Query      string
	ActiveOnly bool
	Limit      int
	Offset     int
}
