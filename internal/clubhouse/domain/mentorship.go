package domain

import "time"

type MentorshipStatus string

const (
	MentorshipPending  MentorshipStatus = "PENDING"
	MentorshipAccepted MentorshipStatus = "ACCEPTED"
	MentorshipDeclined MentorshipStatus = "DECLINED"
)

// MentorshipRequest is a directed edge: MentorID would mentor MenteeID.
// RequestedBy is whichever of the two sent it.
type MentorshipRequest struct {
	ID            string
	MentorID      string
	MenteeID      string
	RequestedBy   string
	Status        MentorshipStatus
	Message       string
	ContactShared bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Counterparty returns the other member on the request.
func (r MentorshipRequest) Counterparty(memberID string) string {
	if r.MentorID == memberID {
		return r.MenteeID
	}
	return r.MentorID
}

// Involves reports whether memberID is either side of the request.
func (r MentorshipRequest) Involves(memberID string) bool {
	return r.MentorID == memberID || r.MenteeID == memberID
}

// MentorshipView is a request joined with the counterparty's public card.
// Contact fields are empty unless ContactShared.
type MentorshipView struct {
	Request MentorshipRequest
	Mentor  MemberCard
	Mentee  MemberCard
}

// MemberCard is what other members may see of a member.
type MemberCard struct {
	ID            string
	Name          string
	Email         string
	LinkedIn      string
	Employer      string
	Interest      string
	MentorProfile string
	MenteeProfile string
}
