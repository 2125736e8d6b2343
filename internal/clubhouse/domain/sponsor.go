package domain

import "time"

// Sponsor is a corporate sponsor shown on the public site. Not to be confused
// with the member who vouches for an application.
type Sponsor struct {
	ID          string
	Name        string
	Website     string
	Description string
	LogoURL     string
	Spotlight   bool
	Hearts      int // derived, filled by listings
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SponsorHeart is one member's like of a sponsor; at most one per pair.
type SponsorHeart struct {
	SponsorID string
	MemberID  string
	CreatedAt time.Time
}
