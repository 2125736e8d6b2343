package service

import (
	"fmt"
	"time"

	"github.com/aussiebroadwan/clubhouse/internal/clubhouse/domain"
	"github.com/aussiebroadwan/clubhouse/pkg/jwtx"
)

const (
	ScopeAdmin  = "admin"
	ScopeMember = "member"
)

// SessionIssuer signs the admin and member session cookies.
type SessionIssuer struct {
	Signer jwtx.Signer
	Issuer string
	TTL    time.Duration
	Now    Clock
}

func (s *SessionIssuer) ttl() time.Duration {
	if s.TTL <= 0 {
		return jwtx.DefaultSessionTTL
	}
	return s.TTL
}

func (s *SessionIssuer) issue(subject, username, name, scope string, amr []string, audience string) (string, time.Time, error) {
	now := s.Now.now()
	claims := jwtx.NewSessionClaims(subject, username, name, []string{scope}, amr, s.ttl(), s.Issuer, audience, now)
	token, err := s.Signer.Sign(claims)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session: %w", err)
	}
	return token, claims.ExpiresAt.Time, nil
}

// IssueAdmin returns a signed admin session and its expiry.
func (s *SessionIssuer) IssueAdmin(a domain.Admin, amr []string) (string, time.Time, error) {
	return s.issue(a.ID, a.Username, a.Username, ScopeAdmin, amr, jwtx.AudienceAdmin)
}

// IssueMember returns a signed member session and its expiry.
func (s *SessionIssuer) IssueMember(m domain.Member) (string, time.Time, error) {
	return s.issue(m.ID, m.Email, m.Name, ScopeMember, []string{AMRPassword}, jwtx.AudienceMember)
}
