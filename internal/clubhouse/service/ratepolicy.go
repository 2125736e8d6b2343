package service

import (
	"errors"
	"time"

	"github.com/aussiebroadwan/clubhouse/internal/clubhouse/domain"
)

var ErrSponsorRateLimited = errors.New("sponsor approval limit reached")

// SponsorLimitError is ErrSponsorRateLimited with the time left until the
// sponsor's window resets.
type SponsorLimitError struct {
	RetryAfter time.Duration
}

func (e *SponsorLimitError) Error() string { return ErrSponsorRateLimited.Error() }

func (e *SponsorLimitError) Is(target error) bool { return target == ErrSponsorRateLimited }

const (
	DefaultSponsorApprovalLimit  = 5
	DefaultSponsorApprovalWindow = 24 * time.Hour
)

// RatePolicy caps how many applications one sponsor may approve per
// rolling window. A zero Limit or Window disables it.
type RatePolicy struct {
	Limit  int
	Window time.Duration
}

func (p RatePolicy) enabled() bool { return p.Limit > 0 && p.Window > 0 }

// Apply evaluates one more approval by m at now and returns the counter and
// window start to persist. A *SponsorLimitError leaves nothing to write.
func (p RatePolicy) Apply(m domain.Member, now time.Time) (int, time.Time, error) {
	count := m.ApprovalsInWindow
	start := now
	if m.WindowStartedAt != nil && now.Sub(*m.WindowStartedAt) < p.Window {
		start = *m.WindowStartedAt
	} else {
		count = 0
	}

	if p.enabled() && count >= p.Limit {
		return m.ApprovalsInWindow, start, &SponsorLimitError{RetryAfter: p.RetryAfter(m, now)}
	}
	return count + 1, start, nil
}

// RetryAfter is how long until the sponsor's window resets.
func (p RatePolicy) RetryAfter(m domain.Member, now time.Time) time.Duration {
	if m.WindowStartedAt == nil {
		return 0
	}
	d := m.WindowStartedAt.Add(p.Window).Sub(now)
	if d < 0 {
		return 0
	}
	return d
}
