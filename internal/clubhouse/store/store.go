package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/clubhouse/internal/clubhouse/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
	// ErrConflict is returned by conditional writes that matched no row
	// because the row is no longer in the expected state.
	ErrConflict = errors.New("store: conflict")
)

// Store is the root data access interface. It exposes sub-repositories to
// keep concerns tidy; a Tx exposes the same repositories bound to one
// transaction so multi-step operations stay atomic.
type Store interface {
	Applications() Applications
	Members() Members
	Mentorships() Mentorships
	Forum() Forum
	Sponsors() Sponsors
	Admins() Admins

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Applications interface {
	// CreateApplication inserts a PENDING application. A second pending
	// application for the same applicant/sponsor pair is ErrAlreadyExists.
	CreateApplication(ctx context.Context, a domain.Application) error

	GetApplicationByID(ctx context.Context, id string) (domain.Application, error)
	GetApplicationByTokenHash(ctx context.Context, hash string) (domain.Application, error)
	GetApplicationByActivationHash(ctx context.Context, hash string) (domain.Application, error)

	// ListApplications returns newest first. An empty status lists all.
	ListApplications(ctx context.Context, status domain.ApplicationStatus, limit, offset int) ([]domain.Application, error)

	// ExpireApplication moves one application PENDING → EXPIRED if it is
	// past expiry at now. Reports whether a row changed.
	ExpireApplication(ctx context.Context, id string, now time.Time) (bool, error)

	// ExpireStaleApplications sweeps every stale PENDING row.
	ExpireStaleApplications(ctx context.Context, now time.Time) (int64, error)

	// ExpireStalePair sweeps stale PENDING rows for one applicant/sponsor pair.
	ExpireStalePair(ctx context.Context, applicantEmail, sponsorEmail string, now time.Time) error

	// ApproveApplication transitions PENDING → APPROVED only while unexpired
	// at now, and records the activation token hash. ErrConflict if the row
	// was not PENDING or had expired.
	ApproveApplication(ctx context.Context, id, activationTokenHash string, now time.Time) error

	// RejectApplication transitions PENDING → REJECTED while unexpired.
	// ErrConflict otherwise.
	RejectApplication(ctx context.Context, id string, now time.Time) error

	// MarkActivated stamps activated_at once. ErrConflict if already set.
	MarkActivated(ctx context.Context, id string, now time.Time) error

	// DeleteApplicationsForEmail removes every application where email is
	// the applicant or the sponsor.
	DeleteApplicationsForEmail(ctx context.Context, email string) (int64, error)
}

type Members interface {
	// UpsertMember inserts m or, when the email exists, only refreshes
	// name, active=true and updated_at. Returns the stored row.
	UpsertMember(ctx context.Context, m domain.Member) (domain.Member, error)

	GetMemberByID(ctx context.Context, id string) (domain.Member, error)
	GetMemberByEmail(ctx context.Context, email string) (domain.Member, error)

	ListMembers(ctx context.Context, f domain.MemberFilter) ([]domain.Member, error)

	// ListMentors returns active members available as mentors.
	ListMentors(ctx context.Context, limit, offset int) ([]domain.Member, error)

	UpdateMember(ctx context.Context, id string, p domain.MemberPatch, now time.Time) error

	// SetPassword stores the password hash and assigns the account identity.
	SetPassword(ctx context.Context, id, userID, passwordHash string, now time.Time) error

	// RecordApproval persists the sponsor's approval window counters.
	RecordApproval(ctx context.Context, id string, approvalsInWindow int, windowStartedAt, now time.Time) error

	// DeleteMember removes the row; mentorships, posts, comments and hearts
	// follow through foreign keys.
	DeleteMember(ctx context.Context, id string) error
}

type Mentorships interface {
	// CreateMentorshipRequest fails with ErrAlreadyExists on a duplicate
	// ordered (mentor, mentee) pair.
	CreateMentorshipRequest(ctx context.Context, r domain.MentorshipRequest) error

	GetMentorshipRequest(ctx context.Context, id string) (domain.MentorshipRequest, error)

	// ListMentorshipRequestsFor returns requests where memberID is either side.
	ListMentorshipRequestsFor(ctx context.Context, memberID string) ([]domain.MentorshipRequest, error)

	// UpdateMentorshipStatus transitions from PENDING only. ErrConflict otherwise.
	UpdateMentorshipStatus(ctx context.Context, id string, to domain.MentorshipStatus, contactShared bool, now time.Time) error
}

type Forum interface {
	CreatePost(ctx context.Context, p domain.Post) error
	GetPost(ctx context.Context, id string) (domain.Post, error)
	ListPosts(ctx context.Context, limit, offset int) ([]domain.Post, error)
	DeletePost(ctx context.Context, id string) error

	CreateComment(ctx context.Context, c domain.Comment) error
	GetComment(ctx context.Context, id string) (domain.Comment, error)

	// ListComments returns comments of a post oldest first.
	ListComments(ctx context.Context, postID string) ([]domain.Comment, error)

	// DeleteComment removes the comment; replies cascade.
	DeleteComment(ctx context.Context, id string) error

	// IncrementCommentCount bumps comment_count with an SQL increment.
	IncrementCommentCount(ctx context.Context, postID string) error

	// RecomputeCommentCount rewrites comment_count from the comments table.
	RecomputeCommentCount(ctx context.Context, postID string) error

	// RecomputeAllCommentCounts does the same for every post.
	RecomputeAllCommentCounts(ctx context.Context) error
}

type Sponsors interface {
	CreateSponsor(ctx context.Context, s domain.Sponsor) error
	GetSponsor(ctx context.Context, id string) (domain.Sponsor, error)

	// ListSponsors returns spotlight sponsors first, each with its heart count.
	ListSponsors(ctx context.Context) ([]domain.Sponsor, error)

	UpdateSponsor(ctx context.Context, s domain.Sponsor) error
	SetSponsorLogo(ctx context.Context, id, logoURL string, now time.Time) error
	DeleteSponsor(ctx context.Context, id string) error

	// AddHeart fails with ErrAlreadyExists when the member already hearted.
	AddHeart(ctx context.Context, h domain.SponsorHeart) error

	// RemoveHeart fails with ErrNotFound when there was nothing to remove.
	RemoveHeart(ctx context.Context, sponsorID, memberID string) error

	// HeartedBy returns the sponsor ids the member has hearted.
	HeartedBy(ctx context.Context, memberID string) ([]string, error)
}

type Admins interface {
	CreateAdmin(ctx context.Context, a domain.Admin) error
	GetAdminByID(ctx context.Context, id string) (domain.Admin, error)
	GetAdminByUsername(ctx context.Context, username string) (domain.Admin, error)

	// IsEmpty returns true if there are no admins.
	IsEmpty(ctx context.Context) (bool, error)

	// UpdateMFASecret sets the pending TOTP secret.
	UpdateMFASecret(ctx context.Context, id, secret string) error

	// EnableMFA stamps mfa_enabled_at.
	EnableMFA(ctx context.Context, id string, now time.Time) error
}
