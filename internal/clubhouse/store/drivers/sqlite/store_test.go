package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/clubhouse/internal/clubhouse/domain"
	"github.com/aussiebroadwan/clubhouse/internal/clubhouse/store"
	"github.com/aussiebroadwan/clubhouse/internal/clubhouse/store/drivers/sqlite"
	"github.com/aussiebroadwan/clubhouse/pkg/idx"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	s, err := sqlite.NewStore(sqlite.DSN(filepath.Join(t.TempDir(), "clubhouse.db")))
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seedMember(t *testing.T, s store.Store, email, name string) domain.Member {
	t.Helper()

	m, err := s.Members().UpsertMember(context.Background(), domain.Member{
		ID:        idx.New().String(),
		Email:     email,
		Name:      name,
		CreatedAt: t0,
		UpdatedAt: t0,
	})
	require.NoError(t, err)
	return m
}

func pendingApplication(sponsor domain.Member, applicantEmail string) domain.Application {
	return domain.Application{
		ID:               idx.New().String(),
		TokenHash:        idx.New().String(),
		Status:           domain.ApplicationPending,
		VerificationCode: "123456",
		ExpiresAt:        t0.Add(domain.ApplicationTTL),
		ApplicantName:    "Ada",
		ApplicantEmail:   applicantEmail,
		SponsorEmail:     sponsor.Email,
		SponsorMemberID:  sponsor.ID,
		Profile:          domain.Profile{City: "Sydney", Employer: "Analytical Engines"},
		CreatedAt:        t0,
		UpdatedAt:        t0,
	}
}

func TestApplyMigrationsIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.ApplyMigrations())
	require.NoError(t, s.Ping(context.Background()))

	v, err := s.SchemaVersion()
	require.NoError(t, err)
	require.EqualValues(t, 1, v)
}

func TestSchemaVersionEmptyDatabase(t *testing.T) {
	s, err := sqlite.NewStore(sqlite.DSN(filepath.Join(t.TempDir(), "empty.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	v, err := s.SchemaVersion()
	require.NoError(t, err)
	require.Zero(t, v)
}

func TestUpsertMemberPreservesProfile(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.Members().UpsertMember(ctx, domain.Member{
		ID:        idx.New().String(),
		Email:     "ada@example.com",
		Name:      "Ada",
		Profile:   domain.Profile{City: "London", LinkedIn: "ada"},
		CreatedAt: t0,
		UpdatedAt: t0,
	})
	require.NoError(t, err)
	require.True(t, first.Active)

	inactive := false
	require.NoError(t, s.Members().UpdateMember(ctx, first.ID, domain.MemberPatch{Active: &inactive}, t0))

	second, err := s.Members().UpsertMember(ctx, domain.Member{
		ID:        idx.New().String(),
		Email:     "ada@example.com",
		Name:      "Ada Lovelace",
		CreatedAt: t0.Add(time.Hour),
		UpdatedAt: t0.Add(time.Hour),
	})
	require.NoError(t, err)

	require.Equal(t, first.ID, second.ID, "upsert must not create a second row")
	require.Equal(t, "Ada Lovelace", second.Name)
	require.True(t, second.Active)
	require.Equal(t, "London", second.Profile.City)
	require.Equal(t, "ada", second.Profile.LinkedIn)
}

func TestOnePendingApplicationPerPair(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	sponsor := seedMember(t, s, "sam@example.com", "Sam")

	require.NoError(t, s.Applications().CreateApplication(ctx, pendingApplication(sponsor, "ada@example.com")))

	err := s.Applications().CreateApplication(ctx, pendingApplication(sponsor, "ada@example.com"))
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	// A different applicant is fine.
	require.NoError(t, s.Applications().CreateApplication(ctx, pendingApplication(sponsor, "bob@example.com")))
}

func TestExpireStalePairFreesTheSlot(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	sponsor := seedMember(t, s, "sam@example.com", "Sam")

	old := pendingApplication(sponsor, "ada@example.com")
	old.ExpiresAt = t0.Add(-time.Minute)
	require.NoError(t, s.Applications().CreateApplication(ctx, old))

	require.NoError(t, s.Applications().ExpireStalePair(ctx, "ada@example.com", sponsor.Email, t0))
	require.NoError(t, s.Applications().CreateApplication(ctx, pendingApplication(sponsor, "ada@example.com")))

	got, err := s.Applications().GetApplicationByID(ctx, old.ID)
	require.NoError(t, err)
	require.Equal(t, domain.ApplicationExpired, got.Status)
}

func TestApplicationConditionalTransitions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	sponsor := seedMember(t, s, "sam@example.com", "Sam")
	apps := s.Applications()

	app := pendingApplication(sponsor, "ada@example.com")
	require.NoError(t, apps.CreateApplication(ctx, app))

	require.NoError(t, apps.ApproveApplication(ctx, app.ID, "activation-hash", t0))
	require.ErrorIs(t, apps.ApproveApplication(ctx, app.ID, "other", t0), store.ErrConflict)
	require.ErrorIs(t, apps.RejectApplication(ctx, app.ID, t0), store.ErrConflict)

	got, err := apps.GetApplicationByActivationHash(ctx, "activation-hash")
	require.NoError(t, err)
	require.Equal(t, domain.ApplicationApproved, got.Status)
	require.NotNil(t, got.ApprovedAt)
	require.True(t, got.ApprovedAt.Equal(t0))

	require.NoError(t, apps.MarkActivated(ctx, app.ID, t0))
	require.ErrorIs(t, apps.MarkActivated(ctx, app.ID, t0), store.ErrConflict)
}

func TestApproveRefusesExpiredRow(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	sponsor := seedMember(t, s, "sam@example.com", "Sam")

	app := pendingApplication(sponsor, "ada@example.com")
	require.NoError(t, s.Applications().CreateApplication(ctx, app))

	late := app.ExpiresAt.Add(time.Millisecond)
	require.ErrorIs(t, s.Applications().ApproveApplication(ctx, app.ID, "", late), store.ErrConflict)

	changed, err := s.Applications().ExpireApplication(ctx, app.ID, late)
	require.NoError(t, err)
	require.True(t, changed)

	changed, err = s.Applications().ExpireApplication(ctx, app.ID, late)
	require.NoError(t, err)
	require.False(t, changed)
}

func TestExpireStaleApplications(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	sponsor := seedMember(t, s, "sam@example.com", "Sam")

	for _, email := range []string{"a@example.com", "b@example.com"} {
		app := pendingApplication(sponsor, email)
		app.ExpiresAt = t0.Add(-time.Hour)
		require.NoError(t, s.Applications().CreateApplication(ctx, app))
	}
	require.NoError(t, s.Applications().CreateApplication(ctx, pendingApplication(sponsor, "c@example.com")))

	n, err := s.Applications().ExpireStaleApplications(ctx, t0)
	require.NoError(t, err)
	require.EqualValues(t, 2, n)

	pending, err := s.Applications().ListApplications(ctx, domain.ApplicationPending, 10, 0)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, "c@example.com", pending[0].ApplicantEmail)
}

func TestDeleteMemberCascades(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	sam := seedMember(t, s, "sam@example.com", "Sam")
	ada := seedMember(t, s, "ada@example.com", "Ada")

	require.NoError(t, s.Applications().CreateApplication(ctx, pendingApplication(sam, "zed@example.com")))
	require.NoError(t, s.Mentorships().CreateMentorshipRequest(ctx, domain.MentorshipRequest{
		ID: idx.New().String(), MentorID: sam.ID, MenteeID: ada.ID, RequestedBy: ada.ID,
		Status: domain.MentorshipPending, CreatedAt: t0, UpdatedAt: t0,
	}))

	post := domain.Post{ID: idx.New().String(), AuthorID: ada.ID, Title: "Hello", Body: "World", CreatedAt: t0, UpdatedAt: t0}
	require.NoError(t, s.Forum().CreatePost(ctx, post))
	for i := range 2 {
		require.NoError(t, s.Forum().CreateComment(ctx, domain.Comment{
			ID: idx.New().String(), PostID: post.ID, AuthorID: sam.ID, Body: "hi", CreatedAt: t0.Add(time.Duration(i) * time.Second),
		}))
		require.NoError(t, s.Forum().IncrementCommentCount(ctx, post.ID))
	}

	sponsor := domain.Sponsor{ID: idx.New().String(), Name: "Acme", CreatedAt: t0, UpdatedAt: t0}
	require.NoError(t, s.Sponsors().CreateSponsor(ctx, sponsor))
	require.NoError(t, s.Sponsors().AddHeart(ctx, domain.SponsorHeart{SponsorID: sponsor.ID, MemberID: sam.ID, CreatedAt: t0}))

	err := s.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.Applications().DeleteApplicationsForEmail(ctx, sam.Email); err != nil {
			return err
		}
		if err := tx.Members().DeleteMember(ctx, sam.ID); err != nil {
			return err
		}
		return tx.Forum().RecomputeAllCommentCounts(ctx)
	})
	require.NoError(t, err)

	apps, err := s.Applications().ListApplications(ctx, "", 10, 0)
	require.NoError(t, err)
	require.Empty(t, apps)

	reqs, err := s.Mentorships().ListMentorshipRequestsFor(ctx, ada.ID)
	require.NoError(t, err)
	require.Empty(t, reqs)

	got, err := s.Forum().GetPost(ctx, post.ID)
	require.NoError(t, err)
	require.Equal(t, 0, got.CommentCount)

	sp, err := s.Sponsors().GetSponsor(ctx, sponsor.ID)
	require.NoError(t, err)
	require.Equal(t, 0, sp.Hearts)
}

func TestCommentReplyCascadeAndRecount(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	ada := seedMember(t, s, "ada@example.com", "Ada")

	post := domain.Post{ID: idx.New().String(), AuthorID: ada.ID, Title: "T", Body: "B", CreatedAt: t0, UpdatedAt: t0}
	require.NoError(t, s.Forum().CreatePost(ctx, post))

	root := domain.Comment{ID: idx.New().String(), PostID: post.ID, AuthorID: ada.ID, Body: "root", CreatedAt: t0}
	reply := domain.Comment{ID: idx.New().String(), PostID: post.ID, ParentID: root.ID, AuthorID: ada.ID, Body: "reply", Depth: 1, CreatedAt: t0.Add(time.Second)}
	other := domain.Comment{ID: idx.New().String(), PostID: post.ID, AuthorID: ada.ID, Body: "other", CreatedAt: t0.Add(2 * time.Second)}
	for _, c := range []domain.Comment{root, reply, other} {
		require.NoError(t, s.Forum().CreateComment(ctx, c))
		require.NoError(t, s.Forum().IncrementCommentCount(ctx, post.ID))
	}

	comments, err := s.Forum().ListComments(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 3)
	require.Equal(t, root.ID, comments[1].ParentID)
	require.Equal(t, "Ada", comments[0].AuthorName)

	require.NoError(t, s.Forum().DeleteComment(ctx, root.ID))
	require.NoError(t, s.Forum().RecomputeCommentCount(ctx, post.ID))

	got, err := s.Forum().GetPost(ctx, post.ID)
	require.NoError(t, err)
	require.Equal(t, 1, got.CommentCount)
}

func TestCommentDepthIsBoundedBySchema(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	ada := seedMember(t, s, "ada@example.com", "Ada")

	post := domain.Post{ID: idx.New().String(), AuthorID: ada.ID, Title: "T", Body: "B", CreatedAt: t0, UpdatedAt: t0}
	require.NoError(t, s.Forum().CreatePost(ctx, post))

	err := s.Forum().CreateComment(ctx, domain.Comment{
		ID: idx.New().String(), PostID: post.ID, AuthorID: ada.ID, Body: "deep", Depth: domain.MaxCommentDepth + 1, CreatedAt: t0,
	})
	require.Error(t, err)
}

func TestMentorshipOrderedPairUniqueness(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	a := seedMember(t, s, "a@example.com", "A")
	b := seedMember(t, s, "b@example.com", "B")

	req := func(mentor, mentee string) domain.MentorshipRequest {
		return domain.MentorshipRequest{
			ID: idx.New().String(), MentorID: mentor, MenteeID: mentee, RequestedBy: mentee,
			Status: domain.MentorshipPending, CreatedAt: t0, UpdatedAt: t0,
		}
	}

	first := req(a.ID, b.ID)
	require.NoError(t, s.Mentorships().CreateMentorshipRequest(ctx, first))
	require.ErrorIs(t, s.Mentorships().CreateMentorshipRequest(ctx, req(a.ID, b.ID)), store.ErrAlreadyExists)
	require.NoError(t, s.Mentorships().CreateMentorshipRequest(ctx, req(b.ID, a.ID)))

	require.NoError(t, s.Mentorships().UpdateMentorshipStatus(ctx, first.ID, domain.MentorshipAccepted, true, t0))
	require.ErrorIs(t, s.Mentorships().UpdateMentorshipStatus(ctx, first.ID, domain.MentorshipDeclined, false, t0), store.ErrConflict)

	got, err := s.Mentorships().GetMentorshipRequest(ctx, first.ID)
	require.NoError(t, err)
	require.Equal(t, domain.MentorshipAccepted, got.Status)
	require.True(t, got.ContactShared)
}

func TestSponsorHearts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	ada := seedMember(t, s, "ada@example.com", "Ada")

	acme := domain.Sponsor{ID: idx.New().String(), Name: "Acme", CreatedAt: t0, UpdatedAt: t0}
	zeta := domain.Sponsor{ID: idx.New().String(), Name: "Zeta", Spotlight: true, CreatedAt: t0, UpdatedAt: t0}
	require.NoError(t, s.Sponsors().CreateSponsor(ctx, acme))
	require.NoError(t, s.Sponsors().CreateSponsor(ctx, zeta))

	heart := domain.SponsorHeart{SponsorID: acme.ID, MemberID: ada.ID, CreatedAt: t0}
	require.NoError(t, s.Sponsors().AddHeart(ctx, heart))
	require.ErrorIs(t, s.Sponsors().AddHeart(ctx, heart), store.ErrAlreadyExists)

	list, err := s.Sponsors().ListSponsors(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "Zeta", list[0].Name, "spotlight first")
	require.Equal(t, 1, list[1].Hearts)

	hearted, err := s.Sponsors().HeartedBy(ctx, ada.ID)
	require.NoError(t, err)
	require.Equal(t, []string{acme.ID}, hearted)

	require.NoError(t, s.Sponsors().RemoveHeart(ctx, acme.ID, ada.ID))
	require.ErrorIs(t, s.Sponsors().RemoveHeart(ctx, acme.ID, ada.ID), store.ErrNotFound)
}

func TestListMembersFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedMember(t, s, "ada@example.com", "Ada")
	bob := seedMember(t, s, "bob@example.com", "Bob")
	seedMember(t, s, "cy_100%@example.com", "Cy")

	inactive := false
	require.NoError(t, s.Members().UpdateMember(ctx, bob.ID, domain.MemberPatch{Active: &inactive}, t0))

	all, err := s.Members().ListMembers(ctx, domain.MemberFilter{Limit: 10})
	require.NoError(t, err)
	require.Len(t, all, 3)

	active, err := s.Members().ListMembers(ctx, domain.MemberFilter{ActiveOnly: true, Limit: 10})
	require.NoError(t, err)
	require.Len(t, active, 2)

	found, err := s.Members().ListMembers(ctx, domain.MemberFilter{Query: "100%", Limit: 10})
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, "Cy", found[0].Name)

	page, err := s.Members().ListMembers(ctx, domain.MemberFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	require.Equal(t, "Bob", page[0].Name)
}

func TestAdmins(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	empty, err := s.Admins().IsEmpty(ctx)
	require.NoError(t, err)
	require.True(t, empty)

	admin := domain.Admin{ID: idx.New().String(), Username: "root", PasswordHash: "hash", CreatedAt: t0, UpdatedAt: t0}
	require.NoError(t, s.Admins().CreateAdmin(ctx, admin))
	require.ErrorIs(t, s.Admins().CreateAdmin(ctx, admin), store.ErrAlreadyExists)

	require.ErrorIs(t, s.Admins().EnableMFA(ctx, admin.ID, t0), store.ErrConflict, "no secret yet")
	require.NoError(t, s.Admins().UpdateMFASecret(ctx, admin.ID, "JBSWY3DPEHPK3PXP"))
	require.NoError(t, s.Admins().EnableMFA(ctx, admin.ID, t0))

	got, err := s.Admins().GetAdminByUsername(ctx, "root")
	require.NoError(t, err)
	require.True(t, got.MFAEnabled())
	require.Equal(t, "JBSWY3DPEHPK3PXP", *got.MFASecret)
}
