package service_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/clubhouse/internal/clubhouse/domain"
	"github.com/aussiebroadwan/clubhouse/internal/clubhouse/service"
	"github.com/aussiebroadwan/clubhouse/pkg/cryptox"
)

func TestSubmitApplication(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sponsor := f.member(t, "sponsor@example.com", "Grace")

	sub := f.submit(t, " Ada@Example.com ", "SPONSOR@example.com")

	require.NotEmpty(t, sub.Token)
	require.Len(t, sub.Application.VerificationCode, 6)
	require.Equal(t, "ada@example.com", sub.Application.ApplicantEmail)
	require.Equal(t, sponsor.ID, sub.Application.SponsorMemberID)
	require.True(t, sub.Application.ExpiresAt.Equal(t0.Add(7*24*time.Hour)))

	stored, err := f.store.Applications().GetApplicationByID(ctx, sub.Application.ID)
	require.NoError(t, err)
	require.Equal(t, domain.ApplicationPending, stored.Status)
	require.Equal(t, cryptox.FingerprintToken(sub.Token), stored.TokenHash)

	sent := f.mail.Sent()
	require.Len(t, sent, 1)
	require.Equal(t, "sponsor@example.com", sent[0].ToEmail)
	require.Contains(t, sent[0].Text, "https://club.example/applications/"+sub.Token)
	require.Contains(t, sent[0].Text, sub.Application.VerificationCode)
}

func TestSubmitApplicationErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.member(t, "sponsor@example.com", "Grace")
	inactive := f.member(t, "gone@example.com", "Gone")
	active := false
	require.NoError(t, f.store.Members().UpdateMember(ctx, inactive.ID, domain.MemberPatch{Active: &active}, t0))

	valid := service.ApplicationInput{Name: "Ada", Email: "ada@example.com", SponsorEmail: "sponsor@example.com"}

	tests := []struct {
		name    string
		mutate  func(in *service.ApplicationInput)
		wantErr error
	}{
		{"unknown sponsor", func(in *service.ApplicationInput) { in.SponsorEmail = "nobody@example.com" }, service.ErrSponsorNotFound},
		{"inactive sponsor", func(in *service.ApplicationInput) { in.SponsorEmail = "gone@example.com" }, service.ErrSponsorInactive},
		{"self sponsor", func(in *service.ApplicationInput) { in.Email = "Sponsor@example.com" }, service.ErrSelfSponsor},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := valid
			tc.mutate(&in)
			_, err := f.apps.Submit(ctx, in)
			require.ErrorIs(t, err, tc.wantErr)
		})
	}

	t.Run("validation", func(t *testing.T) {
		_, err := f.apps.Submit(ctx, service.ApplicationInput{Email: "not-an-email", SponsorEmail: "sponsor@example.com"})
		var verr *service.ValidationError
		require.True(t, errors.As(err, &verr))
		require.Contains(t, verr.Fields, "name")
		require.Contains(t, verr.Fields, "email")
	})

	t.Run("duplicate pending pair", func(t *testing.T) {
		_, err := f.apps.Submit(ctx, valid)
		require.NoError(t, err)
		_, err = f.apps.Submit(ctx, valid)
		require.ErrorIs(t, err, service.ErrDuplicateApplication)
	})

	t.Run("stale pending pair is swept", func(t *testing.T) {
		in := valid
		in.Email = "late@example.com"
		first, err := f.apps.Submit(ctx, in)
		require.NoError(t, err)

		f.clock.Advance(8 * 24 * time.Hour)
		_, err = f.apps.Submit(ctx, in)
		require.NoError(t, err)

		old, err := f.store.Applications().GetApplicationByID(ctx, first.Application.ID)
		require.NoError(t, err)
		require.Equal(t, domain.ApplicationExpired, old.Status)
	})
}

func TestGetApplication(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.member(t, "sponsor@example.com", "Grace")
	sub := f.submit(t, "ada@example.com", "sponsor@example.com")

	_, err := f.apps.Get(ctx, "no-such-token")
	require.ErrorIs(t, err, service.ErrApplicationNotFound)

	app, err := f.apps.Get(ctx, sub.Token)
	require.NoError(t, err)
	require.Equal(t, domain.ApplicationPending, app.Status)

	// Exactly at expiry the application is still live.
	f.clock.Advance(domain.ApplicationTTL)
	_, err = f.apps.Get(ctx, sub.Token)
	require.NoError(t, err)

	f.clock.Advance(time.Millisecond)
	app, err = f.apps.Get(ctx, sub.Token)
	require.ErrorIs(t, err, service.ErrApplicationExpired)
	require.Equal(t, domain.ApplicationExpired, app.Status)

	stored, err := f.store.Applications().GetApplicationByID(ctx, sub.Application.ID)
	require.NoError(t, err)
	require.Equal(t, domain.ApplicationExpired, stored.Status)
}

func TestApproveApplication(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sponsor := f.member(t, "sponsor@example.com", "Grace")
	sub := f.submit(t, "ada@example.com", "sponsor@example.com")

	_, err := f.apps.Approve(ctx, sub.Token, "000000x")
	require.ErrorIs(t, err, service.ErrInvalidCode)

	_, err = f.store.Members().GetMemberByEmail(ctx, "ada@example.com")
	require.Error(t, err, "a wrong code must not create the member")

	out, err := f.apps.Approve(ctx, sub.Token, "  "+sub.Application.VerificationCode+"\n")
	require.NoError(t, err)
	require.Equal(t, domain.ApplicationApproved, out.Application.Status)
	require.NotEmpty(t, out.ActivationToken)

	m, err := f.store.Members().GetMemberByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	require.True(t, m.Active)
	require.Equal(t, "Ada Lovelace", m.Name)
	require.Equal(t, "London", m.Profile.City)
	require.Equal(t, out.Member.ID, m.ID)

	s, err := f.store.Members().GetMemberByID(ctx, sponsor.ID)
	require.NoError(t, err)
	require.Equal(t, 1, s.ApprovalsInWindow)
	require.NotNil(t, s.LastApprovalAt)

	sent := f.mail.Sent()
	require.Len(t, sent, 2)
	require.Equal(t, "ada@example.com", sent[1].ToEmail)
	require.Contains(t, sent[1].Text, "https://club.example/activate/"+out.ActivationToken)

	// Terminal: a second approve is refused without touching the member.
	_, err = f.apps.Approve(ctx, sub.Token, sub.Application.VerificationCode)
	require.ErrorIs(t, err, service.ErrApplicationNotPending)
	require.EqualError(t, err, "application already approved")

	again, err := f.store.Members().GetMemberByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	require.True(t, m.UpdatedAt.Equal(again.UpdatedAt))

	_, err = f.apps.Reject(ctx, sub.Token, sub.Application.VerificationCode)
	require.ErrorIs(t, err, service.ErrApplicationNotPending)
}

func TestApproveExpiredApplication(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.member(t, "sponsor@example.com", "Grace")
	sub := f.submit(t, "ada@example.com", "sponsor@example.com")

	f.clock.Advance(domain.ApplicationTTL + time.Second)
	_, err := f.apps.Approve(ctx, sub.Token, sub.Application.VerificationCode)
	require.ErrorIs(t, err, service.ErrApplicationExpired)

	stored, err := f.store.Applications().GetApplicationByID(ctx, sub.Application.ID)
	require.NoError(t, err)
	require.Equal(t, domain.ApplicationExpired, stored.Status)

	_, err = f.store.Members().GetMemberByEmail(ctx, "ada@example.com")
	require.Error(t, err)

	_, err = f.apps.Reject(ctx, sub.Token, sub.Application.VerificationCode)
	require.ErrorIs(t, err, service.ErrApplicationExpired)
}

func TestExpiryBoundaryBelowMillisecond(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.member(t, "sponsor@example.com", "Grace")

	// Submission lands between two stored milliseconds.
	f.clock.Advance(400 * time.Microsecond)
	sub := f.submit(t, "ada@example.com", "sponsor@example.com")

	stored, err := f.store.Applications().GetApplicationByID(ctx, sub.Application.ID)
	require.NoError(t, err)
	require.True(t, stored.ExpiresAt.Equal(sub.Application.ExpiresAt), "response and row agree on expiry")

	f.clock.Advance(domain.ApplicationTTL)
	app, err := f.apps.Get(ctx, sub.Token)
	require.NoError(t, err)
	require.Equal(t, domain.ApplicationPending, app.Status)

	out, err := f.apps.Approve(ctx, sub.Token, sub.Application.VerificationCode)
	require.NoError(t, err, "approve at exactly expiresAt succeeds")
	require.Equal(t, domain.ApplicationApproved, out.Application.Status)

	late := f.submit(t, "babbage@example.com", "sponsor@example.com")
	f.clock.Advance(domain.ApplicationTTL + time.Millisecond)
	_, err = f.apps.Get(ctx, late.Token)
	require.ErrorIs(t, err, service.ErrApplicationExpired)

	stored, err = f.store.Applications().GetApplicationByID(ctx, late.Application.ID)
	require.NoError(t, err)
	require.Equal(t, domain.ApplicationExpired, stored.Status)
}

func TestApprovePreservesExistingProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.member(t, "sponsor@example.com", "Grace")
	f.member(t, "other@example.com", "Other")

	first := f.submit(t, "ada@example.com", "sponsor@example.com")
	_, err := f.apps.Approve(ctx, first.Token, first.Application.VerificationCode)
	require.NoError(t, err)

	m, err := f.store.Members().GetMemberByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	interest := domain.Profile{City: "Paris", Interest: "engines"}
	require.NoError(t, f.store.Members().UpdateMember(ctx, m.ID, domain.MemberPatch{Profile: &interest}, t0))

	second, err := f.apps.Submit(ctx, service.ApplicationInput{
		Name:         "Ada King",
		Email:        "ada@example.com",
		SponsorEmail: "other@example.com",
	})
	require.NoError(t, err)
	_, err = f.apps.Approve(ctx, second.Token, second.Application.VerificationCode)
	require.NoError(t, err)

	after, err := f.store.Members().GetMemberByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	require.Equal(t, m.ID, after.ID)
	require.Equal(t, "Ada King", after.Name)
	require.Equal(t, "Paris", after.Profile.City)
	require.Equal(t, "engines", after.Profile.Interest)
}

func TestApproveRateLimited(t *testing.T) {
	f := newFixture(t)
	f.apps.Policy = service.RatePolicy{Limit: 1, Window: 24 * time.Hour}
	ctx := context.Background()
	f.member(t, "sponsor@example.com", "Grace")

	first := f.submit(t, "one@example.com", "sponsor@example.com")
	second := f.submit(t, "two@example.com", "sponsor@example.com")

	_, err := f.apps.Approve(ctx, first.Token, first.Application.VerificationCode)
	require.NoError(t, err)

	f.clock.Advance(90 * time.Minute)
	_, err = f.apps.Approve(ctx, second.Token, second.Application.VerificationCode)
	require.ErrorIs(t, err, service.ErrSponsorRateLimited)
	var limited *service.SponsorLimitError
	require.ErrorAs(t, err, &limited)
	require.Equal(t, 22*time.Hour+30*time.Minute, limited.RetryAfter)

	// Nothing was written for the refused approval.
	app, err := f.apps.Get(ctx, second.Token)
	require.NoError(t, err)
	require.Equal(t, domain.ApplicationPending, app.Status)
	_, err = f.store.Members().GetMemberByEmail(ctx, "two@example.com")
	require.Error(t, err)

	f.clock.Advance(limited.RetryAfter)
	_, err = f.apps.Approve(ctx, second.Token, second.Application.VerificationCode)
	require.NoError(t, err)
}

func TestConcurrentApprove(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.member(t, "sponsor@example.com", "Grace")
	sub := f.submit(t, "ada@example.com", "sponsor@example.com")

	const n = 2
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = f.apps.Approve(ctx, sub.Token, sub.Application.VerificationCode)
		}()
	}
	wg.Wait()

	var ok, conflict int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, service.ErrApplicationNotPending):
			conflict++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	require.Equal(t, 1, ok)
	require.Equal(t, 1, conflict)

	members, err := f.store.Members().ListMembers(ctx, domain.MemberFilter{Query: "ada@example.com", Limit: 10})
	require.NoError(t, err)
	require.Len(t, members, 1)
}

func TestRejectApplication(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.member(t, "sponsor@example.com", "Grace")
	sub := f.submit(t, "ada@example.com", "sponsor@example.com")

	_, err := f.apps.Reject(ctx, sub.Token, "999999")
	if sub.Application.VerificationCode != "999999" {
		require.ErrorIs(t, err, service.ErrInvalidCode)
	}

	app, err := f.apps.Reject(ctx, sub.Token, sub.Application.VerificationCode)
	require.NoError(t, err)
	require.Equal(t, domain.ApplicationRejected, app.Status)
	require.NotNil(t, app.RejectedAt)

	_, err = f.apps.Approve(ctx, sub.Token, sub.Application.VerificationCode)
	require.EqualError(t, err, "application already rejected")

	sent := f.mail.Sent()
	require.Equal(t, "ada@example.com", sent[len(sent)-1].ToEmail)
}

func TestAdminRejectAndList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.member(t, "sponsor@example.com", "Grace")
	a := f.submit(t, "a@example.com", "sponsor@example.com")
	f.clock.Advance(time.Hour)
	b := f.submit(t, "b@example.com", "sponsor@example.com")

	_, err := f.apps.AdminReject(ctx, "missing")
	require.ErrorIs(t, err, service.ErrApplicationNotFound)

	_, err = f.apps.AdminReject(ctx, b.Application.ID)
	require.NoError(t, err)

	// a goes stale; listing sweeps it first.
	f.clock.Advance(domain.ApplicationTTL)
	expired, err := f.apps.List(ctx, domain.ApplicationExpired, 10, 0)
	require.NoError(t, err)
	require.Len(t, expired, 1)
	require.Equal(t, a.Application.ID, expired[0].ID)

	all, err := f.apps.List(ctx, "", 10, 0)
	require.NoError(t, err)
	require.Len(t, all, 2)

	_, err = f.apps.List(ctx, "BOGUS", 10, 0)
	var verr *service.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestActivate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.member(t, "sponsor@example.com", "Grace")
	sub := f.submit(t, "ada@example.com", "sponsor@example.com")
	out, err := f.apps.Approve(ctx, sub.Token, sub.Application.VerificationCode)
	require.NoError(t, err)

	_, err = f.apps.GetActivation(ctx, "nope")
	require.ErrorIs(t, err, service.ErrActivationNotFound)

	act, err := f.apps.GetActivation(ctx, out.ActivationToken)
	require.NoError(t, err)
	require.Equal(t, "ada@example.com", act.Member.Email)

	_, err = f.apps.Activate(ctx, out.ActivationToken, "short")
	var verr *service.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Fields, "password")

	m, err := f.apps.Activate(ctx, out.ActivationToken, "correct horse battery")
	require.NoError(t, err)
	require.NotEmpty(t, m.UserID)
	require.True(t, m.Activated())

	stored, err := f.store.Members().GetMemberByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	require.NoError(t, cryptox.VerifyPassword("correct horse battery", stored.PasswordHash))

	_, err = f.apps.GetActivation(ctx, out.ActivationToken)
	require.ErrorIs(t, err, service.ErrAlreadyActivated)
	_, err = f.apps.Activate(ctx, out.ActivationToken, "another password")
	require.ErrorIs(t, err, service.ErrAlreadyActivated)
}

func TestActivateRefusedAfterDeactivation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.member(t, "sponsor@example.com", "Grace")
	sub := f.submit(t, "ada@example.com", "sponsor@example.com")
	out, err := f.apps.Approve(ctx, sub.Token, sub.Application.VerificationCode)
	require.NoError(t, err)

	inactive := false
	require.NoError(t, f.store.Members().UpdateMember(ctx, out.Member.ID, domain.MemberPatch{Active: &inactive}, t0))

	_, err = f.apps.GetActivation(ctx, out.ActivationToken)
	require.ErrorIs(t, err, service.ErrMemberInactive)
	_, err = f.apps.Activate(ctx, out.ActivationToken, "correct horse battery")
	require.ErrorIs(t, err, service.ErrMemberInactive)

	stored, err := f.store.Members().GetMemberByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	require.False(t, stored.Activated())
}

func TestStateErrorMessage(t *testing.T) {
	err := &service.StateError{Status: domain.ApplicationApproved}
	require.True(t, errors.Is(err, service.ErrApplicationNotPending))
	require.True(t, strings.HasSuffix(err.Error(), "approved"))
}
