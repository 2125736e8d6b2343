package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/clubhouse/internal/clubhouse/service"
	"github.com/aussiebroadwan/clubhouse/pkg/cryptox"
	"github.com/aussiebroadwan/clubhouse/pkg/idx"
)

func newMemberService(f *fixture) *service.MemberService {
	return &service.MemberService{Store: f.store, Now: f.clock.Now}
}

func TestMemberLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := newMemberService(f)

	m := f.member(t, "ada@example.com", "Ada")
	_, err := svc.Login(ctx, "ada@example.com", "whatever1")
	require.ErrorIs(t, err, service.ErrInvalidCredentials, "no password yet")

	hash, err := cryptox.HashPassword("correct horse")
	require.NoError(t, err)
	require.NoError(t, f.store.Members().SetPassword(ctx, m.ID, idx.New().String(), hash, t0))

	got, err := svc.Login(ctx, " ADA@example.com", "correct horse")
	require.NoError(t, err)
	require.Equal(t, m.ID, got.ID)

	_, err = svc.Login(ctx, "ada@example.com", "wrong horse")
	require.ErrorIs(t, err, service.ErrInvalidCredentials)
	_, err = svc.Login(ctx, "nobody@example.com", "correct horse")
	require.ErrorIs(t, err, service.ErrInvalidCredentials)

	active := false
	_, err = svc.AdminUpdate(ctx, m.ID, service.MemberUpdate{Active: &active})
	require.NoError(t, err)
	_, err = svc.Login(ctx, "ada@example.com", "correct horse")
	require.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestMemberUpdateSelfCannotToggleActive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := newMemberService(f)
	m := f.member(t, "ada@example.com", "Ada")

	active := false
	mentor := true
	got, err := svc.UpdateSelf(ctx, m.ID, service.MemberUpdate{
		Active:            &active,
		AvailableAsMentor: &mentor,
		Profile:           &service.ProfileInput{City: " Sydney ", LinkedIn: "https://linkedin.com/in/ada"},
	})
	require.NoError(t, err)
	require.True(t, got.Active)
	require.True(t, got.AvailableAsMentor)
	require.Equal(t, "Sydney", got.Profile.City)

	_, err = svc.UpdateSelf(ctx, m.ID, service.MemberUpdate{Profile: &service.ProfileInput{LinkedIn: "not a url"}})
	var verr *service.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Fields, "linkedin")

	_, err = svc.UpdateSelf(ctx, "missing", service.MemberUpdate{})
	require.ErrorIs(t, err, service.ErrMemberNotFound)
}

func TestMemberDirectoryHidesContact(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := newMemberService(f)

	f.member(t, "ada@example.com", "Ada")
	gone := f.member(t, "gone@example.com", "Gone")
	active := false
	_, err := svc.AdminUpdate(ctx, gone.ID, service.MemberUpdate{Active: &active})
	require.NoError(t, err)

	cards, err := svc.Directory(ctx, "", 0, 0)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	require.Equal(t, "Ada", cards[0].Name)
	require.Empty(t, cards[0].Email)
	require.Empty(t, cards[0].LinkedIn)

	all, err := svc.AdminList(ctx, "", 0, 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestAdminCreateUpserts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := newMemberService(f)

	first, err := svc.AdminCreate(ctx, service.NewMemberInput{
		Name:    "Ada",
		Email:   "Ada@Example.com",
		Profile: service.ProfileInput{City: "London"},
	})
	require.NoError(t, err)
	require.Equal(t, "ada@example.com", first.Email)

	second, err := svc.AdminCreate(ctx, service.NewMemberInput{Name: "Ada L", Email: "ada@example.com"})
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, "Ada L", second.Name)
	require.Equal(t, "London", second.Profile.City)

	_, err = svc.AdminCreate(ctx, service.NewMemberInput{Email: "bad"})
	var verr *service.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestDeleteMember(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := newMemberService(f)
	forum := &service.ForumService{Store: f.store, Now: f.clock.Now}

	root := f.member(t, service.DefaultRootEmail, "Jafar")
	sponsor := f.member(t, "sponsor@example.com", "Grace")
	other := f.member(t, "other@example.com", "Other")

	sub := f.submit(t, "ada@example.com", "sponsor@example.com")
	// The deleted member as applicant.
	incoming := f.submit(t, "sponsor@example.com", "other@example.com")

	post, err := forum.CreatePost(ctx, other.ID, service.PostInput{Title: "Hello", Body: "World"})
	require.NoError(t, err)
	_, err = forum.AddComment(ctx, sponsor.ID, post.ID, service.CommentInput{Body: "hi"})
	require.NoError(t, err)

	require.ErrorIs(t, svc.Delete(ctx, root.ID), service.ErrProtectedMember)
	require.ErrorIs(t, svc.Delete(ctx, "missing"), service.ErrMemberNotFound)

	require.NoError(t, svc.Delete(ctx, sponsor.ID))

	_, err = f.store.Applications().GetApplicationByID(ctx, sub.Application.ID)
	require.Error(t, err)
	_, err = f.store.Applications().GetApplicationByID(ctx, incoming.Application.ID)
	require.Error(t, err)

	thread, err := forum.GetThread(ctx, post.ID)
	require.NoError(t, err)
	require.Empty(t, thread.Comments)
	require.Zero(t, thread.Post.CommentCount)

	_, err = f.store.Members().GetMemberByID(ctx, root.ID)
	require.NoError(t, err)
}

func TestDeleteMemberCustomRoot(t *testing.T) {
	f := newFixture(t)
	svc := &service.MemberService{Store: f.store, RootEmail: "Boss@Example.com", Now: f.clock.Now}
	boss := f.member(t, "boss@example.com", "Boss")
	require.ErrorIs(t, svc.Delete(context.Background(), boss.ID), service.ErrProtectedMember)

	// The default root stays protected alongside the configured one.
	j := f.member(t, service.DefaultRootEmail, "Jafar")
	require.ErrorIs(t, svc.Delete(context.Background(), j.ID), service.ErrProtectedMember)

	other := f.member(t, "other@example.com", "Other")
	require.NoError(t, svc.Delete(context.Background(), other.ID))
}
