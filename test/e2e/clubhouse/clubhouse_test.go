package clubhouse_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/clubhouse/pkg/clubsdk"
)

func TestHealthEndpoints(t *testing.T) {
	svc := setupContainer(t, nil)
	client := svc.client()

	health, err := client.Livez(t.Context())
	assertHealthy(t, health, err)

	health, err = client.Readyz(t.Context())
	assertHealthy(t, health, err)
	require.NotNil(t, health.Checks)
	require.Equal(t, "ok", health.Checks.Database)
}

func TestBootstrapOnlyOnce(t *testing.T) {
	svc := setupContainer(t, nil)
	svc.bootstrap(t)

	_, err := svc.client().Bootstrap(t.Context(), bootstrapToken, clubsdk.BootstrapRequest{
		AdminUsername:  "second",
		AdminPassword:  adminPassword,
		MemberName:     "Someone",
		MemberPassword: rootPassword,
	})
	require.Error(t, err)
	require.Equal(t, http.StatusUnauthorized, clubsdk.StatusCode(err))
}

// TestSponsorApprovalFlow walks an applicant from submission to a signed-in
// member: wrong code, right code, activation, then the directory.
func TestSponsorApprovalFlow(t *testing.T) {
	svc := setupContainer(t, nil)
	svc.bootstrap(t)
	ctx := t.Context()

	applicant := svc.client()
	created, err := applicant.SubmitApplication(ctx, clubsdk.ApplicationRequest{
		Name:         "Aladdin",
		Email:        "aladdin@agrabah.example",
		SponsorEmail: rootEmail,
		Profile:      clubsdk.Profile{City: "Agrabah", Interest: "Carpets"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.Token)
	require.Len(t, created.DemoVerificationCode, 6)

	got, err := applicant.GetApplication(ctx, created.Token)
	require.NoError(t, err)
	require.Equal(t, "PENDING", got.Status)

	wrong := "000000"
	if created.DemoVerificationCode == wrong {
		wrong = "111111"
	}
	_, err = applicant.ApproveApplication(ctx, created.Token, wrong)
	require.Error(t, err)
	require.Equal(t, http.StatusBadRequest, clubsdk.StatusCode(err))

	approved, err := applicant.ApproveApplication(ctx, created.Token, created.DemoVerificationCode)
	require.NoError(t, err)
	require.Equal(t, "APPROVED", approved.Application.Status)
	require.NotEmpty(t, approved.MemberID)

	// Approving again is a state conflict
	_, err = applicant.ApproveApplication(ctx, created.Token, created.DemoVerificationCode)
	require.Error(t, err)
	require.Equal(t, http.StatusConflict, clubsdk.StatusCode(err))

	token := svc.activationToken(t)
	session, err := applicant.Activate(ctx, token, "Open sesame 123!")
	require.NoError(t, err)
	require.Equal(t, approved.MemberID, session.Subject)

	me, err := applicant.Me(ctx)
	require.NoError(t, err)
	require.Equal(t, "aladdin@agrabah.example", me.Email)
	require.True(t, me.Active)

	cards, err := svc.client().MobileMembers(ctx, 10)
	require.NoError(t, err)
	require.Len(t, cards, 2)
}

func TestAdminCannotDeleteRootMember(t *testing.T) {
	svc := setupContainer(t, nil)
	svc.bootstrap(t)
	ctx := t.Context()

	admin := svc.client()
	_, err := admin.AdminLogin(ctx, clubsdk.AdminLoginRequest{Username: adminUsername, Password: adminPassword})
	require.NoError(t, err)

	members, err := admin.AdminListMembers(ctx)
	require.NoError(t, err)
	require.Len(t, members, 1)
	require.Equal(t, rootEmail, members[0].Email)

	err = admin.AdminDeleteMember(ctx, members[0].ID)
	require.Error(t, err)
	require.Equal(t, http.StatusForbidden, clubsdk.StatusCode(err))
}

func TestForumPostFromMember(t *testing.T) {
	svc := setupContainer(t, nil)
	svc.bootstrap(t)
	ctx := t.Context()

	member := svc.client()
	_, err := member.MemberLogin(ctx, rootEmail, rootPassword)
	require.NoError(t, err)

	post, err := member.CreatePost(ctx, clubsdk.PostRequest{Title: "Welcome", Body: "Say hello here."})
	require.NoError(t, err)
	require.NotEmpty(t, post.ID)

	posts, err := member.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	require.Equal(t, "Welcome", posts[0].Title)

	// No cookie, no forum
	_, err = svc.client().ListPosts(ctx)
	require.Equal(t, http.StatusUnauthorized, clubsdk.StatusCode(err))
}
