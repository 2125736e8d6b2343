package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/clubhouse/internal/clubhouse/domain"
	"github.com/aussiebroadwan/clubhouse/internal/clubhouse/service"
	"github.com/aussiebroadwan/clubhouse/pkg/cryptox"
	"github.com/aussiebroadwan/clubhouse/pkg/jwtx"
)

func TestSessionIssuer(t *testing.T) {
	pemKey, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)
	signer, err := jwtx.NewSignerEdDSA("k1", pemKey)
	require.NoError(t, err)
	keys := jwtx.NewKeySet()
	keys.AddSigner(signer)

	issuer := &service.SessionIssuer{Signer: signer, Issuer: "clubhouse"}

	token, exp, err := issuer.IssueAdmin(domain.Admin{ID: "a1", Username: "admin"}, []string{"pwd"})
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(24*time.Hour), exp, time.Minute)

	claims, err := jwtx.NewSessionVerifier(keys, "clubhouse", jwtx.AudienceAdmin).Verify(token)
	require.NoError(t, err)
	require.Equal(t, "a1", claims.Subject)
	require.True(t, claims.HasScope(service.ScopeAdmin))

	// An admin session is not a member session.
	_, err = jwtx.NewSessionVerifier(keys, "clubhouse", jwtx.AudienceMember).Verify(token)
	require.Error(t, err)

	token, _, err = issuer.IssueMember(domain.Member{ID: "m1", Email: "ada@example.com", Name: "Ada"})
	require.NoError(t, err)
	claims, err = jwtx.NewSessionVerifier(keys, "clubhouse", jwtx.AudienceMember).Verify(token)
	require.NoError(t, err)
	require.Equal(t, "m1", claims.Subject)
	require.Equal(t, "Ada", claims.Name)
	require.True(t, claims.HasScope(service.ScopeMember))
}
