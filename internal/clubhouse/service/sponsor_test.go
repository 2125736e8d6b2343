package service_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/clubhouse/internal/clubhouse/service"
	"github.com/aussiebroadwan/clubhouse/pkg/blobx"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func newSponsorService(t *testing.T, f *fixture) (*service.SponsorService, string) {
	t.Helper()

	dir := t.TempDir()
	blobs, err := blobx.NewLocalStore(dir, "/uploads")
	require.NoError(t, err)
	return &service.SponsorService{Store: f.store, Blobs: blobs, Now: f.clock.Now}, dir
}

func TestSponsorCRUD(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc, _ := newSponsorService(t, f)

	_, err := svc.Create(ctx, service.SponsorInput{Name: "Acme", Website: "ftp://acme"})
	var verr *service.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Fields, "website")

	acme, err := svc.Create(ctx, service.SponsorInput{Name: "Acme", Website: "https://acme.example"})
	require.NoError(t, err)
	globex, err := svc.Create(ctx, service.SponsorInput{Name: "Globex", Spotlight: true})
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, globex.ID, list[0].ID, "spotlight first")

	updated, err := svc.Update(ctx, acme.ID, service.SponsorInput{Name: "Acme Corp", Description: "Anvils"})
	require.NoError(t, err)
	require.Equal(t, "Acme Corp", updated.Name)

	_, err = svc.Update(ctx, "missing", service.SponsorInput{Name: "x"})
	require.ErrorIs(t, err, service.ErrSponsorCompanyNotFound)

	require.NoError(t, svc.Delete(ctx, acme.ID))
	require.ErrorIs(t, svc.Delete(ctx, acme.ID), service.ErrSponsorCompanyNotFound)
}

func TestSponsorHearts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc, _ := newSponsorService(t, f)
	ada := f.member(t, "ada@example.com", "Ada")
	bob := f.member(t, "bob@example.com", "Bob")

	sp, err := svc.Create(ctx, service.SponsorInput{Name: "Acme"})
	require.NoError(t, err)

	require.NoError(t, svc.Heart(ctx, ada.ID, sp.ID))
	require.ErrorIs(t, svc.Heart(ctx, ada.ID, sp.ID), service.ErrAlreadyHearted)
	require.NoError(t, svc.Heart(ctx, bob.ID, sp.ID))
	require.ErrorIs(t, svc.Heart(ctx, bob.ID, "missing"), service.ErrSponsorCompanyNotFound)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, list[0].Hearts)

	hearted, err := svc.HeartedBy(ctx, ada.ID)
	require.NoError(t, err)
	require.Equal(t, []string{sp.ID}, hearted)

	require.NoError(t, svc.Unheart(ctx, ada.ID, sp.ID))
	require.ErrorIs(t, svc.Unheart(ctx, ada.ID, sp.ID), service.ErrHeartNotFound)
}

func TestSponsorLogoUpload(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc, dir := newSponsorService(t, f)

	sp, err := svc.Create(ctx, service.SponsorInput{Name: "Acme"})
	require.NoError(t, err)

	tests := []struct {
		name    string
		data    []byte
		wantExt string
		wantErr error
	}{
		{"png", pngHeader, ".png", nil},
		{"jpeg", []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00\x01"), ".jpg", nil},
		{"webp", []byte("RIFF\x24\x00\x00\x00WEBPVP8 \x18\x00\x00\x00"), ".webp", nil},
		{"svg", []byte(`<svg xmlns="http://www.w3.org/2000/svg" width="1" height="1"></svg>`), ".svg", nil},
		{"gif refused", []byte("GIF89a\x01\x00\x01\x00"), "", service.ErrLogoType},
		{"text refused", []byte("hello world"), "", service.ErrLogoType},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := svc.UploadLogo(ctx, sp.ID, bytes.NewReader(tc.data))
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			require.True(t, strings.HasPrefix(got.LogoURL, "/uploads/sponsors/"))
			require.True(t, strings.HasSuffix(got.LogoURL, tc.wantExt))
		})
	}

	// Only the latest logo remains on disk.
	entries, err := os.ReadDir(filepath.Join(dir, "sponsors"))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	big := append(append([]byte{}, pngHeader...), make([]byte, service.MaxLogoSize)...)
	_, err = svc.UploadLogo(ctx, sp.ID, bytes.NewReader(big))
	require.ErrorIs(t, err, service.ErrLogoTooLarge)

	_, err = svc.UploadLogo(ctx, "missing", bytes.NewReader(pngHeader))
	require.ErrorIs(t, err, service.ErrSponsorCompanyNotFound)

	require.NoError(t, svc.Delete(ctx, sp.ID))
	entries, err = os.ReadDir(filepath.Join(dir, "sponsors"))
	require.NoError(t, err)
	require.Empty(t, entries)
}
