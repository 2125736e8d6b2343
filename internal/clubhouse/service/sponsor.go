package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/aussiebroadwan/clubhouse/internal/clubhouse/domain"
	"github.com/aussiebroadwan/clubhouse/internal/clubhouse/store"
	"github.com/aussiebroadwan/clubhouse/pkg/blobx"
	"github.com/aussiebroadwan/clubhouse/pkg/idx"
	"github.com/aussiebroadwan/clubhouse/pkg/slogx"
)

var (
	ErrSponsorCompanyNotFound = errors.New("sponsor not found")
	ErrAlreadyHearted         = errors.New("sponsor already hearted")
	ErrHeartNotFound          = errors.New("sponsor not hearted")
	ErrLogoTooLarge           = errors.New("logo exceeds the size limit")
	ErrLogoType               = errors.New("logo must be a JPEG, PNG, WebP or SVG image")
)

// MaxLogoSize bounds uploaded sponsor logos.
const MaxLogoSize = 5 << 20

// logoTypes maps accepted content types to the stored extension.
var logoTypes = map[string]string{
	"image/jpeg":    ".jpg",
	"image/png":     ".png",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
}

const logoPrefix = "sponsors"

type SponsorInput struct {
	Name        string `json:"name" validate:"required,max=200"`
	Website     string `json:"website" validate:"omitempty,http_url,max=500"`
	Description string `json:"description" validate:"max=5000"`
	Spotlight   bool   `json:"spotlight"`
}

type SponsorService struct {
	Store store.Store
	Blobs blobx.Store
	Now   Clock
}

// List returns every sponsor with its heart count, spotlight first.
func (s *SponsorService) List(ctx context.Context) ([]domain.Sponsor, error) {
	return s.Store.Sponsors().ListSponsors(ctx)
}

// HeartedBy returns the ids of the sponsors a member has hearted.
func (s *SponsorService) HeartedBy(ctx context.Context, memberID string) ([]string, error) {
	return s.Store.Sponsors().HeartedBy(ctx, memberID)
}

func (s *SponsorService) Get(ctx context.Context, id string) (domain.Sponsor, error) {
	sp, err := s.Store.Sponsors().GetSponsor(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Sponsor{}, ErrSponsorCompanyNotFound
	}
	return sp, err
}

func (s *SponsorService) Create(ctx context.Context, in SponsorInput) (domain.Sponsor, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Website = strings.TrimSpace(in.Website)
	if err := validateStruct(in); err != nil {
		return domain.Sponsor{}, err
	}

	now := s.Now.now()
	sp := domain.Sponsor{
		ID:          idx.NewAt(now).String(),
		Name:        in.Name,
		Website:     in.Website,
		Description: strings.TrimSpace(in.Description),
		Spotlight:   in.Spotlight,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Store.Sponsors().CreateSponsor(ctx, sp); err != nil {
		slogx.FromContext(ctx).Error("failed to create sponsor", slog.Any("error", err))
		return domain.Sponsor{}, err
	}
	slogx.FromContext(ctx).Info("sponsor created", slog.String("sponsor_id", sp.ID))
	return sp, nil
}

func (s *SponsorService) Update(ctx context.Context, id string, in SponsorInput) (domain.Sponsor, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Website = strings.TrimSpace(in.Website)
	if err := validateStruct(in); err != nil {
		return domain.Sponsor{}, err
	}

	sp, err := s.Get(ctx, id)
	if err != nil {
		return domain.Sponsor{}, err
	}
	sp.Name = in.Name
	sp.Website = in.Website
	sp.Description = strings.TrimSpace(in.Description)
	sp.Spotlight = in.Spotlight
	sp.UpdatedAt = s.Now.now()

	if err := s.Store.Sponsors().UpdateSponsor(ctx, sp); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Sponsor{}, ErrSponsorCompanyNotFound
		}
		return domain.Sponsor{}, err
	}
	return sp, nil
}

// Delete removes the sponsor, its hearts and, best effort, its logo.
func (s *SponsorService) Delete(ctx context.Context, id string) error {
	sp, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Store.Sponsors().DeleteSponsor(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrSponsorCompanyNotFound
		}
		return err
	}
	s.deleteLogo(ctx, sp.LogoURL)
	slogx.FromContext(ctx).Info("sponsor deleted", slog.String("sponsor_id", id))
	return nil
}

// UploadLogo stores a new logo and replaces the old one. The content type
// is sniffed from the bytes, not taken from the client.
func (s *SponsorService) UploadLogo(ctx context.Context, id string, r io.Reader) (domain.Sponsor, error) {
	log := slogx.FromContext(ctx)

	sp, err := s.Get(ctx, id)
	if err != nil {
		return domain.Sponsor{}, err
	}

	// 1. Read at most one byte past the limit
	data, err := io.ReadAll(io.LimitReader(r, MaxLogoSize+1))
	if err != nil {
		return domain.Sponsor{}, fmt.Errorf("read logo: %w", err)
	}
	if len(data) > MaxLogoSize {
		return domain.Sponsor{}, ErrLogoTooLarge
	}

	// 2. Sniff the type
	mt := mimetype.Detect(data)
	contentType, ext := "", ""
	for m := mt; m != nil; m = m.Parent() {
		if e, ok := logoTypes[m.String()]; ok {
			contentType, ext = m.String(), e
			break
		}
	}
	if contentType == "" {
		log.Info("rejected logo upload",
			slog.String("sponsor_id", id),
			slog.String("detected", mt.String()),
		)
		return domain.Sponsor{}, ErrLogoType
	}

	// 3. Store the blob, then point the sponsor at it
	obj, err := s.Blobs.Put(ctx, logoPrefix, ext, contentType, bytes.NewReader(data))
	if err != nil {
		log.Error("failed to store logo", slog.String("sponsor_id", id), slog.Any("error", err))
		return domain.Sponsor{}, err
	}
	now := s.Now.now()
	if err := s.Store.Sponsors().SetSponsorLogo(ctx, id, obj.URL, now); err != nil {
		s.deleteLogo(ctx, obj.URL)
		if errors.Is(err, store.ErrNotFound) {
			return domain.Sponsor{}, ErrSponsorCompanyNotFound
		}
		return domain.Sponsor{}, err
	}

	// 4. Drop the previous logo
	s.deleteLogo(ctx, sp.LogoURL)

	log.Info("sponsor logo updated",
		slog.String("sponsor_id", id),
		slog.String("key", obj.Key),
		slog.Int64("size", obj.Size),
	)
	sp.LogoURL = obj.URL
	sp.UpdatedAt = now
	return sp, nil
}

func (s *SponsorService) deleteLogo(ctx context.Context, url string) {
	if url == "" || s.Blobs == nil {
		return
	}
	key, ok := s.Blobs.KeyFromURL(url)
	if !ok {
		return
	}
	if err := s.Blobs.Delete(ctx, key); err != nil && !errors.Is(err, blobx.ErrNotFound) {
		slogx.FromContext(ctx).Warn("failed to delete logo", slog.String("key", key), slog.Any("error", err))
	}
}

// Heart records a member's like. One per member and sponsor.
func (s *SponsorService) Heart(ctx context.Context, memberID, sponsorID string) error {
	if _, err := s.Get(ctx, sponsorID); err != nil {
		return err
	}
	err := s.Store.Sponsors().AddHeart(ctx, domain.SponsorHeart{
		SponsorID: sponsorID,
		MemberID:  memberID,
		CreatedAt: s.Now.now(),
	})
	if errors.Is(err, store.ErrAlreadyExists) {
		return ErrAlreadyHearted
	}
	return err
}

func (s *SponsorService) Unheart(ctx context.Context, memberID, sponsorID string) error {
	err := s.Store.Sponsors().RemoveHeart(ctx, sponsorID, memberID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrHeartNotFound
	}
	return err
}
