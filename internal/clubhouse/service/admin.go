package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	"github.com/aussiebroadwan/clubhouse/internal/clubhouse/domain"
	"github.com/aussiebroadwan/clubhouse/internal/clubhouse/store"
	"github.com/aussiebroadwan/clubhouse/pkg/cryptox"
	"github.com/aussiebroadwan/clubhouse/pkg/slogx"
)

var (
	ErrMFARequired       = errors.New("one-time code required")
	ErrInvalidTOTPCode   = errors.New("invalid TOTP code")
	ErrMFANotEnrolled    = errors.New("MFA not enrolled")
	ErrMFAAlreadyEnabled = errors.New("MFA already enabled")
	ErrAdminNotFound     = errors.New("admin not found")
)

// Authentication method references carried in the session.
const (
	AMRPassword = "pwd"
	AMROTP      = "otp"
)

// MFAEnrollment is the secret to load into an authenticator app.
type MFAEnrollment struct {
	Secret  string
	URL     string
	Issuer  string
	Account string
}

type AdminService struct {
	Store  store.Store
	Issuer string // shown in authenticator apps
	Now    Clock
}

// Login checks an admin's password and, when enrolled, their TOTP code.
// It returns the authentication methods used.
func (s *AdminService) Login(ctx context.Context, username, password, code string) (domain.Admin, []string, error) {
	log := slogx.FromContext(ctx)

	a, err := s.Store.Admins().GetAdminByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Info("admin login for unknown username")
			cryptox.BurnPasswordCheck(password)
			return domain.Admin{}, nil, ErrInvalidCredentials
		}
		return domain.Admin{}, nil, err
	}
	if err := cryptox.VerifyPassword(password, a.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			log.Warn("admin login with wrong password", slog.String("admin_id", a.ID))
			return domain.Admin{}, nil, ErrInvalidCredentials
		}
		return domain.Admin{}, nil, err
	}

	amr := []string{AMRPassword}
	if !a.MFAEnabled() {
		return a, amr, nil
	}

	code = strings.TrimSpace(code)
	if code == "" {
		return domain.Admin{}, nil, ErrMFARequired
	}
	ok, err := totp.ValidateCustom(code, *a.MFASecret, s.Now.now(), totpValidateOpts)
	if err != nil || !ok {
		log.Warn("admin login with wrong TOTP code", slog.String("admin_id", a.ID))
		return domain.Admin{}, nil, ErrInvalidTOTPCode
	}
	return a, append(amr, AMROTP), nil
}

var totpValidateOpts = totp.ValidateOpts{
	Period:    30,
	Skew:      1,
	Digits:    otp.DigitsSix,
	Algorithm: otp.AlgorithmSHA1,
}

func (s *AdminService) Get(ctx context.Context, id string) (domain.Admin, error) {
	a, err := s.Store.Admins().GetAdminByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Admin{}, ErrAdminNotFound
	}
	return a, err
}

// EnrollMFA generates a TOTP secret. MFA is not enforced until VerifyMFA
// succeeds with a code from it.
func (s *AdminService) EnrollMFA(ctx context.Context, adminID string) (MFAEnrollment, error) {
	a, err := s.Get(ctx, adminID)
	if err != nil {
		return MFAEnrollment{}, err
	}
	if a.MFAEnabled() {
		return MFAEnrollment{}, ErrMFAAlreadyEnabled
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.Issuer,
		AccountName: a.Username,
		Period:      30,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return MFAEnrollment{}, fmt.Errorf("failed to generate TOTP key: %w", err)
	}

	if err := s.Store.Admins().UpdateMFASecret(ctx, a.ID, key.Secret()); err != nil {
		return MFAEnrollment{}, fmt.Errorf("failed to store MFA secret: %w", err)
	}

	slogx.FromContext(ctx).Info("admin MFA enrollment started", slog.String("admin_id", a.ID))
	return MFAEnrollment{
		Secret:  key.Secret(),
		URL:     key.URL(),
		Issuer:  s.Issuer,
		Account: a.Username,
	}, nil
}

// VerifyMFA checks a code against the pending secret and enables MFA.
func (s *AdminService) VerifyMFA(ctx context.Context, adminID, code string) error {
	a, err := s.Get(ctx, adminID)
	if err != nil {
		return err
	}
	if a.MFAEnabled() {
		return ErrMFAAlreadyEnabled
	}
	if a.MFASecret == nil || *a.MFASecret == "" {
		return ErrMFANotEnrolled
	}

	ok, err := totp.ValidateCustom(strings.TrimSpace(code), *a.MFASecret, s.Now.now(), totpValidateOpts)
	if err != nil || !ok {
		return ErrInvalidTOTPCode
	}

	if err := s.Store.Admins().EnableMFA(ctx, a.ID, s.Now.now()); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return ErrMFANotEnrolled
		}
		return fmt.Errorf("failed to enable MFA: %w", err)
	}
	slogx.FromContext(ctx).Info("admin MFA enabled", slog.String("admin_id", a.ID))
	return nil
}
