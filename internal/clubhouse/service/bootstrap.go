package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/aussiebroadwan/clubhouse/internal/clubhouse/domain"
	"github.com/aussiebroadwan/clubhouse/internal/clubhouse/store"
	"github.com/aussiebroadwan/clubhouse/pkg/cryptox"
	"github.com/aussiebroadwan/clubhouse/pkg/idx"
	"github.com/aussiebroadwan/clubhouse/pkg/slogx"
)

var (
	ErrBootstrapAlready      = errors.New("system already bootstrapped")
	ErrBootstrapUnauthorized = errors.New("unauthorized bootstrap attempt")
)

type BootstrapInput struct {
	AdminUsername  string `json:"adminUsername" validate:"required,min=3,max=64"`
	AdminPassword  string `json:"adminPassword" validate:"required"`
	MemberName     string `json:"memberName" validate:"required,max=200"`
	MemberPassword string `json:"memberPassword" validate:"required"`
}

// Bootstrapped is the first admin and the root member.
type Bootstrapped struct {
	Admin  domain.Admin
	Member domain.Member
}

type BootstrapService struct {
	Store     store.Store
	Token     string // pre-configured bootstrap token
	RootEmail string
	Now       Clock
}

func (s *BootstrapService) IsBootstrapped(ctx context.Context) (bool, error) {
	empty, err := s.Store.Admins().IsEmpty(ctx)
	if err != nil {
		return false, err
	}
	return !empty, nil
}

// Bootstrap creates the first admin and the root member. It only works
// once and only with the configured token.
func (s *BootstrapService) Bootstrap(ctx context.Context, token string, in BootstrapInput) (Bootstrapped, error) {
	l := slogx.FromContext(ctx)

	// 1. Check if already bootstrapped
	if bootstrapped, err := s.IsBootstrapped(ctx); err != nil {
		return Bootstrapped{}, err
	} else if bootstrapped {
		l.Warn("attempted bootstrap on already-bootstrapped system")
		return Bootstrapped{}, ErrBootstrapAlready
	}

	// 2. Validate provided token. An unset token disables bootstrap.
	if s.Token == "" || !cryptox.EqualConstantTime(token, s.Token) {
		l.Warn("unauthorized bootstrap attempt")
		return Bootstrapped{}, ErrBootstrapUnauthorized
	}

	// 3. Validate input and hash both passwords
	if err := validateStruct(in); err != nil {
		return Bootstrapped{}, err
	}
	if err := cryptox.CheckPasswordStrength(in.AdminPassword); err != nil {
		return Bootstrapped{}, fieldError("adminPassword", err.Error())
	}
	if err := cryptox.CheckPasswordStrength(in.MemberPassword); err != nil {
		return Bootstrapped{}, fieldError("memberPassword", err.Error())
	}
	adminHash, err := cryptox.HashPassword(in.AdminPassword)
	if err != nil {
		l.Error("failed to hash admin password", slog.Any("error", err))
		return Bootstrapped{}, err
	}
	memberHash, err := cryptox.HashPassword(in.MemberPassword)
	if err != nil {
		l.Error("failed to hash member password", slog.Any("error", err))
		return Bootstrapped{}, err
	}

	// 4. Create the admin and the root member in a transaction
	now := s.Now.now()
	rootEmail := DefaultRootEmail
	if s.RootEmail != "" {
		rootEmail = normalizeEmail(s.RootEmail)
	}
	out := Bootstrapped{
		Admin: domain.Admin{
			ID:           idx.NewAt(now).String(),
			Username:     strings.TrimSpace(in.AdminUsername),
			PasswordHash: adminHash,
			CreatedAt:    now,
			UpdatedAt:    now,
		},
	}
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		// A concurrent bootstrap loses here.
		empty, err := tx.Admins().IsEmpty(ctx)
		if err != nil {
			return err
		}
		if !empty {
			return ErrBootstrapAlready
		}
		if err := tx.Admins().CreateAdmin(ctx, out.Admin); err != nil {
			return err
		}

		m, err := tx.Members().UpsertMember(ctx, domain.Member{
			ID:        idx.NewAt(now).String(),
			Email:     rootEmail,
			Name:      strings.TrimSpace(in.MemberName),
			Active:    true,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return err
		}
		m.UserID = idx.NewAt(now).String()
		if err := tx.Members().SetPassword(ctx, m.ID, m.UserID, memberHash, now); err != nil {
			return err
		}
		m.PasswordHash = memberHash
		out.Member = m
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrBootstrapAlready) {
			l.Error("bootstrap failed", slog.Any("error", err))
		}
		return Bootstrapped{}, err
	}

	l.Info("system bootstrapped",
		slog.String("admin_id", out.Admin.ID),
		slog.String("root_member_id", out.Member.ID),
	)
	return out, nil
}
