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
	ErrMemberNotFound  = errors.New("member not found")
	ErrProtectedMember = errors.New("the root member cannot be deleted")
)

const DefaultRootEmail = "jafar@jafar.com"

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

func page(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// ProfileInput is the editable profile of a member.
type ProfileInput struct {
	StreetAddress             string `json:"streetAddress" validate:"max=200"`
	City                      string `json:"city" validate:"max=100"`
	State                     string `json:"state" validate:"max=100"`
	Zip                       string `json:"zip" validate:"max=20"`
	ProfessionalQualification string `json:"professionalQualification" validate:"max=500"`
	Interest                  string `json:"interest" validate:"max=2000"`
	Contribution              string `json:"contribution" validate:"max=2000"`
	Employer                  string `json:"employer" validate:"max=200"`
	LinkedIn                  string `json:"linkedin" validate:"omitempty,url,max=300"`
}

func (in ProfileInput) domain() domain.Profile {
	return ApplicationInput{
		StreetAddress:             in.StreetAddress,
		City:                      in.City,
		State:                     in.State,
		Zip:                       in.Zip,
		ProfessionalQualification: in.ProfessionalQualification,
		Interest:                  in.Interest,
		Contribution:              in.Contribution,
		Employer:                  in.Employer,
		LinkedIn:                  in.LinkedIn,
	}.profile()
}

// MemberUpdate is a partial edit. Nil fields are left alone; Active is
// only honoured on the admin path.
type MemberUpdate struct {
	Name              *string       `json:"name" validate:"omitempty,min=1,max=200"`
	Active            *bool         `json:"active"`
	Profile           *ProfileInput `json:"profile"`
	AvailableAsMentor *bool         `json:"availableAsMentor"`
	MentorProfile     *string       `json:"mentorProfile" validate:"omitempty,max=2000"`
	SeekingMentor     *bool         `json:"seekingMentor"`
	MenteeProfile     *string       `json:"menteeProfile" validate:"omitempty,max=2000"`
}

func (u MemberUpdate) patch() domain.MemberPatch {
	p := domain.MemberPatch{
		Active:            u.Active,
		AvailableAsMentor: u.AvailableAsMentor,
		MentorProfile:     u.MentorProfile,
		SeekingMentor:     u.SeekingMentor,
		MenteeProfile:     u.MenteeProfile,
	}
	if u.Name != nil {
		name := strings.TrimSpace(*u.Name)
		p.Name = &name
	}
	if u.Profile != nil {
		prof := u.Profile.domain()
		p.Profile = &prof
	}
	return p
}

// NewMemberInput is an admin adding a member by hand.
type NewMemberInput struct {
	Name    string       `json:"name" validate:"required,max=200"`
	Email   string       `json:"email" validate:"required,email,max=254"`
	Profile ProfileInput `json:"profile"`
}

type MemberService struct {
	Store     store.Store
	RootEmail string
	Now       Clock
}

// isRoot reports whether email belongs to a protected root member: the
// built-in default, plus the configured one when it differs.
func (s *MemberService) isRoot(email string) bool {
	email = normalizeEmail(email)
	if email == DefaultRootEmail {
		return true
	}
	return s.RootEmail != "" && email == normalizeEmail(s.RootEmail)
}

// Login checks a member's email and password.
func (s *MemberService) Login(ctx context.Context, email, password string) (domain.Member, error) {
	log := slogx.FromContext(ctx)

	m, err := s.Store.Members().GetMemberByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Info("member login for unknown email")
			cryptox.BurnPasswordCheck(password)
			return domain.Member{}, ErrInvalidCredentials
		}
		return domain.Member{}, err
	}
	if !m.Active || !m.Activated() {
		log.Info("member login for inactive account", slog.String("member_id", m.ID))
		return domain.Member{}, ErrInvalidCredentials
	}
	if err := cryptox.VerifyPassword(password, m.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			log.Info("member login with wrong password", slog.String("member_id", m.ID))
			return domain.Member{}, ErrInvalidCredentials
		}
		return domain.Member{}, err
	}
	return m, nil
}

func (s *MemberService) Get(ctx context.Context, id string) (domain.Member, error) {
	m, err := s.Store.Members().GetMemberByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Member{}, ErrMemberNotFound
	}
	return m, err
}

// UpdateSelf applies a member's own edits. Members cannot toggle active.
func (s *MemberService) UpdateSelf(ctx context.Context, id string, u MemberUpdate) (domain.Member, error) {
	u.Active = nil
	return s.update(ctx, id, u)
}

// AdminUpdate applies an admin's edits, including active.
func (s *MemberService) AdminUpdate(ctx context.Context, id string, u MemberUpdate) (domain.Member, error) {
	return s.update(ctx, id, u)
}

func (s *MemberService) update(ctx context.Context, id string, u MemberUpdate) (domain.Member, error) {
	if err := validateStruct(u); err != nil {
		return domain.Member{}, err
	}
	if u.Profile != nil {
		if err := validateStruct(*u.Profile); err != nil {
			return domain.Member{}, err
		}
	}

	err := s.Store.Members().UpdateMember(ctx, id, u.patch(), s.Now.now())
	if errors.Is(err, store.ErrNotFound) {
		return domain.Member{}, ErrMemberNotFound
	}
	if err != nil {
		slogx.FromContext(ctx).Error("failed to update member",
			slog.String("member_id", id),
			slog.Any("error", err),
		)
		return domain.Member{}, err
	}
	return s.Get(ctx, id)
}

// Directory lists active members as cards without contact details.
func (s *MemberService) Directory(ctx context.Context, q string, limit, offset int) ([]domain.MemberCard, error) {
	limit, offset = page(limit, offset)
	members, err := s.Store.Members().ListMembers(ctx, domain.MemberFilter{
		Query:      strings.TrimSpace(q),
		ActiveOnly: true,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		return nil, err
	}
	cards := make([]domain.MemberCard, 0, len(members))
	for _, m := range members {
		cards = append(cards, card(m, false))
	}
	return cards, nil
}

// AdminList lists every member, active or not.
func (s *MemberService) AdminList(ctx context.Context, q string, limit, offset int) ([]domain.Member, error) {
	limit, offset = page(limit, offset)
	return s.Store.Members().ListMembers(ctx, domain.MemberFilter{
		Query:  strings.TrimSpace(q),
		Limit:  limit,
		Offset: offset,
	})
}

// AdminCreate adds a member through the same upsert as approval, so an
// existing email is reactivated rather than duplicated.
func (s *MemberService) AdminCreate(ctx context.Context, in NewMemberInput) (domain.Member, error) {
	if err := validateStruct(in); err != nil {
		return domain.Member{}, err
	}
	if err := validateStruct(in.Profile); err != nil {
		return domain.Member{}, err
	}

	now := s.Now.now()
	m, err := s.Store.Members().UpsertMember(ctx, domain.Member{
		ID:        idx.NewAt(now).String(),
		Email:     normalizeEmail(in.Email),
		Name:      strings.TrimSpace(in.Name),
		Active:    true,
		Profile:   in.Profile.domain(),
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		slogx.FromContext(ctx).Error("failed to upsert member", slog.Any("error", err))
		return domain.Member{}, err
	}
	slogx.FromContext(ctx).Info("member added by admin", slog.String("member_id", m.ID))
	return m, nil
}

// Delete removes a member and everything that references them. Root members
// are refused.
func (s *MemberService) Delete(ctx context.Context, id string) error {
	log := slogx.FromContext(ctx)

	m, err := s.Store.Members().GetMemberByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrMemberNotFound
		}
		return err
	}
	if s.isRoot(m.Email) {
		log.Warn("refused to delete root member", slog.String("member_id", id))
		return ErrProtectedMember
	}

	var apps int64
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		// Applicant rows carry only the email, so they are not covered by the FK.
		n, err := tx.Applications().DeleteApplicationsForEmail(ctx, m.Email)
		if err != nil {
			return err
		}
		apps = n
		if err := tx.Members().DeleteMember(ctx, m.ID); err != nil {
			return err
		}
		// Their comments on other members' posts went with them.
		return tx.Forum().RecomputeAllCommentCounts(ctx)
	})
	if errors.Is(err, store.ErrNotFound) {
		return ErrMemberNotFound
	}
	if err != nil {
		log.Error("failed to delete member", slog.String("member_id", id), slog.Any("error", err))
		return err
	}

	log.Info("member deleted",
		slog.String("member_id", id),
		slog.Int64("applications_deleted", apps),
	)
	return nil
}

// card projects a member for other members. Contact fields are only filled
// when withContact is set.
func card(m domain.Member, withContact bool) domain.MemberCard {
	c := domain.MemberCard{
		ID:            m.ID,
		Name:          m.Name,
		Employer:      m.Profile.Employer,
		Interest:      m.Profile.Interest,
		MentorProfile: m.MentorProfile,
		MenteeProfile: m.MenteeProfile,
	}
	if withContact {
		c.Email = m.Email
		c.LinkedIn = m.Profile.LinkedIn
	}
	return c
}
