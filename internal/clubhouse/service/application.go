package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aussiebroadwan/clubhouse/internal/clubhouse/domain"
	"github.com/aussiebroadwan/clubhouse/internal/clubhouse/metrics"
	"github.com/aussiebroadwan/clubhouse/internal/clubhouse/store"
	"github.com/aussiebroadwan/clubhouse/pkg/cryptox"
	"github.com/aussiebroadwan/clubhouse/pkg/idx"
	"github.com/aussiebroadwan/clubhouse/pkg/slogx"
)

var (
	ErrSponsorNotFound       = errors.New("sponsor is not a member")
	ErrSponsorInactive       = errors.New("sponsor is not an active member")
	ErrSelfSponsor           = errors.New("applicant cannot sponsor themselves")
	ErrDuplicateApplication  = errors.New("a pending application already exists for this sponsor")
	ErrApplicationNotFound   = errors.New("application not found")
	ErrApplicationExpired    = errors.New("application has expired")
	ErrApplicationNotPending = errors.New("application is no longer pending")
	ErrInvalidCode           = errors.New("invalid verification code")
	ErrActivationNotFound    = errors.New("activation link not found")
	ErrAlreadyActivated      = errors.New("account already activated")
	ErrMemberInactive        = errors.New("member has been deactivated")
)

const verificationCodeDigits = 6

// StateError reports the terminal status an application is already in.
// It matches ErrApplicationNotPending with errors.Is.
type StateError struct {
	Status domain.ApplicationStatus
}

func (e *StateError) Error() string {
	return "application already " + strings.ToLower(string(e.Status))
}

func (e *StateError) Is(target error) bool { return target == ErrApplicationNotPending }

// ApplicationInput is what an applicant submits.
type ApplicationInput struct {
	Name                      string `json:"name" validate:"required,max=200"`
	Email                     string `json:"email" validate:"required,email,max=254"`
	SponsorEmail              string `json:"sponsorEmail" validate:"required,email,max=254"`
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

func (in ApplicationInput) profile() domain.Profile {
	return domain.Profile{
		StreetAddress:             strings.TrimSpace(in.StreetAddress),
		City:                      strings.TrimSpace(in.City),
		State:                     strings.TrimSpace(in.State),
		Zip:                       strings.TrimSpace(in.Zip),
		ProfessionalQualification: strings.TrimSpace(in.ProfessionalQualification),
		Interest:                  strings.TrimSpace(in.Interest),
		Contribution:              strings.TrimSpace(in.Contribution),
		Employer:                  strings.TrimSpace(in.Employer),
		LinkedIn:                  strings.TrimSpace(in.LinkedIn),
	}
}

// Submitted is the result of a new application. Token is only ever
// returned here and in the sponsor's email.
type Submitted struct {
	Application domain.Application
	Token       string
}

// Approved is the result of an approval.
type Approved struct {
	Application     domain.Application
	Member          domain.Member
	ActivationToken string
}

type ApplicationService struct {
	Store    store.Store
	Notifier *Notifier
	Policy   RatePolicy
	Now      Clock
}

// Submit creates a PENDING application and emails the sponsor.
func (s *ApplicationService) Submit(ctx context.Context, in ApplicationInput) (Submitted, error) {
	log := slogx.FromContext(ctx)
	now := s.Now.now()

	// 1. Validate and normalise input
	if err := validateStruct(in); err != nil {
		return Submitted{}, err
	}
	in.Email = normalizeEmail(in.Email)
	in.SponsorEmail = normalizeEmail(in.SponsorEmail)
	if in.Email == in.SponsorEmail {
		return Submitted{}, ErrSelfSponsor
	}

	// 2. The sponsor must be an active member
	sponsor, err := s.Store.Members().GetMemberByEmail(ctx, in.SponsorEmail)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Info("application names unknown sponsor", slog.String("sponsor_email", in.SponsorEmail))
			return Submitted{}, ErrSponsorNotFound
		}
		log.Error("failed to fetch sponsor", slog.Any("error", err))
		return Submitted{}, err
	}
	if !sponsor.Active {
		return Submitted{}, ErrSponsorInactive
	}

	// 3. Token and verification code
	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		log.Error("failed to generate application token", slog.Any("error", err))
		return Submitted{}, err
	}
	code, err := cryptox.GenerateNumericCode(verificationCodeDigits)
	if err != nil {
		log.Error("failed to generate verification code", slog.Any("error", err))
		return Submitted{}, err
	}

	app := domain.Application{
		ID:               idx.NewAt(now).String(),
		TokenHash:        cryptox.FingerprintToken(token),
		Status:           domain.ApplicationPending,
		VerificationCode: code,
		ExpiresAt:        now.Add(domain.ApplicationTTL),
		ApplicantName:    strings.TrimSpace(in.Name),
		ApplicantEmail:   in.Email,
		SponsorEmail:     in.SponsorEmail,
		SponsorMemberID:  sponsor.ID,
		Profile:          in.profile(),
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	// 4. Sweep a stale pending row for the same pair, then insert. The
	// partial unique index turns a live duplicate into ErrAlreadyExists.
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Applications().ExpireStalePair(ctx, app.ApplicantEmail, app.SponsorEmail, now); err != nil {
			return err
		}
		return tx.Applications().CreateApplication(ctx, app)
	})
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return Submitted{}, ErrDuplicateApplication
		}
		log.Error("failed to create application", slog.Any("error", err))
		return Submitted{}, err
	}

	metrics.RecordApplicationTransition(string(domain.ApplicationPending))
	log.Info("application submitted",
		slog.String("application_id", app.ID),
		slog.String("sponsor_id", sponsor.ID),
		slog.Time("expires_at", app.ExpiresAt),
	)

	s.Notifier.ApplicationSubmitted(ctx, app, sponsor, token)
	return Submitted{Application: app, Token: token}, nil
}

// lookup resolves a token and writes back a lazy expiry. The returned
// application carries its effective status.
func (s *ApplicationService) lookup(ctx context.Context, token string) (domain.Application, error) {
	if token == "" {
		return domain.Application{}, ErrApplicationNotFound
	}
	app, err := s.Store.Applications().GetApplicationByTokenHash(ctx, cryptox.FingerprintToken(token))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Application{}, ErrApplicationNotFound
		}
		return domain.Application{}, err
	}
	return s.expireIfStale(ctx, app)
}

func (s *ApplicationService) expireIfStale(ctx context.Context, app domain.Application) (domain.Application, error) {
	now := s.Now.now()
	if app.EffectiveStatus(now) != domain.ApplicationExpired || app.Status == domain.ApplicationExpired {
		return app, nil
	}

	changed, err := s.Store.Applications().ExpireApplication(ctx, app.ID, now)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to expire application",
			slog.String("application_id", app.ID),
			slog.Any("error", err),
		)
		return domain.Application{}, err
	}
	if changed {
		metrics.RecordApplicationTransition(string(domain.ApplicationExpired))
		slogx.FromContext(ctx).Info("application expired", slog.String("application_id", app.ID))
	}
	app.Status = domain.ApplicationExpired
	app.UpdatedAt = now
	return app, nil
}

// Get returns the application behind token. An expired application is
// returned together with ErrApplicationExpired.
func (s *ApplicationService) Get(ctx context.Context, token string) (domain.Application, error) {
	app, err := s.lookup(ctx, token)
	if err != nil {
		return domain.Application{}, err
	}
	if app.Status == domain.ApplicationExpired {
		return app, ErrApplicationExpired
	}
	return app, nil
}

// actionable applies the guards shared by approve and reject.
func actionable(app domain.Application) error {
	switch {
	case app.Status == domain.ApplicationExpired:
		return ErrApplicationExpired
	case app.Status.Terminal():
		return &StateError{Status: app.Status}
	}
	return nil
}

// conflictCause reloads an application whose conditional write missed and
// reports which guard it failed.
func (s *ApplicationService) conflictCause(ctx context.Context, id string) error {
	app, err := s.Store.Applications().GetApplicationByID(ctx, id)
	if err != nil {
		return err
	}
	app, err = s.expireIfStale(ctx, app)
	if err != nil {
		return err
	}
	if err := actionable(app); err != nil {
		return err
	}
	return &StateError{Status: app.Status}
}

// Approve is the sponsor accepting an application with its verification code.
func (s *ApplicationService) Approve(ctx context.Context, token, code string) (Approved, error) {
	log := slogx.FromContext(ctx)

	// 1. Resolve the token, expiring it if stale
	app, err := s.lookup(ctx, token)
	if err != nil {
		return Approved{}, err
	}

	// 2. Status guard, then the code
	if err := actionable(app); err != nil {
		return Approved{}, err
	}
	if !cryptox.EqualConstantTime(strings.TrimSpace(code), app.VerificationCode) {
		log.Warn("application approval with wrong code", slog.String("application_id", app.ID))
		return Approved{}, ErrInvalidCode
	}

	activation, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return Approved{}, err
	}

	// 3. Transition, rate policy and member projection commit together
	now := s.Now.now()
	var member domain.Member
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		err := tx.Applications().ApproveApplication(ctx, app.ID, cryptox.FingerprintToken(activation), now)
		if errors.Is(err, store.ErrConflict) {
			return errApproveConflict
		}
		if err != nil {
			return err
		}

		sponsor, err := tx.Members().GetMemberByID(ctx, app.SponsorMemberID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrSponsorNotFound
			}
			return err
		}
		if !sponsor.Active {
			return ErrSponsorInactive
		}
		count, windowStart, err := s.Policy.Apply(sponsor, now)
		if err != nil {
			return err
		}
		if err := tx.Members().RecordApproval(ctx, sponsor.ID, count, windowStart, now); err != nil {
			return err
		}

		member, err = tx.Members().UpsertMember(ctx, domain.Member{
			ID:        idx.NewAt(now).String(),
			Email:     app.ApplicantEmail,
			Name:      app.ApplicantName,
			Active:    true,
			Profile:   app.Profile,
			CreatedAt: now,
			UpdatedAt: now,
		})
		return err
	})
	switch {
	case errors.Is(err, errApproveConflict):
		return Approved{}, s.conflictCause(ctx, app.ID)
	case errors.Is(err, ErrSponsorRateLimited):
		metrics.RecordSponsorRateLimited()
		log.Warn("sponsor approval limit reached",
			slog.String("application_id", app.ID),
			slog.String("sponsor_id", app.SponsorMemberID),
		)
		return Approved{}, err
	case errors.Is(err, ErrSponsorNotFound), errors.Is(err, ErrSponsorInactive):
		return Approved{}, err
	case err != nil:
		log.Error("failed to approve application",
			slog.String("application_id", app.ID),
			slog.Any("error", err),
		)
		return Approved{}, err
	}

	app.Status = domain.ApplicationApproved
	app.ApprovedAt = &now
	app.UpdatedAt = now
	metrics.RecordApplicationTransition(string(domain.ApplicationApproved))
	log.Info("application approved",
		slog.String("application_id", app.ID),
		slog.String("member_id", member.ID),
	)

	// 4. Welcome email, outside the transaction
	s.Notifier.ApplicationApproved(ctx, app, activation)
	return Approved{Application: app, Member: member, ActivationToken: activation}, nil
}

var errApproveConflict = errors.New("approve conflict")

// Reject is the sponsor declining an application with its verification code.
func (s *ApplicationService) Reject(ctx context.Context, token, code string) (domain.Application, error) {
	app, err := s.lookup(ctx, token)
	if err != nil {
		return domain.Application{}, err
	}
	if err := actionable(app); err != nil {
		return domain.Application{}, err
	}
	if !cryptox.EqualConstantTime(strings.TrimSpace(code), app.VerificationCode) {
		slogx.FromContext(ctx).Warn("application rejection with wrong code", slog.String("application_id", app.ID))
		return domain.Application{}, ErrInvalidCode
	}
	return s.reject(ctx, app)
}

// AdminReject rejects by id without a verification code.
func (s *ApplicationService) AdminReject(ctx context.Context, id string) (domain.Application, error) {
	app, err := s.Store.Applications().GetApplicationByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Application{}, ErrApplicationNotFound
		}
		return domain.Application{}, err
	}
	app, err = s.expireIfStale(ctx, app)
	if err != nil {
		return domain.Application{}, err
	}
	if err := actionable(app); err != nil {
		return domain.Application{}, err
	}
	return s.reject(ctx, app)
}

func (s *ApplicationService) reject(ctx context.Context, app domain.Application) (domain.Application, error) {
	now := s.Now.now()
	err := s.Store.Applications().RejectApplication(ctx, app.ID, now)
	if errors.Is(err, store.ErrConflict) {
		return domain.Application{}, s.conflictCause(ctx, app.ID)
	}
	if err != nil {
		slogx.FromContext(ctx).Error("failed to reject application",
			slog.String("application_id", app.ID),
			slog.Any("error", err),
		)
		return domain.Application{}, err
	}

	app.Status = domain.ApplicationRejected
	app.RejectedAt = &now
	app.UpdatedAt = now
	metrics.RecordApplicationTransition(string(domain.ApplicationRejected))
	slogx.FromContext(ctx).Info("application rejected", slog.String("application_id", app.ID))

	s.Notifier.ApplicationRejected(ctx, app)
	return app, nil
}

// List returns applications for the admin panel after sweeping stale rows.
func (s *ApplicationService) List(ctx context.Context, status domain.ApplicationStatus, limit, offset int) ([]domain.Application, error) {
	switch status {
	case "", domain.ApplicationPending, domain.ApplicationApproved, domain.ApplicationRejected, domain.ApplicationExpired:
	default:
		return nil, fieldError("status", "must be one of: PENDING APPROVED REJECTED EXPIRED")
	}

	n, err := s.Store.Applications().ExpireStaleApplications(ctx, s.Now.now())
	if err != nil {
		return nil, fmt.Errorf("sweep stale applications: %w", err)
	}
	if n > 0 {
		slogx.FromContext(ctx).Info("expired stale applications", slog.Int64("count", n))
	}
	return s.Store.Applications().ListApplications(ctx, status, limit, offset)
}

// Activation is an approved application waiting for its password.
type Activation struct {
	Application domain.Application
	Member      domain.Member
}

// GetActivation resolves an activation link. ErrAlreadyActivated once the
// member has a password, ErrMemberInactive if an admin deactivated them
// before they set one.
func (s *ApplicationService) GetActivation(ctx context.Context, token string) (Activation, error) {
	if token == "" {
		return Activation{}, ErrActivationNotFound
	}
	app, err := s.Store.Applications().GetApplicationByActivationHash(ctx, cryptox.FingerprintToken(token))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Activation{}, ErrActivationNotFound
		}
		return Activation{}, err
	}
	if app.ActivatedAt != nil {
		return Activation{}, ErrAlreadyActivated
	}

	member, err := s.Store.Members().GetMemberByEmail(ctx, app.ApplicantEmail)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Deleted after approval.
			return Activation{}, ErrActivationNotFound
		}
		return Activation{}, err
	}
	if member.Activated() {
		return Activation{}, ErrAlreadyActivated
	}
	if !member.Active {
		return Activation{}, ErrMemberInactive
	}
	return Activation{Application: app, Member: member}, nil
}

// Activate sets the member's first password. The caller signs the returned
// member in.
func (s *ApplicationService) Activate(ctx context.Context, token, password string) (domain.Member, error) {
	log := slogx.FromContext(ctx)

	act, err := s.GetActivation(ctx, token)
	if err != nil {
		return domain.Member{}, err
	}
	if err := cryptox.CheckPasswordStrength(password); err != nil {
		return domain.Member{}, fieldError("password", err.Error())
	}
	hash, err := cryptox.HashPassword(password)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return domain.Member{}, err
	}

	now := s.Now.now()
	member := act.Member
	member.UserID = idx.NewAt(now).String()
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Applications().MarkActivated(ctx, act.Application.ID, now); err != nil {
			return err
		}
		return tx.Members().SetPassword(ctx, member.ID, member.UserID, hash, now)
	})
	if errors.Is(err, store.ErrConflict) {
		return domain.Member{}, ErrAlreadyActivated
	}
	if err != nil {
		log.Error("failed to activate member",
			slog.String("member_id", member.ID),
			slog.Any("error", err),
		)
		return domain.Member{}, err
	}

	member.PasswordHash = hash
	member.UpdatedAt = now
	log.Info("member activated", slog.String("member_id", member.ID))
	return member, nil
}
