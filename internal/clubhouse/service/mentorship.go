package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/aussiebroadwan/clubhouse/internal/clubhouse/domain"
	"github.com/aussiebroadwan/clubhouse/internal/clubhouse/store"
	"github.com/aussiebroadwan/clubhouse/pkg/idx"
	"github.com/aussiebroadwan/clubhouse/pkg/slogx"
)

var (
	ErrSelfMentorship       = errors.New("cannot request mentorship with yourself")
	ErrMentorUnavailable    = errors.New("member is not available as a mentor")
	ErrNotSeekingMentor     = errors.New("member is not seeking a mentor")
	ErrDuplicateMentorship  = errors.New("a mentorship request already exists for this pair")
	ErrMentorshipNotFound   = errors.New("mentorship request not found")
	ErrMentorshipNotPending = errors.New("mentorship request already answered")
)

const (
	RoleMentee = "mentee"
	RoleMentor = "mentor"
)

// MentorshipInput is a request from the caller to another member. Role is
// the caller's side: "mentee" asks MemberID to mentor the caller.
type MentorshipInput struct {
	MemberID string `json:"memberId" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=mentee mentor"`
	Message  string `json:"message" validate:"max=2000"`
}

type MentorshipService struct {
	Store    store.Store
	Notifier *Notifier
	Now      Clock
}

// Request creates a PENDING request between the caller and another member.
func (s *MentorshipService) Request(ctx context.Context, callerID string, in MentorshipInput) (domain.MentorshipRequest, error) {
	log := slogx.FromContext(ctx)

	if err := validateStruct(in); err != nil {
		return domain.MentorshipRequest{}, err
	}
	if in.MemberID == callerID {
		return domain.MentorshipRequest{}, ErrSelfMentorship
	}

	caller, err := s.activeMember(ctx, callerID)
	if err != nil {
		return domain.MentorshipRequest{}, err
	}
	target, err := s.activeMember(ctx, in.MemberID)
	if err != nil {
		return domain.MentorshipRequest{}, err
	}

	now := s.Now.now()
	req := domain.MentorshipRequest{
		ID:          idx.NewAt(now).String(),
		RequestedBy: callerID,
		Status:      domain.MentorshipPending,
		Message:     strings.TrimSpace(in.Message),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	switch in.Role {
	case RoleMentee:
		if !target.AvailableAsMentor {
			return domain.MentorshipRequest{}, ErrMentorUnavailable
		}
		req.MentorID, req.MenteeID = target.ID, caller.ID
	case RoleMentor:
		if !target.SeekingMentor {
			return domain.MentorshipRequest{}, ErrNotSeekingMentor
		}
		req.MentorID, req.MenteeID = caller.ID, target.ID
	}

	if err := s.Store.Mentorships().CreateMentorshipRequest(ctx, req); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.MentorshipRequest{}, ErrDuplicateMentorship
		}
		log.Error("failed to create mentorship request", slog.Any("error", err))
		return domain.MentorshipRequest{}, err
	}

	log.Info("mentorship requested",
		slog.String("request_id", req.ID),
		slog.String("mentor_id", req.MentorID),
		slog.String("mentee_id", req.MenteeID),
	)
	s.Notifier.MentorshipRequested(ctx, target, caller)
	return req, nil
}

func (s *MentorshipService) activeMember(ctx context.Context, id string) (domain.Member, error) {
	m, err := s.Store.Members().GetMemberByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Member{}, ErrMemberNotFound
		}
		return domain.Member{}, err
	}
	if !m.Active {
		return domain.Member{}, ErrMemberNotFound
	}
	return m, nil
}

// Respond accepts or declines a request. Only the member who did not send
// it may answer, and only once.
func (s *MentorshipService) Respond(ctx context.Context, callerID, requestID string, accept bool) (domain.MentorshipView, error) {
	log := slogx.FromContext(ctx)

	req, err := s.Store.Mentorships().GetMentorshipRequest(ctx, requestID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.MentorshipView{}, ErrMentorshipNotFound
		}
		return domain.MentorshipView{}, err
	}
	if !req.Involves(callerID) {
		// Do not reveal requests between other members.
		return domain.MentorshipView{}, ErrMentorshipNotFound
	}
	if req.Counterparty(callerID) != req.RequestedBy {
		return domain.MentorshipView{}, ErrForbidden
	}
	if req.Status != domain.MentorshipPending {
		return domain.MentorshipView{}, ErrMentorshipNotPending
	}

	to := domain.MentorshipDeclined
	if accept {
		to = domain.MentorshipAccepted
	}
	now := s.Now.now()
	err = s.Store.Mentorships().UpdateMentorshipStatus(ctx, req.ID, to, accept, now)
	if errors.Is(err, store.ErrConflict) {
		return domain.MentorshipView{}, ErrMentorshipNotPending
	}
	if err != nil {
		log.Error("failed to update mentorship request",
			slog.String("request_id", req.ID),
			slog.Any("error", err),
		)
		return domain.MentorshipView{}, err
	}
	req.Status = to
	req.ContactShared = accept
	req.UpdatedAt = now

	log.Info("mentorship answered",
		slog.String("request_id", req.ID),
		slog.String("status", string(to)),
	)

	view, err := s.view(ctx, req)
	if err != nil {
		return domain.MentorshipView{}, err
	}
	if accept {
		requester, responder := view.Mentor, view.Mentee
		if req.RequestedBy == req.MenteeID {
			requester, responder = view.Mentee, view.Mentor
		}
		s.Notifier.MentorshipAccepted(ctx,
			domain.Member{Name: requester.Name, Email: requester.Email},
			domain.Member{Name: responder.Name, Email: responder.Email},
		)
	}
	return view, nil
}

// ListForMember returns every request involving the member, newest first.
func (s *MentorshipService) ListForMember(ctx context.Context, memberID string) ([]domain.MentorshipView, error) {
	reqs, err := s.Store.Mentorships().ListMentorshipRequestsFor(ctx, memberID)
	if err != nil {
		return nil, err
	}
	views := make([]domain.MentorshipView, 0, len(reqs))
	for _, r := range reqs {
		v, err := s.view(ctx, r)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}

// Mentors lists members available to mentor, without contact details.
func (s *MentorshipService) Mentors(ctx context.Context, limit, offset int) ([]domain.MemberCard, error) {
	limit, offset = page(limit, offset)
	members, err := s.Store.Members().ListMentors(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	cards := make([]domain.MemberCard, 0, len(members))
	for _, m := range members {
		cards = append(cards, card(m, false))
	}
	return cards, nil
}

func (s *MentorshipService) view(ctx context.Context, r domain.MentorshipRequest) (domain.MentorshipView, error) {
	mentor, err := s.Store.Members().GetMemberByID(ctx, r.MentorID)
	if err != nil {
		return domain.MentorshipView{}, err
	}
	mentee, err := s.Store.Members().GetMemberByID(ctx, r.MenteeID)
	if err != nil {
		return domain.MentorshipView{}, err
	}
	return domain.MentorshipView{
		Request: r,
		Mentor:  card(mentor, r.ContactShared),
		Mentee:  card(mentee, r.ContactShared),
	}, nil
}
