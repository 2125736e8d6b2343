package http

import (
	"github.com/aussiebroadwan/clubhouse/internal/clubhouse/domain"
	"github.com/aussiebroadwan/clubhouse/internal/clubhouse/service"
	"github.com/aussiebroadwan/clubhouse/pkg/clubsdk"
)

func toProfile(p domain.Profile) clubsdk.Profile {
	return clubsdk.Profile{
		StreetAddress:             p.StreetAddress,
		City:                      p.City,
		State:                     p.State,
		Zip:                       p.Zip,
		ProfessionalQualification: p.ProfessionalQualification,
		Interest:                  p.Interest,
		Contribution:              p.Contribution,
		Employer:                  p.Employer,
		LinkedIn:                  p.LinkedIn,
	}
}

func profileInput(p clubsdk.Profile) service.ProfileInput {
	return service.ProfileInput{
		StreetAddress:             p.StreetAddress,
		City:                      p.City,
		State:                     p.State,
		Zip:                       p.Zip,
		ProfessionalQualification: p.ProfessionalQualification,
		Interest:                  p.Interest,
		Contribution:              p.Contribution,
		Employer:                  p.Employer,
		LinkedIn:                  p.LinkedIn,
	}
}

// toApplication never copies the verification code.
func toApplication(a domain.Application) clubsdk.Application {
	return clubsdk.Application{
		ID:             a.ID,
		Status:         string(a.Status),
		ApplicantName:  a.ApplicantName,
		ApplicantEmail: a.ApplicantEmail,
		SponsorEmail:   a.SponsorEmail,
		ExpiresAt:      a.ExpiresAt,
		ApprovedAt:     a.ApprovedAt,
		RejectedAt:     a.RejectedAt,
		CreatedAt:      a.CreatedAt,
		Profile:        toProfile(a.Profile),
	}
}

func toMember(m domain.Member) clubsdk.Member {
	return clubsdk.Member{
		ID:                m.ID,
		Email:             m.Email,
		Name:              m.Name,
		Active:            m.Active,
		Activated:         m.Activated(),
		Profile:           toProfile(m.Profile),
		AvailableAsMentor: m.AvailableAsMentor,
		MentorProfile:     m.MentorProfile,
		SeekingMentor:     m.SeekingMentor,
		MenteeProfile:     m.MenteeProfile,
		ApprovalsInWindow: m.ApprovalsInWindow,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

func toMembers(ms []domain.Member) []clubsdk.Member {
	out := make([]clubsdk.Member, len(ms))
	for i, m := range ms {
		out[i] = toMember(m)
	}
	return out
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func toCard(c domain.MemberCard) clubsdk.MemberCard {
	return clubsdk.MemberCard{
		ID:            c.ID,
		Name:          c.Name,
		Email:         optional(c.Email),
		LinkedIn:      optional(c.LinkedIn),
		Employer:      c.Employer,
		Interest:      c.Interest,
		MentorProfile: c.MentorProfile,
		MenteeProfile: c.MenteeProfile,
	}
}

func toCards(cs []domain.MemberCard) []clubsdk.MemberCard {
	out := make([]clubsdk.MemberCard, len(cs))
	for i, c := range cs {
		out[i] = toCard(c)
	}
	return out
}

func toMentorship(v domain.MentorshipView) clubsdk.Mentorship {
	return clubsdk.Mentorship{
		ID:            v.Request.ID,
		Status:        string(v.Request.Status),
		Message:       v.Request.Message,
		RequestedBy:   v.Request.RequestedBy,
		ContactShared: v.Request.ContactShared,
		Mentor:        toCard(v.Mentor),
		Mentee:        toCard(v.Mentee),
		CreatedAt:     v.Request.CreatedAt,
		UpdatedAt:     v.Request.UpdatedAt,
	}
}

func toPost(p domain.Post) clubsdk.Post {
	return clubsdk.Post{
		ID:           p.ID,
		AuthorID:     p.AuthorID,
		AuthorName:   p.AuthorName,
		Title:        p.Title,
		Body:         p.Body,
		CommentCount: p.CommentCount,
		CreatedAt:    p.CreatedAt,
	}
}

func toPosts(ps []domain.Post) []clubsdk.Post {
	out := make([]clubsdk.Post, len(ps))
	for i, p := range ps {
		out[i] = toPost(p)
	}
	return out
}

func toComment(c domain.Comment) clubsdk.Comment {
	return clubsdk.Comment{
		ID:         c.ID,
		PostID:     c.PostID,
		ParentID:   optional(c.ParentID),
		AuthorID:   c.AuthorID,
		AuthorName: c.AuthorName,
		Body:       c.Body,
		Depth:      c.Depth,
		CreatedAt:  c.CreatedAt,
	}
}

func toSponsor(s domain.Sponsor, hearted bool) clubsdk.Sponsor {
	return clubsdk.Sponsor{
		ID:          s.ID,
		Name:        s.Name,
		Website:     s.Website,
		Description: s.Description,
		LogoURL:     s.LogoURL,
		Spotlight:   s.Spotlight,
		Hearts:      s.Hearts,
		Hearted:     hearted,
	}
}

func sponsorInput(req clubsdk.SponsorRequest) service.SponsorInput {
	return service.SponsorInput{
		Name:        req.Name,
		Website:     req.Website,
		Description: req.Description,
		Spotlight:   req.Spotlight,
	}
}
