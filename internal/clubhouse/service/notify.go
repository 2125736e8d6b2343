package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/clubhouse/internal/clubhouse/domain"
	"github.com/aussiebroadwan/clubhouse/internal/clubhouse/metrics"
	"github.com/aussiebroadwan/clubhouse/pkg/mailx"
	"github.com/aussiebroadwan/clubhouse/pkg/slogx"
)

const sendTimeout = 10 * time.Second

// Notifier sends the transactional emails. Delivery is best effort: errors
// are logged and counted, never returned to the caller.
type Notifier struct {
	Mailer  mailx.Mailer
	SiteURL string
}

func (n *Notifier) link(parts ...string) string {
	if n == nil {
		return ""
	}
	return strings.TrimRight(n.SiteURL, "/") + "/" + strings.Join(parts, "/")
}

func (n *Notifier) send(ctx context.Context, kind string, msg mailx.Message) {
	if n == nil || n.Mailer == nil {
		return
	}
	log := slogx.FromContext(ctx)

	// The request may already be finished by the time the provider answers.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sendTimeout)
	defer cancel()

	err := n.Mailer.Send(ctx, msg)
	metrics.RecordEmail(kind, err)
	if err != nil {
		log.Warn("email delivery failed",
			slog.String("kind", kind),
			slog.String("to", msg.ToEmail),
			slog.Any("error", err),
		)
		return
	}
	log.Debug("email sent", slog.String("kind", kind), slog.String("to", msg.ToEmail))
}

// ApplicationSubmitted tells the sponsor an applicant named them.
func (n *Notifier) ApplicationSubmitted(ctx context.Context, app domain.Application, sponsor domain.Member, token string) {
	url := n.link("applications", token)
	n.send(ctx, "application_submitted", mailx.Message{
		ToName:  sponsor.Name,
		ToEmail: sponsor.Email,
		Subject: fmt.Sprintf("%s asked you to sponsor their membership", app.ApplicantName),
		Text: fmt.Sprintf(
			"Hi %s,\n\n%s (%s) has applied for membership and named you as their sponsor.\n\n"+
				"Review the application: %s\nVerification code: %s\n\n"+
				"The link expires on %s.\n",
			sponsor.Name, app.ApplicantName, app.ApplicantEmail, url, app.VerificationCode,
			app.ExpiresAt.Format(time.RFC1123),
		),
	})
}

// ApplicationApproved welcomes the new member with their activation link.
func (n *Notifier) ApplicationApproved(ctx context.Context, app domain.Application, activationToken string) {
	url := n.link("activate", activationToken)
	n.send(ctx, "application_approved", mailx.Message{
		ToName:  app.ApplicantName,
		ToEmail: app.ApplicantEmail,
		Subject: "Welcome to the club",
		Text: fmt.Sprintf(
			"Hi %s,\n\nYour sponsor approved your application. Set your password to activate your account:\n%s\n",
			app.ApplicantName, url,
		),
	})
}

func (n *Notifier) ApplicationRejected(ctx context.Context, app domain.Application) {
	n.send(ctx, "application_rejected", mailx.Message{
		ToName:  app.ApplicantName,
		ToEmail: app.ApplicantEmail,
		Subject: "Your membership application",
		Text: fmt.Sprintf(
			"Hi %s,\n\nYour membership application was not approved this time.\n",
			app.ApplicantName,
		),
	})
}

// MentorshipRequested notifies the member who has to answer a request.
func (n *Notifier) MentorshipRequested(ctx context.Context, to, from domain.Member) {
	n.send(ctx, "mentorship_requested", mailx.Message{
		ToName:  to.Name,
		ToEmail: to.Email,
		Subject: "New mentorship request",
		Text: fmt.Sprintf(
			"Hi %s,\n\n%s sent you a mentorship request. Review it here: %s\n",
			to.Name, from.Name, n.link("mentorship"),
		),
	})
}

func (n *Notifier) MentorshipAccepted(ctx context.Context, to, from domain.Member) {
	n.send(ctx, "mentorship_accepted", mailx.Message{
		ToName:  to.Name,
		ToEmail: to.Email,
		Subject: "Mentorship request accepted",
		Text: fmt.Sprintf(
			"Hi %s,\n\n%s accepted your mentorship request. You can reach them at %s.\n",
			to.Name, from.Name, from.Email,
		),
	})
}
