package services

import (
	"context"
	"errors"
	"fmt"
	"html"
	"time"

	"showwise/internal/models"
	"showwise/internal/notify"
)

const emailDateLayout = "Mon Jan 2, 3:04 PM"

// ErrNoRecipients is returned by Announce when no crew member has an e-mail address
var ErrNoRecipients = fmt.Errorf("no crew member with an e-mail address: %w", notify.ErrNothingToDeliver)

// EmailService sends crew e-mail through the configured Mailer
type EmailService struct {
	mailer Mailer
	loc    *time.Location
}

func NewEmailService(mailer Mailer, loc *time.Location) *EmailService {
	if loc == nil {
		loc = time.UTC
	}
	return &EmailService{mailer: mailer, loc: loc}
}

// SendCrewAssignment tells a crew member they were put on an event
func (s *EmailService) SendCrewAssignment(ctx context.Context, address, name string, event *models.Event, role string) error {
	if address == "" {
		return nil
	}
	when := event.StartsAt.In(s.loc).Format(emailDateLayout)
	roleText := ""
	if role != "" {
		roleText = " as " + role
	}

	return s.mailer.Send(ctx, Message{
		ToAddress: address,
		ToName:    name,
		Subject:   fmt.Sprintf("You're on the crew for %s", event.Title),
		Text: fmt.Sprintf("Hello %s, you have been assigned to %s%s on %s.",
			name, event.Title, roleText, when),
		HTML: fmt.Sprintf("<p>Hello %s,</p><p>You have been assigned to <strong>%s</strong>%s on %s.</p>",
			html.EscapeString(name), html.EscapeString(event.Title), html.EscapeString(roleText), when),
	})
}

// Announce mails the reminder to every recipient with an address. Recipients
// without one are skipped, and with nobody to mail it returns ErrNoRecipients.
// The call fails only if every attempted send failed. Event announcements are not mailed.
func (s *EmailService) Announce(ctx context.Context, a notify.Announcement) error {
	if a.Kind == "" {
		return fmt.Errorf("event announcement: %w", notify.ErrNothingToDeliver)
	}

	var errs []error
	attempted := 0
	for _, p := range a.Recipients {
		if p.Email == "" {
			continue
		}
		attempted++

		err := s.mailer.Send(ctx, Message{
			ToAddress: p.Email,
			ToName:    p.Name,
			Subject:   a.Title,
			Text: fmt.Sprintf("Hello %s, your event is %s. %s\n%s",
				p.Name, a.Kind.CallToAction(), a.Description, a.Footer),
			HTML: fmt.Sprintf("<p>Hello %s,</p><p><strong>%s</strong></p><p>Your event is %s. %s</p><p>%s</p>",
				html.EscapeString(p.Name), html.EscapeString(a.Title), a.Kind.CallToAction(),
				html.EscapeString(a.Description), a.Footer),
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", p.Email, err))
		}
	}

	if attempted == 0 {
		return ErrNoRecipients
	}
	if len(errs) == attempted {
		return errors.Join(errs...)
	}
	return nil
}
