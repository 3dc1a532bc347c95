package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/Apurer/adoption-coordinator/internal/domains/adoptions/domain"
	"github.com/Apurer/adoption-coordinator/internal/domains/adoptions/ports"
)

var _ ports.Notifier = (*EmailNotifier)(nil)

// Mailer is the subset of the SendGrid client the notifier needs.
type Mailer interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// EmailNotifier emails applicants when their request changes status.
type EmailNotifier struct {
	mailer Mailer
	from   *mail.Email
}

// NewSendGridNotifier builds an EmailNotifier backed by the SendGrid v3 API.
func NewSendGridNotifier(apiKey, fromEmail, fromName string) (*EmailNotifier, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("sendgrid api key is empty")
	}
	return NewEmailNotifier(sendgrid.NewSendClient(apiKey), fromEmail, fromName)
}

// NewEmailNotifier wires any Mailer into the notifier.
func NewEmailNotifier(mailer Mailer, fromEmail, fromName string) (*EmailNotifier, error) {
	if mailer == nil {
		return nil, errors.New("mailer is nil")
	}
	if strings.TrimSpace(fromEmail) == "" {
		return nil, errors.New("sender address is empty")
	}
	return &EmailNotifier{mailer: mailer, from: mail.NewEmail(fromName, fromEmail)}, nil
}

// Notify sends one message per notification. Profiles without an email address are skipped.
func (e *EmailNotifier) Notify(ctx context.Context, n ports.Notification) error {
	to, ok := recipientOf(n.ApplicantProfile)
	if !ok {
		return nil
	}
	subject, body := compose(n)

	message := mail.NewV3Mail()
	message.SetFrom(e.from)
	message.Subject = subject
	p := mail.NewPersonalization()
	p.AddTos(to)
	message.AddPersonalizations(p)
	message.AddContent(mail.NewContent("text/plain", body))

	response, err := e.mailer.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("send adoption email: %w", err)
	}
	if response != nil && response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

type contact struct {
	Email   string   `json:"email"`
	Name    string   `json:"name"`
	Contact *contact `json:"contact"`
}

func recipientOf(profile json.RawMessage) (*mail.Email, bool) {
	if len(profile) == 0 {
		return nil, false
	}
	var c contact
	if err := json.Unmarshal(profile, &c); err != nil {
		return nil, false
	}
	if strings.TrimSpace(c.Email) == "" && c.Contact != nil {
		name := c.Contact.Name
		if name == "" {
			name = c.Name
		}
		c = contact{Email: c.Contact.Email, Name: name}
	}
	if strings.TrimSpace(c.Email) == "" {
		return nil, false
	}
	return mail.NewEmail(c.Name, strings.TrimSpace(c.Email)), true
}

func compose(n ports.Notification) (string, string) {
	ref := fmt.Sprintf("Request %s for animal %s", n.RequestID, n.AnimalID)
	switch domain.Status(n.Status) {
	case domain.StatusPending:
		return "We received your adoption request", ref + " has been received and is waiting for a reviewer."
	case domain.StatusInReview:
		return "Your adoption request is under review", ref + " is now being reviewed by our staff."
	case domain.StatusApproved:
		return "Your adoption request was approved", ref + " was approved. We will be in touch to arrange the handover."
	case domain.StatusRejected:
		body := ref + " was not successful."
		if n.Reason != "" {
			body += " Reason: " + n.Reason + "."
		}
		return "Update on your adoption request", body
	case domain.StatusCancelled:
		return "Your adoption request was cancelled", ref + " was cancelled."
	default:
		return "Update on your adoption request", ref + " is now " + n.Status + "."
	}
}
