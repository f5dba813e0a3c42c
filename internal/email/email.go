package email

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/clinovia/portal-api/internal/model"
)

// Service sends transactional mail. The worker is the only consumer; API
// handlers never send mail inline.
type Service interface {
	SendInvitation(payload *model.InvitationEmailPayload) error
	Send(to, subject, body string) error
}

type Config struct {
	Host      string
	Port      int
	Username  string
	Password  string
	From      string
	PortalURL string
}

type smtpService struct {
	dialer *gomail.Dialer
	config Config
}

func NewService(config Config) Service {
	return &smtpService{
		dialer: gomail.NewDialer(config.Host, config.Port, config.Username, config.Password),
		config: config,
	}
}

func (s *smtpService) SendInvitation(payload *model.InvitationEmailPayload) error {
	link := fmt.Sprintf("%s/invitations/%s", s.config.PortalURL, payload.Token)
	body := fmt.Sprintf(`
		<h2>You have been invited to join %s</h2>
		<p>You were invited as <strong>%s</strong>.</p>
		<p><a href="%s">Accept the invitation</a></p>
		<p>This link expires on %s.</p>
	`, payload.ClinicName, payload.Role, link, payload.ExpiresAt.Format("January 2, 2006"))

	return s.Send(payload.Email, fmt.Sprintf("Invitation to join %s", payload.ClinicName), body)
}

func (s *smtpService) Send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.config.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}
