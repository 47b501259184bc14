package mailer

import (
	"crypto/tls"
	"fmt"

	mail "github.com/go-mail/mail/v2"

	"github.com/t3ch-N/mAGICAL-clone-sub001/config"
)

// Sender delivers a single HTML message.
type Sender interface {
	Send(to []string, subject, html string) error
}

// SMTPSender sends through a STARTTLS SMTP relay.
type SMTPSender struct {
	dialer *mail.Dialer
	from   string
}

// NewSMTPSender builds a sender from mail settings.
func NewSMTPSender(cfg *config.MailConfig) (*SMTPSender, error) {
	if cfg.SMTPHost == "" || cfg.From == "" {
		return nil, fmt.Errorf("smtp not configured: mail.smtp_host and mail.from are required")
	}

	d := mail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.Username, cfg.Password)
	d.StartTLSPolicy = mail.MandatoryStartTLS
	d.TLSConfig = &tls.Config{ServerName: cfg.SMTPHost}

	return &SMTPSender{dialer: d, from: cfg.From}, nil
}

// Send implements Sender. An empty recipient list is a no-op.
func (s *SMTPSender) Send(to []string, subject, html string) error {
	if len(to) == 0 {
		return nil
	}

	m := mail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", html)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}
