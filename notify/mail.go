// Package notify sends e-mail notifications over SMTP.
package notify

import (
	"errors"

	"gopkg.in/gomail.v2"
)

var ErrNoRecipients = errors.New("no recipients")

// Notifier delivers an HTML message to a list of recipients.
type Notifier interface {
	Send(to []string, subject, body string) error
}

type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewMailer(host string, port int, user, password, from string) *Mailer {
	if from == "" {
		from = user
	}
	return &Mailer{
		dialer: gomail.NewDialer(host, port, user, password),
		from:   from,
	}
}

func (m *Mailer) Send(to []string, subject, body string) error {
	if len(to) == 0 {
		return ErrNoRecipients
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	return m.dialer.DialAndSend(msg)
}

// Discard drops every message. Used when SMTP is not configured.
type Discard struct{}

func (Discard) Send([]string, string, string) error { return nil }
