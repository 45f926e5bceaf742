package utils

import (
	"crypto/tls"
	"fmt"
	"strconv"

	"gopkg.in/gomail.v2"
)

// Mailer sends HTML mail. Handlers depend on this interface so tests
// can substitute a recording fake.
type Mailer interface {
	Send(to, subject, body string) error
}

type SMTPMailer struct {
	Host   string
	Port   string
	User   string
	Pass   string
	Sender string
}

func NewSMTPMailer(host, port, user, pass, sender string) *SMTPMailer {
	return &SMTPMailer{Host: host, Port: port, User: user, Pass: pass, Sender: sender}
}

func (s *SMTPMailer) Send(to, subject, body string) error {
	if s.Host == "" || s.User == "" {
		return fmt.Errorf("SMTP configuration is missing")
	}

	port, _ := strconv.Atoi(s.Port)

	m := gomail.NewMessage()
	m.SetHeader("From", s.Sender)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(s.Host, port, s.User, s.Pass)

	// For local dev with simple SMTP or if cert issues arise
	d.TLSConfig = &tls.Config{InsecureSkipVerify: true}

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
