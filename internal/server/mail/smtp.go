package mail

import (
	"context"
	"fmt"
	"net/smtp"
)

// SMTPMailer sends plain-text mail through an SMTP relay with PLAIN auth
// over STARTTLS (what smtp.SendMail negotiates when the server offers it).
type SMTPMailer struct {
	host     string
	port     int
	user     string
	password string
	from     string
}

func NewSMTPMailer(host string, port int, user, password, from string) *SMTPMailer {
	return &SMTPMailer{host: host, port: port, user: user, password: password, from: from}
}

// sendMail is a test seam for smtp.SendMail.
var sendMail = smtp.SendMail

func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", m.from, to, subject, body)

	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	auth := smtp.PlainAuth("", m.user, m.password, m.host)

	if err := sendMail(addr, auth, m.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send error: %w", err)
	}
	return nil
}
