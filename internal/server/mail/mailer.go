// Package mail defines the outbound email collaborator. The auth service
// only sees the Mailer interface; delivery transport is an implementation
// detail picked at startup.
package mail

import (
	"context"

	"github.com/dmitrijs2005/taskboard/internal/logging"
	"github.com/dmitrijs2005/taskboard/internal/server/config"
)

type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// NewFromConfig picks the Mailer implementation: "smtp" really sends,
// anything else falls back to the development log mailer.
func NewFromConfig(cfg *config.Config, logger logging.Logger) Mailer {
	if cfg.MailerMode == "smtp" {
		return NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom)
	}
	return NewLogMailer(logger)
}
