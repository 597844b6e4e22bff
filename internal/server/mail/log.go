package mail

import (
	"context"

	"github.com/dmitrijs2005/taskboard/internal/logging"
)

// LogMailer logs outbound mail instead of sending it. Development only.
// The body (which carries the reset link) is logged at debug level.
type LogMailer struct {
	logger logging.Logger
}

func NewLogMailer(logger logging.Logger) *LogMailer {
	return &LogMailer{logger: logger.With("module", "log_mailer")}
}

func (m *LogMailer) Send(ctx context.Context, to, subject, body string) error {
	m.logger.Info(ctx, "mail dispatched", "to", to, "subject", subject)
	m.logger.Debug(ctx, "mail body", "body", body)
	return nil
}
