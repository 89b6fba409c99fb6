package mailer

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/utafrali/storefront/internal/domain"
)

// LogSender writes contact messages to the log instead of delivering them.
// Intended for local development.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a LogSender.
func NewLogSender(l *slog.Logger) *LogSender {
	return &LogSender{logger: l}
}

// Send logs msg and returns a fresh id.
func (s *LogSender) Send(ctx context.Context, msg domain.ContactMessage) (string, error) {
	id := uuid.NewString()
	s.logger.InfoContext(ctx, "contact message",
		slog.String("message_id", id),
		slog.String("name", msg.Name),
		slog.String("email", msg.Email),
		slog.Int("message_length", len(msg.Message)),
	)
	return id, nil
}
