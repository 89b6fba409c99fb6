package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/utafrali/storefront/internal/domain"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/validator"
)

// Messages returned to the contact form.
const (
	MsgContactFieldsRequired = "All fields are required"
	MsgContactInvalidEmail   = "Please enter a valid email address"
	MsgContactSent           = "Thank you for your message! We'll get back to you soon."
	MsgContactSendFailed     = "Sorry, there was an error sending your message. Please try again later."
)

// Sender delivers a contact message and returns its delivery id.
type Sender interface {
	Send(ctx context.Context, msg domain.ContactMessage) (string, error)
}

// ContactService validates contact form submissions and hands them to a Sender.
type ContactService struct {
	sender Sender
	logger *slog.Logger
}

// NewContactService creates a new contact service.
func NewContactService(sender Sender, logger *slog.Logger) *ContactService {
	return &ContactService{sender: sender, logger: logger}
}

// Submit trims, validates and truncates msg, then sends it.
func (s *ContactService) Submit(ctx context.Context, msg domain.ContactMessage) (string, error) {
	msg.Normalize()

	if err := validator.Validate(msg); err != nil {
		var valErr *validator.ValidationError
		if errors.As(err, &valErr) && !valErr.HasTag("required") {
			return "", apperrors.InvalidInput(MsgContactInvalidEmail)
		}
		return "", apperrors.InvalidInput(MsgContactFieldsRequired)
	}

	msg.Truncate()

	id, err := s.sender.Send(ctx, msg)
	if err != nil {
		return "", fmt.Errorf("send contact message: %w", err)
	}

	s.logger.InfoContext(ctx, "contact message sent", slog.String("message_id", id))
	return id, nil
}
