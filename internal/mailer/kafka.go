package mailer

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/utafrali/storefront/internal/domain"
	pkgkafka "github.com/utafrali/storefront/pkg/kafka"
	"github.com/utafrali/storefront/pkg/logger"
)

// Contact message event identifiers.
const (
	ContactSubmittedEvent = "contact.submitted"
	contactAggregateType  = "contact_message"
)

// ContactSubmittedTopic is the topic contact messages are published to.
var ContactSubmittedTopic = pkgkafka.Topic("notification", "contact-submitted")

// Publisher publishes an event to a topic.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// ContactSubmittedData is the payload of a contact.submitted event.
type ContactSubmittedData struct {
	MessageID string `json:"message_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Message   string `json:"message"`
}

// KafkaSender hands contact messages to the notification pipeline as events.
type KafkaSender struct {
	publisher Publisher
	topic     string
}

// NewKafkaSender creates a sender publishing to ContactSubmittedTopic.
func NewKafkaSender(p Publisher) *KafkaSender {
	return &KafkaSender{publisher: p, topic: ContactSubmittedTopic}
}

// Send publishes msg. The returned id is both the event id and the message id
// carried in the payload.
func (s *KafkaSender) Send(ctx context.Context, msg domain.ContactMessage) (string, error) {
	id := uuid.NewString()
	opts := []pkgkafka.EventOption{pkgkafka.WithEventID(id)}
	if corrID := logger.CorrelationIDFromContext(ctx); corrID != "" {
		opts = append(opts, pkgkafka.WithCorrelationID(corrID))
	}

	event, err := pkgkafka.NewEvent(ContactSubmittedEvent, contactAggregateType, id, ContactSubmittedData{
		MessageID: id,
		Name:      msg.Name,
		Email:     msg.Email,
		Message:   msg.Message,
	}, opts...)
	if err != nil {
		return "", fmt.Errorf("build %s event: %w", ContactSubmittedEvent, err)
	}

	if err := s.publisher.Publish(ctx, s.topic, event); err != nil {
		return "", err
	}
	return id, nil
}
