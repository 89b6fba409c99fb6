package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

type contactData struct {
	MessageID string `json:"message_id"`
	Name      string `json:"name"`
}

// --- Event ---

func TestNewEvent(t *testing.T) {
	event, err := NewEvent("contact.submitted", "contact_message", "msg-1", contactData{MessageID: "msg-1", Name: "Ada"})
	require.NoError(t, err)

	assert.NotEmpty(t, event.EventID)
	assert.Equal(t, "contact.submitted", event.EventType)
	assert.Equal(t, "contact_message", event.AggregateType)
	assert.Equal(t, "msg-1", event.AggregateID)
	assert.Equal(t, Source, event.Source)
	assert.Equal(t, 1, event.Version)
	assert.WithinDuration(t, time.Now().UTC(), event.Timestamp, 2*time.Second)
	assert.Empty(t, event.CorrelationID)
	assert.JSONEq(t, `{"message_id": "msg-1", "name": "Ada"}`, string(event.Data))
}

func TestNewEvent_Options(t *testing.T) {
	event, err := NewEvent("contact.submitted", "contact_message", "msg-2", nil,
		WithEventID("msg-2"), WithCorrelationID("corr-1"))
	require.NoError(t, err)

	assert.Equal(t, "msg-2", event.EventID)
	assert.Equal(t, "corr-1", event.CorrelationID)
	assert.JSONEq(t, `null`, string(event.Data))
}

func TestNewEvent_UnencodableData(t *testing.T) {
	_, err := NewEvent("contact.submitted", "contact_message", "msg-3", make(chan int))
	assert.ErrorContains(t, err, "marshal contact.submitted data")
}

// --- Producer ---

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestTopic(t *testing.T) {
	assert.Equal(t, "storefront.notification.contact-submitted", Topic("notification", "contact-submitted"))
}

func TestDefaultProducerConfig(t *testing.T) {
	cfg := DefaultProducerConfig([]string{"broker1:9092", "broker2:9092"})

	assert.Len(t, cfg.Brokers, 2)
	assert.Equal(t, 1, cfg.BatchSize)
	assert.Equal(t, 10*time.Second, cfg.WriteTimeout)
}

func TestProducer_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := NewProducerWithWriter(w, []string{"localhost:9092"}, nil)

	event, err := NewEvent("contact.submitted", "contact_message", "msg-1",
		contactData{MessageID: "msg-1", Name: "Ada"}, WithCorrelationID("corr-1"))
	require.NoError(t, err)

	require.NoError(t, p.Publish(context.Background(), "storefront.notification.contact-submitted", event))
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "storefront.notification.contact-submitted", msg.Topic)
	assert.Equal(t, []byte("msg-1"), msg.Key)
	assert.Equal(t, "contact.submitted", HeaderValue(msg.Headers, "event_type"))
	assert.Equal(t, Source, HeaderValue(msg.Headers, "source"))
	assert.Equal(t, "corr-1", HeaderValue(msg.Headers, "correlation_id"))

	var decoded Event
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, event.EventID, decoded.EventID)

	var data contactData
	require.NoError(t, json.Unmarshal(decoded.Data, &data))
	assert.Equal(t, "Ada", data.Name)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestProducer_PublishInjectsTraceContext(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})
	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()

	ctx, span := tp.Tracer("test").Start(context.Background(), "publish")
	defer span.End()

	w := &fakeWriter{}
	event, err := NewEvent("contact.submitted", "contact_message", "msg-2", nil)
	require.NoError(t, err)

	require.NoError(t, NewProducerWithWriter(w, nil, nil).Publish(ctx, "t", event))

	assert.Contains(t, HeaderValue(w.msgs[0].Headers, "traceparent"), span.SpanContext().TraceID().String())
}

func TestProducer_PublishError(t *testing.T) {
	w := &fakeWriter{err: errors.New("leader not available")}
	event, err := NewEvent("contact.submitted", "contact_message", "msg-3", nil)
	require.NoError(t, err)

	err = NewProducerWithWriter(w, nil, nil).Publish(context.Background(), "storefront.x.y", event)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storefront.x.y")
	assert.Contains(t, err.Error(), "leader not available")
}

func TestNewProducer_DoesNotConnect(t *testing.T) {
	p := NewProducer(DefaultProducerConfig([]string{"localhost:19092"}), nil)
	require.NotNil(t, p)
	assert.Equal(t, []string{"localhost:19092"}, p.brokers)
	assert.NoError(t, p.Close())
}

func TestPingBrokers(t *testing.T) {
	assert.ErrorContains(t, PingBrokers(t.Context(), nil), "no brokers")

	ctx, cancel := context.WithTimeout(t.Context(), 500*time.Millisecond)
	defer cancel()
	assert.ErrorContains(t, PingBrokers(ctx, []string{"127.0.0.1:1"}), "unreachable")
}
