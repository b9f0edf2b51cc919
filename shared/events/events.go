package events

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"time"

	"github.com/campushq/enrollment-system/shared/models"
)

var (
	ErrInvalidTopic    = errors.New("invalid topic")
	ErrInvalidPayload  = errors.New("invalid payload")
	ErrInvalidReceiver = errors.New("receiver should be a pointer")
)

// Topic represents an event topic
type Topic string

func NewTopic(topic string) (Topic, error) {
	if topic == "" {
		return "", ErrInvalidTopic
	}
	return Topic(topic), nil
}

func (t Topic) String() string {
	return string(t)
}

// Metadata represents event metadata
type Metadata map[string]string

func (m Metadata) Get(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

func (m Metadata) Set(key string, value string) {
	if m == nil {
		m = make(Metadata)
	}
	m[key] = value
}

func (m Metadata) Has(key string) bool {
	_, ok := m[key]
	return ok
}

func (m Metadata) Merge(metadata Metadata) Metadata {
	if m == nil {
		m = make(Metadata)
	}
	for k, v := range metadata {
		m[k] = v
	}
	return m
}

func (m Metadata) Clone() Metadata {
	clone := Metadata{}
	for k, v := range m {
		clone[k] = v
	}
	return clone
}

// Event represents a domain event
type Event struct {
	ID            models.ID   `json:"id"`
	AggregateID   models.ID   `json:"aggregate_id"`
	Topic         Topic       `json:"topic"`
	EventType     string      `json:"event_type"`
	Version       string      `json:"version"`
	Data          interface{} `json:"data"`
	Metadata      Metadata    `json:"metadata"`
	Timestamp     time.Time   `json:"timestamp"`
	CorrelationID models.ID   `json:"correlation_id"`
}

// Publisher publishes events
type Publisher interface {
	Publish(ctx context.Context, events ...*Event) error
}

// Subscriber subscribes to events
type Subscriber interface {
	Subscribe(ctx context.Context, eventType string, handler EventHandler) error
}

// EventHandler handles domain events
type EventHandler interface {
	Handle(ctx context.Context, event *Event) error
}

// Journal records every event that flows through the orchestrator,
// giving a single auditable trail per correlation id.
type Journal interface {
	Append(ctx context.Context, events ...*Event) error
	GetByCorrelationID(ctx context.Context, correlationID models.ID) ([]*Event, error)
}

// NewEvent creates a new domain event
func NewEvent(aggregateID models.ID, eventType string, data interface{}) *Event {
	topic, _ := NewTopic(eventType) // eventType constants are trusted
	return &Event{
		ID:          models.GenerateUUID(),
		AggregateID: aggregateID,
		Topic:       topic,
		EventType:   eventType,
		Version:     "1.0",
		Data:        data,
		Metadata:    make(Metadata),
		Timestamp:   time.Now(),
	}
}

// WithCorrelationID sets correlation ID
func (e *Event) WithCorrelationID(correlationID models.ID) *Event {
	e.CorrelationID = correlationID
	return e
}

// WithMetadata adds metadata
func (e *Event) WithMetadata(key string, value string) *Event {
	if e.Metadata == nil {
		e.Metadata = make(Metadata)
	}
	e.Metadata.Set(key, value)
	return e
}

// ToJSON converts event to JSON
func (e *Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// FromJSON creates event from JSON
func FromJSON(data []byte) (*Event, error) {
	var event Event
	err := json.Unmarshal(data, &event)
	return &event, err
}

// MarshalPayload marshals the event payload
func (e *Event) MarshalPayload() (json.RawMessage, error) {
	if b, ok := e.Data.([]byte); ok {
		return b, nil
	}

	if b, ok := e.Data.(json.RawMessage); ok {
		return b, nil
	}

	return json.Marshal(e.Data)
}

// UnmarshalPayload unmarshals the event payload into the given interface
func (e *Event) UnmarshalPayload(v interface{}) error {
	vValue := reflect.ValueOf(v)
	if vValue.Kind() != reflect.Ptr {
		return ErrInvalidReceiver
	}

	if e.Data == nil {
		return ErrInvalidPayload
	}

	vValue = vValue.Elem()
	payloadValue := reflect.ValueOf(e.Data)
	if vValue.Type() == payloadValue.Type() {
		vValue.Set(payloadValue)
		return nil
	}

	if b, ok := e.Data.([]byte); ok {
		return json.Unmarshal(b, v)
	}

	if b, ok := e.Data.(json.RawMessage); ok {
		return json.Unmarshal([]byte(b), v)
	}

	raw, err := e.MarshalPayload()
	if err != nil {
		return err
	}

	return json.Unmarshal(raw, v)
}

// Clone creates a copy of the event
func (e *Event) Clone() *Event {
	return &Event{
		ID:            e.ID,
		AggregateID:   e.AggregateID,
		Topic:         e.Topic,
		EventType:     e.EventType,
		Version:       e.Version,
		Data:          e.Data,
		Metadata:      e.Metadata.Clone(),
		Timestamp:     e.Timestamp,
		CorrelationID: e.CorrelationID,
	}
}

// Event Types Constants
const (
	// Enrollment Trigger Events
	EnrollmentRequestedEvent = "enrollment.requested"

	// Payment Service Events
	PaymentInitiateCommand        = "payment.initiate"
	PaymentCompletedEvent         = "payment.completed"
	PaymentFailedEvent            = "payment.failed"
	PaymentRefundRequestedCommand = "payment.refund.requested"
	PaymentRefundedEvent          = "payment.refunded"

	// Enrollment Service Events
	EnrollStudentCommand             = "enrollment.enroll.student"
	StudentEnrolledEvent             = "enrollment.student.enrolled"
	EnrollmentFailedEvent            = "enrollment.failed"
	EnrollmentCancelRequestedCommand = "enrollment.cancel.requested"
	EnrollmentCancelledEvent         = "enrollment.cancelled"

	// Notification Service Events
	EnrollmentConfirmedNotificationCommand = "notification.enrollment.confirmed"
	EnrollmentFailedNotificationCommand    = "notification.enrollment.failed"

	// Saga Lifecycle Events
	SagaStartedEvent     = "saga.started"
	SagaCompletedEvent   = "saga.completed"
	SagaFailedEvent      = "saga.failed"
	SagaCompensatedEvent = "saga.compensated"
	SagaTimedOutEvent    = "saga.timed.out"

	// SagaTimeoutEvent is the synthetic event injected by the timeout sweeper
	SagaTimeoutEvent = "saga.timeout"
)
