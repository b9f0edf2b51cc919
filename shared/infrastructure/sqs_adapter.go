package infrastructure

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/campushq/enrollment-system/shared/events"
	"github.com/pkg/errors"
)

// SQSSubscriberAdapter adapts SQSEventSubscriber to the events.Subscriber interface
type SQSSubscriberAdapter struct {
	sqsSubscriber *SQSEventSubscriber
	isRunning     bool
	queueURL      string
	options       []SQSSubscriberOption
}

// NewSQSSubscriberAdapter creates a new SQS subscriber adapter
func NewSQSSubscriberAdapter(queueURL string, opts ...SQSSubscriberOption) (*SQSSubscriberAdapter, error) {
	return &SQSSubscriberAdapter{
		queueURL: queueURL,
		options:  opts,
	}, nil
}

// eventHandlerAdapter adapts events.EventHandler to the subscriber's EventHandler
type eventHandlerAdapter struct {
	handler events.EventHandler
}

func (a *eventHandlerAdapter) HandlerID() string {
	if h, ok := a.handler.(interface{ HandlerID() string }); ok {
		return h.HandlerID()
	}
	return "event-handler-adapter"
}

func (a *eventHandlerAdapter) Handle(ctx context.Context, event *events.Event) error {
	return a.handler.Handle(ctx, event)
}

// Subscribe implements events.Subscriber. The queue carries every topic the
// orchestrator subscribed its SNS topic to, so eventType is ignored here;
// routing happens in the handler.
func (s *SQSSubscriberAdapter) Subscribe(ctx context.Context, _ string, handler events.EventHandler) error {
	if s.isRunning {
		return errors.New("subscriber is already running")
	}

	cfg, err := config.LoadDefaultConfig(context.Background())
	if err != nil {
		return errors.Wrap(err, "failed to load AWS config")
	}

	sqsClient := sqs.NewFromConfig(cfg)

	s.sqsSubscriber = NewSQSEventSubscriber(sqsClient, s.queueURL, &eventHandlerAdapter{handler: handler}, s.options...)

	if err := s.sqsSubscriber.Start(ctx); err != nil {
		return errors.Wrap(err, "failed to start SQS subscriber")
	}

	s.isRunning = true
	return nil
}

// Close stops the subscriber
func (s *SQSSubscriberAdapter) Close() error {
	if !s.isRunning || s.sqsSubscriber == nil {
		return nil
	}

	if err := s.sqsSubscriber.Stop(context.Background()); err != nil {
		return errors.Wrap(err, "failed to stop SQS subscriber")
	}

	s.isRunning = false
	return nil
}
