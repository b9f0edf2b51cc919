package saga

import (
	"context"
	"time"

	"github.com/campushq/enrollment-system/shared/events"
	"github.com/campushq/enrollment-system/shared/models"
	"github.com/campushq/enrollment-system/shared/telemetry"
	"github.com/cenkalti/backoff/v5"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// MetadataSagaID is the metadata/payload key carrying the correlating saga id
const MetadataSagaID = "saga_id"

const defaultMaxDispatchTries = 5

// Dispatcher resolves inbound events to saga reactions, advances the matching
// instances through the engine, persists the new state with optimistic
// concurrency and publishes the emitted commands. It implements the event
// handler interface of the bus subscriber, so returning an error leaves the
// inbound message on the queue for redelivery.
type Dispatcher struct {
	registry  *Registry
	store     InstanceStore
	publisher events.Publisher
	engine    *Engine
	journal   events.Journal
	logger    *zap.Logger
	maxTries  uint
}

// DispatcherOption configures the dispatcher
type DispatcherOption func(*Dispatcher)

// WithJournal records every inbound event and emitted command in the journal
func WithJournal(journal events.Journal) DispatcherOption {
	return func(d *Dispatcher) {
		d.journal = journal
	}
}

// WithLogger sets the dispatcher logger
func WithLogger(logger *zap.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// WithMaxDispatchTries bounds the local retry loop on version conflicts
func WithMaxDispatchTries(tries uint) DispatcherOption {
	return func(d *Dispatcher) {
		d.maxTries = tries
	}
}

// NewDispatcher creates a dispatcher over the given registry, store and publisher
func NewDispatcher(registry *Registry, store InstanceStore, publisher events.Publisher, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		registry:  registry,
		store:     store,
		publisher: publisher,
		engine:    NewEngine(),
		logger:    zap.NewNop(),
		maxTries:  defaultMaxDispatchTries,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// HandlerID implements the subscriber's handler interface
func (d *Dispatcher) HandlerID() string {
	return "saga-orchestrator-dispatcher"
}

// Handle dispatches one inbound event
func (d *Dispatcher) Handle(ctx context.Context, event *events.Event) error {
	ctx, span := telemetry.StartSpan(ctx, "saga.dispatch")
	defer span.End()
	span.SetAttributes(attribute.String("event.topic", event.EventType))

	if d.journal != nil {
		if err := d.journal.Append(ctx, event); err != nil {
			return errors.Wrap(err, "failed to journal inbound event")
		}
	}

	if event.EventType == events.SagaTimeoutEvent {
		return d.dispatchTimeout(ctx, event)
	}

	candidates := d.registry.Resolve(event.EventType)
	if len(candidates) == 0 {
		d.logger.Debug("no saga reaction for event", zap.String("topic", event.EventType))
		return nil
	}

	for _, candidate := range candidates {
		if err := d.dispatch(ctx, event, candidate); err != nil {
			return err
		}
	}

	return nil
}

func (d *Dispatcher) dispatchTimeout(ctx context.Context, event *events.Event) error {
	var payload TimeoutPayload
	if err := event.UnmarshalPayload(&payload); err != nil {
		d.logger.Warn("malformed timeout event", zap.Error(err))
		return nil
	}

	sagaID := sagaIDFromEvent(event)
	if sagaID.IsZero() {
		sagaID = models.ID(payload.SagaID)
	}
	if sagaID.IsZero() {
		d.logger.Warn("timeout event without saga id")
		return nil
	}

	// The definition is resolved from the loaded instance inside the
	// dispatch loop, since the timeout event does not carry the saga type.
	return d.dispatchTo(ctx, event, Candidate{Kind: KindTimeout}, sagaID)
}

func (d *Dispatcher) dispatch(ctx context.Context, event *events.Event, candidate Candidate) error {
	sagaID := sagaIDFromEvent(event)

	if candidate.Kind == KindStep && candidate.Reaction.StartsSaga {
		// Start events carry no saga id yet. Correlating on the event's own
		// identity keeps redelivered start messages pointed at the same instance.
		if sagaID.IsZero() {
			sagaID = event.CorrelationID
		}
		if sagaID.IsZero() {
			sagaID = event.ID
		}
	} else if sagaID.IsZero() {
		// An uncorrelatable non-start event will never resolve; redelivery
		// cannot help, so drop it rather than poison the queue.
		d.logger.Warn("event matched saga reaction but carries no saga id",
			zap.String("topic", event.EventType),
			zap.String("saga_type", candidate.Definition.SagaType),
		)
		return nil
	}

	return d.dispatchTo(ctx, event, candidate, sagaID)
}

type dispatchResult struct {
	instance   *Instance
	prevStatus Status
	created    bool
	commands   []*events.Event
}

func (d *Dispatcher) dispatchTo(ctx context.Context, event *events.Event, candidate Candidate, sagaID models.ID) error {
	operation := func() (*dispatchResult, error) {
		instance, found, err := d.store.Load(ctx, sagaID)
		if err != nil {
			return nil, backoff.Permanent(errors.Wrap(err, "failed to load saga instance"))
		}

		created := false
		if !found {
			if candidate.Kind != KindStep || !candidate.Reaction.StartsSaga {
				// Ack events or timeouts for an unknown instance are stale.
				return nil, nil
			}

			instance = NewInstance(candidate.Definition.SagaType, sagaID)
			if timeout := candidate.Definition.Timeout; timeout > 0 {
				deadline := time.Now().Add(timeout)
				instance.DeadlineAt = &deadline
			}
			created = true
		}

		resolved := candidate
		if resolved.Definition == nil {
			def, ok := d.registry.Definition(instance.SagaType)
			if !ok {
				return nil, backoff.Permanent(errors.Errorf("no definition registered for saga type %q", instance.SagaType))
			}
			resolved.Definition = def
		}

		next, commands, err := d.engine.Apply(instance, event, resolved)
		if err != nil {
			return nil, backoff.Permanent(err)
		}

		// Unchanged instance means an idempotent replay: nothing to persist.
		if next == instance && !created {
			return nil, nil
		}

		for _, cmd := range commands {
			if cmd.AggregateID.IsZero() {
				cmd.AggregateID = instance.SagaID
			}
			cmd.WithCorrelationID(instance.SagaID)
			cmd.WithMetadata(MetadataSagaID, instance.SagaID.String())
		}

		expectedVersion := instance.Version
		if err := d.store.Save(ctx, next, expectedVersion); err != nil {
			if errors.Is(err, ErrConflict) {
				// A concurrent dispatch won; retry the whole apply cycle
				// against the freshly read state.
				return nil, ErrConflict
			}
			return nil, backoff.Permanent(errors.Wrap(err, "failed to save saga instance"))
		}

		return &dispatchResult{
			instance:   next,
			prevStatus: instance.Status,
			created:    created,
			commands:   commands,
		}, nil
	}

	result, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(d.maxTries),
		backoff.WithNotify(func(err error, delay time.Duration) {
			telemetry.RecordCounter(ctx, "saga_dispatch_conflicts", "saga dispatch version conflicts", 1,
				attribute.String("saga_type", sagaType(candidate)))
			d.logger.Debug("saga dispatch conflict, retrying",
				zap.String("saga_id", sagaID.String()),
				zap.Duration("backoff", delay),
				zap.Error(err),
			)
		}),
	)
	if err != nil {
		telemetry.RecordCounter(ctx, "saga_dispatch_failures", "saga dispatch failures", 1,
			attribute.String("topic", event.EventType))
		return errors.Wrapf(err, "dispatch of %q to saga %q failed", event.EventType, sagaID)
	}

	if result == nil {
		// Stale event or idempotent replay.
		return nil
	}

	return d.commit(ctx, result)
}

// commit journals and publishes everything a successful dispatch produced.
// State is already persisted at this point; the inbound message is only
// acknowledged once publishing succeeded too.
func (d *Dispatcher) commit(ctx context.Context, result *dispatchResult) error {
	outbound := append([]*events.Event(nil), result.commands...)
	outbound = append(outbound, d.lifecycleEvents(result)...)

	if len(outbound) == 0 {
		return nil
	}

	if d.journal != nil {
		if err := d.journal.Append(ctx, outbound...); err != nil {
			return errors.Wrap(err, "failed to journal outbound events")
		}
	}

	if err := d.publisher.Publish(ctx, outbound...); err != nil {
		return errors.Wrap(err, "failed to publish saga commands")
	}

	telemetry.RecordCounter(ctx, "saga_dispatch_total", "events dispatched to sagas", 1,
		attribute.String("saga_type", result.instance.SagaType),
		attribute.String("status", string(result.instance.Status)),
	)

	d.logger.Info("saga advanced",
		zap.String("saga_id", result.instance.SagaID.String()),
		zap.String("saga_type", result.instance.SagaType),
		zap.String("status", string(result.instance.Status)),
		zap.Int("commands", len(result.commands)),
	)

	return nil
}

// lifecycleEvents translates a status transition into the saga.* topics
func (d *Dispatcher) lifecycleEvents(result *dispatchResult) []*events.Event {
	instance := result.instance

	var types []string
	if result.created {
		types = append(types, events.SagaStartedEvent)
	}

	if instance.Status != result.prevStatus {
		switch instance.Status {
		case StatusCompleted:
			types = append(types, events.SagaCompletedEvent)
		case StatusFailed:
			if result.prevStatus == StatusCompensating {
				types = append(types, events.SagaCompensatedEvent)
			}
			types = append(types, events.SagaFailedEvent)
		case StatusTimedOut:
			types = append(types, events.SagaTimedOutEvent)
		}
	}

	lifecycle := make([]*events.Event, 0, len(types))
	for _, eventType := range types {
		lifecycle = append(lifecycle, events.NewEvent(
			instance.SagaID,
			eventType,
			map[string]interface{}{
				"saga_id":       instance.SagaID.String(),
				"saga_type":     instance.SagaType,
				"status":        string(instance.Status),
				"error_message": instance.ErrorMessage,
			},
		).WithCorrelationID(instance.SagaID).WithMetadata(MetadataSagaID, instance.SagaID.String()))
	}

	return lifecycle
}

func sagaType(candidate Candidate) string {
	if candidate.Definition != nil {
		return candidate.Definition.SagaType
	}
	return "unknown"
}

// sagaIDFromEvent extracts the correlating saga id from event metadata or payload
func sagaIDFromEvent(event *events.Event) models.ID {
	if v, ok := event.Metadata.Get(MetadataSagaID); ok && v != "" {
		return models.ID(v)
	}

	var payload map[string]interface{}
	if err := event.UnmarshalPayload(&payload); err == nil {
		if v, ok := payload[MetadataSagaID].(string); ok && v != "" {
			return models.ID(v)
		}
	}

	return ""
}
