package saga

import (
	"time"

	"github.com/campushq/enrollment-system/shared/events"
	"github.com/pkg/errors"
)

var (
	// ErrUnknownStep is returned when a compensation ack references a step
	// the definition does not know
	ErrUnknownStep = errors.New("unknown saga step")
	// ErrIllegalTransition is returned when a computed transition would move
	// backwards along the status lattice
	ErrIllegalTransition = errors.New("illegal saga status transition")
)

// TimeoutPayload is the payload of the sweeper's synthetic timeout event
type TimeoutPayload struct {
	SagaID         string `json:"saga_id"`
	PreviousStatus string `json:"previous_status"`
}

// Engine advances one saga instance in response to one event. It is a pure
// state machine: it never performs I/O and never mutates its input. A replay
// (idempotent no-op) returns the input instance unchanged with zero commands.
type Engine struct{}

// NewEngine creates a saga instance engine
func NewEngine() *Engine {
	return &Engine{}
}

// Apply computes (next state, emitted commands) for one event. If the step
// handler itself errors the input instance is untouched and the error
// propagates, so the bus redelivery policy can retry the whole dispatch.
func (e *Engine) Apply(instance *Instance, event *events.Event, candidate Candidate) (*Instance, []*events.Event, error) {
	switch candidate.Kind {
	case KindStep:
		return e.applyStep(instance, event, candidate)
	case KindCompensationAck:
		return e.applyCompensationAck(instance, candidate)
	case KindTimeout:
		return e.applyTimeout(instance, candidate)
	}

	return nil, nil, errors.Errorf("unknown reaction kind %d", candidate.Kind)
}

func (e *Engine) applyStep(instance *Instance, event *events.Event, candidate Candidate) (*Instance, []*events.Event, error) {
	reaction := candidate.Reaction

	// Idempotency boundary: a step already marked complete is not re-applied.
	if reaction.StepName != "" && instance.HasCompleted(reaction.StepName) {
		return instance, nil, nil
	}

	// A redelivered start event finds the instance already persisted.
	if reaction.StartsSaga && instance.Version > 0 {
		return instance, nil, nil
	}

	if instance.Status.Terminal() || instance.Status == StatusCompensating {
		// Late forward events for a saga that is already unwinding or done
		// are stale; dropping them keeps the lattice monotonic.
		return instance, nil, nil
	}

	next := instance.Clone()

	result, err := reaction.Handler(next.Data, event)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "step %q handler failed", reaction.StepName)
	}
	if result == nil {
		result = &StepResult{}
	}

	for k, v := range result.Data {
		next.Data[k] = v
	}

	if reaction.StepName != "" {
		next.CompletedSteps = append(next.CompletedSteps, reaction.StepName)
	}
	next.Timestamps = next.Timestamps.Update()

	commands := result.Commands

	switch result.Outcome {
	case OutcomeFailed:
		next.ErrorMessage = result.Reason
		compensations, err := e.startCompensation(candidate.Definition, next)
		if err != nil {
			return nil, nil, err
		}
		commands = append(commands, compensations...)

	case OutcomeCompleted:
		if err := e.transition(next, StatusCompleted); err != nil {
			return nil, nil, err
		}

	default:
		if !reaction.StartsSaga {
			if err := e.transition(next, StatusInProgress); err != nil {
				return nil, nil, err
			}
		}
	}

	return next, commands, nil
}

func (e *Engine) applyCompensationAck(instance *Instance, candidate Candidate) (*Instance, []*events.Event, error) {
	// Duplicate acks for an already-settled compensation are replays.
	if !instance.HasPendingCompensation(candidate.CompensationOf) {
		return instance, nil, nil
	}

	next := instance.Clone()

	pending := next.PendingCompensations[:0]
	for _, step := range next.PendingCompensations {
		if step != candidate.CompensationOf {
			pending = append(pending, step)
		}
	}
	next.PendingCompensations = pending
	next.Timestamps = next.Timestamps.Update()

	// A fully compensated saga is a rolled-back transaction: terminal failed,
	// not a system error.
	if len(next.PendingCompensations) == 0 && next.Status == StatusCompensating {
		if err := e.transition(next, StatusFailed); err != nil {
			return nil, nil, err
		}
	}

	return next, nil, nil
}

func (e *Engine) applyTimeout(instance *Instance, candidate Candidate) (*Instance, []*events.Event, error) {
	// Duplicate timeout events from concurrent sweepers are replays.
	if instance.Status.Terminal() {
		return instance, nil, nil
	}

	next := instance.Clone()
	next.Timestamps = next.Timestamps.Update()

	// Compensation itself failed to complete in time: surface for manual
	// intervention instead of retrying forever against a failing downstream.
	if next.Status == StatusCompensating {
		next.ErrorMessage = "compensation did not complete before deadline"
		if err := e.transition(next, StatusTimedOut); err != nil {
			return nil, nil, err
		}
		return next, nil, nil
	}

	next.ErrorMessage = "saga deadline exceeded"
	commands, err := e.startCompensation(candidate.Definition, next)
	if err != nil {
		return nil, nil, err
	}

	return next, commands, nil
}

// startCompensation plans the rollback and moves the instance into
// compensating, or straight to failed when there is nothing to undo.
func (e *Engine) startCompensation(def *Definition, next *Instance) ([]*events.Event, error) {
	pending, commands := planCompensation(def, next)

	if len(pending) == 0 {
		if err := e.transition(next, StatusFailed); err != nil {
			return nil, err
		}
		return nil, nil
	}

	next.PendingCompensations = pending
	if err := e.transition(next, StatusCompensating); err != nil {
		return nil, err
	}

	if def.CompensationTimeout > 0 {
		deadline := time.Now().Add(def.CompensationTimeout)
		next.DeadlineAt = &deadline
	}

	return commands, nil
}

func (e *Engine) transition(next *Instance, to Status) error {
	if !next.Status.CanTransitionTo(to) {
		return errors.Wrapf(ErrIllegalTransition, "%s -> %s", next.Status, to)
	}
	next.Status = to
	return nil
}
