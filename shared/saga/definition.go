package saga

import (
	"fmt"
	"time"

	"github.com/campushq/enrollment-system/shared/events"
)

// Outcome is the terminal flag a step handler may return
type Outcome int

const (
	// OutcomeNone keeps the saga in progress
	OutcomeNone Outcome = iota
	// OutcomeCompleted marks the saga completed
	OutcomeCompleted
	// OutcomeFailed drives the saga into compensation
	OutcomeFailed
)

// StepResult is what a step handler returns
type StepResult struct {
	// Data is merged into the instance data, last write wins per key
	Data map[string]interface{}
	// Commands are published after the new state is persisted. Zero commands is legal.
	Commands []*events.Event
	// Outcome optionally terminates the saga
	Outcome Outcome
	// Reason explains an OutcomeFailed result
	Reason string
}

// HandlerFunc advances one step. It must be pure with respect to the instance:
// no I/O, no side effects, safe to invoke more than once for the same event.
type HandlerFunc func(data map[string]interface{}, event *events.Event) (*StepResult, error)

// Compensation describes how to undo a completed step
type Compensation struct {
	// Build produces the compensation command from the instance data
	Build func(data map[string]interface{}) *events.Event
	// AckEventType is the event type the compensating service publishes
	// once the undo has been applied
	AckEventType string
}

// StepReaction binds an inbound event type to a step handler
type StepReaction struct {
	// StepName is recorded in the instance's completed steps. Reactions with
	// an empty StepName (pure routing, e.g. the saga start trigger) are not recorded.
	StepName string
	// TriggerEventType is the inbound event type this reaction fires on
	TriggerEventType string
	// StartsSaga marks the reaction that creates a new instance
	StartsSaga bool
	// Handler advances the step
	Handler HandlerFunc
	// Compensation, when set, is dispatched during rollback in reverse
	// completion order. Steps without one have nothing to undo.
	Compensation *Compensation
}

// Definition is the static description of one saga type, registered once at startup
type Definition struct {
	SagaType string
	// Timeout is the business deadline set when the saga starts
	Timeout time.Duration
	// CompensationTimeout is the fresh deadline set on entering compensation;
	// exhaustion is converted into timed_out by the sweeper
	CompensationTimeout time.Duration
	Reactions           []*StepReaction
}

// StartReaction returns the reaction that creates new instances
func (d *Definition) StartReaction() *StepReaction {
	for _, r := range d.Reactions {
		if r.StartsSaga {
			return r
		}
	}
	return nil
}

// ReactionForStep returns the reaction that recorded the named step
func (d *Definition) ReactionForStep(name string) *StepReaction {
	for _, r := range d.Reactions {
		if r.StepName == name {
			return r
		}
	}
	return nil
}

// ReactionKind tells the engine how to interpret a resolved candidate
type ReactionKind int

const (
	// KindStep applies a forward step handler
	KindStep ReactionKind = iota
	// KindCompensationAck acknowledges a dispatched compensation command
	KindCompensationAck
	// KindTimeout handles the sweeper's synthetic timeout event
	KindTimeout
)

// Candidate is one (definition, reaction) pair an event resolved to
type Candidate struct {
	Definition *Definition
	Kind       ReactionKind
	// Reaction is set for KindStep
	Reaction *StepReaction
	// CompensationOf names the compensated step for KindCompensationAck
	CompensationOf string
}

// Registry maps inbound event types to saga reactions. It is populated at
// process start and read-only afterwards, so the resolve path takes no locks.
type Registry struct {
	definitions map[string]*Definition
	byTrigger   map[string][]Candidate
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		definitions: make(map[string]*Definition),
		byTrigger:   make(map[string][]Candidate),
	}
}

// Register adds a saga definition. Registration conflicts are programming
// errors and abort the process.
func (r *Registry) Register(def *Definition) {
	if def.SagaType == "" {
		panic("saga: definition without saga type")
	}

	if _, exists := r.definitions[def.SagaType]; exists {
		panic(fmt.Sprintf("saga: duplicate definition for saga type %q", def.SagaType))
	}

	seen := make(map[string]string)
	claim := func(eventType, what string) {
		if eventType == "" {
			panic(fmt.Sprintf("saga: %s without event type in saga type %q", what, def.SagaType))
		}
		if prev, dup := seen[eventType]; dup {
			panic(fmt.Sprintf(
				"saga: ambiguous dispatch in saga type %q: event type %q claimed by %s and %s",
				def.SagaType, eventType, prev, what,
			))
		}
		seen[eventType] = what
	}

	starts := 0
	for _, reaction := range def.Reactions {
		claim(reaction.TriggerEventType, fmt.Sprintf("step %q", reaction.StepName))
		if reaction.Handler == nil {
			panic(fmt.Sprintf("saga: step %q in saga type %q has no handler", reaction.StepName, def.SagaType))
		}
		if reaction.StartsSaga {
			starts++
		}

		r.byTrigger[reaction.TriggerEventType] = append(r.byTrigger[reaction.TriggerEventType], Candidate{
			Definition: def,
			Kind:       KindStep,
			Reaction:   reaction,
		})

		if comp := reaction.Compensation; comp != nil {
			claim(comp.AckEventType, fmt.Sprintf("compensation ack of step %q", reaction.StepName))
			if comp.Build == nil {
				panic(fmt.Sprintf("saga: compensation of step %q in saga type %q has no builder", reaction.StepName, def.SagaType))
			}
			if reaction.StepName == "" {
				panic(fmt.Sprintf("saga: compensation on unnamed step in saga type %q", def.SagaType))
			}

			r.byTrigger[comp.AckEventType] = append(r.byTrigger[comp.AckEventType], Candidate{
				Definition:     def,
				Kind:           KindCompensationAck,
				CompensationOf: reaction.StepName,
			})
		}
	}

	if starts != 1 {
		panic(fmt.Sprintf("saga: saga type %q must have exactly one start reaction, has %d", def.SagaType, starts))
	}

	r.definitions[def.SagaType] = def
}

// Resolve returns every reaction the event type matches, across all
// registered saga types. Independent saga types are dispatched independently.
func (r *Registry) Resolve(eventType string) []Candidate {
	return r.byTrigger[eventType]
}

// Definition returns the definition for a saga type
func (r *Registry) Definition(sagaType string) (*Definition, bool) {
	def, ok := r.definitions[sagaType]
	return def, ok
}
