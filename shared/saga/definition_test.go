package saga

import (
	"testing"

	"github.com/campushq/enrollment-system/shared/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noopHandler(map[string]interface{}, *events.Event) (*StepResult, error) {
	return &StepResult{}, nil
}

func TestRegistry_RegisterAndResolve(t *testing.T) {
	registry := NewRegistry()
	registry.Register(testDefinition())

	def, ok := registry.Definition(testSagaType)
	require.True(t, ok)
	assert.Equal(t, testSagaType, def.SagaType)

	start := registry.Resolve("booking.requested")
	require.Len(t, start, 1)
	assert.Equal(t, KindStep, start[0].Kind)
	assert.True(t, start[0].Reaction.StartsSaga)

	ack := registry.Resolve("inventory.released")
	require.Len(t, ack, 1)
	assert.Equal(t, KindCompensationAck, ack[0].Kind)
	assert.Equal(t, testStepReserve, ack[0].CompensationOf)

	assert.Empty(t, registry.Resolve("unrelated.event"))
}

func TestRegistry_ResolveAcrossSagaTypes(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&Definition{
		SagaType: "saga-a",
		Reactions: []*StepReaction{
			{StepName: "a", TriggerEventType: "shared.trigger", StartsSaga: true, Handler: noopHandler},
		},
	})
	registry.Register(&Definition{
		SagaType: "saga-b",
		Reactions: []*StepReaction{
			{StepName: "b", TriggerEventType: "shared.trigger", StartsSaga: true, Handler: noopHandler},
		},
	})

	candidates := registry.Resolve("shared.trigger")
	require.Len(t, candidates, 2)
	assert.Equal(t, "saga-a", candidates[0].Definition.SagaType)
	assert.Equal(t, "saga-b", candidates[1].Definition.SagaType)
}

func TestRegistry_RegisterPanics(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*Registry)
	}{
		{
			name: "duplicate saga type",
			setup: func(r *Registry) {
				r.Register(testDefinition())
				r.Register(testDefinition())
			},
		},
		{
			name: "missing saga type",
			setup: func(r *Registry) {
				r.Register(&Definition{})
			},
		},
		{
			name: "duplicate trigger within definition",
			setup: func(r *Registry) {
				r.Register(&Definition{
					SagaType: "dup-trigger",
					Reactions: []*StepReaction{
						{StepName: "a", TriggerEventType: "same.event", StartsSaga: true, Handler: noopHandler},
						{StepName: "b", TriggerEventType: "same.event", Handler: noopHandler},
					},
				})
			},
		},
		{
			name: "compensation ack colliding with trigger",
			setup: func(r *Registry) {
				r.Register(&Definition{
					SagaType: "dup-ack",
					Reactions: []*StepReaction{
						{
							StepName:         "a",
							TriggerEventType: "a.done",
							StartsSaga:       true,
							Handler:          noopHandler,
							Compensation: &Compensation{
								Build:        func(map[string]interface{}) *events.Event { return nil },
								AckEventType: "a.done",
							},
						},
					},
				})
			},
		},
		{
			name: "nil handler",
			setup: func(r *Registry) {
				r.Register(&Definition{
					SagaType: "nil-handler",
					Reactions: []*StepReaction{
						{StepName: "a", TriggerEventType: "a.event", StartsSaga: true},
					},
				})
			},
		},
		{
			name: "no start reaction",
			setup: func(r *Registry) {
				r.Register(&Definition{
					SagaType: "no-start",
					Reactions: []*StepReaction{
						{StepName: "a", TriggerEventType: "a.event", Handler: noopHandler},
					},
				})
			},
		},
		{
			name: "two start reactions",
			setup: func(r *Registry) {
				r.Register(&Definition{
					SagaType: "two-starts",
					Reactions: []*StepReaction{
						{StepName: "a", TriggerEventType: "a.event", StartsSaga: true, Handler: noopHandler},
						{StepName: "b", TriggerEventType: "b.event", StartsSaga: true, Handler: noopHandler},
					},
				})
			},
		},
		{
			name: "compensation without builder",
			setup: func(r *Registry) {
				r.Register(&Definition{
					SagaType: "no-builder",
					Reactions: []*StepReaction{
						{
							StepName:         "a",
							TriggerEventType: "a.event",
							StartsSaga:       true,
							Handler:          noopHandler,
							Compensation:     &Compensation{AckEventType: "a.undone"},
						},
					},
				})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := NewRegistry()
			assert.Panics(t, func() { tt.setup(registry) })
		})
	}
}
