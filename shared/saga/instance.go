package saga

import (
	"time"

	"github.com/campushq/enrollment-system/shared/models"
)

// Status represents the current status of a saga instance
type Status string

const (
	StatusStarted      Status = "started"
	StatusInProgress   Status = "in_progress"
	StatusCompensating Status = "compensating"
	StatusCompleted    Status = "completed"
	StatusFailed       Status = "failed"
	StatusTimedOut     Status = "timed_out"
)

// Terminal reports whether the status is final
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusTimedOut:
		return true
	}
	return false
}

// CanTransitionTo reports whether the status lattice allows moving to next.
// The lattice is monotonic: started -> in_progress -> {completed | compensating -> failed},
// with timed_out reachable from any non-terminal status.
func (s Status) CanTransitionTo(next Status) bool {
	if s.Terminal() {
		return false
	}

	switch next {
	case StatusTimedOut:
		return true
	case StatusInProgress:
		return s == StatusStarted || s == StatusInProgress
	case StatusCompleted:
		return s == StatusStarted || s == StatusInProgress
	case StatusCompensating:
		return s == StatusStarted || s == StatusInProgress
	case StatusFailed:
		// Failed is only reached through compensation, or directly when
		// there was nothing to compensate.
		return true
	}

	return false
}

// Instance is the persisted state of one running saga
type Instance struct {
	SagaID               models.ID              `json:"saga_id"`
	SagaType             string                 `json:"saga_type"`
	Status               Status                 `json:"status"`
	Data                 map[string]interface{} `json:"data"`
	CompletedSteps       []string               `json:"completed_steps"`
	PendingCompensations []string               `json:"pending_compensations,omitempty"`
	Timestamps           models.Timestamps      `json:"timestamps"`
	DeadlineAt           *time.Time             `json:"deadline_at,omitempty"`
	Version              int                    `json:"version"`
	ErrorMessage         string                 `json:"error_message,omitempty"`
}

// NewInstance creates a fresh saga instance in the started state
func NewInstance(sagaType string, sagaID models.ID) *Instance {
	return &Instance{
		SagaID:     sagaID,
		SagaType:   sagaType,
		Status:     StatusStarted,
		Data:       make(map[string]interface{}),
		Timestamps: models.NewTimestamps(),
	}
}

// HasCompleted reports whether the named step has already been applied
func (i *Instance) HasCompleted(step string) bool {
	for _, s := range i.CompletedSteps {
		if s == step {
			return true
		}
	}
	return false
}

// HasPendingCompensation reports whether the named step still awaits its
// compensation acknowledgment
func (i *Instance) HasPendingCompensation(step string) bool {
	for _, s := range i.PendingCompensations {
		if s == step {
			return true
		}
	}
	return false
}

// Expired reports whether the instance deadline has passed while non-terminal
func (i *Instance) Expired(now time.Time) bool {
	if i.Status.Terminal() || i.DeadlineAt == nil {
		return false
	}
	return !now.Before(*i.DeadlineAt)
}

// Clone creates a copy the engine can mutate without touching the original
func (i *Instance) Clone() *Instance {
	clone := *i

	clone.Data = make(map[string]interface{}, len(i.Data))
	for k, v := range i.Data {
		clone.Data[k] = v
	}

	clone.CompletedSteps = append([]string(nil), i.CompletedSteps...)
	clone.PendingCompensations = append([]string(nil), i.PendingCompensations...)

	if i.DeadlineAt != nil {
		deadline := *i.DeadlineAt
		clone.DeadlineAt = &deadline
	}

	return &clone
}
