package saga

import (
	"testing"
	"time"

	"github.com/campushq/enrollment-system/shared/models"
	"github.com/stretchr/testify/assert"
)

func TestStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusStarted, StatusInProgress, true},
		{StatusStarted, StatusCompleted, true},
		{StatusStarted, StatusCompensating, true},
		{StatusStarted, StatusFailed, true},
		{StatusStarted, StatusTimedOut, true},

		{StatusInProgress, StatusInProgress, true},
		{StatusInProgress, StatusCompleted, true},
		{StatusInProgress, StatusCompensating, true},
		{StatusInProgress, StatusTimedOut, true},

		{StatusCompensating, StatusFailed, true},
		{StatusCompensating, StatusTimedOut, true},
		{StatusCompensating, StatusInProgress, false},
		{StatusCompensating, StatusCompleted, false},

		// Terminal statuses never move.
		{StatusCompleted, StatusInProgress, false},
		{StatusCompleted, StatusFailed, false},
		{StatusCompleted, StatusTimedOut, false},
		{StatusFailed, StatusCompensating, false},
		{StatusFailed, StatusTimedOut, false},
		{StatusTimedOut, StatusFailed, false},

		{StatusInProgress, StatusStarted, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestStatus_Terminal(t *testing.T) {
	assert.False(t, StatusStarted.Terminal())
	assert.False(t, StatusInProgress.Terminal())
	assert.False(t, StatusCompensating.Terminal())
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusFailed.Terminal())
	assert.True(t, StatusTimedOut.Terminal())
}

func TestInstance_Expired(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	instance := NewInstance("test", models.GenerateUUID())
	assert.False(t, instance.Expired(now), "no deadline set")

	instance.DeadlineAt = &future
	assert.False(t, instance.Expired(now))

	instance.DeadlineAt = &past
	assert.True(t, instance.Expired(now))

	instance.Status = StatusCompleted
	assert.False(t, instance.Expired(now), "terminal instances never expire")
}

func TestInstance_Clone(t *testing.T) {
	deadline := time.Now().Add(time.Hour)

	original := NewInstance("test", models.GenerateUUID())
	original.Data["key"] = "value"
	original.CompletedSteps = []string{"one"}
	original.PendingCompensations = []string{"one"}
	original.DeadlineAt = &deadline

	clone := original.Clone()

	clone.Data["key"] = "changed"
	clone.CompletedSteps = append(clone.CompletedSteps, "two")
	clone.PendingCompensations = nil
	*clone.DeadlineAt = deadline.Add(time.Hour)

	assert.Equal(t, "value", original.Data["key"])
	assert.Equal(t, []string{"one"}, original.CompletedSteps)
	assert.Equal(t, []string{"one"}, original.PendingCompensations)
	assert.Equal(t, deadline, *original.DeadlineAt)
}
