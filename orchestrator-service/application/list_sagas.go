package application

import (
	"context"

	"github.com/campushq/enrollment-system/shared/saga"
	"github.com/pkg/errors"
)

const defaultListLimit = 50

// ListSagasQuery represents the query to list saga instances by status
type ListSagasQuery struct {
	Status string `json:"status"`
	Limit  int    `json:"limit"`
}

// ListSagas use case lists saga instances by status, most recently updated
// first. Used by operators to find stuck or timed out sagas.
type ListSagas struct {
	store saga.InstanceStore
}

// NewListSagas creates a new ListSagas use case
func NewListSagas(store saga.InstanceStore) *ListSagas {
	return &ListSagas{store: store}
}

// Execute lists matching saga instances
func (uc *ListSagas) Execute(ctx context.Context, query *ListSagasQuery) ([]*saga.Instance, error) {
	status := saga.Status(query.Status)
	switch status {
	case saga.StatusStarted, saga.StatusInProgress, saga.StatusCompensating,
		saga.StatusCompleted, saga.StatusFailed, saga.StatusTimedOut:
	default:
		return nil, errors.Errorf("invalid saga status %q", query.Status)
	}

	limit := query.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	instances, err := uc.store.FindByStatus(ctx, status, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list saga instances")
	}

	return instances, nil
}
