package application

import (
	"context"

	"github.com/campushq/enrollment-system/shared/models"
	"github.com/campushq/enrollment-system/shared/saga"
	"github.com/pkg/errors"
)

// ErrSagaNotFound is returned when no instance matches the queried id
var ErrSagaNotFound = errors.New("saga not found")

// GetSagaQuery represents the query to retrieve one saga instance
type GetSagaQuery struct {
	SagaID string `json:"saga_id"`
}

// GetSaga use case retrieves one saga instance for diagnostics. The operator
// surface is read-only: all mutation goes through the event-driven path.
type GetSaga struct {
	store saga.InstanceStore
}

// NewGetSaga creates a new GetSaga use case
func NewGetSaga(store saga.InstanceStore) *GetSaga {
	return &GetSaga{store: store}
}

// Execute retrieves the saga instance
func (uc *GetSaga) Execute(ctx context.Context, query *GetSagaQuery) (*saga.Instance, error) {
	if query.SagaID == "" {
		return nil, errors.New("saga ID is required")
	}

	instance, found, err := uc.store.Load(ctx, models.ID(query.SagaID))
	if err != nil {
		return nil, errors.Wrap(err, "failed to load saga instance")
	}

	if !found {
		return nil, ErrSagaNotFound
	}

	return instance, nil
}
