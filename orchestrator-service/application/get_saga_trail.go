package application

import (
	"context"

	"github.com/campushq/enrollment-system/shared/events"
	"github.com/campushq/enrollment-system/shared/models"
	"github.com/pkg/errors"
)

// GetSagaTrailQuery represents the query to retrieve a saga's event trail
type GetSagaTrailQuery struct {
	SagaID string `json:"saga_id"`
}

// GetSagaTrail use case retrieves the journaled event trail of one saga:
// every inbound event and emitted command, in order.
type GetSagaTrail struct {
	journal events.Journal
}

// NewGetSagaTrail creates a new GetSagaTrail use case
func NewGetSagaTrail(journal events.Journal) *GetSagaTrail {
	return &GetSagaTrail{journal: journal}
}

// Execute retrieves the event trail
func (uc *GetSagaTrail) Execute(ctx context.Context, query *GetSagaTrailQuery) ([]*events.Event, error) {
	if query.SagaID == "" {
		return nil, errors.New("saga ID is required")
	}

	trail, err := uc.journal.GetByCorrelationID(ctx, models.ID(query.SagaID))
	if err != nil {
		return nil, errors.Wrap(err, "failed to load saga event trail")
	}

	return trail, nil
}
