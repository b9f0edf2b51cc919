package application

import (
	"context"
	"testing"

	"github.com/campushq/enrollment-system/orchestrator-service/mocks"
	"github.com/campushq/enrollment-system/shared/events"
	"github.com/campushq/enrollment-system/shared/models"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestGetSagaTrail_Execute(t *testing.T) {
	sagaID := models.GenerateUUID()
	trail := []*events.Event{
		events.NewEvent(sagaID, events.EnrollmentRequestedEvent, map[string]interface{}{}),
		events.NewEvent(sagaID, events.PaymentInitiateCommand, map[string]interface{}{}),
	}

	tests := []struct {
		name          string
		query         *GetSagaTrailQuery
		setupMocks    func(*mocks.MockJournal)
		expectedError string
		expectedCount int
	}{
		{
			name:  "returns journaled events in order",
			query: &GetSagaTrailQuery{SagaID: sagaID.String()},
			setupMocks: func(journal *mocks.MockJournal) {
				journal.EXPECT().GetByCorrelationID(mock.Anything, sagaID).
					Return(trail, nil).Once()
			},
			expectedCount: 2,
		},
		{
			name:  "empty saga ID",
			query: &GetSagaTrailQuery{},
			setupMocks: func(journal *mocks.MockJournal) {
				// No expectations - fails validation
			},
			expectedError: "saga ID is required",
		},
		{
			name:  "journal error",
			query: &GetSagaTrailQuery{SagaID: sagaID.String()},
			setupMocks: func(journal *mocks.MockJournal) {
				journal.EXPECT().GetByCorrelationID(mock.Anything, sagaID).
					Return(nil, errors.New("database error")).Once()
			},
			expectedError: "failed to load saga event trail",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockJournal := mocks.NewMockJournal(t)
			tt.setupMocks(mockJournal)

			useCase := NewGetSagaTrail(mockJournal)

			result, err := useCase.Execute(context.Background(), tt.query)

			if tt.expectedError != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
				assert.Nil(t, result)
			} else {
				assert.NoError(t, err)
				assert.Len(t, result, tt.expectedCount)
			}
		})
	}
}
