package application

import (
	"context"
	"testing"

	"github.com/campushq/enrollment-system/orchestrator-service/mocks"
	"github.com/campushq/enrollment-system/shared/models"
	"github.com/campushq/enrollment-system/shared/saga"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestListSagas_Execute(t *testing.T) {
	instances := []*saga.Instance{
		saga.NewInstance("course-enrollment", models.GenerateUUID()),
		saga.NewInstance("course-enrollment", models.GenerateUUID()),
	}

	tests := []struct {
		name          string
		query         *ListSagasQuery
		setupMocks    func(*mocks.MockInstanceStore)
		expectedError string
		expectedCount int
	}{
		{
			name:  "lists by status with explicit limit",
			query: &ListSagasQuery{Status: "compensating", Limit: 10},
			setupMocks: func(store *mocks.MockInstanceStore) {
				store.EXPECT().FindByStatus(mock.Anything, saga.StatusCompensating, 10).
					Return(instances, nil).Once()
			},
			expectedCount: 2,
		},
		{
			name:  "zero limit falls back to default",
			query: &ListSagasQuery{Status: "in_progress"},
			setupMocks: func(store *mocks.MockInstanceStore) {
				store.EXPECT().FindByStatus(mock.Anything, saga.StatusInProgress, 50).
					Return(nil, nil).Once()
			},
			expectedCount: 0,
		},
		{
			name:  "invalid status",
			query: &ListSagasQuery{Status: "exploded"},
			setupMocks: func(store *mocks.MockInstanceStore) {
				// No expectations - fails validation
			},
			expectedError: "invalid saga status",
		},
		{
			name:  "store error",
			query: &ListSagasQuery{Status: "failed", Limit: 5},
			setupMocks: func(store *mocks.MockInstanceStore) {
				store.EXPECT().FindByStatus(mock.Anything, saga.StatusFailed, 5).
					Return(nil, errors.New("database error")).Once()
			},
			expectedError: "failed to list saga instances",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockStore := mocks.NewMockInstanceStore(t)
			tt.setupMocks(mockStore)

			useCase := NewListSagas(mockStore)

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
