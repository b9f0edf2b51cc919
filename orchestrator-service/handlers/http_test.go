package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/campushq/enrollment-system/orchestrator-service/application"
	"github.com/campushq/enrollment-system/orchestrator-service/mocks"
	"github.com/campushq/enrollment-system/shared/events"
	"github.com/campushq/enrollment-system/shared/models"
	"github.com/campushq/enrollment-system/shared/saga"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupRouter(store *mocks.MockInstanceStore, journal *mocks.MockJournal) *chi.Mux {
	var trail *application.GetSagaTrail
	if journal != nil {
		trail = application.NewGetSagaTrail(journal)
	}

	handlers := NewSagaHandlers(
		application.NewGetSaga(store),
		application.NewListSagas(store),
		trail,
	)

	router := chi.NewRouter()
	handlers.RegisterRoutes(router)
	return router
}

func TestSagaHandlers_GetSaga(t *testing.T) {
	sagaID := models.GenerateUUID()

	instance := saga.NewInstance("course-enrollment", sagaID)
	instance.Status = saga.StatusCompensating
	instance.PendingCompensations = []string{"payment"}

	t.Run("found", func(t *testing.T) {
		store := mocks.NewMockInstanceStore(t)
		store.EXPECT().Load(mock.Anything, sagaID).Return(instance, true, nil).Once()

		router := setupRouter(store, nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sagas/"+sagaID.String(), nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var body saga.Instance
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, sagaID, body.SagaID)
		assert.Equal(t, saga.StatusCompensating, body.Status)
		assert.Equal(t, []string{"payment"}, body.PendingCompensations)
	})

	t.Run("not found", func(t *testing.T) {
		store := mocks.NewMockInstanceStore(t)
		store.EXPECT().Load(mock.Anything, sagaID).Return(nil, false, nil).Once()

		router := setupRouter(store, nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sagas/"+sagaID.String(), nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestSagaHandlers_ListSagas(t *testing.T) {
	t.Run("lists by status", func(t *testing.T) {
		instances := []*saga.Instance{
			saga.NewInstance("course-enrollment", models.GenerateUUID()),
		}

		store := mocks.NewMockInstanceStore(t)
		store.EXPECT().FindByStatus(mock.Anything, saga.StatusTimedOut, 50).
			Return(instances, nil).Once()

		router := setupRouter(store, nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sagas?status=timed_out", nil))

		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Count int `json:"count"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, 1, body.Count)
	})

	t.Run("missing status", func(t *testing.T) {
		router := setupRouter(mocks.NewMockInstanceStore(t), nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sagas", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid status", func(t *testing.T) {
		router := setupRouter(mocks.NewMockInstanceStore(t), nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sagas?status=nonsense", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid limit", func(t *testing.T) {
		router := setupRouter(mocks.NewMockInstanceStore(t), nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sagas?status=failed&limit=abc", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestSagaHandlers_GetSagaTrail(t *testing.T) {
	sagaID := models.GenerateUUID()

	t.Run("returns trail", func(t *testing.T) {
		trail := []*events.Event{
			events.NewEvent(sagaID, events.EnrollmentRequestedEvent, map[string]interface{}{}),
			events.NewEvent(sagaID, events.PaymentInitiateCommand, map[string]interface{}{}),
		}

		journal := mocks.NewMockJournal(t)
		journal.EXPECT().GetByCorrelationID(mock.Anything, sagaID).Return(trail, nil).Once()

		router := setupRouter(mocks.NewMockInstanceStore(t), journal)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sagas/"+sagaID.String()+"/events", nil))

		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Count int `json:"count"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, 2, body.Count)
	})

	t.Run("journal not configured", func(t *testing.T) {
		router := setupRouter(mocks.NewMockInstanceStore(t), nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sagas/"+sagaID.String()+"/events", nil))

		assert.Equal(t, http.StatusNotImplemented, rec.Code)
	})
}
