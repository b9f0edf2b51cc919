package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/campushq/enrollment-system/orchestrator-service/application"
	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
)

// SagaHandlers contains the read-only operator HTTP handlers
type SagaHandlers struct {
	getSaga      *application.GetSaga
	listSagas    *application.ListSagas
	getSagaTrail *application.GetSagaTrail
}

// NewSagaHandlers creates new saga handlers
func NewSagaHandlers(
	getSaga *application.GetSaga,
	listSagas *application.ListSagas,
	getSagaTrail *application.GetSagaTrail,
) *SagaHandlers {
	return &SagaHandlers{
		getSaga:      getSaga,
		listSagas:    listSagas,
		getSagaTrail: getSagaTrail,
	}
}

// RegisterRoutes registers the operator routes
func (h *SagaHandlers) RegisterRoutes(r chi.Router) {
	r.Route("/sagas", func(r chi.Router) {
		r.Get("/", h.ListSagas)
		r.Get("/{id}", h.GetSaga)
		r.Get("/{id}/events", h.GetSagaTrail)
	})
}

// GetSaga handles saga instance retrieval requests
func (h *SagaHandlers) GetSaga(w http.ResponseWriter, r *http.Request) {
	query := &application.GetSagaQuery{
		SagaID: chi.URLParam(r, "id"),
	}

	instance, err := h.getSaga.Execute(r.Context(), query)
	if err != nil {
		if errors.Is(err, application.ErrSagaNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, instance)
}

// ListSagas handles saga listing requests by status
func (h *SagaHandlers) ListSagas(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status == "" {
		http.Error(w, "status query parameter is required", http.StatusBadRequest)
		return
	}

	limit := 0
	if rawLimit := r.URL.Query().Get("limit"); rawLimit != "" {
		parsed, err := strconv.Atoi(rawLimit)
		if err != nil {
			http.Error(w, "limit must be an integer", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	instances, err := h.listSagas.Execute(r.Context(), &application.ListSagasQuery{
		Status: status,
		Limit:  limit,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, map[string]interface{}{
		"sagas": instances,
		"count": len(instances),
	})
}

// GetSagaTrail handles saga event trail requests
func (h *SagaHandlers) GetSagaTrail(w http.ResponseWriter, r *http.Request) {
	if h.getSagaTrail == nil {
		http.Error(w, "event journal is not configured", http.StatusNotImplemented)
		return
	}

	trail, err := h.getSagaTrail.Execute(r.Context(), &application.GetSagaTrailQuery{
		SagaID: chi.URLParam(r, "id"),
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]interface{}{
		"events": trail,
		"count":  len(trail),
	})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
