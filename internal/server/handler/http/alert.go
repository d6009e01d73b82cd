package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/camwarden/camwarden/internal/models"
	"github.com/camwarden/camwarden/internal/service"
)

// AlertService defines the alert operations required by the handlers.
type AlertService interface {
	List(ctx context.Context, cameraID string, page, pageSize int) ([]models.Alert, error)
	Create(ctx context.Context, input service.AlertInput) (*models.Alert, error)
}

// AlertBroadcaster pushes a newly stored alert to connected subscribers.
type AlertBroadcaster interface {
	Broadcast(v any)
}

// AlertHandler handles HTTP requests for alert listing and ingestion.
type AlertHandler struct {
	Alerts AlertService
	// Notifier receives every successfully stored alert. May be nil in
	// tests that do not care about broadcasting.
	Notifier AlertBroadcaster
	Log      *zap.Logger
}

// List handles GET /api/alerts?cameraId&page&pageSize.
func (h *AlertHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("pageSize"))

	alerts, err := h.Alerts.List(r.Context(), q.Get("cameraId"), page, pageSize)
	if err != nil {
		h.Log.Error("alert list failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to list alerts")
		return
	}
	if alerts == nil {
		alerts = []models.Alert{}
	}
	writeJSON(w, http.StatusOK, alerts)
}

// Create handles POST /api/alerts, the worker's ingestion path.
// Every stored alert is broadcast to connected WebSocket subscribers.
func (h *AlertHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.AlertInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	alert, err := h.Alerts.Create(r.Context(), input)
	if err != nil {
		writeServiceError(w, err, "Failed to create alert")
		return
	}

	if h.Notifier != nil {
		h.Notifier.Broadcast(alert)
	}
	writeJSON(w, http.StatusOK, alert)
}
