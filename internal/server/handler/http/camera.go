package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/camwarden/camwarden/internal/middleware"
	"github.com/camwarden/camwarden/internal/models"
	"github.com/camwarden/camwarden/internal/service"
)

// CameraService defines the registry operations required by the handlers.
type CameraService interface {
	List(ctx context.Context, ownerID string) ([]models.Camera, error)
	Create(ctx context.Context, ownerID string, input service.CameraInput) (*models.Camera, error)
	Update(ctx context.Context, ownerID, id string, input service.CameraInput) (*models.Camera, error)
	Delete(ctx context.Context, ownerID, id string) error
}

// StreamService defines the stream-control operations required by the
// handlers.
type StreamService interface {
	Start(ctx context.Context, ownerID, cameraID string) (*models.Camera, error)
	Stop(ctx context.Context, ownerID, cameraID string) (*models.Camera, error)
	Status(ctx context.Context, ownerID, cameraID string) (*models.StreamStatus, error)
}

// CameraHandler handles HTTP requests for camera CRUD and stream control.
type CameraHandler struct {
	Cameras CameraService
	Streams StreamService
	Log     *zap.Logger
}

// List handles GET /api/cameras.
func (h *CameraHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.GetUserIDFromContext(r.Context())

	cameras, err := h.Cameras.List(r.Context(), ownerID)
	if err != nil {
		h.Log.Error("camera list failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to list cameras")
		return
	}
	if cameras == nil {
		cameras = []models.Camera{}
	}
	writeJSON(w, http.StatusOK, cameras)
}

// Create handles POST /api/cameras.
func (h *CameraHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.GetUserIDFromContext(r.Context())

	var input service.CameraInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	cam, err := h.Cameras.Create(r.Context(), ownerID, input)
	if err != nil {
		h.logUnexpected("camera create failed", err)
		writeServiceError(w, err, "Failed to create camera")
		return
	}
	writeJSON(w, http.StatusOK, cam)
}

// Update handles PUT /api/cameras/{id}.
func (h *CameraHandler) Update(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.GetUserIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var input service.CameraInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	cam, err := h.Cameras.Update(r.Context(), ownerID, id, input)
	if err != nil {
		h.logUnexpected("camera update failed", err)
		writeServiceError(w, err, "Failed to update camera")
		return
	}
	writeJSON(w, http.StatusOK, cam)
}

// Delete handles DELETE /api/cameras/{id}.
func (h *CameraHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.GetUserIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.Cameras.Delete(r.Context(), ownerID, id); err != nil {
		h.logUnexpected("camera delete failed", err)
		writeServiceError(w, err, "Failed to delete camera")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Start handles POST /api/cameras/{id}/start.
func (h *CameraHandler) Start(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.GetUserIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	cam, err := h.Streams.Start(r.Context(), ownerID, id)
	if err != nil {
		h.logUnexpected("stream start failed", err)
		writeServiceError(w, err, "Failed to start stream")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"started": true, "camera": cam})
}

// Stop handles POST /api/cameras/{id}/stop.
func (h *CameraHandler) Stop(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.GetUserIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	cam, err := h.Streams.Stop(r.Context(), ownerID, id)
	if err != nil {
		h.logUnexpected("stream stop failed", err)
		writeServiceError(w, err, "Failed to stop stream")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"stopped": true, "camera": cam})
}

// Status handles GET /api/cameras/{id}/status.
// The status field is null when the worker reports no entry for the
// camera, for example after a worker restart lost its in-memory state.
func (h *CameraHandler) Status(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.GetUserIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	status, err := h.Streams.Status(r.Context(), ownerID, id)
	if err != nil {
		h.logUnexpected("stream status failed", err)
		writeServiceError(w, err, "Failed to fetch stream status")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"camera_id": id, "status": status})
}

// logUnexpected records errors that will surface to the client as a
// generic failure; expected input errors are skipped to keep the log
// signal clean.
func (h *CameraHandler) logUnexpected(msg string, err error) {
	switch err.(type) {
	case *service.FieldError, *service.ValidationError:
		return
	}
	if errors.Is(err, service.ErrNotFound) {
		return
	}
	h.Log.Error(msg, zap.Error(err))
}
