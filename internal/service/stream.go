package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/camwarden/camwarden/internal/models"
)

// StreamWorker is the outbound contract with the external stream worker.
type StreamWorker interface {
	// StartStream asks the worker to open the camera's source.
	StartStream(ctx context.Context, cam models.Camera) error
	// StopStream asks the worker to tear down the camera's stream.
	StopStream(ctx context.Context, cameraID string) error
	// StreamStatus returns the worker's status map, keyed by camera ID.
	StreamStatus(ctx context.Context) (map[string]models.StreamStatus, error)
}

// StreamCameraStore is the slice of camera persistence the stream
// controller needs.
type StreamCameraStore interface {
	// GetByID fetches an owned camera, returning sql.ErrNoRows when the
	// camera is absent or owned by someone else.
	GetByID(ctx context.Context, ownerID, id string) (*models.Camera, error)
	// SetEnabled flips the enabled flag of an owned camera.
	SetEnabled(ctx context.Context, ownerID, id string, enabled bool) error
}

// StreamService orchestrates stream lifecycle across two systems of
// record: the camera registry's enabled flag and the worker's actual
// stream processes. The worker is called first; the flag is only written
// after the worker acknowledges. A worker failure therefore leaves the
// registry untouched. The inverse partial failure (worker accepted, flag
// write failed) is surfaced to the caller and left unreconciled until the
// next status poll reveals the divergence.
type StreamService struct {
	cameras StreamCameraStore
	worker  StreamWorker
}

// NewStreamService constructs a StreamService.
func NewStreamService(cameras StreamCameraStore, worker StreamWorker) *StreamService {
	return &StreamService{cameras: cameras, worker: worker}
}

// Start asks the worker to start the camera's stream and, on success,
// marks the camera enabled. It fails with ErrNotFound when the camera is
// absent or not owned by the requester, and with ErrStreamStart carrying
// the worker's message when the worker call fails.
func (s *StreamService) Start(ctx context.Context, ownerID, cameraID string) (*models.Camera, error) {
	cam, err := s.loadCamera(ctx, ownerID, cameraID)
	if err != nil {
		return nil, err
	}

	if err := s.worker.StartStream(ctx, *cam); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStreamStart, err)
	}

	if err := s.cameras.SetEnabled(ctx, ownerID, cameraID, true); err != nil {
		return nil, fmt.Errorf("stream started but flag update failed: %w", err)
	}

	cam.Enabled = true
	return cam, nil
}

// Stop asks the worker to stop the camera's stream and, on success, marks
// the camera disabled. Failure modes mirror Start.
func (s *StreamService) Stop(ctx context.Context, ownerID, cameraID string) (*models.Camera, error) {
	cam, err := s.loadCamera(ctx, ownerID, cameraID)
	if err != nil {
		return nil, err
	}

	if err := s.worker.StopStream(ctx, cameraID); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStreamStop, err)
	}

	if err := s.cameras.SetEnabled(ctx, ownerID, cameraID, false); err != nil {
		return nil, fmt.Errorf("stream stopped but flag update failed: %w", err)
	}

	cam.Enabled = false
	return cam, nil
}

// Status reads through to the worker's status map and extracts the entry
// for this camera. A nil status means the worker reports no live stream
// for the camera, which is a valid answer, not an error. Every call is a
// fresh round trip; nothing is cached.
func (s *StreamService) Status(ctx context.Context, ownerID, cameraID string) (*models.StreamStatus, error) {
	if _, err := s.loadCamera(ctx, ownerID, cameraID); err != nil {
		return nil, err
	}

	statuses, err := s.worker.StreamStatus(ctx)
	if err != nil {
		return nil, err
	}

	status, ok := statuses[cameraID]
	if !ok {
		return nil, nil
	}
	return &status, nil
}

func (s *StreamService) loadCamera(ctx context.Context, ownerID, cameraID string) (*models.Camera, error) {
	cam, err := s.cameras.GetByID(ctx, ownerID, cameraID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return cam, nil
}
