package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/camwarden/camwarden/internal/models"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// AlertInput is the request body for alert ingestion. DetectedAt is
// optional; the ingestion time is used when the detector omits it.
type AlertInput struct {
	CameraID    string         `json:"cameraId"`
	Description string         `json:"description"`
	SnapshotURL string         `json:"snapshotUrl"`
	Metadata    map[string]any `json:"metadata"`
	DetectedAt  *time.Time     `json:"detectedAt"`
}

// AlertRepository defines the persistence operations required by the
// alert service.
type AlertRepository interface {
	Create(ctx context.Context, alert models.Alert) error
	List(ctx context.Context, cameraID string, limit, offset int) ([]models.Alert, error)
}

// CameraChecker reports whether a camera exists, regardless of owner.
type CameraChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// AlertService implements alert ingestion and the paginated read path.
type AlertService struct {
	repo    AlertRepository
	cameras CameraChecker
}

// NewAlertService constructs an AlertService.
func NewAlertService(repo AlertRepository, cameras CameraChecker) *AlertService {
	return &AlertService{repo: repo, cameras: cameras}
}

// List returns alerts newest-first, optionally scoped to one camera.
// Pagination is offset-based; page numbers start at 1, pageSize defaults
// to 20 and is capped at 100.
func (s *AlertService) List(ctx context.Context, cameraID string, page, pageSize int) ([]models.Alert, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	offset := (page - 1) * pageSize
	return s.repo.List(ctx, cameraID, pageSize, offset)
}

// Create ingests a detection alert. It fails with a *FieldError when the
// camera ID or description is missing, and with ErrNotFound when the
// referenced camera does not exist. Any bearer-authenticated caller may
// post for any camera: this is the worker's ingestion path, and the
// worker is not the camera's owner.
func (s *AlertService) Create(ctx context.Context, input AlertInput) (*models.Alert, error) {
	if input.CameraID == "" {
		return nil, &FieldError{Field: "cameraId", Message: "Camera ID is required"}
	}
	if input.Description == "" {
		return nil, &FieldError{Field: "description", Message: "Description is required"}
	}

	exists, err := s.cameras.Exists(ctx, input.CameraID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrNotFound
	}

	detectedAt := time.Now()
	if input.DetectedAt != nil {
		detectedAt = *input.DetectedAt
	}

	alert := models.Alert{
		ID:          uuid.NewString(),
		CameraID:    input.CameraID,
		DetectedAt:  detectedAt,
		Description: input.Description,
		SnapshotURL: input.SnapshotURL,
		Metadata:    input.Metadata,
	}
	if err := s.repo.Create(ctx, alert); err != nil {
		return nil, err
	}
	return &alert, nil
}
