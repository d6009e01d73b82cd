package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/camwarden/camwarden/internal/models"
)

// CameraInput is the validated request body for camera creation and update.
type CameraInput struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	RTSPURL  string `json:"rtspUrl" validate:"required,url"`
	Location string `json:"location" validate:"required,min=1,max=200"`
	Enabled  *bool  `json:"enabled"`
}

// CameraRepository defines the persistence operations required by the
// camera service. Reads and mutations scoped to an owner return
// sql.ErrNoRows when no owned camera matched.
type CameraRepository interface {
	ListByOwner(ctx context.Context, ownerID string) ([]models.Camera, error)
	GetByID(ctx context.Context, ownerID, id string) (*models.Camera, error)
	Create(ctx context.Context, cam models.Camera) error
	Update(ctx context.Context, cam models.Camera) error
	Delete(ctx context.Context, ownerID, id string) error
}

// CameraService implements camera registry operations.
type CameraService struct {
	repo     CameraRepository
	validate *validator.Validate
}

// NewCameraService constructs a CameraService with the provided repository.
func NewCameraService(repo CameraRepository) *CameraService {
	return &CameraService{
		repo:     repo,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// List returns all cameras owned by the caller.
func (s *CameraService) List(ctx context.Context, ownerID string) ([]models.Camera, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// Create validates the input and persists a new camera for the owner.
// Invalid input fails with a *ValidationError listing every violation.
func (s *CameraService) Create(ctx context.Context, ownerID string, input CameraInput) (*models.Camera, error) {
	if err := s.checkInput(input); err != nil {
		return nil, err
	}

	cam := models.Camera{
		ID:       uuid.NewString(),
		Name:     input.Name,
		RTSPURL:  input.RTSPURL,
		Location: input.Location,
		Enabled:  input.Enabled != nil && *input.Enabled,
		UserID:   ownerID,
	}
	if err := s.repo.Create(ctx, cam); err != nil {
		return nil, err
	}
	return &cam, nil
}

// Update validates the input and rewrites the camera's mutable fields.
// When the input omits enabled the stored flag is preserved: the flag
// tracks the worker's stream state and only stream start/stop or an
// explicit enabled value may change it. Update fails with ErrNotFound
// when the camera is absent or owned by another user, and with a
// *ValidationError on invalid input.
func (s *CameraService) Update(ctx context.Context, ownerID, id string, input CameraInput) (*models.Camera, error) {
	if err := s.checkInput(input); err != nil {
		return nil, err
	}

	current, err := s.repo.GetByID(ctx, ownerID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	enabled := current.Enabled
	if input.Enabled != nil {
		enabled = *input.Enabled
	}

	cam := models.Camera{
		ID:        id,
		Name:      input.Name,
		RTSPURL:   input.RTSPURL,
		Location:  input.Location,
		Enabled:   enabled,
		UserID:    ownerID,
		CreatedAt: current.CreatedAt,
	}
	err = s.repo.Update(ctx, cam)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cam, nil
}

// Delete removes the camera. It fails with ErrNotFound when the camera is
// absent or owned by another user.
func (s *CameraService) Delete(ctx context.Context, ownerID, id string) error {
	err := s.repo.Delete(ctx, ownerID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// checkInput runs struct validation and converts the result into a
// *ValidationError enumerating every violated field.
func (s *CameraService) checkInput(input CameraInput) error {
	err := s.validate.Struct(input)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	details := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, fieldMessage(fe))
	}
	return &ValidationError{Details: details}
}

func fieldMessage(fe validator.FieldError) string {
	field := jsonFieldName(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%q is required", field)
	case "url":
		return fmt.Sprintf("%q must be a valid URI", field)
	case "min":
		return fmt.Sprintf("%q must be at least %s characters long", field, fe.Param())
	case "max":
		return fmt.Sprintf("%q must be at most %s characters long", field, fe.Param())
	default:
		return fmt.Sprintf("%q is invalid", field)
	}
}

// jsonFieldName maps struct field names to their wire names.
func jsonFieldName(structField string) string {
	switch structField {
	case "Name":
		return "name"
	case "RTSPURL":
		return "rtspUrl"
	case "Location":
		return "location"
	case "Enabled":
		return "enabled"
	default:
		return structField
	}
}
