package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/camwarden/camwarden/internal/models"
)

// PostgresCameraRepository implements camera persistence against PostgreSQL.
// Every read and write is scoped to the owning user: a camera belonging to
// another user behaves exactly like a camera that does not exist.
type PostgresCameraRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresCameraRepository creates a new PostgresCameraRepository using
// the provided *sql.DB.
func NewPostgresCameraRepository(db *sql.DB) *PostgresCameraRepository {
	return &PostgresCameraRepository{DB: db}
}

// ListByOwner fetches all cameras owned by the given user.
func (r *PostgresCameraRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Camera, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, name, rtsp_url, location, enabled, user_id, created_at
		  FROM cameras WHERE user_id = $1 ORDER BY created_at
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("ListByOwner: %w", err)
	}
	defer rows.Close()

	var cameras []models.Camera
	for rows.Next() {
		var cam models.Camera
		if err := rows.Scan(&cam.ID, &cam.Name, &cam.RTSPURL, &cam.Location, &cam.Enabled, &cam.UserID, &cam.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		cameras = append(cameras, cam)
	}
	return cameras, rows.Err()
}

// GetByID retrieves a single camera by ID for the given owner.
// It returns sql.ErrNoRows when the camera is absent or owned by someone else.
func (r *PostgresCameraRepository) GetByID(ctx context.Context, ownerID, id string) (*models.Camera, error) {
	var cam models.Camera
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, name, rtsp_url, location, enabled, user_id, created_at
		  FROM cameras WHERE id = $1 AND user_id = $2
	`, id, ownerID).Scan(&cam.ID, &cam.Name, &cam.RTSPURL, &cam.Location, &cam.Enabled, &cam.UserID, &cam.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &cam, nil
}

// Create inserts a new camera record.
func (r *PostgresCameraRepository) Create(ctx context.Context, cam models.Camera) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO cameras (id, user_id, name, rtsp_url, location, enabled)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, cam.ID, cam.UserID, cam.Name, cam.RTSPURL, cam.Location, cam.Enabled)
	if err != nil {
		return fmt.Errorf("insert camera: %w", err)
	}
	return nil
}

// Update rewrites the mutable fields of a camera, scoped to its owner.
// It returns sql.ErrNoRows when no owned camera matched.
func (r *PostgresCameraRepository) Update(ctx context.Context, cam models.Camera) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE cameras SET name = $1, rtsp_url = $2, location = $3, enabled = $4
		 WHERE id = $5 AND user_id = $6
	`, cam.Name, cam.RTSPURL, cam.Location, cam.Enabled, cam.ID, cam.UserID)
	if err != nil {
		return fmt.Errorf("update camera: %w", err)
	}
	return requireRow(res)
}

// SetEnabled flips only the enabled flag, scoped to the owner.
// It returns sql.ErrNoRows when no owned camera matched.
func (r *PostgresCameraRepository) SetEnabled(ctx context.Context, ownerID, id string, enabled bool) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE cameras SET enabled = $1 WHERE id = $2 AND user_id = $3
	`, enabled, id, ownerID)
	if err != nil {
		return fmt.Errorf("set enabled: %w", err)
	}
	return requireRow(res)
}

// Delete removes a camera, scoped to its owner.
// It returns sql.ErrNoRows when no owned camera matched.
func (r *PostgresCameraRepository) Delete(ctx context.Context, ownerID, id string) error {
	res, err := r.DB.ExecContext(ctx, `
		DELETE FROM cameras WHERE id = $1 AND user_id = $2
	`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete camera: %w", err)
	}
	return requireRow(res)
}

// Exists reports whether a camera with the given ID exists, regardless of
// owner. Used by the alert ingestion path, where the posting worker is not
// the camera's owner.
func (r *PostgresCameraRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM cameras WHERE id = $1)
	`, id).Scan(&exists)
	return exists, err
}

// requireRow translates a zero-row mutation into sql.ErrNoRows.
func requireRow(res sql.Result) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
