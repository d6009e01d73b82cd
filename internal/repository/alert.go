package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/camwarden/camwarden/internal/models"
)

// PostgresAlertRepository implements alert persistence against PostgreSQL.
type PostgresAlertRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresAlertRepository creates a new PostgresAlertRepository using
// the provided *sql.DB.
func NewPostgresAlertRepository(db *sql.DB) *PostgresAlertRepository {
	return &PostgresAlertRepository{DB: db}
}

// Create inserts a new alert record. Metadata is stored as JSONB; a nil
// map is stored as SQL NULL.
func (r *PostgresAlertRepository) Create(ctx context.Context, alert models.Alert) error {
	var metadata any
	if alert.Metadata != nil {
		raw, err := json.Marshal(alert.Metadata)
		if err != nil {
			return fmt.Errorf("marshal metadata: %w", err)
		}
		metadata = raw
	}

	var snapshot any
	if alert.SnapshotURL != "" {
		snapshot = alert.SnapshotURL
	}

	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO alerts (id, camera_id, detected_at, description, snapshot_url, metadata)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, alert.ID, alert.CameraID, alert.DetectedAt, alert.Description, snapshot, metadata)
	if err != nil {
		return fmt.Errorf("insert alert: %w", err)
	}
	return nil
}

// List fetches alerts newest-first, optionally scoped to one camera when
// cameraID is non-empty, joined with the camera's name and location for
// display. limit and offset implement offset-based pagination.
func (r *PostgresAlertRepository) List(ctx context.Context, cameraID string, limit, offset int) ([]models.Alert, error) {
	query := `
		SELECT a.id, a.camera_id, a.detected_at, a.description, a.snapshot_url, a.metadata,
		       c.name, c.location
		  FROM alerts a
		  LEFT JOIN cameras c ON c.id = a.camera_id`
	args := []any{}
	if cameraID != "" {
		query += ` WHERE a.camera_id = $1 ORDER BY a.detected_at DESC LIMIT $2 OFFSET $3`
		args = append(args, cameraID, limit, offset)
	} else {
		query += ` ORDER BY a.detected_at DESC LIMIT $1 OFFSET $2`
		args = append(args, limit, offset)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer rows.Close()

	var alerts []models.Alert
	for rows.Next() {
		var (
			alert    models.Alert
			snapshot sql.NullString
			metadata []byte
			name     sql.NullString
			location sql.NullString
		)
		if err := rows.Scan(&alert.ID, &alert.CameraID, &alert.DetectedAt, &alert.Description,
			&snapshot, &metadata, &name, &location); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		alert.SnapshotURL = snapshot.String
		alert.CameraName = name.String
		alert.CameraLocation = location.String
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &alert.Metadata); err != nil {
				return nil, fmt.Errorf("unmarshal metadata: %w", err)
			}
		}
		alerts = append(alerts, alert)
	}
	return alerts, rows.Err()
}
