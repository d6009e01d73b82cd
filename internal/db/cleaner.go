package db

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"
)

// StartAlertRetentionCleaner deletes alerts older than retention with interval
func StartAlertRetentionCleaner(
	ctx context.Context,
	db *sql.DB,
	interval time.Duration,
	retention time.Duration,
	log *zap.Logger,
) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				cutoff := time.Now().Add(-retention)
				res, err := db.ExecContext(ctx, `
                    DELETE FROM alerts
                     WHERE detected_at < $1
                `, cutoff)
				if err != nil {
					log.Error("failed to clean expired alerts", zap.Error(err))
					continue
				}
				if rows, _ := res.RowsAffected(); rows > 0 {
					log.Info("cleaned expired alerts", zap.Int64("removed", rows))
				}
			}
		}
	}()
}
