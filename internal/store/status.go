package store

import (
	"fmt"
	"time"

	"github.com/dvop/dvop-site/internal/domain"
)

func (db *DB) InsertStatusSnapshot(snapshot domain.StatusSnapshot) error {
	_, err := db.Exec(`
		INSERT INTO status_history (created_at, ok, degraded, down, total)
		VALUES (datetime('now'), ?, ?, ?, ?)
	`, snapshot.OK, snapshot.Degraded, snapshot.Down, snapshot.Total)
	if err != nil {
		return fmt.Errorf("failed to insert status snapshot: %w", err)
	}
	return nil
}

// PruneStatusHistory drops entries outside the retention window, then any
// beyond maxPoints, oldest first. Both statements are safe to re-run.
func (db *DB) PruneStatusHistory(window time.Duration, maxPoints int) error {
	cutoff := time.Now().UTC().Add(-window)
	if _, err := db.Exec("DELETE FROM status_history WHERE created_at < ?", cutoff.Format("2006-01-02 15:04:05")); err != nil {
		return fmt.Errorf("failed to prune status history by age: %w", err)
	}

	_, err := db.Exec(`
		DELETE FROM status_history
		WHERE id NOT IN (
			SELECT id FROM status_history ORDER BY created_at DESC, id DESC LIMIT ?
		)
	`, maxPoints)
	if err != nil {
		return fmt.Errorf("failed to prune status history by count: %w", err)
	}
	return nil
}

func (db *DB) ListStatusSnapshots(maxPoints int) ([]domain.StatusSnapshot, error) {
	var snapshots []domain.StatusSnapshot
	err := db.Select(&snapshots, `
		SELECT created_at, ok, degraded, down, total
		FROM status_history
		ORDER BY created_at ASC, id ASC
		LIMIT ?
	`, maxPoints)
	if err != nil {
		return nil, fmt.Errorf("failed to list status snapshots: %w", err)
	}
	return snapshots, nil
}
