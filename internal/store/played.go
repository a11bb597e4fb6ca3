package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/dvop/dvop-site/internal/domain"
)

// LatestPlayedSignature returns the signature of the most recent entry, or
// "" when the log is empty.
func (db *DB) LatestPlayedSignature() (string, error) {
	var signature string
	err := db.Get(&signature, "SELECT signature FROM played_history ORDER BY played_at DESC, id DESC LIMIT 1")
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read latest played signature: %w", err)
	}
	return signature, nil
}

func (db *DB) InsertPlayedTrack(track domain.PlayedTrack) error {
	_, err := db.Exec(`
		INSERT INTO played_history (signature, title, artist, album, album_art, source, player, played_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, datetime('now'))
	`, track.Signature(), track.Title, track.Artist, track.Album, track.AlbumArt, track.Source, track.Player)
	if err != nil {
		return fmt.Errorf("failed to insert played track: %w", err)
	}
	return nil
}

// PrunePlayedHistory keeps only the max most recent entries. Safe to re-run.
func (db *DB) PrunePlayedHistory(max int) error {
	_, err := db.Exec(`
		DELETE FROM played_history
		WHERE id NOT IN (
			SELECT id FROM played_history ORDER BY played_at DESC, id DESC LIMIT ?
		)
	`, max)
	if err != nil {
		return fmt.Errorf("failed to prune played history: %w", err)
	}
	return nil
}

func (db *DB) ListPlayedTracks(limit int) ([]domain.PlayedTrack, error) {
	var tracks []domain.PlayedTrack
	err := db.Select(&tracks, `
		SELECT title, artist, album, album_art, source, player, played_at
		FROM played_history
		ORDER BY played_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list played tracks: %w", err)
	}
	return tracks, nil
}
