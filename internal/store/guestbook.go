package store

import (
	"fmt"

	"github.com/dvop/dvop-site/internal/domain"
)

func (db *DB) CreateGuestbookEntry(name, message string) error {
	_, err := db.Exec("INSERT INTO guestbook (name, message) VALUES (?, ?)", name, message)
	if err != nil {
		return fmt.Errorf("failed to insert guestbook entry: %w", err)
	}
	return nil
}

func (db *DB) ListGuestbookEntries(limit int) ([]domain.GuestbookEntry, error) {
	var entries []domain.GuestbookEntry
	err := db.Select(&entries, "SELECT * FROM guestbook ORDER BY created_at DESC, id DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list guestbook entries: %w", err)
	}
	return entries, nil
}
