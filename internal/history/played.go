// Package history keeps the rolling log of played tracks, persisted when
// the relational store is available and in memory otherwise.
package history

import (
	"sync"
	"time"

	"github.com/dvop/dvop-site/internal/constants"
	"github.com/dvop/dvop-site/internal/domain"
	"github.com/dvop/dvop-site/internal/logger"
	"github.com/dvop/dvop-site/internal/store"
)

// PlayedHistory is the storage capability the recorder needs. Both backings
// enforce the no-adjacent-duplicates invariant and their own capacity.
type PlayedHistory interface {
	Record(track domain.PlayedTrack) error
	List(limit int) ([]domain.PlayedTrack, error)
}

// Recorder prefers the persistent backing and falls back to the in-memory
// one whenever the store fails. The two are never merged.
type Recorder struct {
	persistent PlayedHistory
	fallback   PlayedHistory
	logger     *logger.Logger
}

func NewRecorder(db *store.DB, log *logger.Logger) *Recorder {
	r := &Recorder{
		fallback: NewMemoryPlayedHistory(constants.PlayedHistoryMemoryCap),
		logger:   log.WithComponent("played-history"),
	}
	if db != nil {
		r.persistent = NewStorePlayedHistory(db, constants.PlayedHistoryStoreCap)
	}
	return r
}

// Record appends the track unless it repeats the most recent signature.
// Tracks without both title and artist are ignored.
func (r *Recorder) Record(track domain.PlayedTrack) {
	if track.Title == nil || track.Artist == nil {
		return
	}
	if track.PlayedAt.IsZero() {
		track.PlayedAt = time.Now().UTC()
	}

	if r.persistent != nil {
		if err := r.persistent.Record(track); err == nil {
			return
		} else {
			r.logger.Warn("persistent history unavailable, using in-memory log", "error", err)
		}
	}
	_ = r.fallback.Record(track)
}

func (r *Recorder) List(limit int) []domain.PlayedTrack {
	if limit < 1 {
		limit = 1
	}
	if limit > constants.PlayedListMaxLimit {
		limit = constants.PlayedListMaxLimit
	}

	if r.persistent != nil {
		if tracks, err := r.persistent.List(limit); err == nil {
			return tracks
		} else {
			r.logger.Warn("persistent history unavailable, reading in-memory log", "error", err)
		}
	}
	tracks, _ := r.fallback.List(limit)
	return tracks
}

// StorePlayedHistory persists the log through the relational store.
type StorePlayedHistory struct {
	db  *store.DB
	cap int
}

func NewStorePlayedHistory(db *store.DB, cap int) *StorePlayedHistory {
	return &StorePlayedHistory{db: db, cap: cap}
}

func (s *StorePlayedHistory) Record(track domain.PlayedTrack) error {
	latest, err := s.db.LatestPlayedSignature()
	if err != nil {
		return err
	}
	if latest == track.Signature() {
		return nil
	}
	if err := s.db.InsertPlayedTrack(track); err != nil {
		return err
	}
	return s.db.PrunePlayedHistory(s.cap)
}

func (s *StorePlayedHistory) List(limit int) ([]domain.PlayedTrack, error) {
	return s.db.ListPlayedTracks(limit)
}

var _ PlayedHistory = (*StorePlayedHistory)(nil)

// MemoryPlayedHistory keeps the log in process memory, newest first. Lost
// on restart.
type MemoryPlayedHistory struct {
	mu     sync.Mutex
	tracks []domain.PlayedTrack
	cap    int
}

func NewMemoryPlayedHistory(cap int) *MemoryPlayedHistory {
	return &MemoryPlayedHistory{cap: cap}
}

func (m *MemoryPlayedHistory) Record(track domain.PlayedTrack) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.tracks) > 0 && m.tracks[0].Signature() == track.Signature() {
		return nil
	}

	m.tracks = append([]domain.PlayedTrack{track}, m.tracks...)
	if len(m.tracks) > m.cap {
		m.tracks = m.tracks[:m.cap]
	}
	return nil
}

func (m *MemoryPlayedHistory) List(limit int) ([]domain.PlayedTrack, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if limit > len(m.tracks) {
		limit = len(m.tracks)
	}
	out := make([]domain.PlayedTrack, limit)
	copy(out, m.tracks[:limit])
	return out, nil
}

var _ PlayedHistory = (*MemoryPlayedHistory)(nil)
