package status

import (
	"sync"
	"time"

	"github.com/dvop/dvop-site/internal/constants"
	"github.com/dvop/dvop-site/internal/domain"
	"github.com/dvop/dvop-site/internal/logger"
	"github.com/dvop/dvop-site/internal/store"
)

// History appends a snapshot and returns the full retained series in
// ascending timestamp order, pruned to the retention window and point cap.
type History interface {
	Record(snapshot domain.StatusSnapshot) ([]domain.StatusSnapshot, error)
}

// HistoryKeeper prefers the persistent series and falls back entirely to
// the in-memory one when the store fails; the two series are never merged.
type HistoryKeeper struct {
	persistent History
	fallback   History
	logger     *logger.Logger
}

func NewHistoryKeeper(db *store.DB, log *logger.Logger) *HistoryKeeper {
	k := &HistoryKeeper{
		fallback: NewMemoryHistory(constants.StatusHistoryWindow, constants.StatusHistoryMaxPoints),
		logger:   log.WithComponent("status-history"),
	}
	if db != nil {
		k.persistent = NewStoreHistory(db, constants.StatusHistoryWindow, constants.StatusHistoryMaxPoints)
	}
	return k
}

func (k *HistoryKeeper) Record(snapshot domain.StatusSnapshot) []domain.StatusSnapshot {
	if k.persistent != nil {
		series, err := k.persistent.Record(snapshot)
		if err == nil && len(series) > 0 {
			return series
		}
		if err != nil {
			k.logger.Warn("persistent status history unavailable, using in-memory series", "error", err)
		}
	}
	series, _ := k.fallback.Record(snapshot)
	return series
}

// StoreHistory persists snapshots as a sequence of idempotent statements:
// insert, prune by age, prune by count, read back.
type StoreHistory struct {
	db        *store.DB
	window    time.Duration
	maxPoints int
}

func NewStoreHistory(db *store.DB, window time.Duration, maxPoints int) *StoreHistory {
	return &StoreHistory{db: db, window: window, maxPoints: maxPoints}
}

func (s *StoreHistory) Record(snapshot domain.StatusSnapshot) ([]domain.StatusSnapshot, error) {
	if err := s.db.InsertStatusSnapshot(snapshot); err != nil {
		return nil, err
	}
	if err := s.db.PruneStatusHistory(s.window, s.maxPoints); err != nil {
		return nil, err
	}
	return s.db.ListStatusSnapshots(s.maxPoints)
}

var _ History = (*StoreHistory)(nil)

// MemoryHistory keeps the series in process memory, oldest first. Lost on
// restart.
type MemoryHistory struct {
	mu        sync.Mutex
	snapshots []domain.StatusSnapshot
	window    time.Duration
	maxPoints int
}

func NewMemoryHistory(window time.Duration, maxPoints int) *MemoryHistory {
	return &MemoryHistory{window: window, maxPoints: maxPoints}
}

func (m *MemoryHistory) Record(snapshot domain.StatusSnapshot) ([]domain.StatusSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.snapshots = append(m.snapshots, snapshot)

	cutoff := time.Now().Add(-m.window)
	for len(m.snapshots) > 0 && m.snapshots[0].Timestamp.Before(cutoff) {
		m.snapshots = m.snapshots[1:]
	}
	if len(m.snapshots) > m.maxPoints {
		m.snapshots = m.snapshots[len(m.snapshots)-m.maxPoints:]
	}

	out := make([]domain.StatusSnapshot, len(m.snapshots))
	copy(out, m.snapshots)
	return out, nil
}

var _ History = (*MemoryHistory)(nil)
