package history

import (
	"fmt"
	"testing"
	"time"

	"github.com/dvop/dvop-site/internal/constants"
	"github.com/dvop/dvop-site/internal/domain"
	"github.com/dvop/dvop-site/internal/logger"
)

func strPtr(s string) *string { return &s }

func playedTrack(artist, title, album string) domain.PlayedTrack {
	return domain.PlayedTrack{
		Artist:   strPtr(artist),
		Title:    strPtr(title),
		Album:    strPtr(album),
		PlayedAt: time.Now().UTC(),
	}
}

func TestMemoryPlayedHistorySkipsAdjacentDuplicates(t *testing.T) {
	m := NewMemoryPlayedHistory(50)

	track := playedTrack("Radiohead", "Karma Police", "OK Computer")
	_ = m.Record(track)
	_ = m.Record(track)

	tracks, err := m.List(10)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(tracks) != 1 {
		t.Fatalf("got %d tracks, want 1", len(tracks))
	}
}

func TestMemoryPlayedHistoryAllowsNonAdjacentRepeat(t *testing.T) {
	m := NewMemoryPlayedHistory(50)

	a := playedTrack("Radiohead", "Karma Police", "OK Computer")
	b := playedTrack("Radiohead", "No Surprises", "OK Computer")
	_ = m.Record(a)
	_ = m.Record(b)
	_ = m.Record(a)

	tracks, _ := m.List(10)
	if len(tracks) != 3 {
		t.Fatalf("got %d tracks, want 3 (A B A is not a duplicate run)", len(tracks))
	}
}

func TestMemoryPlayedHistoryDuplicateDetectionIsCaseInsensitive(t *testing.T) {
	m := NewMemoryPlayedHistory(50)

	_ = m.Record(playedTrack("Radiohead", "Karma Police", "OK Computer"))
	_ = m.Record(playedTrack("RADIOHEAD", "KARMA POLICE", "ok computer"))

	tracks, _ := m.List(10)
	if len(tracks) != 1 {
		t.Fatalf("got %d tracks, want 1 (signature comparison ignores case)", len(tracks))
	}
}

func TestMemoryPlayedHistoryNewestFirst(t *testing.T) {
	m := NewMemoryPlayedHistory(50)

	_ = m.Record(playedTrack("Artist", "First", "Album"))
	_ = m.Record(playedTrack("Artist", "Second", "Album"))

	tracks, _ := m.List(10)
	if len(tracks) != 2 {
		t.Fatalf("got %d tracks, want 2", len(tracks))
	}
	if *tracks[0].Title != "Second" {
		t.Errorf("tracks[0].Title = %q, want %q", *tracks[0].Title, "Second")
	}
}

func TestMemoryPlayedHistoryEnforcesCap(t *testing.T) {
	m := NewMemoryPlayedHistory(constants.PlayedHistoryMemoryCap)

	for i := 0; i < constants.PlayedHistoryMemoryCap+10; i++ {
		_ = m.Record(playedTrack("Artist", fmt.Sprintf("Track %d", i), "Album"))
	}

	tracks, _ := m.List(constants.PlayedHistoryMemoryCap + 10)
	if len(tracks) != constants.PlayedHistoryMemoryCap {
		t.Fatalf("got %d tracks, want cap %d", len(tracks), constants.PlayedHistoryMemoryCap)
	}
	// Oldest entries were dropped, newest kept.
	if want := fmt.Sprintf("Track %d", constants.PlayedHistoryMemoryCap+9); *tracks[0].Title != want {
		t.Errorf("tracks[0].Title = %q, want %q", *tracks[0].Title, want)
	}
}

func TestMemoryPlayedHistoryListClampsToLength(t *testing.T) {
	m := NewMemoryPlayedHistory(50)
	_ = m.Record(playedTrack("Artist", "Only", "Album"))

	tracks, _ := m.List(30)
	if len(tracks) != 1 {
		t.Fatalf("got %d tracks, want 1", len(tracks))
	}
}

func TestRecorderIgnoresIncompleteTracks(t *testing.T) {
	r := NewRecorder(nil, logger.Default())

	r.Record(domain.PlayedTrack{Artist: strPtr("Radiohead")})
	r.Record(domain.PlayedTrack{Title: strPtr("Karma Police")})

	if tracks := r.List(10); len(tracks) != 0 {
		t.Fatalf("got %d tracks, want 0 (title and artist are both required)", len(tracks))
	}
}

func TestRecorderFallsBackToMemoryWithoutDB(t *testing.T) {
	r := NewRecorder(nil, logger.Default())

	r.Record(playedTrack("Radiohead", "Karma Police", "OK Computer"))

	tracks := r.List(10)
	if len(tracks) != 1 {
		t.Fatalf("got %d tracks, want 1", len(tracks))
	}
}

func TestRecorderListClampsLimit(t *testing.T) {
	r := NewRecorder(nil, logger.Default())
	for i := 0; i < 40; i++ {
		r.Record(playedTrack("Artist", fmt.Sprintf("Track %d", i), "Album"))
	}

	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"over max clamps to max", 999, constants.PlayedListMaxLimit},
		{"zero clamps to one", 0, 1},
		{"negative clamps to one", -5, 1},
		{"in range passes through", 5, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(r.List(tt.limit)); got != tt.want {
				t.Errorf("List(%d) returned %d tracks, want %d", tt.limit, got, tt.want)
			}
		})
	}
}

func TestRecorderSetsPlayedAt(t *testing.T) {
	r := NewRecorder(nil, logger.Default())

	r.Record(domain.PlayedTrack{Artist: strPtr("Radiohead"), Title: strPtr("Karma Police")})

	tracks := r.List(1)
	if len(tracks) != 1 {
		t.Fatalf("got %d tracks, want 1", len(tracks))
	}
	if tracks[0].PlayedAt.IsZero() {
		t.Error("PlayedAt was not set")
	}
}
