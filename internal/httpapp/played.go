package httpapp

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dvop/dvop-site/internal/constants"
	"github.com/dvop/dvop-site/internal/domain"
)

type playedResponse struct {
	GeneratedAt time.Time            `json:"generatedAt"`
	Count       int                  `json:"count"`
	Tracks      []domain.PlayedTrack `json:"tracks"`
}

// GetPlayed returns the most recent played tracks, newest first. The limit
// is clamped to 1..30 and defaults to 30.
func (h *Handler) GetPlayed(w http.ResponseWriter, r *http.Request) {
	limit := constants.PlayedListDefaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	tracks := h.Played.List(limit)
	if tracks == nil {
		tracks = []domain.PlayedTrack{}
	}

	h.writeJSON(w, http.StatusOK, playedResponse{
		GeneratedAt: time.Now().UTC(),
		Count:       len(tracks),
		Tracks:      tracks,
	})
}
