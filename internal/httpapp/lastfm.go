package httpapp

import (
	"net/http"

	"github.com/dvop/dvop-site/internal/constants"
)

// GetRecentTracks proxies the last.fm recent-tracks feed for the configured
// user, keeping the API key server-side.
func (h *Handler) GetRecentTracks(w http.ResponseWriter, r *http.Request) {
	if h.Config.LastFMAPIKey == "" {
		h.writeError(w, http.StatusInternalServerError, "API key not configured")
		return
	}

	tracks, err := h.LastFM.RecentTracks(r.Context(), h.Config.LastFMUser, constants.LastFMRecentLimit)
	if err != nil {
		h.Logger.Error("failed to fetch recent tracks", "error", err)
		h.writeError(w, http.StatusBadGateway, "Unable to load recent tracks")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"tracks": tracks})
}
