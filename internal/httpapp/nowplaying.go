package httpapp

import (
	"net/http"
	"time"

	"github.com/dvop/dvop-site/internal/cover"
	"github.com/dvop/dvop-site/internal/domain"
)

// GetNowPlaying returns the current track, with artwork resolved through
// the provider chain when the upstream art is unusable. Artwork and play
// history are enrichment only; their failures never fail the response.
func (h *Handler) GetNowPlaying(w http.ResponseWriter, r *http.Request) {
	track, err := h.NowPlaying.Fetch(r.Context())
	if err != nil {
		h.Logger.Warn("now playing source unreachable", "error", err)
		h.writeError(w, http.StatusBadGateway, "Unable to load current track")
		return
	}

	if track.Playing && !cover.IsUsableArtURL(track.AlbumArt) {
		if url := h.Covers.Resolve(r.Context(), *track); url != "" {
			track.AlbumArt = &url
		}
	}

	if track.Playing {
		h.Played.Record(domain.PlayedTrack{
			Title:    track.Title,
			Artist:   track.Artist,
			Album:    track.Album,
			AlbumArt: track.AlbumArt,
			Source:   track.Source,
			Player:   track.Player,
			PlayedAt: time.Now().UTC(),
		})
	}

	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, proxy-revalidate")
	h.writeJSON(w, http.StatusOK, track)
}
