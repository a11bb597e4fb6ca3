// Package httpapp wires the site's JSON API onto a chi router.
package httpapp

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/form/v4"

	"github.com/dvop/dvop-site/internal/config"
	"github.com/dvop/dvop-site/internal/constants"
	"github.com/dvop/dvop-site/internal/cover"
	"github.com/dvop/dvop-site/internal/history"
	"github.com/dvop/dvop-site/internal/lastfm"
	"github.com/dvop/dvop-site/internal/logger"
	"github.com/dvop/dvop-site/internal/nowplaying"
	"github.com/dvop/dvop-site/internal/objstore"
	"github.com/dvop/dvop-site/internal/status"
	"github.com/dvop/dvop-site/internal/store"
)

type Handler struct {
	Config        *config.Config
	DB            *store.DB
	Objects       *objstore.Store
	NowPlaying    *nowplaying.Client
	Covers        *cover.Resolver
	Played        *history.Recorder
	Prober        *status.Prober
	StatusHistory *status.HistoryKeeper
	LastFM        *lastfm.Client
	Logger        *logger.Logger
	formDecoder   *form.Decoder
}

func NewHandler(cfg *config.Config, db *store.DB, objects *objstore.Store, np *nowplaying.Client,
	covers *cover.Resolver, played *history.Recorder, prober *status.Prober,
	statusHistory *status.HistoryKeeper, lfm *lastfm.Client, log *logger.Logger,
) *Handler {
	return &Handler{
		Config:        cfg,
		DB:            db,
		Objects:       objects,
		NowPlaying:    np,
		Covers:        covers,
		Played:        played,
		Prober:        prober,
		StatusHistory: statusHistory,
		LastFM:        lfm,
		Logger:        log.WithComponent("http"),
		formDecoder:   form.NewDecoder(),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/now-playing", h.GetNowPlaying)
		r.Get("/played", h.GetPlayed)
		r.Get("/status", h.GetStatus)
		r.Get("/lastfm", h.GetRecentTracks)

		r.Get("/guestbook", h.ListGuestbook)
		r.Post("/guestbook", h.CreateGuestbookEntry)

		r.Get("/blog", h.ListBlogPosts)
		r.Post("/blog", h.CreateBlogPost)
		r.Put("/blog", h.UpdateBlogPost)
		r.Delete("/blog", h.DeleteBlogPost)

		r.Post("/auth", h.Login)
		r.Delete("/auth", h.Logout)

		r.Post("/upload", h.Upload)
		r.Get("/upload/{filename}", h.ServeImage)
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to write response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}

// isAdmin reports whether the request carries a valid admin session cookie.
func (h *Handler) isAdmin(r *http.Request) bool {
	cookie, err := r.Cookie(constants.AdminCookieName)
	return err == nil && cookie.Value == "authenticated"
}
