package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/dvop/dvop-site/internal/config"
	"github.com/dvop/dvop-site/internal/cover"
	"github.com/dvop/dvop-site/internal/deezer"
	"github.com/dvop/dvop-site/internal/history"
	"github.com/dvop/dvop-site/internal/httpapp"
	"github.com/dvop/dvop-site/internal/lastfm"
	"github.com/dvop/dvop-site/internal/logger"
	"github.com/dvop/dvop-site/internal/musicbrainz"
	"github.com/dvop/dvop-site/internal/nowplaying"
	"github.com/dvop/dvop-site/internal/objstore"
	"github.com/dvop/dvop-site/internal/status"
	"github.com/dvop/dvop-site/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	// Initialize Logger
	appLogger := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	// Initialize DB. Failure is not fatal: the played and status history
	// fall back to in-memory storage and the binding is reported missing.
	db, err := store.NewSQLiteDB(cfg.DBPath)
	if err != nil {
		appLogger.Error("Failed to init DB, running without persistence", "error", err)
		db = nil
	} else {
		defer func() { _ = db.Close() }()
	}

	// Initialize object store (uploaded blog images). Optional as well.
	var objects *objstore.Store
	if cfg.MinioEndpoint != "" {
		objects, err = objstore.New(objstore.Config{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
		})
		if err != nil {
			appLogger.Error("Failed to init object store, uploads disabled", "error", err)
			objects = nil
		}
	}

	// Cover art sources, tried in order.
	lfm := lastfm.NewClient(cfg.LastFMURL, cfg.LastFMAPIKey)
	sources := []cover.Source{
		lfm,
		musicbrainz.NewClient(cfg.MusicBrainzURL, cfg.CoverArtURL),
		deezer.NewClient(cfg.DeezerURL),
	}
	covers := cover.NewResolver(sources, appLogger)

	np := nowplaying.NewClient(cfg.NowPlayingURL)
	played := history.NewRecorder(db, appLogger)

	prober := status.NewProber(cfg.Checks, []status.Binding{
		{ID: "database", Name: "Database", Available: db != nil},
		{ID: "object-store", Name: "Object store", Available: objects != nil},
	}, appLogger)
	statusHistory := status.NewHistoryKeeper(db, appLogger)

	// Initialize Router
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Routes
	h := httpapp.NewHandler(cfg, db, objects, np, covers, played, prober, statusHistory, lfm, appLogger)
	h.RegisterRoutes(r)

	// Start Server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Printf("Server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
