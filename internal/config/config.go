package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/dvop/dvop-site/internal/constants"
)

// Config holds all application configuration
type Config struct {
	Port           string
	BaseURL        string
	DBPath         string
	NowPlayingURL  string
	MusicBrainzURL string
	CoverArtURL    string
	LastFMURL      string
	DeezerURL      string
	LastFMAPIKey   string
	LastFMUser     string
	AdminPassword  string
	LogLevel       string
	LogFormat      string

	// Object store (uploaded blog images). Optional: when the endpoint is
	// empty the upload endpoints report the binding as missing.
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	// Health check battery. Defaults cover the site's own APIs plus the
	// external dependencies; a JSON file can replace the whole list.
	ChecksPath string
	Checks     []CheckConfig
}

// CheckConfig describes one HTTP health probe. OKStatuses are the statuses
// considered healthy for this endpoint.
type CheckConfig struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	URL        string `json:"url"`
	Method     string `json:"method"`
	Body       string `json:"body"`
	BodyType   string `json:"bodyType"`
	OKStatuses []int  `json:"okStatuses"`
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	cfg := &Config{
		Port:           getEnv("PORT", constants.DefaultPort),
		BaseURL:        getEnv("BASE_URL", "http://127.0.0.1:"+getEnv("PORT", constants.DefaultPort)),
		DBPath:         getEnv("DB_PATH", constants.DefaultDBPath),
		NowPlayingURL:  getEnv("NOW_PLAYING_URL", constants.DefaultNowPlayingURL),
		MusicBrainzURL: getEnv("MUSICBRAINZ_URL", constants.DefaultMusicBrainzURL),
		CoverArtURL:    getEnv("COVERART_URL", constants.DefaultCoverArtURL),
		LastFMURL:      getEnv("LASTFM_URL", constants.DefaultLastFMURL),
		DeezerURL:      getEnv("DEEZER_URL", constants.DefaultDeezerURL),
		LastFMAPIKey:   getEnv("LASTFM_API_KEY", ""),
		LastFMUser:     getEnv("LASTFM_USER", constants.DefaultLastFMUser),
		AdminPassword:  getEnv("BLOG_ADMIN_PASSWORD", constants.DefaultAdminPassword),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "text"),
		MinioEndpoint:  getEnv("MINIO_ENDPOINT", ""),
		MinioAccessKey: getEnv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey: getEnv("MINIO_SECRET_KEY", ""),
		MinioBucket:    getEnv("MINIO_BUCKET", "images-blog"),
		MinioUseSSL:    getEnv("MINIO_USE_SSL", "false") == "true",
		ChecksPath:     getEnv("STATUS_CHECKS_PATH", ""),
	}

	cfg.Checks = DefaultChecks(cfg.BaseURL)
	if cfg.ChecksPath != "" {
		if checks, err := loadChecksFile(cfg.ChecksPath); err == nil {
			cfg.Checks = checks
		}
	}

	return cfg
}

// DefaultChecks returns the built-in probe battery against the given base URL.
func DefaultChecks(baseURL string) []CheckConfig {
	baseURL = strings.TrimSuffix(baseURL, "/")
	return []CheckConfig{
		{ID: "now-playing", Name: "Now Playing API", URL: baseURL + "/api/now-playing", Method: "GET", OKStatuses: []int{200}},
		{ID: "guestbook", Name: "Guestbook API", URL: baseURL + "/api/guestbook", Method: "GET", OKStatuses: []int{200}},
		{ID: "blog", Name: "Blog API", URL: baseURL + "/api/blog", Method: "GET", OKStatuses: []int{200}},
		{ID: "lanyard", Name: "Lanyard (dispull)", URL: "https://dispull.dvop.fyi/api/profile/410475909125242901", Method: "GET", OKStatuses: []int{200}},
		{ID: "pc-stats", Name: "Main PC stats", URL: "https://pc-stats.dvop.fyi", Method: "GET", OKStatuses: []int{200}},
		{ID: "server-stats", Name: "Server stats", URL: "https://server-stats.dvop.fyi", Method: "GET", OKStatuses: []int{200}},
		{ID: "auth", Name: "Auth API", URL: baseURL + "/api/auth", Method: "POST", Body: `{"password":"__healthcheck__"}`, BodyType: "application/json", OKStatuses: []int{401, 200}},
		{ID: "upload", Name: "Upload API", URL: baseURL + "/api/upload", Method: "POST", BodyType: "multipart/form-data", OKStatuses: []int{401, 400}},
	}
}

func loadChecksFile(path string) ([]CheckConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read checks file: %w", err)
	}
	var checks []CheckConfig
	if err := json.Unmarshal(data, &checks); err != nil {
		return nil, fmt.Errorf("failed to parse checks file: %w", err)
	}
	return checks, nil
}

// Validate validates the configuration and returns detailed errors
func (c *Config) Validate() error {
	var errors []string

	if c.Port == "" {
		errors = append(errors, "PORT cannot be empty")
	} else {
		port, err := strconv.Atoi(c.Port)
		if err != nil {
			errors = append(errors, fmt.Sprintf("PORT must be a valid number, got: %s", c.Port))
		} else if port < 1 || port > 65535 {
			errors = append(errors, fmt.Sprintf("PORT must be between 1 and 65535, got: %d", port))
		}
	}

	if c.DBPath == "" {
		errors = append(errors, "DB_PATH cannot be empty")
	}

	for name, value := range map[string]string{
		"NOW_PLAYING_URL": c.NowPlayingURL,
		"MUSICBRAINZ_URL": c.MusicBrainzURL,
		"COVERART_URL":    c.CoverArtURL,
		"LASTFM_URL":      c.LastFMURL,
		"DEEZER_URL":      c.DeezerURL,
	} {
		if value == "" {
			errors = append(errors, fmt.Sprintf("%s cannot be empty", name))
			continue
		}
		if u, err := url.Parse(value); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			errors = append(errors, fmt.Sprintf("%s is not a valid URL: %s", name, value))
		}
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		errors = append(errors, fmt.Sprintf("LOG_LEVEL must be one of: debug, info, warn, error, got: %s", c.LogLevel))
	}

	validLogFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validLogFormats[c.LogFormat] {
		errors = append(errors, fmt.Sprintf("LOG_FORMAT must be one of: text, json, got: %s", c.LogFormat))
	}

	for i, check := range c.Checks {
		if check.ID == "" || check.URL == "" {
			errors = append(errors, fmt.Sprintf("check %d must have an id and a url", i))
		}
		if len(check.OKStatuses) == 0 {
			errors = append(errors, fmt.Sprintf("check %q must declare at least one acceptable status", check.ID))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

// getEnv retrieves an environment variable with a fallback default
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
