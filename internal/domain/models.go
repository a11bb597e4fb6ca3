package domain

import (
	"fmt"
	"strings"
	"time"
)

// Track is the current playback state reported by the upstream now-playing
// source. It lives for a single request; the resolver fills AlbumArt in
// place when the upstream art is unusable.
type Track struct {
	Playing           bool     `json:"playing"`
	Title             *string  `json:"title"`
	Artist            *string  `json:"artist"`
	Album             *string  `json:"album"`
	AlbumArt          *string  `json:"albumArt"`
	Position          *float64 `json:"position"`
	Duration          *float64 `json:"duration"`
	EstimatedPosition *float64 `json:"estimatedPosition"`
	Source            *string  `json:"source"`
	Player            *string  `json:"player"`
}

// PlayedTrack is one entry of the rolling play log.
type PlayedTrack struct {
	Title    *string   `json:"title" db:"title"`
	Artist   *string   `json:"artist" db:"artist"`
	Album    *string   `json:"album" db:"album"`
	AlbumArt *string   `json:"albumArt" db:"album_art"`
	Source   *string   `json:"source" db:"source"`
	Player   *string   `json:"player" db:"player"`
	PlayedAt time.Time `json:"playedAt" db:"played_at"`
}

// Signature returns the dedup key for a played track:
// lowercase(artist)::lowercase(title)::lowercase(album).
func (t PlayedTrack) Signature() string {
	return TrackSignature(t.Artist, t.Title, t.Album)
}

// TrackSignature builds the normalized dedup signature from nullable fields.
func TrackSignature(artist, title, album *string) string {
	return strings.ToLower(fmt.Sprintf("%s::%s::%s", deref(artist), deref(title), deref(album)))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// GuestbookEntry is a visitor message.
type GuestbookEntry struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Message   string    `json:"message" db:"message"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// BlogPost is a blog entry, stored as markdown.
type BlogPost struct {
	ID            int       `json:"id" db:"id"`
	Title         string    `json:"title" db:"title"`
	Content       string    `json:"content" db:"content"`
	Slug          string    `json:"slug" db:"slug"`
	Description   string    `json:"description" db:"description"`
	Published     bool      `json:"published" db:"published"`
	Tags          string    `json:"tags" db:"tags"`
	Author        string    `json:"author" db:"author"`
	FeaturedImage *string   `json:"featured_image" db:"featured_image"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// HealthState classifies a single health check outcome.
type HealthState string

const (
	HealthOK       HealthState = "ok"
	HealthDegraded HealthState = "degraded"
	HealthDown     HealthState = "down"
	HealthSkipped  HealthState = "skipped"
)

// HealthCheckResult is the outcome of a single probe. HTTPStatus and
// LatencyMs are nil for binding checks, which never perform I/O.
type HealthCheckResult struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	State      HealthState `json:"state"`
	HTTPStatus *int        `json:"httpStatus"`
	LatencyMs  *int64      `json:"latencyMs"`
	Message    string      `json:"message"`
}

// StatusSummary aggregates check states. Counts are order-independent.
type StatusSummary struct {
	OK       int `json:"ok"`
	Degraded int `json:"degraded"`
	Down     int `json:"down"`
	Total    int `json:"total"`
}

// StatusSnapshot is one aggregated health data point. Immutable once created.
type StatusSnapshot struct {
	Timestamp time.Time `json:"timestamp" db:"created_at"`
	OK        int       `json:"ok" db:"ok"`
	Degraded  int       `json:"degraded" db:"degraded"`
	Down      int       `json:"down" db:"down"`
	Total     int       `json:"total" db:"total"`
}
