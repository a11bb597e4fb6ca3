// Package constants contains application-wide constants to avoid magic numbers and strings.
package constants

import "time"

// Application defaults
const (
	DefaultPort           = "8080"
	DefaultDBPath         = "dvop-site.db"
	DefaultNowPlayingURL  = "https://api-np.dvop.fyi/api/now-playing"
	DefaultMusicBrainzURL = "https://musicbrainz.org/ws/2"
	DefaultCoverArtURL    = "https://coverartarchive.org/release"
	DefaultLastFMURL      = "https://ws.audioscrobbler.com/2.0/"
	DefaultDeezerURL      = "https://api.deezer.com"
	DefaultLastFMUser     = "Dvopp"
	DefaultAdminPassword  = "admin"
	DefaultUserAgent      = "dvop-site/1.0 (guestbook/blog site)"
)

// HTTP client timeouts
const (
	UpstreamHTTPTimeout = 10 * time.Second
	CheckTimeout        = 4500 * time.Millisecond
)

// Cache TTLs
const (
	CoverTTL         = 6 * time.Hour
	NegativeCoverTTL = 1 * time.Minute
	NowPlayingTTL    = 200 * time.Millisecond
)

// Cover match scoring weights and thresholds. The thresholds are
// empirically chosen; tests pin the current behavior.
const (
	ArtistWeight = 0.45
	TitleWeight  = 0.20
	AlbumWeight  = 0.35

	MinArtistScore   = 40
	MinAlbumScore    = 35
	TitleTrumpsAlbum = 90
)

// History bounds
const (
	PlayedHistoryStoreCap  = 500
	PlayedHistoryMemoryCap = 50
	PlayedListMaxLimit     = 30
	PlayedListDefaultLimit = 30

	StatusHistoryMaxPoints = 240
	StatusHistoryWindow    = 24 * time.Hour
)

// Guestbook limits
const (
	GuestbookNameMaxLen    = 20
	GuestbookMessageMaxLen = 500
	GuestbookListLimit     = 50
)

// Upload limits
const (
	MaxUploadSize = 5 * 1024 * 1024 // 5MB
)

// Admin session
const (
	AdminCookieName = "blog_admin_auth"
	AdminCookieTTL  = 24 * time.Hour
)

// Provider search limits
const (
	ReleaseSearchLimit = 8
	DeezerSearchLimit  = 20
	LastFMRecentLimit  = 5
)
