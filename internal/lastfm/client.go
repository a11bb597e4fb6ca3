// Package lastfm is a read-only client for the audioscrobbler API: album and
// track artwork lookups plus the recent-tracks feed.
package lastfm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dvop/dvop-site/internal/constants"
	"github.com/dvop/dvop-site/internal/domain"
)

// Image sizes in preference order, largest first.
var imageSizeOrder = []string{"mega", "extralarge", "large", "medium", "small"}

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	userAgent  string
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		apiKey:    apiKey,
		userAgent: constants.DefaultUserAgent,
		httpClient: &http.Client{
			Timeout: constants.UpstreamHTTPTimeout,
		},
	}
}

func (c *Client) Name() string {
	return "lastfm"
}

// Resolve looks up artwork for the track, album first, then the track
// itself. A failed album lookup counts as a miss and the track lookup still
// runs. Returns "" when nothing usable was found.
func (c *Client) Resolve(ctx context.Context, track domain.Track) (string, error) {
	if c.apiKey == "" || track.Artist == nil {
		return "", nil
	}

	if track.Album != nil {
		if cover, err := c.albumImage(ctx, *track.Artist, *track.Album); err == nil && cover != "" {
			return cover, nil
		}
	}

	if track.Title == nil {
		return "", nil
	}
	return c.trackImage(ctx, *track.Artist, *track.Title)
}

type image struct {
	URL  string `json:"#text"`
	Size string `json:"size"`
}

func (c *Client) albumImage(ctx context.Context, artist, album string) (string, error) {
	params := url.Values{
		"method":      {"album.getInfo"},
		"api_key":     {c.apiKey},
		"artist":      {artist},
		"album":       {album},
		"autocorrect": {"1"},
		"format":      {"json"},
	}

	var result struct {
		Album struct {
			Image []image `json:"image"`
		} `json:"album"`
	}
	if err := c.get(ctx, params, &result); err != nil {
		return "", err
	}
	return bestImage(result.Album.Image), nil
}

func (c *Client) trackImage(ctx context.Context, artist, title string) (string, error) {
	params := url.Values{
		"method":      {"track.getInfo"},
		"api_key":     {c.apiKey},
		"artist":      {artist},
		"track":       {title},
		"autocorrect": {"1"},
		"format":      {"json"},
	}

	var result struct {
		Track struct {
			Album struct {
				Image []image `json:"image"`
			} `json:"album"`
		} `json:"track"`
	}
	if err := c.get(ctx, params, &result); err != nil {
		return "", err
	}
	return bestImage(result.Track.Album.Image), nil
}

// RecentTrack is one scrobble from the recent-tracks feed.
type RecentTrack struct {
	Name       string  `json:"name"`
	Artist     string  `json:"artist"`
	Album      string  `json:"album"`
	Image      string  `json:"image"`
	URL        string  `json:"url"`
	NowPlaying bool    `json:"nowPlaying"`
	PlayedAt   *string `json:"playedAt"`
}

func (c *Client) RecentTracks(ctx context.Context, user string, limit int) ([]RecentTrack, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("lastfm api key not configured")
	}

	params := url.Values{
		"method":  {"user.getrecenttracks"},
		"user":    {user},
		"api_key": {c.apiKey},
		"format":  {"json"},
		"limit":   {strconv.Itoa(limit)},
	}

	var result struct {
		RecentTracks struct {
			Track []struct {
				Name   string `json:"name"`
				URL    string `json:"url"`
				Artist struct {
					Text string `json:"#text"`
				} `json:"artist"`
				Album struct {
					Text string `json:"#text"`
				} `json:"album"`
				Image []image `json:"image"`
				Attr  *struct {
					NowPlaying string `json:"nowplaying"`
				} `json:"@attr"`
				Date *struct {
					UTS string `json:"uts"`
				} `json:"date"`
			} `json:"track"`
		} `json:"recenttracks"`
	}
	if err := c.get(ctx, params, &result); err != nil {
		return nil, err
	}

	tracks := make([]RecentTrack, 0, len(result.RecentTracks.Track))
	for _, t := range result.RecentTracks.Track {
		rt := RecentTrack{
			Name:       t.Name,
			Artist:     t.Artist.Text,
			Album:      t.Album.Text,
			URL:        t.URL,
			NowPlaying: t.Attr != nil && t.Attr.NowPlaying == "true",
		}
		for _, img := range t.Image {
			if img.Size == "large" && img.URL != "" {
				rt.Image = img.URL
				break
			}
		}
		if t.Date != nil && t.Date.UTS != "" {
			if uts, err := strconv.ParseInt(t.Date.UTS, 10, 64); err == nil {
				playedAt := time.Unix(uts, 0).UTC().Format(time.RFC3339)
				rt.PlayedAt = &playedAt
			}
		}
		tracks = append(tracks, rt)
	}
	return tracks, nil
}

func (c *Client) get(ctx context.Context, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("lastfm returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// bestImage picks the largest available image by named size.
func bestImage(images []image) string {
	for _, size := range imageSizeOrder {
		for _, img := range images {
			if img.Size == size && img.URL != "" {
				return img.URL
			}
		}
	}
	for _, img := range images {
		if img.URL != "" {
			return img.URL
		}
	}
	return ""
}
