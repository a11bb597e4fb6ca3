// Package deezer searches the Deezer catalog and fuzzy-matches candidates
// against the wanted track to pick an album cover.
package deezer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/dvop/dvop-site/internal/constants"
	"github.com/dvop/dvop-site/internal/domain"
)

type Client struct {
	httpClient  *http.Client
	baseURL     string
	userAgent   string
	searchLimit int
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		userAgent:   constants.DefaultUserAgent,
		searchLimit: constants.DeezerSearchLimit,
		httpClient: &http.Client{
			Timeout: constants.UpstreamHTTPTimeout,
		},
	}
}

func (c *Client) Name() string {
	return "deezer"
}

// Candidate is one search result, flattened to the fields scoring needs.
type Candidate struct {
	Title       string
	ArtistName  string
	AlbumTitle  string
	CoverXL     string
	CoverBig    string
	CoverMedium string
	CoverSmall  string
}

// Cover returns the largest available artwork for the candidate.
func (c Candidate) Cover() string {
	for _, cover := range []string{c.CoverXL, c.CoverBig, c.CoverMedium, c.CoverSmall} {
		if cover != "" {
			return cover
		}
	}
	return ""
}

// Resolve pools three searches (strict artist+track, artist+album, loose
// free text), scores every candidate against the wanted track and returns
// the best matching cover. Falls back to the first raw candidate when no
// candidate qualifies. Returns "" when nothing was found.
func (c *Client) Resolve(ctx context.Context, track domain.Track) (string, error) {
	if track.Artist == nil || track.Title == nil {
		return "", nil
	}
	artist, title := *track.Artist, *track.Title

	strong, err := c.Search(ctx, fmt.Sprintf("artist:%q track:%q", artist, title))
	if err != nil {
		strong = nil
	}
	var byAlbum []Candidate
	if track.Album != nil {
		byAlbum, err = c.Search(ctx, fmt.Sprintf("artist:%q album:%q", artist, *track.Album))
		if err != nil {
			byAlbum = nil
		}
	}
	loose, err := c.Search(ctx, artist+" "+title)
	if err != nil {
		loose = nil
	}

	candidates := make([]Candidate, 0, len(strong)+len(byAlbum)+len(loose))
	candidates = append(candidates, strong...)
	candidates = append(candidates, byAlbum...)
	candidates = append(candidates, loose...)

	album := ""
	if track.Album != nil {
		album = *track.Album
	}
	if best := BestMatch(candidates, artist, title, album); best != nil {
		if cover := best.Cover(); cover != "" {
			return cover, nil
		}
	}

	// No qualifying candidate: take the first raw result in search order.
	for _, pool := range [][]Candidate{strong, byAlbum, loose} {
		if len(pool) > 0 {
			return pool[0].Cover(), nil
		}
	}
	return "", nil
}

func (c *Client) Search(ctx context.Context, query string) ([]Candidate, error) {
	u := fmt.Sprintf("%s/search?q=%s&limit=%d", c.baseURL, url.QueryEscape(query), c.searchLimit)

	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("deezer returned status %d", resp.StatusCode)
	}

	var result struct {
		Data []struct {
			Title  string `json:"title"`
			Artist struct {
				Name string `json:"name"`
			} `json:"artist"`
			Album struct {
				Title       string `json:"title"`
				CoverXL     string `json:"cover_xl"`
				CoverBig    string `json:"cover_big"`
				CoverMedium string `json:"cover_medium"`
				CoverSmall  string `json:"cover_small"`
			} `json:"album"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	candidates := make([]Candidate, 0, len(result.Data))
	for _, item := range result.Data {
		candidates = append(candidates, Candidate{
			Title:       item.Title,
			ArtistName:  item.Artist.Name,
			AlbumTitle:  item.Album.Title,
			CoverXL:     item.Album.CoverXL,
			CoverBig:    item.Album.CoverBig,
			CoverMedium: item.Album.CoverMedium,
			CoverSmall:  item.Album.CoverSmall,
		})
	}
	return candidates, nil
}
