// Package musicbrainz resolves release artwork through a MusicBrainz release
// search followed by cover-art-archive lookups.
package musicbrainz

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
	coverArtURL string
	userAgent   string
	searchLimit int
}

func NewClient(baseURL, coverArtURL string) *Client {
	return &Client{
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		coverArtURL: strings.TrimSuffix(coverArtURL, "/"),
		userAgent:   constants.DefaultUserAgent,
		searchLimit: constants.ReleaseSearchLimit,
		httpClient: &http.Client{
			Timeout: constants.UpstreamHTTPTimeout,
		},
	}
}

func (c *Client) Name() string {
	return "musicbrainz"
}

// Resolve searches releases matching artist+album and returns the first
// candidate's cover art. Requires both fields; "" when nothing was found.
func (c *Client) Resolve(ctx context.Context, track domain.Track) (string, error) {
	if track.Artist == nil || track.Album == nil {
		return "", nil
	}

	releaseIDs, err := c.SearchReleaseIDs(ctx, *track.Artist, *track.Album)
	if err != nil {
		return "", err
	}

	for _, releaseID := range releaseIDs {
		cover, err := c.CoverArtURL(ctx, releaseID)
		if err != nil {
			continue
		}
		if cover != "" {
			return cover, nil
		}
	}
	return "", nil
}

// SearchReleaseIDs runs a structured release query and returns up to the
// configured limit of candidate release MBIDs, in search order.
func (c *Client) SearchReleaseIDs(ctx context.Context, artist, album string) ([]string, error) {
	query := fmt.Sprintf("artist:%q AND release:%q", artist, album)
	u := fmt.Sprintf("%s/release?query=%s&fmt=json&limit=%d", c.baseURL, url.QueryEscape(query), c.searchLimit)

	var result struct {
		Releases []struct {
			ID string `json:"id"`
		} `json:"releases"`
	}
	if err := c.get(ctx, u, &result); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(result.Releases))
	for _, release := range result.Releases {
		if release.ID != "" {
			ids = append(ids, release.ID)
		}
	}
	return ids, nil
}

// CoverArtURL fetches the cover-art-archive entry for a release and returns
// the front image, or the first image when none is marked front.
func (c *Client) CoverArtURL(ctx context.Context, releaseID string) (string, error) {
	u := fmt.Sprintf("%s/%s", c.coverArtURL, url.PathEscape(releaseID))

	var result struct {
		Images []struct {
			Front      bool   `json:"front"`
			Image      string `json:"image"`
			Thumbnails struct {
				Large string `json:"large"`
				Small string `json:"small"`
			} `json:"thumbnails"`
		} `json:"images"`
	}
	if err := c.get(ctx, u, &result); err != nil {
		return "", err
	}

	if len(result.Images) == 0 {
		return "", nil
	}

	front := result.Images[0]
	for _, img := range result.Images {
		if img.Front {
			front = img
			break
		}
	}

	if front.Image != "" {
		return front.Image, nil
	}
	if front.Thumbnails.Large != "" {
		return front.Thumbnails.Large, nil
	}
	return front.Thumbnails.Small, nil
}

func (c *Client) get(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
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
		return fmt.Errorf("musicbrainz returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
