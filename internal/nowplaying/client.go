// Package nowplaying fetches the currently-playing track from the upstream
// now-playing source.
package nowplaying

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/karlseguin/ccache/v3"

	"github.com/dvop/dvop-site/internal/constants"
	"github.com/dvop/dvop-site/internal/domain"
)

const cacheKey = "now-playing"

// Client fetches the current track. A short-lived result cache collapses
// bursts of near-simultaneous polling into a single upstream fetch.
type Client struct {
	httpClient *http.Client
	cache      *ccache.Cache[domain.Track]
	baseURL    string
	userAgent  string
	cacheTTL   time.Duration
	mu         sync.Mutex
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		userAgent: constants.DefaultUserAgent,
		httpClient: &http.Client{
			Timeout: constants.UpstreamHTTPTimeout,
		},
		cache:    ccache.New(ccache.Configure[domain.Track]().MaxSize(8)),
		cacheTTL: constants.NowPlayingTTL,
	}
}

// Fetch returns the current track, served from the burst cache when fresh.
// The returned value is a copy; callers may fill in AlbumArt freely.
func (c *Client) Fetch(ctx context.Context) (*domain.Track, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if item := c.cache.Get(cacheKey); item != nil && !item.Expired() {
		track := item.Value()
		return &track, nil
	}

	track, err := c.fetchUpstream(ctx)
	if err != nil {
		return nil, err
	}

	c.cache.Set(cacheKey, *track, c.cacheTTL)
	return track, nil
}

func (c *Client) fetchUpstream(ctx context.Context) (*domain.Track, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-store")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch now playing: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("now playing source returned status %d", resp.StatusCode)
	}

	var track domain.Track
	if err := json.NewDecoder(resp.Body).Decode(&track); err != nil {
		return nil, fmt.Errorf("failed to decode now playing response: %w", err)
	}

	return &track, nil
}
