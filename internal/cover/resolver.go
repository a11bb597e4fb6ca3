// Package cover resolves missing album artwork through an ordered chain of
// external providers, remembering both hits and misses.
package cover

import (
	"context"
	"strings"
	"time"

	"github.com/karlseguin/ccache/v3"

	"github.com/dvop/dvop-site/internal/constants"
	"github.com/dvop/dvop-site/internal/domain"
	"github.com/dvop/dvop-site/internal/logger"
)

// Source attempts one provider lookup. Implementations return "" for "no
// result"; errors are treated the same way by the resolver.
type Source interface {
	Name() string
	Resolve(ctx context.Context, track domain.Track) (string, error)
}

// Resolver walks the source chain in order and caches the outcome per
// artist+album/title key. Found covers are remembered for hours, misses
// only briefly so transient provider failures retry soon.
type Resolver struct {
	cache       *ccache.Cache[string]
	sources     []Source
	logger      *logger.Logger
	positiveTTL time.Duration
	negativeTTL time.Duration
}

func NewResolver(sources []Source, log *logger.Logger) *Resolver {
	return &Resolver{
		cache:       ccache.New(ccache.Configure[string]().MaxSize(5000)),
		sources:     sources,
		logger:      log.WithComponent("cover"),
		positiveTTL: constants.CoverTTL,
		negativeTTL: constants.NegativeCoverTTL,
	}
}

// CacheKey derives the lookup key from artist and album-or-title. A track
// without an artist is not resolvable.
func CacheKey(track domain.Track) (string, bool) {
	if track.Artist == nil {
		return "", false
	}
	albumOrTitle := track.Album
	if albumOrTitle == nil {
		albumOrTitle = track.Title
	}
	if albumOrTitle == nil {
		return "", false
	}
	return strings.ToLower(strings.TrimSpace(*track.Artist)) + "::" + strings.ToLower(strings.TrimSpace(*albumOrTitle)), true
}

// Resolve returns the artwork URL for the track, or "" when none could be
// found. It never returns an error: every source failure degrades to "no
// result for that source".
func (r *Resolver) Resolve(ctx context.Context, track domain.Track) string {
	key, ok := CacheKey(track)
	if !ok {
		return ""
	}

	if item := r.cache.Get(key); item != nil && !item.Expired() {
		return item.Value()
	}

	coverURL := ""
	for _, source := range r.sources {
		url, err := source.Resolve(ctx, track)
		if err != nil {
			r.logger.Debug("cover source failed", "source", source.Name(), "error", err)
			continue
		}
		if url != "" {
			coverURL = url
			break
		}
	}

	ttl := r.negativeTTL
	if coverURL != "" {
		ttl = r.positiveTTL
	}
	r.cache.Set(key, coverURL, ttl)

	return coverURL
}

// IsUsableArtURL reports whether the upstream artwork field is already a
// well-formed absolute http(s) URL, in which case no resolution happens.
func IsUsableArtURL(value *string) bool {
	if value == nil {
		return false
	}
	return strings.HasPrefix(*value, "http://") || strings.HasPrefix(*value, "https://")
}
