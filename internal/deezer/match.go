package deezer

import (
	"math"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/dvop/dvop-site/internal/constants"
)

var foldTransformer = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))

// NormalizeText prepares a field for fuzzy comparison: compatibility
// decomposition, diacritics stripped, lowercased, non-alphanumeric
// characters removed, whitespace collapsed.
func NormalizeText(value string) string {
	folded, _, err := transform.String(foldTransformer, value)
	if err != nil {
		folded = value
	}
	folded = strings.ToLower(strings.TrimSpace(folded))

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == ' ' {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// ScoreFieldMatch rates how well a normalized candidate field matches the
// normalized wanted value: exact match 100, substring containment 70, token
// overlap proportional up to 50.
func ScoreFieldMatch(actual, expected string) int {
	if actual == "" || expected == "" {
		return 0
	}
	if actual == expected {
		return 100
	}
	if strings.Contains(actual, expected) || strings.Contains(expected, actual) {
		return 70
	}

	actualTokens := make(map[string]struct{})
	for _, token := range strings.Fields(actual) {
		actualTokens[token] = struct{}{}
	}
	expectedTokens := strings.Fields(expected)
	if len(expectedTokens) == 0 {
		return 0
	}

	overlap := 0
	for _, token := range expectedTokens {
		if _, ok := actualTokens[token]; ok {
			overlap++
		}
	}
	return int(math.Round(float64(overlap) / float64(len(expectedTokens)) * 50))
}

// BestMatch scores candidates against the wanted track and returns the
// highest scorer, or nil when no candidate passes the thresholds. A weak
// album match is tolerated for near-exact title matches, which covers
// singles not labeled with the wanted album.
func BestMatch(candidates []Candidate, artist, title, album string) *Candidate {
	wantedArtist := NormalizeText(artist)
	wantedTitle := NormalizeText(title)
	wantedAlbum := NormalizeText(album)

	bestScore := -1.0
	var best *Candidate

	for i := range candidates {
		candidate := &candidates[i]

		artistScore := ScoreFieldMatch(NormalizeText(candidate.ArtistName), wantedArtist)
		if artistScore < constants.MinArtistScore {
			continue
		}
		titleScore := ScoreFieldMatch(NormalizeText(candidate.Title), wantedTitle)
		albumScore := ScoreFieldMatch(NormalizeText(candidate.AlbumTitle), wantedAlbum)
		if wantedAlbum != "" && albumScore < constants.MinAlbumScore && titleScore < constants.TitleTrumpsAlbum {
			continue
		}

		score := float64(artistScore)*constants.ArtistWeight +
			float64(titleScore)*constants.TitleWeight +
			float64(albumScore)*constants.AlbumWeight

		if score > bestScore {
			bestScore = score
			best = candidate
		}
	}

	return best
}
