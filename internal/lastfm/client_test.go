package lastfm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dvop/dvop-site/internal/domain"
)

func strPtr(s string) *string { return &s }

func TestBestImage(t *testing.T) {
	tests := []struct {
		name   string
		images []image
		want   string
	}{
		{
			name: "prefers mega",
			images: []image{
				{URL: "small.jpg", Size: "small"},
				{URL: "mega.jpg", Size: "mega"},
				{URL: "large.jpg", Size: "large"},
			},
			want: "mega.jpg",
		},
		{
			name: "skips empty urls",
			images: []image{
				{URL: "", Size: "mega"},
				{URL: "large.jpg", Size: "large"},
			},
			want: "large.jpg",
		},
		{
			name: "falls back to any non-empty for unknown sizes",
			images: []image{
				{URL: "weird.jpg", Size: "gigantic"},
			},
			want: "weird.jpg",
		},
		{
			name:   "empty list",
			images: nil,
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := bestImage(tt.images); got != tt.want {
				t.Errorf("bestImage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolvePrefersAlbumImage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("method") {
		case "album.getInfo":
			_, _ = w.Write([]byte(`{"album":{"image":[{"#text":"album.jpg","size":"extralarge"}]}}`))
		case "track.getInfo":
			t.Error("track.getInfo should not be called when the album lookup succeeds")
		}
	}))
	defer ts.Close()

	client := NewClient(ts.URL, "key")
	track := domain.Track{
		Artist: strPtr("Radiohead"),
		Title:  strPtr("Karma Police"),
		Album:  strPtr("OK Computer"),
	}

	got, err := client.Resolve(context.Background(), track)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got != "album.jpg" {
		t.Errorf("Resolve() = %q, want %q", got, "album.jpg")
	}
}

func TestResolveFallsBackToTrackImage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("method") {
		case "album.getInfo":
			_, _ = w.Write([]byte(`{"album":{"image":[]}}`))
		case "track.getInfo":
			_, _ = w.Write([]byte(`{"track":{"album":{"image":[{"#text":"track.jpg","size":"large"}]}}}`))
		}
	}))
	defer ts.Close()

	client := NewClient(ts.URL, "key")
	track := domain.Track{
		Artist: strPtr("Radiohead"),
		Title:  strPtr("Karma Police"),
		Album:  strPtr("OK Computer"),
	}

	got, err := client.Resolve(context.Background(), track)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got != "track.jpg" {
		t.Errorf("Resolve() = %q, want %q", got, "track.jpg")
	}
}

func TestResolveAlbumLookupFailureStillTriesTrack(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("method") {
		case "album.getInfo":
			w.WriteHeader(http.StatusBadRequest)
		case "track.getInfo":
			_, _ = w.Write([]byte(`{"track":{"album":{"image":[{"#text":"track.jpg","size":"large"}]}}}`))
		}
	}))
	defer ts.Close()

	client := NewClient(ts.URL, "key")
	track := domain.Track{
		Artist: strPtr("Radiohead"),
		Title:  strPtr("Karma Police"),
		Album:  strPtr("OK Computer"),
	}

	got, err := client.Resolve(context.Background(), track)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got != "track.jpg" {
		t.Errorf("Resolve() = %q, want the track image despite the album failure", got)
	}
}

func TestResolveWithoutAPIKey(t *testing.T) {
	client := NewClient("http://localhost:0", "")
	track := domain.Track{Artist: strPtr("Radiohead"), Album: strPtr("OK Computer")}

	got, err := client.Resolve(context.Background(), track)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got != "" {
		t.Errorf("Resolve() = %q, want empty without an API key", got)
	}
}

func TestRecentTracks(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("method"); got != "user.getrecenttracks" {
			t.Errorf("method = %q, want user.getrecenttracks", got)
		}
		if got := r.URL.Query().Get("user"); got != "dvop" {
			t.Errorf("user = %q, want dvop", got)
		}
		_, _ = w.Write([]byte(`{
			"recenttracks": {
				"track": [
					{
						"name": "Karma Police",
						"url": "https://last.fm/karma-police",
						"artist": {"#text": "Radiohead"},
						"album": {"#text": "OK Computer"},
						"image": [{"#text": "large.jpg", "size": "large"}],
						"@attr": {"nowplaying": "true"}
					},
					{
						"name": "No Surprises",
						"url": "https://last.fm/no-surprises",
						"artist": {"#text": "Radiohead"},
						"album": {"#text": "OK Computer"},
						"image": [],
						"date": {"uts": "1700000000"}
					}
				]
			}
		}`))
	}))
	defer ts.Close()

	client := NewClient(ts.URL, "key")
	tracks, err := client.RecentTracks(context.Background(), "dvop", 5)
	if err != nil {
		t.Fatalf("RecentTracks failed: %v", err)
	}

	if len(tracks) != 2 {
		t.Fatalf("Expected 2 tracks, got %d", len(tracks))
	}

	if !tracks[0].NowPlaying {
		t.Error("Expected first track to be now playing")
	}
	if tracks[0].PlayedAt != nil {
		t.Error("Now-playing track must not carry a played-at time")
	}
	if tracks[0].Image != "large.jpg" {
		t.Errorf("Expected image 'large.jpg', got %s", tracks[0].Image)
	}

	if tracks[1].NowPlaying {
		t.Error("Expected second track to be a past scrobble")
	}
	if tracks[1].PlayedAt == nil {
		t.Fatal("Expected played-at time on the scrobble")
	}
	if *tracks[1].PlayedAt != "2023-11-14T22:13:20Z" {
		t.Errorf("PlayedAt = %s, want 2023-11-14T22:13:20Z", *tracks[1].PlayedAt)
	}
}

func TestRecentTracksWithoutAPIKey(t *testing.T) {
	client := NewClient("http://localhost:0", "")
	if _, err := client.RecentTracks(context.Background(), "dvop", 5); err == nil {
		t.Error("Expected error without an API key")
	}
}
