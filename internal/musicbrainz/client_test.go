package musicbrainz

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dvop/dvop-site/internal/domain"
)

func strPtr(s string) *string { return &s }

func TestSearchReleaseIDs(t *testing.T) {
	var gotQuery string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
		_, _ = w.Write([]byte(`{"releases":[{"id":"release-1"},{"id":"release-2"},{"id":""}]}`))
	}))
	defer ts.Close()

	client := NewClient(ts.URL, ts.URL)
	ids, err := client.SearchReleaseIDs(context.Background(), "Radiohead", "OK Computer")
	if err != nil {
		t.Fatalf("SearchReleaseIDs failed: %v", err)
	}

	if len(ids) != 2 {
		t.Fatalf("Expected 2 ids (empty id skipped), got %d", len(ids))
	}
	if ids[0] != "release-1" {
		t.Errorf("Expected first id 'release-1', got %s", ids[0])
	}
	if !strings.Contains(gotQuery, `artist:"Radiohead"`) || !strings.Contains(gotQuery, `release:"OK Computer"`) {
		t.Errorf("Unexpected search query: %s", gotQuery)
	}
}

func TestCoverArtURL(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "prefers front image",
			body: `{"images":[{"front":false,"image":"back.jpg"},{"front":true,"image":"front.jpg"}]}`,
			want: "front.jpg",
		},
		{
			name: "falls back to first image when none is front",
			body: `{"images":[{"front":false,"image":"first.jpg"},{"front":false,"image":"second.jpg"}]}`,
			want: "first.jpg",
		},
		{
			name: "uses large thumbnail without full image",
			body: `{"images":[{"front":true,"image":"","thumbnails":{"large":"large.jpg","small":"small.jpg"}}]}`,
			want: "large.jpg",
		},
		{
			name: "uses small thumbnail as last resort",
			body: `{"images":[{"front":true,"image":"","thumbnails":{"small":"small.jpg"}}]}`,
			want: "small.jpg",
		},
		{
			name: "no images",
			body: `{"images":[]}`,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			client := NewClient(ts.URL, ts.URL)
			got, err := client.CoverArtURL(context.Background(), "release-1")
			if err != nil {
				t.Fatalf("CoverArtURL failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("CoverArtURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveSkipsReleasesWithoutArt(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/release", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"releases":[{"id":"missing"},{"id":"has-art"}]}`))
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		// cover-art-archive returns 404 for releases without artwork
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/has-art", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"images":[{"front":true,"image":"cover.jpg"}]}`))
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	client := NewClient(ts.URL, ts.URL)
	track := domain.Track{Artist: strPtr("Radiohead"), Album: strPtr("OK Computer")}

	got, err := client.Resolve(context.Background(), track)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got != "cover.jpg" {
		t.Errorf("Resolve() = %q, want %q", got, "cover.jpg")
	}
}

func TestResolveRequiresArtistAndAlbum(t *testing.T) {
	client := NewClient("http://localhost:0", "http://localhost:0")

	tests := []struct {
		name  string
		track domain.Track
	}{
		{"no artist", domain.Track{Album: strPtr("OK Computer")}},
		{"no album", domain.Track{Artist: strPtr("Radiohead")}},
		{"neither", domain.Track{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := client.Resolve(context.Background(), tt.track)
			if err != nil {
				t.Fatalf("Resolve failed: %v", err)
			}
			if got != "" {
				t.Errorf("Resolve() = %q, want empty", got)
			}
		})
	}
}
