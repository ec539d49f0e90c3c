package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestShortsTitle(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"appendsSuffix", "Follow-up wint deals", "Follow-up wint deals #Shorts"},
		{"keepsExistingSuffix", "Follow-up wint deals #Shorts", "Follow-up wint deals #Shorts"},
		{"caseInsensitive", "Deal tip #shorts", "Deal tip #shorts"},
		{"trimsWhitespace", "Deal tip  ", "Deal tip #Shorts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShortsTitle(tt.title); got != tt.want {
				t.Errorf("ShortsTitle(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}

func TestUpload(t *testing.T) {
	videoBytes := []byte{0x00, 0x00, 0x00, 0x18}

	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/video.mp4":
			_, _ = w.Write(videoBytes)
		case "/upload":
			if r.Method != http.MethodPost {
				t.Errorf("expected POST, got %s", r.Method)
			}
			if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
				t.Errorf("Content-Type = %q, want multipart", r.Header.Get("Content-Type"))
			}
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				t.Errorf("failed to parse multipart form: %v", err)
			}
			snippet := r.FormValue("snippet")
			if !strings.Contains(snippet, "#Shorts") {
				t.Errorf("snippet missing #Shorts suffix: %s", snippet)
			}
			if !strings.Contains(snippet, `"privacyStatus":"public"`) {
				t.Errorf("snippet missing privacy status: %s", snippet)
			}
			_, _ = w.Write([]byte(`{"id": "yt-abc"}`))
		default:
			t.Errorf("unexpected request: %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	svc := NewYouTubeService("id", "secret", "refresh")
	svc.httpClient = server.Client()
	svc.uploadURL = server.URL + "/upload"

	id, err := svc.Upload(context.Background(), server.URL+"/video.mp4", "Deal tip", "beschrijving", []string{"sales"}, "public")
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if id != "yt-abc" {
		t.Errorf("Upload() id = %q, want yt-abc", id)
	}
}

func TestFetchStats(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("part"); got != "statistics" {
			t.Errorf("part = %q, want statistics", got)
		}
		_, _ = w.Write([]byte(`{
			"items": [
				{"id": "vid-1", "statistics": {"viewCount": "1500", "likeCount": "42"}},
				{"id": "vid-2", "statistics": {"viewCount": "7", "likeCount": "0"}}
			]
		}`))
	}))
	defer server.Close()

	svc := NewYouTubeService("id", "secret", "refresh")
	svc.httpClient = server.Client()
	svc.videosURL = server.URL

	stats, err := svc.FetchStats(context.Background(), []string{"vid-1", "vid-2", "vid-gone"})
	if err != nil {
		t.Fatalf("FetchStats() error = %v", err)
	}
	if got := stats["vid-1"]; got.Views != 1500 || got.Likes != 42 {
		t.Errorf("stats[vid-1] = %+v", got)
	}
	if got := stats["vid-2"]; got.Views != 7 {
		t.Errorf("stats[vid-2] = %+v", got)
	}
	if _, ok := stats["vid-gone"]; ok {
		t.Error("missing video should be omitted from stats")
	}
}

func TestFetchStatsNoIDs(t *testing.T) {
	svc := NewYouTubeService("id", "secret", "refresh")
	stats, err := svc.FetchStats(context.Background(), nil)
	if err != nil {
		t.Fatalf("FetchStats() error = %v", err)
	}
	if len(stats) != 0 {
		t.Errorf("expected empty stats, got %v", stats)
	}
}
