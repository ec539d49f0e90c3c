package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"shortform-backend/internal/models"
)

func TestSceneTexts(t *testing.T) {
	tests := []struct {
		name     string
		segments []models.ScriptSegment
		want     []string
	}{
		{
			name: "fourSegments",
			segments: []models.ScriptSegment{
				{Text: "one"}, {Text: "two"}, {Text: "three"}, {Text: "four"},
			},
			want: []string{"one", "two", "three", "four"},
		},
		{
			name: "twoSegments",
			segments: []models.ScriptSegment{
				{Text: "hook"}, {Text: "cta"},
			},
			want: []string{"hook", "cta", "", ""},
		},
		{
			name: "sixSegmentsFoldTail",
			segments: []models.ScriptSegment{
				{Text: "a"}, {Text: "b"}, {Text: "c"}, {Text: "d"}, {Text: "e"}, {Text: "f"},
			},
			want: []string{"a", "b", "c", "d e f"},
		},
		{
			name: "blankSegmentSkipped",
			segments: []models.ScriptSegment{
				{Text: "a"}, {Text: "   "}, {Text: "c"},
			},
			want: []string{"a", "", "c", ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SceneTexts(tt.segments)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SceneTexts() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuildModifications(t *testing.T) {
	segments := []models.ScriptSegment{{Text: "hook"}, {Text: "point"}}
	mods := buildModifications(segments, "https://cdn/audio.mp3", "https://cdn/bg.mp4")

	if mods["Audio.source"] != "https://cdn/audio.mp3" {
		t.Errorf("Audio.source = %q", mods["Audio.source"])
	}
	for _, key := range []string{"Background-1.source", "Background-4.source"} {
		if mods[key] != "https://cdn/bg.mp4" {
			t.Errorf("%s = %q, want background url", key, mods[key])
		}
	}
	if mods["Text-1.text"] != "hook" || mods["Text-2.text"] != "point" {
		t.Errorf("caption texts = %q, %q", mods["Text-1.text"], mods["Text-2.text"])
	}
}

func TestRender(t *testing.T) {
	var polls int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
				t.Errorf("Authorization = %q", got)
			}
			var req renderRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("failed to decode request: %v", err)
			}
			if req.TemplateID != "tmpl-1" {
				t.Errorf("template id = %q, want tmpl-1", req.TemplateID)
			}
			w.WriteHeader(http.StatusAccepted)
			_, _ = w.Write([]byte(`[{"id": "render-1", "status": "planned"}]`))
			return
		}

		if atomic.AddInt32(&polls, 1) < 2 {
			_, _ = w.Write([]byte(`{"id": "render-1", "status": "rendering"}`))
			return
		}
		_, _ = w.Write([]byte(`{"id": "render-1", "status": "succeeded", "url": "https://cdn/final.mp4"}`))
	}))
	defer server.Close()

	svc := NewRenderService("test-key", "tmpl-1")
	svc.baseURL = server.URL
	svc.pollEvery = time.Millisecond
	svc.maxWait = time.Second

	url, err := svc.Render(context.Background(), []models.ScriptSegment{{Text: "hook"}}, "https://cdn/a.mp3", "https://cdn/bg.mp4")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if url != "https://cdn/final.mp4" {
		t.Errorf("Render() url = %q, want https://cdn/final.mp4", url)
	}
}

func TestRenderFailed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			_, _ = w.Write([]byte(`[{"id": "render-2", "status": "planned"}]`))
			return
		}
		_, _ = w.Write([]byte(`{"id": "render-2", "status": "failed", "error_message": "invalid template"}`))
	}))
	defer server.Close()

	svc := NewRenderService("test-key", "tmpl-1")
	svc.baseURL = server.URL
	svc.pollEvery = time.Millisecond
	svc.maxWait = time.Second

	_, err := svc.Render(context.Background(), nil, "", "")
	if err == nil || !strings.Contains(err.Error(), "invalid template") {
		t.Errorf("Render() error = %v, want invalid template", err)
	}
}
