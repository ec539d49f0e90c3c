package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestGenerate(t *testing.T) {
	var polls int32
	videoBytes := []byte{0x00, 0x00, 0x00, 0x18, 0x66, 0x74, 0x79, 0x70}

	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.Contains(r.URL.Path, ":predictLongRunning"):
			var req veoStartRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("failed to decode start request: %v", err)
			}
			if len(req.Instances) != 1 || req.Instances[0].Prompt == "" {
				t.Errorf("start request missing prompt")
			}
			if req.Parameters.AspectRatio != "9:16" {
				t.Errorf("aspect ratio = %q, want 9:16", req.Parameters.AspectRatio)
			}
			_ = json.NewEncoder(w).Encode(map[string]any{
				"name": "operations/gen-123",
				"done": false,
			})
		case strings.Contains(r.URL.Path, "operations/gen-123"):
			n := atomic.AddInt32(&polls, 1)
			if n < 2 {
				_ = json.NewEncoder(w).Encode(map[string]any{"name": "operations/gen-123", "done": false})
				return
			}
			resp := fmt.Sprintf(`{
				"name": "operations/gen-123",
				"done": true,
				"response": {
					"generateVideoResponse": {
						"generatedSamples": [{"video": {"uri": %q}}]
					}
				}
			}`, server.URL+"/files/clip.mp4")
			_, _ = w.Write([]byte(resp))
		case strings.Contains(r.URL.Path, "/files/clip.mp4"):
			_, _ = w.Write(videoBytes)
		default:
			t.Errorf("unexpected request: %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	svc := NewVideoGenService("test-key")
	svc.baseURL = server.URL
	svc.pollEvery = time.Millisecond
	svc.maxWait = time.Second

	genID, data, err := svc.Generate(context.Background(), BuildVideoPrompt())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if genID != "operations/gen-123" {
		t.Errorf("generation id = %q, want operations/gen-123", genID)
	}
	if len(data) != len(videoBytes) {
		t.Errorf("Generate() returned %d bytes, want %d", len(data), len(videoBytes))
	}
}

func TestGenerateOperationError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, ":predictLongRunning") {
			_, _ = w.Write([]byte(`{"name": "operations/gen-err", "done": true, "error": {"message": "quota exceeded"}}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	svc := NewVideoGenService("test-key")
	svc.baseURL = server.URL
	svc.pollEvery = time.Millisecond
	svc.maxWait = time.Second

	_, _, err := svc.Generate(context.Background(), "prompt")
	if err == nil || !strings.Contains(err.Error(), "quota exceeded") {
		t.Errorf("Generate() error = %v, want quota exceeded", err)
	}
}

func TestGeneratePollFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, ":predictLongRunning") {
			_, _ = w.Write([]byte(`{"name": "operations/gen-flaky", "done": false}`))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": {"message": "backend unavailable"}}`))
	}))
	defer server.Close()

	svc := NewVideoGenService("test-key")
	svc.baseURL = server.URL
	svc.pollEvery = time.Millisecond
	svc.maxWait = time.Second

	genID, _, err := svc.Generate(context.Background(), "prompt")
	if err == nil || !strings.Contains(err.Error(), "poll failed") {
		t.Errorf("Generate() error = %v, want poll failure", err)
	}
	if genID != "operations/gen-flaky" {
		t.Errorf("generation id = %q, want operations/gen-flaky", genID)
	}
}

func TestGenerateTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"name": "operations/gen-slow", "done": false}`))
	}))
	defer server.Close()

	svc := NewVideoGenService("test-key")
	svc.baseURL = server.URL
	svc.pollEvery = time.Millisecond
	svc.maxWait = 10 * time.Millisecond

	_, _, err := svc.Generate(context.Background(), "prompt")
	if err == nil || !strings.Contains(err.Error(), "timed out") {
		t.Errorf("Generate() error = %v, want timeout", err)
	}
}

func TestBuildVideoPrompt(t *testing.T) {
	prompt := BuildVideoPrompt()
	if !strings.Contains(prompt, "9:16") {
		t.Error("prompt should request vertical format")
	}
	if !strings.Contains(prompt, "SCENE:") {
		t.Error("prompt should contain a scene")
	}
}
