package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSynthesize(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		serverStatus int
		serverBody   []byte
		wantErr      bool
	}{
		{
			name:         "successfulSynthesis",
			text:         "Deals stoppen niet bij het eerste gesprek.",
			serverStatus: http.StatusOK,
			serverBody:   []byte{0x49, 0x44, 0x33},
			wantErr:      false,
		},
		{
			name:         "emptyResponse",
			text:         "Test",
			serverStatus: http.StatusOK,
			serverBody:   []byte{},
			wantErr:      true,
		},
		{
			name:         "serverError",
			text:         "Test",
			serverStatus: http.StatusInternalServerError,
			serverBody:   []byte(`{"detail":{"message":"internal error"}}`),
			wantErr:      true,
		},
		{
			name:         "rateLimitError",
			text:         "Test",
			serverStatus: http.StatusTooManyRequests,
			serverBody:   []byte(`{"detail":{"message":"rate limit exceeded"}}`),
			wantErr:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("expected POST, got %s", r.Method)
				}
				if r.Header.Get("xi-api-key") != "test-key" {
					t.Errorf("expected xi-api-key header")
				}

				var req ttsRequest
				if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
					t.Errorf("failed to decode request: %v", err)
				}
				if req.Text != tt.text {
					t.Errorf("request text = %q, want %q", req.Text, tt.text)
				}
				if req.ModelID != ttsModel {
					t.Errorf("request ModelID = %q, want %q", req.ModelID, ttsModel)
				}

				w.WriteHeader(tt.serverStatus)
				_, _ = w.Write(tt.serverBody)
			}))
			defer server.Close()

			svc := NewTTSService("test-key", "voice-123")
			svc.baseURL = server.URL

			got, err := svc.Synthesize(context.Background(), tt.text)
			if (err != nil) != tt.wantErr {
				t.Errorf("Synthesize() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && len(got) != len(tt.serverBody) {
				t.Errorf("Synthesize() returned %d bytes, want %d", len(got), len(tt.serverBody))
			}
		})
	}
}

func TestSynthesizeEmptyText(t *testing.T) {
	svc := NewTTSService("key", "voice")
	if _, err := svc.Synthesize(context.Background(), ""); err == nil {
		t.Error("expected error for empty text")
	}
}
