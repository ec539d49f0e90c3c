package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"shortform-backend/internal/models"
)

func withRouteContext(r *http.Request, rctx *chi.Context) context.Context {
	return context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
}

func TestParseLimit(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"defaultWhenMissing", "", 10},
		{"parsesValue", "limit=5", 5},
		{"clampedToMax", "limit=500", 50},
		{"defaultOnGarbage", "limit=abc", 10},
		{"defaultOnZero", "limit=0", 10},
		{"defaultOnNegative", "limit=-3", 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/videos?"+tt.query, nil)
			if got := parseLimit(req, 10, 50); got != tt.want {
				t.Errorf("parseLimit() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestErrorRespEchoesRequestID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/topics", nil)
	req.Header.Set("X-Request-ID", "req-42")

	resp := errorResp("NOT_FOUND", "Topic not found", req)
	if resp.Error.Code != "NOT_FOUND" {
		t.Errorf("code = %q", resp.Error.Code)
	}
	if resp.Error.RequestID != "req-42" {
		t.Errorf("request_id = %q, want req-42", resp.Error.RequestID)
	}
}

func TestTopicHandlerInvalidID(t *testing.T) {
	h := NewTopicHandler(nil, nil, nil)

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "not-a-uuid")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/topics/not-a-uuid", nil)
	req = req.WithContext(withRouteContext(req, rctx))
	rr := httptest.NewRecorder()

	h.Get(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}

	var resp models.ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Error.Code != "VALIDATION_ERROR" {
		t.Errorf("error code = %q, want VALIDATION_ERROR", resp.Error.Code)
	}
}

func TestTopicGenerateRejectsInvalidContentType(t *testing.T) {
	h := NewTopicHandler(nil, nil, nil)

	body, _ := json.Marshal(map[string]interface{}{
		"count":        3,
		"content_type": "celebrity_gossip",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/topics/generate", bytes.NewReader(body))
	rr := httptest.NewRecorder()

	h.Generate(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestVideoUpdateStatusRejectsUnknownStatus(t *testing.T) {
	h := NewVideoHandler(nil)

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "0d4e9bd2-5ff2-4b33-8a9d-111111111111")

	body, _ := json.Marshal(map[string]string{"status": "archived"})
	req := httptest.NewRequest(http.MethodPut, "/api/v1/videos/0d4e9bd2-5ff2-4b33-8a9d-111111111111/status", bytes.NewReader(body))
	req = req.WithContext(withRouteContext(req, rctx))
	rr := httptest.NewRecorder()

	h.UpdateStatus(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestSettingsPutRequiresValue(t *testing.T) {
	h := NewSettingsHandler(nil)

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("key", "publish_hour")

	body, _ := json.Marshal(map[string]string{"description": "no value here"})
	req := httptest.NewRequest(http.MethodPut, "/api/v1/settings/publish_hour", bytes.NewReader(body))
	req = req.WithContext(withRouteContext(req, rctx))
	rr := httptest.NewRecorder()

	h.Put(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestPipelineFinishInvalidID(t *testing.T) {
	h := NewPipelineHandler(nil, nil, nil)

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "nope")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/pipeline/runs/nope/complete", nil)
	req = req.WithContext(withRouteContext(req, rctx))
	rr := httptest.NewRecorder()

	h.Complete(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
}
