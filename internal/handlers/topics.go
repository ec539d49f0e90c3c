package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"shortform-backend/internal/models"
	"shortform-backend/internal/repository"
	"shortform-backend/internal/services"
)

type TopicHandler struct {
	topicRepo    *repository.TopicRepo
	settingsRepo *repository.SettingsRepo
	gemini       *services.GeminiService
}

func NewTopicHandler(topicRepo *repository.TopicRepo, settingsRepo *repository.SettingsRepo, gemini *services.GeminiService) *TopicHandler {
	return &TopicHandler{
		topicRepo:    topicRepo,
		settingsRepo: settingsRepo,
		gemini:       gemini,
	}
}

func (h *TopicHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r, 20, 100)
	status := r.URL.Query().Get("status")

	topics, err := h.topicRepo.List(r.Context(), limit, status)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch topics", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"topics": topics})
}

func (h *TopicHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid topic ID", r))
		return
	}

	topic, err := h.topicRepo.GetByID(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Topic not found", r))
		return
	}

	writeJSON(w, http.StatusOK, topic)
}

func (h *TopicHandler) Create(w http.ResponseWriter, r *http.Request) {
	var topic models.Topic
	if err := json.NewDecoder(r.Body).Decode(&topic); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if err := h.topicRepo.Create(r.Context(), &topic); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", err.Error(), r))
		return
	}

	writeJSON(w, http.StatusCreated, topic)
}

func (h *TopicHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid topic ID", r))
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if err := h.topicRepo.UpdateStatus(r.Context(), id, req.Status); err != nil {
		switch {
		case errors.Is(err, repository.ErrInvalidTransition):
			writeJSON(w, http.StatusConflict, errorResp("INVALID_TRANSITION", err.Error(), r))
		case errors.Is(err, pgx.ErrNoRows):
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Topic not found", r))
		default:
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", err.Error(), r))
		}
		return
	}

	topic, err := h.topicRepo.GetByID(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch topic", r))
		return
	}

	writeJSON(w, http.StatusOK, topic)
}

// Generate calls the LLM synchronously and stores the topics it returns.
// The pipeline worker has its own path; this endpoint exists for manual
// topic curation from the dashboard.
func (h *TopicHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Count       int    `json:"count"`
		ContentType string `json:"content_type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if req.Count < 1 {
		req.Count = 1
	}
	if req.Count > 10 {
		req.Count = 10
	}
	if !models.ValidContentType(req.ContentType) {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid content type", r))
		return
	}

	settings, err := h.settingsRepo.LoadContentSettings(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load settings", r))
		return
	}

	topics, err := h.gemini.GenerateTopics(r.Context(), req.Count, req.ContentType, settings.DefaultLanguage)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, errorResp("GENERATION_FAILED", err.Error(), r))
		return
	}

	saved := make([]models.Topic, 0, len(topics))
	for i := range topics {
		if err := h.topicRepo.Create(r.Context(), &topics[i]); err != nil {
			writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to save topic", r))
			return
		}
		saved = append(saved, topics[i])
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"topics": saved})
}
