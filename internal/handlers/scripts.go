package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"shortform-backend/internal/models"
	"shortform-backend/internal/repository"
	"shortform-backend/internal/services"
)

type ScriptHandler struct {
	scriptRepo *repository.ScriptRepo
	topicRepo  *repository.TopicRepo
	gemini     *services.GeminiService
}

func NewScriptHandler(scriptRepo *repository.ScriptRepo, topicRepo *repository.TopicRepo, gemini *services.GeminiService) *ScriptHandler {
	return &ScriptHandler{
		scriptRepo: scriptRepo,
		topicRepo:  topicRepo,
		gemini:     gemini,
	}
}

func (h *ScriptHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r, 20, 100)

	scripts, err := h.scriptRepo.List(r.Context(), limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch scripts", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"scripts": scripts})
}

func (h *ScriptHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid script ID", r))
		return
	}

	script, err := h.scriptRepo.GetByID(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Script not found", r))
		return
	}

	writeJSON(w, http.StatusOK, script)
}

// Generate writes a script for an existing pending topic and marks the
// topic used. Synchronous, like manual topic generation.
func (h *ScriptHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TopicID               uuid.UUID `json:"topic_id"`
		TargetDurationSeconds int       `json:"target_duration_seconds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	topic, err := h.topicRepo.GetByID(r.Context(), req.TopicID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Topic not found", r))
		return
	}

	target := req.TargetDurationSeconds
	if target < 1 {
		target = topic.EstimatedDurationSeconds
	}

	script, err := h.gemini.GenerateScript(r.Context(), topic, target)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, errorResp("GENERATION_FAILED", err.Error(), r))
		return
	}

	script.TopicID = &topic.ID
	if err := h.scriptRepo.Create(r.Context(), script); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to save script", r))
		return
	}

	if topic.Status == models.TopicStatusPending {
		if err := h.topicRepo.UpdateStatus(r.Context(), topic.ID, models.TopicStatusUsed); err != nil {
			log.Printf("script generate: failed to mark topic %s used: %v", topic.ID, err)
		}
	}

	writeJSON(w, http.StatusCreated, script)
}
