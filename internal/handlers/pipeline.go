package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"

	"shortform-backend/internal/models"
	"shortform-backend/internal/repository"
)

const stuckRunThreshold = 10 * time.Minute

type PipelineHandler struct {
	runRepo      *repository.PipelineRunRepo
	settingsRepo *repository.SettingsRepo
	redis        *redis.Client
}

func NewPipelineHandler(runRepo *repository.PipelineRunRepo, settingsRepo *repository.SettingsRepo, redisClient *redis.Client) *PipelineHandler {
	return &PipelineHandler{
		runRepo:      runRepo,
		settingsRepo: settingsRepo,
		redis:        redisClient,
	}
}

// Trigger starts a run for today and hands it to the worker pool. The
// run ledger's partial unique index turns double triggers into a 409.
func (h *PipelineHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	run, err := h.runRepo.Start(r.Context(), time.Now().UTC())
	if err != nil {
		if errors.Is(err, repository.ErrRunInProgress) {
			writeJSON(w, http.StatusConflict, errorResp("RUN_IN_PROGRESS", "A pipeline run for today is already running", r))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to start pipeline run", r))
		return
	}

	jobBytes, _ := json.Marshal(models.RunJob{RunID: run.ID})
	if err := h.redis.LPush(r.Context(), "queue:pipeline-run", string(jobBytes)).Err(); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to enqueue pipeline run", r))
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"run_id": run.ID,
		"status": run.Status,
	})
}

func (h *PipelineHandler) Status(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settingsRepo.LoadContentSettings(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load settings", r))
		return
	}

	latest, err := h.runRepo.Latest(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load latest run", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"schedule": map[string]interface{}{
			"publish_hour":   settings.PublishHour,
			"auto_publish":   settings.AutoPublish,
			"shorts_per_day": settings.ShortsPerDay,
		},
		"services": map[string]string{
			"topics_and_scripts": "Gemini",
			"voice_over":         "ElevenLabs",
			"background_video":   "Veo",
			"final_render":       "Creatomate",
			"distribution":       "YouTube",
		},
		"latest_run": latest,
	})
}

func (h *PipelineHandler) Complete(w http.ResponseWriter, r *http.Request) {
	h.finish(w, r, models.RunStatusCompleted, "")
}

func (h *PipelineHandler) Fail(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ErrorMessage string `json:"error_message"`
	}
	// Body is optional; a bare fail is still recorded.
	_ = json.NewDecoder(r.Body).Decode(&req)

	h.finish(w, r, models.RunStatusFailed, req.ErrorMessage)
}

func (h *PipelineHandler) finish(w http.ResponseWriter, r *http.Request, status, errorMessage string) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid run ID", r))
		return
	}

	if errorMessage != "" {
		if err := h.runRepo.AppendError(r.Context(), id, errorMessage); err != nil {
			writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to record error", r))
			return
		}
	}

	if err := h.runRepo.Finish(r.Context(), id, status); err != nil {
		switch {
		case errors.Is(err, repository.ErrRunNotRunning):
			writeJSON(w, http.StatusConflict, errorResp("RUN_NOT_RUNNING", err.Error(), r))
		case errors.Is(err, pgx.ErrNoRows):
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Pipeline run not found", r))
		default:
			writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to finish run", r))
		}
		return
	}

	run, err := h.runRepo.GetByID(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch run", r))
		return
	}

	writeJSON(w, http.StatusOK, run)
}

// CleanupStuck fails runs that have been running past the stuck
// threshold without progress reports.
func (h *PipelineHandler) CleanupStuck(w http.ResponseWriter, r *http.Request) {
	swept, err := h.runRepo.FailStuck(r.Context(), stuckRunThreshold)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to clean up stuck runs", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"cleaned": swept})
}
