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
)

type VideoHandler struct {
	videoRepo *repository.VideoRepo
}

func NewVideoHandler(videoRepo *repository.VideoRepo) *VideoHandler {
	return &VideoHandler{videoRepo: videoRepo}
}

func (h *VideoHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r, 20, 100)
	status := r.URL.Query().Get("status")

	videos, err := h.videoRepo.List(r.Context(), limit, status)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch videos", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"videos": videos})
}

func (h *VideoHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid video ID", r))
		return
	}

	video, err := h.videoRepo.GetByID(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Video not found", r))
		return
	}

	writeJSON(w, http.StatusOK, video)
}

// UpdateStatus lets an external worker report lifecycle progress: each
// target status carries its own required fields.
func (h *VideoHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid video ID", r))
		return
	}

	var req struct {
		Status          string  `json:"status"`
		GenerationID    string  `json:"generation_id"`
		VideoURL        string  `json:"video_url"`
		ThumbnailURL    string  `json:"thumbnail_url"`
		DurationSeconds float64 `json:"duration_seconds"`
		ErrorMessage    string  `json:"error_message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	switch req.Status {
	case models.VideoStatusProcessing:
		err = h.videoRepo.MarkProcessing(r.Context(), id, req.GenerationID)
	case models.VideoStatusReady:
		err = h.videoRepo.MarkReady(r.Context(), id, req.VideoURL, req.ThumbnailURL, req.DurationSeconds)
	case models.VideoStatusFailed:
		err = h.videoRepo.MarkFailed(r.Context(), id, req.ErrorMessage)
	default:
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Unsupported target status", r))
		return
	}

	if err != nil {
		switch {
		case errors.Is(err, repository.ErrMissingErrorMessage):
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", err.Error(), r))
		case errors.Is(err, repository.ErrInvalidTransition):
			writeJSON(w, http.StatusConflict, errorResp("INVALID_TRANSITION", err.Error(), r))
		case errors.Is(err, pgx.ErrNoRows):
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Video not found", r))
		default:
			writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to update video", r))
		}
		return
	}

	video, err := h.videoRepo.GetByID(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch video", r))
		return
	}

	writeJSON(w, http.StatusOK, video)
}
