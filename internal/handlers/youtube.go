package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"shortform-backend/internal/repository"
	"shortform-backend/internal/services"
)

type YouTubeHandler struct {
	uploadRepo *repository.UploadRepo
	youtube    *services.YouTubeService
}

func NewYouTubeHandler(uploadRepo *repository.UploadRepo, youtube *services.YouTubeService) *YouTubeHandler {
	return &YouTubeHandler{
		uploadRepo: uploadRepo,
		youtube:    youtube,
	}
}

func (h *YouTubeHandler) ListUploads(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r, 20, 100)

	uploads, err := h.uploadRepo.ListRecent(r.Context(), limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch uploads", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"uploads": uploads})
}

// SyncStats pulls fresh counters from the YouTube API for one video,
// outside the hourly sync cycle.
func (h *YouTubeHandler) SyncStats(w http.ResponseWriter, r *http.Request) {
	youtubeID := chi.URLParam(r, "youtubeID")
	if youtubeID == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Missing YouTube ID", r))
		return
	}

	stats, err := h.youtube.FetchStats(r.Context(), []string{youtubeID})
	if err != nil {
		writeJSON(w, http.StatusBadGateway, errorResp("YOUTUBE_ERROR", err.Error(), r))
		return
	}

	st, ok := stats[youtubeID]
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Video not found on YouTube", r))
		return
	}

	if err := h.uploadRepo.UpdateStats(r.Context(), youtubeID, st.Views, st.Likes, st.Comments); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to save stats", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"youtube_id": youtubeID,
		"views":      st.Views,
		"likes":      st.Likes,
		"comments":   st.Comments,
	})
}
