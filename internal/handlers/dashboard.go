package handlers

import (
	"net/http"

	"shortform-backend/internal/models"
	"shortform-backend/internal/repository"
)

// DashboardHandler serves the read-only aggregate views the frontend
// dashboard is built from.
type DashboardHandler struct {
	videoRepo     *repository.VideoRepo
	uploadRepo    *repository.UploadRepo
	topicRepo     *repository.TopicRepo
	runRepo       *repository.PipelineRunRepo
	settingsRepo  *repository.SettingsRepo
	reportingRepo *repository.ReportingRepo
}

func NewDashboardHandler(
	videoRepo *repository.VideoRepo,
	uploadRepo *repository.UploadRepo,
	topicRepo *repository.TopicRepo,
	runRepo *repository.PipelineRunRepo,
	settingsRepo *repository.SettingsRepo,
	reportingRepo *repository.ReportingRepo,
) *DashboardHandler {
	return &DashboardHandler{
		videoRepo:     videoRepo,
		uploadRepo:    uploadRepo,
		topicRepo:     topicRepo,
		runRepo:       runRepo,
		settingsRepo:  settingsRepo,
		reportingRepo: reportingRepo,
	}
}

func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	totalVideos, videosThisWeek, err := h.videoRepo.Counts(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load video counts", r))
		return
	}

	totalViews, err := h.uploadRepo.TotalViews(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load view totals", r))
		return
	}

	counts, err := h.topicRepo.CountByContentType(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load content mix", r))
		return
	}

	writeJSON(w, http.StatusOK, models.DashboardStats{
		TotalVideos:    totalVideos,
		TotalViews:     totalViews,
		VideosThisWeek: videosThisWeek,
		ContentMix:     counts,
	})
}

func (h *DashboardHandler) RecentVideos(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r, 10, 50)

	videos, err := h.uploadRepo.ListRecent(r.Context(), limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load recent videos", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"videos": videos})
}

func (h *DashboardHandler) PipelineRuns(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r, 10, 100)

	runs, err := h.runRepo.List(r.Context(), limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load pipeline runs", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"runs": runs})
}

func (h *DashboardHandler) LatestRun(w http.ResponseWriter, r *http.Request) {
	run, err := h.runRepo.Latest(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load latest run", r))
		return
	}
	if run == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{"run": nil})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"run": run})
}

func (h *DashboardHandler) ContentMix(w http.ResponseWriter, r *http.Request) {
	counts, err := h.topicRepo.CountByContentType(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load content mix", r))
		return
	}

	settings, err := h.settingsRepo.LoadContentSettings(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load settings", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"counts":      counts,
		"percentages": models.ContentMixPercentages(counts),
		"target":      settings.ContentMix,
	})
}

func (h *DashboardHandler) ContentPipeline(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r, 20, 100)

	rows, err := h.reportingRepo.ContentPipeline(r.Context(), limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load content pipeline", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"items": rows})
}

func (h *DashboardHandler) DailyStats(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r, 30, 365)

	stats, err := h.reportingRepo.DailyStats(r.Context(), limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load daily stats", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"days": stats})
}
