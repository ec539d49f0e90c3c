package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"shortform-backend/internal/handlers"
	"shortform-backend/internal/middleware"
	"shortform-backend/internal/websocket"
)

func New(
	dashboardHandler *handlers.DashboardHandler,
	topicHandler *handlers.TopicHandler,
	scriptHandler *handlers.ScriptHandler,
	videoHandler *handlers.VideoHandler,
	youtubeHandler *handlers.YouTubeHandler,
	pipelineHandler *handlers.PipelineHandler,
	settingsHandler *handlers.SettingsHandler,
	wsHub *websocket.Hub,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Trigger and generation rate limiter (10 req/min per IP)
	generateLimiter := middleware.NewRateLimiter(10, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/stats", dashboardHandler.Stats)
			r.Get("/videos", dashboardHandler.RecentVideos)
			r.Get("/pipeline-runs", dashboardHandler.PipelineRuns)
			r.Get("/pipeline-runs/latest", dashboardHandler.LatestRun)
			r.Get("/content-mix", dashboardHandler.ContentMix)
			r.Get("/content-pipeline", dashboardHandler.ContentPipeline)
			r.Get("/daily-stats", dashboardHandler.DailyStats)
		})

		r.Route("/topics", func(r chi.Router) {
			r.Get("/", topicHandler.List)
			r.Post("/", topicHandler.Create)
			r.Get("/{id}", topicHandler.Get)
			r.Put("/{id}/status", topicHandler.UpdateStatus)

			r.Group(func(r chi.Router) {
				r.Use(generateLimiter.Middleware)
				r.Post("/generate", topicHandler.Generate)
			})
		})

		r.Route("/scripts", func(r chi.Router) {
			r.Get("/", scriptHandler.List)
			r.Get("/{id}", scriptHandler.Get)

			r.Group(func(r chi.Router) {
				r.Use(generateLimiter.Middleware)
				r.Post("/generate", scriptHandler.Generate)
			})
		})

		r.Route("/videos", func(r chi.Router) {
			r.Get("/", videoHandler.List)
			r.Get("/{id}", videoHandler.Get)
			r.Put("/{id}/status", videoHandler.UpdateStatus)
		})

		r.Route("/youtube", func(r chi.Router) {
			r.Get("/uploads", youtubeHandler.ListUploads)
			r.Post("/uploads/{youtubeID}/sync-stats", youtubeHandler.SyncStats)
		})

		r.Route("/pipeline", func(r chi.Router) {
			r.Get("/status", pipelineHandler.Status)
			r.Post("/runs/{id}/complete", pipelineHandler.Complete)
			r.Post("/runs/{id}/fail", pipelineHandler.Fail)
			r.Post("/cleanup-stuck-runs", pipelineHandler.CleanupStuck)

			r.Group(func(r chi.Router) {
				r.Use(generateLimiter.Middleware)
				r.Post("/trigger", pipelineHandler.Trigger)
			})
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", settingsHandler.List)
			r.Get("/{key}", settingsHandler.Get)
			r.Put("/{key}", settingsHandler.Put)
		})

		r.Get("/ws", wsHub.HandleWebSocket)
	})

	return r
}
