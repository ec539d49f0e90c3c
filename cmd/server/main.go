package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shortform-backend/internal/config"
	"shortform-backend/internal/database"
	"shortform-backend/internal/handlers"
	"shortform-backend/internal/repository"
	"shortform-backend/internal/router"
	"shortform-backend/internal/services"
	"shortform-backend/internal/websocket"
	"shortform-backend/internal/worker"
)

func main() {
	log.Println("🚀 Starting Shortform Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize PostgreSQL Connection Pool ────
	pool, err := database.NewPostgresPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("✗ PostgreSQL connection failed: %v", err)
	}
	defer pool.Close()
	log.Println("✓ PostgreSQL connected")

	// ──── Step 3: Initialize Redis Clients ────
	redisClients, err := database.NewRedisClients(cfg.RedisURL)
	if err != nil {
		log.Fatalf("✗ Redis connection failed: %v", err)
	}
	defer redisClients.Close()
	log.Println("✓ Redis connected")

	// ──── Step 4: Run Database Migrations ────
	if err := database.RunMigrations(pool, "migrations"); err != nil {
		log.Fatalf("✗ Database migration failed: %v", err)
	}
	log.Println("✓ Database migrations applied")

	// ──── Initialize Repositories ────
	topicRepo := repository.NewTopicRepo(pool)
	scriptRepo := repository.NewScriptRepo(pool)
	videoRepo := repository.NewVideoRepo(pool)
	uploadRepo := repository.NewUploadRepo(pool)
	runRepo := repository.NewPipelineRunRepo(pool)
	settingsRepo := repository.NewSettingsRepo(pool)
	reportingRepo := repository.NewReportingRepo(pool)

	// ──── Step 5: Initialize Services ────
	geminiService, err := services.NewGeminiService(cfg.GeminiAPIKey, cfg.GeminiConcurrentReqs, services.Brand{
		Name:    cfg.BrandName,
		Website: cfg.BrandWebsite,
		Tagline: cfg.BrandTagline,
	})
	if err != nil {
		log.Fatalf("✗ Gemini client initialization failed: %v", err)
	}
	defer geminiService.Close()
	log.Println("✓ Gemini client initialized")

	mediaStorage, err := services.NewMediaStorage(context.Background(), cfg.StorageBucket)
	if err != nil {
		log.Fatalf("✗ GCS client initialization failed: %v", err)
	}
	defer mediaStorage.Close()
	log.Println("✓ Media storage initialized")

	ttsService := services.NewTTSService(cfg.ElevenLabsAPIKey, cfg.ElevenLabsVoiceID)
	videoGenService := services.NewVideoGenService(cfg.GeminiAPIKey)
	renderService := services.NewRenderService(cfg.CreatomateAPIKey, cfg.CreatomateTemplateID)
	youtubeService := services.NewYouTubeService(cfg.YouTubeClientID, cfg.YouTubeClientSecret, cfg.YouTubeRefreshToken)

	// ──── Initialize Handlers ────
	dashboardHandler := handlers.NewDashboardHandler(videoRepo, uploadRepo, topicRepo, runRepo, settingsRepo, reportingRepo)
	topicHandler := handlers.NewTopicHandler(topicRepo, settingsRepo, geminiService)
	scriptHandler := handlers.NewScriptHandler(scriptRepo, topicRepo, geminiService)
	videoHandler := handlers.NewVideoHandler(videoRepo)
	youtubeHandler := handlers.NewYouTubeHandler(uploadRepo, youtubeService)
	pipelineHandler := handlers.NewPipelineHandler(runRepo, settingsRepo, redisClients.Queue)
	settingsHandler := handlers.NewSettingsHandler(settingsRepo)

	// ──── Step 6: Start Pipeline Worker Pool ────
	workerPool := worker.NewPool(
		redisClients.Queue,
		geminiService,
		ttsService,
		videoGenService,
		renderService,
		mediaStorage,
		youtubeService,
		topicRepo,
		scriptRepo,
		videoRepo,
		uploadRepo,
		runRepo,
		settingsRepo,
		2,
	)
	workerPool.Start()
	log.Println("✓ Worker pool started (2 goroutines)")

	// ──── Step 7: Start Schedulers ────
	dailyScheduler := services.NewDailyScheduler(runRepo, settingsRepo, redisClients.Queue)
	dailyScheduler.Start()

	statsScheduler := services.NewStatsSyncScheduler(uploadRepo, runRepo, youtubeService)
	statsScheduler.Start()
	log.Println("✓ Schedulers started")

	// ──── Step 8: Start WebSocket Hub ────
	wsHub := websocket.NewHub(redisClients.PubSub)
	log.Println("✓ WebSocket hub started")

	// ──── Step 9: Start HTTP Server ────
	r := router.New(
		dashboardHandler,
		topicHandler,
		scriptHandler,
		videoHandler,
		youtubeHandler,
		pipelineHandler,
		settingsHandler,
		wsHub,
		cfg.FrontendURL,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		workerPool.Stop()
		dailyScheduler.Stop()
		statsScheduler.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ Shortform Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)
	log.Printf("  WS:  ws://localhost:%s/api/v1/ws", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
