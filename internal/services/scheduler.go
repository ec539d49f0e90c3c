package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"shortform-backend/internal/models"
	"shortform-backend/internal/repository"
)

const (
	dailyPollInterval = 10 * time.Minute
	statsPollInterval = 1 * time.Hour
	stuckRunThreshold = 10 * time.Minute
)

// DailyScheduler triggers one pipeline run per day at the configured
// publish hour. The partial unique index on pipeline_runs stops races
// with manual triggers, and the latest-run check stops re-triggering a
// day that already completed.
type DailyScheduler struct {
	runRepo      *repository.PipelineRunRepo
	settingsRepo *repository.SettingsRepo
	redis        *redis.Client
	stopChan     chan struct{}
}

func NewDailyScheduler(runRepo *repository.PipelineRunRepo, settingsRepo *repository.SettingsRepo, redisClient *redis.Client) *DailyScheduler {
	return &DailyScheduler{
		runRepo:      runRepo,
		settingsRepo: settingsRepo,
		redis:        redisClient,
		stopChan:     make(chan struct{}),
	}
}

func (s *DailyScheduler) Start() {
	go s.loop()
	log.Printf("Daily scheduler started")
}

func (s *DailyScheduler) Stop() {
	select {
	case <-s.stopChan:
		return
	default:
		close(s.stopChan)
	}
}

func (s *DailyScheduler) loop() {
	s.tick(context.Background(), time.Now().UTC())

	ticker := time.NewTicker(dailyPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.tick(context.Background(), time.Now().UTC())
		}
	}
}

func (s *DailyScheduler) tick(ctx context.Context, now time.Time) {
	settings, err := s.settingsRepo.LoadContentSettings(ctx)
	if err != nil {
		log.Printf("daily scheduler: failed to load settings: %v", err)
		return
	}

	if !settings.AutoPublish || now.Hour() != settings.PublishHour {
		return
	}

	today := now.Format("2006-01-02")

	latest, err := s.runRepo.Latest(ctx)
	if err != nil {
		log.Printf("daily scheduler: failed to load latest run: %v", err)
		return
	}
	if latest != nil && latest.RunDate.Format("2006-01-02") == today {
		return
	}

	run, err := s.runRepo.Start(ctx, now)
	if err != nil {
		if errors.Is(err, repository.ErrRunInProgress) {
			return
		}
		log.Printf("daily scheduler: failed to start run: %v", err)
		return
	}

	jobBytes, err := json.Marshal(models.RunJob{RunID: run.ID})
	if err != nil {
		log.Printf("daily scheduler: failed to marshal job: %v", err)
		return
	}
	if err := s.redis.LPush(ctx, "queue:pipeline-run", string(jobBytes)).Err(); err != nil {
		log.Printf("daily scheduler: failed to enqueue run %s: %v", run.ID, err)
		return
	}

	log.Printf("daily scheduler: triggered pipeline run %s for %s", run.ID, today)
}

// StatsSyncScheduler refreshes YouTube statistics every hour and sweeps
// pipeline runs that stalled without reporting completion.
type StatsSyncScheduler struct {
	uploadRepo *repository.UploadRepo
	runRepo    *repository.PipelineRunRepo
	youtube    *YouTubeService
	stopChan   chan struct{}
}

func NewStatsSyncScheduler(uploadRepo *repository.UploadRepo, runRepo *repository.PipelineRunRepo, youtube *YouTubeService) *StatsSyncScheduler {
	return &StatsSyncScheduler{
		uploadRepo: uploadRepo,
		runRepo:    runRepo,
		youtube:    youtube,
		stopChan:   make(chan struct{}),
	}
}

func (s *StatsSyncScheduler) Start() {
	go s.loop()
	log.Printf("Stats sync scheduler started")
}

func (s *StatsSyncScheduler) Stop() {
	select {
	case <-s.stopChan:
		return
	default:
		close(s.stopChan)
	}
}

func (s *StatsSyncScheduler) loop() {
	s.tick(context.Background())

	ticker := time.NewTicker(statsPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.tick(context.Background())
		}
	}
}

func (s *StatsSyncScheduler) tick(ctx context.Context) {
	s.sweepStuckRuns(ctx)
	s.syncStats(ctx)
}

func (s *StatsSyncScheduler) sweepStuckRuns(ctx context.Context) {
	swept, err := s.runRepo.FailStuck(ctx, stuckRunThreshold)
	if err != nil {
		log.Printf("stats sync: failed to sweep stuck runs: %v", err)
		return
	}
	if swept > 0 {
		log.Printf("stats sync: marked %d stuck pipeline run(s) as failed", swept)
	}
}

func (s *StatsSyncScheduler) syncStats(ctx context.Context) {
	ids, err := s.uploadRepo.ListYouTubeIDs(ctx)
	if err != nil {
		log.Printf("stats sync: failed to list uploads: %v", err)
		return
	}
	if len(ids) == 0 {
		return
	}

	stats, err := s.youtube.FetchStats(ctx, ids)
	if err != nil {
		log.Printf("stats sync: failed to fetch youtube stats: %v", err)
		return
	}

	for id, st := range stats {
		if err := s.uploadRepo.UpdateStats(ctx, id, st.Views, st.Likes, st.Comments); err != nil {
			log.Printf("stats sync: failed to update stats for %s: %v", id, err)
		}
	}

	log.Printf("stats sync: refreshed stats for %d video(s)", len(stats))
}
