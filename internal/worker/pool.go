package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"shortform-backend/internal/models"
	"shortform-backend/internal/repository"
	"shortform-backend/internal/services"
)

const (
	pipelineQueue  = "queue:pipeline-run"
	updatesChannel = "pipeline_updates"
	runLockTTL     = 30 * time.Minute
	videoStyle     = "abstract thought leadership"
)

// Pool consumes pipeline run jobs from Redis and drives each run through
// the full chain: topic, script, voice-over, background clip, final
// render and YouTube upload. Progress lands in the pipeline_runs ledger
// and on the pipeline_updates pubsub channel.
type Pool struct {
	redis        *redis.Client
	gemini       *services.GeminiService
	tts          *services.TTSService
	videoGen     *services.VideoGenService
	render       *services.RenderService
	storage      *services.MediaStorage
	youtube      *services.YouTubeService
	topicRepo    *repository.TopicRepo
	scriptRepo   *repository.ScriptRepo
	videoRepo    *repository.VideoRepo
	uploadRepo   *repository.UploadRepo
	runRepo      *repository.PipelineRunRepo
	settingsRepo *repository.SettingsRepo
	workerCount  int
	stopChan     chan struct{}
}

func NewPool(
	redisClient *redis.Client,
	gemini *services.GeminiService,
	tts *services.TTSService,
	videoGen *services.VideoGenService,
	render *services.RenderService,
	storage *services.MediaStorage,
	youtube *services.YouTubeService,
	topicRepo *repository.TopicRepo,
	scriptRepo *repository.ScriptRepo,
	videoRepo *repository.VideoRepo,
	uploadRepo *repository.UploadRepo,
	runRepo *repository.PipelineRunRepo,
	settingsRepo *repository.SettingsRepo,
	workerCount int,
) *Pool {
	return &Pool{
		redis:        redisClient,
		gemini:       gemini,
		tts:          tts,
		videoGen:     videoGen,
		render:       render,
		storage:      storage,
		youtube:      youtube,
		topicRepo:    topicRepo,
		scriptRepo:   scriptRepo,
		videoRepo:    videoRepo,
		uploadRepo:   uploadRepo,
		runRepo:      runRepo,
		settingsRepo: settingsRepo,
		workerCount:  workerCount,
		stopChan:     make(chan struct{}),
	}
}

func (p *Pool) Start() {
	for i := 0; i < p.workerCount; i++ {
		go p.worker(i)
	}
	log.Printf("Started %d pipeline worker goroutines", p.workerCount)
}

func (p *Pool) Stop() {
	close(p.stopChan)
}

func (p *Pool) worker(id int) {
	for {
		select {
		case <-p.stopChan:
			log.Printf("Worker %d shutting down", id)
			return
		default:
		}

		ctx := context.Background()

		result, err := p.redis.BLPop(ctx, 30*time.Second, pipelineQueue).Result()
		if err != nil {
			continue // Timeout or error, retry
		}
		if len(result) < 2 {
			continue
		}

		var job models.RunJob
		if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
			log.Printf("Worker %d: failed to parse job: %v", id, err)
			continue
		}

		lockKey := fmt.Sprintf("lock:pipeline-run:%s", job.RunID.String())
		locked, err := p.redis.SetNX(ctx, lockKey, "1", runLockTTL).Result()
		if err != nil || !locked {
			continue // Another worker has this run
		}

		log.Printf("Worker %d: processing pipeline run %s", id, job.RunID)
		p.processRun(ctx, job)
		p.redis.Del(ctx, lockKey)
	}
}

func (p *Pool) processRun(ctx context.Context, job models.RunJob) {
	run, err := p.runRepo.GetByID(ctx, job.RunID)
	if err != nil {
		log.Printf("run %s: failed to load: %v", job.RunID, err)
		return
	}
	if run.Status != models.RunStatusRunning {
		log.Printf("run %s: already %s, skipping", run.ID, run.Status)
		return
	}

	settings, err := p.settingsRepo.LoadContentSettings(ctx)
	if err != nil {
		p.failRun(ctx, job, fmt.Sprintf("failed to load settings: %v", err))
		return
	}

	produced := 0
	for i := 0; i < settings.ShortsPerDay; i++ {
		if err := p.produceShort(ctx, job, settings); err != nil {
			log.Printf("run %s: short %d/%d failed: %v", run.ID, i+1, settings.ShortsPerDay, err)
			if appendErr := p.runRepo.AppendError(ctx, run.ID, err.Error()); appendErr != nil {
				log.Printf("run %s: failed to record error: %v", run.ID, appendErr)
			}
			continue
		}
		produced++
	}

	status := models.RunStatusCompleted
	if produced == 0 {
		status = models.RunStatusFailed
	}
	if err := p.runRepo.Finish(ctx, run.ID, status); err != nil {
		log.Printf("run %s: failed to finish: %v", run.ID, err)
		return
	}

	p.publish(ctx, models.WSMessage{
		Type:    "run_finished",
		Payload: models.RunFinished{RunID: run.ID, Status: status},
	})
	log.Printf("run %s: finished with status %s (%d/%d shorts)", run.ID, status, produced, settings.ShortsPerDay)
}

// produceShort walks one item through the whole chain. Ledger counters
// advance after each stage succeeds, so a run that dies mid-chain shows
// exactly how far it got.
func (p *Pool) produceShort(ctx context.Context, job models.RunJob, settings models.ContentSettings) error {
	// Stage 1: topic
	counts, err := p.topicRepo.CountByContentType(ctx)
	if err != nil {
		return fmt.Errorf("topic stage: failed to load counts: %w", err)
	}
	contentType := PickContentType(counts, settings.ContentMix)

	topics, err := p.gemini.GenerateTopics(ctx, 1, contentType, settings.DefaultLanguage)
	if err != nil {
		return fmt.Errorf("topic stage: %w", err)
	}
	if len(topics) == 0 {
		return fmt.Errorf("topic stage: model returned no topics")
	}
	topic := &topics[0]
	if err := p.topicRepo.Create(ctx, topic); err != nil {
		return fmt.Errorf("topic stage: failed to save: %w", err)
	}
	if err := p.runRepo.IncrementStage(ctx, job.RunID, models.StageTopics, 1); err != nil {
		return fmt.Errorf("topic stage: %w", err)
	}
	p.publishStage(ctx, job, models.StageTopics, fmt.Sprintf("Generated topic: %s", topic.Title))

	// Stage 2: script
	script, err := p.gemini.GenerateScript(ctx, topic, topic.EstimatedDurationSeconds)
	if err != nil {
		return fmt.Errorf("script stage: %w", err)
	}
	script.TopicID = &topic.ID
	if err := p.scriptRepo.Create(ctx, script); err != nil {
		return fmt.Errorf("script stage: failed to save: %w", err)
	}
	if err := p.topicRepo.UpdateStatus(ctx, topic.ID, models.TopicStatusUsed); err != nil {
		return fmt.Errorf("script stage: failed to mark topic used: %w", err)
	}
	if err := p.runRepo.IncrementStage(ctx, job.RunID, models.StageScripts, 1); err != nil {
		return fmt.Errorf("script stage: %w", err)
	}
	p.publishStage(ctx, job, models.StageScripts, fmt.Sprintf("Generated script: %s", script.Title))

	// Stage 3: video (voice-over, background clip, final render)
	video := &models.Video{
		ScriptID: &script.ID,
		Title:    script.Title,
		Style:    videoStyle,
	}
	if err := p.videoRepo.Create(ctx, video); err != nil {
		return fmt.Errorf("video stage: failed to create: %w", err)
	}

	videoURL, err := p.renderVideo(ctx, video, script)
	if err != nil {
		if failErr := p.videoRepo.MarkFailed(ctx, video.ID, err.Error()); failErr != nil {
			log.Printf("video %s: failed to mark failed: %v", video.ID, failErr)
		}
		return fmt.Errorf("video stage: %w", err)
	}
	if err := p.runRepo.IncrementStage(ctx, job.RunID, models.StageVideos, 1); err != nil {
		return fmt.Errorf("video stage: %w", err)
	}
	p.publishStage(ctx, job, models.StageVideos, fmt.Sprintf("Rendered video: %s", script.Title))

	// Stage 4: upload. With auto-publish off the video still goes up,
	// just unlisted so it can be reviewed before flipping it public.
	privacy := uploadPrivacy(settings.AutoPublish)
	youtubeID, err := p.youtube.Upload(ctx, videoURL, script.Title, script.Description, topic.Hashtags, privacy)
	if err != nil {
		return fmt.Errorf("upload stage: %w", err)
	}

	upload := &models.YouTubeUpload{
		VideoID:       video.ID,
		YouTubeID:     youtubeID,
		YouTubeURL:    fmt.Sprintf("https://youtube.com/shorts/%s", youtubeID),
		Title:         services.ShortsTitle(script.Title),
		Description:   script.Description,
		Tags:          topic.Hashtags,
		PrivacyStatus: privacy,
		IsShort:       true,
	}
	if err := p.uploadRepo.Create(ctx, upload); err != nil {
		return fmt.Errorf("upload stage: failed to save: %w", err)
	}
	if err := p.runRepo.IncrementStage(ctx, job.RunID, models.StageUploads, 1); err != nil {
		return fmt.Errorf("upload stage: %w", err)
	}
	p.publishStage(ctx, job, models.StageUploads, fmt.Sprintf("Uploaded to YouTube: %s", youtubeID))

	return nil
}

func (p *Pool) renderVideo(ctx context.Context, video *models.Video, script *models.Script) (string, error) {
	audio, err := p.tts.Synthesize(ctx, script.FullText)
	if err != nil {
		return "", fmt.Errorf("voice-over failed: %w", err)
	}
	audioURL, err := p.storage.UploadAudio(ctx, audio)
	if err != nil {
		return "", fmt.Errorf("audio upload failed: %w", err)
	}
	if err := p.videoRepo.SetAudioURL(ctx, video.ID, audioURL); err != nil {
		return "", fmt.Errorf("failed to save audio url: %w", err)
	}

	generationID, clip, err := p.videoGen.Generate(ctx, services.BuildVideoPrompt())
	if err != nil {
		return "", fmt.Errorf("background clip failed: %w", err)
	}
	if err := p.videoRepo.MarkProcessing(ctx, video.ID, generationID); err != nil {
		return "", err
	}

	clipURL, err := p.storage.UploadVideo(ctx, clip)
	if err != nil {
		return "", fmt.Errorf("clip upload failed: %w", err)
	}

	finalURL, err := p.render.Render(ctx, script.Segments, audioURL, clipURL)
	if err != nil {
		return "", fmt.Errorf("render failed: %w", err)
	}

	if err := p.videoRepo.MarkReady(ctx, video.ID, finalURL, "", script.TotalDurationSeconds); err != nil {
		return "", err
	}
	return finalURL, nil
}

func (p *Pool) publishStage(ctx context.Context, job models.RunJob, stage, message string) {
	p.publish(ctx, models.WSMessage{
		Type:    "stage_update",
		Payload: models.StageUpdate{RunID: job.RunID, Stage: stage, Message: message},
	})
}

func (p *Pool) publish(ctx context.Context, msg models.WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("failed to marshal ws message: %v", err)
		return
	}
	if err := p.redis.Publish(ctx, updatesChannel, data).Err(); err != nil {
		log.Printf("failed to publish ws message: %v", err)
	}
}

func (p *Pool) failRun(ctx context.Context, job models.RunJob, message string) {
	if err := p.runRepo.AppendError(ctx, job.RunID, message); err != nil {
		log.Printf("run %s: failed to record error: %v", job.RunID, err)
	}
	if err := p.runRepo.Finish(ctx, job.RunID, models.RunStatusFailed); err != nil {
		log.Printf("run %s: failed to finish: %v", job.RunID, err)
	}
	p.publish(ctx, models.WSMessage{
		Type:    "run_finished",
		Payload: models.RunFinished{RunID: job.RunID, Status: models.RunStatusFailed},
	})
}

// uploadPrivacy maps the auto-publish setting to a YouTube privacy status.
func uploadPrivacy(autoPublish bool) string {
	if autoPublish {
		return models.PrivacyPublic
	}
	return models.PrivacyUnlisted
}

// PickContentType chooses the type furthest below its target share of
// the mix. Produced counts drift toward the configured percentages over
// time without any randomness.
func PickContentType(counts map[string]int, mix map[string]int) string {
	total := 0
	for _, c := range counts {
		total += c
	}

	best := ""
	bestDeficit := 0.0
	for _, ct := range models.ContentTypes {
		target, ok := mix[ct]
		if !ok || target <= 0 {
			continue
		}

		actual := 0.0
		if total > 0 {
			actual = float64(counts[ct]) * 100 / float64(total)
		}
		deficit := float64(target) - actual
		if best == "" || deficit > bestDeficit {
			best = ct
			bestDeficit = deficit
		}
	}

	if best == "" {
		return models.ContentTypeSalesTip
	}
	return best
}
