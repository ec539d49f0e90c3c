package models

import (
	"math"
	"time"

	"github.com/google/uuid"
)

const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// Pipeline stages, in chain order. Each maps to one ledger counter.
const (
	StageTopics  = "topics"
	StageScripts = "scripts"
	StageVideos  = "videos"
	StageUploads = "uploads"
)

type PipelineRun struct {
	ID               uuid.UUID  `json:"id"`
	RunDate          time.Time  `json:"run_date"`
	Status           string     `json:"status"`
	TopicsGenerated  int        `json:"topics_generated"`
	ScriptsGenerated int        `json:"scripts_generated"`
	VideosCreated    int        `json:"videos_created"`
	VideosUploaded   int        `json:"videos_uploaded"`
	Errors           []string   `json:"errors"`
	StartedAt        time.Time  `json:"started_at"`
	CompletedAt      *time.Time `json:"completed_at"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// RunJob is the queue payload handed to the worker pool.
type RunJob struct {
	RunID uuid.UUID `json:"run_id"`
}

// ContentMixPercentages converts raw per-type counts into integer percentages
// of the total. A total of zero yields zero for every type.
func ContentMixPercentages(counts map[string]int) map[string]int {
	total := 0
	for _, c := range counts {
		total += c
	}

	percentages := make(map[string]int, len(counts))
	for ct, c := range counts {
		if total == 0 {
			percentages[ct] = 0
			continue
		}
		percentages[ct] = int(math.Round(float64(c) * 100 / float64(total)))
	}
	return percentages
}
