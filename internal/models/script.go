package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	SegmentTypeHook    = "hook"
	SegmentTypeContent = "content"
	SegmentTypeCTA     = "cta"
)

// ScriptSegment is one timed chunk of narration with a visual direction.
type ScriptSegment struct {
	Type            string  `json:"type"`
	Text            string  `json:"text"`
	DurationSeconds float64 `json:"duration_seconds"`
	VisualCue       string  `json:"visual_cue"`
}

type Script struct {
	ID                   uuid.UUID       `json:"id"`
	TopicID              *uuid.UUID      `json:"topic_id"`
	Title                string          `json:"title"`
	Description          string          `json:"description"`
	Segments             []ScriptSegment `json:"segments"`
	FullText             string          `json:"full_text"`
	TotalDurationSeconds float64         `json:"total_duration_seconds"`
	Language             string          `json:"language"`
	Status               string          `json:"status"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// ValidateSegments rejects the malformed shapes the LLM sometimes produces:
// empty segment lists, segments without text, negative durations.
func ValidateSegments(segments []ScriptSegment) error {
	if len(segments) == 0 {
		return fmt.Errorf("script must have at least one segment")
	}
	for i, seg := range segments {
		if strings.TrimSpace(seg.Text) == "" {
			return fmt.Errorf("segment %d has empty text", i)
		}
		if seg.DurationSeconds < 0 {
			return fmt.Errorf("segment %d has negative duration", i)
		}
	}
	return nil
}

// JoinSegments builds the narration text handed to TTS.
func JoinSegments(segments []ScriptSegment) string {
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		if seg.Text != "" {
			parts = append(parts, seg.Text)
		}
	}
	return strings.Join(parts, " ")
}
