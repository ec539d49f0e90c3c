package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	VideoStatusPending    = "pending"
	VideoStatusProcessing = "processing"
	VideoStatusReady      = "ready"
	VideoStatusFailed     = "failed"
)

type Video struct {
	ID              uuid.UUID  `json:"id"`
	ScriptID        *uuid.UUID `json:"script_id"`
	Title           string     `json:"title"`
	VideoURL        *string    `json:"video_url"`
	AudioURL        *string    `json:"audio_url"`
	ThumbnailURL    *string    `json:"thumbnail_url"`
	DurationSeconds *float64   `json:"duration_seconds"`
	Style           string     `json:"style"`
	Status          string     `json:"status"`
	GenerationID    *string    `json:"generation_id"`
	ErrorMessage    *string    `json:"error_message"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// CanTransitionVideoStatus encodes pending → processing → {ready | failed}.
// ready and failed are terminal; a failed video is replaced, not retried.
func CanTransitionVideoStatus(from, to string) bool {
	switch from {
	case VideoStatusPending:
		return to == VideoStatusProcessing || to == VideoStatusFailed
	case VideoStatusProcessing:
		return to == VideoStatusReady || to == VideoStatusFailed
	default:
		return false
	}
}
