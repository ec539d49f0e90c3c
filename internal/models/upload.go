package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	PrivacyPublic   = "public"
	PrivacyUnlisted = "unlisted"
	PrivacyPrivate  = "private"
)

type YouTubeUpload struct {
	ID            uuid.UUID  `json:"id"`
	VideoID       uuid.UUID  `json:"video_id"`
	YouTubeID     string     `json:"youtube_id"`
	YouTubeURL    string     `json:"youtube_url"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Tags          []string   `json:"tags"`
	PrivacyStatus string     `json:"privacy_status"`
	IsShort       bool       `json:"is_short"`
	Views         int        `json:"views"`
	Likes         int        `json:"likes"`
	Comments      int        `json:"comments"`
	PublishedAt   *time.Time `json:"published_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// DefaultThumbnailURL returns YouTube's auto-generated thumbnail for a
// video. Used when an upload has no thumbnail of its own.
func DefaultThumbnailURL(youtubeID string) string {
	return fmt.Sprintf("https://img.youtube.com/vi/%s/maxresdefault.jpg", youtubeID)
}

// RecentVideo is the dashboard's shape for one published short.
type RecentVideo struct {
	ID           uuid.UUID  `json:"id"`
	YouTubeID    string     `json:"youtube_id"`
	YouTubeURL   string     `json:"youtube_url"`
	Title        string     `json:"title"`
	ThumbnailURL string     `json:"thumbnail_url"`
	Views        int        `json:"views"`
	Likes        int        `json:"likes"`
	Comments     int        `json:"comments"`
	PublishedAt  *time.Time `json:"published_at"`
	IsShort      bool       `json:"is_short"`
}
