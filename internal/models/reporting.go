package models

import (
	"time"

	"github.com/google/uuid"
)

// ContentPipelineRow is one row of the content_pipeline view: a topic with
// whatever downstream artifacts exist. Downstream fields are NULL for topics
// that have not progressed past generation.
type ContentPipelineRow struct {
	TopicID      uuid.UUID  `json:"topic_id"`
	TopicTitle   string     `json:"topic_title"`
	ContentType  string     `json:"content_type"`
	TopicStatus  string     `json:"topic_status"`
	ScriptID     *uuid.UUID `json:"script_id"`
	ScriptStatus *string    `json:"script_status"`
	VideoID      *uuid.UUID `json:"video_id"`
	VideoStatus  *string    `json:"video_status"`
	VideoURL     *string    `json:"video_url"`
	ThumbnailURL *string    `json:"thumbnail_url"`
	UploadID     *uuid.UUID `json:"upload_id"`
	YouTubeID    *string    `json:"youtube_id"`
	YouTubeURL   *string    `json:"youtube_url"`
	Views        *int       `json:"views"`
	PublishedAt  *time.Time `json:"published_at"`
	CreatedAt    time.Time  `json:"created_at"`
}

// DailyStat is one row of the daily_stats view.
type DailyStat struct {
	Day              time.Time `json:"day"`
	SalesTips        int       `json:"sales_tips"`
	AINews           int       `json:"ai_news"`
	HotTakes         int       `json:"hot_takes"`
	ProductShowcases int       `json:"product_showcases"`
	Total            int       `json:"total"`
}

// DashboardStats is the aggregate widget payload.
type DashboardStats struct {
	TotalVideos    int            `json:"total_videos"`
	TotalViews     int            `json:"total_views"`
	VideosThisWeek int            `json:"videos_this_week"`
	ContentMix     map[string]int `json:"content_mix"`
}
