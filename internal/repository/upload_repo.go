package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"shortform-backend/internal/models"
)

type UploadRepo struct {
	pool *pgxpool.Pool
}

func NewUploadRepo(pool *pgxpool.Pool) *UploadRepo {
	return &UploadRepo{pool: pool}
}

func (r *UploadRepo) Create(ctx context.Context, u *models.YouTubeUpload) error {
	if u.YouTubeID == "" {
		return fmt.Errorf("youtube_id is required")
	}
	if u.Tags == nil {
		u.Tags = []string{}
	}
	if u.PrivacyStatus == "" {
		u.PrivacyStatus = models.PrivacyPublic
	}
	if u.PublishedAt == nil {
		now := time.Now().UTC()
		u.PublishedAt = &now
	}
	u.ID = uuid.New()

	query := `INSERT INTO youtube_uploads (id, video_id, youtube_id, youtube_url, title, description, tags, privacy_status, is_short, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		u.ID, u.VideoID, u.YouTubeID, u.YouTubeURL, u.Title, u.Description,
		u.Tags, u.PrivacyStatus, u.IsShort, u.PublishedAt,
	).Scan(&u.CreatedAt, &u.UpdatedAt)
}

// ListRecent returns the most recently published uploads joined with their
// video rows. Uploads whose video has no thumbnail get YouTube's
// auto-generated one.
func (r *UploadRepo) ListRecent(ctx context.Context, limit int) ([]models.RecentVideo, error) {
	query := fmt.Sprintf(`
		SELECT u.id, u.youtube_id, u.youtube_url, u.title,
		       COALESCE(v.thumbnail_url, ''), u.views, u.likes, u.comments,
		       u.published_at, u.is_short
		FROM youtube_uploads u
		LEFT JOIN videos v ON v.id = u.video_id
		ORDER BY u.created_at DESC LIMIT %d`, limit)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var videos []models.RecentVideo
	for rows.Next() {
		var rv models.RecentVideo
		if err := rows.Scan(
			&rv.ID, &rv.YouTubeID, &rv.YouTubeURL, &rv.Title, &rv.ThumbnailURL,
			&rv.Views, &rv.Likes, &rv.Comments, &rv.PublishedAt, &rv.IsShort,
		); err != nil {
			return nil, err
		}
		if rv.ThumbnailURL == "" {
			rv.ThumbnailURL = models.DefaultThumbnailURL(rv.YouTubeID)
		}
		videos = append(videos, rv)
	}
	return videos, rows.Err()
}

// ListYouTubeIDs returns every known external video id, for the stats sweep.
func (r *UploadRepo) ListYouTubeIDs(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, "SELECT youtube_id FROM youtube_uploads")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *UploadRepo) UpdateStats(ctx context.Context, youtubeID string, views, likes, comments int) error {
	_, err := r.pool.Exec(ctx,
		"UPDATE youtube_uploads SET views = $2, likes = $3, comments = $4 WHERE youtube_id = $1",
		youtubeID, views, likes, comments)
	return err
}

// TotalViews sums view counters across every upload.
func (r *UploadRepo) TotalViews(ctx context.Context) (int, error) {
	var total int
	err := r.pool.QueryRow(ctx, "SELECT COALESCE(SUM(views), 0) FROM youtube_uploads").Scan(&total)
	return total, err
}
