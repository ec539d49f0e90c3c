package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"shortform-backend/internal/models"
)

// ReportingRepo reads the derived views. Both are computed on query;
// nothing here is cached.
type ReportingRepo struct {
	pool *pgxpool.Pool
}

func NewReportingRepo(pool *pgxpool.Pool) *ReportingRepo {
	return &ReportingRepo{pool: pool}
}

func (r *ReportingRepo) ContentPipeline(ctx context.Context, limit int) ([]models.ContentPipelineRow, error) {
	query := fmt.Sprintf(`
		SELECT topic_id, topic_title, content_type, topic_status,
		       script_id, script_status,
		       video_id, video_status, video_url, thumbnail_url,
		       upload_id, youtube_id, youtube_url, views, published_at,
		       created_at
		FROM content_pipeline LIMIT %d`, limit)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ContentPipelineRow
	for rows.Next() {
		var row models.ContentPipelineRow
		if err := rows.Scan(
			&row.TopicID, &row.TopicTitle, &row.ContentType, &row.TopicStatus,
			&row.ScriptID, &row.ScriptStatus,
			&row.VideoID, &row.VideoStatus, &row.VideoURL, &row.ThumbnailURL,
			&row.UploadID, &row.YouTubeID, &row.YouTubeURL, &row.Views, &row.PublishedAt,
			&row.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *ReportingRepo) DailyStats(ctx context.Context, limit int) ([]models.DailyStat, error) {
	query := fmt.Sprintf(`
		SELECT day, sales_tips, ai_news, hot_takes, product_showcases, total
		FROM daily_stats LIMIT %d`, limit)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.DailyStat
	for rows.Next() {
		var d models.DailyStat
		if err := rows.Scan(&d.Day, &d.SalesTips, &d.AINews, &d.HotTakes, &d.ProductShowcases, &d.Total); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
