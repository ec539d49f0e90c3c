package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"shortform-backend/internal/models"
)

// ErrMissingErrorMessage guards the contract that a failed video always
// carries a reason.
var ErrMissingErrorMessage = errors.New("failed video requires a non-empty error message")

type VideoRepo struct {
	pool *pgxpool.Pool
}

func NewVideoRepo(pool *pgxpool.Pool) *VideoRepo {
	return &VideoRepo{pool: pool}
}

const videoColumns = `id, script_id, title, video_url, audio_url, thumbnail_url, duration_seconds, style, status, generation_id, error_message, created_at, updated_at`

func (r *VideoRepo) Create(ctx context.Context, v *models.Video) error {
	if v.Title == "" {
		return fmt.Errorf("video title is required")
	}
	if v.Status == "" {
		v.Status = models.VideoStatusPending
	}
	if v.Style == "" {
		v.Style = "abstract"
	}
	v.ID = uuid.New()

	query := `INSERT INTO videos (id, script_id, title, video_url, audio_url, thumbnail_url, duration_seconds, style, status, generation_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		v.ID, v.ScriptID, v.Title, v.VideoURL, v.AudioURL, v.ThumbnailURL,
		v.DurationSeconds, v.Style, v.Status, v.GenerationID,
	).Scan(&v.CreatedAt, &v.UpdatedAt)
}

func (r *VideoRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Video, error) {
	v := &models.Video{}
	err := r.pool.QueryRow(ctx, "SELECT "+videoColumns+" FROM videos WHERE id = $1", id).Scan(
		&v.ID, &v.ScriptID, &v.Title, &v.VideoURL, &v.AudioURL, &v.ThumbnailURL,
		&v.DurationSeconds, &v.Style, &v.Status, &v.GenerationID, &v.ErrorMessage,
		&v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (r *VideoRepo) List(ctx context.Context, limit int, status string) ([]models.Video, error) {
	query := "SELECT " + videoColumns + " FROM videos"
	args := []interface{}{}
	if status != "" {
		query += " WHERE status = $1"
		args = append(args, status)
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT %d", limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var videos []models.Video
	for rows.Next() {
		var v models.Video
		if err := rows.Scan(
			&v.ID, &v.ScriptID, &v.Title, &v.VideoURL, &v.AudioURL, &v.ThumbnailURL,
			&v.DurationSeconds, &v.Style, &v.Status, &v.GenerationID, &v.ErrorMessage,
			&v.CreatedAt, &v.UpdatedAt,
		); err != nil {
			return nil, err
		}
		videos = append(videos, v)
	}
	return videos, rows.Err()
}

func (r *VideoRepo) SetAudioURL(ctx context.Context, id uuid.UUID, audioURL string) error {
	_, err := r.pool.Exec(ctx, "UPDATE videos SET audio_url = $2 WHERE id = $1", id, audioURL)
	return err
}

// MarkProcessing moves pending → processing and records the external
// generation id.
func (r *VideoRepo) MarkProcessing(ctx context.Context, id uuid.UUID, generationID string) error {
	tag, err := r.pool.Exec(ctx,
		"UPDATE videos SET status = $2, generation_id = $3 WHERE id = $1 AND status = $4",
		id, models.VideoStatusProcessing, generationID, models.VideoStatusPending)
	if err != nil {
		return err
	}
	return r.checkTransition(ctx, tag.RowsAffected(), id, models.VideoStatusProcessing)
}

// MarkReady moves processing → ready with the final artifact URLs.
func (r *VideoRepo) MarkReady(ctx context.Context, id uuid.UUID, videoURL, thumbnailURL string, durationSeconds float64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE videos SET status = $2, video_url = $3, thumbnail_url = $4, duration_seconds = $5, error_message = NULL
		 WHERE id = $1 AND status = $6`,
		id, models.VideoStatusReady, videoURL, thumbnailURL, durationSeconds, models.VideoStatusProcessing)
	if err != nil {
		return err
	}
	return r.checkTransition(ctx, tag.RowsAffected(), id, models.VideoStatusReady)
}

// MarkFailed terminates a pending or processing video. The message is
// mandatory: status "failed" implies error_message is set.
func (r *VideoRepo) MarkFailed(ctx context.Context, id uuid.UUID, errorMessage string) error {
	if errorMessage == "" {
		return ErrMissingErrorMessage
	}
	tag, err := r.pool.Exec(ctx,
		"UPDATE videos SET status = $2, error_message = $3 WHERE id = $1 AND status = ANY($4)",
		id, models.VideoStatusFailed, errorMessage,
		[]string{models.VideoStatusPending, models.VideoStatusProcessing})
	if err != nil {
		return err
	}
	return r.checkTransition(ctx, tag.RowsAffected(), id, models.VideoStatusFailed)
}

// Delete removes a video row; the youtube_uploads cascade fires in the
// database. Not exposed through the dashboard API.
func (r *VideoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM videos WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Counts feeds the dashboard aggregate widget.
func (r *VideoRepo) Counts(ctx context.Context) (total, thisWeek int, err error) {
	if err = r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM videos").Scan(&total); err != nil {
		return 0, 0, err
	}
	err = r.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM videos WHERE created_at >= NOW() - INTERVAL '7 days'").Scan(&thisWeek)
	return total, thisWeek, err
}

func (r *VideoRepo) checkTransition(ctx context.Context, rowsAffected int64, id uuid.UUID, target string) error {
	if rowsAffected > 0 {
		return nil
	}
	var current string
	if err := r.pool.QueryRow(ctx, "SELECT status FROM videos WHERE id = $1", id).Scan(&current); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return pgx.ErrNoRows
		}
		return err
	}
	return fmt.Errorf("%w: video is %q, cannot move to %q", ErrInvalidTransition, current, target)
}
