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

// ErrInvalidTransition is returned when a status update would violate an
// entity's allowed lifecycle (e.g. used → pending on a topic).
var ErrInvalidTransition = errors.New("invalid status transition")

type TopicRepo struct {
	pool *pgxpool.Pool
}

func NewTopicRepo(pool *pgxpool.Pool) *TopicRepo {
	return &TopicRepo{pool: pool}
}

func (r *TopicRepo) Create(ctx context.Context, t *models.Topic) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if t.MainPoints == nil {
		t.MainPoints = []string{}
	}
	if t.Hashtags == nil {
		t.Hashtags = []string{}
	}
	if t.Status == "" {
		t.Status = models.TopicStatusPending
	}
	t.ID = uuid.New()

	query := `INSERT INTO topics (id, content_type, title, hook, main_points, cta, hashtags, estimated_duration_seconds, language, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		t.ID, t.ContentType, t.Title, t.Hook, t.MainPoints, t.CTA, t.Hashtags,
		t.EstimatedDurationSeconds, t.Language, t.Status,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
}

func (r *TopicRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Topic, error) {
	t := &models.Topic{}
	query := `SELECT id, content_type, title, hook, main_points, cta, hashtags, estimated_duration_seconds, language, status, created_at, updated_at
		FROM topics WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.ContentType, &t.Title, &t.Hook, &t.MainPoints, &t.CTA,
		&t.Hashtags, &t.EstimatedDurationSeconds, &t.Language, &t.Status,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *TopicRepo) List(ctx context.Context, limit int, status string) ([]models.Topic, error) {
	query := `SELECT id, content_type, title, hook, main_points, cta, hashtags, estimated_duration_seconds, language, status, created_at, updated_at
		FROM topics`
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

	var topics []models.Topic
	for rows.Next() {
		var t models.Topic
		if err := rows.Scan(
			&t.ID, &t.ContentType, &t.Title, &t.Hook, &t.MainPoints, &t.CTA,
			&t.Hashtags, &t.EstimatedDurationSeconds, &t.Language, &t.Status,
			&t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, err
		}
		topics = append(topics, t)
	}
	return topics, rows.Err()
}

// UpdateStatus applies a lifecycle transition. The allowed source statuses
// are baked into the UPDATE so a concurrent writer cannot slip an illegal
// transition through.
func (r *TopicRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	var allowedFrom []string
	switch status {
	case models.TopicStatusUsed:
		allowedFrom = []string{models.TopicStatusPending}
	case models.TopicStatusArchived:
		allowedFrom = []string{models.TopicStatusPending, models.TopicStatusUsed}
	default:
		return fmt.Errorf("%w: cannot move topic to %q", ErrInvalidTransition, status)
	}

	tag, err := r.pool.Exec(ctx,
		"UPDATE topics SET status = $2 WHERE id = $1 AND status = ANY($3)",
		id, status, allowedFrom)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		var current string
		err := r.pool.QueryRow(ctx, "SELECT status FROM topics WHERE id = $1", id).Scan(&current)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return pgx.ErrNoRows
			}
			return err
		}
		return fmt.Errorf("%w: topic is %q, cannot move to %q", ErrInvalidTransition, current, status)
	}
	return nil
}

// CountByContentType feeds the content-mix widget.
func (r *TopicRepo) CountByContentType(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int, len(models.ContentTypes))
	for _, ct := range models.ContentTypes {
		counts[ct] = 0
	}

	rows, err := r.pool.Query(ctx, "SELECT content_type, COUNT(*) FROM topics GROUP BY content_type")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var ct string
		var count int
		if err := rows.Scan(&ct, &count); err != nil {
			return nil, err
		}
		if _, known := counts[ct]; known {
			counts[ct] = count
		}
	}
	return counts, rows.Err()
}
