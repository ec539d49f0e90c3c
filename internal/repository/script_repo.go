package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"shortform-backend/internal/models"
)

type ScriptRepo struct {
	pool *pgxpool.Pool
}

func NewScriptRepo(pool *pgxpool.Pool) *ScriptRepo {
	return &ScriptRepo{pool: pool}
}

func (r *ScriptRepo) Create(ctx context.Context, s *models.Script) error {
	if err := models.ValidateSegments(s.Segments); err != nil {
		return fmt.Errorf("invalid script: %w", err)
	}
	if s.FullText == "" {
		s.FullText = models.JoinSegments(s.Segments)
	}
	if s.TotalDurationSeconds == 0 {
		for _, seg := range s.Segments {
			s.TotalDurationSeconds += seg.DurationSeconds
		}
	}
	if s.Status == "" {
		s.Status = "pending"
	}
	s.ID = uuid.New()

	query := `INSERT INTO scripts (id, topic_id, title, description, segments, full_text, total_duration_seconds, language, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		s.ID, s.TopicID, s.Title, s.Description, s.Segments, s.FullText,
		s.TotalDurationSeconds, s.Language, s.Status,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
}

func (r *ScriptRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Script, error) {
	s := &models.Script{}
	query := `SELECT id, topic_id, title, description, segments, full_text, total_duration_seconds, language, status, created_at, updated_at
		FROM scripts WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.TopicID, &s.Title, &s.Description, &s.Segments, &s.FullText,
		&s.TotalDurationSeconds, &s.Language, &s.Status, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *ScriptRepo) List(ctx context.Context, limit int) ([]models.Script, error) {
	query := fmt.Sprintf(`SELECT id, topic_id, title, description, segments, full_text, total_duration_seconds, language, status, created_at, updated_at
		FROM scripts ORDER BY created_at DESC LIMIT %d`, limit)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scripts []models.Script
	for rows.Next() {
		var s models.Script
		if err := rows.Scan(
			&s.ID, &s.TopicID, &s.Title, &s.Description, &s.Segments, &s.FullText,
			&s.TotalDurationSeconds, &s.Language, &s.Status, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		scripts = append(scripts, s)
	}
	return scripts, rows.Err()
}

func (r *ScriptRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	_, err := r.pool.Exec(ctx, "UPDATE scripts SET status = $2 WHERE id = $1", id, status)
	return err
}
