package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"shortform-backend/internal/models"
)

type SettingsRepo struct {
	pool *pgxpool.Pool
}

func NewSettingsRepo(pool *pgxpool.Pool) *SettingsRepo {
	return &SettingsRepo{pool: pool}
}

func (r *SettingsRepo) Get(ctx context.Context, key string) (*models.Setting, error) {
	s := &models.Setting{}
	err := r.pool.QueryRow(ctx,
		"SELECT id, key, value, description, created_at, updated_at FROM settings WHERE key = $1", key).
		Scan(&s.ID, &s.Key, &s.Value, &s.Description, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SettingsRepo) All(ctx context.Context) ([]models.Setting, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT id, key, value, description, created_at, updated_at FROM settings ORDER BY key")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var settings []models.Setting
	for rows.Next() {
		var s models.Setting
		if err := rows.Scan(&s.ID, &s.Key, &s.Value, &s.Description, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

func (r *SettingsRepo) Upsert(ctx context.Context, key string, value json.RawMessage, description string) (*models.Setting, error) {
	if !json.Valid(value) {
		return nil, fmt.Errorf("setting %q: value is not valid JSON", key)
	}

	s := &models.Setting{Key: key, Value: value, Description: description}
	query := `INSERT INTO settings (id, key, value, description) VALUES ($1, $2, $3, $4)
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			description = CASE WHEN EXCLUDED.description = '' THEN settings.description ELSE EXCLUDED.description END
		RETURNING id, description, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query, uuid.New(), key, value, description).
		Scan(&s.ID, &s.Description, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// LoadContentSettings decodes the settings rows into a typed struct.
// Missing keys keep their defaults; a row that decodes into an invalid
// shape fails the whole load rather than leaking garbage downstream.
func (r *SettingsRepo) LoadContentSettings(ctx context.Context) (models.ContentSettings, error) {
	rows, err := r.All(ctx)
	if err != nil {
		return models.DefaultContentSettings(), err
	}

	values := make(map[string]json.RawMessage, len(rows))
	for _, s := range rows {
		values[s.Key] = s.Value
	}
	return decodeContentSettings(values)
}

func decodeContentSettings(values map[string]json.RawMessage) (models.ContentSettings, error) {
	cs := models.DefaultContentSettings()

	if raw, ok := values["content_mix"]; ok {
		var mix map[string]int
		if err := json.Unmarshal(raw, &mix); err != nil {
			return models.DefaultContentSettings(), fmt.Errorf("content_mix: %w", err)
		}
		cs.ContentMix = mix
	}
	if raw, ok := values["publish_hour"]; ok {
		if err := json.Unmarshal(raw, &cs.PublishHour); err != nil {
			return models.DefaultContentSettings(), fmt.Errorf("publish_hour: %w", err)
		}
	}
	if raw, ok := values["default_language"]; ok {
		if err := json.Unmarshal(raw, &cs.DefaultLanguage); err != nil {
			return models.DefaultContentSettings(), fmt.Errorf("default_language: %w", err)
		}
	}
	if raw, ok := values["auto_publish"]; ok {
		if err := json.Unmarshal(raw, &cs.AutoPublish); err != nil {
			return models.DefaultContentSettings(), fmt.Errorf("auto_publish: %w", err)
		}
	}
	if raw, ok := values["shorts_per_day"]; ok {
		if err := json.Unmarshal(raw, &cs.ShortsPerDay); err != nil {
			return models.DefaultContentSettings(), fmt.Errorf("shorts_per_day: %w", err)
		}
	}

	if err := cs.Validate(); err != nil {
		return models.DefaultContentSettings(), err
	}
	return cs, nil
}
