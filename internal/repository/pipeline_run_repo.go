package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"shortform-backend/internal/models"
)

var (
	// ErrRunInProgress means a run for the same date is still running.
	ErrRunInProgress = errors.New("a pipeline run for this date is already running")
	// ErrRunNotRunning means the run already reached a terminal status.
	ErrRunNotRunning = errors.New("pipeline run is not running")
	// ErrStageOutOfOrder means an increment would push a counter past its
	// predecessor in the topic → script → video → upload chain.
	ErrStageOutOfOrder = errors.New("stage counter would exceed its predecessor")
)

// PipelineRunRepo is the run ledger: a passive record the pipeline worker
// updates as each stage completes. It never invokes stages itself.
type PipelineRunRepo struct {
	pool *pgxpool.Pool
}

func NewPipelineRunRepo(pool *pgxpool.Pool) *PipelineRunRepo {
	return &PipelineRunRepo{pool: pool}
}

const runColumns = `id, run_date, status, topics_generated, scripts_generated, videos_created, videos_uploaded, errors, started_at, completed_at, created_at, updated_at`

// stageColumn maps a stage name to its counter column and the predecessor
// column that bounds it. The topics stage is unbounded.
func stageColumn(stage string) (col, predecessor string, err error) {
	switch stage {
	case models.StageTopics:
		return "topics_generated", "", nil
	case models.StageScripts:
		return "scripts_generated", "topics_generated", nil
	case models.StageVideos:
		return "videos_created", "scripts_generated", nil
	case models.StageUploads:
		return "videos_uploaded", "videos_created", nil
	default:
		return "", "", fmt.Errorf("unknown pipeline stage %q", stage)
	}
}

// Start opens the ledger row for a date. The partial unique index on
// (run_date) WHERE status='running' rejects a second concurrent run.
func (r *PipelineRunRepo) Start(ctx context.Context, runDate time.Time) (*models.PipelineRun, error) {
	run := &models.PipelineRun{
		ID:      uuid.New(),
		RunDate: runDate,
		Status:  models.RunStatusRunning,
		Errors:  []string{},
	}

	query := `INSERT INTO pipeline_runs (id, run_date, status) VALUES ($1, $2, $3)
		RETURNING started_at, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query, run.ID, run.RunDate, run.Status).
		Scan(&run.StartedAt, &run.CreatedAt, &run.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrRunInProgress
		}
		return nil, err
	}
	return run, nil
}

// IncrementStage adds delta to one stage counter. Counters only grow, and a
// downstream counter may never pass its predecessor; both preconditions are
// evaluated inside the UPDATE so concurrent stage reports stay consistent.
func (r *PipelineRunRepo) IncrementStage(ctx context.Context, runID uuid.UUID, stage string, delta int) error {
	if delta < 1 {
		return fmt.Errorf("stage delta must be positive, got %d", delta)
	}
	col, predecessor, err := stageColumn(stage)
	if err != nil {
		return err
	}

	var query string
	if predecessor == "" {
		query = fmt.Sprintf(
			"UPDATE pipeline_runs SET %s = %s + $2 WHERE id = $1 AND status = 'running'",
			col, col)
	} else {
		query = fmt.Sprintf(
			"UPDATE pipeline_runs SET %s = %s + $2 WHERE id = $1 AND status = 'running' AND %s + $2 <= %s",
			col, col, col, predecessor)
	}

	tag, err := r.pool.Exec(ctx, query, runID, delta)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var status string
	if err := r.pool.QueryRow(ctx, "SELECT status FROM pipeline_runs WHERE id = $1", runID).Scan(&status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return pgx.ErrNoRows
		}
		return err
	}
	if status != models.RunStatusRunning {
		return ErrRunNotRunning
	}
	return fmt.Errorf("%w: stage %q", ErrStageOutOfOrder, stage)
}

// AppendError records a free-text failure message on the run.
func (r *PipelineRunRepo) AppendError(ctx context.Context, runID uuid.UUID, message string) error {
	_, err := r.pool.Exec(ctx,
		"UPDATE pipeline_runs SET errors = errors || to_jsonb($2::text) WHERE id = $1",
		runID, message)
	return err
}

// Finish moves a running run to completed or failed and stamps completed_at.
func (r *PipelineRunRepo) Finish(ctx context.Context, runID uuid.UUID, status string) error {
	if status != models.RunStatusCompleted && status != models.RunStatusFailed {
		return fmt.Errorf("invalid terminal status %q", status)
	}

	tag, err := r.pool.Exec(ctx,
		"UPDATE pipeline_runs SET status = $2, completed_at = NOW() WHERE id = $1 AND status = 'running'",
		runID, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		var current string
		if err := r.pool.QueryRow(ctx, "SELECT status FROM pipeline_runs WHERE id = $1", runID).Scan(&current); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return pgx.ErrNoRows
			}
			return err
		}
		return ErrRunNotRunning
	}
	return nil
}

func (r *PipelineRunRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.PipelineRun, error) {
	run := &models.PipelineRun{}
	err := r.pool.QueryRow(ctx, "SELECT "+runColumns+" FROM pipeline_runs WHERE id = $1", id).Scan(
		&run.ID, &run.RunDate, &run.Status, &run.TopicsGenerated, &run.ScriptsGenerated,
		&run.VideosCreated, &run.VideosUploaded, &run.Errors, &run.StartedAt,
		&run.CompletedAt, &run.CreatedAt, &run.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return run, nil
}

func (r *PipelineRunRepo) List(ctx context.Context, limit int) ([]models.PipelineRun, error) {
	query := fmt.Sprintf("SELECT "+runColumns+" FROM pipeline_runs ORDER BY started_at DESC LIMIT %d", limit)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []models.PipelineRun
	for rows.Next() {
		var run models.PipelineRun
		if err := rows.Scan(
			&run.ID, &run.RunDate, &run.Status, &run.TopicsGenerated, &run.ScriptsGenerated,
			&run.VideosCreated, &run.VideosUploaded, &run.Errors, &run.StartedAt,
			&run.CompletedAt, &run.CreatedAt, &run.UpdatedAt,
		); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Latest returns the most recent run, or nil if none exist yet.
func (r *PipelineRunRepo) Latest(ctx context.Context) (*models.PipelineRun, error) {
	runs, err := r.List(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[0], nil
}

// FailStuck marks runs that have been running longer than maxAge as failed.
// Returns the number of runs swept.
func (r *PipelineRunRepo) FailStuck(ctx context.Context, maxAge time.Duration) (int, error) {
	cutoff := time.Now().UTC().Add(-maxAge)
	tag, err := r.pool.Exec(ctx,
		`UPDATE pipeline_runs
		 SET status = 'failed', completed_at = NOW(),
		     errors = errors || to_jsonb('Run timed out or was interrupted'::text)
		 WHERE status = 'running' AND started_at < $1`,
		cutoff)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}
