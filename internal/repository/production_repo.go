package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/blessy-devops/automedia-app-sub002/internal/model"
)

type ProductionRepo struct {
	pool *pgxpool.Pool
}

func NewProductionRepo(pool *pgxpool.Pool) *ProductionRepo {
	return &ProductionRepo{pool: pool}
}

// FindProcessing returns the video currently holding the turnstile lock,
// or nil when the slot is free. Terminal rows never count as holding it
// even if a stale is_processing flag survives.
func (r *ProductionRepo) FindProcessing(ctx context.Context) (*model.ProductionVideo, error) {
	var v model.ProductionVideo
	err := r.pool.QueryRow(ctx, `
		SELECT id, benchmark_video_id, account_id, title, status, is_processing, created_at, updated_at
		FROM production_videos
		WHERE is_processing = true
		  AND status NOT IN ($1, $2, $3, $4)
		LIMIT 1`,
		model.ProductionCanceled, model.ProductionCompleted,
		model.ProductionScheduled, model.ProductionPublished,
	).Scan(&v.ID, &v.BenchmarkVideoID, &v.AccountID, &v.Title, &v.Status,
		&v.IsProcessing, &v.CreatedAt, &v.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// ClaimNext atomically claims the oldest queued video, but only while no
// other video holds the turnstile. The whole check-then-act runs as one
// conditional update, so two concurrent ticks can never both claim: the
// NOT EXISTS guard and the claim commit or skip together. Returns nil when
// nothing was claimed (queue empty or slot taken).
func (r *ProductionRepo) ClaimNext(ctx context.Context) (*model.ProductionVideo, error) {
	var v model.ProductionVideo
	err := r.pool.QueryRow(ctx, `
		UPDATE production_videos
		SET is_processing = true, status = $1, updated_at = NOW()
		WHERE id = (
			SELECT id FROM production_videos
			WHERE status = $2
			ORDER BY created_at ASC
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		)
		AND NOT EXISTS (
			SELECT 1 FROM production_videos
			WHERE is_processing = true
			  AND status NOT IN ($3, $4, $5, $6)
		)
		RETURNING id, benchmark_video_id, account_id, title, status, is_processing, created_at, updated_at`,
		model.ProductionCreateTitle, model.ProductionQueued,
		model.ProductionCanceled, model.ProductionCompleted,
		model.ProductionScheduled, model.ProductionPublished,
	).Scan(&v.ID, &v.BenchmarkVideoID, &v.AccountID, &v.Title, &v.Status,
		&v.IsProcessing, &v.CreatedAt, &v.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Release clears the turnstile lock and moves the video to a terminal (or
// held) status, freeing the slot for the next tick.
func (r *ProductionRepo) Release(ctx context.Context, id int64, status string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE production_videos
		SET is_processing = false, status = $1, updated_at = NOW()
		WHERE id = $2`,
		status, id)
	if err != nil {
		return fmt.Errorf("release production video %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// CreateBatch fans a benchmark video out into one queued production row per
// destination account, inside one transaction.
func (r *ProductionRepo) CreateBatch(ctx context.Context, benchmarkVideoID int64, title string, accountIDs []string) (int, error) {
	if len(accountIDs) == 0 {
		return 0, nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	created := 0
	for _, accountID := range accountIDs {
		_, err := tx.Exec(ctx, `
			INSERT INTO production_videos (
				benchmark_video_id, account_id, title, status, is_processing,
				created_at, updated_at
			)
			VALUES ($1, $2, $3, $4, false, NOW(), NOW())`,
			benchmarkVideoID, accountID, title, model.ProductionQueued)
		if err != nil {
			return created, fmt.Errorf("create production row for account %s: %w", accountID, err)
		}
		created++
	}

	return created, tx.Commit(ctx)
}

// CountByStatus returns how many production rows sit in a given status.
func (r *ProductionRepo) CountByStatus(ctx context.Context, status string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM production_videos WHERE status = $1`, status).Scan(&n)
	return n, err
}

// CountProcessing returns how many rows currently hold the turnstile lock.
// Anything above 1 is an invariant violation worth alerting on.
func (r *ProductionRepo) CountProcessing(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM production_videos
		WHERE is_processing = true
		  AND status NOT IN ($1, $2, $3, $4)`,
		model.ProductionCanceled, model.ProductionCompleted,
		model.ProductionScheduled, model.ProductionPublished).Scan(&n)
	return n, err
}
