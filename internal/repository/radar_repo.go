package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/blessy-devops/automedia-app-sub002/internal/model"
)

type RadarRepo struct {
	pool *pgxpool.Pool
}

func NewRadarRepo(pool *pgxpool.Pool) *RadarRepo {
	return &RadarRepo{pool: pool}
}

// ListDue returns the active radar entries whose next update is due. When
// channelID is non-empty (manual trigger), only that channel is returned,
// due or not.
func (r *RadarRepo) ListDue(ctx context.Context, now time.Time, channelID string) ([]model.RadarEntry, error) {
	query := `
		SELECT id, channel_id, is_active, update_frequency, last_update_at, next_update_at, created_at
		FROM channel_radar
		WHERE is_active = true`
	args := []any{}
	if channelID != "" {
		query += ` AND channel_id = $1`
		args = append(args, channelID)
	} else {
		query += ` AND update_frequency <> $1 AND (next_update_at IS NULL OR next_update_at <= $2)`
		args = append(args, model.FrequencyManual, now)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.RadarEntry
	for rows.Next() {
		var e model.RadarEntry
		err := rows.Scan(&e.ID, &e.ChannelID, &e.IsActive, &e.UpdateFrequency,
			&e.LastUpdateAt, &e.NextUpdateAt, &e.CreatedAt)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// MarkUpdated stamps a radar entry after its pipeline run was kicked off.
func (r *RadarRepo) MarkUpdated(ctx context.Context, id int64, now, next time.Time) error {
	var nextArg *time.Time
	if !next.IsZero() {
		nextArg = &next
	}
	_, err := r.pool.Exec(ctx, `
		UPDATE channel_radar
		SET last_update_at = $1, next_update_at = $2
		WHERE id = $3`,
		now, nextArg, id)
	if err != nil {
		return fmt.Errorf("mark radar entry %d updated: %w", id, err)
	}
	return nil
}

// CountActive returns how many channels are currently monitored.
func (r *RadarRepo) CountActive(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM channel_radar WHERE is_active = true`).Scan(&n)
	return n, err
}

// StartRunLog opens an execution log row for one radar run.
func (r *RadarRepo) StartRunLog(ctx context.Context) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO channel_radar_run_log (started_at, status)
		VALUES (NOW(), 'running')
		RETURNING id`).Scan(&id)
	return id, err
}

// FinishRunLog closes an execution log row with the run's outcome.
func (r *RadarRepo) FinishRunLog(ctx context.Context, id int64, status string, processed, failed int, errMsg *string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE channel_radar_run_log
		SET completed_at = NOW(), status = $1, channels_processed = $2,
		    channels_failed = $3, error = $4
		WHERE id = $5`,
		status, processed, failed, errMsg, id)
	return err
}
