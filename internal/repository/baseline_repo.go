package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/blessy-devops/automedia-app-sub002/internal/model"
)

type BaselineRepo struct {
	pool *pgxpool.Pool
}

func NewBaselineRepo(pool *pgxpool.Pool) *BaselineRepo {
	return &BaselineRepo{pool: pool}
}

// Upsert writes a channel's window totals, keyed by channel_id. The row is
// written even when the provider had nothing (is_available = false), so the
// outlier step can distinguish "not indexed" from "never fetched".
func (r *BaselineRepo) Upsert(ctx context.Context, channelID string, total14, total30, total90 int64, available bool) error {
	query := `
		INSERT INTO benchmark_channels_baseline_stats (
			channel_id, total_views_14d, total_views_30d, total_views_90d,
			is_available, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (channel_id) DO UPDATE SET
			total_views_14d = EXCLUDED.total_views_14d,
			total_views_30d = EXCLUDED.total_views_30d,
			total_views_90d = EXCLUDED.total_views_90d,
			is_available = EXCLUDED.is_available,
			updated_at = NOW()`

	_, err := r.pool.Exec(ctx, query, channelID, total14, total30, total90, available)
	if err != nil {
		return fmt.Errorf("upsert baseline stats for %s: %w", channelID, err)
	}
	return nil
}

// Find returns the baseline row for a channel, or nil when none exists.
// A missing row is a recoverable state (momentum ratios stay unscored),
// never an error.
func (r *BaselineRepo) Find(ctx context.Context, channelID string) (*model.BaselineStats, error) {
	var b model.BaselineStats
	err := r.pool.QueryRow(ctx, `
		SELECT channel_id, total_views_14d, total_views_30d, total_views_90d,
		       median_views_per_video_historical, is_available, updated_at
		FROM benchmark_channels_baseline_stats
		WHERE channel_id = $1`,
		channelID).Scan(
		&b.ChannelID, &b.TotalViews14d, &b.TotalViews30d, &b.TotalViews90d,
		&b.MedianViewsPerVideoHistorical, &b.IsAvailable, &b.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// SaveMedian persists the channel-level historical median computed by the
// outlier step, so the dashboard can show it without recomputing.
func (r *BaselineRepo) SaveMedian(ctx context.Context, channelID string, median *float64) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE benchmark_channels_baseline_stats
		SET median_views_per_video_historical = $1, updated_at = NOW()
		WHERE channel_id = $2`,
		median, channelID)
	if err != nil {
		return fmt.Errorf("save median for %s: %w", channelID, err)
	}
	return nil
}
