package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/blessy-devops/automedia-app-sub002/internal/model"
	"github.com/blessy-devops/automedia-app-sub002/internal/scoring"
)

type VideoRepo struct {
	pool *pgxpool.Pool
}

func NewVideoRepo(pool *pgxpool.Pool) *VideoRepo {
	return &VideoRepo{pool: pool}
}

// UpsertBatch inserts or refreshes videos keyed by youtube_video_id inside
// one transaction. Performance ratios are never touched here, so a refresh
// of counts does not reset an already-scored video.
func (r *VideoRepo) UpsertBatch(ctx context.Context, videos []model.Video) (int, error) {
	if len(videos) == 0 {
		return 0, nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO benchmark_videos (
			youtube_video_id, channel_id, title, description, thumbnail_url,
			upload_date, views, likes, comments, duration_seconds, tags, status,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
		ON CONFLICT (youtube_video_id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			thumbnail_url = EXCLUDED.thumbnail_url,
			upload_date = EXCLUDED.upload_date,
			views = EXCLUDED.views,
			likes = EXCLUDED.likes,
			comments = EXCLUDED.comments,
			duration_seconds = EXCLUDED.duration_seconds,
			tags = EXCLUDED.tags,
			updated_at = NOW()`

	upserted := 0
	for _, v := range videos {
		tags, err := json.Marshal(v.Tags)
		if err != nil {
			return upserted, fmt.Errorf("encode tags for %s: %w", v.YouTubeVideoID, err)
		}

		status := v.Status
		if status == "" {
			status = model.VideoStatusBenchmark
		}

		_, err = tx.Exec(ctx, query,
			v.YouTubeVideoID, v.ChannelID, v.Title, v.Description, v.ThumbnailURL,
			v.UploadDate, v.Views, v.Likes, v.Comments, v.DurationSeconds, tags, status,
		)
		if err != nil {
			return upserted, fmt.Errorf("upsert video %s: %w", v.YouTubeVideoID, err)
		}
		upserted++
	}

	return upserted, tx.Commit(ctx)
}

// FindUnscored returns the channel's videos still waiting for performance
// calculation. The null check on performance_vs_avg_historical is the
// idempotency marker: re-runs of the outlier step see an empty set.
func (r *VideoRepo) FindUnscored(ctx context.Context, channelID string) ([]model.Video, error) {
	query := `
		SELECT id, youtube_video_id, channel_id, COALESCE(title, ''), upload_date, COALESCE(views, 0)
		FROM benchmark_videos
		WHERE channel_id = $1 AND performance_vs_avg_historical IS NULL`

	rows, err := r.pool.Query(ctx, query, channelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var videos []model.Video
	for rows.Next() {
		var v model.Video
		if err := rows.Scan(&v.ID, &v.YouTubeVideoID, &v.ChannelID, &v.Title, &v.UploadDate, &v.Views); err != nil {
			return nil, err
		}
		videos = append(videos, v)
	}
	return videos, rows.Err()
}

// ViewCounts returns every stored view count for a channel, the input of
// the median baseline.
func (r *VideoRepo) ViewCounts(ctx context.Context, channelID string) ([]int64, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT COALESCE(views, 0) FROM benchmark_videos WHERE channel_id = $1`,
		channelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []int64
	for rows.Next() {
		var v int64
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		counts = append(counts, v)
	}
	return counts, rows.Err()
}

// ApplyScore persists the computed performance metrics for one video.
func (r *VideoRepo) ApplyScore(ctx context.Context, youtubeVideoID string, s scoring.Score, isOutlier bool) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE benchmark_videos
		SET video_age_days = $1,
		    views_per_day = $2,
		    performance_vs_avg_historical = $3,
		    performance_vs_median_historical = $4,
		    performance_vs_recent_14d = $5,
		    performance_vs_recent_30d = $6,
		    performance_vs_recent_90d = $7,
		    is_outlier = $8,
		    updated_at = NOW()
		WHERE youtube_video_id = $9`,
		s.VideoAgeDays, s.ViewsPerDay,
		s.VsAvgHistorical, s.VsMedianHistorical,
		s.VsRecent14d, s.VsRecent30d, s.VsRecent90d,
		isOutlier, youtubeVideoID)
	if err != nil {
		return fmt.Errorf("apply score to %s: %w", youtubeVideoID, err)
	}
	return nil
}

// UpdateCategorization writes the per-video AI classification produced by
// the fan-out workers.
func (r *VideoRepo) UpdateCategorization(ctx context.Context, youtubeVideoID string, cat *model.Categorization) error {
	payload, err := json.Marshal(cat)
	if err != nil {
		return fmt.Errorf("encode categorization: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		UPDATE benchmark_videos
		SET categorization = $1, updated_at = NOW()
		WHERE youtube_video_id = $2`,
		payload, youtubeVideoID)
	if err != nil {
		return fmt.Errorf("update categorization for %s: %w", youtubeVideoID, err)
	}
	return nil
}

// ListByChannel returns a channel's videos for the dashboard, optionally
// only the outliers, newest first.
func (r *VideoRepo) ListByChannel(ctx context.Context, channelID string, outliersOnly bool, limit int) ([]model.Video, error) {
	query := `
		SELECT id, youtube_video_id, channel_id, COALESCE(title, ''), description, thumbnail_url,
		       upload_date, COALESCE(views, 0), likes, comments, COALESCE(duration_seconds, 0),
		       COALESCE(status, 'benchmark'), video_age_days, views_per_day,
		       performance_vs_avg_historical, performance_vs_median_historical,
		       performance_vs_recent_14d, performance_vs_recent_30d, performance_vs_recent_90d,
		       COALESCE(is_outlier, false), created_at, updated_at
		FROM benchmark_videos
		WHERE channel_id = $1`
	if outliersOnly {
		query += ` AND is_outlier = true`
	}
	query += ` ORDER BY upload_date DESC NULLS LAST LIMIT $2`

	rows, err := r.pool.Query(ctx, query, channelID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var videos []model.Video
	for rows.Next() {
		var v model.Video
		err := rows.Scan(
			&v.ID, &v.YouTubeVideoID, &v.ChannelID, &v.Title, &v.Description, &v.ThumbnailURL,
			&v.UploadDate, &v.Views, &v.Likes, &v.Comments, &v.DurationSeconds,
			&v.Status, &v.VideoAgeDays, &v.ViewsPerDay,
			&v.PerformanceVsAvgHistorical, &v.PerformanceVsMedianHistorical,
			&v.PerformanceVsRecent14d, &v.PerformanceVsRecent30d, &v.PerformanceVsRecent90d,
			&v.IsOutlier, &v.CreatedAt, &v.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		videos = append(videos, v)
	}
	return videos, rows.Err()
}

// FindByID returns one benchmark video by primary key, or nil when unknown.
func (r *VideoRepo) FindByID(ctx context.Context, id int64) (*model.Video, error) {
	var v model.Video
	err := r.pool.QueryRow(ctx, `
		SELECT id, youtube_video_id, channel_id, COALESCE(title, ''), COALESCE(status, 'benchmark')
		FROM benchmark_videos
		WHERE id = $1`, id).Scan(&v.ID, &v.YouTubeVideoID, &v.ChannelID, &v.Title, &v.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// SetStatus moves a benchmark video between distribution statuses.
func (r *VideoRepo) SetStatus(ctx context.Context, id int64, status string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE benchmark_videos SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Count returns the total number of stored videos.
func (r *VideoRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM benchmark_videos`).Scan(&n)
	return n, err
}

// CountOutliersSince returns how many videos were flagged as outliers since
// the given time.
func (r *VideoRepo) CountOutliersSince(ctx context.Context, since time.Time) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM benchmark_videos
		WHERE is_outlier = true AND updated_at >= $1`, since).Scan(&n)
	return n, err
}

// CountCloneWorthy returns how many videos clear the clone-worthy ratio
// against their channel's median baseline.
func (r *VideoRepo) CountCloneWorthy(ctx context.Context, threshold float64) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM benchmark_videos
		WHERE performance_vs_median_historical >= $1`, threshold).Scan(&n)
	return n, err
}

// PromoteOldestToDistribution flips the oldest add_to_production video to
// pending_distribution. Unlike the turnstile there is no single-slot
// constraint here; FIFO order is the only contract.
func (r *VideoRepo) PromoteOldestToDistribution(ctx context.Context) (*model.Video, error) {
	var v model.Video
	err := r.pool.QueryRow(ctx, `
		UPDATE benchmark_videos
		SET status = $1, updated_at = NOW()
		WHERE id = (
			SELECT id FROM benchmark_videos
			WHERE status = $2
			ORDER BY created_at ASC
			LIMIT 1
		)
		RETURNING id, youtube_video_id, channel_id, COALESCE(title, ''), status`,
		model.VideoStatusPendingDistribution, model.VideoStatusAddToProduction,
	).Scan(&v.ID, &v.YouTubeVideoID, &v.ChannelID, &v.Title, &v.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}
