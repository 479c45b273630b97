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
)

// ErrStepNotClaimable is returned when a step cannot move to processing:
// either another invocation already claimed it, or the caller tried to
// re-run a completed step without an explicit retry.
var ErrStepNotClaimable = errors.New("step is not claimable")

// ErrStepCompleted is the already-completed case of an unclaimable step.
// The chain treats it differently: a completed step is skipped over and
// its successor still runs, which is how tasks seeded with pre-completed
// steps keep flowing.
var ErrStepCompleted = errors.New("step already completed")

type TaskRepo struct {
	pool *pgxpool.Pool
}

func NewTaskRepo(pool *pgxpool.Pool) *TaskRepo {
	return &TaskRepo{pool: pool}
}

// stepColumn validates a step name against the known pipeline steps before
// it is spliced into SQL. Step columns are dynamic by design (one set of
// columns per step on the wide task row), so this is the only guard needed.
func stepColumn(step string) (string, error) {
	for _, s := range model.StepOrder {
		if s == step {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown pipeline step %q", step)
}

// Create seeds a new enrichment task. Steps listed in skipSteps start out
// completed instead of pending; radar refreshes skip categorization and
// trending this way while keeping the same row shape.
func (r *TaskRepo) Create(ctx context.Context, channelID string, skipSteps []string) (int64, error) {
	skip := make(map[string]bool, len(skipSteps))
	for _, s := range skipSteps {
		skip[s] = true
	}

	status := func(step string) model.StepStatus {
		if skip[step] {
			return model.StepCompleted
		}
		return model.StepPending
	}
	completedAt := func(step string) *time.Time {
		if skip[step] {
			now := time.Now()
			return &now
		}
		return nil
	}

	query := `
		INSERT INTO channel_enrichment_tasks (
			channel_id, overall_status,
			categorization_status, categorization_completed_at,
			socialblade_status, socialblade_completed_at,
			recent_videos_status, recent_videos_completed_at,
			trending_videos_status, trending_videos_completed_at,
			outlier_analysis_status, outlier_analysis_completed_at,
			retry_count, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, 0, NOW())
		RETURNING id`

	var id int64
	err := r.pool.QueryRow(ctx, query,
		channelID, model.StepPending,
		status(model.StepCategorization), completedAt(model.StepCategorization),
		status(model.StepSocialBlade), completedAt(model.StepSocialBlade),
		status(model.StepRecentVideos), completedAt(model.StepRecentVideos),
		status(model.StepTrendingVideos), completedAt(model.StepTrendingVideos),
		status(model.StepOutlierAnalysis), completedAt(model.StepOutlierAnalysis),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create task for %s: %w", channelID, err)
	}
	return id, nil
}

// Get returns the full task row, steps assembled into a map.
func (r *TaskRepo) Get(ctx context.Context, id int64) (*model.Task, error) {
	query := `
		SELECT id, channel_id, overall_status, retry_count, started_at, completed_at, created_at`
	for _, step := range model.StepOrder {
		query += fmt.Sprintf(`,
		       %[1]s_status, %[1]s_started_at, %[1]s_completed_at, %[1]s_result, %[1]s_error`, step)
	}
	query += `
		FROM channel_enrichment_tasks
		WHERE id = $1`

	t := model.Task{Steps: make(map[string]model.StepState, len(model.StepOrder))}
	dests := []any{&t.ID, &t.ChannelID, &t.OverallStatus, &t.RetryCount, &t.StartedAt, &t.CompletedAt, &t.CreatedAt}

	states := make([]model.StepState, len(model.StepOrder))
	for i := range model.StepOrder {
		dests = append(dests,
			&states[i].Status, &states[i].StartedAt, &states[i].CompletedAt,
			&states[i].Result, &states[i].Error,
		)
	}

	err := r.pool.QueryRow(ctx, query, id).Scan(dests...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	for i, step := range model.StepOrder {
		t.Steps[step] = states[i]
	}
	return &t, nil
}

// MarkStarted flips the task's overall status to processing. Called once by
// the starter before any step runs.
func (r *TaskRepo) MarkStarted(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE channel_enrichment_tasks
		SET overall_status = $1, started_at = NOW()
		WHERE id = $2`,
		model.StepProcessing, id)
	return err
}

// ClaimStep atomically moves one step to processing. Claimable from pending
// or failed; a completed step needs explicit = true (manual retry). The
// single conditional update is the re-entrancy guard: a duplicate
// invocation of a step already processing gets ErrStepNotClaimable instead
// of double-running.
func (r *TaskRepo) ClaimStep(ctx context.Context, id int64, step string, explicit bool) error {
	col, err := stepColumn(step)
	if err != nil {
		return err
	}

	from := []string{string(model.StepPending), string(model.StepFailed)}
	if explicit {
		from = append(from, string(model.StepCompleted))
	}

	query := fmt.Sprintf(`
		UPDATE channel_enrichment_tasks
		SET %[1]s_status = $1,
		    %[1]s_started_at = NOW(),
		    %[1]s_completed_at = NULL,
		    %[1]s_error = NULL,
		    retry_count = retry_count + CASE WHEN %[1]s_status = ANY($2) THEN 1 ELSE 0 END
		WHERE id = $3 AND %[1]s_status = ANY($4)
		RETURNING id`, col)

	retriedFrom := []string{string(model.StepFailed), string(model.StepCompleted)}

	var claimed int64
	err = r.pool.QueryRow(ctx, query, model.StepProcessing, retriedFrom, id, from).Scan(&claimed)
	if errors.Is(err, pgx.ErrNoRows) {
		statusQuery := fmt.Sprintf(`
			SELECT %s_status FROM channel_enrichment_tasks WHERE id = $1`, col)
		var current model.StepStatus
		if qerr := r.pool.QueryRow(ctx, statusQuery, id).Scan(&current); qerr == nil && current == model.StepCompleted {
			return ErrStepCompleted
		}
		return ErrStepNotClaimable
	}
	return err
}

// CompleteStep marks one step completed with its JSON result summary.
func (r *TaskRepo) CompleteStep(ctx context.Context, id int64, step string, result model.StepResult) error {
	col, err := stepColumn(step)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode step result: %w", err)
	}

	query := fmt.Sprintf(`
		UPDATE channel_enrichment_tasks
		SET %[1]s_status = $1, %[1]s_completed_at = NOW(), %[1]s_result = $2
		WHERE id = $3 AND %[1]s_status = $4`, col)

	_, err = r.pool.Exec(ctx, query, model.StepCompleted, payload, id, model.StepProcessing)
	return err
}

// FailStep marks one step failed and propagates the failure to the task's
// overall status. There is no automatic retry; the operator re-triggers.
func (r *TaskRepo) FailStep(ctx context.Context, id int64, step string, message string) error {
	col, err := stepColumn(step)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		UPDATE channel_enrichment_tasks
		SET %[1]s_status = $1, %[1]s_completed_at = NOW(), %[1]s_error = $2,
		    overall_status = $1
		WHERE id = $3`, col)

	_, err = r.pool.Exec(ctx, query, model.StepFailed, message, id)
	return err
}

// MarkFailed fails the task as a whole. Used by the starter, which has no
// step column of its own.
func (r *TaskRepo) MarkFailed(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE channel_enrichment_tasks
		SET overall_status = $1
		WHERE id = $2`,
		model.StepFailed, id)
	return err
}

// Complete finishes the terminal step and the task in one update. Only the
// outlier step calls this; it is the single place overall_status becomes
// completed.
func (r *TaskRepo) Complete(ctx context.Context, id int64, result model.StepResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode step result: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		UPDATE channel_enrichment_tasks
		SET outlier_analysis_status = $1,
		    outlier_analysis_completed_at = NOW(),
		    outlier_analysis_result = $2,
		    overall_status = $1,
		    completed_at = NOW()
		WHERE id = $3`,
		model.StepCompleted, payload, id)
	return err
}

// CountCompletedSince returns how many tasks finished since the given time.
func (r *TaskRepo) CountCompletedSince(ctx context.Context, since time.Time) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM channel_enrichment_tasks
		WHERE overall_status = $1 AND completed_at >= $2`,
		model.StepCompleted, since).Scan(&n)
	return n, err
}

// CountByOverallStatus returns how many tasks sit in a given overall state.
func (r *TaskRepo) CountByOverallStatus(ctx context.Context, status model.StepStatus) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM channel_enrichment_tasks WHERE overall_status = $1`,
		status).Scan(&n)
	return n, err
}
