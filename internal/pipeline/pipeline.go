package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/hibiken/asynq"

	"github.com/blessy-devops/automedia-app-sub002/internal/classifier"
	"github.com/blessy-devops/automedia-app-sub002/internal/config"
	"github.com/blessy-devops/automedia-app-sub002/internal/model"
	"github.com/blessy-devops/automedia-app-sub002/internal/repository"
	"github.com/blessy-devops/automedia-app-sub002/internal/scoring"
	"github.com/blessy-devops/automedia-app-sub002/internal/socialblade"
	"github.com/blessy-devops/automedia-app-sub002/internal/youtube"
)

// Pipeline runs the channel enrichment step chain. Each handler claims its
// step on the task row before doing work, so a duplicate delivery of the
// same job is a no-op instead of a double write.
type Pipeline struct {
	channels   *repository.ChannelRepo
	videos     *repository.VideoRepo
	baselines  *repository.BaselineRepo
	tasks      *repository.TaskRepo
	platform   *youtube.Client
	stats      *socialblade.Client
	classifier *classifier.Client
	enqueuer   *Enqueuer
	cfg        *config.Config
}

// New creates the pipeline with all of its collaborators.
func New(
	channels *repository.ChannelRepo,
	videos *repository.VideoRepo,
	baselines *repository.BaselineRepo,
	tasks *repository.TaskRepo,
	platform *youtube.Client,
	stats *socialblade.Client,
	classifier *classifier.Client,
	enqueuer *Enqueuer,
	cfg *config.Config,
) *Pipeline {
	return &Pipeline{
		channels:   channels,
		videos:     videos,
		baselines:  baselines,
		tasks:      tasks,
		platform:   platform,
		stats:      stats,
		classifier: classifier,
		enqueuer:   enqueuer,
		cfg:        cfg,
	}
}

// Start creates a task row for the channel and enqueues the starter job.
// Returns the new task ID.
func (p *Pipeline) Start(ctx context.Context, channelID string, skipSteps []string) (int64, error) {
	taskID, err := p.tasks.Create(ctx, channelID, skipSteps)
	if err != nil {
		return 0, err
	}

	pl := Payload{ChannelID: channelID, TaskID: taskID}
	if err := p.enqueuer.Enqueue(ctx, TypeStarter, pl); err != nil {
		// The task row exists but nothing will run it; mark it failed so
		// the dashboard does not show a forever-pending task.
		if ferr := p.tasks.MarkFailed(ctx, taskID); ferr != nil {
			log.Printf("pipeline: task %d: mark failed after enqueue error: %v", taskID, ferr)
		}
		return 0, err
	}
	return taskID, nil
}

// StartFrom creates a task whose chain begins at the given step instead of
// the starter. Steps in skipSteps are seeded completed and chained past.
// Radar refreshes use this: they update channel metrics inline and enter
// the chain at the stats step.
func (p *Pipeline) StartFrom(ctx context.Context, channelID, fromStep string, skipSteps []string) (int64, error) {
	taskType, ok := taskTypeForStep(fromStep)
	if !ok {
		return 0, fmt.Errorf("unknown pipeline step %q", fromStep)
	}

	taskID, err := p.tasks.Create(ctx, channelID, skipSteps)
	if err != nil {
		return 0, err
	}
	if err := p.tasks.MarkStarted(ctx, taskID); err != nil {
		return 0, err
	}

	pl := Payload{ChannelID: channelID, TaskID: taskID}
	if err := p.enqueuer.Enqueue(ctx, taskType, pl); err != nil {
		if ferr := p.tasks.MarkFailed(ctx, taskID); ferr != nil {
			log.Printf("pipeline: task %d: mark failed after enqueue error: %v", taskID, ferr)
		}
		return 0, err
	}
	return taskID, nil
}

// Retry re-enqueues a single step of an existing task. The explicit flag
// lets a completed step run again, which a normal chain delivery cannot.
func (p *Pipeline) Retry(ctx context.Context, taskID int64, channelID, step string) error {
	taskType, ok := taskTypeForStep(step)
	if !ok {
		return fmt.Errorf("unknown pipeline step %q", step)
	}
	return p.enqueuer.Enqueue(ctx, taskType, Payload{
		ChannelID: channelID,
		TaskID:    taskID,
		Explicit:  true,
	})
}

func taskTypeForStep(step string) (string, bool) {
	switch step {
	case model.StepCategorization:
		return TypeCategorization, true
	case model.StepSocialBlade:
		return TypeSocialBlade, true
	case model.StepRecentVideos:
		return TypeRecentVideos, true
	case model.StepTrendingVideos:
		return TypeTrendingVideos, true
	case model.StepOutlierAnalysis:
		return TypeOutlierCalc, true
	}
	return "", false
}

// HandleStarter fetches channel metadata and writes the channel row, then
// hands off to the categorization step. The starter has no step column of
// its own: an error here fails the whole task.
func (p *Pipeline) HandleStarter(ctx context.Context, t *asynq.Task) error {
	pl, err := decodePayload(t)
	if err != nil {
		return err
	}

	if err := p.tasks.MarkStarted(ctx, pl.TaskID); err != nil {
		return err
	}

	about, err := p.platform.ChannelAbout(ctx, pl.ChannelID)
	if err != nil {
		p.failTask(ctx, pl.TaskID, err)
		return fmt.Errorf("fetch channel about: %w", err)
	}

	ch := standardizeChannel(pl.ChannelID, about)
	if err := p.channels.Upsert(ctx, ch); err != nil {
		p.failTask(ctx, pl.TaskID, err)
		return err
	}

	log.Printf("pipeline: task %d: channel %s stored, chaining to categorization", pl.TaskID, pl.ChannelID)
	return p.enqueueNext(ctx, pl, TypeCategorization)
}

// HandleCategorization classifies the channel into its content niche.
func (p *Pipeline) HandleCategorization(ctx context.Context, t *asynq.Task) error {
	return p.runStep(ctx, t, model.StepCategorization, TypeSocialBlade, false,
		func(ctx context.Context, pl Payload) (model.StepResult, error) {
			ch, err := p.channels.FindByChannelID(ctx, pl.ChannelID)
			if err != nil {
				return nil, err
			}
			if ch == nil {
				return nil, fmt.Errorf("channel %s not found", pl.ChannelID)
			}

			cat, err := p.classifier.ClassifyChannel(ctx, ch.ChannelID,
				deref(ch.ChannelName), deref(ch.Description), nil, nil)
			if err != nil {
				return nil, err
			}
			if err := p.channels.UpdateCategorization(ctx, ch.ChannelID, cat); err != nil {
				return nil, err
			}

			return model.StepResult{
				"niche":    cat.Niche,
				"subniche": cat.Subniche,
				"category": cat.Category,
				"format":   cat.Format,
			}, nil
		})
}

// HandleSocialBlade fetches the channel's recent view history and stores
// the trailing-window baselines. Channels the provider has not indexed are
// recorded as unavailable, not failed: scoring degrades to the historical
// baselines only.
func (p *Pipeline) HandleSocialBlade(ctx context.Context, t *asynq.Task) error {
	return p.runStep(ctx, t, model.StepSocialBlade, TypeRecentVideos, false,
		func(ctx context.Context, pl Payload) (model.StepResult, error) {
			st, err := p.stats.Stats(ctx, pl.ChannelID)
			if err != nil {
				return nil, err
			}

			err = p.baselines.Upsert(ctx, pl.ChannelID,
				st.TotalViews14d, st.TotalViews30d, st.TotalViews90d, st.Available)
			if err != nil {
				return nil, err
			}

			return model.StepResult{
				"available":      st.Available,
				"totalViews14d":  st.TotalViews14d,
				"totalViews30d":  st.TotalViews30d,
				"totalViews90d":  st.TotalViews90d,
			}, nil
		})
}

// HandleRecentVideos fetches the channel's newest uploads.
func (p *Pipeline) HandleRecentVideos(ctx context.Context, t *asynq.Task) error {
	return p.runStep(ctx, t, model.StepRecentVideos, TypeTrendingVideos, false,
		func(ctx context.Context, pl Payload) (model.StepResult, error) {
			return p.fetchVideos(ctx, pl, youtube.SortNewest)
		})
}

// HandleTrendingVideos fetches the channel's most-viewed uploads.
func (p *Pipeline) HandleTrendingVideos(ctx context.Context, t *asynq.Task) error {
	return p.runStep(ctx, t, model.StepTrendingVideos, TypeOutlierCalc, false,
		func(ctx context.Context, pl Payload) (model.StepResult, error) {
			return p.fetchVideos(ctx, pl, youtube.SortPopular)
		})
}

// fetchVideos is the shared body of the two video fetch steps: pull the
// listing, drop Shorts and short uploads, upsert the rest, and fan out one
// categorization job per stored video.
func (p *Pipeline) fetchVideos(ctx context.Context, pl Payload, sortBy string) (model.StepResult, error) {
	items, err := p.platform.ChannelVideos(ctx, pl.ChannelID, sortBy)
	if err != nil {
		return nil, err
	}

	kept := FilterVideos(items, p.cfg.MinVideoDurationSeconds)
	videos := make([]model.Video, 0, len(kept))
	for _, item := range kept {
		videos = append(videos, BuildVideo(item, pl.ChannelID))
	}

	upserted, err := p.videos.UpsertBatch(ctx, videos)
	if err != nil {
		return nil, err
	}

	// Per-video classification is best-effort fan-out; a queue hiccup on
	// one video must not fail the fetch step.
	if p.cfg.ClassifierURL != "" {
		for _, v := range videos {
			vpl := VideoPayload{
				YouTubeVideoID: v.YouTubeVideoID,
				ChannelID:      v.ChannelID,
				Title:          v.Title,
				Tags:           v.Tags,
			}
			if err := p.enqueuer.Enqueue(ctx, TypeVideoCategorization, vpl); err != nil {
				log.Printf("pipeline: task %d: enqueue video categorization for %s: %v", pl.TaskID, v.YouTubeVideoID, err)
			}
		}
	}

	return model.StepResult{
		"totalFound":  len(items),
		"afterFilter": len(kept),
		"upserted":    upserted,
	}, nil
}

// HandleVideoCategorization classifies one video. This runs outside the
// step chain, so there is no task row to update on failure.
func (p *Pipeline) HandleVideoCategorization(ctx context.Context, t *asynq.Task) error {
	var vpl VideoPayload
	if err := json.Unmarshal(t.Payload(), &vpl); err != nil {
		return fmt.Errorf("decode video payload: %w", err)
	}

	cat, err := p.classifier.ClassifyVideo(ctx, vpl.YouTubeVideoID, vpl.ChannelID, vpl.Title, vpl.Tags)
	if err != nil {
		return fmt.Errorf("classify video %s: %w", vpl.YouTubeVideoID, err)
	}
	return p.videos.UpdateCategorization(ctx, vpl.YouTubeVideoID, cat)
}

// HandleOutlierCalc scores every unscored video of the channel against the
// channel baselines and closes out the task.
func (p *Pipeline) HandleOutlierCalc(ctx context.Context, t *asynq.Task) error {
	return p.runStep(ctx, t, model.StepOutlierAnalysis, "", true,
		func(ctx context.Context, pl Payload) (model.StepResult, error) {
			unscored, err := p.videos.FindUnscored(ctx, pl.ChannelID)
			if err != nil {
				return nil, err
			}
			if len(unscored) == 0 {
				return model.StepResult{"videosProcessed": 0}, nil
			}

			b, err := p.loadBaselines(ctx, pl.ChannelID)
			if err != nil {
				return nil, err
			}

			now := time.Now()
			scored, skipped, failed, outliers := 0, 0, 0, 0
			for _, v := range unscored {
				var uploadDate time.Time
				if v.UploadDate != nil {
					uploadDate = *v.UploadDate
				}

				score, ok := scoring.ScoreVideo(v.Views, uploadDate, now, b)
				if !ok {
					skipped++
					continue
				}

				isOutlier := scoring.IsOutlier(score.VsMedianHistorical, p.cfg.OutlierThreshold)
				if err := p.videos.ApplyScore(ctx, v.YouTubeVideoID, score, isOutlier); err != nil {
					log.Printf("pipeline: task %d: apply score to %s: %v", pl.TaskID, v.YouTubeVideoID, err)
					failed++
					continue
				}
				scored++
				if isOutlier {
					outliers++
				}
			}

			if err := p.baselines.SaveMedian(ctx, pl.ChannelID, b.MedianHistoricalViews); err != nil {
				log.Printf("pipeline: task %d: save median for %s: %v", pl.TaskID, pl.ChannelID, err)
			}

			videosScoredTotal.Add(float64(scored))
			outliersDetectedTotal.Add(float64(outliers))

			return model.StepResult{
				"videosProcessed": scored,
				"skipped":         skipped,
				"errors":          failed,
				"outliersFound":   outliers,
			}, nil
		})
}

// loadBaselines assembles the scoring baselines from the channel totals,
// the stored view counts, and the trailing-window stats (if available).
func (p *Pipeline) loadBaselines(ctx context.Context, channelID string) (scoring.Baselines, error) {
	totalViews, uploadCount, err := p.channels.HistoricalTotals(ctx, channelID)
	if err != nil {
		return scoring.Baselines{}, err
	}

	viewCounts, err := p.videos.ViewCounts(ctx, channelID)
	if err != nil {
		return scoring.Baselines{}, err
	}

	bs, err := p.baselines.Find(ctx, channelID)
	if err != nil {
		return scoring.Baselines{}, err
	}
	var d14, d30, d90 *float64
	if bs != nil {
		d14, d30, d90 = bs.DailyAverages()
	}

	return scoring.ComputeBaselines(totalViews, uploadCount, viewCounts, d14, d30, d90), nil
}

// runStep wraps one chain step: claim the task row, run the body, record
// the outcome, and enqueue the successor. Terminal steps close the whole
// task instead of completing just their own column.
func (p *Pipeline) runStep(
	ctx context.Context,
	t *asynq.Task,
	step, next string,
	terminal bool,
	fn func(ctx context.Context, pl Payload) (model.StepResult, error),
) error {
	pl, err := decodePayload(t)
	if err != nil {
		return err
	}

	if err := p.tasks.ClaimStep(ctx, pl.TaskID, step, pl.Explicit); err != nil {
		switch {
		case errors.Is(err, repository.ErrStepCompleted):
			// Pre-completed step (seeded as skipped, or a duplicate
			// delivery after completion): the chain must keep moving.
			log.Printf("pipeline: task %d: step %s already completed, chaining past it", pl.TaskID, step)
			stepRuns.WithLabelValues(step, "skipped").Inc()
			if next == "" {
				return nil
			}
			return p.enqueueNext(ctx, pl, next)
		case errors.Is(err, repository.ErrStepNotClaimable):
			log.Printf("pipeline: task %d: step %s not claimable, skipping duplicate delivery", pl.TaskID, step)
			stepRuns.WithLabelValues(step, "skipped").Inc()
			return nil
		}
		return err
	}

	start := time.Now()
	result, err := fn(ctx, pl)
	if err != nil {
		log.Printf("pipeline: task %d: step %s failed: %v", pl.TaskID, step, err)
		stepRuns.WithLabelValues(step, "failed").Inc()
		if ferr := p.tasks.FailStep(ctx, pl.TaskID, step, err.Error()); ferr != nil {
			log.Printf("pipeline: task %d: record step failure: %v", pl.TaskID, ferr)
		}
		return err
	}

	if terminal {
		err = p.tasks.Complete(ctx, pl.TaskID, result)
	} else {
		err = p.tasks.CompleteStep(ctx, pl.TaskID, step, result)
	}
	if err != nil {
		return err
	}

	stepRuns.WithLabelValues(step, "completed").Inc()
	stepDuration.WithLabelValues(step).Observe(time.Since(start).Seconds())
	log.Printf("pipeline: task %d: step %s completed in %s", pl.TaskID, step, time.Since(start).Round(time.Millisecond))

	if next == "" {
		return nil
	}
	return p.enqueueNext(ctx, pl, next)
}

// enqueueNext chains to the successor step. The current step's row is
// already completed when this runs, so a queue failure here is surfaced as
// the job's error and retried by re-triggering the successor, not by
// re-running the completed step.
func (p *Pipeline) enqueueNext(ctx context.Context, pl Payload, taskType string) error {
	next := Payload{ChannelID: pl.ChannelID, TaskID: pl.TaskID}
	if err := p.enqueuer.Enqueue(ctx, taskType, next); err != nil {
		return fmt.Errorf("chain to %s: %w", taskType, err)
	}
	return nil
}

func (p *Pipeline) failTask(ctx context.Context, taskID int64, cause error) {
	log.Printf("pipeline: task %d: failed before step chain: %v", taskID, cause)
	if err := p.tasks.MarkFailed(ctx, taskID); err != nil {
		log.Printf("pipeline: task %d: mark failed: %v", taskID, err)
	}
}

func decodePayload(t *asynq.Task) (Payload, error) {
	var pl Payload
	if err := json.Unmarshal(t.Payload(), &pl); err != nil {
		return Payload{}, fmt.Errorf("decode %s payload: %w", t.Type(), err)
	}
	if pl.ChannelID == "" || pl.TaskID == 0 {
		return Payload{}, fmt.Errorf("%s payload missing channelId or taskId", t.Type())
	}
	return pl, nil
}

// standardizeChannel maps the platform's about payload onto the stored
// channel shape.
func standardizeChannel(channelID string, about *youtube.ChannelAbout) *model.Channel {
	ch := &model.Channel{
		ChannelID:  channelID,
		IsVerified: about.IsVerified,
	}

	if about.Title != "" {
		ch.ChannelName = strPtr(about.Title)
	}
	if about.Description != "" {
		ch.Description = strPtr(about.Description)
	}
	if about.Country != "" {
		ch.Country = strPtr(about.Country)
	}
	if u := customURL(about); u != "" {
		ch.CustomURL = strPtr(u)
	}
	if avatar := youtube.BestAvatar(about.Avatar, 176); avatar != "" {
		ch.ThumbnailURL = strPtr(avatar)
	}

	ch.SubscriberCount = numPtr(about.SubscriberCount)
	ch.TotalViews = numPtr(about.ViewCount)
	ch.VideoUploadCount = numPtr(about.VideosCount)

	if ts := parseJoinedDate(about.JoinedDate); !ts.IsZero() {
		ch.CreationDate = &ts
	}
	return ch
}

func customURL(about *youtube.ChannelAbout) string {
	if about.CustomURL != "" {
		return about.CustomURL
	}
	if about.ChannelHandle != "" {
		return "https://www.youtube.com/" + about.ChannelHandle
	}
	return ""
}

// parseJoinedDate handles the two formats the API is known to emit:
// "Jan 2, 2006" and plain ISO dates.
func parseJoinedDate(raw string) time.Time {
	raw = strings.TrimPrefix(strings.TrimSpace(raw), "Joined ")
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range []string{"Jan 2, 2006", "2006-01-02"} {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts
		}
	}
	return time.Time{}
}

func strPtr(s string) *string { return &s }

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func numPtr(n json.Number) *int64 {
	if n.String() == "" {
		return nil
	}
	v, err := n.Int64()
	if err != nil {
		return nil
	}
	return &v
}
