package radar

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/blessy-devops/automedia-app-sub002/internal/model"
	"github.com/blessy-devops/automedia-app-sub002/internal/pipeline"
	"github.com/blessy-devops/automedia-app-sub002/internal/repository"
	"github.com/blessy-devops/automedia-app-sub002/internal/youtube"
)

// Updater re-enriches channels on the radar. A radar pass refreshes the
// channel's headline metrics inline, then hands the heavy work (stats,
// videos, scoring) to the enrichment pipeline with the steps that never
// change between runs already marked done.
type Updater struct {
	radar    *repository.RadarRepo
	channels *repository.ChannelRepo
	platform *youtube.Client
	pipeline *pipeline.Pipeline
}

func NewUpdater(
	radar *repository.RadarRepo,
	channels *repository.ChannelRepo,
	platform *youtube.Client,
	p *pipeline.Pipeline,
) *Updater {
	return &Updater{radar: radar, channels: channels, platform: platform, pipeline: p}
}

// RunResult summarizes one radar pass.
type RunResult struct {
	RunID     int64 `json:"runId"`
	Processed int   `json:"processed"`
	Failed    int   `json:"failed"`
}

// Run executes one radar pass over every due channel. With a channelID it
// runs that single entry regardless of schedule (manual trigger). One bad
// channel does not stop the pass; it is counted and the run log records
// the last error.
func (u *Updater) Run(ctx context.Context, channelID string) (*RunResult, error) {
	runID, err := u.radar.StartRunLog(ctx)
	if err != nil {
		return nil, err
	}

	due, err := u.radar.ListDue(ctx, time.Now(), channelID)
	if err != nil {
		msg := err.Error()
		if ferr := u.radar.FinishRunLog(ctx, runID, "failed", 0, 0, &msg); ferr != nil {
			log.Printf("radar: run %d: finish log: %v", runID, ferr)
		}
		return nil, err
	}

	log.Printf("radar: run %d: %d channels due", runID, len(due))

	processed, failed := 0, 0
	var lastErr *string
	for _, entry := range due {
		if err := u.updateChannel(ctx, entry); err != nil {
			log.Printf("radar: run %d: channel %s: %v", runID, entry.ChannelID, err)
			failed++
			msg := fmt.Sprintf("%s: %v", entry.ChannelID, err)
			lastErr = &msg
			continue
		}
		processed++
	}

	status := "completed"
	if failed > 0 && processed == 0 {
		status = "failed"
	}
	if err := u.radar.FinishRunLog(ctx, runID, status, processed, failed, lastErr); err != nil {
		log.Printf("radar: run %d: finish log: %v", runID, err)
	}

	return &RunResult{RunID: runID, Processed: processed, Failed: failed}, nil
}

// updateChannel refreshes one radar entry: headline metrics inline, then a
// pipeline task that skips categorization (the niche does not drift run to
// run) and the trending fetch (the all-time popular list barely moves).
func (u *Updater) updateChannel(ctx context.Context, entry model.RadarEntry) error {
	about, err := u.platform.ChannelAbout(ctx, entry.ChannelID)
	if err != nil {
		return fmt.Errorf("fetch channel about: %w", err)
	}

	subs := int64Value(about.SubscriberCount.Int64())
	views := int64Value(about.ViewCount.Int64())
	uploads := int64Value(about.VideosCount.Int64())
	if err := u.channels.UpdateMetrics(ctx, entry.ChannelID, subs, views, uploads, time.Now()); err != nil {
		return fmt.Errorf("update metrics: %w", err)
	}

	skip := []string{model.StepCategorization, model.StepTrendingVideos}
	taskID, err := u.pipeline.StartFrom(ctx, entry.ChannelID, model.StepSocialBlade, skip)
	if err != nil {
		return fmt.Errorf("start enrichment: %w", err)
	}
	log.Printf("radar: channel %s queued as task %d", entry.ChannelID, taskID)

	now := time.Now()
	next := model.NextUpdate(entry.UpdateFrequency, now)
	if err := u.radar.MarkUpdated(ctx, entry.ID, now, next); err != nil {
		return fmt.Errorf("mark updated: %w", err)
	}
	return nil
}

func int64Value(v int64, err error) *int64 {
	if err != nil {
		return nil
	}
	return &v
}
