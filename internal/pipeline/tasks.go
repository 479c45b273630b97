package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// Task types for the enrichment step chain. Each step is its own queue job;
// a step enqueues its successor on success, so steps of one task never run
// concurrently while unrelated channels enrich in parallel.
const (
	TypeStarter             = "enrich:starter"
	TypeCategorization      = "enrich:categorization"
	TypeSocialBlade         = "enrich:socialblade"
	TypeRecentVideos        = "enrich:recent_videos"
	TypeTrendingVideos      = "enrich:trending_videos"
	TypeOutlierCalc         = "enrich:outlier_calc"
	TypeVideoCategorization = "enrich:video_categorization"
)

// QueueEnrichment is the asynq queue all pipeline jobs run on.
const QueueEnrichment = "enrichment"

// Payload identifies all pipeline state a step needs: the channel and the
// task tracking this run. Explicit marks a manual retry, which is the only
// way a completed step may be claimed again.
type Payload struct {
	ChannelID string `json:"channelId"`
	TaskID    int64  `json:"taskId"`
	Explicit  bool   `json:"explicit,omitempty"`
}

// VideoPayload is the fan-out payload for per-video categorization.
type VideoPayload struct {
	YouTubeVideoID string   `json:"youtubeVideoId"`
	ChannelID      string   `json:"channelId"`
	Title          string   `json:"title"`
	Tags           []string `json:"tags,omitempty"`
}

// Enqueuer submits pipeline jobs to the queue. Retries are disabled at the
// queue level: a failed step stays failed until an operator re-triggers it,
// matching the task row's no-automatic-retry contract.
type Enqueuer struct {
	client *asynq.Client
}

func NewEnqueuer(client *asynq.Client) *Enqueuer {
	return &Enqueuer{client: client}
}

// Enqueue submits one step job.
func (e *Enqueuer) Enqueue(ctx context.Context, taskType string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", taskType, err)
	}

	_, err = e.client.EnqueueContext(ctx, asynq.NewTask(taskType, body),
		asynq.Queue(QueueEnrichment),
		asynq.MaxRetry(0),
	)
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", taskType, err)
	}
	return nil
}
