package model

import (
	"encoding/json"
	"time"
)

// StepStatus is the lifecycle state of a single pipeline step.
type StepStatus string

const (
	StepPending    StepStatus = "pending"
	StepProcessing StepStatus = "processing"
	StepCompleted  StepStatus = "completed"
	StepFailed     StepStatus = "failed"
)

// Pipeline step names, in execution order. The starter is not tracked as a
// step of its own; it owns the task's overall started_at instead.
const (
	StepCategorization  = "categorization"
	StepSocialBlade     = "socialblade"
	StepRecentVideos    = "recent_videos"
	StepTrendingVideos  = "trending_videos"
	StepOutlierAnalysis = "outlier_analysis"
)

// StepOrder lists the steps in the order the pipeline runs them.
var StepOrder = []string{
	StepCategorization,
	StepSocialBlade,
	StepRecentVideos,
	StepTrendingVideos,
	StepOutlierAnalysis,
}

// CanTransition reports whether a step may move from one status to another.
// Transitions are forward-only: pending → processing → completed|failed.
// A failed step may be claimed for processing again (manual retry); a
// completed step may only be re-claimed through an explicit re-invocation.
func CanTransition(from, to StepStatus, explicit bool) bool {
	switch to {
	case StepProcessing:
		if from == StepPending || from == StepFailed {
			return true
		}
		return from == StepCompleted && explicit
	case StepCompleted, StepFailed:
		return from == StepProcessing
	default:
		return false
	}
}

// StepState is the full observable state of one step on a task row.
type StepState struct {
	Status      StepStatus      `json:"status"`
	StartedAt   *time.Time      `json:"startedAt,omitempty"`
	CompletedAt *time.Time      `json:"completedAt,omitempty"`
	Result      json.RawMessage `json:"result,omitempty"`
	Error       *string         `json:"error,omitempty"`
}

// Task represents one enrichment run for a channel. Each step keeps its own
// state so the dashboard can show per-step progress, and OverallStatus is the
// single field callers poll: it goes completed only when the outlier step
// finishes, and failed when any step fails terminally.
type Task struct {
	ID            int64                `json:"id"`
	ChannelID     string               `json:"channelId"`
	OverallStatus StepStatus           `json:"overallStatus"`
	Steps         map[string]StepState `json:"steps"`
	RetryCount    int                  `json:"retryCount"`
	StartedAt     *time.Time           `json:"startedAt,omitempty"`
	CompletedAt   *time.Time           `json:"completedAt,omitempty"`
	CreatedAt     time.Time            `json:"createdAt"`
}

// StepResult is the JSON summary a step writes on completion.
type StepResult map[string]any
