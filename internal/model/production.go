package model

import "time"

// Production statuses. A video enters the queue as queued and walks the
// production stages once the turnstile claims it; create_title is the first
// stage. canceled, completed, scheduled and published are terminal for the
// purposes of the turnstile check.
const (
	ProductionQueued          = "queued"
	ProductionCreateTitle     = "create_title"
	ProductionProcessing      = "processing"
	ProductionWaiting         = "waiting"
	ProductionPendingApproval = "pending_approval"
	ProductionOnHold          = "on_hold"
	ProductionFailed          = "failed"
	ProductionCompleted       = "completed"
	ProductionCanceled        = "canceled"
	ProductionScheduled       = "scheduled"
	ProductionPublished       = "published"
)

// ProductionVideo is one video queued into or moving through the production
// system, one row per destination account. IsProcessing is the turnstile
// lock: at most one row may hold it at any time.
type ProductionVideo struct {
	ID               int64     `json:"id"`
	BenchmarkVideoID int64     `json:"benchmarkVideoId"`
	AccountID        string    `json:"accountId"`
	Title            string    `json:"title"`
	Status           string    `json:"status"`
	IsProcessing     bool      `json:"isProcessing"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// TurnstileResult is the outcome of one turnstile tick.
type TurnstileResult struct {
	Status            string `json:"status"` // blocked | idle | started
	ProcessingVideoID int64  `json:"processing_video_id,omitempty"`
	VideoID           int64  `json:"video_id,omitempty"`
	NewStatus         string `json:"new_status,omitempty"`
}
