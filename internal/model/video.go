package model

import "time"

// Video statuses on the benchmark side of the house. Production statuses
// live on ProductionVideo.
const (
	VideoStatusBenchmark           = "benchmark"
	VideoStatusAddToProduction     = "add_to_production"
	VideoStatusPendingDistribution = "pending_distribution"
	VideoStatusDistributed         = "distributed"
)

// Video represents a benchmarked video and its computed performance ratios.
// A nil PerformanceVsAvgHistorical marks the video as not yet scored; the
// outlier step only picks up rows where it is null, which is what makes
// re-runs of that step no-ops for already-scored videos.
type Video struct {
	ID              int64           `json:"id"`
	YouTubeVideoID  string          `json:"youtubeVideoId"`
	ChannelID       string          `json:"channelId"`
	Title           string          `json:"title"`
	Description     *string         `json:"description,omitempty"`
	ThumbnailURL    *string         `json:"thumbnailUrl,omitempty"`
	UploadDate      *time.Time      `json:"uploadDate,omitempty"`
	Views           int64           `json:"views"`
	Likes           *int64          `json:"likes,omitempty"`
	Comments        *int64          `json:"comments,omitempty"`
	DurationSeconds int             `json:"durationSeconds"`
	Tags            []string        `json:"tags,omitempty"`
	Categorization  *Categorization `json:"categorization,omitempty"`
	Status          string          `json:"status"`

	VideoAgeDays *int `json:"videoAgeDays,omitempty"`
	ViewsPerDay  *int `json:"viewsPerDay,omitempty"`

	PerformanceVsAvgHistorical    *float64 `json:"performanceVsAvgHistorical,omitempty"`
	PerformanceVsMedianHistorical *float64 `json:"performanceVsMedianHistorical,omitempty"`
	PerformanceVsRecent14d        *float64 `json:"performanceVsRecent14d,omitempty"`
	PerformanceVsRecent30d        *float64 `json:"performanceVsRecent30d,omitempty"`
	PerformanceVsRecent90d        *float64 `json:"performanceVsRecent90d,omitempty"`
	IsOutlier                     bool     `json:"isOutlier"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NeedsScoring reports whether the outlier step should pick this video up.
func (v *Video) NeedsScoring() bool {
	return v.PerformanceVsAvgHistorical == nil
}
