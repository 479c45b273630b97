package model

import "time"

// Radar update frequencies.
const (
	FrequencyDaily  = "daily"
	FrequencyWeekly = "weekly"
	FrequencyManual = "manual"
)

// RadarEntry marks a channel for continuous automated re-enrichment.
type RadarEntry struct {
	ID              int64      `json:"id"`
	ChannelID       string     `json:"channelId"`
	IsActive        bool       `json:"isActive"`
	UpdateFrequency string     `json:"updateFrequency"`
	LastUpdateAt    *time.Time `json:"lastUpdateAt,omitempty"`
	NextUpdateAt    *time.Time `json:"nextUpdateAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// NextUpdate computes the next scheduled update after now for a frequency.
// Manual entries never schedule themselves; the zero time means "never".
func NextUpdate(frequency string, now time.Time) time.Time {
	switch frequency {
	case FrequencyDaily:
		return now.Add(24 * time.Hour)
	case FrequencyWeekly:
		return now.Add(7 * 24 * time.Hour)
	default:
		return time.Time{}
	}
}

// RadarRunLog records one execution of the radar updater.
type RadarRunLog struct {
	ID                int64      `json:"id"`
	StartedAt         time.Time  `json:"startedAt"`
	CompletedAt       *time.Time `json:"completedAt,omitempty"`
	Status            string     `json:"status"`
	ChannelsProcessed int        `json:"channelsProcessed"`
	ChannelsFailed    int        `json:"channelsFailed"`
	Error             *string    `json:"error,omitempty"`
}
