package model

import "time"

// Categorization holds the AI-assigned content classification of a channel.
type Categorization struct {
	Niche      string `json:"niche"`
	Subniche   string `json:"subniche"`
	Microniche string `json:"microniche,omitempty"`
	Category   string `json:"category"`
	Format     string `json:"format"`
}

// Channel represents a benchmarked YouTube channel with its latest metrics.
type Channel struct {
	ID               int64           `json:"id"`
	ChannelID        string          `json:"channelId"`
	ChannelName      *string         `json:"channelName,omitempty"`
	Description      *string         `json:"description,omitempty"`
	SubscriberCount  *int64          `json:"subscriberCount,omitempty"`
	TotalViews       *int64          `json:"totalViews,omitempty"`
	VideoUploadCount *int64          `json:"videoUploadCount,omitempty"`
	CreationDate     *time.Time      `json:"creationDate,omitempty"`
	Country          *string         `json:"country,omitempty"`
	CustomURL        *string         `json:"customUrl,omitempty"`
	ThumbnailURL     *string         `json:"thumbnailUrl,omitempty"`
	IsVerified       bool            `json:"isVerified"`
	Categorization   *Categorization `json:"categorization,omitempty"`
	MetricDate       *time.Time      `json:"metricDate,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// ChannelResponse is the API response for channel lookups, including the
// baseline reference values the dashboard renders next to the metrics.
type ChannelResponse struct {
	ChannelID        string          `json:"channelId"`
	ChannelName      string          `json:"channelName,omitempty"`
	SubscriberCount  int64           `json:"subscriberCount"`
	TotalViews       int64           `json:"totalViews"`
	VideoUploadCount int64           `json:"videoUploadCount"`
	IsVerified       bool            `json:"isVerified"`
	Categorization   *Categorization `json:"categorization,omitempty"`
	Baseline         *BaselineStats  `json:"baseline,omitempty"`
	MetricDate       string          `json:"metricDate,omitempty"`
	UpdatedAt        string          `json:"updatedAt"`
}

// StatsResponse is the API response for dashboard-level statistics.
type StatsResponse struct {
	TotalChannels     int `json:"totalChannels"`
	TotalVideos       int `json:"totalVideos"`
	OutliersLast7d    int `json:"outliersLast7d"`
	CloneWorthyTotal  int `json:"cloneWorthyTotal"`
	ChannelsOnRadar   int `json:"channelsOnRadar"`
	TasksProcessing   int `json:"tasksProcessing"`
	EnrichedToday     int `json:"enrichedToday"`
	ProductionQueued  int `json:"productionQueued"`
	ProductionInFlight int `json:"productionInFlight"`
}
