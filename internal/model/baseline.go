package model

import "time"

// BaselineStats aggregates a channel's recent view totals, one row per channel.
// IsAvailable is false for channels the stats provider has not indexed yet;
// momentum ratios are simply left unscored in that case rather than erroring.
type BaselineStats struct {
	ChannelID                      string     `json:"channelId"`
	TotalViews14d                  *int64     `json:"totalViews14d,omitempty"`
	TotalViews30d                  *int64     `json:"totalViews30d,omitempty"`
	TotalViews90d                  *int64     `json:"totalViews90d,omitempty"`
	MedianViewsPerVideoHistorical  *float64   `json:"medianViewsPerVideoHistorical,omitempty"`
	IsAvailable                    bool       `json:"isAvailable"`
	UpdatedAt                      time.Time  `json:"updatedAt"`
}

// DailyAverages converts the window totals into per-day averages, the form
// the scoring engine consumes. Missing or unavailable windows yield nil.
func (b *BaselineStats) DailyAverages() (d14, d30, d90 *float64) {
	if b == nil || !b.IsAvailable {
		return nil, nil, nil
	}
	if b.TotalViews14d != nil {
		v := float64(*b.TotalViews14d) / 14
		d14 = &v
	}
	if b.TotalViews30d != nil {
		v := float64(*b.TotalViews30d) / 30
		d30 = &v
	}
	if b.TotalViews90d != nil {
		v := float64(*b.TotalViews90d) / 90
		d90 = &v
	}
	return d14, d30, d90
}
