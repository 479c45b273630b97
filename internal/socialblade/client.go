package socialblade

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"
)

// ChannelStats aggregates a channel's view totals over the recent windows.
// Available is false for channels the provider has not indexed yet; callers
// treat that as a recoverable partial-data state, not an error.
type ChannelStats struct {
	TotalViews14d int64
	TotalViews30d int64
	TotalViews90d int64
	Available     bool
}

// DailyEntry is one day of channel history from the provider.
type DailyEntry struct {
	Date  string `json:"date"`
	Views int64  `json:"views"`
}

type statsResponse struct {
	Data struct {
		Daily []DailyEntry `json:"daily"`
	} `json:"data"`
}

// Client fetches channel statistics from the SocialBlade API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Stats fetches the daily history for a channel and folds it into window
// totals. A 404 from the provider means the channel is not indexed; that
// returns Available=false with no error.
func (c *Client) Stats(ctx context.Context, channelID string) (*ChannelStats, error) {
	endpoint := fmt.Sprintf("%s?query=%s&history=extended", c.baseURL, url.QueryEscape(channelID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("token", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("socialblade request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return &ChannelStats{Available: false}, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("socialblade returned %d: %s", resp.StatusCode, string(body))
	}

	var parsed statsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode socialblade response: %w", err)
	}

	return FoldDaily(parsed.Data.Daily, time.Now()), nil
}

// FoldDaily sums view deltas over the trailing 14/30/90-day windows. The
// provider reports cumulative totals per day, so the window total is the
// difference between the newest entry and the entry at the window's start.
func FoldDaily(daily []DailyEntry, now time.Time) *ChannelStats {
	if len(daily) == 0 {
		return &ChannelStats{Available: false}
	}

	type point struct {
		date  time.Time
		views int64
	}
	points := make([]point, 0, len(daily))
	for _, d := range daily {
		ts, err := time.Parse("2006-01-02", d.Date)
		if err != nil {
			continue
		}
		points = append(points, point{date: ts, views: d.Views})
	}
	if len(points) == 0 {
		return &ChannelStats{Available: false}
	}
	sort.Slice(points, func(i, j int) bool { return points[i].date.Before(points[j].date) })

	latest := points[len(points)-1]
	windowTotal := func(days int) int64 {
		cutoff := now.AddDate(0, 0, -days)
		for _, p := range points {
			if !p.date.Before(cutoff) {
				total := latest.views - p.views
				if total < 0 {
					return 0
				}
				return total
			}
		}
		return 0
	}

	return &ChannelStats{
		TotalViews14d: windowTotal(14),
		TotalViews30d: windowTotal(30),
		TotalViews90d: windowTotal(90),
		Available:     true,
	}
}
