package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Sort orders accepted by the channel videos listing.
const (
	SortNewest  = "newest"
	SortPopular = "popular"
)

// ChannelAbout is the channel metadata payload returned by the platform API.
// Count fields arrive as strings or numbers depending on API version, so
// they are kept raw and parsed by the caller.
type ChannelAbout struct {
	ChannelID       string          `json:"channelId"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	SubscriberCount json.Number     `json:"subscriberCount"`
	ViewCount       json.Number     `json:"viewCount"`
	VideosCount     json.Number     `json:"videosCount"`
	JoinedDate      string          `json:"joinedDate"`
	Country         string          `json:"country"`
	CustomURL       string          `json:"customUrl"`
	ChannelHandle   string          `json:"channelHandle"`
	Avatar          []Thumbnail     `json:"avatar"`
	IsVerified      bool            `json:"isVerified"`
}

// VideoItem is one entry of the channel videos listing.
type VideoItem struct {
	Type          string      `json:"type"`
	VideoID       string      `json:"videoId"`
	Title         string      `json:"title"`
	Description   string      `json:"description"`
	LengthSeconds int         `json:"lengthSeconds"`
	LengthText    string      `json:"lengthText"`
	ViewCount     json.Number `json:"viewCount"`
	ViewCountText string      `json:"viewCountText"`
	PublishedAt   string      `json:"publishedAt"`
	PublishDate   string      `json:"publishDate"`
	Thumbnail     []Thumbnail `json:"thumbnail"`
	Keywords      []string    `json:"keywords"`
}

// DurationSeconds resolves the video length from whichever field the API
// populated.
func (v *VideoItem) DurationSeconds() int {
	if v.LengthSeconds > 0 {
		return v.LengthSeconds
	}
	return ParseDuration(v.LengthText)
}

// Views resolves the view count from whichever field the API populated.
func (v *VideoItem) Views() int64 {
	if n, err := v.ViewCount.Int64(); err == nil && n > 0 {
		return n
	}
	if s := v.ViewCount.String(); s != "" && s != "0" {
		if n := ParseViewCount(s); n > 0 {
			return n
		}
	}
	return ParseViewCount(v.ViewCountText)
}

// UploadDate resolves the upload timestamp from whichever field the API
// populated. Returns the zero time when none parses.
func (v *VideoItem) UploadDate() time.Time {
	for _, raw := range []string{v.PublishedAt, v.PublishDate} {
		if raw == "" {
			continue
		}
		for _, layout := range []string{time.RFC3339, "2006-01-02"} {
			if ts, err := time.Parse(layout, raw); err == nil {
				return ts
			}
		}
	}
	return time.Time{}
}

type videosResponse struct {
	Data []VideoItem `json:"data"`
}

// Client calls the RapidAPI YouTube gateway.
type Client struct {
	host   string
	apiKey string
	http   *http.Client
}

func NewClient(host, apiKey string) *Client {
	return &Client{
		host:   host,
		apiKey: apiKey,
		http:   &http.Client{Timeout: 30 * time.Second},
	}
}

// ChannelAbout fetches channel metadata by external channel ID.
func (c *Client) ChannelAbout(ctx context.Context, channelID string) (*ChannelAbout, error) {
	var about ChannelAbout
	endpoint := fmt.Sprintf("https://%s/channel/about?id=%s", c.host, url.QueryEscape(channelID))
	if err := c.get(ctx, endpoint, &about); err != nil {
		return nil, err
	}
	return &about, nil
}

// ChannelVideos fetches the channel's video listing with the given sort
// order (newest or popular).
func (c *Client) ChannelVideos(ctx context.Context, channelID, sortBy string) ([]VideoItem, error) {
	var resp videosResponse
	endpoint := fmt.Sprintf("https://%s/channel/videos?id=%s&sort_by=%s", c.host, url.QueryEscape(channelID), url.QueryEscape(sortBy))
	if err := c.get(ctx, endpoint, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (c *Client) get(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("X-RapidAPI-Host", c.host)
	req.Header.Set("X-RapidAPI-Key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("platform api request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("platform api returned %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode platform api response: %w", err)
	}
	return nil
}
