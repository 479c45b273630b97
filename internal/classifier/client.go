package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/blessy-devops/automedia-app-sub002/internal/model"
)

// Client calls the external AI classification service that assigns
// niche/subniche/category/format labels to channels and videos.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 60 * time.Second},
	}
}

type channelRequest struct {
	ChannelID   string   `json:"channelId"`
	ChannelName string   `json:"channelName,omitempty"`
	Description string   `json:"description,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
	VideoTitles []string `json:"videoTitles,omitempty"`
}

type videoRequest struct {
	VideoID   string   `json:"videoId"`
	ChannelID string   `json:"channelId"`
	Title     string   `json:"title"`
	Tags      []string `json:"tags,omitempty"`
}

// ClassifyChannel returns the content classification for a channel based on
// its metadata and a sample of its video titles.
func (c *Client) ClassifyChannel(ctx context.Context, channelID, name, description string, keywords, videoTitles []string) (*model.Categorization, error) {
	req := channelRequest{
		ChannelID:   channelID,
		ChannelName: name,
		Description: description,
		Keywords:    keywords,
		VideoTitles: videoTitles,
	}
	return c.classify(ctx, "/v1/classify/channel", req)
}

// ClassifyVideo returns the content classification for a single video.
func (c *Client) ClassifyVideo(ctx context.Context, videoID, channelID, title string, tags []string) (*model.Categorization, error) {
	req := videoRequest{
		VideoID:   videoID,
		ChannelID: channelID,
		Title:     title,
		Tags:      tags,
	}
	return c.classify(ctx, "/v1/classify/video", req)
}

func (c *Client) classify(ctx context.Context, path string, payload any) (*model.Categorization, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode classify request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("classifier request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("classifier returned %d: %s", resp.StatusCode, string(raw))
	}

	var cat model.Categorization
	if err := json.NewDecoder(resp.Body).Decode(&cat); err != nil {
		return nil, fmt.Errorf("decode classifier response: %w", err)
	}
	return &cat, nil
}
