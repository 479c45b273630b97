package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/blessy-devops/automedia-app-sub002/internal/model"
)

// ChannelFinder is the slice of ChannelRepo the service needs. A nil result
// with a nil error means the channel does not exist.
type ChannelFinder interface {
	FindByChannelID(ctx context.Context, channelID string) (*model.Channel, error)
}

type BaselineFinder interface {
	Find(ctx context.Context, channelID string) (*model.BaselineStats, error)
}

type VideoLister interface {
	ListByChannel(ctx context.Context, channelID string, outliersOnly bool, limit int) ([]model.Video, error)
}

type ChannelService struct {
	channels  ChannelFinder
	baselines BaselineFinder
	videos    VideoLister
	cache     *CacheService
}

func NewChannelService(
	channels ChannelFinder,
	baselines BaselineFinder,
	videos VideoLister,
	cache *CacheService,
) *ChannelService {
	return &ChannelService{channels: channels, baselines: baselines, videos: videos, cache: cache}
}

// Lookup returns the channel response for a given channel ID.
// Uses cache-aside: check Redis first, fall back to DB, then populate cache.
// Returns nil when the channel is unknown.
func (s *ChannelService) Lookup(ctx context.Context, channelID string) (*model.ChannelResponse, error) {
	if s.cache != nil {
		cached, err := s.cache.GetChannel(ctx, channelID)
		if err != nil {
			log.Printf("cache: channel get error: %v", err)
		} else if cached != nil {
			var resp model.ChannelResponse
			if err := json.Unmarshal(cached, &resp); err == nil {
				return &resp, nil
			}
		}
	}

	ch, err := s.channels.FindByChannelID(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if ch == nil {
		return nil, nil
	}

	baseline, err := s.baselines.Find(ctx, channelID)
	if err != nil {
		return nil, err
	}

	resp := &model.ChannelResponse{
		ChannelID:        ch.ChannelID,
		SubscriberCount:  int64Or0(ch.SubscriberCount),
		TotalViews:       int64Or0(ch.TotalViews),
		VideoUploadCount: int64Or0(ch.VideoUploadCount),
		IsVerified:       ch.IsVerified,
		Categorization:   ch.Categorization,
		Baseline:         baseline,
		UpdatedAt:        ch.UpdatedAt.Format(time.RFC3339),
	}
	if ch.ChannelName != nil {
		resp.ChannelName = *ch.ChannelName
	}
	if ch.MetricDate != nil {
		resp.MetricDate = ch.MetricDate.Format("2006-01-02")
	}

	if s.cache != nil {
		if err := s.cache.SetChannel(ctx, channelID, resp); err != nil {
			log.Printf("cache: channel set error: %v", err)
		}
	}

	return resp, nil
}

// Videos lists a channel's stored videos, optionally outliers only.
func (s *ChannelService) Videos(ctx context.Context, channelID string, outliersOnly bool, limit int) ([]model.Video, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.videos.ListByChannel(ctx, channelID, outliersOnly, limit)
}

func int64Or0(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}
