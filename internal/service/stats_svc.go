package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/blessy-devops/automedia-app-sub002/internal/config"
	"github.com/blessy-devops/automedia-app-sub002/internal/model"
	"github.com/blessy-devops/automedia-app-sub002/internal/repository"
)

type StatsService struct {
	channels   *repository.ChannelRepo
	videos     *repository.VideoRepo
	tasks      *repository.TaskRepo
	radar      *repository.RadarRepo
	production *repository.ProductionRepo
	cache      *CacheService
	cfg        *config.Config
}

func NewStatsService(
	channels *repository.ChannelRepo,
	videos *repository.VideoRepo,
	tasks *repository.TaskRepo,
	radar *repository.RadarRepo,
	production *repository.ProductionRepo,
	cache *CacheService,
	cfg *config.Config,
) *StatsService {
	return &StatsService{
		channels:   channels,
		videos:     videos,
		tasks:      tasks,
		radar:      radar,
		production: production,
		cache:      cache,
		cfg:        cfg,
	}
}

// Dashboard assembles the dashboard statistics. Each count is independent;
// the whole response is cached for a minute because the dashboard refreshes
// far more often than these numbers move.
func (s *StatsService) Dashboard(ctx context.Context) (*model.StatsResponse, error) {
	if s.cache != nil {
		cached, err := s.cache.GetStats(ctx)
		if err != nil {
			log.Printf("cache: stats get error: %v", err)
		} else if cached != nil {
			var resp model.StatsResponse
			if err := json.Unmarshal(cached, &resp); err == nil {
				return &resp, nil
			}
		}
	}

	now := time.Now()
	resp := &model.StatsResponse{}

	var err error
	if resp.TotalChannels, err = s.channels.Count(ctx); err != nil {
		return nil, err
	}
	if resp.TotalVideos, err = s.videos.Count(ctx); err != nil {
		return nil, err
	}
	if resp.OutliersLast7d, err = s.videos.CountOutliersSince(ctx, now.Add(-7*24*time.Hour)); err != nil {
		return nil, err
	}
	if resp.CloneWorthyTotal, err = s.videos.CountCloneWorthy(ctx, s.cfg.CloneWorthyThreshold); err != nil {
		return nil, err
	}
	if resp.ChannelsOnRadar, err = s.radar.CountActive(ctx); err != nil {
		return nil, err
	}
	if resp.TasksProcessing, err = s.tasks.CountByOverallStatus(ctx, model.StepProcessing); err != nil {
		return nil, err
	}
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if resp.EnrichedToday, err = s.tasks.CountCompletedSince(ctx, midnight); err != nil {
		return nil, err
	}
	if resp.ProductionQueued, err = s.production.CountByStatus(ctx, model.ProductionQueued); err != nil {
		return nil, err
	}
	if resp.ProductionInFlight, err = s.production.CountProcessing(ctx); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetStats(ctx, resp); err != nil {
			log.Printf("cache: stats set error: %v", err)
		}
	}
	return resp, nil
}
