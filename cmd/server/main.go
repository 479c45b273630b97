package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/hibiken/asynq"
	"github.com/robfig/cron/v3"

	"github.com/blessy-devops/automedia-app-sub002/internal/classifier"
	"github.com/blessy-devops/automedia-app-sub002/internal/config"
	"github.com/blessy-devops/automedia-app-sub002/internal/db"
	"github.com/blessy-devops/automedia-app-sub002/internal/handler"
	"github.com/blessy-devops/automedia-app-sub002/internal/middleware"
	"github.com/blessy-devops/automedia-app-sub002/internal/pipeline"
	"github.com/blessy-devops/automedia-app-sub002/internal/production"
	"github.com/blessy-devops/automedia-app-sub002/internal/radar"
	"github.com/blessy-devops/automedia-app-sub002/internal/repository"
	"github.com/blessy-devops/automedia-app-sub002/internal/router"
	"github.com/blessy-devops/automedia-app-sub002/internal/service"
	"github.com/blessy-devops/automedia-app-sub002/internal/socialblade"
	"github.com/blessy-devops/automedia-app-sub002/internal/youtube"
)

func main() {
	cfg := config.Load()
	middleware.InitLogger(cfg.LogLevel, "automedia-api")

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, int32(cfg.DBMaxConns), int32(cfg.DBMinConns))
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer pool.Close()

	handler.InitMetrics(pool)

	cache := service.NewCacheService(cfg.RedisURL)
	defer cache.Close()

	// Repositories
	channelRepo := repository.NewChannelRepo(pool)
	videoRepo := repository.NewVideoRepo(pool)
	baselineRepo := repository.NewBaselineRepo(pool)
	taskRepo := repository.NewTaskRepo(pool)
	radarRepo := repository.NewRadarRepo(pool)
	productionRepo := repository.NewProductionRepo(pool)

	// External providers
	platform := youtube.NewClient(cfg.RapidAPIHost, cfg.RapidAPIKey)
	stats := socialblade.NewClient(cfg.SocialBladeURL, cfg.SocialBladeKey)
	classify := classifier.NewClient(cfg.ClassifierURL, cfg.ClassifierKey)

	// Queue producer
	redisOpt, err := asynq.ParseRedisURI(cfg.RedisURL)
	if err != nil {
		log.Fatalf("invalid redis url: %v", err)
	}
	asynqClient := asynq.NewClient(redisOpt)
	defer asynqClient.Close()

	pipe := pipeline.New(
		channelRepo, videoRepo, baselineRepo, taskRepo,
		platform, stats, classify,
		pipeline.NewEnqueuer(asynqClient), cfg,
	)

	// Queue consumer
	worker, err := pipeline.NewWorker(cfg, pipe)
	if err != nil {
		log.Fatalf("failed to build worker: %v", err)
	}
	go func() {
		if err := worker.Start(); err != nil {
			log.Fatalf("worker stopped: %v", err)
		}
	}()

	turnstile := production.NewTurnstile(productionRepo)
	distributor := production.NewDistributor(videoRepo, productionRepo)
	updater := radar.NewUpdater(radarRepo, channelRepo, platform, pipe)

	// Schedulers
	scheduler := cron.New()
	mustSchedule(scheduler, cfg.TurnstileCron, "turnstile", func() {
		tickCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := turnstile.Tick(tickCtx); err != nil {
			log.Printf("turnstile: scheduled tick: %v", err)
		}
	})
	mustSchedule(scheduler, cfg.QueueControlCron, "queue-control", func() {
		tickCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := distributor.QueueControlTick(tickCtx); err != nil {
			log.Printf("distribution: scheduled tick: %v", err)
		}
	})
	mustSchedule(scheduler, cfg.RadarCron, "radar", func() {
		runCtx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()
		if _, err := updater.Run(runCtx, ""); err != nil {
			log.Printf("radar: scheduled run: %v", err)
		}
	})
	scheduler.Start()

	// HTTP server
	app := fiber.New(fiber.Config{
		AppName:      "AutoMedia Benchmark API",
		ServerHeader: "AutoMedia",
	})

	router.Setup(app, &router.Handlers{
		Health:     handler.NewHealthHandler(pool, cache.Client()),
		Enrichment: handler.NewEnrichmentHandler(pipe),
		Task:       handler.NewTaskHandler(service.NewTaskService(taskRepo, cache)),
		Channel:    handler.NewChannelHandler(service.NewChannelService(channelRepo, baselineRepo, videoRepo, cache)),
		Stats:      handler.NewStatsHandler(service.NewStatsService(channelRepo, videoRepo, taskRepo, radarRepo, productionRepo, cache, cfg)),
		Production: handler.NewProductionHandler(turnstile, distributor),
		Radar:      handler.NewRadarHandler(updater),
	}, cfg.CORSOrigins)

	go func() {
		log.Printf("benchmark backend starting on :%s (env=%s)", cfg.Port, cfg.Environment)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("server stopped: %v", err)
		}
	}()

	// Graceful shutdown: stop taking requests, drain the queue workers,
	// let scheduled jobs finish their current run.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down")
	cronCtx := scheduler.Stop()
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	worker.Shutdown()
	<-cronCtx.Done()
	log.Println("shutdown complete")
}

func mustSchedule(scheduler *cron.Cron, spec, name string, fn func()) {
	if _, err := scheduler.AddFunc(spec, fn); err != nil {
		log.Fatalf("invalid %s cron spec %q: %v", name, spec, err)
	}
}
