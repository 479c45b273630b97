package pipeline

import (
	"context"
	"fmt"
	"log"

	"github.com/hibiken/asynq"

	"github.com/blessy-devops/automedia-app-sub002/internal/config"
)

// Worker is the queue consumer side of the pipeline.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
}

// NewWorker builds the asynq server and registers every pipeline handler.
func NewWorker(cfg *config.Config, p *Pipeline) (*Worker, error) {
	redisOpt, err := asynq.ParseRedisURI(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	server := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: cfg.WorkerConcurrency,
		Queues: map[string]int{
			QueueEnrichment: 1,
		},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			log.Printf("pipeline: job %s failed: %v", task.Type(), err)
		}),
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeStarter, p.HandleStarter)
	mux.HandleFunc(TypeCategorization, p.HandleCategorization)
	mux.HandleFunc(TypeSocialBlade, p.HandleSocialBlade)
	mux.HandleFunc(TypeRecentVideos, p.HandleRecentVideos)
	mux.HandleFunc(TypeTrendingVideos, p.HandleTrendingVideos)
	mux.HandleFunc(TypeOutlierCalc, p.HandleOutlierCalc)
	mux.HandleFunc(TypeVideoCategorization, p.HandleVideoCategorization)

	return &Worker{server: server, mux: mux}, nil
}

// Start runs the worker until Shutdown is called. Blocks.
func (w *Worker) Start() error {
	log.Println("pipeline: worker starting")
	return w.server.Run(w.mux)
}

// Shutdown waits for in-flight jobs to finish.
func (w *Worker) Shutdown() {
	log.Println("pipeline: worker stopping")
	w.server.Shutdown()
}
