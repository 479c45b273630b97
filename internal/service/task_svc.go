package service

import (
	"context"
	"encoding/json"
	"log"

	"github.com/blessy-devops/automedia-app-sub002/internal/model"
	"github.com/blessy-devops/automedia-app-sub002/internal/repository"
)

type TaskService struct {
	tasks *repository.TaskRepo
	cache *CacheService
}

func NewTaskService(tasks *repository.TaskRepo, cache *CacheService) *TaskService {
	return &TaskService{tasks: tasks, cache: cache}
}

// Get returns the task with its per-step states. The dashboard polls this
// while a pipeline runs, so responses are briefly cached.
func (s *TaskService) Get(ctx context.Context, taskID int64) (*model.Task, error) {
	if s.cache != nil {
		cached, err := s.cache.GetTask(ctx, taskID)
		if err != nil {
			log.Printf("cache: task get error: %v", err)
		} else if cached != nil {
			var task model.Task
			if err := json.Unmarshal(cached, &task); err == nil {
				return &task, nil
			}
		}
	}

	task, err := s.tasks.Get(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, nil
	}

	if s.cache != nil {
		if err := s.cache.SetTask(ctx, taskID, task); err != nil {
			log.Printf("cache: task set error: %v", err)
		}
	}
	return task, nil
}
