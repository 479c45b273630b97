package production

import (
	"context"
	"log"

	"github.com/blessy-devops/automedia-app-sub002/internal/model"
	"github.com/blessy-devops/automedia-app-sub002/internal/repository"
)

// Turnstile admits at most one production video into the pipeline at a
// time. Every tick answers one question: is the slot free, and if so,
// which queued video gets it.
type Turnstile struct {
	repo *repository.ProductionRepo
}

func NewTurnstile(repo *repository.ProductionRepo) *Turnstile {
	return &Turnstile{repo: repo}
}

// Tick runs one turnstile pass. The claim itself is a single conditional
// update in the repository, so concurrent ticks cannot both admit a video;
// the FindProcessing read before it only exists to report which video is
// blocking.
func (t *Turnstile) Tick(ctx context.Context) (*model.TurnstileResult, error) {
	processing, err := t.repo.FindProcessing(ctx)
	if err != nil {
		return nil, err
	}
	if processing != nil {
		return &model.TurnstileResult{
			Status:            "blocked",
			ProcessingVideoID: processing.ID,
		}, nil
	}

	claimed, err := t.repo.ClaimNext(ctx)
	if err != nil {
		return nil, err
	}
	if claimed == nil {
		return &model.TurnstileResult{Status: "idle"}, nil
	}

	log.Printf("turnstile: video %d admitted, status %s", claimed.ID, claimed.Status)
	ticksStarted.Inc()
	return &model.TurnstileResult{
		Status:    "started",
		VideoID:   claimed.ID,
		NewStatus: claimed.Status,
	}, nil
}

// Release clears the turnstile lock on a video and records its outcome
// status. Used when a production stage finishes or an operator cancels.
func (t *Turnstile) Release(ctx context.Context, id int64, status string) error {
	if err := t.repo.Release(ctx, id, status); err != nil {
		return err
	}
	log.Printf("turnstile: video %d released with status %s", id, status)
	return nil
}
