package production

import (
	"context"
	"fmt"
	"log"

	"github.com/blessy-devops/automedia-app-sub002/internal/model"
	"github.com/blessy-devops/automedia-app-sub002/internal/repository"
)

// Distributor moves approved benchmark videos toward production: the queue
// control tick promotes one video at a time to pending_distribution, and
// Distribute fans a promoted video out to destination accounts.
type Distributor struct {
	videos     *repository.VideoRepo
	production *repository.ProductionRepo
}

func NewDistributor(videos *repository.VideoRepo, production *repository.ProductionRepo) *Distributor {
	return &Distributor{videos: videos, production: production}
}

// QueueControlTick promotes the oldest add_to_production video to
// pending_distribution. Returns nil when nothing is waiting.
func (d *Distributor) QueueControlTick(ctx context.Context) (*model.Video, error) {
	v, err := d.videos.PromoteOldestToDistribution(ctx)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	log.Printf("distribution: video %d (%s) promoted to %s", v.ID, v.YouTubeVideoID, v.Status)
	promotionsTotal.Inc()
	return v, nil
}

// Distribute fans one pending video out into production rows, one per
// destination account, then marks the source video distributed. A video
// must be in pending_distribution first; distributing straight from
// add_to_production would skip the FIFO queue.
func (d *Distributor) Distribute(ctx context.Context, videoID int64, title string, accountIDs []string) (int, error) {
	if len(accountIDs) == 0 {
		return 0, fmt.Errorf("no destination accounts given")
	}

	v, err := d.videos.FindByID(ctx, videoID)
	if err != nil {
		return 0, err
	}
	if v == nil {
		return 0, fmt.Errorf("video %d not found", videoID)
	}
	if v.Status != model.VideoStatusPendingDistribution {
		return 0, fmt.Errorf("video %d is %s, want %s", videoID, v.Status, model.VideoStatusPendingDistribution)
	}

	if title == "" {
		title = v.Title
	}

	created, err := d.production.CreateBatch(ctx, v.ID, title, accountIDs)
	if err != nil {
		return created, err
	}

	if err := d.videos.SetStatus(ctx, v.ID, model.VideoStatusDistributed); err != nil {
		return created, fmt.Errorf("mark video %d distributed: %w", v.ID, err)
	}

	log.Printf("distribution: video %d fanned out to %d accounts", v.ID, created)
	return created, nil
}
