package stats

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler periodically persists registration snapshots.
type Scheduler struct {
	snapshotter *Snapshotter
	cron        *cron.Cron
}

func NewScheduler(snapshotter *Snapshotter) *Scheduler {
	return &Scheduler{snapshotter: snapshotter}
}

// Start begins the snapshot job (every 5 minutes).
func (s *Scheduler) Start() {
	c := cron.New(cron.WithSeconds())

	_, err := c.AddFunc("0 */5 * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := s.snapshotter.Run(ctx); err != nil {
			log.Printf("[warn] operation=stats_snapshot error=%v", err)
			return
		}
		log.Printf("[info] operation=stats_snapshot snapshot saved")
	})
	if err != nil {
		log.Printf("Failed to create snapshot cron job: %v", err)
		return
	}

	log.Println("Stats scheduler started (snapshot every 5 minutes)")
	c.Start()
	s.cron = c
}

// Stop halts the snapshot job.
func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}
