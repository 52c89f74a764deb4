package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/mithibai-cc/ats-backend/internal/checkin"
	"github.com/mithibai-cc/ats-backend/internal/events"
	"github.com/mithibai-cc/ats-backend/internal/ledger"
)

// Snapshot is one event's registration and check-in totals at a point
// in time. Drives the committee dashboard counters.
type Snapshot struct {
	EventID       string    `json:"event_id"`
	EventName     string    `json:"event_name"`
	Registrations int64     `json:"registrations"`
	CheckIns      int64     `json:"checkins"`
	CapturedAt    time.Time `json:"captured_at"`
}

// Snapshotter computes per-event totals from the ledger's per-event
// index and the check-in records.
type Snapshotter struct {
	ledger   *ledger.Repository
	checkins *checkin.Repository
	repo     *Repository
}

func NewSnapshotter(l *ledger.Repository, c *checkin.Repository, repo *Repository) *Snapshotter {
	return &Snapshotter{ledger: l, checkins: c, repo: repo}
}

// Compute builds a snapshot of the current totals for every catalog
// event without persisting it.
func (s *Snapshotter) Compute(ctx context.Context) ([]Snapshot, error) {
	capturedAt := time.Now().UTC()

	var snapshots []Snapshot
	for _, ev := range events.All() {
		regs, err := s.ledger.CountForEvent(ctx, ev.ID)
		if err != nil {
			return nil, fmt.Errorf("count registrations for %s: %w", ev.ID, err)
		}
		checks, err := s.checkins.Count(ctx, ev.ID)
		if err != nil {
			return nil, fmt.Errorf("count check-ins for %s: %w", ev.ID, err)
		}

		snapshots = append(snapshots, Snapshot{
			EventID:       ev.ID,
			EventName:     ev.Name,
			Registrations: regs,
			CheckIns:      checks,
			CapturedAt:    capturedAt,
		})
	}
	return snapshots, nil
}

// Run computes and persists a snapshot batch.
func (s *Snapshotter) Run(ctx context.Context) error {
	snapshots, err := s.Compute(ctx)
	if err != nil {
		return err
	}
	return s.repo.Save(ctx, snapshots)
}
