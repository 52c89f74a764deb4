package stats

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists snapshot batches in Postgres.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Save inserts one snapshot batch.
func (r *Repository) Save(ctx context.Context, snapshots []Snapshot) error {
	query := `
		INSERT INTO registration_snapshots (event_id, event_name, registrations, checkins, captured_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	for _, s := range snapshots {
		if _, err := r.pool.Exec(ctx, query, s.EventID, s.EventName, s.Registrations, s.CheckIns, s.CapturedAt); err != nil {
			return fmt.Errorf("failed to save snapshot for %s: %w", s.EventID, err)
		}
	}
	return nil
}

// Latest returns the most recent snapshot batch, or nil when none has
// been captured yet.
func (r *Repository) Latest(ctx context.Context) ([]Snapshot, error) {
	query := `
		SELECT event_id, event_name, registrations, checkins, captured_at
		FROM registration_snapshots
		WHERE captured_at = (SELECT MAX(captured_at) FROM registration_snapshots)
		ORDER BY event_id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []Snapshot
	for rows.Next() {
		var s Snapshot
		if err := rows.Scan(&s.EventID, &s.EventName, &s.Registrations, &s.CheckIns, &s.CapturedAt); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, rows.Err()
}
