package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Entry is one role change: who changed whose role, from what, to what.
type Entry struct {
	ID        string    `json:"id"`
	TargetUID string    `json:"target_uid"`
	OldRole   string    `json:"old_role"`
	NewRole   string    `json:"new_role"`
	ActorUID  string    `json:"actor_uid"`
	CreatedAt time.Time `json:"created_at"`
}

// Repository persists the role-change audit trail in Postgres. The
// profile document carries only the latest updatedAt/updatedBy pair;
// this table keeps the full history.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Record appends an audit entry, assigning its id and timestamp.
func (r *Repository) Record(ctx context.Context, e *Entry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}

	query := `
		INSERT INTO role_audit (id, target_uid, old_role, new_role, actor_uid)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	err := r.pool.QueryRow(ctx, query, e.ID, e.TargetUID, e.OldRole, e.NewRole, e.ActorUID).Scan(&e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record audit entry: %w", err)
	}
	return nil
}

// ListForUser returns the role-change history for a target uid, newest
// first.
func (r *Repository) ListForUser(ctx context.Context, targetUID string) ([]*Entry, error) {
	query := `
		SELECT id, target_uid, old_role, new_role, actor_uid, created_at
		FROM role_audit
		WHERE target_uid = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, targetUID)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.TargetUID, &e.OldRole, &e.NewRole, &e.ActorUID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
