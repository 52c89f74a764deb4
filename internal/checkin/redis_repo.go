package checkin

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const recordHashPrefix = "eventCheckins_" // Hash of uid -> check-in record per event: eventCheckins_{event_id}

// Repository persists check-in records in Redis, one hash per event
// keyed by attendee uid so a repeated scan finds the first record.
type Repository struct {
	client *redis.Client
}

func NewRepository(client *redis.Client) *Repository {
	return &Repository{client: client}
}

// Get returns the stored check-in for uid at eventID, or nil when the
// attendee has not been scanned yet.
func (r *Repository) Get(ctx context.Context, eventID, uid string) (*CheckIn, error) {
	data, err := r.client.HGet(ctx, r.key(eventID), uid).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get check-in: %w", err)
	}

	var rec CheckIn
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal check-in: %w", err)
	}
	return &rec, nil
}

// Add stores a new check-in record.
func (r *Repository) Add(ctx context.Context, rec *CheckIn) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal check-in: %w", err)
	}

	if err := r.client.HSet(ctx, r.key(rec.EventID), rec.UID, data).Err(); err != nil {
		return fmt.Errorf("failed to persist check-in: %w", err)
	}
	return nil
}

// List returns every check-in recorded for eventID.
func (r *Repository) List(ctx context.Context, eventID string) ([]*CheckIn, error) {
	entries, err := r.client.HGetAll(ctx, r.key(eventID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list check-ins: %w", err)
	}

	records := make([]*CheckIn, 0, len(entries))
	for uid, data := range entries {
		var rec CheckIn
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal check-in for %s: %w", uid, err)
		}
		records = append(records, &rec)
	}
	return records, nil
}

// Count returns how many attendees have been checked in for eventID.
func (r *Repository) Count(ctx context.Context, eventID string) (int64, error) {
	n, err := r.client.HLen(ctx, r.key(eventID)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count check-ins: %w", err)
	}
	return n, nil
}

func (r *Repository) key(eventID string) string {
	return recordHashPrefix + eventID
}
