package ledger

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	userKeyPrefix   = "registeredEvents_"   // JSON array of event ids per user: registeredEvents_{uid}
	eventIndexKey   = "eventRegistrations_" // Set of user ids per event: eventRegistrations_{event_id}
)

// Repository is the per-user registration ledger, persisted in Redis.
// The primary record is a JSON string array under registeredEvents_{uid}
// so a given user's ledger is stable across devices; a per-event set is
// maintained alongside it so counts don't require scanning user keys.
type Repository struct {
	client *redis.Client
}

func NewRepository(client *redis.Client) *Repository {
	return &Repository{client: client}
}

// Load returns the stored event-id set for uid. Absence is not an
// error; a user with no ledger yet gets an empty set.
func (r *Repository) Load(ctx context.Context, uid string) ([]string, error) {
	data, err := r.client.Get(ctx, r.userKey(uid)).Result()
	if err == redis.Nil {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}

	var eventIDs []string
	if err := json.Unmarshal([]byte(data), &eventIDs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ledger: %w", err)
	}
	return eventIDs, nil
}

// IsRegistered reports whether uid has registered for eventID.
func (r *Repository) IsRegistered(ctx context.Context, uid, eventID string) (bool, error) {
	eventIDs, err := r.Load(ctx, uid)
	if err != nil {
		return false, err
	}
	for _, id := range eventIDs {
		if id == eventID {
			return true, nil
		}
	}
	return false, nil
}

// Register adds eventID to uid's ledger and persists it before
// returning. Idempotent: registering an already-present event returns
// the set unchanged with no second write.
func (r *Repository) Register(ctx context.Context, uid, eventID string) ([]string, error) {
	eventIDs, err := r.Load(ctx, uid)
	if err != nil {
		return nil, err
	}
	for _, id := range eventIDs {
		if id == eventID {
			return eventIDs, nil
		}
	}

	updated := append(eventIDs, eventID)
	data, err := json.Marshal(updated)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal ledger: %w", err)
	}

	// Last write wins across concurrent writers for the same user;
	// no cross-key transaction is attempted.
	pipe := r.client.Pipeline()
	pipe.Set(ctx, r.userKey(uid), data, 0)
	pipe.SAdd(ctx, r.eventKey(eventID), uid)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to persist ledger: %w", err)
	}

	return updated, nil
}

// CountForEvent returns how many users have registered for eventID.
func (r *Repository) CountForEvent(ctx context.Context, eventID string) (int64, error) {
	n, err := r.client.SCard(ctx, r.eventKey(eventID)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count registrations: %w", err)
	}
	return n, nil
}

func (r *Repository) userKey(uid string) string {
	return userKeyPrefix + uid
}

func (r *Repository) eventKey(eventID string) string {
	return eventIndexKey + eventID
}
