package checkin

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mithibai-cc/ats-backend/internal/events"
	"github.com/mithibai-cc/ats-backend/internal/ledger"
)

// Service validates and records check-ins against the registration
// ledger.
type Service struct {
	ledger *ledger.Repository
	repo   *Repository
}

func NewService(l *ledger.Repository, repo *Repository) *Service {
	return &Service{ledger: l, repo: repo}
}

// CheckIn records uid's arrival at eventID. Returns the record plus
// whether the attendee had already been checked in; a repeated scan is
// reported, not duplicated.
func (s *Service) CheckIn(ctx context.Context, uid, eventID, scannedBy string) (*CheckIn, bool, error) {
	if _, ok := events.Get(eventID); !ok {
		return nil, false, ErrUnknownEvent
	}

	registered, err := s.ledger.IsRegistered(ctx, uid, eventID)
	if err != nil {
		return nil, false, err
	}
	if !registered {
		return nil, false, ErrNotRegistered
	}

	existing, err := s.repo.Get(ctx, eventID, uid)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, true, nil
	}

	rec := &CheckIn{
		ID:          uuid.New().String(),
		EventID:     eventID,
		UID:         uid,
		ScannedBy:   scannedBy,
		CheckedInAt: time.Now().UTC(),
	}
	if err := s.repo.Add(ctx, rec); err != nil {
		return nil, false, err
	}
	return rec, false, nil
}

// List returns the check-ins recorded for eventID.
func (s *Service) List(ctx context.Context, eventID string) ([]*CheckIn, error) {
	if _, ok := events.Get(eventID); !ok {
		return nil, ErrUnknownEvent
	}
	return s.repo.List(ctx, eventID)
}
