package profile

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const usersCollection = "users"

// FirestoreStore persists profiles in the Firestore "users" collection,
// one document per Firebase UID.
type FirestoreStore struct {
	client *firestore.Client
}

func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

func (s *FirestoreStore) Get(ctx context.Context, uid string) (*Profile, error) {
	doc, err := s.client.Collection(usersCollection).Doc(uid).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	var p Profile
	if err := doc.DataTo(&p); err != nil {
		return nil, fmt.Errorf("unmarshal profile: %w", err)
	}
	p.UID = uid
	p.Role = RoleOrDefault(string(p.Role))
	return &p, nil
}

func (s *FirestoreStore) Create(ctx context.Context, p *Profile) error {
	if p.Role == "" {
		p.Role = RoleUser
	}
	if p.CreatedAt == "" {
		p.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}

	if _, err := s.client.Collection(usersCollection).Doc(p.UID).Set(ctx, p); err != nil {
		return fmt.Errorf("create profile: %w", err)
	}
	return nil
}

func (s *FirestoreStore) List(ctx context.Context) ([]*Profile, error) {
	iter := s.client.Collection(usersCollection).Documents(ctx)
	defer iter.Stop()

	var profiles []*Profile
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list profiles: %w", err)
		}

		var p Profile
		if err := doc.DataTo(&p); err != nil {
			return nil, fmt.Errorf("unmarshal profile %s: %w", doc.Ref.ID, err)
		}
		p.UID = doc.Ref.ID
		p.Role = RoleOrDefault(string(p.Role))
		profiles = append(profiles, &p)
	}
	return profiles, nil
}

func (s *FirestoreStore) SetRole(ctx context.Context, uid string, role Role, actorUID string) error {
	if !role.Valid() {
		return ErrInvalidRole
	}

	_, err := s.client.Collection(usersCollection).Doc(uid).Update(ctx, []firestore.Update{
		{Path: "role", Value: string(role)},
		{Path: "updatedAt", Value: time.Now().UTC().Format(time.RFC3339)},
		{Path: "updatedBy", Value: actorUID},
	})
	if status.Code(err) == codes.NotFound {
		return ErrProfileNotFound
	}
	if err != nil {
		return fmt.Errorf("update role: %w", err)
	}
	return nil
}
