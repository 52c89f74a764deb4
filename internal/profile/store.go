package profile

import "context"

// Store is the document-store contract for profile records.
type Store interface {
	// Get returns the profile for uid, or ErrProfileNotFound.
	Get(ctx context.Context, uid string) (*Profile, error)

	// Create writes a new profile document keyed by its UID.
	Create(ctx context.Context, p *Profile) error

	// List returns every stored profile.
	List(ctx context.Context) ([]*Profile, error)

	// SetRole updates the role of the target profile and stamps the
	// updatedAt/updatedBy audit fields with the acting principal.
	SetRole(ctx context.Context, uid string, role Role, actorUID string) error
}
