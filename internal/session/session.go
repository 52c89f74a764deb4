package session

import (
	"context"

	"github.com/mithibai-cc/ats-backend/internal/identity"
	"github.com/mithibai-cc/ats-backend/internal/profile"
)

// State is the session tuple published to the application.
// Profile is nil whenever Identity is nil. Loading is true only while
// a profile fetch for the current identity is in flight.
type State struct {
	Identity *identity.Identity
	Profile  *profile.Profile
	Loading  bool
	Err      string
}

// Role returns the profile's role, or empty when no profile is loaded.
func (s State) Role() profile.Role {
	if s.Profile == nil {
		return ""
	}
	return s.Profile.Role
}

// Source delivers identity-change notifications. Satisfied by
// identity.Provider implementations.
type Source interface {
	Subscribe(fn func(*identity.Identity)) (cancel func())
}

// ProfileFetcher is the slice of the profile store the manager needs.
type ProfileFetcher interface {
	Get(ctx context.Context, uid string) (*profile.Profile, error)
}
