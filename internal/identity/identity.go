package identity

import (
	"context"
	"errors"
)

// Identity is an authenticated principal handle issued by the external
// identity provider. The provider owns its lifetime; the rest of the
// application holds it read-only.
type Identity struct {
	UID   string `json:"uid"`
	Email string `json:"email,omitempty"`
}

// Auth failures surfaced to the sign-in/sign-up forms. Non-fatal.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailInUse         = errors.New("email already in use")
	ErrWeakPassword       = errors.New("password is too weak")
	ErrUserDisabled       = errors.New("account is disabled")
)

// Provider is the identity-provider contract consumed by the core.
// Implementations notify subscribers whenever the signed-in identity
// changes (sign-in, sign-up, sign-out).
type Provider interface {
	SignIn(ctx context.Context, email, password string) (*Identity, error)
	SignUp(ctx context.Context, email, password string) (*Identity, error)
	SignOut(ctx context.Context, uid string) error
	Subscribe(fn func(*Identity)) (cancel func())
}
