package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	fbauth "firebase.google.com/go/v4/auth"
)

const (
	defaultBaseURL = "https://identitytoolkit.googleapis.com/v1"
	defaultTimeout = 10 * time.Second
)

// ToolkitProvider implements Provider against the Firebase Identity
// Toolkit REST API (email/password flows) plus the Admin SDK for
// refresh-token revocation on sign-out.
type ToolkitProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
	admin   *fbauth.Client // optional; nil disables token revocation

	mu     sync.Mutex
	nextID int
	subs   map[int]func(*Identity)
}

// NewToolkitProvider creates a provider using the given web API key.
// admin may be nil when refresh-token revocation is not needed.
func NewToolkitProvider(apiKey string, admin *fbauth.Client) *ToolkitProvider {
	return &ToolkitProvider{
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: defaultTimeout},
		admin:   admin,
		subs:    make(map[int]func(*Identity)),
	}
}

// WithBaseURL overrides the Identity Toolkit endpoint. Used in tests.
func (p *ToolkitProvider) WithBaseURL(baseURL string) *ToolkitProvider {
	p.baseURL = strings.TrimRight(baseURL, "/")
	return p
}

type credentialsRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type credentialsResponse struct {
	LocalID string `json:"localId"`
	Email   string `json:"email"`
}

type toolkitError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (p *ToolkitProvider) SignIn(ctx context.Context, email, password string) (*Identity, error) {
	id, err := p.call(ctx, "accounts:signInWithPassword", email, password)
	if err != nil {
		return nil, err
	}
	p.notify(id)
	return id, nil
}

func (p *ToolkitProvider) SignUp(ctx context.Context, email, password string) (*Identity, error) {
	id, err := p.call(ctx, "accounts:signUp", email, password)
	if err != nil {
		return nil, err
	}
	p.notify(id)
	return id, nil
}

func (p *ToolkitProvider) SignOut(ctx context.Context, uid string) error {
	if p.admin != nil {
		if err := p.admin.RevokeRefreshTokens(ctx, uid); err != nil {
			return fmt.Errorf("revoke refresh tokens: %w", err)
		}
	}
	p.notify(nil)
	return nil
}

// Subscribe registers fn to receive identity changes. The returned
// cancel releases the subscription and must be called on shutdown.
func (p *ToolkitProvider) Subscribe(fn func(*Identity)) func() {
	p.mu.Lock()
	defer p.mu.Unlock()

	id := p.nextID
	p.nextID++
	p.subs[id] = fn

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.subs, id)
	}
}

func (p *ToolkitProvider) notify(id *Identity) {
	p.mu.Lock()
	fns := make([]func(*Identity), 0, len(p.subs))
	for _, fn := range p.subs {
		fns = append(fns, fn)
	}
	p.mu.Unlock()

	for _, fn := range fns {
		fn(id)
	}
}

func (p *ToolkitProvider) call(ctx context.Context, endpoint, email, password string) (*Identity, error) {
	body, err := json.Marshal(credentialsRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	reqURL := fmt.Sprintf("%s/%s?key=%s", p.baseURL, endpoint, p.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var terr toolkitError
		if err := json.NewDecoder(resp.Body).Decode(&terr); err != nil {
			return nil, fmt.Errorf("identity provider returned status %d", resp.StatusCode)
		}
		return nil, mapToolkitError(terr.Error.Message)
	}

	var cred credentialsResponse
	if err := json.NewDecoder(resp.Body).Decode(&cred); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return &Identity{UID: cred.LocalID, Email: cred.Email}, nil
}

// mapToolkitError converts Identity Toolkit error codes into the
// domain's auth failures. Messages may carry a trailing explanation
// ("WEAK_PASSWORD : Password should be at least 6 characters").
func mapToolkitError(message string) error {
	code := message
	if i := strings.IndexAny(code, " :"); i > 0 {
		code = code[:i]
	}

	switch code {
	case "EMAIL_EXISTS":
		return ErrEmailInUse
	case "WEAK_PASSWORD":
		return ErrWeakPassword
	case "USER_DISABLED":
		return ErrUserDisabled
	case "EMAIL_NOT_FOUND", "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS", "INVALID_EMAIL":
		return ErrInvalidCredentials
	}
	return fmt.Errorf("identity provider error: %s", message)
}
