package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithibai-cc/ats-backend/internal/guard"
	"github.com/mithibai-cc/ats-backend/internal/identity"
	"github.com/mithibai-cc/ats-backend/internal/profile"
)

type fakeProvider struct {
	signInCalls  int
	signUpCalls  int
	signOutCalls int
	signInErr    error
	signUpErr    error
	nextUID      string
}

func (p *fakeProvider) SignIn(_ context.Context, email, _ string) (*identity.Identity, error) {
	p.signInCalls++
	if p.signInErr != nil {
		return nil, p.signInErr
	}
	return &identity.Identity{UID: p.nextUID, Email: email}, nil
}

func (p *fakeProvider) SignUp(_ context.Context, email, _ string) (*identity.Identity, error) {
	p.signUpCalls++
	if p.signUpErr != nil {
		return nil, p.signUpErr
	}
	return &identity.Identity{UID: p.nextUID, Email: email}, nil
}

func (p *fakeProvider) SignOut(_ context.Context, _ string) error {
	p.signOutCalls++
	return nil
}

func (p *fakeProvider) Subscribe(_ func(*identity.Identity)) func() {
	return func() {}
}

type memStore struct {
	profiles  map[string]*profile.Profile
	createErr error
}

func newMemStore() *memStore {
	return &memStore{profiles: make(map[string]*profile.Profile)}
}

func (s *memStore) Get(_ context.Context, uid string) (*profile.Profile, error) {
	if p, ok := s.profiles[uid]; ok {
		return p, nil
	}
	return nil, profile.ErrProfileNotFound
}

func (s *memStore) Create(_ context.Context, p *profile.Profile) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.profiles[p.UID] = p
	return nil
}

func (s *memStore) List(_ context.Context) ([]*profile.Profile, error) {
	var out []*profile.Profile
	for _, p := range s.profiles {
		out = append(out, p)
	}
	return out, nil
}

func (s *memStore) SetRole(_ context.Context, uid string, role profile.Role, actorUID string) error {
	p, ok := s.profiles[uid]
	if !ok {
		return profile.ErrProfileNotFound
	}
	p.Role = role
	p.UpdatedBy = actorUID
	return nil
}

func authTestRouter(provider identity.Provider, store profile.Store, uid string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	stubAuth := func(c *gin.Context) {
		if uid != "" {
			c.Set("firebase_uid", uid)
		}
	}
	New(provider, store).Register(r.Group("/auth"), stubAuth)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, payload any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func validSignup() map[string]string {
	return map[string]string{
		"email":     "Asha.Shah@example.com",
		"password":  "secret123",
		"firstName": "  Asha ",
		"lastName":  "Shah",
		"birthDate": "2004-08-14",
		"phone":     "9876543210",
		"sapNumber": "60004230042",
	}
}

func TestSignup_InvalidFormNeverReachesProvider(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(map[string]string)
		wantErr string
	}{
		{
			name:    "bad email",
			mutate:  func(m map[string]string) { m["email"] = "not-an-email" },
			wantErr: "Please enter a valid email address",
		},
		{
			name:    "short password",
			mutate:  func(m map[string]string) { m["password"] = "abc" },
			wantErr: "Password must be at least 6 characters long",
		},
		{
			name:    "blank first name",
			mutate:  func(m map[string]string) { m["firstName"] = "   " },
			wantErr: "First name and last name are required",
		},
		{
			name:    "missing birth date",
			mutate:  func(m map[string]string) { m["birthDate"] = "" },
			wantErr: "Birth date is required",
		},
		{
			name:    "short phone",
			mutate:  func(m map[string]string) { m["phone"] = "12345" },
			wantErr: "Please enter a valid 10-digit phone number",
		},
		{
			name:    "short sap number",
			mutate:  func(m map[string]string) { m["sapNumber"] = "1234567" },
			wantErr: "Please enter a valid SAP number (at least 8 digits)",
		},
		{
			name:    "non-numeric sap number",
			mutate:  func(m map[string]string) { m["sapNumber"] = "12345678x" },
			wantErr: "Please enter a valid SAP number (at least 8 digits)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &fakeProvider{nextUID: "u1"}
			store := newMemStore()
			r := authTestRouter(provider, store, "")

			form := validSignup()
			tt.mutate(form)

			w, body := postJSON(t, r, "/auth/signup", form)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.wantErr, body["error"])
			assert.Zero(t, provider.signUpCalls, "provider must not be called for an invalid form")
			assert.Empty(t, store.profiles)
		})
	}
}

func TestSignup_CreatesProfileWithDefaults(t *testing.T) {
	provider := &fakeProvider{nextUID: "new-uid"}
	store := newMemStore()
	r := authTestRouter(provider, store, "")

	w, body := postJSON(t, r, "/auth/signup", validSignup())
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, 1, provider.signUpCalls)

	p := store.profiles["new-uid"]
	require.NotNil(t, p)
	assert.Equal(t, "Asha", p.FirstName)
	assert.Equal(t, "Shah", p.LastName)
	assert.Equal(t, "asha.shah@example.com", p.Email)
	assert.Equal(t, profile.RoleUser, p.Role)
	assert.NotEmpty(t, p.CreatedAt)
}

func TestSignup_EmailAlreadyInUse(t *testing.T) {
	provider := &fakeProvider{signUpErr: identity.ErrEmailInUse}
	r := authTestRouter(provider, newMemStore(), "")

	w, body := postJSON(t, r, "/auth/signup", validSignup())
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "An account with this email already exists. Please log in.", body["error"])
}

func TestLogin_InvalidCredentials(t *testing.T) {
	provider := &fakeProvider{signInErr: identity.ErrInvalidCredentials}
	r := authTestRouter(provider, newMemStore(), "")

	w, body := postJSON(t, r, "/auth/login", map[string]string{
		"email":    "asha@example.com",
		"password": "wrong-pass",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Incorrect email or password. Please try again.", body["error"])
}

func TestLogin_RedirectFollowsRole(t *testing.T) {
	provider := &fakeProvider{nextUID: "c1"}
	store := newMemStore()
	store.profiles["c1"] = &profile.Profile{UID: "c1", Role: profile.RoleCommittee}
	r := authTestRouter(provider, store, "")

	w, body := postJSON(t, r, "/auth/login", map[string]string{
		"email":    "chair@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, guard.CommitteeDashboardRoute, body["redirect"])
}

func TestLogin_MissingProfileFallsBackToUserDashboard(t *testing.T) {
	provider := &fakeProvider{nextUID: "ghost"}
	r := authTestRouter(provider, newMemStore(), "")

	w, body := postJSON(t, r, "/auth/login", map[string]string{
		"email":    "ghost@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, guard.UserDashboardRoute, body["redirect"])
}

func TestLogout(t *testing.T) {
	provider := &fakeProvider{}
	r := authTestRouter(provider, newMemStore(), "u1")

	w, body := postJSON(t, r, "/auth/logout", gin.H{})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, guard.LoginRoute, body["redirect"])
	assert.Equal(t, 1, provider.signOutCalls)
}

func TestGetProfile_NotFound(t *testing.T) {
	r := authTestRouter(&fakeProvider{}, newMemStore(), "u1")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/profile", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "user data not found")
}
