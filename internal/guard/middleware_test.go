package guard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithibai-cc/ats-backend/internal/profile"
)

type fakeStore struct {
	profiles map[string]*profile.Profile
	err      error
}

func (s *fakeStore) Get(_ context.Context, uid string) (*profile.Profile, error) {
	if s.err != nil {
		return nil, s.err
	}
	if p, ok := s.profiles[uid]; ok {
		return p, nil
	}
	return nil, profile.ErrProfileNotFound
}

func (s *fakeStore) Create(_ context.Context, p *profile.Profile) error {
	s.profiles[p.UID] = p
	return nil
}

func (s *fakeStore) List(_ context.Context) ([]*profile.Profile, error) {
	var out []*profile.Profile
	for _, p := range s.profiles {
		out = append(out, p)
	}
	return out, nil
}

func (s *fakeStore) SetRole(_ context.Context, uid string, role profile.Role, actorUID string) error {
	p, ok := s.profiles[uid]
	if !ok {
		return profile.ErrProfileNotFound
	}
	p.Role = role
	p.UpdatedBy = actorUID
	return nil
}

func guardRouter(store profile.Store, uid string, mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", func(c *gin.Context) {
		if uid != "" {
			c.Set("firebase_uid", uid)
		}
	}, mw, func(c *gin.Context) {
		p := Profile(c)
		if p == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "profile missing from context"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "uid": p.UID})
	})
	return r
}

func doGuarded(t *testing.T, r *gin.Engine) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestRequireRole_NoAuthContext(t *testing.T) {
	store := &fakeStore{profiles: map[string]*profile.Profile{}}
	r := guardRouter(store, "", RequireRole(store, profile.RoleAdmin))

	w, body := doGuarded(t, r)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, LoginRoute, body["redirect"])
}

func TestRequireRole_ProfileMissing(t *testing.T) {
	store := &fakeStore{profiles: map[string]*profile.Profile{}}
	r := guardRouter(store, "ghost", RequireRole(store, profile.RoleAdmin))

	w, body := doGuarded(t, r)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, LoginRoute, body["redirect"])
}

func TestRequireRole_StoreFailure(t *testing.T) {
	store := &fakeStore{err: errors.New("firestore unavailable")}
	r := guardRouter(store, "u1", RequireRole(store, profile.RoleAdmin))

	w, body := doGuarded(t, r)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, LoginRoute, body["redirect"])
}

func TestRequireRole_WrongRoleRedirectsHome(t *testing.T) {
	store := &fakeStore{profiles: map[string]*profile.Profile{
		"u1": {UID: "u1", Role: profile.RoleCommittee},
	}}
	r := guardRouter(store, "u1", RequireRole(store, profile.RoleAdmin))

	w, body := doGuarded(t, r)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, CommitteeDashboardRoute, body["redirect"])
}

func TestRequireRole_Allowed(t *testing.T) {
	store := &fakeStore{profiles: map[string]*profile.Profile{
		"u1": {UID: "u1", Role: profile.RoleAdmin},
	}}
	r := guardRouter(store, "u1", RequireRole(store, profile.RoleAdmin))

	w, body := doGuarded(t, r)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", body["uid"])
}

func TestRequireAnyRole(t *testing.T) {
	store := &fakeStore{profiles: map[string]*profile.Profile{
		"c1": {UID: "c1", Role: profile.RoleCommittee},
		"u1": {UID: "u1", Role: profile.RoleUser},
	}}
	staff := func() gin.HandlerFunc {
		return RequireAnyRole(store, profile.RoleCommittee, profile.RoleAdmin)
	}

	w, _ := doGuarded(t, guardRouter(store, "c1", staff()))
	assert.Equal(t, http.StatusOK, w.Code)

	w, body := doGuarded(t, guardRouter(store, "u1", staff()))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, UserDashboardRoute, body["redirect"])
}
