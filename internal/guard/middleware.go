package guard

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mithibai-cc/ats-backend/internal/identity"
	"github.com/mithibai-cc/ats-backend/internal/profile"
	"github.com/mithibai-cc/ats-backend/internal/session"
)

const (
	CtxProfile = "profile"
)

// Profile extracts the profile placed in the Gin context by RequireRole.
func Profile(c *gin.Context) *profile.Profile {
	if p, ok := c.Get(CtxProfile); ok {
		if prof, ok := p.(*profile.Profile); ok {
			return prof
		}
	}
	return nil
}

// RequireRole enforces the guard policy server-side for data-returning
// endpoints. The client-side redirect flow is advisory only; this is
// the enforcement the role-update trust boundary relies on.
//
// Expects the Firebase auth middleware to have set firebase_uid.
func RequireRole(store profile.Store, required profile.Role) gin.HandlerFunc {
	return requireRoles(store, required)
}

// RequireAnyRole admits callers holding any of the listed roles.
func RequireAnyRole(store profile.Store, roles ...profile.Role) gin.HandlerFunc {
	return requireRoles(store, roles...)
}

func requireRoles(store profile.Store, roles ...profile.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetString("firebase_uid")
		if uid == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "user not authenticated", "redirect": LoginRoute})
			c.Abort()
			return
		}

		p, err := store.Get(c.Request.Context(), uid)
		if err != nil {
			// A missing or unreadable profile is treated as no
			// profile; the caller is routed back through login.
			if errors.Is(err, profile.ErrProfileNotFound) {
				c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": "profile not found", "redirect": LoginRoute})
			} else {
				c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": "failed to load profile", "redirect": LoginRoute})
			}
			c.Abort()
			return
		}

		st := session.State{Identity: &identity.Identity{UID: uid}, Profile: p}

		allowed := false
		for _, r := range roles {
			if d := Evaluate(r, st); d.Action == Render {
				allowed = true
				break
			}
		}
		if !allowed {
			c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": "insufficient role", "redirect": HomeFor(p.Role)})
			c.Abort()
			return
		}

		c.Set(CtxProfile, p)
		c.Next()
	}
}
