package admin

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mithibai-cc/ats-backend/internal/audit"
	"github.com/mithibai-cc/ats-backend/internal/auth"
	"github.com/mithibai-cc/ats-backend/internal/profile"
)

// AuditRecorder receives role-change entries. Satisfied by
// *audit.Repository; nil disables the trail.
type AuditRecorder interface {
	Record(ctx context.Context, e *audit.Entry) error
}

type Handler struct {
	profiles profile.Store
	audit    AuditRecorder
}

func New(profiles profile.Store, recorder AuditRecorder) *Handler {
	return &Handler{profiles: profiles, audit: recorder}
}

// Register mounts the admin routes. The caller wires the admin role
// guard in front of this group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/users", h.listUsers)
	rg.PUT("/users/:uid/role", h.setRole)
}

func (h *Handler) listUsers(c *gin.Context) {
	profiles, err := h.profiles.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to load users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "users": profiles})
}

type setRoleReq struct {
	Role string `json:"role"`
}

// setRole updates the target profile's role and stamps the audit
// fields with the acting admin. The durable audit trail is appended
// best-effort; the role update itself is the source of truth.
func (h *Handler) setRole(c *gin.Context) {
	targetUID := c.Param("uid")
	actorUID := auth.UserFirebaseUID(c)

	var req setRoleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	role := profile.Role(req.Role)
	if !role.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid role"})
		return
	}

	target, err := h.profiles.Get(c.Request.Context(), targetUID)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to load user"})
		return
	}

	if err := h.profiles.SetRole(c.Request.Context(), targetUID, role, actorUID); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"ok": false, "error": "failed to update user role"})
		return
	}

	if h.audit != nil {
		entry := &audit.Entry{
			TargetUID: targetUID,
			OldRole:   string(target.Role),
			NewRole:   string(role),
			ActorUID:  actorUID,
		}
		if err := h.audit.Record(c.Request.Context(), entry); err != nil {
			log.Printf("[warn] operation=set_role audit write failed: %v", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "uid": targetUID, "role": role})
}
