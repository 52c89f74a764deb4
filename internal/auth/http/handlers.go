package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mithibai-cc/ats-backend/internal/auth"
	"github.com/mithibai-cc/ats-backend/internal/guard"
	"github.com/mithibai-cc/ats-backend/internal/identity"
	"github.com/mithibai-cc/ats-backend/internal/profile"
)

type Handler struct {
	provider identity.Provider
	profiles profile.Store
}

func New(provider identity.Provider, profiles profile.Store) *Handler {
	return &Handler{
		provider: provider,
		profiles: profiles,
	}
}

// Login signs the caller in and reports the dashboard their role maps
// to, mirroring the post-login redirect flow.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	if err := req.validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}

	id, err := h.provider.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		status, msg := authFailure(err)
		c.JSON(status, gin.H{"ok": false, "error": msg})
		return
	}

	// Role lookup decides the landing dashboard. A missing or
	// unreadable profile falls back to the user dashboard.
	redirect := guard.UserDashboardRoute
	if p, perr := h.profiles.Get(c.Request.Context(), id.UID); perr == nil {
		redirect = guard.HomeFor(p.Role)
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "user": id, "redirect": redirect})
}

// Signup validates the form locally, creates the account with the
// identity provider, then writes the profile document.
func (h *Handler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	if err := req.validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}

	id, err := h.provider.SignUp(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		status, msg := authFailure(err)
		c.JSON(status, gin.H{"ok": false, "error": msg})
		return
	}

	p := &profile.Profile{
		UID:       id.UID,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     strings.ToLower(req.Email),
		Role:      profile.RoleUser,
		BirthDate: req.BirthDate,
		Phone:     req.Phone,
		SAPNumber: req.SAPNumber,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := h.profiles.Create(c.Request.Context(), p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to save profile"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true, "user": id})
}

// Logout revokes the caller's session with the identity provider.
func (h *Handler) Logout(c *gin.Context) {
	uid := auth.UserFirebaseUID(c)
	if uid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "user not authenticated"})
		return
	}

	if err := h.provider.SignOut(c.Request.Context(), uid); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "logout failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "redirect": guard.LoginRoute})
}

// GetProfile returns the current user's profile document.
func (h *Handler) GetProfile(c *gin.Context) {
	uid := auth.UserFirebaseUID(c)
	if uid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "user not authenticated"})
		return
	}

	p, err := h.profiles.Get(c.Request.Context(), uid)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "user data not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to load user data"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "user": p})
}

// authFailure maps identity-provider failures to a status and the
// user-facing message shown on the sign-in/sign-up form.
func authFailure(err error) (int, string) {
	switch {
	case errors.Is(err, identity.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Incorrect email or password. Please try again."
	case errors.Is(err, identity.ErrEmailInUse):
		return http.StatusConflict, "An account with this email already exists. Please log in."
	case errors.Is(err, identity.ErrWeakPassword):
		return http.StatusBadRequest, "Password is too weak. Please choose a stronger password."
	case errors.Is(err, identity.ErrUserDisabled):
		return http.StatusForbidden, "This account has been disabled."
	}
	return http.StatusBadGateway, "An error occurred. Please try again."
}
