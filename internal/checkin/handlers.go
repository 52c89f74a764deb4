package checkin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mithibai-cc/ats-backend/internal/auth"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("", h.create)
	rg.GET("/:event_id", h.list)
}

type checkInReq struct {
	UID     string `json:"uid"`
	EventID string `json:"event_id"`
}

func (h *Handler) create(c *gin.Context) {
	var req checkInReq
	if err := c.ShouldBindJSON(&req); err != nil || req.UID == "" || req.EventID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	rec, already, err := h.service.CheckIn(c.Request.Context(), req.UID, req.EventID, auth.UserFirebaseUID(c))
	if err != nil {
		switch {
		case errors.Is(err, ErrUnknownEvent):
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "event not found"})
		case errors.Is(err, ErrNotRegistered):
			c.JSON(http.StatusConflict, gin.H{"ok": false, "error": "user is not registered for this event"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to record check-in"})
		}
		return
	}

	status := http.StatusCreated
	if already {
		status = http.StatusOK
	}
	c.JSON(status, gin.H{"ok": true, "checkin": rec, "already_checked_in": already})
}

func (h *Handler) list(c *gin.Context) {
	eventID := c.Param("event_id")

	records, err := h.service.List(c.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, ErrUnknownEvent) {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "event not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to list check-ins"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "checkins": records})
}
