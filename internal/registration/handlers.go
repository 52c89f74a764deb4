package registration

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mithibai-cc/ats-backend/internal/auth"
	"github.com/mithibai-cc/ats-backend/internal/events"
	"github.com/mithibai-cc/ats-backend/internal/ledger"
)

type Handler struct {
	ledger *ledger.Repository
}

func New(l *ledger.Repository) *Handler {
	return &Handler{ledger: l}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.list)
	rg.POST("", h.create)
}

// list returns the caller's registered events with catalog details.
func (h *Handler) list(c *gin.Context) {
	uid := auth.UserFirebaseUID(c)
	if uid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "user not authenticated"})
		return
	}

	eventIDs, err := h.ledger.Load(c.Request.Context(), uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to load registrations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":            true,
		"registrations": eventIDs,
		"events":        detailsFor(eventIDs),
	})
}

type createReq struct {
	EventID string `json:"event_id"`
}

// create registers the caller for an event. Registering twice is a
// no-op that returns the unchanged set.
func (h *Handler) create(c *gin.Context) {
	uid := auth.UserFirebaseUID(c)
	if uid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "user not authenticated"})
		return
	}

	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil || req.EventID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	ev, ok := events.Get(req.EventID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "event not found"})
		return
	}

	eventIDs, err := h.ledger.Register(c.Request.Context(), uid, req.EventID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to save registration"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":            true,
		"event":         ev,
		"registrations": eventIDs,
	})
}

func detailsFor(eventIDs []string) []events.Event {
	registered := make(map[string]bool, len(eventIDs))
	for _, id := range eventIDs {
		registered[id] = true
	}

	out := []events.Event{}
	for _, e := range events.All() {
		if registered[e.ID] {
			out = append(out, e)
		}
	}
	return out
}
