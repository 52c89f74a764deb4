package stats

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	repo        *Repository
	snapshotter *Snapshotter
}

func NewHandler(repo *Repository, snapshotter *Snapshotter) *Handler {
	return &Handler{repo: repo, snapshotter: snapshotter}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/registrations", h.registrations)
}

// registrations serves the latest persisted snapshot, falling back to
// a live computation before the first cron run.
func (h *Handler) registrations(c *gin.Context) {
	snapshots, err := h.repo.Latest(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to load stats"})
		return
	}

	if len(snapshots) == 0 {
		snapshots, err = h.snapshotter.Compute(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to compute stats"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "stats": snapshots})
}
