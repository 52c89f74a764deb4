package events

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Register mounts the read-only catalog routes.
func Register(rg *gin.RouterGroup) {
	rg.GET("", list)
}

func list(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "events": All(), "categories": ByCategory()})
}
