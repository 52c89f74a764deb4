package http

import "github.com/gin-gonic/gin"

// Register mounts the auth routes. authmw guards the endpoints that
// need a verified ID token.
func (h *Handler) Register(rg *gin.RouterGroup, authmw gin.HandlerFunc) {
	rg.POST("/login", h.Login)
	rg.POST("/signup", h.Signup)
	rg.POST("/logout", authmw, h.Logout)
	rg.GET("/profile", authmw, h.GetProfile)
}
