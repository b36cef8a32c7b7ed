package routes

import (
	"net/http"

	"bookreview_backend/internal/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts all handler groups under /api/v1.
func RegisterRoutes(r *gin.Engine, h *handlers.Registry) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")

	h.Auth.RegisterRoutes(api)
	h.Profile.RegisterRoutes(api)
	h.Review.RegisterRoutes(api)
	h.AdminReview.RegisterRoutes(api)
	h.File.RegisterRoutes(api)
}
