package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/ansh200516/form/internal/handlers"
)

// RegisterAuthRoutes registers the public authentication endpoints.
func RegisterAuthRoutes(r *gin.Engine) {
	auth := r.Group("/api/auth")
	{
		auth.POST("/register", handlers.RegisterHandler)
		auth.POST("/login", handlers.LoginHandler)
	}
}
