package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/ansh200516/form/internal/middleware"
)

// SetupRoutes wires every route of the application onto the engine. Auth
// endpoints are public; everything else sits behind the token middleware.
func SetupRoutes(r *gin.Engine) {
	RegisterAuthRoutes(r)

	authRequired := r.Group("/")
	authRequired.Use(middleware.AuthMiddleware())
	{
		RegisterAPIRoutes(authRequired)
	}
}
