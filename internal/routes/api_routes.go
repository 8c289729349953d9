package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/ansh200516/form/internal/handlers"
)

// RegisterAPIRoutes registers all authenticated API routes.
func RegisterAPIRoutes(api *gin.RouterGroup) {
	apiGroup := api.Group("/api")
	{
		courses := apiGroup.Group("/courses")
		{
			courses.POST("", handlers.CreateCourseHandler)
			courses.GET("", handlers.ListCoursesHandler)
			courses.GET("/:id", handlers.GetCourseHandler)
			courses.GET("/:id/pdf", handlers.GetCoursePDFHandler)
		}
	}
}
