package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ansh200516/form/config"
	"github.com/ansh200516/form/models"
)

// hydrated preloads every child collection of a course.
func hydrated(db *gorm.DB) *gorm.DB {
	return db.
		Preload("AssessmentStrategy").
		Preload("TeachingMethods").
		Preload("PlanEntries").
		Preload("Assessments").
		Preload("CLOs").
		Preload("CLOMappings")
}

// ListCoursesHandler returns courses, paginated unless ?all=true.
func ListCoursesHandler(c *gin.Context) {
	var courses []models.Course
	query := hydrated(config.DB).Order("course_code asc")

	if c.Query("all") == "true" {
		if err := query.Find(&courses).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not fetch courses"})
			return
		}
		if courses == nil {
			courses = make([]models.Course, 0)
		}
		c.JSON(http.StatusOK, gin.H{"data": courses})
		return
	}

	var totalRows int64
	config.DB.Model(&models.Course{}).Count(&totalRows)

	if err := query.Scopes(Paginate(c)).Find(&courses).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not fetch courses"})
		return
	}
	if courses == nil {
		courses = make([]models.Course, 0)
	}

	c.JSON(http.StatusOK, CreatePaginatedResponse(c, courses, totalRows))
}

// GetCourseHandler returns one fully hydrated course aggregate.
func GetCourseHandler(c *gin.Context) {
	id := c.Param("id")
	var course models.Course
	if err := hydrated(config.DB).First(&course, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Course not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": course})
}
