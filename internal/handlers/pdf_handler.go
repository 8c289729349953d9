package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ansh200516/form/config"
	"github.com/ansh200516/form/internal/pdf"
	"github.com/ansh200516/form/models"
)

// GetCoursePDFHandler renders the course specification document for one
// course and streams it as an attachment.
func GetCoursePDFHandler(c *gin.Context) {
	id := c.Param("id")
	var course models.Course
	if err := hydrated(config.DB).First(&course, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Course not found"})
		return
	}

	data, err := pdf.Generate(&course)
	if err != nil {
		slog.Error("PDF generation failed", "courseCode", course.CourseCode, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error", "error": err.Error()})
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+course.CourseCode+".pdf")
	c.Data(http.StatusOK, "application/pdf", data)
}
