package models

import "gorm.io/gorm"

// TeachingMethodology describes how a learning outcome is taught.
type TeachingMethodology struct {
	gorm.Model
	CourseID    uint   `json:"courseId" gorm:"index"`
	CLOLabel    string `json:"clo"`
	Methodology string `json:"methodology"` // e.g. "Lecture-Based"
}
