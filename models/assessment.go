package models

import "gorm.io/gorm"

// Assessment is one graded component of the course.
type Assessment struct {
	gorm.Model
	CourseID              uint    `json:"courseId" gorm:"index"`
	CLOLabel              string  `json:"clo"`
	AssessmentType        string  `json:"assessmentType"`   // e.g. "Midterm Exam"
	AssessmentMethod      string  `json:"assessmentMethod"` // e.g. "Written Exam"
	AssessmentDescription string  `json:"assessmentDescription"`
	Weight                float64 `json:"weight"` // percentage weight towards the final grade
}

// AssessmentStrategy is the optional free-text strategy, one per course.
type AssessmentStrategy struct {
	gorm.Model
	Description string `json:"description"`
}
