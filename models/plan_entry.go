package models

import "gorm.io/gorm"

// PlanEntry is one line of the course content delivery plan (CCDP).
// CLOLabel ties the line to a learning outcome by its display label.
type PlanEntry struct {
	gorm.Model
	CourseID uint    `json:"courseId" gorm:"index"`
	CLOLabel string  `json:"clo"`
	LessonNo int     `json:"lessonNo"`
	Topics   string  `json:"topics"`
	Hours    float64 `json:"hours"`
}
