package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CLO is a course learning outcome. Label is assigned at creation time
// ("CLO1", "CLO2", ...) and stays stable afterwards.
type CLO struct {
	gorm.Model
	CourseID    uint   `json:"courseId" gorm:"not null;index"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

// CLOToPLO maps one learning outcome to the program learning outcomes it
// contributes to. CLOID is a real foreign key; CLOLabel is kept for display.
type CLOToPLO struct {
	gorm.Model
	CourseID uint                        `json:"courseId" gorm:"index"`
	CLOID    uint                        `json:"cloId" gorm:"not null"`
	CLOLabel string                      `json:"clo"`
	PLOs     datatypes.JSONSlice[string] `json:"plo"`
}
