package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DeliveryMethodology is one line of the embedded course delivery
// methodology list, e.g. {"Lecture", 40}.
type DeliveryMethodology struct {
	Method     string  `json:"method"`
	Percentage float64 `json:"percentage"`
}

// DeliveryMethodologyList stores the flattened methodology list as a single
// JSONB column instead of a separate table.
type DeliveryMethodologyList []DeliveryMethodology

func (l DeliveryMethodologyList) Value() (driver.Value, error) {
	return json.Marshal(l)
}

func (l *DeliveryMethodologyList) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	case nil:
		*l = nil
		return nil
	default:
		return fmt.Errorf("unsupported type %T for DeliveryMethodologyList", value)
	}
}

// CreditStructure splits the course credits across delivery forms.
type CreditStructure struct {
	Lecture  float64 `json:"lecture"`
	Tutorial float64 `json:"tutorial"`
	Lab      float64 `json:"lab"`
}

// CourseDescription groups the free-text description fields.
type CourseDescription struct {
	CourseContents    string `json:"courseContents"`
	TargetAudience    string `json:"targetAudience"`
	IndustryRelevance string `json:"industryRelevance"`
}

// Course is the parent record of a course specification. Child records
// (CLOs, mappings, plan entries, assessments, teaching methods) reference
// it by CourseID; the delivery methodology list is embedded.
type Course struct {
	gorm.Model
	CourseCode string  `json:"courseCode" gorm:"uniqueIndex;not null"`
	CourseName string  `json:"courseName"`
	CourseType string  `json:"courseType"` // e.g. "Core", "Elective"
	Department string  `json:"department"`
	HoursTotal float64 `json:"hoursTotal"`

	CreditStructure   CreditStructure   `json:"creditStructure" gorm:"embedded;embeddedPrefix:credit_"`
	CourseDescription CourseDescription `json:"courseDescription" gorm:"embedded"`

	PreRequisites   datatypes.JSONSlice[string] `json:"preRequisites"`
	CourseResources datatypes.JSONSlice[string] `json:"courseResources"`

	DeliveryMethodologies DeliveryMethodologyList `json:"courseDeliveryMethodologies" gorm:"type:jsonb"`

	AssessmentStrategyID *uint               `json:"assessmentStrategyId"`
	AssessmentStrategy   *AssessmentStrategy `json:"assessmentStrategy,omitempty" gorm:"foreignKey:AssessmentStrategyID"`

	TeachingMethods []TeachingMethodology `json:"teachingAndLearningMethods" gorm:"foreignKey:CourseID"`
	PlanEntries     []PlanEntry           `json:"ccdp" gorm:"foreignKey:CourseID"`
	Assessments     []Assessment          `json:"assessments" gorm:"foreignKey:CourseID"`
	CLOs            []CLO                 `json:"clOs" gorm:"foreignKey:CourseID"`
	CLOMappings     []CLOToPLO            `json:"clOsToPloMappings" gorm:"foreignKey:CourseID"`
}
