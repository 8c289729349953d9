package handlers

import (
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/ansh200516/form/config"
	"github.com/ansh200516/form/models"
)

// CourseInput is the normalized submission payload posted by the form.
type CourseInput struct {
	CourseCode string     `json:"courseCode"`
	CourseName string     `json:"courseName"`
	CourseType string     `json:"courseType"`
	Department string     `json:"department"`
	HoursTotal FormNumber `json:"hoursTotal"`

	CreditStructure struct {
		Lecture  FormNumber `json:"lecture"`
		Tutorial FormNumber `json:"tutorial"`
		Lab      FormNumber `json:"lab"`
	} `json:"creditStructure"`

	PreRequisites []string `json:"preRequisites"`

	CourseDescription struct {
		CourseContents    string `json:"courseContents"`
		TargetAudience    string `json:"targetAudience"`
		IndustryRelevance string `json:"industryRelevance"`
	} `json:"courseDescription"`

	CourseResources []string `json:"courseResources"`

	TeachingAndLearningMethods []TeachingMethodInput      `json:"teachingAndLearningMethods"`
	DeliveryMethodologies      []DeliveryMethodologyInput `json:"courseDeliveryMethodologies"`
	AssessmentStrategy         *AssessmentStrategyInput   `json:"assessmentStrategy"`
	CCDP                       []PlanEntryInput           `json:"ccdp"`
	Assessments                []AssessmentInput          `json:"assessments"`
	CLOs                       []CLOInput                 `json:"clOs"`
}

type TeachingMethodInput struct {
	CLO         string `json:"clo"`
	Methodology string `json:"methodology"`
}

type DeliveryMethodologyInput struct {
	Method     string     `json:"method"`
	Percentage FormNumber `json:"percentage"`
}

type AssessmentStrategyInput struct {
	Description string `json:"description"`
}

type PlanEntryInput struct {
	CLO      string     `json:"clo"`
	LessonNo FormNumber `json:"lessonNo"`
	Topics   string     `json:"topics"`
	Hours    FormNumber `json:"hours"`
}

type AssessmentInput struct {
	CLO                   string     `json:"clo"`
	AssessmentType        string     `json:"assessmentType"`
	AssessmentMethod      string     `json:"assessmentMethod"`
	AssessmentDescription string     `json:"assessmentDescription"`
	Weight                FormNumber `json:"weight"`
}

type CLOInput struct {
	CLO         string         `json:"clo"`
	Description string         `json:"description"`
	PLO         FlexStringList `json:"plo"`
}

var cloLabelPattern = regexp.MustCompile(`^CLO(\d+)$`)

// CreateCourseHandler persists a full course aggregate: the optional
// assessment strategy, the parent course row, and one child record per
// teaching method, plan entry, assessment, CLO and CLO-to-PLO mapping.
// Everything runs inside one transaction so a failed submission leaves no
// orphaned child records behind.
func CreateCourseHandler(c *gin.Context) {
	var input CourseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body", "error": err.Error()})
		return
	}

	// Shape preconditions, checked before any write.
	if len(input.CCDP) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "At least one CCDP entry is required"})
		return
	}
	if len(input.Assessments) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "At least one assessment is required"})
		return
	}
	if len(input.CLOs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "At least one CLO is required"})
		return
	}

	if label, ok := findUnknownCLOLabel(&input); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": fmt.Sprintf("Unknown CLO reference %q", label)})
		return
	}

	methodologies := consolidateMethodologies(input.DeliveryMethodologies)
	warnOnOddTotals(input.CourseCode, methodologies, input.Assessments)

	course := models.Course{
		CourseCode: input.CourseCode,
		CourseName: input.CourseName,
		CourseType: input.CourseType,
		Department: input.Department,
		HoursTotal: input.HoursTotal.Float64(),
		CreditStructure: models.CreditStructure{
			Lecture:  input.CreditStructure.Lecture.Float64(),
			Tutorial: input.CreditStructure.Tutorial.Float64(),
			Lab:      input.CreditStructure.Lab.Float64(),
		},
		CourseDescription: models.CourseDescription{
			CourseContents:    input.CourseDescription.CourseContents,
			TargetAudience:    input.CourseDescription.TargetAudience,
			IndustryRelevance: input.CourseDescription.IndustryRelevance,
		},
		PreRequisites:         datatypes.NewJSONSlice(trimNonEmpty(input.PreRequisites)),
		CourseResources:       datatypes.NewJSONSlice(trimNonEmpty(input.CourseResources)),
		DeliveryMethodologies: methodologies,
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if input.AssessmentStrategy != nil && input.AssessmentStrategy.Description != "" {
			strategy := models.AssessmentStrategy{Description: input.AssessmentStrategy.Description}
			if err := tx.Create(&strategy).Error; err != nil {
				return err
			}
			course.AssessmentStrategyID = &strategy.ID
			course.AssessmentStrategy = &strategy
		}

		if err := tx.Create(&course).Error; err != nil {
			return err
		}

		for _, m := range input.TeachingAndLearningMethods {
			method := models.TeachingMethodology{
				CourseID:    course.ID,
				CLOLabel:    m.CLO,
				Methodology: m.Methodology,
			}
			if err := tx.Create(&method).Error; err != nil {
				return err
			}
			course.TeachingMethods = append(course.TeachingMethods, method)
		}

		for _, e := range input.CCDP {
			entry := models.PlanEntry{
				CourseID: course.ID,
				CLOLabel: e.CLO,
				LessonNo: toInt(e.LessonNo),
				Topics:   e.Topics,
				Hours:    e.Hours.Float64(),
			}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
			course.PlanEntries = append(course.PlanEntries, entry)
		}

		for _, a := range input.Assessments {
			assessment := models.Assessment{
				CourseID:              course.ID,
				CLOLabel:              a.CLO,
				AssessmentType:        a.AssessmentType,
				AssessmentMethod:      a.AssessmentMethod,
				AssessmentDescription: a.AssessmentDescription,
				Weight:                a.Weight.Float64(),
			}
			if err := tx.Create(&assessment).Error; err != nil {
				return err
			}
			course.Assessments = append(course.Assessments, assessment)
		}

		for i, cloIn := range input.CLOs {
			clo := models.CLO{
				CourseID:    course.ID,
				Label:       fmt.Sprintf("CLO%d", i+1),
				Description: cloIn.Description,
			}
			if err := tx.Create(&clo).Error; err != nil {
				return err
			}
			course.CLOs = append(course.CLOs, clo)
		}

		for i, cloIn := range input.CLOs {
			if len(cloIn.PLO) == 0 {
				continue
			}
			mapping := models.CLOToPLO{
				CourseID: course.ID,
				CLOID:    course.CLOs[i].ID,
				CLOLabel: course.CLOs[i].Label,
				PLOs:     datatypes.NewJSONSlice([]string(cloIn.PLO)),
			}
			if err := tx.Create(&mapping).Error; err != nil {
				return err
			}
			course.CLOMappings = append(course.CLOMappings, mapping)
		}

		return nil
	})
	if err != nil {
		slog.Error("Course submission failed", "courseCode", input.CourseCode, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error", "error": err.Error()})
		return
	}

	slog.Info("Course created", "courseCode", course.CourseCode, "id", course.ID,
		"clos", len(course.CLOs), "assessments", len(course.Assessments))
	c.JSON(http.StatusCreated, gin.H{"message": "Course created successfully", "data": course})
}

// findUnknownCLOLabel checks every CLO reference used by plan entries,
// assessments and teaching methods against the submitted CLO list. Labels
// are positional: "CLO3" is only valid when at least three CLOs exist.
func findUnknownCLOLabel(input *CourseInput) (string, bool) {
	n := len(input.CLOs)
	valid := func(label string) bool {
		m := cloLabelPattern.FindStringSubmatch(strings.TrimSpace(label))
		if m == nil {
			return false
		}
		k, err := strconv.Atoi(m[1])
		return err == nil && k >= 1 && k <= n
	}
	for _, e := range input.CCDP {
		if !valid(e.CLO) {
			return e.CLO, false
		}
	}
	for _, a := range input.Assessments {
		if !valid(a.CLO) {
			return a.CLO, false
		}
	}
	for _, m := range input.TeachingAndLearningMethods {
		if !valid(m.CLO) {
			return m.CLO, false
		}
	}
	return "", true
}

// consolidateMethodologies trims method names and drops entries with an
// empty name or a non-numeric percentage. The client flattens fixed and
// "other" methods before posting; this repeats the filter server-side.
func consolidateMethodologies(items []DeliveryMethodologyInput) models.DeliveryMethodologyList {
	out := make(models.DeliveryMethodologyList, 0, len(items))
	for _, item := range items {
		method := strings.TrimSpace(item.Method)
		if method == "" || item.Percentage.IsNaN() {
			continue
		}
		out = append(out, models.DeliveryMethodology{
			Method:     method,
			Percentage: item.Percentage.Float64(),
		})
	}
	return out
}

// warnOnOddTotals flags methodology percentages or assessment weights that
// do not sum to 100. Neither total is an enforced invariant.
func warnOnOddTotals(courseCode string, methodologies models.DeliveryMethodologyList, assessments []AssessmentInput) {
	var pctTotal float64
	for _, m := range methodologies {
		pctTotal += m.Percentage
	}
	if len(methodologies) > 0 && math.Abs(pctTotal-100) > 0.01 {
		slog.Warn("Delivery methodology percentages do not sum to 100",
			"courseCode", courseCode, "total", pctTotal)
	}

	var weightTotal float64
	for _, a := range assessments {
		if !a.Weight.IsNaN() {
			weightTotal += a.Weight.Float64()
		}
	}
	if math.Abs(weightTotal-100) > 0.01 {
		slog.Warn("Assessment weights do not sum to 100",
			"courseCode", courseCode, "total", weightTotal)
	}
}

func trimNonEmpty(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func toInt(n FormNumber) int {
	if n.IsNaN() {
		return 0
	}
	return int(n.Float64())
}
