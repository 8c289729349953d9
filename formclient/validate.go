package formclient

import (
	"fmt"
	"strconv"
	"strings"
)

// FieldError is one declarative-rule violation, addressed by the input it
// belongs to ("assessments[2].weight").
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationError blocks a submission and carries every violation at once.
type ValidationError struct {
	Violations []FieldError
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("form has %d validation error(s)", len(e.Violations))
}

// Validate runs every field rule and returns all violations. A nil result
// means the form may be submitted.
func (f *Form) Validate() []FieldError {
	var errs []FieldError
	add := func(field, message string) {
		errs = append(errs, FieldError{Field: field, Message: message})
	}

	requireText := func(field, value, label string) {
		if strings.TrimSpace(value) == "" {
			add(field, label+" is required")
		}
	}
	requireNumber := func(field, value, label string) {
		if strings.TrimSpace(value) == "" {
			add(field, label+" is required")
			return
		}
		if _, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err != nil {
			add(field, label+" must be a number")
		}
	}
	boundedPercent := func(field, value, label string) {
		v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			add(field, label+" must be a number")
			return
		}
		if v < 0 || v > 100 {
			add(field, label+" must be between 0 and 100")
		}
	}

	requireText("courseCode", f.CourseCode, "Course Code")
	requireText("courseName", f.CourseName, "Course Name")
	requireText("courseType", f.CourseType, "Course Type")
	requireText("department", f.Department, "Department")
	requireNumber("hoursTotal", f.HoursTotal, "Total Hours")
	requireNumber("creditStructure.lecture", f.CreditLecture, "Lecture credits")
	requireNumber("creditStructure.tutorial", f.CreditTutorial, "Tutorial credits")
	requireNumber("creditStructure.lab", f.CreditLab, "Lab credits")
	requireText("courseDescription.courseContents", f.CourseContents, "Course Contents")
	requireText("courseDescription.targetAudience", f.TargetAudience, "Target Audience")
	requireText("courseDescription.industryRelevance", f.IndustryRelevance, "Industry Relevance")

	for i, clo := range f.CLOs {
		requireText(fmt.Sprintf("clOs[%d].description", i), clo.Description, "CLO description")
	}

	for i, a := range f.Assessments {
		field := func(name string) string { return fmt.Sprintf("assessments[%d].%s", i, name) }
		if f.CLOLabel(a.CLORowID) == "" {
			add(field("clo"), "references a removed CLO")
		}
		requireText(field("assessmentType"), a.Type, "Assessment Type")
		requireText(field("assessmentMethod"), a.Method, "Assessment Method")
		requireText(field("assessmentDescription"), a.Description, "Assessment Description")
		if strings.TrimSpace(a.Weight) == "" {
			add(field("weight"), "Weight is required")
		} else {
			boundedPercent(field("weight"), a.Weight, "Weight")
		}
	}

	for i, p := range f.PlanEntries {
		field := func(name string) string { return fmt.Sprintf("ccdp[%d].%s", i, name) }
		if f.CLOLabel(p.CLORowID) == "" {
			add(field("clo"), "references a removed CLO")
		}
		requireNumber(field("lessonNo"), p.LessonNo, "Lesson Number")
		requireText(field("topics"), p.Topics, "Topics")
		requireNumber(field("hours"), p.Hours, "Hours")
	}

	for i, m := range f.TeachingMethods {
		field := func(name string) string { return fmt.Sprintf("teachingAndLearningMethods[%d].%s", i, name) }
		if f.CLOLabel(m.CLORowID) == "" {
			add(field("clo"), "references a removed CLO")
		}
		requireText(field("methodology"), m.Methodology, "Methodology")
	}

	for i, m := range f.FixedMethods {
		if strings.TrimSpace(m.Percentage) != "" {
			boundedPercent(fmt.Sprintf("courseDeliveryMethodologies[%d].percentage", i),
				m.Percentage, "Percentage")
		}
	}
	for i, m := range f.OtherMethods {
		if strings.TrimSpace(m.Percentage) != "" {
			boundedPercent(fmt.Sprintf("others[%d].percentage", i),
				m.Percentage, "Percentage")
		}
	}

	return errs
}
