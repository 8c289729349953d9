// Package formclient is the data-entry side of the course specification
// service: a form state holder with resizable row groups, declarative
// validation, payload normalization and an authenticated API session.
package formclient

import (
	"fmt"

	"github.com/google/uuid"
)

// FixedDeliveryMethods are the four methodology rows every form starts with.
var FixedDeliveryMethods = []string{
	"Lecture",
	"Computer Simulations/Labs",
	"Project-Based Learning",
	"Practical/Labs",
}

// CLORow is one learning outcome entry. ID is assigned once at append time
// and never changes; display labels like "CLO2" are derived from the row's
// current position only when rendering or submitting, so rows that
// reference a CLO keep pointing at the same outcome when the list shrinks.
type CLORow struct {
	ID          string
	Description string
	PLOs        string // comma-separated program outcome labels, e.g. "PLO1, PLO2"
}

// AssessmentRow is one graded component entry.
type AssessmentRow struct {
	CLORowID    string
	Type        string
	Method      string
	Description string
	Weight      string
}

// PlanRow is one content delivery plan entry.
type PlanRow struct {
	CLORowID string
	LessonNo string
	Topics   string
	Hours    string
}

// TeachingMethodRow ties a methodology description to a learning outcome.
type TeachingMethodRow struct {
	CLORowID    string
	Methodology string
}

// MethodRow is a delivery methodology line, fixed or user-added.
type MethodRow struct {
	Method     string
	Percentage string
}

// Form collects everything the course specification form asks for. Field
// values are held as entered; normalization happens when the payload is
// built.
type Form struct {
	CourseCode string
	CourseName string
	CourseType string
	Department string
	HoursTotal string

	CreditLecture  string
	CreditTutorial string
	CreditLab      string

	CourseContents    string
	TargetAudience    string
	IndustryRelevance string

	PreRequisites   []string
	CourseResources string // newline-delimited

	FixedMethods []MethodRow
	OtherMethods []MethodRow

	CLOs            []CLORow
	Assessments     []AssessmentRow
	PlanEntries     []PlanRow
	TeachingMethods []TeachingMethodRow

	AssessmentStrategy string
}

// NewForm returns a form seeded with the entry screen defaults: one row per
// group, all referencing the first CLO, and the fixed delivery methods with
// empty percentages.
func NewForm() *Form {
	f := &Form{
		PreRequisites: []string{""},
	}
	for _, method := range FixedDeliveryMethods {
		f.FixedMethods = append(f.FixedMethods, MethodRow{Method: method})
	}
	first := f.AddCLO()
	f.Assessments = append(f.Assessments, AssessmentRow{CLORowID: first.ID})
	f.PlanEntries = append(f.PlanEntries, PlanRow{CLORowID: first.ID})
	f.TeachingMethods = append(f.TeachingMethods, TeachingMethodRow{CLORowID: first.ID})
	return f
}

// Reset restores the form to its initial defaults.
func (f *Form) Reset() {
	*f = *NewForm()
}

// AddCLO appends a default-valued learning outcome row and returns it.
func (f *Form) AddCLO() *CLORow {
	f.CLOs = append(f.CLOs, CLORow{ID: uuid.NewString()})
	return &f.CLOs[len(f.CLOs)-1]
}

// AddPreRequisite appends an empty prerequisite field.
func (f *Form) AddPreRequisite() {
	f.PreRequisites = append(f.PreRequisites, "")
}

// AddAssessment appends an assessment row tied to the given CLO row.
func (f *Form) AddAssessment(cloRowID string) {
	f.Assessments = append(f.Assessments, AssessmentRow{CLORowID: cloRowID})
}

// AddPlanEntry appends a delivery plan row tied to the given CLO row.
func (f *Form) AddPlanEntry(cloRowID string) {
	f.PlanEntries = append(f.PlanEntries, PlanRow{CLORowID: cloRowID})
}

// AddTeachingMethod appends a teaching method row tied to the given CLO row.
func (f *Form) AddTeachingMethod(cloRowID string) {
	f.TeachingMethods = append(f.TeachingMethods, TeachingMethodRow{CLORowID: cloRowID})
}

// AddOtherMethod appends an empty "Others" delivery methodology row.
func (f *Form) AddOtherMethod() {
	f.OtherMethods = append(f.OtherMethods, MethodRow{})
}

// ErrNotConfirmed is returned by the remove operations when the
// confirmation callback declines.
var ErrNotConfirmed = fmt.Errorf("removal not confirmed")

// RemoveCLO removes the learning outcome at index i after confirmation.
// Rows in other groups referencing the removed CLO keep their now-dangling
// row id; validation reports them instead of silently re-targeting.
func (f *Form) RemoveCLO(i int, confirm func() bool) error {
	if i < 0 || i >= len(f.CLOs) {
		return fmt.Errorf("no CLO at index %d", i)
	}
	if !confirm() {
		return ErrNotConfirmed
	}
	f.CLOs = append(f.CLOs[:i], f.CLOs[i+1:]...)
	return nil
}

// RemovePreRequisite removes the prerequisite at index i after confirmation.
func (f *Form) RemovePreRequisite(i int, confirm func() bool) error {
	if i < 0 || i >= len(f.PreRequisites) {
		return fmt.Errorf("no prerequisite at index %d", i)
	}
	if !confirm() {
		return ErrNotConfirmed
	}
	f.PreRequisites = append(f.PreRequisites[:i], f.PreRequisites[i+1:]...)
	return nil
}

// RemoveAssessment removes the assessment at index i after confirmation.
func (f *Form) RemoveAssessment(i int, confirm func() bool) error {
	if i < 0 || i >= len(f.Assessments) {
		return fmt.Errorf("no assessment at index %d", i)
	}
	if !confirm() {
		return ErrNotConfirmed
	}
	f.Assessments = append(f.Assessments[:i], f.Assessments[i+1:]...)
	return nil
}

// RemovePlanEntry removes the plan row at index i after confirmation.
func (f *Form) RemovePlanEntry(i int, confirm func() bool) error {
	if i < 0 || i >= len(f.PlanEntries) {
		return fmt.Errorf("no plan entry at index %d", i)
	}
	if !confirm() {
		return ErrNotConfirmed
	}
	f.PlanEntries = append(f.PlanEntries[:i], f.PlanEntries[i+1:]...)
	return nil
}

// RemoveTeachingMethod removes the teaching method row at index i after
// confirmation.
func (f *Form) RemoveTeachingMethod(i int, confirm func() bool) error {
	if i < 0 || i >= len(f.TeachingMethods) {
		return fmt.Errorf("no teaching method at index %d", i)
	}
	if !confirm() {
		return ErrNotConfirmed
	}
	f.TeachingMethods = append(f.TeachingMethods[:i], f.TeachingMethods[i+1:]...)
	return nil
}

// RemoveOtherMethod removes the "Others" methodology row at index i after
// confirmation.
func (f *Form) RemoveOtherMethod(i int, confirm func() bool) error {
	if i < 0 || i >= len(f.OtherMethods) {
		return fmt.Errorf("no delivery method at index %d", i)
	}
	if !confirm() {
		return ErrNotConfirmed
	}
	f.OtherMethods = append(f.OtherMethods[:i], f.OtherMethods[i+1:]...)
	return nil
}

// CLOLabel derives the display label for a CLO row from its current
// 1-based position, or "" when the row no longer exists.
func (f *Form) CLOLabel(rowID string) string {
	for i, clo := range f.CLOs {
		if clo.ID == rowID {
			return fmt.Sprintf("CLO%d", i+1)
		}
	}
	return ""
}

// CLOLabels lists the current display labels in order.
func (f *Form) CLOLabels() []string {
	labels := make([]string, len(f.CLOs))
	for i := range f.CLOs {
		labels[i] = fmt.Sprintf("CLO%d", i+1)
	}
	return labels
}
