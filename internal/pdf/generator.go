// Package pdf renders a hydrated course aggregate into the fixed-layout
// course specification document. Rendering is a pure transformation: absent
// values degrade to "N/A" placeholders and never fail the document.
package pdf

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/ansh200516/form/models"
)

const (
	headerSize    = 18
	subHeaderSize = 14
	textSize      = 12
	tableSize     = 10
)

// Generate builds the course specification PDF. Sections appear in a fixed
// order: header, specification fields, description, CLOs, CLO-to-PLO table,
// teaching methods, delivery methodology, resources, assessment strategy
// (when present) and assessments.
func Generate(course *models.Course) ([]byte, error) {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetTitle("Course Specification", false)
	doc.AddPage()

	writeHeader(doc, "Course Specification")

	// Specification fields.
	writeText(doc, "Course Code: "+orNA(course.CourseCode))
	writeText(doc, "Course Name: "+orNA(course.CourseName))
	writeText(doc, "Course Type: "+orNA(course.CourseType))
	writeText(doc, "Department: "+orNA(course.Department))
	writeText(doc, "Total Credit Hours: "+numOrNA(course.HoursTotal))
	writeSubHeader(doc, "Credit Structure:")
	writeListItem(doc, "Lecture: "+numOrNA(course.CreditStructure.Lecture))
	writeListItem(doc, "Tutorial: "+numOrNA(course.CreditStructure.Tutorial))
	writeListItem(doc, "Lab: "+numOrNA(course.CreditStructure.Lab))
	if len(course.PreRequisites) > 0 {
		writeText(doc, "Pre-requisites: "+strings.Join(course.PreRequisites, ", "))
	} else {
		writeText(doc, "Pre-requisites: None")
	}

	// Description.
	writeSubHeader(doc, "Course Description")
	writeText(doc, "Course Contents: "+orNA(course.CourseDescription.CourseContents))
	writeText(doc, "Target Audience: "+orNA(course.CourseDescription.TargetAudience))
	writeText(doc, "Industry Relevance: "+orNA(course.CourseDescription.IndustryRelevance))

	// Learning outcomes.
	writeSubHeader(doc, "Course Learning Outcomes (CLOs)")
	if len(course.CLOs) > 0 {
		for i, clo := range course.CLOs {
			writeText(doc, "CLO "+strconv.Itoa(i+1)+": "+orNA(clo.Description))
		}
	} else {
		writeText(doc, "No CLOs available.")
	}

	// CLO to PLO mapping table.
	writeSubHeader(doc, "Mapping Course Learning Outcomes to Program Learning Outcomes (PLOs)")
	writeTableRow(doc, []float64{40, 150}, []string{"CLO", "PLOs"}, true)
	if len(course.CLOMappings) > 0 {
		for _, mapping := range course.CLOMappings {
			plos := "N/A"
			if len(mapping.PLOs) > 0 {
				plos = strings.Join(mapping.PLOs, ", ")
			}
			writeTableRow(doc, []float64{40, 150}, []string{orNA(mapping.CLOLabel), plos}, false)
		}
	} else {
		writeText(doc, "No CLO to PLO mappings available.")
	}

	// Teaching and learning methodology table.
	writeSubHeader(doc, "Teaching and Learning Methodology")
	writeTableRow(doc, []float64{40, 150}, []string{"CLO", "Methodology"}, true)
	if len(course.TeachingMethods) > 0 {
		for _, method := range course.TeachingMethods {
			writeTableRow(doc, []float64{40, 150},
				[]string{orNA(method.CLOLabel), orNA(method.Methodology)}, false)
		}
	} else {
		writeText(doc, "No Teaching and Learning Methods available.")
	}

	// Delivery methodology table.
	writeSubHeader(doc, "Course Delivery Methodology")
	writeTableRow(doc, []float64{95, 95}, []string{"Method", "% of Delivery"}, true)
	if len(course.DeliveryMethodologies) > 0 {
		for _, method := range course.DeliveryMethodologies {
			writeTableRow(doc, []float64{95, 95},
				[]string{orNA(method.Method), numOrNA(method.Percentage) + "%"}, false)
		}
	} else {
		writeText(doc, "No Course Delivery Methodologies available.")
	}

	// Resources.
	writeSubHeader(doc, "Course Resources")
	if len(course.CourseResources) > 0 {
		for _, resource := range course.CourseResources {
			writeListItem(doc, "- "+orNA(resource))
		}
	} else {
		writeText(doc, "No Course Resources available.")
	}

	// Assessment strategy, only when present.
	if course.AssessmentStrategy != nil && course.AssessmentStrategy.Description != "" {
		writeSubHeader(doc, "Assessment Strategy")
		writeText(doc, course.AssessmentStrategy.Description)
	}

	// Assessments table.
	widths := []float64{25, 40, 40, 60, 25}
	writeSubHeader(doc, "Assessments")
	writeTableRow(doc, widths, []string{"CLO", "Assessment Type", "Method", "Description", "Weight (%)"}, true)
	if len(course.Assessments) > 0 {
		for _, a := range course.Assessments {
			writeTableRow(doc, widths, []string{
				orNA(a.CLOLabel),
				orNA(a.AssessmentType),
				orNA(a.AssessmentMethod),
				orNA(a.AssessmentDescription),
				numOrNA(a.Weight) + "%",
			}, false)
		}
	} else {
		writeText(doc, "No Assessments available.")
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeHeader(doc *gofpdf.Fpdf, text string) {
	doc.SetFont("Helvetica", "U", headerSize)
	doc.CellFormat(0, 10, text, "", 1, "C", false, 0, "")
	doc.Ln(2)
}

func writeSubHeader(doc *gofpdf.Fpdf, text string) {
	doc.Ln(2)
	doc.SetFont("Helvetica", "U", subHeaderSize)
	doc.CellFormat(0, 7, text, "", 1, "L", false, 0, "")
}

func writeText(doc *gofpdf.Fpdf, text string) {
	doc.SetFont("Helvetica", "", textSize)
	doc.MultiCell(0, 6, text, "", "L", false)
}

func writeListItem(doc *gofpdf.Fpdf, text string) {
	doc.SetFont("Helvetica", "", textSize)
	doc.SetX(doc.GetX() + 5)
	doc.MultiCell(0, 6, text, "", "L", false)
}

func writeTableRow(doc *gofpdf.Fpdf, widths []float64, cells []string, header bool) {
	style := ""
	border := ""
	if header {
		style = "B"
		border = "B"
	}
	doc.SetFont("Helvetica", style, tableSize)
	for i, cell := range cells {
		doc.CellFormat(widths[i], 6, cell, border, 0, "L", false, 0, "")
	}
	doc.Ln(-1)
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

// numOrNA treats a zero value as unset and falls back to the placeholder.
func numOrNA(f float64) string {
	if f == 0 {
		return "N/A"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
