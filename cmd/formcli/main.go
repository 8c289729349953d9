// Command formcli drives the course specification API from the terminal:
// it registers users, and validates, submits and renders course forms
// prepared as JSON files.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/ansh200516/form/formclient"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "register":
		err = runRegister(os.Args[2:])
	case "submit":
		err = runSubmit(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		color.Red("%v", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: formcli <register|submit> [flags]")
	fmt.Fprintln(os.Stderr, "  register -base URL -user ID -pass PASSWORD")
	fmt.Fprintln(os.Stderr, "  submit   -base URL -user ID -pass PASSWORD -file FORM.json [-out FILE.pdf]")
}

func runRegister(args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	base := fs.String("base", "http://localhost:8080", "API base URL")
	user := fs.String("user", "", "kerberos id")
	pass := fs.String("pass", "", "password")
	fs.Parse(args)

	if *user == "" || *pass == "" {
		return errors.New("register: -user and -pass are required")
	}

	session := formclient.NewSession(*base)
	if err := session.Register(*user, *pass); err != nil {
		return err
	}
	color.Green("Registered %s", *user)
	return nil
}

func runSubmit(args []string) error {
	fs := flag.NewFlagSet("submit", flag.ExitOnError)
	base := fs.String("base", "http://localhost:8080", "API base URL")
	user := fs.String("user", "", "kerberos id")
	pass := fs.String("pass", "", "password")
	file := fs.String("file", "", "course form JSON file")
	out := fs.String("out", "", "output PDF path (defaults to <courseCode>.pdf)")
	fs.Parse(args)

	if *user == "" || *pass == "" || *file == "" {
		return errors.New("submit: -user, -pass and -file are required")
	}

	form, err := loadForm(*file)
	if err != nil {
		return fmt.Errorf("loading %s: %w", *file, err)
	}

	session := formclient.NewSession(*base)
	if err := session.Login(*user, *pass); err != nil {
		return err
	}
	defer session.Logout()

	course, err := session.Submit(form)
	if err != nil {
		var validation *formclient.ValidationError
		if errors.As(err, &validation) {
			printViolations(validation.Violations)
		}
		return err
	}
	color.Green("Course %s submitted (id %d)", course.CourseCode, course.ID)

	data, err := session.RenderPDF()
	if err != nil {
		return err
	}
	path := *out
	if path == "" {
		path = course.CourseCode + ".pdf"
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	color.Green("Wrote %s", path)
	return nil
}

func printViolations(violations []formclient.FieldError) {
	table := tablewriter.NewWriter(os.Stderr)
	table.SetHeader([]string{"Field", "Problem"})
	for _, v := range violations {
		table.Append([]string{v.Field, v.Message})
	}
	table.Render()
}

// formFile is the on-disk shape of a prepared course form. Row groups
// reference learning outcomes by display label ("CLO1"), which loadForm
// resolves to stable row ids.
type formFile struct {
	CourseCode string `json:"courseCode"`
	CourseName string `json:"courseName"`
	CourseType string `json:"courseType"`
	Department string `json:"department"`
	HoursTotal string `json:"hoursTotal"`

	CreditStructure struct {
		Lecture  string `json:"lecture"`
		Tutorial string `json:"tutorial"`
		Lab      string `json:"lab"`
	} `json:"creditStructure"`

	PreRequisites []string `json:"preRequisites"`

	CourseDescription struct {
		CourseContents    string `json:"courseContents"`
		TargetAudience    string `json:"targetAudience"`
		IndustryRelevance string `json:"industryRelevance"`
	} `json:"courseDescription"`

	CourseResources []string `json:"courseResources"`

	CLOs []struct {
		Description string `json:"description"`
		PLO         string `json:"plo"`
	} `json:"clOs"`

	Assessments []struct {
		CLO                   string `json:"clo"`
		AssessmentType        string `json:"assessmentType"`
		AssessmentMethod      string `json:"assessmentMethod"`
		AssessmentDescription string `json:"assessmentDescription"`
		Weight                string `json:"weight"`
	} `json:"assessments"`

	CCDP []struct {
		CLO      string `json:"clo"`
		LessonNo string `json:"lessonNo"`
		Topics   string `json:"topics"`
		Hours    string `json:"hours"`
	} `json:"ccdp"`

	TeachingAndLearningMethods []struct {
		CLO         string `json:"clo"`
		Methodology string `json:"methodology"`
	} `json:"teachingAndLearningMethods"`

	FixedPercentages map[string]string `json:"fixedPercentages"` // method name -> percentage
	OtherMethods     []struct {
		Method     string `json:"method"`
		Percentage string `json:"percentage"`
	} `json:"others"`

	AssessmentStrategy string `json:"assessmentStrategy"`
}

func loadForm(path string) (*formclient.Form, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file formFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, err
	}

	form := &formclient.Form{
		CourseCode:         file.CourseCode,
		CourseName:         file.CourseName,
		CourseType:         file.CourseType,
		Department:         file.Department,
		HoursTotal:         file.HoursTotal,
		CreditLecture:      file.CreditStructure.Lecture,
		CreditTutorial:     file.CreditStructure.Tutorial,
		CreditLab:          file.CreditStructure.Lab,
		CourseContents:     file.CourseDescription.CourseContents,
		TargetAudience:     file.CourseDescription.TargetAudience,
		IndustryRelevance:  file.CourseDescription.IndustryRelevance,
		PreRequisites:      file.PreRequisites,
		CourseResources:    strings.Join(file.CourseResources, "\n"),
		AssessmentStrategy: file.AssessmentStrategy,
	}

	for _, method := range formclient.FixedDeliveryMethods {
		form.FixedMethods = append(form.FixedMethods, formclient.MethodRow{
			Method:     method,
			Percentage: file.FixedPercentages[method],
		})
	}
	for _, other := range file.OtherMethods {
		form.OtherMethods = append(form.OtherMethods, formclient.MethodRow{
			Method:     other.Method,
			Percentage: other.Percentage,
		})
	}

	byLabel := make(map[string]string, len(file.CLOs))
	for i, clo := range file.CLOs {
		row := form.AddCLO()
		row.Description = clo.Description
		row.PLOs = clo.PLO
		byLabel[fmt.Sprintf("CLO%d", i+1)] = row.ID
	}

	resolve := func(label string) (string, error) {
		id, ok := byLabel[strings.TrimSpace(label)]
		if !ok {
			return "", fmt.Errorf("unknown CLO reference %q", label)
		}
		return id, nil
	}

	for _, a := range file.Assessments {
		id, err := resolve(a.CLO)
		if err != nil {
			return nil, err
		}
		form.Assessments = append(form.Assessments, formclient.AssessmentRow{
			CLORowID:    id,
			Type:        a.AssessmentType,
			Method:      a.AssessmentMethod,
			Description: a.AssessmentDescription,
			Weight:      a.Weight,
		})
	}
	for _, e := range file.CCDP {
		id, err := resolve(e.CLO)
		if err != nil {
			return nil, err
		}
		form.PlanEntries = append(form.PlanEntries, formclient.PlanRow{
			CLORowID: id,
			LessonNo: e.LessonNo,
			Topics:   e.Topics,
			Hours:    e.Hours,
		})
	}
	for _, m := range file.TeachingAndLearningMethods {
		id, err := resolve(m.CLO)
		if err != nil {
			return nil, err
		}
		form.TeachingMethods = append(form.TeachingMethods, formclient.TeachingMethodRow{
			CLORowID:    id,
			Methodology: m.Methodology,
		})
	}

	return form, nil
}
