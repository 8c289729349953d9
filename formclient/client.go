package formclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ansh200516/form/internal/pdf"
	"github.com/ansh200516/form/models"
)

// ErrorKind classifies what went wrong with a submission attempt.
type ErrorKind int

const (
	// ErrServer means the server responded with an error status.
	ErrServer ErrorKind = iota
	// ErrNoResponse means no response was received at all.
	ErrNoResponse
	// ErrRequest means the request could not be built locally.
	ErrRequest
)

// RequestError carries the triaged failure of an API call.
type RequestError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *RequestError) Error() string { return e.Message }

func (e *RequestError) Unwrap() error { return e.Err }

// Session is an authenticated connection to the course specification API,
// with an explicit login/logout lifecycle in place of a globally stored
// token.
type Session struct {
	BaseURL    string
	HTTPClient *http.Client

	token      string
	lastCourse *models.Course
}

// NewSession returns a session pointed at the given API base URL.
func NewSession(baseURL string) *Session {
	return &Session{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// LoggedIn reports whether the session holds a token.
func (s *Session) LoggedIn() bool { return s.token != "" }

// Logout discards the session token and the last fetched aggregate.
func (s *Session) Logout() {
	s.token = ""
	s.lastCourse = nil
}

// LastCourse returns the aggregate stored by the last successful
// submission, or nil.
func (s *Session) LastCourse() *models.Course { return s.lastCourse }

// Register creates an account.
func (s *Session) Register(kerberosID, password string) error {
	return s.postJSON("/api/auth/register", map[string]string{
		"kerberosId": kerberosID,
		"password":   password,
	}, http.StatusCreated, nil)
}

// Login authenticates and stores the returned token on the session.
func (s *Session) Login(kerberosID, password string) error {
	var out struct {
		Token string `json:"token"`
	}
	if err := s.postJSON("/api/auth/login", map[string]string{
		"kerberosId": kerberosID,
		"password":   password,
	}, http.StatusOK, &out); err != nil {
		return err
	}
	s.token = out.Token
	return nil
}

// Submit validates the form, posts the normalized payload, and on success
// resets the form and stores the returned course aggregate. The error is a
// *ValidationError when field rules block the submission, or a
// *RequestError distinguishing server, transport and request-build
// failures.
func (s *Session) Submit(f *Form) (*models.Course, error) {
	if violations := f.Validate(); len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}
	if !s.LoggedIn() {
		return nil, &RequestError{Kind: ErrRequest, Message: "Authentication token missing. Please log in."}
	}

	var out struct {
		Message string        `json:"message"`
		Data    models.Course `json:"data"`
	}
	if err := s.postJSON("/api/courses", buildPayload(f), http.StatusCreated, &out); err != nil {
		return nil, err
	}

	s.lastCourse = &out.Data
	f.Reset()
	return s.lastCourse, nil
}

// RenderPDF renders the stored aggregate through the same generator the
// server uses.
func (s *Session) RenderPDF() ([]byte, error) {
	if s.lastCourse == nil {
		return nil, fmt.Errorf("no submitted course to render")
	}
	return pdf.Generate(s.lastCourse)
}

func (s *Session) postJSON(path string, payload interface{}, wantStatus int, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return &RequestError{Kind: ErrRequest, Message: "Error: " + err.Error(), Err: err}
	}

	req, err := http.NewRequest(http.MethodPost, s.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return &RequestError{Kind: ErrRequest, Message: "Error: " + err.Error(), Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return &RequestError{
			Kind:    ErrNoResponse,
			Message: "Error: No response from server. Please try again later.",
			Err:     err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		var serverErr struct {
			Message string `json:"message"`
		}
		message := resp.Status
		if json.NewDecoder(resp.Body).Decode(&serverErr) == nil && serverErr.Message != "" {
			message = serverErr.Message
		}
		return &RequestError{Kind: ErrServer, Message: "Error: " + message}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &RequestError{Kind: ErrServer, Message: "Error: " + err.Error(), Err: err}
		}
	}
	return nil
}

type methodologyPayload struct {
	Method     string  `json:"method"`
	Percentage float64 `json:"percentage"`
}

type cloPayload struct {
	CLO         string   `json:"clo"`
	Description string   `json:"description"`
	PLO         []string `json:"plo"`
}

type assessmentPayload struct {
	CLO                   string `json:"clo"`
	AssessmentType        string `json:"assessmentType"`
	AssessmentMethod      string `json:"assessmentMethod"`
	AssessmentDescription string `json:"assessmentDescription"`
	Weight                string `json:"weight"`
}

type planPayload struct {
	CLO      string `json:"clo"`
	LessonNo string `json:"lessonNo"`
	Topics   string `json:"topics"`
	Hours    string `json:"hours"`
}

type teachingMethodPayload struct {
	CLO         string `json:"clo"`
	Methodology string `json:"methodology"`
}

type coursePayload struct {
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

	TeachingAndLearningMethods []teachingMethodPayload `json:"teachingAndLearningMethods"`
	DeliveryMethodologies      []methodologyPayload    `json:"courseDeliveryMethodologies"`
	AssessmentStrategy         map[string]string       `json:"assessmentStrategy,omitempty"`
	CCDP                       []planPayload           `json:"ccdp"`
	Assessments                []assessmentPayload     `json:"assessments"`
	CLOs                       []cloPayload            `json:"clOs"`
}

// buildPayload flattens and normalizes the form into the wire shape: fixed
// and "other" delivery methods become one list with coerced percentages and
// invalid entries dropped, and resource text becomes a trimmed string list.
func buildPayload(f *Form) coursePayload {
	var p coursePayload
	p.CourseCode = f.CourseCode
	p.CourseName = f.CourseName
	p.CourseType = f.CourseType
	p.Department = f.Department
	p.HoursTotal = f.HoursTotal
	p.CreditStructure.Lecture = f.CreditLecture
	p.CreditStructure.Tutorial = f.CreditTutorial
	p.CreditStructure.Lab = f.CreditLab
	p.PreRequisites = append([]string{}, f.PreRequisites...)
	p.CourseDescription.CourseContents = f.CourseContents
	p.CourseDescription.TargetAudience = f.TargetAudience
	p.CourseDescription.IndustryRelevance = f.IndustryRelevance
	p.CourseResources = normalizeResources(f.CourseResources)
	p.DeliveryMethodologies = consolidateMethods(f.FixedMethods, f.OtherMethods)

	if strings.TrimSpace(f.AssessmentStrategy) != "" {
		p.AssessmentStrategy = map[string]string{"description": f.AssessmentStrategy}
	}

	for _, clo := range f.CLOs {
		p.CLOs = append(p.CLOs, cloPayload{
			CLO:         f.CLOLabel(clo.ID),
			Description: clo.Description,
			PLO:         splitList(clo.PLOs),
		})
	}
	for _, a := range f.Assessments {
		p.Assessments = append(p.Assessments, assessmentPayload{
			CLO:                   f.CLOLabel(a.CLORowID),
			AssessmentType:        a.Type,
			AssessmentMethod:      a.Method,
			AssessmentDescription: a.Description,
			Weight:                a.Weight,
		})
	}
	for _, e := range f.PlanEntries {
		p.CCDP = append(p.CCDP, planPayload{
			CLO:      f.CLOLabel(e.CLORowID),
			LessonNo: e.LessonNo,
			Topics:   e.Topics,
			Hours:    e.Hours,
		})
	}
	for _, m := range f.TeachingMethods {
		p.TeachingAndLearningMethods = append(p.TeachingAndLearningMethods, teachingMethodPayload{
			CLO:         f.CLOLabel(m.CLORowID),
			Methodology: m.Methodology,
		})
	}
	return p
}

// consolidateMethods flattens the fixed and "other" methodology rows into
// one list, trimming method names, coercing percentages to floats and
// dropping entries with an empty method or a non-numeric percentage.
func consolidateMethods(fixed, others []MethodRow) []methodologyPayload {
	out := make([]methodologyPayload, 0, len(fixed)+len(others))
	for _, row := range append(append([]MethodRow{}, fixed...), others...) {
		method := strings.TrimSpace(row.Method)
		pct, err := strconv.ParseFloat(strings.TrimSpace(row.Percentage), 64)
		if method == "" || err != nil {
			continue
		}
		out = append(out, methodologyPayload{Method: method, Percentage: pct})
	}
	return out
}

// normalizeResources splits newline-delimited resource text into a trimmed,
// non-empty string list.
func normalizeResources(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
