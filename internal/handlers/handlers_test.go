package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ansh200516/form/config"
	"github.com/ansh200516/form/internal/routes"
	"github.com/ansh200516/form/models"
)

func setupServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection, or every pooled conn gets its own empty :memory: db
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.AssessmentStrategy{},
		&models.Course{},
		&models.CLO{},
		&models.CLOToPLO{},
		&models.PlanEntry{},
		&models.Assessment{},
		&models.TeachingMethodology{},
	))

	config.DB = db
	config.RDB = nil
	config.JwtKey = []byte("test-secret")

	r := gin.New()
	routes.SetupRoutes(r)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func registerAndLogin(t *testing.T, r *gin.Engine, kerberosID, password string) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", map[string]string{
		"kerberosId": kerberosID, "password": password,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", "", map[string]string{
		"kerberosId": kerberosID, "password": password,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.NotEmpty(t, out.Token)
	return out.Token
}

func validCoursePayload(code string) map[string]interface{} {
	return map[string]interface{}{
		"courseCode": code,
		"courseName": "Introduction to Databases",
		"courseType": "Core",
		"department": "Computer Science",
		"hoursTotal": "42",
		"creditStructure": map[string]interface{}{
			"lecture": "3", "tutorial": "1", "lab": "2",
		},
		"preRequisites": []string{" CS100 ", ""},
		"courseDescription": map[string]interface{}{
			"courseContents":    "Relational model, SQL, transactions",
			"targetAudience":    "Second year undergraduates",
			"industryRelevance": "Core backend skill",
		},
		"courseResources": []string{" Database System Concepts ", ""},
		"teachingAndLearningMethods": []map[string]interface{}{
			{"clo": "CLO1", "methodology": "Lecture-Based"},
		},
		"courseDeliveryMethodologies": []map[string]interface{}{
			{"method": "Lecture", "percentage": 60},
			{"method": "   ", "percentage": 20},
			{"method": "Workshops", "percentage": "40"},
			{"method": "Broken", "percentage": nil},
		},
		"assessmentStrategy": map[string]interface{}{
			"description": "Continuous assessment with a final exam",
		},
		"ccdp": []map[string]interface{}{
			{"clo": "CLO1", "lessonNo": "1", "topics": "Relational model", "hours": "4.5"},
			{"clo": "CLO2", "lessonNo": "2", "topics": "SQL basics", "hours": "6"},
		},
		"assessments": []map[string]interface{}{
			{"clo": "CLO1", "assessmentType": "Midterm Exam", "assessmentMethod": "Written Exam",
				"assessmentDescription": "Closed book", "weight": "40"},
			{"clo": "CLO2", "assessmentType": "Project", "assessmentMethod": "Demo",
				"assessmentDescription": "Group project", "weight": 60},
		},
		"clOs": []map[string]interface{}{
			{"clo": "CLO1", "description": "Explain the relational model", "plo": []string{"PLO1", "PLO2"}},
			{"clo": "CLO2", "description": "Write non-trivial SQL", "plo": ""},
		},
	}
}

func TestRegisterAndLogin(t *testing.T) {
	r := setupServer(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", map[string]string{
		"kerberosId": "u1", "password": "p",
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "User registered successfully")

	// duplicate login id
	w = doJSON(t, r, http.MethodPost, "/api/auth/register", "", map[string]string{
		"kerberosId": "u1", "password": "other",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "User already exists")

	// missing fields
	w = doJSON(t, r, http.MethodPost, "/api/auth/login", "", map[string]string{"kerberosId": "u1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// wrong password
	w = doJSON(t, r, http.MethodPost, "/api/auth/login", "", map[string]string{
		"kerberosId": "u1", "password": "nope",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// valid credentials return a token carrying the stored user id
	w = doJSON(t, r, http.MethodPost, "/api/auth/login", "", map[string]string{
		"kerberosId": "u1", "password": "p",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))

	token, err := jwt.Parse(out.Token, func(*jwt.Token) (interface{}, error) {
		return config.JwtKey, nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)

	var user models.User
	require.NoError(t, config.DB.Where("kerberos_id = ?", "u1").First(&user).Error)
	assert.Equal(t, float64(user.ID), claims["user_id"])
}

func TestCreateCourse(t *testing.T) {
	r := setupServer(t)
	token := registerAndLogin(t, r, "prof", "secret")

	w := doJSON(t, r, http.MethodPost, "/api/courses", token, validCoursePayload("CS201"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var out struct {
		Message string        `json:"message"`
		Data    models.Course `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, "Course created successfully", out.Message)

	course := out.Data
	assert.Equal(t, "CS201", course.CourseCode)
	assert.Equal(t, 42.0, course.HoursTotal)
	assert.Equal(t, 3.0, course.CreditStructure.Lecture)

	// one child record per input entry
	assert.Len(t, course.TeachingMethods, 1)
	assert.Len(t, course.PlanEntries, 2)
	assert.Len(t, course.Assessments, 2)
	assert.Len(t, course.CLOs, 2)
	assert.Len(t, course.CLOMappings, 1) // only CLO1 carries PLO labels

	// coercions
	assert.Equal(t, 1, course.PlanEntries[0].LessonNo)
	assert.Equal(t, 4.5, course.PlanEntries[0].Hours)
	assert.Equal(t, 40.0, course.Assessments[0].Weight)
	assert.Equal(t, 60.0, course.Assessments[1].Weight)

	// methodology list flattened with invalid entries dropped, order kept
	require.Len(t, course.DeliveryMethodologies, 2)
	assert.Equal(t, "Lecture", course.DeliveryMethodologies[0].Method)
	assert.Equal(t, 60.0, course.DeliveryMethodologies[0].Percentage)
	assert.Equal(t, "Workshops", course.DeliveryMethodologies[1].Method)
	assert.Equal(t, 40.0, course.DeliveryMethodologies[1].Percentage)

	// normalized string lists
	assert.Equal(t, []string{"CS100"}, []string(course.PreRequisites))
	assert.Equal(t, []string{"Database System Concepts"}, []string(course.CourseResources))

	// CLO labels assigned positionally and mapping carries the real FK
	assert.Equal(t, "CLO1", course.CLOs[0].Label)
	assert.Equal(t, "CLO2", course.CLOs[1].Label)
	assert.Equal(t, course.CLOs[0].ID, course.CLOMappings[0].CLOID)
	assert.Equal(t, []string{"PLO1", "PLO2"}, []string(course.CLOMappings[0].PLOs))

	require.NotNil(t, course.AssessmentStrategy)
	assert.Equal(t, "Continuous assessment with a final exam", course.AssessmentStrategy.Description)

	// re-fetch hydrates the same aggregate
	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/courses/%d", course.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var fetched struct {
		Data models.Course `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fetched))
	assert.Equal(t, course.CourseCode, fetched.Data.CourseCode)
	assert.Len(t, fetched.Data.CLOs, 2)
	assert.Len(t, fetched.Data.PlanEntries, 2)
}

func TestCreateCoursePreconditions(t *testing.T) {
	r := setupServer(t)
	token := registerAndLogin(t, r, "prof", "secret")

	cases := []struct {
		drop    string
		message string
	}{
		{"ccdp", "At least one CCDP entry is required"},
		{"assessments", "At least one assessment is required"},
		{"clOs", "At least one CLO is required"},
	}
	for _, tc := range cases {
		payload := validCoursePayload("CS301")
		payload[tc.drop] = []map[string]interface{}{}

		w := doJSON(t, r, http.MethodPost, "/api/courses", token, payload)
		assert.Equal(t, http.StatusBadRequest, w.Code, tc.drop)
		assert.Contains(t, w.Body.String(), tc.message)
	}

	// nothing was written by the rejected requests
	for _, model := range []interface{}{
		&models.Course{}, &models.CLO{}, &models.PlanEntry{},
		&models.Assessment{}, &models.TeachingMethodology{}, &models.AssessmentStrategy{},
	} {
		var count int64
		config.DB.Model(model).Count(&count)
		assert.Zero(t, count, "%T", model)
	}
}

func TestCreateCourseRequiresAuth(t *testing.T) {
	r := setupServer(t)

	w := doJSON(t, r, http.MethodPost, "/api/courses", "", validCoursePayload("CS401"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/courses", "not-a-token", validCoursePayload("CS401"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var count int64
	config.DB.Model(&models.Course{}).Count(&count)
	assert.Zero(t, count)
}

func TestDuplicateCourseCodeLeavesNoOrphans(t *testing.T) {
	r := setupServer(t)
	token := registerAndLogin(t, r, "prof", "secret")

	w := doJSON(t, r, http.MethodPost, "/api/courses", token, validCoursePayload("CS500"))
	require.Equal(t, http.StatusCreated, w.Code)

	counts := func() map[string]int64 {
		out := map[string]int64{}
		for name, model := range map[string]interface{}{
			"courses":     &models.Course{},
			"clos":        &models.CLO{},
			"plans":       &models.PlanEntry{},
			"assessments": &models.Assessment{},
			"methods":     &models.TeachingMethodology{},
			"strategies":  &models.AssessmentStrategy{},
			"mappings":    &models.CLOToPLO{},
		} {
			var n int64
			config.DB.Model(model).Count(&n)
			out[name] = n
		}
		return out
	}
	before := counts()

	// same code again: the uniqueness constraint fails the transaction
	w = doJSON(t, r, http.MethodPost, "/api/courses", token, validCoursePayload("CS500"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Server error")

	// the failed submission rolled back completely
	assert.Equal(t, before, counts())
}

func TestWeightBoundsNotCheckedServerSide(t *testing.T) {
	r := setupServer(t)
	token := registerAndLogin(t, r, "prof", "secret")

	payload := validCoursePayload("CS600")
	payload["assessments"] = []map[string]interface{}{
		{"clo": "CLO1", "assessmentType": "Exam", "assessmentMethod": "Written",
			"assessmentDescription": "overweight", "weight": 150},
	}

	w := doJSON(t, r, http.MethodPost, "/api/courses", token, payload)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var out struct {
		Data models.Course `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Len(t, out.Data.Assessments, 1)
	assert.Equal(t, 150.0, out.Data.Assessments[0].Weight)
}

func TestUnknownCLOReferenceRejected(t *testing.T) {
	r := setupServer(t)
	token := registerAndLogin(t, r, "prof", "secret")

	payload := validCoursePayload("CS700")
	payload["ccdp"] = []map[string]interface{}{
		{"clo": "CLO5", "lessonNo": "1", "topics": "Dangling", "hours": "2"},
	}

	w := doJSON(t, r, http.MethodPost, "/api/courses", token, payload)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "CLO5")

	var count int64
	config.DB.Model(&models.Course{}).Count(&count)
	assert.Zero(t, count)
}

func TestCoursePDFEndpoint(t *testing.T) {
	r := setupServer(t)
	token := registerAndLogin(t, r, "prof", "secret")

	w := doJSON(t, r, http.MethodPost, "/api/courses", token, validCoursePayload("CS800"))
	require.Equal(t, http.StatusCreated, w.Code)
	var out struct {
		Data models.Course `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/courses/%d/pdf", out.Data.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "CS800.pdf")
	assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF"))
}

func TestListCourses(t *testing.T) {
	r := setupServer(t)
	token := registerAndLogin(t, r, "prof", "secret")

	for _, code := range []string{"CS101", "CS102"} {
		w := doJSON(t, r, http.MethodPost, "/api/courses", token, validCoursePayload(code))
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := doJSON(t, r, http.MethodGet, "/api/courses?all=true", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var out struct {
		Data []models.Course `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Len(t, out.Data, 2)
	assert.Equal(t, "CS101", out.Data[0].CourseCode)

	w = doJSON(t, r, http.MethodGet, "/api/courses?page=1&pageSize=1", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var paged struct {
		TotalRows  int64 `json:"totalRows"`
		TotalPages int   `json:"totalPages"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &paged))
	assert.Equal(t, int64(2), paged.TotalRows)
	assert.Equal(t, 2, paged.TotalPages)
}
