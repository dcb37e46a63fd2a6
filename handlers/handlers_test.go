package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ailms/ai"
	"ailms/auth"
	"ailms/config"
	"ailms/models"
	"ailms/routes"
	"ailms/state"
	"ailms/store"
)

// fakeGateway satisfies ai.Gateway with canned answers per method.
type fakeGateway struct {
	generateCourse func(ctx context.Context, topic string) (*models.GeneratedCourse, error)
	evaluate       func(ctx context.Context, assignment models.Assignment, content string) (*models.Evaluation, error)
	report         func(ctx context.Context, studentName string, rows []models.ReportRow) (string, error)
	studyHelp      func(ctx context.Context, course models.Course, question string) (string, error)
}

func (f *fakeGateway) GenerateCourse(ctx context.Context, topic string) (*models.GeneratedCourse, error) {
	if f.generateCourse == nil {
		return nil, errors.New("unexpected GenerateCourse call")
	}
	return f.generateCourse(ctx, topic)
}

func (f *fakeGateway) EvaluateSubmission(ctx context.Context, assignment models.Assignment, content string) (*models.Evaluation, error) {
	if f.evaluate == nil {
		return nil, errors.New("unexpected EvaluateSubmission call")
	}
	return f.evaluate(ctx, assignment, content)
}

func (f *fakeGateway) GenerateProgressReport(ctx context.Context, studentName string, rows []models.ReportRow) (string, error) {
	if f.report == nil {
		return "", errors.New("unexpected GenerateProgressReport call")
	}
	return f.report(ctx, studentName, rows)
}

func (f *fakeGateway) AnswerStudyQuestion(ctx context.Context, course models.Course, question string) (string, error) {
	if f.studyHelp == nil {
		return "", errors.New("unexpected AnswerStudyQuestion call")
	}
	return f.studyHelp(ctx, course, question)
}

// newTestServer wires the full router against an in-memory store and the
// given gateway, the same way main does.
func newTestServer(t *testing.T, gw *fakeGateway) (*gin.Engine, *state.Controller) {
	t.Helper()
	config.ConfigInstance = &config.Config{JWTSecret: "test-secret", Port: "8080"}

	st, err := store.Open(store.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	ctrl := state.NewController(st, gw)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("state", ctrl)
		c.Next()
	})
	routes.SetupRoutes(router)
	return router, ctrl
}

func tokenFor(t *testing.T, ctrl *state.Controller, name string) string {
	t.Helper()
	for _, u := range ctrl.Users() {
		if u.Name == name {
			token, err := auth.IssueToken(u)
			require.NoError(t, err)
			return token
		}
	}
	t.Fatalf("no user named %q", name)
	return ""
}

func doJSON(router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestLoginSuccess(t *testing.T) {
	router, _ := newTestServer(t, &fakeGateway{})

	w := doJSON(router, http.MethodPost, "/api/login", "", models.LoginRequest{Username: "student", Password: "password"})
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.NotEmpty(t, body["token"])
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "student", user["name"])
	assert.Equal(t, "Student", user["role"])
}

func TestLoginHints(t *testing.T) {
	router, _ := newTestServer(t, &fakeGateway{})

	w := doJSON(router, http.MethodPost, "/api/login", "", models.LoginRequest{Username: "student", Password: "nope"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, `Invalid password. Hint: it's "password"`, decodeBody(t, w)["error"])

	w = doJSON(router, http.MethodPost, "/api/login", "", models.LoginRequest{Username: "nobody", Password: "password"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, `User not found. Try "student", "teacher", or "admin".`, decodeBody(t, w)["error"])
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router, _ := newTestServer(t, &fakeGateway{})

	w := doJSON(router, http.MethodGet, "/api/views/dashboard", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(router, http.MethodGet, "/api/views/dashboard", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDashboardView(t *testing.T) {
	router, ctrl := newTestServer(t, &fakeGateway{})

	w := doJSON(router, http.MethodGet, "/api/views/dashboard", tokenFor(t, ctrl, "student"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Welcome, student!", decodeBody(t, w)["title"])

	w = doJSON(router, http.MethodGet, "/api/views/dashboard", tokenFor(t, ctrl, "admin"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Admin Dashboard", decodeBody(t, w)["title"])
}

func TestStudentsViewIsAdminOnly(t *testing.T) {
	router, ctrl := newTestServer(t, &fakeGateway{})

	w := doJSON(router, http.MethodGet, "/api/views/students", tokenFor(t, ctrl, "student"), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(router, http.MethodGet, "/api/views/students", tokenFor(t, ctrl, "admin"), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var students []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &students))
	require.Len(t, students, 1)
	assert.Equal(t, "student", students[0]["name"])
}

func TestCreateCourseRoleGate(t *testing.T) {
	router, ctrl := newTestServer(t, &fakeGateway{})

	w := doJSON(router, http.MethodPost, "/api/courses", tokenFor(t, ctrl, "student"), models.CreateCourseRequest{Topic: "Go"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCreateCourseGatewayFailure(t *testing.T) {
	gw := &fakeGateway{
		generateCourse: func(ctx context.Context, topic string) (*models.GeneratedCourse, error) {
			return nil, fmt.Errorf("%w: model unavailable", ai.ErrCourseGeneration)
		},
	}
	router, ctrl := newTestServer(t, gw)

	w := doJSON(router, http.MethodPost, "/api/courses", tokenFor(t, ctrl, "teacher"), models.CreateCourseRequest{Topic: "Go"})
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Empty(t, ctrl.Courses())
}

func TestEvaluateUnknownSubmission(t *testing.T) {
	router, ctrl := newTestServer(t, &fakeGateway{})

	w := doJSON(router, http.MethodPost, "/api/submissions/sub-missing/evaluate", tokenFor(t, ctrl, "teacher"), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLogout(t *testing.T) {
	router, ctrl := newTestServer(t, &fakeGateway{})

	w := doJSON(router, http.MethodPost, "/api/login", "", models.LoginRequest{Username: "student", Password: "password"})
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, ctrl.CurrentUser())

	w = doJSON(router, http.MethodPost, "/api/logout", tokenFor(t, ctrl, "student"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, ctrl.CurrentUser())
}

// TestCourseLifecycle drives the manual-create, enroll, submit, evaluate and
// grades flow end to end through the HTTP surface.
func TestCourseLifecycle(t *testing.T) {
	gw := &fakeGateway{
		evaluate: func(ctx context.Context, assignment models.Assignment, content string) (*models.Evaluation, error) {
			return &models.Evaluation{Grade: 92, Feedback: "Well done"}, nil
		},
	}
	router, ctrl := newTestServer(t, gw)
	teacherToken := tokenFor(t, ctrl, "teacher")
	studentToken := tokenFor(t, ctrl, "student")

	// Teacher authors a course.
	w := doJSON(router, http.MethodPost, "/api/courses/manual", teacherToken, models.ManualCourseRequest{
		Title:       "Intro to Go",
		Description: "Basics",
		Modules: []models.ManualModuleData{{
			Title:   "Basics",
			Content: "Slices and maps",
			Assignments: []models.ManualAssignmentData{{
				Title:  "Hello",
				Prompt: "Write hello world",
			}},
		}},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var course models.Course
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &course))
	require.Len(t, course.Modules, 1)
	require.Len(t, course.Modules[0].Assignments, 1)
	assignmentID := course.Modules[0].Assignments[0].ID

	// Student enrolls themselves.
	w = doJSON(router, http.MethodPost, "/api/courses/"+course.ID+"/enroll", studentToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodGet, "/api/views/courses", studentToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var cards []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cards))
	require.Len(t, cards, 1)
	assert.Equal(t, true, cards[0]["enrolled"])

	// Student submits work.
	w = doJSON(router, http.MethodPost, "/api/submissions", studentToken, models.SubmitAssignmentRequest{
		CourseID:     course.ID,
		AssignmentID: assignmentID,
		Content:      "fmt.Println(\"hello\")",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var submission models.Submission
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &submission))
	assert.Nil(t, submission.Grade)

	// Teachers may not submit.
	w = doJSON(router, http.MethodPost, "/api/submissions", teacherToken, models.SubmitAssignmentRequest{
		CourseID:     course.ID,
		AssignmentID: assignmentID,
		Content:      "x",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Teacher grades it.
	w = doJSON(router, http.MethodPost, "/api/submissions/"+submission.ID+"/evaluate", teacherToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Submission evaluated", decodeBody(t, w)["message"])

	// The student's grades view shows the graded row.
	w = doJSON(router, http.MethodGet, "/api/views/grades", studentToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var rows []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "Intro to Go", rows[0]["course_title"])
	assert.Equal(t, "Hello", rows[0]["assignment_title"])
	assert.Equal(t, "Graded", rows[0]["status"])
	assert.Equal(t, float64(92), rows[0]["grade"])

	// Course detail attaches the student's own submission.
	w = doJSON(router, http.MethodGet, "/api/views/courses/"+course.ID, studentToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	detail := decodeBody(t, w)
	modules := detail["modules"].([]interface{})
	assignments := modules[0].(map[string]interface{})["assignments"].([]interface{})
	assert.NotNil(t, assignments[0].(map[string]interface{})["submission"])
}

func TestAddStudentAndEnrollByAdmin(t *testing.T) {
	router, ctrl := newTestServer(t, &fakeGateway{})
	adminToken := tokenFor(t, ctrl, "admin")
	teacherToken := tokenFor(t, ctrl, "teacher")

	// Only admins may add students.
	w := doJSON(router, http.MethodPost, "/api/students", teacherToken, models.AddStudentRequest{Name: "alice"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(router, http.MethodPost, "/api/students", adminToken, models.AddStudentRequest{Name: "alice"})
	require.Equal(t, http.StatusCreated, w.Code)
	var student models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &student))
	assert.Equal(t, models.RoleStudent, student.Role)

	w = doJSON(router, http.MethodPost, "/api/courses/manual", adminToken, models.ManualCourseRequest{
		Title: "Rust",
		Modules: []models.ManualModuleData{{
			Title:       "Ownership",
			Assignments: []models.ManualAssignmentData{{Title: "A", Prompt: "P"}},
		}},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var course models.Course
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &course))

	// Admin enrolls the new student by id.
	w = doJSON(router, http.MethodPost, "/api/courses/"+course.ID+"/enroll", adminToken, models.EnrollRequest{StudentID: student.ID})
	require.Equal(t, http.StatusOK, w.Code)

	got := ctrl.CourseByID(course.ID)
	require.NotNil(t, got)
	assert.Equal(t, []string{student.ID}, got.EnrolledStudentIDs)

	w = doJSON(router, http.MethodPost, "/api/courses/course-missing/enroll", adminToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProgressReport(t *testing.T) {
	gw := &fakeGateway{
		report: func(ctx context.Context, studentName string, rows []models.ReportRow) (string, error) {
			return "Steady progress.", nil
		},
	}
	router, ctrl := newTestServer(t, gw)
	studentToken := tokenFor(t, ctrl, "student")

	// Nothing graded yet: fixed fallback, no gateway needed.
	w := doJSON(router, http.MethodPost, "/api/reports/progress", studentToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, state.NoGradedWorkMessage, decodeBody(t, w)["report"])

	// A student may not report on someone else.
	w = doJSON(router, http.MethodPost, "/api/reports/progress", studentToken, map[string]string{"student_id": "student-99"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestStudyHelp(t *testing.T) {
	gw := &fakeGateway{
		studyHelp: func(ctx context.Context, course models.Course, question string) (string, error) {
			return "See module one.", nil
		},
	}
	router, ctrl := newTestServer(t, gw)
	adminToken := tokenFor(t, ctrl, "admin")
	studentToken := tokenFor(t, ctrl, "student")

	w := doJSON(router, http.MethodPost, "/api/courses/manual", adminToken, models.ManualCourseRequest{
		Title: "Go",
		Modules: []models.ManualModuleData{{
			Title:       "Basics",
			Content:     "Slices",
			Assignments: []models.ManualAssignmentData{{Title: "A", Prompt: "P"}},
		}},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var course models.Course
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &course))

	w = doJSON(router, http.MethodPost, "/api/courses/"+course.ID+"/study-help", studentToken, models.StudyHelpRequest{Question: "What is a slice?"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "See module one.", decodeBody(t, w)["answer"])

	w = doJSON(router, http.MethodPost, "/api/courses/course-missing/study-help", studentToken, models.StudyHelpRequest{Question: "Q"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
