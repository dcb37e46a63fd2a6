package models

import "time"

// Role determines which views and actions are available to a user.
type Role string

const (
	RoleStudent       Role = "Student"
	RoleTeacher       Role = "Teacher"
	RoleAdministrator Role = "Administrator"
)

// User model. Users are created at seed time or via the add-student action
// and are never edited or deleted afterwards.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role Role   `json:"role"`
}

// Assignment model. Immutable once its course exists.
type Assignment struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Prompt string `json:"prompt"`
}

// Module model. Immutable once its course exists.
type Module struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Content     string       `json:"content"`
	Assignments []Assignment `json:"assignments"`
}

// Course model. The only mutation after creation is adding or removing
// entries in EnrolledStudentIDs.
type Course struct {
	ID                 string   `json:"id"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Modules            []Module `json:"modules"`
	EnrolledStudentIDs []string `json:"enrolledStudentIds"`
}

// Submission model. Grade and Feedback start nil and are set together by
// evaluation; no valid state has exactly one of them set.
type Submission struct {
	ID           string    `json:"id"`
	AssignmentID string    `json:"assignmentId"`
	StudentID    string    `json:"studentId"`
	CourseID     string    `json:"courseId"`
	Content      string    `json:"content"`
	Grade        *int      `json:"grade"`
	Feedback     *string   `json:"feedback"`
	SubmittedAt  time.Time `json:"submittedAt"`
}

// Graded reports whether the submission has been evaluated.
func (s Submission) Graded() bool {
	return s.Grade != nil
}

// GeneratedAssignment is an assignment as produced by the AI gateway,
// before an id is assigned.
type GeneratedAssignment struct {
	Title  string `json:"title"`
	Prompt string `json:"prompt"`
}

// GeneratedModule is a module as produced by the AI gateway.
type GeneratedModule struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Content     string                `json:"content"`
	Assignments []GeneratedAssignment `json:"assignments"`
}

// GeneratedCourse is the course structure returned by the AI gateway.
type GeneratedCourse struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Modules     []GeneratedModule `json:"modules"`
}

// Evaluation is the gateway's verdict on one submission.
type Evaluation struct {
	Grade    int    `json:"grade"`
	Feedback string `json:"feedback"`
}

// ReportRow is one graded assignment as fed into a progress report.
type ReportRow struct {
	CourseTitle     string `json:"course_title"`
	AssignmentTitle string `json:"assignment_title"`
	Grade           int    `json:"grade"`
}

// LoginRequest for authentication
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AddStudentRequest for the admin add-student action
type AddStudentRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateCourseRequest for AI course generation
type CreateCourseRequest struct {
	Topic string `json:"topic" binding:"required"`
}

// ManualAssignmentData is caller-supplied assignment text for manual authoring.
type ManualAssignmentData struct {
	Title  string `json:"title" binding:"required"`
	Prompt string `json:"prompt" binding:"required"`
}

// ManualModuleData is caller-supplied module text for manual authoring.
type ManualModuleData struct {
	Title       string                 `json:"title" binding:"required"`
	Description string                 `json:"description"`
	Content     string                 `json:"content"`
	Assignments []ManualAssignmentData `json:"assignments" binding:"required,min=1,dive"`
}

// ManualCourseRequest for manual course authoring
type ManualCourseRequest struct {
	Title       string             `json:"title" binding:"required"`
	Description string             `json:"description"`
	Modules     []ManualModuleData `json:"modules" binding:"required,min=1,dive"`
}

// EnrollRequest for enroll/unenroll. StudentID is optional; when empty the
// handler acts on the authenticated user.
type EnrollRequest struct {
	StudentID string `json:"student_id"`
}

// SubmitAssignmentRequest for a student submitting work
type SubmitAssignmentRequest struct {
	CourseID     string `json:"course_id" binding:"required"`
	AssignmentID string `json:"assignment_id" binding:"required"`
	Content      string `json:"content" binding:"required"`
}

// StudyHelpRequest for the course-scoped study assistant
type StudyHelpRequest struct {
	Question string `json:"question" binding:"required"`
}
