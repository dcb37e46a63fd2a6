// Package views builds the read-only projections behind each screen. Every
// function here is pure: state snapshots in, response structs out, no
// mutation and no I/O.
package views

import (
	"fmt"

	"ailms/models"
)

// View tokens, one per screen.
const (
	ViewDashboard      = "dashboard"
	ViewCourses        = "courses"
	ViewCourseDetail   = "course-detail"
	ViewCreateCourse   = "create-course"
	ViewManualCreate   = "manual-create-course"
	ViewGrades         = "grades"
	ViewManageStudents = "manage-students"
)

// StatCard is one headline number on a dashboard.
type StatCard struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

// CourseSummary is the card shown in course grids.
type CourseSummary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Dashboard is the role-specific landing view.
type Dashboard struct {
	Title   string          `json:"title"`
	Message string          `json:"message"`
	Stats   []StatCard      `json:"stats"`
	Courses []CourseSummary `json:"courses"`
}

// BuildDashboard assembles the landing view for a user. Students see their
// enrolled courses and their own submission counts; teachers see grading
// load; administrators see platform-wide totals.
func BuildDashboard(user models.User, courses []models.Course, submissions []models.Submission) Dashboard {
	var enrolled []CourseSummary
	for _, course := range courses {
		if containsID(course.EnrolledStudentIDs, user.ID) {
			enrolled = append(enrolled, summarize(course))
		}
	}

	var mine, mineGraded, ungraded int
	for _, sub := range submissions {
		if sub.StudentID == user.ID {
			mine++
			if sub.Graded() {
				mineGraded++
			}
		}
		if !sub.Graded() {
			ungraded++
		}
	}

	switch user.Role {
	case models.RoleStudent:
		return Dashboard{
			Title:   fmt.Sprintf("Welcome, %s!", user.Name),
			Message: "Your learning journey starts here. Let's make progress today!",
			Stats: []StatCard{
				{Label: "Enrolled Courses", Value: len(enrolled)},
				{Label: "Submitted Work", Value: mine},
				{Label: "Graded Assignments", Value: mineGraded},
			},
			Courses: enrolled,
		}
	case models.RoleTeacher:
		return Dashboard{
			Title:   "Teacher Dashboard",
			Message: "Manage courses, evaluate submissions, and guide your students.",
			Stats: []StatCard{
				{Label: "Total Courses", Value: len(courses)},
				{Label: "Total Submissions", Value: len(submissions)},
				{Label: "Awaiting Grading", Value: ungraded},
			},
			Courses: summarizeAll(courses),
		}
	default:
		distinct := make(map[string]struct{})
		for _, course := range courses {
			for _, id := range course.EnrolledStudentIDs {
				distinct[id] = struct{}{}
			}
		}
		return Dashboard{
			Title:   "Admin Dashboard",
			Message: "Oversee all platform activity from a bird's-eye view.",
			Stats: []StatCard{
				{Label: "Total Courses", Value: len(courses)},
				{Label: "Total Students", Value: len(distinct)},
				{Label: "Total Submissions", Value: len(submissions)},
			},
			Courses: summarizeAll(courses),
		}
	}
}

// CourseCard is a catalog entry plus the viewer's enrollment flag.
type CourseCard struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Enrolled    bool   `json:"enrolled"`
}

// BuildCourseList lists the whole catalog with per-viewer enrollment flags.
func BuildCourseList(user models.User, courses []models.Course) []CourseCard {
	cards := make([]CourseCard, 0, len(courses))
	for _, course := range courses {
		cards = append(cards, CourseCard{
			ID:          course.ID,
			Title:       course.Title,
			Description: course.Description,
			Enrolled:    containsID(course.EnrolledStudentIDs, user.ID),
		})
	}
	return cards
}

// AssignmentView pairs an assignment with the viewer's own submission, if
// any, so the UI can hide the submit action once work exists.
type AssignmentView struct {
	ID         string             `json:"id"`
	Title      string             `json:"title"`
	Prompt     string             `json:"prompt"`
	Submission *models.Submission `json:"submission,omitempty"`
}

// ModuleView is a module with its assignments resolved for the viewer.
type ModuleView struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Content     string           `json:"content"`
	Assignments []AssignmentView `json:"assignments"`
}

// CourseDetail is the full course screen.
type CourseDetail struct {
	ID            string       `json:"id"`
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	Modules       []ModuleView `json:"modules"`
	Enrolled      bool         `json:"enrolled"`
	EnrolledCount int          `json:"enrolled_count"`
}

// BuildCourseDetail expands one course for the viewer, attaching their own
// submission to each assignment they have answered.
func BuildCourseDetail(user models.User, course models.Course, submissions []models.Submission) CourseDetail {
	detail := CourseDetail{
		ID:            course.ID,
		Title:         course.Title,
		Description:   course.Description,
		Modules:       make([]ModuleView, 0, len(course.Modules)),
		Enrolled:      containsID(course.EnrolledStudentIDs, user.ID),
		EnrolledCount: len(course.EnrolledStudentIDs),
	}
	for _, mod := range course.Modules {
		mv := ModuleView{
			ID:          mod.ID,
			Title:       mod.Title,
			Description: mod.Description,
			Content:     mod.Content,
			Assignments: make([]AssignmentView, 0, len(mod.Assignments)),
		}
		for _, ass := range mod.Assignments {
			av := AssignmentView{ID: ass.ID, Title: ass.Title, Prompt: ass.Prompt}
			for i := range submissions {
				if submissions[i].AssignmentID == ass.ID && submissions[i].StudentID == user.ID {
					sub := submissions[i]
					av.Submission = &sub
					break
				}
			}
			mv.Assignments = append(mv.Assignments, av)
		}
		detail.Modules = append(detail.Modules, mv)
	}
	return detail
}

// GradeRow is one line of the grades table.
type GradeRow struct {
	SubmissionID    string  `json:"submission_id"`
	CourseTitle     string  `json:"course_title"`
	AssignmentTitle string  `json:"assignment_title"`
	StudentID       string  `json:"student_id"`
	StudentName     string  `json:"student_name"`
	Status          string  `json:"status"`
	Grade           *int    `json:"grade"`
	Feedback        *string `json:"feedback"`
}

// BuildGrades lists submissions with their course and assignment titles
// resolved. Students see only their own rows; teachers and administrators
// see everything. Broken references resolve to placeholder text rather than
// dropping the row: the submission stays visible and gradeable state intact.
func BuildGrades(user models.User, courses []models.Course, submissions []models.Submission, users []models.User) []GradeRow {
	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}

	rows := make([]GradeRow, 0, len(submissions))
	for _, sub := range submissions {
		if user.Role == models.RoleStudent && sub.StudentID != user.ID {
			continue
		}
		row := GradeRow{
			SubmissionID:    sub.ID,
			CourseTitle:     "N/A",
			AssignmentTitle: "N/A",
			StudentID:       sub.StudentID,
			StudentName:     names[sub.StudentID],
			Status:          "Submitted",
			Grade:           sub.Grade,
			Feedback:        sub.Feedback,
		}
		if row.StudentName == "" {
			row.StudentName = "Student ..." + tail(sub.StudentID, 4)
		}
		if sub.Graded() {
			row.Status = "Graded"
		}
		for _, course := range courses {
			if course.ID != sub.CourseID {
				continue
			}
			row.CourseTitle = course.Title
			for _, mod := range course.Modules {
				for _, ass := range mod.Assignments {
					if ass.ID == sub.AssignmentID {
						row.AssignmentTitle = ass.Title
					}
				}
			}
			break
		}
		rows = append(rows, row)
	}
	return rows
}

// StudentEntry is one row of the manage-students screen.
type StudentEntry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// BuildStudents lists Student-role users only.
func BuildStudents(users []models.User) []StudentEntry {
	var students []StudentEntry
	for _, u := range users {
		if u.Role == models.RoleStudent {
			students = append(students, StudentEntry{ID: u.ID, Name: u.Name})
		}
	}
	return students
}

func summarize(course models.Course) CourseSummary {
	return CourseSummary{ID: course.ID, Title: course.Title, Description: course.Description}
}

func summarizeAll(courses []models.Course) []CourseSummary {
	out := make([]CourseSummary, 0, len(courses))
	for _, course := range courses {
		out = append(out, summarize(course))
	}
	return out
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
