package state

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"ailms/ai"
	"ailms/models"
	"ailms/store"
)

// demoPassword is the shared credential every account uses. This is a demo
// login scheme, not an authentication system.
const demoPassword = "password"

// NoGradedWorkMessage is returned in place of a progress report when the
// student has no graded submissions; the gateway is not called in that case.
const NoGradedWorkMessage = "No graded assignments available to generate a report."

var (
	ErrWrongPassword    = errors.New("invalid password")
	ErrUnknownUser      = errors.New("user not found")
	ErrNotFound         = errors.New("not found")
	ErrActionInProgress = errors.New("action already in progress")
)

// Controller owns the four persisted collections and mediates every
// mutation. Each mutation re-saves the affected slot before returning, so
// the store always mirrors memory. Collections are guarded by a mutex
// because HTTP handlers run concurrently.
type Controller struct {
	mu          sync.Mutex
	store       *store.Store
	gateway     ai.Gateway
	users       []models.User
	courses     []models.Course
	submissions []models.Submission
	currentUser *models.User
	inflight    map[string]bool
}

// NewController loads all four slots and returns a ready controller.
func NewController(st *store.Store, gw ai.Gateway) *Controller {
	return &Controller{
		store:       st,
		gateway:     gw,
		users:       st.LoadUsers(),
		courses:     st.LoadCourses(),
		submissions: st.LoadSubmissions(),
		currentUser: st.LoadCurrentUser(),
		inflight:    make(map[string]bool),
	}
}

func newID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

// beginAction marks a logical action as in flight. A second identical action
// while the first is outstanding fails fast instead of queueing.
func (c *Controller) beginAction(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inflight[key] {
		return fmt.Errorf("%s: %w", key, ErrActionInProgress)
	}
	c.inflight[key] = true
	return nil
}

func (c *Controller) endAction(key string) {
	c.mu.Lock()
	delete(c.inflight, key)
	c.mu.Unlock()
}

// Login succeeds only when the password matches the fixed demo literal and a
// user with that name exists. The name lookup is case-insensitive. The two
// failure modes return distinct errors so the UI can hint at each.
func (c *Controller) Login(name, password string) (*models.User, error) {
	if password != demoPassword {
		return nil, ErrWrongPassword
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.users {
		if strings.EqualFold(c.users[i].Name, name) {
			user := c.users[i]
			c.currentUser = &user
			c.store.SaveCurrentUser(&user)
			return &user, nil
		}
	}
	return nil, ErrUnknownUser
}

// Logout clears the current-user slot. Any in-flight AI call keeps running;
// only the session goes away.
func (c *Controller) Logout() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentUser = nil
	c.store.ClearCurrentUser()
}

// CurrentUser returns the logged-in user, or nil.
func (c *Controller) CurrentUser() *models.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.currentUser == nil {
		return nil
	}
	user := *c.currentUser
	return &user
}

// Users returns a snapshot of the user directory.
func (c *Controller) Users() []models.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	users := make([]models.User, len(c.users))
	copy(users, c.users)
	return users
}

// Courses returns a snapshot of the course catalog. Enrollment lists are
// copied; module trees are immutable and shared.
func (c *Controller) Courses() []models.Course {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copyCourses(c.courses)
}

// Submissions returns a snapshot of the submission log.
func (c *Controller) Submissions() []models.Submission {
	c.mu.Lock()
	defer c.mu.Unlock()
	submissions := make([]models.Submission, len(c.submissions))
	copy(submissions, c.submissions)
	return submissions
}

func copyCourses(courses []models.Course) []models.Course {
	out := make([]models.Course, len(courses))
	copy(out, courses)
	for i := range out {
		enrolled := make([]string, len(out[i].EnrolledStudentIDs))
		copy(enrolled, out[i].EnrolledStudentIDs)
		out[i].EnrolledStudentIDs = enrolled
	}
	return out
}

// UserByID returns the user with the given id, or nil.
func (c *Controller) UserByID(id string) *models.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.userByIDLocked(id)
}

func (c *Controller) userByIDLocked(id string) *models.User {
	for i := range c.users {
		if c.users[i].ID == id {
			user := c.users[i]
			return &user
		}
	}
	return nil
}

// CourseByID returns the course with the given id, or nil.
func (c *Controller) CourseByID(id string) *models.Course {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.courses {
		if c.courses[i].ID == id {
			courses := copyCourses(c.courses[i : i+1])
			return &courses[0]
		}
	}
	return nil
}

// AddStudent appends a new Student-role user. Names are not required to be
// unique; the directory is append-only.
func (c *Controller) AddStudent(name string) models.User {
	student := models.User{
		ID:   newID("student"),
		Name: name,
		Role: models.RoleStudent,
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.users = append(c.users, student)
	c.store.SaveUsers(c.users)
	return student
}

// CreateCourseFromTopic generates a course via the AI gateway and appends it
// to the catalog. A gateway failure leaves the catalog untouched.
func (c *Controller) CreateCourseFromTopic(ctx context.Context, topic string) (*models.Course, error) {
	if err := c.beginAction("generate-course"); err != nil {
		return nil, err
	}
	defer c.endAction("generate-course")

	generated, err := c.gateway.GenerateCourse(ctx, topic)
	if err != nil {
		return nil, err
	}

	course := models.Course{
		ID:                 newID("course"),
		Title:              generated.Title,
		Description:        generated.Description,
		Modules:            make([]models.Module, 0, len(generated.Modules)),
		EnrolledStudentIDs: []string{},
	}
	for _, mod := range generated.Modules {
		module := models.Module{
			ID:          newID("mod"),
			Title:       mod.Title,
			Description: mod.Description,
			Content:     mod.Content,
			Assignments: make([]models.Assignment, 0, len(mod.Assignments)),
		}
		for _, ass := range mod.Assignments {
			module.Assignments = append(module.Assignments, models.Assignment{
				ID:     newID("ass"),
				Title:  ass.Title,
				Prompt: ass.Prompt,
			})
		}
		course.Modules = append(course.Modules, module)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.courses = append(c.courses, course)
	c.store.SaveCourses(c.courses)
	return &course, nil
}

// CreateCourseManually builds a course from caller-supplied text, assigning
// fresh ids the same way AI generation does.
func (c *Controller) CreateCourseManually(data models.ManualCourseRequest) *models.Course {
	course := models.Course{
		ID:                 newID("course"),
		Title:              data.Title,
		Description:        data.Description,
		Modules:            make([]models.Module, 0, len(data.Modules)),
		EnrolledStudentIDs: []string{},
	}
	for _, mod := range data.Modules {
		module := models.Module{
			ID:          newID("mod"),
			Title:       mod.Title,
			Description: mod.Description,
			Content:     mod.Content,
			Assignments: make([]models.Assignment, 0, len(mod.Assignments)),
		}
		for _, ass := range mod.Assignments {
			module.Assignments = append(module.Assignments, models.Assignment{
				ID:     newID("ass"),
				Title:  ass.Title,
				Prompt: ass.Prompt,
			})
		}
		course.Modules = append(course.Modules, module)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.courses = append(c.courses, course)
	c.store.SaveCourses(c.courses)
	return &course
}

// Enroll appends the student to the course's enrollment list. There is no
// duplicate check: enrolling twice records the id twice, and Unenroll
// removes every occurrence.
func (c *Controller) Enroll(courseID, studentID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.courses {
		if c.courses[i].ID == courseID {
			c.courses[i].EnrolledStudentIDs = append(c.courses[i].EnrolledStudentIDs, studentID)
			c.store.SaveCourses(c.courses)
			return nil
		}
	}
	return fmt.Errorf("course %s: %w", courseID, ErrNotFound)
}

// Unenroll removes all occurrences of the student from the course's
// enrollment list. Unenrolling a student who is not enrolled is a no-op.
func (c *Controller) Unenroll(courseID, studentID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.courses {
		if c.courses[i].ID != courseID {
			continue
		}
		kept := c.courses[i].EnrolledStudentIDs[:0]
		for _, id := range c.courses[i].EnrolledStudentIDs {
			if id != studentID {
				kept = append(kept, id)
			}
		}
		c.courses[i].EnrolledStudentIDs = kept
		c.store.SaveCourses(c.courses)
		return nil
	}
	return fmt.Errorf("course %s: %w", courseID, ErrNotFound)
}

// SubmitAssignment records new work with a nil grade and feedback and the
// current timestamp. Duplicate submissions for the same assignment are not
// rejected here; the UI hides the submit action once one exists.
func (c *Controller) SubmitAssignment(courseID, assignmentID, studentID, content string) models.Submission {
	submission := models.Submission{
		ID:           newID("sub"),
		AssignmentID: assignmentID,
		StudentID:    studentID,
		CourseID:     courseID,
		Content:      content,
		SubmittedAt:  time.Now().UTC(),
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.submissions = append(c.submissions, submission)
	c.store.SaveSubmissions(c.submissions)
	return submission
}

// Evaluate grades one submission through the AI gateway and writes grade and
// feedback onto it together. A gateway failure leaves the submission
// ungraded. A submission or assignment that cannot be found is a reported
// error rather than a silent skip, since the caller needs an answer.
func (c *Controller) Evaluate(ctx context.Context, submissionID string) error {
	action := "evaluate:" + submissionID
	if err := c.beginAction(action); err != nil {
		return err
	}
	defer c.endAction(action)

	c.mu.Lock()
	var submission *models.Submission
	for i := range c.submissions {
		if c.submissions[i].ID == submissionID {
			submission = &c.submissions[i]
			break
		}
	}
	if submission == nil {
		c.mu.Unlock()
		return fmt.Errorf("submission %s: %w", submissionID, ErrNotFound)
	}
	assignment := findAssignment(c.courses, submission.CourseID, submission.AssignmentID)
	if assignment == nil {
		c.mu.Unlock()
		return fmt.Errorf("assignment %s: %w", submission.AssignmentID, ErrNotFound)
	}
	assignmentCopy := *assignment
	content := submission.Content
	c.mu.Unlock()

	eval, err := c.gateway.EvaluateSubmission(ctx, assignmentCopy, content)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.submissions {
		if c.submissions[i].ID == submissionID {
			grade := eval.Grade
			feedback := eval.Feedback
			c.submissions[i].Grade = &grade
			c.submissions[i].Feedback = &feedback
			c.store.SaveSubmissions(c.submissions)
			return nil
		}
	}
	return fmt.Errorf("submission %s: %w", submissionID, ErrNotFound)
}

// findAssignment flattens the course's modules and picks the assignment out.
func findAssignment(courses []models.Course, courseID, assignmentID string) *models.Assignment {
	for i := range courses {
		if courses[i].ID != courseID {
			continue
		}
		for j := range courses[i].Modules {
			for k := range courses[i].Modules[j].Assignments {
				if courses[i].Modules[j].Assignments[k].ID == assignmentID {
					return &courses[i].Modules[j].Assignments[k]
				}
			}
		}
	}
	return nil
}

// GenerateProgressReport summarizes the student's graded submissions via the
// AI gateway. With nothing graded it returns the fixed fallback text and
// never reaches the gateway.
func (c *Controller) GenerateProgressReport(ctx context.Context, studentID string) (string, error) {
	if err := c.beginAction("report:" + studentID); err != nil {
		return "", err
	}
	defer c.endAction("report:" + studentID)

	c.mu.Lock()
	student := c.userByIDLocked(studentID)
	if student == nil {
		c.mu.Unlock()
		return "", fmt.Errorf("student %s: %w", studentID, ErrNotFound)
	}
	var rows []models.ReportRow
	for _, sub := range c.submissions {
		if sub.StudentID != studentID || sub.Grade == nil {
			continue
		}
		row := models.ReportRow{CourseTitle: "N/A", AssignmentTitle: "N/A", Grade: *sub.Grade}
		for i := range c.courses {
			if c.courses[i].ID != sub.CourseID {
				continue
			}
			row.CourseTitle = c.courses[i].Title
			if ass := findAssignment(c.courses, sub.CourseID, sub.AssignmentID); ass != nil {
				row.AssignmentTitle = ass.Title
			}
			break
		}
		rows = append(rows, row)
	}
	name := student.Name
	c.mu.Unlock()

	if len(rows) == 0 {
		return NoGradedWorkMessage, nil
	}
	return c.gateway.GenerateProgressReport(ctx, name, rows)
}

// AskStudyQuestion answers a question scoped to a single course's material.
func (c *Controller) AskStudyQuestion(ctx context.Context, courseID, question string) (string, error) {
	if err := c.beginAction("study-help:" + courseID); err != nil {
		return "", err
	}
	defer c.endAction("study-help:" + courseID)

	course := c.CourseByID(courseID)
	if course == nil {
		return "", fmt.Errorf("course %s: %w", courseID, ErrNotFound)
	}
	return c.gateway.AnswerStudyQuestion(ctx, *course, question)
}
