package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ailms/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestSlotDefaults(t *testing.T) {
	st := newTestStore(t)

	assert.Nil(t, st.LoadCurrentUser())
	assert.Empty(t, st.LoadCourses())
	assert.Empty(t, st.LoadSubmissions())

	users := st.LoadUsers()
	require.Len(t, users, 3)
	assert.Equal(t, "admin", users[0].Name)
	assert.Equal(t, models.RoleAdministrator, users[0].Role)
	assert.Equal(t, "teacher", users[1].Name)
	assert.Equal(t, models.RoleTeacher, users[1].Role)
	assert.Equal(t, "student", users[2].Name)
	assert.Equal(t, models.RoleStudent, users[2].Role)
}

func TestCorruptSlotFallsBackToDefault(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.setItem(keyUsers, "{definitely not json"))
	require.NoError(t, st.setItem(keyCourses, "42"))
	require.NoError(t, st.setItem(keySubmissions, `[{"submittedAt": 42}]`))
	require.NoError(t, st.setItem(keyCurrentUser, "[]"))

	assert.Len(t, st.LoadUsers(), 3)
	assert.Empty(t, st.LoadCourses())
	assert.Empty(t, st.LoadSubmissions())
	assert.Nil(t, st.LoadCurrentUser())
}

func TestCurrentUserRoundTrip(t *testing.T) {
	st := newTestStore(t)

	user := models.User{ID: "student-01", Name: "student", Role: models.RoleStudent}
	st.SaveCurrentUser(&user)

	loaded := st.LoadCurrentUser()
	require.NotNil(t, loaded)
	assert.Equal(t, user, *loaded)

	st.ClearCurrentUser()
	assert.Nil(t, st.LoadCurrentUser())
}

func TestUserDirectoryRoundTrip(t *testing.T) {
	st := newTestStore(t)

	users := append(SeedUsers(), models.User{ID: "student-x", Name: "alice", Role: models.RoleStudent})
	st.SaveUsers(users)

	assert.Equal(t, users, st.LoadUsers())
}

func TestCourseCatalogRoundTrip(t *testing.T) {
	st := newTestStore(t)

	courses := []models.Course{{
		ID:          "course-1",
		Title:       "Go",
		Description: "An introduction",
		Modules: []models.Module{{
			ID:      "mod-1",
			Title:   "Basics",
			Content: "Some content",
			Assignments: []models.Assignment{
				{ID: "ass-1", Title: "Hello", Prompt: "Write hello world"},
			},
		}},
		EnrolledStudentIDs: []string{"student-01"},
	}}
	st.SaveCourses(courses)

	assert.Equal(t, courses, st.LoadCourses())
}

func TestSubmissionTimestampRoundTrip(t *testing.T) {
	st := newTestStore(t)

	first := time.Now().UTC().Add(-time.Hour)
	second := time.Now().UTC()
	submissions := []models.Submission{
		{ID: "sub-1", AssignmentID: "ass-1", StudentID: "student-01", CourseID: "course-1", Content: "early", SubmittedAt: first},
		{ID: "sub-2", AssignmentID: "ass-2", StudentID: "student-01", CourseID: "course-1", Content: "late", SubmittedAt: second},
	}
	st.SaveSubmissions(submissions)

	loaded := st.LoadSubmissions()
	require.Len(t, loaded, 2)

	// A reloaded timestamp must compare like a fresh one.
	assert.True(t, loaded[0].SubmittedAt.Equal(first))
	assert.True(t, loaded[1].SubmittedAt.Equal(second))
	assert.True(t, loaded[0].SubmittedAt.Before(loaded[1].SubmittedAt))
	assert.Nil(t, loaded[0].Grade)
	assert.Nil(t, loaded[0].Feedback)
}

func TestSaveIsWriteThrough(t *testing.T) {
	st := newTestStore(t)

	st.SaveCourses([]models.Course{{ID: "course-1", Title: "One", EnrolledStudentIDs: []string{}}})
	st.SaveCourses([]models.Course{
		{ID: "course-1", Title: "One", EnrolledStudentIDs: []string{}},
		{ID: "course-2", Title: "Two", EnrolledStudentIDs: []string{}},
	})

	loaded := st.LoadCourses()
	require.Len(t, loaded, 2)
	assert.Equal(t, "course-2", loaded[1].ID)
}
