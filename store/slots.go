package store

import (
	"encoding/json"
	"log"

	"ailms/models"
)

// Slot keys. The lms_ names are kept so a state export from an earlier
// deployment of this system can be imported unchanged.
const (
	keyCurrentUser = "lms_loggedInUser"
	keyUsers       = "lms_users"
	keyCourses     = "lms_courses"
	keySubmissions = "lms_submissions"
)

// SeedUsers returns the three accounts present before any directory has been
// persisted: one per role, named after the role they hold.
func SeedUsers() []models.User {
	return []models.User{
		{ID: "admin-01", Name: "admin", Role: models.RoleAdministrator},
		{ID: "teacher-01", Name: "teacher", Role: models.RoleTeacher},
		{ID: "student-01", Name: "student", Role: models.RoleStudent},
	}
}

// loadJSON unmarshals the slot into v, reporting false when the slot is
// absent or unreadable so the caller can substitute the slot default.
func (s *Store) loadJSON(key string, v any) bool {
	raw, ok := s.getItem(key)
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		log.Printf("Discarding corrupt slot %s: %v", key, err)
		return false
	}
	return true
}

// saveJSON writes v into the slot. Persistence failures are logged, never
// propagated; the in-memory state stays authoritative.
func (s *Store) saveJSON(key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("Error serializing slot %s: %v", key, err)
		return
	}
	if err := s.setItem(key, string(data)); err != nil {
		log.Printf("Error saving slot %s: %v", key, err)
	}
}

// LoadCurrentUser returns the logged-in user, or nil when nobody is logged
// in or the slot is unreadable.
func (s *Store) LoadCurrentUser() *models.User {
	var user models.User
	if !s.loadJSON(keyCurrentUser, &user) {
		return nil
	}
	return &user
}

// SaveCurrentUser persists the logged-in user.
func (s *Store) SaveCurrentUser(user *models.User) {
	s.saveJSON(keyCurrentUser, user)
}

// ClearCurrentUser empties the current-user slot on logout.
func (s *Store) ClearCurrentUser() {
	if err := s.removeItem(keyCurrentUser); err != nil {
		log.Printf("Error clearing slot %s: %v", keyCurrentUser, err)
	}
}

// LoadUsers returns the user directory, falling back to the seed trio when
// no directory has ever been saved.
func (s *Store) LoadUsers() []models.User {
	var users []models.User
	if !s.loadJSON(keyUsers, &users) {
		return SeedUsers()
	}
	return users
}

// SaveUsers persists the user directory.
func (s *Store) SaveUsers(users []models.User) {
	s.saveJSON(keyUsers, users)
}

// LoadCourses returns the course catalog, empty by default.
func (s *Store) LoadCourses() []models.Course {
	var courses []models.Course
	if !s.loadJSON(keyCourses, &courses) {
		return nil
	}
	return courses
}

// SaveCourses persists the course catalog.
func (s *Store) SaveCourses(courses []models.Course) {
	s.saveJSON(keyCourses, courses)
}

// LoadSubmissions returns the submission log, empty by default. Timestamps
// are stored as RFC 3339 text and rehydrated into time.Time here, so a
// loaded submission orders and compares like a freshly created one.
func (s *Store) LoadSubmissions() []models.Submission {
	var submissions []models.Submission
	if !s.loadJSON(keySubmissions, &submissions) {
		return nil
	}
	return submissions
}

// SaveSubmissions persists the submission log.
func (s *Store) SaveSubmissions(submissions []models.Submission) {
	s.saveJSON(keySubmissions, submissions)
}
