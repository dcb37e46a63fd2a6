package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ailms/models"
	"ailms/views"
)

// DashboardHandler renders the role-specific landing view.
func DashboardHandler(c *gin.Context) {
	user, ok := requestUser(c)
	if !ok {
		return
	}
	ctrl := controller(c)
	c.JSON(http.StatusOK, views.BuildDashboard(*user, ctrl.Courses(), ctrl.Submissions()))
}

// CourseListHandler renders the catalog with the viewer's enrollment flags.
func CourseListHandler(c *gin.Context) {
	user, ok := requestUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, views.BuildCourseList(*user, controller(c).Courses()))
}

// CourseDetailHandler renders one course with the viewer's submissions
// attached to its assignments.
func CourseDetailHandler(c *gin.Context) {
	user, ok := requestUser(c)
	if !ok {
		return
	}
	ctrl := controller(c)
	course := ctrl.CourseByID(c.Param("id"))
	if course == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
		return
	}
	c.JSON(http.StatusOK, views.BuildCourseDetail(*user, *course, ctrl.Submissions()))
}

// GradesHandler renders the grades table: a student's own rows, or every
// submission for teachers and administrators.
func GradesHandler(c *gin.Context) {
	user, ok := requestUser(c)
	if !ok {
		return
	}
	ctrl := controller(c)
	c.JSON(http.StatusOK, views.BuildGrades(*user, ctrl.Courses(), ctrl.Submissions(), ctrl.Users()))
}

// StudentsHandler renders the manage-students view. Administrators only.
func StudentsHandler(c *gin.Context) {
	if _, ok := requireRole(c, models.RoleAdministrator); !ok {
		return
	}
	c.JSON(http.StatusOK, views.BuildStudents(controller(c).Users()))
}
