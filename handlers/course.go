package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ailms/models"
)

// CreateCourseHandler generates a complete course from a topic via the AI
// gateway. Teachers and administrators only. Nothing is added to the catalog
// when generation fails.
func CreateCourseHandler(c *gin.Context) {
	if _, ok := requireRole(c, models.RoleTeacher, models.RoleAdministrator); !ok {
		return
	}

	var req models.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	course, err := controller(c).CreateCourseFromTopic(c.Request.Context(), req.Topic)
	if err != nil {
		writeActionError(c, err)
		return
	}
	c.JSON(http.StatusCreated, course)
}

// CreateManualCourseHandler builds a course from caller-supplied modules and
// assignments. Teachers and administrators only.
func CreateManualCourseHandler(c *gin.Context) {
	if _, ok := requireRole(c, models.RoleTeacher, models.RoleAdministrator); !ok {
		return
	}

	var req models.ManualCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	course := controller(c).CreateCourseManually(req)
	c.JSON(http.StatusCreated, course)
}

// enrollmentTarget decides whose enrollment an enroll/unenroll call touches.
// Students always act on themselves; teachers and administrators may name a
// student in the body.
func enrollmentTarget(c *gin.Context, user *models.User) string {
	if user.Role == models.RoleStudent {
		return user.ID
	}
	var req models.EnrollRequest
	if err := c.ShouldBindJSON(&req); err == nil && req.StudentID != "" {
		return req.StudentID
	}
	return user.ID
}

// EnrollHandler adds a student to a course's enrollment list.
func EnrollHandler(c *gin.Context) {
	user, ok := requestUser(c)
	if !ok {
		return
	}

	if err := controller(c).Enroll(c.Param("id"), enrollmentTarget(c, user)); err != nil {
		writeActionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Enrolled"})
}

// UnenrollHandler removes a student from a course's enrollment list.
func UnenrollHandler(c *gin.Context) {
	user, ok := requestUser(c)
	if !ok {
		return
	}

	if err := controller(c).Unenroll(c.Param("id"), enrollmentTarget(c, user)); err != nil {
		writeActionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Unenrolled"})
}

// StudyHelpHandler answers a question scoped to one course's material.
func StudyHelpHandler(c *gin.Context) {
	if _, ok := requestUser(c); !ok {
		return
	}

	var req models.StudyHelpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	answer, err := controller(c).AskStudyQuestion(c.Request.Context(), c.Param("id"), req.Question)
	if err != nil {
		writeActionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"answer": answer})
}
