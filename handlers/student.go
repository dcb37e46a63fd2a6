package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ailms/models"
)

// AddStudentHandler appends a new Student-role account to the directory.
// Administrators only. Names are not checked for uniqueness.
func AddStudentHandler(c *gin.Context) {
	if _, ok := requireRole(c, models.RoleAdministrator); !ok {
		return
	}

	var req models.AddStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	student := controller(c).AddStudent(req.Name)
	c.JSON(http.StatusCreated, student)
}

// progressReportRequest optionally names a student; only teachers and
// administrators may report on someone other than themselves.
type progressReportRequest struct {
	StudentID string `json:"student_id"`
}

// ProgressReportHandler produces an AI progress report over the student's
// graded submissions. A student with nothing graded gets the fixed fallback
// text without a gateway call.
func ProgressReportHandler(c *gin.Context) {
	user, ok := requestUser(c)
	if !ok {
		return
	}

	studentID := user.ID
	var req progressReportRequest
	if err := c.ShouldBindJSON(&req); err == nil && req.StudentID != "" {
		if user.Role == models.RoleStudent && req.StudentID != user.ID {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return
		}
		studentID = req.StudentID
	}

	report, err := controller(c).GenerateProgressReport(c.Request.Context(), studentID)
	if err != nil {
		writeActionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": report})
}
