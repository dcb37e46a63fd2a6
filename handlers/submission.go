package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ailms/models"
)

// CreateSubmissionHandler records a student's work for an assignment. The
// new submission starts ungraded; re-submission is not rejected here, the UI
// hides the action once a submission exists.
func CreateSubmissionHandler(c *gin.Context) {
	user, ok := requireRole(c, models.RoleStudent)
	if !ok {
		return
	}

	var req models.SubmitAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	submission := controller(c).SubmitAssignment(req.CourseID, req.AssignmentID, user.ID, req.Content)
	c.JSON(http.StatusCreated, submission)
}

// EvaluateSubmissionHandler grades one submission through the AI gateway.
// Teachers and administrators only. On gateway failure the submission stays
// ungraded and can be evaluated again.
func EvaluateSubmissionHandler(c *gin.Context) {
	if _, ok := requireRole(c, models.RoleTeacher, models.RoleAdministrator); !ok {
		return
	}

	submissionID := c.Param("id")
	if err := controller(c).Evaluate(c.Request.Context(), submissionID); err != nil {
		writeActionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Submission evaluated"})
}
