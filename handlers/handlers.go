package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ailms/ai"
	"ailms/models"
	"ailms/state"
)

// controller pulls the shared state controller off the request context.
func controller(c *gin.Context) *state.Controller {
	return c.MustGet("state").(*state.Controller)
}

// requestUser resolves the authenticated user against the directory. A token
// for a user the directory no longer knows is treated as unauthorized.
func requestUser(c *gin.Context) (*models.User, bool) {
	userID := c.MustGet("userID").(string)
	user := controller(c).UserByID(userID)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unknown user"})
		return nil, false
	}
	return user, true
}

// requireRole resolves the caller and aborts with 403 unless they hold one
// of the given roles.
func requireRole(c *gin.Context, roles ...models.Role) (*models.User, bool) {
	user, ok := requestUser(c)
	if !ok {
		return nil, false
	}
	for _, role := range roles {
		if user.Role == role {
			return user, true
		}
	}
	c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
	return nil, false
}

// writeActionError maps controller and gateway failures onto HTTP statuses.
// Gateway failures mean no mutation was applied, so the client may retry.
func writeActionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, state.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, state.ErrActionInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": "This action is already in progress"})
	case errors.Is(err, ai.ErrCourseGeneration),
		errors.Is(err, ai.ErrEvaluator),
		errors.Is(err, ai.ErrReport),
		errors.Is(err, ai.ErrStudyHelper):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	}
}

// LogoutHandler clears the persisted session.
func LogoutHandler(c *gin.Context) {
	controller(c).Logout()
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}
