package routes

import (
	"github.com/gin-gonic/gin"

	"ailms/auth"
	"ailms/handlers"
)

// SetupRoutes configures the API routes
func SetupRoutes(r *gin.Engine) {
	// Public routes
	r.POST("/api/login", auth.LoginHandler)

	// Protected routes
	protected := r.Group("/api")
	protected.Use(auth.AuthMiddleware())

	protected.POST("/logout", handlers.LogoutHandler)

	// View projections
	protected.GET("/views/dashboard", handlers.DashboardHandler)
	protected.GET("/views/courses", handlers.CourseListHandler)
	protected.GET("/views/courses/:id", handlers.CourseDetailHandler)
	protected.GET("/views/grades", handlers.GradesHandler)
	protected.GET("/views/students", handlers.StudentsHandler)

	// Course actions
	protected.POST("/courses", handlers.CreateCourseHandler)
	protected.POST("/courses/manual", handlers.CreateManualCourseHandler)
	protected.POST("/courses/:id/enroll", handlers.EnrollHandler)
	protected.POST("/courses/:id/unenroll", handlers.UnenrollHandler)
	protected.POST("/courses/:id/study-help", handlers.StudyHelpHandler)

	// Submissions and grading
	protected.POST("/submissions", handlers.CreateSubmissionHandler)
	protected.POST("/submissions/:id/evaluate", handlers.EvaluateSubmissionHandler)

	// Student management and reports
	protected.POST("/students", handlers.AddStudentHandler)
	protected.POST("/reports/progress", handlers.ProgressReportHandler)
}
