package ai

import (
	"context"
	"errors"

	"ailms/models"
)

// User-facing failure messages. Any transport, schema or refusal problem on a
// gateway call collapses into one of these; callers treat a failure as "no
// mutation occurred" and display the message inline.
var (
	ErrCourseGeneration = errors.New("failed to generate course content, please check the topic and try again")
	ErrEvaluator        = errors.New("failed to evaluate submission, the AI evaluator might be temporarily unavailable")
	ErrReport           = errors.New("failed to generate progress report")
	ErrStudyHelper      = errors.New("failed to get a response from the AI study assistant")
)

// Gateway is the hosted generative-AI endpoint behind course generation,
// grading, progress reports and study help. Each method issues a single
// request with no retries or streaming and is a pure function of its inputs
// from the caller's perspective.
type Gateway interface {
	// GenerateCourse builds a complete course structure for a topic:
	// 3 to 5 modules, each carrying exactly one assignment.
	GenerateCourse(ctx context.Context, topic string) (*models.GeneratedCourse, error)

	// EvaluateSubmission grades submitted work against its assignment.
	// The returned grade is always within [0, 100].
	EvaluateSubmission(ctx context.Context, assignment models.Assignment, content string) (*models.Evaluation, error)

	// GenerateProgressReport writes a two-paragraph summary of the
	// student's graded work. rows must be non-empty; the caller
	// short-circuits when there is nothing graded.
	GenerateProgressReport(ctx context.Context, studentName string, rows []models.ReportRow) (string, error)

	// AnswerStudyQuestion answers from the supplied course's material only,
	// declining questions outside it. That restriction lives in the prompt;
	// it is not independently verifiable here.
	AnswerStudyQuestion(ctx context.Context, course models.Course, question string) (string, error)
}
