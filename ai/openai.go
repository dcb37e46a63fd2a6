package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"

	"ailms/models"
)

// OpenAIGateway implements Gateway against the OpenAI chat completions API.
// Structured calls (course generation, evaluation) pin the output shape with
// a strict JSON schema; report and study help return free text.
type OpenAIGateway struct {
	client *openai.Client
	model  string
}

// NewOpenAIGateway returns a gateway talking to the hosted API.
func NewOpenAIGateway(apiKey, model string) *OpenAIGateway {
	return &OpenAIGateway{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// NewOpenAIGatewayWithBaseURL points the gateway at an alternate endpoint.
// Used by tests and by local OpenAI-compatible servers.
func NewOpenAIGatewayWithBaseURL(apiKey, model, baseURL string) *OpenAIGateway {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	return &OpenAIGateway{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

var courseSchema = jsonschema.Definition{
	Type: jsonschema.Object,
	Properties: map[string]jsonschema.Definition{
		"title":       {Type: jsonschema.String, Description: "A concise and engaging title for the course."},
		"description": {Type: jsonschema.String, Description: "A 1-2 paragraph summary of what the course is about."},
		"modules": {
			Type:        jsonschema.Array,
			Description: "A list of 3 to 5 learning modules.",
			Items: &jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"title":       {Type: jsonschema.String, Description: "Title of the module."},
					"description": {Type: jsonschema.String, Description: "A brief description of the module's content."},
					"content":     {Type: jsonschema.String, Description: "The main learning content for the module. This should be a few paragraphs of text explaining the module's topics in detail."},
					"assignments": {
						Type:        jsonschema.Array,
						Description: "A list containing exactly one assignment for this module.",
						Items: &jsonschema.Definition{
							Type: jsonschema.Object,
							Properties: map[string]jsonschema.Definition{
								"title":  {Type: jsonschema.String, Description: "Title of the assignment."},
								"prompt": {Type: jsonschema.String, Description: "A detailed prompt for the assignment."},
							},
							Required:             []string{"title", "prompt"},
							AdditionalProperties: false,
						},
					},
				},
				Required:             []string{"title", "description", "content", "assignments"},
				AdditionalProperties: false,
			},
		},
	},
	Required:             []string{"title", "description", "modules"},
	AdditionalProperties: false,
}

var evaluationSchema = jsonschema.Definition{
	Type: jsonschema.Object,
	Properties: map[string]jsonschema.Definition{
		"grade":    {Type: jsonschema.Integer, Description: "A numerical grade from 0 to 100."},
		"feedback": {Type: jsonschema.String, Description: "Constructive feedback for the student."},
	},
	Required:             []string{"grade", "feedback"},
	AdditionalProperties: false,
}

// complete issues one chat completion and returns the trimmed message text.
func (g *OpenAIGateway) complete(ctx context.Context, prompt string, format *openai.ChatCompletionResponseFormat) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: format,
	}

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// GenerateCourse asks for a full course structure and validates the result
// against the required shape before handing it back.
func (g *OpenAIGateway) GenerateCourse(ctx context.Context, topic string) (*models.GeneratedCourse, error) {
	prompt := fmt.Sprintf("You are an expert curriculum designer for a modern Learning Management System. "+
		"Create a complete, ready-to-use course structure about %q. The course should be engaging and "+
		"well-structured for online learning. For each module, provide a detailed 'content' section with "+
		"a few paragraphs of educational material.", topic)

	raw, err := g.complete(ctx, prompt, &openai.ChatCompletionResponseFormat{
		Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
		JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
			Name:   "course",
			Schema: &courseSchema,
			Strict: true,
		},
	})
	if err != nil {
		log.Printf("Error generating course: %v", err)
		return nil, ErrCourseGeneration
	}

	var course models.GeneratedCourse
	if err := json.Unmarshal([]byte(raw), &course); err != nil {
		log.Printf("Error parsing generated course: %v", err)
		return nil, ErrCourseGeneration
	}
	if err := validateGeneratedCourse(&course); err != nil {
		log.Printf("Generated course failed validation: %v", err)
		return nil, ErrCourseGeneration
	}
	return &course, nil
}

// validateGeneratedCourse enforces the output contract the schema requests:
// required fields present, at least one module, one assignment per module.
func validateGeneratedCourse(course *models.GeneratedCourse) error {
	if course.Title == "" || course.Description == "" {
		return fmt.Errorf("missing title or description")
	}
	if len(course.Modules) == 0 {
		return fmt.Errorf("no modules")
	}
	for i, mod := range course.Modules {
		if mod.Title == "" || mod.Content == "" {
			return fmt.Errorf("module %d missing title or content", i)
		}
		if len(mod.Assignments) == 0 {
			return fmt.Errorf("module %d has no assignments", i)
		}
		for j, ass := range mod.Assignments {
			if ass.Title == "" || ass.Prompt == "" {
				return fmt.Errorf("module %d assignment %d missing title or prompt", i, j)
			}
		}
	}
	return nil
}

// EvaluateSubmission grades one submission. Grades outside [0, 100] are
// clamped rather than rejected; the feedback still applies either way.
func (g *OpenAIGateway) EvaluateSubmission(ctx context.Context, assignment models.Assignment, content string) (*models.Evaluation, error) {
	prompt := fmt.Sprintf(`You are a fair and helpful teaching assistant. Evaluate a student's submission for the following assignment.

Assignment Title: %q
Assignment Prompt: %q

Student Submission:
---
%s
---

Please provide a numerical grade out of 100 and 2-3 sentences of constructive feedback. Be encouraging but also provide specific areas for improvement if necessary.`,
		assignment.Title, assignment.Prompt, content)

	raw, err := g.complete(ctx, prompt, &openai.ChatCompletionResponseFormat{
		Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
		JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
			Name:   "evaluation",
			Schema: &evaluationSchema,
			Strict: true,
		},
	})
	if err != nil {
		log.Printf("Error evaluating submission: %v", err)
		return nil, ErrEvaluator
	}

	var eval models.Evaluation
	if err := json.Unmarshal([]byte(raw), &eval); err != nil {
		log.Printf("Error parsing evaluation: %v", err)
		return nil, ErrEvaluator
	}
	if eval.Feedback == "" {
		log.Printf("Evaluation arrived without feedback")
		return nil, ErrEvaluator
	}
	if eval.Grade < 0 {
		eval.Grade = 0
	}
	if eval.Grade > 100 {
		eval.Grade = 100
	}
	return &eval, nil
}

// GenerateProgressReport summarizes the student's graded work in two
// paragraphs of free text.
func (g *OpenAIGateway) GenerateProgressReport(ctx context.Context, studentName string, rows []models.ReportRow) (string, error) {
	var sb strings.Builder
	for _, row := range rows {
		fmt.Fprintf(&sb, "- Course: %s, Assignment: %s, Grade: %d/100\n", row.CourseTitle, row.AssignmentTitle, row.Grade)
	}

	prompt := fmt.Sprintf(`You are an insightful and encouraging academic advisor. Generate a progress report for a student named %s.

Here is the data on their graded assignments:
%s
Based on this data, write a 2-paragraph summary. Start by highlighting areas of strength and strong performance. Then, gently point out any courses or topics where they might be struggling and suggest a positive next step or area of focus. Maintain a supportive and motivational tone.`,
		studentName, sb.String())

	report, err := g.complete(ctx, prompt, nil)
	if err != nil {
		log.Printf("Error generating progress report: %v", err)
		return "", ErrReport
	}
	if report == "" {
		log.Printf("Progress report arrived empty")
		return "", ErrReport
	}
	return report, nil
}

// AnswerStudyQuestion answers a question scoped to one course. The prompt
// instructs the model to answer from the supplied context only.
func (g *OpenAIGateway) AnswerStudyQuestion(ctx context.Context, course models.Course, question string) (string, error) {
	prompt := fmt.Sprintf(`You are a helpful and friendly AI study assistant. Your goal is to help a student understand their course material better. Based ONLY on the provided course context below, please answer the student's question. If the answer is not in the context, say that you cannot answer based on the provided material.

---COURSE CONTEXT---
%s
---END COURSE CONTEXT---

Student's Question: %q`, courseContext(course), question)

	answer, err := g.complete(ctx, prompt, nil)
	if err != nil {
		log.Printf("Error getting study help: %v", err)
		return "", ErrStudyHelper
	}
	if answer == "" {
		log.Printf("Study help answer arrived empty")
		return "", ErrStudyHelper
	}
	return answer, nil
}

// courseContext flattens a course into the text block fed to the study
// assistant: title, description, then every module with its assignments.
func courseContext(course models.Course) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Course Title: %s\n", course.Title)
	fmt.Fprintf(&sb, "Course Description: %s\n\n", course.Description)
	sb.WriteString("Modules:\n")
	for _, mod := range course.Modules {
		sb.WriteString("---\n")
		fmt.Fprintf(&sb, "Module Title: %s\n", mod.Title)
		fmt.Fprintf(&sb, "Module Description: %s\n", mod.Description)
		fmt.Fprintf(&sb, "Module Content: %s\n", mod.Content)
		sb.WriteString("Assignments:\n")
		for _, ass := range mod.Assignments {
			fmt.Fprintf(&sb, "- Assignment: %s\n", ass.Title)
			fmt.Fprintf(&sb, "  Prompt: %s\n", ass.Prompt)
		}
		sb.WriteString("---\n")
	}
	return sb.String()
}
