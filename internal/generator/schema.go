package generator

import (
	"github.com/Emdad05/Quiz-Ai/internal/llm"
	"github.com/Emdad05/Quiz-Ai/internal/quiz"
)

// QuizSchema defines the JSON schema for generated quizzes. Requests use
// schemaFor, which only differs in the options description.
var QuizSchema = newQuizSchema("")

func schemaFor(t quiz.Type) *llm.Schema {
	if t == quiz.TypeTrueFalse {
		return newQuizSchema("Must be ['True', 'False']")
	}
	return newQuizSchema("Must contain exactly 4 options.")
}

func newQuizSchema(optionsHint string) *llm.Schema {
	options := map[string]any{
		"type":  "array",
		"items": map[string]any{"type": "string"},
	}
	if optionsHint != "" {
		options["description"] = optionsHint
	}

	return &llm.Schema{
		Name:        "quiz-content",
		Description: "A titled set of assessment questions drawn from the supplied material",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"title": map[string]any{
					"type":        "string",
					"description": "A short, engaging title.",
				},
				"questions": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"id":           map[string]any{"type": "integer"},
							"questionText": map[string]any{"type": "string"},
							"explanation": map[string]any{
								"type":        "string",
								"description": "Detailed explanation. Key phrases in markdown bold (**).",
							},
							"options": options,
							"correctOptionIndex": map[string]any{
								"type":        "integer",
								"description": "Index of the correct option",
							},
						},
						"required": []any{"id", "questionText", "explanation", "options", "correctOptionIndex"},
					},
				},
			},
			"required": []any{"title", "questions"},
		},
	}
}
