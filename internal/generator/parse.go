package generator

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Emdad05/Quiz-Ai/internal/llm"
	"github.com/Emdad05/Quiz-Ai/internal/quiz"
)

// DefaultTitle is used when neither the model nor the user supplied one.
const DefaultTitle = "Generated Assessment"

// stripCodeFences removes markdown code-fence markers the model sometimes
// wraps JSON in.
func stripCodeFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// parseQuiz turns model output into a quiz. Every failure is a
// *GenerationFailedError.
func parseQuiz(text string) (*quiz.GeneratedQuiz, error) {
	raw := stripCodeFences(text)
	if raw == "" {
		return nil, &GenerationFailedError{
			Message: MsgUnprocessable,
			Err:     fmt.Errorf("empty response from AI"),
		}
	}

	if err := llm.ValidateJSON(QuizSchema, raw); err != nil {
		return nil, &GenerationFailedError{Message: MsgUnprocessable, Err: err}
	}

	var out quiz.GeneratedQuiz
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, &GenerationFailedError{Message: MsgUnprocessable, Err: err}
	}

	if len(out.Questions) == 0 {
		return nil, &GenerationFailedError{
			Message: MsgNoQuestions,
			Err:     fmt.Errorf("response contained no questions"),
		}
	}

	renumberDuplicates(out.Questions)
	return &out, nil
}

// renumberDuplicates assigns ids 1..n when the model repeated an id, since
// answers and review flags are keyed by question id.
func renumberDuplicates(questions []quiz.Question) {
	seen := make(map[int]bool, len(questions))
	for _, q := range questions {
		if seen[q.ID] {
			for i := range questions {
				questions[i].ID = i + 1
			}
			return
		}
		seen[q.ID] = true
	}
}

// resolveTitle applies the fallback chain: model title, configured topic,
// then DefaultTitle.
func resolveTitle(generated, topic string) string {
	if t := strings.TrimSpace(generated); t != "" {
		return t
	}
	if t := strings.TrimSpace(topic); t != "" {
		return t
	}
	return DefaultTitle
}
