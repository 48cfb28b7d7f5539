package generator

import (
	"fmt"
	"strings"
	"time"

	"github.com/Emdad05/Quiz-Ai/internal/llm"
	"github.com/Emdad05/Quiz-Ai/internal/quiz"
)

var difficultyGuidance = map[quiz.Difficulty]string{
	quiz.DifficultyEasy:   "Focus on direct recall and basic facts.",
	quiz.DifficultyMedium: "Focus on conceptual understanding and application.",
	quiz.DifficultyHard:   "Focus on analysis, reasoning, and scenarios.",
}

const isoMillis = "2006-01-02T15:04:05.000Z"

func typeInstruction(t quiz.Type) string {
	if t == quiz.TypeTrueFalse {
		return "Generate True/False questions only. Options must be ['True', 'False']."
	}
	return "Generate Multiple Choice questions with exactly 4 options and one correct answer."
}

// buildSystemPrompt renders the system instruction. token and ts make every
// request body unique so no cache between here and the model can replay an
// earlier answer.
func buildSystemPrompt(cfg quiz.Config, token string, ts time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Request Isolation ID: %s\n", token)
	fmt.Fprintf(&b, "Timestamp: %s\n", ts.UTC().Format(isoMillis))
	b.WriteString("You are an expert educational content creator.\n")
	if cfg.Topic != "" {
		fmt.Fprintf(&b, "Use title: %q.\n", cfg.Topic)
	} else {
		b.WriteString("Generate a relevant title.\n")
	}
	fmt.Fprintf(&b, "Generate %d questions.\n", cfg.QuestionCount)
	fmt.Fprintf(&b, "Type: %s. %s\n", cfg.Type, typeInstruction(cfg.Type))
	fmt.Fprintf(&b, "Difficulty: %s. %s\n", cfg.Difficulty, difficultyGuidance[cfg.Difficulty])
	b.WriteString(`
Rules:
1. Base questions strictly on the provided content parts in this specific request.
2. Explanation should be educational with **bold** key phrases.
3. Return raw JSON strictly following the schema.
4. CRITICAL: This is a standalone, isolated request. Do not use or reference any previous context, history, or cached data from other users or sessions.`)

	return b.String()
}

// buildParts orders the user turn: uniqueness marker, study text, then
// attachments.
func buildParts(cfg quiz.Config, token string, ts time.Time) []llm.Part {
	parts := make([]llm.Part, 0, 2+len(cfg.Attachments))
	parts = append(parts, llm.TextPart(fmt.Sprintf("UNIQUE_SESSION_IDENTIFIER: %s [%s]", token, ts.UTC().Format(isoMillis))))

	if strings.TrimSpace(cfg.Content) != "" {
		parts = append(parts, llm.TextPart(cfg.Content))
	}
	for _, a := range cfg.Attachments {
		parts = append(parts, llm.BlobPart(a.Data, a.MIMEType))
	}
	return parts
}

// BuildRequest assembles the single request every credential receives.
func BuildRequest(cfg quiz.Config, token string, ts time.Time, gen Config) llm.Request {
	return llm.Request{
		System:      buildSystemPrompt(cfg, token, ts),
		Parts:       buildParts(cfg, token, ts),
		Schema:      schemaFor(cfg.Type),
		MaxTokens:   gen.MaxTokens,
		Temperature: gen.Temperature,
	}
}
