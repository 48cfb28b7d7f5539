// Package scoring evaluates answers against a question set.
package scoring

import (
	"math"
	"strings"

	"github.com/Emdad05/Quiz-Ai/internal/quiz"
)

// Outcome classifies one answered (or unanswered) question.
type Outcome int

const (
	Skipped Outcome = iota
	Correct
	Wrong
)

func (o Outcome) String() string {
	switch o {
	case Correct:
		return "correct"
	case Wrong:
		return "wrong"
	default:
		return "skipped"
	}
}

// Evaluate scores a single response. A nil response or blank text is
// skipped, never wrong.
func Evaluate(q quiz.Question, resp quiz.Response) Outcome {
	if resp == nil {
		return Skipped
	}
	if t, ok := resp.(quiz.Text); ok && strings.TrimSpace(string(t)) == "" {
		return Skipped
	}

	switch k := q.Key.(type) {
	case quiz.ChoiceKey:
		if c, ok := resp.(quiz.Choice); ok && int(c) == k.Index {
			return Correct
		}
	case quiz.TextKey:
		want := strings.TrimSpace(k.Answer)
		if t, ok := resp.(quiz.Text); ok && want != "" && strings.EqualFold(strings.TrimSpace(string(t)), want) {
			return Correct
		}
	}
	return Wrong
}

// Stats summarises an attempt.
type Stats struct {
	Correct int
	Wrong   int
	Skipped int
	Total   int
	// Percent is round(100 * Correct / Total), 0 for an empty quiz.
	Percent int
}

// Score evaluates every question.
func Score(questions []quiz.Question, responses quiz.Responses) Stats {
	s := Stats{Total: len(questions)}
	for _, q := range questions {
		switch Evaluate(q, responses[q.ID]) {
		case Correct:
			s.Correct++
		case Wrong:
			s.Wrong++
		default:
			s.Skipped++
		}
	}
	if s.Total > 0 {
		s.Percent = int(math.Round(100 * float64(s.Correct) / float64(s.Total)))
	}
	return s
}

// Grade returns the banner shown next to a percentage.
func Grade(percent int) string {
	switch {
	case percent >= 90:
		return "OUTSTANDING"
	case percent >= 70:
		return "GREAT WORK"
	case percent >= 50:
		return "PASSABLE"
	default:
		return "NEED REVIEW"
	}
}

// QuestionResult is one row of the review breakdown.
type QuestionResult struct {
	Question    quiz.Question
	Outcome     Outcome
	Given       string // the user's answer as text, empty when skipped
	CorrectText string
	Flagged     bool
}

// Breakdown evaluates each question in order for the review screen.
func Breakdown(a quiz.Attempt) []QuestionResult {
	flagged := make(map[int]bool, len(a.MarkedForReview))
	for _, id := range a.MarkedForReview {
		flagged[id] = true
	}

	out := make([]QuestionResult, len(a.Questions))
	for i, q := range a.Questions {
		resp := a.Responses[q.ID]
		out[i] = QuestionResult{
			Question:    q,
			Outcome:     Evaluate(q, resp),
			Given:       responseText(q, resp),
			CorrectText: q.CorrectText(),
			Flagged:     flagged[q.ID],
		}
	}
	return out
}

func responseText(q quiz.Question, resp quiz.Response) string {
	switch r := resp.(type) {
	case quiz.Choice:
		if int(r) >= 0 && int(r) < len(q.Options) {
			return q.Options[r]
		}
	case quiz.Text:
		return strings.TrimSpace(string(r))
	}
	return ""
}
