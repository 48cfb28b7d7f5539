package scoring

import (
	"testing"

	"github.com/Emdad05/Quiz-Ai/internal/quiz"
)

func choiceQ(id, correct int) quiz.Question {
	return quiz.Question{
		ID:      id,
		Text:    "q",
		Options: []string{"a", "b", "c", "d"},
		Key:     quiz.ChoiceKey{Index: correct},
	}
}

func TestEvaluate(t *testing.T) {
	paris := quiz.Question{ID: 9, Key: quiz.TextKey{Answer: "Paris"}}

	tests := []struct {
		name string
		q    quiz.Question
		resp quiz.Response
		want Outcome
	}{
		{"choice match", choiceQ(1, 2), quiz.Choice(2), Correct},
		{"choice miss", choiceQ(1, 2), quiz.Choice(1), Wrong},
		{"absent", choiceQ(1, 2), nil, Skipped},
		{"blank text", paris, quiz.Text("  "), Skipped},
		{"text ignores case and space", paris, quiz.Text(" paris "), Correct},
		{"text miss", paris, quiz.Text("Lyon"), Wrong},
		{"text against choice key", choiceQ(1, 2), quiz.Text("c"), Wrong},
		{"choice against text key", paris, quiz.Choice(0), Wrong},
		{"empty canonical never matches", quiz.Question{ID: 2, Key: quiz.TextKey{}}, quiz.Text("x"), Wrong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Evaluate(tt.q, tt.resp); got != tt.want {
				t.Fatalf("Evaluate = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScoreRoundsPercent(t *testing.T) {
	var qs []quiz.Question
	resp := quiz.Responses{}
	for i := 1; i <= 9; i++ {
		qs = append(qs, choiceQ(i, 0))
		if i <= 7 {
			resp[i] = quiz.Choice(0)
		}
	}
	resp[8] = quiz.Choice(3)

	s := Score(qs, resp)
	want := Stats{Correct: 7, Wrong: 1, Skipped: 1, Total: 9, Percent: 78}
	if s != want {
		t.Fatalf("Score = %+v, want %+v", s, want)
	}
}

func TestScoreEmptyQuiz(t *testing.T) {
	if s := Score(nil, nil); s.Percent != 0 || s.Total != 0 {
		t.Fatalf("unexpected stats for empty quiz: %+v", s)
	}
}

func TestGrade(t *testing.T) {
	tests := []struct {
		percent int
		want    string
	}{
		{100, "OUTSTANDING"},
		{90, "OUTSTANDING"},
		{89, "GREAT WORK"},
		{70, "GREAT WORK"},
		{50, "PASSABLE"},
		{49, "NEED REVIEW"},
		{0, "NEED REVIEW"},
	}
	for _, tt := range tests {
		if got := Grade(tt.percent); got != tt.want {
			t.Errorf("Grade(%d) = %q, want %q", tt.percent, got, tt.want)
		}
	}
}

func TestBreakdown(t *testing.T) {
	a := quiz.Attempt{
		Questions:       []quiz.Question{choiceQ(1, 1), choiceQ(2, 0)},
		Responses:       quiz.Responses{1: quiz.Choice(1)},
		MarkedForReview: []int{2},
	}
	rows := Breakdown(a)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Outcome != Correct || rows[0].Given != "b" || rows[0].CorrectText != "b" {
		t.Fatalf("row 0 = %+v", rows[0])
	}
	if rows[1].Outcome != Skipped || rows[1].Given != "" || !rows[1].Flagged {
		t.Fatalf("row 1 = %+v", rows[1])
	}
}
