package generator

import (
	"strings"
	"testing"
	"time"

	"github.com/Emdad05/Quiz-Ai/internal/quiz"
)

var fixedTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func TestBuildSystemPrompt_MultipleChoice(t *testing.T) {
	cfg := quiz.DefaultConfig()
	cfg.Difficulty = quiz.DifficultyHard
	cfg.QuestionCount = 12

	msg := buildSystemPrompt(cfg, "tok", fixedTime)

	for _, want := range []string{
		"Request Isolation ID: tok",
		"Generate a relevant title.",
		"Generate 12 questions.",
		"Type: Multiple Choice. Generate Multiple Choice questions with exactly 4 options and one correct answer.",
		"Difficulty: Hard. Focus on analysis, reasoning, and scenarios.",
		"CRITICAL: This is a standalone, isolated request.",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildSystemPrompt_TrueFalseWithTopic(t *testing.T) {
	cfg := quiz.DefaultConfig()
	cfg.Type = quiz.TypeTrueFalse
	cfg.Difficulty = quiz.DifficultyEasy
	cfg.Topic = "Cells"

	msg := buildSystemPrompt(cfg, "tok", fixedTime)

	if !strings.Contains(msg, `Use title: "Cells".`) {
		t.Error("missing title hint")
	}
	if !strings.Contains(msg, "Options must be ['True', 'False'].") {
		t.Error("missing true/false instruction")
	}
	if !strings.Contains(msg, "Focus on direct recall and basic facts.") {
		t.Error("missing easy guidance")
	}
	if strings.Contains(msg, "Generate a relevant title.") {
		t.Error("title hint and generic title instruction both present")
	}
}

func TestBuildParts_Order(t *testing.T) {
	cfg := quiz.DefaultConfig()
	cfg.Content = "notes"
	cfg.Attachments = []quiz.Attachment{
		{Name: "a.pdf", MIMEType: "application/pdf", Data: []byte("%PDF")},
		{Name: "b.png", MIMEType: "image/png", Data: []byte{0x89}},
	}

	parts := buildParts(cfg, "tok", fixedTime)
	if len(parts) != 4 {
		t.Fatalf("expected 4 parts, got %d", len(parts))
	}
	if !strings.HasPrefix(parts[0].Text, "UNIQUE_SESSION_IDENTIFIER: tok") {
		t.Errorf("first part should be the isolation marker, got %q", parts[0].Text)
	}
	if parts[1].Text != "notes" {
		t.Errorf("second part should be the content, got %q", parts[1].Text)
	}
	if parts[2].MIMEType != "application/pdf" || parts[3].MIMEType != "image/png" {
		t.Error("attachments out of order")
	}
}

func TestBuildParts_NoContent(t *testing.T) {
	cfg := quiz.DefaultConfig()
	cfg.Attachments = []quiz.Attachment{{MIMEType: "image/jpeg", Data: []byte{1}}}

	parts := buildParts(cfg, "tok", fixedTime)
	if len(parts) != 2 {
		t.Fatalf("expected marker + attachment, got %d parts", len(parts))
	}
	if !parts[1].IsBlob() {
		t.Error("expected attachment part")
	}
}

func TestSchemaFor(t *testing.T) {
	tf := schemaFor(quiz.TypeTrueFalse)
	mc := schemaFor(quiz.TypeMultipleChoice)
	if tf.Name != "quiz-content" || mc.Name != "quiz-content" {
		t.Fatal("schema name changed")
	}
	desc := func(s map[string]any) string {
		q := s["properties"].(map[string]any)["questions"].(map[string]any)
		props := q["items"].(map[string]any)["properties"].(map[string]any)
		return props["options"].(map[string]any)["description"].(string)
	}
	if desc(tf.Definition) != "Must be ['True', 'False']" {
		t.Errorf("unexpected true/false hint %q", desc(tf.Definition))
	}
	if desc(mc.Definition) != "Must contain exactly 4 options." {
		t.Errorf("unexpected multiple choice hint %q", desc(mc.Definition))
	}
}

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"{}", "{}"},
		{"```json\n{}\n```", "{}"},
		{"```\n{\"a\":1}\n```  ", `{"a":1}`},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := stripCodeFences(tt.in); got != tt.want {
			t.Errorf("stripCodeFences(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
