package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Emdad05/Quiz-Ai/internal/quiz"
	"github.com/Emdad05/Quiz-Ai/internal/screen/screentest"
	"github.com/Emdad05/Quiz-Ai/internal/session"
)

func TestParseChoice(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"a", 0, true},
		{"B", 1, true},
		{"2", 1, true},
		{" 4 ", 3, true},
		{"e", 0, false},
		{"5", 0, false},
		{"0", 0, false},
		{"ab", 0, false},
		{"?", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseChoice(tt.in, 4)
		assert.Equal(t, tt.ok, ok, "input %q", tt.in)
		if tt.ok {
			assert.Equal(t, tt.want, got, "input %q", tt.in)
		}
	}
}

func TestParsePosition(t *testing.T) {
	n, err := parsePosition("3")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = parsePosition("0")
	assert.Error(t, err)
	_, err = parsePosition("x")
	assert.Error(t, err)
}

func newGenerateCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{}
	addGenerateFlags(cmd.Flags())
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func TestConfigFromFlags(t *testing.T) {
	dir := t.TempDir()
	notes := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(notes, []byte("Mitochondria make ATP."), 0o644))

	cmd := newGenerateCommand(t,
		"--topic", "Cells",
		"--count", "5",
		"--duration", "7",
		"--difficulty", "hard",
		"--type", "tf",
		"--content-file", notes,
	)
	cfg, err := configFromFlags(cmd, "Grace")
	require.NoError(t, err)

	assert.Equal(t, "Grace", cfg.UserName)
	assert.Equal(t, "Cells", cfg.Topic)
	assert.Equal(t, 5, cfg.QuestionCount)
	assert.Equal(t, 7, cfg.DurationMinutes)
	assert.Equal(t, quiz.DifficultyHard, cfg.Difficulty)
	assert.Equal(t, quiz.TypeTrueFalse, cfg.Type)
	assert.Equal(t, "Mitochondria make ATP.", cfg.Content)
	assert.NoError(t, cfg.Validate())
}

func TestConfigFromFlags_Defaults(t *testing.T) {
	cmd := newGenerateCommand(t, "--name", "Ada", "--content", "x")
	cfg, err := configFromFlags(cmd, "Grace")
	require.NoError(t, err)

	def := quiz.DefaultConfig()
	assert.Equal(t, "Ada", cfg.UserName)
	assert.Equal(t, def.QuestionCount, cfg.QuestionCount)
	assert.Equal(t, def.DurationMinutes, cfg.DurationMinutes)
	assert.Equal(t, def.Difficulty, cfg.Difficulty)
	assert.Equal(t, quiz.TypeMultipleChoice, cfg.Type)
}

func TestConfigFromFlags_Errors(t *testing.T) {
	_, err := configFromFlags(newGenerateCommand(t, "--difficulty", "brutal"), "")
	assert.Error(t, err)

	_, err = configFromFlags(newGenerateCommand(t, "--type", "essay"), "")
	assert.Error(t, err)

	_, err = configFromFlags(newGenerateCommand(t, "--attach", "/no/such/file.pdf"), "")
	assert.Error(t, err)
}

func quizCommand(t *testing.T) (*cobra.Command, *bytes.Buffer, *screentest.Fixture) {
	t.Helper()
	f := screentest.New(t)
	f.StartQuiz(t)

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	cmd.SetContext(context.Background())
	return cmd, &out, f
}

func TestTakeQuiz_Submits(t *testing.T) {
	cmd, out, f := quizCommand(t)

	err := takeQuiz(cmd, f.Env.Session, strings.NewReader("b\n1\n\n"))
	require.NoError(t, err)

	assert.Equal(t, session.ScreenResults, f.Env.Session.Screen())
	stats := f.Env.Session.Stats()
	assert.Equal(t, 2, stats.Correct)
	assert.Equal(t, 1, stats.Skipped)
	assert.Contains(t, out.String(), "67% PASSABLE")
	assert.Contains(t, out.String(), "── Question 3/3 ──")
}

func TestTakeQuiz_InvalidOptionSkips(t *testing.T) {
	cmd, out, f := quizCommand(t)

	err := takeQuiz(cmd, f.Env.Session, strings.NewReader("z\na\nb\n"))
	require.NoError(t, err)

	assert.Contains(t, out.String(), "(not an option, skipped)")
	assert.Equal(t, 2, f.Env.Session.Stats().Correct)
}

func TestTakeQuiz_ClosedInputSaves(t *testing.T) {
	cmd, out, f := quizCommand(t)

	err := takeQuiz(cmd, f.Env.Session, strings.NewReader("b\n"))
	require.NoError(t, err)

	assert.Contains(t, out.String(), "attempt saved")
	assert.Equal(t, session.ScreenSetup, f.Env.Session.Screen())
	assert.True(t, f.Env.Session.HasInProgress(context.Background()))
}

func TestTakeQuiz_NothingAnsweredSaves(t *testing.T) {
	cmd, out, f := quizCommand(t)

	err := takeQuiz(cmd, f.Env.Session, strings.NewReader("\n\n\n"))
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Nothing answered")
	assert.True(t, f.Env.Session.HasInProgress(context.Background()))
}

func TestWriteAttempts(t *testing.T) {
	var buf bytes.Buffer
	writeAttempts(&buf, nil)
	assert.Equal(t, "No attempts yet.\n", buf.String())

	a := quiz.NewAttempt("a-1", strings.Repeat("Long title ", 5), screentest.SampleQuiz().Questions, 0, time.Now())
	done := a
	done.ID = "a-2"
	done.Status = quiz.StatusCompleted
	done.Responses = quiz.Responses{1: quiz.Choice(1), 2: quiz.Choice(0), 3: quiz.Choice(1)}

	buf.Reset()
	writeAttempts(&buf, []quiz.Attempt{a, done})
	out := buf.String()
	assert.Contains(t, out, "in progress")
	assert.Contains(t, out, "100% OUTSTANDING")
	assert.Contains(t, out, "…")
}

func TestWriteBreakdown(t *testing.T) {
	a := quiz.NewAttempt("a-1", "Photosynthesis", screentest.SampleQuiz().Questions, 0, time.Now())
	a.Status = quiz.StatusCompleted
	a.Responses = quiz.Responses{1: quiz.Choice(0)}
	a.MarkedForReview = []int{2}

	var buf bytes.Buffer
	writeBreakdown(&buf, a)
	out := buf.String()

	assert.Contains(t, out, "0% NEED REVIEW")
	assert.Contains(t, out, "✗ 1 wrong")
	assert.Contains(t, out, "Your answer:    Root")
	assert.Contains(t, out, "Correct answer: Leaf")
	assert.Contains(t, out, "(skipped)")
	assert.Contains(t, out, "⚑")
	assert.Contains(t, out, "Why: In the **chloroplasts** of leaves.")
}
