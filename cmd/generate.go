package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Emdad05/Quiz-Ai/internal/app"
	"github.com/Emdad05/Quiz-Ai/internal/generator"
	"github.com/Emdad05/Quiz-Ai/internal/quiz"
	"github.com/Emdad05/Quiz-Ai/internal/scoring"
	"github.com/Emdad05/Quiz-Ai/internal/session"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a quiz from notes or files",
	Long: `Generate a quiz without the setup form.

The new attempt is saved to history. Answer it right away with --take
(plain prompts) or --play (the full app), or later with
"quizgenius history resume <id>".`,
	RunE: runGenerate,
}

func init() {
	addGenerateFlags(generateCmd.Flags())
}

func addGenerateFlags(f *pflag.FlagSet) {
	def := quiz.DefaultConfig()
	f.String("name", "", "Candidate name (default: the remembered name)")
	f.String("topic", "", "Quiz title; generated from the content when empty")
	f.Int("count", def.QuestionCount, "Number of questions")
	f.Int("duration", def.DurationMinutes, "Time limit in minutes")
	f.String("difficulty", string(def.Difficulty), "Easy, Medium or Hard")
	f.String("type", "mc", "Quiz type: mc (multiple choice) or tf (true/false)")
	f.String("content", "", "Study material as text")
	f.String("content-file", "", "Read study material from a text file")
	f.StringSlice("attach", nil, "PDF or image files to include (repeatable)")
	f.Bool("take", false, "Answer the quiz in the terminal with plain prompts")
	f.Bool("play", false, "Open the quiz in the interactive app")
}

// configFromFlags builds the quiz request. The remembered name fills in a
// missing --name.
func configFromFlags(cmd *cobra.Command, rememberedName string) (quiz.Config, error) {
	f := cmd.Flags()
	cfg := quiz.DefaultConfig()

	cfg.UserName, _ = f.GetString("name")
	if strings.TrimSpace(cfg.UserName) == "" {
		cfg.UserName = rememberedName
	}
	cfg.Topic, _ = f.GetString("topic")
	cfg.QuestionCount, _ = f.GetInt("count")
	cfg.DurationMinutes, _ = f.GetInt("duration")

	diff, _ := f.GetString("difficulty")
	d, err := quiz.ParseDifficulty(diff)
	if err != nil {
		return cfg, err
	}
	cfg.Difficulty = d

	typ, _ := f.GetString("type")
	t, err := quiz.ParseType(typ)
	if err != nil {
		return cfg, err
	}
	cfg.Type = t

	cfg.Content, _ = f.GetString("content")
	if path, _ := f.GetString("content-file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read content file: %w", err)
		}
		cfg.Content = strings.TrimSpace(cfg.Content + "\n" + string(data))
	}

	paths, _ := f.GetStringSlice("attach")
	for _, p := range paths {
		a, err := quiz.ReadAttachment(p)
		if err != nil {
			return cfg, err
		}
		cfg.Attachments = append(cfg.Attachments, a)
	}
	return cfg, nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	take, _ := cmd.Flags().GetBool("take")
	play, _ := cmd.Flags().GetBool("play")
	if take && play {
		return errors.New("--take and --play cannot be combined")
	}

	rt, err := setup(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	sess := rt.session

	cfg, err := configFromFlags(cmd, sess.RememberedName(ctx))
	if err != nil {
		return err
	}
	if err := sess.Navigate(ctx, session.ScreenSetup); err != nil {
		return err
	}

	_, src := rt.provider.Credentials(ctx)
	fmt.Fprintf(out, "Generating %d questions... (%s)\n", cfg.QuestionCount, src.Hint())
	if err := sess.StartQuiz(ctx, cfg); err != nil {
		var invalid *quiz.ValidationError
		var exhausted *generator.CredentialsExhaustedError
		switch {
		case errors.As(err, &invalid):
			for _, p := range invalid.Problems {
				fmt.Fprintf(cmd.ErrOrStderr(), "  - %s\n", p)
			}
		case errors.As(err, &exhausted):
			fmt.Fprintln(cmd.ErrOrStderr(), "System Capacity Exhausted")
			fmt.Fprintln(cmd.ErrOrStderr(), exhausted.Report())
		}
		return err
	}

	a, _ := sess.Attempt()
	fmt.Fprintf(out, "Created %q with %d questions, %d minutes.\n", a.Title, len(a.Questions), cfg.DurationMinutes)
	fmt.Fprintf(out, "Attempt: %s\n", a.ID)

	switch {
	case play:
		return app.Run(ctx, app.Options{Session: sess, Keyring: rt.keyring})
	case take:
		return takeQuiz(cmd, sess, os.Stdin)
	}

	if err := sess.Exit(ctx, true); err != nil {
		return err
	}
	fmt.Fprintf(out, "Saved. Resume with: quizgenius history resume %s\n", a.ID)
	return nil
}

// takeQuiz asks every question on out, reading answers from in. An empty
// answer skips the question. Closing the input saves the attempt for later.
// The wall clock is charged against the timer after every answer; an
// answer given after time ran out is not recorded.
func takeQuiz(cmd *cobra.Command, sess *session.Manager, in io.Reader) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	scanner := bufio.NewScanner(in)
	total := len(sess.Questions())
	clock := time.Now()

	for i := 0; i < total; i++ {
		if err := sess.GoTo(ctx, i); err != nil {
			return err
		}
		q, _, _ := sess.Current()

		fmt.Fprintf(out, "\n── Question %d/%d ──\n", i+1, total)
		fmt.Fprintln(out, q.Text)
		for j, opt := range q.Options {
			fmt.Fprintf(out, "  %c) %s\n", 'A'+j, opt)
		}

		fmt.Fprint(out, "\nYour answer: ")
		if !scanner.Scan() {
			fmt.Fprintln(out, "\n(input closed, attempt saved)")
			return sess.Exit(ctx, true)
		}

		expired, err := chargeClock(ctx, sess, &clock)
		if err != nil {
			return err
		}
		if expired {
			fmt.Fprintln(out, "\nTime is up.")
			return printScore(out, sess)
		}

		answer := strings.TrimSpace(scanner.Text())
		if answer == "" {
			fmt.Fprintln(out, "(skipped)")
			continue
		}

		if q.IsShortAnswer() {
			if err := sess.AnswerText(ctx, answer); err != nil {
				return err
			}
			continue
		}
		choice, ok := parseChoice(answer, len(q.Options))
		if !ok {
			fmt.Fprintln(out, "(not an option, skipped)")
			continue
		}
		if err := sess.SelectOption(ctx, choice); err != nil {
			return err
		}
	}

	if sess.Unanswered() == total {
		fmt.Fprintln(out, "\nNothing answered, attempt saved.")
		return sess.Exit(ctx, true)
	}
	if err := sess.Submit(ctx); err != nil {
		return err
	}
	return printScore(out, sess)
}

// chargeClock ticks the timer once per whole second since *last and
// advances *last by the seconds consumed.
func chargeClock(ctx context.Context, sess *session.Manager, last *time.Time) (bool, error) {
	secs := int(time.Since(*last) / time.Second)
	*last = last.Add(time.Duration(secs) * time.Second)
	for range secs {
		expired, err := sess.Tick(ctx)
		if err != nil || expired {
			return expired, err
		}
	}
	return false, nil
}

func printScore(out io.Writer, sess *session.Manager) error {
	a, ok := sess.Attempt()
	if !ok {
		return errors.New("no attempt to score")
	}
	stats := sess.Stats()
	fmt.Fprintf(out, "\n── %d%% %s: %d/%d correct ──\n", stats.Percent, scoring.Grade(stats.Percent), stats.Correct, stats.Total)
	fmt.Fprintf(out, "Review with: quizgenius history show %s\n", a.ID)
	return nil
}

// parseChoice accepts an option letter (a, B) or a 1-based number.
func parseChoice(s string, options int) (int, bool) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if n >= 1 && n <= options {
			return n - 1, true
		}
		return 0, false
	}
	if len(s) == 1 {
		c := s[0] | 0x20
		if c >= 'a' && int(c-'a') < options {
			return int(c - 'a'), true
		}
	}
	return 0, false
}
