package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Emdad05/Quiz-Ai/internal/app"
	"github.com/Emdad05/Quiz-Ai/internal/quiz"
	"github.com/Emdad05/Quiz-Ai/internal/scoring"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect and manage past attempts",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List attempts, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		attempts, err := rt.session.History().Recent(cmd.Context())
		if err != nil {
			return err
		}
		writeAttempts(cmd.OutOrStdout(), attempts)
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show the per-question breakdown of an attempt",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		a, ok, err := rt.session.History().Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("no attempt with id %q", args[0])
		}
		writeBreakdown(cmd.OutOrStdout(), a)
		return nil
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete one attempt",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		if err := rt.session.DeleteAttempt(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every attempt",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		if err := rt.session.ClearHistory(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
		return nil
	},
}

var historyResumeCmd = &cobra.Command{
	Use:   "resume <id>",
	Short: "Open an attempt in the app: continue it or view its results",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		if err := rt.session.Resume(cmd.Context(), args[0]); err != nil {
			return err
		}
		return app.Run(cmd.Context(), app.Options{Session: rt.session, Keyring: rt.keyring})
	},
}

var historyReattemptCmd = &cobra.Command{
	Use:   "reattempt <id>",
	Short: "Start a fresh attempt over the questions of a completed one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		ctx := cmd.Context()
		if err := rt.session.Resume(ctx, args[0]); err != nil {
			return err
		}
		if err := rt.session.Reattempt(ctx); err != nil {
			return fmt.Errorf("attempt %s is still in progress; use resume: %w", args[0], err)
		}
		return app.Run(ctx, app.Options{Session: rt.session, Keyring: rt.keyring})
	},
}

func init() {
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyDeleteCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyResumeCmd)
	historyCmd.AddCommand(historyReattemptCmd)
}

// attemptStatus is "in progress" or the score with its grade.
func attemptStatus(a quiz.Attempt) string {
	if !a.Completed() {
		return "in progress"
	}
	stats := scoring.Score(a.Questions, a.Responses)
	return fmt.Sprintf("%d%% %s", stats.Percent, scoring.Grade(stats.Percent))
}

func writeAttempts(w io.Writer, attempts []quiz.Attempt) {
	if len(attempts) == 0 {
		fmt.Fprintln(w, "No attempts yet.")
		return
	}

	fmt.Fprintf(w, "%-36s  %-16s  %-30s  %4s  %s\n", "ID", "Date", "Title", "Qs", "Status")
	fmt.Fprintln(w, strings.Repeat("─", 110))
	for _, a := range attempts {
		title := a.Title
		if r := []rune(title); len(r) > 30 {
			title = string(r[:29]) + "…"
		}
		fmt.Fprintf(w, "%-36s  %-16s  %-30s  %4d  %s\n",
			a.ID,
			a.StartedAt().Local().Format("2006-01-02 15:04"),
			title,
			len(a.Questions),
			attemptStatus(a),
		)
	}
}

func writeBreakdown(w io.Writer, a quiz.Attempt) {
	fmt.Fprintf(w, "%s\n", a.Title)
	fmt.Fprintf(w, "Started %s, %s\n", a.StartedAt().Local().Format("2006-01-02 15:04"), attemptStatus(a))
	if a.Completed() {
		stats := scoring.Score(a.Questions, a.Responses)
		fmt.Fprintf(w, "✓ %d correct  ✗ %d wrong  – %d skipped  in %s\n",
			stats.Correct, stats.Wrong, stats.Skipped,
			(time.Duration(a.ElapsedSeconds) * time.Second).String())
	}
	fmt.Fprintln(w)

	for i, r := range scoring.Breakdown(a) {
		mark := "–"
		switch r.Outcome {
		case scoring.Correct:
			mark = "✓"
		case scoring.Wrong:
			mark = "✗"
		}
		flag := ""
		if r.Flagged {
			flag = " ⚑"
		}
		fmt.Fprintf(w, "── Question %d/%d %s%s ──\n", i+1, len(a.Questions), mark, flag)
		fmt.Fprintln(w, r.Question.Text)
		given := r.Given
		if given == "" {
			given = "(skipped)"
		}
		fmt.Fprintf(w, "  Your answer:    %s\n", given)
		fmt.Fprintf(w, "  Correct answer: %s\n", r.CorrectText)
		if r.Question.Explanation != "" {
			fmt.Fprintf(w, "  Why: %s\n", r.Question.Explanation)
		}
		fmt.Fprintln(w)
	}
}
