package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Emdad05/Quiz-Ai/internal/quiz"
	"github.com/Emdad05/Quiz-Ai/internal/store"
)

// inQuiz returns the live checkpoint and attempt, or ErrNotInQuiz.
func (m *Manager) inQuiz() (*Checkpoint, *quiz.Attempt, error) {
	if m.screen != ScreenQuiz || m.attempt == nil || m.progress == nil || m.attempt.Completed() {
		return nil, nil, ErrNotInQuiz
	}
	return m.progress, m.attempt, nil
}

// Current returns the question the candidate is looking at.
func (m *Manager) Current() (quiz.Question, int, bool) {
	if m.progress == nil || len(m.questions) == 0 {
		return quiz.Question{}, 0, false
	}
	i := clampIndex(m.progress.Index, len(m.questions))
	return m.questions[i], i, true
}

// SelectOption records option as the answer to the current question.
func (m *Manager) SelectOption(ctx context.Context, option int) error {
	cp, a, err := m.inQuiz()
	if err != nil {
		return err
	}
	q := a.Questions[cp.Index]
	if q.IsShortAnswer() {
		return fmt.Errorf("question %d takes a written answer", q.ID)
	}
	if option < 0 || option >= len(q.Options) {
		return fmt.Errorf("option %d out of range for question %d", option, q.ID)
	}
	cp.Responses[q.ID] = quiz.Choice(option)
	m.commit(ctx)
	return nil
}

// AnswerText records a written answer to the current question. Blank text
// clears the answer.
func (m *Manager) AnswerText(ctx context.Context, text string) error {
	cp, a, err := m.inQuiz()
	if err != nil {
		return err
	}
	q := a.Questions[cp.Index]
	if !q.IsShortAnswer() {
		return fmt.Errorf("question %d takes a choice", q.ID)
	}
	if strings.TrimSpace(text) == "" {
		delete(cp.Responses, q.ID)
	} else {
		cp.Responses[q.ID] = quiz.Text(text)
	}
	m.commit(ctx)
	return nil
}

// ClearAnswer removes the answer to the current question.
func (m *Manager) ClearAnswer(ctx context.Context) error {
	cp, a, err := m.inQuiz()
	if err != nil {
		return err
	}
	delete(cp.Responses, a.Questions[cp.Index].ID)
	m.commit(ctx)
	return nil
}

// GoTo jumps to question i, clamped to the quiz.
func (m *Manager) GoTo(ctx context.Context, i int) error {
	cp, a, err := m.inQuiz()
	if err != nil {
		return err
	}
	cp.Index = clampIndex(i, len(a.Questions))
	m.commit(ctx)
	return nil
}

// Next moves to the following question.
func (m *Manager) Next(ctx context.Context) error {
	if m.progress == nil {
		return ErrNotInQuiz
	}
	return m.GoTo(ctx, m.progress.Index+1)
}

// Prev moves to the preceding question.
func (m *Manager) Prev(ctx context.Context) error {
	if m.progress == nil {
		return ErrNotInQuiz
	}
	return m.GoTo(ctx, m.progress.Index-1)
}

// ToggleReview flags or unflags the current question for review.
func (m *Manager) ToggleReview(ctx context.Context) error {
	cp, a, err := m.inQuiz()
	if err != nil {
		return err
	}
	cp.Review = quiz.ToggleFlag(cp.Review, a.Questions[cp.Index].ID)
	m.commit(ctx)
	return nil
}

// Tick consumes one second of the timer. When time runs out the attempt is
// submitted and Tick reports true. Outside Quiz it does nothing.
func (m *Manager) Tick(ctx context.Context) (bool, error) {
	cp, _, err := m.inQuiz()
	if err != nil {
		return false, nil
	}
	if cp.TimeLeft <= 1 {
		cp.TimeLeft = 0
		return true, m.Submit(ctx)
	}
	cp.TimeLeft--
	m.commit(ctx)
	return false, nil
}

// Unanswered counts the questions without a response.
func (m *Manager) Unanswered() int {
	if m.progress == nil {
		return 0
	}
	return len(m.questions) - m.progress.Responses.Answered()
}

// Submit completes the attempt. Submitting an already completed attempt is
// a no-op.
func (m *Manager) Submit(ctx context.Context) error {
	if m.attempt != nil && m.attempt.Completed() {
		return nil
	}
	cp, a, err := m.inQuiz()
	if err != nil {
		return err
	}
	m.apply(a, cp)
	a.Status = quiz.StatusCompleted
	a.CurrentIndex = 0

	if err := m.history.Upsert(ctx, *a); err != nil {
		m.logger.Warn("recording submitted attempt", "attempt", a.ID, "error", err)
	}
	m.remove(ctx, store.KeyProgress)
	m.progress = nil

	m.setScreen(ctx, ScreenResults)
	return nil
}

// Exit leaves the quiz without submitting. With save the attempt stays in
// history and can be resumed later; without it the attempt is deleted.
func (m *Manager) Exit(ctx context.Context, save bool) error {
	_, a, err := m.inQuiz()
	if err != nil {
		return err
	}
	if save {
		m.commit(ctx)
	} else {
		if _, err := m.history.Delete(ctx, a.ID); err != nil {
			m.logger.Warn("discarding attempt", "attempt", a.ID, "error", err)
		}
		m.remove(ctx, store.KeyProgress)
	}

	m.config = nil
	m.questions = nil
	m.attempt = nil
	m.progress = nil
	m.setScreen(ctx, ScreenSetup)
	return nil
}

// apply copies live checkpoint progress onto the attempt.
func (m *Manager) apply(a *quiz.Attempt, cp *Checkpoint) {
	a.Responses = cp.Responses.Clone()
	a.CurrentIndex = cp.Index
	a.MarkedForReview = append([]int(nil), cp.Review...)
	elapsed := int(a.Allotted()/time.Second) - cp.TimeLeft
	if elapsed < 0 {
		elapsed = 0
	}
	a.ElapsedSeconds = elapsed
}

// commit persists the checkpoint and mirrors it into the history entry.
func (m *Manager) commit(ctx context.Context) {
	cp, a := m.progress, m.attempt
	m.apply(a, cp)
	m.writeJSON(ctx, store.KeyProgress, cp)

	snapshot := a.Clone()
	_, err := m.history.Update(ctx, a.ID, func(h *quiz.Attempt) {
		h.Responses = snapshot.Responses
		h.ElapsedSeconds = snapshot.ElapsedSeconds
		h.CurrentIndex = snapshot.CurrentIndex
		h.MarkedForReview = snapshot.MarkedForReview
	})
	if err != nil {
		m.logger.Warn("mirroring progress to history", "attempt", a.ID, "error", err)
	}
}
