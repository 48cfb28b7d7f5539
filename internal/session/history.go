package session

import (
	"context"
	"fmt"
	"time"

	"github.com/Emdad05/Quiz-Ai/internal/quiz"
)

// Candidate names shown for attempts opened from history, where the
// original configuration is not kept.
const (
	ResumingCandidate = "Resuming Candidate"
	HistoryReviewer   = "History Review"
)

// DefaultReattemptTitle names a retake whose source had no title.
const DefaultReattemptTitle = "Assessment"

// Resume opens a history entry. Completed attempts open on Results;
// in-progress ones continue on Quiz where they left off, from the stored
// checkpoint when it belongs to the attempt.
func (m *Manager) Resume(ctx context.Context, id string) error {
	if m.screen == ScreenGenerating || m.screen == ScreenQuiz {
		return ErrInvalidTransition
	}
	a, ok, err := m.history.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("loading attempt: %w", err)
	}
	if !ok {
		return ErrAttemptNotFound
	}
	if len(a.Questions) == 0 {
		return ErrEmptyAttempt
	}

	m.questions = a.Questions
	m.attempt = &a
	m.errMsg = ""

	if a.Completed() {
		m.config = &quiz.Config{
			UserName:      HistoryReviewer,
			Topic:         a.Title,
			QuestionCount: len(a.Questions),
			Difficulty:    quiz.DifficultyMedium,
			Type:          quiz.TypeMultipleChoice,
		}
		m.progress = nil
		m.setScreen(ctx, ScreenResults)
		return nil
	}

	m.config = &quiz.Config{
		UserName:        ResumingCandidate,
		Topic:           a.Title,
		QuestionCount:   len(a.Questions),
		DurationMinutes: int(a.Allotted() / time.Minute),
		Difficulty:      quiz.DifficultyMedium,
		Type:            quiz.TypeMultipleChoice,
	}
	cp := m.checkpointFor(ctx, a)
	m.progress = &cp
	m.commit(ctx)
	m.setScreen(ctx, ScreenQuiz)
	return nil
}

// Reattempt starts a fresh attempt over the questions of the current
// result. The original attempt stays in history untouched.
func (m *Manager) Reattempt(ctx context.Context) error {
	if (m.screen != ScreenResults && m.screen != ScreenReview) || m.attempt == nil {
		return ErrInvalidTransition
	}
	src := m.attempt.Clone()

	topic := ""
	duration := src.Allotted()
	if m.config != nil {
		topic = m.config.Topic
		if m.config.DurationMinutes > 0 {
			duration = time.Duration(m.config.DurationMinutes) * time.Minute
		}
	}
	title := firstNonBlank(src.Title, topic, DefaultReattemptTitle)

	if m.config == nil {
		m.config = &quiz.Config{
			UserName:      ResumingCandidate,
			QuestionCount: len(src.Questions),
			Difficulty:    quiz.DifficultyMedium,
			Type:          quiz.TypeMultipleChoice,
		}
	}
	m.config.Topic = title
	m.config.DurationMinutes = int(duration / time.Minute)

	m.startAttempt(ctx, quiz.NewAttempt(m.newID(), title, src.Questions, duration, m.now()))
	return nil
}

// DeleteAttempt removes one history entry. The relative order of the rest
// is kept.
func (m *Manager) DeleteAttempt(ctx context.Context, id string) error {
	found, err := m.history.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("deleting attempt: %w", err)
	}
	if !found {
		return ErrAttemptNotFound
	}
	if m.attempt != nil && m.attempt.ID == id && m.screen != ScreenQuiz {
		m.attempt = nil
	}
	return nil
}

// ClearHistory removes every attempt and returns to Setup.
func (m *Manager) ClearHistory(ctx context.Context) error {
	if m.screen == ScreenGenerating || m.screen == ScreenQuiz {
		return ErrInvalidTransition
	}
	if err := m.history.Clear(ctx); err != nil {
		return err
	}
	m.resetActive(ctx)
	m.setScreen(ctx, ScreenSetup)
	return nil
}
