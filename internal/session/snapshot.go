package session

import (
	"context"
	"encoding/json"
	"slices"
	"time"

	"github.com/Emdad05/Quiz-Ai/internal/quiz"
	"github.com/Emdad05/Quiz-Ai/internal/store"
)

// Snapshot is the reload-survival record written while the screen is
// Quiz, Results or Review. History, not the snapshot, is authoritative.
type Snapshot struct {
	Screen    Screen          `json:"appState"`
	Config    *quiz.Config    `json:"config,omitempty"`
	Questions []quiz.Question `json:"questions,omitempty"`
	Attempt   *quiz.Attempt   `json:"result,omitempty"`
}

// Checkpoint is the live answering state of the attempt being taken. It is
// rewritten on every interaction and dropped on submit or discard.
type Checkpoint struct {
	// AttemptID ties the checkpoint to its history entry.
	AttemptID string `json:"attemptId"`

	// QuizID is quiz.Fingerprint of the question set.
	QuizID string `json:"quizId"`

	Index     int            `json:"currentIndex"`
	Responses quiz.Responses `json:"answers"`

	// TimeLeft is the remaining time in whole seconds.
	TimeLeft int   `json:"timeLeft"`
	Review   []int `json:"markedForReview"`
}

// newCheckpoint seeds a checkpoint from an attempt's stored progress.
func newCheckpoint(a quiz.Attempt) Checkpoint {
	responses := a.Responses.Clone()
	return Checkpoint{
		AttemptID: a.ID,
		QuizID:    quiz.Fingerprint(a.Questions),
		Index:     clampIndex(a.CurrentIndex, len(a.Questions)),
		Responses: responses,
		TimeLeft:  int(a.Remaining() / time.Second),
		Review:    slices.Clone(a.MarkedForReview),
	}
}

// Matches reports whether the checkpoint belongs to the attempt.
func (c Checkpoint) Matches(a quiz.Attempt) bool {
	return c.AttemptID == a.ID && c.QuizID == quiz.Fingerprint(a.Questions)
}

// checkpointFor returns the stored checkpoint when it matches a, with its
// index and clock clamped to the attempt. Otherwise the checkpoint is
// rebuilt from the history entry.
func (m *Manager) checkpointFor(ctx context.Context, a quiz.Attempt) Checkpoint {
	raw, ok, err := m.kv.Get(ctx, store.KeyProgress)
	if err != nil {
		m.logger.Warn("reading progress checkpoint", "error", err)
		return newCheckpoint(a)
	}
	if !ok {
		return newCheckpoint(a)
	}

	var cp Checkpoint
	if err := json.Unmarshal(raw, &cp); err != nil {
		m.logger.Warn("progress checkpoint is corrupt, ignoring", "error", err)
		return newCheckpoint(a)
	}
	if !cp.Matches(a) {
		return newCheckpoint(a)
	}

	cp.Index = clampIndex(cp.Index, len(a.Questions))
	cp.TimeLeft = min(max(cp.TimeLeft, 0), int(a.Allotted()/time.Second))
	if cp.Responses == nil {
		cp.Responses = quiz.Responses{}
	}
	return cp
}

func (c Checkpoint) clone() Checkpoint {
	out := c
	out.Responses = c.Responses.Clone()
	out.Review = slices.Clone(c.Review)
	return out
}

func clampIndex(i, n int) int {
	if n == 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
