package quiz

import (
	"slices"
	"time"
)

// Status is the lifecycle state of an Attempt.
type Status string

const (
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
)

// LegacyDurationMinutes is assumed for stored attempts that predate
// DurationMinutes.
const LegacyDurationMinutes = 15

// Attempt is one instance of a user taking a quiz. It is the unit stored in
// history.
type Attempt struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Timestamp int64  `json:"timestamp"` // unix milliseconds
	Status    Status `json:"status"`

	// Questions is frozen when the attempt is created.
	Questions []Question `json:"questions"`

	Responses      Responses `json:"userAnswers"`
	ElapsedSeconds int       `json:"timeTakenSeconds"`
	CurrentIndex   int       `json:"currentIndex"`

	// MarkedForReview holds question ids, sorted ascending.
	MarkedForReview []int `json:"markedForReview,omitempty"`

	// DurationMinutes is the time allotted when the attempt started.
	DurationMinutes int `json:"durationMinutes,omitempty"`
}

// NewAttempt builds a fresh in-progress attempt.
func NewAttempt(id, title string, questions []Question, duration time.Duration, now time.Time) Attempt {
	return Attempt{
		ID:              id,
		Title:           title,
		Timestamp:       now.UnixMilli(),
		Status:          StatusInProgress,
		Questions:       questions,
		Responses:       Responses{},
		DurationMinutes: int(duration / time.Minute),
	}
}

// Completed reports whether the attempt has been submitted.
func (a Attempt) Completed() bool {
	return a.Status == StatusCompleted
}

// StartedAt returns the creation time.
func (a Attempt) StartedAt() time.Time {
	return time.UnixMilli(a.Timestamp)
}

// Allotted returns the attempt's time budget.
func (a Attempt) Allotted() time.Duration {
	if a.DurationMinutes <= 0 {
		return LegacyDurationMinutes * time.Minute
	}
	return time.Duration(a.DurationMinutes) * time.Minute
}

// Remaining returns the unused part of the time budget, never negative.
func (a Attempt) Remaining() time.Duration {
	left := a.Allotted() - time.Duration(a.ElapsedSeconds)*time.Second
	if left < 0 {
		return 0
	}
	return left
}

// Clone returns a deep copy that shares no mutable state with a.
func (a Attempt) Clone() Attempt {
	out := a
	out.Questions = slices.Clone(a.Questions)
	out.Responses = a.Responses.Clone()
	out.MarkedForReview = slices.Clone(a.MarkedForReview)
	return out
}

// ToggleFlag adds or removes id from a sorted id set.
func ToggleFlag(flags []int, id int) []int {
	i, found := slices.BinarySearch(flags, id)
	if found {
		return slices.Delete(slices.Clone(flags), i, i+1)
	}
	return slices.Insert(slices.Clone(flags), i, id)
}
