package history

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Emdad05/Quiz-Ai/internal/quiz"
	"github.com/Emdad05/Quiz-Ai/internal/store"
)

func sampleQuestions() []quiz.Question {
	return []quiz.Question{
		{ID: 1, Text: "2+2?", Options: []string{"3", "4"}, Key: quiz.ChoiceKey{Index: 1}},
		{ID: 2, Text: "Capital of France?", Key: quiz.TextKey{Answer: "Paris"}},
	}
}

func attemptAt(id string, minute int) quiz.Attempt {
	now := time.Date(2025, 1, 1, 10, minute, 0, 0, time.UTC)
	return quiz.NewAttempt(id, "Quiz "+id, sampleQuestions(), 15*time.Minute, now)
}

func ids(attempts []quiz.Attempt) []string {
	out := make([]string, len(attempts))
	for i, a := range attempts {
		out[i] = a.ID
	}
	return out
}

func TestStore_AppendAndList(t *testing.T) {
	ctx := context.Background()
	s := New(store.NewMemory(0), nil)

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, s.Append(ctx, attemptAt("a", 5)))
	require.NoError(t, s.Append(ctx, attemptAt("b", 1)))
	require.NoError(t, s.Append(ctx, attemptAt("c", 9)))

	list, err = s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, ids(list))

	recent, err := s.Recent(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, ids(recent))
}

func TestStore_RoundTripPreservesAnswers(t *testing.T) {
	ctx := context.Background()
	s := New(store.NewMemory(0), nil)

	a := attemptAt("a", 0)
	a.Responses[1] = quiz.Choice(1)
	a.Responses[2] = quiz.Text("paris")
	a.MarkedForReview = []int{2}
	a.ElapsedSeconds = 42
	require.NoError(t, s.Append(ctx, a))

	got, ok, err := s.Get(ctx, "a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, a, got)
}

func TestStore_Upsert(t *testing.T) {
	ctx := context.Background()
	s := New(store.NewMemory(0), nil)
	require.NoError(t, s.Append(ctx, attemptAt("a", 0)))
	require.NoError(t, s.Append(ctx, attemptAt("b", 1)))

	done := attemptAt("a", 0)
	done.Status = quiz.StatusCompleted
	require.NoError(t, s.Upsert(ctx, done))
	require.NoError(t, s.Upsert(ctx, attemptAt("c", 2)))

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, ids(list))
	assert.True(t, list[0].Completed())
}

func TestStore_Update(t *testing.T) {
	ctx := context.Background()
	s := New(store.NewMemory(0), nil)
	require.NoError(t, s.Append(ctx, attemptAt("a", 0)))

	ok, err := s.Update(ctx, "a", func(a *quiz.Attempt) { a.CurrentIndex = 1 })
	require.NoError(t, err)
	assert.True(t, ok)

	got, _, _ := s.Get(ctx, "a")
	assert.Equal(t, 1, got.CurrentIndex)

	ok, err = s.Update(ctx, "missing", func(a *quiz.Attempt) { t.Fatal("must not be called") })
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_Delete(t *testing.T) {
	ctx := context.Background()
	s := New(store.NewMemory(0), nil)
	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, s.Append(ctx, attemptAt(id, i)))
	}

	ok, err := s.Delete(ctx, "b")
	require.NoError(t, err)
	assert.True(t, ok)

	list, _ := s.List(ctx)
	assert.Equal(t, []string{"a", "c"}, ids(list))

	ok, err = s.Delete(ctx, "b")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_ClearAndInProgress(t *testing.T) {
	ctx := context.Background()
	s := New(store.NewMemory(0), nil)
	assert.False(t, s.HasInProgress(ctx))

	require.NoError(t, s.Append(ctx, attemptAt("a", 0)))
	assert.True(t, s.HasInProgress(ctx))

	require.NoError(t, s.Clear(ctx))
	list, _ := s.List(ctx)
	assert.Empty(t, list)
	assert.False(t, s.HasInProgress(ctx))
}

func TestStore_CorruptHistoryIsEmpty(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory(0)
	require.NoError(t, kv.Set(ctx, store.KeyHistory, []byte(`[{"id":`)))
	s := New(kv, nil)

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	assert.False(t, s.HasInProgress(ctx))
	_, found, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStore_CorruptHistoryIsNotOverwritten(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory(0)
	bad := []byte(`[{"id":`)
	require.NoError(t, kv.Set(ctx, store.KeyHistory, bad))
	s := New(kv, nil)

	assert.ErrorIs(t, s.Append(ctx, attemptAt("a", 0)), ErrCorrupt)
	assert.ErrorIs(t, s.Upsert(ctx, attemptAt("a", 0)), ErrCorrupt)
	_, err := s.Update(ctx, "a", func(*quiz.Attempt) {})
	assert.ErrorIs(t, err, ErrCorrupt)
	_, err = s.Delete(ctx, "a")
	assert.ErrorIs(t, err, ErrCorrupt)

	raw, ok, err := kv.Get(ctx, store.KeyHistory)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, bad, raw)

	require.NoError(t, s.Clear(ctx))
	require.NoError(t, s.Append(ctx, attemptAt("a", 0)))
	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ids(list))
}

func TestStore_StorageErrors(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory(0)
	s := New(kv, nil)

	kv.FailWrites = store.ErrCapacityExceeded
	assert.ErrorIs(t, s.Append(ctx, attemptAt("a", 0)), store.ErrCapacityExceeded)

	kv.FailWrites = nil
	kv.FailReads = errors.New("disk gone")
	_, err := s.List(ctx)
	assert.Error(t, err)
	assert.False(t, s.HasInProgress(ctx))
}
