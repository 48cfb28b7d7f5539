// Package history is the system of record for quiz attempts.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/Emdad05/Quiz-Ai/internal/quiz"
	"github.com/Emdad05/Quiz-Ai/internal/store"
)

// ErrCorrupt is returned by writes while the stored history cannot be
// decoded. Clear discards the bad value.
var ErrCorrupt = errors.New("stored history is corrupt")

// Store keeps attempts as a JSON array under store.KeyHistory, in
// insertion order.
type Store struct {
	kv     store.KV
	logger *slog.Logger
}

// New creates a Store over kv.
func New(kv store.KV, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{kv: kv, logger: logger}
}

// List returns every attempt in insertion order. Missing or corrupt data
// yields an empty history; only storage read errors are returned.
func (s *Store) List(ctx context.Context) ([]quiz.Attempt, error) {
	attempts, err := s.load(ctx)
	if errors.Is(err, ErrCorrupt) {
		s.logger.Warn("history is corrupt, treating as empty", "error", err)
		return nil, nil
	}
	return attempts, err
}

// load is List for writers: a value that fails to decode is an error so
// it never gets overwritten by a partial history.
func (s *Store) load(ctx context.Context) ([]quiz.Attempt, error) {
	raw, ok, err := s.kv.Get(ctx, store.KeyHistory)
	if err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var attempts []quiz.Attempt
	if err := json.Unmarshal(raw, &attempts); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return attempts, nil
}

// Recent returns every attempt, newest first.
func (s *Store) Recent(ctx context.Context) ([]quiz.Attempt, error) {
	attempts, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(attempts, func(a, b quiz.Attempt) int {
		switch {
		case a.Timestamp > b.Timestamp:
			return -1
		case a.Timestamp < b.Timestamp:
			return 1
		}
		return 0
	})
	return attempts, nil
}

// Get returns the attempt with id.
func (s *Store) Get(ctx context.Context, id string) (quiz.Attempt, bool, error) {
	attempts, err := s.List(ctx)
	if err != nil {
		return quiz.Attempt{}, false, err
	}
	i := indexOf(attempts, id)
	if i < 0 {
		return quiz.Attempt{}, false, nil
	}
	return attempts[i], true, nil
}

// Append adds a new attempt at the end.
func (s *Store) Append(ctx context.Context, a quiz.Attempt) error {
	attempts, err := s.load(ctx)
	if err != nil {
		return err
	}
	return s.save(ctx, append(attempts, a.Clone()))
}

// Upsert replaces the attempt with the same id in place, or appends it.
func (s *Store) Upsert(ctx context.Context, a quiz.Attempt) error {
	attempts, err := s.load(ctx)
	if err != nil {
		return err
	}
	if i := indexOf(attempts, a.ID); i >= 0 {
		attempts[i] = a.Clone()
	} else {
		attempts = append(attempts, a.Clone())
	}
	return s.save(ctx, attempts)
}

// Update applies fn to the attempt with id and saves the result. It
// reports false, without writing, when no attempt has that id.
func (s *Store) Update(ctx context.Context, id string, fn func(*quiz.Attempt)) (bool, error) {
	attempts, err := s.load(ctx)
	if err != nil {
		return false, err
	}
	i := indexOf(attempts, id)
	if i < 0 {
		return false, nil
	}
	fn(&attempts[i])
	return true, s.save(ctx, attempts)
}

// Delete removes exactly the attempt with id; the rest keep their order.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	attempts, err := s.load(ctx)
	if err != nil {
		return false, err
	}
	i := indexOf(attempts, id)
	if i < 0 {
		return false, nil
	}
	return true, s.save(ctx, slices.Delete(attempts, i, i+1))
}

// Clear removes every attempt.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.kv.Remove(ctx, store.KeyHistory); err != nil {
		return fmt.Errorf("clearing history: %w", err)
	}
	return nil
}

// HasInProgress reports whether any attempt is unfinished.
func (s *Store) HasInProgress(ctx context.Context) bool {
	attempts, err := s.List(ctx)
	if err != nil {
		s.logger.Warn("reading history", "error", err)
		return false
	}
	return slices.ContainsFunc(attempts, func(a quiz.Attempt) bool { return !a.Completed() })
}

func (s *Store) save(ctx context.Context, attempts []quiz.Attempt) error {
	if attempts == nil {
		attempts = []quiz.Attempt{}
	}
	data, err := json.Marshal(attempts)
	if err != nil {
		return fmt.Errorf("encoding history: %w", err)
	}
	if err := s.kv.Set(ctx, store.KeyHistory, data); err != nil {
		return fmt.Errorf("saving history: %w", err)
	}
	return nil
}

func indexOf(attempts []quiz.Attempt, id string) int {
	return slices.IndexFunc(attempts, func(a quiz.Attempt) bool { return a.ID == id })
}
