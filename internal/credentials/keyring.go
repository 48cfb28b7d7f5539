// Package credentials manages the ordered list of API keys quizzes are
// generated with.
package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/Emdad05/Quiz-Ai/internal/store"
)

// MinKeyLength is the shortest string accepted as an API key.
const MinKeyLength = 10

var (
	// ErrKeyTooShort is returned by Add for obviously truncated input.
	ErrKeyTooShort = errors.New("key looks too short")

	// ErrKeyInvalid is returned by Add when the service rejects the key.
	ErrKeyInvalid = errors.New("invalid API key; please check the key and try again")

	// ErrNoSuchKey is returned by Remove for an out-of-range index.
	ErrNoSuchKey = errors.New("no key at that position")
)

// Validator confirms that the generation service accepts a key.
type Validator interface {
	ValidateCredential(ctx context.Context, key string) error
}

// Keyring is the user's locally stored keys, kept as a JSON array under
// store.KeyUserCredentials.
type Keyring struct {
	kv        store.KV
	validator Validator
	logger    *slog.Logger
}

// NewKeyring creates a Keyring. validator may be nil, in which case Add
// only checks the length.
func NewKeyring(kv store.KV, validator Validator, logger *slog.Logger) *Keyring {
	if logger == nil {
		logger = slog.Default()
	}
	return &Keyring{kv: kv, validator: validator, logger: logger}
}

// List returns the stored keys in order. Unreadable data yields an empty
// list.
func (k *Keyring) List(ctx context.Context) []string {
	raw, ok, err := k.kv.Get(ctx, store.KeyUserCredentials)
	if err != nil {
		k.logger.Warn("reading stored keys", "error", err)
		return nil
	}
	if !ok {
		return nil
	}
	var keys []string
	if err := json.Unmarshal(raw, &keys); err != nil {
		k.logger.Warn("stored keys are corrupt, ignoring", "error", err)
		return nil
	}
	return keys
}

// Add trims key, checks its length, validates it against the service and
// appends it.
func (k *Keyring) Add(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)
	if len(key) < MinKeyLength {
		return ErrKeyTooShort
	}
	if k.validator != nil {
		if err := k.validator.ValidateCredential(ctx, key); err != nil {
			return fmt.Errorf("%w: %v", ErrKeyInvalid, err)
		}
	}
	return k.save(ctx, append(k.List(ctx), key))
}

// Remove deletes the key at index.
func (k *Keyring) Remove(ctx context.Context, index int) error {
	keys := k.List(ctx)
	if index < 0 || index >= len(keys) {
		return ErrNoSuchKey
	}
	return k.save(ctx, slices.Delete(keys, index, index+1))
}

func (k *Keyring) save(ctx context.Context, keys []string) error {
	if keys == nil {
		keys = []string{}
	}
	data, err := json.Marshal(keys)
	if err != nil {
		return err
	}
	if err := k.kv.Set(ctx, store.KeyUserCredentials, data); err != nil {
		return fmt.Errorf("saving keys: %w", err)
	}
	return nil
}

// Mask hides the middle of a key for display.
func Mask(key string) string {
	if len(key) < MinKeyLength {
		return key
	}
	return key[:6] + "..." + key[len(key)-4:]
}
