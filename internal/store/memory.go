package store

import (
	"context"
	"sync"
)

// Memory is an in-process KV. It is the backend used by tests and by the
// "memory" configuration.
type Memory struct {
	mu    sync.Mutex
	data  map[string][]byte
	quota int64

	// FailWrites makes every Set and Remove fail with the given error.
	FailWrites error
	// FailReads makes every Get fail with the given error.
	FailReads error
	// FailKeys makes Set and Remove fail for the listed keys only.
	FailKeys map[string]error
}

// NewMemory creates an empty store. A positive quota caps the sum of value sizes.
func NewMemory(quota int64) *Memory {
	return &Memory{data: make(map[string][]byte), quota: quota}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailReads != nil {
		return nil, false, m.FailReads
	}
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.writeErr(key); err != nil {
		return err
	}
	if m.quota > 0 {
		var used int64
		for k, v := range m.data {
			if k != key {
				used += int64(len(v))
			}
		}
		if used+int64(len(value)) > m.quota {
			return ErrCapacityExceeded
		}
	}
	v := make([]byte, len(value))
	copy(v, value)
	m.data[key] = v
	return nil
}

func (m *Memory) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.writeErr(key); err != nil {
		return err
	}
	delete(m.data, key)
	return nil
}

func (m *Memory) writeErr(key string) error {
	if m.FailWrites != nil {
		return m.FailWrites
	}
	return m.FailKeys[key]
}

// Close is a no-op.
func (m *Memory) Close() error { return nil }

// Keys returns the number of stored keys.
func (m *Memory) Keys() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}
