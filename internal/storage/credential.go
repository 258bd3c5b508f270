// internal/storage/credential.go
package storage

import (
	"context"
	"sync"
)

// DefaultKey is the fixed name the credential is stored under.
const DefaultKey = "token"

// CredentialStore persists a single credential string across restarts.
type CredentialStore interface {
	// Get returns the stored value and whether one was present.
	Get(ctx context.Context) (string, bool, error)
	Set(ctx context.Context, value string) error
	Remove(ctx context.Context) error
}

// MemoryStore keeps the credential for the lifetime of the process only.
type MemoryStore struct {
	mu    sync.RWMutex
	value string
	ok    bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Get(_ context.Context) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.value, m.ok, nil
}

func (m *MemoryStore) Set(_ context.Context, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.value, m.ok = value, true
	return nil
}

func (m *MemoryStore) Remove(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.value, m.ok = "", false
	return nil
}
