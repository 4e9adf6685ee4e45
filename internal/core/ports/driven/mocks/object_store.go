package mocks

import (
	"context"
	"sync"

	"github.com/custodia-labs/qbusiness-connectors/internal/core/domain"
	"github.com/custodia-labs/qbusiness-connectors/internal/core/ports/driven"
)

// Ensure MockObjectStore implements ObjectStore
var _ driven.ObjectStore = (*MockObjectStore)(nil)

// MockObjectStore is an in-memory ObjectStore keyed by bucket/key.
type MockObjectStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
	PutErr  error
}

func NewMockObjectStore() *MockObjectStore {
	return &MockObjectStore{objects: make(map[string][]byte)}
}

func (m *MockObjectStore) Put(ctx context.Context, bucket, key string, body []byte, contentType string) error {
	if m.PutErr != nil {
		return m.PutErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[bucket+"/"+key] = append([]byte(nil), body...)
	return nil
}

func (m *MockObjectStore) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	body, ok := m.objects[bucket+"/"+key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return body, nil
}

// Object returns a stored object, nil when absent.
func (m *MockObjectStore) Object(bucket, key string) []byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.objects[bucket+"/"+key]
}
