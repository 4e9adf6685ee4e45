package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/qbusiness-connectors/internal/core/ports/driven"
)

// Ensure MockOAuthStateStore implements OAuthStateStore
var _ driven.OAuthStateStore = (*MockOAuthStateStore)(nil)

// MockOAuthStateStore is an in-memory OAuthStateStore for testing.
// Expiry is evaluated against Now.
type MockOAuthStateStore struct {
	mu     sync.Mutex
	states map[string]*driven.OAuthState
	Now    func() time.Time
}

// NewMockOAuthStateStore creates a new MockOAuthStateStore
func NewMockOAuthStateStore() *MockOAuthStateStore {
	return &MockOAuthStateStore{states: make(map[string]*driven.OAuthState), Now: time.Now}
}

func (m *MockOAuthStateStore) Save(ctx context.Context, state *driven.OAuthState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *state
	m.states[state.State] = &copied
	return nil
}

func (m *MockOAuthStateStore) GetAndDelete(ctx context.Context, state string) (*driven.OAuthState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.states[state]
	if !ok {
		return nil, nil
	}
	delete(m.states, state)
	if s.Expired(m.Now()) {
		return nil, nil
	}
	return s, nil
}

func (m *MockOAuthStateStore) Cleanup(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.Now()
	for k, s := range m.states {
		if s.Expired(now) {
			delete(m.states, k)
		}
	}
	return nil
}

func (m *MockOAuthStateStore) Get(ctx context.Context, state string) (*driven.OAuthState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.states[state]
	if !ok || s.Expired(m.Now()) {
		return nil, nil
	}
	copied := *s
	return &copied, nil
}

func (m *MockOAuthStateStore) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.states)
}
