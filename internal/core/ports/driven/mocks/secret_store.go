package mocks

import (
	"context"
	"strings"
	"sync"

	"github.com/custodia-labs/qbusiness-connectors/internal/core/domain"
	"github.com/custodia-labs/qbusiness-connectors/internal/core/ports/driven"
)

// Ensure MockSecretStore implements SecretStore
var _ driven.SecretStore = (*MockSecretStore)(nil)

// MockSecretStore is an in-memory SecretStore for testing.
// ARNs are derived from names.
type MockSecretStore struct {
	mu      sync.RWMutex
	secrets map[string]*domain.Secret

	// PutErr, when set, is returned by Put.
	PutErr error
	// DescribeErr, when set, is returned by Describe.
	DescribeErr error
}

// NewMockSecretStore creates a new MockSecretStore
func NewMockSecretStore() *MockSecretStore {
	return &MockSecretStore{secrets: make(map[string]*domain.Secret)}
}

func mockARN(name string) string {
	return "arn:aws:secretsmanager:us-east-1:123456789012:secret:" + name
}

func (m *MockSecretStore) Put(ctx context.Context, secret *domain.Secret) (*domain.SecretRef, error) {
	if m.PutErr != nil {
		return nil, m.PutErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.secrets[secret.Name] = &domain.Secret{
		Name:        secret.Name,
		Description: secret.Description,
		Fields:      domain.MergeFields(nil, secret.Fields),
	}
	return &domain.SecretRef{Name: secret.Name, ARN: mockARN(secret.Name)}, nil
}

func (m *MockSecretStore) Get(ctx context.Context, name string, required ...string) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.secrets[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if err := domain.RequireFields(s.Fields, required...); err != nil {
		return nil, err
	}
	return domain.MergeFields(nil, s.Fields), nil
}

func (m *MockSecretStore) Update(ctx context.Context, name string, fields map[string]string) (*domain.SecretRef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.secrets[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	s.Fields = domain.MergeFields(nil, fields)
	return &domain.SecretRef{Name: name, ARN: mockARN(name)}, nil
}

func (m *MockSecretStore) Describe(ctx context.Context, name string) (*domain.SecretRef, error) {
	if m.DescribeErr != nil {
		return nil, m.DescribeErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.secrets[name]; !ok {
		return nil, domain.ErrNotFound
	}
	return &domain.SecretRef{Name: name, ARN: mockARN(name)}, nil
}

func (m *MockSecretStore) List(ctx context.Context, filter string) ([]domain.SecretRef, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var refs []domain.SecretRef
	for name := range m.secrets {
		if strings.Contains(name, filter) {
			refs = append(refs, domain.SecretRef{Name: name, ARN: mockARN(name)})
		}
	}
	return refs, nil
}

// Helper methods for testing

// Fields returns the stored fields of a secret, nil when absent.
func (m *MockSecretStore) Fields(name string) map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.secrets[name]; ok {
		return s.Fields
	}
	return nil
}

// Secret returns a stored secret, nil when absent.
func (m *MockSecretStore) Secret(name string) *domain.Secret {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.secrets[name]
}

func (m *MockSecretStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.secrets)
}
