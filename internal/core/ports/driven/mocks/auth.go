package mocks

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/custodia-labs/qbusiness-connectors/internal/core/domain"
	"github.com/custodia-labs/qbusiness-connectors/internal/core/ports/driven"
)

// Ensure MockCredentialVerifier implements CredentialVerifier
var _ driven.CredentialVerifier = (*MockCredentialVerifier)(nil)

// MockCredentialVerifier is a mock implementation of CredentialVerifier for testing.
// It prefixes secrets instead of hashing and uses base64-encoded JSON for tokens.
// NOT secure - only for testing.
type MockCredentialVerifier struct{}

// NewMockCredentialVerifier creates a new MockCredentialVerifier
func NewMockCredentialVerifier() *MockCredentialVerifier {
	return &MockCredentialVerifier{}
}

// HashSecret returns the secret with a marker prefix (for testing only)
func (m *MockCredentialVerifier) HashSecret(secret string) (string, error) {
	return "hashed:" + secret, nil
}

// VerifySecret compares secret with the marked hash (for testing only)
func (m *MockCredentialVerifier) VerifySecret(secret, hash string) bool {
	return "hashed:"+secret == hash
}

// IssueToken creates a base64-encoded JSON token from claims
func (m *MockCredentialVerifier) IssueToken(claims *domain.CallerClaims) (string, error) {
	data, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("failed to marshal claims: %w", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// ParseToken decodes a base64-encoded JSON token and returns claims
func (m *MockCredentialVerifier) ParseToken(token string) (*domain.CallerClaims, error) {
	data, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}

	var claims domain.CallerClaims
	if err := json.Unmarshal(data, &claims); err != nil {
		return nil, domain.ErrTokenInvalid
	}
	return &claims, nil
}
