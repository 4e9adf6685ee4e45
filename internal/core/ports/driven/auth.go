package driven

import "github.com/custodia-labs/qbusiness-connectors/internal/core/domain"

// CredentialVerifier checks caller credentials presented to the authorizer.
// It holds no state beyond the configured signing key.
type CredentialVerifier interface {
	// HashSecret generates a bcrypt hash of a shared secret.
	HashSecret(secret string) (string, error)
	// VerifySecret reports whether secret matches a bcrypt hash.
	VerifySecret(secret, hash string) bool

	// IssueToken signs claims as an HS256 bearer token.
	IssueToken(claims *domain.CallerClaims) (string, error)
	// ParseToken validates a bearer token and returns its claims.
	ParseToken(token string) (*domain.CallerClaims, error)
}
