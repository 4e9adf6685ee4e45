package driven

import (
	"context"

	"github.com/custodia-labs/qbusiness-connectors/internal/core/domain"
)

// SecretStore manages named credential secrets.
// Implementations must never log secret values.
type SecretStore interface {
	// Put creates a secret. When a secret with the same name already exists
	// its value is replaced in place instead.
	Put(ctx context.Context, secret *domain.Secret) (*domain.SecretRef, error)

	// Get returns the fields of a secret. Returns domain.ErrNotFound when the
	// secret does not exist, and a client error listing the missing fields
	// when any required field is absent or empty.
	Get(ctx context.Context, name string, required ...string) (map[string]string, error)

	// Update replaces the value of an existing secret.
	Update(ctx context.Context, name string, fields map[string]string) (*domain.SecretRef, error)

	// Describe returns the name and ARN of a secret.
	// Returns domain.ErrNotFound when the secret does not exist.
	Describe(ctx context.Context, name string) (*domain.SecretRef, error)

	// List returns secrets whose name matches filter.
	List(ctx context.Context, filter string) ([]domain.SecretRef, error)
}
