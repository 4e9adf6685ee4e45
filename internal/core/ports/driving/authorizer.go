package driving

import (
	"context"

	"github.com/custodia-labs/qbusiness-connectors/internal/core/domain"
)

// AuthorizerService evaluates API Gateway request authorization.
type AuthorizerService interface {
	// Authorize evaluates the rules in order. A malformed method ARN yields
	// an error; every other request yields an Allow or Deny decision.
	Authorize(ctx context.Context, req domain.AuthorizerRequest) (*domain.Decision, error)
}
