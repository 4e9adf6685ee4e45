// Package authorizer adapts API Gateway request authorizer events.
package authorizer

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"

	"github.com/custodia-labs/qbusiness-connectors/internal/core/domain"
	"github.com/custodia-labs/qbusiness-connectors/internal/core/ports/driving"
)

// ErrUnauthorized is returned for events that cannot be evaluated. API
// Gateway answers 401 when an authorizer fails with exactly this message.
var ErrUnauthorized = errors.New("Unauthorized")

const policyVersion = "2012-10-17"

// Handler evaluates request authorizer events.
type Handler struct {
	svc    driving.AuthorizerService
	logger *slog.Logger
}

// NewHandler creates a Handler.
func NewHandler(svc driving.AuthorizerService, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{svc: svc, logger: logger.With("adapter", "authorizer")}
}

// Handle is the Lambda entry point.
func (h *Handler) Handle(ctx context.Context, event events.APIGatewayCustomAuthorizerRequestTypeRequest) (events.APIGatewayCustomAuthorizerResponse, error) {
	headers := event.Headers
	if len(headers) == 0 && len(event.MultiValueHeaders) > 0 {
		headers = make(map[string]string, len(event.MultiValueHeaders))
		for k, vs := range event.MultiValueHeaders {
			if len(vs) > 0 {
				headers[k] = vs[0]
			}
		}
	}

	decision, err := h.svc.Authorize(ctx, domain.AuthorizerRequest{
		MethodARN: event.MethodArn,
		Headers:   headers,
	})
	if err != nil {
		h.logger.Warn("authorizer event rejected", "method_arn", event.MethodArn, "error", err)
		return events.APIGatewayCustomAuthorizerResponse{}, ErrUnauthorized
	}
	return Policy(decision), nil
}

// Policy renders a decision as an IAM policy for execute-api:Invoke.
func Policy(d *domain.Decision) events.APIGatewayCustomAuthorizerResponse {
	return events.APIGatewayCustomAuthorizerResponse{
		PrincipalID: d.PrincipalID,
		PolicyDocument: events.APIGatewayCustomAuthorizerPolicy{
			Version: policyVersion,
			Statement: []events.IAMPolicyStatement{{
				Action:   []string{"execute-api:Invoke"},
				Effect:   string(d.Effect),
				Resource: []string{d.Resource},
			}},
		},
		Context: map[string]interface{}{
			"rule": d.Rule,
		},
	}
}
