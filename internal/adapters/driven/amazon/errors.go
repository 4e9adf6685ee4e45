package amazon

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/smithy-go"

	"github.com/custodia-labs/qbusiness-connectors/internal/core/domain"
)

// APIError is a failed AWS call classified onto a domain sentinel.
type APIError struct {
	Operation string
	Code      string
	Message   string

	kind error
	err  error
}

// Error renders the failure the way the AWS CLI does.
func (e *APIError) Error() string {
	return fmt.Sprintf("An error occurred (%s) when calling the %s operation: %s", e.Code, e.Operation, e.Message)
}

// Unwrap exposes both the domain sentinel and the SDK error.
func (e *APIError) Unwrap() []error {
	return []error{e.kind, e.err}
}

// classify maps an SDK error onto the domain error sentinels.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}

	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%s: %w: %w", op, domain.ErrTimeout, err)
		}
		return fmt.Errorf("%s: %w: %w", op, domain.ErrUpstream, err)
	}

	var opErr *smithy.OperationError
	if errors.As(err, &opErr) {
		op = opErr.Operation()
	}

	return &APIError{
		Operation: op,
		Code:      apiErr.ErrorCode(),
		Message:   apiErr.ErrorMessage(),
		kind:      kindOf(apiErr.ErrorCode()),
		err:       err,
	}
}

func kindOf(code string) error {
	switch code {
	case "ResourceNotFoundException", "NoSuchKey", "NoSuchBucket", "NotFound":
		return domain.ErrNotFound
	case "ResourceExistsException":
		return domain.ErrAlreadyExists
	case "ConflictException", "ConditionalCheckFailedException":
		return domain.ErrConflict
	case "ValidationException", "InvalidParameterException", "InvalidRequestException":
		return domain.ErrInvalidInput
	case "ExpiredTokenException", "UnrecognizedClientException", "InvalidClientTokenId":
		return domain.ErrMisconfigured
	}
	return domain.ErrUpstream
}
