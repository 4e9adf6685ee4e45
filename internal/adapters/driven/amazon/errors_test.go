package amazon

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/qbusiness-connectors/internal/core/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		code string
		want error
	}{
		{"ResourceNotFoundException", domain.ErrNotFound},
		{"NoSuchKey", domain.ErrNotFound},
		{"ResourceExistsException", domain.ErrAlreadyExists},
		{"ConflictException", domain.ErrConflict},
		{"ValidationException", domain.ErrInvalidInput},
		{"ExpiredTokenException", domain.ErrMisconfigured},
		{"ThrottlingException", domain.ErrUpstream},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := classify("Fallback", apiErr("StartDataSourceSyncJob", tt.code, "boom"))
			assert.ErrorIs(t, err, tt.want)

			var ae *APIError
			assert.True(t, errors.As(err, &ae))
			assert.Equal(t, "StartDataSourceSyncJob", ae.Operation)
			assert.Equal(t, "An error occurred ("+tt.code+") when calling the StartDataSourceSyncJob operation: boom", err.Error())
		})
	}
}

func TestClassify_NonAPIErrors(t *testing.T) {
	assert.NoError(t, classify("Op", nil))
	assert.ErrorIs(t, classify("Op", context.DeadlineExceeded), domain.ErrTimeout)

	err := classify("Op", errors.New("dial tcp: connection refused"))
	assert.ErrorIs(t, err, domain.ErrUpstream)
	assert.Contains(t, err.Error(), "connection refused")
}
