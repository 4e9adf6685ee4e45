package amazon

import (
	"context"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/custodia-labs/qbusiness-connectors/internal/core/ports/driven"
)

// Ensure AccountResolver implements driven.AccountResolver
var _ driven.AccountResolver = (*AccountResolver)(nil)

// STSAPI is the subset of the STS client used here.
type STSAPI interface {
	GetCallerIdentity(ctx context.Context, in *sts.GetCallerIdentityInput, opts ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// AccountResolver resolves the account id once per process.
type AccountResolver struct {
	client STSAPI

	mu      sync.Mutex
	account string
}

// NewAccountResolver creates an AccountResolver.
func NewAccountResolver(client STSAPI) *AccountResolver {
	return &AccountResolver{client: client}
}

// NewAccountResolverFromConfig creates an AccountResolver from an AWS config.
func NewAccountResolverFromConfig(cfg aws.Config) *AccountResolver {
	return NewAccountResolver(sts.NewFromConfig(cfg))
}

// AccountID returns the account of the calling credentials.
func (r *AccountResolver) AccountID(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.account != "" {
		return r.account, nil
	}

	out, err := r.client.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", classify("GetCallerIdentity", err)
	}
	r.account = aws.ToString(out.Account)
	return r.account, nil
}
