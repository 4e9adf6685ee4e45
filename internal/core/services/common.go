package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/qbusiness-connectors/internal/core/domain"
	"github.com/custodia-labs/qbusiness-connectors/internal/core/ports/driven"
)

// Runtime holds the environment shared by every service.
type Runtime struct {
	// Region is the AWS region, used to build secret ARNs when describe fails.
	Region string

	// DataSourceRoleARN is passed to CreateDataSource.
	DataSourceRoleARN string

	// PluginRoleARN is passed to CreatePlugin.
	PluginRoleARN string

	// CertificateBucket stores SharePoint certificates.
	CertificateBucket string

	// APIGatewayURL is the deployed API base URL, ending with a slash.
	APIGatewayURL string

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time

	// NewID returns a random identifier. Defaults to uuid.NewString.
	NewID func() string

	Logger *slog.Logger
}

func (r Runtime) withDefaults() Runtime {
	if r.Now == nil {
		r.Now = time.Now
	}
	if r.NewID == nil {
		r.NewID = uuid.NewString
	}
	if r.Logger == nil {
		r.Logger = slog.Default()
	}
	return r
}

// shortID returns the first eight characters of a fresh identifier.
func (r Runtime) shortID() string {
	id := r.NewID()
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// requireParams returns a client error listing every empty parameter.
func requireParams(params map[string]string) error {
	var missing []string
	for name, value := range params {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return domain.MissingFieldsError(missing)
	}
	return nil
}

// requireRole fails when a role ARN is not configured.
func requireRole(name, arn string) error {
	if arn == "" {
		return domain.InternalError(fmt.Errorf("%w: %s", domain.ErrMisconfigured, name))
	}
	return nil
}

// secretARN resolves the ARN of a secret, building it from the account id
// when the store cannot describe it.
func secretARN(ctx context.Context, rt Runtime, secrets driven.SecretStore, accounts driven.AccountResolver, name string) (string, error) {
	ref, err := secrets.Describe(ctx, name)
	if err == nil && ref.ARN != "" {
		return ref.ARN, nil
	}
	if accounts == nil {
		if err == nil {
			err = fmt.Errorf("secret %s has no ARN", name)
		}
		return "", err
	}
	rt.Logger.Warn("describe secret failed, building ARN", "secret", name, "error", err)
	account, aerr := accounts.AccountID(ctx)
	if aerr != nil {
		return "", fmt.Errorf("resolve account: %w", aerr)
	}
	return fmt.Sprintf("arn:aws:secretsmanager:%s:%s:secret:%s", rt.Region, account, name), nil
}

// upstream wraps a failed partner or AWS call unless it already carries a kind.
func upstream(title string, err error) error {
	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return domain.AuthError(title, "", err)
	case errors.Is(err, domain.ErrConflict):
		return domain.ConflictError(title, err.Error(), err)
	case errors.Is(err, domain.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return &domain.Error{Kind: domain.KindTimeout, Title: title, Message: err.Error(), Err: err}
	}
	return domain.UpstreamError(title, err)
}
