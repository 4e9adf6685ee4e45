package amazon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"

	"github.com/custodia-labs/qbusiness-connectors/internal/core/domain"
	"github.com/custodia-labs/qbusiness-connectors/internal/core/ports/driven"
)

// Ensure SecretStore implements driven.SecretStore
var _ driven.SecretStore = (*SecretStore)(nil)

// SecretsManagerAPI is the subset of the Secrets Manager client used here.
type SecretsManagerAPI interface {
	CreateSecret(ctx context.Context, in *secretsmanager.CreateSecretInput, opts ...func(*secretsmanager.Options)) (*secretsmanager.CreateSecretOutput, error)
	UpdateSecret(ctx context.Context, in *secretsmanager.UpdateSecretInput, opts ...func(*secretsmanager.Options)) (*secretsmanager.UpdateSecretOutput, error)
	GetSecretValue(ctx context.Context, in *secretsmanager.GetSecretValueInput, opts ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
	DescribeSecret(ctx context.Context, in *secretsmanager.DescribeSecretInput, opts ...func(*secretsmanager.Options)) (*secretsmanager.DescribeSecretOutput, error)
	ListSecrets(ctx context.Context, in *secretsmanager.ListSecretsInput, opts ...func(*secretsmanager.Options)) (*secretsmanager.ListSecretsOutput, error)
}

// SecretStore implements driven.SecretStore with AWS Secrets Manager.
// Secret values are JSON objects of string fields.
type SecretStore struct {
	client SecretsManagerAPI
	logger *slog.Logger
}

// NewSecretStore creates a SecretStore.
func NewSecretStore(client SecretsManagerAPI, logger *slog.Logger) *SecretStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &SecretStore{client: client, logger: logger.With("adapter", "secretsmanager")}
}

// NewSecretStoreFromConfig creates a SecretStore from an AWS config.
func NewSecretStoreFromConfig(cfg aws.Config, logger *slog.Logger) *SecretStore {
	return NewSecretStore(secretsmanager.NewFromConfig(cfg), logger)
}

// Put creates the secret, or replaces its value when the name is taken.
func (s *SecretStore) Put(ctx context.Context, secret *domain.Secret) (*domain.SecretRef, error) {
	value, err := encodeFields(secret.Fields)
	if err != nil {
		return nil, err
	}

	in := &secretsmanager.CreateSecretInput{
		Name:         aws.String(secret.Name),
		SecretString: aws.String(value),
	}
	if secret.Description != "" {
		in.Description = aws.String(secret.Description)
	}

	out, err := s.client.CreateSecret(ctx, in)
	if err == nil {
		s.logger.Info("secret created", "name", secret.Name)
		return &domain.SecretRef{Name: aws.ToString(out.Name), ARN: aws.ToString(out.ARN)}, nil
	}

	var exists *types.ResourceExistsException
	if !errors.As(err, &exists) {
		return nil, classify("CreateSecret", err)
	}

	s.logger.Info("secret exists, updating value", "name", secret.Name)
	upd := &secretsmanager.UpdateSecretInput{
		SecretId:     aws.String(secret.Name),
		SecretString: aws.String(value),
	}
	if secret.Description != "" {
		upd.Description = aws.String(secret.Description)
	}
	updated, err := s.client.UpdateSecret(ctx, upd)
	if err != nil {
		return nil, classify("UpdateSecret", err)
	}
	return &domain.SecretRef{Name: aws.ToString(updated.Name), ARN: aws.ToString(updated.ARN)}, nil
}

// Get returns the fields of a secret and checks the required ones.
func (s *SecretStore) Get(ctx context.Context, name string, required ...string) (map[string]string, error) {
	out, err := s.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{SecretId: aws.String(name)})
	if err != nil {
		return nil, classify("GetSecretValue", err)
	}

	fields, err := decodeFields(aws.ToString(out.SecretString))
	if err != nil {
		return nil, fmt.Errorf("secret %s: %w", name, err)
	}
	if err := domain.RequireFields(fields, required...); err != nil {
		return nil, err
	}
	return fields, nil
}

// Update replaces the value of an existing secret.
func (s *SecretStore) Update(ctx context.Context, name string, fields map[string]string) (*domain.SecretRef, error) {
	value, err := encodeFields(fields)
	if err != nil {
		return nil, err
	}
	out, err := s.client.UpdateSecret(ctx, &secretsmanager.UpdateSecretInput{
		SecretId:     aws.String(name),
		SecretString: aws.String(value),
	})
	if err != nil {
		return nil, classify("UpdateSecret", err)
	}
	s.logger.Info("secret updated", "name", name)
	return &domain.SecretRef{Name: aws.ToString(out.Name), ARN: aws.ToString(out.ARN)}, nil
}

// Describe returns the name and ARN of a secret.
func (s *SecretStore) Describe(ctx context.Context, name string) (*domain.SecretRef, error) {
	out, err := s.client.DescribeSecret(ctx, &secretsmanager.DescribeSecretInput{SecretId: aws.String(name)})
	if err != nil {
		return nil, classify("DescribeSecret", err)
	}
	return &domain.SecretRef{Name: aws.ToString(out.Name), ARN: aws.ToString(out.ARN)}, nil
}

// List returns the secrets whose name contains filter.
func (s *SecretStore) List(ctx context.Context, filter string) ([]domain.SecretRef, error) {
	in := &secretsmanager.ListSecretsInput{}
	if filter != "" {
		in.Filters = []types.Filter{{Key: types.FilterNameStringTypeName, Values: []string{filter}}}
	}

	var refs []domain.SecretRef
	p := secretsmanager.NewListSecretsPaginator(s.client, in)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, classify("ListSecrets", err)
		}
		for _, e := range page.SecretList {
			refs = append(refs, domain.SecretRef{Name: aws.ToString(e.Name), ARN: aws.ToString(e.ARN)})
		}
	}
	return refs, nil
}

func encodeFields(fields map[string]string) (string, error) {
	raw, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("failed to encode secret value: %w", err)
	}
	return string(raw), nil
}

// decodeFields reads a JSON object, rendering non-string values as JSON text.
func decodeFields(value string) (map[string]string, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(value), &raw); err != nil {
		return nil, fmt.Errorf("secret value is not a JSON object: %w", err)
	}
	fields := make(map[string]string, len(raw))
	for k, v := range raw {
		var str string
		if err := json.Unmarshal(v, &str); err == nil {
			fields[k] = str
			continue
		}
		if string(v) != "null" {
			fields[k] = string(v)
		}
	}
	return fields, nil
}
