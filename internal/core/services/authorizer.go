package services

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"strings"

	"github.com/custodia-labs/qbusiness-connectors/internal/core/domain"
	"github.com/custodia-labs/qbusiness-connectors/internal/core/ports/driven"
	"github.com/custodia-labs/qbusiness-connectors/internal/core/ports/driving"
)

// Ensure authorizerService implements AuthorizerService
var _ driving.AuthorizerService = (*authorizerService)(nil)

// AuthorizerServiceConfig holds the authorizer rules.
type AuthorizerServiceConfig struct {
	// HeaderName is the header carrying the shared credential.
	HeaderName string

	// HeaderValue is the expected header value, compared in constant time.
	HeaderValue string

	// HeaderValueHash is a bcrypt hash of the expected value. Takes
	// precedence over HeaderValue.
	HeaderValueHash string

	// BearerTokens enables verification of Authorization: Bearer tokens.
	BearerTokens bool

	Verifier driven.CredentialVerifier
	Logger   *slog.Logger
}

// authorizerService implements the AuthorizerService interface
type authorizerService struct {
	cfg    AuthorizerServiceConfig
	logger *slog.Logger
}

// NewAuthorizerService creates a new AuthorizerService
func NewAuthorizerService(cfg AuthorizerServiceConfig) driving.AuthorizerService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &authorizerService{cfg: cfg, logger: logger.With("component", "authorizer")}
}

// Authorize evaluates the rules in order: open resources, the shared header,
// bearer tokens, then deny.
func (s *authorizerService) Authorize(ctx context.Context, req domain.AuthorizerRequest) (*domain.Decision, error) {
	arn, err := domain.ParseMethodARN(req.MethodARN)
	if err != nil {
		return nil, err
	}
	decide := func(effect domain.Effect, rule string) *domain.Decision {
		s.logger.Info("authorization decision",
			"effect", effect,
			"rule", rule,
			"resource", arn.Resource,
			"method", arn.Method)
		return &domain.Decision{PrincipalID: domain.PrincipalID, Effect: effect, Resource: arn.Raw, Rule: rule}
	}

	if domain.IsOpenResource(arn.Resource) {
		return decide(domain.EffectAllow, domain.RuleOpenResource), nil
	}
	if s.headerMatches(req) {
		return decide(domain.EffectAllow, domain.RuleHeader), nil
	}
	if s.bearerValid(req) {
		return decide(domain.EffectAllow, domain.RuleBearerToken), nil
	}
	return decide(domain.EffectDeny, domain.RuleDefaultDeny), nil
}

func (s *authorizerService) headerMatches(req domain.AuthorizerRequest) bool {
	if s.cfg.HeaderName == "" {
		return false
	}
	got, ok := req.Header(s.cfg.HeaderName)
	if !ok {
		return false
	}
	if s.cfg.HeaderValueHash != "" && s.cfg.Verifier != nil {
		return s.cfg.Verifier.VerifySecret(got, s.cfg.HeaderValueHash)
	}
	if s.cfg.HeaderValue == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(s.cfg.HeaderValue)) == 1
}

func (s *authorizerService) bearerValid(req domain.AuthorizerRequest) bool {
	if !s.cfg.BearerTokens || s.cfg.Verifier == nil {
		return false
	}
	header, ok := req.Header("Authorization")
	if !ok {
		return false
	}
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return false
	}
	claims, err := s.cfg.Verifier.ParseToken(strings.TrimSpace(token))
	if err != nil {
		s.logger.Debug("bearer token rejected", "error", err)
		return false
	}
	s.logger.Debug("bearer token accepted", "subject", claims.Subject)
	return true
}
