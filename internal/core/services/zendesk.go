package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/qbusiness-connectors/internal/core/domain"
	"github.com/custodia-labs/qbusiness-connectors/internal/core/ports/driven"
	"github.com/custodia-labs/qbusiness-connectors/internal/core/ports/driving"
)

// Ensure zendeskService implements ZendeskService
var _ driving.ZendeskService = (*zendeskService)(nil)

// zendeskLegacySecretFilter matches token secrets written before secrets
// were keyed by client id.
const zendeskLegacySecretFilter = "zendesk-oauth-token"

// ZendeskServiceConfig holds dependencies for the Zendesk service.
type ZendeskServiceConfig struct {
	Runtime   Runtime
	Secrets   driven.SecretStore
	QBusiness driven.QBusiness
	Zendesk   driven.ZendeskClient
	States    *StateManager
}

// zendeskService implements the ZendeskService interface
type zendeskService struct {
	rt        Runtime
	secrets   driven.SecretStore
	qbusiness driven.QBusiness
	zendesk   driven.ZendeskClient
	states    *StateManager
	logger    *slog.Logger
}

// NewZendeskService creates a new ZendeskService
func NewZendeskService(cfg ZendeskServiceConfig) driving.ZendeskService {
	rt := cfg.Runtime.withDefaults()
	return &zendeskService{
		rt:        rt,
		secrets:   cfg.Secrets,
		qbusiness: cfg.QBusiness,
		zendesk:   cfg.Zendesk,
		states:    cfg.States,
		logger:    rt.Logger.With("connector", "zendesk"),
	}
}

func (s *zendeskService) redirectURI() string {
	return domain.ZendeskRedirectURI(s.rt.APIGatewayURL)
}

// CreateOAuthApp registers a confidential OAuth client redirecting to the
// callback route.
func (s *zendeskService) CreateOAuthApp(ctx context.Context, req driving.ZendeskOAuthAppRequest) (*driving.ZendeskOAuthAppResponse, error) {
	if err := requireParams(map[string]string{
		"zendeskSubdomain": req.ZendeskSubdomain,
		"adminEmail":       req.AdminEmail,
		"apiToken":         req.APIToken,
		"appName":          req.AppName,
	}); err != nil {
		return nil, err
	}

	redirect := s.redirectURI()
	created, err := s.zendesk.CreateOAuthClient(ctx, domain.ZendeskAdmin{
		Subdomain: req.ZendeskSubdomain,
		Email:     req.AdminEmail,
		APIToken:  req.APIToken,
	}, domain.ZendeskOAuthClient{
		Name:        req.AppName,
		Identifier:  domain.ZendeskClientIDPrefix + strconv.FormatInt(s.rt.Now().Unix(), 10),
		RedirectURI: []string{redirect},
		Description: domain.ZendeskOAuthDescription,
		Scopes:      strings.Fields(domain.ZendeskScope),
		Kind:        "confidential",
	})
	if err != nil {
		return nil, upstream("Zendesk API Error", err)
	}
	s.logger.Info("oauth client created", "subdomain", req.ZendeskSubdomain, "client_id", created.Identifier)

	return &driving.ZendeskOAuthAppResponse{
		AppName:          req.AppName,
		ClientID:         created.Identifier,
		ClientSecret:     created.Secret,
		RedirectURI:      redirect,
		ZendeskSubdomain: req.ZendeskSubdomain,
	}, nil
}

// InitiateOAuthFlow stores the client credentials under a fresh state and
// returns the consent URL carrying it.
func (s *zendeskService) InitiateOAuthFlow(ctx context.Context, req driving.InitiateOAuthRequest) (*driving.InitiateOAuthResponse, error) {
	if err := requireParams(map[string]string{
		"clientId":         req.ClientID,
		"clientSecret":     req.ClientSecret,
		"zendeskSubdomain": req.ZendeskSubdomain,
	}); err != nil {
		e := domain.AsError(err)
		e.Message = "Please provide clientId, clientSecret, and zendeskSubdomain"
		return nil, e
	}

	state, expires, err := s.states.Create(ctx, domain.ZendeskOAuthState{
		ClientID:         req.ClientID,
		ClientSecret:     req.ClientSecret,
		ZendeskSubdomain: req.ZendeskSubdomain,
	}, 0)
	if err != nil {
		return nil, domain.InternalError(err)
	}
	s.logger.Info("oauth flow started", "subdomain", req.ZendeskSubdomain, "expires_at", expires)

	return &driving.InitiateOAuthResponse{
		AuthorizationURL: s.zendesk.AuthorizationURL(req.ZendeskSubdomain, req.ClientID, s.redirectURI(), state),
		Message:          "Please visit this URL to authorize Amazon Q Business to access your Zendesk data",
		Instructions:     "After authorization, you will be redirected back to Amazon Q Business to complete the setup process.",
		ExpiresAt:        expires.UTC().Format(time.RFC3339),
	}, nil
}

// OAuthCallback checks the redirect from Zendesk. The state stays valid so
// the exchange endpoint can consume it.
func (s *zendeskService) OAuthCallback(ctx context.Context, req driving.OAuthCallbackRequest) (*driving.OAuthCallbackResult, error) {
	if req.Error != "" {
		msg := req.ErrorDescription
		if msg == "" {
			msg = "OAuth authorization failed"
		}
		return nil, domain.ClientError(req.Error, msg)
	}
	if req.Code == "" || req.State == "" {
		return nil, domain.ClientError("Bad Request", "Missing required parameters: code, state")
	}

	if err := s.states.Check(ctx, req.State); err != nil {
		if errors.Is(err, domain.ErrInvalidState) {
			return nil, domain.ClientError("Invalid State", "The state parameter is invalid or expired")
		}
		return nil, domain.InternalError(err)
	}

	return &driving.OAuthCallbackResult{
		Code:        req.Code,
		State:       req.State,
		ExchangeURL: s.rt.APIGatewayURL + domain.ZendeskExchangeRoute,
	}, nil
}

// ExchangeAuthCode consumes the state, exchanges the code and stores the
// access token for the data source.
func (s *zendeskService) ExchangeAuthCode(ctx context.Context, req driving.ExchangeAuthCodeRequest) (*driving.ExchangeAuthCodeResponse, error) {
	if err := requireParams(map[string]string{"code": req.Code, "state": req.State}); err != nil {
		e := domain.AsError(err)
		e.Message = "Please provide code and state"
		return nil, e
	}

	var flow domain.ZendeskOAuthState
	if err := s.states.Consume(ctx, req.State, &flow); err != nil {
		var de *domain.Error
		if errors.As(err, &de) {
			return nil, err
		}
		return nil, domain.InternalError(err)
	}

	token, err := s.zendesk.ExchangeCode(ctx, flow, req.Code, s.redirectURI())
	if err != nil {
		return nil, upstream("Zendesk API Error", err)
	}

	secretName := domain.ZendeskSecretName(flow.ZendeskSubdomain, flow.ClientID)
	if _, err := s.secrets.Put(ctx, &domain.Secret{
		Name:        secretName,
		Description: "Zendesk OAuth token for " + flow.ZendeskSubdomain,
		Fields: map[string]string{
			"accessToken": token.AccessToken,
			"hostUrl":     domain.ZendeskHostURL(flow.ZendeskSubdomain),
		},
	}); err != nil {
		return nil, domain.InternalError(fmt.Errorf("store token: %w", err))
	}
	s.logger.Info("access token stored", "subdomain", flow.ZendeskSubdomain, "secret", secretName)

	var expiry *int64
	if token.ExpiresAt > 0 {
		expiry = &token.ExpiresAt
	}
	return &driving.ExchangeAuthCodeResponse{
		Message:          "Successfully exchanged authorization code for access token",
		ZendeskSubdomain: flow.ZendeskSubdomain,
		SecretName:       secretName,
		TokenExpiry:      expiry,
		Instructions:     "The access token has been securely stored in AWS Secrets Manager. You can now create a Zendesk data source in Amazon Q Business.",
	}, nil
}

// CreateDataSource creates a ZENDESK data source reading the token stored by
// ExchangeAuthCode.
func (s *zendeskService) CreateDataSource(ctx context.Context, req driving.ZendeskDataSourceRequest) (*driving.DataSourceCreatedResponse, error) {
	appID, indexID, subdomain := req.App(), req.Index(), req.ZendeskSubdomain
	if err := requireParams(map[string]string{
		"qbusinessApplicationId": appID,
		"qindexId":               indexID,
		"zendeskSubdomain":       subdomain,
	}); err != nil {
		e := domain.AsError(err)
		e.Message = "Missing required parameters: qbusinessApplicationId, qindexId, zendeskSubdomain"
		return nil, e
	}
	content, err := domain.ParseZendeskContent(req.DataSourceType)
	if err != nil {
		return nil, domain.ClientError("Bad Request", err.Error())
	}
	name := req.DataSourceName
	if name == "" {
		name = "Zendesk-" + subdomain
	}

	arn, err := s.findTokenSecret(ctx, subdomain, req.ClientID)
	if err != nil {
		return nil, err
	}
	if err := requireRole("DATA_SOURCE_ROLE_ARN", s.rt.DataSourceRoleARN); err != nil {
		return nil, err
	}

	ds, err := s.qbusiness.CreateDataSource(ctx, domain.CreateDataSourceInput{
		ApplicationID: appID,
		IndexID:       indexID,
		DisplayName:   name,
		Description:   "Zendesk data source for " + subdomain,
		RoleARN:       s.rt.DataSourceRoleARN,
		Configuration: domain.BuildZendeskConfig(subdomain, arn, content),
	})
	if err != nil {
		return nil, upstream("Data Source Creation Failed", err)
	}
	s.logger.Info("data source created", "subdomain", subdomain, "application", appID, "data_source", ds.ID)

	return &driving.DataSourceCreatedResponse{
		Message: fmt.Sprintf("Successfully created Zendesk data source '%s' for subdomain '%s'. The data source is now being created with ID: %s.",
			name, subdomain, ds.ID),
		DataSourceID:   ds.ID,
		DataSourceARN:  ds.ARN,
		ApplicationID:  appID,
		IndexID:        indexID,
		DataSourceName: name,
		Status:         "CREATING",
		Instructions:   "The next step is to initiate the first synchronization of your Zendesk data with Amazon Q Business. This will import your Zendesk content into the Q index.",
	}, nil
}

// findTokenSecret resolves the token secret of a subdomain: first by its
// exact name, then among legacy secrets naming the subdomain.
func (s *zendeskService) findTokenSecret(ctx context.Context, subdomain, clientID string) (string, error) {
	if clientID != "" {
		name := domain.ZendeskSecretName(subdomain, clientID)
		ref, err := s.secrets.Describe(ctx, name)
		switch {
		case err == nil:
			return ref.ARN, nil
		case !errors.Is(err, domain.ErrNotFound):
			return "", upstream("Secret Lookup Failed", err)
		}
		s.logger.Debug("token secret not found, searching legacy secrets", "secret", name)
	}

	refs, err := s.secrets.List(ctx, zendeskLegacySecretFilter)
	if err != nil {
		return "", upstream("Secret Lookup Failed", err)
	}
	for _, ref := range refs {
		if strings.Contains(ref.Name, subdomain) {
			return ref.ARN, nil
		}
	}
	return "", domain.ClientError("Bad Request",
		"No OAuth token found for the provided Zendesk subdomain. Please complete the OAuth flow first.")
}
