package services

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/qbusiness-connectors/internal/core/domain"
	"github.com/custodia-labs/qbusiness-connectors/internal/core/ports/driven/mocks"
	"github.com/custodia-labs/qbusiness-connectors/internal/core/ports/driving"
)

type zendeskFixture struct {
	secrets *mocks.MockSecretStore
	qb      *mocks.MockQBusiness
	client  *mocks.MockZendeskClient
	states  *mocks.MockOAuthStateStore
	clock   *clock
	svc     driving.ZendeskService
}

func newZendeskFixture() *zendeskFixture {
	rt := testRuntime()
	f := &zendeskFixture{
		secrets: mocks.NewMockSecretStore(),
		qb:      mocks.NewMockQBusiness(),
		client:  &mocks.MockZendeskClient{},
		states:  mocks.NewMockOAuthStateStore(),
		clock:   &clock{now: rt.Now()},
	}
	rt.Now = f.clock.Now
	f.svc = NewZendeskService(ZendeskServiceConfig{
		Runtime:   rt,
		Secrets:   f.secrets,
		QBusiness: f.qb,
		Zendesk:   f.client,
		States:    newTestStateManager(f.states, f.clock, base64Sealer{}),
	})
	return f
}

func TestZendeskService_CreateOAuthApp(t *testing.T) {
	f := newZendeskFixture()
	var gotAdmin domain.ZendeskAdmin
	var gotClient domain.ZendeskOAuthClient
	f.client.CreateOAuthClientFn = func(ctx context.Context, admin domain.ZendeskAdmin, client domain.ZendeskOAuthClient) (*domain.ZendeskOAuthClient, error) {
		gotAdmin, gotClient = admin, client
		client.Secret = "zendesk-secret"
		return &client, nil
	}

	resp, err := f.svc.CreateOAuthApp(context.Background(), driving.ZendeskOAuthAppRequest{
		ZendeskSubdomain: "acme",
		AdminEmail:       "admin@acme.com",
		APIToken:         "api-token",
		AppName:          "Amazon Q",
	})
	require.NoError(t, err)

	assert.Equal(t, "amazon-q-business-1772366400", resp.ClientID)
	assert.Equal(t, "zendesk-secret", resp.ClientSecret)
	assert.Equal(t, "https://api.example.com/prod/zendesk-oauth-callback", resp.RedirectURI)
	assert.Equal(t, "acme", resp.ZendeskSubdomain)

	assert.Equal(t, domain.ZendeskAdmin{Subdomain: "acme", Email: "admin@acme.com", APIToken: "api-token"}, gotAdmin)
	assert.Equal(t, []string{"read", "write"}, gotClient.Scopes)
	assert.Equal(t, "confidential", gotClient.Kind)
	assert.Equal(t, []string{resp.RedirectURI}, gotClient.RedirectURI)
}

func TestZendeskService_CreateOAuthApp_Rejected(t *testing.T) {
	f := newZendeskFixture()
	f.client.CreateOAuthClientFn = func(ctx context.Context, admin domain.ZendeskAdmin, client domain.ZendeskOAuthClient) (*domain.ZendeskOAuthClient, error) {
		return nil, domain.ErrUnauthorized
	}

	_, err := f.svc.CreateOAuthApp(context.Background(), driving.ZendeskOAuthAppRequest{
		ZendeskSubdomain: "acme", AdminEmail: "a@b.c", APIToken: "bad", AppName: "q",
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, domain.AsError(err).StatusCode())
}

func TestZendeskService_InitiateOAuthFlow(t *testing.T) {
	f := newZendeskFixture()

	resp, err := f.svc.InitiateOAuthFlow(context.Background(), driving.InitiateOAuthRequest{
		ClientID: "amazon-q-business-1750882988", ClientSecret: "cs", ZendeskSubdomain: "acme",
	})
	require.NoError(t, err)

	u, err := url.Parse(resp.AuthorizationURL)
	require.NoError(t, err)
	assert.Equal(t, "acme.zendesk.com", u.Host)
	assert.Equal(t, "/oauth/authorizations/new", u.Path)
	q := u.Query()
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "state-token", q.Get("state"))
	assert.Equal(t, "read write", q.Get("scope"))
	assert.Equal(t, "https://api.example.com/prod/zendesk-oauth-callback", q.Get("redirect_uri"))

	assert.Equal(t, "2026-03-01T13:00:00Z", resp.ExpiresAt)
	assert.Equal(t, 1, f.states.Count())
}

func TestZendeskService_InitiateOAuthFlow_MissingParams(t *testing.T) {
	f := newZendeskFixture()

	_, err := f.svc.InitiateOAuthFlow(context.Background(), driving.InitiateOAuthRequest{ClientID: "cid"})
	require.Error(t, err)

	de := domain.AsError(err)
	assert.Equal(t, []string{"clientSecret", "zendeskSubdomain"}, de.Missing)
	assert.Equal(t, "Please provide clientId, clientSecret, and zendeskSubdomain", de.Message)
	assert.Equal(t, 0, f.states.Count())
}

func TestZendeskService_OAuthCallback(t *testing.T) {
	f := newZendeskFixture()
	ctx := context.Background()
	_, err := f.svc.InitiateOAuthFlow(ctx, driving.InitiateOAuthRequest{ClientID: "cid", ClientSecret: "cs", ZendeskSubdomain: "acme"})
	require.NoError(t, err)

	res, err := f.svc.OAuthCallback(ctx, driving.OAuthCallbackRequest{Code: "auth-code", State: "state-token"})
	require.NoError(t, err)

	assert.Equal(t, "auth-code", res.Code)
	assert.Equal(t, "state-token", res.State)
	assert.Equal(t, "https://api.example.com/prod/zendesk-exchange-auth-code-for-token", res.ExchangeURL)
	assert.Equal(t, 1, f.states.Count(), "callback must not consume the state")
}

func TestZendeskService_OAuthCallback_Errors(t *testing.T) {
	tests := []struct {
		name  string
		req   driving.OAuthCallbackRequest
		title string
		msg   string
	}{
		{
			name:  "provider error",
			req:   driving.OAuthCallbackRequest{Error: "access_denied", ErrorDescription: "The end-user denied access"},
			title: "access_denied",
			msg:   "The end-user denied access",
		},
		{
			name:  "provider error without description",
			req:   driving.OAuthCallbackRequest{Error: "access_denied"},
			title: "access_denied",
			msg:   "OAuth authorization failed",
		},
		{
			name:  "missing code",
			req:   driving.OAuthCallbackRequest{State: "state-token"},
			title: "Bad Request",
			msg:   "Missing required parameters: code, state",
		},
		{
			name:  "unknown state",
			req:   driving.OAuthCallbackRequest{Code: "c", State: "forged"},
			title: "Invalid State",
			msg:   "The state parameter is invalid or expired",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newZendeskFixture()
			_, err := f.svc.OAuthCallback(context.Background(), tt.req)
			require.Error(t, err)

			de := domain.AsError(err)
			assert.Equal(t, http.StatusBadRequest, de.StatusCode())
			assert.Equal(t, tt.title, de.Title)
			assert.Equal(t, tt.msg, de.Message)
		})
	}
}

func TestZendeskService_ExchangeAuthCode(t *testing.T) {
	f := newZendeskFixture()
	ctx := context.Background()
	_, err := f.svc.InitiateOAuthFlow(ctx, driving.InitiateOAuthRequest{
		ClientID: "amazon-q-business-1750882988", ClientSecret: "cs", ZendeskSubdomain: "acme",
	})
	require.NoError(t, err)

	var gotState domain.ZendeskOAuthState
	var gotCode, gotRedirect string
	f.client.ExchangeCodeFn = func(ctx context.Context, state domain.ZendeskOAuthState, code, redirectURI string) (*domain.ZendeskToken, error) {
		gotState, gotCode, gotRedirect = state, code, redirectURI
		return &domain.ZendeskToken{AccessToken: "zd-access-token", TokenType: "bearer", ExpiresAt: 1772452800}, nil
	}

	resp, err := f.svc.ExchangeAuthCode(ctx, driving.ExchangeAuthCodeRequest{Code: "auth-code", State: "state-token"})
	require.NoError(t, err)

	assert.Equal(t, domain.ZendeskOAuthState{ClientID: "amazon-q-business-1750882988", ClientSecret: "cs", ZendeskSubdomain: "acme"}, gotState)
	assert.Equal(t, "auth-code", gotCode)
	assert.Equal(t, "https://api.example.com/prod/zendesk-oauth-callback", gotRedirect)

	assert.Equal(t, "qbusiness-zendesk-secret-acme-1750882988", resp.SecretName)
	require.NotNil(t, resp.TokenExpiry)
	assert.Equal(t, int64(1772452800), *resp.TokenExpiry)
	assert.Equal(t, map[string]string{
		"accessToken": "zd-access-token",
		"hostUrl":     "https://acme.zendesk.com/",
	}, f.secrets.Fields(resp.SecretName))
	assert.Equal(t, 0, f.states.Count())
}

func TestZendeskService_ExchangeAuthCode_StateIsSingleUse(t *testing.T) {
	f := newZendeskFixture()
	ctx := context.Background()
	_, err := f.svc.InitiateOAuthFlow(ctx, driving.InitiateOAuthRequest{ClientID: "cid", ClientSecret: "cs", ZendeskSubdomain: "acme"})
	require.NoError(t, err)

	_, err = f.svc.ExchangeAuthCode(ctx, driving.ExchangeAuthCodeRequest{Code: "c", State: "state-token"})
	require.NoError(t, err)

	_, err = f.svc.ExchangeAuthCode(ctx, driving.ExchangeAuthCodeRequest{Code: "c", State: "state-token"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Equal(t, http.StatusBadRequest, domain.AsError(err).StatusCode())
}

func TestZendeskService_ExchangeAuthCode_ExpiredState(t *testing.T) {
	f := newZendeskFixture()
	ctx := context.Background()
	_, err := f.svc.InitiateOAuthFlow(ctx, driving.InitiateOAuthRequest{ClientID: "cid", ClientSecret: "cs", ZendeskSubdomain: "acme"})
	require.NoError(t, err)

	f.clock.now = f.clock.now.Add(2 * time.Hour)

	_, err = f.svc.ExchangeAuthCode(ctx, driving.ExchangeAuthCodeRequest{Code: "c", State: "state-token"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Equal(t, 0, f.secrets.Count())
}

func TestZendeskService_ExchangeAuthCode_ProviderFails(t *testing.T) {
	f := newZendeskFixture()
	ctx := context.Background()
	_, err := f.svc.InitiateOAuthFlow(ctx, driving.InitiateOAuthRequest{ClientID: "cid", ClientSecret: "cs", ZendeskSubdomain: "acme"})
	require.NoError(t, err)
	f.client.ExchangeCodeFn = func(ctx context.Context, state domain.ZendeskOAuthState, code, redirectURI string) (*domain.ZendeskToken, error) {
		return nil, errors.New("invalid_grant")
	}

	_, err = f.svc.ExchangeAuthCode(ctx, driving.ExchangeAuthCodeRequest{Code: "c", State: "state-token"})
	require.Error(t, err)
	assert.Equal(t, "Zendesk API Error", domain.AsError(err).Title)
	assert.Equal(t, 0, f.secrets.Count())
}

func TestZendeskService_CreateDataSource(t *testing.T) {
	f := newZendeskFixture()
	ctx := context.Background()
	name := domain.ZendeskSecretName("acme", "amazon-q-business-1750882988")
	_, err := f.secrets.Put(ctx, &domain.Secret{Name: name, Fields: map[string]string{"accessToken": "t"}})
	require.NoError(t, err)

	resp, err := f.svc.CreateDataSource(ctx, driving.ZendeskDataSourceRequest{
		QBusinessApplicationID: "app-1",
		IndexID:                "idx-1",
		ZendeskSubdomain:       "acme",
		DataSourceType:         "guide",
		ClientID:               "amazon-q-business-1750882988",
	})
	require.NoError(t, err)

	assert.Equal(t, "ds-1", resp.DataSourceID)
	assert.Equal(t, "Zendesk-acme", resp.DataSourceName)
	assert.Equal(t, "CREATING", resp.Status)
	assert.Contains(t, resp.Message, "'Zendesk-acme' for subdomain 'acme'")

	require.Len(t, f.qb.DataSources, 1)
	in := f.qb.DataSources[0]
	assert.Equal(t, "app-1", in.ApplicationID)
	assert.Equal(t, "idx-1", in.IndexID)
	assert.Equal(t, "Zendesk data source for acme", in.Description)
	cfg, ok := in.Configuration.(domain.ZendeskConfig)
	require.True(t, ok)
	assert.Equal(t, "arn:aws:secretsmanager:us-east-1:123456789012:secret:"+name, cfg.SecretArn)
	assert.Equal(t, "https://acme.zendesk.com/", cfg.ConnectionConfiguration.RepositoryEndpointMetadata.HostURL)
}

func TestZendeskService_CreateDataSource_LegacySecret(t *testing.T) {
	f := newZendeskFixture()
	ctx := context.Background()
	_, err := f.secrets.Put(ctx, &domain.Secret{Name: "zendesk-oauth-token-acme-1", Fields: map[string]string{"accessToken": "t"}})
	require.NoError(t, err)

	_, err = f.svc.CreateDataSource(ctx, driving.ZendeskDataSourceRequest{
		ApplicationID: "app-1", QIndexID: "idx-1", ZendeskSubdomain: "acme", DataSourceName: "support",
	})
	require.NoError(t, err)

	cfg := f.qb.DataSources[0].Configuration.(domain.ZendeskConfig)
	assert.Equal(t, "arn:aws:secretsmanager:us-east-1:123456789012:secret:zendesk-oauth-token-acme-1", cfg.SecretArn)
	assert.Equal(t, "support", f.qb.DataSources[0].DisplayName)
}

func TestZendeskService_CreateDataSource_NoToken(t *testing.T) {
	f := newZendeskFixture()

	_, err := f.svc.CreateDataSource(context.Background(), driving.ZendeskDataSourceRequest{
		ApplicationID: "app-1", IndexID: "idx-1", ZendeskSubdomain: "acme", ClientID: "cid-1",
	})
	require.Error(t, err)

	de := domain.AsError(err)
	assert.Equal(t, http.StatusBadRequest, de.StatusCode())
	assert.Contains(t, de.Message, "Please complete the OAuth flow first")
	assert.Empty(t, f.qb.DataSources)
}

func TestZendeskService_CreateDataSource_InvalidType(t *testing.T) {
	f := newZendeskFixture()

	_, err := f.svc.CreateDataSource(context.Background(), driving.ZendeskDataSourceRequest{
		ApplicationID: "app-1", IndexID: "idx-1", ZendeskSubdomain: "acme", DataSourceType: "TICKETS",
	})
	require.Error(t, err)
	assert.Equal(t, domain.KindClient, domain.KindOf(err))
}

func TestZendeskService_CreateDataSource_MissingParams(t *testing.T) {
	f := newZendeskFixture()

	_, err := f.svc.CreateDataSource(context.Background(), driving.ZendeskDataSourceRequest{ZendeskSubdomain: "acme"})
	require.Error(t, err)

	de := domain.AsError(err)
	assert.Equal(t, []string{"qbusinessApplicationId", "qindexId"}, de.Missing)
	assert.Equal(t, "Missing required parameters: qbusinessApplicationId, qindexId, zendeskSubdomain", de.Message)
}
