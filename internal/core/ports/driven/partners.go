package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/qbusiness-connectors/internal/core/domain"
)

// SalesforceClient talks to the Salesforce SOAP, Metadata and REST APIs.
type SalesforceClient interface {
	// Login opens a SOAP session with username, password and security token.
	Login(ctx context.Context, creds domain.SalesforceCredentials) (*domain.SalesforceSession, error)

	// CreateConnectedApp creates a connected app through the Metadata API and
	// returns its id.
	CreateConnectedApp(ctx context.Context, session *domain.SalesforceSession, app domain.ConnectedApp) (string, error)

	// PasswordToken runs the OAuth username-password flow.
	PasswordToken(ctx context.Context, creds domain.SalesforceCredentials, client domain.SalesforceOAuthClient) (*domain.SalesforceToken, error)

	// UserInfo describes the user an access token belongs to.
	UserInfo(ctx context.Context, token *domain.SalesforceToken) (*domain.SalesforceUserInfo, error)
}

// ServiceNowClient talks to the ServiceNow table API.
type ServiceNowClient interface {
	// CreateOAuthApp inserts an oauth_entity record and returns it with its sys_id.
	CreateOAuthApp(ctx context.Context, admin domain.ServiceNowAdmin, app domain.ServiceNowOAuthApp) (*domain.ServiceNowOAuthApp, error)
}

// GraphClient talks to Microsoft Graph v1.0 using client credentials.
type GraphClient interface {
	// FindServicePrincipal looks a service principal up by display name.
	// Returns domain.ErrNotFound when no principal matches.
	FindServicePrincipal(ctx context.Context, creds domain.AzureCredentials, displayName string) (*domain.ServicePrincipal, error)

	// CreateApplication registers an application.
	CreateApplication(ctx context.Context, creds domain.AzureCredentials, app domain.AzureApplication) (*domain.AzureAppRef, error)

	// CreateServicePrincipal creates the service principal of an application.
	CreateServicePrincipal(ctx context.Context, creds domain.AzureCredentials, appID string) error

	// AddPassword adds a client secret to an application.
	AddPassword(ctx context.Context, creds domain.AzureCredentials, objectID, displayName string, end time.Time) (*domain.PasswordCredential, error)

	// DeleteApplication deletes an application by object id.
	DeleteApplication(ctx context.Context, creds domain.AzureCredentials, objectID string) error

	// SetKeyCredential replaces the certificates of an application.
	SetKeyCredential(ctx context.Context, creds domain.AzureCredentials, objectID string, key domain.KeyCredential) error
}

// ZendeskClient talks to the Zendesk REST and OAuth endpoints.
type ZendeskClient interface {
	// CreateOAuthClient registers an OAuth client using an admin API token.
	CreateOAuthClient(ctx context.Context, admin domain.ZendeskAdmin, client domain.ZendeskOAuthClient) (*domain.ZendeskOAuthClient, error)

	// AuthorizationURL builds the consent URL for an OAuth client.
	AuthorizationURL(subdomain, clientID, redirectURI, state string) string

	// ExchangeCode exchanges an authorization code for an access token.
	ExchangeCode(ctx context.Context, state domain.ZendeskOAuthState, code, redirectURI string) (*domain.ZendeskToken, error)
}

// CertificateGenerator creates and inspects self-signed certificates.
type CertificateGenerator interface {
	// Generate creates an RSA key pair and a self-signed certificate.
	Generate(subject domain.CertificateSubject) (*domain.Certificate, error)

	// Parse reads the validity window of a PEM encoded certificate.
	Parse(certPEM []byte) (*domain.Certificate, error)
}
