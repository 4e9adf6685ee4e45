package driving

import (
	"context"

	"github.com/custodia-labs/qbusiness-connectors/internal/core/domain"
)

// SalesforceService sets up Salesforce connected apps, credentials, data
// sources and the actions plugin.
type SalesforceService interface {
	// CreateConnectedApp creates the data connector connected app and stores
	// the initial credentials secret without consumer key and secret.
	CreateConnectedApp(ctx context.Context, req CreateConnectedAppRequest) (*CreateConnectedAppResponse, error)

	// CreateActionsConnectedApp creates the connected app used by the actions plugin.
	CreateActionsConnectedApp(ctx context.Context, req CreateActionsConnectedAppRequest) (*CreateConnectedAppResponse, error)

	// UpdateCredentials stores the consumer key and secret of a connected app.
	UpdateCredentials(ctx context.Context, req UpdateCredentialsRequest) (*UpdateCredentialsResponse, error)

	// TestAuthentication runs the OAuth password grant with the stored credentials.
	TestAuthentication(ctx context.Context, req TestAuthenticationRequest) (*TestAuthenticationResponse, error)

	// CreateDataSource creates a SALESFORCE data source.
	CreateDataSource(ctx context.Context, req SalesforceDataSourceRequest) (*SalesforceDataSourceResponse, error)

	// SetupActionsPlugin stores the actions client credentials and creates the plugin.
	SetupActionsPlugin(ctx context.Context, req SetupActionsPluginRequest) (*SetupActionsPluginResponse, error)
}

// CreateConnectedAppRequest creates the data connector connected app.
// @Description Salesforce admin credentials and connected app details
type CreateConnectedAppRequest struct {
	HostURL          string `json:"hostUrl" example:"https://acme.my.salesforce.com"`
	Username         string `json:"username" example:"admin@acme.com"`
	Password         string `json:"password"`
	SecurityToken    string `json:"securityToken"`
	ConnectedAppName string `json:"connectedAppName" example:"Amazon Q Business Connector"`
	Description      string `json:"description,omitempty"`
	ContactEmail     string `json:"contactEmail" example:"admin@acme.com"`
}

// CreateActionsConnectedAppRequest creates the actions connected app.
// @Description Salesforce admin credentials and Q Business web experience endpoint
type CreateActionsConnectedAppRequest struct {
	HostURL           string `json:"hostUrl" example:"https://acme.my.salesforce.com"`
	Username          string `json:"username"`
	Password          string `json:"password"`
	SecurityToken     string `json:"securityToken"`
	QBusinessEndpoint string `json:"qBusinessEndpoint" example:"https://abc123.chat.qbusiness.us-east-1.on.aws"`
	ContactEmail      string `json:"contactEmail"`
	ConnectedAppName  string `json:"connectedAppName,omitempty"`
	Description       string `json:"description,omitempty"`
}

// CreateConnectedAppResponse reports a created connected app.
type CreateConnectedAppResponse struct {
	Message           string   `json:"message"`
	ConnectedAppID    string   `json:"connectedAppId"`
	ConnectedAppName  string   `json:"connectedAppName"`
	AppUniqueName     string   `json:"appUniqueName"`
	SecretName        string   `json:"secretName,omitempty"`
	CallbackURL       string   `json:"callbackUrl,omitempty"`
	RedirectURL       string   `json:"redirectUrl,omitempty"`
	QBusinessEndpoint string   `json:"qBusinessEndpoint,omitempty"`
	InstanceURL       string   `json:"instanceUrl"`
	ContactEmail      string   `json:"contactEmail"`
	Purpose           string   `json:"purpose,omitempty"`
	Instructions      []string `json:"instructions"`
}

// UpdateCredentialsRequest adds consumer credentials to a secret.
type UpdateCredentialsRequest struct {
	SecretName     string `json:"secretName" example:"qbusiness-salesforce-credentials-1a2b3c4d"`
	ConsumerKey    string `json:"consumerKey"`
	ConsumerSecret string `json:"consumerSecret"`
}

// UpdateCredentialsResponse reports the updated secret with masked values.
type UpdateCredentialsResponse struct {
	Message        string   `json:"message"`
	SecretName     string   `json:"secretName"`
	ConsumerKey    string   `json:"consumerKey"`
	ConsumerSecret string   `json:"consumerSecret"`
	Instructions   []string `json:"instructions"`
}

// TestAuthenticationRequest names the credentials secret to test.
type TestAuthenticationRequest struct {
	SecretName string `json:"secretName"`
}

// TestAuthenticationResponse reports a successful password grant.
type TestAuthenticationResponse struct {
	Message     string                     `json:"message"`
	Success     bool                       `json:"success"`
	AccessToken string                     `json:"accessToken"`
	InstanceURL string                     `json:"instanceUrl"`
	TokenType   string                     `json:"tokenType"`
	Scope       string                     `json:"scope"`
	SecretName  string                     `json:"secretName"`
	UserInfo    *domain.SalesforceUserInfo `json:"userInfo"`
}

// SalesforceDataSourceRequest creates a SALESFORCE data source.
type SalesforceDataSourceRequest struct {
	ApplicationID  string                   `json:"qBusinessApplicationId"`
	IndexID        string                   `json:"qBusinessIndexId"`
	DataSourceName string                   `json:"dataSourceName"`
	SecretName     string                   `json:"secretName"`
	Options        domain.SalesforceOptions `json:",squash"`
}

// SalesforceDataSourceResponse reports a created Salesforce data source.
type SalesforceDataSourceResponse struct {
	Message       string                  `json:"message"`
	DataSourceID  string                  `json:"dataSourceId"`
	DataSourceARN string                  `json:"dataSourceArn"`
	SecretName    string                  `json:"secretName"`
	Configuration SalesforceConfigSummary `json:"configuration"`
}

// SalesforceConfigSummary echoes the effective data source options.
type SalesforceConfigSummary struct {
	HostURL         string   `json:"hostUrl"`
	SyncMode        string   `json:"syncMode"`
	IncludedObjects []string `json:"includedObjects"`
}

// SetupActionsPluginRequest creates the Salesforce actions plugin.
type SetupActionsPluginRequest struct {
	ClientID            string `json:"clientId"`
	ClientSecret        string `json:"clientSecret"`
	RedirectURL         string `json:"redirectUrl"`
	SalesforceDomainURL string `json:"salesforceDomainUrl" example:"https://acme.my.salesforce.com"`
	ApplicationID       string `json:"qBusinessApplicationId"`
	PluginName          string `json:"pluginName,omitempty"`
}

// SetupActionsPluginResponse reports the created plugin.
type SetupActionsPluginResponse struct {
	Message       string                `json:"message"`
	PluginID      string                `json:"pluginId"`
	PluginARN     string                `json:"pluginArn,omitempty"`
	BuildStatus   string                `json:"buildStatus,omitempty"`
	PluginName    string                `json:"pluginName"`
	SecretName    string                `json:"secretName"`
	ServerURL     string                `json:"serverUrl"`
	ApplicationID string                `json:"qBusinessApplicationId"`
	Configuration ActionsPluginSettings `json:"configuration"`
	Instructions  []string              `json:"instructions"`
}

// ActionsPluginSettings echoes the OAuth endpoints of the plugin.
type ActionsPluginSettings struct {
	ClientID         string `json:"clientId"`
	AuthorizationURL string `json:"authorizationUrl"`
	TokenURL         string `json:"tokenUrl"`
	RedirectURL      string `json:"redirectUrl"`
}
