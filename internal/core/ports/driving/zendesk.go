package driving

import "context"

// ZendeskService runs the Zendesk OAuth flow and creates data sources.
type ZendeskService interface {
	CreateOAuthApp(ctx context.Context, req ZendeskOAuthAppRequest) (*ZendeskOAuthAppResponse, error)
	InitiateOAuthFlow(ctx context.Context, req InitiateOAuthRequest) (*InitiateOAuthResponse, error)

	// OAuthCallback validates the provider redirect without consuming the state.
	OAuthCallback(ctx context.Context, req OAuthCallbackRequest) (*OAuthCallbackResult, error)

	// ExchangeAuthCode consumes the state and stores the access token.
	ExchangeAuthCode(ctx context.Context, req ExchangeAuthCodeRequest) (*ExchangeAuthCodeResponse, error)

	CreateDataSource(ctx context.Context, req ZendeskDataSourceRequest) (*DataSourceCreatedResponse, error)
}

// ZendeskOAuthAppRequest registers an OAuth client with an admin API token.
type ZendeskOAuthAppRequest struct {
	ZendeskSubdomain string `json:"zendeskSubdomain" example:"acme"`
	AdminEmail       string `json:"adminEmail"`
	APIToken         string `json:"apiToken"`
	AppName          string `json:"appName"`
}

// ZendeskOAuthAppResponse reports the created OAuth client.
type ZendeskOAuthAppResponse struct {
	AppName          string `json:"app_name"`
	ClientID         string `json:"client_id"`
	ClientSecret     string `json:"client_secret"`
	RedirectURI      string `json:"redirect_uri"`
	ZendeskSubdomain string `json:"zendesk_subdomain"`
}

// InitiateOAuthRequest starts the authorization code flow.
type InitiateOAuthRequest struct {
	ClientID         string `json:"clientId"`
	ClientSecret     string `json:"clientSecret"`
	ZendeskSubdomain string `json:"zendeskSubdomain"`
}

// InitiateOAuthResponse carries the consent URL.
type InitiateOAuthResponse struct {
	AuthorizationURL string `json:"authorizationUrl"`
	Message          string `json:"message"`
	Instructions     string `json:"instructions"`
	ExpiresAt        string `json:"expiresAt"`
}

// OAuthCallbackRequest carries the provider redirect query.
type OAuthCallbackRequest struct {
	Code             string `json:"code"`
	State            string `json:"state"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// OAuthCallbackResult tells the browser page where to post code and state.
type OAuthCallbackResult struct {
	Code        string
	State       string
	ExchangeURL string
}

// ExchangeAuthCodeRequest exchanges an authorization code.
type ExchangeAuthCodeRequest struct {
	Code  string `json:"code"`
	State string `json:"state"`
}

// ExchangeAuthCodeResponse reports the stored token secret.
type ExchangeAuthCodeResponse struct {
	Message          string `json:"message"`
	ZendeskSubdomain string `json:"zendeskSubdomain"`
	SecretName       string `json:"secretName"`
	TokenExpiry      *int64 `json:"tokenExpiry"`
	Instructions     string `json:"instructions"`
}

// ZendeskDataSourceRequest creates a ZENDESK data source. Application and
// index ids accept both naming styles.
type ZendeskDataSourceRequest struct {
	QBusinessApplicationID string `json:"qbusinessApplicationId"`
	ApplicationID          string `json:"applicationId"`
	QIndexID               string `json:"qindexId"`
	IndexID                string `json:"indexId"`
	DataSourceName         string `json:"dataSourceName"`
	ZendeskSubdomain       string `json:"zendeskSubdomain"`
	DataSourceType         string `json:"dataSourceType"`
	ClientID               string `json:"clientId"`
}

// App returns the application id under either name.
func (r ZendeskDataSourceRequest) App() string {
	return firstOf(r.QBusinessApplicationID, r.ApplicationID)
}

// Index returns the index id under either name.
func (r ZendeskDataSourceRequest) Index() string {
	return firstOf(r.QIndexID, r.IndexID)
}
