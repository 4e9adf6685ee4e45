package domain

import (
	"strings"
)

// Salesforce endpoints and API versions.
const (
	SalesforceLoginHost   = "https://login.salesforce.com"
	SalesforceSandboxHost = "https://test.salesforce.com"
	SalesforceAPIVersion  = "60.0"

	// SalesforceDataPath is the REST root appended to plugin server URLs.
	SalesforceDataPath = "/services/data/v60.0"
)

// Default connected app descriptions.
const (
	DefaultConnectedAppDescription = "Amazon Q Business Salesforce Connector"
	DefaultActionsAppDescription   = "Amazon Q Business Salesforce Actions Connector"
	DefaultActionsAppName          = "Amazon Q Business Salesforce Actions"
	DefaultActionsPluginName       = "Salesforce-Actions-Plugin"
)

// Secret field names of a Salesforce credentials secret.
const (
	SalesforceFieldHostURL           = "hostUrl"
	SalesforceFieldUsername          = "username"
	SalesforceFieldPassword          = "password"
	SalesforceFieldSecurityToken     = "securityToken"
	SalesforceFieldAuthenticationURL = "authenticationUrl"
	SalesforceFieldConnectedAppName  = "connectedAppName"
	SalesforceFieldAppUniqueName     = "appUniqueName"
	SalesforceFieldConsumerKey       = "consumerKey"
	SalesforceFieldConsumerSecret    = "consumerSecret"
)

// SalesforceAuthFields are the secret fields the OAuth password grant needs.
var SalesforceAuthFields = []string{
	SalesforceFieldHostURL,
	SalesforceFieldUsername,
	SalesforceFieldPassword,
	SalesforceFieldSecurityToken,
	SalesforceFieldConsumerKey,
	SalesforceFieldConsumerSecret,
}

// SalesforceCredentials are the user credentials used for SOAP login and the
// OAuth password grant. The password sent upstream is Password+SecurityToken.
type SalesforceCredentials struct {
	Username      string
	Password      string
	SecurityToken string
	LoginURL      string
}

// SalesforceSession is an authenticated SOAP session.
type SalesforceSession struct {
	SessionID   string
	ServerURL   string
	InstanceURL string
}

// SalesforceOAuthClient carries connected app credentials.
type SalesforceOAuthClient struct {
	ConsumerKey    string
	ConsumerSecret string
}

// SalesforceToken is the result of an OAuth token request.
type SalesforceToken struct {
	AccessToken string
	InstanceURL string
	TokenType   string
	Scope       string
}

// SalesforceUserInfo describes the authenticated user.
type SalesforceUserInfo struct {
	UserID         string `json:"userId,omitempty"`
	Username       string `json:"username,omitempty"`
	Name           string `json:"name,omitempty"`
	Email          string `json:"email,omitempty"`
	OrganizationID string `json:"organizationId,omitempty"`
	Status         string `json:"status,omitempty"`
}

// ConnectedApp is the metadata record created through the Metadata API.
type ConnectedApp struct {
	FullName     string
	Label        string
	Description  string
	ContactEmail string
	OAuth        ConnectedAppOAuth
}

// ConnectedAppOAuth is the oauthConfig block of a connected app.
// Optional flags are omitted from the metadata when nil.
type ConnectedAppOAuth struct {
	CallbackURL                      string
	Scopes                           []string
	IsIntrospectAllTokens            bool
	IsPkceRequired                   bool
	IsSecretRequiredForRefreshToken  bool
	IsSecretRequiredForTokenExchange *bool
	IsTokenExchangeEnabled           *bool
}

// actionsScopes are granted to the actions connected app.
var actionsScopes = []string{
	"CustomApplications", "Basic", "Address", "CustomPermissions", "OpenID",
	"Profile", "RefreshToken", "Wave", "Web", "Phone", "OfflineAccess",
	"Chatter", "Api", "Eclair", "Email", "Pardot", "Full",
}

// SalesforceCallbackURL picks the token endpoint for an instance: sandboxes
// authenticate against test.salesforce.com.
func SalesforceCallbackURL(instanceURL string) string {
	lower := strings.ToLower(instanceURL)
	if strings.Contains(lower, "test.salesforce.com") || strings.Contains(lower, "sandbox") {
		return SalesforceSandboxHost + "/services/oauth2/token"
	}
	return SalesforceLoginHost + "/services/oauth2/token"
}

// SalesforceLoginURL returns the SOAP login host for an instance.
func SalesforceLoginURL(instanceURL string) string {
	lower := strings.ToLower(instanceURL)
	if strings.Contains(lower, "test.salesforce.com") || strings.Contains(lower, "sandbox") {
		return SalesforceSandboxHost
	}
	return SalesforceLoginHost
}

// AppUniqueName derives the metadata full name from a label and a random suffix.
func AppUniqueName(label, suffix string) string {
	return strings.ReplaceAll(label, " ", "_") + "_" + suffix
}

// NewDataConnectorApp describes the connected app used by the data connector.
func NewDataConnectorApp(label, uniqueName, description, contactEmail, callbackURL string) ConnectedApp {
	if description == "" {
		description = DefaultConnectedAppDescription
	}
	return ConnectedApp{
		FullName:     uniqueName,
		Label:        label,
		Description:  description,
		ContactEmail: contactEmail,
		OAuth: ConnectedAppOAuth{
			CallbackURL:                     callbackURL,
			Scopes:                          []string{"Full"},
			IsIntrospectAllTokens:           true,
			IsPkceRequired:                  true,
			IsSecretRequiredForRefreshToken: true,
		},
	}
}

// NewActionsApp describes the connected app used by the actions plugin.
func NewActionsApp(label, uniqueName, description, contactEmail, redirectURL string) ConnectedApp {
	if description == "" {
		description = DefaultActionsAppDescription
	}
	return ConnectedApp{
		FullName:     uniqueName,
		Label:        label,
		Description:  description + " - Configured for Salesforce Actions integration",
		ContactEmail: contactEmail,
		OAuth: ConnectedAppOAuth{
			CallbackURL:                      redirectURL,
			Scopes:                           append([]string(nil), actionsScopes...),
			IsSecretRequiredForRefreshToken:  true,
			IsSecretRequiredForTokenExchange: Bool(true),
			IsTokenExchangeEnabled:           Bool(true),
		},
	}
}

// ActionsRedirectURL is the OAuth redirect of a Q Business web experience.
func ActionsRedirectURL(endpoint string) string {
	return strings.TrimRight(endpoint, "/") + "/oauth/callback"
}

// SalesforcePluginServerURL appends the REST data path unless present.
func SalesforcePluginServerURL(domainURL string) string {
	u := strings.TrimRight(domainURL, "/")
	if strings.HasSuffix(u, SalesforceDataPath) {
		return u
	}
	return u + SalesforceDataPath
}

// SalesforceInstanceURL strips the SOAP service path from a login server URL.
func SalesforceInstanceURL(serverURL string) string {
	if i := strings.Index(serverURL, "/services/"); i >= 0 {
		return serverURL[:i]
	}
	return strings.TrimRight(serverURL, "/")
}
