package domain

import (
	"fmt"
	"strings"
)

// Zendesk OAuth constants.
const (
	ZendeskScope            = "read write"
	ZendeskCallbackRoute    = "zendesk-oauth-callback"
	ZendeskExchangeRoute    = "zendesk-exchange-auth-code-for-token"
	ZendeskClientIDPrefix   = "amazon-q-business-"
	ZendeskOAuthDescription = "Connector for integrating Zendesk with Amazon Q Business"
)

// ZendeskOAuthClient is an OAuth client registered in a Zendesk account.
type ZendeskOAuthClient struct {
	Name        string   `json:"name"`
	Identifier  string   `json:"identifier"`
	Secret      string   `json:"secret,omitempty"`
	RedirectURI []string `json:"redirect_uri"`
	Description string   `json:"description,omitempty"`
	Scopes      []string `json:"scopes,omitempty"`
	Kind        string   `json:"kind,omitempty"`
}

// ZendeskAdmin authenticates API token calls as {email}/token.
type ZendeskAdmin struct {
	Subdomain string
	Email     string
	APIToken  string
}

// ZendeskToken is the result of an authorization code exchange.
type ZendeskToken struct {
	AccessToken string
	TokenType   string
	Scope       string
	ExpiresAt   int64
}

// ZendeskOAuthState is the payload kept between initiating the OAuth flow
// and exchanging the authorization code.
type ZendeskOAuthState struct {
	ClientID         string `json:"clientId"`
	ClientSecret     string `json:"clientSecret"`
	ZendeskSubdomain string `json:"zendeskSubdomain"`
}

// ZendeskRedirectURI is the callback registered on the OAuth client.
func ZendeskRedirectURI(apiGatewayURL string) string {
	return apiGatewayURL + ZendeskCallbackRoute
}

// ZendeskSecretName names the secret holding a subdomain's access token.
// The suffix is the last dash separated segment of the client identifier.
func ZendeskSecretName(subdomain, clientID string) string {
	parts := strings.Split(clientID, "-")
	return fmt.Sprintf("qbusiness-zendesk-secret-%s-%s", subdomain, parts[len(parts)-1])
}

// ZendeskAuthorizationURL is the authorization endpoint of a subdomain.
func ZendeskAuthorizationURL(subdomain string) string {
	return fmt.Sprintf("https://%s.zendesk.com/oauth/authorizations/new", subdomain)
}

// ZendeskTokenURL is the token endpoint of a subdomain.
func ZendeskTokenURL(subdomain string) string {
	return fmt.Sprintf("https://%s.zendesk.com/oauth/tokens", subdomain)
}
