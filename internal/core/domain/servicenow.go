package domain

import "fmt"

// ServiceNow OAuth token lifespans, in seconds.
const (
	ServiceNowAccessTokenLifespan  = 3600
	ServiceNowRefreshTokenLifespan = 8640000
	ServiceNowGrantTypes           = "authorization_code,refresh_token"
	ServiceNowLogoURL              = "https://your-logo-url.com/logo.png"
)

// ServiceNowOAuthApp is an oauth_entity record.
type ServiceNowOAuthApp struct {
	Name                 string `json:"name"`
	ClientID             string `json:"client_id"`
	ClientSecret         string `json:"client_secret"`
	RedirectURL          string `json:"redirect_url"`
	LogoURL              string `json:"logo_url"`
	AccessTokenLifespan  int    `json:"access_token_lifespan"`
	RefreshTokenLifespan int    `json:"refresh_token_lifespan"`
	GrantTypes           string `json:"grant_types"`
	SysID                string `json:"sys_id,omitempty"`
}

// NewServiceNowOAuthApp fills a record with generated credentials and the
// default lifespans.
func NewServiceNowOAuthApp(name, redirectURL, clientID, clientSecret string) ServiceNowOAuthApp {
	return ServiceNowOAuthApp{
		Name:                 name,
		ClientID:             clientID,
		ClientSecret:         clientSecret,
		RedirectURL:          redirectURL,
		LogoURL:              ServiceNowLogoURL,
		AccessTokenLifespan:  ServiceNowAccessTokenLifespan,
		RefreshTokenLifespan: ServiceNowRefreshTokenLifespan,
		GrantTypes:           ServiceNowGrantTypes,
	}
}

// ServiceNowAdmin authenticates table API calls with basic auth.
type ServiceNowAdmin struct {
	Instance string
	Username string
	Password string
}

// ServiceNowSecretName names the data source secret of an OAuth client.
func ServiceNowSecretName(instance, clientID string) string {
	return fmt.Sprintf("qbusiness-servicenow-secret-%s-%s", instance, clientID)
}
