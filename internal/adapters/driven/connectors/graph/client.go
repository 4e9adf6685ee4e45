// Package graph talks to Microsoft Graph v1.0 with client credentials.
package graph

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/custodia-labs/qbusiness-connectors/internal/adapters/driven/connectors"
	"github.com/custodia-labs/qbusiness-connectors/internal/core/domain"
	"github.com/custodia-labs/qbusiness-connectors/internal/core/ports/driven"
)

// Ensure Client implements GraphClient
var _ driven.GraphClient = (*Client)(nil)

const (
	defaultLoginURL = "https://login.microsoftonline.com"
	defaultGraphURL = "https://graph.microsoft.com"
	graphScope      = "https://graph.microsoft.com/.default"
)

// Client provides Microsoft Graph operations.
type Client struct {
	http     *connectors.Client
	loginURL string
	graphURL string

	mu     sync.Mutex
	tokens map[domain.AzureCredentials]oauth2.TokenSource
}

// NewClient creates a Graph client.
func NewClient(httpClient *http.Client) *Client {
	return &Client{
		http:     connectors.NewClient("Microsoft Graph", httpClient),
		loginURL: defaultLoginURL,
		graphURL: defaultGraphURL,
		tokens:   make(map[domain.AzureCredentials]oauth2.TokenSource),
	}
}

// WithEndpoints overrides the identity platform and Graph base URLs.
func (c *Client) WithEndpoints(loginURL, graphURL string) *Client {
	c.loginURL = strings.TrimRight(loginURL, "/")
	c.graphURL = strings.TrimRight(graphURL, "/")
	return c
}

// FindServicePrincipal looks a service principal up by display name.
func (c *Client) FindServicePrincipal(ctx context.Context, creds domain.AzureCredentials, displayName string) (*domain.ServicePrincipal, error) {
	var out struct {
		Value []domain.ServicePrincipal `json:"value"`
	}
	filter := url.Values{"$filter": {fmt.Sprintf("displayName eq '%s'", strings.ReplaceAll(displayName, "'", "''"))}}
	if err := c.call(ctx, creds, http.MethodGet, "/servicePrincipals?"+filter.Encode(), nil, &out); err != nil {
		return nil, err
	}
	if len(out.Value) == 0 {
		return nil, fmt.Errorf("%w: service principal %q", domain.ErrNotFound, displayName)
	}
	return &out.Value[0], nil
}

// CreateApplication registers an application.
func (c *Client) CreateApplication(ctx context.Context, creds domain.AzureCredentials, app domain.AzureApplication) (*domain.AzureAppRef, error) {
	var ref domain.AzureAppRef
	if err := c.call(ctx, creds, http.MethodPost, "/applications", app, &ref); err != nil {
		return nil, err
	}
	return &ref, nil
}

// CreateServicePrincipal creates the service principal of an application.
func (c *Client) CreateServicePrincipal(ctx context.Context, creds domain.AzureCredentials, appID string) error {
	return c.call(ctx, creds, http.MethodPost, "/servicePrincipals", map[string]string{"appId": appID}, nil)
}

// AddPassword adds a client secret that expires at end.
func (c *Client) AddPassword(ctx context.Context, creds domain.AzureCredentials, objectID, displayName string, end time.Time) (*domain.PasswordCredential, error) {
	body := map[string]any{
		"passwordCredential": map[string]string{
			"displayName": displayName,
			"endDateTime": end.UTC().Format(time.RFC3339),
		},
	}
	var cred domain.PasswordCredential
	if err := c.call(ctx, creds, http.MethodPost, "/applications/"+url.PathEscape(objectID)+"/addPassword", body, &cred); err != nil {
		return nil, err
	}
	return &cred, nil
}

// DeleteApplication deletes an application by object id.
func (c *Client) DeleteApplication(ctx context.Context, creds domain.AzureCredentials, objectID string) error {
	return c.call(ctx, creds, http.MethodDelete, "/applications/"+url.PathEscape(objectID), nil, nil)
}

// keyCredential is the Graph form of a certificate credential. Key is
// base64 encoded by encoding/json.
type keyCredential struct {
	Type          string `json:"type"`
	Usage         string `json:"usage"`
	Key           []byte `json:"key"`
	DisplayName   string `json:"displayName"`
	StartDateTime string `json:"startDateTime"`
	EndDateTime   string `json:"endDateTime"`
}

// SetKeyCredential replaces the certificates of an application.
func (c *Client) SetKeyCredential(ctx context.Context, creds domain.AzureCredentials, objectID string, key domain.KeyCredential) error {
	body := map[string][]keyCredential{
		"keyCredentials": {{
			Type:          "AsymmetricX509Cert",
			Usage:         "Verify",
			Key:           key.Key,
			DisplayName:   key.DisplayName,
			StartDateTime: key.StartDateTime.UTC().Format(time.RFC3339),
			EndDateTime:   key.EndDateTime.UTC().Format(time.RFC3339),
		}},
	}
	return c.call(ctx, creds, http.MethodPatch, "/applications/"+url.PathEscape(objectID), body, nil)
}

func (c *Client) call(ctx context.Context, creds domain.AzureCredentials, method, path string, in, out any) error {
	tok, err := c.tokenSource(ctx, creds).Token()
	if err != nil {
		return connectors.OAuthError("Microsoft Graph", err)
	}
	return c.http.JSON(ctx, method, c.graphURL+"/v1.0"+path, connectors.Bearer(tok.AccessToken), in, out)
}

// tokenSource returns a cached client credentials token source per app.
func (c *Client) tokenSource(ctx context.Context, creds domain.AzureCredentials) oauth2.TokenSource {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ts, ok := c.tokens[creds]; ok {
		return ts
	}
	cfg := &clientcredentials.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		TokenURL:     c.loginURL + "/" + url.PathEscape(creds.TenantID) + "/oauth2/v2.0/token",
		Scopes:       []string{graphScope},
		AuthStyle:    oauth2.AuthStyleInParams,
	}
	// The token source outlives ctx, so it only carries the HTTP client
	ts := cfg.TokenSource(context.WithValue(context.Background(), oauth2.HTTPClient, c.http.HTTPClient()))
	c.tokens[creds] = ts
	return ts
}
