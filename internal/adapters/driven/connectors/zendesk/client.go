// Package zendesk talks to the Zendesk OAuth client API and token endpoints.
package zendesk

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/qbusiness-connectors/internal/adapters/driven/connectors"
	"github.com/custodia-labs/qbusiness-connectors/internal/core/domain"
	"github.com/custodia-labs/qbusiness-connectors/internal/core/ports/driven"
)

// Ensure Client implements ZendeskClient
var _ driven.ZendeskClient = (*Client)(nil)

// Client provides Zendesk operations.
type Client struct {
	http *connectors.Client

	// siteURL maps a subdomain to its base URL.
	siteURL func(subdomain string) string
}

// NewClient creates a Zendesk client.
func NewClient(httpClient *http.Client) *Client {
	return &Client{
		http: connectors.NewClient("Zendesk", httpClient),
		siteURL: func(subdomain string) string {
			return "https://" + subdomain + ".zendesk.com"
		},
	}
}

// WithBaseURL sends every subdomain's requests to baseURL.
func (c *Client) WithBaseURL(baseURL string) *Client {
	base := strings.TrimRight(baseURL, "/")
	c.siteURL = func(string) string { return base }
	return c
}

// CreateOAuthClient registers an OAuth client as {email}/token.
func (c *Client) CreateOAuthClient(ctx context.Context, admin domain.ZendeskAdmin, client domain.ZendeskOAuthClient) (*domain.ZendeskOAuthClient, error) {
	in := struct {
		Client domain.ZendeskOAuthClient `json:"client"`
	}{Client: client}
	in.Client.Secret = ""

	var out struct {
		Client domain.ZendeskOAuthClient `json:"client"`
	}
	endpoint := c.siteURL(admin.Subdomain) + "/api/v2/oauth/clients.json"
	auth := connectors.BasicAuth(admin.Email+"/token", admin.APIToken)
	if err := c.http.JSON(ctx, http.MethodPost, endpoint, auth, in, &out); err != nil {
		return nil, err
	}
	if out.Client.Identifier == "" || out.Client.Secret == "" {
		return nil, fmt.Errorf("%w: Zendesk returned no client credentials", domain.ErrUpstream)
	}
	return &out.Client, nil
}

// AuthorizationURL builds the consent URL asking for read and write scopes.
func (c *Client) AuthorizationURL(subdomain, clientID, redirectURI, state string) string {
	cfg := c.oauthConfig(subdomain, clientID, "", redirectURI)
	return cfg.AuthCodeURL(state)
}

// ExchangeCode exchanges an authorization code for an access token.
func (c *Client) ExchangeCode(ctx context.Context, state domain.ZendeskOAuthState, code, redirectURI string) (*domain.ZendeskToken, error) {
	cfg := c.oauthConfig(state.ZendeskSubdomain, state.ClientID, state.ClientSecret, redirectURI)
	tok, err := cfg.Exchange(c.http.OAuthContext(ctx), code, oauth2.SetAuthURLParam("scope", domain.ZendeskScope))
	if err != nil {
		return nil, connectors.OAuthError("Zendesk", err)
	}

	out := &domain.ZendeskToken{
		AccessToken: tok.AccessToken,
		TokenType:   tok.TokenType,
	}
	if scope, ok := tok.Extra("scope").(string); ok {
		out.Scope = scope
	}
	if !tok.Expiry.IsZero() {
		out.ExpiresAt = tok.Expiry.Unix()
	}
	return out, nil
}

func (c *Client) oauthConfig(subdomain, clientID, clientSecret, redirectURI string) *oauth2.Config {
	base := c.siteURL(subdomain)
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Scopes:       strings.Fields(domain.ZendeskScope),
		Endpoint: oauth2.Endpoint{
			AuthURL:   base + "/oauth/authorizations/new",
			TokenURL:  base + "/oauth/tokens",
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}
