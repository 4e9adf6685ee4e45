// Package salesforce talks to the Salesforce SOAP, Metadata and REST APIs.
package salesforce

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/qbusiness-connectors/internal/adapters/driven/connectors"
	"github.com/custodia-labs/qbusiness-connectors/internal/core/domain"
	"github.com/custodia-labs/qbusiness-connectors/internal/core/ports/driven"
)

// Ensure Client implements SalesforceClient
var _ driven.SalesforceClient = (*Client)(nil)

// userQuery selects the user behind an access token.
const userQuery = "SELECT Id, Username, Name, Email, OrganizationId FROM User WHERE Id = UserInfo.getUserId()"

// Client provides Salesforce API operations.
type Client struct {
	http   *connectors.Client
	logger *slog.Logger
}

// NewClient creates a Salesforce client. Requests are never retried, so
// failed logins are not repeated against the account lockout policy.
func NewClient(httpClient *http.Client, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		http:   connectors.NewClient("Salesforce", httpClient).WithRetry(0, 0),
		logger: logger.With("connector", "salesforce"),
	}
}

// Login opens an enterprise SOAP session.
func (c *Client) Login(ctx context.Context, creds domain.SalesforceCredentials) (*domain.SalesforceSession, error) {
	body, err := marshalEnvelope(nil, loginRequest{
		Username: creds.Username,
		Password: creds.Password + creds.SecurityToken,
	})
	if err != nil {
		return nil, err
	}

	endpoint := strings.TrimRight(creds.LoginURL, "/") + "/services/Soap/c/" + domain.SalesforceAPIVersion
	resp, err := c.soap(ctx, endpoint, "login", body)
	if err != nil {
		return nil, err
	}
	if resp.Login == nil || resp.Login.SessionID == "" || resp.Login.ServerURL == "" {
		return nil, fmt.Errorf("%w: failed to extract session ID or server URL from SOAP response", domain.ErrUpstream)
	}

	c.logger.Debug("soap login succeeded", "user_id", resp.Login.UserID)
	return &domain.SalesforceSession{
		SessionID:   resp.Login.SessionID,
		ServerURL:   resp.Login.ServerURL,
		InstanceURL: domain.SalesforceInstanceURL(resp.Login.ServerURL),
	}, nil
}

// CreateConnectedApp creates a connected app with the Metadata API.
func (c *Client) CreateConnectedApp(ctx context.Context, session *domain.SalesforceSession, app domain.ConnectedApp) (string, error) {
	body, err := marshalEnvelope(
		&soapHeader{Session: sessionHeader{SessionID: session.SessionID}},
		createRequest{Metadata: connectedAppMetadata(app)},
	)
	if err != nil {
		return "", err
	}

	endpoint := strings.TrimRight(session.InstanceURL, "/") + "/services/Soap/m/" + domain.SalesforceAPIVersion
	c.logger.Info("creating connected app", "label", app.Label, "callback_url", app.OAuth.CallbackURL)

	resp, err := c.soap(ctx, endpoint, "create", body)
	if err != nil {
		return "", err
	}
	if resp.Create == nil {
		return "", nil
	}
	if resp.Create.Success == "false" && len(resp.Create.Errors) > 0 {
		e := resp.Create.Errors[0]
		return "", fmt.Errorf("%w: %s: %s", domain.ErrUpstream, e.StatusCode, e.Message)
	}
	return resp.Create.ID, nil
}

// PasswordToken runs the OAuth username-password flow.
func (c *Client) PasswordToken(ctx context.Context, creds domain.SalesforceCredentials, client domain.SalesforceOAuthClient) (*domain.SalesforceToken, error) {
	cfg := &oauth2.Config{
		ClientID:     client.ConsumerKey,
		ClientSecret: client.ConsumerSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL:  strings.TrimRight(creds.LoginURL, "/") + "/services/oauth2/token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}

	tok, err := cfg.PasswordCredentialsToken(c.http.OAuthContext(ctx), creds.Username, creds.Password+creds.SecurityToken)
	if err != nil {
		return nil, connectors.OAuthError("Salesforce", err)
	}

	out := &domain.SalesforceToken{AccessToken: tok.AccessToken, TokenType: tok.TokenType}
	if v, ok := tok.Extra("instance_url").(string); ok {
		out.InstanceURL = v
	}
	if v, ok := tok.Extra("scope").(string); ok {
		out.Scope = v
	}
	return out, nil
}

// UserInfo queries the User record of the token owner and falls back to
// the OpenID userinfo endpoint.
func (c *Client) UserInfo(ctx context.Context, token *domain.SalesforceToken) (*domain.SalesforceUserInfo, error) {
	header := connectors.Bearer(token.AccessToken)
	base := strings.TrimRight(token.InstanceURL, "/")

	var query struct {
		Records []struct {
			ID             string `json:"Id"`
			Username       string `json:"Username"`
			Name           string `json:"Name"`
			Email          string `json:"Email"`
			OrganizationID string `json:"OrganizationId"`
		} `json:"records"`
	}
	queryURL := base + domain.SalesforceDataPath + "/query/?" + url.Values{"q": {userQuery}}.Encode()
	err := c.http.JSON(ctx, http.MethodGet, queryURL, header, nil, &query)
	if err == nil && len(query.Records) > 0 {
		r := query.Records[0]
		return &domain.SalesforceUserInfo{
			UserID:         r.ID,
			Username:       r.Username,
			Name:           r.Name,
			Email:          r.Email,
			OrganizationID: r.OrganizationID,
		}, nil
	}
	if err != nil {
		c.logger.Debug("user query failed, trying userinfo", "error", err)
	}

	var info struct {
		UserID            string `json:"user_id"`
		PreferredUsername string `json:"preferred_username"`
		Name              string `json:"name"`
		Email             string `json:"email"`
		OrganizationID    string `json:"organization_id"`
	}
	if err := c.http.JSON(ctx, http.MethodGet, base+"/services/oauth2/userinfo", header, nil, &info); err != nil {
		return nil, err
	}
	return &domain.SalesforceUserInfo{
		UserID:         info.UserID,
		Username:       info.PreferredUsername,
		Name:           info.Name,
		Email:          info.Email,
		OrganizationID: info.OrganizationID,
	}, nil
}

// soap posts an envelope and decodes the reply. Faults arrive with HTTP 500.
func (c *Client) soap(ctx context.Context, endpoint, action string, body []byte) (*response, error) {
	header := http.Header{}
	header.Set("Content-Type", "text/xml; charset=UTF-8")
	header.Set("SOAPAction", action)

	raw, err := c.http.Do(ctx, connectors.Request{Method: http.MethodPost, URL: endpoint, Header: header, Body: body})
	if err != nil {
		var se *connectors.StatusError
		if errors.As(err, &se) {
			if resp, perr := parseResponse([]byte(se.Body)); perr == nil && resp.Fault != nil {
				return nil, faultError(resp.Fault.Code, resp.Fault.String)
			}
		}
		return nil, err
	}

	resp, err := parseResponse(raw)
	if err != nil {
		return nil, err
	}
	if resp.Fault != nil {
		return nil, faultError(resp.Fault.Code, resp.Fault.String)
	}
	return resp, nil
}
