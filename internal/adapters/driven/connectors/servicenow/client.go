// Package servicenow talks to the ServiceNow table API.
package servicenow

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/custodia-labs/qbusiness-connectors/internal/adapters/driven/connectors"
	"github.com/custodia-labs/qbusiness-connectors/internal/core/domain"
	"github.com/custodia-labs/qbusiness-connectors/internal/core/ports/driven"
)

// Ensure Client implements ServiceNowClient
var _ driven.ServiceNowClient = (*Client)(nil)

// Client provides ServiceNow table API operations.
type Client struct {
	http *connectors.Client

	// instanceURL maps an instance name to its base URL.
	instanceURL func(instance string) string
}

// NewClient creates a ServiceNow client.
func NewClient(httpClient *http.Client) *Client {
	return &Client{
		http: connectors.NewClient("ServiceNow", httpClient),
		instanceURL: func(instance string) string {
			return "https://" + instance + ".service-now.com"
		},
	}
}

// WithBaseURL sends every instance's requests to baseURL.
func (c *Client) WithBaseURL(baseURL string) *Client {
	base := strings.TrimRight(baseURL, "/")
	c.instanceURL = func(string) string { return base }
	return c
}

// CreateOAuthApp inserts an oauth_entity record authenticated as the admin.
func (c *Client) CreateOAuthApp(ctx context.Context, admin domain.ServiceNowAdmin, app domain.ServiceNowOAuthApp) (*domain.ServiceNowOAuthApp, error) {
	record := app
	record.SysID = ""

	var out struct {
		Result struct {
			SysID string `json:"sys_id"`
		} `json:"result"`
	}
	endpoint := c.instanceURL(admin.Instance) + "/api/now/table/oauth_entity"
	if err := c.http.JSON(ctx, http.MethodPost, endpoint, connectors.BasicAuth(admin.Username, admin.Password), record, &out); err != nil {
		var se *connectors.StatusError
		if errors.As(err, &se) && se.Status == http.StatusUnauthorized {
			return nil, fmt.Errorf("%w: ServiceNow rejected the admin credentials", err)
		}
		return nil, err
	}
	if out.Result.SysID == "" {
		return nil, fmt.Errorf("%w: ServiceNow returned no sys_id for %s", domain.ErrUpstream, app.Name)
	}

	created := app
	created.SysID = out.Result.SysID
	return &created, nil
}
