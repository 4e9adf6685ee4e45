package driving

import (
	"context"

	"github.com/custodia-labs/qbusiness-connectors/internal/core/domain"
)

// ServiceNowService sets up ServiceNow OAuth apps and data sources.
type ServiceNowService interface {
	CreateOAuthApp(ctx context.Context, req ServiceNowOAuthAppRequest) (*ServiceNowOAuthAppResponse, error)
	CreateDataSource(ctx context.Context, req ServiceNowDataSourceRequest) (*DataSourceCreatedResponse, error)
	ListApplications(ctx context.Context) (*ApplicationTreeResponse, error)
}

// ServiceNowOAuthAppRequest creates an oauth_entity record.
type ServiceNowOAuthAppRequest struct {
	Name        string `json:"name" example:"qbusiness"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	Instance    string `json:"instance" example:"dev12345"`
	RedirectURL string `json:"redirectUrl"`
}

// ServiceNowOAuthAppResponse reports the generated OAuth client.
type ServiceNowOAuthAppResponse struct {
	AppName      string `json:"app_name"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	SysID        string `json:"sys_id"`
}

// ServiceNowDataSourceRequest creates a SERVICENOW data source.
type ServiceNowDataSourceRequest struct {
	DataSourceName string                   `json:"datasourceName"`
	ApplicationID  string                   `json:"applicationId"`
	IndexID        string                   `json:"indexId"`
	Instance       string                   `json:"instance"`
	Username       string                   `json:"username"`
	Password       string                   `json:"password"`
	ClientID       string                   `json:"clientId"`
	ClientSecret   string                   `json:"clientSecret"`
	Options        domain.ServiceNowOptions `json:",squash"`
}

// DataSourceCreatedResponse reports a created data source.
type DataSourceCreatedResponse struct {
	Message        string `json:"message"`
	DataSourceID   string `json:"dataSourceId"`
	DataSourceARN  string `json:"dataSourceArn,omitempty"`
	ApplicationID  string `json:"applicationId"`
	IndexID        string `json:"indexId"`
	DataSourceName string `json:"dataSourceName"`
	SecretName     string `json:"secretName,omitempty"`
	Status         string `json:"status,omitempty"`
	Instructions   string `json:"instructions,omitempty"`
}

// ApplicationTreeResponse lists applications with their indices and data sources.
type ApplicationTreeResponse struct {
	Applications []ApplicationTree `json:"applications"`
}

// ApplicationTree is one application with its indices.
type ApplicationTree struct {
	ApplicationID   string      `json:"qbusinessApplicationId"`
	ApplicationName string      `json:"qbusinessApplicationName"`
	Indices         []IndexTree `json:"indices"`
}

// IndexTree is one index with its data sources.
type IndexTree struct {
	IndexID     string                     `json:"indexId"`
	DataSources []domain.DataSourceSummary `json:"dataSources,omitempty"`
}
