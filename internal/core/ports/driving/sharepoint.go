package driving

import (
	"context"

	"github.com/custodia-labs/qbusiness-connectors/internal/core/domain"
)

// SharePointService sets up Azure AD apps, certificates and SharePoint data sources.
type SharePointService interface {
	CreateAzureApp(ctx context.Context, req CreateAzureAppRequest) (*CreateAzureAppResponse, error)
	DeleteAzureApp(ctx context.Context, req DeleteAzureAppRequest) (*MessageResponse, error)
	CreateCertificate(ctx context.Context, req CreateCertificateRequest) (*CreateCertificateResponse, error)
	UploadCertificate(ctx context.Context, req UploadCertificateRequest) (*UploadCertificateResponse, error)
	CreateDataSource(ctx context.Context, req SharePointDataSourceRequest) (*DataSourceCreatedResponse, error)
}

// CreateAzureAppRequest registers an app with SharePoint permissions.
type CreateAzureAppRequest struct {
	TenantID       string `json:"tenantId"`
	AdminAppID     string `json:"adminAppId"`
	AdminAppSecret string `json:"adminAppSecret"`
	AzureAppName   string `json:"azureAppName" example:"qbusiness-sharepoint"`
}

// CreateAzureAppResponse reports the registered app and its client secret.
type CreateAzureAppResponse struct {
	Message          string   `json:"message"`
	ObjectID         string   `json:"object_id"`
	ClientID         string   `json:"application_client_id"`
	ClientSecret     string   `json:"client_secret"`
	SecretID         string   `json:"secret_id"`
	DisplayName      string   `json:"display_name"`
	TenantID         string   `json:"tenant_id"`
	PermissionStatus string   `json:"permission_status"`
	AppURL           string   `json:"app_url"`
	Instructions     []string `json:"instructions"`
}

// DeleteAzureAppRequest deletes an app registration.
type DeleteAzureAppRequest struct {
	TenantID       string `json:"tenantId"`
	AdminAppID     string `json:"adminAppId"`
	AdminAppSecret string `json:"adminAppSecret"`
	ObjectID       string `json:"objectId"`
}

// CreateCertificateRequest generates a certificate for an app.
type CreateCertificateRequest struct {
	AppID   string                    `json:"appId"`
	Subject domain.CertificateSubject `json:",squash"`
}

// CreateCertificateResponse reports where the certificate material is stored.
type CreateCertificateResponse struct {
	Message     string            `json:"message"`
	Certificate StoredCertificate `json:"certificate"`
	PrivateKey  StoredPrivateKey  `json:"private_key"`
	ClientID    string            `json:"clientId"`
}

// StoredCertificate locates the certificate object.
type StoredCertificate struct {
	Bucket string `json:"bucket"`
	Path   string `json:"certificatePath"`
	Format string `json:"format"`
}

// StoredPrivateKey locates the private key object.
type StoredPrivateKey struct {
	Bucket     string `json:"bucket"`
	Path       string `json:"privateKeyPath"`
	Encryption string `json:"encryption"`
}

// UploadCertificateRequest registers a stored certificate on an app.
type UploadCertificateRequest struct {
	S3Bucket  string `json:"s3Bucket"`
	TenantID  string `json:"tenantId"`
	ObjectID  string `json:"objectId"`
	AppID     string `json:"appId"`
	AppSecret string `json:"appSecret"`
}

// UploadCertificateResponse reports the registered certificate.
type UploadCertificateResponse struct {
	Message         string `json:"message"`
	ApplicationID   string `json:"applicationId"`
	CertificateName string `json:"certificateName"`
	CertificatePath string `json:"certificatePath"`
}

// SharePointDataSourceRequest creates a SHAREPOINT data source.
type SharePointDataSourceRequest struct {
	ApplicationID  string                   `json:"applicationId"`
	IndexID        string                   `json:"indexId"`
	DataSourceName string                   `json:"dataSourceName"`
	SharePointURL  string                   `json:"sharePointUrl"`
	TenantID       string                   `json:"tenantId"`
	ClientID       string                   `json:"clientId"`
	S3Bucket       string                   `json:"s3Bucket,omitempty"`
	Options        domain.SharePointOptions `json:",squash"`
}
