package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/custodia-labs/qbusiness-connectors/internal/core/domain"
	"github.com/custodia-labs/qbusiness-connectors/internal/core/ports/driven"
	"github.com/custodia-labs/qbusiness-connectors/internal/core/ports/driving"
)

// Ensure sharePointService implements SharePointService
var _ driving.SharePointService = (*sharePointService)(nil)

const (
	sharePointPermissionStatus = "Sites.FullControl permission has been assigned but requires admin consent"
	sharePointCertificateName  = "cert_display_name"
	certificateFormat          = "PEM encoded X.509 (.crt)"
	privateKeyEncryption       = "S3 Server-Side Encryption (AES256)"
)

// SharePointServiceConfig holds dependencies for the SharePoint service.
type SharePointServiceConfig struct {
	Runtime   Runtime
	Secrets   driven.SecretStore
	QBusiness driven.QBusiness
	Accounts  driven.AccountResolver
	Graph     driven.GraphClient
	Certs     driven.CertificateGenerator
	Objects   driven.ObjectStore
}

// sharePointService implements the SharePointService interface
type sharePointService struct {
	rt        Runtime
	secrets   driven.SecretStore
	qbusiness driven.QBusiness
	accounts  driven.AccountResolver
	graph     driven.GraphClient
	certs     driven.CertificateGenerator
	objects   driven.ObjectStore
	logger    *slog.Logger
}

// NewSharePointService creates a new SharePointService
func NewSharePointService(cfg SharePointServiceConfig) driving.SharePointService {
	rt := cfg.Runtime.withDefaults()
	return &sharePointService{
		rt:        rt,
		secrets:   cfg.Secrets,
		qbusiness: cfg.QBusiness,
		accounts:  cfg.Accounts,
		graph:     cfg.Graph,
		certs:     cfg.Certs,
		objects:   cfg.Objects,
		logger:    rt.Logger.With("connector", "sharepoint"),
	}
}

// CreateAzureApp registers an app requesting Sites.FullControl on Graph and
// SharePoint, creates its service principal and adds a client secret.
func (s *sharePointService) CreateAzureApp(ctx context.Context, req driving.CreateAzureAppRequest) (*driving.CreateAzureAppResponse, error) {
	if err := requireParams(map[string]string{
		"tenantId":       req.TenantID,
		"adminAppId":     req.AdminAppID,
		"adminAppSecret": req.AdminAppSecret,
		"azureAppName":   req.AzureAppName,
	}); err != nil {
		return nil, err
	}
	creds := domain.AzureCredentials{TenantID: req.TenantID, ClientID: req.AdminAppID, ClientSecret: req.AdminAppSecret}

	graph, err := s.graph.FindServicePrincipal(ctx, creds, domain.GraphDisplayName)
	if err != nil {
		return nil, upstream("Microsoft Graph service principal not found", err)
	}
	sharePoint, err := s.graph.FindServicePrincipal(ctx, creds, domain.SharePointDisplayName)
	if err != nil {
		return nil, upstream("SharePoint service principal not found", err)
	}
	appReq, err := domain.SharePointAppRequest(req.AzureAppName, graph, sharePoint)
	if err != nil {
		return nil, upstream("Required permissions not available", err)
	}

	app, err := s.graph.CreateApplication(ctx, creds, appReq)
	if err != nil {
		return nil, upstream("Azure App Creation Failed", err)
	}
	if err := s.graph.CreateServicePrincipal(ctx, creds, app.AppID); err != nil {
		return nil, upstream("Service Principal Creation Failed", err)
	}
	password, err := s.graph.AddPassword(ctx, creds, app.ObjectID, domain.DefaultClientSecretName, s.rt.Now().AddDate(1, 0, 0))
	if err != nil {
		return nil, upstream("Client Secret Creation Failed", err)
	}
	s.logger.Info("azure app created",
		"tenant", req.TenantID,
		"app_id", app.AppID,
		"object_id", app.ObjectID,
		"client_secret", domain.MaskSecret(password.SecretText, domain.MaskKeyWidth))

	appURL := domain.EntraAppURL(app.AppID)
	return &driving.CreateAzureAppResponse{
		Message:          "Azure app created. Please ensure that you grant admin consent to the created application.",
		ObjectID:         app.ObjectID,
		ClientID:         app.AppID,
		ClientSecret:     password.SecretText,
		SecretID:         password.KeyID,
		DisplayName:      app.DisplayName,
		TenantID:         req.TenantID,
		PermissionStatus: sharePointPermissionStatus,
		AppURL:           appURL,
		Instructions: []string{
			"Go to Azure Portal > Azure Active Directory > App registrations",
			fmt.Sprintf("Find '%s' > API permissions > Grant admin consent", req.AzureAppName),
			"You can directly navigate to your app from here " + appURL,
		},
	}, nil
}

// DeleteAzureApp deletes an app registration by object id.
func (s *sharePointService) DeleteAzureApp(ctx context.Context, req driving.DeleteAzureAppRequest) (*driving.MessageResponse, error) {
	if err := requireParams(map[string]string{
		"tenantId":       req.TenantID,
		"adminAppId":     req.AdminAppID,
		"adminAppSecret": req.AdminAppSecret,
		"objectId":       req.ObjectID,
	}); err != nil {
		e := domain.AsError(err)
		e.Message = "Missing required parameters. Please provide tenantId, adminAppId, adminAppSecret, and objectId."
		return nil, e
	}

	creds := domain.AzureCredentials{TenantID: req.TenantID, ClientID: req.AdminAppID, ClientSecret: req.AdminAppSecret}
	if err := s.graph.DeleteApplication(ctx, creds, req.ObjectID); err != nil {
		return nil, upstream("Error deleting application", err)
	}
	s.logger.Info("azure app deleted", "tenant", req.TenantID, "object_id", req.ObjectID)

	return &driving.MessageResponse{
		Message: fmt.Sprintf("Application with ID %s has been successfully deleted.", req.ObjectID),
	}, nil
}

// CreateCertificate generates a self-signed certificate and stores it with
// its private key under the app id in the certificate bucket.
func (s *sharePointService) CreateCertificate(ctx context.Context, req driving.CreateCertificateRequest) (*driving.CreateCertificateResponse, error) {
	if err := requireParams(map[string]string{"appId": req.AppID}); err != nil {
		return nil, err
	}
	if err := requireRole("CERTIFICATE_BUCKET_NAME", s.rt.CertificateBucket); err != nil {
		return nil, err
	}
	bucket := s.rt.CertificateBucket

	cert, err := s.certs.Generate(req.Subject.WithDefaults())
	if err != nil {
		return nil, domain.InternalError(fmt.Errorf("generate certificate: %w", err))
	}

	certKey := domain.SharePointCertificateKey(req.AppID)
	keyKey := domain.SharePointPrivateKeyKey(req.AppID)
	if err := s.objects.Put(ctx, bucket, certKey, cert.CertPEM, "application/x-x509-ca-cert"); err != nil {
		return nil, upstream("Certificate Upload Failed", err)
	}
	if err := s.objects.Put(ctx, bucket, keyKey, cert.KeyPEM, "application/x-pem-file"); err != nil {
		return nil, upstream("Private Key Upload Failed", err)
	}
	s.logger.Info("certificate stored", "app_id", req.AppID, "bucket", bucket, "expires", cert.NotAfter)

	return &driving.CreateCertificateResponse{
		Message:     "Certificate and private key generated and uploaded to S3",
		Certificate: driving.StoredCertificate{Bucket: bucket, Path: certKey, Format: certificateFormat},
		PrivateKey:  driving.StoredPrivateKey{Bucket: bucket, Path: keyKey, Encryption: privateKeyEncryption},
		ClientID:    req.AppID,
	}, nil
}

// UploadCertificate registers the stored certificate of an app as its key
// credential, authenticating as the app itself.
func (s *sharePointService) UploadCertificate(ctx context.Context, req driving.UploadCertificateRequest) (*driving.UploadCertificateResponse, error) {
	bucket := s.bucket(req.S3Bucket)
	if err := requireParams(map[string]string{
		"s3Bucket":  bucket,
		"tenantId":  req.TenantID,
		"objectId":  req.ObjectID,
		"appId":     req.AppID,
		"appSecret": req.AppSecret,
	}); err != nil {
		return nil, err
	}

	certKey := domain.SharePointCertificateKey(req.AppID)
	certPEM, err := s.objects.Get(ctx, bucket, certKey)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NotFoundError("Certificate Not Found",
			fmt.Sprintf("No certificate exists at s3://%s/%s. Please create the certificate first.", bucket, certKey))
	}
	if err != nil {
		return nil, upstream("Certificate update process failed", err)
	}
	cert, err := s.certs.Parse(certPEM)
	if err != nil {
		return nil, domain.ClientError("Certificate update process failed", err.Error())
	}

	creds := domain.AzureCredentials{TenantID: req.TenantID, ClientID: req.AppID, ClientSecret: req.AppSecret}
	err = s.graph.SetKeyCredential(ctx, creds, req.ObjectID, domain.KeyCredential{
		DisplayName:   sharePointCertificateName,
		Key:           certPEM,
		StartDateTime: cert.NotBefore,
		EndDateTime:   cert.NotAfter,
	})
	if err != nil {
		return nil, upstream("Certificate update process failed", err)
	}
	s.logger.Info("certificate registered", "app_id", req.AppID, "object_id", req.ObjectID)

	return &driving.UploadCertificateResponse{
		Message:         "Certificate updated successfully",
		ApplicationID:   req.ObjectID,
		CertificateName: sharePointCertificateName,
		CertificatePath: certKey,
	}, nil
}

// CreateDataSource stores the app private key as the data source secret and
// creates a SHAREPOINT data source authenticating with the app certificate.
func (s *sharePointService) CreateDataSource(ctx context.Context, req driving.SharePointDataSourceRequest) (*driving.DataSourceCreatedResponse, error) {
	bucket := s.bucket(req.S3Bucket)
	if err := requireParams(map[string]string{
		"applicationId":  req.ApplicationID,
		"indexId":        req.IndexID,
		"dataSourceName": req.DataSourceName,
		"sharePointUrl":  req.SharePointURL,
		"tenantId":       req.TenantID,
		"clientId":       req.ClientID,
		"s3Bucket":       bucket,
	}); err != nil {
		return nil, err
	}
	if err := requireRole("DATA_SOURCE_ROLE_ARN", s.rt.DataSourceRoleARN); err != nil {
		return nil, err
	}
	siteDomain, err := domain.SharePointDomain(req.SharePointURL)
	if err != nil {
		return nil, domain.ClientError("Invalid SharePoint URL", err.Error())
	}

	keyKey := domain.SharePointPrivateKeyKey(req.ClientID)
	privateKey, err := s.objects.Get(ctx, bucket, keyKey)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NotFoundError("Private Key Not Found",
			fmt.Sprintf("No private key exists at s3://%s/%s. Please create the certificate first.", bucket, keyKey))
	}
	if err != nil {
		return nil, upstream("Private Key Download Failed", err)
	}

	secretName := domain.SharePointSecretName(siteDomain, req.ClientID)
	ref, err := s.secrets.Put(ctx, &domain.Secret{
		Name:        secretName,
		Description: "API credentials",
		Fields: map[string]string{
			"clientId":   req.ClientID,
			"privateKey": strings.TrimSpace(string(privateKey)),
			"authType":   domain.SharePointAuthType,
		},
	})
	if err != nil {
		return nil, domain.InternalError(fmt.Errorf("store credentials: %w", err))
	}
	arn := ref.ARN
	if arn == "" {
		if arn, err = secretARN(ctx, s.rt, s.secrets, s.accounts, secretName); err != nil {
			return nil, domain.InternalError(err)
		}
	}

	cfg, err := domain.BuildSharePointConfig(domain.SharePointSite{
		SiteURL:  req.SharePointURL,
		TenantID: req.TenantID,
		Bucket:   bucket,
		ClientID: req.ClientID,
	}, arn, req.Options)
	if err != nil {
		return nil, domain.ClientError("Invalid SharePoint URL", err.Error())
	}
	ds, err := s.qbusiness.CreateDataSource(ctx, domain.CreateDataSourceInput{
		ApplicationID: req.ApplicationID,
		IndexID:       req.IndexID,
		DisplayName:   req.DataSourceName,
		RoleARN:       s.rt.DataSourceRoleARN,
		Configuration: cfg,
	})
	if err != nil {
		return nil, upstream("Data Source Creation Failed", err)
	}
	s.logger.Info("data source created", "site", req.SharePointURL, "application", req.ApplicationID, "data_source", ds.ID)

	return &driving.DataSourceCreatedResponse{
		Message:        "QBusiness Data Source has been created",
		DataSourceID:   ds.ID,
		DataSourceARN:  ds.ARN,
		ApplicationID:  req.ApplicationID,
		IndexID:        req.IndexID,
		DataSourceName: req.DataSourceName,
		SecretName:     secretName,
	}, nil
}

// bucket falls back to the configured certificate bucket.
func (s *sharePointService) bucket(requested string) string {
	if requested != "" {
		return requested
	}
	return s.rt.CertificateBucket
}
