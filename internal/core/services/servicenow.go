package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/custodia-labs/qbusiness-connectors/internal/core/domain"
	"github.com/custodia-labs/qbusiness-connectors/internal/core/ports/driven"
	"github.com/custodia-labs/qbusiness-connectors/internal/core/ports/driving"
)

// Ensure serviceNowService implements ServiceNowService
var _ driving.ServiceNowService = (*serviceNowService)(nil)

// ServiceNowServiceConfig holds dependencies for the ServiceNow service.
type ServiceNowServiceConfig struct {
	Runtime    Runtime
	Secrets    driven.SecretStore
	QBusiness  driven.QBusiness
	Accounts   driven.AccountResolver
	ServiceNow driven.ServiceNowClient
}

// serviceNowService implements the ServiceNowService interface
type serviceNowService struct {
	rt         Runtime
	secrets    driven.SecretStore
	qbusiness  driven.QBusiness
	accounts   driven.AccountResolver
	servicenow driven.ServiceNowClient
	logger     *slog.Logger
}

// NewServiceNowService creates a new ServiceNowService
func NewServiceNowService(cfg ServiceNowServiceConfig) driving.ServiceNowService {
	rt := cfg.Runtime.withDefaults()
	return &serviceNowService{
		rt:         rt,
		secrets:    cfg.Secrets,
		qbusiness:  cfg.QBusiness,
		accounts:   cfg.Accounts,
		servicenow: cfg.ServiceNow,
		logger:     rt.Logger.With("connector", "servicenow"),
	}
}

// CreateOAuthApp registers an OAuth client with generated credentials.
func (s *serviceNowService) CreateOAuthApp(ctx context.Context, req driving.ServiceNowOAuthAppRequest) (*driving.ServiceNowOAuthAppResponse, error) {
	if err := requireParams(map[string]string{
		"name":        req.Name,
		"username":    req.Username,
		"password":    req.Password,
		"instance":    req.Instance,
		"redirectUrl": req.RedirectURL,
	}); err != nil {
		return nil, err
	}

	app := domain.NewServiceNowOAuthApp(req.Name+"-"+s.rt.NewID(), req.RedirectURL, s.rt.NewID(), s.rt.NewID())
	created, err := s.servicenow.CreateOAuthApp(ctx, domain.ServiceNowAdmin{
		Instance: req.Instance,
		Username: req.Username,
		Password: req.Password,
	}, app)
	if err != nil {
		return nil, upstream("ServiceNow API Error", err)
	}
	s.logger.Info("oauth app created", "instance", req.Instance, "app", created.Name, "sys_id", created.SysID)

	return &driving.ServiceNowOAuthAppResponse{
		AppName:      created.Name,
		ClientID:     created.ClientID,
		ClientSecret: app.ClientSecret,
		SysID:        created.SysID,
	}, nil
}

// CreateDataSource stores the OAuth client and admin credentials and creates
// a SERVICENOW data source reading them.
func (s *serviceNowService) CreateDataSource(ctx context.Context, req driving.ServiceNowDataSourceRequest) (*driving.DataSourceCreatedResponse, error) {
	if err := requireParams(map[string]string{
		"datasourceName": req.DataSourceName,
		"applicationId":  req.ApplicationID,
		"indexId":        req.IndexID,
		"instance":       req.Instance,
		"username":       req.Username,
		"password":       req.Password,
		"clientId":       req.ClientID,
		"clientSecret":   req.ClientSecret,
	}); err != nil {
		return nil, err
	}
	if err := requireRole("DATA_SOURCE_ROLE_ARN", s.rt.DataSourceRoleARN); err != nil {
		return nil, err
	}

	secretName := domain.ServiceNowSecretName(req.Instance, req.ClientID)
	ref, err := s.secrets.Put(ctx, &domain.Secret{
		Name:        secretName,
		Description: "API credentials",
		Fields: map[string]string{
			"clientId":     req.ClientID,
			"clientSecret": req.ClientSecret,
			"username":     req.Username,
			"password":     req.Password,
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

	cfg := domain.BuildServiceNowConfig(req.Instance, arn, req.Options)
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
	s.logger.Info("data source created", "instance", req.Instance, "application", req.ApplicationID, "data_source", ds.ID)

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

// ListApplications walks applications, their indices and data sources.
func (s *serviceNowService) ListApplications(ctx context.Context) (*driving.ApplicationTreeResponse, error) {
	return listApplicationTree(ctx, s.qbusiness)
}
