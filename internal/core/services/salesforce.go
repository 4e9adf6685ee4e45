package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/custodia-labs/qbusiness-connectors/internal/core/domain"
	"github.com/custodia-labs/qbusiness-connectors/internal/core/ports/driven"
	"github.com/custodia-labs/qbusiness-connectors/internal/core/ports/driving"
)

// Ensure salesforceService implements SalesforceService
var _ driving.SalesforceService = (*salesforceService)(nil)

// Secret descriptions written by the Salesforce flows.
const (
	salesforceSecretDescription = "Salesforce credentials for Amazon Q Business connector"
	actionsSecretDescription    = "Salesforce Actions credentials for Amazon Q Business Actions Plugin"
	salesforceDataSourceDesc    = "Salesforce data source created via Amazon Q Business connector"
	salesforceAuthorizeURL      = domain.SalesforceLoginHost + "/services/oauth2/authorize"
	salesforceTokenURL          = domain.SalesforceLoginHost + "/services/oauth2/token"
)

// SalesforceServiceConfig holds dependencies for the Salesforce service.
type SalesforceServiceConfig struct {
	Runtime    Runtime
	Secrets    driven.SecretStore
	QBusiness  driven.QBusiness
	Accounts   driven.AccountResolver
	Salesforce driven.SalesforceClient
}

// salesforceService implements the SalesforceService interface
type salesforceService struct {
	rt         Runtime
	secrets    driven.SecretStore
	qbusiness  driven.QBusiness
	accounts   driven.AccountResolver
	salesforce driven.SalesforceClient
	logger     *slog.Logger
}

// NewSalesforceService creates a new SalesforceService
func NewSalesforceService(cfg SalesforceServiceConfig) driving.SalesforceService {
	rt := cfg.Runtime.withDefaults()
	return &salesforceService{
		rt:         rt,
		secrets:    cfg.Secrets,
		qbusiness:  cfg.QBusiness,
		accounts:   cfg.Accounts,
		salesforce: cfg.Salesforce,
		logger:     rt.Logger.With("connector", "salesforce"),
	}
}

// CreateConnectedApp logs in over SOAP, creates the connected app and stores
// the initial credentials secret.
func (s *salesforceService) CreateConnectedApp(ctx context.Context, req driving.CreateConnectedAppRequest) (*driving.CreateConnectedAppResponse, error) {
	if err := requireParams(map[string]string{
		"hostUrl":          req.HostURL,
		"username":         req.Username,
		"password":         req.Password,
		"securityToken":    req.SecurityToken,
		"connectedAppName": req.ConnectedAppName,
		"contactEmail":     req.ContactEmail,
	}); err != nil {
		return nil, err
	}

	hostURL := strings.TrimRight(req.HostURL, "/")
	creds := domain.SalesforceCredentials{
		Username:      req.Username,
		Password:      req.Password,
		SecurityToken: req.SecurityToken,
		LoginURL:      domain.SalesforceLoginURL(hostURL),
	}
	session, err := s.salesforce.Login(ctx, creds)
	if err != nil {
		return nil, upstream("Connected App Creation Failed", err)
	}

	instanceURL := session.InstanceURL
	if instanceURL == "" {
		instanceURL = domain.SalesforceInstanceURL(session.ServerURL)
	}
	callbackURL := domain.SalesforceCallbackURL(instanceURL)
	uniqueName := domain.AppUniqueName(req.ConnectedAppName, s.rt.shortID())

	app := domain.NewDataConnectorApp(req.ConnectedAppName, uniqueName, req.Description, req.ContactEmail, callbackURL)
	appID, err := s.salesforce.CreateConnectedApp(ctx, session, app)
	if err != nil {
		return nil, upstream("Connected App Creation Failed", err)
	}
	s.logger.Info("connected app created", "app", uniqueName, "id", appID, "instance", instanceURL)

	secretName := "qbusiness-salesforce-credentials-" + s.rt.shortID()
	_, err = s.secrets.Put(ctx, &domain.Secret{
		Name:        secretName,
		Description: salesforceSecretDescription,
		Fields: map[string]string{
			domain.SalesforceFieldHostURL:           hostURL,
			domain.SalesforceFieldUsername:          req.Username,
			domain.SalesforceFieldPassword:          req.Password,
			domain.SalesforceFieldSecurityToken:     req.SecurityToken,
			domain.SalesforceFieldAuthenticationURL: callbackURL,
			domain.SalesforceFieldConnectedAppName:  req.ConnectedAppName,
			domain.SalesforceFieldAppUniqueName:     uniqueName,
			domain.SalesforceFieldConsumerKey:       "",
			domain.SalesforceFieldConsumerSecret:    "",
		},
	})
	if err != nil {
		return nil, domain.InternalError(fmt.Errorf("store credentials: %w", err))
	}

	return &driving.CreateConnectedAppResponse{
		Message:          "Connected App created successfully! Please check your email for verification code.",
		ConnectedAppID:   appID,
		ConnectedAppName: req.ConnectedAppName,
		AppUniqueName:    uniqueName,
		SecretName:       secretName,
		CallbackURL:      callbackURL,
		InstanceURL:      instanceURL,
		ContactEmail:     req.ContactEmail,
		Instructions: []string{
			"Connected App has been created successfully in Salesforce",
			"A verification email has been sent to: " + req.ContactEmail,
			"Next steps:",
			"1. Check your email for the verification code",
			"2. Go to Salesforce Setup > App Manager",
			"3. Find your Connected App: " + req.ConnectedAppName,
			"4. Click 'View' then 'Manage Consumer Details'",
			"5. Enter the verification code from your email",
			"6. Copy the Consumer Key and Consumer Secret",
			"7. Use the 'Update Salesforce Credentials' function to store them",
			"Secret name for next step: " + secretName,
		},
	}, nil
}

// CreateActionsConnectedApp creates the connected app whose callback is the
// Q Business web experience. No secret is written.
func (s *salesforceService) CreateActionsConnectedApp(ctx context.Context, req driving.CreateActionsConnectedAppRequest) (*driving.CreateConnectedAppResponse, error) {
	if err := requireParams(map[string]string{
		"hostUrl":           req.HostURL,
		"username":          req.Username,
		"password":          req.Password,
		"securityToken":     req.SecurityToken,
		"qBusinessEndpoint": req.QBusinessEndpoint,
		"contactEmail":      req.ContactEmail,
	}); err != nil {
		return nil, err
	}

	name := req.ConnectedAppName
	if name == "" {
		name = domain.DefaultActionsAppName
	}
	endpoint := strings.TrimRight(req.QBusinessEndpoint, "/")
	redirectURL := domain.ActionsRedirectURL(endpoint)

	session, err := s.salesforce.Login(ctx, domain.SalesforceCredentials{
		Username:      req.Username,
		Password:      req.Password,
		SecurityToken: req.SecurityToken,
		LoginURL:      domain.SalesforceLoginURL(req.HostURL),
	})
	if err != nil {
		return nil, upstream("Salesforce Actions Connected App Creation Failed", err)
	}

	uniqueName := domain.AppUniqueName(name, s.rt.shortID())
	app := domain.NewActionsApp(name, uniqueName, req.Description, req.ContactEmail, redirectURL)
	appID, err := s.salesforce.CreateConnectedApp(ctx, session, app)
	if err != nil {
		return nil, upstream("Salesforce Actions Connected App Creation Failed", err)
	}
	s.logger.Info("actions connected app created", "app", uniqueName, "id", appID)

	return &driving.CreateConnectedAppResponse{
		Message:           "Salesforce Actions Connected App created successfully!",
		ConnectedAppID:    appID,
		ConnectedAppName:  name,
		AppUniqueName:     uniqueName,
		RedirectURL:       redirectURL,
		QBusinessEndpoint: endpoint,
		InstanceURL:       session.InstanceURL,
		ContactEmail:      req.ContactEmail,
		Purpose:           "Salesforce Actions",
		Instructions: []string{
			"Salesforce Actions Connected App has been created successfully",
			"This Connected App is specifically configured for Salesforce Actions",
			"Redirect URL configured: " + redirectURL,
			"Next steps to get Consumer Key and Secret:",
			"1. Go to Salesforce Setup > App Manager",
			"2. Find your Connected App: " + name,
			"3. Click 'View' then click 'Manage Consumer Details' button",
			"4. A verification code will be sent to your email at this point",
			"5. Check your email for the verification code",
			"6. Enter the verification code in Salesforce",
			"7. Copy the Consumer Key (Client ID) and Consumer Secret",
			"8. Use 'Setup Salesforce Actions Plugin' with these credentials:",
			"   - Client ID: [from Salesforce]",
			"   - Client Secret: [from Salesforce]",
			"   - Redirect URL: " + redirectURL,
		},
	}, nil
}

// UpdateCredentials merges the consumer key and secret into an existing secret.
func (s *salesforceService) UpdateCredentials(ctx context.Context, req driving.UpdateCredentialsRequest) (*driving.UpdateCredentialsResponse, error) {
	if err := requireParams(map[string]string{
		"secretName":     req.SecretName,
		"consumerKey":    req.ConsumerKey,
		"consumerSecret": req.ConsumerSecret,
	}); err != nil {
		return nil, err
	}

	existing, err := s.secrets.Get(ctx, req.SecretName)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NotFoundError("Secret not found",
			fmt.Sprintf("The secret '%s' does not exist. Please create the Connected App first.", req.SecretName))
	}
	if err != nil {
		return nil, domain.InternalError(fmt.Errorf("read secret: %w", err))
	}

	merged := domain.MergeFields(existing, map[string]string{
		domain.SalesforceFieldConsumerKey:    req.ConsumerKey,
		domain.SalesforceFieldConsumerSecret: req.ConsumerSecret,
	})
	if _, err := s.secrets.Update(ctx, req.SecretName, merged); err != nil {
		return nil, domain.InternalError(fmt.Errorf("update secret: %w", err))
	}

	maskedKey := domain.MaskSecret(req.ConsumerKey, domain.MaskKeyWidth)
	s.logger.Info("consumer credentials stored", "secret", req.SecretName, "consumer_key", maskedKey)

	return &driving.UpdateCredentialsResponse{
		Message:        "Salesforce credentials updated successfully!",
		SecretName:     req.SecretName,
		ConsumerKey:    maskedKey,
		ConsumerSecret: domain.MaskSecret(req.ConsumerSecret, domain.MaskKeyWidth),
		Instructions: []string{
			"Consumer Key and Consumer Secret have been stored successfully",
			"Secret name: " + req.SecretName,
			"Consumer Key: " + maskedKey,
			"Consumer Secret: [STORED SECURELY]",
			"Credentials are now ready for use",
			"You can now proceed to test authentication",
			"Use this secret name for creating the data source",
		},
	}, nil
}

// TestAuthentication runs the password grant with the stored credentials.
func (s *salesforceService) TestAuthentication(ctx context.Context, req driving.TestAuthenticationRequest) (*driving.TestAuthenticationResponse, error) {
	if err := requireParams(map[string]string{"secretName": req.SecretName}); err != nil {
		return nil, err
	}

	fields, err := s.secrets.Get(ctx, req.SecretName, domain.SalesforceAuthFields...)
	if err != nil {
		var de *domain.Error
		if errors.As(err, &de) {
			return nil, err
		}
		return nil, domain.NotFoundError("Secret Not Found", "Failed to retrieve credentials: "+err.Error())
	}

	hostURL := fields[domain.SalesforceFieldHostURL]
	token, err := s.salesforce.PasswordToken(ctx,
		domain.SalesforceCredentials{
			Username:      fields[domain.SalesforceFieldUsername],
			Password:      fields[domain.SalesforceFieldPassword],
			SecurityToken: fields[domain.SalesforceFieldSecurityToken],
			LoginURL:      domain.SalesforceLoginURL(hostURL),
		},
		domain.SalesforceOAuthClient{
			ConsumerKey:    fields[domain.SalesforceFieldConsumerKey],
			ConsumerSecret: fields[domain.SalesforceFieldConsumerSecret],
		})
	if err != nil {
		s.logger.Warn("password grant failed", "secret", req.SecretName, "error", err)
		return nil, authFailure(err)
	}

	info, err := s.salesforce.UserInfo(ctx, token)
	if err != nil || info == nil {
		s.logger.Debug("user info unavailable", "error", err)
		info = &domain.SalesforceUserInfo{Status: "User info not available"}
	}

	tokenType := token.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}
	return &driving.TestAuthenticationResponse{
		Message:     "Authentication test successful!",
		Success:     true,
		AccessToken: domain.MaskSecret(token.AccessToken, domain.MaskTokenWidth),
		InstanceURL: token.InstanceURL,
		TokenType:   tokenType,
		Scope:       token.Scope,
		SecretName:  req.SecretName,
		UserInfo:    info,
	}, nil
}

// authFailure reports a rejected password grant as 401, keeping the partner's
// status line and description.
func authFailure(err error) error {
	e := &domain.Error{
		Kind:    domain.KindUpstream,
		Status:  http.StatusUnauthorized,
		Title:   "Authentication test failed",
		Message: err.Error(),
		Err:     err,
	}
	var de *domain.Error
	if errors.As(err, &de) {
		e.Message = de.Message
		e.Details = de.Details
	}
	return e
}

// CreateDataSource creates a SALESFORCE data source bound to a credentials secret.
func (s *salesforceService) CreateDataSource(ctx context.Context, req driving.SalesforceDataSourceRequest) (*driving.SalesforceDataSourceResponse, error) {
	if err := requireParams(map[string]string{
		"qBusinessApplicationId": req.ApplicationID,
		"qBusinessIndexId":       req.IndexID,
		"dataSourceName":         req.DataSourceName,
		"secretName":             req.SecretName,
	}); err != nil {
		return nil, err
	}
	if err := requireRole("DATA_SOURCE_ROLE_ARN", s.rt.DataSourceRoleARN); err != nil {
		return nil, err
	}

	fields, err := s.secrets.Get(ctx, req.SecretName, domain.SalesforceFieldHostURL)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NotFoundError("Secret not found",
			fmt.Sprintf("The secret '%s' does not exist.", req.SecretName))
	}
	if err != nil {
		return nil, err
	}
	arn, err := secretARN(ctx, s.rt, s.secrets, s.accounts, req.SecretName)
	if err != nil {
		return nil, domain.InternalError(err)
	}

	hostURL := fields[domain.SalesforceFieldHostURL]
	cfg := domain.BuildSalesforceConfig(hostURL, arn, req.Options)
	ref, err := s.qbusiness.CreateDataSource(ctx, domain.CreateDataSourceInput{
		ApplicationID: req.ApplicationID,
		IndexID:       req.IndexID,
		DisplayName:   req.DataSourceName,
		Description:   salesforceDataSourceDesc,
		RoleARN:       s.rt.DataSourceRoleARN,
		Configuration: cfg,
	})
	if err != nil {
		return nil, upstream("Data Source Creation Failed", err)
	}
	s.logger.Info("data source created", "application", req.ApplicationID, "index", req.IndexID, "data_source", ref.ID)

	return &driving.SalesforceDataSourceResponse{
		Message:       "Salesforce data source created successfully!",
		DataSourceID:  ref.ID,
		DataSourceARN: ref.ARN,
		SecretName:    req.SecretName,
		Configuration: driving.SalesforceConfigSummary{
			HostURL:         hostURL,
			SyncMode:        req.Options.EffectiveSyncMode(),
			IncludedObjects: req.Options.IncludedObjects(),
		},
	}, nil
}

// SetupActionsPlugin stores the actions client credentials and creates a
// SALESFORCE_CRM plugin pointing at the instance REST root.
func (s *salesforceService) SetupActionsPlugin(ctx context.Context, req driving.SetupActionsPluginRequest) (*driving.SetupActionsPluginResponse, error) {
	if err := requireParams(map[string]string{
		"clientId":               req.ClientID,
		"clientSecret":           req.ClientSecret,
		"redirectUrl":            req.RedirectURL,
		"salesforceDomainUrl":    req.SalesforceDomainURL,
		"qBusinessApplicationId": req.ApplicationID,
	}); err != nil {
		return nil, err
	}
	if err := requireRole("PLUGIN_SERVICE_ROLE_ARN", s.rt.PluginRoleARN); err != nil {
		return nil, err
	}

	pluginName := req.PluginName
	if pluginName == "" {
		pluginName = domain.DefaultActionsPluginName
	}
	serverURL := domain.SalesforcePluginServerURL(req.SalesforceDomainURL)

	secretName := "QBusiness-Salesforce_crm-plugin-" + s.rt.shortID()
	if _, err := s.secrets.Put(ctx, &domain.Secret{
		Name:        secretName,
		Description: actionsSecretDescription,
		Fields: map[string]string{
			"client_id":     req.ClientID,
			"client_secret": req.ClientSecret,
			"redirect_uri":  req.RedirectURL,
		},
	}); err != nil {
		return nil, domain.InternalError(fmt.Errorf("store actions credentials: %w", err))
	}

	arn, err := secretARN(ctx, s.rt, s.secrets, s.accounts, secretName)
	if err != nil {
		return nil, domain.InternalError(err)
	}
	plugin, err := s.qbusiness.CreatePlugin(ctx, domain.CreatePluginInput{
		ApplicationID:    req.ApplicationID,
		DisplayName:      pluginName,
		Type:             domain.PluginTypeSalesforceCRM,
		ServerURL:        serverURL,
		SecretARN:        arn,
		RoleARN:          s.rt.PluginRoleARN,
		AuthorizationURL: salesforceAuthorizeURL,
		TokenURL:         salesforceTokenURL,
	})
	if err != nil {
		e := domain.AsError(upstream("Salesforce Actions Plugin Creation Failed", err))
		e.Details = "Secret " + secretName + " was stored before the plugin call failed"
		return nil, e
	}
	s.logger.Info("actions plugin created", "application", req.ApplicationID, "plugin", plugin.ID)

	return &driving.SetupActionsPluginResponse{
		Message:       "Salesforce Actions Plugin created successfully!",
		PluginID:      plugin.ID,
		PluginARN:     plugin.ARN,
		BuildStatus:   plugin.Build,
		PluginName:    pluginName,
		SecretName:    secretName,
		ServerURL:     serverURL,
		ApplicationID: req.ApplicationID,
		Configuration: driving.ActionsPluginSettings{
			ClientID:         req.ClientID,
			AuthorizationURL: salesforceAuthorizeURL,
			TokenURL:         salesforceTokenURL,
			RedirectURL:      req.RedirectURL,
		},
		Instructions: []string{
			"Salesforce Actions Plugin has been created successfully!",
			"Plugin ID: " + plugin.ID,
			"Plugin Name: " + pluginName,
			"Secret Name: " + secretName,
			"Users can now perform Salesforce actions from Amazon Q Business",
			"Actions depend on user permissions in Salesforce",
		},
	}, nil
}
