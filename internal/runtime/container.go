// Package runtime wires configuration, driven adapters and services into
// the handlers served by the binaries.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/custodia-labs/qbusiness-connectors/internal/adapters/driven/amazon"
	"github.com/custodia-labs/qbusiness-connectors/internal/adapters/driven/auth"
	"github.com/custodia-labs/qbusiness-connectors/internal/adapters/driven/certs"
	"github.com/custodia-labs/qbusiness-connectors/internal/adapters/driven/connectors/graph"
	"github.com/custodia-labs/qbusiness-connectors/internal/adapters/driven/connectors/salesforce"
	"github.com/custodia-labs/qbusiness-connectors/internal/adapters/driven/connectors/servicenow"
	"github.com/custodia-labs/qbusiness-connectors/internal/adapters/driven/connectors/zendesk"
	"github.com/custodia-labs/qbusiness-connectors/internal/adapters/driven/postgres"
	redisadapter "github.com/custodia-labs/qbusiness-connectors/internal/adapters/driven/redis"
	"github.com/custodia-labs/qbusiness-connectors/internal/adapters/driven/sealer"
	"github.com/custodia-labs/qbusiness-connectors/internal/adapters/driving/lambda"
	"github.com/custodia-labs/qbusiness-connectors/internal/config"
	"github.com/custodia-labs/qbusiness-connectors/internal/core/ports/driven"
	"github.com/custodia-labs/qbusiness-connectors/internal/core/ports/driving"
	"github.com/custodia-labs/qbusiness-connectors/internal/core/services"
)

// Container holds the services built for one process. Clients are created
// once and shared by every invocation.
type Container struct {
	mu      sync.Mutex
	closers []func() error

	Salesforce driving.SalesforceService
	ServiceNow driving.ServiceNowService
	SharePoint driving.SharePointService
	Zendesk    driving.ZendeskService
	Operations driving.OperationsService
	Helper     driving.HelperService
}

// New builds every connector service from cfg.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}
	awsCfg, err := amazon.LoadConfig(ctx, cfg.Region)
	if err != nil {
		return nil, err
	}

	c := &Container{}
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	rt := services.Runtime{
		Region:            cfg.Region,
		DataSourceRoleARN: cfg.DataSourceRoleARN,
		PluginRoleARN:     cfg.PluginRoleARN,
		CertificateBucket: cfg.CertificateBucket,
		APIGatewayURL:     cfg.APIGatewayURL,
		Logger:            logger,
	}

	secrets := amazon.NewSecretStoreFromConfig(awsCfg, logger)
	qbusiness := amazon.NewQBusinessFromConfig(awsCfg, logger)
	accounts := amazon.NewAccountResolverFromConfig(awsCfg)

	c.Salesforce = services.NewSalesforceService(services.SalesforceServiceConfig{
		Runtime:    rt,
		Secrets:    secrets,
		QBusiness:  qbusiness,
		Accounts:   accounts,
		Salesforce: salesforce.NewClient(httpClient, logger),
	})
	c.ServiceNow = services.NewServiceNowService(services.ServiceNowServiceConfig{
		Runtime:    rt,
		Secrets:    secrets,
		QBusiness:  qbusiness,
		Accounts:   accounts,
		ServiceNow: servicenow.NewClient(httpClient),
	})
	c.SharePoint = services.NewSharePointService(services.SharePointServiceConfig{
		Runtime:   rt,
		Secrets:   secrets,
		QBusiness: qbusiness,
		Accounts:  accounts,
		Graph:     graph.NewClient(httpClient),
		Certs:     certs.NewGenerator(),
		Objects:   amazon.NewObjectStoreFromConfig(awsCfg),
	})
	c.Operations = services.NewOperationsService(services.OperationsServiceConfig{
		Runtime:   rt,
		QBusiness: qbusiness,
		Logs:      amazon.NewLogQuerierFromConfig(awsCfg),
	})
	c.Helper = services.NewHelperService(logger)

	var dynamo driven.OAuthStateStore
	if cfg.StateTable != "" {
		dynamo = amazon.NewStateStoreFromConfig(awsCfg, cfg.StateTable)
	}
	store, err := c.stateStore(ctx, cfg, dynamo)
	if err != nil {
		c.Close()
		return nil, err
	}
	if store == nil {
		logger.Warn("zendesk oauth routes disabled: STATE_TABLE_NAME not set")
		return c, nil
	}

	var seal driven.PayloadSealer
	if cfg.StateSealKey != "" {
		s, err := sealer.NewFromBase64(cfg.StateSealKey)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("STATE_ENCRYPTION_KEY: %w", err)
		}
		seal = s
	}
	c.Zendesk = services.NewZendeskService(services.ZendeskServiceConfig{
		Runtime:   rt,
		Secrets:   secrets,
		QBusiness: qbusiness,
		Zendesk:   zendesk.NewClient(httpClient),
		States: services.NewStateManager(services.StateManagerConfig{
			Store:  store,
			Sealer: seal,
			TTL:    cfg.StateTTL,
			Logger: logger,
		}),
	})
	return c, nil
}

// stateStore connects the configured OAuth state backend. A nil store with
// a nil error means the backend is not configured.
func (c *Container) stateStore(ctx context.Context, cfg *config.Config, dynamo driven.OAuthStateStore) (driven.OAuthStateStore, error) {
	switch cfg.StateBackend {
	case config.StateBackendRedis:
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		c.onClose(client.Close)
		return redisadapter.NewStateStore(client), nil

	case config.StateBackendPostgres:
		db, err := postgres.Connect(ctx, postgres.DefaultConfig(cfg.DatabaseURL))
		if err != nil {
			return nil, err
		}
		c.onClose(db.Close)
		if err := db.InitSchema(ctx); err != nil {
			return nil, err
		}
		return postgres.NewOAuthStateStoreWithTTL(db, cfg.StateTTL), nil
	}
	return dynamo, nil
}

func (c *Container) onClose(fn func() error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closers = append(c.closers, fn)
}

// Router returns the Lambda router over the built services.
func (c *Container) Router(cfg *config.Config, logger *slog.Logger) *lambda.Router {
	return lambda.NewRouter(lambda.Config{
		HandlerName:   cfg.HandlerName,
		AllowedOrigin: cfg.AllowedOrigin,
		Logger:        logger,
	}, lambda.Services{
		Salesforce: c.Salesforce,
		ServiceNow: c.ServiceNow,
		SharePoint: c.SharePoint,
		Zendesk:    c.Zendesk,
		Operations: c.Operations,
		Helper:     c.Helper,
	})
}

// Close releases backend connections in reverse order.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}

// NewAuthorizer builds the authorizer service and the verifier it uses.
func NewAuthorizer(cfg *config.Config, logger *slog.Logger) (driving.AuthorizerService, *auth.Adapter) {
	verifier := auth.NewAdapter(cfg.AuthorizerJWTSecret)
	return services.NewAuthorizerService(services.AuthorizerServiceConfig{
		HeaderName:      cfg.AuthorizerHeaderName,
		HeaderValue:     cfg.AuthorizerHeaderValue,
		HeaderValueHash: cfg.AuthorizerHeaderValueHash,
		BearerTokens:    cfg.BearerTokens(),
		Verifier:        verifier,
		Logger:          logger,
	}), verifier
}
