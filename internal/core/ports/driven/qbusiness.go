package driven

import (
	"context"

	"github.com/custodia-labs/qbusiness-connectors/internal/core/domain"
)

// QBusiness is the Amazon Q Business control plane.
type QBusiness interface {
	// ListApplications returns every application in the account and region.
	ListApplications(ctx context.Context) ([]domain.Application, error)

	// ListIndices returns the indices of an application.
	ListIndices(ctx context.Context, applicationID string) ([]domain.Index, error)

	// ListDataSources returns the data sources of an index.
	ListDataSources(ctx context.Context, applicationID, indexID string) ([]domain.DataSourceSummary, error)

	// CreateDataSource submits a connector configuration.
	CreateDataSource(ctx context.Context, in domain.CreateDataSourceInput) (*domain.DataSourceRef, error)

	// StartSync starts a sync job. Returns domain.ErrConflict when a sync is
	// already running for the data source.
	StartSync(ctx context.Context, key domain.DataSourceKey) (string, error)

	// ListSyncJobs returns sync jobs inside the query window.
	ListSyncJobs(ctx context.Context, q domain.SyncJobQuery) ([]domain.SyncJob, error)

	// CreatePlugin registers a plugin on an application.
	CreatePlugin(ctx context.Context, in domain.CreatePluginInput) (*domain.PluginRef, error)
}

// LogQuerier runs Logs Insights queries.
type LogQuerier interface {
	// StartQuery starts a query and returns its id.
	// Returns domain.ErrNotFound when the log group does not exist.
	StartQuery(ctx context.Context, q domain.LogQuery) (string, error)

	// QueryResults returns the current status and rows of a query.
	QueryResults(ctx context.Context, queryID string) (*domain.LogQueryResult, error)
}

// AccountResolver resolves the calling AWS account.
type AccountResolver interface {
	AccountID(ctx context.Context) (string, error)
}
