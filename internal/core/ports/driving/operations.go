package driving

import (
	"context"

	"github.com/custodia-labs/qbusiness-connectors/internal/core/domain"
)

// OperationsService manages existing Q Business data sources.
type OperationsService interface {
	ListApplications(ctx context.Context) (*ApplicationTreeResponse, error)
	SyncDataSource(ctx context.Context, req DataSourceRequest) (*SyncStartedResponse, error)
	SyncSummary(ctx context.Context, req SyncSummaryRequest) (*SyncSummaryResponse, error)
	AnalyzeLogs(ctx context.Context, req AnalyzeLogsRequest) (*AnalyzeLogsResponse, error)
}

// DataSourceRequest addresses a data source. Each id accepts its aliases.
type DataSourceRequest struct {
	QBusinessApplicationID string `json:"qbusinessApplicationId"`
	ApplicationID          string `json:"applicationId"`
	QIndexID               string `json:"qindexId"`
	IndexID                string `json:"indexId"`
	QDataSourceID          string `json:"qdatasourceId"`
	DatasourceID           string `json:"datasourceId"`
	DataSourceID           string `json:"dataSourceId"`
}

// Key resolves the aliases into a data source key.
func (r DataSourceRequest) Key() domain.DataSourceKey {
	return domain.DataSourceKey{
		ApplicationID: firstOf(r.QBusinessApplicationID, r.ApplicationID),
		IndexID:       firstOf(r.QIndexID, r.IndexID),
		DataSourceID:  firstOf(r.QDataSourceID, r.DatasourceID, r.DataSourceID),
	}
}

// SyncStartedResponse reports a started sync job.
type SyncStartedResponse struct {
	Message       string `json:"message"`
	ExecutionID   string `json:"executionId"`
	ApplicationID string `json:"applicationId"`
	IndexID       string `json:"indexId"`
	DataSourceID  string `json:"datasourceId"`
	Timestamp     string `json:"timestamp"`
}

// SyncSummaryRequest selects recent sync jobs; Since is in hours.
type SyncSummaryRequest struct {
	DataSourceRequest `json:",squash"`
	Since             int `json:"since"`
}

// SyncSummaryResponse lists recent sync jobs.
type SyncSummaryResponse struct {
	Message string           `json:"message"`
	Metrics []domain.SyncJob `json:"metrics"`
}

// AnalyzeLogsRequest selects connector errors; Since is in minutes.
type AnalyzeLogsRequest struct {
	DataSourceRequest `json:",squash"`
	Since             int `json:"since"`
}

// AnalyzeLogsResponse lists connector errors.
type AnalyzeLogsResponse struct {
	Message string            `json:"message"`
	Logs    []domain.LogError `json:"logs"`
}

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
