package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/custodia-labs/qbusiness-connectors/internal/core/domain"
	"github.com/custodia-labs/qbusiness-connectors/internal/core/ports/driven"
	"github.com/custodia-labs/qbusiness-connectors/internal/core/ports/driving"
)

// Ensure operationsService implements OperationsService
var _ driving.OperationsService = (*operationsService)(nil)

// Query windows applied when the caller sends no since value.
const (
	DefaultSyncSummaryHours = 5
	DefaultLogWindowMinutes = 4000

	syncSummaryMaxResults = 10
	logQueryLimit         = 1000
)

const missingDataSourceParams = "Missing required parameters. Please provide applicationId, indexId, and datasourceId"

// OperationsServiceConfig holds dependencies for the operations service.
type OperationsServiceConfig struct {
	Runtime   Runtime
	QBusiness driven.QBusiness
	Logs      driven.LogQuerier

	// Backoff paces Logs Insights polling. Defaults to domain.DefaultQueryBackoff().
	Backoff domain.Backoff

	// Sleep waits between polls. Defaults to SleepContext.
	Sleep Sleeper
}

// operationsService implements the OperationsService interface
type operationsService struct {
	rt        Runtime
	qbusiness driven.QBusiness
	logs      driven.LogQuerier
	backoff   domain.Backoff
	sleep     Sleeper
	logger    *slog.Logger
}

// NewOperationsService creates a new OperationsService
func NewOperationsService(cfg OperationsServiceConfig) driving.OperationsService {
	rt := cfg.Runtime.withDefaults()
	s := &operationsService{
		rt:        rt,
		qbusiness: cfg.QBusiness,
		logs:      cfg.Logs,
		backoff:   cfg.Backoff,
		sleep:     cfg.Sleep,
		logger:    rt.Logger.With("component", "operations"),
	}
	if s.backoff.MaxAttempts == 0 {
		s.backoff = domain.DefaultQueryBackoff()
	}
	if s.sleep == nil {
		s.sleep = SleepContext
	}
	return s
}

// ListApplications walks applications, their indices and data sources.
func (s *operationsService) ListApplications(ctx context.Context) (*driving.ApplicationTreeResponse, error) {
	return listApplicationTree(ctx, s.qbusiness)
}

// listApplicationTree is shared by every service that exposes the application listing.
func listApplicationTree(ctx context.Context, qb driven.QBusiness) (*driving.ApplicationTreeResponse, error) {
	apps, err := qb.ListApplications(ctx)
	if err != nil {
		return nil, upstream("List Applications Failed", err)
	}

	resp := &driving.ApplicationTreeResponse{Applications: make([]driving.ApplicationTree, 0, len(apps))}
	for _, app := range apps {
		indices, err := qb.ListIndices(ctx, app.ID)
		if err != nil {
			return nil, upstream("List Indices Failed", err)
		}
		tree := driving.ApplicationTree{
			ApplicationID:   app.ID,
			ApplicationName: app.Name,
			Indices:         make([]driving.IndexTree, 0, len(indices)),
		}
		for _, idx := range indices {
			sources, err := qb.ListDataSources(ctx, app.ID, idx.ID)
			if err != nil {
				return nil, upstream("List Data Sources Failed", err)
			}
			tree.Indices = append(tree.Indices, driving.IndexTree{IndexID: idx.ID, DataSources: sources})
		}
		resp.Applications = append(resp.Applications, tree)
	}
	return resp, nil
}

func requireDataSourceKey(key domain.DataSourceKey) error {
	if key.ApplicationID == "" || key.IndexID == "" || key.DataSourceID == "" {
		e := domain.MissingFieldsError(domain.MissingFields(map[string]string{
			"applicationId": key.ApplicationID,
			"indexId":       key.IndexID,
			"datasourceId":  key.DataSourceID,
		}, "applicationId", "indexId", "datasourceId"))
		e.Message = missingDataSourceParams
		return e
	}
	return nil
}

// SyncDataSource starts a sync job. A running job yields a 409.
func (s *operationsService) SyncDataSource(ctx context.Context, req driving.DataSourceRequest) (*driving.SyncStartedResponse, error) {
	key := req.Key()
	if err := requireDataSourceKey(key); err != nil {
		return nil, err
	}

	execID, err := s.qbusiness.StartSync(ctx, key)
	if errors.Is(err, domain.ErrConflict) {
		return nil, domain.ConflictError("Conflict", "A sync is already in progress for this data source", err)
	}
	if err != nil {
		return nil, upstream("Sync Failed", err)
	}
	s.logger.Info("sync started", "application", key.ApplicationID, "data_source", key.DataSourceID, "execution", execID)

	return &driving.SyncStartedResponse{
		Message:       "Data source sync job started successfully",
		ExecutionID:   execID,
		ApplicationID: key.ApplicationID,
		IndexID:       key.IndexID,
		DataSourceID:  key.DataSourceID,
		Timestamp:     s.rt.Now().UTC().Format(time.RFC3339),
	}, nil
}

// SyncSummary lists the most recent sync jobs started within the window.
func (s *operationsService) SyncSummary(ctx context.Context, req driving.SyncSummaryRequest) (*driving.SyncSummaryResponse, error) {
	key := req.Key()
	if err := requireDataSourceKey(key); err != nil {
		return nil, err
	}
	hours := req.Since
	if hours <= 0 {
		hours = DefaultSyncSummaryHours
	}

	now := s.rt.Now()
	jobs, err := s.qbusiness.ListSyncJobs(ctx, domain.SyncJobQuery{
		DataSourceKey: key,
		StartTime:     now.Add(-time.Duration(hours) * time.Hour),
		EndTime:       now.Add(24 * time.Hour),
		MaxResults:    syncSummaryMaxResults,
	})
	if err != nil {
		return nil, upstream("Sync Summary Failed", err)
	}
	if jobs == nil {
		jobs = []domain.SyncJob{}
	}
	return &driving.SyncSummaryResponse{Message: "Sync history fetched successfully", Metrics: jobs}, nil
}

// AnalyzeLogs runs the connector error query over the application log group
// and polls until it completes.
func (s *operationsService) AnalyzeLogs(ctx context.Context, req driving.AnalyzeLogsRequest) (*driving.AnalyzeLogsResponse, error) {
	key := req.Key()
	if err := requireParams(map[string]string{
		"applicationId": key.ApplicationID,
		"datasourceId":  key.DataSourceID,
	}); err != nil {
		return nil, err
	}
	minutes := req.Since
	if minutes <= 0 {
		minutes = DefaultLogWindowMinutes
	}

	now := s.rt.Now()
	queryID, err := s.logs.StartQuery(ctx, domain.LogQuery{
		LogGroup:  domain.LogGroupName(key.ApplicationID),
		Query:     domain.DataSourceErrorQuery(key.DataSourceID),
		StartTime: now.Add(-time.Duration(minutes) * time.Minute),
		EndTime:   now,
		Limit:     logQueryLimit,
	})
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NotFoundError("Log Group Not Found",
			fmt.Sprintf("No logs exist for application %s", key.ApplicationID))
	}
	if err != nil {
		return nil, upstream("Log Query Failed", err)
	}

	var result *domain.LogQueryResult
	err = Poll(ctx, s.backoff, s.sleep, func(ctx context.Context) (bool, error) {
		r, err := s.logs.QueryResults(ctx, queryID)
		if err != nil {
			return false, err
		}
		result = r
		return r.Status.Done(), nil
	})
	// A query the service no longer knows about is reported as a timeout.
	if errors.Is(err, domain.ErrTimeout) || errors.Is(err, domain.ErrNotFound) {
		s.logger.Warn("log query did not finish", "query", queryID, "attempts", s.backoff.MaxAttempts, "error", err)
		return nil, domain.TimeoutError("Query Timeout", "The CloudWatch Logs query is taking too long to complete")
	}
	if err != nil {
		return nil, upstream("Log Query Failed", err)
	}
	if result.Status != domain.LogQueryComplete {
		return nil, domain.UpstreamError("Log Query Failed", fmt.Errorf("%w: query ended with status %s", domain.ErrUpstream, result.Status))
	}

	logs := make([]domain.LogError, 0, len(result.Rows))
	for _, row := range result.Rows {
		logs = append(logs, domain.LogErrorFromRow(row))
	}
	return &driving.AnalyzeLogsResponse{Message: "Logs fetched successfully", Logs: logs}, nil
}
