package services

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/qbusiness-connectors/internal/core/domain"
	"github.com/custodia-labs/qbusiness-connectors/internal/core/ports/driven/mocks"
	"github.com/custodia-labs/qbusiness-connectors/internal/core/ports/driving"
)

// recordingSleeper returns immediately and remembers each requested delay.
type recordingSleeper struct {
	delays []time.Duration
}

func (r *recordingSleeper) sleep(ctx context.Context, d time.Duration) error {
	r.delays = append(r.delays, d)
	return ctx.Err()
}

func newOperationsFixture(logs *mocks.MockLogQuerier) (*mocks.MockQBusiness, *recordingSleeper, driving.OperationsService) {
	qb := mocks.NewMockQBusiness()
	sleeper := &recordingSleeper{}
	svc := NewOperationsService(OperationsServiceConfig{
		Runtime:   testRuntime(),
		QBusiness: qb,
		Logs:      logs,
		Sleep:     sleeper.sleep,
	})
	return qb, sleeper, svc
}

func TestOperationsService_ListApplications(t *testing.T) {
	qb, _, svc := newOperationsFixture(mocks.NewMockLogQuerier())
	qb.ListApplicationsFn = func(ctx context.Context) ([]domain.Application, error) {
		return []domain.Application{{ID: "app-1", Name: "Support"}, {ID: "app-2", Name: "Sales"}}, nil
	}
	qb.ListIndicesFn = func(ctx context.Context, applicationID string) ([]domain.Index, error) {
		if applicationID == "app-2" {
			return nil, nil
		}
		return []domain.Index{{ID: "idx-1"}}, nil
	}
	qb.ListDataSourcesFn = func(ctx context.Context, applicationID, indexID string) ([]domain.DataSourceSummary, error) {
		return []domain.DataSourceSummary{{Name: "zendesk", ID: "ds-1", Type: "ZENDESK", Status: "ACTIVE"}}, nil
	}

	resp, err := svc.ListApplications(context.Background())
	require.NoError(t, err)

	require.Len(t, resp.Applications, 2)
	assert.Equal(t, "Support", resp.Applications[0].ApplicationName)
	require.Len(t, resp.Applications[0].Indices, 1)
	assert.Equal(t, "ds-1", resp.Applications[0].Indices[0].DataSources[0].ID)
	assert.Empty(t, resp.Applications[1].Indices)
}

func TestOperationsService_ListApplications_Error(t *testing.T) {
	qb, _, svc := newOperationsFixture(mocks.NewMockLogQuerier())
	qb.ListApplicationsFn = func(ctx context.Context) ([]domain.Application, error) {
		return nil, errors.New("AccessDeniedException")
	}

	_, err := svc.ListApplications(context.Background())
	require.Error(t, err)
	assert.Equal(t, domain.KindUpstream, domain.KindOf(err))
}

func TestOperationsService_SyncDataSource(t *testing.T) {
	qb, _, svc := newOperationsFixture(mocks.NewMockLogQuerier())
	var got domain.DataSourceKey
	qb.StartSyncFn = func(ctx context.Context, key domain.DataSourceKey) (string, error) {
		got = key
		return "exec-42", nil
	}

	resp, err := svc.SyncDataSource(context.Background(), driving.DataSourceRequest{
		QBusinessApplicationID: "app-1",
		IndexID:                "idx-1",
		QDataSourceID:          "ds-1",
		DataSourceID:           "ignored",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.DataSourceKey{ApplicationID: "app-1", IndexID: "idx-1", DataSourceID: "ds-1"}, got)
	assert.Equal(t, "exec-42", resp.ExecutionID)
	assert.Equal(t, "2026-03-01T12:00:00Z", resp.Timestamp)
}

func TestOperationsService_SyncDataSource_MissingIDs(t *testing.T) {
	_, _, svc := newOperationsFixture(mocks.NewMockLogQuerier())

	_, err := svc.SyncDataSource(context.Background(), driving.DataSourceRequest{ApplicationID: "app-1"})
	require.Error(t, err)

	de := domain.AsError(err)
	assert.Equal(t, http.StatusBadRequest, de.StatusCode())
	assert.Equal(t, []string{"datasourceId", "indexId"}, de.Missing)
	assert.Equal(t, missingDataSourceParams, de.Message)
}

func TestOperationsService_SyncDataSource_Conflict(t *testing.T) {
	qb, _, svc := newOperationsFixture(mocks.NewMockLogQuerier())
	qb.StartSyncFn = func(ctx context.Context, key domain.DataSourceKey) (string, error) {
		return "", domain.ErrConflict
	}

	_, err := svc.SyncDataSource(context.Background(), driving.DataSourceRequest{ApplicationID: "a", IndexID: "i", DatasourceID: "d"})
	require.Error(t, err)

	de := domain.AsError(err)
	assert.Equal(t, http.StatusConflict, de.StatusCode())
	assert.Equal(t, "A sync is already in progress for this data source", de.Message)
}

func TestOperationsService_SyncSummary(t *testing.T) {
	qb, _, svc := newOperationsFixture(mocks.NewMockLogQuerier())
	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	qb.ListSyncJobsFn = func(ctx context.Context, q domain.SyncJobQuery) ([]domain.SyncJob, error) {
		return []domain.SyncJob{{ExecutionID: "exec-1", Status: "SUCCEEDED", StartTime: &started}}, nil
	}

	resp, err := svc.SyncSummary(context.Background(), driving.SyncSummaryRequest{
		DataSourceRequest: driving.DataSourceRequest{ApplicationID: "a", IndexID: "i", DatasourceID: "d"},
	})
	require.NoError(t, err)
	require.Len(t, resp.Metrics, 1)
	assert.Equal(t, "Sync history fetched successfully", resp.Message)

	require.Len(t, qb.SyncQueries, 1)
	q := qb.SyncQueries[0]
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, now.Add(-5*time.Hour), q.StartTime)
	assert.Equal(t, now.Add(24*time.Hour), q.EndTime)
	assert.Equal(t, int32(10), q.MaxResults)
}

func TestOperationsService_SyncSummary_EmptyHistory(t *testing.T) {
	qb, _, svc := newOperationsFixture(mocks.NewMockLogQuerier())

	resp, err := svc.SyncSummary(context.Background(), driving.SyncSummaryRequest{
		DataSourceRequest: driving.DataSourceRequest{ApplicationID: "a", IndexID: "i", DatasourceID: "d"},
		Since:             48,
	})
	require.NoError(t, err)
	assert.NotNil(t, resp.Metrics)
	assert.Empty(t, resp.Metrics)
	assert.Equal(t, time.Date(2026, 2, 27, 12, 0, 0, 0, time.UTC), qb.SyncQueries[0].StartTime)
}

func TestOperationsService_AnalyzeLogs(t *testing.T) {
	logs := mocks.NewMockLogQuerier(
		&domain.LogQueryResult{Status: domain.LogQueryRunning},
		&domain.LogQueryResult{Status: domain.LogQueryComplete, Rows: []map[string]string{
			{"@ingestionTime": "1750882988000", "DocumentId": "doc-1", "ErrorCode": "AccessDenied", "ErrorMessage": "forbidden"},
		}},
	)
	_, sleeper, svc := newOperationsFixture(logs)

	resp, err := svc.AnalyzeLogs(context.Background(), driving.AnalyzeLogsRequest{
		DataSourceRequest: driving.DataSourceRequest{ApplicationID: "app-1", DatasourceID: "ds-1"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Logs fetched successfully", resp.Message)
	require.Len(t, resp.Logs, 1)
	assert.Equal(t, domain.LogError{Timestamp: "1750882988000", DocumentID: "doc-1", ErrorCode: "AccessDenied", ErrorMessage: "forbidden"}, resp.Logs[0])

	require.Len(t, logs.Queries, 1)
	q := logs.Queries[0]
	assert.Equal(t, "/aws/qbusiness/app-1", q.LogGroup)
	assert.Equal(t, int32(1000), q.Limit)
	assert.Equal(t, 4000*time.Minute, q.EndTime.Sub(q.StartTime))

	assert.Equal(t, 2, logs.Polls)
	assert.Equal(t, []time.Duration{5 * time.Second, 7500 * time.Millisecond}, sleeper.delays)
}

func TestOperationsService_AnalyzeLogs_Timeout(t *testing.T) {
	logs := mocks.NewMockLogQuerier()
	_, sleeper, svc := newOperationsFixture(logs)

	_, err := svc.AnalyzeLogs(context.Background(), driving.AnalyzeLogsRequest{
		DataSourceRequest: driving.DataSourceRequest{ApplicationID: "app-1", DatasourceID: "ds-1"},
	})
	require.Error(t, err)

	de := domain.AsError(err)
	assert.Equal(t, http.StatusRequestTimeout, de.StatusCode())
	assert.Equal(t, "Query Timeout", de.Title)
	assert.Equal(t, 12, logs.Polls)
	assert.Len(t, sleeper.delays, 12)
	assert.Equal(t, 20*time.Second, sleeper.delays[11])
}

func TestOperationsService_AnalyzeLogs_QueryGone(t *testing.T) {
	logs := mocks.NewMockLogQuerier()
	logs.ResultsErr = domain.ErrNotFound
	_, _, svc := newOperationsFixture(logs)

	_, err := svc.AnalyzeLogs(context.Background(), driving.AnalyzeLogsRequest{
		DataSourceRequest: driving.DataSourceRequest{ApplicationID: "app-1", DatasourceID: "ds-1"},
	})
	require.Error(t, err)

	de := domain.AsError(err)
	assert.Equal(t, http.StatusRequestTimeout, de.StatusCode())
	assert.Equal(t, "Query Timeout", de.Title)
	assert.Equal(t, 1, logs.Polls)
}

func TestOperationsService_AnalyzeLogs_QueryFailed(t *testing.T) {
	logs := mocks.NewMockLogQuerier(&domain.LogQueryResult{Status: domain.LogQueryFailed})
	_, _, svc := newOperationsFixture(logs)

	_, err := svc.AnalyzeLogs(context.Background(), driving.AnalyzeLogsRequest{
		DataSourceRequest: driving.DataSourceRequest{ApplicationID: "app-1", DatasourceID: "ds-1"},
	})
	require.Error(t, err)
	assert.Equal(t, domain.KindUpstream, domain.KindOf(err))
	assert.Equal(t, 1, logs.Polls)
}

func TestOperationsService_AnalyzeLogs_MissingLogGroup(t *testing.T) {
	logs := mocks.NewMockLogQuerier()
	logs.StartQueryFn = func(ctx context.Context, q domain.LogQuery) (string, error) {
		return "", domain.ErrNotFound
	}
	_, _, svc := newOperationsFixture(logs)

	_, err := svc.AnalyzeLogs(context.Background(), driving.AnalyzeLogsRequest{
		DataSourceRequest: driving.DataSourceRequest{ApplicationID: "app-1", DatasourceID: "ds-1"},
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, domain.AsError(err).StatusCode())
	assert.Equal(t, 0, logs.Polls)
}

func TestOperationsService_AnalyzeLogs_Cancelled(t *testing.T) {
	_, _, svc := newOperationsFixture(mocks.NewMockLogQuerier())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.AnalyzeLogs(ctx, driving.AnalyzeLogsRequest{
		DataSourceRequest: driving.DataSourceRequest{ApplicationID: "app-1", DatasourceID: "ds-1"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
