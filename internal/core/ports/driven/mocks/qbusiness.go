package mocks

import (
	"context"
	"sync"

	"github.com/custodia-labs/qbusiness-connectors/internal/core/domain"
	"github.com/custodia-labs/qbusiness-connectors/internal/core/ports/driven"
)

// Ensure MockQBusiness implements QBusiness
var _ driven.QBusiness = (*MockQBusiness)(nil)

// MockQBusiness is a mock implementation of QBusiness for testing.
// Calls without a function set return empty results.
type MockQBusiness struct {
	ListApplicationsFn func(ctx context.Context) ([]domain.Application, error)
	ListIndicesFn      func(ctx context.Context, applicationID string) ([]domain.Index, error)
	ListDataSourcesFn  func(ctx context.Context, applicationID, indexID string) ([]domain.DataSourceSummary, error)
	CreateDataSourceFn func(ctx context.Context, in domain.CreateDataSourceInput) (*domain.DataSourceRef, error)
	StartSyncFn        func(ctx context.Context, key domain.DataSourceKey) (string, error)
	ListSyncJobsFn     func(ctx context.Context, q domain.SyncJobQuery) ([]domain.SyncJob, error)
	CreatePluginFn     func(ctx context.Context, in domain.CreatePluginInput) (*domain.PluginRef, error)

	mu          sync.Mutex
	DataSources []domain.CreateDataSourceInput
	Plugins     []domain.CreatePluginInput
	SyncQueries []domain.SyncJobQuery
}

func NewMockQBusiness() *MockQBusiness {
	return &MockQBusiness{}
}

func (m *MockQBusiness) ListApplications(ctx context.Context) ([]domain.Application, error) {
	if m.ListApplicationsFn != nil {
		return m.ListApplicationsFn(ctx)
	}
	return nil, nil
}

func (m *MockQBusiness) ListIndices(ctx context.Context, applicationID string) ([]domain.Index, error) {
	if m.ListIndicesFn != nil {
		return m.ListIndicesFn(ctx, applicationID)
	}
	return nil, nil
}

func (m *MockQBusiness) ListDataSources(ctx context.Context, applicationID, indexID string) ([]domain.DataSourceSummary, error) {
	if m.ListDataSourcesFn != nil {
		return m.ListDataSourcesFn(ctx, applicationID, indexID)
	}
	return nil, nil
}

func (m *MockQBusiness) CreateDataSource(ctx context.Context, in domain.CreateDataSourceInput) (*domain.DataSourceRef, error) {
	m.mu.Lock()
	m.DataSources = append(m.DataSources, in)
	m.mu.Unlock()
	if m.CreateDataSourceFn != nil {
		return m.CreateDataSourceFn(ctx, in)
	}
	return &domain.DataSourceRef{ID: "ds-1", ARN: "arn:aws:qbusiness:us-east-1:123456789012:application/" + in.ApplicationID + "/index/" + in.IndexID + "/data-source/ds-1"}, nil
}

func (m *MockQBusiness) StartSync(ctx context.Context, key domain.DataSourceKey) (string, error) {
	if m.StartSyncFn != nil {
		return m.StartSyncFn(ctx, key)
	}
	return "exec-1", nil
}

func (m *MockQBusiness) ListSyncJobs(ctx context.Context, q domain.SyncJobQuery) ([]domain.SyncJob, error) {
	m.mu.Lock()
	m.SyncQueries = append(m.SyncQueries, q)
	m.mu.Unlock()
	if m.ListSyncJobsFn != nil {
		return m.ListSyncJobsFn(ctx, q)
	}
	return nil, nil
}

func (m *MockQBusiness) CreatePlugin(ctx context.Context, in domain.CreatePluginInput) (*domain.PluginRef, error) {
	m.mu.Lock()
	m.Plugins = append(m.Plugins, in)
	m.mu.Unlock()
	if m.CreatePluginFn != nil {
		return m.CreatePluginFn(ctx, in)
	}
	return &domain.PluginRef{ID: "plugin-1", Build: "READY"}, nil
}

// Ensure MockLogQuerier implements LogQuerier
var _ driven.LogQuerier = (*MockLogQuerier)(nil)

// MockLogQuerier returns scripted query states. Each QueryResults call
// consumes the next entry of Results; the last entry repeats.
type MockLogQuerier struct {
	StartQueryFn func(ctx context.Context, q domain.LogQuery) (string, error)
	Results      []*domain.LogQueryResult
	ResultsErr   error

	mu      sync.Mutex
	Queries []domain.LogQuery
	Polls   int
}

func NewMockLogQuerier(results ...*domain.LogQueryResult) *MockLogQuerier {
	return &MockLogQuerier{Results: results}
}

func (m *MockLogQuerier) StartQuery(ctx context.Context, q domain.LogQuery) (string, error) {
	m.mu.Lock()
	m.Queries = append(m.Queries, q)
	m.mu.Unlock()
	if m.StartQueryFn != nil {
		return m.StartQueryFn(ctx, q)
	}
	return "query-1", nil
}

func (m *MockLogQuerier) QueryResults(ctx context.Context, queryID string) (*domain.LogQueryResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Polls++
	if m.ResultsErr != nil {
		return nil, m.ResultsErr
	}
	if len(m.Results) == 0 {
		return &domain.LogQueryResult{Status: domain.LogQueryRunning}, nil
	}
	i := m.Polls - 1
	if i >= len(m.Results) {
		i = len(m.Results) - 1
	}
	return m.Results[i], nil
}

// Ensure MockAccountResolver implements AccountResolver
var _ driven.AccountResolver = (*MockAccountResolver)(nil)

// MockAccountResolver returns a fixed account id.
type MockAccountResolver struct {
	Account string
	Err     error
}

func (m *MockAccountResolver) AccountID(ctx context.Context) (string, error) {
	return m.Account, m.Err
}
