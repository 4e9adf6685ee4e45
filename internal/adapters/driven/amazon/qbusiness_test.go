package amazon

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/qbusiness"
	"github.com/aws/aws-sdk-go-v2/service/qbusiness/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/qbusiness-connectors/internal/core/domain"
)

type mockQBusiness struct {
	QBusinessAPI
	created   *qbusiness.CreateDataSourceInput
	plugin    *qbusiness.CreatePluginInput
	syncQuery *qbusiness.ListDataSourceSyncJobsInput
	startErr  error
	history   []types.DataSourceSyncJob
}

func (m *mockQBusiness) ListApplications(_ context.Context, in *qbusiness.ListApplicationsInput, _ ...func(*qbusiness.Options)) (*qbusiness.ListApplicationsOutput, error) {
	if in.NextToken == nil {
		return &qbusiness.ListApplicationsOutput{
			Applications: []types.Application{{ApplicationId: aws.String("app-1"), DisplayName: aws.String("One")}},
			NextToken:    aws.String("page-2"),
		}, nil
	}
	return &qbusiness.ListApplicationsOutput{
		Applications: []types.Application{{ApplicationId: aws.String("app-2"), DisplayName: aws.String("Two")}},
	}, nil
}

func (m *mockQBusiness) ListIndices(_ context.Context, in *qbusiness.ListIndicesInput, _ ...func(*qbusiness.Options)) (*qbusiness.ListIndicesOutput, error) {
	return &qbusiness.ListIndicesOutput{
		Indices: []types.Index{{IndexId: aws.String("idx-1"), DisplayName: aws.String("Main"), Status: types.IndexStatusActive}},
	}, nil
}

func (m *mockQBusiness) ListDataSources(_ context.Context, in *qbusiness.ListDataSourcesInput, _ ...func(*qbusiness.Options)) (*qbusiness.ListDataSourcesOutput, error) {
	return &qbusiness.ListDataSourcesOutput{
		DataSources: []types.DataSource{{
			DisplayName:  aws.String("ServiceNow-dev"),
			DataSourceId: aws.String("ds-1"),
			Type:         aws.String("SERVICENOWV2"),
			Status:       types.DataSourceStatusActive,
		}},
	}, nil
}

func (m *mockQBusiness) CreateDataSource(_ context.Context, in *qbusiness.CreateDataSourceInput, _ ...func(*qbusiness.Options)) (*qbusiness.CreateDataSourceOutput, error) {
	m.created = in
	return &qbusiness.CreateDataSourceOutput{DataSourceId: aws.String("ds-9"), DataSourceArn: aws.String("arn:ds-9")}, nil
}

func (m *mockQBusiness) StartDataSourceSyncJob(_ context.Context, in *qbusiness.StartDataSourceSyncJobInput, _ ...func(*qbusiness.Options)) (*qbusiness.StartDataSourceSyncJobOutput, error) {
	if m.startErr != nil {
		return nil, m.startErr
	}
	return &qbusiness.StartDataSourceSyncJobOutput{ExecutionId: aws.String("exec-1")}, nil
}

func (m *mockQBusiness) ListDataSourceSyncJobs(_ context.Context, in *qbusiness.ListDataSourceSyncJobsInput, _ ...func(*qbusiness.Options)) (*qbusiness.ListDataSourceSyncJobsOutput, error) {
	m.syncQuery = in
	return &qbusiness.ListDataSourceSyncJobsOutput{History: m.history}, nil
}

func (m *mockQBusiness) CreatePlugin(_ context.Context, in *qbusiness.CreatePluginInput, _ ...func(*qbusiness.Options)) (*qbusiness.CreatePluginOutput, error) {
	m.plugin = in
	return &qbusiness.CreatePluginOutput{PluginId: aws.String("plugin-1"), BuildStatus: types.PluginBuildStatusCreateInProgress}, nil
}

type testConfig struct {
	Type string `json:"type"`
}

func (testConfig) DataSourceType() domain.DataSourceType { return "TEST" }

func TestQBusiness_ListApplicationsFollowsPages(t *testing.T) {
	q := NewQBusiness(&mockQBusiness{}, nil)

	apps, err := q.ListApplications(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.Application{{ID: "app-1", Name: "One"}, {ID: "app-2", Name: "Two"}}, apps)
}

func TestQBusiness_ListIndicesAndDataSources(t *testing.T) {
	q := NewQBusiness(&mockQBusiness{}, nil)

	indices, err := q.ListIndices(context.Background(), "app-1")
	require.NoError(t, err)
	assert.Equal(t, []domain.Index{{ID: "idx-1", Name: "Main", Status: "ACTIVE"}}, indices)

	sources, err := q.ListDataSources(context.Background(), "app-1", "idx-1")
	require.NoError(t, err)
	assert.Equal(t, []domain.DataSourceSummary{{Name: "ServiceNow-dev", ID: "ds-1", Type: "SERVICENOWV2", Status: "ACTIVE"}}, sources)
}

func TestQBusiness_CreateDataSource(t *testing.T) {
	client := &mockQBusiness{}
	q := NewQBusiness(client, nil)

	ref, err := q.CreateDataSource(context.Background(), domain.CreateDataSourceInput{
		ApplicationID: "app-1",
		IndexID:       "idx-1",
		DisplayName:   "Test",
		RoleARN:       "arn:aws:iam::123456789012:role/ds",
		Configuration: testConfig{Type: "TEST"},
	})
	require.NoError(t, err)
	assert.Equal(t, "ds-9", ref.ID)
	assert.Equal(t, "arn:ds-9", ref.ARN)

	require.NotNil(t, client.created)
	assert.NotNil(t, client.created.Configuration)
	assert.Nil(t, client.created.Description)
	assert.Nil(t, client.created.SyncSchedule)
	assert.Equal(t, "arn:aws:iam::123456789012:role/ds", aws.ToString(client.created.RoleArn))
}

func TestQBusiness_StartSyncConflict(t *testing.T) {
	q := NewQBusiness(&mockQBusiness{
		startErr: apiErr("StartDataSourceSyncJob", "ConflictException", "sync already running"),
	}, nil)

	_, err := q.StartSync(context.Background(), domain.DataSourceKey{ApplicationID: "a", IndexID: "i", DataSourceID: "d"})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestQBusiness_StartSync(t *testing.T) {
	q := NewQBusiness(&mockQBusiness{}, nil)

	id, err := q.StartSync(context.Background(), domain.DataSourceKey{ApplicationID: "a", IndexID: "i", DataSourceID: "d"})
	require.NoError(t, err)
	assert.Equal(t, "exec-1", id)
}

func TestQBusiness_ListSyncJobs(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	client := &mockQBusiness{history: []types.DataSourceSyncJob{{
		ExecutionId: aws.String("exec-1"),
		Status:      types.DataSourceSyncJobStatusFailed,
		StartTime:   aws.Time(start),
		Error:       &types.ErrorDetail{ErrorCode: types.ErrorCodeInternalError, ErrorMessage: aws.String("bad")},
		Metrics:     &types.DataSourceSyncJobMetrics{DocumentsAdded: aws.String("3"), DocumentsFailed: aws.String("1")},
	}}}
	q := NewQBusiness(client, nil)

	jobs, err := q.ListSyncJobs(context.Background(), domain.SyncJobQuery{
		DataSourceKey: domain.DataSourceKey{ApplicationID: "a", IndexID: "i", DataSourceID: "d"},
		StartTime:     start.Add(-time.Hour),
		EndTime:       start.Add(time.Hour),
		MaxResults:    5,
	})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "exec-1", jobs[0].ExecutionID)
	assert.Equal(t, "FAILED", jobs[0].Status)
	assert.Equal(t, "bad", jobs[0].ErrorMsg)
	assert.Equal(t, "3", jobs[0].Metrics.DocumentsAdded)
	assert.Equal(t, "1", jobs[0].Metrics.DocumentsFailed)
	assert.Equal(t, int32(5), aws.ToInt32(client.syncQuery.MaxResults))
	assert.Equal(t, start.Add(-time.Hour), aws.ToTime(client.syncQuery.StartTime))
}

func TestQBusiness_CreatePlugin(t *testing.T) {
	client := &mockQBusiness{}
	q := NewQBusiness(client, nil)

	ref, err := q.CreatePlugin(context.Background(), domain.CreatePluginInput{
		ApplicationID:    "app-1",
		DisplayName:      "salesforce-plugin",
		Type:             domain.PluginTypeSalesforceCRM,
		ServerURL:        "https://acme.my.salesforce.com",
		SecretARN:        "arn:secret",
		RoleARN:          "arn:role",
		AuthorizationURL: "https://acme.my.salesforce.com/services/oauth2/authorize",
		TokenURL:         "https://acme.my.salesforce.com/services/oauth2/token",
	})
	require.NoError(t, err)
	assert.Equal(t, "plugin-1", ref.ID)
	assert.Equal(t, "CREATE_IN_PROGRESS", ref.Build)

	assert.Equal(t, types.PluginType("SALESFORCE_CRM"), client.plugin.Type)
	auth, ok := client.plugin.AuthConfiguration.(*types.PluginAuthConfigurationMemberOAuth2ClientCredentialConfiguration)
	require.True(t, ok)
	assert.Equal(t, "arn:secret", aws.ToString(auth.Value.SecretArn))
	assert.Equal(t, "https://acme.my.salesforce.com/services/oauth2/token", aws.ToString(auth.Value.TokenUrl))
}
