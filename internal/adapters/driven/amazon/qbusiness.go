package amazon

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/qbusiness"
	"github.com/aws/aws-sdk-go-v2/service/qbusiness/document"
	"github.com/aws/aws-sdk-go-v2/service/qbusiness/types"

	"github.com/custodia-labs/qbusiness-connectors/internal/core/domain"
	"github.com/custodia-labs/qbusiness-connectors/internal/core/ports/driven"
)

// Ensure QBusiness implements driven.QBusiness
var _ driven.QBusiness = (*QBusiness)(nil)

// QBusinessAPI is the subset of the Q Business client used here.
type QBusinessAPI interface {
	ListApplications(ctx context.Context, in *qbusiness.ListApplicationsInput, opts ...func(*qbusiness.Options)) (*qbusiness.ListApplicationsOutput, error)
	ListIndices(ctx context.Context, in *qbusiness.ListIndicesInput, opts ...func(*qbusiness.Options)) (*qbusiness.ListIndicesOutput, error)
	ListDataSources(ctx context.Context, in *qbusiness.ListDataSourcesInput, opts ...func(*qbusiness.Options)) (*qbusiness.ListDataSourcesOutput, error)
	CreateDataSource(ctx context.Context, in *qbusiness.CreateDataSourceInput, opts ...func(*qbusiness.Options)) (*qbusiness.CreateDataSourceOutput, error)
	StartDataSourceSyncJob(ctx context.Context, in *qbusiness.StartDataSourceSyncJobInput, opts ...func(*qbusiness.Options)) (*qbusiness.StartDataSourceSyncJobOutput, error)
	ListDataSourceSyncJobs(ctx context.Context, in *qbusiness.ListDataSourceSyncJobsInput, opts ...func(*qbusiness.Options)) (*qbusiness.ListDataSourceSyncJobsOutput, error)
	CreatePlugin(ctx context.Context, in *qbusiness.CreatePluginInput, opts ...func(*qbusiness.Options)) (*qbusiness.CreatePluginOutput, error)
}

// QBusiness implements driven.QBusiness with the Amazon Q Business API.
type QBusiness struct {
	client QBusinessAPI
	logger *slog.Logger
}

// NewQBusiness creates a QBusiness adapter.
func NewQBusiness(client QBusinessAPI, logger *slog.Logger) *QBusiness {
	if logger == nil {
		logger = slog.Default()
	}
	return &QBusiness{client: client, logger: logger.With("adapter", "qbusiness")}
}

// NewQBusinessFromConfig creates a QBusiness adapter from an AWS config.
func NewQBusinessFromConfig(cfg aws.Config, logger *slog.Logger) *QBusiness {
	return NewQBusiness(qbusiness.NewFromConfig(cfg), logger)
}

// ListApplications returns every application, following pagination.
func (q *QBusiness) ListApplications(ctx context.Context) ([]domain.Application, error) {
	var apps []domain.Application
	p := qbusiness.NewListApplicationsPaginator(q.client, &qbusiness.ListApplicationsInput{})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, classify("ListApplications", err)
		}
		for _, a := range page.Applications {
			apps = append(apps, domain.Application{ID: aws.ToString(a.ApplicationId), Name: aws.ToString(a.DisplayName)})
		}
	}
	return apps, nil
}

// ListIndices returns the indices of an application.
func (q *QBusiness) ListIndices(ctx context.Context, applicationID string) ([]domain.Index, error) {
	var indices []domain.Index
	p := qbusiness.NewListIndicesPaginator(q.client, &qbusiness.ListIndicesInput{ApplicationId: aws.String(applicationID)})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, classify("ListIndices", err)
		}
		for _, ix := range page.Indices {
			indices = append(indices, domain.Index{
				ID:     aws.ToString(ix.IndexId),
				Name:   aws.ToString(ix.DisplayName),
				Status: string(ix.Status),
			})
		}
	}
	return indices, nil
}

// ListDataSources returns the data sources of an index.
func (q *QBusiness) ListDataSources(ctx context.Context, applicationID, indexID string) ([]domain.DataSourceSummary, error) {
	var sources []domain.DataSourceSummary
	p := qbusiness.NewListDataSourcesPaginator(q.client, &qbusiness.ListDataSourcesInput{
		ApplicationId: aws.String(applicationID),
		IndexId:       aws.String(indexID),
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, classify("ListDataSources", err)
		}
		for _, ds := range page.DataSources {
			sources = append(sources, domain.DataSourceSummary{
				Name:   aws.ToString(ds.DisplayName),
				ID:     aws.ToString(ds.DataSourceId),
				Type:   aws.ToString(ds.Type),
				Status: string(ds.Status),
			})
		}
	}
	return sources, nil
}

// CreateDataSource submits a connector configuration document.
func (q *QBusiness) CreateDataSource(ctx context.Context, in domain.CreateDataSourceInput) (*domain.DataSourceRef, error) {
	doc, err := domain.ConfigAsMap(in.Configuration)
	if err != nil {
		return nil, fmt.Errorf("failed to render data source configuration: %w", err)
	}

	req := &qbusiness.CreateDataSourceInput{
		ApplicationId: aws.String(in.ApplicationID),
		IndexId:       aws.String(in.IndexID),
		DisplayName:   aws.String(in.DisplayName),
		Configuration: document.NewLazyDocument(doc),
		RoleArn:       aws.String(in.RoleARN),
	}
	if in.Description != "" {
		req.Description = aws.String(in.Description)
	}
	if in.SyncSchedule != "" {
		req.SyncSchedule = aws.String(in.SyncSchedule)
	}

	out, err := q.client.CreateDataSource(ctx, req)
	if err != nil {
		return nil, classify("CreateDataSource", err)
	}
	q.logger.Info("data source created",
		"application_id", in.ApplicationID,
		"index_id", in.IndexID,
		"data_source_id", aws.ToString(out.DataSourceId))
	return &domain.DataSourceRef{ID: aws.ToString(out.DataSourceId), ARN: aws.ToString(out.DataSourceArn)}, nil
}

// StartSync starts a sync job and returns its execution id.
func (q *QBusiness) StartSync(ctx context.Context, key domain.DataSourceKey) (string, error) {
	out, err := q.client.StartDataSourceSyncJob(ctx, &qbusiness.StartDataSourceSyncJobInput{
		ApplicationId: aws.String(key.ApplicationID),
		IndexId:       aws.String(key.IndexID),
		DataSourceId:  aws.String(key.DataSourceID),
	})
	if err != nil {
		return "", classify("StartDataSourceSyncJob", err)
	}
	return aws.ToString(out.ExecutionId), nil
}

// ListSyncJobs returns one page of sync jobs inside the query window.
func (q *QBusiness) ListSyncJobs(ctx context.Context, query domain.SyncJobQuery) ([]domain.SyncJob, error) {
	in := &qbusiness.ListDataSourceSyncJobsInput{
		ApplicationId: aws.String(query.ApplicationID),
		IndexId:       aws.String(query.IndexID),
		DataSourceId:  aws.String(query.DataSourceID),
	}
	if !query.StartTime.IsZero() {
		in.StartTime = aws.Time(query.StartTime)
	}
	if !query.EndTime.IsZero() {
		in.EndTime = aws.Time(query.EndTime)
	}
	if query.MaxResults > 0 {
		in.MaxResults = aws.Int32(query.MaxResults)
	}

	out, err := q.client.ListDataSourceSyncJobs(ctx, in)
	if err != nil {
		return nil, classify("ListDataSourceSyncJobs", err)
	}

	jobs := make([]domain.SyncJob, 0, len(out.History))
	for _, h := range out.History {
		jobs = append(jobs, syncJobFromAPI(h))
	}
	return jobs, nil
}

// CreatePlugin registers a plugin authenticated with OAuth2 client credentials.
func (q *QBusiness) CreatePlugin(ctx context.Context, in domain.CreatePluginInput) (*domain.PluginRef, error) {
	out, err := q.client.CreatePlugin(ctx, &qbusiness.CreatePluginInput{
		ApplicationId: aws.String(in.ApplicationID),
		DisplayName:   aws.String(in.DisplayName),
		Type:          types.PluginType(in.Type),
		ServerUrl:     aws.String(in.ServerURL),
		AuthConfiguration: &types.PluginAuthConfigurationMemberOAuth2ClientCredentialConfiguration{
			Value: types.OAuth2ClientCredentialConfiguration{
				SecretArn:        aws.String(in.SecretARN),
				RoleArn:          aws.String(in.RoleARN),
				AuthorizationUrl: aws.String(in.AuthorizationURL),
				TokenUrl:         aws.String(in.TokenURL),
			},
		},
	})
	if err != nil {
		return nil, classify("CreatePlugin", err)
	}
	q.logger.Info("plugin created", "application_id", in.ApplicationID, "plugin_id", aws.ToString(out.PluginId))
	return &domain.PluginRef{
		ID:    aws.ToString(out.PluginId),
		ARN:   aws.ToString(out.PluginArn),
		Build: string(out.BuildStatus),
	}, nil
}

func syncJobFromAPI(h types.DataSourceSyncJob) domain.SyncJob {
	job := domain.SyncJob{
		ExecutionID: aws.ToString(h.ExecutionId),
		Status:      string(h.Status),
		StartTime:   h.StartTime,
		EndTime:     h.EndTime,
	}
	if h.Error != nil {
		job.ErrorCode = string(h.Error.ErrorCode)
		job.ErrorMsg = aws.ToString(h.Error.ErrorMessage)
	}
	if m := h.Metrics; m != nil {
		job.Metrics = &domain.SyncJobMetrics{
			DocumentsAdded:    aws.ToString(m.DocumentsAdded),
			DocumentsModified: aws.ToString(m.DocumentsModified),
			DocumentsDeleted:  aws.ToString(m.DocumentsDeleted),
			DocumentsFailed:   aws.ToString(m.DocumentsFailed),
			DocumentsScanned:  aws.ToString(m.DocumentsScanned),
		}
	}
	return job
}
