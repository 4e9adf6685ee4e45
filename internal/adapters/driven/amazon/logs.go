package amazon

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"

	"github.com/custodia-labs/qbusiness-connectors/internal/core/domain"
	"github.com/custodia-labs/qbusiness-connectors/internal/core/ports/driven"
)

// Ensure LogQuerier implements driven.LogQuerier
var _ driven.LogQuerier = (*LogQuerier)(nil)

// CloudWatchLogsAPI is the subset of the CloudWatch Logs client used here.
type CloudWatchLogsAPI interface {
	StartQuery(ctx context.Context, in *cloudwatchlogs.StartQueryInput, opts ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.StartQueryOutput, error)
	GetQueryResults(ctx context.Context, in *cloudwatchlogs.GetQueryResultsInput, opts ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.GetQueryResultsOutput, error)
}

// LogQuerier implements driven.LogQuerier with CloudWatch Logs Insights.
type LogQuerier struct {
	client CloudWatchLogsAPI
}

// NewLogQuerier creates a LogQuerier.
func NewLogQuerier(client CloudWatchLogsAPI) *LogQuerier {
	return &LogQuerier{client: client}
}

// NewLogQuerierFromConfig creates a LogQuerier from an AWS config.
func NewLogQuerierFromConfig(cfg aws.Config) *LogQuerier {
	return NewLogQuerier(cloudwatchlogs.NewFromConfig(cfg))
}

// StartQuery starts a Logs Insights query over the window, in epoch seconds.
func (l *LogQuerier) StartQuery(ctx context.Context, q domain.LogQuery) (string, error) {
	in := &cloudwatchlogs.StartQueryInput{
		LogGroupName: aws.String(q.LogGroup),
		QueryString:  aws.String(q.Query),
		StartTime:    aws.Int64(q.StartTime.Unix()),
		EndTime:      aws.Int64(q.EndTime.Unix()),
	}
	if q.Limit > 0 {
		in.Limit = aws.Int32(q.Limit)
	}

	out, err := l.client.StartQuery(ctx, in)
	if err != nil {
		return "", classify("StartQuery", err)
	}
	if out.QueryId == nil {
		return "", errors.New("StartQuery returned no query id")
	}
	return *out.QueryId, nil
}

// QueryResults returns the status and rows of a query.
func (l *LogQuerier) QueryResults(ctx context.Context, queryID string) (*domain.LogQueryResult, error) {
	out, err := l.client.GetQueryResults(ctx, &cloudwatchlogs.GetQueryResultsInput{QueryId: aws.String(queryID)})
	if err != nil {
		return nil, classify("GetQueryResults", err)
	}

	res := &domain.LogQueryResult{Status: domain.LogQueryStatus(out.Status)}
	for _, fields := range out.Results {
		row := make(map[string]string, len(fields))
		for _, f := range fields {
			row[aws.ToString(f.Field)] = aws.ToString(f.Value)
		}
		res.Rows = append(res.Rows, row)
	}
	return res, nil
}
