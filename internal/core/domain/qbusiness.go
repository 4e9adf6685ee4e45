package domain

import (
	"fmt"
	"time"
)

// Application is a Q Business application.
type Application struct {
	ID   string `json:"applicationId"`
	Name string `json:"displayName"`
}

// Index is a Q Business index of an application.
type Index struct {
	ID     string `json:"indexId"`
	Name   string `json:"displayName,omitempty"`
	Status string `json:"status,omitempty"`
}

// DataSourceSummary describes an existing data source.
type DataSourceSummary struct {
	Name   string `json:"dataSourceName"`
	ID     string `json:"dataSourceId"`
	Type   string `json:"dataSourceType"`
	Status string `json:"dataSourceStatus"`
}

// CreateDataSourceInput is a CreateDataSource request. Configuration is the
// connector document produced by one of the Build*Config functions.
type CreateDataSourceInput struct {
	ApplicationID string
	IndexID       string
	DisplayName   string
	Description   string
	RoleARN       string
	SyncSchedule  string
	Configuration DataSourceConfig
}

// DataSourceRef identifies a created data source.
type DataSourceRef struct {
	ID  string `json:"dataSourceId"`
	ARN string `json:"dataSourceArn,omitempty"`
}

// DataSourceKey addresses a data source inside an index.
type DataSourceKey struct {
	ApplicationID string `json:"applicationId"`
	IndexID       string `json:"indexId"`
	DataSourceID  string `json:"dataSourceId"`
}

// SyncJobQuery selects sync jobs of a data source inside a time window.
type SyncJobQuery struct {
	DataSourceKey
	StartTime  time.Time
	EndTime    time.Time
	MaxResults int32
}

// SyncJob is one data source sync run.
type SyncJob struct {
	ExecutionID string          `json:"executionId"`
	Status      string          `json:"status"`
	StartTime   *time.Time      `json:"startTime,omitempty"`
	EndTime     *time.Time      `json:"endTime,omitempty"`
	ErrorCode   string          `json:"errorCode,omitempty"`
	ErrorMsg    string          `json:"errorMessage,omitempty"`
	Metrics     *SyncJobMetrics `json:"metrics,omitempty"`
}

// SyncJobMetrics counts documents touched by a sync run.
type SyncJobMetrics struct {
	DocumentsAdded    string `json:"documentsAdded,omitempty"`
	DocumentsModified string `json:"documentsModified,omitempty"`
	DocumentsDeleted  string `json:"documentsDeleted,omitempty"`
	DocumentsFailed   string `json:"documentsFailed,omitempty"`
	DocumentsScanned  string `json:"documentsScanned,omitempty"`
}

// PluginType values accepted by CreatePlugin.
const PluginTypeSalesforceCRM = "SALESFORCE_CRM"

// CreatePluginInput is a CreatePlugin request using OAuth2 client credentials.
type CreatePluginInput struct {
	ApplicationID    string
	DisplayName      string
	Type             string
	ServerURL        string
	SecretARN        string
	RoleARN          string
	AuthorizationURL string
	TokenURL         string
}

// PluginRef identifies a created plugin.
type PluginRef struct {
	ID    string `json:"pluginId"`
	ARN   string `json:"pluginArn,omitempty"`
	Build string `json:"buildStatus,omitempty"`
}

// LogGroupName is the log group Q Business writes connector logs to.
func LogGroupName(applicationID string) string {
	return "/aws/qbusiness/" + applicationID
}

// DataSourceErrorQuery selects error records of a data source, newest first.
func DataSourceErrorQuery(dataSourceID string) string {
	return "fields @ingestionTime, DocumentId, SourceId, Message, @timestamp, AwsAccountId, IndexId, LogLevel, ErrorCode, ErrorMessage, message " +
		"| sort @timestamp desc " +
		`| filter (LogLevel = "Error" or ispresent(ErrorCode)) and ispresent(DocumentId) ` +
		fmt.Sprintf("| filter @logStream like /^%s/", dataSourceID)
}

// LogQuery is a Logs Insights query over a window.
type LogQuery struct {
	LogGroup  string
	Query     string
	StartTime time.Time
	EndTime   time.Time
	Limit     int32
}

// LogQueryStatus is the lifecycle state of a Logs Insights query.
type LogQueryStatus string

const (
	LogQueryScheduled LogQueryStatus = "Scheduled"
	LogQueryRunning   LogQueryStatus = "Running"
	LogQueryComplete  LogQueryStatus = "Complete"
	LogQueryFailed    LogQueryStatus = "Failed"
	LogQueryCancelled LogQueryStatus = "Cancelled"
	LogQueryTimeout   LogQueryStatus = "Timeout"
	LogQueryUnknown   LogQueryStatus = "Unknown"
)

// Done reports whether the query has stopped running.
func (s LogQueryStatus) Done() bool {
	return s != LogQueryScheduled && s != LogQueryRunning
}

// LogQueryResult is the status and rows of a query; each row maps field names
// to values.
type LogQueryResult struct {
	Status LogQueryStatus
	Rows   []map[string]string
}

// LogError is a connector error extracted from a log row.
type LogError struct {
	Timestamp    string `json:"timestamp"`
	DocumentID   string `json:"document_id"`
	ErrorCode    string `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

// LogErrorFromRow maps a query row onto a LogError.
func LogErrorFromRow(row map[string]string) LogError {
	return LogError{
		Timestamp:    row["@ingestionTime"],
		DocumentID:   row["DocumentId"],
		ErrorCode:    row["ErrorCode"],
		ErrorMessage: row["ErrorMessage"],
	}
}
