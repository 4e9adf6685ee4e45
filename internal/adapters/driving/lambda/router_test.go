package lambda

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/qbusiness-connectors/internal/core/domain"
	"github.com/custodia-labs/qbusiness-connectors/internal/core/ports/driving"
)

// fakeOperations records the last request it received.
type fakeOperations struct {
	driving.OperationsService
	syncReq    driving.DataSourceRequest
	summaryReq driving.SyncSummaryRequest
	err        error
}

func (f *fakeOperations) SyncDataSource(ctx context.Context, req driving.DataSourceRequest) (*driving.SyncStartedResponse, error) {
	f.syncReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &driving.SyncStartedResponse{Message: "started", ExecutionID: "exec-1", DataSourceID: req.Key().DataSourceID}, nil
}

func (f *fakeOperations) SyncSummary(ctx context.Context, req driving.SyncSummaryRequest) (*driving.SyncSummaryResponse, error) {
	f.summaryReq = req
	return &driving.SyncSummaryResponse{Message: "ok"}, nil
}

func (f *fakeOperations) ListApplications(ctx context.Context) (*driving.ApplicationTreeResponse, error) {
	panic("boom")
}

type fakeZendesk struct {
	driving.ZendeskService
}

func (f *fakeZendesk) OAuthCallback(ctx context.Context, req driving.OAuthCallbackRequest) (*driving.OAuthCallbackResult, error) {
	if req.Error != "" {
		return nil, domain.ClientError(req.Error, req.ErrorDescription)
	}
	return &driving.OAuthCallbackResult{Code: req.Code, State: req.State, ExchangeURL: "https://api.example.com/prod/zendesk-exchange-auth-code-for-token"}, nil
}

type fakeHelper struct {
	last driving.HelpRequest
}

func (f *fakeHelper) Help(ctx context.Context, req driving.HelpRequest) (*driving.HelpResponse, error) {
	f.last = req
	return &driving.HelpResponse{Message: "help " + req.Topic}, nil
}

func invoke(t *testing.T, r *Router, event string) (int, map[string]string, map[string]any) {
	t.Helper()
	resp, err := r.Invoke(context.Background(), json.RawMessage(event))
	require.NoError(t, err)

	var body map[string]any
	if resp.Headers["Content-Type"] == "application/json" {
		require.NoError(t, json.Unmarshal([]byte(resp.Body), &body))
	}
	return resp.StatusCode, resp.Headers, body
}

func TestRouter_ProxyEventWithStringBody(t *testing.T) {
	ops := &fakeOperations{}
	r := NewRouter(Config{}, Services{Operations: ops})

	status, _, body := invoke(t, r, `{
		"path": "/prod/qbusiness-sync-data-source",
		"body": "{\"qbusinessApplicationId\":\"app-1\",\"indexId\":\"idx-1\",\"qdatasourceId\":\"ds-1\"}"
	}`)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "exec-1", body["executionId"])
	assert.Equal(t, domain.DataSourceKey{ApplicationID: "app-1", IndexID: "idx-1", DataSourceID: "ds-1"}, ops.syncReq.Key())
}

func TestRouter_MappingTemplateBody(t *testing.T) {
	ops := &fakeOperations{}
	r := NewRouter(Config{HandlerName: RouteQBusinessSyncSummary}, Services{Operations: ops})

	status, _, _ := invoke(t, r, `{
		"body-json": {"applicationId": "app-1", "indexId": "idx-1", "datasourceId": "ds-1", "since": "12"},
		"params": {"querystring": {}}
	}`)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 12, ops.summaryReq.Since)
	assert.Equal(t, "ds-1", ops.summaryReq.Key().DataSourceID)
}

func TestRouter_TopLevelFields(t *testing.T) {
	ops := &fakeOperations{}
	r := NewRouter(Config{HandlerName: RouteQBusinessSyncSummary}, Services{Operations: ops})

	status, _, _ := invoke(t, r, `{"applicationId": "app-1", "indexId": "idx-1", "dataSourceId": "ds-1", "since": 3}`)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 3, ops.summaryReq.Since)
	assert.Equal(t, "app-1", ops.summaryReq.Key().ApplicationID)
}

func TestRouter_InvalidJSONBody(t *testing.T) {
	r := NewRouter(Config{HandlerName: RouteQBusinessSyncDataSource}, Services{Operations: &fakeOperations{}})

	status, _, body := invoke(t, r, `{"body": "{not json"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid JSON in request body", body["message"])
}

func TestRouter_ServiceErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		title   string
		missing []any
	}{
		{"missing fields", domain.MissingFieldsError([]string{"username", "password"}), http.StatusBadRequest, "Missing Required Parameters", []any{"password", "username"}},
		{"not found", domain.NotFoundError("Secret Not Found", "no such secret"), http.StatusNotFound, "Secret Not Found", nil},
		{"conflict", domain.ConflictError("Sync Conflict", "a sync job is already running", nil), http.StatusConflict, "Sync Conflict", nil},
		{"timeout", domain.TimeoutError("Query Timeout", "query did not complete"), http.StatusRequestTimeout, "Query Timeout", nil},
		{"untyped", assert.AnError, http.StatusInternalServerError, "Internal Server Error", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRouter(Config{HandlerName: RouteQBusinessSyncDataSource}, Services{Operations: &fakeOperations{err: tt.err}})

			status, _, body := invoke(t, r, `{}`)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.title, body["error"])
			if tt.missing != nil {
				assert.Equal(t, tt.missing, body["missingFields"])
			} else {
				assert.NotContains(t, body, "missingFields")
			}
		})
	}
}

func TestRouter_UnknownRoute(t *testing.T) {
	r := NewRouter(Config{}, Services{Operations: &fakeOperations{}})

	status, _, body := invoke(t, r, `{"path": "/prod/does-not-exist"}`)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, body["message"], "does-not-exist")
}

func TestRouter_RecoversPanics(t *testing.T) {
	r := NewRouter(Config{}, Services{Operations: &fakeOperations{}})

	status, _, body := invoke(t, r, `{"path": "/prod/qbusiness-list-applications"}`)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Internal Server Error", body["error"])
}

func TestRouter_CORS(t *testing.T) {
	r := NewRouter(Config{AllowedOrigin: "https://console.example.com"}, Services{Operations: &fakeOperations{}})

	_, headers, _ := invoke(t, r, `{"path": "/prod/nope"}`)
	assert.Equal(t, "https://console.example.com", headers["Access-Control-Allow-Origin"])
}

func TestRouter_HelperTopic(t *testing.T) {
	h := &fakeHelper{}
	r := NewRouter(Config{}, Services{Helper: h})

	status, _, body := invoke(t, r, `{"path": "/prod/sharepoint-helper", "queryStringParameters": {"question": "what now"}}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "help sharepoint", body["message"])
	assert.Equal(t, "what now", h.last.Question)
}

func TestRouter_OAuthCallbackPage(t *testing.T) {
	r := NewRouter(Config{}, Services{Zendesk: &fakeZendesk{}})

	resp, err := r.Invoke(context.Background(), json.RawMessage(`{
		"path": "/prod/zendesk-oauth-callback",
		"queryStringParameters": {"code": "abc</script><script>alert(1)", "state": "st"}
	}`))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/html; charset=utf-8", resp.Headers["Content-Type"])
	assert.Equal(t, "no-store", resp.Headers["Cache-Control"])
	assert.Contains(t, resp.Headers["Content-Security-Policy"], "default-src 'none'")
	assert.NotContains(t, resp.Body, "</script><script>alert(1)")
	assert.Contains(t, resp.Body, "zendesk-exchange-auth-code-for-token")
}

func TestRouter_OAuthCallbackNestedQuery(t *testing.T) {
	r := NewRouter(Config{HandlerName: RouteZendeskOAuthCallback}, Services{Zendesk: &fakeZendesk{}})

	resp, err := r.Invoke(context.Background(), json.RawMessage(`{
		"params": {"querystring": {"code": "c0de", "state": "st"}}
	}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Body, "c0de")
}

func TestRouter_OAuthCallbackErrorPage(t *testing.T) {
	r := NewRouter(Config{}, Services{Zendesk: &fakeZendesk{}})

	resp, err := r.Invoke(context.Background(), json.RawMessage(`{
		"path": "/prod/zendesk-oauth-callback",
		"queryStringParameters": {"error": "access_denied", "error_description": "<b>denied</b>"}
	}`))
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, resp.Body, "access_denied")
	assert.Contains(t, resp.Body, "&lt;b&gt;denied&lt;/b&gt;")
	assert.NotContains(t, resp.Body, "<b>denied</b>")
}

func TestRouter_Routes(t *testing.T) {
	r := NewRouter(Config{}, Services{Helper: &fakeHelper{}})
	assert.Equal(t, []string{RouteSalesforceHelper, RouteServiceNowHelper, RouteSharePointHelper, RouteZendeskHelper}, r.Routes())
}
