package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/qbusiness-connectors/internal/adapters/driving/lambda"
	"github.com/custodia-labs/qbusiness-connectors/internal/core/domain"
	"github.com/custodia-labs/qbusiness-connectors/internal/core/ports/driven/mocks"
	"github.com/custodia-labs/qbusiness-connectors/internal/core/ports/driving"
	"github.com/custodia-labs/qbusiness-connectors/internal/core/services"
)

const testAgent = "local-test-agent"

type echoHelper struct{}

func (echoHelper) Help(ctx context.Context, req driving.HelpRequest) (*driving.HelpResponse, error) {
	return &driving.HelpResponse{Message: req.Topic + ": " + req.Question}, nil
}

func newTestServer(t *testing.T, origins ...string) *Server {
	t.Helper()
	router := lambda.NewRouter(lambda.Config{}, lambda.Services{Helper: echoHelper{}})
	authorizer := services.NewAuthorizerService(services.AuthorizerServiceConfig{
		HeaderName:  "User-Agent",
		HeaderValue: testAgent,
		Verifier:    mocks.NewMockCredentialVerifier(),
	})
	cfg := DefaultConfig()
	cfg.Version = "1.2.3"
	cfg.AllowedOrigins = origins
	return NewServer(cfg, router, authorizer)
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestServer_Health(t *testing.T) {
	s := newTestServer(t)

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = serve(s, httptest.NewRequest(http.MethodGet, "/version", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"version":"1.2.3"}`, rec.Body.String())
}

func TestServer_Routes(t *testing.T) {
	s := newTestServer(t)

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/routes", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp RoutesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{
		lambda.RouteSalesforceHelper,
		lambda.RouteServiceNowHelper,
		lambda.RouteSharePointHelper,
		lambda.RouteZendeskHelper,
	}, resp.Routes)
}

func TestServer_SwaggerDoc(t *testing.T) {
	s := newTestServer(t)

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Amazon Q Business Connectors API")
	assert.True(t, json.Valid(rec.Body.Bytes()))
}

func TestServer_InvokeAllowed(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/zendesk-helper", strings.NewReader(`{"question":"how?"}`))
	req.Header.Set("User-Agent", testAgent)
	rec := serve(s, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "zendesk: how?")
}

func TestServer_InvokeQueryString(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/servicenow-helper?question=limits", nil)
	req.Header.Set("User-Agent", testAgent)
	rec := serve(s, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "servicenow: limits")
}

func TestServer_InvokeDenied(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/zendesk-helper", strings.NewReader(`{}`))
	req.Header.Set("User-Agent", "curl/8.0")
	rec := serve(s, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestServer_InvokeInvalidJSON(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/zendesk-helper", strings.NewReader(`{not json`))
	req.Header.Set("User-Agent", testAgent)
	rec := serve(s, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp lambda.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Invalid JSON in request body", resp.Message)
}

func TestServer_InvokeUnknownRoute(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/jira-helper", strings.NewReader(`{}`))
	req.Header.Set("User-Agent", testAgent)
	rec := serve(s, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_CORSPreflight(t *testing.T) {
	s := newTestServer(t, "https://console.example.com")

	req := httptest.NewRequest(http.MethodOptions, "/zendesk-helper", nil)
	req.Header.Set("Origin", "https://console.example.com")
	rec := serve(s, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://console.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/zendesk-helper", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = serve(s, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestAuthorizerMiddleware_NilAuthorizer(t *testing.T) {
	called := false
	h := NewAuthorizerMiddleware(nil, slog.Default()).Authorize(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/anything", nil))
	assert.True(t, called)
}

type failingAuthorizer struct{}

func (failingAuthorizer) Authorize(ctx context.Context, req domain.AuthorizerRequest) (*domain.Decision, error) {
	return nil, domain.ErrInvalidInput
}

func TestAuthorizerMiddleware_Error(t *testing.T) {
	h := NewAuthorizerMiddleware(failingAuthorizer{}, slog.Default()).Authorize(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/anything", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMethodARN(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/salesforce-create-data-source", nil)
	assert.Equal(t, "arn:aws:execute-api:local:000000000000:local/local/POST/salesforce-create-data-source", methodARN(req))
}

func TestRecoveryMiddleware(t *testing.T) {
	h := NewRecoveryMiddleware(slog.Default()).Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
}

func TestLoggingMiddleware_CapturesStatus(t *testing.T) {
	h := NewLoggingMiddleware(slog.Default()).Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
