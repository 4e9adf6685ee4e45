// Package lambda adapts API Gateway invocations to the connector services.
package lambda

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"sort"

	"github.com/aws/aws-lambda-go/events"

	"github.com/custodia-labs/qbusiness-connectors/internal/core/domain"
	"github.com/custodia-labs/qbusiness-connectors/internal/core/ports/driving"
)

// Route names, matching the API resource paths.
const (
	RouteSalesforceCreateConnectedApp        = "salesforce-create-connected-app"
	RouteSalesforceCreateActionsConnectedApp = "salesforce-create-actions-connected-app"
	RouteSalesforceUpdateCredentials         = "salesforce-update-credentials"
	RouteSalesforceTestAuthentication        = "salesforce-test-authentication"
	RouteSalesforceCreateDataSource          = "salesforce-create-data-source"
	RouteSalesforceSetupActionsPlugin        = "salesforce-setup-actions-plugin"
	RouteSalesforceHelper                    = "salesforce-helper"

	RouteServiceNowCreateOAuthApp     = "servicenow-create-oauth-app"
	RouteServiceNowCreateDataSource   = "servicenow-create-data-source"
	RouteServiceNowListApplications   = "servicenow-list-applications"
	RouteServiceNowHelper             = "servicenow-helper"
	RouteSharePointCreateAzureApp     = "sharepoint-create-azure-app"
	RouteSharePointDeleteAzureApp     = "sharepoint-delete-azure-app"
	RouteSharePointCreateCertificate  = "sharepoint-create-certificate"
	RouteSharePointUploadCertificate  = "sharepoint-upload-certificate"
	RouteSharePointCreateDataSource   = "sharepoint-create-data-source"
	RouteSharePointHelper             = "sharepoint-helper"
	RouteZendeskCreateOAuthApp        = "zendesk-create-oauth-app"
	RouteZendeskInitiateOAuthFlow     = "zendesk-initiate-oauth-flow"
	RouteZendeskOAuthCallback         = domain.ZendeskCallbackRoute
	RouteZendeskExchangeAuthCode      = domain.ZendeskExchangeRoute
	RouteZendeskCreateDataSource      = "zendesk-create-data-source"
	RouteZendeskHelper                = "zendesk-helper"
	RouteQBusinessListApplications    = "qbusiness-list-applications"
	RouteQBusinessSyncDataSource      = "qbusiness-sync-data-source"
	RouteQBusinessSyncSummary         = "qbusiness-sync-summary"
	RouteQBusinessAnalyzeLogs         = "qbusiness-analyze-cloudwatch-logs"
)

// Services are the use cases reachable through the router. A nil service
// leaves its routes unregistered.
type Services struct {
	Salesforce driving.SalesforceService
	ServiceNow driving.ServiceNowService
	SharePoint driving.SharePointService
	Zendesk    driving.ZendeskService
	Operations driving.OperationsService
	Helper     driving.HelperService
}

// HandlerFunc serves one route.
type HandlerFunc func(ctx context.Context, req *Request) events.APIGatewayProxyResponse

// Router dispatches invocations by route name.
type Router struct {
	routes map[string]HandlerFunc
	// fixed, when set, serves every invocation regardless of the request path.
	fixed  string
	cors   string
	logger *slog.Logger
}

// Config configures a Router.
type Config struct {
	// HandlerName pins the router to one route, as a single-purpose function.
	HandlerName string

	// AllowedOrigin is echoed in Access-Control-Allow-Origin when set.
	AllowedOrigin string

	Logger *slog.Logger
}

// NewRouter registers the routes of every non-nil service.
func NewRouter(cfg Config, svc Services) *Router {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	r := &Router{
		routes: make(map[string]HandlerFunc),
		fixed:  cfg.HandlerName,
		cors:   cfg.AllowedOrigin,
		logger: logger.With("adapter", "lambda"),
	}

	if s := svc.Salesforce; s != nil {
		r.routes[RouteSalesforceCreateConnectedApp] = handle(r.logger, s.CreateConnectedApp)
		r.routes[RouteSalesforceCreateActionsConnectedApp] = handle(r.logger, s.CreateActionsConnectedApp)
		r.routes[RouteSalesforceUpdateCredentials] = handle(r.logger, s.UpdateCredentials)
		r.routes[RouteSalesforceTestAuthentication] = handle(r.logger, s.TestAuthentication)
		r.routes[RouteSalesforceCreateDataSource] = handle(r.logger, s.CreateDataSource)
		r.routes[RouteSalesforceSetupActionsPlugin] = handle(r.logger, s.SetupActionsPlugin)
	}
	if s := svc.ServiceNow; s != nil {
		r.routes[RouteServiceNowCreateOAuthApp] = handle(r.logger, s.CreateOAuthApp)
		r.routes[RouteServiceNowCreateDataSource] = handle(r.logger, s.CreateDataSource)
		r.routes[RouteServiceNowListApplications] = handleNoInput(r.logger, s.ListApplications)
	}
	if s := svc.SharePoint; s != nil {
		r.routes[RouteSharePointCreateAzureApp] = handle(r.logger, s.CreateAzureApp)
		r.routes[RouteSharePointDeleteAzureApp] = handle(r.logger, s.DeleteAzureApp)
		r.routes[RouteSharePointCreateCertificate] = handle(r.logger, s.CreateCertificate)
		r.routes[RouteSharePointUploadCertificate] = handle(r.logger, s.UploadCertificate)
		r.routes[RouteSharePointCreateDataSource] = handle(r.logger, s.CreateDataSource)
	}
	if s := svc.Zendesk; s != nil {
		r.routes[RouteZendeskCreateOAuthApp] = handle(r.logger, s.CreateOAuthApp)
		r.routes[RouteZendeskInitiateOAuthFlow] = handle(r.logger, s.InitiateOAuthFlow)
		r.routes[RouteZendeskOAuthCallback] = r.handleCallback(s)
		r.routes[RouteZendeskExchangeAuthCode] = handle(r.logger, s.ExchangeAuthCode)
		r.routes[RouteZendeskCreateDataSource] = handle(r.logger, s.CreateDataSource)
	}
	if s := svc.Operations; s != nil {
		r.routes[RouteQBusinessListApplications] = handleNoInput(r.logger, s.ListApplications)
		r.routes[RouteQBusinessSyncDataSource] = handle(r.logger, s.SyncDataSource)
		r.routes[RouteQBusinessSyncSummary] = handle(r.logger, s.SyncSummary)
		r.routes[RouteQBusinessAnalyzeLogs] = handle(r.logger, s.AnalyzeLogs)
	}
	if s := svc.Helper; s != nil {
		r.routes[RouteSalesforceHelper] = helper(r.logger, s, driving.HelpSalesforce)
		r.routes[RouteServiceNowHelper] = helper(r.logger, s, driving.HelpServiceNow)
		r.routes[RouteSharePointHelper] = helper(r.logger, s, driving.HelpSharePoint)
		r.routes[RouteZendeskHelper] = helper(r.logger, s, driving.HelpZendesk)
	}
	return r
}

// Routes lists the registered route names in order.
func (r *Router) Routes() []string {
	names := make([]string, 0, len(r.routes))
	for name := range r.routes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Invoke is the Lambda entry point. It never returns an error; failures are
// reported in the response.
func (r *Router) Invoke(ctx context.Context, event json.RawMessage) (events.APIGatewayProxyResponse, error) {
	req, err := DecodeEnvelope(event)
	if err != nil {
		return r.withCORS(errorResponse(r.logger, r.fixed, err)), nil
	}
	return r.Dispatch(ctx, req), nil
}

// Dispatch serves a decoded request, recovering panics into a 500.
func (r *Router) Dispatch(ctx context.Context, req *Request) (resp events.APIGatewayProxyResponse) {
	route := req.Route
	if r.fixed != "" {
		route = r.fixed
	}

	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("handler panic", "route", route, "panic", p, "stack", string(debug.Stack()))
			resp = r.withCORS(errorResponse(r.logger, route, domain.InternalError(fmt.Errorf("panic: %v", p))))
		}
	}()

	h, ok := r.routes[route]
	if !ok {
		return r.withCORS(errorResponse(r.logger, route, domain.NotFoundError("Not Found", fmt.Sprintf("Unknown route %q", route))))
	}

	req.Route = route
	r.logger.Debug("dispatching", "route", route)
	return r.withCORS(h(ctx, req))
}

func (r *Router) withCORS(resp events.APIGatewayProxyResponse) events.APIGatewayProxyResponse {
	if r.cors == "" {
		return resp
	}
	if resp.Headers == nil {
		resp.Headers = map[string]string{}
	}
	resp.Headers["Access-Control-Allow-Origin"] = r.cors
	resp.Headers["Access-Control-Allow-Headers"] = "Content-Type,Authorization"
	resp.Headers["Access-Control-Allow-Methods"] = "OPTIONS,POST,GET"
	return resp
}

func (r *Router) handleCallback(s driving.ZendeskService) HandlerFunc {
	return func(ctx context.Context, req *Request) events.APIGatewayProxyResponse {
		var in driving.OAuthCallbackRequest
		if err := req.DecodeQuery(&in); err != nil {
			return callbackErrorPage(err)
		}
		res, err := s.OAuthCallback(ctx, in)
		if err != nil {
			r.logger.Warn("oauth callback rejected", "error", err)
			return callbackErrorPage(err)
		}
		return callbackPage(res)
	}
}

// handle decodes the body into Req and encodes the result as JSON.
func handle[Req, Resp any](logger *slog.Logger, fn func(context.Context, Req) (*Resp, error)) HandlerFunc {
	return func(ctx context.Context, req *Request) events.APIGatewayProxyResponse {
		var in Req
		if err := req.Decode(&in); err != nil {
			return errorResponse(logger, req.Route, err)
		}
		out, err := fn(ctx, in)
		if err != nil {
			return errorResponse(logger, req.Route, err)
		}
		return jsonResponse(http.StatusOK, out)
	}
}

func handleNoInput[Resp any](logger *slog.Logger, fn func(context.Context) (*Resp, error)) HandlerFunc {
	return func(ctx context.Context, req *Request) events.APIGatewayProxyResponse {
		out, err := fn(ctx)
		if err != nil {
			return errorResponse(logger, req.Route, err)
		}
		return jsonResponse(http.StatusOK, out)
	}
}

func helper(logger *slog.Logger, s driving.HelperService, topic string) HandlerFunc {
	return func(ctx context.Context, req *Request) events.APIGatewayProxyResponse {
		var in driving.HelpRequest
		if err := req.Decode(&in); err != nil {
			return errorResponse(logger, req.Route, err)
		}
		if in.Question == "" {
			in.Question = req.Query["question"]
		}
		in.Topic = topic
		out, err := s.Help(ctx, in)
		if err != nil {
			return errorResponse(logger, req.Route, err)
		}
		return jsonResponse(http.StatusOK, out)
	}
}
