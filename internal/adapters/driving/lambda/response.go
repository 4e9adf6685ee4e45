package lambda

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"github.com/custodia-labs/qbusiness-connectors/internal/core/domain"
)

// ErrorResponse is the body of every failed invocation.
// @Description API error response
type ErrorResponse struct {
	Error         string   `json:"error" example:"Missing Required Parameters"`
	Message       string   `json:"message" example:"missing required fields: password, username"`
	Details       string   `json:"details,omitempty"`
	MissingFields []string `json:"missingFields,omitempty"`
}

// jsonResponse encodes v as the response body.
func jsonResponse(status int, v any) events.APIGatewayProxyResponse {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body = []byte(`{"error":"Internal Server Error","message":"failed to encode response"}`)
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(body),
	}
}

// errorResponse maps an error kind onto its status and error body.
func errorResponse(logger *slog.Logger, route string, err error) events.APIGatewayProxyResponse {
	de := domain.AsError(err)
	status := de.StatusCode()

	if de.Kind == domain.KindClient {
		logger.Warn("request rejected", "route", route, "status", status, "error", de.Error())
	} else {
		logger.Error("request failed", "route", route, "status", status, "kind", de.Kind, "error", err)
	}

	title := de.Title
	if title == "" {
		title = http.StatusText(status)
	}
	return jsonResponse(status, ErrorResponse{
		Error:         title,
		Message:       de.Message,
		Details:       de.Details,
		MissingFields: de.Missing,
	})
}
