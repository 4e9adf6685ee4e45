package http

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/swaggo/swag"

	// Registers the generated OpenAPI document with swag
	_ "github.com/custodia-labs/qbusiness-connectors/docs"
)

// maxBodyBytes matches the API Gateway payload limit
const maxBodyBytes = 6 << 20

// StatusResponse represents a simple status response
// @Description Simple status response
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// VersionResponse represents the API version response
// @Description API version response
type VersionResponse struct {
	Version string `json:"version" example:"1.0.0"`
}

// RoutesResponse lists the routes the server can invoke
// @Description Registered connector routes
type RoutesResponse struct {
	Routes []string `json:"routes"`
}

// handleHealth godoc
// @Summary      Health check
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Router       /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// handleVersion godoc
// @Summary      Get API version
// @Tags         Health
// @Produce      json
// @Success      200  {object}  VersionResponse
// @Router       /version [get]
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, VersionResponse{Version: s.version})
}

// handleRoutes godoc
// @Summary      List connector routes
// @Tags         Health
// @Produce      json
// @Success      200  {object}  RoutesResponse
// @Router       /routes [get]
func (s *Server) handleRoutes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, RoutesResponse{Routes: s.router.Routes()})
}

func (s *Server) handleSwagger(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, doc)
}

// handleInvoke godoc
// @Summary      Invoke a connector route
// @Description  Runs a connector operation the same way the deployed function does
// @Tags         Connectors
// @Accept       json
// @Produce      json
// @Param        route  path      string  true  "Route name, e.g. salesforce-create-data-source"
// @Success      200    {object}  map[string]interface{}
// @Failure      400    {object}  lambda.ErrorResponse
// @Failure      404    {object}  lambda.ErrorResponse
// @Failure      500    {object}  lambda.ErrorResponse
// @Router       /{route} [post]
func (s *Server) handleInvoke(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}

	event, err := json.Marshal(events.APIGatewayProxyRequest{
		Resource:              "/" + r.PathValue("route"),
		Path:                  r.URL.Path,
		HTTPMethod:            r.Method,
		Headers:               firstValues(r.Header),
		QueryStringParameters: firstValues(r.URL.Query()),
		Body:                  string(body),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp, _ := s.router.Invoke(r.Context(), event)
	for k, v := range resp.Headers {
		w.Header().Set(k, v)
	}
	w.WriteHeader(resp.StatusCode)
	_, _ = io.WriteString(w, resp.Body)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
