// Package docs holds the OpenAPI document for the local connector server.
// Regenerate with: swag init -g cmd/qconnect-local/main.go
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.StatusResponse"}}
                }
            }
        },
        "/version": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Get API version",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.VersionResponse"}}
                }
            }
        },
        "/routes": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "List connector routes",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.RoutesResponse"}}
                }
            }
        },
        "/{route}": {
            "post": {
                "description": "Runs a connector operation the same way the deployed function does",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Connectors"],
                "summary": "Invoke a connector route",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Route name, e.g. salesforce-create-data-source",
                        "name": "route",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/lambda.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/lambda.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/lambda.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "http.StatusResponse": {
            "description": "Simple status response",
            "type": "object",
            "properties": {"status": {"type": "string", "example": "ok"}}
        },
        "http.VersionResponse": {
            "description": "API version response",
            "type": "object",
            "properties": {"version": {"type": "string", "example": "1.0.0"}}
        },
        "http.RoutesResponse": {
            "description": "Registered connector routes",
            "type": "object",
            "properties": {"routes": {"type": "array", "items": {"type": "string"}}}
        },
        "lambda.ErrorResponse": {
            "description": "Connector error response",
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "Missing Required Parameters"},
                "message": {"type": "string"},
                "details": {"type": "string"},
                "missingFields": {"type": "array", "items": {"type": "string"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "Amazon Q Business Connectors API",
	Description:      "Setup and operations endpoints connecting Amazon Q Business to Salesforce, ServiceNow, SharePoint and Zendesk.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
