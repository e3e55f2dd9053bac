// Package docs registers the OpenAPI description served at /swagger/.
// Regenerate with `swag init -g cmd/main.go` after changing handler annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {"get": {"tags": ["health"], "summary": "Show the status of server", "responses": {"200": {"description": "OK"}}}},
        "/auth/login": {"post": {"tags": ["auth"], "summary": "Log in", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/auth/refresh": {"post": {"tags": ["auth"], "summary": "Refresh an access token", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/auth/logout": {"post": {"tags": ["auth"], "summary": "End all sessions", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/users": {"post": {"tags": ["users"], "summary": "Register a user", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}}},
        "/users/me": {"get": {"tags": ["users"], "summary": "Current user", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/meal": {
            "get": {"tags": ["meals"], "summary": "List all meals", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["meals"], "summary": "Publish a meal", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}}
        },
        "/meal/{date}": {
            "get": {"tags": ["meals"], "summary": "Meal of a day", "security": [{"BearerAuth": []}], "parameters": [{"name": "date", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "put": {"tags": ["meals"], "summary": "Edit a meal", "security": [{"BearerAuth": []}], "parameters": [{"name": "date", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/attendance-log": {"post": {"tags": ["attendance"], "summary": "Check in", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "423": {"description": "Locked"}}}},
        "/attendance-log/class-status": {"get": {"tags": ["attendance"], "summary": "Today's check-ins of a class", "security": [{"BearerAuth": []}], "parameters": [{"name": "grade", "in": "query", "required": true, "type": "integer"}, {"name": "class", "in": "query", "required": true, "type": "integer"}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}},
        "/ingang/status": {"get": {"tags": ["ingang"], "summary": "Study hall rules", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/ingang/application": {
            "get": {"tags": ["ingang"], "summary": "List study hall applications", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["ingang"], "summary": "Reserve a study hall seat for today", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "409": {"description": "Conflict"}}},
            "delete": {"tags": ["ingang"], "summary": "Cancel a study hall reservation", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/outgo-request": {
            "get": {"tags": ["outgo"], "summary": "My outgo requests", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["outgo"], "summary": "Request to leave campus", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "403": {"description": "Forbidden"}}}
        },
        "/outgo-request/{requestId}": {
            "get": {"tags": ["outgo"], "summary": "One outgo request", "security": [{"BearerAuth": []}], "parameters": [{"name": "requestId", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "put": {"tags": ["outgo"], "summary": "Edit an outgo request", "security": [{"BearerAuth": []}], "parameters": [{"name": "requestId", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}}
        },
        "/outgo-request/{requestId}/status": {"patch": {"tags": ["outgo"], "summary": "Approve or deny an outgo request", "security": [{"BearerAuth": []}], "parameters": [{"name": "requestId", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "409": {"description": "Conflict"}}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "School API",
	Description:      "Attendance, study hall, meal and outgo request workflows.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
