package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the API.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>agentdeck API</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

// OpenAPI document for the public and authenticated routes.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "agentdeck", "version": "v1.0.0" },
  "components": {
    "securitySchemes": { "bearer": { "type": "http", "scheme": "bearer", "bearerFormat": "JWT" } },
    "schemas": {
      "Agent": { "type": "object", "properties": { "id": {"type":"string"}, "ownerId": {"type":"string"}, "agentName": {"type":"string"}, "prompt": {"type":"string"}, "createdAt": {"type":"string","format":"date-time"} } },
      "Content": { "type": "object", "properties": { "id": {"type":"string"}, "agentId": {"type":"string"}, "contentName": {"type":"string"}, "subPrompt": {"type":"string"}, "pdfUrl": {"type":"string"}, "contentCode": {"type":"string","pattern":"^[0-9]{6}$"}, "createdAt": {"type":"string","format":"date-time"} } },
      "CascadeProgress": { "type": "object", "properties": { "error": {"type":"string"}, "cascade": { "type": "object", "properties": { "matched": {"type":"integer"}, "deleted": {"type":"array","items":{"type":"string"}}, "failed": {"type":"array","items":{"type":"string"}} } } } }
    }
  },
  "security": [ { "bearer": [] } ],
  "paths": {
    "/auth/register": {
      "post": { "summary": "Create a local account", "security": [], "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"email":{"type":"string"},"password":{"type":"string"},"name":{"type":"string"}}}}}}, "responses": { "201": { "description": "account created" }, "409": { "description": "email already registered" } } }
    },
    "/auth/login": {
      "post": { "summary": "Email/password login", "security": [], "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"email":{"type":"string"},"password":{"type":"string"}}}}}}, "responses": { "200": { "description": "accessToken, refreshToken, user, expiresIn" }, "401": { "description": "invalid credentials" } } }
    },
    "/auth/refresh": {
      "post": { "summary": "Refresh access token", "security": [], "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"refresh_token":{"type":"string"}}}}}}, "responses": { "200": { "description": "new access token" }, "401": { "description": "invalid refresh" } } }
    },
    "/auth/logout": {
      "post": { "summary": "Invalidate refresh token and blacklist the bearer token", "security": [], "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"refresh_token":{"type":"string"}}}}}}, "responses": { "200": { "description": "logged out" } } }
    },
    "/api/v1/me": {
      "get": { "summary": "Current user profile", "responses": { "200": { "description": "user" }, "401": { "description": "unauthorized" } } }
    },
    "/api/v1/agents": {
      "get": { "summary": "List the caller's agents", "responses": { "200": { "description": "agents", "content": { "application/json": { "schema": {"type":"array","items":{"$ref":"#/components/schemas/Agent"}}}}} } },
      "post": { "summary": "Create an agent", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"agentName":{"type":"string"},"prompt":{"type":"string"}}}}}}, "responses": { "201": { "description": "id of the new agent" }, "400": { "description": "agentName missing" } } }
    },
    "/api/v1/agents/{id}": {
      "get": { "summary": "Get an agent", "responses": { "200": { "description": "agent", "content": { "application/json": { "schema": {"$ref":"#/components/schemas/Agent"}}}}, "403": { "description": "not the owner" }, "404": { "description": "not found" } } },
      "put": { "summary": "Replace name and prompt", "responses": { "200": { "description": "updated" } } },
      "delete": { "summary": "Delete the agent and all of its contents", "responses": { "204": { "description": "deleted" }, "500": { "description": "some contents could not be deleted; the agent was kept", "content": { "application/json": { "schema": {"$ref":"#/components/schemas/CascadeProgress"}}}} } }
    },
    "/api/v1/agents/{id}/contents": {
      "get": { "summary": "List an agent's contents, newest first", "responses": { "200": { "description": "contents", "content": { "application/json": { "schema": {"type":"array","items":{"$ref":"#/components/schemas/Content"}}}}} } },
      "post": { "summary": "Add a content", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"contentName":{"type":"string"},"subPrompt":{"type":"string"},"pdfUrl":{"type":"string"}}}}}}, "responses": { "201": { "description": "id and contentCode" } } }
    },
    "/api/v1/contents/{id}": {
      "get": { "summary": "Get a content", "responses": { "200": { "description": "content", "content": { "application/json": { "schema": {"$ref":"#/components/schemas/Content"}}}} } },
      "put": { "summary": "Overwrite name, sub-prompt and PDF link", "responses": { "200": { "description": "updated" } } },
      "delete": { "summary": "Delete a content", "responses": { "204": { "description": "deleted" } } }
    },
    "/api/v1/contents/{id}/pdf": {
      "post": { "summary": "Upload the content's PDF", "requestBody": { "content": { "multipart/form-data": { "schema": {"type":"object","properties":{"file":{"type":"string","format":"binary"}}}}}}, "responses": { "200": { "description": "pdfUrl" }, "415": { "description": "not a PDF" }, "503": { "description": "storage not configured" } } }
    },
    "/api/v1/codes/{code}": {
      "get": { "summary": "Find the caller's contents by 6-digit code", "responses": { "200": { "description": "matching contents" }, "400": { "description": "malformed code" } } }
    }
  }
}`
