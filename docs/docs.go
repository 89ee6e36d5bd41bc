// Package docs registers the OpenAPI document served under /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/login": {
            "post": {
                "tags": ["Session"],
                "summary": "Log in with task service credentials",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/handler.LoginRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.AuthResponse"}}, "401": {"description": "Unauthorized"}}
            }
        },
        "/logout": {"post": {"tags": ["Session"], "security": [{"BearerAuth": []}], "summary": "End the session", "responses": {"200": {"description": "OK"}}}},
        "/me": {"get": {"tags": ["Session"], "security": [{"BearerAuth": []}], "summary": "Current viewer", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.ProfileResponse"}}}}},
        "/me/role": {
            "post": {
                "tags": ["Session"], "security": [{"BearerAuth": []}], "summary": "Switch the active role",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/handler.SwitchRoleRequest"}}],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Role not granted"}}
            }
        },
        "/board": {"get": {"tags": ["Board"], "security": [{"BearerAuth": []}], "summary": "Board grouped by status", "responses": {"200": {"description": "OK"}}}},
        "/board/refresh": {"post": {"tags": ["Board"], "security": [{"BearerAuth": []}], "summary": "Reload tasks from the task service", "responses": {"200": {"description": "OK"}}}},
        "/board/move": {
            "post": {
                "tags": ["Board"], "security": [{"BearerAuth": []}], "summary": "Drop a task onto another status column",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/handler.MoveRequest"}}],
                "responses": {"200": {"description": "Moved or no-op"}, "403": {"description": "Denied by role policy"}, "502": {"description": "Task service failure, move rolled back"}}
            }
        },
        "/tasks": {"post": {"tags": ["Tasks"], "security": [{"BearerAuth": []}], "summary": "Create a task", "responses": {"201": {"description": "Created"}, "400": {"description": "Validation failed"}, "403": {"description": "Forbidden"}}}},
        "/tasks/{id}": {
            "put": {"tags": ["Tasks"], "security": [{"BearerAuth": []}], "summary": "Update a task", "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["Tasks"], "security": [{"BearerAuth": []}], "summary": "Delete a task", "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}
        },
        "/tasks/{id}/attachments": {
            "get": {"tags": ["Attachments"], "security": [{"BearerAuth": []}], "summary": "List attachments", "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}},
            "post": {
                "tags": ["Attachments"], "security": [{"BearerAuth": []}], "summary": "Upload an attachment", "consumes": ["multipart/form-data"],
                "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}, {"in": "formData", "name": "file", "required": true, "type": "file"}, {"in": "formData", "name": "remark", "type": "string"}],
                "responses": {"201": {"description": "Created"}, "403": {"description": "Forbidden"}}
            }
        },
        "/attachments/{id}": {"delete": {"tags": ["Attachments"], "security": [{"BearerAuth": []}], "summary": "Delete an attachment", "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}},
        "/tasks/{id}/remarks": {
            "get": {"tags": ["Remarks"], "security": [{"BearerAuth": []}], "summary": "List remarks of a task", "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}},
            "post": {
                "tags": ["Remarks"], "security": [{"BearerAuth": []}], "summary": "Add a remark", "consumes": ["multipart/form-data"],
                "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}, {"in": "formData", "name": "comment", "required": true, "type": "string"}, {"in": "formData", "name": "file", "type": "file"}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Validation failed"}}
            }
        },
        "/tasks/{id}/remarks/{remarkId}": {
            "put": {
                "tags": ["Remarks"], "security": [{"BearerAuth": []}], "summary": "Edit own remark", "consumes": ["multipart/form-data"],
                "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}, {"in": "path", "name": "remarkId", "required": true, "type": "string"}, {"in": "formData", "name": "comment", "type": "string"}, {"in": "formData", "name": "file", "type": "file"}],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Not the author"}, "404": {"description": "Not Found"}}
            },
            "delete": {"tags": ["Remarks"], "security": [{"BearerAuth": []}], "summary": "Delete own remark", "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}, {"in": "path", "name": "remarkId", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "403": {"description": "Not the author"}}}
        },
        "/notifications": {"get": {"tags": ["Notifications"], "security": [{"BearerAuth": []}], "summary": "Latest polled notification feed", "responses": {"200": {"description": "OK"}}}},
        "/notifications/{id}/read": {"post": {"tags": ["Notifications"], "security": [{"BearerAuth": []}], "summary": "Mark a notification read", "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}}},
        "/notices": {"get": {"tags": ["Notifications"], "security": [{"BearerAuth": []}], "summary": "Operation notices of this session", "responses": {"200": {"description": "OK"}}}},
        "/notices/{id}": {"delete": {"tags": ["Notifications"], "security": [{"BearerAuth": []}], "summary": "Dismiss a notice", "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"204": {"description": "No Content"}, "404": {"description": "Not Found"}}}},
        "/employees": {
            "get": {"tags": ["Directory"], "security": [{"BearerAuth": []}], "summary": "Employee directory, managers see their reports", "parameters": [{"in": "query", "name": "designation", "type": "string"}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}},
            "post": {"tags": ["Directory"], "security": [{"BearerAuth": []}], "summary": "Create an employee", "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/handler.EmployeeRequest"}}], "responses": {"201": {"description": "Created"}, "403": {"description": "Admin only"}}}
        },
        "/employees/{id}": {
            "get": {"tags": ["Directory"], "security": [{"BearerAuth": []}], "summary": "One employee", "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["Directory"], "security": [{"BearerAuth": []}], "summary": "Update an employee", "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}, {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/handler.EmployeeRequest"}}], "responses": {"200": {"description": "OK"}, "403": {"description": "Admin only"}}},
            "delete": {"tags": ["Directory"], "security": [{"BearerAuth": []}], "summary": "Delete an employee", "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "403": {"description": "Admin only"}}}
        },
        "/users": {"get": {"tags": ["Users"], "security": [{"BearerAuth": []}], "summary": "Login accounts", "responses": {"200": {"description": "OK"}, "403": {"description": "Admin only"}}}},
        "/users/{id}": {
            "put": {"tags": ["Users"], "security": [{"BearerAuth": []}], "summary": "Set role and status", "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}, {"in": "body", "name": "request", "required": true, "schema": {"type": "object", "required": ["role", "status"], "properties": {"role": {"type": "string", "enum": ["Admin", "Manager", "Developer"]}, "status": {"type": "string", "enum": ["active", "inactive"]}}}}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["Users"], "security": [{"BearerAuth": []}], "summary": "Delete an account", "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}}
        },
        "/reports/tasks": {"get": {"tags": ["Directory"], "security": [{"BearerAuth": []}], "summary": "Task summary of the cached board", "responses": {"200": {"description": "OK"}}}}
    },
    "definitions": {
        "handler.LoginRequest": {"type": "object", "required": ["e_id", "password"], "properties": {"e_id": {"type": "integer"}, "password": {"type": "string"}}},
        "handler.EmployeeRequest": {"type": "object", "required": ["name", "email", "designation", "mgr_id"], "properties": {"name": {"type": "string"}, "email": {"type": "string", "example": "user@ust.com"}, "designation": {"type": "string"}, "mgr_id": {"type": "string"}}},
        "handler.SwitchRoleRequest": {"type": "object", "required": ["role"], "properties": {"role": {"type": "string", "enum": ["admin", "manager", "developer"]}}},
        "handler.MoveRequest": {"type": "object", "required": ["task_id", "from", "to"], "properties": {"task_id": {"type": "string"}, "from": {"type": "string"}, "to": {"type": "string"}}},
        "handler.ProfileResponse": {"type": "object", "properties": {"user_id": {"type": "string"}, "name": {"type": "string"}, "email": {"type": "string"}, "roles": {"type": "array", "items": {"type": "string"}}, "view_roles": {"type": "array", "items": {"type": "string"}}, "active_role": {"type": "string"}}},
        "handler.AuthResponse": {"type": "object", "properties": {"token": {"type": "string"}, "expires_at": {"type": "string"}, "profile": {"$ref": "#/definitions/handler.ProfileResponse"}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"description": "Type \"Bearer\" followed by a space and JWT token.", "type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "Taskdash API",
	Description:      "Role-based task dashboard in front of the task service.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
