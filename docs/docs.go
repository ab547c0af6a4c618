// Package docs registers the OpenAPI document of the village portal API
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
                "tags": ["System"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "503": {"description": "A dependency is down", "schema": {"$ref": "#/definitions/dto.APIResponse"}}
                }
            }
        },
        "/api/v1/public/{resource}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Public"],
                "summary": "List public records",
                "parameters": [
                    {"type": "string", "description": "Entity type", "name": "resource", "in": "path", "required": true,
                     "enum": ["services", "news", "officials", "facilities", "programs", "kkn", "statistics", "achievements"]}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "500": {"description": "Store error", "schema": {"$ref": "#/definitions/dto.APIResponse"}}
                }
            }
        },
        "/api/v1/public/news/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Public"],
                "summary": "News detail",
                "parameters": [
                    {"type": "string", "description": "News ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "404": {"description": "Not found or not published", "schema": {"$ref": "#/definitions/dto.APIResponse"}}
                }
            }
        },
        "/api/v1/public/applications": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Public"],
                "summary": "Submit service application",
                "parameters": [
                    {"description": "Application", "name": "request", "in": "body", "required": true,
                     "schema": {"$ref": "#/definitions/dto.SubmitApplicationRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "422": {"description": "Service not available", "schema": {"$ref": "#/definitions/dto.APIResponse"}}
                }
            }
        },
        "/api/v1/admin/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Admin Authentication"],
                "summary": "Admin login",
                "parameters": [
                    {"description": "Admin credentials", "name": "request", "in": "body", "required": true,
                     "schema": {"$ref": "#/definitions/dto.AdminLoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/dto.APIResponse"}}
                }
            }
        },
        "/api/v1/admin/auth/logout": {
            "post": {
                "produces": ["application/json"],
                "tags": ["Admin Authentication"],
                "summary": "Admin logout",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.APIResponse"}}}
            }
        },
        "/api/v1/admin/auth/session": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Admin Authentication"],
                "summary": "Admin session",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.APIResponse"}}}
            }
        },
        "/api/v1/admin/{resource}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Admin Resources"],
                "summary": "List records (Admin)",
                "parameters": [{"type": "string", "description": "Entity type", "name": "resource", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "401": {"description": "Not authenticated", "schema": {"$ref": "#/definitions/dto.APIResponse"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Admin Resources"],
                "summary": "Create record (Admin)",
                "parameters": [{"type": "string", "description": "Entity type", "name": "resource", "in": "path", "required": true}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/dto.APIResponse"}}
                }
            }
        },
        "/api/v1/admin/{resource}/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Admin Resources"],
                "summary": "Get record (Admin)",
                "parameters": [
                    {"type": "string", "description": "Entity type", "name": "resource", "in": "path", "required": true},
                    {"type": "string", "description": "Record ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/dto.APIResponse"}}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Admin Resources"],
                "summary": "Update record (Admin)",
                "parameters": [
                    {"type": "string", "description": "Entity type", "name": "resource", "in": "path", "required": true},
                    {"type": "string", "description": "Record ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/dto.APIResponse"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["Admin Resources"],
                "summary": "Delete record (Admin)",
                "parameters": [
                    {"type": "string", "description": "Entity type", "name": "resource", "in": "path", "required": true},
                    {"type": "string", "description": "Record ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.APIResponse"}}}
            }
        },
        "/api/v1/admin/uploads/images": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["Admin Uploads"],
                "summary": "Upload image (Admin)",
                "parameters": [
                    {"type": "file", "description": "Image file", "name": "file", "in": "formData", "required": true},
                    {"type": "string", "description": "Target folder", "name": "folder", "in": "formData"}
                ],
                "responses": {
                    "201": {"description": "Upload successful", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "400": {"description": "Invalid file", "schema": {"$ref": "#/definitions/dto.APIResponse"}}
                }
            }
        },
        "/api/v1/admin/applications/export": {
            "get": {
                "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "tags": ["Admin Resources"],
                "summary": "Export service applications (Admin)",
                "responses": {"200": {"description": "xlsx file", "schema": {"type": "string"}}}
            }
        },
        "/api/v1/admin/dashboard": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Admin Resources"],
                "summary": "Dashboard summary (Admin)",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.APIResponse"}}}
            }
        }
    },
    "definitions": {
        "dto.APIResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "data": {},
                "error": {}
            }
        },
        "dto.AdminLoginRequest": {
            "type": "object",
            "required": ["username", "password"],
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "dto.SubmitApplicationRequest": {
            "type": "object",
            "required": ["service_id", "applicant_name", "phone"],
            "properties": {
                "service_id": {"type": "string"},
                "applicant_name": {"type": "string"},
                "nik": {"type": "string"},
                "phone": {"type": "string"},
                "email": {"type": "string"},
                "address": {"type": "string"},
                "notes": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Desa Ngasem API",
	Description:      "Public site and admin dashboard API of the Desa Ngasem village portal",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
