// Package docs is generated by swaggo/swag from the handler annotations.
// Regenerate with: swag init -g cmd/api/main.go
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
        "/": {
            "get": {
                "produces": ["text/html"],
                "tags": ["pages"],
                "summary": "Home page",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/create-post": {
            "get": {
                "produces": ["text/html"],
                "tags": ["pages"],
                "summary": "Member-only page",
                "responses": {
                    "200": {"description": "OK"},
                    "303": {"description": "Anonymous visitors go to /log-in, non-members to /membership"}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"type": "object", "additionalProperties": {"type": "string"}}
                    }
                }
            }
        },
        "/health/ready": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.readinessResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.readinessResponse"}}
                }
            }
        },
        "/log-in": {
            "get": {
                "produces": ["text/html"],
                "tags": ["auth"],
                "summary": "Login form",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "consumes": ["application/x-www-form-urlencoded"],
                "produces": ["text/html"],
                "tags": ["auth"],
                "summary": "Log in",
                "parameters": [
                    {"type": "string", "description": "Username or email", "name": "username", "in": "formData", "required": true},
                    {"type": "string", "description": "Password", "name": "password", "in": "formData", "required": true}
                ],
                "responses": {
                    "303": {"description": "Session cookie set, redirect to /"},
                    "401": {"description": "Form re-rendered with a generic message"},
                    "500": {"description": "Internal Server Error"}
                }
            }
        },
        "/log-out": {
            "get": {
                "tags": ["auth"],
                "summary": "Log out",
                "responses": {"303": {"description": "Redirect to /"}}
            }
        },
        "/lose-membership": {
            "post": {
                "tags": ["membership"],
                "summary": "Give up membership",
                "responses": {
                    "303": {"description": "Redirect to /membership"},
                    "500": {"description": "Internal Server Error"}
                }
            }
        },
        "/membership": {
            "get": {
                "produces": ["text/html"],
                "tags": ["membership"],
                "summary": "Membership form",
                "responses": {
                    "200": {"description": "OK"},
                    "303": {"description": "Anonymous visitors are sent to /log-in"}
                }
            },
            "post": {
                "consumes": ["application/x-www-form-urlencoded"],
                "produces": ["text/html"],
                "tags": ["membership"],
                "summary": "Become a member",
                "parameters": [
                    {"type": "string", "description": "Membership passcode", "name": "secret", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "Form re-rendered with the incorrect indicator"},
                    "303": {"description": "Redirect to /membership"},
                    "500": {"description": "Internal Server Error"}
                }
            }
        },
        "/sign-up": {
            "get": {
                "produces": ["text/html"],
                "tags": ["auth"],
                "summary": "Registration form",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "consumes": ["application/x-www-form-urlencoded"],
                "produces": ["text/html"],
                "tags": ["auth"],
                "summary": "Create an account",
                "parameters": [
                    {"type": "string", "description": "First name", "name": "first_name", "in": "formData", "required": true},
                    {"type": "string", "description": "Last name", "name": "last_name", "in": "formData", "required": true},
                    {"type": "string", "description": "Username", "name": "username", "in": "formData", "required": true},
                    {"type": "string", "description": "Email", "name": "email", "in": "formData", "required": true},
                    {"type": "string", "description": "Password", "name": "password", "in": "formData", "required": true},
                    {"type": "string", "description": "Password confirmation", "name": "confirm_password", "in": "formData", "required": true}
                ],
                "responses": {
                    "303": {"description": "Redirect to /"},
                    "400": {"description": "Form re-rendered with field errors"},
                    "500": {"description": "Internal Server Error"}
                }
            }
        }
    },
    "definitions": {
        "handler.dependencyStatus": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "status": {"type": "string"}
            }
        },
        "handler.readinessResponse": {
            "type": "object",
            "properties": {
                "dependencies": {
                    "type": "object",
                    "additionalProperties": {"$ref": "#/definitions/handler.dependencyStatus"}
                },
                "status": {"type": "string"}
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
	Title:            "Members Only",
	Description:      "Membership-gated web application: sign-up, log-in, sessions and member-only pages.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
