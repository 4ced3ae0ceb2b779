// Package docs holds the swagger description served at /swagger/index.html.
// Regenerate with: swag init -g internal/adapters/handler/http/router.go -o internal/adapters/handler/http/docs
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
        "/auth/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Create an account",
                "parameters": [
                    {"description": "Profile and password", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/http.registerRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/http.userResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.errorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/http.errorResponse"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Exchange credentials for a bearer token",
                "parameters": [
                    {"description": "Credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/http.loginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.loginResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/http.errorResponse"}}
                }
            }
        },
        "/habits": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["habits"],
                "summary": "List the caller's habits",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.Habit"}}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/http.errorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/http.errorResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["habits"],
                "summary": "Create a habit",
                "parameters": [
                    {"description": "Habit definition, recurrence holds weekdays 0=Sunday..6=Saturday", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/http.createHabitRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.Habit"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/http.errorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/http.errorResponse"}}
                }
            }
        },
        "/checklist": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["checklist"],
                "summary": "Checklist of habits due on a date",
                "parameters": [
                    {"type": "string", "description": "YYYY-MM-DD, defaults to today", "name": "date", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Checklist"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/http.errorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/http.checklistFailure"}}
                }
            }
        },
        "/checklist/{habit_id}": {
            "put": {
                "security": [{"BearerAuth": []}],
                "description": "Returns the checklist as re-read from the store after the write.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["checklist"],
                "summary": "Mark or unmark a habit for a date",
                "parameters": [
                    {"type": "string", "description": "Habit id", "name": "habit_id", "in": "path", "required": true},
                    {"description": "Target state; date defaults to today", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/http.toggleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Checklist"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/http.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/http.errorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/http.errorResponse"}}
                }
            }
        },
        "/score": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Always 200. available=false means the count could not be read and score is 0.",
                "produces": ["application/json"],
                "tags": ["score"],
                "summary": "Consistency score of the caller",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.ConsistencyScore"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/http.errorResponse"}}
                }
            }
        },
        "/calendar": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["calendar"],
                "summary": "Month grid with per-day figures",
                "parameters": [
                    {"type": "integer", "description": "Defaults to the current year", "name": "year", "in": "query"},
                    {"type": "integer", "description": "Zero-based (0=January), defaults to the current month", "name": "month", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.MonthView"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/http.errorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/http.errorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "domain.Habit": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "user_id": {"type": "string"},
                "name": {"type": "string"},
                "recurrence": {"type": "array", "items": {"type": "integer"}},
                "created_at": {"type": "string"},
                "last_marked": {"type": "string"},
                "streak": {"type": "integer"}
            }
        },
        "domain.ChecklistEntry": {
            "type": "object",
            "properties": {
                "habit_id": {"type": "string"},
                "name": {"type": "string"},
                "completed": {"type": "boolean"}
            }
        },
        "domain.Checklist": {
            "type": "object",
            "properties": {
                "date": {"type": "string"},
                "state": {"type": "string", "enum": ["loading", "ready", "failed", "marking"]},
                "entries": {"type": "array", "items": {"$ref": "#/definitions/domain.ChecklistEntry"}},
                "progress": {"type": "number"}
            }
        },
        "domain.ConsistencyScore": {
            "type": "object",
            "properties": {
                "score": {"type": "integer"},
                "available": {"type": "boolean"}
            }
        },
        "domain.CalendarDay": {
            "type": "object",
            "properties": {
                "day": {"type": "integer"},
                "date": {"type": "string"},
                "due_habits": {"type": "integer"},
                "completed": {"type": "integer"},
                "today": {"type": "boolean"}
            }
        },
        "domain.MonthView": {
            "type": "object",
            "properties": {
                "year": {"type": "integer"},
                "month": {"type": "integer"},
                "cells": {"type": "array", "items": {"type": "integer", "x-nullable": true}},
                "days": {"type": "array", "items": {"$ref": "#/definitions/domain.CalendarDay"}}
            }
        },
        "http.errorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "http.checklistFailure": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "checklist": {"$ref": "#/definitions/domain.Checklist"}
            }
        },
        "http.createHabitRequest": {
            "type": "object",
            "required": ["name", "recurrence"],
            "properties": {
                "name": {"type": "string"},
                "recurrence": {"type": "array", "items": {"type": "integer"}}
            }
        },
        "http.toggleRequest": {
            "type": "object",
            "required": ["completed"],
            "properties": {
                "date": {"type": "string"},
                "completed": {"type": "boolean"}
            }
        },
        "http.registerRequest": {
            "type": "object",
            "required": ["email", "full_name", "password"],
            "properties": {
                "full_name": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "password": {"type": "string", "minLength": 8}
            }
        },
        "http.loginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "http.userResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "full_name": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "habit_score": {"type": "integer"}
            }
        },
        "http.loginResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "user": {"$ref": "#/definitions/http.userResponse"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Kanso Constellation API",
	Description:      "Habit scheduling and per-day completion tracking.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
