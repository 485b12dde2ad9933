package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Timetable Scheduler API",
        "description": "Constraint-aware evolutionary timetable generation service",
        "version": "0.1.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {
                        "description": "Ready"
                    }
                }
            }
        },
        "/api/v1/timetable/solve": {
            "post": {
                "summary": "Solve a timetable synchronously",
                "tags": ["Timetable"],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/dto.SolveRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/api/v1/timetable/solve/async": {
            "post": {
                "summary": "Solve a timetable in the background",
                "tags": ["Timetable"],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/dto.SolveRequest"}
                    }
                ],
                "responses": {
                    "202": {"description": "Accepted"}
                }
            }
        },
        "/api/v1/timetable/runs": {
            "get": {
                "summary": "List persisted solve runs",
                "tags": ["Timetable"],
                "produces": ["application/json"],
                "parameters": [
                    {"name": "status", "in": "query", "type": "string", "required": false},
                    {"name": "page", "in": "query", "type": "integer", "required": false},
                    {"name": "pageSize", "in": "query", "type": "integer", "required": false}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/api/v1/timetable/runs/{id}": {
            "get": {
                "summary": "Fetch a persisted solve run",
                "tags": ["Timetable"],
                "produces": ["application/json"],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "delete": {
                "summary": "Delete a persisted solve run",
                "tags": ["Timetable"],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/api/v1/timetable/runs/{id}/export/csv": {
            "get": {
                "summary": "Export a run's timetable as CSV",
                "tags": ["Timetable"],
                "produces": ["text/csv"],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/api/v1/timetable/runs/{id}/export/pdf": {
            "get": {
                "summary": "Export a run's timetable as PDF",
                "tags": ["Timetable"],
                "produces": ["application/pdf"],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/api/v1/system/metrics": {
            "get": {
                "summary": "Request/cache/db instrumentation snapshot",
                "tags": ["Ops"],
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
