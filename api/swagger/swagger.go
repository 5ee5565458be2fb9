package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Swim Lesson Gateway",
        "description": "Session-aware gateway in front of the swimming lesson service",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http",
        "https"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "security": [{"BearerAuth": []}],
    "tags": [
        {"name": "Sessions", "description": "Refresh scope of the signed-in user"},
        {"name": "Profile", "description": "Student and instructor registration"},
        {"name": "Availability", "description": "Instructor directory and slot pickers"},
        {"name": "Lessons", "description": "Weekly lesson calendars"},
        {"name": "Lesson Requests", "description": "Student lesson requests"}
    ],
    "paths": {
        "/sessions": {
            "post": {
                "tags": ["Sessions"],
                "summary": "Open a session scope",
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/sessions/current": {
            "get": {
                "tags": ["Sessions"],
                "summary": "Current session and screen states",
                "parameters": [{"$ref": "#/parameters/SessionID"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Session not found"}}
            },
            "delete": {
                "tags": ["Sessions"],
                "summary": "Close the session scope",
                "parameters": [{"$ref": "#/parameters/SessionID"}],
                "responses": {"204": {"description": "Closed"}}
            }
        },
        "/sessions/current/screens/{screen}/focus": {
            "post": {
                "tags": ["Sessions"],
                "summary": "Report that a screen gained focus",
                "parameters": [
                    {"$ref": "#/parameters/SessionID"},
                    {"name": "screen", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {"200": {"description": "Whether the screen should refetch"}}
            }
        },
        "/sessions/current/reset": {
            "post": {
                "tags": ["Sessions"],
                "summary": "Mark every screen as needing a refresh",
                "parameters": [{"$ref": "#/parameters/SessionID"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/register/{role}": {
            "post": {
                "tags": ["Profile"],
                "summary": "Register a student or instructor profile",
                "parameters": [
                    {"name": "role", "in": "path", "required": true, "type": "string", "enum": ["student", "instructor"]},
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Validation error"}}
            }
        },
        "/profile": {
            "put": {
                "tags": ["Profile"],
                "summary": "Update the caller's profile",
                "parameters": [
                    {"$ref": "#/parameters/SessionID"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/instructors": {
            "get": {
                "tags": ["Availability"],
                "summary": "List instructors",
                "parameters": [
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/instructors/{id}": {
            "get": {
                "tags": ["Availability"],
                "summary": "Get an instructor",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            }
        },
        "/instructors/{id}/timeline": {
            "get": {
                "tags": ["Availability"],
                "summary": "Free, partial and busy slots of one day",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "date", "in": "query", "type": "string", "format": "date"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/pickers/times": {
            "get": {
                "tags": ["Availability"],
                "summary": "Slot times between two clocks",
                "parameters": [
                    {"name": "start", "in": "query", "required": true, "type": "string"},
                    {"name": "end", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/pickers/day-options": {
            "get": {
                "tags": ["Availability"],
                "summary": "Every quarter hour of the day",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/availability/weekly": {
            "post": {
                "tags": ["Availability"],
                "summary": "Instructors free in a weekly window",
                "parameters": [
                    {"$ref": "#/parameters/SessionID"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/lessons": {
            "post": {
                "tags": ["Lessons"],
                "summary": "Create a lesson",
                "parameters": [
                    {"$ref": "#/parameters/SessionID"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/lessons/{id}": {
            "delete": {
                "tags": ["Lessons"],
                "summary": "Delete a lesson",
                "parameters": [
                    {"$ref": "#/parameters/SessionID"},
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {"204": {"description": "Deleted"}}
            }
        },
        "/lessons/weekly": {
            "get": {
                "tags": ["Lessons"],
                "summary": "Instructor calendar for one week",
                "parameters": [
                    {"$ref": "#/parameters/SessionID"},
                    {"name": "date", "in": "query", "type": "string", "format": "date"},
                    {"name": "mine", "in": "query", "type": "boolean", "default": true}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/lessons/weekly/export": {
            "get": {
                "tags": ["Lessons"],
                "summary": "Download the caller's week as CSV or PDF",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"$ref": "#/parameters/SessionID"},
                    {"name": "date", "in": "query", "type": "string", "format": "date"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {"200": {"description": "File"}}
            }
        },
        "/lessons/student-weekly": {
            "get": {
                "tags": ["Lessons"],
                "summary": "Student calendar for one week",
                "parameters": [
                    {"$ref": "#/parameters/SessionID"},
                    {"name": "date", "in": "query", "type": "string", "format": "date"},
                    {"name": "instructor_id", "in": "query", "type": "array", "items": {"type": "string"}, "collectionFormat": "multi"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/students/match": {
            "get": {
                "tags": ["Lessons"],
                "summary": "Students matching a style and lesson type",
                "parameters": [
                    {"$ref": "#/parameters/SessionID"},
                    {"name": "style", "in": "query", "required": true, "type": "string"},
                    {"name": "type", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/students/me/lessons/{id}": {
            "delete": {
                "tags": ["Lessons"],
                "summary": "Leave a lesson",
                "parameters": [
                    {"$ref": "#/parameters/SessionID"},
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {"204": {"description": "Left"}}
            }
        },
        "/lesson-requests": {
            "get": {
                "tags": ["Lesson Requests"],
                "summary": "Caller's lesson requests in one week",
                "parameters": [
                    {"$ref": "#/parameters/SessionID"},
                    {"name": "date", "in": "query", "type": "string", "format": "date"},
                    {"name": "status", "in": "query", "type": "array", "items": {"type": "string"}, "collectionFormat": "multi"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Lesson Requests"],
                "summary": "Request a lesson",
                "parameters": [
                    {"$ref": "#/parameters/SessionID"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/lesson-requests/{id}": {
            "delete": {
                "tags": ["Lesson Requests"],
                "summary": "Cancel a lesson request",
                "parameters": [
                    {"$ref": "#/parameters/SessionID"},
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "type", "in": "query", "required": true, "type": "string", "enum": ["group", "private"]}
                ],
                "responses": {"204": {"description": "Cancelled"}}
            }
        },
        "/activity": {
            "get": {
                "summary": "Recent audited actions of the caller",
                "parameters": [{"name": "limit", "in": "query", "type": "integer"}],
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "parameters": {
        "SessionID": {"name": "X-Session-ID", "in": "header", "required": true, "type": "string"}
    },
    "definitions": {
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
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
