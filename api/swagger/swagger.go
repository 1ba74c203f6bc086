package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Guelph Schedule Generator API",
        "description": "Course timetable planner: ranked conflict-free schedule combinations from scraped semester catalogs",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Planner", "description": "Schedule combination generation and export"},
        {"name": "Catalog", "description": "Semester catalog lookup and ingestion"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/schedules/plan": {
            "post": {
                "tags": ["Planner"],
                "summary": "Generate ranked conflict-free schedule combinations",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PlanScheduleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Over-constrained or no matching sections", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedules/export": {
            "post": {
                "tags": ["Planner"],
                "summary": "Export a chosen schedule as CSV or PDF",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ExportScheduleRequest"}}
                ],
                "responses": {
                    "200": {"description": "Rendered file"}
                }
            }
        },
        "/catalog/{semester}": {
            "post": {
                "tags": ["Catalog"],
                "summary": "Import a scraped semester catalog",
                "parameters": [
                    {"name": "semester", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ImportCatalogRequest"}}
                ],
                "responses": {
                    "200": {"description": "Imported", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "202": {"description": "Queued", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/courses/search": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Search courses in a semester",
                "parameters": [
                    {"name": "semester", "in": "query", "required": true, "type": "string"},
                    {"name": "q", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/courses/{code}/sections": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List sections for a course",
                "parameters": [
                    {"name": "code", "in": "path", "required": true, "type": "string"},
                    {"name": "semester", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/semesters": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List semesters with stored catalogs",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/semesters/{semester}": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Summarise one semester's catalog",
                "parameters": [
                    {"name": "semester", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "PlanScheduleRequest": {
            "type": "object",
            "properties": {
                "semester": {"type": "string"},
                "courses": {"type": "array", "items": {"type": "string"}},
                "earliest_time_at_school": {"type": "string", "example": "09:00"},
                "latest_time_at_school": {"type": "string", "example": "17:30"},
                "course_time_windows": {"type": "object"},
                "section_filter": {"type": "object"},
                "days_off": {"type": "array", "items": {"type": "string"}},
                "min_days_off": {"type": "integer"},
                "sort_preference": {"type": "string", "example": "smart_gaps"},
                "max_results": {"type": "integer"}
            },
            "required": ["semester", "courses"]
        },
        "ExportScheduleRequest": {
            "type": "object",
            "properties": {
                "format": {"type": "string", "enum": ["csv", "pdf"]},
                "title": {"type": "string"},
                "courses": {"type": "array", "items": {"$ref": "#/definitions/PlannedSection"}}
            },
            "required": ["format", "courses"]
        },
        "ImportCatalogRequest": {
            "type": "object",
            "properties": {
                "catalog": {"type": "object"},
                "async": {"type": "boolean"}
            },
            "required": ["catalog"]
        },
        "PlannedMeeting": {
            "type": "object",
            "properties": {
                "type": {"type": "string"},
                "start": {"type": "integer"},
                "end": {"type": "integer"},
                "days": {"type": "array", "items": {"type": "string"}}
            }
        },
        "PlannedSection": {
            "type": "object",
            "properties": {
                "courseCode": {"type": "string"},
                "sectionId": {"type": "string"},
                "lectures": {"type": "array", "items": {"$ref": "#/definitions/PlannedMeeting"}},
                "seminars": {"type": "array", "items": {"$ref": "#/definitions/PlannedMeeting"}},
                "labs": {"type": "array", "items": {"$ref": "#/definitions/PlannedMeeting"}}
            }
        },
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
