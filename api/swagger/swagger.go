package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Fleet Payroll API",
        "description": "Boat crew attendance, payroll and expense reporting",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Employees", "description": "Crew roster management"},
        {"name": "Boats", "description": "Fleet boat registry"},
        {"name": "Attendance", "description": "Daily attendance records"},
        {"name": "Reports", "description": "Payroll and expense aggregation"},
        {"name": "Exports", "description": "CSV and PDF report downloads"}
    ],
    "paths": {
        "/employees": {
            "get": {
                "tags": ["Employees"],
                "summary": "List employees",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "sort", "in": "query", "type": "string"},
                    {"name": "order", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Employees"],
                "summary": "Create employee",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/EmployeeRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/employees/{id}": {
            "get": {
                "tags": ["Employees"],
                "summary": "Get employee",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Employees"],
                "summary": "Update employee",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/EmployeeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Employees"],
                "summary": "Delete employee",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/boats": {
            "get": {
                "tags": ["Boats"],
                "summary": "List boats",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Boats"],
                "summary": "Create boat",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BoatRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Duplicate name", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/boats/{id}": {
            "get": {
                "tags": ["Boats"],
                "summary": "Get boat",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Boats"],
                "summary": "Update boat",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BoatRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Boats"],
                "summary": "Delete boat",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/attendance": {
            "get": {
                "tags": ["Attendance"],
                "summary": "List attendance records",
                "parameters": [
                    {"name": "from", "in": "query", "required": true, "type": "string", "format": "date"},
                    {"name": "to", "in": "query", "required": true, "type": "string", "format": "date"},
                    {"name": "employee_id", "in": "query", "type": "string"},
                    {"name": "boat_id", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Attendance"],
                "summary": "Mark attendance (upsert by employee and date)",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AttendanceRequest"}}
                ],
                "responses": {
                    "200": {"description": "Upserted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown employee", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/attendance/{id}": {
            "delete": {
                "tags": ["Attendance"],
                "summary": "Delete attendance record",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports/boats/{id}/analysis": {
            "get": {
                "tags": ["Reports"],
                "summary": "Per-boat cost analysis over a date range",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "from", "in": "query", "required": true, "type": "string", "format": "date"},
                    {"name": "to", "in": "query", "required": true, "type": "string", "format": "date"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown boat", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports/expenses": {
            "get": {
                "tags": ["Reports"],
                "summary": "Chronological expense report",
                "parameters": [
                    {"name": "from", "in": "query", "required": true, "type": "string", "format": "date"},
                    {"name": "to", "in": "query", "required": true, "type": "string", "format": "date"},
                    {"name": "boat_id", "in": "query", "type": "string"},
                    {"name": "employee_id", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports/payroll": {
            "get": {
                "tags": ["Reports"],
                "summary": "Per-employee payroll totals with bank/cash split",
                "parameters": [
                    {"name": "from", "in": "query", "required": true, "type": "string", "format": "date"},
                    {"name": "to", "in": "query", "required": true, "type": "string", "format": "date"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exports": {
            "post": {
                "tags": ["Exports"],
                "summary": "Queue a report export",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ExportRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exports/{id}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Export job status",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown job", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exports/download/{token}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download a rendered export via signed token",
                "parameters": [
                    {"name": "token", "in": "path", "required": true, "type": "string"}
                ],
                "produces": ["text/csv", "application/pdf"],
                "responses": {
                    "200": {"description": "File stream"},
                    "410": {"description": "Link expired", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "EmployeeRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "daily_wage": {"type": "string", "example": "100"},
                "overtime_rate": {"type": "string", "example": "10"},
                "bank_daily_amount": {"type": "string", "example": "40"}
            },
            "required": ["name", "daily_wage", "overtime_rate", "bank_daily_amount"]
        },
        "BoatRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"}
            },
            "required": ["name"]
        },
        "AttendanceRequest": {
            "type": "object",
            "properties": {
                "employee_id": {"type": "string"},
                "date": {"type": "string", "format": "date"},
                "present": {"type": "boolean"},
                "is_half_day": {"type": "boolean"},
                "boat_id": {"type": "string"},
                "overtime_hours": {"type": "number"},
                "overtime_boat_id": {"type": "string"},
                "extra_amount": {"type": "string", "example": "0"},
                "extra_reason": {"type": "string"}
            },
            "required": ["employee_id", "date"]
        },
        "ExportRequest": {
            "type": "object",
            "properties": {
                "type": {"type": "string", "enum": ["payroll", "expenses"]},
                "format": {"type": "string", "enum": ["csv", "pdf"]},
                "from": {"type": "string", "format": "date"},
                "to": {"type": "string", "format": "date"},
                "boat_id": {"type": "string"},
                "employee_id": {"type": "string"}
            },
            "required": ["type", "format", "from", "to"]
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
