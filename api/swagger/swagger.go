package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Portal development service",
        "description": "In-memory stand-in for the student/faculty portal service",
        "version": "0.1.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Accounts", "description": "Sign-in and registration"},
        {"name": "Academics", "description": "Attendance and marks"},
        {"name": "Assignments", "description": "Assignments, submissions and remarks"},
        {"name": "Certificates", "description": "Non-academic certificate review"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/login": {
            "post": {
                "tags": ["Accounts"],
                "summary": "Authenticate under a role",
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "Accepted", "schema": {"$ref": "#/definitions/LoginResponse"}},
                    "400": {"description": "Missing fields", "schema": {"$ref": "#/definitions/Message"}},
                    "401": {"description": "Invalid username, password or role", "schema": {"$ref": "#/definitions/Message"}}
                }
            }
        },
        "/create_account": {
            "post": {
                "tags": ["Accounts"],
                "summary": "Register an account",
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/CreateAccountRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Message"}},
                    "400": {"description": "Missing fields or invalid role", "schema": {"$ref": "#/definitions/Message"}},
                    "409": {"description": "Username already exists", "schema": {"$ref": "#/definitions/Message"}}
                }
            }
        },
        "/student/{username}/attendance": {
            "get": {
                "tags": ["Academics"],
                "summary": "Attendance counters of a student",
                "parameters": [{"in": "path", "name": "username", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Attendance"}}}
            },
            "put": {
                "tags": ["Academics"],
                "summary": "Replace attendance counters",
                "parameters": [
                    {"in": "path", "name": "username", "required": true, "type": "string"},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/Attendance"}}
                ],
                "responses": {
                    "200": {"description": "Updated", "schema": {"$ref": "#/definitions/Message"}},
                    "400": {"description": "Missing fields", "schema": {"$ref": "#/definitions/Message"}}
                }
            }
        },
        "/student/{username}/marks": {
            "get": {
                "tags": ["Academics"],
                "summary": "Subject marks of a student, keyed by subject",
                "parameters": [{"in": "path", "name": "username", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "integer"}}}}
            }
        },
        "/marks": {
            "post": {
                "tags": ["Academics"],
                "summary": "Insert or replace one subject mark",
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/MarksRequest"}}
                ],
                "responses": {
                    "200": {"description": "Saved", "schema": {"$ref": "#/definitions/Message"}},
                    "400": {"description": "Missing fields", "schema": {"$ref": "#/definitions/Message"}}
                }
            }
        },
        "/assignments": {
            "get": {
                "tags": ["Assignments"],
                "summary": "List assignments",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Assignment"}}}}
            },
            "post": {
                "tags": ["Assignments"],
                "summary": "Publish an assignment",
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/AssignmentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Message"}},
                    "400": {"description": "Missing assignment details", "schema": {"$ref": "#/definitions/Message"}}
                }
            }
        },
        "/submit_assignment/{id}": {
            "post": {
                "tags": ["Assignments"],
                "summary": "Upload a submission file",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"in": "path", "name": "id", "required": true, "type": "integer"},
                    {"in": "formData", "name": "file", "required": true, "type": "file"},
                    {"in": "formData", "name": "student_username", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Uploaded", "schema": {"$ref": "#/definitions/Message"}},
                    "400": {"description": "Missing file or username", "schema": {"$ref": "#/definitions/Message"}}
                }
            }
        },
        "/submissions": {
            "get": {
                "tags": ["Assignments"],
                "summary": "List submissions with assignment names",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Submission"}}}}
            }
        },
        "/submission_remarks/{id}": {
            "put": {
                "tags": ["Assignments"],
                "summary": "Set remarks on a submission",
                "parameters": [
                    {"in": "path", "name": "id", "required": true, "type": "integer"},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/RemarksRequest"}}
                ],
                "responses": {
                    "200": {"description": "Updated", "schema": {"$ref": "#/definitions/Message"}},
                    "400": {"description": "Missing remarks", "schema": {"$ref": "#/definitions/Message"}}
                }
            }
        },
        "/upload_certificate": {
            "post": {
                "tags": ["Certificates"],
                "summary": "Upload a certificate for review",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"in": "formData", "name": "file", "required": true, "type": "file"},
                    {"in": "formData", "name": "student_username", "required": true, "type": "string"}
                ],
                "responses": {
                    "201": {"description": "Uploaded as pending", "schema": {"$ref": "#/definitions/Message"}},
                    "400": {"description": "Missing file or file type not allowed", "schema": {"$ref": "#/definitions/Message"}}
                }
            }
        },
        "/certificates": {
            "get": {
                "tags": ["Certificates"],
                "summary": "List a student's certificates or the review queue",
                "parameters": [
                    {"in": "query", "name": "role", "required": true, "type": "string", "enum": ["student", "faculty"]},
                    {"in": "query", "name": "username", "type": "string"},
                    {"in": "query", "name": "status", "type": "string", "enum": ["pending", "approved", "rejected"]}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Certificate"}}},
                    "400": {"description": "Invalid query parameters", "schema": {"$ref": "#/definitions/Message"}}
                }
            }
        },
        "/certificates/{id}/status": {
            "put": {
                "tags": ["Certificates"],
                "summary": "Record a review decision",
                "parameters": [
                    {"in": "path", "name": "id", "required": true, "type": "integer"},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/CertificateStatusRequest"}}
                ],
                "responses": {
                    "200": {"description": "Updated", "schema": {"$ref": "#/definitions/Message"}},
                    "400": {"description": "Invalid status", "schema": {"$ref": "#/definitions/Message"}}
                }
            }
        },
        "/uploads/{filename}": {
            "get": {
                "summary": "Download a stored upload",
                "produces": ["application/octet-stream"],
                "parameters": [{"in": "path", "name": "filename", "required": true, "type": "string"}],
                "responses": {"200": {"description": "File"}, "404": {"description": "Not found"}}
            }
        }
    },
    "definitions": {
        "Message": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "file_path": {"type": "string"}
            }
        },
        "LoginRequest": {
            "type": "object",
            "required": ["username", "password", "role"],
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"},
                "role": {"type": "string", "enum": ["student", "faculty"]}
            }
        },
        "LoginResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "role": {"type": "string"}
            }
        },
        "CreateAccountRequest": {
            "type": "object",
            "required": ["username", "password", "role", "email"],
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"},
                "role": {"type": "string", "enum": ["student", "faculty"]},
                "email": {"type": "string"}
            }
        },
        "Attendance": {
            "type": "object",
            "properties": {
                "totalDays": {"type": "integer"},
                "attendedDays": {"type": "integer"}
            }
        },
        "MarksRequest": {
            "type": "object",
            "required": ["student_username", "subject", "marks"],
            "properties": {
                "student_username": {"type": "string"},
                "subject": {"type": "string"},
                "marks": {"type": "integer"}
            }
        },
        "Assignment": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "details": {"type": "string"}
            }
        },
        "AssignmentRequest": {
            "type": "object",
            "required": ["name", "details"],
            "properties": {
                "name": {"type": "string"},
                "details": {"type": "string"}
            }
        },
        "Submission": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "assignment_name": {"type": "string"},
                "student_username": {"type": "string"},
                "file_path": {"type": "string"},
                "remarks": {"type": "string", "x-nullable": true}
            }
        },
        "RemarksRequest": {
            "type": "object",
            "required": ["remarks"],
            "properties": {
                "remarks": {"type": "string"}
            }
        },
        "Certificate": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "student_username": {"type": "string"},
                "file_path": {"type": "string"},
                "status": {"type": "string", "enum": ["pending", "approved", "rejected"]},
                "remarks": {"type": "string", "x-nullable": true},
                "uploaded_at": {"type": "string", "format": "date-time"}
            }
        },
        "CertificateStatusRequest": {
            "type": "object",
            "required": ["status"],
            "properties": {
                "status": {"type": "string", "enum": ["pending", "approved", "rejected"]},
                "remarks": {"type": "string"}
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
