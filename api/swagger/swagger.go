package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "UniTime Timetable API",
        "description": "Conflict detection and resolution for university timetables",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "tags": [
        {
            "name": "Timetables",
            "description": "Department timetable lifecycle"
        },
        {
            "name": "Sessions",
            "description": "Session authoring and availability"
        },
        {
            "name": "Conflicts",
            "description": "Department conflict detection and resolution"
        },
        {
            "name": "Master",
            "description": "Cross-department view"
        },
        {
            "name": "Venues",
            "description": "Venue catalog"
        }
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check with metrics snapshot",
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
                    },
                    "503": {
                        "description": "A dependency is unavailable"
                    }
                }
            }
        },
        "/metrics": {
            "get": {
                "summary": "Prometheus metrics",
                "produces": [
                    "text/plain"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/timetables": {
            "get": {
                "tags": [
                    "Timetables"
                ],
                "summary": "List timetables",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "departmentId",
                        "in": "query",
                        "type": "string",
                        "required": false
                    },
                    {
                        "name": "status",
                        "in": "query",
                        "type": "string",
                        "required": false
                    },
                    {
                        "name": "page",
                        "in": "query",
                        "type": "integer",
                        "required": false
                    },
                    {
                        "name": "pageSize",
                        "in": "query",
                        "type": "integer",
                        "required": false
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            },
            "post": {
                "tags": [
                    "Timetables"
                ],
                "summary": "Create a draft timetable",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CreateTimetableRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "403": {
                        "description": "Another department",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/timetables/{id}": {
            "get": {
                "tags": [
                    "Timetables"
                ],
                "summary": "Get timetable",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            },
            "delete": {
                "tags": [
                    "Timetables"
                ],
                "summary": "Delete timetable and its sessions",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    }
                }
            }
        },
        "/timetables/{id}/submit": {
            "post": {
                "tags": [
                    "Timetables"
                ],
                "summary": "Submit a draft and queue a master scan",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "409": {
                        "description": "TIMETABLE_LOCKED",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/timetables/{id}/publish": {
            "post": {
                "tags": [
                    "Timetables"
                ],
                "summary": "Publish a submitted timetable",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "409": {
                        "description": "TIMETABLE_LOCKED",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/timetables/{id}/sessions": {
            "get": {
                "tags": [
                    "Sessions"
                ],
                "summary": "List sessions",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "lecturerId",
                        "in": "query",
                        "type": "string",
                        "required": false
                    },
                    {
                        "name": "venueId",
                        "in": "query",
                        "type": "string",
                        "required": false
                    },
                    {
                        "name": "groupId",
                        "in": "query",
                        "type": "string",
                        "required": false
                    },
                    {
                        "name": "day",
                        "in": "query",
                        "type": "string",
                        "required": false
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            },
            "post": {
                "tags": [
                    "Sessions"
                ],
                "summary": "Add a session",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CreateSessionRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "409": {
                        "description": "SESSION_CONFLICT or TIMETABLE_LOCKED",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/timetables/{id}/sessions/bulk": {
            "post": {
                "tags": [
                    "Sessions"
                ],
                "summary": "Add several sessions",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/BulkCreateSessionsRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "409": {
                        "description": "SESSION_CONFLICT",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/timetables/{id}/sessions/{sessionId}": {
            "put": {
                "tags": [
                    "Sessions"
                ],
                "summary": "Replace a session",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "sessionId",
                        "in": "path",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CreateSessionRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "409": {
                        "description": "SESSION_CONFLICT",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            },
            "delete": {
                "tags": [
                    "Sessions"
                ],
                "summary": "Delete a session",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "sessionId",
                        "in": "path",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    }
                }
            }
        },
        "/timetables/{id}/availability": {
            "get": {
                "tags": [
                    "Sessions"
                ],
                "summary": "Check whether a venue, lecturer or group is free",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "resource",
                        "in": "query",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "resourceId",
                        "in": "query",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "day",
                        "in": "query",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "timeSlot",
                        "in": "query",
                        "type": "string",
                        "required": false
                    },
                    {
                        "name": "startSlot",
                        "in": "query",
                        "type": "integer",
                        "required": false
                    },
                    {
                        "name": "endSlot",
                        "in": "query",
                        "type": "integer",
                        "required": false
                    },
                    {
                        "name": "excludingSessionId",
                        "in": "query",
                        "type": "string",
                        "required": false
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/timetables/{id}/conflicts": {
            "get": {
                "tags": [
                    "Conflicts"
                ],
                "summary": "Detect conflicts in a timetable",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/timetables/{id}/conflicts/resolve": {
            "post": {
                "tags": [
                    "Conflicts"
                ],
                "summary": "Apply one proposed resolution",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "If-Match",
                        "in": "header",
                        "type": "string",
                        "required": false
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/ResolveConflictRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "409": {
                        "description": "STALE_CONFLICT",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "422": {
                        "description": "RESOLUTION_NOT_SUPPORTED",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/timetables/{id}/conflicts/auto-resolve": {
            "post": {
                "tags": [
                    "Conflicts"
                ],
                "summary": "Apply the first resolution of every conflict",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "If-Match",
                        "in": "header",
                        "type": "string",
                        "required": false
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/AutoResolveRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "409": {
                        "description": "STALE_CONFLICT",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/master/conflicts": {
            "get": {
                "tags": [
                    "Master"
                ],
                "summary": "Detect conflicts across submitted timetables",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/master/conflicts/resolve": {
            "post": {
                "tags": [
                    "Master"
                ],
                "summary": "Apply one resolution in the master view",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "If-Match",
                        "in": "header",
                        "type": "string",
                        "required": false
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/ResolveConflictRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "409": {
                        "description": "STALE_CONFLICT",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/master/conflicts/auto-resolve": {
            "post": {
                "tags": [
                    "Master"
                ],
                "summary": "Auto-resolve the master view",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "If-Match",
                        "in": "header",
                        "type": "string",
                        "required": false
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/AutoResolveRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/master/scan": {
            "post": {
                "tags": [
                    "Master"
                ],
                "summary": "Queue a background master scan",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "timetableId",
                        "in": "query",
                        "type": "string",
                        "required": false
                    }
                ],
                "responses": {
                    "202": {
                        "description": "Accepted",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "503": {
                        "description": "SCAN_QUEUE_UNAVAILABLE",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/venues": {
            "get": {
                "tags": [
                    "Venues"
                ],
                "summary": "List venues",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            },
            "post": {
                "tags": [
                    "Venues"
                ],
                "summary": "Add a venue",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CreateVenueRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "409": {
                        "description": "Duplicate name",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/venues/free": {
            "get": {
                "tags": [
                    "Venues"
                ],
                "summary": "List venues free at a time",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "day",
                        "in": "query",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "timeSlot",
                        "in": "query",
                        "type": "string",
                        "required": false
                    },
                    {
                        "name": "startSlot",
                        "in": "query",
                        "type": "integer",
                        "required": false
                    },
                    {
                        "name": "endSlot",
                        "in": "query",
                        "type": "integer",
                        "required": false
                    },
                    {
                        "name": "type",
                        "in": "query",
                        "type": "string",
                        "required": false
                    },
                    {
                        "name": "minCapacity",
                        "in": "query",
                        "type": "integer",
                        "required": false
                    },
                    {
                        "name": "timetableId",
                        "in": "query",
                        "type": "string",
                        "required": false
                    },
                    {
                        "name": "excludingSessionId",
                        "in": "query",
                        "type": "string",
                        "required": false
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "CreateTimetableRequest": {
            "type": "object",
            "properties": {
                "name": {
                    "type": "string"
                },
                "departmentId": {
                    "type": "string"
                },
                "period": {
                    "type": "string"
                },
                "daysPerWeek": {
                    "type": "integer",
                    "enum": [
                        5,
                        7
                    ]
                }
            },
            "required": [
                "name",
                "period"
            ]
        },
        "SessionInput": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "moduleId": {
                    "type": "string"
                },
                "moduleName": {
                    "type": "string"
                },
                "lecturerId": {
                    "type": "string"
                },
                "lecturer": {
                    "type": "string"
                },
                "venueId": {
                    "type": "string"
                },
                "venue": {
                    "type": "string"
                },
                "groupId": {
                    "type": "string"
                },
                "group": {
                    "type": "string"
                },
                "day": {
                    "type": "string",
                    "description": "Weekday name"
                },
                "dayIndex": {
                    "type": "integer",
                    "description": "0 is Monday"
                },
                "timeSlot": {
                    "type": "string",
                    "description": "Period label such as 09:15-09:55"
                },
                "startSlot": {
                    "type": "integer"
                },
                "endSlot": {
                    "type": "integer",
                    "description": "Exclusive"
                },
                "category": {
                    "type": "string",
                    "enum": [
                        "Lecture",
                        "Lab",
                        "Tutorial",
                        "Seminar",
                        "Exam"
                    ]
                },
                "color": {
                    "type": "string"
                }
            },
            "required": [
                "moduleId"
            ]
        },
        "CreateSessionRequest": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "moduleId": {
                    "type": "string"
                },
                "moduleName": {
                    "type": "string"
                },
                "lecturerId": {
                    "type": "string"
                },
                "lecturer": {
                    "type": "string"
                },
                "venueId": {
                    "type": "string"
                },
                "venue": {
                    "type": "string"
                },
                "groupId": {
                    "type": "string"
                },
                "group": {
                    "type": "string"
                },
                "day": {
                    "type": "string",
                    "description": "Weekday name"
                },
                "dayIndex": {
                    "type": "integer",
                    "description": "0 is Monday"
                },
                "timeSlot": {
                    "type": "string",
                    "description": "Period label such as 09:15-09:55"
                },
                "startSlot": {
                    "type": "integer"
                },
                "endSlot": {
                    "type": "integer",
                    "description": "Exclusive"
                },
                "category": {
                    "type": "string",
                    "enum": [
                        "Lecture",
                        "Lab",
                        "Tutorial",
                        "Seminar",
                        "Exam"
                    ]
                },
                "color": {
                    "type": "string"
                },
                "allowConflict": {
                    "type": "boolean"
                }
            },
            "required": [
                "moduleId"
            ]
        },
        "BulkCreateSessionsRequest": {
            "type": "object",
            "properties": {
                "sessions": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/SessionInput"
                    }
                },
                "partialOnError": {
                    "type": "boolean"
                },
                "allowConflict": {
                    "type": "boolean"
                }
            },
            "required": [
                "sessions"
            ]
        },
        "ResolveConflictRequest": {
            "type": "object",
            "properties": {
                "revision": {
                    "type": "string"
                },
                "conflictId": {
                    "type": "integer"
                },
                "resolutionId": {
                    "type": "integer"
                }
            },
            "required": [
                "conflictId",
                "resolutionId"
            ]
        },
        "AutoResolveRequest": {
            "type": "object",
            "properties": {
                "revision": {
                    "type": "string"
                },
                "mode": {
                    "type": "string",
                    "enum": [
                        "single_pass",
                        "iterative"
                    ]
                },
                "maxIterations": {
                    "type": "integer"
                }
            }
        },
        "CreateVenueRequest": {
            "type": "object",
            "properties": {
                "name": {
                    "type": "string"
                },
                "type": {
                    "type": "string"
                },
                "capacity": {
                    "type": "integer"
                }
            },
            "required": [
                "name",
                "type",
                "capacity"
            ]
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {
                    "type": "integer"
                },
                "page_size": {
                    "type": "integer"
                },
                "total_count": {
                    "type": "integer"
                }
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {
                    "type": "string"
                },
                "message": {
                    "type": "string"
                },
                "status": {
                    "type": "integer"
                },
                "details": {
                    "type": "object"
                }
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {
                    "type": "object"
                },
                "error": {
                    "$ref": "#/definitions/APIError"
                },
                "pagination": {
                    "$ref": "#/definitions/Pagination"
                },
                "meta": {
                    "type": "object"
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
