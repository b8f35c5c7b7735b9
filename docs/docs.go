// Package docs registers the OpenAPI document served at /swagger/*any.
//
// The template mirrors the swag annotations on the handlers in internal/api
// and cmd/main.go; running `swag init -g cmd/main.go` regenerates it.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "termsOfService": "https://github.com/guttosm/sharepeak",
        "contact": {
            "name": "API Support",
            "url": "https://github.com/guttosm/sharepeak",
            "email": "support@example.com"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/v1/analyze": {
            "post": {
                "description": "Aggregates the CSV in memory (multipart field \"file\" or raw text/csv body); nothing is stored",
                "consumes": [
                    "multipart/form-data",
                    "text/plain"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "reports"
                ],
                "summary": "Analyze an uploaded share data file",
                "parameters": [
                    {
                        "type": "file",
                        "description": "CSV share data file",
                        "name": "file",
                        "in": "formData"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success",
                        "schema": {
                            "$ref": "#/definitions/dto.ReportResponse"
                        }
                    },
                    "400": {
                        "description": "Source unavailable",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "413": {
                        "description": "Upload too large",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "422": {
                        "description": "Malformed share data",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal Error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/api/v1/reports": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "reports"
                ],
                "summary": "List ingested sources",
                "responses": {
                    "200": {
                        "description": "Success",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/models.IngestionLog"
                            }
                        }
                    },
                    "500": {
                        "description": "Internal Error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/api/v1/reports/{source}": {
            "get": {
                "description": "Returns, per company, the year and month of the highest share price in an ingested file",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "reports"
                ],
                "summary": "Get a stored report",
                "parameters": [
                    {
                        "type": "string",
                        "example": "shares_2014",
                        "description": "Source name (file name without .csv)",
                        "name": "source",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success",
                        "schema": {
                            "$ref": "#/definitions/dto.ReportResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal Error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "dto.ErrorResponse": {
            "type": "object",
            "properties": {
                "error_details": {
                    "type": "string",
                    "example": "line 3: invalid price \"abc\" for Acme"
                },
                "kind": {
                    "type": "string",
                    "example": "PARSE"
                },
                "message": {
                    "type": "string",
                    "example": "invalid share data"
                },
                "timestamp": {
                    "type": "string"
                }
            }
        },
        "dto.ReportEntry": {
            "type": "object",
            "properties": {
                "company": {
                    "type": "string",
                    "example": "Acme"
                },
                "max_price": {
                    "type": "number",
                    "example": 150
                },
                "month": {
                    "type": "string",
                    "example": "Feb"
                },
                "year": {
                    "type": "integer",
                    "example": 2020
                }
            }
        },
        "dto.ReportResponse": {
            "type": "object",
            "properties": {
                "companies": {
                    "description": "Number of companies in the report",
                    "type": "integer",
                    "example": 2
                },
                "entries": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.ReportEntry"
                    }
                },
                "rows": {
                    "description": "Data rows aggregated (analyze only)",
                    "type": "integer",
                    "example": 36
                },
                "source": {
                    "description": "Source name; empty for uploads",
                    "type": "string",
                    "example": "shares_2014"
                }
            }
        },
        "models.IngestionLog": {
            "type": "object",
            "properties": {
                "filename": {
                    "type": "string",
                    "example": "shares_2014.csv"
                },
                "ingested_at": {
                    "type": "string"
                },
                "row_count": {
                    "type": "integer",
                    "example": 144
                },
                "source": {
                    "type": "string",
                    "example": "shares_2014"
                }
            }
        }
    },
    "tags": [
        {
            "description": "Stored reports and on-the-fly analysis of share data files",
            "name": "reports"
        },
        {
            "description": "Liveness and readiness probes",
            "name": "health"
        }
    ]
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "sharepeak API",
	Description:      "Share price files: per company, the year and month of the highest price.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
