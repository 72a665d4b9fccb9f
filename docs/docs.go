// Package docs holds the Swagger document served under /swagger.
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
				"tags": [
					"health"
				],
				"summary": "Dependency health",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"503": {
						"description": "Service Unavailable",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					}
				}
			}
		},
		"/healthz": {
			"get": {
				"tags": [
					"health"
				],
				"summary": "Liveness check",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/transactions": {
			"post": {
				"tags": [
					"transactions"
				],
				"summary": "Create transaction",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "Created"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"description": "Request body",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.createTransactionRequest"
						}
					}
				]
			},
			"get": {
				"tags": [
					"transactions"
				],
				"summary": "List transactions",
				"parameters": [
					{
						"type": "integer",
						"description": "Page size (1-200, default 50)",
						"name": "limit",
						"in": "query"
					},
					{
						"type": "integer",
						"description": "Rows to skip",
						"name": "offset",
						"in": "query"
					}
				],
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					}
				}
			}
		},
		"/transactions/{id}": {
			"get": {
				"tags": [
					"transactions"
				],
				"summary": "Get transaction",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"description": "ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			},
			"put": {
				"tags": [
					"transactions"
				],
				"summary": "Update transaction items",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					},
					"409": {
						"description": "Conflict",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "ID",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"description": "Request body",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.updateTransactionRequest"
						}
					}
				]
			},
			"delete": {
				"tags": [
					"transactions"
				],
				"summary": "Delete transaction",
				"produces": [
					"application/json"
				],
				"responses": {
					"204": {
						"description": "No Content"
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					},
					"409": {
						"description": "Conflict",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"description": "ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/transactions/{id}/complete": {
			"post": {
				"tags": [
					"transactions"
				],
				"summary": "Complete transaction",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					},
					"409": {
						"description": "Conflict",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"description": "ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/transactions/{id}/cancel": {
			"post": {
				"tags": [
					"transactions"
				],
				"summary": "Cancel transaction",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					},
					"409": {
						"description": "Conflict",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"description": "ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/transactions/{id}/receipt": {
			"get": {
				"tags": [
					"transactions"
				],
				"summary": "Download receipt",
				"produces": [
					"application/json"
				],
				"responses": {
					"302": {
						"description": "Found"
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"description": "ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/transactions/{id}/payments": {
			"get": {
				"tags": [
					"payments"
				],
				"summary": "Payments of a transaction",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"description": "ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/payments": {
			"post": {
				"tags": [
					"payments"
				],
				"summary": "Create payment",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "Created"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					},
					"409": {
						"description": "Conflict",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"description": "Request body",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.createPaymentRequest"
						}
					}
				]
			},
			"get": {
				"tags": [
					"payments"
				],
				"summary": "List payments",
				"parameters": [
					{
						"type": "integer",
						"description": "Page size (1-200, default 50)",
						"name": "limit",
						"in": "query"
					},
					{
						"type": "integer",
						"description": "Rows to skip",
						"name": "offset",
						"in": "query"
					}
				],
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					}
				}
			}
		},
		"/payments/{id}": {
			"get": {
				"tags": [
					"payments"
				],
				"summary": "Get payment",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"description": "ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			},
			"delete": {
				"tags": [
					"payments"
				],
				"summary": "Delete payment",
				"produces": [
					"application/json"
				],
				"responses": {
					"204": {
						"description": "No Content"
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					},
					"409": {
						"description": "Conflict",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"description": "ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/payments/{id}/installments": {
			"post": {
				"tags": [
					"payments"
				],
				"summary": "Record installment",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					},
					"409": {
						"description": "Conflict",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "ID",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"description": "Request body",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.installmentRequest"
						}
					}
				]
			}
		},
		"/products": {
			"post": {
				"tags": [
					"products"
				],
				"summary": "Create product",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "Created"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"description": "Request body",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.createProductRequest"
						}
					}
				]
			},
			"get": {
				"tags": [
					"products"
				],
				"summary": "List products",
				"parameters": [
					{
						"type": "integer",
						"description": "Page size (1-200, default 50)",
						"name": "limit",
						"in": "query"
					},
					{
						"type": "integer",
						"description": "Rows to skip",
						"name": "offset",
						"in": "query"
					}
				],
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					}
				}
			}
		},
		"/products/{id}": {
			"get": {
				"tags": [
					"products"
				],
				"summary": "Get product",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"description": "ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/customers": {
			"post": {
				"tags": [
					"customers"
				],
				"summary": "Create customer",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "Created"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"description": "Request body",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.createCustomerRequest"
						}
					}
				]
			},
			"get": {
				"tags": [
					"customers"
				],
				"summary": "List customers",
				"parameters": [
					{
						"type": "integer",
						"description": "Page size (1-200, default 50)",
						"name": "limit",
						"in": "query"
					},
					{
						"type": "integer",
						"description": "Rows to skip",
						"name": "offset",
						"in": "query"
					}
				],
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					}
				}
			}
		},
		"/customers/{id}": {
			"get": {
				"tags": [
					"customers"
				],
				"summary": "Get customer",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"description": "ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/suppliers": {
			"post": {
				"tags": [
					"suppliers"
				],
				"summary": "Create supplier",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "Created"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"description": "Request body",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.createSupplierRequest"
						}
					}
				]
			},
			"get": {
				"tags": [
					"suppliers"
				],
				"summary": "List suppliers",
				"parameters": [
					{
						"type": "integer",
						"description": "Page size (1-200, default 50)",
						"name": "limit",
						"in": "query"
					},
					{
						"type": "integer",
						"description": "Rows to skip",
						"name": "offset",
						"in": "query"
					}
				],
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					}
				}
			}
		},
		"/suppliers/{id}": {
			"get": {
				"tags": [
					"suppliers"
				],
				"summary": "Get supplier",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"description": "ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/suppliers/{id}/transactions": {
			"get": {
				"tags": [
					"suppliers"
				],
				"summary": "Supplier deliveries",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"description": "ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/audit-logs": {
			"get": {
				"tags": [
					"audit"
				],
				"summary": "List audit logs",
				"parameters": [
					{
						"type": "integer",
						"description": "Page size (1-200, default 50)",
						"name": "limit",
						"in": "query"
					},
					{
						"type": "integer",
						"description": "Rows to skip",
						"name": "offset",
						"in": "query"
					}
				],
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					}
				}
			}
		}
	},
	"definitions": {
		"handler.errorPayload": {
			"type": "object",
			"properties": {
				"request_id": {
					"type": "string"
				},
				"error": {
					"type": "object",
					"properties": {
						"code": {
							"type": "string"
						},
						"message": {
							"type": "string"
						}
					}
				}
			}
		},
		"handler.lineItemRequest": {
			"type": "object",
			"properties": {
				"product_id": {
					"type": "string"
				},
				"quantity": {
					"type": "integer"
				}
			},
			"required": [
				"product_id",
				"quantity"
			]
		},
		"handler.createTransactionRequest": {
			"type": "object",
			"properties": {
				"cashier_id": {
					"type": "string"
				},
				"customer_id": {
					"type": "string"
				},
				"items": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/handler.lineItemRequest"
					}
				}
			},
			"required": [
				"cashier_id",
				"customer_id",
				"items"
			]
		},
		"handler.updateTransactionRequest": {
			"type": "object",
			"properties": {
				"items": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/handler.lineItemRequest"
					}
				}
			},
			"required": [
				"items"
			]
		},
		"handler.createPaymentRequest": {
			"type": "object",
			"properties": {
				"transaction_id": {
					"type": "string"
				},
				"amount": {
					"type": "string"
				},
				"method": {
					"type": "string",
					"enum": [
						"CASH",
						"CREDIT_CARD",
						"BANK_TRANSFER",
						"E_WALLET"
					]
				},
				"due_date": {
					"type": "string"
				}
			},
			"required": [
				"transaction_id",
				"amount",
				"method"
			]
		},
		"handler.installmentRequest": {
			"type": "object",
			"properties": {
				"amount": {
					"type": "string"
				}
			},
			"required": [
				"amount"
			]
		},
		"handler.createProductRequest": {
			"type": "object",
			"properties": {
				"name": {
					"type": "string"
				},
				"price": {
					"type": "string"
				},
				"stock": {
					"type": "integer"
				}
			},
			"required": [
				"name",
				"price"
			]
		},
		"handler.createCustomerRequest": {
			"type": "object",
			"properties": {
				"name": {
					"type": "string"
				},
				"phone": {
					"type": "string"
				},
				"email": {
					"type": "string"
				}
			},
			"required": [
				"name"
			]
		},
		"handler.createSupplierRequest": {
			"type": "object",
			"properties": {
				"name": {
					"type": "string"
				},
				"contact": {
					"type": "string"
				},
				"product_id": {
					"type": "string"
				},
				"quantity": {
					"type": "integer"
				}
			},
			"required": [
				"name",
				"product_id",
				"quantity"
			]
		}
	}
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Retail Back-Office API",
	Description:      "Sales transactions, payments and inventory for a retail store.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
