// Package docs registra la especificación OpenAPI que sirve /swagger/.
// Mantenido a mano junto con las anotaciones godoc de los handlers;
// regenerar con `swag init -g cmd/api/main.go` cuando cambie la API.
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
        "/appointments": {
            "get": {
                "produces": ["application/json"],
                "summary": "Lista citas, con filtros opcionales date y status",
                "parameters": [
                    {"type": "string", "name": "date", "in": "query"},
                    {"type": "string", "name": "status", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Agenda una cita; 409 si el slot ya está ocupado",
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Conflict"}
                }
            }
        },
        "/appointments/{id}/postpone": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Aplaza una cita conservando fecha y hora originales",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "409": {"description": "Conflict"},
                    "422": {"description": "Unprocessable Entity"}
                }
            }
        },
        "/availability": {
            "get": {
                "produces": ["application/json"],
                "summary": "Horas libres de una fecha",
                "parameters": [
                    {"type": "string", "name": "date", "in": "query", "required": true},
                    {"type": "string", "name": "exclude", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/schedule": {
            "get": {
                "produces": ["application/json"],
                "summary": "Horario semanal vigente",
                "responses": {"200": {"description": "OK"}}
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Reemplaza el horario semanal completo",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/schedule/week": {
            "get": {
                "produces": ["application/json"],
                "summary": "Grilla semanal de disponibilidad desde una fecha de inicio",
                "parameters": [
                    {"type": "string", "name": "start", "in": "query", "required": true}
                ],
                "responses": {"200": {"description": "OK"}}
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
	Title:            "VitalPet API",
	Description:      "Gestión de citas de una clínica veterinaria: clientes, mascotas, horarios, festivos y agenda.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
