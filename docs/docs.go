// Package docs registra el documento OpenAPI del servicio en swag.
// Se mantiene a mano junto con las anotaciones de los handlers.
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
        "/pets": {
            "get": {
                "produces": ["application/json"],
                "tags": ["pets"],
                "summary": "Mis mascotas",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/pets.petResponse"}}},
                    "401": {"description": "unauthorized", "schema": {"type": "string"}}
                }
            },
            "post": {
                "description": "La especie es obligatoria (dog, cat, bird) y define qué rasgos acepta ` + "`" + `traits` + "`" + `.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["pets"],
                "summary": "Registrar mascota",
                "parameters": [
                    {"description": "perfil de la mascota", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/pets.createPetRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/pets.petResponse"}},
                    "400": {"description": "invalid input", "schema": {"type": "string"}},
                    "401": {"description": "unauthorized", "schema": {"type": "string"}}
                }
            }
        },
        "/pets/{petID}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["pets"],
                "summary": "Perfil de mascota",
                "parameters": [
                    {"type": "string", "description": "ID de la mascota", "name": "petID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/pets.petResponse"}},
                    "403": {"description": "forbidden", "schema": {"type": "string"}},
                    "404": {"description": "pet not found", "schema": {"type": "string"}}
                }
            },
            "delete": {
                "description": "Borra la mascota junto con su historial de vacunas.",
                "tags": ["pets"],
                "summary": "Borrar mascota",
                "parameters": [
                    {"type": "string", "description": "ID de la mascota", "name": "petID", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "403": {"description": "forbidden", "schema": {"type": "string"}},
                    "404": {"description": "pet not found", "schema": {"type": "string"}}
                }
            },
            "patch": {
                "description": "PATCH: campos ausentes no se tocan; ` + "`" + `birth_date` + "`" + ` y ` + "`" + `weight_kg` + "`" + ` aceptan null para limpiar. La especie no se puede cambiar.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["pets"],
                "summary": "Editar perfil",
                "parameters": [
                    {"type": "string", "description": "ID de la mascota", "name": "petID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/pets.petResponse"}},
                    "400": {"description": "invalid input", "schema": {"type": "string"}},
                    "403": {"description": "forbidden", "schema": {"type": "string"}},
                    "404": {"description": "pet not found", "schema": {"type": "string"}}
                }
            }
        },
        "/pets/{petID}/vaccinations": {
            "get": {
                "description": "Devuelve cada registro con su estado (vaccinated, overdue, upcoming, current) y el resumen de la mascota. ` + "`" + `today` + "`" + ` permite fijar la fecha de referencia.",
                "produces": ["application/json"],
                "tags": ["vaccinations"],
                "summary": "Historial de vacunas con estado",
                "parameters": [
                    {"type": "string", "description": "ID de la mascota", "name": "petID", "in": "path", "required": true},
                    {"type": "string", "description": "Fecha de referencia (YYYY-MM-DD o DD/MM/YYYY)", "name": "today", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/vaccinations.historyResponse"}},
                    "400": {"description": "today inválido", "schema": {"type": "string"}},
                    "401": {"description": "unauthorized", "schema": {"type": "string"}},
                    "403": {"description": "forbidden", "schema": {"type": "string"}},
                    "404": {"description": "pet not found", "schema": {"type": "string"}}
                }
            },
            "post": {
                "description": "Registra una dosis aplicada. Si no se envía ` + "`" + `due_date` + "`" + ` se usa la fecha sugerida por la tabla de intervalos; ` + "`" + `null` + "`" + ` = dosis única.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["vaccinations"],
                "summary": "Registrar una vacuna",
                "parameters": [
                    {"type": "string", "description": "ID de la mascota", "name": "petID", "in": "path", "required": true},
                    {"description": "vaccine_type, applied_date y due_date opcional", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/vaccinations.vaccinationRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/vaccinations.vaccinationResponse"}},
                    "400": {"description": "invalid json / fechas inválidas", "schema": {"type": "string"}},
                    "401": {"description": "unauthorized", "schema": {"type": "string"}},
                    "403": {"description": "forbidden", "schema": {"type": "string"}},
                    "404": {"description": "pet not found", "schema": {"type": "string"}}
                }
            }
        },
        "/pets/{petID}/vaccinations/export": {
            "get": {
                "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "tags": ["vaccinations"],
                "summary": "Carnet de vacunación (xlsx)",
                "parameters": [
                    {"type": "string", "description": "ID de la mascota", "name": "petID", "in": "path", "required": true},
                    {"type": "string", "description": "Fecha de referencia", "name": "today", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}}
                }
            }
        },
        "/pets/{petID}/vaccinations/{vaccinationID}": {
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["vaccinations"],
                "summary": "Actualizar una vacuna",
                "parameters": [
                    {"type": "string", "description": "ID de la mascota", "name": "petID", "in": "path", "required": true},
                    {"type": "string", "description": "ID del registro", "name": "vaccinationID", "in": "path", "required": true},
                    {"description": "Mismos campos que al crear", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/vaccinations.vaccinationRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/vaccinations.vaccinationResponse"}}
                }
            }
        },
        "/vaccinations/suggest": {
            "get": {
                "description": "Calcula applied_date + intervalo del tipo de vacuna (meses de calendario, con ajuste a fin de mes). No guarda nada.",
                "produces": ["application/json"],
                "tags": ["vaccinations"],
                "summary": "Sugerir fecha de refuerzo",
                "parameters": [
                    {"type": "string", "description": "Tipo de vacuna", "name": "vaccine_type", "in": "query", "required": true},
                    {"type": "string", "description": "Fecha de aplicación (YYYY-MM-DD o DD/MM/YYYY)", "name": "applied_date", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/vaccinations.suggestResponse"}},
                    "400": {"description": "parámetros inválidos", "schema": {"type": "string"}}
                }
            }
        }
    },
    "definitions": {
        "pets.createPetRequest": {
            "type": "object",
            "properties": {
                "birth_date": {"type": "string"},
                "breed": {"type": "string"},
                "name": {"type": "string"},
                "notes": {"type": "string"},
                "sex": {"type": "string"},
                "size": {"type": "string"},
                "species": {"type": "string"},
                "traits": {"type": "object"},
                "weight_kg": {"type": "number"}
            }
        },
        "pets.petResponse": {
            "type": "object",
            "properties": {
                "birth_date": {"type": "string"},
                "breed": {"type": "string"},
                "created_at": {"type": "string"},
                "id": {"type": "string"},
                "name": {"type": "string"},
                "notes": {"type": "string"},
                "owner_user_id": {"type": "string"},
                "sex": {"type": "string", "enum": ["male", "female", "unknown"]},
                "size": {"type": "string", "enum": ["small", "medium", "large"]},
                "species": {"type": "string", "enum": ["dog", "cat", "bird"]},
                "traits": {"type": "object"},
                "updated_at": {"type": "string"},
                "weight_kg": {"type": "number"}
            }
        },
        "vaccinations.historyResponse": {
            "type": "object",
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/vaccinations.vaccinationResponse"}},
                "pet_id": {"type": "string"},
                "summary": {"type": "string", "enum": ["not_vaccinated", "pending", "vaccinated"]},
                "today": {"type": "string"}
            }
        },
        "vaccinations.suggestResponse": {
            "type": "object",
            "properties": {
                "applied_date": {"type": "string"},
                "due_date": {"type": "string"},
                "due_date_display": {"type": "string"},
                "interval_months": {"type": "integer"},
                "known_vaccine": {"type": "boolean"},
                "vaccine_type": {"type": "string"}
            }
        },
        "vaccinations.vaccinationRequest": {
            "type": "object",
            "properties": {
                "applied_date": {"type": "string"},
                "due_date": {"type": "string"},
                "vaccine_type": {"type": "string"}
            }
        },
        "vaccinations.vaccinationResponse": {
            "type": "object",
            "properties": {
                "applied_date": {"type": "string"},
                "applied_date_display": {"type": "string"},
                "created_at": {"type": "string"},
                "due_date": {"type": "string"},
                "due_date_display": {"type": "string"},
                "id": {"type": "string"},
                "inconsistent": {"type": "boolean"},
                "pet_id": {"type": "string"},
                "status": {"type": "string", "enum": ["vaccinated", "overdue", "upcoming", "current"]},
                "updated_at": {"type": "string"},
                "vaccine_type": {"type": "string"}
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
	Title:            "Pet Vaccination History API",
	Description:      "Historial de vacunas por mascota con estado calculado y sugerencia de refuerzos.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
