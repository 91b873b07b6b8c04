package postman

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/xeipuuv/gojsonschema"
)

// ErrInvalidJSON is returned when a document is not JSON at all.
var ErrInvalidJSON = errors.New("invalid JSON")

// Kind identifies the type of a Postman document.
type Kind string

const (
	KindUnknown     Kind = ""
	KindCollection  Kind = "collection"
	KindEnvironment Kind = "environment"
)

// DetectKind guesses the document type from its top-level members
// without decoding it.
func DetectKind(data []byte) Kind {
	if !gjson.ValidBytes(data) {
		return KindUnknown
	}
	doc := gjson.ParseBytes(data)
	switch {
	case doc.Get("info.name").Exists() && doc.Get("item").IsArray():
		return KindCollection
	case doc.Get("_postman_variable_scope").Exists(), doc.Get("values").IsArray():
		return KindEnvironment
	default:
		return KindUnknown
	}
}

var versionPattern = regexp.MustCompile(`v\d+\.\d+\.\d+`)

func schemaVersion(schemaURL string) string {
	return versionPattern.FindString(schemaURL)
}

func validateDocument(schema string, data []byte) error {
	if !json.Valid(data) {
		return ErrInvalidJSON
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}

	var msgs []string
	for _, desc := range result.Errors() {
		msgs = append(msgs, desc.String())
	}
	return fmt.Errorf("schema validation failed: %s", strings.Join(msgs, "; "))
}

const sharedDefinitions = `
	"optString": {"type": ["string", "null"]},
	"optBool": {"type": ["boolean", "null"]},
	"variables": {
		"type": ["array", "null"],
		"items": {
			"type": "object",
			"required": ["key", "value"],
			"properties": {
				"key": {"type": "string"},
				"value": {"type": "string"},
				"type": {"$ref": "#/definitions/optString"},
				"disabled": {"$ref": "#/definitions/optBool"},
				"enabled": {"$ref": "#/definitions/optBool"}
			}
		}
	}`

const collectionSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["info", "item"],
	"properties": {
		"info": {
			"type": "object",
			"required": ["name"],
			"properties": {
				"name": {"type": "string"},
				"description": {"$ref": "#/definitions/optString"},
				"schema": {"$ref": "#/definitions/optString"},
				"_postman_id": {"$ref": "#/definitions/optString"},
				"_exporter_id": {"$ref": "#/definitions/optString"}
			}
		},
		"item": {"type": "array", "items": {"$ref": "#/definitions/item"}},
		"variable": {"$ref": "#/definitions/variables"},
		"event": {"$ref": "#/definitions/events"},
		"auth": {"$ref": "#/definitions/auth"}
	},
	"definitions": {` + sharedDefinitions + `,
		"item": {
			"type": "object",
			"required": ["name"],
			"properties": {
				"name": {"type": "string"},
				"item": {"type": ["array", "null"], "items": {"$ref": "#/definitions/item"}},
				"request": {"$ref": "#/definitions/request"},
				"response": {"type": ["array", "null"], "items": {"$ref": "#/definitions/response"}},
				"event": {"$ref": "#/definitions/events"},
				"description": {"$ref": "#/definitions/optString"},
				"variable": {"$ref": "#/definitions/variables"},
				"auth": {"$ref": "#/definitions/auth"}
			}
		},
		"request": {
			"type": ["object", "null"],
			"properties": {
				"method": {"$ref": "#/definitions/optString"},
				"header": {"$ref": "#/definitions/headers"},
				"body": {"$ref": "#/definitions/body"},
				"url": {"$ref": "#/definitions/url"},
				"description": {"$ref": "#/definitions/optString"},
				"auth": {"$ref": "#/definitions/auth"}
			}
		},
		"url": {
			"type": ["object", "string", "null"],
			"properties": {
				"raw": {"$ref": "#/definitions/optString"},
				"protocol": {"$ref": "#/definitions/optString"},
				"host": {"type": ["array", "null"], "items": {"type": "string"}},
				"path": {"type": ["array", "null"], "items": {"type": "string"}},
				"query": {
					"type": ["array", "null"],
					"items": {
						"type": "object",
						"required": ["key"],
						"properties": {
							"key": {"type": "string"},
							"value": {"$ref": "#/definitions/optString"},
							"disabled": {"$ref": "#/definitions/optBool"},
							"description": {"$ref": "#/definitions/optString"}
						}
					}
				},
				"variable": {"$ref": "#/definitions/variables"}
			}
		},
		"headers": {
			"type": ["array", "null"],
			"items": {
				"type": "object",
				"required": ["key", "value"],
				"properties": {
					"key": {"type": "string"},
					"value": {"type": "string"},
					"disabled": {"$ref": "#/definitions/optBool"},
					"description": {"$ref": "#/definitions/optString"}
				}
			}
		},
		"formParams": {
			"type": ["array", "null"],
			"items": {
				"type": "object",
				"required": ["key"],
				"properties": {
					"key": {"type": "string"},
					"value": {"$ref": "#/definitions/optString"},
					"type": {"$ref": "#/definitions/optString"},
					"disabled": {"$ref": "#/definitions/optBool"},
					"description": {"$ref": "#/definitions/optString"}
				}
			}
		},
		"body": {
			"type": ["object", "null"],
			"properties": {
				"mode": {"$ref": "#/definitions/optString"},
				"raw": {"$ref": "#/definitions/optString"},
				"urlencoded": {"$ref": "#/definitions/formParams"},
				"formdata": {"$ref": "#/definitions/formParams"},
				"file": {
					"type": ["object", "null"],
					"properties": {"src": {"$ref": "#/definitions/optString"}}
				},
				"graphql": {
					"type": ["object", "null"],
					"properties": {
						"query": {"$ref": "#/definitions/optString"},
						"variables": {"$ref": "#/definitions/optString"}
					}
				}
			}
		},
		"auth": {
			"type": ["object", "null"],
			"properties": {
				"type": {"$ref": "#/definitions/optString"},
				"bearer": {"$ref": "#/definitions/variables"},
				"basic": {"$ref": "#/definitions/variables"},
				"digest": {"$ref": "#/definitions/variables"},
				"awsv4": {"$ref": "#/definitions/variables"},
				"hawk": {"$ref": "#/definitions/variables"},
				"oauth1": {"$ref": "#/definitions/variables"},
				"oauth2": {"$ref": "#/definitions/variables"},
				"ntlm": {"$ref": "#/definitions/variables"}
			}
		},
		"events": {
			"type": ["array", "null"],
			"items": {
				"type": "object",
				"properties": {
					"listen": {"$ref": "#/definitions/optString"},
					"script": {
						"type": ["object", "null"],
						"properties": {
							"type": {"$ref": "#/definitions/optString"},
							"exec": {"type": ["array", "null"], "items": {"type": "string"}},
							"src": {"$ref": "#/definitions/url"}
						}
					}
				}
			}
		},
		"response": {
			"type": "object",
			"properties": {
				"name": {"$ref": "#/definitions/optString"},
				"originalRequest": {"$ref": "#/definitions/request"},
				"status": {"$ref": "#/definitions/optString"},
				"code": {"type": ["integer", "null"], "minimum": 0, "maximum": 65535},
				"_postman_previewlanguage": {"$ref": "#/definitions/optString"},
				"header": {"$ref": "#/definitions/headers"},
				"cookie": {"type": ["array", "null"], "items": {"type": "object"}},
				"body": {"$ref": "#/definitions/optString"},
				"responseTime": {"$ref": "#/definitions/optString"}
			}
		}
	}
}`

const environmentSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["name"],
	"properties": {
		"id": {"$ref": "#/definitions/optString"},
		"name": {"type": "string"},
		"values": {"$ref": "#/definitions/variables"},
		"_postman_variable_scope": {"$ref": "#/definitions/optString"},
		"_postman_exported_at": {"$ref": "#/definitions/optString"},
		"_postman_exported_using": {"$ref": "#/definitions/optString"}
	},
	"definitions": {` + sharedDefinitions + `
	}
}`
