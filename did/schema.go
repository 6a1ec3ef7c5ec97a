package did

import (
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

const resolutionResultSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["didResolutionMetadata", "didDocument", "didDocumentMetadata"],
  "properties": {
    "didResolutionMetadata": {
      "type": "object",
      "properties": {
        "contentType": {"type": "string", "minLength": 1},
        "error": {"type": "string", "minLength": 1}
      },
      "oneOf": [
        {"required": ["contentType"]},
        {"required": ["error"]}
      ]
    },
    "didDocument": {
      "anyOf": [
        {"type": "null"},
        {"$ref": "#/definitions/document"}
      ]
    },
    "didDocumentMetadata": {
      "type": "object",
      "properties": {
        "deactivated": {"type": "boolean"}
      }
    }
  },
  "definitions": {
    "document": {
      "type": "object",
      "required": ["@context", "id", "verificationMethod", "authentication"],
      "properties": {
        "@context": {"type": "array", "items": {"type": "string"}, "minItems": 1},
        "id": {"type": "string", "pattern": "^did:[a-z0-9]+:"},
        "verificationMethod": {
          "type": "array",
          "minItems": 1,
          "items": {"$ref": "#/definitions/verificationMethod"}
        },
        "authentication": {"type": "array", "items": {"type": "string"}}
      }
    },
    "verificationMethod": {
      "type": "object",
      "required": ["id", "type", "controller"],
      "properties": {
        "id": {"type": "string"},
        "type": {"type": "string"},
        "controller": {"type": "string"},
        "publicKeyHex": {"type": "string", "minLength": 1},
        "publicKeyBase58": {"type": "string", "minLength": 1}
      },
      "oneOf": [
        {"required": ["publicKeyHex"]},
        {"required": ["publicKeyBase58"]}
      ]
    }
  }
}`

var (
	resultSchema        *gojsonschema.Schema
	loadResultSchema    sync.Once
	errLoadResultSchema error
)

func schema() (*gojsonschema.Schema, error) {
	loadResultSchema.Do(func() {
		resultSchema, errLoadResultSchema = gojsonschema.NewSchema(gojsonschema.NewStringLoader(resolutionResultSchema))
	})

	return resultSchema, errLoadResultSchema
}

// ValidateResult checks that a resolution result has the W3C DID Resolution shape.
func ValidateResult(result *ResolutionResult) error {
	if result == nil {
		return fmt.Errorf("resolution result is nil")
	}

	s, err := schema()
	if err != nil {
		return fmt.Errorf("failed to load resolution result schema: %w", err)
	}

	res, err := s.Validate(gojsonschema.NewGoLoader(result))
	if err != nil {
		return fmt.Errorf("failed to validate resolution result: %w", err)
	}

	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("invalid resolution result: %s", strings.Join(msgs, "; "))
	}

	return nil
}
