package application

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// directiveSchema is the structural contract every inbound body must meet
// before decoding. Field names are case-sensitive.
const directiveSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["directive"],
  "properties": {
    "directive": {
      "type": "object",
      "required": ["header", "payload"],
      "properties": {
        "header": {
          "type": "object",
          "required": ["namespace", "name", "payloadVersion", "messageId"],
          "properties": {
            "namespace": {"type": "string", "minLength": 1},
            "name": {"type": "string", "minLength": 1},
            "payloadVersion": {"type": "string", "minLength": 1},
            "messageId": {"type": "string", "minLength": 1},
            "correlationToken": {"type": "string"}
          }
        },
        "endpoint": {
          "type": "object",
          "required": ["endpointId"],
          "properties": {
            "endpointId": {"type": "string", "minLength": 1},
            "scope": {
              "type": "object",
              "properties": {
                "type": {"type": "string"},
                "token": {"type": "string"}
              }
            },
            "cookie": {"type": "object"}
          }
        },
        "payload": {"type": "object"}
      }
    }
  }
}`

var (
	schemaOnce     sync.Once
	schemaCompiled *jsonschema.Schema
	schemaErr      error
)

func compiledDirectiveSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		var doc any
		if err := json.Unmarshal([]byte(directiveSchema), &doc); err != nil {
			schemaErr = fmt.Errorf("unmarshaling directive schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource("directive.json", doc); err != nil {
			schemaErr = fmt.Errorf("adding schema resource: %w", err)
			return
		}
		schemaCompiled, schemaErr = c.Compile("directive.json")
	})
	return schemaCompiled, schemaErr
}

// ValidateDirective checks raw JSON against the directive schema. A body
// that fails the check wraps ErrMalformedDirective.
func ValidateDirective(raw []byte) error {
	schema, err := compiledDirectiveSchema()
	if err != nil {
		return err
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedDirective, err)
	}

	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedDirective, err)
	}

	return nil
}
