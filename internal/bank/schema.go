package bank

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// FileSchema is the JSON Schema every bank file must satisfy.
var FileSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"format": map[string]any{
			"type":        "string",
			"description": "Bank file format version, e.g. v1.0.0",
		},
		"id": map[string]any{
			"type":    "string",
			"pattern": "^[a-z0-9][a-z0-9-]*$",
		},
		"title": map[string]any{
			"type":      "string",
			"minLength": 1,
		},
		"grade": map[string]any{
			"type": "string",
		},
		"questions": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"question": map[string]any{"type": "string", "minLength": 1},
					"choices": map[string]any{
						"type":     "array",
						"minItems": 2,
						"items":    map[string]any{"type": "string", "minLength": 1},
					},
					"answer": map[string]any{"type": "string", "minLength": 1},
					"image":  map[string]any{"type": "string"},
				},
				"required":             []any{"question", "choices", "answer"},
				"additionalProperties": false,
			},
		},
	},
	"required":             []any{"format", "id", "title", "questions"},
	"additionalProperties": false,
}

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

// validateDocument checks a decoded JSON document against FileSchema.
func validateDocument(doc any) error {
	compileOnce.Do(func() {
		compiled, compileErr = compileFileSchema()
	})
	if compileErr != nil {
		return fmt.Errorf("compile bank schema: %w", compileErr)
	}
	return compiled.Validate(doc)
}

func compileFileSchema() (*jsonschema.Schema, error) {
	// The compiler wants a plain decoded JSON value, not Go map literals
	// with typed slices.
	raw, err := json.Marshal(FileSchema)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	var def any
	if err := json.Unmarshal(raw, &def); err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	const url = "schema://quizbook-bank.json"
	if err := c.AddResource(url, def); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	return c.Compile(url)
}
