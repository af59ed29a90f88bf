package service

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/soorajhamirani/ContractGuard-AI/model"
)

// BuildClauseListSchema returns the JSON Schema (draft 2020-12 subset) the
// reasoning service's output must match: an array of clause assessments.
// It is embedded in the prompt and used locally to validate the response.
func BuildClauseListSchema() map[string]any {
	return map[string]any{
		"type": "array",
		"items": map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"properties": map[string]any{
				"clause":             map[string]any{"type": "string", "minLength": 1},
				"risk_type":          map[string]any{"type": "string", "enum": model.RiskTypes},
				"risk_score":         map[string]any{"type": "integer", "minimum": 1, "maximum": 10},
				"reasoning":          map[string]any{"type": "string"},
				"suggested_revision": map[string]any{"type": "string"},
				"confidence":         map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0},
			},
			"required": []string{
				"clause",
				"risk_type",
				"risk_score",
				"reasoning",
				"suggested_revision",
				"confidence",
			},
		},
	}
}

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
