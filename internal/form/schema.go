package form

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// BuildProfileJSONSchema returns the JSON-Schema of a profile override file as a generic map.
// Every property is optional; absent ones keep their default.
func BuildProfileJSONSchema() map[string]any {
	props := map[string]any{
		"identifier_pattern": map[string]any{"type": "string", "minLength": 1},
		"anchor_a_pattern":   map[string]any{"type": "string", "minLength": 1},
		"anchor_b_pattern":   map[string]any{"type": "string", "minLength": 1},
		"owner_code":         map[string]any{"type": "string", "minLength": 1},
		"reference_text":     map[string]any{"type": "string", "minLength": 1},
		"font_start_size":    map[string]any{"type": "number", "minimum": 1},
		"font_growth":        map[string]any{"type": "number", "exclusiveMinimum": 1, "maximum": 2},
		"width_factor":       map[string]any{"type": "number", "exclusiveMinimum": 0},
		"approval_offset":    map[string]any{"type": "number", "minimum": 0},
		"owner_offset":       map[string]any{"type": "number", "minimum": 0},
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
	}
}

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("profile.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("profile.json")
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
