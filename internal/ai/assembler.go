package ai

import (
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// Assembler turns a collected Batch into a prompt plus a JSON schema every
// key must satisfy, and validates a Transport's raw response against it
// before the engine trusts the Answers.
type Assembler struct{}

// NewAssembler creates an Assembler.
func NewAssembler() *Assembler { return &Assembler{} }

// Schema builds a JSON schema requiring one string property per Batch
// entry.
func (Assembler) Schema(batch Batch) map[string]interface{} {
	props := make(map[string]interface{}, len(batch.Entries))
	required := make([]string, 0, len(batch.Entries))
	for _, e := range batch.Entries {
		props[e.Key] = map[string]interface{}{"type": "string"}
		required = append(required, e.Key)
	}
	return map[string]interface{}{
		"type":                 "object",
		"properties":           props,
		"required":             required,
		"additionalProperties": false,
	}
}

// Validate checks a raw JSON response against the Batch's schema, returning
// the parsed Answers on success.
func (a Assembler) Validate(batch Batch, rawJSON string) (Answers, error) {
	schema := a.Schema(batch)
	schemaLoader := gojsonschema.NewGoLoader(schema)
	docLoader := gojsonschema.NewStringLoader(rawJSON)

	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("AI response did not satisfy the answer schema: %v", msgs)
	}

	var answers Answers
	if err := json.Unmarshal([]byte(rawJSON), &answers); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w", err)
	}
	return answers, nil
}
