package validation

import (
	"fmt"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// SearchFiltersSchema constrains the filter object accepted by search and
// saved-search operations.
const SearchFiltersSchema = `{
  "type": "object",
  "properties": {
    "location":   {"type": "string", "maxLength": 200},
    "experience": {"type": "string", "enum": ["", "0-2", "3-5", "6-10", "10+"]},
    "salary":     {"type": "string", "enum": ["", "0-50k", "50k-100k", "100k-150k", "150k+"]},
    "remote":     {"type": "boolean"},
    "skills":     {"type": "array", "items": {"type": "string", "minLength": 1}, "maxItems": 25}
  },
  "additionalProperties": false
}`

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Validator validates documents against a compiled JSON schema.
type Validator struct {
	schema *gojsonschema.Schema
}

// NewValidator compiles a JSON schema document.
func NewValidator(schemaJSON string) (*Validator, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	return &Validator{schema: schema}, nil
}

var (
	filtersOnce      sync.Once
	filtersValidator *Validator
)

// Filters returns the shared search filter validator.
func Filters() *Validator {
	filtersOnce.Do(func() {
		v, err := NewValidator(SearchFiltersSchema)
		if err != nil {
			panic(err)
		}
		filtersValidator = v
	})
	return filtersValidator
}

// Validate checks any Go value that marshals to JSON. A nil document is valid.
func (v *Validator) Validate(doc interface{}) (*ValidationResult, error) {
	if doc == nil {
		return &ValidationResult{Valid: true}, nil
	}

	result, err := v.schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   desc.Field(),
			Message: desc.Description(),
			Code:    desc.Type(),
		})
	}
	return out, nil
}

// GetErrorMessages returns "field: message" strings.
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, 0, len(vr.Errors))
	for _, e := range vr.Errors {
		messages = append(messages, fmt.Sprintf("%s: %s", e.Field, e.Message))
	}
	return messages
}

// HasErrors reports whether a field has validation errors.
func (vr *ValidationResult) HasErrors(field string) bool {
	for _, e := range vr.Errors {
		if e.Field == field {
			return true
		}
	}
	return false
}
