package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilters_Valid(t *testing.T) {
	tests := []struct {
		name string
		doc  interface{}
	}{
		{"nil", nil},
		{"empty", map[string]interface{}{}},
		{"all set", map[string]interface{}{
			"location":   "Berlin",
			"experience": "3-5",
			"salary":     "100k-150k",
			"remote":     true,
			"skills":     []interface{}{"go", "sql"},
		}},
		{"blank brackets", map[string]interface{}{"experience": "", "salary": ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Filters().Validate(tt.doc)
			require.NoError(t, err)
			assert.True(t, res.Valid, res.GetErrorMessages())
		})
	}
}

func TestFilters_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		doc   map[string]interface{}
		field string
	}{
		{"unknown experience bracket", map[string]interface{}{"experience": "20+"}, "experience"},
		{"unknown salary bracket", map[string]interface{}{"salary": "1m"}, "salary"},
		{"remote as string", map[string]interface{}{"remote": "yes"}, "remote"},
		{"empty skill", map[string]interface{}{"skills": []interface{}{""}}, "skills.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Filters().Validate(tt.doc)
			require.NoError(t, err)
			assert.False(t, res.Valid)
			assert.True(t, res.HasErrors(tt.field), res.GetErrorMessages())
		})
	}
}

func TestFilters_RejectsUnknownKeys(t *testing.T) {
	res, err := Filters().Validate(map[string]interface{}{"industry": "retail"})
	require.NoError(t, err)
	assert.False(t, res.Valid)
}

func TestNewValidator_BadSchema(t *testing.T) {
	_, err := NewValidator(`{"type": 12}`)
	assert.Error(t, err)
}
