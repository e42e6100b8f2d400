package validation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "recruit-workers/internal/common/errors"
	"recruit-workers/internal/models"
)

func TestParseFilters(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    models.SearchFilters
		wantErr bool
	}{
		{name: "empty", raw: ``},
		{name: "null", raw: `null`},
		{name: "empty object", raw: `{}`},
		{
			name: "full",
			raw:  `{"location":"Berlin","experience":"3-5","salary":"50k-100k","remote":true,"skills":["go"]}`,
			want: models.SearchFilters{Location: "Berlin", Experience: "3-5", Salary: "50k-100k", Remote: true, Skills: []string{"go"}},
		},
		{name: "unknown bracket", raw: `{"experience":"20+"}`, wantErr: true},
		{name: "remote as string", raw: `{"remote":"yes"}`, wantErr: true},
		{name: "unknown field", raw: `{"industry":"fintech"}`, wantErr: true},
		{name: "not an object", raw: `["go"]`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFilters(json.RawMessage(tt.raw))
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidFilterFormat))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
