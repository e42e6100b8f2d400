package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	apperrors "recruit-workers/internal/common/errors"
	"recruit-workers/internal/models"
)

// ParseFilters validates raw filter JSON against SearchFiltersSchema and
// decodes it. Empty input and JSON null yield empty filters.
func ParseFilters(raw json.RawMessage) (models.SearchFilters, error) {
	var filters models.SearchFilters

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return filters, nil
	}

	result, err := Filters().Validate(json.RawMessage(trimmed))
	if err != nil {
		return filters, apperrors.NewInvalidFilterFormatError(err.Error())
	}
	if !result.Valid {
		return filters, apperrors.NewInvalidFilterFormatError(strings.Join(result.GetErrorMessages(), "; "))
	}

	if err := json.Unmarshal(trimmed, &filters); err != nil {
		return filters, apperrors.NewInvalidFilterFormatError(fmt.Sprintf("decode filters: %v", err))
	}
	return filters, nil
}
