package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAs_UnwrapsWrappedStandardError(t *testing.T) {
	wrapped := fmt.Errorf("execute: %w", NewInvalidFilterFormatError("salary"))

	stdErr, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, ErrCodeInvalidFilterFormat, stdErr.Code)
	assert.True(t, HasCode(wrapped, ErrCodeInvalidFilterFormat))
	assert.False(t, HasCode(fmt.Errorf("plain"), ErrCodeInvalidFilterFormat))
}

func TestNormalize_WrapsUnknownErrors(t *testing.T) {
	stdErr := Normalize(fmt.Errorf("boom"))
	assert.Equal(t, ErrCodeInternal, stdErr.Code)
	assert.Equal(t, "boom", stdErr.Details)
	assert.False(t, stdErr.Retryable)
}

func TestVoiceErrors_AreAlerts(t *testing.T) {
	assert.True(t, NewVoiceUnavailableError().Alert)
	assert.True(t, NewVoiceRecognitionError("no-speech").Alert)
	assert.False(t, NewVoiceSessionBusyError().Alert)
}

func TestConvertToBPMNError(t *testing.T) {
	bpmn := ConvertToBPMNError(NewQueryExecutionFailedError("jobs_by_company", fmt.Errorf("conn reset")))
	assert.Equal(t, "QUERY_EXECUTION_FAILED", bpmn.Code)
	assert.Equal(t, 3, bpmn.Retries)
	assert.True(t, bpmn.Retryable)

	vars := bpmn.ToErrorVariables()
	assert.Equal(t, "QUERY_EXECUTION_FAILED", vars["errorCode"])
	assert.Equal(t, "QUERY_EXECUTION_FAILED", vars["originalErrorCode"])
	assert.NotContains(t, vars, "alert")

	alert := ConvertToBPMNError(NewVoiceRecognitionError("network"))
	assert.Equal(t, 0, alert.Retries)
	assert.Equal(t, true, alert.ToErrorVariables()["alert"])
}

func TestGetErrorCategory(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want string
	}{
		{ErrCodeIdentityNotLoaded, "IDENTITY"},
		{ErrCodeProfileLookupFailed, "IDENTITY"},
		{ErrCodeVoiceRecognition, "VOICE"},
		{ErrCodeInvalidFilterFormat, "VALIDATION"},
		{ErrCodeInvalidQueryType, "VALIDATION"},
		{ErrCodeSearchQueryFailed, "SEARCH"},
		{ErrCodeIndexNotFound, "SEARCH"},
		{ErrCodeQueryTimeout, "DATABASE"},
		{ErrCodeDatabaseInsertFailed, "DATABASE"},
		{ErrCodeNotificationFailed, "NOTIFICATION"},
		{ErrCodeInternal, "OTHER"},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, GetErrorCategory(tt.code))
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(ErrCodeIdentityNotLoaded))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(ErrCodeInvalidFilterFormat))
	assert.Equal(t, http.StatusNotImplemented, HTTPStatus(ErrCodeVoiceUnavailable))
	assert.Equal(t, http.StatusConflict, HTTPStatus(ErrCodeVoiceSessionBusy))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(ErrCodeInternal))
}

func TestIsRetryableErrorCode(t *testing.T) {
	assert.True(t, IsRetryableErrorCode(ErrCodeDatabaseInsertFailed))
	assert.False(t, IsRetryableErrorCode(ErrCodeIdentityNotLoaded))
}

func TestRemainingRetries(t *testing.T) {
	tests := []struct {
		name        string
		jobRetries  int32
		codeRetries int
		maxRetries  int
		want        int
	}{
		{"code count within budget", 5, 3, 0, 3},
		{"job budget smaller than code count", 3, 3, 0, 2},
		{"capped by worker max", 5, 3, 1, 1},
		{"worker max above code count", 5, 2, 4, 2},
		{"last attempt", 1, 3, 3, 0},
		{"non-retryable code", 3, 0, 3, 0},
		{"exhausted job", 0, 3, 3, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RemainingRetries(tt.jobRetries, tt.codeRetries, tt.maxRetries))
		})
	}
}

func TestErrorHandler_WithMaxRetries(t *testing.T) {
	h := NewErrorHandler(nil).WithMaxRetries(2)
	assert.Equal(t, 2, h.maxRetries)
}
