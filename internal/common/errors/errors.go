// Package errors provides standardized error handling for BPMN workflow integration
// and the HTTP API.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeIdentityNotLoaded    ErrorCode = "IDENTITY_NOT_LOADED"
	ErrCodeProfileLookupFailed  ErrorCode = "PROFILE_LOOKUP_FAILED"
	ErrCodeAuthenticationFailed ErrorCode = "AUTHENTICATION_ERROR"
	ErrCodeSignOutFailed        ErrorCode = "SIGN_OUT_FAILED"
	ErrCodeInvalidFilterFormat  ErrorCode = "INVALID_FILTER_FORMAT"
	ErrCodeInvalidInput         ErrorCode = "INVALID_INPUT"
	ErrCodeInvalidQueryType     ErrorCode = "INVALID_QUERY_TYPE"
	ErrCodeDatabaseConnection   ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeQueryTimeout         ErrorCode = "QUERY_TIMEOUT"
	ErrCodeDatabaseInsertFailed ErrorCode = "DATABASE_INSERT_FAILED"
	ErrCodeSearchConnection     ErrorCode = "ELASTICSEARCH_CONNECTION_FAILED"
	ErrCodeSearchQueryFailed    ErrorCode = "SEARCH_QUERY_FAILED"
	ErrCodeIndexNotFound        ErrorCode = "INDEX_NOT_FOUND"
	ErrCodeNotificationFailed   ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeVoiceUnavailable     ErrorCode = "VOICE_UNAVAILABLE"
	ErrCodeVoiceRecognition     ErrorCode = "VOICE_RECOGNITION_FAILED"
	ErrCodeVoiceSessionBusy     ErrorCode = "VOICE_SESSION_BUSY"
	ErrCodeInternal             ErrorCode = "INTERNAL_ERROR"
	ErrCodeExternalService      ErrorCode = "EXTERNAL_SERVICE_ERROR"
	ErrCodeTimeout              ErrorCode = "TIMEOUT_ERROR"
)

// StandardError represents a structured application error. Alert marks errors
// that the client surfaces to the user as a blocking notice.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Alert     bool                   `json:"alert,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// As extracts a StandardError from an error chain.
func As(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code ErrorCode) bool {
	stdErr, ok := As(err)
	return ok && stdErr.Code == code
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func newError(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

// NewIdentityNotLoadedError is returned when an operation needs a profile that has not resolved.
func NewIdentityNotLoadedError(userID string) *StandardError {
	return newError(ErrCodeIdentityNotLoaded, "Identity not loaded", fmt.Sprintf("userId: %s", userID), false)
}

func NewProfileLookupFailedError(err error) *StandardError {
	return newError(ErrCodeProfileLookupFailed, "Profile lookup failed", err.Error(), true)
}

func NewAuthenticationError(details string) *StandardError {
	return newError(ErrCodeAuthenticationFailed, "Authentication failed", details, false)
}

func NewSignOutFailedError(err error) *StandardError {
	return newError(ErrCodeSignOutFailed, "Sign-out failed", err.Error(), true)
}

// NewInvalidFilterFormatError creates a non-retryable filter format error.
func NewInvalidFilterFormatError(details string) *StandardError {
	return newError(ErrCodeInvalidFilterFormat, "Invalid filter format", details, false)
}

func NewInvalidInputError(details string) *StandardError {
	return newError(ErrCodeInvalidInput, "Invalid input", details, false)
}

// NewInvalidQueryTypeError creates a non-retryable invalid query type error.
func NewInvalidQueryTypeError(queryType string) *StandardError {
	return newError(ErrCodeInvalidQueryType, "Unsupported query type", fmt.Sprintf("queryType: %s", queryType), false)
}

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseConnection, "Database connection error", err.Error(), true)
}

// NewQueryExecutionFailedError creates a retryable query execution error.
func NewQueryExecutionFailedError(queryType string, err error) *StandardError {
	return newError(ErrCodeQueryExecutionFailed, "Database query execution error",
		fmt.Sprintf("queryType: %s, error: %s", queryType, err.Error()), true)
}

// NewQueryTimeoutError creates a retryable query timeout error.
func NewQueryTimeoutError(queryType string) *StandardError {
	return newError(ErrCodeQueryTimeout, "Database query timeout", fmt.Sprintf("queryType: %s", queryType), true)
}

// NewDatabaseInsertFailedError creates a retryable database insert error.
func NewDatabaseInsertFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseInsertFailed, "Database insert operation failed", err.Error(), true)
}

func NewSearchConnectionFailedError(err error) *StandardError {
	return newError(ErrCodeSearchConnection, "Elasticsearch connection error", err.Error(), true)
}

// NewSearchQueryFailedError creates a retryable search query error.
func NewSearchQueryFailedError(index string, err error) *StandardError {
	return newError(ErrCodeSearchQueryFailed, "Elasticsearch query error",
		fmt.Sprintf("index: %s, error: %s", index, err.Error()), true)
}

func NewIndexNotFoundError(indexName string) *StandardError {
	return newError(ErrCodeIndexNotFound, "Elasticsearch index not found", fmt.Sprintf("indexName: %s", indexName), false)
}

func NewNotificationFailedError(channel string, err error) *StandardError {
	return newError(ErrCodeNotificationFailed, "Notification delivery failed",
		fmt.Sprintf("channel: %s, error: %s", channel, err.Error()), true)
}

// NewVoiceUnavailableError is raised when no speech capability is configured.
func NewVoiceUnavailableError() *StandardError {
	e := newError(ErrCodeVoiceUnavailable, "Voice search is not supported", "speech recognition is not configured", false)
	e.Alert = true
	return e
}

// NewVoiceRecognitionError is raised when the recognizer fails or hears nothing.
func NewVoiceRecognitionError(details string) *StandardError {
	e := newError(ErrCodeVoiceRecognition, "Voice recognition error", details, false)
	e.Alert = true
	return e
}

func NewVoiceSessionBusyError() *StandardError {
	return newError(ErrCodeVoiceSessionBusy, "Voice session already listening", "", false)
}

func NewExternalServiceError(service string, err error) *StandardError {
	return newError(ErrCodeExternalService, fmt.Sprintf("External service '%s' error", service), err.Error(), true)
}

func NewTimeoutError(service string, err error) *StandardError {
	return newError(ErrCodeTimeout, fmt.Sprintf("Service '%s' timeout", service), err.Error(), true)
}

func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", err.Error(), false)
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// GetRetryCount returns the recommended Zeebe retry count for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeProfileLookupFailed,
		ErrCodeDatabaseConnection,
		ErrCodeQueryExecutionFailed,
		ErrCodeDatabaseInsertFailed,
		ErrCodeSearchConnection,
		ErrCodeSearchQueryFailed,
		ErrCodeNotificationFailed,
		ErrCodeSignOutFailed,
		ErrCodeExternalService:
		return 3

	case ErrCodeQueryTimeout, ErrCodeTimeout:
		return 2

	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
// BPMN codes are identical to internal codes.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	if stdErr.Alert {
		vars["alert"] = true
	}

	return &BPMNError{
		Code:           string(stdErr.Code),
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "IDENTITY") || strings.Contains(codeStr, "PROFILE") ||
		strings.Contains(codeStr, "AUTHENTICATION") || strings.Contains(codeStr, "SIGN_OUT"):
		return "IDENTITY"
	case strings.Contains(codeStr, "VOICE"):
		return "VOICE"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	case strings.Contains(codeStr, "ELASTICSEARCH") || strings.Contains(codeStr, "SEARCH") || strings.Contains(codeStr, "INDEX"):
		return "SEARCH"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY"):
		return "DATABASE"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	default:
		return "OTHER"
	}
}

// HTTPStatus maps an error code onto the API response status.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeIdentityNotLoaded, ErrCodeAuthenticationFailed:
		return http.StatusUnauthorized
	case ErrCodeInvalidFilterFormat, ErrCodeInvalidInput, ErrCodeInvalidQueryType:
		return http.StatusBadRequest
	case ErrCodeVoiceUnavailable:
		return http.StatusNotImplemented
	case ErrCodeVoiceRecognition:
		return http.StatusUnprocessableEntity
	case ErrCodeVoiceSessionBusy:
		return http.StatusConflict
	case ErrCodeQueryTimeout, ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case ErrCodeDatabaseConnection, ErrCodeSearchConnection, ErrCodeProfileLookupFailed, ErrCodeSignOutFailed,
		ErrCodeExternalService:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
