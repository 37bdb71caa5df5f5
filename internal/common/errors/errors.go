// internal/common/errors/errors.go

// Package errors provides standardized error handling for the synthesis and
// fulfillment workflows.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeRequestValidationFailed ErrorCode = "REQUEST_VALIDATION_FAILED"

	ErrCodeContentCallFailed ErrorCode = "CONTENT_CALL_FAILED"
	ErrCodeContentMalformed  ErrorCode = "CONTENT_MALFORMED"
	ErrCodeContentTimeout    ErrorCode = "CONTENT_TIMEOUT"

	ErrCodeImageGenerationFailed ErrorCode = "IMAGE_GENERATION_FAILED"
	ErrCodeImageSearchFailed     ErrorCode = "IMAGE_SEARCH_FAILED"

	ErrCodeMissingReference  ErrorCode = "MISSING_REFERENCE"
	ErrCodeInvalidSignature  ErrorCode = "INVALID_SIGNATURE"
	ErrCodeStagedFetchFailed ErrorCode = "STAGED_FETCH_FAILED"
	ErrCodeDeploymentFailed  ErrorCode = "DEPLOYMENT_FAILED"
	ErrCodeDomainLookup      ErrorCode = "DOMAIN_LOOKUP_FAILED"
	ErrCodeCheckoutFailed    ErrorCode = "CHECKOUT_FAILED"

	ErrCodeRecordInsertFailed ErrorCode = "RECORD_INSERT_FAILED"
	ErrCodeAlertSendFailed    ErrorCode = "ALERT_SEND_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// NewRequestValidationError creates a non-retryable request validation error.
func NewRequestValidationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRequestValidationFailed,
		Message:   "Generation request validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewContentCallFailedError creates a retryable content transport error.
func NewContentCallFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeContentCallFailed,
		Message:   "Content provider call failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewContentMalformedError creates a non-retryable malformed-response error.
// Kept distinct from the transport error so operator messages stay actionable.
func NewContentMalformedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeContentMalformed,
		Message:   "Content provider returned a malformed document",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewMissingReferenceError creates a non-retryable missing pendingId error.
func NewMissingReferenceError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMissingReference,
		Message:   "Staged site reference missing",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidSignatureError creates a non-retryable webhook signature error.
func NewInvalidSignatureError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidSignature,
		Message:   "Webhook signature verification failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewStagedFetchFailedError creates a retryable object-store fetch error.
func NewStagedFetchFailedError(pendingID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStagedFetchFailed,
		Message:   "Staged bundle fetch failed",
		Details:   fmt.Sprintf("pendingId: %s, error: %s", pendingID, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDeploymentFailedError creates a retryable deployment error preserving
// the raw provider detail.
func NewDeploymentFailedError(projectName, providerDetail string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDeploymentFailed,
		Message:   "Hosting platform rejected the deployment",
		Details:   fmt.Sprintf("project: %s, provider: %s", projectName, providerDetail),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCheckoutFailedError creates a retryable checkout session error.
func NewCheckoutFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCheckoutFailed,
		Message:   "Payment session creation failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewRecordInsertFailedError creates a retryable record insert error.
func NewRecordInsertFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRecordInsertFailed,
		Message:   "Fulfillment record insert failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewExternalServiceError creates a generic retryable external-service error.
func NewExternalServiceError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "EXTERNAL_SERVICE_ERROR",
		Message:   fmt.Sprintf("External service '%s' error", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "CONTENT"):
		return "CONTENT"
	case strings.Contains(codeStr, "IMAGE"):
		return "IMAGES"
	case strings.Contains(codeStr, "SIGNATURE") || strings.Contains(codeStr, "REFERENCE"):
		return "WEBHOOK"
	case strings.Contains(codeStr, "DEPLOYMENT") || strings.Contains(codeStr, "DOMAIN") || strings.Contains(codeStr, "STAGED"):
		return "FULFILLMENT"
	case strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}

// IsRetryable reports whether err carries a retryable StandardError.
func IsRetryable(err error) bool {
	if se, ok := err.(*StandardError); ok {
		return se.Retryable
	}
	return false
}
