// Package errors provides standardized error handling for query requests.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeInvalidRequest     ErrorCode = "INVALID_REQUEST"
	ErrCodeMissingCredentials ErrorCode = "MISSING_CREDENTIALS"

	ErrCodeBoardFetchFailed       ErrorCode = "BOARD_FETCH_FAILED"
	ErrCodeBoardResponseMalformed ErrorCode = "BOARD_RESPONSE_MALFORMED"

	ErrCodeLLMTimeout         ErrorCode = "LLM_TIMEOUT"
	ErrCodeLLMSynthesisFailed ErrorCode = "LLM_SYNTHESIS_FAILED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// WithMetadata returns e with key set in its metadata.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// ==========================
// 2. Error Constructors
// ==========================

// NewInvalidRequestError creates a non-retryable request validation error.
func NewInvalidRequestError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidRequest,
		Message:   "Request validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewMissingCredentialsError reports which credential could not be resolved
// from the request or the environment.
func NewMissingCredentialsError(name string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMissingCredentials,
		Message:   "Required credential not provided",
		Details:   fmt.Sprintf("missing: %s", name),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewBoardFetchFailedError creates an error for a failed board service call.
func NewBoardFetchFailedError(boardID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeBoardFetchFailed,
		Message:   "Board service request failed",
		Details:   fmt.Sprintf("boardId: %s, error: %s", boardID, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewBoardResponseMalformedError creates an error for a board payload
// missing expected keys.
func NewBoardResponseMalformedError(boardID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeBoardResponseMalformed,
		Message:   "Board service returned an unexpected payload",
		Details:   fmt.Sprintf("boardId: %s, error: %s", boardID, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewLLMTimeoutError creates an LLM timeout error.
func NewLLMTimeoutError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeLLMTimeout,
		Message:   "LLM synthesis timeout",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewLLMSynthesisFailedError creates an LLM provider error.
func NewLLMSynthesisFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeLLMSynthesisFailed,
		Message:   "LLM synthesis API error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewInternalError wraps anything unclassified.
func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// ==========================
// 3. Classification
// ==========================

// sentinelCodes lists codes that package-level sentinel errors use as their
// message, e.g. board.ErrFetchFailed.
var sentinelCodes = []ErrorCode{
	ErrCodeInvalidRequest,
	ErrCodeMissingCredentials,
	ErrCodeBoardFetchFailed,
	ErrCodeBoardResponseMalformed,
	ErrCodeLLMTimeout,
	ErrCodeLLMSynthesisFailed,
}

// Normalize ensures we always have a StandardError. Errors that already are
// one pass through; errors wrapping a sentinel whose text is a known code
// get that code; everything else is INTERNAL_ERROR.
func Normalize(err error) *StandardError {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	for e := err; e != nil; e = stderrors.Unwrap(e) {
		for _, code := range sentinelCodes {
			if e.Error() == string(code) {
				return &StandardError{
					Code:      code,
					Message:   messageFor(code),
					Details:   err.Error(),
					Retryable: IsRetryable(code),
					Timestamp: time.Now().UTC(),
					cause:     err,
				}
			}
		}
	}
	return NewInternalError(err)
}

func messageFor(code ErrorCode) string {
	switch code {
	case ErrCodeInvalidRequest:
		return "Request validation failed"
	case ErrCodeMissingCredentials:
		return "Required credential not provided"
	case ErrCodeBoardFetchFailed:
		return "Board service request failed"
	case ErrCodeBoardResponseMalformed:
		return "Board service returned an unexpected payload"
	case ErrCodeLLMTimeout:
		return "LLM synthesis timeout"
	case ErrCodeLLMSynthesisFailed:
		return "LLM synthesis API error"
	default:
		return "Unexpected error"
	}
}

// IsRetryable reports whether a caller could reasonably try again. Nothing
// in this service retries on its own.
func IsRetryable(code ErrorCode) bool {
	switch code {
	case ErrCodeBoardFetchFailed, ErrCodeLLMTimeout, ErrCodeLLMSynthesisFailed:
		return true
	default:
		return false
	}
}

// HTTPStatus maps an error code to the transport status.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeInvalidRequest, ErrCodeMissingCredentials:
		return http.StatusBadRequest
	case ErrCodeBoardFetchFailed, ErrCodeBoardResponseMalformed, ErrCodeLLMSynthesisFailed:
		return http.StatusBadGateway
	case ErrCodeLLMTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// GetErrorCategory groups codes for logging.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeInvalidRequest, ErrCodeMissingCredentials:
		return "client"
	case ErrCodeBoardFetchFailed, ErrCodeBoardResponseMalformed:
		return "board_service"
	case ErrCodeLLMTimeout, ErrCodeLLMSynthesisFailed:
		return "llm"
	default:
		return "internal"
	}
}
