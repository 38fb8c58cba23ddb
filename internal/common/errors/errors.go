// Package errors provides standardized error handling for the research and
// content pipeline.
package errors

import (
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeConfigInvalid     ErrorCode = "CONFIG_INVALID"
	ErrCodeCredentialMissing ErrorCode = "CREDENTIAL_MISSING"

	ErrCodeProductInvalid ErrorCode = "PRODUCT_INVALID"

	ErrCodeScrapeFailed  ErrorCode = "SCRAPE_FAILED"
	ErrCodeSearchFailed  ErrorCode = "SEARCH_FAILED"
	ErrCodeSearchTimeout ErrorCode = "SEARCH_TIMEOUT"

	ErrCodeLLMTimeout     ErrorCode = "LLM_TIMEOUT"
	ErrCodeLLMCallFailed  ErrorCode = "LLM_CALL_FAILED"
	ErrCodeLLMParseFailed ErrorCode = "LLM_PARSE_FAILED"

	ErrCodeContentFailed     ErrorCode = "CONTENT_GENERATION_FAILED"
	ErrCodePersistenceFailed ErrorCode = "PERSISTENCE_FAILED"
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
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewConfigInvalidError creates a fatal configuration error.
func NewConfigInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeConfigInvalid,
		Message:   "Invalid configuration",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCredentialMissingError creates a fatal error for a missing credential
// environment variable.
func NewCredentialMissingError(envVar string) *StandardError {
	return &StandardError{
		Code:      ErrCodeCredentialMissing,
		Message:   "Required credential not found in environment",
		Details:   fmt.Sprintf("environment variable: %s", envVar),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewProductInvalidError creates a non-retryable product validation error.
func NewProductInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeProductInvalid,
		Message:   "Product definition is missing required fields",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewScrapeFailedError creates a recoverable scrape error. Callers degrade
// to the channel's documented default instead of aborting.
func NewScrapeFailedError(url string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeScrapeFailed,
		Message:   "Failed to fetch or parse page",
		Details:   fmt.Sprintf("url: %s, error: %v", url, err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchFailedError creates a recoverable search error.
func NewSearchFailedError(query string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchFailed,
		Message:   "Web search request failed",
		Details:   fmt.Sprintf("query: %s, error: %v", query, err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewContentFailedError creates a per-product content generation error.
func NewContentFailedError(product string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeContentFailed,
		Message:   "Content generation failed",
		Details:   fmt.Sprintf("product: %s, error: %v", product, err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewPersistenceFailedError creates an error for a failed artifact write.
func NewPersistenceFailedError(path string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodePersistenceFailed,
		Message:   "Failed to persist artifact",
		Details:   fmt.Sprintf("path: %s, error: %v", path, err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}
