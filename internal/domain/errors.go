package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorCode identifies the pipeline stage or access rule an error came from.
// Handlers map these to HTTP statuses; callers use them to tell transient
// failures (network) apart from deterministic ones (malformed output).
type ErrorCode string

const (
	// Common errors
	ErrInternal     ErrorCode = "INTERNAL_ERROR"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"
	ErrUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrForbidden    ErrorCode = "FORBIDDEN"

	// Input validation
	ErrMissingURL       ErrorCode = "MISSING_URL"
	ErrInvalidURLFormat ErrorCode = "INVALID_URL_FORMAT"

	// Audio acquisition
	ErrVideoUnavailable    ErrorCode = "VIDEO_UNAVAILABLE"
	ErrAudioDownloadFailed ErrorCode = "AUDIO_DOWNLOAD_FAILED"

	// Transcription
	ErrTranscriptionFailed ErrorCode = "TRANSCRIPTION_FAILED"

	// Quiz synthesis. Network failures are transient; the other two are
	// deterministic for a given transcript and must not be blindly retried.
	ErrSynthesisNetwork       ErrorCode = "SYNTHESIS_NETWORK"
	ErrSynthesisMalformedJSON ErrorCode = "SYNTHESIS_MALFORMED_JSON"
	ErrSynthesisSchema        ErrorCode = "SYNTHESIS_SCHEMA"

	// Structural validation and persistence
	ErrQuizValidationFailed ErrorCode = "QUIZ_VALIDATION_FAILED"
	ErrPersistenceFailed    ErrorCode = "PERSISTENCE_FAILED"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// CodeOf extracts the ErrorCode from err, or ErrInternal if err is not a
// DomainError.
func CodeOf(err error) ErrorCode {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ErrInternal
}

// Helper constructors, one per failure class.

func NewMissingURLError() *DomainError {
	return NewError(ErrMissingURL, "url is missing", nil)
}

func NewInvalidURLFormatError(prefix string) *DomainError {
	return NewError(ErrInvalidURLFormat,
		fmt.Sprintf("the entered URL is incorrect; it must begin with %s", prefix), nil)
}

func NewVideoUnavailableError(url string, err error) *DomainError {
	return NewError(ErrVideoUnavailable, fmt.Sprintf("video is unavailable: %s", url), err)
}

func NewAudioDownloadFailedError(err error) *DomainError {
	return NewError(ErrAudioDownloadFailed, "audio download failed", err)
}

func NewTranscriptionError(err error) *DomainError {
	return NewError(ErrTranscriptionFailed, "audio transcription failed", err)
}

func NewSynthesisNetworkError(err error) *DomainError {
	return NewError(ErrSynthesisNetwork, "generative model call failed", err)
}

func NewSynthesisMalformedJSONError(err error) *DomainError {
	return NewError(ErrSynthesisMalformedJSON, "generative model response is not valid JSON", err)
}

func NewSynthesisSchemaError(detail string, err error) *DomainError {
	return NewError(ErrSynthesisSchema,
		fmt.Sprintf("generative model response does not match the requested shape: %s", detail), err)
}

// NewQuizValidationError names the violated rule and, for per-question rules,
// the zero-based question index. index < 0 means a quiz-level rule.
func NewQuizValidationError(rule string, index int) *DomainError {
	msg := fmt.Sprintf("quiz validation failed: %s", rule)
	if index >= 0 {
		msg = fmt.Sprintf("quiz validation failed at question %d: %s", index, rule)
	}
	return NewError(ErrQuizValidationFailed, msg, nil)
}

func NewPersistenceError(err error) *DomainError {
	return NewError(ErrPersistenceFailed, "failed to persist quiz", err)
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(ErrInvalidInput, message, nil)
}

func NewNotFoundError(message string) *DomainError {
	return NewError(ErrNotFound, message, nil)
}

func NewUnauthorizedError(message string) *DomainError {
	return NewError(ErrUnauthorized, message, nil)
}

func NewForbiddenError(message string) *DomainError {
	return NewError(ErrForbidden, message, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(ErrInternal, message, err)
}
