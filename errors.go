package srctl

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDirection is returned for a direction token outside the allow-list.
	ErrInvalidDirection = errors.New("invalid direction")
	// ErrInvalidMode is returned for a mode selector other than 0, 1 or 2.
	ErrInvalidMode = errors.New("invalid mode")
)

// TranslationError is returned when translating a comment fails and the run is aborted.
type TranslationError struct {
	Message string
	Offset  int // Byte offset of the comment span in the input, -1 if unknown
	Cause   error
}

func (e *TranslationError) Error() string {
	msg := e.Message
	if e.Offset >= 0 {
		msg = fmt.Sprintf("%s at offset %d", e.Message, e.Offset)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *TranslationError) Unwrap() error {
	return e.Cause
}

// ProviderError indicates a translation backend failure (network, HTTP status, bad payload).
type ProviderError struct {
	Message   string
	Cause     error
	Retryable bool // Whether the operation can be retried
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("provider error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("provider error: %s", e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// CacheError indicates a cache operation failure. Cache errors never abort a run.
type CacheError struct {
	Message string
	Cause   error
}

func (e *CacheError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("cache error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("cache error: %s", e.Message)
}

func (e *CacheError) Unwrap() error {
	return e.Cause
}

// ProcessorError indicates a scanning failure or a missing scanner.
type ProcessorError struct {
	Message     string
	Cause       error
	ContentType string // The content type the scanner was requested for
}

func (e *ProcessorError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("processor error (%s): %s: %v", e.ContentType, e.Message, e.Cause)
	}
	return fmt.Sprintf("processor error (%s): %s", e.ContentType, e.Message)
}

func (e *ProcessorError) Unwrap() error {
	return e.Cause
}

// ValidationError reports user input rejected before any processing starts.
type ValidationError struct {
	Field string
	Value string
	Cause error
}

func (e *ValidationError) Error() string {
	switch {
	case errors.Is(e.Cause, ErrInvalidDirection):
		return fmt.Sprintf("%s %q: available directions: %s", e.Field, e.Value, AvailableDirectionsString())
	case e.Cause != nil:
		return fmt.Sprintf("%s %q: %v", e.Field, e.Value, e.Cause)
	default:
		return fmt.Sprintf("invalid %s %q", e.Field, e.Value)
	}
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}
