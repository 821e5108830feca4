package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

/**
 * Custom error types for the highlight extraction worker
 *
 * Only two conditions are fatal to a pipeline run: an unreadable source
 * image and a mask that could not be constructed at all. Everything else
 * degrades into partial output and never surfaces here.
 */

// ErrorCode enum for structured error handling
type ErrorCode string

const (
	// Pipeline errors
	ErrorInvalidImage        ErrorCode = "INVALID_IMAGE"
	ErrorNoHighlightDetected ErrorCode = "NO_HIGHLIGHT_DETECTED"
	ErrorRecognitionFailed   ErrorCode = "RECOGNITION_FAILED"

	// Worker errors
	ErrorProcessingTimeout ErrorCode = "PROCESSING_TIMEOUT"
	ErrorQueueFailed       ErrorCode = "QUEUE_FAILED"
)

// ExtractionError represents a structured pipeline error
type ExtractionError struct {
	Code      ErrorCode
	Message   string
	RunID     string
	Timestamp time.Time
	Details   map[string]interface{}
	Cause     error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// IsCode reports whether err is an ExtractionError with the given code
func IsCode(err error, code ErrorCode) bool {
	var ee *ExtractionError
	if stderrors.As(err, &ee) {
		return ee.Code == code
	}
	return false
}

// Factory functions for common errors

func NewInvalidImageError(runID string, width, height int) *ExtractionError {
	return &ExtractionError{
		Code:      ErrorInvalidImage,
		Message:   fmt.Sprintf("Source image is degenerate: %dx%d", width, height),
		RunID:     runID,
		Timestamp: time.Now(),
		Details: map[string]interface{}{
			"width":  width,
			"height": height,
		},
	}
}

func NewNoHighlightDetectedError(runID string, color string, cause error) *ExtractionError {
	return &ExtractionError{
		Code:      ErrorNoHighlightDetected,
		Message:   fmt.Sprintf("No highlight mask could be constructed for color: %s", color),
		RunID:     runID,
		Timestamp: time.Now(),
		Details: map[string]interface{}{
			"color": color,
		},
		Cause: cause,
	}
}

func NewRecognitionFailedError(runID string, stage string, cause error) *ExtractionError {
	return &ExtractionError{
		Code:      ErrorRecognitionFailed,
		Message:   fmt.Sprintf("Text recognition failed at stage: %s", stage),
		RunID:     runID,
		Timestamp: time.Now(),
		Details: map[string]interface{}{
			"stage": stage,
		},
		Cause: cause,
	}
}

func NewProcessingTimeoutError(jobID string, duration time.Duration, cause error) *ExtractionError {
	return &ExtractionError{
		Code:      ErrorProcessingTimeout,
		Message:   fmt.Sprintf("Processing timed out after %v", duration),
		RunID:     jobID,
		Timestamp: time.Now(),
		Details: map[string]interface{}{
			"timeout_duration": duration.String(),
		},
		Cause: cause,
	}
}

// ToMap converts error to map for job status reporting
func (e *ExtractionError) ToMap() map[string]interface{} {
	result := map[string]interface{}{
		"error_code": string(e.Code),
		"message":    e.Message,
		"timestamp":  e.Timestamp,
	}

	for k, v := range e.Details {
		result[k] = v
	}

	if e.Cause != nil {
		result["cause"] = e.Cause.Error()
	}

	return result
}
