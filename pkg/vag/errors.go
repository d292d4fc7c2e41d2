package vag

import "errors"

// AnalysisError represents pipeline-related errors
type AnalysisError struct {
	Channel Channel `json:"channel,omitempty"`
	Code    string  `json:"code"`
	Message string  `json:"message"`
	Cause   error   `json:"-"`
}

func (e *AnalysisError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *AnalysisError) Unwrap() error {
	return e.Cause
}

// Common error codes
const (
	ErrCodeInvalidConfig       = "INVALID_CONFIG"
	ErrCodeInsufficientSamples = "INSUFFICIENT_SAMPLES"
	ErrCodeDataGap             = "DATA_GAP"
	ErrCodeUnsupportedFormat   = "UNSUPPORTED_FORMAT"
)

// NewAnalysisError creates a new analysis error
func NewAnalysisError(channel Channel, code, message string, cause error) *AnalysisError {
	return &AnalysisError{
		Channel: channel,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func hasCode(err error, code string) bool {
	var ae *AnalysisError
	if errors.As(err, &ae) {
		return ae.Code == code
	}
	return false
}

// IsInvalidConfig reports whether err is a configuration error
func IsInvalidConfig(err error) bool {
	return hasCode(err, ErrCodeInvalidConfig)
}

// IsInsufficientSamples reports whether err indicates a window too
// short to filter or transform
func IsInsufficientSamples(err error) bool {
	return hasCode(err, ErrCodeInsufficientSamples)
}

// IsDataGap reports whether err indicates a discontinuity in the
// sample timeline
func IsDataGap(err error) bool {
	return hasCode(err, ErrCodeDataGap)
}
