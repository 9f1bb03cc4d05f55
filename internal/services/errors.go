// Package services orchestrates analysis runs: parsing, aggregation, calibration and
// figures of merit over a set of condition groups.
package services

// Service error codes
const (
	CodeInvalidInput   = "INVALID_INPUT"
	CodeFileFailed     = "FILE_FAILED"
	CodeRunCancelled   = "RUN_CANCELLED"
	CodeBandGapFailed  = "BAND_GAP_FAILED"
	CodeNoUsableGroups = "NO_USABLE_GROUPS"
)

// ServiceError represents a run-level failure
type ServiceError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Err     error                  `json:"-"`
}

func (e *ServiceError) Error() string {
	return e.Message
}

// Unwrap exposes the underlying analysis error, if any
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError
func NewServiceError(code, message string) *ServiceError {
	return &ServiceError{
		Code:    code,
		Message: message,
	}
}

// NewServiceErrorWithDetails creates a new ServiceError with details
func NewServiceErrorWithDetails(code, message string, details map[string]interface{}) *ServiceError {
	return &ServiceError{
		Code:    code,
		Message: message,
		Details: details,
	}
}
