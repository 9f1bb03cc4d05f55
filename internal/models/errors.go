package models

import (
	"errors"
	"fmt"
)

// FailureKind classifies a recoverable or run-level analysis failure
type FailureKind string

const (
	// File-level, non-fatal
	FailureEncodingUnresolved  FailureKind = "ENCODING_UNRESOLVED"
	FailureDelimiterUnresolved FailureKind = "DELIMITER_UNRESOLVED"
	FailureEmptySeries         FailureKind = "EMPTY_SERIES"
	FailureFileUnreadable      FailureKind = "FILE_UNREADABLE"

	// Group and fit level
	FailureDegenerateGroup       FailureKind = "DEGENERATE_GROUP"
	FailureInsufficientFitPoints FailureKind = "INSUFFICIENT_FIT_POINTS"
	FailureDegenerateFit         FailureKind = "DEGENERATE_FIT"
	FailureMissingBlank          FailureKind = "MISSING_BLANK"
	FailureZeroSignal            FailureKind = "ZERO_SIGNAL"
	FailureZeroSlope             FailureKind = "ZERO_SLOPE"
	FailureEmptyBand             FailureKind = "EMPTY_BAND"
	FailureMixedUnits            FailureKind = "MIXED_UNITS"
)

// FileLevel reports whether the kind is local to one input file
func (k FailureKind) FileLevel() bool {
	switch k {
	case FailureEncodingUnresolved, FailureDelimiterUnresolved, FailureEmptySeries, FailureFileUnreadable:
		return true
	}
	return false
}

// AnalysisError represents a failure of one pipeline stage.
// Two AnalysisErrors match under errors.Is when their kinds are equal.
type AnalysisError struct {
	Kind    FailureKind            `json:"kind"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func (e *AnalysisError) Error() string {
	return e.Message
}

// Is matches on Kind so wrapped errors compare against the sentinels below
func (e *AnalysisError) Is(target error) bool {
	var t *AnalysisError
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// NewAnalysisError creates a new AnalysisError
func NewAnalysisError(kind FailureKind, message string) *AnalysisError {
	return &AnalysisError{
		Kind:    kind,
		Message: message,
	}
}

// NewAnalysisErrorf creates a new AnalysisError with a formatted message
func NewAnalysisErrorf(kind FailureKind, format string, args ...interface{}) *AnalysisError {
	return NewAnalysisError(kind, fmt.Sprintf(format, args...))
}

// NewAnalysisErrorWithDetails creates a new AnalysisError with details
func NewAnalysisErrorWithDetails(kind FailureKind, message string, details map[string]interface{}) *AnalysisError {
	return &AnalysisError{
		Kind:    kind,
		Message: message,
		Details: details,
	}
}

// Sentinels for errors.Is
var (
	ErrEncodingUnresolved    = NewAnalysisError(FailureEncodingUnresolved, "no candidate encoding decodes the file")
	ErrDelimiterUnresolved   = NewAnalysisError(FailureDelimiterUnresolved, "no candidate delimiter yields two numeric fields")
	ErrEmptySeries           = NewAnalysisError(FailureEmptySeries, "no valid data lines extracted")
	ErrFileUnreadable        = NewAnalysisError(FailureFileUnreadable, "file could not be read")
	ErrDegenerateGroup       = NewAnalysisError(FailureDegenerateGroup, "replicate group has no usable series")
	ErrInsufficientFitPoints = NewAnalysisError(FailureInsufficientFitPoints, "fewer than two points in the fit domain")
	ErrDegenerateFit         = NewAnalysisError(FailureDegenerateFit, "all concentrations in the fit domain are equal")
	ErrMissingBlank          = NewAnalysisError(FailureMissingBlank, "no blank (zero concentration) point")
	ErrZeroSignal            = NewAnalysisError(FailureZeroSignal, "sample signal is zero")
	ErrZeroSlope             = NewAnalysisError(FailureZeroSlope, "calibration slope is zero")
	ErrEmptyBand             = NewAnalysisError(FailureEmptyBand, "no samples inside the selected band")
	ErrMixedUnits            = NewAnalysisError(FailureMixedUnits, "condition unit differs from the calibration unit")
)

// KindOf returns the FailureKind carried by err, or "" when err is not an AnalysisError
func KindOf(err error) FailureKind {
	var ae *AnalysisError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return ""
}

// FileFailure records one input file that produced no usable series
type FileFailure struct {
	Path  string      `json:"path"`
	Label string      `json:"label"`
	Kind  FailureKind `json:"kind"`
	Err   string      `json:"error"`
}
