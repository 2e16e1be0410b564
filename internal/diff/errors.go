package diff

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes comparison errors.
type ErrorCode string

const (
	// CodeSchemaMismatch indicates an input model referencing an edge
	// endpoint absent from its own activity set, or inputs whose labels
	// were normalized under different conventions.
	CodeSchemaMismatch ErrorCode = "SCHEMA_MISMATCH"

	// CodeDegenerateModel indicates an input model with no edges at all,
	// usually an upstream mining failure.
	CodeDegenerateModel ErrorCode = "DEGENERATE_MODEL"

	// CodeInvalidThreshold indicates a filter threshold outside [0, 1].
	CodeInvalidThreshold ErrorCode = "INVALID_THRESHOLD"

	// CodeExportContract indicates a model that breaks its own invariants
	// at the export boundary. Internal, never caused by user input.
	CodeExportContract ErrorCode = "EXPORT_CONTRACT"
)

// Error is a comparison error with structured diagnostics.
//
// All comparison errors are unrecoverable at the point of detection: nothing
// is repaired, nothing partial is produced. The caller decides whether to
// abort or report.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Side names the input model the error concerns ("first" or "second"),
	// empty when the error is not attributable to one input.
	Side string

	// Entity is the offending activity id or "source -> target" pair.
	Entity string
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Side != "" && e.Entity != "":
		return fmt.Sprintf("%s: %s (model=%s, entity=%s)", e.Code, e.Message, e.Side, e.Entity)
	case e.Side != "":
		return fmt.Sprintf("%s: %s (model=%s)", e.Code, e.Message, e.Side)
	case e.Entity != "":
		return fmt.Sprintf("%s: %s (entity=%s)", e.Code, e.Message, e.Entity)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func hasCode(err error, code ErrorCode) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// IsSchemaMismatch reports whether err is a schema-mismatch error.
// Uses errors.As to handle wrapped errors.
func IsSchemaMismatch(err error) bool { return hasCode(err, CodeSchemaMismatch) }

// IsDegenerateModel reports whether err is a degenerate-model error.
func IsDegenerateModel(err error) bool { return hasCode(err, CodeDegenerateModel) }

// IsInvalidThreshold reports whether err is a threshold configuration error.
func IsInvalidThreshold(err error) bool { return hasCode(err, CodeInvalidThreshold) }

// IsExportContract reports whether err is an export contract violation.
func IsExportContract(err error) bool { return hasCode(err, CodeExportContract) }

func newSchemaMismatch(side, entity, message string) *Error {
	return &Error{Code: CodeSchemaMismatch, Message: message, Side: side, Entity: entity}
}

func newDegenerateModel(side string) *Error {
	return &Error{
		Code:    CodeDegenerateModel,
		Message: "model has no edges, log was empty or mining failed upstream",
		Side:    side,
	}
}

func newInvalidThreshold(threshold float64) *Error {
	return &Error{
		Code:    CodeInvalidThreshold,
		Message: fmt.Sprintf("filter threshold %v outside [0, 1]", threshold),
	}
}

// NewExportContract builds an export contract violation. Used by the export
// boundary, which checks model invariants defensively before describing.
func NewExportContract(entity, message string) *Error {
	return &Error{Code: CodeExportContract, Message: message, Entity: entity}
}
