// Package errors provides structured error handling for Agora.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Configuration errors
//   - 2XX: Load errors (corpus files on disk)
//   - 4XX: Validation errors (caller-correctable input)
//   - 5XX: Internal errors
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryConfig indicates configuration-related errors.
	CategoryConfig Category = "CONFIG"
	// CategoryLoad indicates corpus load errors (malformed or inconsistent files).
	CategoryLoad Category = "LOAD"
	// CategoryValidation indicates input validation errors.
	CategoryValidation Category = "VALIDATION"
	// CategoryInternal indicates unexpected internal errors.
	CategoryInternal Category = "INTERNAL"
)

// Severity defines error severity levels.
type Severity string

const (
	// SeverityFatal indicates unrecoverable error, must abort.
	SeverityFatal Severity = "FATAL"
	// SeverityError indicates operation failed but the process can continue.
	SeverityError Severity = "ERROR"
	// SeverityWarning indicates degraded operation, continuing.
	SeverityWarning Severity = "WARNING"
)

// Error codes organized by category.
const (
	// Config errors (100-199)
	ErrCodeConfigNotFound = "ERR_101_CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  = "ERR_102_CONFIG_INVALID"

	// Load errors (200-299). All fatal to startup: the process must never
	// serve a partially or incorrectly indexed corpus.
	ErrCodeDataRoot           = "ERR_201_DATA_ROOT"
	ErrCodeMalformedCategory  = "ERR_202_MALFORMED_CATEGORY"
	ErrCodeMalformedTopic     = "ERR_203_MALFORMED_TOPIC"
	ErrCodeDanglingReference  = "ERR_204_DANGLING_REFERENCE"
	ErrCodeDuplicateID        = "ERR_205_DUPLICATE_ID"
	ErrCodeExportInfoInvalid  = "ERR_206_EXPORT_INFO_INVALID"

	// Validation errors (400-499)
	ErrCodeInvalidPage     = "ERR_401_INVALID_PAGE"
	ErrCodeInvalidPageSize = "ERR_402_INVALID_PAGE_SIZE"
	ErrCodeInvalidSortKey  = "ERR_403_INVALID_SORT_KEY"
	ErrCodeInvalidOrder    = "ERR_404_INVALID_ORDER"
	ErrCodeInvalidInput    = "ERR_405_INVALID_INPUT"

	// Internal errors (500-599)
	ErrCodeInternal     = "ERR_501_INTERNAL"
	ErrCodeRenderFailed = "ERR_502_RENDER_FAILED"
)

// categoryFromCode extracts category from error code.
func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryInternal
	}

	// Extract numeric portion (e.g., "201" from "ERR_201_DATA_ROOT")
	numStr := code[4:7]
	if len(numStr) < 1 {
		return CategoryInternal
	}

	switch numStr[0] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryLoad
	case '4':
		return CategoryValidation
	default:
		return CategoryInternal
	}
}

// severityFromCode determines severity based on error code.
// Load errors are fatal: a wrong index is worse than a failed start.
func severityFromCode(code string) Severity {
	switch categoryFromCode(code) {
	case CategoryLoad:
		return SeverityFatal
	case CategoryValidation:
		return SeverityWarning
	default:
		return SeverityError
	}
}
