// Package errors classifies failures raised while loading offer documents and
// collects them into per-run reports.
package errors

import (
	"fmt"
	"time"
)

// PDFError is a classified failure tied to a document and, optionally, a page
type PDFError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	Context    string    `json:"context,omitempty"`
	FilePath   string    `json:"file_path,omitempty"`
	PageNumber int       `json:"page_number,omitempty"`
	StackTrace string    `json:"stack_trace,omitempty"`
	Timestamp  time.Time `json:"timestamp"`

	cause error
}

// ErrorType represents the categories of document failures
type ErrorType int

const (
	ErrorTypeUnknown ErrorType = iota
	ErrorTypeFileAccess
	ErrorTypeInvalidFile
	ErrorTypeInvalidStructure
	ErrorTypeInvalidStream
	ErrorTypeInvalidImage
	ErrorTypeRenderFailure
	ErrorTypeWorkbook
	ErrorTypePanic
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity int

const (
	SeverityWarning ErrorSeverity = iota
	SeverityError
	SeverityFatal
)

// Error implements the error interface
func (e *PDFError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Type, e.Message)
	if e.Context != "" {
		msg += ": " + e.Context
	}
	if e.PageNumber > 0 {
		msg += fmt.Sprintf(" (page %d)", e.PageNumber)
	}
	return msg
}

// Unwrap returns the wrapped error, if any
func (e *PDFError) Unwrap() error {
	return e.cause
}

// String returns a string representation of the ErrorType
func (et ErrorType) String() string {
	switch et {
	case ErrorTypeFileAccess:
		return "FILE_ACCESS"
	case ErrorTypeInvalidFile:
		return "INVALID_FILE"
	case ErrorTypeInvalidStructure:
		return "INVALID_STRUCTURE"
	case ErrorTypeInvalidStream:
		return "INVALID_STREAM"
	case ErrorTypeInvalidImage:
		return "INVALID_IMAGE"
	case ErrorTypeRenderFailure:
		return "RENDER_FAILURE"
	case ErrorTypeWorkbook:
		return "WORKBOOK"
	case ErrorTypePanic:
		return "PANIC"
	default:
		return "UNKNOWN"
	}
}

// GetSeverity returns the severity level for a given error type. Warnings
// never stop a document from being extracted.
func (et ErrorType) GetSeverity() ErrorSeverity {
	switch et {
	case ErrorTypeInvalidStream, ErrorTypeInvalidImage:
		return SeverityWarning
	case ErrorTypeWorkbook:
		return SeverityFatal
	default:
		return SeverityError
	}
}

// IsRecoverable reports whether a run may continue past an error of this
// type. Per-document failures are recoverable; the workbook is not.
func (et ErrorType) IsRecoverable() bool {
	return et.GetSeverity() != SeverityFatal
}

// NewPDFError creates a new PDFError
func NewPDFError(errorType ErrorType, message string) *PDFError {
	return &PDFError{
		Type:      errorType,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// WrapError wraps a standard error as a PDFError. A PDFError passed in is
// returned unchanged.
func WrapError(errorType ErrorType, err error) *PDFError {
	if pe, ok := err.(*PDFError); ok {
		return pe
	}
	e := NewPDFError(errorType, err.Error())
	e.cause = err
	return e
}

// WithContext adds context to an existing PDFError
func (e *PDFError) WithContext(context string) *PDFError {
	e.Context = context
	return e
}

// WithFile adds file path information to an existing PDFError
func (e *PDFError) WithFile(filePath string) *PDFError {
	e.FilePath = filePath
	return e
}

// WithPage adds page number information to an existing PDFError
func (e *PDFError) WithPage(pageNumber int) *PDFError {
	e.PageNumber = pageNumber
	return e
}

// GetSeverity returns the severity of this specific error
func (e *PDFError) GetSeverity() ErrorSeverity {
	return e.Type.GetSeverity()
}

// ErrorCollection gathers the errors and warnings of one run
type ErrorCollection struct {
	Errors   []*PDFError `json:"errors"`
	Warnings []*PDFError `json:"warnings"`
}

// NewErrorCollection creates a new error collection
func NewErrorCollection() *ErrorCollection {
	return &ErrorCollection{
		Errors:   make([]*PDFError, 0),
		Warnings: make([]*PDFError, 0),
	}
}

// Add adds an error to the appropriate list based on severity
func (ec *ErrorCollection) Add(err *PDFError) {
	if err.GetSeverity() == SeverityWarning {
		ec.Warnings = append(ec.Warnings, err)
		return
	}
	ec.Errors = append(ec.Errors, err)
}

// AddFailure records err as an error whatever its severity. A document
// that could not be extracted at all is never just a warning.
func (ec *ErrorCollection) AddFailure(err *PDFError) {
	ec.Errors = append(ec.Errors, err)
}

// HasFatal reports whether any collected error is fatal
func (ec *ErrorCollection) HasFatal() bool {
	for _, err := range ec.Errors {
		if err.GetSeverity() == SeverityFatal {
			return true
		}
	}
	return false
}

// Count returns the total number of errors and warnings
func (ec *ErrorCollection) Count() (errors, warnings int) {
	return len(ec.Errors), len(ec.Warnings)
}

// Summary returns a text summary of all errors and warnings
func (ec *ErrorCollection) Summary() string {
	errorCount, warningCount := ec.Count()
	if errorCount == 0 && warningCount == 0 {
		return "No errors or warnings"
	}
	return fmt.Sprintf("Found %d error(s) and %d warning(s)", errorCount, warningCount)
}
