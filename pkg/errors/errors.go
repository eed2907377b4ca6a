// Package errors provides the coded errors dotfilter components return.
//
// Every failure that crosses a component boundary carries a [Code], and the
// code alone decides how a run treats it (see [IsFatal]):
//
//   - DIAGRAM_SYNTAX is the only recoverable class. It is attributable to one
//     code block, which is replaced with a visible error node; the run goes on
//     and exits 0.
//   - INVALID_INPUT, INVALID_CONFIG and UNSUPPORTED reject what the filter
//     was given: the document, the config file or a fence tag.
//   - TEMPDIR, ARTIFACT_WRITE, NO_CONVERTER and CONVERSION_FAILED are
//     environment failures of the linked embedding modes.
//   - RENDER_INTERNAL and INTERNAL_ERROR are engine or filter bugs, engine
//     panics included.
//
// Errors without a code count as fatal. Fatal errors abort the run with a
// non-zero exit before anything is written to stdout.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeTempDir, "%s is not a directory", dir)
//	if errors.Is(err, errors.ErrCodeTempDir) {
//	    // Handle temp dir error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeArtifactWrite, origErr, "write %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeUnsupported   Code = "UNSUPPORTED"

	// Rendering errors
	ErrCodeDiagramSyntax  Code = "DIAGRAM_SYNTAX"
	ErrCodeRenderInternal Code = "RENDER_INTERNAL"

	// Artifact errors
	ErrCodeTempDir          Code = "TEMPDIR"
	ErrCodeArtifactWrite    Code = "ARTIFACT_WRITE"
	ErrCodeNoConverter      Code = "NO_CONVERTER"
	ErrCodeConversionFailed Code = "CONVERSION_FAILED"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a failure classified by Code.
type Error struct {
	Code    Code
	Message string // shown to users without the code
	Cause   error  // nil unless created by Wrap
}

// Error renders as "CODE: message" followed by ": cause" when wrapped.
func (e *Error) Error() string {
	msg := string(e.Code) + ": " + e.Message
	if e.Cause == nil {
		return msg
	}
	return msg + ": " + e.Cause.Error()
}

// Unwrap exposes Cause to errors.Is and errors.As.
func (e *Error) Unwrap() error { return e.Cause }

// New returns an error with code and a printf-style message.
func New(code Code, format string, args ...any) *Error {
	return Wrap(code, nil, format, args...)
}

// Wrap returns an error with code whose cause is err.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

func asError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// GetCode returns the code of the outermost *Error in err's chain, or ""
// when there is none.
func GetCode(err error) Code {
	if e, ok := asError(err); ok {
		return e.Code
	}
	return ""
}

// Is reports whether the outermost *Error in err's chain has code.
// A code set on a wrapping error hides the codes of its causes.
func Is(err error, code Code) bool {
	e, ok := asError(err)
	return ok && e.Code == code
}

// UserMessage returns the text shown to document authors, such as the
// diagnostic in an error node: the message without its code prefix, or the
// plain error text for uncoded errors.
func UserMessage(err error) string {
	if e, ok := asError(err); ok {
		return e.Message
	}
	return err.Error()
}

// IsFatal reports whether err must abort the whole run. Only
// DIAGRAM_SYNTAX is recoverable; a nil error is not fatal.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	return GetCode(err) != ErrCodeDiagramSyntax
}
