package diagnostics

import (
	"errors"
	"fmt"
	"strings"

	"github.com/funvibe/sigbind/internal/token"
)

// ErrorCode identifies a diagnostic family and number, e.g. "P003".
// L = lexer, P = parser, B = binder, C = converter, R = registry/remote.
type ErrorCode string

const (
	// Lexer
	ErrL001 ErrorCode = "L001" // illegal character
	ErrL002 ErrorCode = "L002" // unterminated string literal

	// Parser
	ErrP001 ErrorCode = "P001" // unexpected token
	ErrP002 ErrorCode = "P002" // duplicate parameter name
	ErrP003 ErrorCode = "P003" // duplicate variadic marker
	ErrP004 ErrorCode = "P004" // parameter declared after **kwargs
	ErrP005 ErrorCode = "P005" // required parameter after optional one
	ErrP006 ErrorCode = "P006" // default value on a variadic parameter
	ErrP007 ErrorCode = "P007" // misplaced positional-only marker
	ErrP008 ErrorCode = "P008" // bare * without a following keyword-only parameter

	// Binder
	ErrB001 ErrorCode = "B001" // not enough positional arguments
	ErrB002 ErrorCode = "B002" // too many arguments
	ErrB003 ErrorCode = "B003" // not a keyword parameter
	ErrB004 ErrorCode = "B004" // keyword already given
	ErrB005 ErrorCode = "B005" // missing keyword-only argument
	ErrB006 ErrorCode = "B006" // argument type mismatch

	// Converter
	ErrC001 ErrorCode = "C001" // unknown annotation

	// Registry / argument lines / remote
	ErrR001 ErrorCode = "R001" // unescaped sequence
	ErrR002 ErrorCode = "R002" // empty entry
	ErrR003 ErrorCode = "R003" // command not found
	ErrR004 ErrorCode = "R004" // ambiguous command match
	ErrR005 ErrorCode = "R005" // keyword without a value
	ErrR006 ErrorCode = "R006" // method or handler mismatch
)

// DiagnosticError is the error value every stage reports. Position fields
// are zero when the failure has no source location (binding, registry).
type DiagnosticError struct {
	Code    ErrorCode
	Message string
	File    string
	Line    int
	Column  int
	wrapped error
}

func (e *DiagnosticError) Error() string {
	var sb strings.Builder
	sb.WriteString("[" + string(e.Code) + "] ")
	if e.File != "" {
		sb.WriteString(e.File + ":")
	}
	if e.Line > 0 {
		fmt.Fprintf(&sb, "%d:%d: ", e.Line, e.Column)
	}
	sb.WriteString(e.Message)
	return sb.String()
}

func (e *DiagnosticError) Unwrap() error { return e.wrapped }

// NewError creates a diagnostic anchored to a token. Extra context values
// are appended to the message.
func NewError(code ErrorCode, tok token.Token, message string, context ...interface{}) *DiagnosticError {
	for _, c := range context {
		message += fmt.Sprintf(" (got %v)", c)
	}
	return &DiagnosticError{Code: code, Message: message, Line: tok.Line, Column: tok.Column}
}

// Newf creates a positionless diagnostic, for stages that operate on
// already-parsed values rather than source text.
func Newf(code ErrorCode, format string, args ...interface{}) *DiagnosticError {
	return &DiagnosticError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches an underlying cause so callers can errors.Unwrap it.
func Wrap(code ErrorCode, cause error, format string, args ...interface{}) *DiagnosticError {
	return &DiagnosticError{Code: code, Message: fmt.Sprintf(format, args...), wrapped: cause}
}

// HasCode reports whether err is (or wraps) a diagnostic with the given code.
func HasCode(err error, code ErrorCode) bool {
	var de *DiagnosticError
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}
