// Package hosterr provides structured, machine-parseable errors for the
// plugin host runtime.
package hosterr

import (
	"errors"
	"fmt"
)

// ErrorCode is a machine-parseable error identifier.
type ErrorCode string

const (
	ErrUnknown  ErrorCode = "ERR-000"
	ErrInternal ErrorCode = "ERR-001"

	ErrPluginNotFound      ErrorCode = "ERR-PLUGIN-001"
	ErrPackageNotFound     ErrorCode = "ERR-PLUGIN-002"
	ErrAlreadyInstalled    ErrorCode = "ERR-PLUGIN-003"
	ErrNotInstalled        ErrorCode = "ERR-PLUGIN-004"
	ErrAlreadyEnabled      ErrorCode = "ERR-PLUGIN-005"
	ErrNotEnabled          ErrorCode = "ERR-PLUGIN-006"
	ErrAlreadyRegistered   ErrorCode = "ERR-PLUGIN-007"
	ErrLoadFailed          ErrorCode = "ERR-PLUGIN-010"
	ErrSymbolNotFound      ErrorCode = "ERR-PLUGIN-011"
	ErrInvalidVTable       ErrorCode = "ERR-PLUGIN-012"
	ErrIncompatibleAPI     ErrorCode = "ERR-PLUGIN-013"
	ErrInitFailed          ErrorCode = "ERR-PLUGIN-014"
	ErrSignatureInvalid    ErrorCode = "ERR-PLUGIN-020"
	ErrChecksumMismatch    ErrorCode = "ERR-PLUGIN-021"
	ErrCircularDependency  ErrorCode = "ERR-PLUGIN-030"
	ErrDependencyNotFound  ErrorCode = "ERR-PLUGIN-031"
	ErrDependencyLoadFail  ErrorCode = "ERR-PLUGIN-032"
	ErrServiceNotAvailable ErrorCode = "ERR-PLUGIN-040"
	ErrPlatformUnsupported ErrorCode = "ERR-PLUGIN-050"
)

// HostError is the standard structured error type used across the plugin
// host runtime.
type HostError struct {
	Code   ErrorCode // Machine-parseable error code
	Op     string    // Operation chain, e.g., "host.enable_with_dependencies"
	Plugin string    // Plugin or package id the error concerns
	Cause  error     // Wrapped upstream error
	Advice string    // Human-readable remediation hint
}

func (e *HostError) Error() string {
	if e.Plugin != "" {
		return fmt.Sprintf("[%s] %s (%s): %v", e.Code, e.Op, e.Plugin, e.Cause)
	}
	return fmt.Sprintf("[%s] %s: %v", e.Code, e.Op, e.Cause)
}

func (e *HostError) Unwrap() error {
	return e.Cause
}

// UserMessage returns the formatted user-facing error message with remediation advice.
func (e *HostError) UserMessage() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Op)
	if e.Plugin != "" {
		msg += fmt.Sprintf(" (plugin: %s)", e.Plugin)
	}
	if e.Advice != "" {
		msg += fmt.Sprintf("\n  → %s", e.Advice)
	}
	return msg
}

// New creates a new HostError.
func New(code ErrorCode, op string, cause error) *HostError {
	return &HostError{Code: code, Op: op, Cause: cause}
}

// Newf creates a new HostError with a formatted message as the cause.
func Newf(code ErrorCode, op, format string, args ...any) *HostError {
	return &HostError{Code: code, Op: op, Cause: fmt.Errorf(format, args...)}
}

// WithPlugin sets the plugin/package identifier on a HostError.
func (e *HostError) WithPlugin(id string) *HostError {
	e.Plugin = id
	return e
}

// WithAdvice sets the human-readable remediation hint on a HostError.
func (e *HostError) WithAdvice(advice string) *HostError {
	e.Advice = advice
	return e
}

// Wrap wraps an existing error as a HostError at a new operation boundary.
// Returns nil if err is nil.
func Wrap(err error, code ErrorCode, op string) *HostError {
	if err == nil {
		return nil
	}
	return &HostError{Code: code, Op: op, Cause: err}
}

// IsCode reports whether err is a HostError with the given code.
func IsCode(err error, code ErrorCode) bool {
	var he *HostError
	if errors.As(err, &he) {
		return he.Code == code
	}
	return false
}

// AsHostError extracts the *HostError from err, or returns nil.
func AsHostError(err error) *HostError {
	var he *HostError
	if errors.As(err, &he) {
		return he
	}
	return nil
}
