// Package cli provides shared configuration and utilities for the adaptergen CLI.
package cli

import (
	"errors"
	"fmt"
	"os"
)

// Process exit codes.
const (
	ExitSuccess     = 0
	ExitGeneral     = 1
	ExitConfig      = 2
	ExitLoad        = 3
	ExitDiagnostics = 4
)

// ExitError wraps an error with an exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode returns the exit code for err.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitGeneral
}

// ExitWithError prints the error and exits with the appropriate code.
func ExitWithError(err error) {
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(ExitCode(err))
}

// ConfigError creates an ExitError with ExitConfig code.
func ConfigError(msg string, err error) *ExitError {
	return &ExitError{Code: ExitConfig, Message: msg, Err: err}
}

// LoadError creates an ExitError with ExitLoad code.
func LoadError(msg string, err error) *ExitError {
	return &ExitError{Code: ExitLoad, Message: msg, Err: err}
}

// DiagnosticsError creates an ExitError with ExitDiagnostics code.
func DiagnosticsError(count int) *ExitError {
	noun := "errors"
	if count == 1 {
		noun = "error"
	}
	return &ExitError{Code: ExitDiagnostics, Message: fmt.Sprintf("generation reported %d %s", count, noun)}
}

// GeneralError creates an ExitError with ExitGeneral code.
func GeneralError(msg string, err error) *ExitError {
	return &ExitError{Code: ExitGeneral, Message: msg, Err: err}
}
