package output

import (
	"errors"
	"fmt"
)

// Exit codes following sysexits.h convention.
// They are only used with --strict-exit; by default handled errors exit 0.
const (
	ExitOK          = 0   // Success
	ExitGeneral     = 1   // General error
	ExitUsage       = 2   // Invalid usage / bad arguments
	ExitNotFound    = 4   // Credential not found or unreadable
	ExitForbidden   = 6   // Secret store denied access
	ExitStore       = 74  // Secret store failure (EX_IOERR from sysexits.h)
	ExitConfigError = 78  // Configuration error (EX_CONFIG from sysexits.h)
	ExitInterrupted = 130 // Operator interrupted input
)

// CLIError represents a structured error with exit code and optional hint
type CLIError struct {
	ExitCode int
	Message  string
	Hint     string
	Err      error
}

// Error implements the error interface
func (e *CLIError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause, if any
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError
func NewCLIError(code int, msg string) *CLIError {
	return &CLIError{
		ExitCode: code,
		Message:  msg,
	}
}

// WithHint adds a user-facing hint to the error
func (e *CLIError) WithHint(hint string) *CLIError {
	e.Hint = hint
	return e
}

// Wrap records the cause behind the error
func (e *CLIError) Wrap(err error) *CLIError {
	e.Err = err
	return e
}

// Report prints the error and hint via the formatter and returns the exit code.
// Unless strict is set every handled error exits 0, like a successful run.
func Report(formatter Formatter, err error, strict bool) int {
	if err == nil {
		return ExitOK
	}

	code := ExitGeneral
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		formatter.PrintError(cliErr)
		if cliErr.Hint != "" {
			formatter.PrintHint(cliErr.Hint)
		}
		code = cliErr.ExitCode
	} else {
		formatter.PrintError(fmt.Errorf("unexpected: %w", err))
	}

	if !strict {
		return ExitOK
	}
	return code
}
