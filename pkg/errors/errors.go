package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"
	ErrPermission   ErrorCode = "PERMISSION"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Precondition errors
	ErrUnsupportedOS    ErrorCode = "UNSUPPORTED_OS"
	ErrNoPackageManager ErrorCode = "NO_PACKAGE_MANAGER"
	ErrPackageNotFound  ErrorCode = "PACKAGE_NOT_FOUND"
	ErrAppNotFound      ErrorCode = "APP_NOT_FOUND"

	// Link errors
	ErrLinkConflict ErrorCode = "LINK_CONFLICT"
	ErrLinkExecute  ErrorCode = "LINK_EXECUTE"
	ErrBackupFailed ErrorCode = "BACKUP_FAILED"

	// Recoverable step errors
	ErrToolInstall       ErrorCode = "TOOL_INSTALL"
	ErrDependencyMissing ErrorCode = "DEPENDENCY_MISSING"
	ErrUnlinkPartial     ErrorCode = "UNLINK_PARTIAL"
	ErrStepFailed        ErrorCode = "STEP_FAILED"

	// User declined an interactive prompt
	ErrCancelled ErrorCode = "CANCELLED"
)

// Kind classifies an error code by how the CLI reacts to it.
type Kind int

const (
	// KindFatal aborts the run with a non-zero exit code.
	KindFatal Kind = iota
	// KindRecoverable is logged, collected into the run summary and skipped.
	KindRecoverable
	// KindCancelled ends the run quietly with exit code 0.
	KindCancelled
)

func (k Kind) String() string {
	switch k {
	case KindFatal:
		return "fatal"
	case KindRecoverable:
		return "recoverable"
	case KindCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

var recoverableCodes = map[ErrorCode]bool{
	ErrToolInstall:       true,
	ErrDependencyMissing: true,
	ErrUnlinkPartial:     true,
	ErrStepFailed:        true,
}

// Error represents a structured error with code and details
type Error struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *Error) Is(target error) bool {
	var targetErr *Error
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// Kind returns the taxonomy bucket of the error code.
func (e *Error) Kind() Kind {
	return KindOf(e.Code)
}

// KindOf returns the taxonomy bucket for a code. Unknown codes are fatal.
func KindOf(code ErrorCode) Kind {
	if code == ErrCancelled {
		return KindCancelled
	}
	if recoverableCodes[code] {
		return KindRecoverable
	}
	return KindFatal
}

// New creates a new Error with the given code and message
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new Error with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with an Error
func Wrap(err error, code ErrorCode, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var dsErr *Error
	if errors.As(err, &dsErr) {
		return dsErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not an Error
func GetErrorCode(err error) ErrorCode {
	var dsErr *Error
	if errors.As(err, &dsErr) {
		return dsErr.Code
	}
	return ErrUnknown
}

// GetKind returns the taxonomy bucket of any error. Plain errors are fatal.
func GetKind(err error) Kind {
	if err == nil {
		return KindRecoverable
	}
	return KindOf(GetErrorCode(err))
}

// IsFatal reports whether err must abort the run.
func IsFatal(err error) bool {
	return err != nil && GetKind(err) == KindFatal
}

// IsCancelled reports whether err is a declined interactive prompt.
func IsCancelled(err error) bool {
	return IsErrorCode(err, ErrCancelled)
}

// StepFailure is one recoverable failure recorded during a run.
type StepFailure struct {
	Step string `json:"step" yaml:"step"`
	Err  string `json:"error" yaml:"error"`
}

// Summary accumulates recoverable step failures so the run can continue and
// report them once at the end.
type Summary struct {
	Failures []StepFailure `json:"failures" yaml:"failures"`
}

// Record adds a failure for step. Nil errors are ignored.
func (s *Summary) Record(step string, err error) {
	if err == nil {
		return
	}
	s.Failures = append(s.Failures, StepFailure{Step: step, Err: err.Error()})
}

// Empty reports whether no failures were recorded.
func (s *Summary) Empty() bool {
	return len(s.Failures) == 0
}

// String renders the summary as an indented list.
func (s *Summary) String() string {
	if s.Empty() {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d step(s) failed:\n", len(s.Failures))
	for _, f := range s.Failures {
		fmt.Fprintf(&b, "  - %s: %s\n", f.Step, f.Err)
	}
	return b.String()
}
