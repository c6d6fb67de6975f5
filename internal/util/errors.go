package util

import "fmt"

// ErrorContext provides standardized error formatting for different operations
type ErrorContext string

const (
	ConfigError     ErrorContext = "Config"
	CaptureError    ErrorContext = "Capture"
	ValidationError ErrorContext = "Validation"
	WatcherError    ErrorContext = "Watcher"
	MailError       ErrorContext = "Mail"
	GUIError        ErrorContext = "GUI"
)

// FormatError creates a standardized error message with context
func FormatError(context ErrorContext, operation string, err error) string {
	return fmt.Sprintf("%s error: %s - %v", context, operation, err)
}

// Error carries the context and operation an error happened in, so commands
// can return it and leave the printing to Execute.
type Error struct {
	Context   ErrorContext
	Operation string
	Err       error
}

// Wrap tags err with context and operation. It returns nil for a nil err.
func Wrap(context ErrorContext, operation string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Context: context, Operation: operation, Err: err}
}

func (e *Error) Error() string {
	return FormatError(e.Context, e.Operation, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// LogError prints an error to the console using the standard format
func LogError(context ErrorContext, operation string, err error) {
	Red.Println(FormatError(context, operation, err))
}
