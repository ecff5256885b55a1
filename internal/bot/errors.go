package bot

import (
	"errors"
	"fmt"
)

// UserError is an error whose Message is safe to show in the chat.
// Cause, when set, is the internal error kept for logging only.
type UserError struct {
	Message string
	Cause   error
}

func (e *UserError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *UserError) Unwrap() error {
	return e.Cause
}

// UserErrorf creates a user-facing error with a formatted message and no cause.
func UserErrorf(format string, args ...any) *UserError {
	return &UserError{Message: fmt.Sprintf(format, args...)}
}

// WrapUserError pairs an internal error with the message users should see.
func WrapUserError(message string, cause error) *UserError {
	return &UserError{Message: message, Cause: cause}
}

// IsUserError reports whether err carries a user-facing message.
func IsUserError(err error) bool {
	var userErr *UserError
	return errors.As(err, &userErr)
}

// GetUserMessage returns the message to show in the chat: the UserError's
// own text, or the generic internal-error text for anything else.
func GetUserMessage(err error) string {
	var userErr *UserError
	if errors.As(err, &userErr) {
		return userErr.Message
	}
	return MsgInternalError
}

// GetLogError returns the error to log, including the cause chain.
func GetLogError(err error) error {
	return err
}

// ShouldLog reports whether the error is worth logging. UserErrors without
// a cause are plain user mistakes and stay out of the log.
func ShouldLog(err error) bool {
	var userErr *UserError
	if errors.As(err, &userErr) {
		return userErr.Cause != nil
	}
	return true
}
