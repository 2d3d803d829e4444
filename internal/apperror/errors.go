package apperror

import (
	"errors"
	"fmt"
	"io"

	pkgerrors "github.com/pkg/errors"
)

type Code string

const (
	CodeUnknown         Code = "UNKNOWN"
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeNotFound        Code = "NOT_FOUND"
	CodeAlreadyExists   Code = "ALREADY_EXISTS"
	CodeInternal        Code = "INTERNAL"
)

// AppError is the error type returned by the service layer. Message is safe
// to show to clients; Cause is not.
type AppError struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Cause }

// Format prints the cause's stack trace under %+v.
func (e *AppError) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') && e.Cause != nil {
		fmt.Fprintf(s, "%s: %+v", e.Message, e.Cause)
		return
	}
	io.WriteString(s, e.Error())
}

// Is matches any AppError with the same code and message, so sentinel values
// such as ErrUserNotFound can be compared with errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code && t.Message == e.Message
}

func New(code Code, message string) error {
	return &AppError{Code: code, Message: message}
}

func Wrap(code Code, message string, cause error) error {
	return &AppError{Code: code, Message: message, Cause: cause}
}

func InvalidArg(msg string) error {
	return New(CodeInvalidArgument, msg)
}

func NotFound(msg string) error {
	return New(CodeNotFound, msg)
}

func AlreadyExists(msg string) error {
	return New(CodeAlreadyExists, msg)
}

// Internal records a stack trace on cause; log it with %+v.
func Internal(msg string, cause error) error {
	if cause != nil {
		cause = pkgerrors.WithStack(cause)
	}
	return Wrap(CodeInternal, msg, cause)
}

// CodeOf extracts the code of err, or CodeUnknown for foreign errors.
func CodeOf(err error) Code {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}

// MessageOf returns the client-facing message of err.
func MessageOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal server error"
}
