// Package apperr defines the stable error codes surfaced by the history cache
// and the adapters beneath it.
package apperr

import (
	"errors"
	"fmt"
)

// Code identifies a failure mode. Codes are stable and safe to show to clients.
type Code string

const (
	// NotOpen indicates no repository path has been opened.
	NotOpen Code = "NOT_OPEN"
	// NotCached indicates the commit history has not been prepared yet.
	NotCached Code = "NOT_CACHED"
	// RepositoryUnreadable indicates the path does not resolve to a git repository.
	RepositoryUnreadable Code = "REPOSITORY_UNREADABLE"
	// RevisionUnresolvable indicates a commit or object id could not be resolved.
	RevisionUnresolvable Code = "REVISION_UNRESOLVABLE"
	// NotACommit indicates the id resolved to something other than a commit.
	NotACommit Code = "NOT_A_COMMIT"
	// NotABlob indicates the id resolved to something other than a blob.
	NotABlob Code = "NOT_A_BLOB"
	// TraversalFailed indicates the commit graph walk could not be started.
	TraversalFailed Code = "TRAVERSAL_FAILED"
	// DecodeError indicates blob content is not valid text.
	DecodeError Code = "DECODE_ERROR"
	// InvalidArgument indicates a malformed request parameter.
	InvalidArgument Code = "INVALID_ARGUMENT"
)

// Error is an error carrying a Code and an optional underlying cause.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	cause   error
}

// New creates an Error without a cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates an Error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error that wraps cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

// CodeOf returns the code of the first *Error in err's chain, or "" if none.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}
