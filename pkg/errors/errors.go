package errors

import (
	"errors"
	"fmt"
)

// UnreadableInputError is returned when an input file cannot be opened, stat'ed or read.
type UnreadableInputError struct {
	Path string
	err  error
}

func NewUnreadableInputError(path string, err error) *UnreadableInputError {
	return &UnreadableInputError{Path: path, err: err}
}

func (e *UnreadableInputError) Error() string {
	return fmt.Sprintf("cannot read %s: %v", e.Path, e.err)
}

func (e *UnreadableInputError) Unwrap() error { return e.err }

// UnsupportedFormatError is returned for files whose extension has no encoder.
type UnsupportedFormatError struct {
	Ext string
}

func NewUnsupportedFormatError(ext string) *UnsupportedFormatError {
	return &UnsupportedFormatError{Ext: ext}
}

func (e *UnsupportedFormatError) Error() string {
	if e.Ext == "" {
		return "unknown file type"
	}
	return fmt.Sprintf("unknown file type %q", e.Ext)
}

// EncodeFailedError wraps decoder and encoder failures.
type EncodeFailedError struct {
	Format string
	err    error
}

func NewEncodeFailedError(format string, err error) *EncodeFailedError {
	return &EncodeFailedError{Format: format, err: err}
}

func (e *EncodeFailedError) Error() string {
	return fmt.Sprintf("%s encoding failed: %v", e.Format, e.err)
}

func (e *EncodeFailedError) Unwrap() error { return e.err }

// WriteFailedError is returned when the compressed output cannot be written.
type WriteFailedError struct {
	Path string
	err  error
}

func NewWriteFailedError(path string, err error) *WriteFailedError {
	return &WriteFailedError{Path: path, err: err}
}

func (e *WriteFailedError) Error() string {
	return fmt.Sprintf("cannot write %s: %v", e.Path, e.err)
}

func (e *WriteFailedError) Unwrap() error { return e.err }

// DirectoryInputError is returned when a work item names a directory instead of a file.
type DirectoryInputError struct {
	Path string
}

func NewDirectoryInputError(path string) *DirectoryInputError {
	return &DirectoryInputError{Path: path}
}

func (e *DirectoryInputError) Error() string {
	return "Use glob patterns to select files inside directories"
}

// PanicError carries a recovered panic value from a task body.
type PanicError struct {
	Value any
}

func NewPanicError(v any) *PanicError {
	return &PanicError{Value: v}
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("task panicked: %v", e.Value)
}

func IsUnreadableInputError(err error) bool {
	var e *UnreadableInputError
	return errors.As(err, &e)
}

func IsUnsupportedFormatError(err error) bool {
	var e *UnsupportedFormatError
	return errors.As(err, &e)
}

func IsEncodeFailedError(err error) bool {
	var e *EncodeFailedError
	return errors.As(err, &e)
}

func IsWriteFailedError(err error) bool {
	var e *WriteFailedError
	return errors.As(err, &e)
}

func IsDirectoryInputError(err error) bool {
	var e *DirectoryInputError
	return errors.As(err, &e)
}

func IsPanicError(err error) bool {
	var e *PanicError
	return errors.As(err, &e)
}

// Kind returns a short stable name for the error kind, used in reports and history.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case IsDirectoryInputError(err):
		return "directory"
	case IsUnreadableInputError(err):
		return "unreadable_input"
	case IsUnsupportedFormatError(err):
		return "unsupported_format"
	case IsEncodeFailedError(err):
		return "encode_failed"
	case IsWriteFailedError(err):
		return "write_failed"
	case IsPanicError(err):
		return "panic"
	default:
		return "unknown"
	}
}

// RunNotFoundError is returned by the history store for an unknown run id.
type RunNotFoundError struct {
	ID string
}

func NewRunNotFoundError(id string) *RunNotFoundError {
	return &RunNotFoundError{ID: id}
}

func (e *RunNotFoundError) Error() string {
	return fmt.Sprintf("run %s not found", e.ID)
}

func IsRunNotFoundError(err error) bool {
	var e *RunNotFoundError
	return errors.As(err, &e)
}
