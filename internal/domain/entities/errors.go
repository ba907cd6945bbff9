package entities

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is checks
var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileRead            = errors.New("file read failed")
	ErrRender              = errors.New("render failed")
	ErrEmptyDeck           = errors.New("no slides found")
	ErrOutOfRange          = errors.New("slide index out of range")
)

// UnsupportedFileTypeError is returned before any read when the file extension is not allowed
type UnsupportedFileTypeError struct {
	Name    string
	Ext     string
	Allowed []string
}

func (e *UnsupportedFileTypeError) Error() string {
	return fmt.Sprintf("unsupported file type %q for %s (allowed: %v)", e.Ext, e.Name, e.Allowed)
}

func (e *UnsupportedFileTypeError) Is(target error) bool { return target == ErrUnsupportedFileType }

// FileReadError wraps a failure reading the deck source
type FileReadError struct {
	Name string
	Err  error
}

func (e *FileReadError) Error() string {
	return fmt.Sprintf("reading %s: %v", e.Name, e.Err)
}

func (e *FileReadError) Unwrap() error { return e.Err }

func (e *FileReadError) Is(target error) bool { return target == ErrFileRead }

// RenderError wraps a failure of the markdown rendering engine
type RenderError struct {
	Err error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("rendering deck: %v", e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

func (e *RenderError) Is(target error) bool { return target == ErrRender }

// EmptyDeckError is returned when rendering produced no slides
type EmptyDeckError struct{}

func (e *EmptyDeckError) Error() string { return ErrEmptyDeck.Error() }

func (e *EmptyDeckError) Is(target error) bool { return target == ErrEmptyDeck }

// OutOfRangeError reports an index outside [0, Total-1]
type OutOfRangeError struct {
	Index int
	Total int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("slide index %d out of range (0-%d)", e.Index, e.Total-1)
}

func (e *OutOfRangeError) Is(target error) bool { return target == ErrOutOfRange }

// ErrorKind classifies an error for user-facing messages and status codes
type ErrorKind string

const (
	ErrorKindUnsupportedFileType ErrorKind = "unsupported_file_type"
	ErrorKindFileRead            ErrorKind = "file_read"
	ErrorKindRender              ErrorKind = "render"
	ErrorKindEmptyDeck           ErrorKind = "empty_deck"
	ErrorKindOutOfRange          ErrorKind = "out_of_range"
	ErrorKindUnknown             ErrorKind = "unknown"
)

// KindOf returns the ErrorKind for err
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnsupportedFileType):
		return ErrorKindUnsupportedFileType
	case errors.Is(err, ErrFileRead):
		return ErrorKindFileRead
	case errors.Is(err, ErrEmptyDeck):
		return ErrorKindEmptyDeck
	case errors.Is(err, ErrRender):
		return ErrorKindRender
	case errors.Is(err, ErrOutOfRange):
		return ErrorKindOutOfRange
	default:
		return ErrorKindUnknown
	}
}
