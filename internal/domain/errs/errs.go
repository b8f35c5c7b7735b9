package errs

import (
	"errors"
	"fmt"
)

// Kind classifies a failure raised while reading or aggregating share data.
type Kind string

const (
	// KindConfiguration reports an empty, blank or duplicated company declaration.
	KindConfiguration Kind = "CONFIGURATION"
	// KindRowShape reports a data row whose column count doesn't match the header.
	KindRowShape Kind = "ROW_SHAPE"
	// KindParse reports a non-numeric price or year cell.
	KindParse Kind = "PARSE"
	// KindSourceUnavailable reports an input that cannot be opened or isn't a CSV file.
	KindSourceUnavailable Kind = "SOURCE_UNAVAILABLE"
)

// Sentinel values for errors.Is checks. They carry only a Kind.
var (
	ErrConfiguration     = &Error{Kind: KindConfiguration}
	ErrRowShape          = &Error{Kind: KindRowShape}
	ErrParse             = &Error{Kind: KindParse}
	ErrSourceUnavailable = &Error{Kind: KindSourceUnavailable}
)

// Error is the single error type produced by the ingestion and aggregation core.
//
// Fields:
//   - Kind: one of the Kind constants above.
//   - Message: human readable description.
//   - Line: 1-based source line where the failure happened (0 when unknown).
//   - Cause: wrapped lower-level error, if any.
type Error struct {
	Kind    Kind
	Message string
	Line    int
	Cause   error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Line > 0 {
		msg = fmt.Sprintf("line %d: %s", e.Line, msg)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether target is an *Error of the same Kind, so that
// errors.Is(err, errs.ErrParse) works through any wrapping.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// AtLine returns a copy of e tagged with the given source line.
func (e *Error) AtLine(line int) *Error {
	cp := *e
	cp.Line = line
	return &cp
}

func newError(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Configuration builds a KindConfiguration error.
func Configuration(format string, args ...any) *Error {
	return newError(KindConfiguration, nil, format, args...)
}

// RowShape builds a KindRowShape error.
func RowShape(format string, args ...any) *Error {
	return newError(KindRowShape, nil, format, args...)
}

// Parse builds a KindParse error wrapping cause.
func Parse(cause error, format string, args ...any) *Error {
	return newError(KindParse, cause, format, args...)
}

// SourceUnavailable builds a KindSourceUnavailable error wrapping cause.
func SourceUnavailable(cause error, format string, args ...any) *Error {
	return newError(KindSourceUnavailable, cause, format, args...)
}

// KindOf returns the Kind of the first *Error found in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}
