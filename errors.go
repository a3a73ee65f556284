package jsoncore

import (
	"fmt"

	"github.com/pkg/errors"
)

// Sentinel errors every Error wraps, kept for errors.Is compatibility
// with callers that only care about the broad category.
var (
	ErrParse     = errors.New("parse error")
	ErrType      = errors.New("type error")
	ErrStructure = errors.New("structural error")
)

// ErrorKind is the closed taxonomy of failures CORE can raise.
type ErrorKind int

// Error kinds.
const (
	ErrorUnexpectedEOF ErrorKind = iota
	ErrorInvalidJSON
	ErrorExpectedOpeningObjectChar
	ErrorExpectedOpeningArrayChar
	ErrorExpectedOpeningQuoteChar
	ErrorExpectedColon
	ErrorExpectedComma
	ErrorExpectedNewline
	ErrorInvalidNumber
	ErrorInvalidChar
	ErrorInvalidBinaryTag
	ErrorTypeMismatch
	ErrorDuplicateKey // reserved; never raised by default
	numErrorKinds
)

var errorKindStrings = [numErrorKinds]string{
	"UnexpectedEOF",
	"InvalidJSON",
	"ExpectedOpeningObjectChar",
	"ExpectedOpeningArrayChar",
	"ExpectedOpeningQuoteChar",
	"ExpectedColon",
	"ExpectedComma",
	"ExpectedNewline",
	"InvalidNumber",
	"InvalidChar",
	"InvalidBinaryTag",
	"TypeMismatch",
	"DuplicateKey",
}

func (k ErrorKind) String() string {
	if k < 0 || k >= numErrorKinds {
		return "Unknown"
	}
	return errorKindStrings[k]
}

func (k ErrorKind) sentinel() error {
	switch k {
	case ErrorTypeMismatch:
		return ErrType
	default:
		return ErrParse
	}
}

// Error is a position-carrying failure. It unwraps to one of the
// package sentinels so callers can test broad categories with
// errors.Is, while Kind/Pos/Expected give exact diagnostic detail.
type Error struct {
	Kind     ErrorKind
	Pos      int
	Expected string
	cause    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: expected %s at byte %d", e.Kind, e.Expected, e.Pos)
}

// Unwrap exposes the sentinel, so errors.Is still matches it through
// any pkg/errors context stacked on top during propagation.
func (e *Error) Unwrap() error { return e.cause }

func newError(kind ErrorKind, pos int, expected string) *Error {
	return &Error{Kind: kind, Pos: pos, Expected: expected, cause: kind.sentinel()}
}

// wrapf stacks a breadcrumb onto an error as it propagates from the
// lazy/binary scan up through the generic and record materializers,
// without losing the original *Error for errors.As.
func wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return errors.Wrapf(err, format, args...)
}

// fieldError reports a structural mismatch between a record field's
// declared type and the JSON kind actually found, per spec §4.6.
func fieldError(fieldName string, pos int, declaredType string) error {
	base := &Error{Kind: ErrorTypeMismatch, Pos: pos, Expected: declaredType, cause: ErrStructure}
	return errors.Wrapf(base, "field %q", fieldName)
}
