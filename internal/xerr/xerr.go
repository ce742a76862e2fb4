// Package xerr implements the compositor's single error taxonomy.
//
// The shape — a Kind plus an optionally wrapped cause — follows the
// teacher's own errors package (errorAnnotation wrapping an inner error),
// but targets modern Go: Unwrap lets callers use errors.Is/errors.As
// instead of the teacher's pre-1.13 Format/FormatError machinery.
package xerr

import (
	"errors"
	"fmt"
)

// Kind classifies a CompError per spec §7.
type Kind int

const (
	KindUnknown Kind = iota
	KindProtocolReply
	KindProtocolReplyOrId
	KindConnectionError
	KindShaderError
	KindConfigError
	KindStringError
	KindUtf8Error
	KindNulError
	KindIoError
	KindIntConversionError
	KindUntrackedWindow
	KindSiblingNotFound
)

func (k Kind) String() string {
	switch k {
	case KindProtocolReply:
		return "ProtocolReply"
	case KindProtocolReplyOrId:
		return "ProtocolReplyOrId"
	case KindConnectionError:
		return "ConnectionError"
	case KindShaderError:
		return "ShaderError"
	case KindConfigError:
		return "ConfigError"
	case KindStringError:
		return "StringError"
	case KindUtf8Error:
		return "Utf8Error"
	case KindNulError:
		return "NulError"
	case KindIoError:
		return "IoError"
	case KindIntConversionError:
		return "IntConversionError"
	case KindUntrackedWindow:
		return "UntrackedWindow"
	case KindSiblingNotFound:
		return "SiblingNotFound"
	default:
		return "Unknown"
	}
}

// CompError is the single error type the core raises. Message is a short
// annotation (the teacher's errorAnnotation.s); Cause is the wrapped
// underlying error, if any.
type CompError struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *CompError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return e.Kind.String()
}

func (e *CompError) Unwrap() error { return e.Cause }

// Is reports whether target is a *CompError with the same Kind, so
// errors.Is(err, xerr.New(xerr.KindUntrackedWindow, "")) works regardless
// of Message/Cause.
func (e *CompError) Is(target error) bool {
	var other *CompError
	if errors.As(target, &other) {
		return other.Kind == e.Kind
	}
	return false
}

// New builds a CompError with no wrapped cause.
func New(kind Kind, message string) *CompError {
	return &CompError{Kind: kind, Message: message}
}

// Wrap builds a CompError annotating cause with message.
func Wrap(kind Kind, message string, cause error) *CompError {
	return &CompError{Kind: kind, Message: message, Cause: cause}
}

// Sentinel errors usable with errors.Is for the two error kinds the
// tracker raises directly (no wrapped cause, no message needed by the
// caller to detect them).
var (
	ErrUntrackedWindow = New(KindUntrackedWindow, "")
	ErrSiblingNotFound = New(KindSiblingNotFound, "")
)
