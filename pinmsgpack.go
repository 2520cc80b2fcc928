// Package pinmsgpack holds the cross-cutting types shared by pkg/buffer
// and pkg/msgpack: the MessagePack value-type tags, the decode error
// taxonomy, and the logging interface both subsystems log through.
package pinmsgpack

import "fmt"

// ValueType is the tag carried by a Descriptor after peeking a marker
// byte. It mirrors the type bucket names from spec.md's data model,
// not the raw wire marker.
type ValueType int

const (
	Unspecified ValueType = iota
	Nil
	Bool
	UnsignedInt
	UnsignedInt64
	SignedInt
	SignedInt64
	Float32
	Float64
	String
	Binary
	Array
	Map
	Extension
)

func (t ValueType) String() string {
	switch t {
	case Unspecified:
		return "unspecified"
	case Nil:
		return "nil"
	case Bool:
		return "bool"
	case UnsignedInt:
		return "unsigned_int"
	case UnsignedInt64:
		return "unsigned_int64"
	case SignedInt:
		return "signed_int"
	case SignedInt64:
		return "signed_int64"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case String:
		return "string"
	case Binary:
		return "binary"
	case Array:
		return "array"
	case Map:
		return "map"
	case Extension:
		return "extension"
	default:
		return "unknown"
	}
}

// ErrorCode identifies one of the stable decode-error categories from
// spec.md §7. Encoder-side codes from the original PINMessagePackError
// enum (WritingFixedValue, WritingTypeMarker, ...) are intentionally
// not represented: this module never encodes.
type ErrorCode int

const (
	ErrNone ErrorCode = iota
	ErrStringDataTooLong
	ErrBinaryDataTooLong
	ErrArrayTooLong
	ErrMapTooLong
	ErrInputTooLarge
	ErrReadingTypeMarker
	ErrReadingLength
	ErrReadingData
	ErrReadingExtType
	ErrInvalidType
	ErrSkipDepthLimitExceeded
	ErrInternal
)

func (c ErrorCode) String() string {
	switch c {
	case ErrNone:
		return "none"
	case ErrStringDataTooLong:
		return "string-data-too-long"
	case ErrBinaryDataTooLong:
		return "binary-data-too-long"
	case ErrArrayTooLong:
		return "array-too-long"
	case ErrMapTooLong:
		return "map-too-long"
	case ErrInputTooLarge:
		return "input-too-large"
	case ErrReadingTypeMarker:
		return "reading-type-marker"
	case ErrReadingLength:
		return "reading-length"
	case ErrReadingData:
		return "reading-data"
	case ErrReadingExtType:
		return "reading-ext-type"
	case ErrInvalidType:
		return "invalid-type"
	case ErrSkipDepthLimitExceeded:
		return "skip-depth-limit-exceeded"
	case ErrInternal:
		return "internal-error"
	default:
		return "unknown-error"
	}
}

// Error is the concrete error type returned (wrapped) by every failing
// operation in pkg/buffer and pkg/msgpack. Callers compare the stable
// category with errors.Is(err, &pinmsgpack.Error{Code: ...}) or by
// unwrapping and inspecting Code directly.
type Error struct {
	Code ErrorCode
	Msg  string
	Err  error // optional wrapped cause (e.g. a buffer I/O failure)
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Code.String()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is match on error category alone, ignoring Msg/Err, so
// callers can write errors.Is(err, pinmsgpack.NewError(pinmsgpack.ErrInvalidType, "")).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// NewError constructs an *Error with the given category and message.
func NewError(code ErrorCode, msg string) *Error {
	return &Error{Code: code, Msg: msg}
}

// WrapError constructs an *Error that wraps a lower-level cause (e.g. an
// unexpected Buffer termination), matching the teacher's
// fmt.Errorf("...: %w", err) wrapping convention while still exposing a
// stable ErrorCode for callers that need it.
func WrapError(code ErrorCode, msg string, cause error) *Error {
	return &Error{Code: code, Msg: msg, Err: cause}
}

// Logger is the structured logging interface both pkg/buffer and
// pkg/msgpack log through, mirroring hermod.Logger /
// engine.DefaultLogger in the teacher repository. Callers that don't
// care about decoder/buffer internals can leave it unset: every
// constructor defaults to NopLogger{}.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// NopLogger discards everything. It is the default Logger for Buffer
// and Decoder when none is supplied.
type NopLogger struct{}

func (NopLogger) Debug(string, ...interface{}) {}
func (NopLogger) Info(string, ...interface{})  {}
func (NopLogger) Warn(string, ...interface{})  {}
func (NopLogger) Error(string, ...interface{}) {}
