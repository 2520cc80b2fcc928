package pinmsgpack

import (
	"errors"
	"testing"
)

func TestValueTypeString(t *testing.T) {
	cases := map[ValueType]string{
		Unspecified:   "unspecified",
		Nil:           "nil",
		UnsignedInt64: "unsigned_int64",
		Map:           "map",
		ValueType(99): "unknown",
	}
	for vt, want := range cases {
		if got := vt.String(); got != want {
			t.Errorf("ValueType(%d).String() = %q, want %q", vt, got, want)
		}
	}
}

func TestErrorIsMatchesByCodeOnly(t *testing.T) {
	err := WrapError(ErrReadingData, "short string payload", errors.New("buffer closed"))
	if !errors.Is(err, NewError(ErrReadingData, "")) {
		t.Fatalf("expected errors.Is to match on code alone")
	}
	if errors.Is(err, NewError(ErrInvalidType, "")) {
		t.Fatalf("expected errors.Is to reject a different code")
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("eof")
	err := WrapError(ErrReadingTypeMarker, "marker", cause)
	if !errors.Is(err, cause) {
		t.Fatalf("expected Unwrap to expose the wrapped cause")
	}
}

func TestNopLoggerDoesNotPanic(t *testing.T) {
	var l Logger = NopLogger{}
	l.Debug("x")
	l.Info("x", "k", "v")
	l.Warn("x")
	l.Error("x")
}
