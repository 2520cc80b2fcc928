package msgpack

import "github.com/user/pinmsgpack"

// descriptor is the Decoder's in-memory summary of the current pending
// value: a type tag plus, depending on the tag, either an inline
// scalar or a payload length still to be read from the buffer. It is
// created by peeking a marker byte and discarded the instant a typed
// reader consumes it -- spec.md §3's "current value descriptor".
type descriptor struct {
	typ pinmsgpack.ValueType

	// length is the payload byte count for string/binary, the element
	// count for array/map, or the body length for extension types.
	length int

	extType int8

	boolVal bool
	intVal  int64
	uintVal uint64
	f32Val  float32
	f64Val  float64

	// loaded and pendingWidth track integer descriptors whose scalar
	// value is not yet known at peek time: uint8/16/32 and int8/16/32
	// markers carry only pendingWidth (how many payload bytes remain)
	// until a typed reader actually loads intVal/uintVal via
	// (*Decoder).loadIntegerPayload. Every other integer marker
	// (fixint, uint64, int64) is loaded=true immediately, since its
	// bucket classification already required reading the value.
	loaded       bool
	pendingWidth int
}

// classifyUnsigned buckets a decoded unsigned value the way spec.md
// §4.2 requires: anything fitting uint32 is the narrower bucket.
func classifyUnsigned(v uint64) pinmsgpack.ValueType {
	if v <= 0xffffffff {
		return pinmsgpack.UnsignedInt
	}
	return pinmsgpack.UnsignedInt64
}

// classifySigned buckets a decoded signed value: anything fitting
// int32 is the narrower bucket.
func classifySigned(v int64) pinmsgpack.ValueType {
	if v >= -2147483648 && v <= 2147483647 {
		return pinmsgpack.SignedInt
	}
	return pinmsgpack.SignedInt64
}
