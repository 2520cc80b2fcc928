package msgpack

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/user/pinmsgpack"
	"github.com/user/pinmsgpack/pkg/buffer"
)

// Default ceilings, spec.md §7's "implementation caps on the target
// platform". Zero means unlimited and is never the constructor
// default; these are.
const (
	DefaultMaxStringLen  = 64 << 20
	DefaultMaxBinaryLen  = 64 << 20
	DefaultMaxArrayLen   = 10_000_000
	DefaultMaxMapLen     = 10_000_000
	DefaultSkipDepthLimit = 512
)

// Decoder is a stateful cursor over a buffer.Buffer, spec.md §4.2. Not
// safe for concurrent use -- external synchronization is the caller's
// responsibility, same as the Buffer it wraps requires a single
// consumer.
type Decoder struct {
	buf    *buffer.Buffer
	logger pinmsgpack.Logger

	ForceMapKeysToString bool

	skipDepthLimit int
	maxStringLen   int
	maxBinaryLen   int
	maxArrayLen    int
	maxMapLen      int
	maxInputLen    int64

	totalRead int64
	pending   *descriptor
	err       error
}

// Option configures a Decoder at construction time.
type Option func(*Decoder)

// WithLogger attaches a Logger that receives an error-level entry for
// the first decode error. Defaults to pinmsgpack.NopLogger{}.
func WithLogger(logger pinmsgpack.Logger) Option {
	return func(d *Decoder) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithForceMapKeysToString sets the Decoder's initial
// ForceMapKeysToString value (it remains a plain settable field
// afterward, matching spec.md §3's decoder-state field).
func WithForceMapKeysToString(force bool) Option {
	return func(d *Decoder) { d.ForceMapKeysToString = force }
}

// WithSkipDepthLimit bounds recursive Skip depth. DecodeValue and the
// other materialization entry points do not consult this limit.
func WithSkipDepthLimit(n int) Option {
	return func(d *Decoder) { d.skipDepthLimit = n }
}

// WithMaxStringLen caps accepted string payload length in bytes.
func WithMaxStringLen(n int) Option { return func(d *Decoder) { d.maxStringLen = n } }

// WithMaxBinaryLen caps accepted binary payload length in bytes.
func WithMaxBinaryLen(n int) Option { return func(d *Decoder) { d.maxBinaryLen = n } }

// WithMaxArrayLen caps accepted array element counts.
func WithMaxArrayLen(n int) Option { return func(d *Decoder) { d.maxArrayLen = n } }

// WithMaxMapLen caps accepted map entry counts.
func WithMaxMapLen(n int) Option { return func(d *Decoder) { d.maxMapLen = n } }

// WithMaxInputLen caps the aggregate number of bytes this Decoder will
// pull from its Buffer across its lifetime. Zero (the default) means
// unlimited.
func WithMaxInputLen(n int64) Option { return func(d *Decoder) { d.maxInputLen = n } }

// New wraps buf in a Decoder ready to read one or more top-level
// MessagePack values.
func New(buf *buffer.Buffer, opts ...Option) *Decoder {
	d := &Decoder{
		buf:            buf,
		logger:         pinmsgpack.NopLogger{},
		skipDepthLimit: DefaultSkipDepthLimit,
		maxStringLen:   DefaultMaxStringLen,
		maxBinaryLen:   DefaultMaxBinaryLen,
		maxArrayLen:    DefaultMaxArrayLen,
		maxMapLen:      DefaultMaxMapLen,
	}
	for _, opt := range opts {
		opt(d)
	}
	ActiveDecoders.Inc()
	return d
}

// Release decrements the active-decoder gauge. Decoders are
// single-use (spec.md §7): callers should call Release once they are
// done with a Decoder, typically in a defer right after New.
func (d *Decoder) Release() {
	ActiveDecoders.Dec()
}

// Err returns the latched decode error, if any. Once set it never
// clears: spec.md §7, "first error wins".
func (d *Decoder) Err() error {
	return d.err
}

// fail latches the first error the Decoder encounters and returns it.
// Subsequent calls to fail with a different error are ignored: the
// original is what callers see.
func (d *Decoder) fail(code pinmsgpack.ErrorCode, msg string, cause error) error {
	if d.err == nil {
		e := pinmsgpack.WrapError(code, msg, cause)
		d.err = e
		d.logger.Error("decode error", "code", code.String(), "msg", msg)
		DecodeErrors.WithLabelValues(code.String()).Inc()
	}
	return d.err
}

// readFull pulls exactly n bytes from the Buffer, or fails with code
// if the Buffer terminates first. n == 0 always succeeds without
// touching the Buffer.
func (d *Decoder) readFull(n int, code pinmsgpack.ErrorCode) ([]byte, error) {
	if d.err != nil {
		return nil, d.err
	}
	if d.maxInputLen > 0 && d.totalRead+int64(n) > d.maxInputLen {
		return nil, d.fail(pinmsgpack.ErrInputTooLarge, "aggregate input ceiling exceeded", nil)
	}
	if n == 0 {
		return nil, nil
	}
	if d.buf.Unread() < n {
		BufferBlockedReads.WithLabelValues(fmt.Sprintf("%p", d.buf)).Inc()
	}
	buf := make([]byte, n)
	if !d.buf.Read(buf) {
		return nil, d.fail(code, "buffer terminated before required bytes arrived", nil)
	}
	d.totalRead += int64(n)
	BytesDecoded.WithLabelValues(code.String()).Add(float64(n))
	return buf, nil
}

// ensurePending peeks the next marker byte (and, for sized types, its
// inline length field) if no value is already pending.
func (d *Decoder) ensurePending() error {
	if d.err != nil {
		return d.err
	}
	if d.pending != nil {
		return nil
	}
	desc, err := d.decodeMarker()
	if err != nil {
		return err
	}
	d.pending = desc
	return nil
}

// PeekType returns the type tag of the current pending value without
// consuming it. Repeated calls return the same tag (spec.md §8's
// "idempotent peek" property) until a typed reader consumes the value.
func (d *Decoder) PeekType() (pinmsgpack.ValueType, error) {
	if err := d.ensurePending(); err != nil {
		return pinmsgpack.Unspecified, err
	}
	return d.pending.typ, nil
}

// clearPending discards the consumed descriptor, restoring the cursor
// to "no pending value".
func (d *Decoder) clearPending() {
	d.pending = nil
}

func beUint(b []byte) uint64 {
	switch len(b) {
	case 1:
		return uint64(b[0])
	case 2:
		return uint64(binary.BigEndian.Uint16(b))
	case 4:
		return uint64(binary.BigEndian.Uint32(b))
	case 8:
		return binary.BigEndian.Uint64(b)
	default:
		return 0
	}
}

// decodeMarker reads one marker byte and, for types whose wire
// encoding declares a length or classifying value, the bytes that
// immediately follow it. It never reads an unsized scalar payload
// (uint8/16/32, int8/16/32, float32/64): those are read lazily by the
// matching typed reader so that peeking a type never over-reads.
func (d *Decoder) decodeMarker() (*descriptor, error) {
	b, err := d.readFull(1, pinmsgpack.ErrReadingTypeMarker)
	if err != nil {
		return nil, err
	}
	m := b[0]

	switch {
	case m <= mPositiveFixintMax:
		return &descriptor{typ: pinmsgpack.UnsignedInt, uintVal: uint64(m), loaded: true}, nil
	case m >= mNegativeFixintMin:
		return &descriptor{typ: pinmsgpack.SignedInt, intVal: int64(int8(m)), loaded: true}, nil
	case m >= mFixmapMin && m <= mFixmapMax:
		return d.checkedDescriptor(pinmsgpack.Map, int(m&0x0f), d.maxMapLen, pinmsgpack.ErrMapTooLong)
	case m >= mFixarrayMin && m <= mFixarrayMax:
		return d.checkedDescriptor(pinmsgpack.Array, int(m&0x0f), d.maxArrayLen, pinmsgpack.ErrArrayTooLong)
	case m >= mFixstrMin && m <= mFixstrMax:
		return d.checkedDescriptor(pinmsgpack.String, int(m&0x1f), d.maxStringLen, pinmsgpack.ErrStringDataTooLong)
	case m == mNil:
		return &descriptor{typ: pinmsgpack.Nil}, nil
	case m == mFalse:
		return &descriptor{typ: pinmsgpack.Bool, boolVal: false}, nil
	case m == mTrue:
		return &descriptor{typ: pinmsgpack.Bool, boolVal: true}, nil
	case m == mBin8:
		return d.sizedDescriptor(pinmsgpack.Binary, 1, d.maxBinaryLen, pinmsgpack.ErrBinaryDataTooLong)
	case m == mBin16:
		return d.sizedDescriptor(pinmsgpack.Binary, 2, d.maxBinaryLen, pinmsgpack.ErrBinaryDataTooLong)
	case m == mBin32:
		return d.sizedDescriptor(pinmsgpack.Binary, 4, d.maxBinaryLen, pinmsgpack.ErrBinaryDataTooLong)
	case m == mExt8:
		return d.extDescriptor(1)
	case m == mExt16:
		return d.extDescriptor(2)
	case m == mExt32:
		return d.extDescriptor(4)
	case m == mFloat32:
		return &descriptor{typ: pinmsgpack.Float32}, nil
	case m == mFloat64:
		return &descriptor{typ: pinmsgpack.Float64}, nil
	case m == mUint8:
		return &descriptor{typ: pinmsgpack.UnsignedInt, pendingWidth: 1}, nil
	case m == mUint16:
		return &descriptor{typ: pinmsgpack.UnsignedInt, pendingWidth: 2}, nil
	case m == mUint32:
		return &descriptor{typ: pinmsgpack.UnsignedInt, pendingWidth: 4}, nil
	case m == mUint64:
		return d.classifiedUint64Descriptor()
	case m == mInt8:
		return &descriptor{typ: pinmsgpack.SignedInt, pendingWidth: 1}, nil
	case m == mInt16:
		return &descriptor{typ: pinmsgpack.SignedInt, pendingWidth: 2}, nil
	case m == mInt32:
		return &descriptor{typ: pinmsgpack.SignedInt, pendingWidth: 4}, nil
	case m == mInt64:
		return d.classifiedInt64Descriptor()
	case m == mFixext1:
		return d.fixextDescriptor(1)
	case m == mFixext2:
		return d.fixextDescriptor(2)
	case m == mFixext4:
		return d.fixextDescriptor(4)
	case m == mFixext8:
		return d.fixextDescriptor(8)
	case m == mFixext16:
		return d.fixextDescriptor(16)
	case m == mStr8:
		return d.sizedDescriptor(pinmsgpack.String, 1, d.maxStringLen, pinmsgpack.ErrStringDataTooLong)
	case m == mStr16:
		return d.sizedDescriptor(pinmsgpack.String, 2, d.maxStringLen, pinmsgpack.ErrStringDataTooLong)
	case m == mStr32:
		return d.sizedDescriptor(pinmsgpack.String, 4, d.maxStringLen, pinmsgpack.ErrStringDataTooLong)
	case m == mArray16:
		return d.sizedDescriptor(pinmsgpack.Array, 2, d.maxArrayLen, pinmsgpack.ErrArrayTooLong)
	case m == mArray32:
		return d.sizedDescriptor(pinmsgpack.Array, 4, d.maxArrayLen, pinmsgpack.ErrArrayTooLong)
	case m == mMap16:
		return d.sizedDescriptor(pinmsgpack.Map, 2, d.maxMapLen, pinmsgpack.ErrMapTooLong)
	case m == mMap32:
		return d.sizedDescriptor(pinmsgpack.Map, 4, d.maxMapLen, pinmsgpack.ErrMapTooLong)
	default: // mReserved (0xc1)
		return nil, d.fail(pinmsgpack.ErrInvalidType, "reserved marker 0xc1", nil)
	}
}

func (d *Decoder) checkedDescriptor(typ pinmsgpack.ValueType, length, limit int, code pinmsgpack.ErrorCode) (*descriptor, error) {
	if limit > 0 && length > limit {
		return nil, d.fail(code, "length field exceeds configured cap", nil)
	}
	return &descriptor{typ: typ, length: length}, nil
}

// sizedDescriptor reads a widthBytes-wide big-endian length field
// following the marker, then builds the descriptor.
func (d *Decoder) sizedDescriptor(typ pinmsgpack.ValueType, widthBytes, limit int, code pinmsgpack.ErrorCode) (*descriptor, error) {
	lb, err := d.readFull(widthBytes, pinmsgpack.ErrReadingLength)
	if err != nil {
		return nil, err
	}
	length := int(beUint(lb))
	return d.checkedDescriptor(typ, length, limit, code)
}

// extDescriptor reads an ext8/16/32 length field plus the type byte
// that follows it.
func (d *Decoder) extDescriptor(widthBytes int) (*descriptor, error) {
	lb, err := d.readFull(widthBytes, pinmsgpack.ErrReadingLength)
	if err != nil {
		return nil, err
	}
	tb, err := d.readFull(1, pinmsgpack.ErrReadingExtType)
	if err != nil {
		return nil, err
	}
	return &descriptor{typ: pinmsgpack.Extension, length: int(beUint(lb)), extType: int8(tb[0])}, nil
}

// fixextDescriptor handles fixext1/2/4/8/16, whose body length is
// implied by the marker rather than an explicit length field.
func (d *Decoder) fixextDescriptor(length int) (*descriptor, error) {
	tb, err := d.readFull(1, pinmsgpack.ErrReadingExtType)
	if err != nil {
		return nil, err
	}
	return &descriptor{typ: pinmsgpack.Extension, length: length, extType: int8(tb[0])}, nil
}

// classifiedUint64Descriptor reads the full 8-byte uint64 payload
// immediately, since spec.md §4.2 buckets it as unsigned_int or
// unsigned_int64 depending on the actual value, not the marker.
func (d *Decoder) classifiedUint64Descriptor() (*descriptor, error) {
	b, err := d.readFull(8, pinmsgpack.ErrReadingData)
	if err != nil {
		return nil, err
	}
	v := binary.BigEndian.Uint64(b)
	return &descriptor{typ: classifyUnsigned(v), uintVal: v, loaded: true}, nil
}

func (d *Decoder) classifiedInt64Descriptor() (*descriptor, error) {
	b, err := d.readFull(8, pinmsgpack.ErrReadingData)
	if err != nil {
		return nil, err
	}
	v := int64(binary.BigEndian.Uint64(b))
	return &descriptor{typ: classifySigned(v), intVal: v, loaded: true}, nil
}

// ReadNil consumes a nil value.
func (d *Decoder) ReadNil() error {
	if err := d.ensurePending(); err != nil {
		return err
	}
	if d.pending.typ != pinmsgpack.Nil {
		return d.fail(pinmsgpack.ErrInvalidType, "ReadNil on non-nil value", nil)
	}
	d.clearPending()
	return nil
}

// ReadBool consumes a bool value.
func (d *Decoder) ReadBool() (bool, error) {
	if err := d.ensurePending(); err != nil {
		return false, err
	}
	if d.pending.typ != pinmsgpack.Bool {
		return false, d.fail(pinmsgpack.ErrInvalidType, "ReadBool on non-bool value", nil)
	}
	v := d.pending.boolVal
	d.clearPending()
	return v, nil
}

// isIntegerType reports whether a descriptor tag is one of the four
// integer buckets.
func isIntegerType(t pinmsgpack.ValueType) bool {
	switch t {
	case pinmsgpack.UnsignedInt, pinmsgpack.UnsignedInt64, pinmsgpack.SignedInt, pinmsgpack.SignedInt64:
		return true
	default:
		return false
	}
}

// loadIntegerPayload fills in d.pending's cached value the first time
// an integer reader actually needs it. uint8/16/32 and int8/16/32
// markers arrive with no value cached (decodeMarker deliberately
// avoids reading their payload); every other integer marker already
// has its value cached by the time it reaches here.
func (d *Decoder) loadIntegerPayload() error {
	desc := d.pending
	if desc.loaded {
		return nil
	}
	width := desc.pendingWidth
	b, err := d.readFull(width, pinmsgpack.ErrReadingData)
	if err != nil {
		return err
	}
	if desc.typ == pinmsgpack.SignedInt || desc.typ == pinmsgpack.SignedInt64 {
		switch width {
		case 1:
			desc.intVal = int64(int8(b[0]))
		case 2:
			desc.intVal = int64(int16(binary.BigEndian.Uint16(b)))
		case 4:
			desc.intVal = int64(int32(binary.BigEndian.Uint32(b)))
		}
	} else {
		desc.uintVal = beUint(b)
	}
	desc.loaded = true
	return nil
}

// asInt64 returns the descriptor's numeric value as int64 regardless
// of which integer bucket produced it, failing if the original
// unsigned value cannot be represented.
func (d *Decoder) asInt64() (int64, error) {
	if err := d.loadIntegerPayload(); err != nil {
		return 0, err
	}
	desc := d.pending
	switch desc.typ {
	case pinmsgpack.SignedInt, pinmsgpack.SignedInt64:
		return desc.intVal, nil
	default:
		if desc.uintVal > math.MaxInt64 {
			return 0, d.fail(pinmsgpack.ErrInvalidType, "unsigned value does not fit a signed 64-bit integer", nil)
		}
		return int64(desc.uintVal), nil
	}
}

// asUint64 returns the descriptor's numeric value as uint64, failing
// if it was negative.
func (d *Decoder) asUint64() (uint64, error) {
	if err := d.loadIntegerPayload(); err != nil {
		return 0, err
	}
	desc := d.pending
	switch desc.typ {
	case pinmsgpack.UnsignedInt, pinmsgpack.UnsignedInt64:
		return desc.uintVal, nil
	default:
		if desc.intVal < 0 {
			return 0, d.fail(pinmsgpack.ErrInvalidType, "negative value does not fit an unsigned integer", nil)
		}
		return uint64(desc.intVal), nil
	}
}

// ReadInt32 consumes any integer descriptor whose value fits int32
// (spec.md §4.2: "an unsigned fixint may feed read_integer if it
// fits").
func (d *Decoder) ReadInt32() (int32, error) {
	if err := d.ensurePending(); err != nil {
		return 0, err
	}
	if !isIntegerType(d.pending.typ) {
		return 0, d.fail(pinmsgpack.ErrInvalidType, "ReadInt32 on non-integer value", nil)
	}
	v, err := d.asInt64()
	if err != nil {
		return 0, err
	}
	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, d.fail(pinmsgpack.ErrInvalidType, "integer value overflows int32", nil)
	}
	d.clearPending()
	return int32(v), nil
}

// ReadUint32 consumes any integer descriptor whose value fits uint32.
func (d *Decoder) ReadUint32() (uint32, error) {
	if err := d.ensurePending(); err != nil {
		return 0, err
	}
	if !isIntegerType(d.pending.typ) {
		return 0, d.fail(pinmsgpack.ErrInvalidType, "ReadUint32 on non-integer value", nil)
	}
	v, err := d.asUint64()
	if err != nil {
		return 0, err
	}
	if v > math.MaxUint32 {
		return 0, d.fail(pinmsgpack.ErrInvalidType, "integer value overflows uint32", nil)
	}
	d.clearPending()
	return uint32(v), nil
}

// ReadInt64 consumes any integer descriptor representable as int64.
func (d *Decoder) ReadInt64() (int64, error) {
	if err := d.ensurePending(); err != nil {
		return 0, err
	}
	if !isIntegerType(d.pending.typ) {
		return 0, d.fail(pinmsgpack.ErrInvalidType, "ReadInt64 on non-integer value", nil)
	}
	v, err := d.asInt64()
	if err != nil {
		return 0, err
	}
	d.clearPending()
	return v, nil
}

// ReadUint64 consumes any integer descriptor representable as uint64.
func (d *Decoder) ReadUint64() (uint64, error) {
	if err := d.ensurePending(); err != nil {
		return 0, err
	}
	if !isIntegerType(d.pending.typ) {
		return 0, d.fail(pinmsgpack.ErrInvalidType, "ReadUint64 on non-integer value", nil)
	}
	v, err := d.asUint64()
	if err != nil {
		return 0, err
	}
	d.clearPending()
	return v, nil
}

// ReadFloat32 consumes a float32 value. Integer markers are never
// auto-promoted (spec.md §4.2's float reader policy).
func (d *Decoder) ReadFloat32() (float32, error) {
	if err := d.ensurePending(); err != nil {
		return 0, err
	}
	if d.pending.typ != pinmsgpack.Float32 {
		return 0, d.fail(pinmsgpack.ErrInvalidType, "ReadFloat32 on non-float32 value", nil)
	}
	b, err := d.readFull(4, pinmsgpack.ErrReadingData)
	if err != nil {
		return 0, err
	}
	v := math.Float32frombits(binary.BigEndian.Uint32(b))
	d.clearPending()
	return v, nil
}

// ReadFloat64 consumes a float64 value, or a float32 widened to
// float64 (spec.md §4.2's double reader policy).
func (d *Decoder) ReadFloat64() (float64, error) {
	if err := d.ensurePending(); err != nil {
		return 0, err
	}
	switch d.pending.typ {
	case pinmsgpack.Float64:
		b, err := d.readFull(8, pinmsgpack.ErrReadingData)
		if err != nil {
			return 0, err
		}
		v := math.Float64frombits(binary.BigEndian.Uint64(b))
		d.clearPending()
		return v, nil
	case pinmsgpack.Float32:
		b, err := d.readFull(4, pinmsgpack.ErrReadingData)
		if err != nil {
			return 0, err
		}
		v := float64(math.Float32frombits(binary.BigEndian.Uint32(b)))
		d.clearPending()
		return v, nil
	default:
		return 0, d.fail(pinmsgpack.ErrInvalidType, "ReadFloat64 on non-float value", nil)
	}
}

// ReadStringLen returns the pending string's payload length in bytes,
// without consuming it.
func (d *Decoder) ReadStringLen() (int, error) {
	if err := d.ensurePending(); err != nil {
		return 0, err
	}
	if d.pending.typ != pinmsgpack.String {
		return 0, d.fail(pinmsgpack.ErrInvalidType, "ReadStringLen on non-string value", nil)
	}
	return d.pending.length, nil
}

// ReadStringBufSize returns length+1 (room for a trailing NUL), the
// same guarantee ReadStringLen makes, restated for callers that want
// to allocate a NUL-terminated buffer. Both spellings read the same
// cached descriptor length and are always consistent for the current
// string (spec.md §9's open question, resolved).
func (d *Decoder) ReadStringBufSize() (int, error) {
	n, err := d.ReadStringLen()
	if err != nil {
		return 0, err
	}
	return n + 1, nil
}

// ReadString consumes and returns the pending string's payload. It
// does not validate UTF-8; DecodeValue does that check itself.
func (d *Decoder) ReadString() (string, error) {
	if err := d.ensurePending(); err != nil {
		return "", err
	}
	if d.pending.typ != pinmsgpack.String {
		return "", d.fail(pinmsgpack.ErrInvalidType, "ReadString on non-string value", nil)
	}
	n := d.pending.length
	b, err := d.readFull(n, pinmsgpack.ErrReadingData)
	if err != nil {
		return "", err
	}
	d.clearPending()
	return string(b), nil
}

// ReadBinaryLen returns the pending binary value's payload length in
// bytes, without consuming it.
func (d *Decoder) ReadBinaryLen() (int, error) {
	if err := d.ensurePending(); err != nil {
		return 0, err
	}
	if d.pending.typ != pinmsgpack.Binary {
		return 0, d.fail(pinmsgpack.ErrInvalidType, "ReadBinaryLen on non-binary value", nil)
	}
	return d.pending.length, nil
}

// ReadBinary consumes and returns the pending binary value's payload.
func (d *Decoder) ReadBinary() ([]byte, error) {
	if err := d.ensurePending(); err != nil {
		return nil, err
	}
	if d.pending.typ != pinmsgpack.Binary {
		return nil, d.fail(pinmsgpack.ErrInvalidType, "ReadBinary on non-binary value", nil)
	}
	n := d.pending.length
	b, err := d.readFull(n, pinmsgpack.ErrReadingData)
	if err != nil {
		return nil, err
	}
	d.clearPending()
	return b, nil
}

// ReadArrayCount consumes an array marker and returns its element
// count. The caller is then responsible for decoding exactly that many
// child values.
func (d *Decoder) ReadArrayCount() (int, error) {
	if err := d.ensurePending(); err != nil {
		return 0, err
	}
	if d.pending.typ != pinmsgpack.Array {
		return 0, d.fail(pinmsgpack.ErrInvalidType, "ReadArrayCount on non-array value", nil)
	}
	n := d.pending.length
	d.clearPending()
	return n, nil
}

// ReadMapCount consumes a map marker and returns its entry count. The
// caller is then responsible for decoding exactly that many key/value
// pairs.
func (d *Decoder) ReadMapCount() (int, error) {
	if err := d.ensurePending(); err != nil {
		return 0, err
	}
	if d.pending.typ != pinmsgpack.Map {
		return 0, d.fail(pinmsgpack.ErrInvalidType, "ReadMapCount on non-map value", nil)
	}
	n := d.pending.length
	d.clearPending()
	return n, nil
}
