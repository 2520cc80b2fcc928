package msgpack

import (
	"errors"
	"testing"

	"github.com/user/pinmsgpack"
	"github.com/user/pinmsgpack/pkg/buffer"
)

// newTestDecoder wraps raw, closes the buffer as completed, and
// returns a ready-to-read Decoder -- the common shape of spec.md §8's
// literal byte-sequence scenarios.
func newTestDecoder(raw []byte) *Decoder {
	b := buffer.New()
	b.Write(raw)
	b.Close(true)
	return New(b)
}

func TestEmptyMap(t *testing.T) {
	d := newTestDecoder([]byte{0x80})
	v, err := d.DecodeValue()
	if err != nil {
		t.Fatalf("DecodeValue: %v", err)
	}
	if v.Kind != KindMap || len(v.Map) != 0 {
		t.Fatalf("got %+v, want empty map", v)
	}
}

func TestSmallUint(t *testing.T) {
	d := newTestDecoder([]byte{0x7f})
	v, err := d.DecodeValue()
	if err != nil {
		t.Fatalf("DecodeValue: %v", err)
	}
	if v.Kind != KindUint64 || v.Uint64 != 127 {
		t.Fatalf("got %+v, want uint64 127", v)
	}

	d2 := newTestDecoder([]byte{0xcd, 0x01, 0x00})
	typ, err := d2.PeekType()
	if err != nil {
		t.Fatalf("PeekType: %v", err)
	}
	if typ != pinmsgpack.UnsignedInt {
		t.Fatalf("PeekType = %v, want unsigned_int", typ)
	}
	v2, err := d2.DecodeValue()
	if err != nil {
		t.Fatalf("DecodeValue: %v", err)
	}
	if v2.Uint64 != 256 {
		t.Fatalf("got %d, want 256", v2.Uint64)
	}
}

func TestNegativeFixint(t *testing.T) {
	d := newTestDecoder([]byte{0xff})
	v, err := d.DecodeValue()
	if err != nil {
		t.Fatalf("DecodeValue: %v", err)
	}
	if v.Kind != KindInt64 || v.Int64 != -1 {
		t.Fatalf("got %+v, want int64 -1", v)
	}

	d2 := newTestDecoder([]byte{0xd0, 0x80})
	v2, err := d2.DecodeValue()
	if err != nil {
		t.Fatalf("DecodeValue: %v", err)
	}
	if v2.Int64 != -128 {
		t.Fatalf("got %d, want -128", v2.Int64)
	}
}

func TestString(t *testing.T) {
	d := newTestDecoder([]byte{0xa5, 'h', 'e', 'l', 'l', 'o'})
	n, err := d.ReadStringLen()
	if err != nil {
		t.Fatalf("ReadStringLen: %v", err)
	}
	if n != 5 {
		t.Fatalf("ReadStringLen = %d, want 5", n)
	}
	bufSize, err := d.ReadStringBufSize()
	if err != nil {
		t.Fatalf("ReadStringBufSize: %v", err)
	}
	if bufSize != 6 {
		t.Fatalf("ReadStringBufSize = %d, want 6", bufSize)
	}
	s, err := d.ReadString()
	if err != nil {
		t.Fatalf("ReadString: %v", err)
	}
	if s != "hello" {
		t.Fatalf("ReadString = %q, want %q", s, "hello")
	}
}

func TestArrayOfBools(t *testing.T) {
	d := newTestDecoder([]byte{0x92, 0xc3, 0xc2})
	v, err := d.DecodeValue()
	if err != nil {
		t.Fatalf("DecodeValue: %v", err)
	}
	if v.Kind != KindArray || len(v.Array) != 2 {
		t.Fatalf("got %+v, want 2-element array", v)
	}
	if v.Array[0].Bool != true || v.Array[1].Bool != false {
		t.Fatalf("got %+v, want [true, false]", v.Array)
	}
}

func TestForceMapKeysToString(t *testing.T) {
	d := newTestDecoder([]byte{0x81, 0x01, 0x02})
	d.ForceMapKeysToString = true
	v, err := d.DecodeValue()
	if err != nil {
		t.Fatalf("DecodeValue: %v", err)
	}
	if v.Kind != KindMap || len(v.Map) != 1 {
		t.Fatalf("got %+v, want single-entry map", v)
	}
	entry := v.Map[0]
	if entry.Key.Kind != KindString || entry.Key.Str != "1" {
		t.Fatalf("key = %+v, want string \"1\"", entry.Key)
	}
	if entry.Value.Uint64 != 2 {
		t.Fatalf("value = %+v, want uint64 2", entry.Value)
	}
}

func TestTruncatedStringErrorsReadingData(t *testing.T) {
	b := buffer.New()
	b.Write([]byte{0xa3, 'a', 'b'})
	b.Close(true)
	d := New(b)

	_, err := d.ReadString()
	if err == nil {
		t.Fatalf("expected ReadString to fail on truncated payload")
	}
	if !errors.Is(err, pinmsgpack.NewError(pinmsgpack.ErrReadingData, "")) {
		t.Fatalf("got error %v, want reading-data", err)
	}
	if !errors.Is(d.Err(), pinmsgpack.NewError(pinmsgpack.ErrReadingData, "")) {
		t.Fatalf("Err() not latched to reading-data: %v", d.Err())
	}
}

func TestFirstErrorLatchesAndShortCircuits(t *testing.T) {
	b := buffer.New()
	b.Write([]byte{0xc1}) // reserved marker
	b.Write([]byte{0x7f}) // would decode fine, but must never be reached
	b.Close(true)
	d := New(b)

	if _, err := d.DecodeValue(); err == nil {
		t.Fatalf("expected reserved marker to fail")
	}
	first := d.Err()
	if _, err := d.ReadInt32(); !errors.Is(err, first) {
		t.Fatalf("subsequent read returned %v, want the latched first error", err)
	}
}

func TestIdempotentPeek(t *testing.T) {
	d := newTestDecoder([]byte{0x7f})
	t1, err := d.PeekType()
	if err != nil {
		t.Fatalf("PeekType: %v", err)
	}
	t2, err := d.PeekType()
	if err != nil {
		t.Fatalf("PeekType: %v", err)
	}
	if t1 != t2 {
		t.Fatalf("repeated PeekType returned different tags: %v != %v", t1, t2)
	}
}

func TestFloatReaderPolicy(t *testing.T) {
	d := newTestDecoder([]byte{0xca, 0x3f, 0x80, 0x00, 0x00}) // float32 1.0
	if _, err := d.ReadFloat32(); err != nil {
		t.Fatalf("ReadFloat32 on float32 marker: %v", err)
	}

	d2 := newTestDecoder([]byte{0xca, 0x3f, 0x80, 0x00, 0x00})
	f, err := d2.ReadFloat64()
	if err != nil {
		t.Fatalf("ReadFloat64 widening float32: %v", err)
	}
	if f != 1.0 {
		t.Fatalf("ReadFloat64 = %v, want 1.0", f)
	}

	d3 := newTestDecoder([]byte{0x7f})
	if _, err := d3.ReadFloat32(); err == nil {
		t.Fatalf("expected ReadFloat32 on an integer marker to fail (no auto-promotion)")
	}
}

func TestReadInt32RejectsOverflow(t *testing.T) {
	d := newTestDecoder([]byte{0xce, 0xff, 0xff, 0xff, 0xff}) // uint32 max
	if _, err := d.ReadInt32(); err == nil {
		t.Fatalf("expected ReadInt32 to reject a uint32 value that overflows int32")
	}
}

func TestMapCountAndEnumerateKeys(t *testing.T) {
	// {"a": 1, "b": 2}
	raw := []byte{0x82, 0xa1, 'a', 0x01, 0xa1, 'b', 0x02}
	d := newTestDecoder(raw)
	got := map[string]int32{}
	err := d.EnumerateKeysInMap(func(key []byte) error {
		v, err := d.ReadInt32()
		if err != nil {
			return err
		}
		got[string(key)] = v
		return nil
	})
	if err != nil {
		t.Fatalf("EnumerateKeysInMap: %v", err)
	}
	if got["a"] != 1 || got["b"] != 2 {
		t.Fatalf("got %v, want a=1 b=2", got)
	}
}
