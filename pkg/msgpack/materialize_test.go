package msgpack

import (
	"testing"

	"github.com/user/pinmsgpack/pkg/buffer"
)

func TestDecodeSetValueDeduplicates(t *testing.T) {
	// array [1, 2, 1, 3]
	raw := []byte{0x94, 0x01, 0x02, 0x01, 0x03}
	d := newTestDecoder(raw)
	set, err := d.DecodeSetValue()
	if err != nil {
		t.Fatalf("DecodeSetValue: %v", err)
	}
	if len(set) != 3 {
		t.Fatalf("got %d elements, want 3 after dedup", len(set))
	}
	want := []uint64{1, 2, 3}
	for i, v := range set {
		if v.Uint64 != want[i] {
			t.Errorf("set[%d] = %d, want %d (first-occurrence order)", i, v.Uint64, want[i])
		}
	}
}

func TestDecodeSetValueRejectsNonScalar(t *testing.T) {
	// array containing one nested array
	raw := []byte{0x91, 0x90}
	d := newTestDecoder(raw)
	if _, err := d.DecodeSetValue(); err == nil {
		t.Fatalf("expected DecodeSetValue to reject a non-scalar element")
	}
}

func TestDecodeMapValueKeepsNaturalKeyTypes(t *testing.T) {
	raw := []byte{0x81, 0x01, 0x02}
	d := newTestDecoder(raw)
	entries, err := d.DecodeMapValue()
	if err != nil {
		t.Fatalf("DecodeMapValue: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].Key.Kind != KindUint64 || entries[0].Key.Uint64 != 1 {
		t.Fatalf("key = %+v, want natural uint64 key", entries[0].Key)
	}
}

func TestRetentionTransferReleasesPartialArrayOnFailure(t *testing.T) {
	// array of 2 declared, but only one well-formed element followed by
	// a truncated string.
	b := buffer.New()
	b.Write([]byte{0x92, 0x01, 0xa5, 'h', 'i'})
	b.Close(true)
	d := New(b)

	if _, err := d.DecodeArrayValue(); err == nil {
		t.Fatalf("expected DecodeArrayValue to fail on a truncated second element")
	}
}
