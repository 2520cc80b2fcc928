package msgpack

import (
	"errors"
	"testing"

	"github.com/user/pinmsgpack"
	"github.com/user/pinmsgpack/pkg/buffer"
)

func TestSkipFidelity(t *testing.T) {
	// skip a nested map value, then decode the next sibling value.
	raw := []byte{
		0x81, 0xa1, 'k', 0x92, 0x01, 0x02, // {"k": [1, 2]}
		0x7f, // sibling top-level value: 127
	}
	d := newTestDecoder(raw)
	if err := d.Skip(); err != nil {
		t.Fatalf("Skip: %v", err)
	}
	v, err := d.DecodeValue()
	if err != nil {
		t.Fatalf("DecodeValue after Skip: %v", err)
	}
	if v.Uint64 != 127 {
		t.Fatalf("got %+v, want uint64 127", v)
	}
}

func TestSkipDepthLimitExceeded(t *testing.T) {
	// a deeply nested singleton-array chain, each element one fixarray
	// marker deep, exceeding a tiny configured depth limit.
	depth := 5
	raw := make([]byte, depth)
	for i := 0; i < depth-1; i++ {
		raw[i] = 0x91 // fixarray, 1 element
	}
	raw[depth-1] = 0x7f

	b := buffer.New()
	b.Write(raw)
	b.Close(true)
	d := New(b, WithSkipDepthLimit(2))

	err := d.Skip()
	if !errors.Is(err, pinmsgpack.NewError(pinmsgpack.ErrSkipDepthLimitExceeded, "")) {
		t.Fatalf("got error %v, want skip-depth-limit-exceeded", err)
	}
}

func TestSkipExtension(t *testing.T) {
	// fixext1 with type 5 and one body byte
	raw := []byte{0xd4, 0x05, 0xaa, 0x7f}
	d := newTestDecoder(raw)
	if err := d.Skip(); err != nil {
		t.Fatalf("Skip extension: %v", err)
	}
	v, err := d.DecodeValue()
	if err != nil {
		t.Fatalf("DecodeValue after skipping extension: %v", err)
	}
	if v.Uint64 != 127 {
		t.Fatalf("got %+v, want uint64 127", v)
	}
}
