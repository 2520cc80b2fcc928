package msgpack

import (
	"errors"
	"testing"

	"github.com/user/pinmsgpack"
	"github.com/user/pinmsgpack/pkg/buffer"
)

// point is a pull-decodable record, the idiomatic Go rendering of
// spec.md §4.4's "init_with_streaming_decoder" constructor contract.
type point struct {
	X, Y int32
}

func (p *point) DecodeMsgpack(dec *Decoder) (bool, error) {
	return true, dec.EnumerateKeysInMap(func(key []byte) error {
		switch string(key) {
		case "x":
			v, err := dec.ReadInt32()
			if err != nil {
				return err
			}
			p.X = v
		case "y":
			v, err := dec.ReadInt32()
			if err != nil {
				return err
			}
			p.Y = v
		default:
			return dec.Skip()
		}
		return nil
	})
}

// decliningPoint always reports absence, exercising §4.4's "record's
// constructor returns absence" propagation path.
type decliningPoint struct{}

func (decliningPoint) DecodeMsgpack(dec *Decoder) (bool, error) {
	return false, dec.Skip()
}

func TestDecodePullRecord(t *testing.T) {
	// {"x": 3, "y": -4, "z": "ignored"}
	raw := []byte{
		0x83,
		0xa1, 'x', 0x03,
		0xa1, 'y', 0xfc, // -4 fixint
		0xa1, 'z', 0xa7, 'i', 'g', 'n', 'o', 'r', 'e', 'd',
	}
	d := newTestDecoder(raw)
	var p point
	ok, err := d.Decode(&p)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !ok {
		t.Fatalf("Decode returned ok=false")
	}
	if p.X != 3 || p.Y != -4 {
		t.Fatalf("got %+v, want {3 -4}", p)
	}
}

func TestDecodeArrayWithDecliningElement(t *testing.T) {
	// array of two empty maps
	raw := []byte{0x92, 0x80, 0x80}
	d := newTestDecoder(raw)
	elems, err := d.DecodeArray(func() Decoding { return decliningPoint{} })
	if err != nil {
		t.Fatalf("DecodeArray: %v", err)
	}
	if len(elems) != 2 {
		t.Fatalf("got %d elements, want 2", len(elems))
	}
	if elems[0] != nil || elems[1] != nil {
		t.Fatalf("got %+v, want both nil (declined)", elems)
	}
}

func TestDecodeCString(t *testing.T) {
	d := newTestDecoder([]byte{0xa5, 'h', 'e', 'l', 'l', 'o'})
	b, err := d.DecodeCString()
	if err != nil {
		t.Fatalf("DecodeCString: %v", err)
	}
	if string(b) != "hello" {
		t.Fatalf("got %q, want %q", b, "hello")
	}
}

func TestEnumerateKeysInMapRejectsNonStringKey(t *testing.T) {
	// map with an integer key
	b := buffer.New()
	b.Write([]byte{0x81, 0x01, 0x02})
	b.Close(true)
	d := New(b)

	err := d.EnumerateKeysInMap(func(key []byte) error { return nil })
	if !errors.Is(err, pinmsgpack.NewError(pinmsgpack.ErrInvalidType, "")) {
		t.Fatalf("got error %v, want invalid-type", err)
	}
}
