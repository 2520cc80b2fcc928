package msgpack

import "github.com/user/pinmsgpack"

// Decoding is the capability interface a record type implements to
// pull-decode itself directly from a Decoder, in place of the generic
// DecodeValue materialization (spec.md §4.4 and §9's "duck-typed pull
// protocol" design note: a type opts in by providing a constructor
// taking a decoder and returning an optional instance; Go expresses
// that as an interface rather than runtime class introspection).
//
// DecodeMsgpack is invoked with the cursor positioned on a map value.
// It should consume that map (typically via EnumerateKeysInMap or
// DecodeCString plus matching typed readers) and return (true, nil) on
// success, or (false, nil) if the record declines to materialize from
// this value -- the Decoder then propagates absence to the caller
// rather than treating it as an error.
type Decoding interface {
	DecodeMsgpack(dec *Decoder) (bool, error)
}

// Decode invokes target's pull-decoding constructor in place of
// generic materialization (spec.md §4.3's "If target implements the
// pull-decoding capability, the Decoder invokes it in place of the
// generic materialization").
func (d *Decoder) Decode(target Decoding) (bool, error) {
	if d.err != nil {
		return false, d.err
	}
	return target.DecodeMsgpack(d)
}

// DecodeArray decodes the pending array by pull-decoding each element
// with a freshly constructed target from newElem. An element whose
// constructor returns absence becomes a nil entry at that index,
// matching spec.md §4.4's propagation rule, rather than failing the
// whole array.
func (d *Decoder) DecodeArray(newElem func() Decoding) ([]Decoding, error) {
	n, err := d.ReadArrayCount()
	if err != nil {
		return nil, err
	}
	out := make([]Decoding, n)
	for i := 0; i < n; i++ {
		elem := newElem()
		ok, err := d.Decode(elem)
		if err != nil {
			return nil, err
		}
		if ok {
			out[i] = elem
		}
	}
	return out, nil
}

// EnumerateKeysInMap consumes the pending map, invoking fn once per
// key with the key's raw bytes. fn is responsible for consuming
// exactly one value -- via a typed reader, Decode, or Skip -- before
// returning; the key slice is only valid for the duration of the call
// (spec.md §5's borrowed-pointer lifetime rule; callers in Go may
// simply copy if they need it longer, since there is no underlying
// scratch buffer to race with).
func (d *Decoder) EnumerateKeysInMap(fn func(key []byte) error) error {
	n, err := d.ReadMapCount()
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		typ, err := d.PeekType()
		if err != nil {
			return err
		}
		var key []byte
		switch typ {
		case pinmsgpack.String:
			key, err = d.DecodeCString()
		case pinmsgpack.Binary:
			key, err = d.ReadBinary()
		default:
			return d.fail(pinmsgpack.ErrInvalidType, "map key is not a string or binary value", nil)
		}
		if err != nil {
			return err
		}
		if err := fn(key); err != nil {
			return err
		}
	}
	return nil
}

// DecodeCString consumes the pending string value and returns its raw
// bytes, without the UTF-8 validation DecodeValue applies -- the pull
// protocol's "decode_c_string_with_returned_length", used by records
// that want the payload bytes directly rather than a validated Go
// string.
func (d *Decoder) DecodeCString() ([]byte, error) {
	if err := d.ensurePending(); err != nil {
		return nil, err
	}
	if d.pending.typ != pinmsgpack.String {
		return nil, d.fail(pinmsgpack.ErrInvalidType, "DecodeCString on non-string value", nil)
	}
	n := d.pending.length
	b, err := d.readFull(n, pinmsgpack.ErrReadingData)
	if err != nil {
		return nil, err
	}
	d.clearPending()
	return b, nil
}
