package msgpack

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/user/pinmsgpack"
)

// DecodeValue materializes the pending value into a generic Value
// tree (spec.md §4.3), recursing into arrays and maps. A top-level nil
// decodes to the same Nil Value as a nested one -- see the Nil
// doc comment for why this module picks a single representation.
func (d *Decoder) DecodeValue() (Value, error) {
	typ, err := d.PeekType()
	if err != nil {
		return Value{}, err
	}
	ValuesDecoded.WithLabelValues(typ.String()).Inc()

	switch typ {
	case pinmsgpack.Nil:
		if err := d.ReadNil(); err != nil {
			return Value{}, err
		}
		return Nil, nil
	case pinmsgpack.Bool:
		b, err := d.ReadBool()
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindBool, Bool: b}, nil
	case pinmsgpack.UnsignedInt, pinmsgpack.UnsignedInt64:
		u, err := d.ReadUint64()
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindUint64, Uint64: u}, nil
	case pinmsgpack.SignedInt, pinmsgpack.SignedInt64:
		i, err := d.ReadInt64()
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindInt64, Int64: i}, nil
	case pinmsgpack.Float32:
		f, err := d.ReadFloat32()
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindFloat32, Float32: f}, nil
	case pinmsgpack.Float64:
		f, err := d.ReadFloat64()
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindFloat64, Float64: f}, nil
	case pinmsgpack.String:
		s, err := d.ReadString()
		if err != nil {
			return Value{}, err
		}
		if !utf8.ValidString(s) {
			return Value{}, d.fail(pinmsgpack.ErrInvalidType, "string payload is not valid UTF-8", nil)
		}
		return Value{Kind: KindString, Str: s}, nil
	case pinmsgpack.Binary:
		b, err := d.ReadBinary()
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindBinary, Bin: b}, nil
	case pinmsgpack.Extension:
		extType := d.pending.extType
		data, err := d.readExtensionBody()
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindExtension, ExtType: extType, ExtData: data}, nil
	case pinmsgpack.Array:
		return d.decodeArrayValueAsValue()
	case pinmsgpack.Map:
		entries, err := d.DecodeMapValue()
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindMap, Map: entries}, nil
	default:
		return Value{}, d.fail(pinmsgpack.ErrInternal, "DecodeValue encountered an unclassified descriptor", nil)
	}
}

// readExtensionBody consumes the pending extension value's raw body.
// There is no semantic interpretation of any particular extension type
// (spec.md §1 scopes that out): callers that care decode ExtType and
// ExtData themselves.
func (d *Decoder) readExtensionBody() ([]byte, error) {
	n := d.pending.length
	b, err := d.readFull(n, pinmsgpack.ErrReadingExtType)
	if err != nil {
		return nil, err
	}
	d.clearPending()
	return b, nil
}

func (d *Decoder) decodeArrayValueAsValue() (Value, error) {
	elems, err := d.DecodeArrayValue()
	if err != nil {
		return Value{}, err
	}
	return Value{Kind: KindArray, Array: elems}, nil
}

// DecodeArrayValue materializes the pending array, decoding every
// element generically. If a failure occurs partway through, the
// already-built elements are simply dropped along with the partial
// slice -- Go's garbage collector retires the retention-transfer
// bookkeeping spec.md §4.3 asks implementers to do by hand.
func (d *Decoder) DecodeArrayValue() ([]Value, error) {
	n, err := d.ReadArrayCount()
	if err != nil {
		return nil, err
	}
	out := make([]Value, 0, n)
	for i := 0; i < n; i++ {
		v, err := d.DecodeValue()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// DecodeSetValue materializes the pending array as a deduplicated set,
// preserving first-occurrence order. Go has no built-in set type
// (spec.md's Open Question resolutions); elements must be scalars
// (nil, bool, integer, float, or string) since only those have an
// obvious canonical de-duplication key -- an array or map element
// fails with ErrInvalidType.
func (d *Decoder) DecodeSetValue() ([]Value, error) {
	n, err := d.ReadArrayCount()
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, n)
	out := make([]Value, 0, n)
	for i := 0; i < n; i++ {
		v, err := d.DecodeValue()
		if err != nil {
			return nil, err
		}
		key, ok := canonicalScalarKey(v)
		if !ok {
			return nil, d.fail(pinmsgpack.ErrInvalidType, "set element is not a scalar value", nil)
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	return out, nil
}

// DecodeMapValue materializes the pending map as an ordered slice of
// entries (Value is not a valid Go map key, and MessagePack map keys
// are not restricted to strings). When ForceMapKeysToString is set,
// non-string keys are rendered to their decimal/string form, emulating
// JSON's string-keyed objects (spec.md §4.3).
func (d *Decoder) DecodeMapValue() ([]MapEntry, error) {
	n, err := d.ReadMapCount()
	if err != nil {
		return nil, err
	}
	out := make([]MapEntry, 0, n)
	for i := 0; i < n; i++ {
		key, err := d.DecodeValue()
		if err != nil {
			return nil, err
		}
		if d.ForceMapKeysToString && key.Kind != KindString {
			rendered, err := renderKeyAsString(key)
			if err != nil {
				return nil, d.fail(pinmsgpack.ErrInvalidType, "map key cannot be rendered as a string", err)
			}
			key = Value{Kind: KindString, Str: rendered}
		}
		val, err := d.DecodeValue()
		if err != nil {
			return nil, err
		}
		out = append(out, MapEntry{Key: key, Value: val})
	}
	return out, nil
}

// canonicalScalarKey returns a string uniquely identifying a scalar
// Value for set de-duplication, and false for anything else.
func canonicalScalarKey(v Value) (string, bool) {
	switch v.Kind {
	case KindNil:
		return "n", true
	case KindBool:
		return "b" + strconv.FormatBool(v.Bool), true
	case KindInt64:
		return "i" + strconv.FormatInt(v.Int64, 10), true
	case KindUint64:
		return "u" + strconv.FormatUint(v.Uint64, 10), true
	case KindFloat32:
		return "f" + strconv.FormatFloat(float64(v.Float32), 'g', -1, 32), true
	case KindFloat64:
		return "d" + strconv.FormatFloat(v.Float64, 'g', -1, 64), true
	case KindString:
		return "s" + v.Str, true
	default:
		return "", false
	}
}

// renderKeyAsString converts a non-string scalar key to its
// decimal/string rendering for force_map_keys_to_string.
func renderKeyAsString(v Value) (string, error) {
	switch v.Kind {
	case KindNil:
		return "null", nil
	case KindBool:
		return strconv.FormatBool(v.Bool), nil
	case KindInt64:
		return strconv.FormatInt(v.Int64, 10), nil
	case KindUint64:
		return strconv.FormatUint(v.Uint64, 10), nil
	case KindFloat32:
		return strconv.FormatFloat(float64(v.Float32), 'g', -1, 32), nil
	case KindFloat64:
		return strconv.FormatFloat(v.Float64, 'g', -1, 64), nil
	default:
		return "", fmt.Errorf("%s key has no string rendering", v.Kind)
	}
}
