package msgpack

import "github.com/user/pinmsgpack"

// Kind tags a materialized Value. Unlike pinmsgpack.ValueType (which
// distinguishes unsigned_int from unsigned_int64 the way the wire
// format's descriptor does), Kind only distinguishes Go representation
// -- a materialized integer is always stored as Int64 or Uint64.
type Kind int

const (
	KindNil Kind = iota
	KindBool
	KindInt64
	KindUint64
	KindFloat32
	KindFloat64
	KindString
	KindBinary
	KindArray
	KindMap
	KindExtension
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindInt64:
		return "int64"
	case KindUint64:
		return "uint64"
	case KindFloat32:
		return "float32"
	case KindFloat64:
		return "float64"
	case KindString:
		return "string"
	case KindBinary:
		return "binary"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	case KindExtension:
		return "extension"
	default:
		return "unknown"
	}
}

// Value is the generic tagged-union representation spec.md §3
// describes for materialization: exactly one field group is
// meaningful, selected by Kind. Arrays and maps are immutable after
// construction and own their children exclusively.
type Value struct {
	Kind Kind

	Bool    bool
	Int64   int64
	Uint64  uint64
	Float32 float32
	Float64 float64
	Str     string
	Bin     []byte
	Array   []Value
	Map     []MapEntry

	ExtType int8
	ExtData []byte
}

// MapEntry is one key/value pair of a materialized map. Maps are
// represented as an ordered slice rather than a native Go map because
// Value is not comparable (its Array/Map fields make it unusable as a
// Go map key), and because MessagePack map keys are not restricted to
// strings the way Go map keys of a fixed type would require.
type MapEntry struct {
	Key   Value
	Value Value
}

// Nil is the singleton nil Value, returned for both top-level and
// nested nils (spec.md §9's null-representation open question,
// resolved to one representation everywhere).
var Nil = Value{Kind: KindNil}

// ToNative converts a Value into plain Go data: nil, bool, int64,
// uint64, float32, float64, string, []byte, []interface{}, or
// map[string]interface{}. It requires every map key in the tree to be
// a string (typically via ForceMapKeysToString); a non-string key
// fails with pinmsgpack.ErrInvalidType. Extension values convert to
// their raw body bytes, discarding the type tag.
func (v Value) ToNative() (interface{}, error) {
	switch v.Kind {
	case KindNil:
		return nil, nil
	case KindBool:
		return v.Bool, nil
	case KindInt64:
		return v.Int64, nil
	case KindUint64:
		return v.Uint64, nil
	case KindFloat32:
		return v.Float32, nil
	case KindFloat64:
		return v.Float64, nil
	case KindString:
		return v.Str, nil
	case KindBinary:
		return v.Bin, nil
	case KindExtension:
		return v.ExtData, nil
	case KindArray:
		out := make([]interface{}, len(v.Array))
		for i, e := range v.Array {
			n, err := e.ToNative()
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	case KindMap:
		out := make(map[string]interface{}, len(v.Map))
		for _, entry := range v.Map {
			if entry.Key.Kind != KindString {
				return nil, pinmsgpack.NewError(pinmsgpack.ErrInvalidType, "ToNative requires string map keys")
			}
			n, err := entry.Value.ToNative()
			if err != nil {
				return nil, err
			}
			out[entry.Key.Str] = n
		}
		return out, nil
	default:
		return nil, pinmsgpack.NewError(pinmsgpack.ErrInternal, "ToNative on unclassified Value")
	}
}
