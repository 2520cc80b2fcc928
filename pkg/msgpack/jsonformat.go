package msgpack

import (
	"encoding/base64"
	"strconv"

	"github.com/tidwall/sjson"
)

// ToJSON renders a materialized Value as JSON text, the way the
// teacher's pkg/formatter/json formats a hermod.Message: incrementally,
// via github.com/tidwall/sjson.SetRaw, rather than building an
// intermediate map[string]interface{} and handing it to
// encoding/json.Marshal. Binary values are base64-encoded (JSON has no
// byte-string type); extension values render as an object carrying
// their type tag and base64 body, since they have no native JSON
// counterpart either.
func (v Value) ToJSON() ([]byte, error) {
	raw, err := v.toJSONRaw()
	if err != nil {
		return nil, err
	}
	return []byte(raw), nil
}

func (v Value) toJSONRaw() (string, error) {
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
	case KindString:
		return quoteJSONString(v.Str), nil
	case KindBinary:
		return quoteJSONString(base64.StdEncoding.EncodeToString(v.Bin)), nil
	case KindArray:
		return v.arrayToJSONRaw()
	case KindMap:
		return v.mapToJSONRaw()
	case KindExtension:
		doc := "{}"
		var err error
		doc, err = sjson.Set(doc, "ext_type", v.ExtType)
		if err != nil {
			return "", err
		}
		doc, err = sjson.Set(doc, "data", base64.StdEncoding.EncodeToString(v.ExtData))
		if err != nil {
			return "", err
		}
		return doc, nil
	default:
		return "null", nil
	}
}

func (v Value) arrayToJSONRaw() (string, error) {
	doc := "[]"
	for i, elem := range v.Array {
		raw, err := elem.toJSONRaw()
		if err != nil {
			return "", err
		}
		doc, err = sjson.SetRaw(doc, strconv.Itoa(i), raw)
		if err != nil {
			return "", err
		}
	}
	return doc, nil
}

func (v Value) mapToJSONRaw() (string, error) {
	doc := "{}"
	for _, entry := range v.Map {
		key := entry.Key.Str
		if entry.Key.Kind != KindString {
			rendered, err := renderKeyAsString(entry.Key)
			if err != nil {
				return "", err
			}
			key = rendered
		}
		raw, err := entry.Value.toJSONRaw()
		if err != nil {
			return "", err
		}
		// sjson interprets "." in a path as a separator and "*"/"?" as
		// wildcards, so an arbitrary map key can't be set with SetRaw's
		// dotted-path form; escape it into a literal path segment instead.
		doc, err = sjson.SetRawOptions(doc, jsonPathLiteral(key), raw, &sjson.Options{Optimistic: true})
		if err != nil {
			return "", err
		}
	}
	return doc, nil
}

// jsonPathLiteral turns an arbitrary string into an sjson path that
// addresses exactly one literal object key, escaping path metacharacters
// per sjson's own convention (a backslash-escaped literal segment).
func jsonPathLiteral(key string) string {
	escaped := make([]byte, 0, len(key)+2)
	for i := 0; i < len(key); i++ {
		c := key[i]
		if c == '.' || c == '*' || c == '?' || c == '\\' {
			escaped = append(escaped, '\\')
		}
		escaped = append(escaped, c)
	}
	return string(escaped)
}

func quoteJSONString(s string) string {
	b, _ := sjson.SetBytes(nil, "_", s)
	// SetBytes("", "_", s) produces {"_":"<quoted s>"}; extract the
	// quoted value rather than re-implementing JSON string escaping.
	start := len(`{"_":`)
	return string(b[start : len(b)-1])
}
