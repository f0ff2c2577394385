package jsonrpc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// valueKind tags the variant currently held by a Value.
type valueKind int

const (
	kindNull valueKind = iota
	kindBool
	kindInt64
	kindUint64
	kindDouble
	kindString
	kindArray
	kindObject
)

// Value is the JSON value sum type used throughout the protocol and
// converter layers: null, bool, signed/unsigned 64-bit integer, double,
// string, ordered array, and ordered object. A zero Value is null.
type Value struct {
	kind valueKind
	b    bool
	i    int64
	u    uint64
	f    float64
	s    string
	arr  []Value
	obj  *Object
}

// Null returns the JSON null value.
func Null() Value { return Value{kind: kindNull} }

// BoolValue wraps a bool.
func BoolValue(b bool) Value { return Value{kind: kindBool, b: b} }

// Int64Value wraps a signed 64-bit integer.
func Int64Value(i int64) Value { return Value{kind: kindInt64, i: i} }

// Uint64Value wraps an unsigned 64-bit integer.
func Uint64Value(u uint64) Value { return Value{kind: kindUint64, u: u} }

// DoubleValue wraps a float64.
func DoubleValue(f float64) Value { return Value{kind: kindDouble, f: f} }

// StringValue wraps a string.
func StringValue(s string) Value { return Value{kind: kindString, s: s} }

// ArrayValue wraps an ordered slice of Values.
func ArrayValue(items []Value) Value { return Value{kind: kindArray, arr: items} }

// ObjectValue wraps an ordered Object.
func ObjectValue(obj *Object) Value {
	if obj == nil {
		obj = NewObject()
	}
	return Value{kind: kindObject, obj: obj}
}

func (v Value) IsNull() bool   { return v.kind == kindNull }
func (v Value) IsBool() bool   { return v.kind == kindBool }
func (v Value) IsInt64() bool  { return v.kind == kindInt64 }
func (v Value) IsUint64() bool { return v.kind == kindUint64 }
func (v Value) IsDouble() bool { return v.kind == kindDouble }
func (v Value) IsNumber() bool { return v.kind == kindInt64 || v.kind == kindUint64 || v.kind == kindDouble }
func (v Value) IsString() bool { return v.kind == kindString }
func (v Value) IsArray() bool  { return v.kind == kindArray }
func (v Value) IsObject() bool { return v.kind == kindObject }

func (v Value) Bool() (bool, bool) {
	if v.kind != kindBool {
		return false, false
	}
	return v.b, true
}

func (v Value) Int64() (int64, bool) {
	if v.kind != kindInt64 {
		return 0, false
	}
	return v.i, true
}

func (v Value) Uint64() (uint64, bool) {
	if v.kind != kindUint64 {
		return 0, false
	}
	return v.u, true
}

// Float64 widens any numeric variant to a float64.
func (v Value) Float64() (float64, bool) {
	switch v.kind {
	case kindDouble:
		return v.f, true
	case kindInt64:
		return float64(v.i), true
	case kindUint64:
		return float64(v.u), true
	default:
		return 0, false
	}
}

func (v Value) String() (string, bool) {
	if v.kind != kindString {
		return "", false
	}
	return v.s, true
}

func (v Value) Array() ([]Value, bool) {
	if v.kind != kindArray {
		return nil, false
	}
	return v.arr, true
}

func (v Value) Object() (*Object, bool) {
	if v.kind != kindObject {
		return nil, false
	}
	return v.obj, true
}

// Object is an ordered mapping from string to Value with unique keys,
// matching the spec's "ordered mapping, keys unique" JSON object variant.
type Object struct {
	keys []string
	vals map[string]Value
}

// NewObject creates an empty ordered object.
func NewObject() *Object {
	return &Object{vals: make(map[string]Value)}
}

// Set inserts or overwrites key, preserving the original insertion position
// on overwrite.
func (o *Object) Set(key string, val Value) {
	if _, exists := o.vals[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.vals[key] = val
}

// Get looks up key.
func (o *Object) Get(key string) (Value, bool) {
	v, ok := o.vals[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	return o.keys
}

// Len returns the number of entries.
func (o *Object) Len() int {
	return len(o.keys)
}

// MarshalJSON renders the Value in its JSON wire form.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case kindNull:
		return []byte("null"), nil
	case kindBool:
		return json.Marshal(v.b)
	case kindInt64:
		return []byte(strconv.FormatInt(v.i, 10)), nil
	case kindUint64:
		return []byte(strconv.FormatUint(v.u, 10)), nil
	case kindDouble:
		return json.Marshal(v.f)
	case kindString:
		return json.Marshal(v.s)
	case kindArray:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, elem := range v.arr {
			if i > 0 {
				buf.WriteByte(',')
			}
			b, err := elem.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(b)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	case kindObject:
		var buf bytes.Buffer
		buf.WriteByte('{')
		for i, key := range v.obj.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, err := json.Marshal(key)
			if err != nil {
				return nil, err
			}
			buf.Write(kb)
			buf.WriteByte(':')
			vb, err := v.obj.vals[key].MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(vb)
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("jsonrpc: unknown value kind %d", v.kind)
	}
}

// UnmarshalJSON parses any JSON text into the appropriate Value variant,
// preferring a signed 64-bit integer over unsigned whenever both fit, and
// preserving object key order.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	parsed, err := decodeValue(dec)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	return valueFromToken(dec, tok)
}

func valueFromToken(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case nil:
		return Null(), nil
	case bool:
		return BoolValue(t), nil
	case string:
		return StringValue(t), nil
	case json.Number:
		return numberValue(t), nil
	case json.Delim:
		switch t {
		case '[':
			items := make([]Value, 0)
			for dec.More() {
				elem, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				items = append(items, elem)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return Value{}, err
			}
			return ArrayValue(items), nil
		case '{':
			obj := NewObject()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Value{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return Value{}, fmt.Errorf("jsonrpc: object key is not a string")
				}
				val, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				obj.Set(key, val)
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return Value{}, err
			}
			return ObjectValue(obj), nil
		default:
			return Value{}, fmt.Errorf("jsonrpc: unexpected delimiter %q", t)
		}
	default:
		return Value{}, fmt.Errorf("jsonrpc: unexpected token %T", tok)
	}
}

// numberValue classifies a JSON number literal as int64, falling back to
// uint64 when it overflows int64 but is non-negative, and to float64 for
// fractional or exponential literals (or integers too large for either).
func numberValue(n json.Number) Value {
	s := string(n)
	if !strings.ContainsAny(s, ".eE") {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return Int64Value(i)
		}
		if !strings.HasPrefix(s, "-") {
			if u, err := strconv.ParseUint(s, 10, 64); err == nil {
				return Uint64Value(u)
			}
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return DoubleValue(0)
	}
	return DoubleValue(f)
}

// ParseValue parses a single JSON text into a Value.
func ParseValue(data []byte) (Value, error) {
	var v Value
	if err := v.UnmarshalJSON(data); err != nil {
		return Value{}, err
	}
	return v, nil
}
