package jsonrpc

// ID is a JSON-RPC request/response identifier: a string, a number, or
// null. The zero ID is null; use HasID on Request to distinguish a call
// from a notification rather than comparing IDs directly.
type ID struct {
	value Value
}

// NullID is the null identifier, used for responses to requests whose id
// could not be recovered (e.g. a parse error).
func NullID() ID { return ID{value: Null()} }

// StringID builds a string-valued id.
func StringID(s string) ID { return ID{value: StringValue(s)} }

// IntID builds a signed-integer-valued id.
func IntID(i int64) ID { return ID{value: Int64Value(i)} }

// idFromValue validates that v is a conforming id shape (string, number, or
// null) and wraps it.
func idFromValue(v Value) (ID, bool) {
	if v.IsNull() || v.IsString() || v.IsInt64() || v.IsUint64() || v.IsDouble() {
		return ID{value: v}, true
	}
	return ID{}, false
}

// Value returns the id's underlying JSON value.
func (id ID) Value() Value { return id.value }

// IsNull reports whether this is the null id.
func (id ID) IsNull() bool { return id.value.IsNull() }

// Equal compares two ids for equality on their underlying JSON
// representation.
func (id ID) Equal(other ID) bool {
	av, aok := id.value.MarshalJSON()
	bv, bok := other.value.MarshalJSON()
	if aok != nil || bok != nil {
		return false
	}
	return string(av) == string(bv)
}

// String renders the id for logging purposes.
func (id ID) String() string {
	switch {
	case id.value.IsNull():
		return "null"
	case id.value.IsString():
		s, _ := id.value.String()
		return s
	case id.value.IsInt64():
		i, _ := id.value.Int64()
		return int64ToString(i)
	case id.value.IsUint64():
		u, _ := id.value.Uint64()
		return uint64ToString(u)
	case id.value.IsDouble():
		f, _ := id.value.Float64()
		return float64ToString(f)
	default:
		return ""
	}
}

func int64ToString(i int64) string {
	b, _ := Int64Value(i).MarshalJSON()
	return string(b)
}

func uint64ToString(u uint64) string {
	b, _ := Uint64Value(u).MarshalJSON()
	return string(b)
}

func float64ToString(f float64) string {
	b, _ := DoubleValue(f).MarshalJSON()
	return string(b)
}
