package jsonrpc

import (
	"fmt"
	"reflect"
	"sort"
)

// ToJSONFunc converts a reflect.Value of some registered type to a Value.
type ToJSONFunc func(reflect.Value) (Value, error)

// FromJSONFunc converts a Value to a reflect.Value of some registered
// type.
type FromJSONFunc func(Value) (reflect.Value, error)

type converterPair struct {
	toJSON   ToJSONFunc
	fromJSON FromJSONFunc
}

// ConverterRegistry bridges the JSON ⇄ native type boundary. Built-in
// converters cover signed/unsigned integers, float/double, bool, string,
// slices and string-keyed maps, composed recursively to arbitrary nesting
// depth; RegisterConverter adds domain-specific types without touching the
// registry internals.
//
// Dispatch happens at conversion time against a reflect.Type key,
// falling back to a reflect.Kind switch for container and numeric types
// that would otherwise need one entry per concrete instantiation.
type ConverterRegistry struct {
	byType map[reflect.Type]converterPair
}

// NewConverterRegistry creates a registry with the built-in conversions
// already installed.
func NewConverterRegistry() *ConverterRegistry {
	return &ConverterRegistry{byType: make(map[reflect.Type]converterPair)}
}

// RegisterConverter installs a conversion pair for exactly the type of
// sample. It takes precedence over the Kind-based fallback for that type.
func (r *ConverterRegistry) RegisterConverter(sample interface{}, toJSON ToJSONFunc, fromJSON FromJSONFunc) {
	r.byType[reflect.TypeOf(sample)] = converterPair{toJSON: toJSON, fromJSON: fromJSON}
}

// ToJSON converts a native value to its Value representation.
func (r *ConverterRegistry) ToJSON(v reflect.Value) (Value, error) {
	if !v.IsValid() {
		return Null(), nil
	}
	t := v.Type()
	if c, ok := r.byType[t]; ok {
		return c.toJSON(v)
	}

	switch t.Kind() {
	case reflect.Bool:
		return BoolValue(v.Bool()), nil
	case reflect.String:
		return StringValue(v.String()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int64Value(v.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Uint64Value(v.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return DoubleValue(v.Float()), nil
	case reflect.Slice, reflect.Array:
		n := v.Len()
		items := make([]Value, n)
		for i := 0; i < n; i++ {
			elem, err := r.ToJSON(v.Index(i))
			if err != nil {
				return Value{}, fmt.Errorf("element %d: %w", i, err)
			}
			items[i] = elem
		}
		return ArrayValue(items), nil
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return Value{}, fmt.Errorf("map key type %s is not string", t.Key())
		}
		obj := NewObject()
		keys := v.MapKeys()
		sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
		for _, k := range keys {
			elem, err := r.ToJSON(v.MapIndex(k))
			if err != nil {
				return Value{}, fmt.Errorf("key %q: %w", k.String(), err)
			}
			obj.Set(k.String(), elem)
		}
		return ObjectValue(obj), nil
	case reflect.Ptr:
		if v.IsNil() {
			return Null(), nil
		}
		return r.ToJSON(v.Elem())
	default:
		return Value{}, fmt.Errorf("unsupported return type %s", t)
	}
}

// FromJSON converts a Value to the requested native type. Failures are
// always *Error with code InvalidParams.
func (r *ConverterRegistry) FromJSON(t reflect.Type, v Value) (reflect.Value, *Error) {
	if c, ok := r.byType[t]; ok {
		rv, err := c.fromJSON(v)
		if err != nil {
			return reflect.Value{}, NewError(InvalidParams, err.Error())
		}
		return rv, nil
	}

	switch t.Kind() {
	case reflect.Bool:
		b, ok := v.Bool()
		if !ok {
			return reflect.Value{}, NewError(InvalidParams, "expected bool")
		}
		return reflect.ValueOf(b).Convert(t), nil

	case reflect.String:
		s, ok := v.String()
		if !ok {
			return reflect.Value{}, NewError(InvalidParams, "expected string")
		}
		return reflect.ValueOf(s).Convert(t), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, ok := v.Int64()
		if !ok {
			return reflect.Value{}, NewError(InvalidParams, fmt.Sprintf("expected %s", t.Kind()))
		}
		rv := reflect.New(t).Elem()
		rv.SetInt(i)
		return rv, nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u, ok := v.Uint64()
		// The parser yields int64 for every integer up to MaxInt64.
		if i, isInt := v.Int64(); isInt && i >= 0 {
			u, ok = uint64(i), true
		}
		if !ok {
			return reflect.Value{}, NewError(InvalidParams, fmt.Sprintf("expected %s", t.Kind()))
		}
		rv := reflect.New(t).Elem()
		rv.SetUint(u)
		return rv, nil

	case reflect.Float32, reflect.Float64:
		f, ok := v.Float64()
		if !ok {
			return reflect.Value{}, NewError(InvalidParams, "expected number")
		}
		rv := reflect.New(t).Elem()
		rv.SetFloat(f)
		return rv, nil

	case reflect.Slice:
		arr, ok := v.Array()
		if !ok {
			return reflect.Value{}, NewError(InvalidParams, "expected array")
		}
		result := reflect.MakeSlice(t, len(arr), len(arr))
		for i, elem := range arr {
			ev, err := r.FromJSON(t.Elem(), elem)
			if err != nil {
				return reflect.Value{}, NewError(InvalidParams, fmt.Sprintf("element %d: %s", i, err.Message))
			}
			result.Index(i).Set(ev)
		}
		return result, nil

	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return reflect.Value{}, NewError(InvalidParams, "map parameter must have a string key type")
		}
		obj, ok := v.Object()
		if !ok {
			return reflect.Value{}, NewError(InvalidParams, "expected object")
		}
		result := reflect.MakeMapWithSize(t, obj.Len())
		for _, key := range obj.Keys() {
			val, _ := obj.Get(key)
			ev, err := r.FromJSON(t.Elem(), val)
			if err != nil {
				return reflect.Value{}, NewError(InvalidParams, fmt.Sprintf("key %q: %s", key, err.Message))
			}
			result.SetMapIndex(reflect.ValueOf(key).Convert(t.Key()), ev)
		}
		return result, nil

	case reflect.Ptr:
		if v.IsNull() {
			return reflect.Zero(t), nil
		}
		elem, err := r.FromJSON(t.Elem(), v)
		if err != nil {
			return reflect.Value{}, err
		}
		ptr := reflect.New(t.Elem())
		ptr.Elem().Set(elem)
		return ptr, nil

	default:
		return reflect.Value{}, NewError(InvalidParams, fmt.Sprintf("unsupported parameter type %s", t))
	}
}

// ExtractArgs converts a request's params into the argument list a handler
// of the given parameter types expects, enforcing the arity rule:
// zero-arity handlers require params to be null or an empty array;
// otherwise params must be an array of exactly len(paramTypes) elements.
// An object-valued params is accepted as input shape but never decomposed
// into positional arguments — a positional handler always rejects it.
func (r *ConverterRegistry) ExtractArgs(params Value, paramTypes []reflect.Type) ([]reflect.Value, *Error) {
	if len(paramTypes) == 0 {
		if params.IsNull() {
			return nil, nil
		}
		if arr, ok := params.Array(); ok {
			if len(arr) != 0 {
				return nil, NewError(InvalidParams, "expected no parameters")
			}
			return nil, nil
		}
		return nil, NewError(InvalidParams, "params must be null or an empty array")
	}

	arr, ok := params.Array()
	if !ok {
		return nil, NewError(InvalidParams, "params must be an array")
	}
	if len(arr) != len(paramTypes) {
		return nil, NewError(InvalidParams, fmt.Sprintf("expected %d parameter(s), got %d", len(paramTypes), len(arr)))
	}

	args := make([]reflect.Value, len(paramTypes))
	for i, t := range paramTypes {
		av, err := r.FromJSON(t, arr[i])
		if err != nil {
			return nil, NewError(InvalidParams, fmt.Sprintf("parameter %d: %s", i, err.Message))
		}
		args[i] = av
	}
	return args, nil
}
