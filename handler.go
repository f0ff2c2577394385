package jsonrpc

import (
	"fmt"
	"reflect"
)

var errorInterfaceType = reflect.TypeOf((*error)(nil)).Elem()

// methodWrapper erases a handler's concrete signature behind a uniform
// invoke(Value) (Value, *Error), built at registration time from an
// arbitrary Go function signature via reflection.
//
// Supported signatures: func(args...) , func(args...) R ,
// func(args...) error , func(args...) (R, error). Each argument type and R
// are resolved against a ConverterRegistry at invocation time.
type methodWrapper struct {
	fn         reflect.Value
	paramTypes []reflect.Type
	hasResult  bool
	hasErr     bool
	converters *ConverterRegistry
}

func newMethodWrapper(fn interface{}, converters *ConverterRegistry) (*methodWrapper, error) {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		return nil, fmt.Errorf("jsonrpc: handler must be a function, got %T", fn)
	}
	t := v.Type()
	if t.IsVariadic() {
		return nil, fmt.Errorf("jsonrpc: variadic handlers are not supported")
	}

	numOut := t.NumOut()
	if numOut > 2 {
		return nil, fmt.Errorf("jsonrpc: handler must return at most (result, error)")
	}
	hasErr := numOut > 0 && t.Out(numOut-1) == errorInterfaceType
	hasResult := numOut > 0 && !(numOut == 1 && hasErr)
	if numOut == 2 && !hasErr {
		return nil, fmt.Errorf("jsonrpc: a two-value return must end in error")
	}

	paramTypes := make([]reflect.Type, t.NumIn())
	for i := 0; i < t.NumIn(); i++ {
		paramTypes[i] = t.In(i)
	}

	return &methodWrapper{
		fn:         v,
		paramTypes: paramTypes,
		hasResult:  hasResult,
		hasErr:     hasErr,
		converters: converters,
	}, nil
}

// invoke runs the handler against params, converting parameters and the
// return value through the converter fabric. Any panic inside the handler
// is recovered and reflected as an InternalError carrying the panic value.
func (w *methodWrapper) invoke(params Value) (result Value, rpcErr *Error) {
	defer func() {
		if p := recover(); p != nil {
			result = Value{}
			rpcErr = NewError(InternalError, fmt.Sprintf("handler panicked: %v", p))
		}
	}()

	args, err := w.converters.ExtractArgs(params, w.paramTypes)
	if err != nil {
		return Value{}, err
	}

	out := w.fn.Call(args)

	if w.hasErr {
		errVal := out[len(out)-1]
		if !errVal.IsNil() {
			return Value{}, AsError(errVal.Interface().(error))
		}
		out = out[:len(out)-1]
	}

	if !w.hasResult || len(out) == 0 {
		return Null(), nil
	}

	jv, convErr := w.converters.ToJSON(out[0])
	if convErr != nil {
		return Value{}, NewError(InternalError, "method execution failed: "+convErr.Error())
	}
	return jv, nil
}
