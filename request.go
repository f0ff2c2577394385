package jsonrpc

import "fmt"

const Version = "2.0"

// Request is a JSON-RPC 2.0 request or notification. A notification is a
// Request whose id is absent (HasID reports false); per spec it never
// contributes an entry to a response stream, even inside a batch.
type Request struct {
	Method string
	Params Value
	id     ID
	hasID  bool
}

// NewCall builds a Request with an id (a "call" — expects exactly one
// Response).
func NewCall(method string, params Value, id ID) Request {
	return Request{Method: method, Params: params, id: id, hasID: true}
}

// NewNotification builds a Request with no id. The registry still executes
// its handler but suppresses any response.
func NewNotification(method string, params Value) Request {
	return Request{Method: method, Params: params}
}

// HasID distinguishes a call (true) from a notification (false).
func (r Request) HasID() bool { return r.hasID }

// ID returns the request's id and whether one is present.
func (r Request) ID() (ID, bool) { return r.id, r.hasID }

// ToValue renders the request as the JSON object the wire protocol expects.
func (r Request) ToValue() Value {
	obj := NewObject()
	obj.Set("jsonrpc", StringValue(Version))
	obj.Set("method", StringValue(r.Method))
	if !r.Params.IsNull() {
		obj.Set("params", r.Params)
	}
	if r.hasID {
		obj.Set("id", r.id.Value())
	}
	return ObjectValue(obj)
}

// requestFromValue parses and validates a single JSON-RPC request object.
// Any violation yields an InvalidRequest error.
func requestFromValue(v Value) (Request, *Error) {
	obj, ok := v.Object()
	if !ok {
		return Request{}, NewError(InvalidRequest, "request must be a JSON object")
	}

	versionVal, ok := obj.Get("jsonrpc")
	if !ok {
		return Request{}, NewError(InvalidRequest, "missing \"jsonrpc\"")
	}
	version, ok := versionVal.String()
	if !ok || version != Version {
		return Request{}, NewError(InvalidRequest, "\"jsonrpc\" must be the literal string \"2.0\"")
	}

	methodVal, ok := obj.Get("method")
	if !ok {
		return Request{}, NewError(InvalidRequest, "missing \"method\"")
	}
	method, ok := methodVal.String()
	if !ok || method == "" {
		return Request{}, NewError(InvalidRequest, "\"method\" must be a non-empty string")
	}

	params := Null()
	if paramsVal, ok := obj.Get("params"); ok {
		if !paramsVal.IsNull() && !paramsVal.IsArray() && !paramsVal.IsObject() {
			return Request{}, NewError(InvalidRequest, "\"params\" must be an array, object, or null")
		}
		params = paramsVal
	}

	idVal, hasID := obj.Get("id")
	if !hasID {
		return NewNotification(method, params), nil
	}
	id, ok := idFromValue(idVal)
	if !ok {
		return Request{}, NewError(InvalidRequest, "\"id\" must be a string, number, or null")
	}
	return NewCall(method, params, id), nil
}

func (r Request) String() string {
	if r.hasID {
		return fmt.Sprintf("Request{method=%s, id=%s}", r.Method, r.id.String())
	}
	return fmt.Sprintf("Notification{method=%s}", r.Method)
}
