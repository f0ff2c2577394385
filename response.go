package jsonrpc

// Response is a JSON-RPC 2.0 response: exactly one of Result or Err is set.
type Response struct {
	id     ID
	result Value
	err    *Error
	isErr  bool
}

// NewResultResponse builds a success response.
func NewResultResponse(id ID, result Value) Response {
	return Response{id: id, result: result}
}

// NewErrorResponse builds an error response.
func NewErrorResponse(id ID, err *Error) Response {
	return Response{id: id, err: err, isErr: true}
}

// ID returns the response's id, echoing the originating request's id (or
// null when the id could not be recovered from an unparseable request).
func (r Response) ID() ID { return r.id }

// IsError reports whether this is an error response.
func (r Response) IsError() bool { return r.isErr }

// Result returns the success payload; valid only when !IsError().
func (r Response) Result() Value { return r.result }

// Err returns the error object; valid only when IsError().
func (r Response) Err() *Error { return r.err }

// ToValue renders the response as the JSON object the wire protocol
// expects: {"jsonrpc":"2.0", one of "result"/"error", "id"}.
func (r Response) ToValue() Value {
	obj := NewObject()
	obj.Set("jsonrpc", StringValue(Version))
	if r.isErr {
		errObj := NewObject()
		errObj.Set("code", Int64Value(int64(r.err.Code)))
		errObj.Set("message", StringValue(r.err.Message))
		if r.err.HasData() {
			errObj.Set("data", r.err.Data)
		}
		obj.Set("error", ObjectValue(errObj))
	} else {
		obj.Set("result", r.result)
	}
	obj.Set("id", r.id.Value())
	return ObjectValue(obj)
}

// ResponseFromValue parses a single JSON-RPC response object (client side).
func ResponseFromValue(v Value) (Response, *Error) {
	obj, ok := v.Object()
	if !ok {
		return Response{}, NewError(InvalidRequest, "response must be a JSON object")
	}

	versionVal, ok := obj.Get("jsonrpc")
	if !ok {
		return Response{}, NewError(InvalidRequest, "missing \"jsonrpc\"")
	}
	version, ok := versionVal.String()
	if !ok || version != Version {
		return Response{}, NewError(InvalidRequest, "\"jsonrpc\" must be the literal string \"2.0\"")
	}

	idVal, hasID := obj.Get("id")
	if !hasID {
		return Response{}, NewError(InvalidRequest, "missing \"id\"")
	}
	id, ok := idFromValue(idVal)
	if !ok {
		return Response{}, NewError(InvalidRequest, "\"id\" must be a string, number, or null")
	}

	resultVal, hasResult := obj.Get("result")
	errVal, hasError := obj.Get("error")
	if hasResult == hasError {
		return Response{}, NewError(InvalidRequest, "response must have exactly one of \"result\" or \"error\"")
	}

	if hasResult {
		return NewResultResponse(id, resultVal), nil
	}

	errObj, ok := errVal.Object()
	if !ok {
		return Response{}, NewError(InvalidRequest, "\"error\" must be an object")
	}
	codeVal, ok := errObj.Get("code")
	if !ok {
		return Response{}, NewError(InvalidRequest, "error object missing \"code\"")
	}
	codeInt, ok := codeVal.Int64()
	if !ok {
		return Response{}, NewError(InvalidRequest, "error \"code\" must be an integer")
	}
	msgVal, ok := errObj.Get("message")
	if !ok {
		return Response{}, NewError(InvalidRequest, "error object missing \"message\"")
	}
	msg, ok := msgVal.String()
	if !ok {
		return Response{}, NewError(InvalidRequest, "error \"message\" must be a string")
	}
	var data Value
	if d, ok := errObj.Get("data"); ok {
		data = d
	}
	return NewErrorResponse(id, &Error{Code: ErrorCode(codeInt), Message: msg, Data: data}), nil
}
