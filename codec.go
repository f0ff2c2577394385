package jsonrpc

// ParseBatch parses a JSON-text request body into an ordered list of
// Requests. A body that is a JSON array is a batch; anything else is
// treated as a single-element batch. An empty array is InvalidRequest.
// Any per-element parse failure is returned immediately — the caller is
// expected to turn it into a single error Response with a null id, since
// the id (if any) could not be recovered.
func ParseBatch(body []byte) ([]Request, bool, *Error) {
	v, err := ParseValue(body)
	if err != nil {
		return nil, false, NewError(ParseError, "invalid JSON: "+err.Error())
	}

	if arr, ok := v.Array(); ok {
		if len(arr) == 0 {
			return nil, true, NewError(InvalidRequest, "batch must not be empty")
		}
		requests := make([]Request, 0, len(arr))
		for _, elem := range arr {
			req, rerr := requestFromValue(elem)
			if rerr != nil {
				return nil, true, rerr
			}
			requests = append(requests, req)
		}
		return requests, true, nil
	}

	req, rerr := requestFromValue(v)
	if rerr != nil {
		return nil, false, rerr
	}
	return []Request{req}, false, nil
}

// SerializeResponses renders a list of Responses as the wire body: a bare
// JSON object when isBatch is false, a JSON array (possibly empty) when
// isBatch is true.
func SerializeResponses(responses []Response, isBatch bool) ([]byte, error) {
	if !isBatch {
		if len(responses) != 1 {
			panic("jsonrpc: non-batch serialization requires exactly one response")
		}
		return responses[0].ToValue().MarshalJSON()
	}

	items := make([]Value, len(responses))
	for i, r := range responses {
		items[i] = r.ToValue()
	}
	return ArrayValue(items).MarshalJSON()
}

// ParseResponseBatch parses a client-side response body, mirroring
// ParseBatch's single-vs-array distinction. Returns the responses and
// whether the body was a batch.
func ParseResponseBatch(body []byte) ([]Response, bool, *Error) {
	v, err := ParseValue(body)
	if err != nil {
		return nil, false, NewError(ParseError, "invalid JSON: "+err.Error())
	}

	if arr, ok := v.Array(); ok {
		responses := make([]Response, 0, len(arr))
		for _, elem := range arr {
			resp, rerr := ResponseFromValue(elem)
			if rerr != nil {
				return nil, true, rerr
			}
			responses = append(responses, resp)
		}
		return responses, true, nil
	}

	resp, rerr := ResponseFromValue(v)
	if rerr != nil {
		return nil, false, rerr
	}
	return []Response{resp}, false, nil
}
