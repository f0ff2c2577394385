package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/gate4ai/jsonrpc"
)

const userAgent = "jsonrpc-client"

// roundTrip performs exactly one HTTP POST carrying body and returns the
// response bytes, or an error wrapping whatever went wrong (resolve,
// connect, write, or read) — the single session the synchronous and
// asynchronous call paths both funnel through.
func (c *Client) roundTrip(ctx context.Context, body []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("round trip: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusNoContent || len(respBody) == 0 {
		return nil, nil
	}
	return respBody, nil
}

// callSync runs req through exactly one HTTP round trip and parses the
// single response object it gets back. Any transport failure is wrapped
// as InternalError, per the facade's error-propagation contract.
func (c *Client) callSync(ctx context.Context, req jsonrpc.Request) jsonrpc.Response {
	id, _ := req.ID()

	body, err := req.ToValue().MarshalJSON()
	if err != nil {
		return jsonrpc.NewErrorResponse(id, jsonrpc.NewError(jsonrpc.InternalError, "encode request: "+err.Error()))
	}

	respBody, err := c.roundTrip(ctx, body)
	if err != nil {
		return jsonrpc.NewErrorResponse(id, jsonrpc.NewError(jsonrpc.InternalError, err.Error()))
	}
	if respBody == nil {
		return jsonrpc.NewErrorResponse(id, jsonrpc.NewError(jsonrpc.InternalError, "server returned no body for a call"))
	}

	v, verr := jsonrpc.ParseValue(respBody)
	if verr != nil {
		return jsonrpc.NewErrorResponse(id, jsonrpc.NewError(jsonrpc.ParseError, "invalid JSON in response: "+verr.Error()))
	}
	resp, perr := jsonrpc.ResponseFromValue(v)
	if perr != nil {
		return jsonrpc.NewErrorResponse(id, perr)
	}
	return resp
}

// callBatchSync runs a full batch through one HTTP round trip.
func (c *Client) callBatchSync(ctx context.Context, requests []jsonrpc.Request) ([]jsonrpc.Response, error) {
	items := make([]jsonrpc.Value, len(requests))
	for i, r := range requests {
		items[i] = r.ToValue()
	}
	body, err := jsonrpc.ArrayValue(items).MarshalJSON()
	if err != nil {
		return nil, jsonrpc.NewError(jsonrpc.InternalError, "encode batch: "+err.Error())
	}

	respBody, err := c.roundTrip(ctx, body)
	if err != nil {
		return nil, jsonrpc.NewError(jsonrpc.InternalError, err.Error())
	}
	if respBody == nil {
		return nil, nil
	}

	responses, _, perr := jsonrpc.ParseResponseBatch(respBody)
	if perr != nil {
		return nil, perr
	}
	return responses, nil
}

// notify sends a no-id request and discards whatever comes back.
// Transport failures are swallowed: notifications are best-effort.
func (c *Client) notify(ctx context.Context, req jsonrpc.Request) {
	body, err := req.ToValue().MarshalJSON()
	if err != nil {
		c.logger.Warn("failed to encode notification")
		return
	}
	if _, err := c.roundTrip(ctx, body); err != nil {
		c.logger.Debug("notification transport failure ignored")
	}
}
