// Package client implements the JSON-RPC 2.0 client facade: synchronous
// calls, fire-and-forget notifications, callback-driven asynchronous
// calls, and batch submission, all over a single HTTP/1.1 POST per call.
package client

import (
	"context"
	"fmt"
	"net/http"
	"reflect"
	"sync/atomic"
	"time"

	"github.com/gate4ai/jsonrpc"
	"go.uber.org/zap"
)

const defaultTimeout = 30 * time.Second

// Client is a JSON-RPC facade bound to one server URL. It is safe for
// concurrent use: Call and Notify may be invoked from multiple goroutines,
// but AsyncCall callbacks and the event-loop drivers only ever run on
// whichever goroutine is currently driving the loop.
type Client struct {
	url        string
	httpClient *http.Client
	logger     *zap.Logger
	converters *jsonrpc.ConverterRegistry
	timeout    time.Duration

	nextID int64
	loop   *EventLoop
}

// New creates a Client that POSTs requests to url (e.g.
// "http://localhost:8080/").
func New(url string, opts ...Option) *Client {
	c := &Client{
		url:        url,
		httpClient: http.DefaultClient,
		logger:     zap.NewNop(),
		converters: jsonrpc.NewConverterRegistry(),
		timeout:    defaultTimeout,
		loop:       NewEventLoop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Converters exposes the client's converter fabric so callers can install
// domain-specific type conversions before making calls that use them.
func (c *Client) Converters() *jsonrpc.ConverterRegistry {
	return c.converters
}

// NextID allocates the next id in this client's monotonically increasing,
// per-instance sequence, starting at 1.
func (c *Client) NextID() int64 {
	return atomic.AddInt64(&c.nextID, 1)
}

func (c *Client) buildParams(args []interface{}) (jsonrpc.Value, error) {
	if len(args) == 0 {
		return jsonrpc.Null(), nil
	}
	items := make([]jsonrpc.Value, len(args))
	for i, arg := range args {
		v, err := c.converters.ToJSON(reflect.ValueOf(arg))
		if err != nil {
			return jsonrpc.Value{}, fmt.Errorf("argument %d: %w", i, err)
		}
		items[i] = v
	}
	return jsonrpc.ArrayValue(items), nil
}

// CallValue allocates an id, builds a Request, runs a synchronous HTTP
// round trip, and returns the raw result Value (or an error: either the
// server's error Response converted to *jsonrpc.Error, or a transport
// failure wrapped as InternalError).
func (c *Client) CallValue(ctx context.Context, method string, args ...interface{}) (jsonrpc.Value, error) {
	params, err := c.buildParams(args)
	if err != nil {
		return jsonrpc.Value{}, jsonrpc.NewError(jsonrpc.InvalidParams, err.Error())
	}

	req := jsonrpc.NewCall(method, params, jsonrpc.IntID(c.NextID()))
	resp := c.callSync(ctx, req)
	if resp.IsError() {
		return jsonrpc.Value{}, resp.Err()
	}
	return resp.Result(), nil
}

// Call runs CallValue and converts the result into T through the
// client's converter fabric.
func Call[T any](ctx context.Context, c *Client, method string, args ...interface{}) (T, error) {
	var zero T
	result, err := c.CallValue(ctx, method, args...)
	if err != nil {
		return zero, err
	}
	return Into[T](c, result)
}

// Into converts a raw result Value into T using client's converters.
// T must be a concrete type the converter fabric supports (bool, string,
// numeric kinds, slices, string-keyed maps, or a registered custom type).
func Into[T any](c *Client, v jsonrpc.Value) (T, error) {
	var zero T
	t := reflect.TypeOf(&zero).Elem()
	rv, err := c.converters.FromJSON(t, v)
	if err != nil {
		return zero, err
	}
	return rv.Interface().(T), nil
}

// AsyncCall allocates an id, builds a Request, and runs the HTTP round
// trip on its own goroutine; callback is invoked exactly once, with the
// resulting Response (real or synthesized), the next time the event loop
// is driven via Run, Poll, RunFor, or RunUntilIdle.
func (c *Client) AsyncCall(ctx context.Context, method string, callback func(jsonrpc.Response), args ...interface{}) {
	params, err := c.buildParams(args)
	id := jsonrpc.IntID(c.NextID())
	if err != nil {
		resp := jsonrpc.NewErrorResponse(id, jsonrpc.NewError(jsonrpc.InvalidParams, err.Error()))
		c.loop.beginPending()
		go c.loop.Post(func() { callback(resp) })
		return
	}

	req := jsonrpc.NewCall(method, params, id)
	c.loop.beginPending()
	go func() {
		resp := c.callSync(ctx, req)
		c.loop.Post(func() { callback(resp) })
	}()
}

// Notify builds a no-id Request, sends it, and discards whatever response
// body comes back. Argument-encoding failures are reported;
// transport failures are swallowed, since notifications are best-effort.
func (c *Client) Notify(ctx context.Context, method string, args ...interface{}) error {
	params, err := c.buildParams(args)
	if err != nil {
		return jsonrpc.NewError(jsonrpc.InvalidParams, err.Error())
	}
	req := jsonrpc.NewNotification(method, params)
	c.notify(ctx, req)
	return nil
}

// CallBatch runs a synchronous batch round trip. The caller supplies each
// Request's id (via NextID or otherwise); responses come back in the
// server's chosen order — match them to requests by id, not position.
func (c *Client) CallBatch(ctx context.Context, requests []jsonrpc.Request) ([]jsonrpc.Response, error) {
	return c.callBatchSync(ctx, requests)
}

// Run drives the event loop until Stop is called.
func (c *Client) Run() { c.loop.Run() }

// Poll runs every callback currently queued and returns immediately.
func (c *Client) Poll() int { return c.loop.Poll() }

// RunFor drives the event loop for at most d.
func (c *Client) RunFor(d time.Duration) { c.loop.RunFor(d) }

// RunUntilIdle drives the event loop until no callback is queued and no
// asynchronous call is still in flight.
func (c *Client) RunUntilIdle() { c.loop.RunUntilIdle() }

// Stop unblocks a caller inside Run.
func (c *Client) Stop() { c.loop.Stop() }
