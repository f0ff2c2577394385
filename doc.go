// Package jsonrpc implements JSON-RPC 2.0: the wire types (Request,
// Response, Error, ID, and the ordered Value JSON representation), the
// converter fabric bridging native Go types to and from Value, and a
// Registry dispatching single and batch requests to registered handlers
// of arbitrary Go signature.
//
// Transport is layered on top in the server and client subpackages; this
// package is transport-agnostic and works equally over HTTP, a queue, or
// an in-process call.
package jsonrpc
