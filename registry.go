package jsonrpc

import (
	"fmt"
	"sync"

	"github.com/gate4ai/jsonrpc/internal/workerpool"
)

// DefaultBatchConcurrency is the worker pool size a freshly constructed
// Registry starts with.
const DefaultBatchConcurrency = 2

// Registry maps method names to handlers and dispatches Requests to them.
// It is shared by reference across server sessions; Register is safe to
// call concurrently with Invoke/InvokeBatch.
type Registry struct {
	mu         sync.RWMutex
	methods    map[string]*methodWrapper
	converters *ConverterRegistry

	poolMu  sync.Mutex
	pool    *workerpool.Pool
	running bool
}

// NewRegistry creates an empty registry with the default batch
// concurrency and a fresh ConverterRegistry.
func NewRegistry() *Registry {
	return &Registry{
		methods:    make(map[string]*methodWrapper),
		converters: NewConverterRegistry(),
		pool:       workerpool.New(DefaultBatchConcurrency),
	}
}

// Converters exposes the registry's converter fabric so callers can install
// domain-specific type conversions before registering handlers that use
// them.
func (reg *Registry) Converters() *ConverterRegistry {
	return reg.converters
}

// Register stores handler under name, replacing any prior entry under the
// same name atomically with respect to concurrent Invoke calls. handler
// must be a function; see methodWrapper for the supported signatures.
func (reg *Registry) Register(name string, handler interface{}) error {
	wrapper, err := newMethodWrapper(handler, reg.converters)
	if err != nil {
		return fmt.Errorf("jsonrpc: register %q: %w", name, err)
	}
	reg.mu.Lock()
	reg.methods[name] = wrapper
	reg.mu.Unlock()
	return nil
}

func (reg *Registry) lookup(name string) (*methodWrapper, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	w, ok := reg.methods[name]
	return w, ok
}

// Invoke dispatches a single Request. For a notification (no id) the
// handler still runs, for its side effects, but nil is returned so no
// response is emitted.
func (reg *Registry) Invoke(req Request) *Response {
	resp := reg.invokeOne(req)
	if !req.HasID() {
		return nil
	}
	return &resp
}

func (reg *Registry) invokeOne(req Request) Response {
	id, hasID := req.ID()
	if !hasID {
		id = NullID()
	}

	wrapper, ok := reg.lookup(req.Method)
	if !ok {
		return NewErrorResponse(id, NewError(MethodNotFound, fmt.Sprintf("method %q not found", req.Method)))
	}

	result, rpcErr := wrapper.invoke(req.Params)
	if rpcErr != nil {
		return NewErrorResponse(id, rpcErr)
	}
	return NewResultResponse(id, result)
}

// SetBatchConcurrency rebuilds the batch worker pool wholesale with the
// given concurrency. Returns an error if the owning server has marked the
// registry as running — parallelism is fixed for the lifetime of a run.
func (reg *Registry) SetBatchConcurrency(n int) error {
	reg.poolMu.Lock()
	defer reg.poolMu.Unlock()
	if reg.running {
		return fmt.Errorf("jsonrpc: cannot change batch concurrency while the server is running")
	}
	reg.pool = workerpool.New(n)
	return nil
}

// SetRunning marks the registry as owned by a currently-running server, or
// clears that mark on stop. Used by package server; exported so a
// caller assembling its own acceptor around a Registry can honor the same
// invariant.
func (reg *Registry) SetRunning(running bool) {
	reg.poolMu.Lock()
	reg.running = running
	reg.poolMu.Unlock()
}

func (reg *Registry) batchPool() *workerpool.Pool {
	reg.poolMu.Lock()
	defer reg.poolMu.Unlock()
	return reg.pool
}

// InvokeBatch dispatches an ordered list of Requests in parallel across the
// batch worker pool and returns Responses in the same order as the
// call-carrying requests in the input; notifications contribute nothing.
func (reg *Registry) InvokeBatch(requests []Request) []Response {
	results := make([]*Response, len(requests))
	fns := make([]func(), 0, len(requests))
	for i, req := range requests {
		i, req := i, req
		fns = append(fns, func() {
			results[i] = reg.Invoke(req)
		})
	}

	reg.batchPool().Run(fns)

	responses := make([]Response, 0, len(requests))
	for _, r := range results {
		if r != nil {
			responses = append(responses, *r)
		}
	}
	return responses
}
