package server

import (
	"io"
	"net/http"
	"strings"

	"github.com/gate4ai/jsonrpc"
	"go.uber.org/zap"
)

// ServeHTTP implements the per-request JSON-RPC session: a POST body
// carrying either a single request object or a batch array, decoded,
// dispatched through the registry, and re-serialized as the matching
// shape. Anything that isn't a JSON-RPC POST (wrong method, wrong
// content type) is rejected at the HTTP layer, before any JSON-RPC
// parsing is attempted.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "jsonrpc requires POST", http.StatusMethodNotAllowed)
		return
	}

	if !isJSONContentType(r.Header.Get("Content-Type")) {
		http.Error(w, "expected Content-Type: application/json", http.StatusUnsupportedMediaType)
		return
	}

	body, err := io.ReadAll(r.Body)
	r.Body.Close()
	if err != nil {
		s.logger.Warn("failed to read request body", zap.Error(err))
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}

	s.dispatch(w, body)
}

func isJSONContentType(contentType string) bool {
	mediaType := contentType
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		mediaType = contentType[:i]
	}
	return strings.EqualFold(strings.TrimSpace(mediaType), "application/json")
}

func (s *Server) dispatch(w http.ResponseWriter, body []byte) {
	requests, isBatch, perr := jsonrpc.ParseBatch(body)
	if perr != nil {
		s.writeResponses(w, []jsonrpc.Response{jsonrpc.NewErrorResponse(jsonrpc.NullID(), perr)}, false)
		return
	}

	var responses []jsonrpc.Response
	if isBatch {
		responses = s.registry.InvokeBatch(requests)
	} else if resp := s.registry.Invoke(requests[0]); resp != nil {
		responses = []jsonrpc.Response{*resp}
	}

	if len(responses) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	s.writeResponses(w, responses, isBatch)
}

func (s *Server) writeResponses(w http.ResponseWriter, responses []jsonrpc.Response, isBatch bool) {
	body, err := jsonrpc.SerializeResponses(responses, isBatch)
	if err != nil {
		s.logger.Error("failed to serialize response", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		s.logger.Warn("failed to write response body", zap.Error(err))
	}
}
