package server_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gate4ai/jsonrpc"
	"github.com/gate4ai/jsonrpc/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func jsonBody(s string) io.Reader {
	return strings.NewReader(s)
}

func newTestHandler(t *testing.T) (http.Handler, *jsonrpc.Registry) {
	t.Helper()
	reg := jsonrpc.NewRegistry()
	require.NoError(t, reg.Register("add", func(a, b int64) int64 { return a + b }))
	require.NoError(t, reg.Register("ping", func() string { return "pong" }))
	require.NoError(t, reg.Register("boom", func() error { return assert.AnError }))
	return server.New("localhost:0", reg, server.WithLogger(zaptest.NewLogger(t))), reg
}

func post(t *testing.T, h http.Handler, body, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", jsonBody(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestServeHTTPSingleCall(t *testing.T) {
	h, _ := newTestHandler(t)
	rec := post(t, h, `{"jsonrpc":"2.0","method":"add","params":[1,2],"id":1}`, "application/json")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"jsonrpc":"2.0","result":3,"id":1}`, rec.Body.String())
}

func TestServeHTTPNotificationYieldsNoContent(t *testing.T) {
	h, _ := newTestHandler(t)
	rec := post(t, h, `{"jsonrpc":"2.0","method":"ping"}`, "application/json")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestServeHTTPBatchWithNotification(t *testing.T) {
	h, _ := newTestHandler(t)
	body := `[
		{"jsonrpc":"2.0","method":"add","params":[1,2],"id":1},
		{"jsonrpc":"2.0","method":"ping"},
		{"jsonrpc":"2.0","method":"add","params":[3,4],"id":2}
	]`
	rec := post(t, h, body, "application/json")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[
		{"jsonrpc":"2.0","result":3,"id":1},
		{"jsonrpc":"2.0","result":7,"id":2}
	]`, rec.Body.String())
}

func TestServeHTTPNotificationOnlyBatchYieldsNoContent(t *testing.T) {
	h, _ := newTestHandler(t)
	rec := post(t, h, `[{"jsonrpc":"2.0","method":"ping"},{"jsonrpc":"2.0","method":"ping"}]`, "application/json")

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestServeHTTPParseError(t *testing.T) {
	h, _ := newTestHandler(t)
	rec := post(t, h, `not json`, "application/json")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":-32700`)
	assert.Contains(t, rec.Body.String(), `"id":null`)
}

func TestServeHTTPEmptyBatchIsInvalidRequest(t *testing.T) {
	h, _ := newTestHandler(t)
	rec := post(t, h, `[]`, "application/json")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":-32600`)
}

func TestServeHTTPUnknownMethod(t *testing.T) {
	h, _ := newTestHandler(t)
	rec := post(t, h, `{"jsonrpc":"2.0","method":"missing","id":1}`, "application/json")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":-32601`)
}

func TestServeHTTPParamTypeMismatch(t *testing.T) {
	h, _ := newTestHandler(t)
	rec := post(t, h, `{"jsonrpc":"2.0","method":"add","params":["x",2],"id":1}`, "application/json")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":-32602`)
}

func TestServeHTTPHandlerErrorBecomesInternalError(t *testing.T) {
	h, _ := newTestHandler(t)
	rec := post(t, h, `{"jsonrpc":"2.0","method":"boom","id":1}`, "application/json")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":-32603`)
}

func TestServeHTTPRejectsNonPost(t *testing.T) {
	h, _ := newTestHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestServeHTTPRejectsWrongContentType(t *testing.T) {
	h, _ := newTestHandler(t)
	rec := post(t, h, `{"jsonrpc":"2.0","method":"ping"}`, "text/plain")

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestServeHTTPAcceptsContentTypeWithCharset(t *testing.T) {
	h, _ := newTestHandler(t)
	rec := post(t, h, `{"jsonrpc":"2.0","method":"ping","id":1}`, "application/json; charset=utf-8")

	assert.Equal(t, http.StatusOK, rec.Code)
}
