package server_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/gate4ai/jsonrpc"
	"github.com/gate4ai/jsonrpc/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newRegistry(t *testing.T) *jsonrpc.Registry {
	t.Helper()
	reg := jsonrpc.NewRegistry()
	require.NoError(t, reg.Register("ping", func() string { return "pong" }))
	return reg
}

func TestServerStartStopLifecycle(t *testing.T) {
	s := server.New("localhost:0", newRegistry(t), server.WithLogger(zaptest.NewLogger(t)))

	require.NoError(t, s.Start())
	assert.True(t, s.IsRunning())
	assert.NotEqual(t, "localhost:0", s.Addr(), "ephemeral port should have been resolved")

	resp, err := http.Post("http://"+s.Addr(), "application/json", jsonBody(`{"jsonrpc":"2.0","method":"ping","id":1}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, s.Stop())
	assert.False(t, s.IsRunning())

	// Stop is idempotent.
	require.NoError(t, s.Stop())

	// A stopped server can be started again.
	require.NoError(t, s.Start())
	defer s.Stop()
	assert.True(t, s.IsRunning())
}

func TestServerStartTwiceFails(t *testing.T) {
	s := server.New("localhost:0", newRegistry(t))
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Error(t, s.Start())
}

func TestServerRejectsBatchConcurrencyChangeWhileRunning(t *testing.T) {
	reg := newRegistry(t)
	s := server.New("localhost:0", reg)
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Error(t, reg.SetBatchConcurrency(4))
}

func TestServerRunBlocksUntilStop(t *testing.T) {
	s := server.New("localhost:0", newRegistry(t))

	done := make(chan error, 1)
	go func() {
		done <- s.Run()
	}()

	// give the goroutine a moment to bind the listener
	deadline := time.Now().Add(time.Second)
	for !s.IsRunning() && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	require.True(t, s.IsRunning())

	require.NoError(t, s.Stop())

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Stop")
	}
}
