package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gate4ai/jsonrpc"
	"github.com/gate4ai/jsonrpc/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func writeFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadServerConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "server.yaml", `
server:
  listen_addr: "localhost:8080"
  batch_concurrency: 4
`)

	cfg, err := config.LoadServerConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "localhost:8080", cfg.ListenAddr)
	assert.Equal(t, 4, cfg.BatchConcurrency)
}

func TestLoadServerConfigDefaultsBatchConcurrency(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "server.yaml", `
server:
  listen_addr: "localhost:8080"
`)

	cfg, err := config.LoadServerConfig(path)
	require.NoError(t, err)
	assert.Equal(t, jsonrpc.DefaultBatchConcurrency, cfg.BatchConcurrency)
}

func TestLoadServerConfigRequiresListenAddr(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "server.yaml", "server:\n  batch_concurrency: 2\n")

	_, err := config.LoadServerConfig(path)
	assert.Error(t, err)
}

func TestLoadClientConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "client.yaml", `
client:
  host: "localhost"
  port: 8080
  timeout_ms: 5000
`)

	cfg, err := config.LoadClientConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, "http://localhost:8080/", cfg.URL())
}

func TestLoadClientConfigDefaultsTimeout(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "client.yaml", "client:\n  host: \"localhost\"\n")

	cfg, err := config.LoadClientConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
}

func TestWatchLogsRestartHintOnChange(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "server.yaml", "server:\n  listen_addr: \"localhost:8080\"\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	core, logs := observer.New(zap.WarnLevel)
	require.NoError(t, config.Watch(ctx, path, zap.New(core)))

	require.NoError(t, os.WriteFile(path, []byte("server:\n  listen_addr: \"localhost:9090\"\n"), 0o644))
	assert.Eventually(t, func() bool {
		return logs.FilterMessage("config file changed on disk; restart the process to apply it").Len() > 0
	}, 2*time.Second, 10*time.Millisecond)
}
