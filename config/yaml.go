package config

import (
	"fmt"
	"os"
	"time"

	"github.com/gate4ai/jsonrpc"
	"gopkg.in/yaml.v3"
)

type serverFile struct {
	Server struct {
		ListenAddr       string `yaml:"listen_addr"`
		BatchConcurrency int    `yaml:"batch_concurrency"`
	} `yaml:"server"`
}

type clientFile struct {
	Client struct {
		Host      string `yaml:"host"`
		Port      int    `yaml:"port"`
		TimeoutMS int    `yaml:"timeout_ms"`
	} `yaml:"client"`
}

// LoadServerConfig reads and validates a server configuration file.
// BatchConcurrency defaults to jsonrpc.DefaultBatchConcurrency when the
// file omits it or sets it to zero.
func LoadServerConfig(path string) (ServerConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ServerConfig{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var parsed serverFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return ServerConfig{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if parsed.Server.ListenAddr == "" {
		return ServerConfig{}, fmt.Errorf("config: %s: server.listen_addr is required", path)
	}

	cfg := ServerConfig{
		ListenAddr:       parsed.Server.ListenAddr,
		BatchConcurrency: parsed.Server.BatchConcurrency,
	}
	if cfg.BatchConcurrency <= 0 {
		cfg.BatchConcurrency = jsonrpc.DefaultBatchConcurrency
	}
	return cfg, nil
}

// LoadClientConfig reads and validates a client configuration file.
// Timeout defaults to 30 seconds when the file omits timeout_ms.
func LoadClientConfig(path string) (ClientConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ClientConfig{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var parsed clientFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return ClientConfig{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if parsed.Client.Host == "" {
		return ClientConfig{}, fmt.Errorf("config: %s: client.host is required", path)
	}

	cfg := ClientConfig{
		Host:    parsed.Client.Host,
		Port:    parsed.Client.Port,
		Timeout: time.Duration(parsed.Client.TimeoutMS) * time.Millisecond,
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return cfg, nil
}
