package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/sports-event-tracker/config"
)

func sqliteConfig(t *testing.T, port int) *config.Config {
	t.Helper()
	return &config.Config{
		Database: config.Database{
			Driver:         "sqlite",
			Path:           filepath.Join(t.TempDir(), "tracker.db"),
			ConnectTimeout: 5 * time.Second,
		},
		ServerPort:         port,
		LogLevel:           "info",
		LogFormat:          "json",
		CORSAllowedOrigins: []string{"*"},
	}
}

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())
	return port
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunStopsOnContextCancel(t *testing.T) {
	port := freePort(t)
	cfg := sqliteConfig(t, port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- run(ctx, cfg, discardLogger()) }()

	url := fmt.Sprintf("http://127.0.0.1:%d/healthz", port)
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("run did not return after cancel")
	}
}

func TestRunReturnsServerError(t *testing.T) {
	l, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer l.Close()
	cfg := sqliteConfig(t, l.Addr().(*net.TCPAddr).Port)

	done := make(chan error, 1)
	go func() { done <- run(context.Background(), cfg, discardLogger()) }()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.Contains(t, err.Error(), "server error")
	case <-time.After(10 * time.Second):
		t.Fatal("run did not return on listen failure")
	}
}
