package main

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tipsdash/internal/config"
	"tipsdash/internal/metrics"
	"tipsdash/internal/state"
)

func TestVersionCommand(t *testing.T) {
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "tipsdash version 0.1.0 (build: dev)\n", out.String())
}

func TestRootFlags(t *testing.T) {
	cmd := rootCmd()

	port := cmd.Flags().Lookup("port")
	require.NotNil(t, port)
	assert.Equal(t, "1997", port.DefValue)

	c := cmd.Flags().ShorthandLookup("c")
	require.NotNil(t, c)
	assert.Equal(t, "config", c.Name)

	assert.NotNil(t, cmd.Flags().Lookup("log-level"))
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
		"loud":  slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in), in)
	}
}

func TestRun_BadConfig(t *testing.T) {
	err := run(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"), "error", func(*config.Config) {})
	assert.ErrorContains(t, err, "load config")

	err = run(context.Background(), "", "error", func(cfg *config.Config) { cfg.Server.Port = 0 })
	assert.ErrorContains(t, err, "invalid configuration")
}

func TestRun_DatasetFailureIsFatal(t *testing.T) {
	err := run(context.Background(), "", "error", func(cfg *config.Config) {
		cfg.Dataset.Source = config.SourceFile
		cfg.Dataset.Path = filepath.Join(t.TempDir(), "missing.csv")
	})
	assert.ErrorContains(t, err, "load dataset")
}

func TestNewRouter(t *testing.T) {
	cfg := config.DefaultConfig()
	s, err := state.Load(context.Background(), cfg, nil, metrics.New())
	require.NoError(t, err)

	var logs bytes.Buffer
	srv := newRouter(cfg, s, slog.NewTextHandler(&logs, nil))

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
	assert.Contains(t, logs.String(), "/health")

	req := httptest.NewRequest(http.MethodOptions, "/api/callback", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/layout", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
