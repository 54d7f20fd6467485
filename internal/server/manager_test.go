package server

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Addr = "127.0.0.1:0"
	cfg.ShutdownTimeout = 2 * time.Second
	return cfg
}

func TestManagerStartServeShutdown(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ping", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "pong")
	})

	m := NewManager(mux, testConfig(), zaptest.NewLogger(t))
	require.NoError(t, m.Start())
	defer m.Shutdown(context.Background())

	resp, err := http.Get("http://" + m.Addr() + "/ping")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, m.Shutdown(context.Background()))
	assert.False(t, m.IsRunning())

	// Shutdown is idempotent and Start after shutdown refuses.
	require.NoError(t, m.Shutdown(context.Background()))
	assert.Error(t, m.Start())
}

func TestManagerDoubleStart(t *testing.T) {
	m := NewManager(http.NewServeMux(), testConfig(), zaptest.NewLogger(t))
	require.NoError(t, m.Start())
	defer m.Shutdown(context.Background())

	assert.Error(t, m.Start())
}

func TestManagerReadyCallback(t *testing.T) {
	var states []bool
	m := NewManager(http.NewServeMux(), testConfig(), zaptest.NewLogger(t))
	m.OnReady(func(ready bool) { states = append(states, ready) })

	require.NoError(t, m.Start())
	require.NoError(t, m.Shutdown(context.Background()))

	assert.Equal(t, []bool{true, false}, states)
}

func TestManagerListenFailure(t *testing.T) {
	cfg := testConfig()
	first := NewManager(http.NewServeMux(), cfg, zaptest.NewLogger(t))
	require.NoError(t, first.Start())
	defer first.Shutdown(context.Background())

	cfg.Addr = first.Addr()
	second := NewManager(http.NewServeMux(), cfg, zaptest.NewLogger(t))
	assert.Error(t, second.Start())
}
