package anvil

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/fundme/internal/domain"
)

func newTestManager() *Manager {
	return NewManager(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestBuildAnvilArgs(t *testing.T) {
	tests := []struct {
		name     string
		instance *domain.AnvilInstance
		want     []string
	}{
		{
			name:     "basic",
			instance: &domain.AnvilInstance{Port: "8545"},
			want:     []string{"--port", "8545", "--host", "0.0.0.0"},
		},
		{
			name:     "with chain id",
			instance: &domain.AnvilInstance{Port: "9000", ChainID: "31337"},
			want:     []string{"--port", "9000", "--host", "0.0.0.0", "--chain-id", "31337"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildAnvilArgs(tt.instance))
		})
	}
}

func TestSetFilePaths(t *testing.T) {
	m := newTestManager()

	t.Run("default instance", func(t *testing.T) {
		instance := &domain.AnvilInstance{}
		m.setFilePaths(instance)

		assert.Equal(t, "anvil", instance.Name)
		assert.Equal(t, DefaultAnvilPort, instance.Port)
		assert.Equal(t, filepath.Join(os.TempDir(), "fundme-anvil.pid"), instance.PidFile)
		assert.Equal(t, filepath.Join(os.TempDir(), "fundme-anvil.log"), instance.LogFile)
	})

	t.Run("named instance", func(t *testing.T) {
		instance := &domain.AnvilInstance{Name: "localhost", Port: "9000"}
		m.setFilePaths(instance)

		assert.Equal(t, "9000", instance.Port)
		assert.Equal(t, filepath.Join(os.TempDir(), "fundme-localhost.pid"), instance.PidFile)
	})

	t.Run("preset paths preserved", func(t *testing.T) {
		instance := &domain.AnvilInstance{Name: "x", PidFile: "/custom/my.pid", LogFile: "/custom/my.log"}
		m.setFilePaths(instance)

		assert.Equal(t, "/custom/my.pid", instance.PidFile)
		assert.Equal(t, "/custom/my.log", instance.LogFile)
	})
}

// newMockRPCServer answers eth_blockNumber
func newMockRPCServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     json.RawMessage `json:"id"`
			Method string          `json:"method"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "eth_blockNumber", req.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":` + string(req.ID) + `,"result":"0x2a"}`))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestGetStatus(t *testing.T) {
	ctx := context.Background()
	m := newTestManager()
	dir := t.TempDir()

	t.Run("not running", func(t *testing.T) {
		instance := &domain.AnvilInstance{Name: "test", PidFile: filepath.Join(dir, "missing.pid"), LogFile: filepath.Join(dir, "a.log")}
		status, err := m.GetStatus(ctx, instance)
		require.NoError(t, err)
		assert.False(t, status.Running)
		assert.Equal(t, instance.LogFile, status.LogFile)
	})

	t.Run("running and healthy", func(t *testing.T) {
		server := newMockRPCServer(t)
		port := server.URL[strings.LastIndex(server.URL, ":")+1:]

		// The test process stands in for the node
		pidFile := filepath.Join(dir, "self.pid")
		require.NoError(t, os.WriteFile(pidFile, []byte(strconv.Itoa(os.Getpid())), 0644))

		status, err := m.GetStatus(ctx, &domain.AnvilInstance{Name: "test", Port: port, PidFile: pidFile, LogFile: filepath.Join(dir, "a.log")})
		require.NoError(t, err)
		assert.True(t, status.Running)
		assert.Equal(t, os.Getpid(), status.PID)
		assert.True(t, status.RPCHealthy)
		assert.Equal(t, "http://127.0.0.1:"+port, status.RPCURL)
	})
}

func TestStart_AlreadyRunning(t *testing.T) {
	dir := t.TempDir()
	pidFile := filepath.Join(dir, "self.pid")
	require.NoError(t, os.WriteFile(pidFile, []byte(strconv.Itoa(os.Getpid())), 0644))

	err := newTestManager().Start(context.Background(), &domain.AnvilInstance{Name: "test", PidFile: pidFile, LogFile: filepath.Join(dir, "a.log")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already running")
}

func TestStop_NotRunning(t *testing.T) {
	dir := t.TempDir()
	pidFile := filepath.Join(dir, "stale.pid")
	require.NoError(t, os.WriteFile(pidFile, []byte("not-a-pid"), 0644))

	require.NoError(t, newTestManager().Stop(context.Background(), &domain.AnvilInstance{Name: "test", PidFile: pidFile}))
	_, err := os.Stat(pidFile)
	assert.True(t, os.IsNotExist(err))
}

func TestStreamLogs(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "anvil.log")
	require.NoError(t, os.WriteFile(logFile, []byte("Listening on 0.0.0.0:8545\n"), 0644))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	var buf bytes.Buffer
	err := newTestManager().StreamLogs(ctx, &domain.AnvilInstance{Name: "test", PidFile: filepath.Join(dir, "a.pid"), LogFile: logFile}, &buf)
	require.NoError(t, err)
	assert.Equal(t, "Listening on 0.0.0.0:8545\n", buf.String())

	err = newTestManager().StreamLogs(context.Background(), &domain.AnvilInstance{Name: "test", PidFile: "x", LogFile: filepath.Join(dir, "missing.log")}, &buf)
	assert.Error(t, err)
}
