package anvil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/trebuchet-org/fundme/internal/domain"
	"github.com/trebuchet-org/fundme/internal/usecase"
)

const (
	DefaultAnvilPort = "8545"
	defaultName      = "anvil"
)

var (
	// startupTimeout bounds how long Start waits for the RPC to come up
	startupTimeout = 10 * time.Second
	// logPollInterval is how often StreamLogs checks for new output
	logPollInterval = 250 * time.Millisecond
)

// Manager runs anvil as a background process tracked by pid and log files
type Manager struct {
	binary string
	log    *slog.Logger
}

// NewManager creates a new anvil manager
func NewManager(log *slog.Logger) *Manager {
	return &Manager{
		binary: "anvil",
		log:    log.With("component", "AnvilManager"),
	}
}

// Start launches anvil and waits until its RPC answers
func (m *Manager) Start(ctx context.Context, instance *domain.AnvilInstance) error {
	m.setFilePaths(instance)

	if pid, running := m.isRunning(instance); running {
		return fmt.Errorf("anvil '%s' is already running (PID %d, pid file %s)", instance.Name, pid, instance.PidFile)
	}

	logFile, err := os.Create(instance.LogFile)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}
	defer logFile.Close()

	cmd := exec.Command(m.binary, buildAnvilArgs(instance)...) //nolint:gosec // fixed binary, args built from validated port and chain id
	cmd.Stdout = logFile
	cmd.Stderr = logFile

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start anvil: %w", err)
	}
	m.log.Debug("anvil started", "pid", cmd.Process.Pid, "args", cmd.Args)

	if err := writePidFile(instance.PidFile, cmd.Process.Pid); err != nil {
		_ = cmd.Process.Kill()
		return fmt.Errorf("failed to write PID file: %w", err)
	}
	_ = cmd.Process.Release()

	waitCtx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()
	err = retry.Do(
		func() error { return checkRPCHealth(waitCtx, rpcURL(instance)) },
		retry.Context(waitCtx),
		retry.Attempts(0),
		retry.Delay(200*time.Millisecond),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return fmt.Errorf("anvil '%s' did not become healthy (see %s): %w", instance.Name, instance.LogFile, err)
	}
	return nil
}

// Stop sends SIGTERM and waits for the process to exit. Stopping a node that
// is not running is not an error.
func (m *Manager) Stop(ctx context.Context, instance *domain.AnvilInstance) error {
	m.setFilePaths(instance)

	pid, running := m.isRunning(instance)
	if !running {
		_ = os.Remove(instance.PidFile)
		return nil
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("failed to find process: %w", err)
	}
	if err := process.Signal(syscall.SIGTERM); err != nil {
		if err := process.Kill(); err != nil {
			return fmt.Errorf("failed to kill process: %w", err)
		}
	}

	// The node is not our child, so poll for it to disappear
	err = retry.Do(
		func() error {
			if processAlive(pid) {
				return errors.New("still running")
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(50),
		retry.Delay(100*time.Millisecond),
		retry.DelayType(retry.FixedDelay),
	)
	if err != nil {
		// Force kill if SIGTERM didn't work in time
		_ = process.Kill()
	}

	if err := os.Remove(instance.PidFile); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove PID file: %w", err)
	}
	return nil
}

// GetStatus reports whether the node runs and answers RPC
func (m *Manager) GetStatus(ctx context.Context, instance *domain.AnvilInstance) (*domain.AnvilStatus, error) {
	m.setFilePaths(instance)

	status := &domain.AnvilStatus{LogFile: instance.LogFile}
	pid, running := m.isRunning(instance)
	if !running {
		return status, nil
	}

	status.Running = true
	status.PID = pid
	status.RPCURL = rpcURL(instance)
	if err := checkRPCHealth(ctx, status.RPCURL); err != nil {
		status.Error = err.Error()
	} else {
		status.RPCHealthy = true
	}
	return status, nil
}

// StreamLogs copies the log file to writer and follows it until ctx is done
func (m *Manager) StreamLogs(ctx context.Context, instance *domain.AnvilInstance, writer io.Writer) error {
	m.setFilePaths(instance)

	file, err := os.Open(instance.LogFile)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("log file does not exist: %s", instance.LogFile)
		}
		return err
	}
	defer file.Close()

	ticker := time.NewTicker(logPollInterval)
	defer ticker.Stop()
	for {
		if _, err := io.Copy(writer, file); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// setFilePaths fills in defaults for the instance name, port and state files
func (m *Manager) setFilePaths(instance *domain.AnvilInstance) {
	if strings.TrimSpace(instance.Name) == "" {
		instance.Name = defaultName
	}
	if strings.TrimSpace(instance.Port) == "" {
		instance.Port = DefaultAnvilPort
	}
	base := os.TempDir()
	if instance.PidFile == "" {
		instance.PidFile = filepath.Join(base, fmt.Sprintf("fundme-%s.pid", instance.Name))
	}
	if instance.LogFile == "" {
		instance.LogFile = filepath.Join(base, fmt.Sprintf("fundme-%s.log", instance.Name))
	}
}

func (m *Manager) isRunning(instance *domain.AnvilInstance) (int, bool) {
	pid, err := readPidFile(instance.PidFile)
	if err != nil {
		return 0, false
	}
	return pid, processAlive(pid)
}

func buildAnvilArgs(instance *domain.AnvilInstance) []string {
	args := []string{"--port", instance.Port, "--host", "0.0.0.0"}
	if instance.ChainID != "" {
		args = append(args, "--chain-id", instance.ChainID)
	}
	return args
}

func rpcURL(instance *domain.AnvilInstance) string {
	return "http://127.0.0.1:" + instance.Port
}

// checkRPCHealth calls eth_blockNumber
func checkRPCHealth(ctx context.Context, url string) error {
	client, err := rpc.DialContext(ctx, url)
	if err != nil {
		return err
	}
	defer client.Close()

	var head hexutil.Uint64
	return client.CallContext(ctx, &head, "eth_blockNumber")
}

func processAlive(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return process.Signal(syscall.Signal(0)) == nil
}

func readPidFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("invalid PID in file: %s", string(data))
	}
	return pid, nil
}

func writePidFile(path string, pid int) error {
	return os.WriteFile(path, []byte(strconv.Itoa(pid)), 0644)
}

var _ usecase.AnvilManager = (*Manager)(nil)
