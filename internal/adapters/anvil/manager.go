package anvil

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/domain"
	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/usecase"
)

const (
	DefaultAnvilName = "anvil"
	DefaultAnvilPort = "8545"
)

// Manager runs anvil as a detached process tracked by a PID file
type Manager struct {
	binary  string
	tempDir string
	// startupTimeout bounds how long Start waits for the RPC to answer
	startupTimeout time.Duration
}

// NewManager creates a new anvil manager
func NewManager() *Manager {
	return &Manager{binary: "anvil", tempDir: os.TempDir(), startupTimeout: 5 * time.Second}
}

// Start launches anvil and waits until its RPC answers
func (m *Manager) Start(ctx context.Context, instance *domain.AnvilInstance) error {
	m.setFilePaths(instance)
	if m.isRunning(instance) {
		return fmt.Errorf("anvil '%s' is already running (PID file exists at %s)", instance.Name, instance.PidFile)
	}

	logFile, err := os.Create(instance.LogFile)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}
	defer logFile.Close()

	cmd := exec.Command(m.binary, buildAnvilArgs(instance)...)
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start anvil: %w", err)
	}
	if err := os.WriteFile(instance.PidFile, []byte(strconv.Itoa(cmd.Process.Pid)), 0644); err != nil {
		_ = cmd.Process.Kill()
		return fmt.Errorf("failed to write PID file: %w", err)
	}
	_ = cmd.Process.Release()

	waitCtx, cancel := context.WithTimeout(ctx, m.startupTimeout)
	defer cancel()
	for {
		if _, err := m.checkRPCHealth(waitCtx, instance); err == nil {
			return nil
		}
		select {
		case <-waitCtx.Done():
			return fmt.Errorf("anvil did not answer on port %s, see %s", instance.Port, instance.LogFile)
		case <-time.After(100 * time.Millisecond):
		}
	}
}

// Stop terminates the process and removes the PID file
func (m *Manager) Stop(ctx context.Context, instance *domain.AnvilInstance) error {
	m.setFilePaths(instance)
	pid, err := readPidFile(instance.PidFile)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read PID file: %w", err)
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("failed to find process: %w", err)
	}
	if err := process.Signal(syscall.SIGTERM); err != nil && !errors.Is(err, os.ErrProcessDone) {
		if err := process.Kill(); err != nil {
			return fmt.Errorf("failed to kill process: %w", err)
		}
	}

	deadline := time.Now().Add(5 * time.Second)
	for processAlive(pid) && time.Now().Before(deadline) {
		time.Sleep(100 * time.Millisecond)
	}
	if processAlive(pid) {
		_ = process.Kill()
	}

	if err := os.Remove(instance.PidFile); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove PID file: %w", err)
	}
	return nil
}

// GetStatus reports the process and RPC state
func (m *Manager) GetStatus(ctx context.Context, instance *domain.AnvilInstance) (*domain.AnvilStatus, error) {
	m.setFilePaths(instance)
	status := &domain.AnvilStatus{
		RPCURL:  rpcURL(instance),
		LogFile: instance.LogFile,
	}

	pid, err := readPidFile(instance.PidFile)
	if err != nil {
		return status, nil
	}
	status.PID = pid
	status.Running = processAlive(pid)
	if !status.Running {
		return status, nil
	}

	chainID, err := m.checkRPCHealth(ctx, instance)
	if err != nil {
		status.Error = err.Error()
		return status, nil
	}
	status.RPCHealthy = true
	status.ChainID = chainID
	return status, nil
}

// setFilePaths fills in defaults and the per-instance PID and log files
func (m *Manager) setFilePaths(instance *domain.AnvilInstance) {
	if strings.TrimSpace(instance.Name) == "" {
		instance.Name = DefaultAnvilName
	}
	if strings.TrimSpace(instance.Port) == "" {
		instance.Port = DefaultAnvilPort
	}
	if instance.PidFile == "" {
		instance.PidFile = filepath.Join(m.tempDir, fmt.Sprintf("fundme-%s.pid", instance.Name))
	}
	if instance.LogFile == "" {
		instance.LogFile = filepath.Join(m.tempDir, fmt.Sprintf("fundme-%s.log", instance.Name))
	}
}

// isRunning checks the PID file and the process behind it
func (m *Manager) isRunning(instance *domain.AnvilInstance) bool {
	pid, err := readPidFile(instance.PidFile)
	return err == nil && processAlive(pid)
}

// checkRPCHealth asks the node for its chain id
func (m *Manager) checkRPCHealth(ctx context.Context, instance *domain.AnvilInstance) (uint64, error) {
	client, err := ethclient.DialContext(ctx, rpcURL(instance))
	if err != nil {
		return 0, err
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	chainID, err := client.ChainID(ctx)
	if err != nil {
		return 0, fmt.Errorf("RPC not responding: %w", err)
	}
	return chainID.Uint64(), nil
}

func buildAnvilArgs(instance *domain.AnvilInstance) []string {
	args := []string{"--port", instance.Port, "--host", "0.0.0.0"}
	if instance.ChainID != "" {
		args = append(args, "--chain-id", instance.ChainID)
	}
	return args
}

func rpcURL(instance *domain.AnvilInstance) string {
	return fmt.Sprintf("http://127.0.0.1:%s", instance.Port)
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

func processAlive(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return process.Signal(syscall.Signal(0)) == nil
}

var _ usecase.AnvilManager = (*Manager)(nil)
