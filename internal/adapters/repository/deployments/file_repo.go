package deployments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/trebuchet-org/fundme/internal/domain"
	"github.com/trebuchet-org/fundme/internal/domain/config"
	"github.com/trebuchet-org/fundme/internal/usecase"
)

const (
	// ChainIDFile records which chain a network directory belongs to
	ChainIDFile = ".chainId"
	recordExt   = ".json"
)

// FileRepository stores deployment records as json files:
//
//	<deployments>/<network>/.chainId
//	<deployments>/<network>/<Contract>.json
type FileRepository struct {
	rootDir string
	mu      sync.RWMutex
}

// NewFileRepository creates a repository rooted at the project's deployments directory
func NewFileRepository(rootDir string) *FileRepository {
	return &FileRepository{rootDir: rootDir}
}

// NewRepository picks the store for the active network. In-process chains are
// discarded on exit, so their records are kept in memory.
func NewRepository(cfg *config.RuntimeConfig) usecase.DeploymentRepository {
	if cfg.Network != nil && cfg.Network.InProcess {
		return NewMemoryRepository()
	}
	return NewFileRepository(cfg.Project.DeploymentsDir(cfg.ProjectRoot))
}

// Get returns the record of contract on network
func (r *FileRepository) Get(ctx context.Context, network, contract string) (*domain.DeploymentRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, err := r.loadFile(r.recordPath(network, contract))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("no %s deployment on %s: %w", contract, network, domain.ErrNotFound)
	}
	return record, err
}

// Save writes the record, replacing any earlier record of the same contract
func (r *FileRepository) Save(ctx context.Context, record *domain.DeploymentRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	dir := filepath.Join(r.rootDir, record.Network)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create deployments directory: %w", err)
	}

	if err := r.checkChainID(record.Network, record.ChainID); err != nil {
		return err
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return err
	}
	return writeAtomic(r.recordPath(record.Network, record.Contract), data)
}

// List returns the records of one network, or of every network when network is empty
func (r *FileRepository) List(ctx context.Context, network string) ([]*domain.DeploymentRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	networks := []string{network}
	if network == "" {
		entries, err := os.ReadDir(r.rootDir)
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read deployments directory: %w", err)
		}
		networks = networks[:0]
		for _, entry := range entries {
			if entry.IsDir() {
				networks = append(networks, entry.Name())
			}
		}
	}

	var records []*domain.DeploymentRecord
	for _, name := range networks {
		entries, err := os.ReadDir(filepath.Join(r.rootDir, name))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read deployments of %s: %w", name, err)
		}
		for _, entry := range entries {
			if entry.IsDir() || filepath.Ext(entry.Name()) != recordExt {
				continue
			}
			record, err := r.loadFile(filepath.Join(r.rootDir, name, entry.Name()))
			if err != nil {
				return nil, err
			}
			records = append(records, record)
		}
	}
	return records, nil
}

// Reset deletes every record of network
func (r *FileRepository) Reset(ctx context.Context, network string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if network == "" {
		return fmt.Errorf("refusing to reset deployments without a network")
	}
	if err := os.RemoveAll(filepath.Join(r.rootDir, network)); err != nil {
		return fmt.Errorf("failed to reset deployments of %s: %w", network, err)
	}
	return nil
}

func (r *FileRepository) recordPath(network, contract string) string {
	return filepath.Join(r.rootDir, network, contract+recordExt)
}

// checkChainID writes the network's chain ID on first save and rejects records
// from another chain afterwards
func (r *FileRepository) checkChainID(network string, chainID uint64) error {
	path := filepath.Join(r.rootDir, network, ChainIDFile)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return writeAtomic(path, []byte(strconv.FormatUint(chainID, 10)))
	}
	if err != nil {
		return err
	}

	stored, err := strconv.ParseUint(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid %s in %s: %w", ChainIDFile, network, err)
	}
	if stored != chainID {
		return fmt.Errorf("%w: deployments/%s belongs to chain %d, record is for chain %d (use --reset)",
			domain.ErrNetworkMismatch, network, stored, chainID)
	}
	return nil
}

// loadFile reads one record
func (r *FileRepository) loadFile(path string) (*domain.DeploymentRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var record domain.DeploymentRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &record, nil
}

// writeAtomic writes to a temp file first and renames it over path
func writeAtomic(path string, data []byte) error {
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}

var _ usecase.DeploymentRepository = (*FileRepository)(nil)
