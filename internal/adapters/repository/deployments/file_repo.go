package deployments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/domain"
	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/usecase"
)

// ChainIDFile marks which chain a network directory belongs to
const ChainIDFile = ".chainId"

// FileRepository stores one network's deployments as
// <root>/<network>/<Contract>.json
type FileRepository struct {
	dir     string
	network string
	chainID uint64
	mu      sync.RWMutex
	records map[string]*domain.DeploymentRecord
}

// NewFileRepository loads the records of a network. A chainID of 0 accepts
// whatever chain the directory was written for.
func NewFileRepository(root, network string, chainID uint64) (*FileRepository, error) {
	m := &FileRepository{
		dir:     filepath.Join(root, network),
		network: network,
		chainID: chainID,
		records: make(map[string]*domain.DeploymentRecord),
	}

	if err := m.load(); err != nil {
		return nil, fmt.Errorf("failed to load deployments of %s: %w", network, err)
	}
	return m, nil
}

// NewEmptyFileRepository returns a store for the network directory without
// reading it. Whatever the directory holds is removed by Reset and replaced by Save.
func NewEmptyFileRepository(root, network string, chainID uint64) *FileRepository {
	return &FileRepository{
		dir:     filepath.Join(root, network),
		network: network,
		chainID: chainID,
		records: make(map[string]*domain.DeploymentRecord),
	}
}

// load reads the chain marker and every record file
func (m *FileRepository) load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := os.ReadFile(filepath.Join(m.dir, ChainIDFile))
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return err
	default:
		stored, perr := strconv.ParseUint(strings.TrimSpace(string(data)), 10, 64)
		if perr != nil {
			return fmt.Errorf("invalid %s: %w", ChainIDFile, perr)
		}
		if m.chainID != 0 && stored != m.chainID {
			return &domain.ConfigurationError{
				Network: m.network,
				ChainID: m.chainID,
				Reason:  fmt.Sprintf("%s holds deployments of chain %d, deploy with --reset to start over", m.dir, stored),
			}
		}
		m.chainID = stored
	}

	entries, err := os.ReadDir(m.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(m.dir, entry.Name()))
		if err != nil {
			return err
		}
		var record domain.DeploymentRecord
		if err := json.Unmarshal(data, &record); err != nil {
			return fmt.Errorf("failed to parse %s: %w", entry.Name(), err)
		}
		if record.ContractName == "" {
			record.ContractName = strings.TrimSuffix(entry.Name(), ".json")
		}
		m.records[record.ContractName] = &record
	}
	return nil
}

// saveFile writes through a temp file and renames it into place
func (m *FileRepository) saveFile(filename string, data []byte) error {
	if err := os.MkdirAll(m.dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", m.dir, err)
	}
	path := filepath.Join(m.dir, filename)
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}

// Get returns the record of a contract
func (m *FileRepository) Get(ctx context.Context, contractName string) (*domain.DeploymentRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.records[contractName]
	if !ok {
		return nil, fmt.Errorf("deployment %s on %s: %w", contractName, m.network, domain.ErrNotFound)
	}
	clone := *record
	return &clone, nil
}

// Save writes the record, replacing the previous deployment of the contract
func (m *FileRepository) Save(ctx context.Context, record *domain.DeploymentRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.chainID != 0 && record.ChainID != 0 && record.ChainID != m.chainID {
		return fmt.Errorf("record of chain %d cannot be stored with deployments of chain %d", record.ChainID, m.chainID)
	}
	if m.chainID == 0 {
		m.chainID = record.ChainID
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return err
	}
	if err := m.saveFile(record.ContractName+".json", data); err != nil {
		return fmt.Errorf("failed to save %s: %w", record.ContractName, err)
	}
	if err := m.saveFile(ChainIDFile, []byte(strconv.FormatUint(m.chainID, 10))); err != nil {
		return fmt.Errorf("failed to save %s: %w", ChainIDFile, err)
	}

	clone := *record
	m.records[record.ContractName] = &clone
	return nil
}

// List returns all records ordered by contract name
func (m *FileRepository) List(ctx context.Context) ([]*domain.DeploymentRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*domain.DeploymentRecord, 0, len(m.records))
	for _, name := range slices.Sorted(maps.Keys(m.records)) {
		clone := *m.records[name]
		out = append(out, &clone)
	}
	return out, nil
}

// Reset removes the network directory
func (m *FileRepository) Reset(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := os.RemoveAll(m.dir); err != nil {
		return fmt.Errorf("failed to remove %s: %w", m.dir, err)
	}
	m.records = make(map[string]*domain.DeploymentRecord)
	return nil
}

var _ usecase.DeploymentStore = (*FileRepository)(nil)
