package deployments

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/domain"
	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/usecase"
)

// MemoryRepository keeps records for the lifetime of one process, used by the
// in-process chain and by unit test fixtures
type MemoryRepository struct {
	network string
	mu      sync.RWMutex
	records map[string]*domain.DeploymentRecord
}

// NewMemoryRepository creates an empty store
func NewMemoryRepository(network string) *MemoryRepository {
	return &MemoryRepository{network: network, records: make(map[string]*domain.DeploymentRecord)}
}

func (m *MemoryRepository) Get(ctx context.Context, contractName string) (*domain.DeploymentRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.records[contractName]
	if !ok {
		return nil, fmt.Errorf("deployment %s on %s: %w", contractName, m.network, domain.ErrNotFound)
	}
	clone := *record
	return &clone, nil
}

func (m *MemoryRepository) Save(ctx context.Context, record *domain.DeploymentRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	clone := *record
	m.records[record.ContractName] = &clone
	return nil
}

func (m *MemoryRepository) List(ctx context.Context) ([]*domain.DeploymentRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*domain.DeploymentRecord, 0, len(m.records))
	for _, name := range slices.Sorted(maps.Keys(m.records)) {
		clone := *m.records[name]
		out = append(out, &clone)
	}
	return out, nil
}

func (m *MemoryRepository) Reset(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records = make(map[string]*domain.DeploymentRecord)
	return nil
}

var _ usecase.DeploymentStore = (*MemoryRepository)(nil)
