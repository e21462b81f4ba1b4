package deployments

import (
	"context"
	"fmt"
	"sync"

	"github.com/trebuchet-org/fundme/internal/domain"
	"github.com/trebuchet-org/fundme/internal/usecase"
)

// MemoryRepository keeps records for the lifetime of the process
type MemoryRepository struct {
	mu      sync.RWMutex
	records map[string]map[string]*domain.DeploymentRecord
}

// NewMemoryRepository creates an empty in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{records: make(map[string]map[string]*domain.DeploymentRecord)}
}

func (r *MemoryRepository) Get(ctx context.Context, network, contract string) (*domain.DeploymentRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[network][contract]
	if !ok {
		return nil, fmt.Errorf("no %s deployment on %s: %w", contract, network, domain.ErrNotFound)
	}
	clone := *record
	return &clone, nil
}

func (r *MemoryRepository) Save(ctx context.Context, record *domain.DeploymentRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.records[record.Network] == nil {
		r.records[record.Network] = make(map[string]*domain.DeploymentRecord)
	}
	clone := *record
	r.records[record.Network][record.Contract] = &clone
	return nil
}

func (r *MemoryRepository) List(ctx context.Context, network string) ([]*domain.DeploymentRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var records []*domain.DeploymentRecord
	for name, byContract := range r.records {
		if network != "" && name != network {
			continue
		}
		for _, record := range byContract {
			clone := *record
			records = append(records, &clone)
		}
	}
	return records, nil
}

func (r *MemoryRepository) Reset(ctx context.Context, network string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.records, network)
	return nil
}

var _ usecase.DeploymentRepository = (*MemoryRepository)(nil)
