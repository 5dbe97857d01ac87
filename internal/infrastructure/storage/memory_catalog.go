package storage

import (
	"context"
	"sync"

	"github.com/yourusername/shopping-assistant/internal/domain/entity"
	"github.com/yourusername/shopping-assistant/internal/domain/repository"
)

type memoryCatalogRepository struct {
	mu      sync.RWMutex
	devices []entity.Device
	plans   []entity.Plan
}

// NewMemoryCatalogRepository creates an in-memory catalog repository.
// The catalog is read-only reference data; ReplaceAll swaps it wholesale
// after a load, nothing mutates individual entries.
func NewMemoryCatalogRepository() repository.CatalogRepository {
	return &memoryCatalogRepository{}
}

// Devices returns all devices in catalog order.
func (m *memoryCatalogRepository) Devices(ctx context.Context) ([]entity.Device, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]entity.Device, len(m.devices))
	copy(out, m.devices)
	return out, nil
}

// Plans returns all plans in catalog order.
func (m *memoryCatalogRepository) Plans(ctx context.Context) ([]entity.Plan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]entity.Plan, len(m.plans))
	copy(out, m.plans)
	return out, nil
}

// ReplaceAll swaps in a freshly loaded catalog.
func (m *memoryCatalogRepository) ReplaceAll(ctx context.Context, devices []entity.Device, plans []entity.Plan) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.devices = devices
	m.plans = plans
	return nil
}
