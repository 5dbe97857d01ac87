package repository

import (
	"context"

	"github.com/yourusername/shopping-assistant/internal/domain/entity"
)

// CatalogRepository serves the read-only device and plan reference data.
type CatalogRepository interface {
	// Devices returns all devices in catalog order.
	Devices(ctx context.Context) ([]entity.Device, error)

	// Plans returns all plans in catalog order.
	Plans(ctx context.Context) ([]entity.Plan, error)

	// ReplaceAll swaps in a freshly loaded catalog.
	ReplaceAll(ctx context.Context, devices []entity.Device, plans []entity.Plan) error
}
