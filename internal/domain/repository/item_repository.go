package repository

import (
	"context"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// ItemRepository define el puerto de persistencia para materiales y unidades.
// GetByID devuelve (nil, nil) cuando no existe en el tenant.
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.Item, error)
	ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]*entity.Item, error)

	CreateUnit(ctx context.Context, unit *entity.Unit) error
	GetUnit(ctx context.Context, id string) (*entity.Unit, error)
}
