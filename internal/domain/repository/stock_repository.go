package repository

import (
	"context"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// StockRepository define el puerto para consultar/actualizar existencias por tenant+material+bodega.
type StockRepository interface {
	// Get lectura sin bloqueo; si no existe devuelve existencia en cero.
	Get(ctx context.Context, key entity.StockKey) (*entity.StockState, error)
	// GetForUpdate lectura bloqueada (SELECT FOR UPDATE). Crea la fila en cero si no existe;
	// en ese caso Existed es false.
	GetForUpdate(ctx context.Context, key entity.StockKey) (*entity.StockState, error)
	Save(ctx context.Context, state *entity.StockState) error
	ListByWarehouse(ctx context.Context, tenantID, warehouseID string, limit, offset int) ([]*entity.StockState, error)
}
