package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockKey identifica una existencia. Tenant + material + bodega.
type StockKey struct {
	TenantID    string
	ItemID      string
	WarehouseID string
}

// StockState existencia actual y costo promedio ponderado de un material en una bodega.
// Existed es false cuando la fila se creó en esta misma unidad de trabajo.
type StockState struct {
	TenantID    string
	ItemID      string
	WarehouseID string
	Quantity    decimal.Decimal
	AverageCost decimal.Decimal
	UpdatedAt   time.Time
	Existed     bool
}

// Key devuelve la llave de la existencia.
func (s *StockState) Key() StockKey {
	return StockKey{TenantID: s.TenantID, ItemID: s.ItemID, WarehouseID: s.WarehouseID}
}
