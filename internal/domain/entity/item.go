package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Unit unidad de medida. FactorBase convierte a la unidad base (1 = es la base).
type Unit struct {
	ID         string
	Name       string
	FactorBase decimal.Decimal
}

// Item representa un material del inventario. El motor solo lo referencia, nunca lo modifica.
// MinStock/MaxStock en cero significan "sin umbral".
type Item struct {
	ID          string
	TenantID    string
	Code        string // opcional, único por tenant
	Description string
	UnitID      string
	MinStock    decimal.Decimal
	MaxStock    decimal.Decimal
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BelowMinimum indica si la cantidad está por debajo del mínimo configurado.
func (i *Item) BelowMinimum(qty decimal.Decimal) bool {
	return i.MinStock.GreaterThan(decimal.Zero) && qty.LessThan(i.MinStock)
}
