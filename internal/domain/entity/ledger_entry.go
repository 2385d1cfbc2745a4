package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry línea de Kardex. Solo se inserta; nunca se actualiza ni se borra.
// Seq es el orden de inserción y desempata entradas con la misma fecha.
type LedgerEntry struct {
	Seq         int64
	TenantID    string
	MovementID  string
	ItemID      string
	WarehouseID string
	Date        time.Time
	Kind        MovementKind
	Reference   string
	QtyIn       decimal.Decimal
	QtyOut      decimal.Decimal
	UnitCost    decimal.Decimal
	BalanceQty  decimal.Decimal
	BalanceCost decimal.Decimal
}

// LedgerFilter filtros de consulta del Kardex. Campos vacíos o nil = sin filtro.
type LedgerFilter struct {
	TenantID    string
	ItemID      string
	WarehouseID string
	From        *time.Time
	To          *time.Time
}

// LedgerCursor posición (fecha, seq) después de la cual continúa la consulta.
type LedgerCursor struct {
	Date time.Time
	Seq  int64
}
