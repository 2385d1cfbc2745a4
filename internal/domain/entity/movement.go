package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementKind tipo declarado de un movimiento.
type MovementKind string

// Tipos de movimiento de inventario.
const (
	MovementKindReceipt    MovementKind = "RECEIPT"    // entrada
	MovementKindIssue      MovementKind = "ISSUE"      // salida
	MovementKindAdjustment MovementKind = "ADJUSTMENT" // ajuste (+ entrada, - salida)
)

// Valid indica si el tipo es uno de los soportados.
func (k MovementKind) Valid() bool {
	switch k {
	case MovementKindReceipt, MovementKindIssue, MovementKindAdjustment:
		return true
	}
	return false
}

// Movement cabecera de un movimiento. Applied pasa de false a true una sola vez.
type Movement struct {
	ID          string
	TenantID    string
	Kind        MovementKind
	WarehouseID string
	Date        time.Time
	Reference   string
	UserID      string
	Notes       string
	Applied     bool
	Lines       []MovementLine
	CreatedAt   time.Time
}

// MovementLine detalle de un movimiento. UnitCost nil = no informado.
type MovementLine struct {
	ID         string
	MovementID string
	ItemID     string
	Quantity   decimal.Decimal
	UnitCost   *decimal.Decimal
	Position   int // orden en que se redactó la línea
}

// ReceiptLike indica si la línea suma existencia (entrada o ajuste positivo).
func (l MovementLine) ReceiptLike(kind MovementKind) bool {
	switch kind {
	case MovementKindReceipt:
		return true
	case MovementKindAdjustment:
		return l.Quantity.GreaterThan(decimal.Zero)
	}
	return false
}
