package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transfer traspaso entre bodegas; se realiza como una salida en origen y una entrada en destino.
type Transfer struct {
	ID                     string
	TenantID               string
	SourceWarehouseID      string
	DestinationWarehouseID string
	Date                   time.Time
	Reference              string
	UserID                 string
	Notes                  string
	Applied                bool
	Lines                  []TransferLine
	CreatedAt              time.Time
}

// TransferLine detalle de traspaso. DestinationUnitCost nil = valorar al costo promedio del origen.
type TransferLine struct {
	ID                  string
	TransferID          string
	ItemID              string
	Quantity            decimal.Decimal
	DestinationUnitCost *decimal.Decimal
	Position            int
}

// LegReference referencia con la que se registran ambas piernas del traspaso.
func (t *Transfer) LegReference() string {
	return "TRASP-" + t.ID
}
