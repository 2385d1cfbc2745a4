package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementLineRequest línea de un movimiento. UnitCost se omite para valorar al promedio.
type MovementLineRequest struct {
	ItemID   string           `json:"item_id" validate:"required"`
	Quantity decimal.Decimal  `json:"quantity"`
	UnitCost *decimal.Decimal `json:"unit_cost,omitempty"`
}

// CreateMovementRequest body para POST /api/inventory/movements.
type CreateMovementRequest struct {
	Kind        string                `json:"kind" validate:"required,oneof=RECEIPT ISSUE ADJUSTMENT"`
	WarehouseID string                `json:"warehouse_id" validate:"required"`
	Reference   string                `json:"reference" validate:"max=100"`
	Notes       string                `json:"notes"`
	Lines       []MovementLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// TransferLineRequest línea de traspaso. DestinationUnitCost sobreescribe el promedio del origen.
type TransferLineRequest struct {
	ItemID              string           `json:"item_id" validate:"required"`
	Quantity            decimal.Decimal  `json:"quantity"`
	DestinationUnitCost *decimal.Decimal `json:"destination_unit_cost,omitempty"`
}

// CreateTransferRequest body para POST /api/inventory/transfers.
type CreateTransferRequest struct {
	SourceWarehouseID      string                `json:"source_warehouse_id" validate:"required"`
	DestinationWarehouseID string                `json:"destination_warehouse_id" validate:"required,nefield=SourceWarehouseID"`
	Reference              string                `json:"reference" validate:"max=100"`
	Notes                  string                `json:"notes"`
	Lines                  []TransferLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// MovementLineResponse salida de una línea de movimiento.
type MovementLineResponse struct {
	ID       string           `json:"id"`
	ItemID   string           `json:"item_id"`
	Quantity decimal.Decimal  `json:"quantity"`
	UnitCost *decimal.Decimal `json:"unit_cost,omitempty"`
}

// MovementResponse salida de un movimiento.
type MovementResponse struct {
	ID          string                 `json:"id"`
	Kind        string                 `json:"kind"`
	WarehouseID string                 `json:"warehouse_id"`
	Date        time.Time              `json:"date"`
	Reference   string                 `json:"reference"`
	UserID      string                 `json:"user_id,omitempty"`
	Notes       string                 `json:"notes,omitempty"`
	Applied     bool                   `json:"applied"`
	Lines       []MovementLineResponse `json:"lines"`
	Apply       *ApplyResponse         `json:"apply,omitempty"` // solo con ?apply=true
}

// TransferLineResponse salida de una línea de traspaso.
type TransferLineResponse struct {
	ID                  string           `json:"id"`
	ItemID              string           `json:"item_id"`
	Quantity            decimal.Decimal  `json:"quantity"`
	DestinationUnitCost *decimal.Decimal `json:"destination_unit_cost,omitempty"`
}

// TransferResponse salida de un traspaso.
type TransferResponse struct {
	ID                     string                 `json:"id"`
	SourceWarehouseID      string                 `json:"source_warehouse_id"`
	DestinationWarehouseID string                 `json:"destination_warehouse_id"`
	Date                   time.Time              `json:"date"`
	Reference              string                 `json:"reference"`
	UserID                 string                 `json:"user_id,omitempty"`
	Notes                  string                 `json:"notes,omitempty"`
	Applied                bool                   `json:"applied"`
	Lines                  []TransferLineResponse `json:"lines"`
	Apply                  *ApplyResponse         `json:"apply,omitempty"`
}

// ApplyResponse resultado de aplicar un movimiento o traspaso. Los IDs de las piernas solo
// vienen en traspasos aplicados en esta llamada.
type ApplyResponse struct {
	ID                string                `json:"id"`
	AlreadyApplied    bool                  `json:"already_applied"`
	IssueMovementID   string                `json:"issue_movement_id,omitempty"`
	ReceiptMovementID string                `json:"receipt_movement_id,omitempty"`
	Entries           []LedgerEntryResponse `json:"entries"`
}

// StockStateResponse existencia y costo promedio de un material en una bodega.
type StockStateResponse struct {
	ItemID      string          `json:"item_id"`
	WarehouseID string          `json:"warehouse_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	AverageCost decimal.Decimal `json:"average_cost"`
	TotalValue  decimal.Decimal `json:"total_value"` // Quantity * AverageCost
	UpdatedAt   time.Time       `json:"updated_at,omitempty"`
}

// StockListResponse lista paginada de existencias de una bodega.
type StockListResponse struct {
	Items []StockStateResponse `json:"items"`
	Page  PageResponse         `json:"page"`
}

// LedgerEntryResponse línea de Kardex.
type LedgerEntryResponse struct {
	Seq         int64           `json:"seq"`
	MovementID  string          `json:"movement_id"`
	ItemID      string          `json:"item_id"`
	WarehouseID string          `json:"warehouse_id"`
	Date        time.Time       `json:"date"`
	Kind        string          `json:"kind"`
	Reference   string          `json:"reference"`
	QtyIn       decimal.Decimal `json:"qty_in"`
	QtyOut      decimal.Decimal `json:"qty_out"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	BalanceQty  decimal.Decimal `json:"balance_qty"`
	BalanceCost decimal.Decimal `json:"balance_cost"`
}

// LedgerQuery filtros de GET /api/inventory/ledger. Fechas en formato YYYY-MM-DD, inclusivas.
type LedgerQuery struct {
	ItemID      string `query:"item_id"`
	WarehouseID string `query:"warehouse_id"`
	From        string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To          string `query:"to" validate:"omitempty,datetime=2006-01-02"`
	Limit       int    `query:"limit" validate:"min=0,max=5000"`
}

// LedgerResponse resultado de la consulta del Kardex.
type LedgerResponse struct {
	Entries   []LedgerEntryResponse `json:"entries"`
	Truncated bool                  `json:"truncated"`
}

// ReplayResponse comparación entre la existencia guardada y la reconstruida desde el Kardex.
type ReplayResponse struct {
	ItemID       string          `json:"item_id"`
	WarehouseID  string          `json:"warehouse_id"`
	StoredQty    decimal.Decimal `json:"stored_qty"`
	StoredCost   decimal.Decimal `json:"stored_cost"`
	ReplayedQty  decimal.Decimal `json:"replayed_qty"`
	ReplayedCost decimal.Decimal `json:"replayed_cost"`
	Entries      int             `json:"entries"`
	Consistent   bool            `json:"consistent"`
}

// BelowMinimumDTO material por debajo de su stock mínimo en una bodega.
type BelowMinimumDTO struct {
	ItemID             string          `json:"item_id"`
	Code               string          `json:"code"`
	Description        string          `json:"description"`
	CurrentStock       decimal.Decimal `json:"current_stock"`
	MinStock           decimal.Decimal `json:"min_stock"`
	MaxStock           decimal.Decimal `json:"max_stock"`
	SuggestedOrderQty  decimal.Decimal `json:"suggested_order_qty"` // MaxStock (o MinStock) - CurrentStock
	AverageCost        decimal.Decimal `json:"average_cost"`
	EstimatedOrderCost decimal.Decimal `json:"estimated_order_cost"` // SuggestedOrderQty * AverageCost
	Priority           int             `json:"priority"`             // 1 = mayor déficit relativo
}

// NextSequenceResponse siguiente valor de un consecutivo.
type NextSequenceResponse struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}
