package dto

import "github.com/shopspring/decimal"

// PageRequest paginación por offset para catálogos y existencias. El Kardex pagina por llave.
type PageRequest struct {
	Limit  int `query:"limit" validate:"min=0,max=100"`
	Offset int `query:"offset" validate:"min=0"`
}

// DefaultPage limit 0 pasa a 20.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// ErrorResponse cuerpo de error HTTP. Field acompaña a VALIDATION; Shortage a INSUFFICIENT_STOCK.
type ErrorResponse struct {
	Code     string         `json:"code"`
	Message  string         `json:"message"`
	Field    string         `json:"field,omitempty"`
	Shortage *StockShortage `json:"shortage,omitempty"`
}

// StockShortage par material/bodega que habría quedado en negativo.
type StockShortage struct {
	ItemID      string          `json:"item_id"`
	WarehouseID string          `json:"warehouse_id"`
	Available   decimal.Decimal `json:"available"`
	Requested   decimal.Decimal `json:"requested"`
}
