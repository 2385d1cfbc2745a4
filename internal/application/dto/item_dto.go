package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateUnitRequest entrada para crear una unidad de medida.
type CreateUnitRequest struct {
	Name       string          `json:"name" validate:"required,min=1,max=50"`
	FactorBase decimal.Decimal `json:"factor_base"`
}

// UnitResponse salida de una unidad de medida.
type UnitResponse struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	FactorBase decimal.Decimal `json:"factor_base"`
}

// CreateItemRequest entrada para crear un material. El costo nunca se informa aquí.
type CreateItemRequest struct {
	Code        string          `json:"code" validate:"max=50"`
	Description string          `json:"description" validate:"required,min=1,max=255"`
	UnitID      string          `json:"unit_id"`
	MinStock    decimal.Decimal `json:"min_stock"`
	MaxStock    decimal.Decimal `json:"max_stock"`
	Active      *bool           `json:"active"`
}

// ItemResponse salida de un material.
type ItemResponse struct {
	ID          string          `json:"id"`
	TenantID    string          `json:"tenant_id"`
	Code        string          `json:"code,omitempty"`
	Description string          `json:"description"`
	UnitID      string          `json:"unit_id"`
	MinStock    decimal.Decimal `json:"min_stock"`
	MaxStock    decimal.Decimal `json:"max_stock"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ItemListResponse lista paginada de materiales.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
