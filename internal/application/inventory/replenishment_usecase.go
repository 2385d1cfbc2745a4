package inventory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

const itemScanPage = 200

// ReplenishmentUseCase lista los materiales de una bodega que están bajo su stock mínimo.
type ReplenishmentUseCase struct {
	itemRepo  repository.ItemRepository
	stockRepo repository.StockRepository
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(itemRepo repository.ItemRepository, stockRepo repository.StockRepository) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{itemRepo: itemRepo, stockRepo: stockRepo}
}

// BelowMinimum devuelve los materiales activos con mínimo configurado cuya existencia en la
// bodega es menor al mínimo, con la cantidad sugerida para llegar al máximo (o al mínimo si no
// hay máximo). Ordenados por déficit relativo descendente.
func (uc *ReplenishmentUseCase) BelowMinimum(ctx context.Context, tenantID, warehouseID string) ([]dto.BelowMinimumDTO, error) {
	if tenantID == "" || warehouseID == "" {
		return nil, domain.Invalid("warehouse_id", "es obligatorio")
	}

	out := []dto.BelowMinimumDTO{}
	for offset := 0; ; offset += itemScanPage {
		items, err := uc.itemRepo.ListByTenant(ctx, tenantID, itemScanPage, offset)
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			if !item.Active || !item.MinStock.GreaterThan(decimal.Zero) {
				continue
			}
			st, err := uc.stockRepo.Get(ctx, entity.StockKey{TenantID: tenantID, ItemID: item.ID, WarehouseID: warehouseID})
			if err != nil {
				return nil, err
			}
			if !item.BelowMinimum(st.Quantity) {
				continue
			}
			target := item.MinStock
			if item.MaxStock.GreaterThan(item.MinStock) {
				target = item.MaxStock
			}
			suggested := target.Sub(st.Quantity)
			out = append(out, dto.BelowMinimumDTO{
				ItemID:             item.ID,
				Code:               item.Code,
				Description:        item.Description,
				CurrentStock:       st.Quantity,
				MinStock:           item.MinStock,
				MaxStock:           item.MaxStock,
				SuggestedOrderQty:  suggested,
				AverageCost:        st.AverageCost,
				EstimatedOrderCost: suggested.Mul(st.AverageCost),
			})
		}
		if len(items) < itemScanPage {
			break
		}
	}

	// Mayor déficit relativo primero: (min - actual) / min
	deficit := func(d dto.BelowMinimumDTO) decimal.Decimal {
		return d.MinStock.Sub(d.CurrentStock).Div(d.MinStock)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return deficit(out[i]).GreaterThan(deficit(out[j]))
	})
	for i := range out {
		out[i].Priority = i + 1
	}
	return out, nil
}
