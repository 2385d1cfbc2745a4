package inventory

import (
	"context"
	"iter"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/inventory"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// DefaultLedgerPageSize tamaño de página por defecto al recorrer el Kardex.
const DefaultLedgerPageSize = 500

// StockUseCase consultas de existencias y Kardex. Solo lectura.
type StockUseCase struct {
	stockRepo  repository.StockRepository
	ledgerRepo repository.LedgerRepository
	pageSize   int
}

// NewStockUseCase construye el caso de uso. pageSize <= 0 usa DefaultLedgerPageSize.
func NewStockUseCase(stockRepo repository.StockRepository, ledgerRepo repository.LedgerRepository, pageSize int) *StockUseCase {
	if pageSize <= 0 {
		pageSize = DefaultLedgerPageSize
	}
	return &StockUseCase{stockRepo: stockRepo, ledgerRepo: ledgerRepo, pageSize: pageSize}
}

// GetStockState devuelve existencia y costo promedio; en cero si el par nunca tuvo movimientos.
func (uc *StockUseCase) GetStockState(ctx context.Context, key entity.StockKey) (*entity.StockState, error) {
	if key.TenantID == "" || key.ItemID == "" || key.WarehouseID == "" {
		return nil, domain.Invalid("key", "tenant, material y bodega son obligatorios")
	}
	return uc.stockRepo.Get(ctx, key)
}

// ListStock lista existencias de una bodega con paginación.
func (uc *StockUseCase) ListStock(ctx context.Context, tenantID, warehouseID string, limit, offset int) ([]*entity.StockState, error) {
	if tenantID == "" || warehouseID == "" {
		return nil, domain.Invalid("warehouse_id", "es obligatorio")
	}
	return uc.stockRepo.ListByWarehouse(ctx, tenantID, warehouseID, limit, offset)
}

// QueryLedger recorre el Kardex en orden (fecha, seq) página por página. La secuencia es perezosa
// y se puede recorrer varias veces; cada recorrido vuelve a consultar desde el inicio.
// Un error se entrega como último elemento.
func (uc *StockUseCase) QueryLedger(ctx context.Context, filter entity.LedgerFilter) iter.Seq2[entity.LedgerEntry, error] {
	return func(yield func(entity.LedgerEntry, error) bool) {
		if filter.TenantID == "" {
			yield(entity.LedgerEntry{}, domain.Invalid("tenant_id", "es obligatorio"))
			return
		}
		if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
			yield(entity.LedgerEntry{}, domain.Invalid("to", "no puede ser anterior a from"))
			return
		}
		var after *entity.LedgerCursor
		for {
			page, err := uc.ledgerRepo.Page(ctx, filter, after, uc.pageSize)
			if err != nil {
				yield(entity.LedgerEntry{}, err)
				return
			}
			for _, e := range page {
				if !yield(e, nil) {
					return
				}
			}
			if len(page) < uc.pageSize {
				return
			}
			last := page[len(page)-1]
			after = &entity.LedgerCursor{Date: last.Date, Seq: last.Seq}
		}
	}
}

// ReplayReport existencia guardada frente a la reconstruida desde el Kardex.
type ReplayReport struct {
	Stored       *entity.StockState
	ReplayedQty  decimal.Decimal
	ReplayedCost decimal.Decimal
	Entries      int
	Consistent   bool
}

// ReplayLedger reconstruye cantidad y costo promedio desde el Kardex de un par material/bodega y
// los compara con la existencia guardada.
func (uc *StockUseCase) ReplayLedger(ctx context.Context, key entity.StockKey) (ReplayReport, error) {
	stored, err := uc.GetStockState(ctx, key)
	if err != nil {
		return ReplayReport{}, err
	}
	filter := entity.LedgerFilter{TenantID: key.TenantID, ItemID: key.ItemID, WarehouseID: key.WarehouseID}
	var entries []entity.LedgerEntry
	for e, err := range uc.QueryLedger(ctx, filter) {
		if err != nil {
			return ReplayReport{}, err
		}
		entries = append(entries, e)
	}
	qty, cost := inventory.Replay(entries)
	return ReplayReport{
		Stored:       stored,
		ReplayedQty:  qty,
		ReplayedCost: cost,
		Entries:      len(entries),
		Consistent:   qty.Equal(stored.Quantity) && cost.Equal(stored.AverageCost),
	}, nil
}
