package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// defaultLedgerLimit máximo de asientos por respuesta cuando no se indica limit.
const defaultLedgerLimit = 1000

// StockHandler consultas de existencias, Kardex y reposición (protegido, solo lectura).
type StockHandler struct {
	stock         *inventory.StockUseCase
	replenishment *inventory.ReplenishmentUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(stock *inventory.StockUseCase, replenishment *inventory.ReplenishmentUseCase) *StockHandler {
	return &StockHandler{stock: stock, replenishment: replenishment}
}

// GetStock godoc
// @Summary      Existencias de una bodega
// @Description  Con item_id devuelve la existencia de ese material (cero si nunca tuvo movimientos).
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  true   "ID de la bodega"
// @Param        item_id       query  string  false  "ID del material"
// @Param        limit         query  int     false  "Tamaño de página"
// @Param        offset        query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.StockListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/stock [get]
func (h *StockHandler) GetStock(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	warehouseID := c.Query("warehouse_id")
	if itemID := c.Query("item_id"); itemID != "" {
		st, err := h.stock.GetStockState(c.UserContext(), entity.StockKey{
			TenantID: tenantID, ItemID: itemID, WarehouseID: warehouseID,
		})
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(toStockStateResponse(st))
	}

	page, err := pageFromQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	list, err := h.stock.ListStock(c.UserContext(), tenantID, warehouseID, page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	items := make([]dto.StockStateResponse, 0, len(list))
	for _, s := range list {
		items = append(items, toStockStateResponse(s))
	}
	return c.JSON(dto.StockListResponse{Items: items, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}})
}

// GetLedger godoc
// @Summary      Consultar Kardex
// @Description  Asientos ordenados por fecha y secuencia. from/to son días completos (YYYY-MM-DD, UTC).
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        item_id       query  string  false  "ID del material"
// @Param        warehouse_id  query  string  false  "ID de la bodega"
// @Param        from          query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to            query  string  false  "Hasta (YYYY-MM-DD), inclusivo"
// @Param        limit         query  int     false  "Máximo de asientos (por defecto 1000)"
// @Success      200  {object}  dto.LedgerResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/ledger [get]
func (h *StockHandler) GetLedger(c *fiber.Ctx) error {
	var q dto.LedgerQuery
	if err := bindQuery(c, &q); err != nil {
		return writeError(c, err)
	}
	filter, err := ledgerFilter(GetTenantID(c), q)
	if err != nil {
		return writeError(c, err)
	}
	limit := q.Limit
	if limit <= 0 {
		limit = defaultLedgerLimit
	}

	out := dto.LedgerResponse{Entries: make([]dto.LedgerEntryResponse, 0)}
	for e, err := range h.stock.QueryLedger(c.UserContext(), filter) {
		if err != nil {
			return writeError(c, err)
		}
		if len(out.Entries) == limit {
			out.Truncated = true
			break
		}
		out.Entries = append(out.Entries, toLedgerEntryResponse(e))
	}
	return c.JSON(out)
}

// ledgerFilter convierte fechas de calendario en un rango inclusivo [from 00:00, to 23:59:59.999999].
func ledgerFilter(tenantID string, q dto.LedgerQuery) (entity.LedgerFilter, error) {
	f := entity.LedgerFilter{TenantID: tenantID, ItemID: q.ItemID, WarehouseID: q.WarehouseID}
	if q.From != "" {
		from, err := time.Parse(time.DateOnly, q.From)
		if err != nil {
			return f, domain.Invalid("from", "debe tener formato YYYY-MM-DD")
		}
		f.From = &from
	}
	if q.To != "" {
		to, err := time.Parse(time.DateOnly, q.To)
		if err != nil {
			return f, domain.Invalid("to", "debe tener formato YYYY-MM-DD")
		}
		end := to.Add(24*time.Hour - time.Microsecond)
		f.To = &end
	}
	return f, nil
}

// ReplayLedger godoc
// @Summary      Verificar existencia contra el Kardex
// @Description  Reconstruye cantidad y costo promedio desde el Kardex y los compara con la existencia guardada.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        item_id       query  string  true  "ID del material"
// @Param        warehouse_id  query  string  true  "ID de la bodega"
// @Success      200  {object}  dto.ReplayResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/ledger/replay [get]
func (h *StockHandler) ReplayLedger(c *fiber.Ctx) error {
	key := entity.StockKey{TenantID: GetTenantID(c), ItemID: c.Query("item_id"), WarehouseID: c.Query("warehouse_id")}
	report, err := h.stock.ReplayLedger(c.UserContext(), key)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ReplayResponse{
		ItemID:       key.ItemID,
		WarehouseID:  key.WarehouseID,
		StoredQty:    report.Stored.Quantity,
		StoredCost:   report.Stored.AverageCost,
		ReplayedQty:  report.ReplayedQty,
		ReplayedCost: report.ReplayedCost,
		Entries:      report.Entries,
		Consistent:   report.Consistent,
	})
}

// BelowMinimum godoc
// @Summary      Materiales bajo el mínimo
// @Description  Materiales de la bodega con existencia menor a su stock mínimo, con cantidad sugerida.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  true  "ID de la bodega"
// @Success      200  {array}   dto.BelowMinimumDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/below-minimum [get]
func (h *StockHandler) BelowMinimum(c *fiber.Ctx) error {
	list, err := h.replenishment.BelowMinimum(c.UserContext(), GetTenantID(c), c.Query("warehouse_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"total": len(list),
		"items": list,
	})
}
