package inventory

import (
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Policy reglas configurables del costeo.
type Policy struct {
	// AllowNegativeStock permite que una salida deje la existencia en negativo.
	AllowNegativeStock bool
	// ZeroAdjustmentCostUsesAverage: un ajuste positivo con costo explícito 0 se valora
	// al promedio vigente en lugar de a cero.
	ZeroAdjustmentCostUsesAverage bool
}

// Posting resultado de aplicar una línea sobre una existencia; es lo que va al Kardex.
type Posting struct {
	QtyIn       decimal.Decimal
	QtyOut      decimal.Decimal
	UnitCost    decimal.Decimal
	BalanceQty  decimal.Decimal
	BalanceCost decimal.Decimal
}

// Post aplica una línea de movimiento a la existencia (muta state) y devuelve el asiento.
// No escribe nada: el llamador persiste state y el asiento en la misma transacción.
func Post(kind entity.MovementKind, line entity.MovementLine, state *entity.StockState, p Policy) (Posting, error) {
	if line.ReceiptLike(kind) {
		cost, err := ResolveReceiptCost(kind, line, state, p)
		if err != nil {
			return Posting{}, err
		}
		return ApplyReceipt(state, line.Quantity, cost), nil
	}
	return ApplyIssue(state, line.Quantity.Abs(), p.AllowNegativeStock)
}

// ResolveReceiptCost decide el costo unitario de una línea tipo entrada.
//   - costo informado: se usa (salvo ajuste en 0 con ZeroAdjustmentCostUsesAverage).
//   - ENTRADA sin costo: promedio vigente; si es la primera entrada del par material/bodega es un error.
//   - AJUSTE sin costo: promedio vigente.
func ResolveReceiptCost(kind entity.MovementKind, line entity.MovementLine, state *entity.StockState, p Policy) (decimal.Decimal, error) {
	if line.UnitCost != nil {
		if line.UnitCost.IsNegative() {
			return decimal.Zero, domain.Invalid("unit_cost", "no puede ser negativo")
		}
		if kind == entity.MovementKindAdjustment && line.UnitCost.IsZero() && p.ZeroAdjustmentCostUsesAverage {
			return state.AverageCost, nil
		}
		return *line.UnitCost, nil
	}
	if kind == entity.MovementKindReceipt && !state.Existed {
		return decimal.Zero, domain.Invalid("unit_cost", "es obligatorio en la primera entrada del material en la bodega")
	}
	return state.AverageCost, nil
}

// ApplyReceipt suma qty a la existencia y recalcula el promedio ponderado.
func ApplyReceipt(state *entity.StockState, qty, unitCost decimal.Decimal) Posting {
	newQty := state.Quantity.Add(qty)
	newCost := CostCalculator(state.Quantity, state.AverageCost, qty, unitCost)
	state.Quantity = newQty
	state.AverageCost = newCost
	return Posting{
		QtyIn:       qty,
		QtyOut:      decimal.Zero,
		UnitCost:    unitCost,
		BalanceQty:  newQty,
		BalanceCost: newCost,
	}
}

// ApplyIssue resta qty de la existencia al costo promedio vigente, que no cambia.
func ApplyIssue(state *entity.StockState, qty decimal.Decimal, allowNegative bool) (Posting, error) {
	newQty := state.Quantity.Sub(qty)
	if newQty.IsNegative() && !allowNegative {
		return Posting{}, &domain.InsufficientStockError{
			ItemID:      state.ItemID,
			WarehouseID: state.WarehouseID,
			Available:   state.Quantity,
			Requested:   qty,
		}
	}
	state.Quantity = newQty
	return Posting{
		QtyIn:       decimal.Zero,
		QtyOut:      qty,
		UnitCost:    state.AverageCost,
		BalanceQty:  newQty,
		BalanceCost: state.AverageCost,
	}, nil
}

// Replay recalcula cantidad y costo promedio a partir de asientos del Kardex en orden (fecha, seq).
// Debe coincidir con la existencia guardada para la misma llave.
func Replay(entries []entity.LedgerEntry) (qty, cost decimal.Decimal) {
	state := &entity.StockState{}
	for _, e := range entries {
		if e.QtyIn.GreaterThan(decimal.Zero) {
			ApplyReceipt(state, e.QtyIn, e.UnitCost)
			continue
		}
		state.Quantity = state.Quantity.Sub(e.QtyOut)
	}
	return state.Quantity, state.AverageCost
}
