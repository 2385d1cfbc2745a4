package http

import (
	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

func toMovementResponse(m *entity.Movement) dto.MovementResponse {
	lines := make([]dto.MovementLineResponse, 0, len(m.Lines))
	for _, l := range m.Lines {
		lines = append(lines, dto.MovementLineResponse{ID: l.ID, ItemID: l.ItemID, Quantity: l.Quantity, UnitCost: l.UnitCost})
	}
	return dto.MovementResponse{
		ID:          m.ID,
		Kind:        string(m.Kind),
		WarehouseID: m.WarehouseID,
		Date:        m.Date,
		Reference:   m.Reference,
		UserID:      m.UserID,
		Notes:       m.Notes,
		Applied:     m.Applied,
		Lines:       lines,
	}
}

func toTransferResponse(t *entity.Transfer) dto.TransferResponse {
	lines := make([]dto.TransferLineResponse, 0, len(t.Lines))
	for _, l := range t.Lines {
		lines = append(lines, dto.TransferLineResponse{
			ID: l.ID, ItemID: l.ItemID, Quantity: l.Quantity, DestinationUnitCost: l.DestinationUnitCost,
		})
	}
	return dto.TransferResponse{
		ID:                     t.ID,
		SourceWarehouseID:      t.SourceWarehouseID,
		DestinationWarehouseID: t.DestinationWarehouseID,
		Date:                   t.Date,
		Reference:              t.Reference,
		UserID:                 t.UserID,
		Notes:                  t.Notes,
		Applied:                t.Applied,
		Lines:                  lines,
	}
}

func toLedgerEntryResponse(e entity.LedgerEntry) dto.LedgerEntryResponse {
	return dto.LedgerEntryResponse{
		Seq:         e.Seq,
		MovementID:  e.MovementID,
		ItemID:      e.ItemID,
		WarehouseID: e.WarehouseID,
		Date:        e.Date,
		Kind:        string(e.Kind),
		Reference:   e.Reference,
		QtyIn:       e.QtyIn,
		QtyOut:      e.QtyOut,
		UnitCost:    e.UnitCost,
		BalanceQty:  e.BalanceQty,
		BalanceCost: e.BalanceCost,
	}
}

func toLedgerEntries(entries []entity.LedgerEntry) []dto.LedgerEntryResponse {
	out := make([]dto.LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toLedgerEntryResponse(e))
	}
	return out
}

func toApplyResponse(id string, res inventory.ApplyResult) *dto.ApplyResponse {
	return &dto.ApplyResponse{ID: id, AlreadyApplied: res.AlreadyApplied, Entries: toLedgerEntries(res.Entries)}
}

func toTransferApplyResponse(id string, res inventory.TransferResult) *dto.ApplyResponse {
	return &dto.ApplyResponse{
		ID:                id,
		AlreadyApplied:    res.AlreadyApplied,
		IssueMovementID:   res.IssueMovementID,
		ReceiptMovementID: res.ReceiptMovementID,
		Entries:           toLedgerEntries(res.Entries),
	}
}

func toStockStateResponse(s *entity.StockState) dto.StockStateResponse {
	return dto.StockStateResponse{
		ItemID:      s.ItemID,
		WarehouseID: s.WarehouseID,
		Quantity:    s.Quantity,
		AverageCost: s.AverageCost,
		TotalValue:  s.Quantity.Mul(s.AverageCost).Round(2),
		UpdatedAt:   s.UpdatedAt,
	}
}
