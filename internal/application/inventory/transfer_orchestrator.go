package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// TransferOrchestrator realiza un traspaso como dos movimientos (salida en origen, entrada en
// destino) dentro de una sola transacción. Comparte política y logger con el motor de costeo.
type TransferOrchestrator struct {
	engine *CostingEngine
}

// NewTransferOrchestrator construye el orquestador sobre el motor.
func NewTransferOrchestrator(engine *CostingEngine) *TransferOrchestrator {
	return &TransferOrchestrator{engine: engine}
}

// TransferResult resultado de aplicar un traspaso.
type TransferResult struct {
	AlreadyApplied    bool
	IssueMovementID   string
	ReceiptMovementID string
	Entries           []entity.LedgerEntry
}

// ApplyTransfer aplica el traspaso una sola vez. Los bloqueos de ambas bodegas se toman al inicio
// en orden canónico. La entrada en destino se valora al promedio del origen leído después de la
// salida, salvo que la línea traiga costo de destino.
func (o *TransferOrchestrator) ApplyTransfer(ctx context.Context, tenantID, transferID string) (TransferResult, error) {
	e := o.engine
	if tenantID == "" {
		return TransferResult{}, domain.Invalid("tenant_id", "es obligatorio")
	}
	if transferID == "" {
		return TransferResult{}, domain.Invalid("transfer_id", "es obligatorio")
	}

	var (
		res TransferResult
		tr  *entity.Transfer
	)
	err := e.txRunner.Run(ctx, func(ctx context.Context, repos TxRepos) error {
		var err error
		tr, err = repos.Transfers.GetForUpdate(ctx, tenantID, transferID)
		if err != nil {
			return err
		}
		if tr == nil {
			return domain.ErrNotFound
		}
		if tr.Applied {
			res.AlreadyApplied = true
			return nil
		}
		if tr.SourceWarehouseID == tr.DestinationWarehouseID {
			return domain.Invalid("destination_warehouse_id", "debe ser distinta de la bodega origen")
		}
		if len(tr.Lines) == 0 {
			return domain.Invalid("lines", "el traspaso no tiene líneas")
		}

		keys := make([]entity.StockKey, 0, 2*len(tr.Lines))
		for _, l := range tr.Lines {
			keys = append(keys,
				entity.StockKey{TenantID: tenantID, ItemID: l.ItemID, WarehouseID: tr.SourceWarehouseID},
				entity.StockKey{TenantID: tenantID, ItemID: l.ItemID, WarehouseID: tr.DestinationWarehouseID},
			)
		}
		states, err := lockStock(ctx, repos, keys)
		if err != nil {
			return err
		}

		now := e.now()
		issue := legMovement(tr, entity.MovementKindIssue, tr.SourceWarehouseID, now)
		for i, l := range tr.Lines {
			issue.Lines = append(issue.Lines, entity.MovementLine{
				ID:         uuid.New().String(),
				MovementID: issue.ID,
				ItemID:     l.ItemID,
				Quantity:   l.Quantity,
				Position:   i,
			})
		}
		outEntries, err := o.postLeg(ctx, repos, issue, states)
		if err != nil {
			return err
		}

		receipt := legMovement(tr, entity.MovementKindReceipt, tr.DestinationWarehouseID, now)
		for i, l := range tr.Lines {
			cost := l.DestinationUnitCost
			if cost == nil {
				src := states[entity.StockKey{TenantID: tenantID, ItemID: l.ItemID, WarehouseID: tr.SourceWarehouseID}]
				avg := src.AverageCost
				cost = &avg
			}
			receipt.Lines = append(receipt.Lines, entity.MovementLine{
				ID:         uuid.New().String(),
				MovementID: receipt.ID,
				ItemID:     l.ItemID,
				Quantity:   l.Quantity,
				UnitCost:   cost,
				Position:   i,
			})
		}
		inEntries, err := o.postLeg(ctx, repos, receipt, states)
		if err != nil {
			return err
		}

		if err := repos.Transfers.MarkApplied(ctx, tenantID, transferID); err != nil {
			return err
		}
		res.IssueMovementID = issue.ID
		res.ReceiptMovementID = receipt.ID
		res.Entries = append(outEntries, inEntries...)
		return nil
	})
	if err != nil {
		e.logFailure(err).
			Str("tenant_id", tenantID).
			Str("transfer_id", transferID).
			Msg("traspaso no aplicado")
		return TransferResult{}, err
	}
	if res.AlreadyApplied {
		return res, nil
	}

	e.log.Info().
		Str("tenant_id", tenantID).
		Str("transfer_id", transferID).
		Str("issue_movement_id", res.IssueMovementID).
		Str("receipt_movement_id", res.ReceiptMovementID).
		Msg("traspaso aplicado")
	e.publish(ctx, Event{
		Type:       EventTransferApplied,
		TenantID:   tenantID,
		EntityID:   transferID,
		Reference:  tr.LegReference(),
		UserID:     tr.UserID,
		OccurredAt: e.now(),
		Entries:    res.Entries,
	})
	return res, nil
}

// postLeg guarda una pierna del traspaso, la aplica y la marca como aplicada.
func (o *TransferOrchestrator) postLeg(ctx context.Context, repos TxRepos, mov *entity.Movement, states map[entity.StockKey]*entity.StockState) ([]entity.LedgerEntry, error) {
	if err := repos.Movements.Create(ctx, mov); err != nil {
		return nil, err
	}
	entries, err := o.engine.post(ctx, repos, mov, states)
	if err != nil {
		return nil, err
	}
	if err := repos.Movements.MarkApplied(ctx, mov.TenantID, mov.ID); err != nil {
		return nil, err
	}
	mov.Applied = true
	return entries, nil
}

func legMovement(tr *entity.Transfer, kind entity.MovementKind, warehouseID string, now time.Time) *entity.Movement {
	return &entity.Movement{
		ID:          uuid.New().String(),
		TenantID:    tr.TenantID,
		Kind:        kind,
		WarehouseID: warehouseID,
		Date:        now,
		Reference:   tr.LegReference(),
		UserID:      tr.UserID,
		Notes:       tr.Notes,
		Lines:       make([]entity.MovementLine, 0, len(tr.Lines)),
		CreatedAt:   now,
	}
}
