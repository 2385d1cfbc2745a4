package inventory

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/inventory"
)

// CostingEngine aplica movimientos ya guardados a las existencias con promedio ponderado
// y escribe una línea de Kardex por cada línea del movimiento. Todo en una sola transacción.
type CostingEngine struct {
	txRunner TxRunner
	policy   inventory.Policy
	events   EventPublisher
	log      zerolog.Logger
	now      func() time.Time
}

// NewCostingEngine construye el motor. events puede ser nil.
func NewCostingEngine(txRunner TxRunner, policy inventory.Policy, events EventPublisher, log zerolog.Logger) *CostingEngine {
	return &CostingEngine{
		txRunner: txRunner,
		policy:   policy,
		events:   events,
		log:      log.With().Str("component", "costing_engine").Logger(),
		now:      time.Now,
	}
}

// ApplyResult resultado de aplicar un movimiento. AlreadyApplied no es un error.
type ApplyResult struct {
	AlreadyApplied bool
	Entries        []entity.LedgerEntry
}

// ApplyMovement bloquea la cabecera del movimiento y sus existencias, aplica las líneas en el
// orden en que se redactaron, marca el movimiento como aplicado y hace Commit.
// Si el movimiento ya estaba aplicado no hace nada. Cualquier error revierte todo.
func (e *CostingEngine) ApplyMovement(ctx context.Context, tenantID, movementID string) (ApplyResult, error) {
	if tenantID == "" {
		return ApplyResult{}, domain.Invalid("tenant_id", "es obligatorio")
	}
	if movementID == "" {
		return ApplyResult{}, domain.Invalid("movement_id", "es obligatorio")
	}

	var (
		res ApplyResult
		mov *entity.Movement
	)
	err := e.txRunner.Run(ctx, func(ctx context.Context, repos TxRepos) error {
		var err error
		mov, err = repos.Movements.GetForUpdate(ctx, tenantID, movementID)
		if err != nil {
			return err
		}
		if mov == nil {
			return domain.ErrNotFound
		}
		if mov.Applied {
			res.AlreadyApplied = true
			return nil
		}
		states, err := lockStock(ctx, repos, movementKeys(mov))
		if err != nil {
			return err
		}
		entries, err := e.post(ctx, repos, mov, states)
		if err != nil {
			return err
		}
		if err := repos.Movements.MarkApplied(ctx, tenantID, movementID); err != nil {
			return err
		}
		res.Entries = entries
		return nil
	})
	if err != nil {
		e.logFailure(err).
			Str("tenant_id", tenantID).
			Str("movement_id", movementID).
			Msg("movimiento no aplicado")
		return ApplyResult{}, err
	}
	if res.AlreadyApplied {
		e.log.Debug().Str("tenant_id", tenantID).Str("movement_id", movementID).Msg("movimiento ya aplicado")
		return res, nil
	}

	e.log.Info().
		Str("tenant_id", tenantID).
		Str("movement_id", movementID).
		Str("kind", string(mov.Kind)).
		Int("lines", len(res.Entries)).
		Msg("movimiento aplicado")
	e.publish(ctx, Event{
		Type:       EventMovementApplied,
		TenantID:   tenantID,
		EntityID:   movementID,
		Reference:  mov.Reference,
		UserID:     mov.UserID,
		OccurredAt: e.now(),
		Entries:    res.Entries,
	})
	return res, nil
}

// post aplica las líneas sobre existencias ya bloqueadas dentro de la transacción del llamador.
// La fecha del asiento es la de aplicación, así el orden (fecha, seq) del Kardex es el orden real de
// los cambios de existencia aunque los movimientos se apliquen en otro orden al de creación.
func (e *CostingEngine) post(ctx context.Context, repos TxRepos, mov *entity.Movement, states map[entity.StockKey]*entity.StockState) ([]entity.LedgerEntry, error) {
	if len(mov.Lines) == 0 {
		return nil, domain.Invalid("lines", "el movimiento no tiene líneas")
	}
	lines := make([]entity.MovementLine, len(mov.Lines))
	copy(lines, mov.Lines)
	sort.SliceStable(lines, func(i, j int) bool { return lines[i].Position < lines[j].Position })

	now := e.now()
	entries := make([]entity.LedgerEntry, 0, len(lines))
	for _, line := range lines {
		key := entity.StockKey{TenantID: mov.TenantID, ItemID: line.ItemID, WarehouseID: mov.WarehouseID}
		state, ok := states[key]
		if !ok {
			return nil, errors.New("inventory: existencia no bloqueada para " + key.ItemID + "@" + key.WarehouseID)
		}
		posting, err := inventory.Post(mov.Kind, line, state, e.policy)
		if err != nil {
			return nil, err
		}
		if line.ReceiptLike(mov.Kind) {
			state.Existed = true
		}
		state.UpdatedAt = now
		if err := repos.Stock.Save(ctx, state); err != nil {
			return nil, err
		}
		entry := entity.LedgerEntry{
			TenantID:    mov.TenantID,
			MovementID:  mov.ID,
			ItemID:      line.ItemID,
			WarehouseID: mov.WarehouseID,
			Date:        now,
			Kind:        mov.Kind,
			Reference:   mov.Reference,
			QtyIn:       posting.QtyIn,
			QtyOut:      posting.QtyOut,
			UnitCost:    posting.UnitCost,
			BalanceQty:  posting.BalanceQty,
			BalanceCost: posting.BalanceCost,
		}
		if err := repos.Ledger.Append(ctx, &entry); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// lockStock bloquea (y crea si hace falta) las existencias en orden canónico.
func lockStock(ctx context.Context, repos TxRepos, keys []entity.StockKey) (map[entity.StockKey]*entity.StockState, error) {
	ordered := inventory.LockOrder(keys)
	states := make(map[entity.StockKey]*entity.StockState, len(ordered))
	for _, k := range ordered {
		st, err := repos.Stock.GetForUpdate(ctx, k)
		if err != nil {
			return nil, err
		}
		states[k] = st
	}
	return states, nil
}

func movementKeys(mov *entity.Movement) []entity.StockKey {
	keys := make([]entity.StockKey, 0, len(mov.Lines))
	for _, l := range mov.Lines {
		keys = append(keys, entity.StockKey{TenantID: mov.TenantID, ItemID: l.ItemID, WarehouseID: mov.WarehouseID})
	}
	return keys
}

func (e *CostingEngine) publish(ctx context.Context, evt Event) {
	if e.events == nil {
		return
	}
	if err := e.events.Publish(ctx, evt); err != nil {
		e.log.Error().Err(err).
			Str("event", string(evt.Type)).
			Str("entity_id", evt.EntityID).
			Msg("no se pudo publicar el evento")
	}
}

// logFailure reglas de negocio en warn, infraestructura en error.
func (e *CostingEngine) logFailure(err error) *zerolog.Event {
	switch {
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrNotFound):
		return e.log.Warn().Err(err)
	case errors.Is(err, domain.ErrConcurrency):
		return e.log.Warn().Err(err).Bool("retryable", true)
	default:
		return e.log.Error().Err(err)
	}
}
