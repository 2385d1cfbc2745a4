package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

// LedgerRepo Kardex de solo inserción (tabla ledger_entries). Seq es un bigserial.
type LedgerRepo struct {
	q Querier
}

// NewLedgerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

// Append inserta el asiento y asigna Seq desde la base.
func (r *LedgerRepo) Append(ctx context.Context, e *entity.LedgerEntry) error {
	query := `
		INSERT INTO ledger_entries (
			tenant_id, movement_id, item_id, warehouse_id, occurred_at, kind, reference,
			qty_in, qty_out, unit_cost, balance_qty, balance_cost
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING seq`
	err := r.q.QueryRow(ctx, query,
		e.TenantID, e.MovementID, e.ItemID, e.WarehouseID, e.Date, string(e.Kind), e.Reference,
		e.QtyIn, e.QtyOut, e.UnitCost, e.BalanceQty, e.BalanceCost,
	).Scan(&e.Seq)
	return classify("append ledger entry", err)
}

// Page paginación por llave (occurred_at, seq); nunca usa OFFSET.
func (r *LedgerRepo) Page(ctx context.Context, f entity.LedgerFilter, after *entity.LedgerCursor, limit int) ([]entity.LedgerEntry, error) {
	conds := []string{"tenant_id = $1"}
	args := []any{f.TenantID}
	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if f.ItemID != "" {
		conds = append(conds, "item_id = "+next(f.ItemID))
	}
	if f.WarehouseID != "" {
		conds = append(conds, "warehouse_id = "+next(f.WarehouseID))
	}
	if f.From != nil {
		conds = append(conds, "occurred_at >= "+next(*f.From))
	}
	if f.To != nil {
		conds = append(conds, "occurred_at <= "+next(*f.To))
	}
	if after != nil {
		conds = append(conds, fmt.Sprintf("(occurred_at, seq) > (%s, %s)", next(after.Date), next(after.Seq)))
	}

	query := `
		SELECT seq, tenant_id, movement_id, item_id, warehouse_id, occurred_at, kind, reference,
			qty_in, qty_out, unit_cost, balance_qty, balance_cost
		FROM ledger_entries
		WHERE ` + strings.Join(conds, " AND ") + `
		ORDER BY occurred_at, seq
		LIMIT ` + next(limit)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, classify("page ledger", err)
	}
	defer rows.Close()
	var out []entity.LedgerEntry
	for rows.Next() {
		var (
			e    entity.LedgerEntry
			kind string
		)
		if err := rows.Scan(
			&e.Seq, &e.TenantID, &e.MovementID, &e.ItemID, &e.WarehouseID, &e.Date, &kind, &e.Reference,
			&e.QtyIn, &e.QtyOut, &e.UnitCost, &e.BalanceQty, &e.BalanceCost,
		); err != nil {
			return nil, classify("scan ledger entry", err)
		}
		e.Kind = entity.MovementKind(kind)
		out = append(out, e)
	}
	return out, classify("page ledger", rows.Err())
}
