package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.TransferRepository = (*TransferRepo)(nil)

// TransferRepo traspasos y sus líneas sobre PostgreSQL.
type TransferRepo struct {
	q Querier
}

// NewTransferRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

const transferColumns = `id, tenant_id, source_warehouse_id, destination_warehouse_id, occurred_at, reference, user_id, notes, applied, created_at`

// Create inserta cabecera y líneas. Debe llamarse dentro de una transacción.
func (r *TransferRepo) Create(ctx context.Context, t *entity.Transfer) error {
	query := `
		INSERT INTO transfers (` + transferColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.TenantID, t.SourceWarehouseID, t.DestinationWarehouseID, t.Date,
		t.Reference, t.UserID, t.Notes, t.Applied, t.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return classify("insert transfer", err)
	}
	lineQuery := `
		INSERT INTO transfer_lines (id, transfer_id, item_id, quantity, destination_unit_cost, position)
		VALUES ($1, $2, $3, $4, $5, $6)`
	for _, l := range t.Lines {
		if _, err := r.q.Exec(ctx, lineQuery, l.ID, t.ID, l.ItemID, l.Quantity, l.DestinationUnitCost, l.Position); err != nil {
			return classify("insert transfer line", err)
		}
	}
	return nil
}

// GetByID obtiene un traspaso con sus líneas; (nil, nil) si no existe en el tenant.
func (r *TransferRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Transfer, error) {
	return r.get(ctx, tenantID, id, false)
}

// GetForUpdate igual que GetByID pero bloquea la cabecera.
func (r *TransferRepo) GetForUpdate(ctx context.Context, tenantID, id string) (*entity.Transfer, error) {
	return r.get(ctx, tenantID, id, true)
}

func (r *TransferRepo) get(ctx context.Context, tenantID, id string, lock bool) (*entity.Transfer, error) {
	query := `SELECT ` + transferColumns + ` FROM transfers WHERE tenant_id = $1 AND id = $2`
	if lock {
		query += ` FOR UPDATE`
	}
	var t entity.Transfer
	err := r.q.QueryRow(ctx, query, tenantID, id).Scan(
		&t.ID, &t.TenantID, &t.SourceWarehouseID, &t.DestinationWarehouseID, &t.Date,
		&t.Reference, &t.UserID, &t.Notes, &t.Applied, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classify("get transfer", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT id, transfer_id, item_id, quantity, destination_unit_cost, position
		FROM transfer_lines WHERE transfer_id = $1 ORDER BY position`, t.ID)
	if err != nil {
		return nil, classify("get transfer lines", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			l    entity.TransferLine
			cost decimal.NullDecimal
		)
		if err := rows.Scan(&l.ID, &l.TransferID, &l.ItemID, &l.Quantity, &cost, &l.Position); err != nil {
			return nil, classify("scan transfer line", err)
		}
		if cost.Valid {
			l.DestinationUnitCost = &cost.Decimal
		}
		t.Lines = append(t.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("get transfer lines", err)
	}
	return &t, nil
}

// MarkApplied pasa applied a true. ErrNotFound si no existe en el tenant.
func (r *TransferRepo) MarkApplied(ctx context.Context, tenantID, id string) error {
	cmd, err := r.q.Exec(ctx, `UPDATE transfers SET applied = true WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return classify("mark transfer applied", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
