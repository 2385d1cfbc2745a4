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

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo movimientos y sus líneas sobre PostgreSQL (usable con pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `id, tenant_id, kind, warehouse_id, occurred_at, reference, user_id, notes, applied, created_at`

// Create inserta cabecera y líneas. Debe llamarse dentro de una transacción.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	query := `
		INSERT INTO movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.TenantID, string(m.Kind), m.WarehouseID, m.Date,
		m.Reference, m.UserID, m.Notes, m.Applied, m.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return classify("insert movement", err)
	}
	lineQuery := `
		INSERT INTO movement_lines (id, movement_id, item_id, quantity, unit_cost, position)
		VALUES ($1, $2, $3, $4, $5, $6)`
	for _, l := range m.Lines {
		if _, err := r.q.Exec(ctx, lineQuery, l.ID, m.ID, l.ItemID, l.Quantity, l.UnitCost, l.Position); err != nil {
			return classify("insert movement line", err)
		}
	}
	return nil
}

// GetByID obtiene un movimiento con sus líneas; (nil, nil) si no existe en el tenant.
func (r *MovementRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Movement, error) {
	return r.get(ctx, tenantID, id, false)
}

// GetForUpdate igual que GetByID pero bloquea la cabecera (SELECT FOR UPDATE).
func (r *MovementRepo) GetForUpdate(ctx context.Context, tenantID, id string) (*entity.Movement, error) {
	return r.get(ctx, tenantID, id, true)
}

func (r *MovementRepo) get(ctx context.Context, tenantID, id string, lock bool) (*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE tenant_id = $1 AND id = $2`
	if lock {
		query += ` FOR UPDATE`
	}
	var (
		m    entity.Movement
		kind string
	)
	err := r.q.QueryRow(ctx, query, tenantID, id).Scan(
		&m.ID, &m.TenantID, &kind, &m.WarehouseID, &m.Date,
		&m.Reference, &m.UserID, &m.Notes, &m.Applied, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classify("get movement", err)
	}
	m.Kind = entity.MovementKind(kind)

	rows, err := r.q.Query(ctx, `
		SELECT id, movement_id, item_id, quantity, unit_cost, position
		FROM movement_lines WHERE movement_id = $1 ORDER BY position`, m.ID)
	if err != nil {
		return nil, classify("get movement lines", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			l    entity.MovementLine
			cost decimal.NullDecimal
		)
		if err := rows.Scan(&l.ID, &l.MovementID, &l.ItemID, &l.Quantity, &cost, &l.Position); err != nil {
			return nil, classify("scan movement line", err)
		}
		if cost.Valid {
			l.UnitCost = &cost.Decimal
		}
		m.Lines = append(m.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("get movement lines", err)
	}
	return &m, nil
}

// MarkApplied pasa applied a true. ErrNotFound si el movimiento no existe en el tenant.
func (r *MovementRepo) MarkApplied(ctx context.Context, tenantID, id string) error {
	cmd, err := r.q.Exec(ctx, `UPDATE movements SET applied = true WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return classify("mark movement applied", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
