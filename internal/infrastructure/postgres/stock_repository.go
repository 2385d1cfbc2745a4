package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo existencias por tenant+material+bodega (tabla stock_states).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

const stockColumns = `tenant_id, item_id, warehouse_id, quantity, average_cost, updated_at`

func scanStock(row pgx.Row) (*entity.StockState, error) {
	var s entity.StockState
	if err := row.Scan(&s.TenantID, &s.ItemID, &s.WarehouseID, &s.Quantity, &s.AverageCost, &s.UpdatedAt); err != nil {
		return nil, err
	}
	s.Existed = true
	return &s, nil
}

// Get lectura sin bloqueo. Si no hay fila devuelve la existencia en cero.
func (r *StockRepo) Get(ctx context.Context, key entity.StockKey) (*entity.StockState, error) {
	query := `SELECT ` + stockColumns + ` FROM stock_states
		WHERE tenant_id = $1 AND item_id = $2 AND warehouse_id = $3`
	s, err := scanStock(r.q.QueryRow(ctx, query, key.TenantID, key.ItemID, key.WarehouseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.StockState{
				TenantID:    key.TenantID,
				ItemID:      key.ItemID,
				WarehouseID: key.WarehouseID,
				Quantity:    decimal.Zero,
				AverageCost: decimal.Zero,
			}, nil
		}
		return nil, classify("get stock", err)
	}
	return s, nil
}

// GetForUpdate crea la fila en cero si falta y la bloquea hasta el fin de la transacción.
func (r *StockRepo) GetForUpdate(ctx context.Context, key entity.StockKey) (*entity.StockState, error) {
	cmd, err := r.q.Exec(ctx, `
		INSERT INTO stock_states (tenant_id, item_id, warehouse_id, quantity, average_cost, updated_at)
		VALUES ($1, $2, $3, 0, 0, $4)
		ON CONFLICT (tenant_id, item_id, warehouse_id) DO NOTHING`,
		key.TenantID, key.ItemID, key.WarehouseID, time.Now().UTC(),
	)
	if err != nil {
		return nil, classify("ensure stock row", err)
	}
	inserted := cmd.RowsAffected() == 1

	query := `SELECT ` + stockColumns + ` FROM stock_states
		WHERE tenant_id = $1 AND item_id = $2 AND warehouse_id = $3
		FOR UPDATE`
	s, err := scanStock(r.q.QueryRow(ctx, query, key.TenantID, key.ItemID, key.WarehouseID))
	if err != nil {
		return nil, classify("lock stock", err)
	}
	s.Existed = !inserted
	return s, nil
}

// Save escribe cantidad y costo promedio. La fila ya existe (GetForUpdate la crea).
func (r *StockRepo) Save(ctx context.Context, s *entity.StockState) error {
	s.UpdatedAt = time.Now().UTC()
	_, err := r.q.Exec(ctx, `
		UPDATE stock_states SET quantity = $4, average_cost = $5, updated_at = $6
		WHERE tenant_id = $1 AND item_id = $2 AND warehouse_id = $3`,
		s.TenantID, s.ItemID, s.WarehouseID, s.Quantity, s.AverageCost, s.UpdatedAt,
	)
	return classify("save stock", err)
}

// ListByWarehouse existencias de una bodega ordenadas por material.
func (r *StockRepo) ListByWarehouse(ctx context.Context, tenantID, warehouseID string, limit, offset int) ([]*entity.StockState, error) {
	query := `SELECT ` + stockColumns + ` FROM stock_states
		WHERE tenant_id = $1 AND warehouse_id = $2
		ORDER BY item_id
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, tenantID, warehouseID, limit, offset)
	if err != nil {
		return nil, classify("list stock", err)
	}
	defer rows.Close()
	var list []*entity.StockState
	for rows.Next() {
		s, err := scanStock(rows)
		if err != nil {
			return nil, classify("scan stock", err)
		}
		list = append(list, s)
	}
	return list, classify("list stock", rows.Err())
}
