package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo materiales y unidades de medida sobre PostgreSQL.
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador. Pasar pool o tx.
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

const itemColumns = `id, tenant_id, code, description, unit_id, min_stock, max_stock, active, created_at, updated_at`

// Create persiste un material. Code y UnitID vacíos se guardan NULL.
func (r *ItemRepo) Create(ctx context.Context, it *entity.Item) error {
	var code, unitID *string
	if it.Code != "" {
		code = &it.Code
	}
	if it.UnitID != "" {
		unitID = &it.UnitID
	}
	query := `
		INSERT INTO items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		it.ID, it.TenantID, code, it.Description, unitID,
		it.MinStock, it.MaxStock, it.Active, it.CreatedAt, it.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return classify("insert item", err)
	}
	return nil
}

// GetByID obtiene un material del tenant; (nil, nil) si no existe.
func (r *ItemRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE tenant_id = $1 AND id = $2`
	it, err := scanItem(r.q.QueryRow(ctx, query, tenantID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classify("get item", err)
	}
	return it, nil
}

// ListByTenant lista materiales por tenant ordenados por id.
func (r *ItemRepo) ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE tenant_id = $1 ORDER BY id LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, classify("list items", err)
	}
	defer rows.Close()
	list := make([]*entity.Item, 0)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, classify("scan item", err)
		}
		list = append(list, it)
	}
	return list, classify("list items", rows.Err())
}

// CreateUnit persiste una unidad de medida.
func (r *ItemRepo) CreateUnit(ctx context.Context, u *entity.Unit) error {
	_, err := r.q.Exec(ctx, `INSERT INTO units (id, name, factor_base) VALUES ($1, $2, $3)`, u.ID, u.Name, u.FactorBase)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return classify("insert unit", err)
	}
	return nil
}

// GetUnit obtiene una unidad; (nil, nil) si no existe.
func (r *ItemRepo) GetUnit(ctx context.Context, id string) (*entity.Unit, error) {
	var u entity.Unit
	err := r.q.QueryRow(ctx, `SELECT id, name, factor_base FROM units WHERE id = $1`, id).Scan(&u.ID, &u.Name, &u.FactorBase)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classify("get unit", err)
	}
	return &u, nil
}

func scanItem(row pgx.Row) (*entity.Item, error) {
	var (
		it     entity.Item
		code   *string
		unitID *string
	)
	if err := row.Scan(&it.ID, &it.TenantID, &code, &it.Description, &unitID,
		&it.MinStock, &it.MaxStock, &it.Active, &it.CreatedAt, &it.UpdatedAt); err != nil {
		return nil, err
	}
	if code != nil {
		it.Code = *code
	}
	if unitID != nil {
		it.UnitID = *unitID
	}
	return &it, nil
}
