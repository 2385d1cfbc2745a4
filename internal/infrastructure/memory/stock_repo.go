package memory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// StockRepo implementa repository.StockRepository.
type StockRepo struct {
	s  *Store
	tx *tx
}

func (r *StockRepo) Get(_ context.Context, key entity.StockKey) (*entity.StockState, error) {
	if st := r.find(r.tx, key); st != nil {
		return st, nil
	}
	return zeroState(key), nil
}

// GetForUpdate bloquea la existencia; si no existe la crea en cero dentro de la transacción.
func (r *StockRepo) GetForUpdate(ctx context.Context, key entity.StockKey) (*entity.StockState, error) {
	var out *entity.StockState
	err := r.s.autocommit(r.tx, func(t *tx) error {
		if err := t.lock(ctx, stockLockName(key)); err != nil {
			return err
		}
		if st := r.find(t, key); st != nil {
			out = st
			return nil
		}
		st := zeroState(key)
		c := *st
		t.stock[key] = &c
		out = st
		return nil
	})
	return out, err
}

func (r *StockRepo) Save(ctx context.Context, state *entity.StockState) error {
	return r.s.autocommit(r.tx, func(t *tx) error {
		key := state.Key()
		if err := t.lock(ctx, stockLockName(key)); err != nil {
			return err
		}
		c := *state
		t.stock[key] = &c
		return nil
	})
}

func (r *StockRepo) ListByWarehouse(_ context.Context, tenantID, warehouseID string, limit, offset int) ([]*entity.StockState, error) {
	seen := make(map[entity.StockKey]*entity.StockState)
	r.s.mu.RLock()
	for k, st := range r.s.stock {
		if k.TenantID == tenantID && k.WarehouseID == warehouseID {
			c := *st
			seen[k] = &c
		}
	}
	r.s.mu.RUnlock()
	if r.tx != nil {
		for k, st := range r.tx.stock {
			if k.TenantID == tenantID && k.WarehouseID == warehouseID {
				c := *st
				seen[k] = &c
			}
		}
	}
	list := make([]*entity.StockState, 0, len(seen))
	for _, st := range seen {
		list = append(list, st)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ItemID < list[j].ItemID })
	return paginate(list, limit, offset), nil
}

func (r *StockRepo) find(t *tx, key entity.StockKey) *entity.StockState {
	if t != nil {
		if st, ok := t.stock[key]; ok {
			c := *st
			return &c
		}
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if st, ok := r.s.stock[key]; ok {
		c := *st
		c.Existed = true
		return &c
	}
	return nil
}

func zeroState(key entity.StockKey) *entity.StockState {
	return &entity.StockState{
		TenantID:    key.TenantID,
		ItemID:      key.ItemID,
		WarehouseID: key.WarehouseID,
		Quantity:    decimal.Zero,
		AverageCost: decimal.Zero,
	}
}
