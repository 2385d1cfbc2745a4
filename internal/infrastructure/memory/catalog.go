package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// ItemRepo implementa repository.ItemRepository.
type ItemRepo struct {
	s *Store
}

func (r *ItemRepo) Create(_ context.Context, item *entity.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.items[tenantKey(item.TenantID, item.ID)]; ok {
		return domain.ErrDuplicate
	}
	if item.Code != "" {
		for _, it := range r.s.items {
			if it.TenantID == item.TenantID && it.Code == item.Code {
				return domain.ErrDuplicate
			}
		}
	}
	c := *item
	r.s.items[tenantKey(item.TenantID, item.ID)] = &c
	return nil
}

func (r *ItemRepo) GetByID(_ context.Context, tenantID, id string) (*entity.Item, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	it, ok := r.s.items[tenantKey(tenantID, id)]
	if !ok {
		return nil, nil
	}
	c := *it
	return &c, nil
}

func (r *ItemRepo) ListByTenant(_ context.Context, tenantID string, limit, offset int) ([]*entity.Item, error) {
	r.s.mu.RLock()
	list := make([]*entity.Item, 0)
	for _, it := range r.s.items {
		if it.TenantID == tenantID {
			c := *it
			list = append(list, &c)
		}
	}
	r.s.mu.RUnlock()
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return paginate(list, limit, offset), nil
}

func (r *ItemRepo) CreateUnit(_ context.Context, unit *entity.Unit) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.units[unit.ID]; ok {
		return domain.ErrDuplicate
	}
	c := *unit
	r.s.units[unit.ID] = &c
	return nil
}

func (r *ItemRepo) GetUnit(_ context.Context, id string) (*entity.Unit, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.units[id]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}

// WarehouseRepo implementa repository.WarehouseRepository.
type WarehouseRepo struct {
	s *Store
}

func (r *WarehouseRepo) Create(_ context.Context, w *entity.Warehouse) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.warehouses[tenantKey(w.TenantID, w.ID)]; ok {
		return domain.ErrDuplicate
	}
	c := *w
	r.s.warehouses[tenantKey(w.TenantID, w.ID)] = &c
	return nil
}

func (r *WarehouseRepo) GetByID(_ context.Context, tenantID, id string) (*entity.Warehouse, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	w, ok := r.s.warehouses[tenantKey(tenantID, id)]
	if !ok {
		return nil, nil
	}
	c := *w
	return &c, nil
}

func (r *WarehouseRepo) ListByTenant(_ context.Context, tenantID string, limit, offset int) ([]*entity.Warehouse, error) {
	r.s.mu.RLock()
	list := make([]*entity.Warehouse, 0)
	for _, w := range r.s.warehouses {
		if w.TenantID == tenantID {
			c := *w
			list = append(list, &c)
		}
	}
	r.s.mu.RUnlock()
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return paginate(list, limit, offset), nil
}
