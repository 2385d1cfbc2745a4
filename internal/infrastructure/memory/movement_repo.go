package memory

import (
	"context"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// MovementRepo implementa repository.MovementRepository.
type MovementRepo struct {
	s  *Store
	tx *tx
}

func (r *MovementRepo) Create(_ context.Context, m *entity.Movement) error {
	return r.s.autocommit(r.tx, func(t *tx) error {
		key := tenantKey(m.TenantID, m.ID)
		if cur, _ := r.find(t, key); cur != nil {
			return domain.ErrDuplicate
		}
		t.movements[key] = cloneMovement(m)
		return nil
	})
}

func (r *MovementRepo) GetByID(_ context.Context, tenantID, id string) (*entity.Movement, error) {
	return r.find(r.tx, tenantKey(tenantID, id))
}

func (r *MovementRepo) GetForUpdate(ctx context.Context, tenantID, id string) (*entity.Movement, error) {
	if r.tx == nil {
		return r.GetByID(ctx, tenantID, id)
	}
	if err := r.tx.lock(ctx, "movement:"+tenantKey(tenantID, id)); err != nil {
		return nil, err
	}
	return r.find(r.tx, tenantKey(tenantID, id))
}

func (r *MovementRepo) MarkApplied(_ context.Context, tenantID, id string) error {
	return r.s.autocommit(r.tx, func(t *tx) error {
		key := tenantKey(tenantID, id)
		m, _ := r.find(t, key)
		if m == nil {
			return domain.ErrNotFound
		}
		m.Applied = true
		t.movements[key] = m
		return nil
	})
}

func (r *MovementRepo) find(t *tx, key string) (*entity.Movement, error) {
	if t != nil {
		if m, ok := t.movements[key]; ok {
			return cloneMovement(m), nil
		}
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if m, ok := r.s.movements[key]; ok {
		return cloneMovement(m), nil
	}
	return nil, nil
}

// TransferRepo implementa repository.TransferRepository.
type TransferRepo struct {
	s  *Store
	tx *tx
}

func (r *TransferRepo) Create(_ context.Context, tr *entity.Transfer) error {
	return r.s.autocommit(r.tx, func(t *tx) error {
		key := tenantKey(tr.TenantID, tr.ID)
		if cur, _ := r.find(t, key); cur != nil {
			return domain.ErrDuplicate
		}
		t.transfers[key] = cloneTransfer(tr)
		return nil
	})
}

func (r *TransferRepo) GetByID(_ context.Context, tenantID, id string) (*entity.Transfer, error) {
	return r.find(r.tx, tenantKey(tenantID, id))
}

func (r *TransferRepo) GetForUpdate(ctx context.Context, tenantID, id string) (*entity.Transfer, error) {
	if r.tx == nil {
		return r.GetByID(ctx, tenantID, id)
	}
	if err := r.tx.lock(ctx, "transfer:"+tenantKey(tenantID, id)); err != nil {
		return nil, err
	}
	return r.find(r.tx, tenantKey(tenantID, id))
}

func (r *TransferRepo) MarkApplied(_ context.Context, tenantID, id string) error {
	return r.s.autocommit(r.tx, func(t *tx) error {
		key := tenantKey(tenantID, id)
		tr, _ := r.find(t, key)
		if tr == nil {
			return domain.ErrNotFound
		}
		tr.Applied = true
		t.transfers[key] = tr
		return nil
	})
}

func (r *TransferRepo) find(t *tx, key string) (*entity.Transfer, error) {
	if t != nil {
		if tr, ok := t.transfers[key]; ok {
			return cloneTransfer(tr), nil
		}
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if tr, ok := r.s.transfers[key]; ok {
		return cloneTransfer(tr), nil
	}
	return nil, nil
}

func cloneMovement(m *entity.Movement) *entity.Movement {
	c := *m
	c.Lines = append([]entity.MovementLine(nil), m.Lines...)
	return &c
}

func cloneTransfer(tr *entity.Transfer) *entity.Transfer {
	c := *tr
	c.Lines = append([]entity.TransferLine(nil), tr.Lines...)
	return &c
}
