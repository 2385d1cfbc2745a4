package memory

import (
	"context"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// SequenceRepo implementa repository.SequenceRepository.
type SequenceRepo struct {
	s  *Store
	tx *tx
}

func (r *SequenceRepo) GetForUpdate(ctx context.Context, tenantID, name string) (*entity.Sequence, error) {
	var out *entity.Sequence
	err := r.s.autocommit(r.tx, func(t *tx) error {
		if err := t.lock(ctx, "seq:"+tenantKey(tenantID, name)); err != nil {
			return err
		}
		k := seqKey{tenantID: tenantID, name: name}
		v, ok := t.sequences[k]
		if !ok {
			r.s.mu.RLock()
			v = r.s.sequences[k]
			r.s.mu.RUnlock()
		}
		out = &entity.Sequence{TenantID: tenantID, Name: name, Value: v}
		return nil
	})
	return out, err
}

func (r *SequenceRepo) Save(ctx context.Context, seq *entity.Sequence) error {
	return r.s.autocommit(r.tx, func(t *tx) error {
		if err := t.lock(ctx, "seq:"+tenantKey(seq.TenantID, seq.Name)); err != nil {
			return err
		}
		t.sequences[seqKey{tenantID: seq.TenantID, name: seq.Name}] = seq.Value
		return nil
	})
}
