package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// LedgerRepo implementa repository.LedgerRepository. Seq se asigna al insertar, como una
// secuencia de BD: los valores de transacciones revertidas se pierden.
type LedgerRepo struct {
	s  *Store
	tx *tx
}

func (r *LedgerRepo) Append(_ context.Context, entry *entity.LedgerEntry) error {
	return r.s.autocommit(r.tx, func(t *tx) error {
		entry.Seq = r.s.ledgerSeq.Add(1)
		t.ledger = append(t.ledger, *entry)
		return nil
	})
}

func (r *LedgerRepo) Page(_ context.Context, f entity.LedgerFilter, after *entity.LedgerCursor, limit int) ([]entity.LedgerEntry, error) {
	r.s.mu.RLock()
	all := make([]entity.LedgerEntry, 0, len(r.s.ledger))
	all = append(all, r.s.ledger...)
	r.s.mu.RUnlock()
	if r.tx != nil {
		all = append(all, r.tx.ledger...)
	}

	out := make([]entity.LedgerEntry, 0)
	for _, e := range all {
		if matches(f, e) && (after == nil || afterCursor(e, after)) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Seq < out[j].Seq
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func matches(f entity.LedgerFilter, e entity.LedgerEntry) bool {
	if e.TenantID != f.TenantID {
		return false
	}
	if f.ItemID != "" && e.ItemID != f.ItemID {
		return false
	}
	if f.WarehouseID != "" && e.WarehouseID != f.WarehouseID {
		return false
	}
	if f.From != nil && e.Date.Before(*f.From) {
		return false
	}
	if f.To != nil && e.Date.After(*f.To) {
		return false
	}
	return true
}

func afterCursor(e entity.LedgerEntry, c *entity.LedgerCursor) bool {
	if e.Date.Equal(c.Date) {
		return e.Seq > c.Seq
	}
	return e.Date.After(c.Date)
}
