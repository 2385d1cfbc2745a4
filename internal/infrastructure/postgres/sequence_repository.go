package postgres

import (
	"context"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo consecutivos por tenant y nombre.
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// GetForUpdate crea el contador en 0 si no existe y lo bloquea.
func (r *SequenceRepo) GetForUpdate(ctx context.Context, tenantID, name string) (*entity.Sequence, error) {
	_, err := r.q.Exec(ctx, `
		INSERT INTO sequences (tenant_id, name, value) VALUES ($1, $2, 0)
		ON CONFLICT (tenant_id, name) DO NOTHING`, tenantID, name)
	if err != nil {
		return nil, classify("ensure sequence", err)
	}
	s := entity.Sequence{TenantID: tenantID, Name: name}
	err = r.q.QueryRow(ctx, `
		SELECT value FROM sequences WHERE tenant_id = $1 AND name = $2 FOR UPDATE`,
		tenantID, name).Scan(&s.Value)
	if err != nil {
		return nil, classify("lock sequence", err)
	}
	return &s, nil
}

func (r *SequenceRepo) Save(ctx context.Context, s *entity.Sequence) error {
	_, err := r.q.Exec(ctx, `UPDATE sequences SET value = $3 WHERE tenant_id = $1 AND name = $2`,
		s.TenantID, s.Name, s.Value)
	return classify("save sequence", err)
}
