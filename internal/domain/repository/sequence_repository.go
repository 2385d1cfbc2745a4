package repository

import (
	"context"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// SequenceRepository consecutivos por tenant. GetForUpdate crea el contador en 0 si no existe.
type SequenceRepository interface {
	GetForUpdate(ctx context.Context, tenantID, name string) (*entity.Sequence, error)
	Save(ctx context.Context, seq *entity.Sequence) error
}
