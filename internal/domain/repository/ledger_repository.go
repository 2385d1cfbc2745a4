package repository

import (
	"context"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// LedgerRepository Kardex de solo inserción.
type LedgerRepository interface {
	// Append inserta el asiento y le asigna Seq.
	Append(ctx context.Context, entry *entity.LedgerEntry) error
	// Page devuelve hasta limit asientos ordenados por (fecha, seq), posteriores a after si no es nil.
	Page(ctx context.Context, filter entity.LedgerFilter, after *entity.LedgerCursor, limit int) ([]entity.LedgerEntry, error)
}
