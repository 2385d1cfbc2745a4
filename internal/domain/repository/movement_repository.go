package repository

import (
	"context"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// MovementRepository persiste movimientos con sus líneas.
type MovementRepository interface {
	// Create guarda cabecera y líneas sin aplicar.
	Create(ctx context.Context, movement *entity.Movement) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.Movement, error)
	// GetForUpdate bloquea la cabecera hasta el fin de la transacción y carga las líneas en orden.
	GetForUpdate(ctx context.Context, tenantID, id string) (*entity.Movement, error)
	MarkApplied(ctx context.Context, tenantID, id string) error
}

// TransferRepository persiste traspasos con sus líneas.
type TransferRepository interface {
	Create(ctx context.Context, transfer *entity.Transfer) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.Transfer, error)
	GetForUpdate(ctx context.Context, tenantID, id string) (*entity.Transfer, error)
	MarkApplied(ctx context.Context, tenantID, id string) error
}
