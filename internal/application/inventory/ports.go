package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// TxRepos repositorios atados a una misma transacción de BD.
type TxRepos struct {
	Movements repository.MovementRepository
	Transfers repository.TransferRepository
	Stock     repository.StockRepository
	Ledger    repository.LedgerRepository
	Sequences repository.SequenceRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el motor de inventario: si fn devuelve error se hace Rollback.
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context, repos TxRepos) error) error
}

// EventType tipo de evento de negocio emitido tras un commit.
type EventType string

const (
	EventMovementApplied EventType = "inventory.movement_applied"
	EventTransferApplied EventType = "inventory.transfer_applied"
)

// Event notificación posterior al commit. Entries son los asientos de Kardex escritos.
type Event struct {
	Type       EventType
	TenantID   string
	EntityID   string
	Reference  string
	UserID     string
	OccurredAt time.Time
	Entries    []entity.LedgerEntry
}

// EventPublisher observador de eventos (auditoría, integraciones). Se llama de forma síncrona
// después del commit; un error no revierte nada.
type EventPublisher interface {
	Publish(ctx context.Context, evt Event) error
}
