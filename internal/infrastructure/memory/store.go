// Package memory almacén transaccional en memoria. Implementa los mismos puertos que postgres
// con bloqueos por fila y espera limitada; se usa en pruebas y en modo STORAGE_DRIVER=memory.
package memory

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// DefaultLockTimeout espera máxima por un bloqueo antes de devolver ErrConcurrency.
const DefaultLockTimeout = 2 * time.Second

type seqKey struct {
	tenantID string
	name     string
}

// Store datos confirmados. Las transacciones trabajan sobre una copia privada y se vuelcan en Commit.
type Store struct {
	mu         sync.RWMutex
	units      map[string]*entity.Unit
	items      map[string]*entity.Item
	warehouses map[string]*entity.Warehouse
	movements  map[string]*entity.Movement
	transfers  map[string]*entity.Transfer
	stock      map[entity.StockKey]*entity.StockState
	ledger     []entity.LedgerEntry
	sequences  map[seqKey]int64

	ledgerSeq   atomic.Int64
	locks       *lockTable
	lockTimeout time.Duration
}

// New crea un almacén vacío. lockTimeout <= 0 usa DefaultLockTimeout.
func New(lockTimeout time.Duration) *Store {
	if lockTimeout <= 0 {
		lockTimeout = DefaultLockTimeout
	}
	return &Store{
		units:       make(map[string]*entity.Unit),
		items:       make(map[string]*entity.Item),
		warehouses:  make(map[string]*entity.Warehouse),
		movements:   make(map[string]*entity.Movement),
		transfers:   make(map[string]*entity.Transfer),
		stock:       make(map[entity.StockKey]*entity.StockState),
		sequences:   make(map[seqKey]int64),
		locks:       &lockTable{m: make(map[string]chan struct{})},
		lockTimeout: lockTimeout,
	}
}

// Run implementa inventory.TxRunner. Si fn devuelve error nada de lo escrito se confirma.
func (s *Store) Run(ctx context.Context, fn func(ctx context.Context, repos inventory.TxRepos) error) error {
	tx := s.begin()
	defer tx.release()
	if err := fn(ctx, tx.repos()); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	s.commit(tx)
	return nil
}

// Repositorios sin transacción explícita: cada escritura se confirma de inmediato.

func (s *Store) Items() *ItemRepo           { return &ItemRepo{s: s} }
func (s *Store) Warehouses() *WarehouseRepo { return &WarehouseRepo{s: s} }
func (s *Store) Movements() *MovementRepo   { return &MovementRepo{s: s} }
func (s *Store) Transfers() *TransferRepo   { return &TransferRepo{s: s} }
func (s *Store) Stock() *StockRepo          { return &StockRepo{s: s} }
func (s *Store) Ledger() *LedgerRepo        { return &LedgerRepo{s: s} }
func (s *Store) Sequences() *SequenceRepo   { return &SequenceRepo{s: s} }

// tx escrituras pendientes y bloqueos tomados por una transacción.
type tx struct {
	s         *Store
	held      map[string]struct{}
	movements map[string]*entity.Movement
	transfers map[string]*entity.Transfer
	stock     map[entity.StockKey]*entity.StockState
	ledger    []entity.LedgerEntry
	sequences map[seqKey]int64
}

func (s *Store) begin() *tx {
	return &tx{
		s:         s,
		held:      make(map[string]struct{}),
		movements: make(map[string]*entity.Movement),
		transfers: make(map[string]*entity.Transfer),
		stock:     make(map[entity.StockKey]*entity.StockState),
		sequences: make(map[seqKey]int64),
	}
}

func (t *tx) repos() inventory.TxRepos {
	return inventory.TxRepos{
		Movements: &MovementRepo{s: t.s, tx: t},
		Transfers: &TransferRepo{s: t.s, tx: t},
		Stock:     &StockRepo{s: t.s, tx: t},
		Ledger:    &LedgerRepo{s: t.s, tx: t},
		Sequences: &SequenceRepo{s: t.s, tx: t},
	}
}

func (s *Store) commit(t *tx) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, m := range t.movements {
		s.movements[k] = m
	}
	for k, tr := range t.transfers {
		s.transfers[k] = tr
	}
	for k, st := range t.stock {
		st.Existed = true
		s.stock[k] = st
	}
	s.ledger = append(s.ledger, t.ledger...)
	for k, v := range t.sequences {
		s.sequences[k] = v
	}
}

// lock toma el bloqueo de una fila hasta el fin de la transacción. Es reentrante.
func (t *tx) lock(ctx context.Context, name string) error {
	if _, ok := t.held[name]; ok {
		return nil
	}
	ch := t.s.locks.get(name)
	timer := time.NewTimer(t.s.lockTimeout)
	defer timer.Stop()
	select {
	case ch <- struct{}{}:
		t.held[name] = struct{}{}
		return nil
	case <-timer.C:
		return fmt.Errorf("%w: espera de bloqueo agotada en %s", domain.ErrConcurrency, name)
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", domain.ErrConcurrency, ctx.Err())
	}
}

func (t *tx) release() {
	for name := range t.held {
		<-t.s.locks.get(name)
	}
	t.held = nil
}

// autocommit ejecuta fn en una transacción propia cuando el repositorio no está atado a una.
func (s *Store) autocommit(t *tx, fn func(t *tx) error) error {
	if t != nil {
		return fn(t)
	}
	own := s.begin()
	defer own.release()
	if err := fn(own); err != nil {
		return err
	}
	s.commit(own)
	return nil
}

type lockTable struct {
	mu sync.Mutex
	m  map[string]chan struct{}
}

func (l *lockTable) get(name string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	ch, ok := l.m[name]
	if !ok {
		ch = make(chan struct{}, 1)
		l.m[name] = ch
	}
	return ch
}

func tenantKey(tenantID, id string) string { return tenantID + "/" + id }

func stockLockName(k entity.StockKey) string {
	return "stock:" + k.TenantID + "/" + k.ItemID + "/" + k.WarehouseID
}

func paginate[T any](list []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset > len(list) {
		return list[:0]
	}
	end := len(list)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return list[offset:end]
}
