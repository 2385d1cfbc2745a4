package inventory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	domaininv "github.com/jhoicas/kardex-api/internal/domain/inventory"
	"github.com/jhoicas/kardex-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	tenant = "tenant-1"
	whA    = "wh-a"
	whB    = "wh-b"
	itemX  = "item-x"
	itemY  = "item-y"
)

type fixture struct {
	store     *memory.Store
	engine    *inventory.CostingEngine
	transfers *inventory.TransferOrchestrator
	movements *inventory.MovementUseCase
	stock     *inventory.StockUseCase
	events    *recordingPublisher
}

func newFixture(t *testing.T, policy domaininv.Policy) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.New(200 * time.Millisecond)

	require.NoError(t, store.Items().CreateUnit(ctx, &entity.Unit{ID: "und", Name: "UND", FactorBase: decimal.NewFromInt(1)}))
	for _, id := range []string{itemX, itemY} {
		require.NoError(t, store.Items().Create(ctx, &entity.Item{
			ID: id, TenantID: tenant, Code: id, Description: id, UnitID: "und", Active: true,
		}))
	}
	require.NoError(t, store.Items().Create(ctx, &entity.Item{
		ID: "item-off", TenantID: tenant, Description: "inactivo", UnitID: "und", Active: false,
	}))
	for _, id := range []string{whA, whB} {
		require.NoError(t, store.Warehouses().Create(ctx, &entity.Warehouse{ID: id, TenantID: tenant, Name: id}))
	}

	events := &recordingPublisher{}
	engine := inventory.NewCostingEngine(store, policy, events, zerolog.Nop())
	transfers := inventory.NewTransferOrchestrator(engine)
	return &fixture{
		store:     store,
		engine:    engine,
		transfers: transfers,
		movements: inventory.NewMovementUseCase(store, store.Items(), store.Warehouses(), engine, transfers,
			inventory.RetryPolicy{MaxAttempts: 20, Backoff: time.Millisecond}),
		stock:  inventory.NewStockUseCase(store.Stock(), store.Ledger(), 2),
		events: events,
	}
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

// receipt redacta y aplica una entrada de una línea.
func (f *fixture) receipt(t *testing.T, wh, item, qty string, cost *decimal.Decimal) *entity.Movement {
	t.Helper()
	mov, _, err := f.movements.RegisterMovement(context.Background(), inventory.MovementInputDTO{
		TenantID: tenant, Kind: entity.MovementKindReceipt, WarehouseID: wh,
		Lines: []inventory.MovementLineInput{{ItemID: item, Quantity: d(qty), UnitCost: cost}},
	})
	require.NoError(t, err)
	return mov
}

func (f *fixture) create(t *testing.T, kind entity.MovementKind, wh string, lines ...inventory.MovementLineInput) *entity.Movement {
	t.Helper()
	mov, err := f.movements.CreateMovement(context.Background(), inventory.MovementInputDTO{
		TenantID: tenant, Kind: kind, WarehouseID: wh, Lines: lines,
	})
	require.NoError(t, err)
	return mov
}

func (f *fixture) state(t *testing.T, wh, item string) *entity.StockState {
	t.Helper()
	st, err := f.stock.GetStockState(context.Background(), entity.StockKey{TenantID: tenant, ItemID: item, WarehouseID: wh})
	require.NoError(t, err)
	return st
}

func (f *fixture) ledger(t *testing.T, filter entity.LedgerFilter) []entity.LedgerEntry {
	t.Helper()
	filter.TenantID = tenant
	var out []entity.LedgerEntry
	for e, err := range f.stock.QueryLedger(context.Background(), filter) {
		require.NoError(t, err)
		out = append(out, e)
	}
	return out
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []inventory.Event
}

func (p *recordingPublisher) Publish(_ context.Context, evt inventory.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return nil
}

func (p *recordingPublisher) all() []inventory.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]inventory.Event(nil), p.events...)
}
