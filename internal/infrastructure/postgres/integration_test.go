//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	domaininv "github.com/jhoicas/kardex-api/internal/domain/inventory"
	"github.com/jhoicas/kardex-api/internal/infrastructure/postgres"
)

// ──────────────────────────────────────────────────────────────────────────────
// Base de datos real en contenedor (go test -tags integration)
// ──────────────────────────────────────────────────────────────────────────────

const tenant = "tenant-it"

type pgFixture struct {
	pool      *pgxpool.Pool
	movements *inventory.MovementUseCase
	stock     *inventory.StockUseCase
	sequences *inventory.SequenceUseCase
	items     *postgres.ItemRepo
	whs       *postgres.WarehouseRepo
}

func newPgFixture(t *testing.T) *pgFixture {
	t.Helper()
	return newPgFixtureConPolitica(t, domaininv.Policy{})
}

func newPgFixtureConPolitica(t *testing.T, policy domaininv.Policy) *pgFixture {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("kardex_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "no se pudo iniciar el contenedor PostgreSQL")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	m, err := postgres.NewMigrator(dsn, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, m.Up())
	require.NoError(t, m.Close())

	pool, err := postgres.Open(ctx, dsn, 10, false)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	runner := postgres.NewTxRunner(pool, 2*time.Second)
	items := postgres.NewItemRepository(pool)
	whs := postgres.NewWarehouseRepository(pool)
	engine := inventory.NewCostingEngine(runner, policy, nil, zerolog.Nop())
	transfers := inventory.NewTransferOrchestrator(engine)
	return &pgFixture{
		pool: pool,
		movements: inventory.NewMovementUseCase(runner, items, whs, engine, transfers,
			inventory.RetryPolicy{MaxAttempts: 20, Backoff: 5 * time.Millisecond}),
		stock:     inventory.NewStockUseCase(postgres.NewStockRepository(pool), postgres.NewLedgerRepository(pool), 3),
		sequences: inventory.NewSequenceUseCase(runner),
		items:     items,
		whs:       whs,
	}
}

func (f *pgFixture) item(t *testing.T) string {
	t.Helper()
	id := uuid.NewString()
	require.NoError(t, f.items.Create(context.Background(), &entity.Item{
		ID: id, TenantID: tenant, Description: "material " + id[:8], Active: true,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}))
	return id
}

func (f *pgFixture) warehouse(t *testing.T) string {
	t.Helper()
	id := uuid.NewString()
	require.NoError(t, f.whs.Create(context.Background(), &entity.Warehouse{
		ID: id, TenantID: tenant, Name: "bodega " + id[:8], CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}))
	return id
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

func (f *pgFixture) register(t *testing.T, kind entity.MovementKind, wh, item, qty string, cost *decimal.Decimal) (inventory.ApplyResult, error) {
	t.Helper()
	_, res, err := f.movements.RegisterMovement(context.Background(), inventory.MovementInputDTO{
		TenantID: tenant, Kind: kind, WarehouseID: wh,
		Lines: []inventory.MovementLineInput{{ItemID: item, Quantity: d(qty), UnitCost: cost}},
	})
	return res, err
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestPostgres_PromedioPonderadoYKardex(t *testing.T) {
	f := newPgFixture(t)
	ctx := context.Background()
	wh, it := f.warehouse(t), f.item(t)

	_, err := f.register(t, entity.MovementKindReceipt, wh, it, "100", ptr("10"))
	require.NoError(t, err)
	_, err = f.register(t, entity.MovementKindReceipt, wh, it, "50", ptr("16"))
	require.NoError(t, err)
	_, err = f.register(t, entity.MovementKindIssue, wh, it, "30", nil)
	require.NoError(t, err)

	key := entity.StockKey{TenantID: tenant, ItemID: it, WarehouseID: wh}
	st, err := f.stock.GetStockState(ctx, key)
	require.NoError(t, err)
	assert.True(t, st.Quantity.Equal(d("120")))
	assert.True(t, st.AverageCost.Equal(d("12")), "costo promedio: %s", st.AverageCost)

	var entries []entity.LedgerEntry
	for e, err := range f.stock.QueryLedger(ctx, entity.LedgerFilter{TenantID: tenant, ItemID: it}) {
		require.NoError(t, err)
		entries = append(entries, e)
	}
	require.Len(t, entries, 3)
	for i := 1; i < len(entries); i++ {
		assert.Greater(t, entries[i].Seq, entries[i-1].Seq)
	}
	assert.True(t, entries[2].QtyOut.Equal(d("30")))

	report, err := f.stock.ReplayLedger(ctx, key)
	require.NoError(t, err)
	assert.True(t, report.Consistent)
}

func TestPostgres_SalidaSinExistencia(t *testing.T) {
	f := newPgFixture(t)
	wh, it := f.warehouse(t), f.item(t)

	_, err := f.register(t, entity.MovementKindIssue, wh, it, "1", nil)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var n int
	require.NoError(t, f.pool.QueryRow(context.Background(),
		`SELECT count(*) FROM ledger_entries WHERE item_id = $1`, it).Scan(&n))
	assert.Zero(t, n, "sin asientos tras el rechazo")
}

// Con negativos permitidos el promedio puede quedar negativo y la base lo guarda igual que memoria.
func TestPostgres_EntradaSobreExistenciaNegativa(t *testing.T) {
	f := newPgFixtureConPolitica(t, domaininv.Policy{AllowNegativeStock: true})
	ctx := context.Background()
	wh, it := f.warehouse(t), f.item(t)

	_, err := f.register(t, entity.MovementKindReceipt, wh, it, "10", ptr("20"))
	require.NoError(t, err)
	_, err = f.register(t, entity.MovementKindIssue, wh, it, "20", nil)
	require.NoError(t, err)
	_, err = f.register(t, entity.MovementKindReceipt, wh, it, "11", ptr("1"))
	require.NoError(t, err)

	key := entity.StockKey{TenantID: tenant, ItemID: it, WarehouseID: wh}
	st, err := f.stock.GetStockState(ctx, key)
	require.NoError(t, err)
	assert.True(t, st.Quantity.Equal(d("1")))
	assert.True(t, st.AverageCost.Equal(d("-189")), "costo promedio: %s", st.AverageCost)

	report, err := f.stock.ReplayLedger(ctx, key)
	require.NoError(t, err)
	assert.True(t, report.Consistent)
}

func TestPostgres_AplicarDosVeces(t *testing.T) {
	f := newPgFixture(t)
	ctx := context.Background()
	wh, it := f.warehouse(t), f.item(t)

	mov, err := f.movements.CreateMovement(ctx, inventory.MovementInputDTO{
		TenantID: tenant, Kind: entity.MovementKindReceipt, WarehouseID: wh,
		Lines: []inventory.MovementLineInput{{ItemID: it, Quantity: d("5"), UnitCost: ptr("2")}},
	})
	require.NoError(t, err)

	first, err := f.movements.ApplyMovement(ctx, tenant, mov.ID)
	require.NoError(t, err)
	assert.False(t, first.AlreadyApplied)
	second, err := f.movements.ApplyMovement(ctx, tenant, mov.ID)
	require.NoError(t, err)
	assert.True(t, second.AlreadyApplied)

	st, err := f.stock.GetStockState(ctx, entity.StockKey{TenantID: tenant, ItemID: it, WarehouseID: wh})
	require.NoError(t, err)
	assert.True(t, st.Quantity.Equal(d("5")))
}

func TestPostgres_SalidasConcurrentesNoSobrevenden(t *testing.T) {
	f := newPgFixture(t)
	ctx := context.Background()
	wh, it := f.warehouse(t), f.item(t)
	_, err := f.register(t, entity.MovementKindReceipt, wh, it, "10", ptr("4"))
	require.NoError(t, err)

	var (
		g  errgroup.Group
		ok = make(chan struct{}, 20)
	)
	for range 20 {
		g.Go(func() error {
			_, err := f.register(t, entity.MovementKindIssue, wh, it, "1", nil)
			if err == nil {
				ok <- struct{}{}
				return nil
			}
			if domain.IsRetryable(err) || assert.ErrorIs(t, err, domain.ErrInsufficientStock) {
				return nil
			}
			return err
		})
	}
	require.NoError(t, g.Wait())
	close(ok)
	assert.Len(t, ok, 10)

	st, err := f.stock.GetStockState(ctx, entity.StockKey{TenantID: tenant, ItemID: it, WarehouseID: wh})
	require.NoError(t, err)
	assert.True(t, st.Quantity.IsZero())
}

func TestPostgres_TrasladosCruzados(t *testing.T) {
	f := newPgFixture(t)
	ctx := context.Background()
	whA, whB, it := f.warehouse(t), f.warehouse(t), f.item(t)
	_, err := f.register(t, entity.MovementKindReceipt, whA, it, "50", ptr("10"))
	require.NoError(t, err)
	_, err = f.register(t, entity.MovementKindReceipt, whB, it, "50", ptr("20"))
	require.NoError(t, err)

	var g errgroup.Group
	for i := range 10 {
		src, dst := whA, whB
		if i%2 == 1 {
			src, dst = whB, whA
		}
		g.Go(func() error {
			_, _, err := f.movements.RegisterTransfer(ctx, inventory.TransferInputDTO{
				TenantID: tenant, SourceWarehouseID: src, DestinationWarehouseID: dst,
				Lines: []inventory.TransferLineInput{{ItemID: it, Quantity: d("1")}},
			})
			return err
		})
	}
	require.NoError(t, g.Wait(), "sin deadlocks con el orden global de bloqueo")

	a, err := f.stock.GetStockState(ctx, entity.StockKey{TenantID: tenant, ItemID: it, WarehouseID: whA})
	require.NoError(t, err)
	b, err := f.stock.GetStockState(ctx, entity.StockKey{TenantID: tenant, ItemID: it, WarehouseID: whB})
	require.NoError(t, err)
	assert.True(t, a.Quantity.Add(b.Quantity).Equal(d("100")))
}

func TestPostgres_Consecutivos(t *testing.T) {
	f := newPgFixture(t)
	ctx := context.Background()

	seen := make(chan int64, 30)
	var g errgroup.Group
	for range 30 {
		g.Go(func() error {
			return inventory.ApplyWithRetry(ctx, inventory.RetryPolicy{MaxAttempts: 20, Backoff: 5 * time.Millisecond},
				func(ctx context.Context) error {
					n, err := f.sequences.Next(ctx, tenant, "Factura")
					if err == nil {
						seen <- n
					}
					return err
				})
		})
	}
	require.NoError(t, g.Wait())
	close(seen)
	got := map[int64]bool{}
	for n := range seen {
		assert.False(t, got[n], "consecutivo repetido %d", n)
		got[n] = true
	}
	assert.Len(t, got, 30)
}
