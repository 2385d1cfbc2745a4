package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/infrastructure/memory"
)

var key = entity.StockKey{TenantID: "t1", ItemID: "item-1", WarehouseID: "wh-1"}

func TestRun_CommitVisibleDespues(t *testing.T) {
	s := memory.New(0)
	ctx := context.Background()

	err := s.Run(ctx, func(ctx context.Context, r inventory.TxRepos) error {
		st, err := r.Stock.GetForUpdate(ctx, key)
		require.NoError(t, err)
		assert.False(t, st.Existed, "la fila se crea en esta transacción")
		st.Quantity = decimal.NewFromInt(5)
		return r.Stock.Save(ctx, st)
	})
	require.NoError(t, err)

	st, err := s.Stock().Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(5).Equal(st.Quantity))
	assert.True(t, st.Existed)
}

func TestRun_ErrorDescartaEscrituras(t *testing.T) {
	s := memory.New(0)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.Run(ctx, func(ctx context.Context, r inventory.TxRepos) error {
		st, err := r.Stock.GetForUpdate(ctx, key)
		require.NoError(t, err)
		st.Quantity = decimal.NewFromInt(9)
		require.NoError(t, r.Stock.Save(ctx, st))
		require.NoError(t, r.Ledger.Append(ctx, &entity.LedgerEntry{TenantID: "t1", ItemID: "item-1", WarehouseID: "wh-1", Date: time.Now()}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	st, err := s.Stock().Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, st.Quantity.IsZero(), "no debe quedar nada de la transacción revertida")
	assert.False(t, st.Existed)

	page, err := s.Ledger().Page(ctx, entity.LedgerFilter{TenantID: "t1"}, nil, 10)
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestBloqueo_TimeoutEsErrorDeConcurrencia(t *testing.T) {
	s := memory.New(50 * time.Millisecond)
	ctx := context.Background()

	locked := make(chan struct{})
	done := make(chan struct{})
	go func() {
		_ = s.Run(ctx, func(ctx context.Context, r inventory.TxRepos) error {
			_, err := r.Stock.GetForUpdate(ctx, key)
			close(locked)
			<-done
			return err
		})
	}()
	<-locked

	err := s.Run(ctx, func(ctx context.Context, r inventory.TxRepos) error {
		_, err := r.Stock.GetForUpdate(ctx, key)
		return err
	})
	close(done)
	require.ErrorIs(t, err, domain.ErrConcurrency)
	assert.True(t, domain.IsRetryable(err))
}

func TestBloqueo_SeLiberaEnRollback(t *testing.T) {
	s := memory.New(50 * time.Millisecond)
	ctx := context.Background()

	_ = s.Run(ctx, func(ctx context.Context, r inventory.TxRepos) error {
		_, err := r.Stock.GetForUpdate(ctx, key)
		require.NoError(t, err)
		return errors.New("rollback")
	})
	err := s.Run(ctx, func(ctx context.Context, r inventory.TxRepos) error {
		_, err := r.Stock.GetForUpdate(ctx, key)
		return err
	})
	assert.NoError(t, err, "el bloqueo debe liberarse al revertir")
}

func TestPaginaKardex_OrdenFiltroYCursor(t *testing.T) {
	s := memory.New(0)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	// Dos asientos con la misma fecha: desempata Seq
	entries := []entity.LedgerEntry{
		{TenantID: "t1", ItemID: "a", WarehouseID: "w", Date: base.Add(time.Hour)},
		{TenantID: "t1", ItemID: "a", WarehouseID: "w", Date: base},
		{TenantID: "t1", ItemID: "b", WarehouseID: "w", Date: base},
		{TenantID: "t2", ItemID: "a", WarehouseID: "w", Date: base},
	}
	for i := range entries {
		require.NoError(t, s.Ledger().Append(ctx, &entries[i]))
	}

	page, err := s.Ledger().Page(ctx, entity.LedgerFilter{TenantID: "t1"}, nil, 10)
	require.NoError(t, err)
	require.Len(t, page, 3)
	assert.Equal(t, entries[1].Seq, page[0].Seq)
	assert.Equal(t, entries[2].Seq, page[1].Seq)
	assert.Equal(t, entries[0].Seq, page[2].Seq)

	page, err = s.Ledger().Page(ctx, entity.LedgerFilter{TenantID: "t1", ItemID: "a"}, nil, 10)
	require.NoError(t, err)
	assert.Len(t, page, 2)

	first, err := s.Ledger().Page(ctx, entity.LedgerFilter{TenantID: "t1"}, nil, 1)
	require.NoError(t, err)
	require.Len(t, first, 1)
	rest, err := s.Ledger().Page(ctx, entity.LedgerFilter{TenantID: "t1"}, &entity.LedgerCursor{Date: first[0].Date, Seq: first[0].Seq}, 10)
	require.NoError(t, err)
	assert.Len(t, rest, 2)

	from := base.Add(30 * time.Minute)
	page, err = s.Ledger().Page(ctx, entity.LedgerFilter{TenantID: "t1", From: &from}, nil, 10)
	require.NoError(t, err)
	assert.Len(t, page, 1)
}

func TestConsecutivo_EmpiezaEnCero(t *testing.T) {
	s := memory.New(0)
	ctx := context.Background()

	seq, err := s.Sequences().GetForUpdate(ctx, "t1", "entrada")
	require.NoError(t, err)
	assert.Equal(t, int64(0), seq.Value)

	seq.Value = 7
	require.NoError(t, s.Sequences().Save(ctx, seq))
	seq, err = s.Sequences().GetForUpdate(ctx, "t1", "entrada")
	require.NoError(t, err)
	assert.Equal(t, int64(7), seq.Value)
}

func TestMovementRepo_MarcarAplicado(t *testing.T) {
	s := memory.New(0)
	ctx := context.Background()
	mov := &entity.Movement{ID: "m1", TenantID: "t1", Kind: entity.MovementKindReceipt, WarehouseID: "wh-1"}

	require.NoError(t, s.Movements().Create(ctx, mov))
	require.ErrorIs(t, s.Movements().Create(ctx, mov), domain.ErrDuplicate)

	got, err := s.Movements().GetByID(ctx, "t2", "m1")
	require.NoError(t, err)
	assert.Nil(t, got, "otro tenant no ve el movimiento")

	require.NoError(t, s.Movements().MarkApplied(ctx, "t1", "m1"))
	got, err = s.Movements().GetByID(ctx, "t1", "m1")
	require.NoError(t, err)
	assert.True(t, got.Applied)
	require.ErrorIs(t, s.Movements().MarkApplied(ctx, "t1", "nope"), domain.ErrNotFound)
}
