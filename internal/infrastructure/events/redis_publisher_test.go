package events_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/infrastructure/events"
)

func sampleEvent() inventory.Event {
	return inventory.Event{
		Type:       inventory.EventMovementApplied,
		TenantID:   "t1",
		EntityID:   "mov-1",
		Reference:  "OC-1",
		OccurredAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Entries: []entity.LedgerEntry{{
			Seq: 1, MovementID: "mov-1", ItemID: "i1", WarehouseID: "w1", Kind: entity.MovementKindReceipt,
			QtyIn: decimal.NewFromInt(10), UnitCost: decimal.RequireFromString("2.5"),
			BalanceQty: decimal.NewFromInt(10), BalanceCost: decimal.RequireFromString("2.5"),
		}},
	}
}

func TestRedisPublisher_AgregaEntradaAlStream(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	ctx := context.Background()

	pub := events.NewRedisPublisher(client, "", 100)
	require.NoError(t, pub.Publish(ctx, sampleEvent()))

	msgs, err := client.XRange(ctx, events.DefaultStream, "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "inventory.movement_applied", msgs[0].Values["type"])
	assert.Equal(t, "t1", msgs[0].Values["tenant_id"])

	var body struct {
		Reference string `json:"reference"`
		Entries   []struct {
			UnitCost string `json:"unit_cost"`
		} `json:"entries"`
	}
	require.NoError(t, json.Unmarshal([]byte(msgs[0].Values["payload"].(string)), &body))
	assert.Equal(t, "OC-1", body.Reference)
	require.Len(t, body.Entries, 1)
	assert.Equal(t, "2.5", body.Entries[0].UnitCost)
}

func TestRedisPublisher_ServidorCaido(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	err := events.NewRedisPublisher(client, "s", 0).Publish(context.Background(), sampleEvent())
	assert.Error(t, err)
}

func TestNewRedisClient_Ping(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := events.NewRedisClient(context.Background(), mr.Addr(), "", 0)
	require.NoError(t, err)
	_ = client.Close()
}

type errPublisher struct{ calls *int }

func (p errPublisher) Publish(context.Context, inventory.Event) error {
	*p.calls++
	return errors.New("caído")
}

func TestFanout_ContinuaTrasFalla(t *testing.T) {
	calls := 0
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	f := events.Fanout{errPublisher{&calls}, events.NewLogPublisher(zerolog.Nop()), events.NewRedisPublisher(client, "s", 0)}
	err := f.Publish(context.Background(), sampleEvent())
	assert.Error(t, err)
	assert.Equal(t, 1, calls)

	n, err := client.XLen(context.Background(), "s").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "el publicador de Redis recibe el evento aunque otro falle")
}
