package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/kardex-api/internal/application/inventory"
)

// DefaultStream stream de Redis donde se publican los eventos de inventario.
const DefaultStream = "kardex:events"

// NewRedisClient crea el cliente y verifica conexión con PING.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("events: ping redis: %w", err)
	}
	return client, nil
}

// RedisPublisher publica cada evento como una entrada de un stream (XADD) acotado a MaxLen.
type RedisPublisher struct {
	client *redis.Client
	stream string
	maxLen int64
}

// NewRedisPublisher construye el publicador. stream vacío usa DefaultStream.
func NewRedisPublisher(client *redis.Client, stream string, maxLen int64) *RedisPublisher {
	if stream == "" {
		stream = DefaultStream
	}
	return &RedisPublisher{client: client, stream: stream, maxLen: maxLen}
}

// Publish implementa inventory.EventPublisher.
func (p *RedisPublisher) Publish(ctx context.Context, evt inventory.Event) error {
	payload, err := json.Marshal(toMessage(evt))
	if err != nil {
		return fmt.Errorf("events: serializar %s: %w", evt.Type, err)
	}
	args := &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]any{
			"type":      string(evt.Type),
			"tenant_id": evt.TenantID,
			"entity_id": evt.EntityID,
			"payload":   string(payload),
		},
	}
	if p.maxLen > 0 {
		args.MaxLen = p.maxLen
		args.Approx = true
	}
	if err := p.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("events: xadd %s: %w", p.stream, err)
	}
	return nil
}

type entryMessage struct {
	Seq         int64  `json:"seq"`
	MovementID  string `json:"movement_id"`
	ItemID      string `json:"item_id"`
	WarehouseID string `json:"warehouse_id"`
	Kind        string `json:"kind"`
	QtyIn       string `json:"qty_in"`
	QtyOut      string `json:"qty_out"`
	UnitCost    string `json:"unit_cost"`
	BalanceQty  string `json:"balance_qty"`
	BalanceCost string `json:"balance_cost"`
}

type message struct {
	Type       string         `json:"type"`
	TenantID   string         `json:"tenant_id"`
	EntityID   string         `json:"entity_id"`
	Reference  string         `json:"reference,omitempty"`
	UserID     string         `json:"user_id,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
	Entries    []entryMessage `json:"entries"`
}

func toMessage(evt inventory.Event) message {
	m := message{
		Type:       string(evt.Type),
		TenantID:   evt.TenantID,
		EntityID:   evt.EntityID,
		Reference:  evt.Reference,
		UserID:     evt.UserID,
		OccurredAt: evt.OccurredAt,
		Entries:    make([]entryMessage, 0, len(evt.Entries)),
	}
	for _, e := range evt.Entries {
		m.Entries = append(m.Entries, entryMessage{
			Seq:         e.Seq,
			MovementID:  e.MovementID,
			ItemID:      e.ItemID,
			WarehouseID: e.WarehouseID,
			Kind:        string(e.Kind),
			QtyIn:       e.QtyIn.String(),
			QtyOut:      e.QtyOut.String(),
			UnitCost:    e.UnitCost.String(),
			BalanceQty:  e.BalanceQty.String(),
			BalanceCost: e.BalanceCost.String(),
		})
	}
	return m
}
