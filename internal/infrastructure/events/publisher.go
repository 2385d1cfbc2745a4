// Package events publicadores de eventos de inventario posteriores al commit.
package events

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/jhoicas/kardex-api/internal/application/inventory"
)

// LogPublisher escribe cada evento en el log. Es el publicador por defecto sin Redis.
type LogPublisher struct {
	log zerolog.Logger
}

// NewLogPublisher construye el publicador.
func NewLogPublisher(log zerolog.Logger) *LogPublisher {
	return &LogPublisher{log: log.With().Str("component", "events").Logger()}
}

// Publish implementa inventory.EventPublisher.
func (p *LogPublisher) Publish(_ context.Context, evt inventory.Event) error {
	p.log.Info().
		Str("event", string(evt.Type)).
		Str("tenant_id", evt.TenantID).
		Str("entity_id", evt.EntityID).
		Str("reference", evt.Reference).
		Int("entries", len(evt.Entries)).
		Msg("evento de inventario")
	return nil
}

// Fanout reparte el evento a varios publicadores; un fallo no impide los demás.
type Fanout []inventory.EventPublisher

// Publish implementa inventory.EventPublisher.
func (f Fanout) Publish(ctx context.Context, evt inventory.Event) error {
	var errs []error
	for _, p := range f {
		if err := p.Publish(ctx, evt); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
