package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/kardex-api/internal/domain"
)

// RetryPolicy reintentos ante deadlock o espera de bloqueo agotada.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     time.Duration
}

// ApplyWithRetry ejecuta fn y la repite desde cero mientras el error sea de concurrencia.
// Es seguro porque aplicar es idempotente sobre applied. Espera Backoff*intento entre intentos.
func ApplyWithRetry(ctx context.Context, p RetryPolicy, fn func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for i := 1; i <= attempts; i++ {
		err = fn(ctx)
		if err == nil || !domain.IsRetryable(err) || i == attempts {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.Backoff * time.Duration(i)):
		}
	}
	return err
}
