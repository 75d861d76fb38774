package services

import (
	"context"
	"time"
)

// simulateLatency espera d antes de responder, imitando uma chamada de rede.
// Retorna o erro do contexto se ele for cancelado antes.
func simulateLatency(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
